package messages

import "github.com/leap-fish/necs/esync"

// TakeOwnership asks the room to make the sender the owner of an object.
type TakeOwnership struct {
	ObjectID esync.NetworkId
}

// OwnershipChanged is broadcast when an object's owner changes.
type OwnershipChanged struct {
	ObjectID esync.NetworkId
	Owner    string // session id
}

// DeskMoved publishes a new desk height from its owner.
type DeskMoved struct {
	ObjectID esync.NetworkId
	Height   float64
}
