package netcomponents

import (
	"github.com/leap-fish/necs/esync"
	"github.com/zeebo/xxh3"
)

// ObjectNetID derives the network id every peer agrees on for a named
// object in a room.
func ObjectNetID(room, name string) esync.NetworkId {
	return esync.NetworkId(xxh3.HashString(room + "/" + name))
}
