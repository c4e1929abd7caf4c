package components

import (
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// ObjectData identifies a scene-authored object across clients.
type ObjectData struct {
	Name       string
	ObjectType string
	NetID      esync.NetworkId
}

var Object = donburi.NewComponentType[ObjectData]()
