package components

import (
	"github.com/yohamta/donburi"

	"github.com/MTO-Safety/hubs/navmesh"
	"github.com/MTO-Safety/hubs/shared/leveldata"
)

// RoomData is the loaded room (singleton).
type RoomData struct {
	Data     *leveldata.RoomData
	Mesh     *navmesh.Mesh
	SceneURL string
	HubName  string
	NavDebug bool
}

var Room = donburi.NewComponentType[RoomData]()
