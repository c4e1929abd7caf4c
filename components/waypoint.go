package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"

	"github.com/MTO-Safety/hubs/waypoint"
)

// WaypointData is a teleport destination authored in the room.
type WaypointData struct {
	Name      string
	Transform mgl64.Mat4
	IsSpawn   bool
	IsInstant bool
	Flags     waypoint.Flags
	Occupied  bool
}

var Waypoint = donburi.NewComponentType[WaypointData]()
