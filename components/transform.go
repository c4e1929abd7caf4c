package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// TransformData is an object's placement in the room. Position is the
// center of the footprint with Y at the top surface.
type TransformData struct {
	Position mgl64.Vec3
	Yaw      float64
	Size     mgl64.Vec3 // width, height, depth
}

var Transform = donburi.NewComponentType[TransformData]()
