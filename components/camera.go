package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// CameraData is the ground-plane point (world X, Z) at the center of the
// room view.
type CameraData struct {
	Center mgl64.Vec2
}

var Camera = donburi.NewComponentType[CameraData]()
