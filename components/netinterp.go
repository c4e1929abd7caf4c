package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// NetInterpData stores interpolation state for smooth rendering of remote
// networked entities between server snapshots.
type NetInterpData struct {
	Prev, Target       mgl64.Vec3
	PrevYaw, TargetYaw float64
	T                  float64
	Initialized        bool
}

var NetInterp = donburi.NewComponentType[NetInterpData]()
