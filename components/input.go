package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"

	cfg "github.com/MTO-Safety/hubs/config"
)

// InputMethod represents the type of input device being used
type InputMethod int

const (
	InputKeyboard InputMethod = iota
	InputXbox
	InputPlayStation
)

// ActionState represents the temporal state of an action
type ActionState struct {
	Pressed      bool // Currently held down
	JustPressed  bool // Pressed this frame
	JustReleased bool // Released this frame
}

// HandData is the simulated left hand controller.
type HandData struct {
	Lift    float64    // 0 at rest, 1 fully raised
	Euler   mgl64.Vec3 // radians, XYZ order
	Tracked bool
}

// InputData stores the current and previous frame's pressed state for all actions.
// JustPressed/JustReleased are computed on-demand by comparing frames.
type InputData struct {
	Current         [cfg.ActionCount]bool // Current frame's Pressed state
	Previous        [cfg.ActionCount]bool // Previous frame's Pressed state
	AccelX, AccelY  float64               // strafe right, forward
	Hand            HandData
	LastInputMethod InputMethod // Most recently used input method
	Suspended       bool        // chat line has focus
}

var Input = donburi.NewComponentType[InputData]()
