package config

import "github.com/hajimehoshi/ebiten/v2"

// ActionID represents a logical avatar action
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMoveForward
	ActionMoveBackward
	ActionStrafeLeft
	ActionStrafeRight
	ActionBoost
	ActionToggleFly
	ActionSnapRotateLeft
	ActionSnapRotateRight
	ActionRaiseNearestDesk
	ActionLowerNearestDesk
	ActionNextWaypoint
	ActionOpenChat
	ActionCloseChat
	ActionCount // Must be last - used for array sizing
)

// Actions that fire once per press rather than while held
var EdgeTriggered = map[ActionID]bool{
	ActionToggleFly:       true,
	ActionSnapRotateLeft:  true,
	ActionSnapRotateRight: true,
	ActionNextWaypoint:    true,
	ActionOpenChat:        true,
	ActionCloseChat:       true,
}

// InputBinding represents a single key or button binding for an action
type InputBinding struct {
	Keys                   []ebiten.Key
	StandardGamepadButtons []ebiten.StandardGamepadButton
}

// InputConfig holds all input mappings
type InputConfig struct {
	Bindings map[ActionID]InputBinding
	// Deadzone for analog stick input (0.0 to 1.0)
	AnalogDeadzone float64
	// Gamepad stick roll/pitch simulate the resting hand controller
	HandStickScale float64
	// Hand height above the rig at rest and its extra reach at full trigger
	HandBaseHeight float64
	HandReach      float64
	// Mouse drag turn rate in radians per pixel and wheel impulse per notch
	MouseTurnRate float64
	WheelStep     float64
}

// Input is the global input configuration
var Input InputConfig

func init() {
	Input = InputConfig{
		AnalogDeadzone: 0.25,
		HandStickScale: 3.5,
		HandBaseHeight: 0.9,
		HandReach:      0.5,
		MouseTurnRate:  0.006,
		WheelStep:      2,
		Bindings: map[ActionID]InputBinding{
			ActionMoveForward: {
				Keys: []ebiten.Key{ebiten.KeyW, ebiten.KeyUp},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonLeftTop,
				},
			},
			ActionMoveBackward: {
				Keys: []ebiten.Key{ebiten.KeyS, ebiten.KeyDown},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonLeftBottom,
				},
			},
			ActionStrafeLeft: {
				Keys: []ebiten.Key{ebiten.KeyA},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonLeftLeft,
				},
			},
			ActionStrafeRight: {
				Keys: []ebiten.Key{ebiten.KeyD},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonLeftRight,
				},
			},
			ActionBoost: {
				Keys: []ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyShiftRight},
				// Left stick click
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonLeftStick,
				},
			},
			ActionToggleFly: {
				Keys: []ebiten.Key{ebiten.KeyG},
				// Y / Triangle button
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonRightTop,
				},
			},
			ActionSnapRotateLeft: {
				Keys: []ebiten.Key{ebiten.KeyQ, ebiten.KeyLeft},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonFrontTopLeft,
				},
			},
			ActionSnapRotateRight: {
				Keys: []ebiten.Key{ebiten.KeyE, ebiten.KeyRight},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonFrontTopRight,
				},
			},
			ActionRaiseNearestDesk: {
				Keys: []ebiten.Key{ebiten.KeyR},
				// B / Circle button
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonRightRight,
				},
			},
			ActionLowerNearestDesk: {
				Keys: []ebiten.Key{ebiten.KeyF},
				// X / Square button
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonRightLeft,
				},
			},
			ActionNextWaypoint: {
				Keys: []ebiten.Key{ebiten.KeyTab},
				// A / Cross button
				StandardGamepadButtons: []ebiten.StandardGamepadButton{
					ebiten.StandardGamepadButtonRightBottom,
				},
			},
			ActionOpenChat: {
				Keys: []ebiten.Key{ebiten.KeyEnter, ebiten.KeySlash},
			},
			ActionCloseChat: {
				Keys: []ebiten.Key{ebiten.KeyEscape},
			},
		},
	}
}
