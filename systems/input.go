package systems

import (
	"strings"

	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
)

// Reusable slice for gamepad IDs to avoid allocations
var gamepadIDs []ebiten.GamepadID

// Cache controller types to avoid string allocation every frame
var controllerTypeCache = make(map[ebiten.GamepadID]components.InputMethod)

// UpdateInput polls raw input and updates the InputComponent.
// Must run BEFORE UpdateLocomotion in the system order.
func UpdateInput(ecs *ecs.ECS) {
	input := getOrCreateInput(ecs)

	// Swap buffers: current becomes previous, then zero out current
	input.Previous = input.Current
	input.Current = [cfg.ActionCount]bool{}
	input.AccelX, input.AccelY = 0, 0

	if input.Suspended {
		// The chat line owns the keyboard; only closing it is polled.
		for _, key := range cfg.Input.Bindings[cfg.ActionCloseChat].Keys {
			if ebiten.IsKeyPressed(key) {
				input.Current[cfg.ActionCloseChat] = true
			}
		}
		return
	}

	// Get connected gamepads
	gamepadIDs = ebiten.AppendGamepadIDs(gamepadIDs[:0])

	// Track which input method was used this frame
	var keyboardUsed, gamepadUsed bool
	var activeGamepadID ebiten.GamepadID

	// Poll all actions - only set Pressed state
	for actionID, binding := range cfg.Input.Bindings {
		// Check keyboard keys
		for _, key := range binding.Keys {
			if ebiten.IsKeyPressed(key) {
				input.Current[actionID] = true
				keyboardUsed = true
			}
		}

		// Check gamepad buttons
		for _, gpID := range gamepadIDs {
			if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
				continue
			}
			for _, btn := range binding.StandardGamepadButtons {
				if ebiten.IsStandardGamepadButtonPressed(gpID, btn) {
					input.Current[actionID] = true
					gamepadUsed = true
					activeGamepadID = gpID
				}
			}
		}
	}

	// Digital movement gives full acceleration on each axis
	input.AccelX = axis(input.Current[cfg.ActionStrafeRight], input.Current[cfg.ActionStrafeLeft])
	input.AccelY = axis(input.Current[cfg.ActionMoveForward], input.Current[cfg.ActionMoveBackward])

	// Analog stick overrides digital input when outside the deadzone
	if x, y, gpID, ok := getAnalogStickState(gamepadIDs); ok {
		input.AccelX, input.AccelY = x, -y
		gamepadUsed = true
		activeGamepadID = gpID
	}

	input.Hand = readHand(gamepadIDs)
	if input.Hand.Tracked {
		gamepadUsed = true
	}

	// Update last input method - gamepad takes priority if both used
	if gamepadUsed {
		input.LastInputMethod = getControllerType(activeGamepadID)
	} else if keyboardUsed {
		input.LastInputMethod = components.InputKeyboard
	}
}

func axis(pos, neg bool) float64 {
	switch {
	case pos && !neg:
		return 1
	case neg && !pos:
		return -1
	}
	return 0
}

// getControllerType returns cached controller type, detecting on first access
func getControllerType(gpID ebiten.GamepadID) components.InputMethod {
	if method, ok := controllerTypeCache[gpID]; ok {
		return method
	}

	// Detect and cache controller type
	name := strings.ToLower(ebiten.GamepadName(gpID))
	var method components.InputMethod
	if strings.Contains(name, "ps4") || strings.Contains(name, "ps5") ||
		strings.Contains(name, "playstation") || strings.Contains(name, "dualshock") ||
		strings.Contains(name, "dualsense") {
		method = components.InputPlayStation
	} else {
		// Default gamepad to Xbox-style
		method = components.InputXbox
	}

	controllerTypeCache[gpID] = method
	return method
}

// getAnalogStickState reads the left analog stick from the first gamepad
// pushed past the deadzone
func getAnalogStickState(gamepads []ebiten.GamepadID) (x, y float64, activeGpID ebiten.GamepadID, ok bool) {
	deadzone := cfg.Input.AnalogDeadzone

	for _, gpID := range gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
			continue
		}

		horizontal := ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickHorizontal)
		vertical := ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickVertical)

		if mgl64.Abs(horizontal) > deadzone || mgl64.Abs(vertical) > deadzone {
			return horizontal, vertical, gpID, true
		}
	}

	return 0, 0, 0, false
}

// readHand simulates the left hand controller from the right stick and
// trigger of the first standard gamepad. Pushing the stick up and to the
// side rolls the hand past the rest gesture threshold.
func readHand(gamepads []ebiten.GamepadID) components.HandData {
	for _, gpID := range gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
			continue
		}
		horizontal := ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisRightStickHorizontal)
		vertical := ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisRightStickVertical)
		lift := ebiten.StandardGamepadButtonValue(gpID, ebiten.StandardGamepadButtonFrontBottomRight)
		return components.HandData{
			Lift: mgl64.Clamp(lift, 0, 1),
			Euler: mgl64.Vec3{
				vertical * cfg.Input.HandStickScale,
				0,
				horizontal * cfg.Input.HandStickScale,
			},
			Tracked: true,
		}
	}
	return components.HandData{}
}

// getOrCreateInput returns the singleton Input component, creating if needed
func getOrCreateInput(ecs *ecs.ECS) *components.InputData {
	entry, ok := components.Input.First(ecs.World)
	if !ok {
		entry = ecs.World.Entry(ecs.World.Create(components.Input))
		// Zero-value InputData is correct (all bools false)
	}
	return components.Input.Get(entry)
}

// GetAction returns the full ActionState for an action ID.
// JustPressed/JustReleased are derived from current vs previous frame.
func GetAction(input *components.InputData, id cfg.ActionID) components.ActionState {
	curr := input.Current[id]
	prev := input.Previous[id]
	return components.ActionState{
		Pressed:      curr,
		JustPressed:  curr && !prev,
		JustReleased: !curr && prev,
	}
}

// InputProvider exposes the polled input to the controller and the desk
// machine. Edge-triggered actions report true only on the press frame.
type InputProvider struct {
	ecs *ecs.ECS
}

func NewInputProvider(e *ecs.ECS) *InputProvider {
	return &InputProvider{ecs: e}
}

func (p *InputProvider) Get(id cfg.ActionID) bool {
	input := getOrCreateInput(p.ecs)
	if input.Suspended && id != cfg.ActionCloseChat {
		return false
	}
	state := GetAction(input, id)
	if cfg.EdgeTriggered[id] {
		return state.JustPressed
	}
	return state.Pressed
}

func (p *InputProvider) CharacterAcceleration() (x, y float64) {
	input := getOrCreateInput(p.ecs)
	if input.Suspended {
		return 0, 0
	}
	return input.AccelX, input.AccelY
}

// Hand returns the simulated hand state.
func (p *InputProvider) Hand() components.HandData {
	return getOrCreateInput(p.ecs).Hand
}
