package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi/ecs"

	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/controller"
	"github.com/MTO-Safety/hubs/posemath"
)

// NewPointerSystem drives the avatar from the mouse. Dragging with the left
// button turns in place, the wheel nudges forward or back and a right click
// teleports onto the floor under the cursor.
// Must run BEFORE the locomotion system.
func NewPointerSystem(ctrl *controller.Controller) func(*ecs.ECS) {
	var lastX int
	dragging := false
	return func(e *ecs.ECS) {
		if getOrCreateInput(e).Suspended {
			dragging = false
			return
		}

		x, y := ebiten.CursorPosition()
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			if dragging && x != lastX {
				ctrl.EnqueueInPlaceRotationAroundWorldUp(-float64(x-lastX) * cfg.Input.MouseTurnRate)
			}
			lastX, dragging = x, true
		} else {
			dragging = false
		}

		if _, wy := ebiten.Wheel(); wy != 0 {
			ctrl.EnqueueRelativeMotion(mgl64.Vec3{0, 0, wy * cfg.Input.WheelStep})
		}

		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			roomEntry, ok := components.Room.First(e.World)
			if !ok {
				return
			}
			view := roomViewSized(e.World, components.Room.Get(roomEntry), float64(cfg.C.Width), float64(cfg.C.Height))
			teleportToCursor(ctrl, view, float64(x), float64(y))
		}
	}
}

// teleportToCursor moves the avatar to the floor point under the cursor.
// Waypoint travel and waypoints that lock teleporting refuse it.
func teleportToCursor(ctrl *controller.Controller, view roomView, x, y float64) bool {
	if ctrl.Traveling() || ctrl.IsTeleportingDisabled() {
		return false
	}
	feet := posemath.Position(ctrl.Pose().Rig).Y()
	ctrl.TeleportTo(view.unproject(x, y, feet))
	return true
}
