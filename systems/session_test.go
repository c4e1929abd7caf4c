package systems

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/controller"
	"github.com/MTO-Safety/hubs/navigation"
	"github.com/MTO-Safety/hubs/posemath"
	"github.com/MTO-Safety/hubs/waypoint"
)

type silentCues struct{}

func (silentCues) PlayOneShot(cfg.SoundID) {}

type noWaypoints struct{}

func (noWaypoints) ReleaseAnyOccupiedWaypoints() {}

func sessionController(t *testing.T, s *Session) *controller.Controller {
	t.Helper()
	e := ecs.NewECS(donburi.NewWorld())
	return controller.New(controller.Deps{
		Input:       NewInputProvider(e),
		Nav:         navigation.NewAdapter(cfg.Locomotion.NavZone, quietLog()),
		Audio:       silentCues{},
		Prefs:       NewPreferenceStore(DefaultPreferences(), func(SavedPreferences) error { return nil }),
		Permissions: s.Room,
		Waypoints:   noWaypoints{},
		Session:     s,
	}, cfg.Locomotion, cfg.Waypoint, quietLog())
}

func TestGhostSessionTicksBeforeEntering(t *testing.T) {
	room := newLocal()
	_ = room.Leave()
	target := mgl64.Translate3D(3, 0, 0)

	for _, tt := range []struct {
		name  string
		ghost bool
		moved bool
	}{
		{"ghost", true, true},
		{"outside", false, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{Room: room, Ghost: tt.ghost, ImmersiveMode: true}
			ctrl := sessionController(t, s)
			ctrl.EnqueueWaypointTravelTo(target, false, waypoint.Flags{})
			ctrl.Tick(0, 16*time.Millisecond)

			rig := posemath.Position(ctrl.Pose().Rig)
			if moved := rig.X() > 2; moved != tt.moved {
				t.Fatalf("rig = %v, moved = %v, want %v", rig, moved, tt.moved)
			}
		})
	}
}

func TestImmersiveSessionTravelsInstantly(t *testing.T) {
	target := mgl64.Translate3D(10, 0, 0)
	for _, immersive := range []bool{true, false} {
		s := &Session{Room: newLocal(), ImmersiveMode: immersive}
		ctrl := sessionController(t, s)
		ctrl.EnqueueWaypointTravelTo(target, false, waypoint.Flags{})
		ctrl.Tick(0, 16*time.Millisecond)

		if ctrl.Traveling() == immersive {
			t.Fatalf("immersive=%v: traveling after one tick = %v", immersive, ctrl.Traveling())
		}
	}
}

func TestMobileSessionMotionLock(t *testing.T) {
	target := mgl64.Translate3D(1, 0, 0)
	for _, mobile := range []bool{false, true} {
		s := &Session{Room: newLocal(), MobileMode: mobile}
		ctrl := sessionController(t, s)
		ctrl.EnqueueWaypointTravelTo(target, true, waypoint.Flags{WillDisableMotion: true})
		ctrl.Tick(0, 16*time.Millisecond)

		if ctrl.IsMotionDisabled() == mobile {
			t.Fatalf("mobile=%v: motion disabled = %v", mobile, ctrl.IsMotionDisabled())
		}
	}
}
