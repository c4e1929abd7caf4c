package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/MTO-Safety/hubs/posemath"
	"github.com/MTO-Safety/hubs/waypoint"
)

func TestRoomViewUnprojectInvertsPoint(t *testing.T) {
	v := roomView{originX: 120, originY: -40, ppm: 32}
	p := mgl64.Vec3{3.25, 0.4, 7.5}
	sx, sy := v.point(p)
	got := v.unproject(float64(sx), float64(sy), p.Y())
	if !got.ApproxEqualThreshold(p, 1e-4) {
		t.Fatalf("unproject = %v, want %v", got, p)
	}
}

func TestTeleportToCursor(t *testing.T) {
	ctrl := sessionController(t, &Session{Room: newLocal()})
	v := roomView{originX: 0, originY: 0, ppm: 10}

	if !teleportToCursor(ctrl, v, 40, 25) {
		t.Fatal("teleport refused")
	}
	rig := posemath.Position(ctrl.Pose().Rig)
	if !rig.ApproxEqualThreshold(mgl64.Vec3{4, 0, 2.5}, 1e-9) {
		t.Fatalf("rig = %v, want (4,0,2.5)", rig)
	}

	ctrl.EnqueueWaypointTravelTo(mgl64.Translate3D(8, 0, 8), false, waypoint.Flags{})
	if teleportToCursor(ctrl, v, 10, 10) {
		t.Fatal("teleport should wait for waypoint travel")
	}
}
