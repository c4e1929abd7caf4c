package navmesh

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// twoRooms is a corridor joining two rooms plus an unreachable island.
func twoRooms(t *testing.T) *Mesh {
	t.Helper()
	m, err := Build("character", []Rect{
		{MinX: 0, MinZ: 0, MaxX: 4, MaxZ: 4},            // 0: room A
		{MinX: 4, MinZ: 1.5, MaxX: 8, MaxZ: 2.5},        // 1: corridor
		{MinX: 8, MinZ: 0, MaxX: 12, MaxZ: 4, Y: 0.2},   // 2: room B, small step up
		{MinX: 20, MinZ: 20, MaxX: 22, MaxZ: 22, Y: 3},  // 3: island
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func TestBuildGroups(t *testing.T) {
	m := twoRooms(t)
	z, _ := m.Zone("character")
	if len(z.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(z.Groups))
	}
	if z.Nodes[0].Group != z.Nodes[2].Group {
		t.Fatalf("rooms joined by the corridor should share a group")
	}
	if z.Nodes[3].Group == z.Nodes[0].Group {
		t.Fatalf("island should be its own group")
	}
}

func TestBuildRejectsEmptyZone(t *testing.T) {
	if _, err := Build("character", nil); !errors.Is(err, ErrEmptyZone) {
		t.Fatalf("err = %v, want ErrEmptyZone", err)
	}
}

func TestStepTooHighSplitsGroups(t *testing.T) {
	m, err := Build("character", []Rect{
		{MinX: 0, MinZ: 0, MaxX: 2, MaxZ: 2},
		{MinX: 2, MinZ: 0, MaxX: 4, MaxZ: 2, Y: 1},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	z, _ := m.Zone("character")
	if len(z.Groups) != 2 {
		t.Fatalf("a 1m ledge should not connect nodes, got %d groups", len(z.Groups))
	}
}

func TestGetGroupUnknownZone(t *testing.T) {
	m := twoRooms(t)
	if _, err := m.GetGroup("flying", mgl64.Vec3{}, true); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("err = %v, want ErrUnknownZone", err)
	}
}

func TestGetClosestNodeContaining(t *testing.T) {
	m := twoRooms(t)
	p := mgl64.Vec3{6, 0, 2}
	g, err := m.GetGroup("character", p, true)
	if err != nil {
		t.Fatalf("GetGroup: %v", err)
	}
	n := m.GetClosestNode(p, "character", g, true)
	if n == nil || n.ID != 1 {
		t.Fatalf("node = %+v, want corridor", n)
	}
}

func TestGetClosestNodeOutside(t *testing.T) {
	m := twoRooms(t)
	p := mgl64.Vec3{-3, 0, 2}
	g, _ := m.GetGroup("character", p, true)
	n := m.GetClosestNode(p, "character", g, true)
	if n == nil || n.ID != 0 {
		t.Fatalf("node = %+v, want room A", n)
	}
}

func TestGetClosestNodeMissingGroup(t *testing.T) {
	m := twoRooms(t)
	if n := m.GetClosestNode(mgl64.Vec3{}, "character", 9, true); n != nil {
		t.Fatalf("expected nil for missing group, got %+v", n)
	}
}

func TestClampStepInsideIsUnchanged(t *testing.T) {
	m := twoRooms(t)
	z, _ := m.Zone("character")
	start, end := mgl64.Vec3{1, 0, 1}, mgl64.Vec3{2, 0, 3}
	got, node := m.ClampStep(start, end, z.Nodes[0], "character", z.Nodes[0].Group)
	if !got.ApproxEqual(end) || node.ID != 0 {
		t.Fatalf("got %v on node %d, want %v on node 0", got, node.ID, end)
	}
}

func TestClampStepSlidesAlongWall(t *testing.T) {
	m := twoRooms(t)
	z, _ := m.Zone("character")
	start, end := mgl64.Vec3{1, 0, 3.5}, mgl64.Vec3{2, 0, 5}
	got, _ := m.ClampStep(start, end, z.Nodes[0], "character", z.Nodes[0].Group)

	want := mgl64.Vec3{2, 0, 4}
	if !got.ApproxEqual(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got.Sub(start).Len() >= end.Sub(start).Len() {
		t.Fatalf("clamped point is not closer to start than the raw end")
	}
}

func TestClampStepFollowsCorridor(t *testing.T) {
	m := twoRooms(t)
	z, _ := m.Zone("character")
	start, end := mgl64.Vec3{3.9, 0, 2}, mgl64.Vec3{4.5, 0, 2}
	got, node := m.ClampStep(start, end, z.Nodes[0], "character", z.Nodes[0].Group)
	if node.ID != 1 || !got.ApproxEqual(end) {
		t.Fatalf("got %v on node %d, want %v on corridor", got, node.ID, end)
	}
}

func TestClampStepDoesNotTunnel(t *testing.T) {
	m := twoRooms(t)
	z, _ := m.Zone("character")
	// A big step from room A straight across the void into room B's z range
	// but outside the corridor: the step box covers the corridor only
	// partially, so the result must stay on walkable ground.
	start, end := mgl64.Vec3{3.5, 0, 0.5}, mgl64.Vec3{9, 0, 0.5}
	got, node := m.ClampStep(start, end, z.Nodes[0], "character", z.Nodes[0].Group)
	if !node.Rect.Contains(got.X(), got.Z()) {
		t.Fatalf("result %v is not on its node %+v", got, node.Rect)
	}
	if got.Y() != node.Rect.Y {
		t.Fatalf("result height %v not on surface %v", got.Y(), node.Rect.Y)
	}
}

func TestClampStepDoesNotCutCorners(t *testing.T) {
	m, err := Build("character", []Rect{
		{MinX: 0, MinZ: 0, MaxX: 1, MaxZ: 1}, // 0
		{MinX: 1, MinZ: 0, MaxX: 2, MaxZ: 1}, // 1
		{MinX: 1, MinZ: 1, MaxX: 2, MaxZ: 2}, // 2, the quadrant above 0 is open
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	z, _ := m.Zone("character")
	start, end := mgl64.Vec3{0.5, 0, 0.5}, mgl64.Vec3{1.05, 0, 1.2}
	got, node := m.ClampStep(start, end, z.Nodes[0], "character", z.Nodes[0].Group)
	if node.ID != 0 {
		t.Fatalf("step across the open quadrant ended on node %d at %v", node.ID, got)
	}
	if want := (mgl64.Vec3{1, 0, 1}); !got.ApproxEqual(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// Going around through node 1 still reaches node 2.
	got, node = m.ClampStep(mgl64.Vec3{1.5, 0, 0.5}, mgl64.Vec3{1.5, 0, 1.5}, z.Nodes[1], "character", z.Nodes[1].Group)
	if node.ID != 2 || !got.ApproxEqual(mgl64.Vec3{1.5, 0, 1.5}) {
		t.Fatalf("got %v on node %d, want (1.5,0,1.5) on node 2", got, node.ID)
	}
}

func TestClampStepOffSurfaceEnd(t *testing.T) {
	m, err := Build("character", []Rect{
		{MinX: 0, MinZ: 0, MaxX: 1, MaxZ: 1},
		{MinX: 1, MinZ: 0, MaxX: 2, MaxZ: 1},
		{MinX: 1, MinZ: 1, MaxX: 2, MaxZ: 2},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	z, _ := m.Zone("character")
	got, _ := m.ClampStep(mgl64.Vec3{0.5, 0, 0.5}, mgl64.Vec3{0.5, 0, 1.5}, z.Nodes[0], "character", z.Nodes[0].Group)
	if want := (mgl64.Vec3{0.5, 0, 1}); !got.ApproxEqual(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
