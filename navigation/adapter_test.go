package navigation

import (
	"errors"
	"io"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/MTO-Safety/hubs/navmesh"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func roomMesh(t *testing.T) *navmesh.Mesh {
	t.Helper()
	m, err := navmesh.Build("character", []navmesh.Rect{
		{MinX: 0, MinZ: 0, MaxX: 4, MaxZ: 4},
		{MinX: 4, MinZ: 1.5, MaxX: 8, MaxZ: 2.5},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

// countingBackend wraps a mesh and counts group lookups.
type countingBackend struct {
	*navmesh.Mesh
	groupCalls int
}

func (c *countingBackend) GetGroup(zone string, pos mgl64.Vec3, checkPolygon bool) (int, error) {
	c.groupCalls++
	return c.Mesh.GetGroup(zone, pos, checkPolygon)
}

func TestNoMeshIsPassThrough(t *testing.T) {
	a := NewAdapter("character", quietLogger())
	end := mgl64.Vec3{100, 5, -3}
	if got := a.FindPositionOnNavMesh(mgl64.Vec3{}, end, true); got != end {
		t.Fatalf("got %v, want pass-through %v", got, end)
	}
	if _, err := a.ResolveGroup(end); !errors.Is(err, ErrNoMeshLoaded) {
		t.Fatalf("err = %v, want ErrNoMeshLoaded", err)
	}
	if n := a.ResolveNode(0, end); n != nil {
		t.Fatalf("node = %+v, want nil", n)
	}
}

func TestFindPositionClampsOffMesh(t *testing.T) {
	a := NewAdapter("character", quietLogger())
	a.SetMesh(roomMesh(t))

	start, end := mgl64.Vec3{2, 0, 3.5}, mgl64.Vec3{2, 0, 6}
	got := a.FindPositionOnNavMesh(start, end, false)
	if got.Z() > 4 {
		t.Fatalf("got %v, expected to stay on the mesh", got)
	}
	if got.Sub(start).Len() >= end.Sub(start).Len() {
		t.Fatalf("clamped %v is not closer to start than %v", got, end)
	}
	if s := a.State(); !s.HasGroup || s.Node == nil {
		t.Fatalf("state not cached: %+v", s)
	}
}

func TestCacheSkipsGroupLookup(t *testing.T) {
	b := &countingBackend{Mesh: roomMesh(t)}
	a := NewAdapter("character", quietLogger())
	a.SetMesh(b)

	a.FindPositionOnNavMesh(mgl64.Vec3{1, 0, 1}, mgl64.Vec3{1.1, 0, 1}, false)
	a.FindPositionOnNavMesh(mgl64.Vec3{1.1, 0, 1}, mgl64.Vec3{1.2, 0, 1}, false)
	if b.groupCalls != 1 {
		t.Fatalf("group lookups = %d, want 1 while cached", b.groupCalls)
	}
	a.FindPositionOnNavMesh(mgl64.Vec3{1.2, 0, 1}, mgl64.Vec3{1.3, 0, 1}, true)
	if b.groupCalls != 2 {
		t.Fatalf("group lookups = %d, want 2 after a forced recompute", b.groupCalls)
	}
}

func TestSetMeshInvalidatesBoth(t *testing.T) {
	a := NewAdapter("character", quietLogger())
	a.SetMesh(roomMesh(t))
	a.FindPositionOnNavMesh(mgl64.Vec3{1, 0, 1}, mgl64.Vec3{1, 0, 1}, false)

	a.SetMesh(roomMesh(t))
	if s := a.State(); s.HasGroup || s.Node != nil {
		t.Fatalf("state after reload = %+v, want empty", s)
	}

	a.FindPositionOnNavMesh(mgl64.Vec3{1, 0, 1}, mgl64.Vec3{1, 0, 1}, false)
	a.Invalidate()
	if s := a.State(); s.HasGroup || s.Node != nil {
		t.Fatalf("state after Invalidate = %+v, want empty", s)
	}
}

func TestUnloadMesh(t *testing.T) {
	a := NewAdapter("character", quietLogger())
	a.SetMesh(roomMesh(t))
	a.SetMesh(nil)
	if a.HasMesh() {
		t.Fatalf("HasMesh after unloading")
	}
}
