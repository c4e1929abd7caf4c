// Package navigation caches the walkable group and node the avatar stands
// on and clamps movement steps to the nav mesh.
package navigation

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/MTO-Safety/hubs/navmesh"
)

var ErrNoMeshLoaded = errors.New("navigation: no nav mesh loaded")

// Backend is the pathfinding surface the adapter wraps.
type Backend interface {
	GetGroup(zone string, pos mgl64.Vec3, checkPolygon bool) (int, error)
	GetClosestNode(pos mgl64.Vec3, zone string, group int, checkPolygon bool) *navmesh.Node
	ClampStep(start, end mgl64.Vec3, node *navmesh.Node, zone string, group int) (mgl64.Vec3, *navmesh.Node)
}

// State is the cached resolution. Group is only meaningful when HasGroup
// is set; a nil Node means it must be recomputed.
type State struct {
	Group    int
	HasGroup bool
	Node     *navmesh.Node
}

// Adapter resolves positions against one zone of a backend.
type Adapter struct {
	zone    string
	backend Backend
	state   State
	log     *logrus.Entry
}

// NewAdapter returns an adapter with no mesh loaded.
func NewAdapter(zone string, log *logrus.Logger) *Adapter {
	return &Adapter{
		zone: zone,
		log:  log.WithField("component", "navigation"),
	}
}

// SetMesh swaps the backend and drops the cached group and node. A nil
// backend unloads the mesh.
func (a *Adapter) SetMesh(b Backend) {
	a.backend = b
	a.Invalidate()
	if b == nil {
		a.log.Debug("nav mesh unloaded")
		return
	}
	a.log.WithField("zone", a.zone).Debug("nav mesh loaded")
}

// HasMesh reports whether a backend is loaded.
func (a *Adapter) HasMesh() bool {
	return a.backend != nil
}

// Invalidate forces the next lookup to resolve group and node again.
func (a *Adapter) Invalidate() {
	a.state = State{}
}

// State returns the cached resolution.
func (a *Adapter) State() State {
	return a.state
}

// ResolveGroup returns the walkable group for pos.
func (a *Adapter) ResolveGroup(pos mgl64.Vec3) (int, error) {
	if a.backend == nil {
		return -1, ErrNoMeshLoaded
	}
	return a.backend.GetGroup(a.zone, pos, true)
}

// ResolveNode returns the node of group closest to pos, preferring nodes
// that contain it. It returns nil when nothing resolves.
func (a *Adapter) ResolveNode(group int, pos mgl64.Vec3) *navmesh.Node {
	if a.backend == nil {
		return nil
	}
	if n := a.backend.GetClosestNode(pos, a.zone, group, true); n != nil {
		return n
	}
	return a.backend.GetClosestNode(pos, a.zone, group, false)
}

// ClampStep projects the step from start to end onto the walkable surface.
func (a *Adapter) ClampStep(start, end mgl64.Vec3, node *navmesh.Node) (mgl64.Vec3, *navmesh.Node) {
	if a.backend == nil || node == nil {
		return end, node
	}
	return a.backend.ClampStep(start, end, node, a.zone, a.state.Group)
}

// FindPositionOnNavMesh moves from start towards end on the mesh, using
// and updating the cached group and node. Without a mesh, or when no node
// resolves, end is returned unchanged.
func (a *Adapter) FindPositionOnNavMesh(start, end mgl64.Vec3, forceRecompute bool) mgl64.Vec3 {
	if a.backend == nil {
		return end
	}
	if forceRecompute || !a.state.HasGroup {
		g, err := a.ResolveGroup(end)
		if err != nil {
			a.log.WithError(err).Warn("resolve group")
			a.state = State{}
			return end
		}
		if g != a.state.Group || !a.state.HasGroup {
			a.state.Node = nil
		}
		a.state.Group, a.state.HasGroup = g, true
	}
	if forceRecompute || a.state.Node == nil {
		a.state.Node = a.ResolveNode(a.state.Group, end)
	}
	if a.state.Node == nil {
		return end
	}
	out, node := a.ClampStep(start, end, a.state.Node)
	a.state.Node = node
	return out
}
