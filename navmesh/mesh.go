// Package navmesh is the walkable-surface backend used by the navigation
// adapter. A zone is a graph of axis-aligned walkable rects on the ground
// plane, each at its own elevation. Nodes are indexed in a resolv space so
// point lookups only test nearby rects.
package navmesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
)

var (
	ErrUnknownZone = errors.New("navmesh: unknown zone")
	ErrEmptyZone   = errors.New("navmesh: zone has no walkable rects")
)

const (
	// MaxStep is the largest elevation change between connected nodes.
	MaxStep = 0.5
	// edgeSlop lets rects that nearly touch count as adjacent.
	edgeSlop = 0.01
	// cellSize is the resolv cell edge, in meters.
	cellSize = 1
	// probeSize is the footprint of the point probe.
	probeSize = 0.001

	nodeTag = "navnode"
)

// Rect is one walkable area: [MinX,MaxX] x [MinZ,MaxZ] at height Y.
type Rect struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
	Y          float64
}

// Contains reports whether the ground-plane point lies inside the rect.
func (r Rect) Contains(x, z float64) bool {
	return x >= r.MinX && x <= r.MaxX && z >= r.MinZ && z <= r.MaxZ
}

// Clamp projects p onto the rect's surface.
func (r Rect) Clamp(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(p.X(), r.MinX, r.MaxX),
		r.Y,
		mgl64.Clamp(p.Z(), r.MinZ, r.MaxZ),
	}
}

// Centroid is the middle of the rect's surface.
func (r Rect) Centroid() mgl64.Vec3 {
	return mgl64.Vec3{(r.MinX + r.MaxX) / 2, r.Y, (r.MinZ + r.MaxZ) / 2}
}

func (r Rect) touches(o Rect) bool {
	return r.MinX <= o.MaxX+edgeSlop && o.MinX <= r.MaxX+edgeSlop &&
		r.MinZ <= o.MaxZ+edgeSlop && o.MinZ <= r.MaxZ+edgeSlop
}

// portal is the strip two touching rects share, widened by edgeSlop.
// Rects that only meet at a corner share a slop-sized square.
func (r Rect) portal(o Rect) (minX, minZ, maxX, maxZ float64) {
	return math.Max(r.MinX, o.MinX) - edgeSlop, math.Max(r.MinZ, o.MinZ) - edgeSlop,
		math.Min(r.MaxX, o.MaxX) + edgeSlop, math.Min(r.MaxZ, o.MaxZ) + edgeSlop
}

// segmentHitsBox clips the ground-plane segment a-b against the box.
func segmentHitsBox(a, b mgl64.Vec3, minX, minZ, maxX, maxZ float64) bool {
	t0, t1 := 0.0, 1.0
	clip := func(p0, d, lo, hi float64) bool {
		if d == 0 {
			return p0 >= lo && p0 <= hi
		}
		ta, tb := (lo-p0)/d, (hi-p0)/d
		if ta > tb {
			ta, tb = tb, ta
		}
		t0, t1 = math.Max(t0, ta), math.Min(t1, tb)
		return t0 <= t1
	}
	return clip(a.X(), b.X()-a.X(), minX, maxX) && clip(a.Z(), b.Z()-a.Z(), minZ, maxZ)
}

// Node is a walkable rect inside a zone.
type Node struct {
	ID        int
	Rect      Rect
	Group     int
	Neighbors []int

	obj *resolv.Object
}

// Zone is one independent navigation graph.
type Zone struct {
	Name   string
	Nodes  []*Node
	Groups [][]int

	space            *resolv.Space
	originX, originZ float64
}

// Mesh is a set of named zones.
type Mesh struct {
	zones map[string]*Zone
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{zones: make(map[string]*Zone)}
}

// Build is a shortcut for a mesh with a single zone.
func Build(zone string, rects []Rect) (*Mesh, error) {
	m := New()
	if err := m.AddZone(zone, rects); err != nil {
		return nil, err
	}
	return m, nil
}

// AddZone builds the node graph for rects and replaces any zone with the
// same name.
func (m *Mesh) AddZone(name string, rects []Rect) error {
	if len(rects) == 0 {
		return fmt.Errorf("zone %q: %w", name, ErrEmptyZone)
	}

	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for i, r := range rects {
		if r.MinX > r.MaxX || r.MinZ > r.MaxZ {
			return fmt.Errorf("zone %q: rect %d has inverted bounds", name, i)
		}
		minX, minZ = math.Min(minX, r.MinX), math.Min(minZ, r.MinZ)
		maxX, maxZ = math.Max(maxX, r.MaxX), math.Max(maxZ, r.MaxZ)
	}

	z := &Zone{
		Name:    name,
		originX: minX - cellSize,
		originZ: minZ - cellSize,
	}
	w := int(math.Ceil(maxX-minX)) + 3*cellSize
	h := int(math.Ceil(maxZ-minZ)) + 3*cellSize
	z.space = resolv.NewSpace(w, h, cellSize, cellSize)

	for i, r := range rects {
		n := &Node{ID: i, Rect: r, Group: -1}
		n.obj = resolv.NewObject(r.MinX-z.originX, r.MinZ-z.originZ,
			math.Max(r.MaxX-r.MinX, probeSize), math.Max(r.MaxZ-r.MinZ, probeSize), nodeTag)
		n.obj.Data = n
		z.space.Add(n.obj)
		z.Nodes = append(z.Nodes, n)
	}

	for i, a := range z.Nodes {
		for j := i + 1; j < len(z.Nodes); j++ {
			b := z.Nodes[j]
			if a.Rect.touches(b.Rect) && math.Abs(a.Rect.Y-b.Rect.Y) <= MaxStep {
				a.Neighbors = append(a.Neighbors, b.ID)
				b.Neighbors = append(b.Neighbors, a.ID)
			}
		}
	}

	z.buildGroups()
	m.zones[name] = z
	return nil
}

// buildGroups labels connected components breadth first.
func (z *Zone) buildGroups() {
	for _, start := range z.Nodes {
		if start.Group >= 0 {
			continue
		}
		group := len(z.Groups)
		members := []int{start.ID}
		start.Group = group
		for q := 0; q < len(members); q++ {
			for _, nb := range z.Nodes[members[q]].Neighbors {
				if z.Nodes[nb].Group < 0 {
					z.Nodes[nb].Group = group
					members = append(members, nb)
				}
			}
		}
		z.Groups = append(z.Groups, members)
	}
}

// Zone returns a zone by name.
func (m *Mesh) Zone(name string) (*Zone, bool) {
	z, ok := m.zones[name]
	return z, ok
}

// containing returns nodes whose rect contains the ground-plane point.
func (z *Zone) containing(x, zz float64) []*Node {
	probe := resolv.NewObject(x-z.originX, zz-z.originZ, probeSize, probeSize)
	z.space.Add(probe)
	defer z.space.Remove(probe)

	check := probe.Check(0, 0, nodeTag)
	if check == nil {
		return nil
	}
	var out []*Node
	for _, obj := range check.ObjectsByTags(nodeTag) {
		n, ok := obj.Data.(*Node)
		if ok && n.Rect.Contains(x, zz) {
			out = append(out, n)
		}
	}
	return out
}

// closestContaining picks the containing node nearest in elevation.
func closestContaining(nodes []*Node, y float64, group int) *Node {
	var best *Node
	bestDy := math.Inf(1)
	for _, n := range nodes {
		if group >= 0 && n.Group != group {
			continue
		}
		if dy := math.Abs(n.Rect.Y - y); dy < bestDy {
			best, bestDy = n, dy
		}
	}
	return best
}

// closest scans members for the node whose surface is nearest to p.
func (z *Zone) closest(p mgl64.Vec3, members []int) *Node {
	var best *Node
	bestD := math.Inf(1)
	for _, id := range members {
		n := z.Nodes[id]
		if d := n.Rect.Clamp(p).Sub(p).LenSqr(); d < bestD {
			best, bestD = n, d
		}
	}
	return best
}

// GetGroup returns the group the position belongs to.
func (m *Mesh) GetGroup(zone string, pos mgl64.Vec3, checkPolygon bool) (int, error) {
	z, ok := m.zones[zone]
	if !ok {
		return -1, fmt.Errorf("zone %q: %w", zone, ErrUnknownZone)
	}
	if checkPolygon {
		if n := closestContaining(z.containing(pos.X(), pos.Z()), pos.Y(), -1); n != nil {
			return n.Group, nil
		}
	}
	all := make([]int, len(z.Nodes))
	for i := range all {
		all[i] = i
	}
	return z.closest(pos, all).Group, nil
}

// GetClosestNode returns the node of group nearest to pos, or nil if the
// zone or group does not exist.
func (m *Mesh) GetClosestNode(pos mgl64.Vec3, zone string, group int, checkPolygon bool) *Node {
	z, ok := m.zones[zone]
	if !ok || group < 0 || group >= len(z.Groups) {
		return nil
	}
	if checkPolygon {
		if n := closestContaining(z.containing(pos.X(), pos.Z()), pos.Y(), group); n != nil {
			return n
		}
	}
	return z.closest(pos, z.Groups[group])
}

// ClampStep moves from start towards end without leaving the walkable
// surface. A neighbour is only entered when the step crosses the edge it
// shares with the current node, so the result slides along walls and never
// cuts across a gap or an outside corner.
func (m *Mesh) ClampStep(start, end mgl64.Vec3, node *Node, zone string, group int) (mgl64.Vec3, *Node) {
	z, ok := m.zones[zone]
	if !ok || node == nil {
		return end, node
	}

	best := node
	bestPoint := node.Rect.Clamp(end)
	bestD := bestPoint.Sub(end).LenSqr()

	visited := map[int]bool{node.ID: true}
	queue := []*Node{node}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		p := cur.Rect.Clamp(end)
		if d := p.Sub(end).LenSqr(); d < bestD {
			best, bestPoint, bestD = cur, p, d
		}

		for _, id := range cur.Neighbors {
			nb := z.Nodes[id]
			if visited[id] || (group >= 0 && nb.Group != group) {
				continue
			}
			minX, minZ, maxX, maxZ := cur.Rect.portal(nb.Rect)
			if segmentHitsBox(start, end, minX, minZ, maxX, maxZ) {
				visited[id] = true
				queue = append(queue, nb)
			}
		}
	}
	return bestPoint, best
}
