// Package waypoint queues teleport requests and animates travel between
// the current point of view and a waypoint.
package waypoint

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Flags are the per-waypoint behaviour switches authored in the room.
type Flags struct {
	SnapToNavMesh                  bool
	WillDisableMotion              bool
	WillDisableTeleporting         bool
	WillMaintainInitialOrientation bool
}

// Waypoint is a requested destination. Waypoints come from the queue's
// pool and go back to it through Release.
type Waypoint struct {
	Transform mgl64.Mat4
	IsInstant bool
	Flags     Flags
}

var pool = sync.Pool{
	New: func() any { return new(Waypoint) },
}

// Queue is a FIFO of pending waypoints.
type Queue struct {
	items []*Waypoint
}

// Enqueue copies transform into a pooled waypoint and appends it.
func (q *Queue) Enqueue(transform mgl64.Mat4, isInstant bool, flags Flags) {
	w := pool.Get().(*Waypoint)
	w.Transform = transform
	w.IsInstant = isInstant
	w.Flags = flags
	q.items = append(q.items, w)
}

// Pop removes and returns the oldest waypoint, or nil when empty.
func (q *Queue) Pop() *Waypoint {
	if len(q.items) == 0 {
		return nil
	}
	w := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return w
}

// Len returns the number of pending waypoints.
func (q *Queue) Len() int {
	return len(q.items)
}

// Clear releases every pending waypoint.
func (q *Queue) Clear() {
	for i, w := range q.items {
		Release(w)
		q.items[i] = nil
	}
	q.items = q.items[:0]
}

// Release returns a popped waypoint to the pool. The caller must not use
// it afterwards.
func Release(w *Waypoint) {
	if w == nil {
		return
	}
	*w = Waypoint{}
	pool.Put(w)
}
