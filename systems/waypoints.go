package systems

import (
	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/controller"
	"github.com/MTO-Safety/hubs/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

var waypointQuery = donburi.NewQuery(filter.Contains(tags.Waypoint))

var waypointKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// WaypointBook tracks which room waypoints the local avatar occupies and
// sends the controller to them.
type WaypointBook struct {
	world donburi.World
	ctrl  *controller.Controller
	log   *logrus.Entry
	next  int
}

func NewWaypointBook(w donburi.World, log *logrus.Logger) *WaypointBook {
	return &WaypointBook{world: w, log: log.WithField("component", "waypoints")}
}

// Bind attaches the controller once it exists. The controller needs the
// book as its releaser, so the two are built in two steps.
func (b *WaypointBook) Bind(ctrl *controller.Controller) {
	b.ctrl = ctrl
}

// ReleaseAnyOccupiedWaypoints frees every waypoint the avatar holds.
func (b *WaypointBook) ReleaseAnyOccupiedWaypoints() {
	components.Waypoint.Each(b.world, func(e *donburi.Entry) {
		components.Waypoint.Get(e).Occupied = false
	})
}

// Len is the number of waypoints in the room.
func (b *WaypointBook) Len() int {
	return waypointQuery.Count(b.world)
}

func (b *WaypointBook) at(index int) *components.WaypointData {
	var found *components.WaypointData
	i := 0
	waypointQuery.Each(b.world, func(e *donburi.Entry) {
		if i == index {
			found = components.Waypoint.Get(e)
		}
		i++
	})
	return found
}

// TravelTo queues travel to the waypoint at index in room order and
// occupies it.
func (b *WaypointBook) TravelTo(index int) bool {
	if b.ctrl == nil || b.ctrl.IsTeleportingDisabled() {
		return false
	}
	wp := b.at(index)
	if wp == nil || wp.Occupied {
		return false
	}
	b.ReleaseAnyOccupiedWaypoints()
	wp.Occupied = true
	b.ctrl.EnqueueWaypointTravelTo(wp.Transform, wp.IsInstant, wp.Flags)
	b.log.WithField("waypoint", wp.Name).Debug("travel")
	return true
}

// TravelToSpawn jumps to the first spawn point without animation.
func (b *WaypointBook) TravelToSpawn() bool {
	i, spawn := 0, -1
	waypointQuery.Each(b.world, func(e *donburi.Entry) {
		if spawn < 0 && components.Waypoint.Get(e).IsSpawn {
			spawn = i
		}
		i++
	})
	if spawn < 0 || b.ctrl == nil {
		return false
	}
	wp := b.at(spawn)
	b.ctrl.EnqueueWaypointTravelTo(wp.Transform, true, wp.Flags)
	return true
}

// TravelToNext cycles through the waypoints.
func (b *WaypointBook) TravelToNext() bool {
	n := b.Len()
	if n == 0 {
		return false
	}
	b.next = (b.next + 1) % n
	return b.TravelTo(b.next)
}

// NewWaypointHotkeySystem maps the number keys and the next-waypoint action
// to waypoint travel.
func NewWaypointHotkeySystem(book *WaypointBook, input *InputProvider) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		if getOrCreateInput(e).Suspended {
			return
		}
		if input.Get(cfg.ActionNextWaypoint) {
			book.TravelToNext()
			return
		}
		for i, key := range waypointKeys {
			if inpututil.IsKeyJustPressed(key) {
				book.TravelTo(i)
				return
			}
		}
	}
}
