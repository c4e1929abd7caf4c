// Package desk drives height-adjustable desks from the hand controller and
// from the raise/lower actions.
//
// Resting the left controller upside down on a desk for long enough starts
// tracking: the nearest desk then follows the controller's height. The
// raise and lower actions nudge the nearest desk one step at a time.
package desk

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/MTO-Safety/hubs/components"
	"github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/posemath"
	"github.com/MTO-Safety/hubs/tags"
)

// State is the gesture tracking state.
type State int

const (
	Idle State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "idle"
}

// Authority grants the right to move shared objects.
type Authority interface {
	IsMine(id esync.NetworkId) bool
	// TakeOwnership is best effort; the grant is not observed here.
	TakeOwnership(id esync.NetworkId)
	PublishDeskHeight(id esync.NetworkId, height float64)
}

// Hand reports the left hand controller. euler is in radians.
type Hand interface {
	LeftController() (pos, euler mgl64.Vec3, ok bool)
}

// Input reports the raise and lower actions.
type Input interface {
	Get(action config.ActionID) bool
}

// Avatar reports where the local avatar stands.
type Avatar interface {
	AvatarPosition() mgl64.Vec3
}

// Deps are the collaborators a Machine needs.
type Deps struct {
	Authority Authority
	Hand      Hand
	Input     Input
	Avatar    Avatar
}

// Machine is the desk interaction state machine.
type Machine struct {
	world donburi.World
	deps  Deps
	cfg   config.DeskConfig
	log   *logrus.Entry

	state   State
	counter int
}

// New returns an idle machine over the desks in world.
func New(world donburi.World, deps Deps, cfg config.DeskConfig, log *logrus.Logger) *Machine {
	return &Machine{
		world: world,
		deps:  deps,
		cfg:   cfg,
		log:   log.WithField("component", "desk"),
	}
}

// State returns the tracking state.
func (m *Machine) State() State { return m.state }

// Counter returns the consecutive ticks the resting gesture has held.
func (m *Machine) Counter() int { return m.counter }

// Tick runs one frame: gesture tracking, then the raise and lower actions,
// then stripping user interactions from desks and snap objects.
func (m *Machine) Tick() {
	m.tickGesture()

	switch {
	case m.deps.Input.Get(config.ActionRaiseNearestDesk):
		m.nudgeNearest(m.cfg.Step)
	case m.deps.Input.Get(config.ActionLowerNearestDesk):
		m.nudgeNearest(-m.cfg.Step)
	}

	m.StripInteractions()
}

func (m *Machine) resting(euler mgl64.Vec3) bool {
	return math.Abs(euler.Z()) > m.cfg.GestureRollAbs && euler.X() < 0
}

func (m *Machine) tickGesture() {
	handPos, euler, ok := m.deps.Hand.LeftController()
	if ok && m.resting(euler) {
		m.counter++
	} else {
		m.counter = 0
		if m.state == Tracking {
			m.log.Debug("desk tracking released")
		}
		m.state = Idle
	}

	if m.counter <= m.cfg.GestureTicks && m.state != Tracking {
		return
	}
	m.counter = 0

	desk, dist := m.NearestDesk(m.deps.Avatar.AvatarPosition())
	if desk == nil || dist >= m.cfg.TrackingRange {
		return
	}
	if m.state != Tracking {
		m.log.WithField("desk", components.Object.Get(desk).Name).Debug("desk tracking engaged")
	}
	m.state = Tracking

	target := handPos.Y() + m.cfg.HandHeightOffset
	if target <= m.cfg.MinHeight || target >= m.cfg.MaxHeight {
		return
	}
	m.acquire(desk)

	moved := false
	diff := target - Height(desk)
	for steps := 0; math.Abs(diff) > m.cfg.Tolerance && steps < m.cfg.MaxStepsPerTick; steps++ {
		if !m.move(desk, math.Copysign(m.cfg.Step, diff)) {
			break
		}
		moved = true
		diff = target - Height(desk)
	}
	if moved {
		m.publish(desk)
	}
}

// nudgeNearest moves the nearest desk within button range by one step.
func (m *Machine) nudgeNearest(delta float64) {
	desk, dist := m.NearestDesk(m.deps.Avatar.AvatarPosition())
	if desk == nil || dist >= m.cfg.ButtonRange {
		return
	}
	h := Height(desk)
	if (delta > 0 && h >= m.cfg.MaxHeight) || (delta < 0 && h <= m.cfg.MinHeight) {
		return
	}
	m.acquire(desk)
	if m.move(desk, delta) {
		m.publish(desk)
	}
}

func (m *Machine) acquire(desk *donburi.Entry) {
	id := components.Object.Get(desk).NetID
	if !m.deps.Authority.IsMine(id) {
		m.deps.Authority.TakeOwnership(id)
	}
}

func (m *Machine) publish(desk *donburi.Entry) {
	m.deps.Authority.PublishDeskHeight(components.Object.Get(desk).NetID, Height(desk))
}

// move shifts a desk and its proxy by delta, clamped to the height bounds.
// It reports whether the desk moved.
func (m *Machine) move(desk *donburi.Entry, delta float64) bool {
	t := components.Transform.Get(desk)
	y := t.Position.Y()
	next := mgl64.Clamp(y+delta, m.cfg.MinHeight, m.cfg.MaxHeight)
	applied := next - y
	if applied == 0 {
		return false
	}
	t.Position[1] = next

	d := components.Desk.Get(desk)
	d.HeightOffset += applied
	if proxy := m.proxy(d); proxy != nil {
		components.Transform.Get(proxy).Position[1] += applied
	}
	return true
}

// ApplyHeight moves a desk and its proxy to a height received from the
// room. Nothing is published back.
func (m *Machine) ApplyHeight(desk *donburi.Entry, height float64) {
	m.move(desk, height-Height(desk))
}

// proxy returns the desk's collision proxy, linking it by name on first use.
func (m *Machine) proxy(d *components.DeskData) *donburi.Entry {
	if d.HasProxy && m.world.Valid(d.Proxy) {
		return m.world.Entry(d.Proxy)
	}
	d.HasProxy = false
	if d.ProxyName == "" {
		return nil
	}
	tags.Collider.Each(m.world, func(e *donburi.Entry) {
		if !d.HasProxy && components.Object.Get(e).Name == d.ProxyName {
			d.Proxy = e.Entity()
			d.HasProxy = true
		}
	})
	if !d.HasProxy {
		return nil
	}
	return m.world.Entry(d.Proxy)
}

// NearestDesk returns the interactive desk closest to pos on the ground
// plane, or nil when the room has none.
func (m *Machine) NearestDesk(pos mgl64.Vec3) (*donburi.Entry, float64) {
	var best *donburi.Entry
	bestDist := math.Inf(1)
	tags.Desk.Each(m.world, func(e *donburi.Entry) {
		if components.Object.Get(e).ObjectType != m.cfg.ObjectType {
			return
		}
		if d := posemath.DistanceXZ(pos, components.Transform.Get(e).Position); d < bestDist {
			best, bestDist = e, d
		}
	})
	return best, bestDist
}

// StripInteractions removes drag and hover from desks and snap objects so
// they can only be moved through this machine.
func (m *Machine) StripInteractions() {
	components.Interactable.Each(m.world, func(e *donburi.Entry) {
		if !e.HasComponent(components.Object) {
			return
		}
		switch components.Object.Get(e).ObjectType {
		case m.cfg.ObjectType, tags.ObjectTypeSnap:
			*components.Interactable.Get(e) = components.InteractableData{}
		}
	})
}

// Height is a desk's surface height.
func Height(desk *donburi.Entry) float64 {
	return components.Transform.Get(desk).Position.Y()
}
