package systems

import (
	"math"
	"time"

	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/controller"
	"github.com/MTO-Safety/hubs/network"
	"github.com/MTO-Safety/hubs/posemath"
	"github.com/MTO-Safety/hubs/shared/messages"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi/ecs"
)

// NewLocomotionSystem ticks the controller at a fixed step of one frame.
func NewLocomotionSystem(ctrl *controller.Controller, tps int) func(*ecs.ECS) {
	var now time.Duration
	dt := time.Second / time.Duration(tps)
	return func(_ *ecs.ECS) {
		now += dt
		ctrl.Tick(now, dt)
	}
}

// NewAvatarPublishSystem sends the local pose whenever it changes.
func NewAvatarPublishSystem(room network.Room, ctrl *controller.Controller, log *logrus.Logger) func(*ecs.ECS) {
	var last messages.AvatarUpdate
	sent := false
	entry := log.WithField("component", "avatar")
	return func(_ *ecs.ECS) {
		if !room.Joined() {
			return
		}
		u := AvatarUpdateFor(ctrl)
		if sent && u == last {
			return
		}
		if err := room.PublishAvatar(u); err != nil {
			entry.WithError(err).Debug("publish avatar")
			return
		}
		last, sent = u, true
	}
}

// AvatarUpdateFor describes the controller's pose on the wire: rig position,
// view heading and avatar scale.
func AvatarUpdateFor(ctrl *controller.Controller) messages.AvatarUpdate {
	rig := posemath.Position(ctrl.Pose().Rig)
	return messages.AvatarUpdate{
		X:     rig.X(),
		Y:     rig.Y(),
		Z:     rig.Z(),
		Yaw:   Heading(ctrl.POVWorld()),
		Scale: ctrl.AvatarScale(),
	}
}

// Heading is the yaw of m's forward axis about world up. Zero faces -Z.
func Heading(m mgl64.Mat4) float64 {
	fwd := m.Mul4x1(mgl64.Vec4{0, 0, -1, 0})
	return math.Atan2(-fwd.X(), -fwd.Z())
}

// AvatarBody adapts the controller for the desk machine.
type AvatarBody struct {
	Controller *controller.Controller
	Input      *InputProvider
}

func (a AvatarBody) AvatarPosition() mgl64.Vec3 {
	return posemath.Position(a.Controller.Pose().Rig)
}

// LeftController places the simulated hand above the rig.
func (a AvatarBody) LeftController() (pos, euler mgl64.Vec3, ok bool) {
	hand := a.Input.Hand()
	if !hand.Tracked {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	rig := a.AvatarPosition()
	lift := cfg.Input.HandBaseHeight + cfg.Input.HandReach*hand.Lift
	return rig.Add(mgl64.Vec3{0, lift * a.Controller.AvatarScale(), 0}), hand.Euler, true
}

// LocalAvatar returns the local avatar's data.
func LocalAvatar(e *ecs.ECS) (*components.AvatarData, bool) {
	entry, ok := components.Avatar.First(e.World)
	if !ok {
		return nil, false
	}
	return components.Avatar.Get(entry), true
}
