// Package controller is the per-tick avatar locomotion integrator. It
// fuses movement input, snap rotation, flight and waypoint travel into one
// avatar pose, kept on the nav mesh while walking.
package controller

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/posemath"
	"github.com/MTO-Safety/hubs/waypoint"
)

// PermissionFly is the room grant required to fly.
const PermissionFly = "fly"

// Controller owns the avatar pose. All methods must be called from the
// tick goroutine.
type Controller struct {
	deps Deps
	cfg  config.LocomotionConfig
	wcfg config.WaypointConfig
	log  *logrus.Entry

	pose          posemath.Pose
	originalScale float64

	relativeMotion mgl64.Vec3
	dXZ            float64

	queue  waypoint.Queue
	travel *waypoint.Travel

	fly                               bool
	shouldLandWhenPossible            bool
	shouldUnoccupyWaypointsOnceMoving bool
	isMotionDisabled                  bool
	isTeleportingDisabled             bool
}

// New returns a grounded controller with the avatar at the origin.
func New(deps Deps, cfg config.LocomotionConfig, wcfg config.WaypointConfig, log *logrus.Logger) *Controller {
	return &Controller{
		deps:          deps,
		cfg:           cfg,
		wcfg:          wcfg,
		log:           log.WithField("component", "controller"),
		pose:          posemath.NewPose(mgl64.Vec3{}, 1.6),
		originalScale: 1,
	}
}

// SetCommandSink wires the dispatcher the fly toggle goes through.
func (c *Controller) SetCommandSink(sink CommandSink) {
	c.deps.Commands = sink
}

// Tick advances the controller by dt at time now.
func (c *Controller) Tick(now, dt time.Duration) {
	session := c.deps.Session
	if !session.Entered() && !session.IsGhost() {
		return
	}
	immersive := session.Immersive()

	if c.tickWaypoint(now, immersive) {
		// Travel dominates free locomotion for the whole tick
		c.relativeMotion = mgl64.Vec3{}
		c.dXZ = 0
		return
	}

	input := c.deps.Input
	nav := c.deps.Nav

	wasFlying := c.fly
	if input.Get(config.ActionToggleFly) {
		c.shouldLandWhenPossible = false
		c.toggleFly()
	}
	didStopFlying := wasFlying && !c.fly
	if !c.fly && c.shouldLandWhenPossible {
		c.shouldLandWhenPossible = false
	}
	if c.fly {
		nav.Invalidate()
	}

	prefs := c.deps.Prefs.MovementPreferences()
	snapLeft := input.Get(config.ActionSnapRotateLeft)
	snapRight := input.Get(config.ActionSnapRotateRight)
	step := c.snapRotationStep(prefs)
	if snapLeft {
		c.dXZ += step
	}
	if snapRight {
		c.dXZ -= step
	}
	if snapLeft || snapRight {
		c.deps.Audio.PlayOneShot(config.SoundSnapRotate)
	}

	if x, y := input.CharacterAcceleration(); x != 0 || y != 0 {
		z := -y
		if prefs.DisableMovement || prefs.DisableStrafing {
			x = 0
		}
		if prefs.DisableMovement {
			z = 0
		} else if prefs.DisableBackwardsMovement {
			z = math.Min(0, z)
		}
		c.relativeMotion = c.relativeMotion.Add(mgl64.Vec3{x, 0, z})
	}

	lerpC := c.cfg.SmoothingDesktop
	if immersive {
		lerpC = c.cfg.SmoothingImmersive
	}
	next := c.relativeMotion.Mul(lerpC)
	c.relativeMotion = c.relativeMotion.Mul(1 - lerpC)

	pov := c.pose.POVWorld()
	snapRotatedPOV := posemath.RotateInPlaceAroundWorldUp(pov, c.dXZ)
	newPOV := snapRotatedPOV

	hasMesh := nav.HasMesh()
	if !c.isMotionDisabled {
		playerScale := pov.Col(1).Vec3().Len()
		triedToMove := c.relativeMotion.LenSqr() > c.cfg.MotionEpsilonSq

		if triedToMove {
			boost := 1.0
			if input.Get(config.ActionBoost) {
				boost = c.cfg.BoostMultiplier
			}
			speed := prefs.MovementSpeedModifier
			if speed == 0 {
				speed = 1
			}
			local := c.relativeMotion.Mul(boost * speed * c.cfg.BaseSpeed * math.Sqrt(playerScale) * dt.Seconds())
			d := displacementToDesiredPOV(snapRotatedPOV, c.fly || !hasMesh, local)
			newPOV = mgl64.Translate3D(d.X(), d.Y(), d.Z()).Mul4(snapRotatedPOV)
		}

		shouldRecompute := didStopFlying || c.shouldLandWhenPossible
		shouldResnap := hasMesh && (shouldRecompute || triedToMove)

		var squareDistCorrection float64
		var snapped mgl64.Vec3
		if shouldResnap {
			desired := posemath.Position(newPOV)
			snapped = c.findPOVPositionAboveNavMesh(posemath.Position(pov), desired, shouldRecompute)
			squareDistCorrection = desired.Sub(snapped).LenSqr()

			if c.fly && c.shouldLandWhenPossible && squareDistCorrection < c.cfg.LandingThresholdSq && c.travel == nil {
				c.land()
				newPOV = posemath.WithPosition(newPOV, snapped)
			} else if !c.fly {
				newPOV = posemath.WithPosition(newPOV, snapped)
			}
		}

		if c.travel == nil && c.shouldUnoccupyWaypointsOnceMoving && triedToMove {
			c.shouldUnoccupyWaypointsOnceMoving = false
			c.deps.Waypoints.ReleaseAnyOccupiedWaypoints()
			if c.fly && c.shouldLandWhenPossible && shouldResnap && squareDistCorrection < c.cfg.UnoccupyLandThresholdSq {
				newPOV = posemath.WithPosition(newPOV, snapped)
				c.land()
			}
		}
	}

	c.pose.Rig = posemath.ChildMatch(c.pose.Rig, c.pose.POVLocal, newPOV)
	c.relativeMotion = next
	c.dXZ = 0
}

// tickWaypoint runs waypoint travel and reports whether the tick belonged
// to it.
func (c *Controller) tickWaypoint(now time.Duration, immersive bool) bool {
	if c.travel == nil {
		w := c.queue.Pop()
		if w == nil {
			return false
		}
		c.isMotionDisabled = w.Flags.WillDisableMotion && (!c.deps.Session.Mobile() || w.Flags.WillDisableTeleporting)
		c.isTeleportingDisabled = w.Flags.WillDisableTeleporting

		pov := c.pose.POVWorld()
		duration := waypoint.TravelDuration(posemath.Position(pov), posemath.Position(w.Transform),
			c.wcfg.AverageSpeed, immersive, c.wcfg.AllowLerpInImmersive, w.IsInstant)
		start := posemath.RotateInPlaceAroundWorldUp(pov, math.Pi).
			Mul4(mgl64.Translate3D(0, -c.PlayerHeight(), c.cfg.POVForwardOffset))
		c.travel = waypoint.NewTravel(start, w, now, duration)
		c.log.WithField("duration", duration).Debug("waypoint travel started")

		if !immersive && duration > c.wcfg.StartCueThreshold {
			c.deps.Audio.PlayOneShot(config.SoundWaypointStart)
		}
	}

	t := c.travel
	w := t.Target
	progress, done := t.Progress(now)
	if !done {
		interpolated := posemath.InterpolateAffine(t.Start, w.Transform, progress, posemath.Linear)
		c.travelByWaypoint(interpolated, false, w.Flags.WillMaintainInitialOrientation)
	}
	if done || c.queue.Len() > 0 {
		c.travelByWaypoint(w.Transform, w.Flags.SnapToNavMesh, w.Flags.WillMaintainInitialOrientation)
		waypoint.Release(w)
		c.travel = nil
		c.log.Debug("waypoint travel finished")
		if immersive || t.Duration > 0 {
			c.deps.Audio.PlayOneShot(config.SoundWaypointEnd)
		}
	}
	return true
}

// travelByWaypoint moves the point of view onto a waypoint transform.
// Waypoints face away from the room, so the target is turned around
// before the eye offset is applied.
func (c *Controller) travelByWaypoint(target mgl64.Mat4, snapToNavMesh, maintainOrientation bool) {
	if !c.fly && !snapToNavMesh {
		c.fly = true
		c.shouldLandWhenPossible = true
		c.shouldUnoccupyWaypointsOnceMoving = true
	}

	finalPOV := posemath.RotateInPlaceAroundWorldUp(target, math.Pi)
	hasMesh := c.deps.Nav.HasMesh()
	if !hasMesh && snapToNavMesh {
		c.log.Warn("waypoint wants to snap to the nav mesh, but there is no nav mesh")
	}
	if hasMesh && snapToNavMesh {
		p := posemath.Position(finalPOV)
		finalPOV = posemath.WithPosition(finalPOV, c.deps.Nav.FindPositionOnNavMesh(p, p, true))
	}
	finalPOV = finalPOV.Mul4(mgl64.Translate3D(0, c.PlayerHeight(), c.cfg.POVForwardOffset))

	current := c.pose.POVWorld()
	if maintainOrientation {
		s := posemath.Scale(finalPOV)
		oriented := posemath.Rotation(current).Mul4(mgl64.Scale3D(s.X(), s.Y(), s.Z()))
		finalPOV = posemath.WithPosition(oriented, posemath.Position(finalPOV))
	}

	finalPOV = posemath.CalculateCameraTransformForWaypoint(current, finalPOV)
	c.pose.Rig = posemath.ChildMatch(c.pose.Rig, c.pose.POVLocal, finalPOV)
}

// findPOVPositionAboveNavMesh snaps the feet below the point of view and
// lifts the result back to eye height.
func (c *Controller) findPOVPositionAboveNavMesh(start, desired mgl64.Vec3, recompute bool) mgl64.Vec3 {
	h := mgl64.Vec3{0, c.PlayerHeight(), 0}
	out := c.deps.Nav.FindPositionOnNavMesh(start.Sub(h), desired.Sub(h), recompute)
	return out.Add(h)
}

// displacementToDesiredPOV turns a local move into world space using the
// point of view's rotation, flattened unless vertical movement is allowed.
func displacementToDesiredPOV(pov mgl64.Mat4, allowVerticalMovement bool, local mgl64.Vec3) mgl64.Vec3 {
	frame := posemath.Rotation(pov)
	if !allowVerticalMovement {
		frame = posemath.AffixToWorldUp(frame)
	}
	return frame.Mul4x1(local.Vec4(0)).Vec3()
}

func (c *Controller) snapRotationStep(p Preferences) float64 {
	degrees := c.cfg.SnapRotationDegrees
	if p.SnapRotationDegrees != nil {
		degrees = *p.SnapRotationDegrees
	}
	return degrees * math.Pi / 180
}

func (c *Controller) toggleFly() {
	if c.deps.Commands != nil {
		if err := c.deps.Commands.DispatchCommand("fly"); err != nil {
			c.log.WithError(err).Debug("fly toggle")
		}
		return
	}
	c.EnableFly(!c.fly)
}

func (c *Controller) land() {
	c.shouldLandWhenPossible = false
	c.fly = false
	c.log.Debug("landed")
}

// EnableFly requests flight. Flight needs the room's fly grant; without it
// the avatar stays grounded. Turning flight off mid-travel cancels the
// travel.
func (c *Controller) EnableFly(enabled bool) bool {
	c.fly = enabled && c.deps.Permissions.Can(PermissionFly)
	if c.fly {
		c.deps.Nav.Invalidate()
	} else if c.travel != nil {
		c.CancelTravel()
	}
	c.log.WithField("fly", c.fly).Debug("fly toggled")
	return c.fly
}

// CancelTravel drops the active and queued waypoints where the avatar
// currently is. A pending landing is kept only while flying.
func (c *Controller) CancelTravel() {
	if c.travel != nil {
		waypoint.Release(c.travel.Target)
		c.travel = nil
	}
	c.queue.Clear()
	c.isMotionDisabled = false
	c.isTeleportingDisabled = false
	if !c.fly {
		c.shouldLandWhenPossible = false
	}
}

// EnqueueWaypointTravelTo queues travel to transform. The transform is
// copied.
func (c *Controller) EnqueueWaypointTravelTo(transform mgl64.Mat4, isInstant bool, flags waypoint.Flags) {
	c.queue.Enqueue(transform, isInstant, flags)
}

// EnqueueRelativeMotion adds avatar-local motion with +z as forward.
func (c *Controller) EnqueueRelativeMotion(motion mgl64.Vec3) {
	motion[2] = -motion[2]
	c.relativeMotion = c.relativeMotion.Add(motion)
}

// EnqueueInPlaceRotationAroundWorldUp adds yaw for the next tick.
func (c *Controller) EnqueueInPlaceRotationAroundWorldUp(radians float64) {
	c.dXZ += radians
}

// TeleportTo moves the avatar so that its feet land on target, keeping
// the head's offset from the rig.
func (c *Controller) TeleportTo(target mgl64.Vec3) {
	c.isMotionDisabled = false
	rig := posemath.Position(c.pose.Rig)
	head := posemath.Position(c.pose.POVWorld())
	targetForHead := target.Add(mgl64.Vec3{0, posemath.Position(c.pose.POVLocal).Y(), 0})
	targetForRig := rig.Add(targetForHead.Sub(head))

	nav := c.deps.Nav
	out := nav.FindPositionOnNavMesh(targetForRig, targetForRig, nav.HasMesh())
	c.pose.Rig = posemath.WithPosition(c.pose.Rig, out)
}

// Pose returns the avatar pose.
func (c *Controller) Pose() posemath.Pose { return c.pose }

// SetPose replaces the avatar pose.
func (c *Controller) SetPose(p posemath.Pose) { c.pose = p }

// POVWorld returns the point of view in world space.
func (c *Controller) POVWorld() mgl64.Mat4 { return c.pose.POVWorld() }

// Fly reports whether the avatar is flying.
func (c *Controller) Fly() bool { return c.fly }

// Traveling reports whether a waypoint is active or queued.
func (c *Controller) Traveling() bool { return c.travel != nil || c.queue.Len() > 0 }

// IsMotionDisabled reports whether the last waypoint locked movement.
func (c *Controller) IsMotionDisabled() bool { return c.isMotionDisabled }

// IsTeleportingDisabled reports whether the last waypoint locked
// teleporting.
func (c *Controller) IsTeleportingDisabled() bool { return c.isTeleportingDisabled }

// ShouldLandWhenPossible reports whether a landing is pending.
func (c *Controller) ShouldLandWhenPossible() bool { return c.shouldLandWhenPossible }

// RelativeMotion returns the carried-over local motion.
func (c *Controller) RelativeMotion() mgl64.Vec3 { return c.relativeMotion }

// PlayerHeight is the world height of the point of view above the rig.
func (c *Controller) PlayerHeight() float64 {
	return posemath.Position(c.pose.POVWorld()).Y() - posemath.Position(c.pose.Rig).Y()
}

// AvatarScale is the rig's vertical scale.
func (c *Controller) AvatarScale() float64 {
	return posemath.Scale(c.pose.Rig).Y()
}

// SetAvatarScale rescales the rig uniformly, keeping its position and
// rotation.
func (c *Controller) SetAvatarScale(s float64) {
	if s <= 0 {
		return
	}
	pos := posemath.Position(c.pose.Rig)
	rot := posemath.Rotation(c.pose.Rig)
	c.pose.Rig = posemath.WithPosition(rot.Mul4(mgl64.Scale3D(s, s, s)), pos)
}

// OriginalScale is the scale remembered for resets.
func (c *Controller) OriginalScale() float64 { return c.originalScale }

// RememberOriginalScale stores the current scale for resets.
func (c *Controller) RememberOriginalScale() { c.originalScale = c.AvatarScale() }
