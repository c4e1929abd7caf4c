// Package posemath holds the affine transform helpers used by avatar
// locomotion. Every function takes and returns values; there is no shared
// scratch state.
package posemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WorldUp is the vertical axis of the room.
var WorldUp = mgl64.Vec3{0, 1, 0}

// degenerateEpsilon is the squared length below which a flattened
// direction is treated as zero.
const degenerateEpsilon = 1e-10

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// EaseOutQuad decelerates towards the end of the interval.
func EaseOutQuad(t float64) float64 { return -t * (t - 2) }

// Pose is the avatar hierarchy: the rig is the root and the point of view
// hangs off it.
type Pose struct {
	Rig      mgl64.Mat4
	POVLocal mgl64.Mat4
}

// NewPose places a rig at position with the point of view eyeHeight above it.
func NewPose(position mgl64.Vec3, eyeHeight float64) Pose {
	return Pose{
		Rig:      mgl64.Translate3D(position.X(), position.Y(), position.Z()),
		POVLocal: mgl64.Translate3D(0, eyeHeight, 0),
	}
}

// POVWorld returns the world transform of the point of view.
func (p Pose) POVWorld() mgl64.Mat4 {
	return p.Rig.Mul4(p.POVLocal)
}

// Position returns the translation of m.
func Position(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}

// WithPosition returns m with its translation replaced.
func WithPosition(m mgl64.Mat4, p mgl64.Vec3) mgl64.Mat4 {
	m.SetCol(3, p.Vec4(1))
	return m
}

// Scale returns the length of each basis column of m.
func Scale(m mgl64.Mat4) mgl64.Vec3 {
	return mgl64.Vec3{
		m.Col(0).Vec3().Len(),
		m.Col(1).Vec3().Len(),
		m.Col(2).Vec3().Len(),
	}
}

// Decompose splits m into translation, rotation and scale.
func Decompose(m mgl64.Mat4) (pos mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) {
	pos = Position(m)
	scale = Scale(m)
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}
	return pos, mgl64.Mat4ToQuat(Rotation(m)).Normalize(), scale
}

// Compose builds T * R * S.
func Compose(pos mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(rot.Mat4()).
		Mul4(mgl64.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// Rotation returns the pure rotation of m, with scale and translation
// removed.
func Rotation(m mgl64.Mat4) mgl64.Mat4 {
	s := Scale(m)
	if m.Mat3().Det() < 0 {
		s[0] = -s[0]
	}
	out := mgl64.Ident4()
	for i := 0; i < 3; i++ {
		if s[i] == 0 {
			continue
		}
		out.SetCol(i, m.Col(i).Vec3().Mul(1/s[i]).Vec4(0))
	}
	return out
}

// RotateInPlaceAroundWorldUp yaws m about the world vertical axis through
// its own position.
func RotateInPlaceAroundWorldUp(m mgl64.Mat4, radians float64) mgl64.Mat4 {
	pos := Position(m)
	out := mgl64.HomogRotate3DY(radians).Mul4(WithPosition(m, mgl64.Vec3{}))
	return WithPosition(out, pos)
}

// AffixToWorldUp rebuilds the basis of m so that its up axis is world up
// and its forward axis is m's forward projected onto the ground plane.
// Scale and position are kept.
func AffixToWorldUp(m mgl64.Mat4) mgl64.Mat4 {
	rot := Rotation(m)
	forward := rot.Col(2).Vec3().Mul(-1)
	flat := mgl64.Vec3{forward.X(), 0, forward.Z()}
	if flat.LenSqr() < degenerateEpsilon {
		// Looking straight up or down: the local up axis points along the
		// heading instead.
		up := rot.Col(1).Vec3()
		if forward.Y() > 0 {
			up = up.Mul(-1)
		}
		flat = mgl64.Vec3{up.X(), 0, up.Z()}
		if flat.LenSqr() < degenerateEpsilon {
			flat = mgl64.Vec3{0, 0, -1}
		}
	}
	flat = flat.Normalize()
	side := flat.Cross(WorldUp)
	back := flat.Mul(-1)

	s := Scale(m)
	out := mgl64.Ident4()
	out.SetCol(0, side.Mul(s.X()).Vec4(0))
	out.SetCol(1, WorldUp.Mul(s.Y()).Vec4(0))
	out.SetCol(2, back.Mul(s.Z()).Vec4(0))
	return WithPosition(out, Position(m))
}

// InterpolateAffine blends two transforms: position and scale linearly,
// rotation by slerp, all at easing(t).
func InterpolateAffine(a, b mgl64.Mat4, t float64, easing Easing) mgl64.Mat4 {
	if easing == nil {
		easing = Linear
	}
	t = easing(mgl64.Clamp(t, 0, 1))

	pa, ra, sa := Decompose(a)
	pb, rb, sb := Decompose(b)

	pos := pa.Add(pb.Sub(pa).Mul(t))
	scale := sa.Add(sb.Sub(sa).Mul(t))
	rot := mgl64.QuatSlerp(ra, rb, t)
	return Compose(pos, rot, scale)
}

// CalculateCameraTransformForWaypoint returns the point of view to move to
// for a target transform, keeping the camera's pitch and roll relative to
// world up.
func CalculateCameraTransformForWaypoint(currentPOV, targetPOV mgl64.Mat4) mgl64.Mat4 {
	detach := AffixToWorldUp(currentPOV).Inv().Mul4(currentPOV)
	return AffixToWorldUp(targetPOV).Mul4(detach)
}

// ChildMatch returns the parent world transform that puts a child with the
// given local transform exactly at target.
func ChildMatch(parent, childLocal, target mgl64.Mat4) mgl64.Mat4 {
	if childLocal.Det() == 0 {
		return parent
	}
	return target.Mul4(childLocal.Inv())
}

// DistanceXZ is the ground-plane distance between two points.
func DistanceXZ(a, b mgl64.Vec3) float64 {
	return math.Hypot(a.X()-b.X(), a.Z()-b.Z())
}

// YawMatrix is a pure rotation about world up.
func YawMatrix(radians float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DY(radians)
}
