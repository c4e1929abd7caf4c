package posemath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func approxMat(a, b mgl64.Mat4) bool {
	return a.ApproxEqualThreshold(b, 1e-9)
}

func TestRotateInPlaceAroundWorldUpKeepsPosition(t *testing.T) {
	m := mgl64.Translate3D(1, 2, 3)
	out := RotateInPlaceAroundWorldUp(m, math.Pi/2)

	if !Position(out).ApproxEqualThreshold(mgl64.Vec3{1, 2, 3}, eps) {
		t.Fatalf("position moved: %v", Position(out))
	}
	// -Z forward yawed left by 90 degrees faces -X.
	forward := out.Col(2).Vec3().Mul(-1)
	if !forward.ApproxEqualThreshold(mgl64.Vec3{-1, 0, 0}, eps) {
		t.Fatalf("forward = %v, want -X", forward)
	}
}

func TestAffixToWorldUpRemovesPitch(t *testing.T) {
	yaw, pitch := 0.3, 0.5
	m := mgl64.Translate3D(4, 1.6, -2).
		Mul4(mgl64.HomogRotate3DY(yaw)).
		Mul4(mgl64.HomogRotate3DX(pitch))

	want := mgl64.Translate3D(4, 1.6, -2).Mul4(mgl64.HomogRotate3DY(yaw))
	if got := AffixToWorldUp(m); !approxMat(got, want) {
		t.Fatalf("AffixToWorldUp =\n%v\nwant\n%v", got, want)
	}
}

func TestAffixToWorldUpKeepsScale(t *testing.T) {
	m := mgl64.HomogRotate3DY(1).Mul4(mgl64.Scale3D(2, 2, 2))
	s := Scale(AffixToWorldUp(m))
	if !s.ApproxEqualThreshold(mgl64.Vec3{2, 2, 2}, eps) {
		t.Fatalf("scale = %v, want 2", s)
	}
}

func TestAffixToWorldUpLookingStraightDown(t *testing.T) {
	m := mgl64.HomogRotate3DX(-math.Pi / 2)
	out := AffixToWorldUp(m)
	if !out.Col(1).Vec3().ApproxEqualThreshold(WorldUp, eps) {
		t.Fatalf("up = %v, want world up", out.Col(1).Vec3())
	}
	forward := out.Col(2).Vec3().Mul(-1)
	if !forward.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, eps) {
		t.Fatalf("forward = %v, want -Z heading", forward)
	}
}

func TestInterpolateAffineEndpoints(t *testing.T) {
	a := mgl64.Translate3D(0, 0, 0)
	b := mgl64.Translate3D(10, 2, -4).Mul4(mgl64.HomogRotate3DY(math.Pi / 2))

	if got := InterpolateAffine(a, b, 0, Linear); !approxMat(got, a) {
		t.Fatalf("t=0 gave %v", got)
	}
	if got := InterpolateAffine(a, b, 1, Linear); !approxMat(got, b) {
		t.Fatalf("t=1 gave %v", got)
	}
	mid := Position(InterpolateAffine(a, b, 0.5, Linear))
	if !mid.ApproxEqualThreshold(mgl64.Vec3{5, 1, -2}, eps) {
		t.Fatalf("midpoint = %v", mid)
	}
}

func TestInterpolateAffineAppliesEasing(t *testing.T) {
	a := mgl64.Ident4()
	b := mgl64.Translate3D(1, 0, 0)
	got := Position(InterpolateAffine(a, b, 0.5, EaseOutQuad)).X()
	if math.Abs(got-0.75) > eps {
		t.Fatalf("eased x = %v, want 0.75", got)
	}
}

func TestCalculateCameraTransformForWaypointKeepsPitch(t *testing.T) {
	pitch := -0.4
	current := mgl64.Translate3D(0, 1.6, 0).Mul4(mgl64.HomogRotate3DX(pitch))
	target := mgl64.Translate3D(5, 1.6, 5).Mul4(mgl64.HomogRotate3DY(math.Pi))

	out := CalculateCameraTransformForWaypoint(current, target)

	if !Position(out).ApproxEqualThreshold(mgl64.Vec3{5, 1.6, 5}, eps) {
		t.Fatalf("position = %v", Position(out))
	}
	wantY := current.Col(2).Vec3().Y()
	if got := out.Col(2).Vec3().Y(); math.Abs(got-wantY) > eps {
		t.Fatalf("pitch not kept: forward y %v, want %v", got, wantY)
	}
	if got := AffixToWorldUp(out); !approxMat(got, AffixToWorldUp(target)) {
		t.Fatalf("heading not taken from target")
	}
}

func TestChildMatch(t *testing.T) {
	parent := mgl64.Translate3D(3, 0, 3)
	child := mgl64.Translate3D(0, 1.6, 0).Mul4(mgl64.HomogRotate3DY(0.2))
	target := mgl64.Translate3D(-1, 2, 7).Mul4(mgl64.HomogRotate3DY(1.1))

	next := ChildMatch(parent, child, target)
	if got := next.Mul4(child); !approxMat(got, target) {
		t.Fatalf("child world =\n%v\nwant\n%v", got, target)
	}
}

func TestPosePOVWorld(t *testing.T) {
	p := NewPose(mgl64.Vec3{1, 0, 2}, 1.6)
	if got := Position(p.POVWorld()); !got.ApproxEqualThreshold(mgl64.Vec3{1, 1.6, 2}, eps) {
		t.Fatalf("pov = %v", got)
	}
}

func TestDecomposeComposeRoundTrip(t *testing.T) {
	m := Compose(mgl64.Vec3{1, 2, 3}, mgl64.QuatRotate(0.7, mgl64.Vec3{0, 1, 0}), mgl64.Vec3{1.5, 1.5, 1.5})
	pos, rot, scale := Decompose(m)
	if got := Compose(pos, rot, scale); !approxMat(got, m) {
		t.Fatalf("round trip =\n%v\nwant\n%v", got, m)
	}
}
