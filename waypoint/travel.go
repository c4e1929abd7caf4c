package waypoint

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TravelDuration is how long the animated move from one point of view to
// another takes at averageSpeed meters per second. Instant waypoints, and
// immersive sessions without the lerp override, travel in zero time.
func TravelDuration(from, to mgl64.Vec3, averageSpeed float64, immersive, allowLerpInImmersive, instant bool) time.Duration {
	if instant || (immersive && !allowLerpInImmersive) || averageSpeed <= 0 {
		return 0
	}
	seconds := from.Sub(to).Len() / averageSpeed
	return time.Duration(seconds * float64(time.Second))
}

// Travel is one animated move in progress.
type Travel struct {
	Start    mgl64.Mat4
	Target   *Waypoint
	Began    time.Duration
	Duration time.Duration

	tween *gween.Tween
}

// NewTravel starts animating from start towards target at now.
func NewTravel(start mgl64.Mat4, target *Waypoint, now, duration time.Duration) *Travel {
	return &Travel{
		Start:    start,
		Target:   target,
		Began:    now,
		Duration: duration,
		tween:    gween.New(0, 1, float32(duration.Seconds()), ease.OutQuad),
	}
}

// Progress returns the eased progress at now and whether the animation is
// over. A zero duration is over immediately.
func (t *Travel) Progress(now time.Duration) (float64, bool) {
	if t.Duration <= 0 {
		return 1, true
	}
	elapsed := math32.Max(0, float32((now - t.Began).Seconds()))
	eased, done := t.tween.Set(math32.Min(elapsed, float32(t.Duration.Seconds())))
	if now >= t.Began+t.Duration {
		done = true
	}
	return float64(eased), done
}
