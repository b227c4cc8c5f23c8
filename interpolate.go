package timeline

import (
	"math"

	"github.com/tanema/gween/ease"
)

// interpolator computes the value at t strictly inside the segment [a, b].
type interpolator func(a, b *Keyframe, t int) float64

// interpolators is keyed by the mode of the segment's starting keyframe.
var interpolators = [modeCount]interpolator{
	ModeSmooth:    interpolateSmooth,
	ModeLinear:    interpolateLinear,
	ModeDiscrete:  interpolateDiscrete,
	ModeJumpFloor: interpolateJumpFloor,
	ModeJumpRoof:  interpolateJumpRoof,
}

// sample returns the value at t inside the segment starting at k. Both
// playback and chart previews go through here, endpoints are exact.
func (k *Keyframe) sample(t int) float64 {
	b := k.next
	if b == nil || t <= k.time {
		return k.value
	}
	if t >= b.time {
		return b.value
	}
	return interpolators[k.mode](k, b, t)
}

func fraction(a, b *Keyframe, t int) float64 {
	return float64(t-a.time) / float64(b.time-a.time)
}

func interpolateLinear(a, b *Keyframe, t int) float64 {
	return a.value + fraction(a, b, t)*(b.value-a.value)
}

func interpolateSmooth(a, b *Keyframe, t int) float64 {
	eased := float64(ease.InOutSine(float32(fraction(a, b, t)), 0, 1, 1))
	return a.value + eased*(b.value-a.value)
}

func interpolateDiscrete(a, _ *Keyframe, _ int) float64 {
	return a.value
}

func interpolateJumpFloor(a, b *Keyframe, t int) float64 {
	return interpolateJump(a, b, t, 1)
}

func interpolateJumpRoof(a, b *Keyframe, t int) float64 {
	return interpolateJump(a, b, t, -1)
}

// interpolateJump moves from a.value toward the baseline b.value under
// gravity pointing in direction dir, bouncing back off the baseline. When a
// already lies on or past the baseline the value snaps to it.
func interpolateJump(a, b *Keyframe, t int, dir float64) float64 {
	dist := b.value - a.value
	if dist*dir <= 0 {
		return b.value
	}
	p := bounceProgress(fraction(a, b, t), a.gravityOrDefault(), a.bounceOrDefault())
	return a.value + dist*p
}

const (
	// maxRetention caps the velocity kept on each rebound so the bounce
	// series converges.
	maxRetention = 0.95
	// minRebound is the rebound velocity, relative to the impact velocity,
	// below which the value rests on the baseline.
	minRebound = 1e-3
)

// bounceProgress maps u in [0, 1] to the distance covered toward the
// baseline, also in [0, 1]. The value falls from rest, hits the baseline and
// each rebound keeps the bounce fraction of its velocity. Before scaling, the
// first impact happens at 1/(1+gravity) of the segment. When the whole bounce
// series outlasts the segment it is compressed to fit, otherwise the value
// rests on the baseline once it settles. Either way the curve reaches 1
// continuously at u = 1 and rebound peaks never exceed the start height.
func bounceProgress(u, gravity, bounce float64) float64 {
	if u >= 1 {
		return 1
	}
	impact := 1 / (1 + gravity)
	r := math.Min(bounce, maxRetention)
	// Flight k lasts 2*impact*r^k, so the series sums to this.
	total := impact + 2*impact*r/(1-r)
	tau := u
	if total > 1 {
		tau = u * total
	}
	if tau < impact {
		x := tau / impact
		return x * x
	}
	g := 2 / (impact * impact)
	v := g * impact * r
	stop := g * impact * minRebound
	rest := tau - impact
	for v > stop {
		flight := 2 * v / g
		if rest < flight {
			return 1 - (v*rest - 0.5*g*rest*rest)
		}
		rest -= flight
		v *= r
	}
	return 1
}
