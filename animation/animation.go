package animation

import (
	"sync/atomic"
)

// Animation is a host-owned, editable parameter with a fixed domain.
// Editors replace the whole curve; readers take snapshots. Both sides may run
// on different goroutines without extra locking.
type Animation struct {
	min, max float64
	curve    atomic.Pointer[Curve]
}

// NewAnimation creates an animation holding the constant initial value,
// restricted to [min, max].
func NewAnimation(initial, min, max float64) *Animation {
	a := &Animation{min: min, max: max}
	a.Set(Constant(initial))
	return a
}

func (a *Animation) Min() float64 { return a.min }
func (a *Animation) Max() float64 { return a.max }

// Set publishes c, clamped to the animation's domain. A nil c is ignored.
func (a *Animation) Set(c *Curve) {
	if c == nil {
		return
	}
	a.curve.Store(c.WithDomain(a.min, a.max))
}

// SetValues publishes values spread evenly over the stream, ramping linearly.
func (a *Animation) SetValues(values ...float64) error {
	c, err := Evenly(values...)
	if err != nil {
		return err
	}
	a.Set(c)
	return nil
}

// SetKeyframes publishes a curve built from timed keyframes.
func (a *Animation) SetKeyframes(interp Interpolation, keys ...Keyframe) error {
	c, err := NewCurve(interp, keys...)
	if err != nil {
		return err
	}
	a.Set(c)
	return nil
}

// Curve returns the curve currently published.
func (a *Animation) Curve() *Curve {
	return a.curve.Load()
}

func (a *Animation) Snapshot() Evaluator {
	return a.curve.Load()
}
