// Package animation provides time-varying scalar parameters for the
// synthesizer, queried by absolute sample index.
package animation

import (
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
)

var ErrNoKeyframes = errors.New("animation: curve needs at least one keyframe")

// Evaluator returns the value of a parameter at sampleIndex of a stream that is
// totalSamples long and runs at sampleRate. Implementations must be pure
// functions of their arguments and safe for concurrent use.
type Evaluator interface {
	Evaluate(sampleIndex, totalSamples int64, sampleRate int) float64
}

// Parameter hands out a consistent, read-only view of a parameter.
// Every Evaluate on one snapshot sees the same curve, even if the
// parameter is edited in the meantime.
type Parameter interface {
	Snapshot() Evaluator
}

type Interpolation int

const (
	// Linear ramps between neighbouring keyframes.
	Linear Interpolation = iota
	// Hold keeps each keyframe's value until the next one.
	Hold
)

// Keyframe pins a value at an offset from the start of the stream.
type Keyframe struct {
	At    time.Duration
	Value float64
}

// Curve is an immutable keyframed parameter. Keyframes are either pinned to
// times (NewCurve) or spread evenly over the whole stream (Evenly). Outside
// the keyed range the nearest keyframe's value is held. Results are clamped
// to the curve's domain.
type Curve struct {
	keys   []Keyframe
	values []float64
	interp Interpolation
	min    float64
	max    float64
}

// Constant is a curve that always evaluates to v.
func Constant(v float64) *Curve {
	return &Curve{values: []float64{v}, min: math.Inf(-1), max: math.Inf(1)}
}

// NewCurve builds a curve from timed keyframes. Keys are sorted by time;
// keys sharing a time keep their relative order and the last one wins.
func NewCurve(interp Interpolation, keys ...Keyframe) (*Curve, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeyframes
	}

	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At < sorted[j].At
	})

	return &Curve{keys: sorted, interp: interp, min: math.Inf(-1), max: math.Inf(1)}, nil
}

// Evenly builds a linear curve whose values are spread evenly from the first
// to the last sample of the stream.
func Evenly(values ...float64) (*Curve, error) {
	if len(values) == 0 {
		return nil, ErrNoKeyframes
	}

	v := make([]float64, len(values))
	copy(v, values)
	return &Curve{values: v, interp: Linear, min: math.Inf(-1), max: math.Inf(1)}, nil
}

// WithDomain returns a copy of c whose results are clamped to [min, max].
func (c *Curve) WithDomain(min, max float64) *Curve {
	cp := *c
	cp.min, cp.max = min, max
	return &cp
}

// WithInterpolation returns a copy of c using interp between keyframes.
func (c *Curve) WithInterpolation(interp Interpolation) *Curve {
	cp := *c
	cp.interp = interp
	return &cp
}

// Domain reports the clamp range of the curve.
func (c *Curve) Domain() (min, max float64) {
	return c.min, c.max
}

// Snapshot returns c itself; a Curve never changes.
func (c *Curve) Snapshot() Evaluator {
	return c
}

func (c *Curve) Evaluate(sampleIndex, totalSamples int64, sampleRate int) float64 {
	if c.keys != nil {
		return c.clamp(c.timed(sampleIndex, sampleRate))
	}
	return c.clamp(c.spread(sampleIndex, totalSamples))
}

func (c *Curve) timed(sampleIndex int64, sampleRate int) float64 {
	if sampleRate <= 0 {
		return c.keys[0].Value
	}

	t := float64(sampleIndex) / float64(sampleRate)
	i := sort.Search(len(c.keys), func(i int) bool {
		return c.keys[i].At.Seconds() > t
	})

	switch {
	case i == 0:
		return c.keys[0].Value
	case i == len(c.keys):
		return c.keys[len(c.keys)-1].Value
	}

	a, b := c.keys[i-1], c.keys[i]
	if c.interp == Hold {
		return a.Value
	}
	frac := (t - a.At.Seconds()) / (b.At.Seconds() - a.At.Seconds())
	return lerp(a.Value, b.Value, frac)
}

func (c *Curve) spread(sampleIndex, totalSamples int64) float64 {
	n := len(c.values)
	if n == 1 || totalSamples <= 1 {
		return c.values[0]
	}

	pos := float64(sampleIndex) / float64(totalSamples-1) * float64(n-1)
	switch {
	case pos <= 0:
		return c.values[0]
	case pos >= float64(n-1):
		return c.values[n-1]
	}

	i := int(math.Floor(pos))
	if c.interp == Hold {
		return c.values[i]
	}
	return lerp(c.values[i], c.values[i+1], pos-float64(i))
}

func (c *Curve) clamp(v float64) float64 {
	return math.Max(c.min, math.Min(c.max, v))
}

func lerp(a, b, frac float64) float64 {
	return a + (b-a)*frac
}
