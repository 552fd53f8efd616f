package synth

import (
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alextopher/hzwave/animation"
	"github.com/Alextopher/hzwave/waveform"
)

type changingRate struct {
	rate beep.SampleRate
}

func (c *changingRate) SampleRate() beep.SampleRate {
	return c.rate
}

type countingParam struct {
	animation.Evaluator
	snapshots int
}

func (c *countingParam) Snapshot() animation.Evaluator {
	c.snapshots++
	return c.Evaluator
}

func constantEffect(typ waveform.Type, freq, amp float64) *Effect {
	return &Effect{
		Frequency: animation.Constant(freq),
		Amplitude: animation.Constant(amp),
		Waveform:  typ,
	}
}

func read(t *testing.T, p *Processor, count int) []float32 {
	t.Helper()
	buf := make([]float32, count)
	n, err := p.Read(buf, 0, count)
	require.NoError(t, err)
	require.Equal(t, count, n)
	return buf
}

func TestLen(t *testing.T) {
	e := NewEffect()

	assert.Equal(t, int64(44100), e.NewProcessor(time.Second).Len())
	assert.Equal(t, int64(72000), e.NewProcessor(1500*time.Millisecond, WithUpstream(FixedRate(48000))).Len())
	assert.Equal(t, int64(0), e.NewProcessor(-time.Second).Len())
	assert.Equal(t, int64(0), e.NewProcessor(0).Len())
	// 3 * 0.5 rounds up to 2
	assert.Equal(t, int64(2), e.NewProcessor(500*time.Millisecond, WithUpstream(FixedRate(3))).Len())
}

func TestDefaultSampleRate(t *testing.T) {
	p := NewEffect().NewProcessor(time.Second)
	assert.Equal(t, DefaultSampleRate, p.SampleRate())
}

func TestSampleRateLatched(t *testing.T) {
	up := &changingRate{rate: 48000}
	p := NewEffect().NewProcessor(time.Second, WithUpstream(up))

	assert.Equal(t, beep.SampleRate(48000), p.SampleRate())
	up.rate = 22050
	assert.Equal(t, beep.SampleRate(48000), p.SampleRate())
	assert.Equal(t, int64(48000), p.Len())
}

func TestSineScenario(t *testing.T) {
	p := constantEffect(waveform.Sine, 440, 100).NewProcessor(time.Second, WithUpstream(FixedRate(44100)))
	require.Equal(t, int64(44100), p.Len())

	p.SetPosition(0)
	buf := read(t, p, 4)

	assert.Equal(t, float32(0), buf[0])
	assert.Equal(t, float32(0), buf[1])
	assert.InDelta(t, 0.0627, buf[2], 1e-3)
	assert.Equal(t, float32(waveform.Value(waveform.Sine, 440, 1.0/44100)), buf[2])
	assert.Equal(t, buf[2], buf[3])
	assert.Equal(t, int64(4), p.Position())
}

func TestSquareScenario(t *testing.T) {
	p := constantEffect(waveform.Square, 1, 100).NewProcessor(2*time.Second, WithUpstream(FixedRate(4)))
	buf := read(t, p, 16)

	// frames at t = 0, 0.25, 0.5, ... one sign flip per half period
	assert.Equal(t, float32(0), buf[0])
	assert.Equal(t, float32(1), buf[2])
	assert.Equal(t, float32(-1), buf[6])
	assert.Equal(t, float32(1), buf[10])
	assert.Equal(t, float32(-1), buf[14])
}

func TestIdentityAtZero(t *testing.T) {
	want := map[waveform.Type]float32{
		waveform.Sine:     0,
		waveform.Square:   0,
		waveform.Triangle: -1,
		waveform.Sawtooth: -1,
	}
	for typ, v := range want {
		p := constantEffect(typ, 1000, 100).NewProcessor(time.Second)
		buf := read(t, p, 2)
		assert.Equal(t, v, buf[0], typ.String())
	}
}

func TestSeekMatchesSequential(t *testing.T) {
	freq, err := animation.Evenly(100, 5000, 300)
	require.NoError(t, err)
	amp, err := animation.Evenly(0, 100)
	require.NoError(t, err)

	for _, typ := range waveform.Types() {
		e := &Effect{Frequency: freq, Amplitude: amp, Waveform: typ}

		seq := e.NewProcessor(100 * time.Millisecond)
		var all []float32
		for _, chunk := range []int{2, 64, 30, 1000, 6, 4000} {
			all = append(all, read(t, seq, chunk)...)
		}

		for _, pos := range []int{0, 2, 64, 1000, 3334, 4000} {
			jump := e.NewProcessor(100 * time.Millisecond)
			jump.SetPosition(int64(pos))
			got := read(t, jump, 1000)
			assert.Equal(t, all[pos:pos+1000], got, "%v seek %d", typ, pos)
		}

		// seeking backwards on the same processor reproduces earlier output
		seq.SetPosition(64)
		assert.Equal(t, all[64:128], read(t, seq, 64), typ.String())
	}
}

func TestStereoDuplication(t *testing.T) {
	freq, err := animation.Evenly(20, 20000)
	require.NoError(t, err)

	for _, typ := range waveform.Types() {
		e := &Effect{Frequency: freq, Amplitude: animation.Constant(80), Waveform: typ}
		buf := read(t, e.NewProcessor(time.Second), 8820)
		for i := 0; i < len(buf); i += 2 {
			require.Equal(t, buf[i], buf[i+1], "%v frame %d", typ, i/2)
		}
	}
}

func TestZeroAmplitudeIsSilent(t *testing.T) {
	for _, typ := range waveform.Types() {
		buf := read(t, constantEffect(typ, 1234, 0).NewProcessor(time.Second), 4410)
		for i, v := range buf {
			require.True(t, v == 0, "%v sample %d = %v", typ, i, v)
		}
	}
}

func TestAmplitudeBound(t *testing.T) {
	for _, typ := range waveform.Types() {
		buf := read(t, constantEffect(typ, 777, 37).NewProcessor(time.Second), 8820)
		for i, v := range buf {
			require.LessOrEqual(t, math.Abs(float64(v)), 0.37+1e-6, "%v sample %d", typ, i)
		}
	}
}

func TestNegativeSeek(t *testing.T) {
	p := constantEffect(waveform.Sine, 440, 100).NewProcessor(time.Second)

	p.SetPosition(2)
	forward := read(t, p, 4)

	p.SetPosition(-4)
	backward := read(t, p, 4)

	// frames -2, -1 mirror frames 2, 1
	assert.Equal(t, -forward[2], backward[0])
	assert.Equal(t, -forward[0], backward[2])
	assert.Equal(t, int64(0), p.Position())
}

func TestOddCursorRoundsToFrame(t *testing.T) {
	e := constantEffect(waveform.Sawtooth, 300, 100)

	even := e.NewProcessor(time.Second)
	odd := e.NewProcessor(time.Second)
	odd.SetPosition(1)

	assert.Equal(t, read(t, even, 6), read(t, odd, 6))
	assert.Equal(t, int64(7), odd.Position())
}

func TestReadPastEnd(t *testing.T) {
	p := constantEffect(waveform.Sine, 440, 100).NewProcessor(time.Millisecond)
	require.Equal(t, int64(44), p.Len())

	p.SetPosition(2 * p.Len())
	buf := read(t, p, 4)
	want := float32(math.Sin(2 * math.Pi * 440 * 44 / 44100.0))
	assert.InDelta(t, want, buf[0], 1e-6)
}

func TestReadOffset(t *testing.T) {
	p := constantEffect(waveform.Triangle, 100, 100).NewProcessor(time.Second)

	buf := []float32{9, 9, 9, 9, 9, 9, 9, 9}
	n, err := p.Read(buf, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, []float32{9, 9}, buf[:2])
	assert.Equal(t, float32(-1), buf[2])
	assert.Equal(t, float32(-1), buf[3])
	assert.Equal(t, buf[4], buf[5])
	assert.Equal(t, []float32{9, 9}, buf[6:])
}

func TestReadOddLength(t *testing.T) {
	p := constantEffect(waveform.Sine, 440, 100).NewProcessor(time.Second)
	p.SetPosition(10)

	buf := []float32{5, 5, 5}
	n, err := p.Read(buf, 0, 3)
	assert.ErrorIs(t, err, ErrOddLength)
	assert.Equal(t, 0, n)
	assert.Equal(t, []float32{5, 5, 5}, buf)
	assert.Equal(t, int64(10), p.Position())
}

func TestReadOutOfBuffer(t *testing.T) {
	p := constantEffect(waveform.Sine, 440, 100).NewProcessor(time.Second)
	buf := make([]float32, 4)

	for _, c := range []struct{ offset, count int }{
		{0, 6},
		{2, 4},
		{-2, 2},
		{0, -2},
	} {
		_, err := p.Read(buf, c.offset, c.count)
		assert.ErrorIs(t, err, ErrShortBuffer, "offset %d count %d", c.offset, c.count)
	}
	assert.Equal(t, int64(0), p.Position())
}

func TestReadZero(t *testing.T) {
	p := constantEffect(waveform.Sine, 440, 100).NewProcessor(time.Second)
	n, err := p.Read(nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, int64(0), p.Position())
}

func TestInvalidSampleRate(t *testing.T) {
	for _, sr := range []FixedRate{0, -44100} {
		p := constantEffect(waveform.Sine, 440, 100).NewProcessor(time.Second, WithUpstream(sr))
		assert.Equal(t, int64(0), p.Len())

		_, err := p.Read(make([]float32, 4), 0, 4)
		assert.ErrorIs(t, err, ErrInvalidSampleRate)
		assert.Equal(t, int64(0), p.Position())
	}
}

func TestOneSnapshotPerRead(t *testing.T) {
	freq := &countingParam{Evaluator: animation.Constant(440)}
	amp := &countingParam{Evaluator: animation.Constant(100)}
	p := (&Effect{Frequency: freq, Amplitude: amp}).NewProcessor(time.Second)

	read(t, p, 512)
	read(t, p, 512)

	assert.Equal(t, 2, freq.snapshots)
	assert.Equal(t, 2, amp.snapshots)
}

func TestEditsApplyToNextRead(t *testing.T) {
	e := NewEffect()
	p := e.NewProcessor(time.Second)

	first := read(t, p, 4)
	assert.InDelta(t, 0.5*math.Sin(2*math.Pi*440/44100), first[2], 1e-6)

	require.NoError(t, e.Amplitude.(*animation.Animation).SetValues(0))
	p.SetPosition(0)
	second := read(t, p, 4)
	assert.Equal(t, float32(0), second[2])
}

func TestNewEffectDefaults(t *testing.T) {
	e := NewEffect()
	assert.Equal(t, waveform.Sine, e.Waveform)
	assert.Equal(t, 440.0, e.Frequency.Snapshot().Evaluate(0, 1, 44100))
	assert.Equal(t, 50.0, e.Amplitude.Snapshot().Evaluate(0, 1, 44100))
	assert.NotEmpty(t, e.Label())

	f := e.Frequency.(*animation.Animation)
	assert.Equal(t, float64(MinFrequency), f.Min())
	assert.Equal(t, float64(MaxFrequency), f.Max())
}
