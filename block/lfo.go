package block

import (
	"math"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// LFO is a control-rate oscillator: it has no audio input or output ports,
// only a single modulation output ("out") in [-depth, +depth] that other
// blocks' parameters can target via GraphBuilder.Modulate. Phase is
// continuous across buffers, same as Oscillator. Grounded on the teacher's
// vibrato/tremolo LFO fields in audio_chip.go (rateHz, depth, phase),
// generalized from a fixed vibrato/tremolo pair into a general-purpose
// modulation source with selectable waveform.
type LFO[S sample.Sample] struct {
	waveform Waveform
	params   paramTable[S]
	mods     modOutputs[S]

	rate  *param.Parameter[S]
	depth *param.Parameter[S]

	c     sample.Constants[S]
	phase S
}

// NewLFO constructs an LFO of the given waveform (sine, square, saw, or
// triangle; WavePulse is accepted but behaves as WaveSquare since an LFO
// has no duty-cycle parameter, and WaveNoise produces the sine shape).
func NewLFO[S sample.Sample](waveform Waveform) *LFO[S] {
	l := &LFO[S]{
		waveform: waveform,
		params:   newParamTable[S](),
		mods:     newModOutputs[S](ModulationOutput{Name: "out", Min: -1, Max: 1}),
		c:        sample.ConstantsFor[S](),
	}
	l.rate = l.params.register("rate", param.NewConstant[S](5, 0))
	l.depth = l.params.register("depth", param.NewConstant[S](1, 0))
	return l
}

func (l *LFO[S]) Kind() Kind                             { return KindLFO }
func (l *LFO[S]) InputCount() int                        { return 0 }
func (l *LFO[S]) OutputCount() int                       { return 0 }
func (l *LFO[S]) ChannelConfig() ChannelConfig            { return ChannelConfigParallel }
func (l *LFO[S]) ModulationOutputs() []ModulationOutput   { return l.mods.list() }
func (l *LFO[S]) ModulationOutputValues() []S             { return l.mods.get() }
func (l *LFO[S]) ParameterNames() []string                { return l.params.names() }
func (l *LFO[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return l.params.get(name)
}

func (l *LFO[S]) Prepare(ctx Context[S]) { l.params.prepare(ctx.SampleRate) }

func (l *LFO[S]) Reset() { l.phase = 0 }

// Process advances the LFO by one buffer and publishes the control-rate
// value sampled at the end of the buffer, per spec.md §4.4's "blocks
// publish modulation outputs once per buffer" rule.
func (l *LFO[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	rate := l.rate.NextValue()
	depth := l.depth.NextValue()

	dt := S(float64(rate) / float64(ctx.SampleRate))
	for n := 0; n < ctx.BufferSize; n++ {
		l.phase += dt
		if l.phase >= 1 {
			l.phase -= 1
		} else if l.phase < 0 {
			l.phase += 1
		}
	}

	var raw S
	switch l.waveform {
	case WaveSquare, WavePulse:
		if l.phase < 0.5 {
			raw = 1
		} else {
			raw = -1
		}
	case WaveSaw:
		raw = 2*l.phase - 1
	case WaveTriangle:
		if l.phase < 0.5 {
			raw = 4*l.phase - 1
		} else {
			raw = 3 - 4*l.phase
		}
	default:
		raw = S(math.Sin(float64(l.phase) * float64(l.c.Tau)))
	}

	l.mods.publish(0, raw*depth)
}

func (l *LFO[S]) Finalize() error { return nil }
