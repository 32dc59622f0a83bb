package block

import (
	"math"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// LowPassFilter is a state-variable filter run in its low-pass mode, with
// smoothed cutoff (Hz) and resonance (Q, >0) parameters. Per-sample
// coefficient recomputation (rather than once-per-buffer) lets cutoff
// sweep smoothly even under heavy modulation, matching spec.md §4.4's
// smoothed-parameter contract. Grounded on the teacher's one-pole/state
// filters are absent from audio_chip.go, so the topology itself is drawn
// from the classic Chamberlin SVF structure referenced by
// other_examples/grimnir_radio's DSP graph filter stage.
type LowPassFilter[S sample.Sample] struct {
	params    paramTable[S]
	cutoff    *param.Parameter[S]
	resonance *param.Parameter[S]

	low  []S
	band []S
}

func NewLowPassFilter[S sample.Sample]() *LowPassFilter[S] {
	f := &LowPassFilter[S]{params: newParamTable[S]()}
	f.cutoff = f.params.register("cutoff", param.NewConstant[S](1000, 0))
	f.resonance = f.params.register("resonance", param.NewConstant[S](0.7, 0))
	return f
}

func (f *LowPassFilter[S]) Kind() Kind                           { return KindLowPassFilter }
func (f *LowPassFilter[S]) InputCount() int                      { return 1 }
func (f *LowPassFilter[S]) OutputCount() int                     { return 1 }
func (f *LowPassFilter[S]) ChannelConfig() ChannelConfig          { return ChannelConfigParallel }
func (f *LowPassFilter[S]) ModulationOutputs() []ModulationOutput { return nil }
func (f *LowPassFilter[S]) ModulationOutputValues() []S           { return nil }
func (f *LowPassFilter[S]) ParameterNames() []string              { return f.params.names() }
func (f *LowPassFilter[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return f.params.get(name)
}

func (f *LowPassFilter[S]) Prepare(ctx Context[S]) {
	f.params.prepare(ctx.SampleRate)
	if len(f.low) != ctx.Layout.Channels {
		f.low = make([]S, ctx.Layout.Channels)
		f.band = make([]S, ctx.Layout.Channels)
	}
}

func (f *LowPassFilter[S]) Reset() {
	for i := range f.low {
		f.low[i] = 0
		f.band[i] = 0
	}
}

func (f *LowPassFilter[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	in := inputs[0]
	out := outputs[0]
	channels := in.Channels()
	sr := float64(ctx.SampleRate)

	for n := 0; n < ctx.BufferSize; n++ {
		cutoff := f.cutoff.NextValue()
		q := f.resonance.NextValue()

		freq := float64(cutoff)
		if freq > sr*0.49 {
			freq = sr * 0.49
		}
		fCoef := S(2 * math.Sin(math.Pi*freq/sr))
		damp := S(0)
		if q > 0 {
			damp = 1 / q
		}

		for ch := 0; ch < channels && ch < len(f.low); ch++ {
			src := in.Channel(ch)
			dst := out.Channel(ch)
			x := src[n]

			low := f.low[ch]
			band := f.band[ch]
			high := x - low - damp*band
			band += fCoef * high
			low += fCoef * band

			f.low[ch] = low
			f.band[ch] = band
			dst[n] = low
		}
	}
}

func (f *LowPassFilter[S]) Finalize() error { return nil }
