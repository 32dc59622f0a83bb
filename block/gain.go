package block

import (
	"math"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// Gain multiplies every input channel by a smoothed, modulatable linear
// amount, composed with a fixed baseGain set at construction time. Grounded
// on the teacher's amplitude-scaling in audio_chip.go's generateSample
// (amplitude * envelope), generalized into a standalone block with a dB
// entry point per spec.md §4.4.
type Gain[S sample.Sample] struct {
	params   paramTable[S]
	amount   *param.Parameter[S]
	baseGain S
	scratch  []S // pre-allocated per-sample multiplier, sized in Prepare
}

// NewGain constructs a Gain block; baseGainDB is a fixed decibel offset
// folded into every sample (0 for unity), and the "amount" parameter is the
// smoothed, modulatable linear multiplier on top of it (default 1).
func NewGain[S sample.Sample](baseGainDB float64) *Gain[S] {
	g := &Gain[S]{
		params:   newParamTable[S](),
		baseGain: S(math.Pow(10, baseGainDB/20)),
	}
	g.amount = g.params.register("amount", param.NewConstant[S](1, 0))
	return g
}

func (g *Gain[S]) Kind() Kind                             { return KindGain }
func (g *Gain[S]) InputCount() int                        { return 1 }
func (g *Gain[S]) OutputCount() int                       { return 1 }
func (g *Gain[S]) ChannelConfig() ChannelConfig            { return ChannelConfigParallel }
func (g *Gain[S]) ModulationOutputs() []ModulationOutput   { return nil }
func (g *Gain[S]) ModulationOutputValues() []S             { return nil }
func (g *Gain[S]) ParameterNames() []string                { return g.params.names() }
func (g *Gain[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return g.params.get(name)
}

func (g *Gain[S]) Prepare(ctx Context[S]) {
	g.params.prepare(ctx.SampleRate)
	if cap(g.scratch) < ctx.BufferSize {
		g.scratch = make([]S, ctx.BufferSize)
	}
	g.scratch = g.scratch[:ctx.BufferSize]
}
func (g *Gain[S]) Reset() {}

func (g *Gain[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	in := inputs[0]
	out := outputs[0]
	channels := in.Channels()

	if !g.amount.IsSmoothing() {
		mult := g.amount.Current() * g.baseGain
		for ch := 0; ch < channels; ch++ {
			src := in.Channel(ch)
			dst := out.Channel(ch)
			for n := 0; n < ctx.BufferSize; n++ {
				dst[n] = src[n] * mult
			}
		}
		return
	}

	// Slow path: amount is still ramping, recompute the multiplier once
	// per sample into the pre-allocated scratch buffer and apply it
	// identically across every channel.
	for n := 0; n < ctx.BufferSize; n++ {
		g.scratch[n] = g.amount.NextValue() * g.baseGain
	}
	for ch := 0; ch < channels; ch++ {
		src := in.Channel(ch)
		dst := out.Channel(ch)
		for n := 0; n < ctx.BufferSize; n++ {
			dst[n] = src[n] * g.scratch[n]
		}
	}
}

func (g *Gain[S]) Finalize() error { return nil }
