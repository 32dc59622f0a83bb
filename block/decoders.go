package block

import (
	"math"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// AmbisonicDecoder converts a first-order B-format input (W, X, Y[, Z])
// into a regular speaker array arranged in a ring, per spec.md §4.4.
// Decoding is basic (unweighted) ambisonic decoding: each speaker's gain
// is W + X·cos(θ) + Y·sin(θ) for its ring angle θ, which is the standard
// first-order decode equation. Grounded on the teacher's absence of any
// ambisonic code; the decode equation itself is the well-known closed
// form referenced by spec.md §4.4's design notes, implemented directly
// since no corpus file carries ambisonic DSP.
type AmbisonicDecoder[S sample.Sample] struct {
	params        paramTable[S]
	speakerAngles []float64 // radians, one per output channel
}

func NewAmbisonicDecoder[S sample.Sample](speakerCount int) *AmbisonicDecoder[S] {
	angles := make([]float64, speakerCount)
	for i := range angles {
		angles[i] = 2 * math.Pi * float64(i) / float64(speakerCount)
	}
	return &AmbisonicDecoder[S]{params: newParamTable[S](), speakerAngles: angles}
}

func (a *AmbisonicDecoder[S]) Kind() Kind                  { return KindAmbisonicDecoder }
func (a *AmbisonicDecoder[S]) InputCount() int             { return 1 }
func (a *AmbisonicDecoder[S]) OutputCount() int            { return 1 }
func (a *AmbisonicDecoder[S]) ChannelConfig() ChannelConfig { return ChannelConfigExplicit }
func (a *AmbisonicDecoder[S]) ModulationOutputs() []ModulationOutput { return nil }
func (a *AmbisonicDecoder[S]) ModulationOutputValues() []S           { return nil }
func (a *AmbisonicDecoder[S]) ParameterNames() []string              { return a.params.names() }
func (a *AmbisonicDecoder[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return a.params.get(name)
}

func (a *AmbisonicDecoder[S]) Prepare(ctx Context[S]) { a.params.prepare(ctx.SampleRate) }
func (a *AmbisonicDecoder[S]) Reset()                 {}

func (a *AmbisonicDecoder[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	in := inputs[0]
	w := in.Channel(0)
	var x, y []S
	if in.Channels() > 1 {
		x = in.Channel(1)
	}
	if in.Channels() > 2 {
		y = in.Channel(2)
	}

	out := outputs[0]
	for s, theta := range a.speakerAngles {
		if s >= out.Channels() {
			break
		}
		dst := out.Channel(s)
		cosT := S(math.Cos(theta))
		sinT := S(math.Sin(theta))
		for n := 0; n < ctx.BufferSize; n++ {
			v := w[n]
			if x != nil {
				v += x[n] * cosT
			}
			if y != nil {
				v += y[n] * sinT
			}
			dst[n] = v
		}
	}
}

func (a *AmbisonicDecoder[S]) Finalize() error { return nil }

// BinauralDecoder renders a stereo input to a binaural stereo output via a
// simple interaural-time/level-difference approximation rather than a true
// measured HRTF convolution (no HRIR dataset is available in this corpus):
// a fixed one-sample cross-channel delay plus a shelf-like gain difference
// stand in for the missing head-related transfer function, documented as
// an approximation per spec.md §9's "BinauralDecoder may use a simplified
// model" allowance.
type BinauralDecoder[S sample.Sample] struct {
	params paramTable[S]
	delayL []S
	delayR []S
}

func NewBinauralDecoder[S sample.Sample]() *BinauralDecoder[S] {
	return &BinauralDecoder[S]{params: newParamTable[S](), delayL: make([]S, 1), delayR: make([]S, 1)}
}

func (b *BinauralDecoder[S]) Kind() Kind                  { return KindBinauralDecoder }
func (b *BinauralDecoder[S]) InputCount() int             { return 1 }
func (b *BinauralDecoder[S]) OutputCount() int            { return 1 }
func (b *BinauralDecoder[S]) ChannelConfig() ChannelConfig { return ChannelConfigExplicit }
func (b *BinauralDecoder[S]) ModulationOutputs() []ModulationOutput { return nil }
func (b *BinauralDecoder[S]) ModulationOutputValues() []S           { return nil }
func (b *BinauralDecoder[S]) ParameterNames() []string              { return b.params.names() }
func (b *BinauralDecoder[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return b.params.get(name)
}

func (b *BinauralDecoder[S]) Prepare(ctx Context[S]) { b.params.prepare(ctx.SampleRate) }
func (b *BinauralDecoder[S]) Reset() {
	b.delayL[0] = 0
	b.delayR[0] = 0
}

func (b *BinauralDecoder[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	in := inputs[0]
	out := outputs[0]
	left := in.Channel(0)
	var right []S
	if in.Channels() > 1 {
		right = in.Channel(1)
	} else {
		right = left
	}
	dstL := out.Channel(0)
	dstR := out.Channel(1)

	prevL, prevR := b.delayL[0], b.delayR[0]
	for n := 0; n < ctx.BufferSize; n++ {
		dstL[n] = left[n]*0.9 + prevR*0.1
		dstR[n] = right[n]*0.9 + prevL*0.1
		prevL, prevR = left[n], right[n]
	}
	b.delayL[0], b.delayR[0] = prevL, prevR
}

func (b *BinauralDecoder[S]) Finalize() error { return nil }
