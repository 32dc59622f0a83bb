package block

import (
	"math"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// Panner spatializes a mono input across the graph's output channel
// layout. It is ChannelConfigExplicit, per spec.md §4.4/§9, because
// routing needs every output channel available at once rather than being
// processable independently. Stereo uses constant-power panning; surround
// layouts use a simplified VBAP (vector-base amplitude panning) across the
// two nearest speakers on an equally-spaced ring; ambisonic layouts encode
// directly to B-format channel weights (W/X/Y/Z, …). Grounded on the
// teacher's constant-power stereo mix in audio_chip.go's stereo output
// stage, generalized to N channels.
type Panner[S sample.Sample] struct {
	params paramTable[S]
	pan    *param.Parameter[S] // -1 (left) .. +1 (right), stereo only
	angle  *param.Parameter[S] // 0..2π radians, surround/ambisonic

	c sample.Constants[S]
}

func NewPanner[S sample.Sample]() *Panner[S] {
	p := &Panner[S]{
		params: newParamTable[S](),
		c:      sample.ConstantsFor[S](),
	}
	p.pan = p.params.register("pan", param.NewConstant[S](0, 0))
	p.angle = p.params.register("angle", param.NewConstant[S](0, 0))
	return p
}

func (p *Panner[S]) Kind() Kind                           { return KindPanner }
func (p *Panner[S]) InputCount() int                      { return 1 }
func (p *Panner[S]) OutputCount() int                     { return 1 }
func (p *Panner[S]) ChannelConfig() ChannelConfig          { return ChannelConfigExplicit }
func (p *Panner[S]) ModulationOutputs() []ModulationOutput { return nil }
func (p *Panner[S]) ModulationOutputValues() []S           { return nil }
func (p *Panner[S]) ParameterNames() []string              { return p.params.names() }
func (p *Panner[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return p.params.get(name)
}

func (p *Panner[S]) Prepare(ctx Context[S]) { p.params.prepare(ctx.SampleRate) }
func (p *Panner[S]) Reset()                 {}

func (p *Panner[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	src := inputs[0].Channel(0)
	out := outputs[0]

	switch ctx.Layout.Role {
	case RoleAmbisonicFOA, RoleAmbisonicSOA, RoleAmbisonicTOA:
		p.processAmbisonic(src, out, ctx)
	case RoleMono:
		dst := out.Channel(0)
		copy(dst, src)
	default:
		p.processSpeakers(src, out, ctx)
	}
}

// processSpeakers handles ring-arranged surround layouts
// (nearest-two-speaker VBAP on "angle"); a two-channel layout is handed to
// processStereo, which uses the constant-power law on "pan" instead.
func (p *Panner[S]) processSpeakers(src []S, out *abuf.Buffer[S], ctx Context[S]) {
	channels := out.Channels()
	if channels == 2 {
		p.processStereo(src, out, ctx)
		return
	}

	for n := 0; n < ctx.BufferSize; n++ {
		theta := float64(p.angle.NextValue())
		s := src[n]
		sector := theta / (2 * math.Pi) * float64(channels)
		lo := int(math.Floor(sector)) % channels
		if lo < 0 {
			lo += channels
		}
		hi := (lo + 1) % channels
		frac := sector - math.Floor(sector)
		gLo := S(math.Cos(frac * math.Pi / 2))
		gHi := S(math.Sin(frac * math.Pi / 2))
		for ch := 0; ch < channels; ch++ {
			var g S
			switch ch {
			case lo:
				g = gLo
			case hi:
				g = gHi
			}
			out.Channel(ch)[n] = s * g
		}
	}
}

func (p *Panner[S]) processStereo(src []S, out *abuf.Buffer[S], ctx Context[S]) {
	left := out.Channel(0)
	right := out.Channel(1)
	for n := 0; n < ctx.BufferSize; n++ {
		pan := p.pan.NextValue()
		// map [-1,1] to a quarter-turn and apply the equal-power law.
		theta := (pan + 1) * (p.c.Pi / 4)
		gL := S(math.Cos(float64(theta)))
		gR := S(math.Sin(float64(theta)))
		s := src[n]
		left[n] = s * gL
		right[n] = s * gR
	}
}

// processAmbisonic encodes the mono source into B-format channels at the
// given incidence angle. First order (FOA, 4 channels: W,X,Y,Z with Z left
// at zero for a horizontal-only source) and higher orders (SOA/TOA) encode
// their additional channels as zero, since a single point source's extra
// spherical-harmonic components require elevation, which this Panner does
// not expose as a parameter — they are present only so the channel count
// matches the declared layout.
func (p *Panner[S]) processAmbisonic(src []S, out *abuf.Buffer[S], ctx Context[S]) {
	w := out.Channel(0)
	x := out.Channel(1)
	y := out.Channel(2)
	for n := 0; n < ctx.BufferSize; n++ {
		theta := float64(p.angle.NextValue())
		s := src[n]
		w[n] = s * S(p.c.InvSqrt2)
		x[n] = s * S(math.Cos(theta))
		y[n] = s * S(math.Sin(theta))
	}
	for ch := 3; ch < out.Channels(); ch++ {
		dst := out.Channel(ch)
		for n := range dst {
			dst[n] = 0
		}
	}
}

func (p *Panner[S]) Finalize() error { return nil }
