package block

import (
	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// DcBlocker is a first-order high-pass filter (y[n] = x[n] - x[n-1] +
// R·y[n-1]) that removes DC offset and sub-audio rumble introduced by
// asymmetric waveshaping (e.g. downstream of Overdrive), per spec.md
// §4.4. The "enabled" parameter lets a graph wire it permanently and
// toggle it at runtime without rebuilding, rather than conditionally
// bypassing it at the graph level.
type DcBlocker[S sample.Sample] struct {
	params  paramTable[S]
	enabled *param.Parameter[S]
	r       S // pole radius, fixed from sample rate in Prepare

	prevX []S // per-channel one-sample memory
	prevY []S
}

func NewDcBlocker[S sample.Sample]() *DcBlocker[S] {
	d := &DcBlocker[S]{params: newParamTable[S]()}
	d.enabled = d.params.register("enabled", param.NewConstant[S](1, 0))
	return d
}

func (d *DcBlocker[S]) Kind() Kind                           { return KindDCBlocker }
func (d *DcBlocker[S]) InputCount() int                      { return 1 }
func (d *DcBlocker[S]) OutputCount() int                     { return 1 }
func (d *DcBlocker[S]) ChannelConfig() ChannelConfig          { return ChannelConfigParallel }
func (d *DcBlocker[S]) ModulationOutputs() []ModulationOutput { return nil }
func (d *DcBlocker[S]) ModulationOutputValues() []S           { return nil }
func (d *DcBlocker[S]) ParameterNames() []string              { return d.params.names() }
func (d *DcBlocker[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return d.params.get(name)
}

func (d *DcBlocker[S]) Prepare(ctx Context[S]) {
	d.params.prepare(ctx.SampleRate)
	// Pole radius chosen so the -3dB point sits around 20Hz regardless of
	// sample rate, the standard fixed cutoff for a DC blocker.
	d.r = S(1) - S(20*2*3.14159265358979)/ctx.SampleRate
	if d.prevX == nil || len(d.prevX) != ctx.Layout.Channels {
		d.prevX = make([]S, ctx.Layout.Channels)
		d.prevY = make([]S, ctx.Layout.Channels)
	}
}

func (d *DcBlocker[S]) Reset() {
	for i := range d.prevX {
		d.prevX[i] = 0
		d.prevY[i] = 0
	}
}

func (d *DcBlocker[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	in := inputs[0]
	out := outputs[0]
	channels := in.Channels()

	// "enabled" is a switch, not a ramp: a new target takes effect at the
	// start of the next buffer.
	for d.enabled.IsSmoothing() {
		d.enabled.NextValue()
	}
	if d.enabled.Current() < 0.5 {
		for ch := 0; ch < channels; ch++ {
			copy(out.Channel(ch), in.Channel(ch))
		}
		return
	}

	for ch := 0; ch < channels && ch < len(d.prevX); ch++ {
		src := in.Channel(ch)
		dst := out.Channel(ch)
		px, py := d.prevX[ch], d.prevY[ch]
		for n := 0; n < ctx.BufferSize; n++ {
			x := src[n]
			y := x - px + d.r*py
			dst[n] = y
			px, py = x, y
		}
		d.prevX[ch], d.prevY[ch] = px, py
	}
}

func (d *DcBlocker[S]) Finalize() error { return nil }
