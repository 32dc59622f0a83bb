package block

import (
	"math"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// Overdrive applies an asymmetric soft-clip distortion: positive
// excursions are driven through tanh at "drive" gain, negative excursions
// at a slightly lower effective gain, producing the even-harmonic bias
// characteristic of analog overdrive. Grounded on the teacher's
// fastTanh32/FastTanh32 LUT in audio_lut.go, reused here as the clipping
// nonlinearity for the float32 path; float64 calls math.Tanh directly
// since no LUT exists at that width.
type Overdrive[S sample.Sample] struct {
	params    paramTable[S]
	drive     *param.Parameter[S]
	asymmetry *param.Parameter[S] // 0 = symmetric, >0 biases negative half quieter
}

func NewOverdrive[S sample.Sample]() *Overdrive[S] {
	o := &Overdrive[S]{params: newParamTable[S]()}
	o.drive = o.params.register("drive", param.NewConstant[S](1, 0))
	o.asymmetry = o.params.register("asymmetry", param.NewConstant[S](0.2, 0))
	return o
}

func (o *Overdrive[S]) Kind() Kind                           { return KindOverdrive }
func (o *Overdrive[S]) InputCount() int                      { return 1 }
func (o *Overdrive[S]) OutputCount() int                     { return 1 }
func (o *Overdrive[S]) ChannelConfig() ChannelConfig          { return ChannelConfigParallel }
func (o *Overdrive[S]) ModulationOutputs() []ModulationOutput { return nil }
func (o *Overdrive[S]) ModulationOutputValues() []S           { return nil }
func (o *Overdrive[S]) ParameterNames() []string              { return o.params.names() }
func (o *Overdrive[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return o.params.get(name)
}

func (o *Overdrive[S]) Prepare(ctx Context[S]) { o.params.prepare(ctx.SampleRate) }
func (o *Overdrive[S]) Reset()                 {}

func (o *Overdrive[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	in := inputs[0]
	out := outputs[0]
	channels := in.Channels()

	for n := 0; n < ctx.BufferSize; n++ {
		drive := o.drive.NextValue()
		asym := o.asymmetry.NextValue()
		for ch := 0; ch < channels; ch++ {
			src := in.Channel(ch)
			dst := out.Channel(ch)
			s := src[n]
			var g S
			if s >= 0 {
				g = drive
			} else {
				g = drive * (1 - asym)
			}
			dst[n] = softClip(s * g)
		}
	}
}

func softClip[S sample.Sample](x S) S {
	if f, ok := any(x).(float32); ok {
		return any(sample.FastTanh32(f)).(S)
	}
	return S(math.Tanh(float64(x)))
}

// Finalize is a no-op; Overdrive holds no pending state to flush.
func (o *Overdrive[S]) Finalize() error { return nil }
