package block

import (
	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// MatrixMixer applies a fixed N(inputs)×M(outputs) coefficient matrix:
// output[o] = Σ_i coeff[o][i] · input[i]. Summation order is input index
// ascending, per spec.md §4.7/§8's "summation order is deterministic"
// invariant, so results are bit-reproducible across runs. Grounded on
// other_examples/grimnir_radio's DSP graph mixing stage; the teacher has
// no multi-channel mixing analogue.
type MatrixMixer[S sample.Sample] struct {
	params      paramTable[S]
	inputCount  int
	outputCount int
	coeff       [][]S // [output][input]
}

// NewMatrixMixer constructs a mixer for the given coefficient matrix;
// coeff[o][i] is the gain applied to input i when summed into output o.
func NewMatrixMixer[S sample.Sample](coeff [][]S) *MatrixMixer[S] {
	m := &MatrixMixer[S]{
		params:      newParamTable[S](),
		outputCount: len(coeff),
	}
	if len(coeff) > 0 {
		m.inputCount = len(coeff[0])
	}
	m.coeff = make([][]S, len(coeff))
	for o := range coeff {
		m.coeff[o] = make([]S, len(coeff[o]))
		copy(m.coeff[o], coeff[o])
	}
	return m
}

func (m *MatrixMixer[S]) Kind() Kind                           { return KindMatrixMixer }
func (m *MatrixMixer[S]) InputCount() int                      { return m.inputCount }
func (m *MatrixMixer[S]) OutputCount() int                     { return m.outputCount }
func (m *MatrixMixer[S]) ChannelConfig() ChannelConfig          { return ChannelConfigExplicit }
func (m *MatrixMixer[S]) ModulationOutputs() []ModulationOutput { return nil }
func (m *MatrixMixer[S]) ModulationOutputValues() []S           { return nil }
func (m *MatrixMixer[S]) ParameterNames() []string              { return m.params.names() }
func (m *MatrixMixer[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return m.params.get(name)
}

func (m *MatrixMixer[S]) Prepare(ctx Context[S]) { m.params.prepare(ctx.SampleRate) }
func (m *MatrixMixer[S]) Reset()                 {}

func (m *MatrixMixer[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	for o, out := range outputs {
		row := m.coeff[o]
		channels := out.Channels()
		for ch := 0; ch < channels; ch++ {
			dst := out.Channel(ch)
			for n := range dst {
				dst[n] = 0
			}
			for i, in := range inputs {
				if ch >= in.Channels() {
					continue
				}
				g := row[i]
				src := in.Channel(ch)
				for n := 0; n < ctx.BufferSize; n++ {
					dst[n] += src[n] * g
				}
			}
		}
	}
}

func (m *MatrixMixer[S]) Finalize() error { return nil }
