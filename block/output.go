package block

import (
	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// Output is the graph's designated terminal sink, per spec.md §3/§4.7: the
// one block whose single output port the engine copies into the caller's
// buffers at the end of ProcessBuffers. It sums every connected input edge
// in ascending (source BlockId, port) order for deterministic summation,
// identical in shape to Merger but distinguished as its own Kind since a
// GraphBuilder must reject a graph with zero or more than one Output
// block (spec.md §4.5's "exactly one sink" rule).
type Output[S sample.Sample] struct {
	params     paramTable[S]
	inputCount int
}

func NewOutput[S sample.Sample](inputCount int) *Output[S] {
	return &Output[S]{params: newParamTable[S](), inputCount: inputCount}
}

func (o *Output[S]) Kind() Kind                           { return KindOutput }
func (o *Output[S]) InputCount() int                      { return o.inputCount }
func (o *Output[S]) OutputCount() int                     { return 1 }
func (o *Output[S]) ChannelConfig() ChannelConfig          { return ChannelConfigParallel }
func (o *Output[S]) ModulationOutputs() []ModulationOutput { return nil }
func (o *Output[S]) ModulationOutputValues() []S           { return nil }
func (o *Output[S]) ParameterNames() []string              { return o.params.names() }
func (o *Output[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return o.params.get(name)
}

func (o *Output[S]) Prepare(ctx Context[S]) { o.params.prepare(ctx.SampleRate) }
func (o *Output[S]) Reset()                 {}

func (o *Output[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	out := outputs[0]
	channels := out.Channels()
	for ch := 0; ch < channels; ch++ {
		dst := out.Channel(ch)
		for n := range dst {
			dst[n] = 0
		}
	}
	for _, in := range inputs {
		for ch := 0; ch < channels && ch < in.Channels(); ch++ {
			src := in.Channel(ch)
			dst := out.Channel(ch)
			for n := 0; n < ctx.BufferSize; n++ {
				dst[n] += src[n]
			}
		}
	}
}

func (o *Output[S]) Finalize() error { return nil }
