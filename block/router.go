package block

import (
	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// ChannelRouter remaps a fixed set of input channels onto a possibly
// different set of output channels with no mixing — each output channel
// copies exactly one input channel (or silence, for an unmapped output).
// It is ChannelConfigExplicit because the remap touches every channel at
// once. Grounded on spec.md §4.4's routing-block entry; there is no
// teacher analogue (the teacher is single-voice), so the shape follows
// other_examples/vst3go's buffered multi-channel processor layout.
type ChannelRouter[S sample.Sample] struct {
	params paramTable[S]
	// mapping[outCh] = inCh, or -1 for silence.
	mapping []int
}

// NewChannelRouter constructs a router with the given output-to-input
// channel mapping; mapping[i] == -1 silences output channel i.
func NewChannelRouter[S sample.Sample](mapping []int) *ChannelRouter[S] {
	m := make([]int, len(mapping))
	copy(m, mapping)
	return &ChannelRouter[S]{params: newParamTable[S](), mapping: m}
}

func (r *ChannelRouter[S]) Kind() Kind                           { return KindChannelRouter }
func (r *ChannelRouter[S]) InputCount() int                      { return 1 }
func (r *ChannelRouter[S]) OutputCount() int                     { return 1 }
func (r *ChannelRouter[S]) ChannelConfig() ChannelConfig          { return ChannelConfigExplicit }
func (r *ChannelRouter[S]) ModulationOutputs() []ModulationOutput { return nil }
func (r *ChannelRouter[S]) ModulationOutputValues() []S           { return nil }
func (r *ChannelRouter[S]) ParameterNames() []string              { return r.params.names() }
func (r *ChannelRouter[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return r.params.get(name)
}

func (r *ChannelRouter[S]) Prepare(ctx Context[S]) { r.params.prepare(ctx.SampleRate) }
func (r *ChannelRouter[S]) Reset()                 {}

func (r *ChannelRouter[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	in := inputs[0]
	out := outputs[0]
	for outCh, inCh := range r.mapping {
		if outCh >= out.Channels() {
			break
		}
		dst := out.Channel(outCh)
		if inCh < 0 || inCh >= in.Channels() {
			for n := range dst {
				dst[n] = 0
			}
			continue
		}
		copy(dst, in.Channel(inCh))
	}
}

func (r *ChannelRouter[S]) Finalize() error { return nil }

// Splitter duplicates a single input port's channels across N output
// ports unchanged — the graph-level fan-out primitive, since a Block's
// output port may only feed one downstream input port slot per edge but
// a single logical signal often needs to reach several consumers.
type Splitter[S sample.Sample] struct {
	params      paramTable[S]
	outputCount int
}

func NewSplitter[S sample.Sample](outputCount int) *Splitter[S] {
	return &Splitter[S]{params: newParamTable[S](), outputCount: outputCount}
}

func (s *Splitter[S]) Kind() Kind                           { return KindSplitter }
func (s *Splitter[S]) InputCount() int                      { return 1 }
func (s *Splitter[S]) OutputCount() int                     { return s.outputCount }
func (s *Splitter[S]) ChannelConfig() ChannelConfig          { return ChannelConfigParallel }
func (s *Splitter[S]) ModulationOutputs() []ModulationOutput { return nil }
func (s *Splitter[S]) ModulationOutputValues() []S           { return nil }
func (s *Splitter[S]) ParameterNames() []string              { return s.params.names() }
func (s *Splitter[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return s.params.get(name)
}

func (s *Splitter[S]) Prepare(ctx Context[S]) { s.params.prepare(ctx.SampleRate) }
func (s *Splitter[S]) Reset()                 {}

func (s *Splitter[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	in := inputs[0]
	channels := in.Channels()
	for _, out := range outputs {
		for ch := 0; ch < channels; ch++ {
			copy(out.Channel(ch), in.Channel(ch))
		}
	}
}

func (s *Splitter[S]) Finalize() error { return nil }

// Merger sums N input ports of equal channel count into one output port —
// the graph-level fan-in primitive, equivalent to wiring every input port
// directly to the output and letting the graph's input-gather summation
// (spec.md §4.7) do the work, but exposed as an explicit block so a
// GraphBuilder.Connect call always targets exactly one port-to-port edge.
type Merger[S sample.Sample] struct {
	params    paramTable[S]
	inputCount int
}

func NewMerger[S sample.Sample](inputCount int) *Merger[S] {
	return &Merger[S]{params: newParamTable[S](), inputCount: inputCount}
}

func (m *Merger[S]) Kind() Kind                           { return KindMerger }
func (m *Merger[S]) InputCount() int                      { return m.inputCount }
func (m *Merger[S]) OutputCount() int                      { return 1 }
func (m *Merger[S]) ChannelConfig() ChannelConfig          { return ChannelConfigParallel }
func (m *Merger[S]) ModulationOutputs() []ModulationOutput { return nil }
func (m *Merger[S]) ModulationOutputValues() []S           { return nil }
func (m *Merger[S]) ParameterNames() []string              { return m.params.names() }
func (m *Merger[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return m.params.get(name)
}

func (m *Merger[S]) Prepare(ctx Context[S]) { m.params.prepare(ctx.SampleRate) }
func (m *Merger[S]) Reset()                 {}

func (m *Merger[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
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

func (m *Merger[S]) Finalize() error { return nil }
