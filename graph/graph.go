// Package graph implements the Graph/GraphBuilder abstraction from
// spec.md §3/§4.5–§4.7: wiring blocks into a DAG, scheduling them into a
// fixed execution order, and driving the per-buffer processing loop with
// pre-allocated buffers so the audio thread never allocates.
package graph

import (
	"sort"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/block"
	"github.com/sonicgraph/engine/sample"
)

type inputSource struct {
	srcBlock block.BlockID
	srcPort  int
}

// Graph is the built, prepared DSP processing graph. Everything it needs
// per buffer — block output buffers, per-port input gather scratch, and
// the modulation staging table — is allocated once in allocate() and
// reused for the graph's entire lifetime.
type Graph[S sample.Sample] struct {
	sampleRate S
	bufferSize int
	layout     block.ChannelLayout

	blocks      map[block.BlockID]block.Block[S]
	order       []block.BlockID
	audioEdges  []audioEdge
	modEdges    []modEdge
	outputBlock block.BlockID

	outChannels map[block.BlockID][]int               // per block, per output port channel count
	outputBufs  map[block.BlockID][]*abuf.Buffer[S]    // per block, per output port
	inputEdges  map[block.BlockID][][]inputSource      // per block, per input port, sorted sources
	inputSumBuf map[block.BlockID][]*abuf.Buffer[S]    // per block, per input port; only set when >1 source
	inputView   map[block.BlockID][]*abuf.Buffer[S]    // per block, per input port; resolved view passed to Process

	modValues map[block.BlockID][]S
}

func (g *Graph[S]) ctx() block.Context[S] {
	return block.Context[S]{SampleRate: g.sampleRate, BufferSize: g.bufferSize, Layout: g.layout}
}

// allocate computes per-port channel counts in topological order (every
// source block precedes every consumer, since audio edges are dependency
// edges in the same DAG the scheduler solved) and pre-allocates every
// buffer the processing loop will ever touch.
func (g *Graph[S]) allocate() {
	g.outChannels = make(map[block.BlockID][]int, len(g.blocks))
	g.outputBufs = make(map[block.BlockID][]*abuf.Buffer[S], len(g.blocks))
	g.inputEdges = make(map[block.BlockID][][]inputSource, len(g.blocks))
	g.inputSumBuf = make(map[block.BlockID][]*abuf.Buffer[S], len(g.blocks))
	g.inputView = make(map[block.BlockID][]*abuf.Buffer[S], len(g.blocks))
	g.modValues = make(map[block.BlockID][]S, len(g.blocks))

	edgesByDst := make(map[block.BlockID]map[int][]inputSource)
	for _, e := range g.audioEdges {
		if edgesByDst[e.dstBlock] == nil {
			edgesByDst[e.dstBlock] = make(map[int][]inputSource)
		}
		edgesByDst[e.dstBlock][e.dstPort] = append(edgesByDst[e.dstBlock][e.dstPort], inputSource{e.srcBlock, e.srcPort})
	}
	for _, ports := range edgesByDst {
		for p, sources := range ports {
			sort.Slice(sources, func(i, j int) bool {
				if sources[i].srcBlock != sources[j].srcBlock {
					return sources[i].srcBlock < sources[j].srcBlock
				}
				return sources[i].srcPort < sources[j].srcPort
			})
			ports[p] = sources
		}
	}

	for _, id := range g.order {
		b := g.blocks[id]

		ports := make([][]inputSource, b.InputCount())
		for p := 0; p < b.InputCount(); p++ {
			ports[p] = edgesByDst[id][p]
		}
		g.inputEdges[id] = ports

		channels := make([]int, b.OutputCount())
		for p := range channels {
			channels[p] = g.inferOutputChannels(b, id, ports)
		}
		g.outChannels[id] = channels

		outBufs := make([]*abuf.Buffer[S], b.OutputCount())
		for p, ch := range channels {
			outBufs[p] = newBuffer[S](ch, g.bufferSize)
		}
		g.outputBufs[id] = outBufs

		sumBufs := make([]*abuf.Buffer[S], b.InputCount())
		for p, sources := range ports {
			if len(sources) > 1 {
				inCh := g.outChannels[sources[0].srcBlock][sources[0].srcPort]
				sumBufs[p] = newBuffer[S](inCh, g.bufferSize)
			}
		}
		g.inputSumBuf[id] = sumBufs

		g.inputView[id] = make([]*abuf.Buffer[S], b.InputCount())
		g.modValues[id] = make([]S, len(b.ModulationOutputs()))
	}
}

func newBuffer[S sample.Sample](channels, length int) *abuf.Buffer[S] {
	if channels < 1 {
		channels = 1
	}
	b := abuf.New[S](channels, length)
	return &b
}

// inferOutputChannels derives a block's output-port channel count:
// ChannelConfigExplicit blocks (panners, routers, mixers, decoders,
// file I/O) always produce the graph's full layout width; a
// ChannelConfigParallel block with inputs passes through whatever channel
// count its first input port carries; a ChannelConfigParallel block with
// no inputs (a generator: Oscillator) is mono, since spatialization is an
// explicit downstream block's job per spec.md §4.4/§9.
func (g *Graph[S]) inferOutputChannels(b block.Block[S], id block.BlockID, ports [][]inputSource) int {
	if b.ChannelConfig() == block.ChannelConfigExplicit {
		return g.layout.Channels
	}
	if len(ports) > 0 && len(ports[0]) > 0 {
		src := ports[0][0]
		return g.outChannels[src.srcBlock][src.srcPort]
	}
	return 1
}

// Prepare recomputes every block's sample-rate-dependent coefficients.
// Called once after Build and again whenever the audio context changes.
func (g *Graph[S]) Prepare() {
	ctx := g.ctx()
	for _, id := range g.order {
		g.blocks[id].Prepare(ctx)
	}
}

// Reset clears every block's transient state (phase accumulators, filter
// memory, envelope stage) without rebuilding the graph.
func (g *Graph[S]) Reset() {
	for _, id := range g.order {
		g.blocks[id].Reset()
	}
}

// gatherInputs resolves the view passed to a block's Process call for
// every input port: a direct reference to the sole upstream output buffer
// when there is exactly one source (no copy), or the pre-allocated sum
// buffer, cleared and accumulated in ascending (srcBlock, srcPort) order,
// when more than one edge feeds the same port — spec.md §4.7/§8's
// deterministic-summation-order invariant.
func (g *Graph[S]) gatherInputs(id block.BlockID) {
	ports := g.inputEdges[id]
	view := g.inputView[id]
	sums := g.inputSumBuf[id]

	for p, sources := range ports {
		switch len(sources) {
		case 0:
			view[p] = nil
		case 1:
			s := sources[0]
			view[p] = g.outputBufs[s.srcBlock][s.srcPort]
		default:
			sum := sums[p]
			sum.Clear()
			for _, s := range sources {
				src := g.outputBufs[s.srcBlock][s.srcPort]
				src.AddInto(sum)
			}
			view[p] = sum
		}
	}
}

// ProcessBuffers renders one buffer's worth of audio: zero every pooled
// output buffer, then gather each block's inputs, retarget its modulated
// parameters, run it, publish its modulation outputs, flush float32
// denormals, and finally copy the designated Output block's result into
// the caller-provided per-channel buffers. No step in this path allocates,
// locks, or performs blocking I/O, per spec.md §5.
func (g *Graph[S]) ProcessBuffers(out [][]S) {
	ctx := g.ctx()

	for _, id := range g.order {
		for _, buf := range g.outputBufs[id] {
			buf.Clear()
		}
	}

	for _, id := range g.order {
		b := g.blocks[id]
		g.gatherInputs(id)

		for _, name := range b.ParameterNames() {
			p, ok := b.Parameter(name)
			if ok {
				p.UpdateTarget(g.modValues)
			}
		}

		b.Process(g.inputView[id], g.outputBufs[id], g.modValues, ctx)

		for _, buf := range g.outputBufs[id] {
			buf.FlushDenormals()
		}

		if vals := b.ModulationOutputValues(); len(vals) > 0 {
			copy(g.modValues[id], vals)
		}
	}

	sink := g.outputBufs[g.outputBlock][0]
	for ch := 0; ch < sink.Channels() && ch < len(out); ch++ {
		copy(out[ch], sink.Channel(ch))
	}
}

// Finalize runs every block's Finalize, surfacing the first error
// encountered (e.g. a FileOutput's background encoder failing) while
// still finalizing the rest, per spec.md §6.3's "errors surfaced at
// finalize" contract.
func (g *Graph[S]) Finalize() error {
	var first error
	for _, id := range g.order {
		if err := g.blocks[id].Finalize(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
