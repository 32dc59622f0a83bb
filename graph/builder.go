package graph

import (
	"fmt"

	"github.com/sonicgraph/engine/block"
	"github.com/sonicgraph/engine/sample"
)

type audioEdge struct {
	srcBlock block.BlockID
	srcPort  int
	dstBlock block.BlockID
	dstPort  int
}

type modEdge struct {
	srcBlock  block.BlockID
	srcOutput int
	dstBlock  block.BlockID
	paramName string
}

// GraphBuilder assembles a Graph per spec.md §4.5: add blocks, wire audio
// edges between ports, wire modulation edges from a modulation output to a
// named parameter, then Build validates the whole thing and computes a
// fixed execution order.
type GraphBuilder[S sample.Sample] struct {
	sampleRate S
	bufferSize int
	layout     block.ChannelLayout

	blocks      map[block.BlockID]block.Block[S]
	insertOrder []block.BlockID
	nextID      block.BlockID

	audioEdges  []audioEdge
	modEdges    []modEdge
	outputBlock block.BlockID
	hasOutput   bool
}

// NewGraphBuilder constructs an empty builder for the given audio context.
func NewGraphBuilder[S sample.Sample](sampleRate S, bufferSize int, layout block.ChannelLayout) (*GraphBuilder[S], error) {
	if bufferSize <= 0 {
		return nil, ErrInvalidBufferSize
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if layout.Channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannelCount, layout.Channels)
	}
	return &GraphBuilder[S]{
		sampleRate: sampleRate,
		bufferSize: bufferSize,
		layout:     layout,
		blocks:     make(map[block.BlockID]block.Block[S]),
	}, nil
}

// AddBlock registers b and returns its assigned BlockID. If b is a
// *block.Output, it becomes the graph's sink (spec.md §4.5 requires
// exactly one).
func (gb *GraphBuilder[S]) AddBlock(b block.Block[S]) block.BlockID {
	id := gb.nextID
	gb.nextID++
	gb.blocks[id] = b
	gb.insertOrder = append(gb.insertOrder, id)
	if b.Kind() == block.KindOutput {
		gb.outputBlock = id
		gb.hasOutput = true
	}
	return id
}

// Connect wires an audio edge from srcBlock's output port srcPort to
// dstBlock's input port dstPort.
func (gb *GraphBuilder[S]) Connect(srcBlock block.BlockID, srcPort int, dstBlock block.BlockID, dstPort int) error {
	src, ok := gb.blocks[srcBlock]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBlock, srcBlock)
	}
	dst, ok := gb.blocks[dstBlock]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBlock, dstBlock)
	}
	if srcPort < 0 || srcPort >= src.OutputCount() {
		return fmt.Errorf("%w: source port %d on block %d", ErrInvalidPort, srcPort, srcBlock)
	}
	if dstPort < 0 || dstPort >= dst.InputCount() {
		return fmt.Errorf("%w: dest port %d on block %d", ErrInvalidPort, dstPort, dstBlock)
	}
	gb.audioEdges = append(gb.audioEdges, audioEdge{srcBlock, srcPort, dstBlock, dstPort})
	return nil
}

// Modulate wires a modulation edge from srcBlock's modulation output
// srcOutput to dstBlock's named parameter, rebinding that parameter's
// source via param.Parameter.BindModulation.
func (gb *GraphBuilder[S]) Modulate(srcBlock block.BlockID, srcOutput int, dstBlock block.BlockID, paramName string) error {
	src, ok := gb.blocks[srcBlock]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBlock, srcBlock)
	}
	dst, ok := gb.blocks[dstBlock]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBlock, dstBlock)
	}
	if srcOutput < 0 || srcOutput >= len(src.ModulationOutputs()) {
		return fmt.Errorf("%w: output %d on block %d", ErrNoSuchModulationOutput, srcOutput, srcBlock)
	}
	p, ok := dst.Parameter(paramName)
	if !ok {
		return fmt.Errorf("%w: %q on block %d", ErrUnknownParameter, paramName, dstBlock)
	}
	p.BindModulation(srcBlock, srcOutput)
	gb.modEdges = append(gb.modEdges, modEdge{srcBlock, srcOutput, dstBlock, paramName})
	return nil
}

// Build validates the assembled graph (exactly one Output block, no
// cycles among audio or modulation edges) and returns a ready-to-Prepare
// Graph with a fixed, deterministic execution order and pre-sized buffer
// pool.
func (gb *GraphBuilder[S]) Build() (*Graph[S], error) {
	outputs := 0
	for _, b := range gb.blocks {
		if b.Kind() == block.KindOutput {
			outputs++
		}
	}
	if outputs != 1 {
		return nil, ErrMissingOutput
	}

	order, err := schedule(gb.insertOrder, gb.audioEdges, gb.modEdges)
	if err != nil {
		return nil, err
	}

	g := &Graph[S]{
		sampleRate:  gb.sampleRate,
		bufferSize:  gb.bufferSize,
		layout:      gb.layout,
		blocks:      gb.blocks,
		order:       order,
		audioEdges:  gb.audioEdges,
		modEdges:    gb.modEdges,
		outputBlock: gb.outputBlock,
	}
	g.allocate()
	return g, nil
}
