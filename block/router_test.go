package block_test

import (
	"testing"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/block"
	"github.com/stretchr/testify/assert"
)

func TestChannelRouterRemapsAndSilences(t *testing.T) {
	ctx := block.Context[float32]{SampleRate: 48000, BufferSize: 2, Layout: block.Stereo()}
	r := block.NewChannelRouter[float32]([]int{1, -1})
	r.Prepare(ctx)

	in := abuf.New[float32](2, 2)
	copy(in.Channel(0), []float32{1, 1})
	copy(in.Channel(1), []float32{2, 2})
	out := abuf.New[float32](2, 2)
	r.Process([]*abuf.Buffer[float32]{&in}, []*abuf.Buffer[float32]{&out}, nil, ctx)

	assert.Equal(t, []float32{2, 2}, out.Channel(0))
	assert.Equal(t, []float32{0, 0}, out.Channel(1))
}

func TestSplitterDuplicatesToEveryOutput(t *testing.T) {
	ctx := block.Context[float32]{SampleRate: 48000, BufferSize: 2, Layout: block.Mono()}
	s := block.NewSplitter[float32](3)
	s.Prepare(ctx)

	in := abuf.New[float32](1, 2)
	copy(in.Channel(0), []float32{1, 2})
	out0 := abuf.New[float32](1, 2)
	out1 := abuf.New[float32](1, 2)
	out2 := abuf.New[float32](1, 2)
	s.Process([]*abuf.Buffer[float32]{&in}, []*abuf.Buffer[float32]{&out0, &out1, &out2}, nil, ctx)

	for _, out := range []*abuf.Buffer[float32]{&out0, &out1, &out2} {
		assert.Equal(t, []float32{1, 2}, out.Channel(0))
	}
}

func TestMergerSumsAllInputs(t *testing.T) {
	ctx := block.Context[float32]{SampleRate: 48000, BufferSize: 2, Layout: block.Mono()}
	m := block.NewMerger[float32](3)
	m.Prepare(ctx)

	in0 := abuf.New[float32](1, 2)
	copy(in0.Channel(0), []float32{1, 1})
	in1 := abuf.New[float32](1, 2)
	copy(in1.Channel(0), []float32{2, 2})
	in2 := abuf.New[float32](1, 2)
	copy(in2.Channel(0), []float32{3, 3})
	out := abuf.New[float32](1, 2)

	m.Process([]*abuf.Buffer[float32]{&in0, &in1, &in2}, []*abuf.Buffer[float32]{&out}, nil, ctx)
	assert.Equal(t, []float32{6, 6}, out.Channel(0))
}
