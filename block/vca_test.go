package block_test

import (
	"testing"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/block"
	"github.com/stretchr/testify/assert"
)

func TestVcaBehavesLikeGainAndReportsOwnKind(t *testing.T) {
	ctx := block.Context[float32]{SampleRate: 48000, BufferSize: 2, Layout: block.Mono()}
	v := block.NewVca[float32]()
	v.Prepare(ctx)
	assert.Equal(t, block.KindVCA, v.Kind())

	amount, ok := v.Parameter("amount")
	assert.True(t, ok)
	amount.SetTarget(2)
	for amount.IsSmoothing() {
		amount.NextValue()
	}

	in := abuf.New[float32](1, 2)
	copy(in.Channel(0), []float32{1, 2})
	out := abuf.New[float32](1, 2)
	v.Process([]*abuf.Buffer[float32]{&in}, []*abuf.Buffer[float32]{&out}, nil, ctx)
	assert.Equal(t, []float32{2, 4}, out.Channel(0))
}

func TestOutputSumsConnectedInputsInOrder(t *testing.T) {
	ctx := block.Context[float32]{SampleRate: 48000, BufferSize: 2, Layout: block.Stereo()}
	o := block.NewOutput[float32](2)
	o.Prepare(ctx)

	in0 := abuf.New[float32](2, 2)
	copy(in0.Channel(0), []float32{1, 1})
	copy(in0.Channel(1), []float32{1, 1})
	in1 := abuf.New[float32](2, 2)
	copy(in1.Channel(0), []float32{2, 2})
	copy(in1.Channel(1), []float32{2, 2})
	out := abuf.New[float32](2, 2)

	o.Process([]*abuf.Buffer[float32]{&in0, &in1}, []*abuf.Buffer[float32]{&out}, nil, ctx)
	assert.Equal(t, []float32{3, 3}, out.Channel(0))
	assert.Equal(t, []float32{3, 3}, out.Channel(1))
}
