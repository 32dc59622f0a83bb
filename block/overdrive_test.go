package block_test

import (
	"testing"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/block"
	"github.com/stretchr/testify/assert"
)

func TestOverdriveClampsWithinUnitRange(t *testing.T) {
	ctx := block.Context[float32]{SampleRate: 48000, BufferSize: 4, Layout: block.Mono()}
	o := block.NewOverdrive[float32]()
	o.Prepare(ctx)
	drive, _ := o.Parameter("drive")
	drive.SetTarget(20)

	in := abuf.New[float32](1, 4)
	copy(in.Channel(0), []float32{1, -1, 0.5, -0.5})
	out := abuf.New[float32](1, 4)
	o.Process([]*abuf.Buffer[float32]{&in}, []*abuf.Buffer[float32]{&out}, nil, ctx)

	for _, v := range out.Channel(0) {
		assert.LessOrEqual(t, v, float32(1))
		assert.GreaterOrEqual(t, v, float32(-1))
	}
}

func TestOverdriveAsymmetryMakesNegativeQuieter(t *testing.T) {
	ctx := block.Context[float32]{SampleRate: 48000, BufferSize: 2, Layout: block.Mono()}
	o := block.NewOverdrive[float32]()
	o.Prepare(ctx)
	drive, _ := o.Parameter("drive")
	drive.SetTarget(1)
	asym, _ := o.Parameter("asymmetry")
	asym.SetTarget(0.5)

	in := abuf.New[float32](1, 2)
	copy(in.Channel(0), []float32{0.3, -0.3})
	out := abuf.New[float32](1, 2)
	o.Process([]*abuf.Buffer[float32]{&in}, []*abuf.Buffer[float32]{&out}, nil, ctx)

	pos := out.Channel(0)[0]
	neg := -out.Channel(0)[1]
	assert.Greater(t, pos, neg, "positive excursion should clip louder than the asymmetry-reduced negative excursion")
}
