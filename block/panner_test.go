package block_test

import (
	"math"
	"testing"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/block"
	"github.com/stretchr/testify/assert"
)

func TestPannerStereoCenterSplitsEqually(t *testing.T) {
	ctx := block.Context[float64]{SampleRate: 48000, BufferSize: 4, Layout: block.Stereo()}
	p := block.NewPanner[float64]()
	p.Prepare(ctx)

	in := abuf.New[float64](1, 4)
	for i := range in.Channel(0) {
		in.Channel(0)[i] = 1
	}
	out := abuf.New[float64](2, 4)
	p.Process([]*abuf.Buffer[float64]{&in}, []*abuf.Buffer[float64]{&out}, nil, ctx)

	for n := 0; n < 4; n++ {
		assert.InDelta(t, out.Channel(0)[n], out.Channel(1)[n], 1e-9)
	}
}

func TestPannerStereoHardLeftSilencesRight(t *testing.T) {
	ctx := block.Context[float64]{SampleRate: 48000, BufferSize: 4, Layout: block.Stereo()}
	p := block.NewPanner[float64]()
	p.Prepare(ctx)
	pan, _ := p.Parameter("pan")
	pan.SetTarget(-1)
	for pan.IsSmoothing() {
		pan.NextValue()
	}

	in := abuf.New[float64](1, 4)
	for i := range in.Channel(0) {
		in.Channel(0)[i] = 1
	}
	out := abuf.New[float64](2, 4)
	p.Process([]*abuf.Buffer[float64]{&in}, []*abuf.Buffer[float64]{&out}, nil, ctx)

	for n := 0; n < 4; n++ {
		assert.InDelta(t, 0, out.Channel(1)[n], 1e-9)
	}
}

func TestPannerConstantPowerLawSumOfSquaresIsOne(t *testing.T) {
	ctx := block.Context[float64]{SampleRate: 48000, BufferSize: 1, Layout: block.Stereo()}
	p := block.NewPanner[float64]()
	p.Prepare(ctx)
	pan, _ := p.Parameter("pan")
	pan.SetTarget(0.3)
	for pan.IsSmoothing() {
		pan.NextValue()
	}

	in := abuf.New[float64](1, 1)
	in.Channel(0)[0] = 1
	out := abuf.New[float64](2, 1)
	p.Process([]*abuf.Buffer[float64]{&in}, []*abuf.Buffer[float64]{&out}, nil, ctx)

	l := out.Channel(0)[0]
	r := out.Channel(1)[0]
	assert.InDelta(t, 1, l*l+r*r, 1e-9)
}

func TestPannerAmbisonicEncodesWChannel(t *testing.T) {
	ctx := block.Context[float64]{SampleRate: 48000, BufferSize: 2, Layout: block.AmbisonicFOA()}
	p := block.NewPanner[float64]()
	p.Prepare(ctx)

	in := abuf.New[float64](1, 2)
	in.Channel(0)[0] = 1
	in.Channel(0)[1] = 1
	out := abuf.New[float64](4, 2)
	p.Process([]*abuf.Buffer[float64]{&in}, []*abuf.Buffer[float64]{&out}, nil, ctx)

	assert.InDelta(t, 1/math.Sqrt2, out.Channel(0)[0], 1e-9)
	assert.Equal(t, float64(0), out.Channel(3)[0])
}

func TestPannerMonoPassesThrough(t *testing.T) {
	ctx := block.Context[float64]{SampleRate: 48000, BufferSize: 3, Layout: block.Mono()}
	p := block.NewPanner[float64]()
	p.Prepare(ctx)

	in := abuf.New[float64](1, 3)
	copy(in.Channel(0), []float64{1, 2, 3})
	out := abuf.New[float64](1, 3)
	p.Process([]*abuf.Buffer[float64]{&in}, []*abuf.Buffer[float64]{&out}, nil, ctx)

	assert.Equal(t, in.Channel(0), out.Channel(0))
}
