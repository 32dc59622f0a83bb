package block_test

import (
	"math"
	"testing"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func processOneBuffer[S float32 | float64](t *testing.T, b block.Block[S], ctx block.Context[S]) *abuf.Buffer[S] {
	t.Helper()
	b.Prepare(ctx)
	outBuf := abuf.New[S](ctx.Layout.Channels, ctx.BufferSize)
	outs := []*abuf.Buffer[S]{&outBuf}
	b.Process(nil, outs, nil, ctx)
	return &outBuf
}

func TestOscillatorSineMatchesMathSin(t *testing.T) {
	ctx := block.Context[float64]{SampleRate: 48000, BufferSize: 8, Layout: block.Mono()}
	o := block.NewOscillator[float64](block.WaveSine, 1)
	freq, ok := o.Parameter("frequency")
	require.True(t, ok)
	freq.SetTarget(1000)

	out := processOneBuffer[float64](t, o, ctx)
	ch := out.Channel(0)
	for n := 0; n < ctx.BufferSize; n++ {
		want := math.Sin(2 * math.Pi * 1000 * float64(n) / 48000)
		assert.InDelta(t, want, ch[n], 1e-9)
	}
}

func TestOscillatorPhaseContinuousAcrossBuffers(t *testing.T) {
	ctx := block.Context[float64]{SampleRate: 48000, BufferSize: 4, Layout: block.Mono()}
	o := block.NewOscillator[float64](block.WaveSine, 1)
	o.Prepare(ctx)
	freq, _ := o.Parameter("frequency")
	freq.SetTarget(1000)
	for freq.IsSmoothing() {
		freq.NextValue()
	}

	buf1 := abuf.New[float64](1, ctx.BufferSize)
	o.Process(nil, []*abuf.Buffer[float64]{&buf1}, nil, ctx)
	buf2 := abuf.New[float64](1, ctx.BufferSize)
	o.Process(nil, []*abuf.Buffer[float64]{&buf2}, nil, ctx)

	for n := 0; n < ctx.BufferSize; n++ {
		want := math.Sin(2 * math.Pi * 1000 * float64(n+ctx.BufferSize) / 48000)
		assert.InDelta(t, want, buf2.Channel(0)[n], 1e-9)
	}
}

func TestOscillatorResetZeroesPhase(t *testing.T) {
	ctx := block.Context[float64]{SampleRate: 48000, BufferSize: 4, Layout: block.Mono()}
	o := block.NewOscillator[float64](block.WaveSine, 1)
	o.Prepare(ctx)
	freq, _ := o.Parameter("frequency")
	freq.SetTarget(1000)
	for freq.IsSmoothing() {
		freq.NextValue()
	}

	buf1 := abuf.New[float64](1, ctx.BufferSize)
	o.Process(nil, []*abuf.Buffer[float64]{&buf1}, nil, ctx)
	o.Reset()

	buf2 := abuf.New[float64](1, ctx.BufferSize)
	o.Process(nil, []*abuf.Buffer[float64]{&buf2}, nil, ctx)
	assert.Equal(t, buf1.Channel(0), buf2.Channel(0))
}

func TestOscillatorSquareStaysWithinCorrectedRange(t *testing.T) {
	ctx := block.Context[float64]{SampleRate: 48000, BufferSize: 256, Layout: block.Mono()}
	o := block.NewOscillator[float64](block.WaveSquare, 1)
	freq, _ := o.Parameter("frequency")
	freq.SetTarget(440)
	out := processOneBuffer[float64](t, o, ctx)
	for _, v := range out.Channel(0) {
		assert.LessOrEqual(t, v, 1.2)
		assert.GreaterOrEqual(t, v, -1.2)
	}
}

func TestOscillatorNoiseIsDeterministicGivenSeed(t *testing.T) {
	ctx := block.Context[float64]{SampleRate: 48000, BufferSize: 32, Layout: block.Mono()}
	a := block.NewOscillator[float64](block.WaveNoise, 42)
	b := block.NewOscillator[float64](block.WaveNoise, 42)
	af, _ := a.Parameter("frequency")
	af.SetTarget(200)
	bf, _ := b.Parameter("frequency")
	bf.SetTarget(200)

	outA := processOneBuffer[float64](t, a, ctx)
	outB := processOneBuffer[float64](t, b, ctx)
	assert.Equal(t, outA.Channel(0), outB.Channel(0))
}
