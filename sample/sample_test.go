package sample_test

import (
	"math"
	"testing"

	"github.com/sonicgraph/engine/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestConstantsForFloat32(t *testing.T) {
	c := sample.ConstantsFor[float32]()
	assert.Equal(t, float32(1), c.One)
	assert.InDelta(t, 6.283185, float64(c.Tau), 1e-4)
}

func TestClamp(t *testing.T) {
	require.Equal(t, float32(1), sample.Clamp(float32(5), 0, 1))
	require.Equal(t, float32(0), sample.Clamp(float32(-5), 0, 1))
	require.Equal(t, float32(0.5), sample.Clamp(float32(0.5), 0, 1))
}

func TestFlushDenormalZeroesSubnormals(t *testing.T) {
	var subnormal float32 = 1e-40
	assert.NotEqual(t, float32(0), subnormal, "precondition: value must actually be subnormal")
	assert.Equal(t, float32(0), sample.FlushDenormal(subnormal))
	assert.Equal(t, float32(1), sample.FlushDenormal(float32(1)))
}

func TestFlushDenormalNoOpForFloat64(t *testing.T) {
	v := 1e-320
	assert.Equal(t, v, sample.FlushDenormal(v))
}

// PolyBLEP must vanish away from a discontinuity and be continuous with
// the naive waveform at the edges, for any valid phase increment.
func TestPolyBLEPZeroAwayFromEdges(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dt := rapid.Float32Range(0.0001, 0.45).Draw(rt, "dt")
		tt := rapid.Float32Range(float32(dt)*1.01, 1-float32(dt)*1.01).Draw(rt, "t")
		got := sample.PolyBLEP(tt, dt)
		assert.Equal(rt, float32(0), got)
	})
}

func TestPolyBLAMPZeroAwayFromEdges(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dt := rapid.Float32Range(0.0001, 0.45).Draw(rt, "dt")
		tt := rapid.Float32Range(float32(dt)*1.01, 1-float32(dt)*1.01).Draw(rt, "t")
		got := sample.PolyBLAMP(tt, dt)
		assert.Equal(rt, float32(0), got)
	})
}

func TestFastSin32MatchesMathSinApproximately(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		phase := rapid.Float64Range(0, 6.28).Draw(rt, "phase")
		got := sample.FastSin32(float32(phase))
		want := math.Sin(phase)
		assert.InDelta(rt, want, float64(got), 1e-3)
	})
}

func TestFastTanh32SaturatesOutsideRange(t *testing.T) {
	assert.Equal(t, float32(-1), sample.FastTanh32(-10))
	assert.Equal(t, float32(1), sample.FastTanh32(10))
}

func TestVec4ArithmeticMatchesScalar(t *testing.T) {
	a := sample.Splat[float32](2)
	b := sample.Splat[float32](3)
	assert.Equal(t, sample.Splat[float32](5), a.Add(b))
	assert.Equal(t, sample.Splat[float32](6), a.Mul(b))
	assert.Equal(t, sample.Splat[float32](-2), a.Neg())
}

func TestVec4StoreRoundTrips(t *testing.T) {
	v := sample.Splat[float64](1.5)
	dst := make([]float64, sample.Lanes)
	v.Store(dst)
	for _, x := range dst {
		assert.Equal(t, 1.5, x)
	}
}
