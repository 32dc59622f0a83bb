package abuf_test

import (
	"testing"

	"github.com/sonicgraph/engine/abuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBufferIsZeroed(t *testing.T) {
	b := abuf.New[float32](2, 4)
	require.Equal(t, 2, b.Channels())
	require.Equal(t, 4, b.Length())
	for ch := 0; ch < 2; ch++ {
		for _, v := range b.Channel(ch) {
			assert.Equal(t, float32(0), v)
		}
	}
}

func TestChannelAliasesBackingArray(t *testing.T) {
	b := abuf.New[float32](2, 3)
	b.Channel(0)[1] = 5
	assert.Equal(t, float32(5), b.Channel(0)[1])
	assert.Equal(t, float32(0), b.Channel(1)[1])
}

func TestClearZeroesAllChannels(t *testing.T) {
	b := abuf.New[float32](2, 3)
	b.Channel(0)[0] = 1
	b.Channel(1)[2] = 1
	b.Clear()
	for ch := 0; ch < 2; ch++ {
		for _, v := range b.Channel(ch) {
			assert.Equal(t, float32(0), v)
		}
	}
}

func TestAddIntoSums(t *testing.T) {
	src := abuf.New[float32](1, 2)
	dst := abuf.New[float32](1, 2)
	src.Channel(0)[0] = 1
	src.Channel(0)[1] = 2
	dst.Channel(0)[0] = 10
	dst.Channel(0)[1] = 20

	src.AddInto(&dst)
	assert.Equal(t, float32(11), dst.Channel(0)[0])
	assert.Equal(t, float32(22), dst.Channel(0)[1])
}

func TestFlushDenormalsZeroesSubnormals(t *testing.T) {
	b := abuf.New[float32](1, 1)
	b.Channel(0)[0] = 1e-40
	b.FlushDenormals()
	assert.Equal(t, float32(0), b.Channel(0)[0])
}
