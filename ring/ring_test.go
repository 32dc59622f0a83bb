package ring_test

import (
	"testing"

	"github.com/sonicgraph/engine/ring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewRoundsCapacityUpToPowerOfTwo(t *testing.T) {
	r := ring.New[int](5)
	require.Equal(t, 8, r.Capacity())
}

func TestPushPopFIFO(t *testing.T) {
	r := ring.New[int](4)
	require.True(t, r.TryPush(1))
	require.True(t, r.TryPush(2))
	v, ok := r.TryPop()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = r.TryPop()
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestPopEmptyFails(t *testing.T) {
	r := ring.New[int](4)
	_, ok := r.TryPop()
	assert.False(t, ok)
}

func TestPushFullFails(t *testing.T) {
	r := ring.New[int](2)
	require.True(t, r.TryPush(1))
	require.True(t, r.TryPush(2))
	assert.False(t, r.TryPush(3))
}

func TestHashParamNameDeterministic(t *testing.T) {
	a := ring.HashParamName("frequency")
	b := ring.HashParamName("frequency")
	c := ring.HashParamName("cutoff")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestMidiEventNoteOnOff(t *testing.T) {
	on := ring.MidiEvent{Status: 0x90, Data1: 60, Data2: 100}
	assert.True(t, on.NoteOn())
	assert.False(t, on.NoteOff())

	off := ring.MidiEvent{Status: 0x80, Data1: 60, Data2: 0}
	assert.True(t, off.NoteOff())

	zeroVelocityOn := ring.MidiEvent{Status: 0x90, Data1: 60, Data2: 0}
	assert.True(t, zeroVelocityOn.NoteOff())
}

// Property: a sequence of pushes followed by an equal number of pops
// always returns values in FIFO order, regardless of capacity.
func TestRingFIFOProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 64).Draw(rt, "capacity")
		count := rapid.IntRange(0, capacity).Draw(rt, "count")
		r := ring.New[int](capacity)
		for i := 0; i < count; i++ {
			if !r.TryPush(i) {
				rt.Fatalf("push %d unexpectedly failed with capacity %d", i, r.Capacity())
			}
		}
		for i := 0; i < count; i++ {
			v, ok := r.TryPop()
			if !ok {
				rt.Fatalf("pop %d unexpectedly failed", i)
			}
			if v != i {
				rt.Fatalf("FIFO order violated: want %d got %d", i, v)
			}
		}
	})
}
