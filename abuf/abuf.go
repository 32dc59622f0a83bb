// Package abuf implements the audio buffer primitive spec.md §3/§4.2
// describes: a length-uniform, channel-major region of samples owned
// exclusively by the graph. Buffers are sized once at graph build time and
// never resized afterward — any attempt is a programmer error, matching
// spec.md §4.2's "no resizing after graph build" contract.
package abuf

import "github.com/sonicgraph/engine/sample"

// Buffer is a fixed-length, channel-major container of samples. Grounded
// on the teacher's flat []float32 channel buffers in audio_chip.go (the
// CombFilter/allpass delay lines), generalized to N channels and to any
// Sample width.
type Buffer[S sample.Sample] struct {
	data     []S
	channels int
	length   int
}

// New allocates a Buffer with the given channel count and per-channel
// sample length. Allocation happens once, here, never on the audio path.
func New[S sample.Sample](channels, length int) Buffer[S] {
	return Buffer[S]{
		data:     make([]S, channels*length),
		channels: channels,
		length:   length,
	}
}

// Channels reports the buffer's channel count.
func (b *Buffer[S]) Channels() int { return b.channels }

// Length reports the buffer's per-channel sample count.
func (b *Buffer[S]) Length() int { return b.length }

// Channel returns a mutable slice over one channel's samples. The slice
// aliases the buffer's backing array; callers must not retain it past the
// buffer's next Clear or reuse.
func (b *Buffer[S]) Channel(ch int) []S {
	start := ch * b.length
	return b.data[start : start+b.length]
}

// Clear zeroes every sample in every channel in O(channels*length).
// Invariant 1 in spec.md §8 ("all buffers in the pool are zeroed at the
// start of each process_buffers call") is implemented by calling this on
// every pooled buffer at the top of Graph.ProcessBuffers.
func (b *Buffer[S]) Clear() {
	var zero S
	for i := range b.data {
		b.data[i] = zero
	}
}

// AddInto sums this buffer's channels into dst, which must have the same
// channel count and length. Used by the graph's input-gathering step
// (spec.md §4.7) when more than one audio edge targets the same input
// port.
func (b *Buffer[S]) AddInto(dst *Buffer[S]) {
	for i := range b.data {
		dst.data[i] += b.data[i]
	}
}

// FlushDenormals scrubs single-precision denormals from every sample in
// the buffer, per spec.md §4.4/§8's "no denormals leave a block" invariant.
// It is a no-op in terms of observable correctness for float64 buffers.
func (b *Buffer[S]) FlushDenormals() {
	for i, v := range b.data {
		b.data[i] = sample.FlushDenormal(v)
	}
}
