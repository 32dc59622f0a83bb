// Package fileio implements the external I/O collaborators spec.md §6.3
// names but deliberately keeps out of the core graph/block packages: a
// Reader fills audio buffers from some source (a WAV file, in this
// module's only concrete implementation) and a Writer drains rendered
// buffers to a sink. Both are peripheral adapters the FileInput/FileOutput
// blocks hold onto, never part of the scheduling or smoothing logic.
package fileio

import "context"

// Reader supplies channel-major sample frames on demand (dst[ch][i]). Read
// returns the number of frames actually filled (which may be less than
// len(dst[0]) at end of stream) and io.EOF once exhausted.
type Reader interface {
	Read(ctx context.Context, dst [][]float64) (frames int, err error)
	Channels() int
	SampleRate() float64
	Close() error
}

// Writer accepts channel-major sample frames (frames[ch][i]) for persistence. Write
// never blocks the caller for longer than a bounded buffered handoff — the
// concrete WavWriter defers the actual encode to a background goroutine,
// surfacing any error asynchronously through Finalize's return value
// rather than from Write itself, per spec.md §6.3's async-write contract.
type Writer interface {
	Write(frames [][]float64) error
	Finalize() error
}
