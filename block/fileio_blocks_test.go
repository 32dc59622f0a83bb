package block_test

import (
	"context"
	"io"
	"testing"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	channels   int
	sampleRate float64
	frames     [][]float64 // channel-major
	pos        int
	closed     bool
}

func (f *fakeReader) Channels() int       { return f.channels }
func (f *fakeReader) SampleRate() float64 { return f.sampleRate }
func (f *fakeReader) Close() error        { f.closed = true; return nil }

func (f *fakeReader) Read(ctx context.Context, dst [][]float64) (int, error) {
	total := len(f.frames[0])
	remaining := total - f.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	n := len(dst[0])
	if n > remaining {
		n = remaining
	}
	for ch := 0; ch < f.channels && ch < len(dst); ch++ {
		copy(dst[ch], f.frames[ch][f.pos:f.pos+n])
	}
	f.pos += n
	if n < len(dst[0]) {
		return n, io.EOF
	}
	return n, nil
}

type fakeWriter struct {
	written   [][]float64
	finalized bool
}

func (w *fakeWriter) Write(frames [][]float64) error {
	if w.written == nil {
		w.written = make([][]float64, len(frames))
	}
	for ch := range frames {
		w.written[ch] = append(w.written[ch], frames[ch]...)
	}
	return nil
}

func (w *fakeWriter) Finalize() error { w.finalized = true; return nil }

func TestFileInputEmitsReaderFramesThenSilence(t *testing.T) {
	r := &fakeReader{channels: 1, sampleRate: 48000, frames: [][]float64{{0.1, 0.2, 0.3}}}
	fi := block.NewFileInput[float64](r)
	ctx := block.Context[float64]{SampleRate: 48000, BufferSize: 2, Layout: block.Mono()}
	fi.Prepare(ctx)

	out := abuf.New[float64](1, 2)
	fi.Process(nil, []*abuf.Buffer[float64]{&out}, nil, ctx)
	assert.InDelta(t, 0.1, out.Channel(0)[0], 1e-9)
	assert.InDelta(t, 0.2, out.Channel(0)[1], 1e-9)

	out2 := abuf.New[float64](1, 2)
	fi.Process(nil, []*abuf.Buffer[float64]{&out2}, nil, ctx)
	assert.InDelta(t, 0.3, out2.Channel(0)[0], 1e-9)
	assert.Equal(t, float64(0), out2.Channel(0)[1])

	out3 := abuf.New[float64](1, 2)
	fi.Process(nil, []*abuf.Buffer[float64]{&out3}, nil, ctx)
	assert.Equal(t, []float64{0, 0}, out3.Channel(0))

	require.NoError(t, fi.Finalize())
	assert.True(t, r.closed)
}

func TestFileOutputForwardsConvertedSamplesToWriter(t *testing.T) {
	w := &fakeWriter{}
	fo := block.NewFileOutput[float32](w)
	ctx := block.Context[float32]{SampleRate: 48000, BufferSize: 3, Layout: block.Mono()}
	fo.Prepare(ctx)

	in := abuf.New[float32](1, 3)
	copy(in.Channel(0), []float32{0.1, 0.2, 0.3})
	fo.Process([]*abuf.Buffer[float32]{&in}, nil, nil, ctx)

	require.Len(t, w.written, 1)
	for i, want := range []float64{0.1, 0.2, 0.3} {
		assert.InDelta(t, want, w.written[0][i], 1e-6)
	}

	require.NoError(t, fo.Finalize())
	assert.True(t, w.finalized)
}
