package block

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/fileio"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// FileInput is a generator block that reads frames from a fileio.Reader,
// converting its float64 samples to S and holding a pre-allocated scratch
// buffer so Process never allocates, per spec.md §5. Once the reader is
// exhausted FileInput emits silence rather than erroring, since graph
// processing has no notion of "the stream ended" signal of its own; a
// caller watching fileio.Reader.Read's io.EOF externally decides when to
// stop calling ProcessBuffers.
type FileInput[S sample.Sample] struct {
	params paramTable[S]
	reader fileio.Reader
	scratch [][]float64
	exhausted bool
}

func NewFileInput[S sample.Sample](reader fileio.Reader) *FileInput[S] {
	return &FileInput[S]{params: newParamTable[S](), reader: reader}
}

func (f *FileInput[S]) Kind() Kind                           { return KindFileInput }
func (f *FileInput[S]) InputCount() int                      { return 0 }
func (f *FileInput[S]) OutputCount() int                      { return 1 }
func (f *FileInput[S]) ChannelConfig() ChannelConfig          { return ChannelConfigExplicit }
func (f *FileInput[S]) ModulationOutputs() []ModulationOutput { return nil }
func (f *FileInput[S]) ModulationOutputValues() []S           { return nil }
func (f *FileInput[S]) ParameterNames() []string              { return f.params.names() }
func (f *FileInput[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return f.params.get(name)
}

func (f *FileInput[S]) Prepare(ctx Context[S]) {
	f.params.prepare(ctx.SampleRate)
	channels := f.reader.Channels()
	if len(f.scratch) != channels || (len(f.scratch) > 0 && cap(f.scratch[0]) < ctx.BufferSize) {
		f.scratch = make([][]float64, channels)
		for ch := range f.scratch {
			f.scratch[ch] = make([]float64, ctx.BufferSize)
		}
	}
}

func (f *FileInput[S]) Reset() { f.exhausted = false }

func (f *FileInput[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	out := outputs[0]
	channels := out.Channels()

	if f.exhausted {
		for ch := 0; ch < channels; ch++ {
			dst := out.Channel(ch)
			for n := range dst {
				dst[n] = 0
			}
		}
		return
	}

	for ch := range f.scratch {
		f.scratch[ch] = f.scratch[ch][:ctx.BufferSize]
	}
	// context.Background is correct here: the read is a bounded, local
	// file/pipe pull the graph owner already serializes against the
	// processing cadence, not a cancellable network call.
	n, err := f.reader.Read(context.Background(), f.scratch)
	if err != nil {
		f.exhausted = true
		if n == 0 {
			log.Debug("file input exhausted")
		}
	}

	for ch := 0; ch < channels; ch++ {
		dst := out.Channel(ch)
		var src []float64
		if ch < len(f.scratch) {
			src = f.scratch[ch]
		}
		for i := 0; i < ctx.BufferSize; i++ {
			if i < n && src != nil {
				dst[i] = S(src[i])
			} else {
				dst[i] = 0
			}
		}
	}
}

func (f *FileInput[S]) Finalize() error { return f.reader.Close() }

// FileOutput is a sink block that hands every processed buffer to a
// fileio.Writer, converting S to float64. Writer.Write is documented to
// hand off to a background goroutine rather than block. The S → float64
// conversion reuses a channel-major [][]float64 scratch sized in Prepare,
// so Process itself does not allocate (a Writer's Write may: WavWriter
// allocates an interleaved copy per call).
type FileOutput[S sample.Sample] struct {
	params  paramTable[S]
	writer  fileio.Writer
	scratch [][]float64
}

func NewFileOutput[S sample.Sample](writer fileio.Writer) *FileOutput[S] {
	return &FileOutput[S]{params: newParamTable[S](), writer: writer}
}

func (f *FileOutput[S]) Kind() Kind                           { return KindFileOutput }
func (f *FileOutput[S]) InputCount() int                      { return 1 }
func (f *FileOutput[S]) OutputCount() int                     { return 0 }
func (f *FileOutput[S]) ChannelConfig() ChannelConfig          { return ChannelConfigExplicit }
func (f *FileOutput[S]) ModulationOutputs() []ModulationOutput { return nil }
func (f *FileOutput[S]) ModulationOutputValues() []S           { return nil }
func (f *FileOutput[S]) ParameterNames() []string              { return f.params.names() }
func (f *FileOutput[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return f.params.get(name)
}

func (f *FileOutput[S]) Prepare(ctx Context[S]) {
	f.params.prepare(ctx.SampleRate)
	if len(f.scratch) != ctx.Layout.Channels {
		f.scratch = make([][]float64, ctx.Layout.Channels)
	}
	for ch := range f.scratch {
		if cap(f.scratch[ch]) < ctx.BufferSize {
			f.scratch[ch] = make([]float64, ctx.BufferSize)
		}
		f.scratch[ch] = f.scratch[ch][:ctx.BufferSize]
	}
}

func (f *FileOutput[S]) Reset() {}

func (f *FileOutput[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	in := inputs[0]
	for ch := 0; ch < len(f.scratch) && ch < in.Channels(); ch++ {
		src := in.Channel(ch)
		dst := f.scratch[ch]
		for n := 0; n < ctx.BufferSize; n++ {
			dst[n] = sample.ToFloat64(src[n])
		}
	}
	if err := f.writer.Write(f.scratch); err != nil {
		log.Error("file output write failed", "err", err)
	}
}

func (f *FileOutput[S]) Finalize() error { return f.writer.Finalize() }
