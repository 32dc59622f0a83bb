package fileio

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// WavReader is the concrete Reader collaborator backed by
// github.com/go-audio/wav, the pack's only WAV decoding library. It reads
// whole PCM frames into a reusable go-audio IntBuffer and converts to
// float64 in [-1,1] for the Reader contract.
type WavReader struct {
	file    *os.File
	decoder *wav.Decoder
	intBuf  *audio.IntBuffer
	scale   float64
}

// OpenWavReader opens path and decodes its WAV header.
func OpenWavReader(path string) (*WavReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fileio: open %s: %w", path, err)
	}
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("fileio: %s is not a valid WAV file", path)
	}
	dec.ReadInfo()
	bits := int(dec.BitDepth)
	if bits == 0 {
		bits = 16
	}
	return &WavReader{
		file:    f,
		decoder: dec,
		scale:   1 << (bits - 1),
	}, nil
}

func (r *WavReader) Channels() int      { return int(r.decoder.NumChans) }
func (r *WavReader) SampleRate() float64 { return float64(r.decoder.SampleRate) }

func (r *WavReader) Read(ctx context.Context, dst [][]float64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	channels := r.Channels()
	if channels == 0 || len(dst) == 0 {
		return 0, io.EOF
	}
	frameCount := len(dst[0])
	if r.intBuf == nil || cap(r.intBuf.Data) < frameCount*channels {
		r.intBuf = &audio.IntBuffer{
			Format: &audio.Format{NumChannels: channels, SampleRate: int(r.decoder.SampleRate)},
			Data:   make([]int, frameCount*channels),
		}
	}
	r.intBuf.Data = r.intBuf.Data[:frameCount*channels]

	n, err := r.decoder.PCMBuffer(r.intBuf)
	if err != nil {
		return 0, fmt.Errorf("fileio: decode wav: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	frames := n / channels
	for ch := 0; ch < channels && ch < len(dst); ch++ {
		for i := 0; i < frames; i++ {
			dst[ch][i] = float64(r.intBuf.Data[i*channels+ch]) / r.scale
		}
	}
	if frames < frameCount {
		return frames, io.EOF
	}
	return frames, nil
}

func (r *WavReader) Close() error { return r.file.Close() }

// WavWriter is the concrete Writer collaborator backed by
// github.com/go-audio/wav's Encoder. Writes are handed off to a background
// goroutine over a buffered channel and encoded asynchronously, supervised
// by an errgroup.Group so Finalize can surface the first encode error
// instead of Write blocking the caller on I/O — the same "async error
// surfaced at shutdown" shape the ambient stack's file-writer coordination
// uses elsewhere in this module (see SPEC_FULL.md §1.1).
type WavWriter struct {
	file    *os.File
	encoder *wav.Encoder
	channels int
	scale   float64

	frames chan []float64
	group  *errgroup.Group
}

// CreateWavWriter creates path for writing a channels-channel, bitDepth-bit
// PCM WAV at the given sample rate.
func CreateWavWriter(path string, sampleRate, channels, bitDepth int) (*WavWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("fileio: create %s: %w", path, err)
	}
	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)

	w := &WavWriter{
		file:     f,
		encoder:  enc,
		channels: channels,
		scale:    float64(int(1) << (bitDepth - 1)),
		frames:   make(chan []float64, 64),
	}

	group := new(errgroup.Group)
	group.Go(func() error {
		buf := &audio.IntBuffer{
			Format: &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		}
		for frame := range w.frames {
			buf.Data = make([]int, len(frame))
			for i, v := range frame {
				buf.Data[i] = int(v * w.scale)
			}
			if err := enc.Write(buf); err != nil {
				return fmt.Errorf("fileio: encode wav frame: %w", err)
			}
		}
		return nil
	})
	w.group = group
	return w, nil
}

// Write interleaves one channel-major frame batch (channels × N samples)
// into a new slice and hands it to the background encoder goroutine.
func (w *WavWriter) Write(frames [][]float64) error {
	if len(frames) == 0 {
		return nil
	}
	n := len(frames[0])
	interleaved := make([]float64, n*w.channels)
	for ch := 0; ch < w.channels && ch < len(frames); ch++ {
		for i := 0; i < n; i++ {
			interleaved[i*w.channels+ch] = frames[ch][i]
		}
	}
	w.frames <- interleaved
	return nil
}

// Finalize closes the frame channel, waits for the background encoder to
// drain, and returns the first encode error if there was one; otherwise it
// returns the WAV trailer (encoder close) error or the file close error.
func (w *WavWriter) Finalize() error {
	close(w.frames)
	if err := w.group.Wait(); err != nil {
		log.Error("wav encode failed", "err", err)
		w.encoder.Close()
		w.file.Close()
		return err
	}
	if err := w.encoder.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("fileio: close wav encoder: %w", err)
	}
	return w.file.Close()
}
