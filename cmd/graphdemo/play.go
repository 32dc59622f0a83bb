package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sonicgraph/engine/graph"
	"github.com/sonicgraph/engine/graphconfig"
)

// graphReader adapts a Graph[float32]'s ProcessBuffers pull model to the
// io.Reader oto.NewPlayer expects: each Read call renders exactly as many
// whole buffers as needed to fill p, interleaving channels and encoding
// little-endian float32 samples. Adapted from the teacher's OtoPlayer.Read
// in audio_backend_oto.go, generalized from a single fixed-channel chip
// register read to the graph's arbitrary channel layout.
type graphReader struct {
	g          *graph.Graph[float32]
	channels   int
	bufferSize int
	framesLeft int

	scratch   [][]float32
	carryover []byte
}

func newGraphReader(g *graph.Graph[float32], channels, bufferSize int, totalFrames int) *graphReader {
	scratch := make([][]float32, channels)
	for i := range scratch {
		scratch[i] = make([]float32, bufferSize)
	}
	return &graphReader{
		g:          g,
		channels:   channels,
		bufferSize: bufferSize,
		framesLeft: totalFrames,
		scratch:    scratch,
	}
}

func (r *graphReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.carryover) > 0 {
			copied := copy(p[n:], r.carryover)
			n += copied
			r.carryover = r.carryover[copied:]
			continue
		}
		if r.framesLeft <= 0 {
			if n == 0 {
				return 0, io.EOF
			}
			return n, nil
		}

		r.g.ProcessBuffers(r.scratch)
		frames := r.bufferSize
		if frames > r.framesLeft {
			frames = r.framesLeft
		}
		r.framesLeft -= frames

		buf := make([]byte, frames*r.channels*4)
		for i := 0; i < frames; i++ {
			for ch := 0; ch < r.channels; ch++ {
				bits := math.Float32bits(r.scratch[ch][i])
				binary.LittleEndian.PutUint32(buf[(i*r.channels+ch)*4:], bits)
			}
		}
		r.carryover = buf
	}
	return n, nil
}

func playLive(r io.Reader, seconds float64) error {
	doc, err := graphconfig.Parse(r)
	if err != nil {
		return err
	}
	g, err := graphconfig.Build(doc)
	if err != nil {
		return err
	}
	g.Prepare()

	layout, err := graphconfig.LayoutFromName(doc.Layout)
	if err != nil {
		return err
	}
	sampleRate := doc.SampleRate
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	bufferSize := doc.BufferSize
	if bufferSize <= 0 {
		bufferSize = 512
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: layout.Channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("graphdemo: create audio context: %w", err)
	}
	<-ready

	totalFrames := int(seconds * sampleRate)
	reader := newGraphReader(g, layout.Channels, bufferSize, totalFrames)
	player := otoCtx.NewPlayer(reader)
	player.Play()

	for player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}
	if err := player.Close(); err != nil {
		return fmt.Errorf("graphdemo: close player: %w", err)
	}
	return g.Finalize()
}
