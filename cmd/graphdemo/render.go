package main

import (
	"fmt"
	"io"

	"github.com/sonicgraph/engine/fileio"
	"github.com/sonicgraph/engine/graphconfig"
)

func renderToWav(r io.Reader, outPath string, seconds float64, bitDepth int) error {
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

	writer, err := fileio.CreateWavWriter(outPath, int(sampleRate), layout.Channels, bitDepth)
	if err != nil {
		return fmt.Errorf("graphdemo: create wav writer: %w", err)
	}

	totalFrames := int(seconds * sampleRate)
	channelBufs := make([][]float32, layout.Channels)
	for i := range channelBufs {
		channelBufs[i] = make([]float32, bufferSize)
	}
	frames := make([][]float64, layout.Channels)
	for i := range frames {
		frames[i] = make([]float64, bufferSize)
	}

	rendered := 0
	for rendered < totalFrames {
		n := bufferSize
		if rendered+n > totalFrames {
			n = totalFrames - rendered
		}
		g.ProcessBuffers(channelBufs)
		for ch := range channelBufs {
			for i := 0; i < n; i++ {
				frames[ch][i] = float64(channelBufs[ch][i])
			}
		}
		framesView := make([][]float64, layout.Channels)
		for ch := range frames {
			framesView[ch] = frames[ch][:n]
		}
		if err := writer.Write(framesView); err != nil {
			return fmt.Errorf("graphdemo: write frames: %w", err)
		}
		rendered += n
	}

	if err := writer.Finalize(); err != nil {
		return fmt.Errorf("graphdemo: finalize wav: %w", err)
	}
	return g.Finalize()
}
