package graphconfig

import (
	"fmt"
	"io"

	"github.com/sonicgraph/engine/block"
	"github.com/sonicgraph/engine/graph"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML document from r.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("graphconfig: decode: %w", err)
	}
	return &doc, nil
}

// LayoutFromName resolves a YAML layout name (e.g. "stereo",
// "ambisonic_foa") to its block.ChannelLayout, exported for callers that
// need the channel count before or after Build (e.g. the demo CLI sizing
// its WAV writer).
func LayoutFromName(name string) (block.ChannelLayout, error) {
	switch name {
	case "", "mono":
		return block.Mono(), nil
	case "stereo":
		return block.Stereo(), nil
	case "5.1", "surround51":
		return block.Surround51(), nil
	case "7.1", "surround71":
		return block.Surround71(), nil
	case "ambisonic_foa":
		return block.AmbisonicFOA(), nil
	case "ambisonic_soa":
		return block.AmbisonicSOA(), nil
	case "ambisonic_toa":
		return block.AmbisonicTOA(), nil
	default:
		return block.ChannelLayout{}, fmt.Errorf("graphconfig: unknown layout %q", name)
	}
}

func paramString(params map[string]any, key, def string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func paramFloat(params map[string]any, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return def
}

func paramInt(params map[string]any, key string, def int) int {
	return int(paramFloat(params, key, float64(def)))
}

func waveformFromName(name string) block.Waveform {
	switch name {
	case "square":
		return block.WaveSquare
	case "saw":
		return block.WaveSaw
	case "triangle":
		return block.WaveTriangle
	case "pulse":
		return block.WavePulse
	case "noise":
		return block.WaveNoise
	default:
		return block.WaveSine
	}
}

// Build replays doc onto a fresh GraphBuilder[float32] and returns the
// built Graph. Block kinds not yet representable declaratively (file I/O,
// matrix mixers with arbitrary coefficient matrices) are rejected with a
// clear error rather than silently skipped.
func Build(doc *Document) (*graph.Graph[float32], error) {
	layout, err := LayoutFromName(doc.Layout)
	if err != nil {
		return nil, err
	}
	bufferSize := doc.BufferSize
	if bufferSize <= 0 {
		bufferSize = 512
	}
	sampleRate := float32(doc.SampleRate)
	if sampleRate <= 0 {
		sampleRate = 44100
	}

	gb, err := graph.NewGraphBuilder[float32](sampleRate, bufferSize, layout)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]block.BlockID, len(doc.Blocks))
	for _, spec := range doc.Blocks {
		b, err := buildBlock(spec)
		if err != nil {
			return nil, fmt.Errorf("graphconfig: block %q: %w", spec.ID, err)
		}
		ids[spec.ID] = gb.AddBlock(b)
	}

	resolve := func(name string) (block.BlockID, error) {
		id, ok := ids[name]
		if !ok {
			return 0, fmt.Errorf("graphconfig: undefined block id %q", name)
		}
		return id, nil
	}

	for _, c := range doc.Connect {
		from, err := resolve(c.From)
		if err != nil {
			return nil, err
		}
		to, err := resolve(c.To)
		if err != nil {
			return nil, err
		}
		if err := gb.Connect(from, c.FromPort, to, c.ToPort); err != nil {
			return nil, fmt.Errorf("graphconfig: connect %s->%s: %w", c.From, c.To, err)
		}
	}

	for _, m := range doc.Modulate {
		from, err := resolve(m.From)
		if err != nil {
			return nil, err
		}
		to, err := resolve(m.To)
		if err != nil {
			return nil, err
		}
		if err := gb.Modulate(from, m.FromOutput, to, m.Param); err != nil {
			return nil, fmt.Errorf("graphconfig: modulate %s->%s.%s: %w", m.From, m.To, m.Param, err)
		}
	}

	g, err := gb.Build()
	if err != nil {
		return nil, fmt.Errorf("graphconfig: build: %w", err)
	}
	return g, nil
}

func buildBlock(spec BlockSpec) (block.Block[float32], error) {
	switch spec.Kind {
	case "oscillator":
		wf := waveformFromName(paramString(spec.Params, "waveform", "sine"))
		seed := uint32(paramInt(spec.Params, "seed", 1))
		return block.NewOscillator[float32](wf, seed), nil
	case "lfo":
		wf := waveformFromName(paramString(spec.Params, "waveform", "sine"))
		return block.NewLFO[float32](wf), nil
	case "envelope":
		return block.NewEnvelope[float32](block.ShapeADSR), nil
	case "gain":
		return block.NewGain[float32](paramFloat(spec.Params, "base_gain_db", 0)), nil
	case "vca":
		return block.NewVca[float32](), nil
	case "panner":
		return block.NewPanner[float32](), nil
	case "overdrive":
		return block.NewOverdrive[float32](), nil
	case "dc_blocker":
		return block.NewDcBlocker[float32](), nil
	case "low_pass_filter":
		return block.NewLowPassFilter[float32](), nil
	case "output":
		return block.NewOutput[float32](paramInt(spec.Params, "inputs", 1)), nil
	default:
		return nil, fmt.Errorf("unsupported kind %q for declarative loading", spec.Kind)
	}
}
