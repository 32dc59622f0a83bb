// Package graphconfig turns a declarative YAML graph description into
// GraphBuilder calls, per SPEC_FULL.md §1.1: pure ambient convenience over
// the programmatic builder API, which remains the canonical way to
// construct a graph. Only float32 graphs are supported here — the demo CLI
// and most real-time playback paths run at float32, and a declarative
// loader genericized over sample.Sample would need per-kind factory
// functions duplicated per width for no practical benefit.
package graphconfig

// Document is the top-level YAML shape: a sample rate, buffer size,
// channel layout name, a list of named blocks, and the audio/modulation
// edges between them.
type Document struct {
	SampleRate float64        `yaml:"sample_rate"`
	BufferSize int            `yaml:"buffer_size"`
	Layout     string         `yaml:"layout"`
	Blocks     []BlockSpec    `yaml:"blocks"`
	Connect    []ConnectSpec  `yaml:"connect"`
	Modulate   []ModulateSpec `yaml:"modulate"`
}

// BlockSpec names one block instance: a unique id for later reference, its
// kind, and kind-specific parameters as a free-form map (e.g. {waveform:
// "saw", seed: 12345} for an oscillator).
type BlockSpec struct {
	ID     string         `yaml:"id"`
	Kind   string         `yaml:"kind"`
	Params map[string]any `yaml:"params"`
}

// ConnectSpec wires an audio edge between two block-ids' ports.
type ConnectSpec struct {
	From     string `yaml:"from"`
	FromPort int    `yaml:"from_port"`
	To       string `yaml:"to"`
	ToPort   int    `yaml:"to_port"`
}

// ModulateSpec wires a modulation edge from a block-id's modulation output
// to another block-id's named parameter.
type ModulateSpec struct {
	From       string `yaml:"from"`
	FromOutput int    `yaml:"from_output"`
	To         string `yaml:"to"`
	Param      string `yaml:"param"`
}
