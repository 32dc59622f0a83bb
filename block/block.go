// Package block implements the Block abstraction from spec.md §3/§4.4: the
// unit of DSP computation. Every concrete kind (Oscillator, Gain, Panner,
// …) is a case of one closed set of types implementing the Block
// interface, dispatched through its method set rather than through an
// open object hierarchy — the "sum type + dispatch table" shape spec.md
// §9's design notes recommend.
package block

import (
	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// BlockID is re-exported from package param (which owns it to avoid an
// import cycle between param and graph) so callers only need to import
// package block for the common case.
type BlockID = param.BlockID

// Kind enumerates every concrete block variant, purely for introspection —
// config loading, error messages, debuggers. It is never branched on
// inside a hot Process loop; that dispatch happens through the Block
// interface's method set instead.
type Kind int

const (
	KindOscillator Kind = iota
	KindLFO
	KindEnvelope
	KindGain
	KindPanner
	KindOverdrive
	KindDCBlocker
	KindLowPassFilter
	KindChannelRouter
	KindSplitter
	KindMerger
	KindMatrixMixer
	KindAmbisonicDecoder
	KindBinauralDecoder
	KindVCA
	KindFileInput
	KindFileOutput
	KindOutput
)

// String names a Kind for logging and config round-tripping.
func (k Kind) String() string {
	switch k {
	case KindOscillator:
		return "oscillator"
	case KindLFO:
		return "lfo"
	case KindEnvelope:
		return "envelope"
	case KindGain:
		return "gain"
	case KindPanner:
		return "panner"
	case KindOverdrive:
		return "overdrive"
	case KindDCBlocker:
		return "dc_blocker"
	case KindLowPassFilter:
		return "low_pass_filter"
	case KindChannelRouter:
		return "channel_router"
	case KindSplitter:
		return "splitter"
	case KindMerger:
		return "merger"
	case KindMatrixMixer:
		return "matrix_mixer"
	case KindAmbisonicDecoder:
		return "ambisonic_decoder"
	case KindBinauralDecoder:
		return "binaural_decoder"
	case KindVCA:
		return "vca"
	case KindFileInput:
		return "file_input"
	case KindFileOutput:
		return "file_output"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// ChannelConfig distinguishes blocks that are layout-agnostic ("Parallel":
// the engine may process each channel independently through the same
// kernel) from blocks that need every channel at once to do their own
// routing ("Explicit": panners, routers, mixers, decoders). Per spec.md
// §4.7/§9.
type ChannelConfig int

const (
	ChannelConfigParallel ChannelConfig = iota
	ChannelConfigExplicit
)

// ChannelRole names the semantic intent of a ChannelLayout, per spec.md
// §3.
type ChannelRole int

const (
	RoleMono ChannelRole = iota
	RoleStereo
	RoleSurround51
	RoleSurround71
	RoleAmbisonicFOA
	RoleAmbisonicSOA
	RoleAmbisonicTOA
	RoleCustom
)

// ChannelLayout is the tagged value from spec.md §3: a channel count plus
// a semantic role. Most blocks are layout-agnostic and never inspect it;
// only routing, panning, and decoder blocks declare ChannelConfigExplicit
// and consult it.
type ChannelLayout struct {
	Channels int
	Role     ChannelRole
}

func Mono() ChannelLayout         { return ChannelLayout{1, RoleMono} }
func Stereo() ChannelLayout       { return ChannelLayout{2, RoleStereo} }
func Surround51() ChannelLayout   { return ChannelLayout{6, RoleSurround51} }
func Surround71() ChannelLayout   { return ChannelLayout{8, RoleSurround71} }
func AmbisonicFOA() ChannelLayout { return ChannelLayout{4, RoleAmbisonicFOA} }
func AmbisonicSOA() ChannelLayout { return ChannelLayout{9, RoleAmbisonicSOA} }
func AmbisonicTOA() ChannelLayout { return ChannelLayout{16, RoleAmbisonicTOA} }
func Custom(channels int) ChannelLayout {
	return ChannelLayout{channels, RoleCustom}
}

// ModulationOutput names a control-rate signal a block publishes once per
// processed buffer, per spec.md §3/§4.4. Min/Max document the nominal
// range for UI and config validation; they are not enforced at runtime.
type ModulationOutput struct {
	Name string
	Min  float64
	Max  float64
}

// Context carries the audio context every block's Prepare and Process
// method needs: the sample rate, the fixed per-buffer sample count, and
// the graph's overall channel layout (only consulted by
// ChannelConfigExplicit blocks).
type Context[S sample.Sample] struct {
	SampleRate S
	BufferSize int
	Layout     ChannelLayout
}

// Block is the uniform operation set every concrete block kind exposes,
// per spec.md §4.4.
type Block[S sample.Sample] interface {
	// Kind reports this block's concrete variant for introspection.
	Kind() Kind

	// InputCount reports the number of audio input ports.
	InputCount() int

	// OutputCount reports the number of audio output ports.
	OutputCount() int

	// ChannelConfig reports whether this block processes channels in
	// parallel or needs them all at once.
	ChannelConfig() ChannelConfig

	// ModulationOutputs lists the control-rate signals this block
	// publishes once per processed buffer.
	ModulationOutputs() []ModulationOutput

	// ModulationOutputValues returns the most recently published scalar
	// for each entry in ModulationOutputs, in the same order. Valid only
	// after Process has run at least once.
	ModulationOutputValues() []S

	// ParameterNames lists the named parameter slots modulate() may
	// target.
	ParameterNames() []string

	// Parameter resolves a named parameter slot, for the builder's
	// modulate() call and for programmatic control.
	Parameter(name string) (*param.Parameter[S], bool)

	// Prepare recomputes sample-rate-dependent coefficients and prepares
	// every owned parameter. Called at graph build time and whenever the
	// audio context changes.
	Prepare(ctx Context[S])

	// Reset clears delay lines, phase accumulators, filter memory, and
	// envelope state. It does not touch parameter target values.
	Reset()

	// Process computes one buffer's worth of samples. inputs and outputs
	// are already-allocated port buffers owned by the graph; Process must
	// not allocate, block, or retain them past the call. modValues is the
	// graph's modulation staging table, keyed by producing BlockID.
	Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S])

	// Finalize flushes any pending state (sink blocks that buffer
	// writes); the default behavior is a no-op returning nil.
	Finalize() error
}
