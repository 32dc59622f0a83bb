// Package param implements the smoothed scalar Parameter type from
// spec.md §3/§4.3: a value that is either a compile-time constant or
// driven by another block's modulation output, ramped linearly toward its
// target so that blocks consuming it never see a click.
package param

import "github.com/sonicgraph/engine/sample"

// BlockID is a dense integer handle. Declared here (rather than imported
// from package graph) to avoid an import cycle: graph depends on param,
// not the reverse.
type BlockID int

// defaultRampMS is the default smoothing ramp length, per spec.md §3.
const defaultRampMS = 50

// Transform converts a raw modulation value into the units a parameter's
// target expects (e.g. dB to linear gain, or Hz to phase increment). A nil
// Transform is the identity.
type Transform[S sample.Sample] func(raw S) S

// sourceKind distinguishes a constant parameter from a modulated one.
type sourceKind int

const (
	sourceConstant sourceKind = iota
	sourceModulated
)

// Parameter is a smoothed scalar input to a block. Its source is either a
// fixed constant or a reference to another block's modulation output;
// either way, consumers read Current()/NextValue() and never see the
// raw, unsmoothed target.
type Parameter[S sample.Sample] struct {
	kind       sourceKind
	constant   S
	modSrc     BlockID
	modOutput  int
	transform  Transform[S]
	rampMS     S
	sampleRate S

	current          S
	target           S
	step             S
	samplesRemaining int
	stable           bool
}

// NewConstant creates a Parameter sourced from a fixed value, per spec.md
// §4.3's new_constant constructor. rampMS of 0 selects the 50ms default.
func NewConstant[S sample.Sample](value S, rampMS S) *Parameter[S] {
	p := &Parameter[S]{
		kind:     sourceConstant,
		constant: value,
		rampMS:   rampMS,
		current:  value,
		target:   value,
		stable:   true,
	}
	if p.rampMS == 0 {
		p.rampMS = defaultRampMS
	}
	return p
}

// NewModulated creates a Parameter sourced from another block's modulation
// output, per spec.md §4.3's new_modulated constructor.
func NewModulated[S sample.Sample](src BlockID, modOutput int, rampMS S) *Parameter[S] {
	p := &Parameter[S]{
		kind:      sourceModulated,
		modSrc:    src,
		modOutput: modOutput,
		rampMS:    rampMS,
		stable:    true,
	}
	if p.rampMS == 0 {
		p.rampMS = defaultRampMS
	}
	return p
}

// BindModulation rebinds an already-constructed Parameter (typically built
// with NewConstant, since a block declares its own sensible defaults
// before any graph exists) onto another block's modulation output. Used
// by GraphBuilder.Modulate at graph-build time; never called from the
// audio thread.
func (p *Parameter[S]) BindModulation(src BlockID, modOutput int) {
	p.kind = sourceModulated
	p.modSrc = src
	p.modOutput = modOutput
}

// SetTransform installs the curve applied to raw modulation values before
// they become the smoothing target (e.g. dB→linear). Transform is only
// consulted for modulated parameters.
func (p *Parameter[S]) SetTransform(t Transform[S]) { p.transform = t }

// ModulationSource reports the (BlockID, mod output index) this parameter
// reads from. Only meaningful when IsModulated is true. The graph builder
// and scheduler keep their own edge lists and do not call it.
func (p *Parameter[S]) ModulationSource() (BlockID, int) { return p.modSrc, p.modOutput }

// IsModulated reports whether the parameter's source is a modulation
// output rather than a fixed constant.
func (p *Parameter[S]) IsModulated() bool { return p.kind == sourceModulated }

// Prepare recomputes the smoother's per-sample step size for the
// configured ramp length at the given sample rate, per spec.md §4.3's
// prepare(sample_rate). Called at graph build time and whenever the audio
// context changes.
func (p *Parameter[S]) Prepare(sampleRate S) {
	p.sampleRate = sampleRate
	p.recomputeStep()
}

func (p *Parameter[S]) rampSamples() int {
	n := int(float64(p.rampMS) * float64(p.sampleRate) / 1000)
	if n < 1 {
		n = 1
	}
	return n
}

func (p *Parameter[S]) recomputeStep() {
	if p.samplesRemaining <= 0 {
		p.step = 0
		return
	}
	p.step = (p.target - p.current) / S(p.samplesRemaining)
}

// UpdateTarget is called once at the top of each processed buffer, per
// spec.md §4.3/§4.7. For a modulated parameter it reads the staged
// modulation value, applies the transform, and retargets the smoother; a
// constant parameter is a no-op (its target never moves). If the new
// target is within Epsilon of the current value, the parameter is marked
// stable immediately, enabling the owning block's fast path.
func (p *Parameter[S]) UpdateTarget(modValues map[BlockID][]S) {
	if p.kind != sourceModulated {
		return
	}
	raw := p.rawModulationValue(modValues)
	target := raw
	if p.transform != nil {
		target = p.transform(raw)
	}
	p.SetTarget(target)
}

func (p *Parameter[S]) rawModulationValue(modValues map[BlockID][]S) S {
	vals, ok := modValues[p.modSrc]
	if !ok || p.modOutput >= len(vals) {
		return 0
	}
	return vals[p.modOutput]
}

// GetRawValue returns the pre-transform modulation value for this
// parameter's source, for blocks that need to apply their own curve
// instead of the parameter's configured Transform. Returns the constant
// value unchanged for a constant-sourced parameter.
func (p *Parameter[S]) GetRawValue(modValues map[BlockID][]S) S {
	if p.kind != sourceModulated {
		return p.constant
	}
	return p.rawModulationValue(modValues)
}

// SetTarget programmatically retargets the smoother (spec.md §4.3's
// set_target). If target is within Epsilon of current, the
// parameter snaps to stable immediately rather than ramping a
// sub-threshold distance.
func (p *Parameter[S]) SetTarget(target S) {
	c := sample.ConstantsFor[S]()
	diff := target - p.current
	if diff < 0 {
		diff = -diff
	}
	if diff <= c.Epsilon {
		p.current = target
		p.target = target
		p.samplesRemaining = 0
		p.step = 0
		p.stable = true
		return
	}
	p.target = target
	p.samplesRemaining = p.rampSamples()
	p.stable = false
	p.recomputeStep()
}

// IsSmoothing reports whether current has not yet reached target.
func (p *Parameter[S]) IsSmoothing() bool { return !p.stable }

// Current returns the current, possibly mid-ramp, value without advancing
// the smoother.
func (p *Parameter[S]) Current() S { return p.current }

// NextValue advances the smoother by one sample toward target and returns
// the new current value. Once samplesRemaining reaches zero, current is
// pinned exactly to target and further calls are a no-op multiply-free
// return, per spec.md §4.3's arrival invariant.
func (p *Parameter[S]) NextValue() S {
	if p.samplesRemaining <= 0 {
		p.current = p.target
		p.stable = true
		return p.current
	}
	p.current += p.step
	p.samplesRemaining--
	if p.samplesRemaining <= 0 {
		p.current = p.target
		p.stable = true
	}
	return p.current
}

// Reset snaps the parameter to its current target without reinitializing
// its source, so the target survives (e.g. a held gain knob) while
// transient ramp state does not. No block's Reset calls it.
func (p *Parameter[S]) Reset() {
	p.current = p.target
	p.samplesRemaining = 0
	p.step = 0
	p.stable = true
}
