package block

import (
	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// EnvelopeShape selects an Envelope's overall contour. ADSR is the
// canonical four-stage shape; SawUp/SawDown are single ramps that then go
// idle and Loop cycles attack/release until Reset, simpler shapes useful
// as rhythmic modulation sources rather than amplitude
// envelopes, supplementing spec.md §4.4's ADSR-only baseline in the same
// spirit as the teacher's multiple envelope stages in audio_chip.go's
// updateEnvelope, generalized to non-note-gated use.
type EnvelopeShape int

const (
	ShapeADSR EnvelopeShape = iota
	ShapeSawUp
	ShapeSawDown
	ShapeLoop
)

type envelopeStage int

const (
	stageIdle envelopeStage = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

// Envelope is a control-rate modulation source producing a value in [0,1]
// (ADSR/SawUp/Loop) or [0,1] descending-first (SawDown). NoteOn/NoteOff
// drive stage transitions; NoteOn retriggers from the envelope's current
// level rather than snapping to zero, matching the teacher's
// updateEnvelope behavior of ramping from whatever amplitude the channel
// was already at.
type Envelope[S sample.Sample] struct {
	shape EnvelopeShape
	params paramTable[S]
	mods   modOutputs[S]

	attackMS  *param.Parameter[S]
	decayMS   *param.Parameter[S]
	sustain   *param.Parameter[S]
	releaseMS *param.Parameter[S]

	sampleRate S
	stage      envelopeStage
	level      S
	stageStep  S
	stageLen   int
	stagePos   int
}

func NewEnvelope[S sample.Sample](shape EnvelopeShape) *Envelope[S] {
	e := &Envelope[S]{
		shape:  shape,
		params: newParamTable[S](),
		mods:   newModOutputs[S](ModulationOutput{Name: "out", Min: 0, Max: 1}),
	}
	e.attackMS = e.params.register("attack_ms", param.NewConstant[S](10, 0))
	e.decayMS = e.params.register("decay_ms", param.NewConstant[S](100, 0))
	e.sustain = e.params.register("sustain", param.NewConstant[S](0.7, 0))
	e.releaseMS = e.params.register("release_ms", param.NewConstant[S](200, 0))
	return e
}

func (e *Envelope[S]) Kind() Kind                           { return KindEnvelope }
func (e *Envelope[S]) InputCount() int                      { return 0 }
func (e *Envelope[S]) OutputCount() int                     { return 0 }
func (e *Envelope[S]) ChannelConfig() ChannelConfig          { return ChannelConfigParallel }
func (e *Envelope[S]) ModulationOutputs() []ModulationOutput { return e.mods.list() }
func (e *Envelope[S]) ModulationOutputValues() []S           { return e.mods.get() }
func (e *Envelope[S]) ParameterNames() []string              { return e.params.names() }
func (e *Envelope[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return e.params.get(name)
}

func (e *Envelope[S]) Prepare(ctx Context[S]) {
	e.sampleRate = ctx.SampleRate
	e.params.prepare(ctx.SampleRate)
}

func (e *Envelope[S]) Reset() {
	e.stage = stageIdle
	e.level = 0
	e.stagePos = 0
	e.stageLen = 0
}

// NoteOn begins (or retriggers) the envelope from its current level. It is
// not part of the Block interface: callers (a MIDI-event consumer, a
// sequencer, or a test) invoke it directly between Process calls, the same
// way the teacher's register writes reach into Channel state directly
// rather than through the generic Process dispatch.
func (e *Envelope[S]) NoteOn() {
	if e.shape == ShapeSawDown {
		e.level = 1
	}
	e.enterStage(stageAttack)
}

// NoteOff begins the release stage (ADSR only; every other shape ignores it).
func (e *Envelope[S]) NoteOff() {
	if e.shape != ShapeADSR {
		return
	}
	e.enterStage(stageRelease)
}

func (e *Envelope[S]) enterStage(stage envelopeStage) {
	// Stage parameters are read only at stage boundaries, so a pending
	// retarget is applied in full here instead of being ramped.
	for _, p := range [...]*param.Parameter[S]{e.attackMS, e.decayMS, e.sustain, e.releaseMS} {
		for p.IsSmoothing() {
			p.NextValue()
		}
	}
	e.stage = stage
	e.stagePos = 0
	switch stage {
	case stageAttack:
		e.stageLen = msToSamples(e.attackMS.Current(), e.sampleRate)
		target := S(1)
		if e.shape == ShapeSawDown {
			target = 0
		}
		e.stageStep = rampStep(e.level, target, e.stageLen)
	case stageDecay:
		e.stageLen = msToSamples(e.decayMS.Current(), e.sampleRate)
		e.stageStep = rampStep(e.level, e.sustain.Current(), e.stageLen)
	case stageRelease:
		e.stageLen = msToSamples(e.releaseMS.Current(), e.sampleRate)
		e.stageStep = rampStep(e.level, 0, e.stageLen)
	case stageSustain, stageIdle:
		e.stageLen = 0
		e.stageStep = 0
	}
}

func msToSamples[S sample.Sample](ms S, sampleRate S) int {
	n := int(float64(ms) / 1000 * float64(sampleRate))
	if n < 1 {
		n = 1
	}
	return n
}

func rampStep[S sample.Sample](from, to S, length int) S {
	if length <= 0 {
		return 0
	}
	return (to - from) / S(length)
}

// Process advances the envelope one buffer at a time, evaluated once per
// sample internally but published once per buffer, consistent with
// spec.md §4.4's per-buffer modulation-output publication contract.
func (e *Envelope[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	for n := 0; n < ctx.BufferSize; n++ {
		e.advance()
	}
	e.mods.publish(0, e.level)
}

func (e *Envelope[S]) advance() {
	switch e.stage {
	case stageIdle, stageSustain:
		return
	case stageAttack:
		e.level += e.stageStep
		e.stagePos++
		if e.stagePos >= e.stageLen {
			if e.shape == ShapeSawDown {
				e.level = 0
				e.stage = stageIdle
				return
			}
			e.level = 1
			if e.shape == ShapeADSR {
				e.enterStage(stageDecay)
			} else if e.shape == ShapeLoop {
				e.enterStage(stageRelease)
			} else {
				e.stage = stageIdle
			}
		}
	case stageDecay:
		e.level += e.stageStep
		e.stagePos++
		if e.stagePos >= e.stageLen {
			e.level = e.sustain.Current()
			e.stage = stageSustain
		}
	case stageRelease:
		e.level += e.stageStep
		e.stagePos++
		if e.stagePos >= e.stageLen {
			e.level = 0
			if e.shape == ShapeLoop {
				e.enterStage(stageAttack)
			} else {
				e.stage = stageIdle
			}
		}
	}
}

func (e *Envelope[S]) Finalize() error { return nil }
