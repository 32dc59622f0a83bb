package block

import (
	"math"

	"github.com/sonicgraph/engine/abuf"
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// Waveform selects an Oscillator's periodic shape, per spec.md §4.4's
// concrete block table.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSquare
	WaveSaw
	WaveTriangle
	WavePulse
	WaveNoise
)

// Oscillator generates a band-limited periodic or noise signal at
// frequency Hz, optionally offset by pitchOffset semitones. Phase is
// continuous across buffers. Saw/square/triangle/pulse are band-limited
// with PolyBLEP (step edges) and PolyBLAMP (slope breaks); sine and noise
// are left naive, per the canonical behavior spec.md §9's Open Question
// (a) fixes. Noise generation (the LFSR, its tap positions, and the
// one-pole smoothing of its output) is ported from the teacher's
// generateSample WAVE_NOISE case in audio_chip.go.
type Oscillator[S sample.Sample] struct {
	waveform Waveform
	params   paramTable[S]

	frequency   *param.Parameter[S]
	pitchOffset *param.Parameter[S]
	dutyCycle   *param.Parameter[S]

	c sample.Constants[S]

	phase      S // normalized [0,1) turns, continuous across buffers
	noisePhase S
	noiseSR    uint32
	seed       uint32
	noiseState S
}

const (
	noiseLFSRSeedDefault = 0x7FFFFF
	noiseLFSRMask        = 0x7FFFFF
	noiseTap1            = 22
	noiseTap2            = 17
	noiseFilterOld       = 0.95
	noiseFilterNew       = 0.05
)

// NewOscillator constructs an Oscillator of the given waveform with a
// deterministic noise seed (only consulted when waveform is WaveNoise).
func NewOscillator[S sample.Sample](waveform Waveform, seed uint32) *Oscillator[S] {
	o := &Oscillator[S]{
		waveform: waveform,
		params:   newParamTable[S](),
		c:        sample.ConstantsFor[S](),
		seed:     seed,
	}
	if seed == 0 {
		seed = noiseLFSRSeedDefault
	}
	o.noiseSR = seed

	o.frequency = o.params.register("frequency", param.NewConstant[S](440, 0))
	o.pitchOffset = o.params.register("pitch_offset", param.NewConstant[S](0, 0))
	o.dutyCycle = o.params.register("duty_cycle", param.NewConstant[S](0.5, 0))
	return o
}

func (o *Oscillator[S]) Kind() Kind                    { return KindOscillator }
func (o *Oscillator[S]) InputCount() int                { return 0 }
func (o *Oscillator[S]) OutputCount() int               { return 1 }
func (o *Oscillator[S]) ChannelConfig() ChannelConfig   { return ChannelConfigParallel }
func (o *Oscillator[S]) ModulationOutputs() []ModulationOutput { return nil }
func (o *Oscillator[S]) ModulationOutputValues() []S    { return nil }
func (o *Oscillator[S]) ParameterNames() []string       { return o.params.names() }
func (o *Oscillator[S]) Parameter(name string) (*param.Parameter[S], bool) {
	return o.params.get(name)
}

func (o *Oscillator[S]) Prepare(ctx Context[S]) {
	o.params.prepare(ctx.SampleRate)
}

func (o *Oscillator[S]) Reset() {
	o.phase = 0
	o.noisePhase = 0
	seed := o.seed
	if seed == 0 {
		seed = noiseLFSRSeedDefault
	}
	o.noiseSR = seed
	o.noiseState = 0
}

// semitoneRatio converts a semitone offset into a frequency multiplier
// using the equal-tempered formula f·2^(s/12), per spec.md §4.4.
func semitoneRatio[S sample.Sample](semitones S) S {
	return S(math.Pow(2, float64(semitones)/12))
}

func (o *Oscillator[S]) Process(inputs []*abuf.Buffer[S], outputs []*abuf.Buffer[S], modValues map[BlockID][]S, ctx Context[S]) {
	out := outputs[0].Channel(0)

	freqStable := !o.frequency.IsSmoothing()
	pitchStable := !o.pitchOffset.IsSmoothing()
	dutyStable := !o.dutyCycle.IsSmoothing()

	sr := float64(ctx.SampleRate)

	for n := 0; n < ctx.BufferSize; n++ {
		var freq, pitch, duty S
		if freqStable {
			freq = o.frequency.Current()
		} else {
			freq = o.frequency.NextValue()
		}
		if pitchStable {
			pitch = o.pitchOffset.Current()
		} else {
			pitch = o.pitchOffset.NextValue()
		}
		if dutyStable {
			duty = o.dutyCycle.Current()
		} else {
			duty = o.dutyCycle.NextValue()
		}

		actualFreq := freq * semitoneRatio(pitch)
		dt := S(float64(actualFreq) / sr)

		out[n] = o.sampleAt(o.phase, dt, duty)

		if o.waveform != WaveNoise {
			o.phase += dt
			if o.phase >= 1 {
				o.phase -= 1
			} else if o.phase < 0 {
				o.phase += 1
			}
		}
	}
}

func (o *Oscillator[S]) sampleAt(t, dt, duty S) S {
	switch o.waveform {
	case WaveSine:
		return o.sine(t)
	case WaveSquare:
		return o.square(t, dt, duty)
	case WaveSaw:
		return o.saw(t, dt)
	case WaveTriangle:
		return o.triangle(t, dt)
	case WavePulse:
		return o.square(t, dt, duty)
	case WaveNoise:
		return o.noise(dt)
	default:
		return 0
	}
}

func (o *Oscillator[S]) sine(t S) S {
	f, ok := any(t).(float32)
	if ok {
		return any(sample.FastSin32(f * float32(o.c.Tau))).(S)
	}
	return S(math.Sin(float64(t) * float64(o.c.Tau)))
}

func (o *Oscillator[S]) square(t, dt, duty S) S {
	var v S
	if t < duty {
		v = 1
	} else {
		v = -1
	}
	v += sample.PolyBLEP(t, dt)
	shifted := t - duty
	if shifted < 0 {
		shifted += 1
	}
	v -= sample.PolyBLEP(shifted, dt)
	return v
}

func (o *Oscillator[S]) saw(t, dt S) S {
	v := 2*t - 1
	v -= sample.PolyBLEP(t, dt)
	return v
}

func (o *Oscillator[S]) triangle(t, dt S) S {
	// Integrate a band-limited square wave into a triangle: a BLAMP-
	// corrected linear ramp up/down with slope-break smoothing at the
	// trough (t=0) and the peak (t=0.5 of the square's period).
	var v S
	if t < 0.5 {
		v = 4*t - 1
	} else {
		v = 3 - 4*t
	}
	v += 4 * dt * sample.PolyBLAMP(t, dt)
	halfPhase := t + 0.5
	if halfPhase >= 1 {
		halfPhase -= 1
	}
	v -= 4 * dt * sample.PolyBLAMP(halfPhase, dt)
	return v
}

func (o *Oscillator[S]) noise(dt S) S {
	o.noisePhase += dt
	if o.noisePhase < 0 {
		o.noisePhase = 0
	}
	steps := int(o.noisePhase)
	o.noisePhase -= S(steps)
	if steps > 64 {
		steps = 64 // bound worst-case work for pathologically high "frequency"
	}
	for i := 0; i < steps; i++ {
		newBit := ((o.noiseSR >> noiseTap1) ^ (o.noiseSR >> noiseTap2)) & 1
		o.noiseSR = ((o.noiseSR << 1) | newBit) & noiseLFSRMask
	}
	raw := S(float64(o.noiseSR&1)*2 - 1)
	o.noiseState = noiseFilterOld*o.noiseState + noiseFilterNew*raw
	return o.noiseState
}

func (o *Oscillator[S]) Finalize() error { return nil }
