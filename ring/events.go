package ring

import "hash/fnv"

// MidiEvent is the minimal payload spec.md §6.2 requires the control ring
// to carry: a raw MIDI-shaped event plus the sample offset within the
// target buffer at which it takes effect. Parsing MIDI files or streams is
// explicitly out of this module's scope (spec.md §1) — this struct only
// describes the already-decoded event shape a synthesizer block consumes.
type MidiEvent struct {
	SampleOffset int // offset within the buffer currently being processed
	Status       byte
	Data1        byte
	Data2        byte
}

// NoteOn reports whether this event is a MIDI note-on with nonzero
// velocity (a note-on with zero velocity is conventionally a note-off).
func (e MidiEvent) NoteOn() bool {
	return e.Status&0xF0 == 0x90 && e.Data2 != 0
}

// NoteOff reports whether this event is a MIDI note-off, including the
// note-on-with-zero-velocity convention.
func (e MidiEvent) NoteOff() bool {
	if e.Status&0xF0 == 0x80 {
		return true
	}
	return e.Status&0xF0 == 0x90 && e.Data2 == 0
}

// ParamHash is a 32-bit FNV-1a hash of a parameter's string name, per
// spec.md §6.2: "Hashing uses FNV-1a over the parameter's string name —
// the audio thread matches by 32-bit integer" so the hot path never
// compares strings.
type ParamHash uint32

// HashParamName computes the ParamHash for a parameter name.
func HashParamName(name string) ParamHash {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return ParamHash(h.Sum32())
}

// ParamChange is a parameter-change control message: the hashed target
// parameter name, the new value, and an optional sample-accurate schedule
// time within the upcoming buffer (0 meaning "as soon as possible").
type ParamChange struct {
	Param              ParamHash
	Value              float64
	ScheduledSampleTime int
}

// Trigger is a named, hash-addressed trigger message (e.g. "note retrigger"
// or "reset phase") carried on the same kind of ring as ParamChange.
type Trigger struct {
	Name ParamHash
}
