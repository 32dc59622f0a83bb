package block

import (
	"github.com/sonicgraph/engine/sample"
)

// Vca is a Gain reported under its own Kind (KindVCA), for graphs whose
// "amount" parameter is driven by a modulation edge from
// GraphBuilder.Modulate, per spec.md §4.4's distinction between a plain
// Gain and a voltage-controlled amplifier. Nothing checks that such an
// edge exists: NewVca does not, and GraphBuilder.Build accepts a Vca whose
// "amount" was never bound. Vca behaves exactly like Gain whether or not
// modulation is present.
type Vca[S sample.Sample] struct {
	*Gain[S]
}

func NewVca[S sample.Sample]() *Vca[S] {
	return &Vca[S]{Gain: NewGain[S](0)}
}

func (v *Vca[S]) Kind() Kind { return KindVCA }
