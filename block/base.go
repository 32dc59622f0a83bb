package block

import (
	"github.com/sonicgraph/engine/param"
	"github.com/sonicgraph/engine/sample"
)

// paramTable is a small ordered map from parameter name to *Parameter,
// shared by every concrete block's constructor.
type paramTable[S sample.Sample] struct {
	order  []string
	lookup map[string]*param.Parameter[S]
}

func newParamTable[S sample.Sample]() paramTable[S] {
	return paramTable[S]{lookup: make(map[string]*param.Parameter[S])}
}

func (t *paramTable[S]) register(name string, p *param.Parameter[S]) *param.Parameter[S] {
	if _, exists := t.lookup[name]; !exists {
		t.order = append(t.order, name)
	}
	t.lookup[name] = p
	return p
}

// names returns the registered parameter names in registration order. The
// returned slice aliases internal state and must not be mutated by
// callers; it is called once per block per buffer from Graph.ProcessBuffers,
// so unlike a defensive copy it allocates nothing on the audio thread.
func (t *paramTable[S]) names() []string {
	return t.order
}

func (t *paramTable[S]) get(name string) (*param.Parameter[S], bool) {
	p, ok := t.lookup[name]
	return p, ok
}

func (t *paramTable[S]) prepare(sampleRate S) {
	for _, name := range t.order {
		t.lookup[name].Prepare(sampleRate)
	}
}

// modOutputs tracks a block's declared modulation outputs alongside the
// scalar values it published on the most recent Process call.
type modOutputs[S sample.Sample] struct {
	descriptors []ModulationOutput
	values      []S
}

func newModOutputs[S sample.Sample](descriptors ...ModulationOutput) modOutputs[S] {
	return modOutputs[S]{
		descriptors: descriptors,
		values:      make([]S, len(descriptors)),
	}
}

func (m *modOutputs[S]) list() []ModulationOutput { return m.descriptors }
func (m *modOutputs[S]) get() []S                 { return m.values }
func (m *modOutputs[S]) publish(i int, v S)        { m.values[i] = v }
