package graphconfig_test

import (
	"strings"
	"testing"

	"github.com/sonicgraph/engine/graphconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `
sample_rate: 48000
buffer_size: 64
layout: mono
blocks:
  - id: osc
    kind: oscillator
    params:
      waveform: sine
  - id: gain
    kind: gain
    params:
      base_gain_db: 0
  - id: out
    kind: output
    params:
      inputs: 1
connect:
  - from: osc
    from_port: 0
    to: gain
    to_port: 0
  - from: gain
    from_port: 0
    to: out
    to_port: 0
`

func TestParseDecodesDocument(t *testing.T) {
	doc, err := graphconfig.Parse(strings.NewReader(validDoc))
	require.NoError(t, err)
	assert.Equal(t, float64(48000), doc.SampleRate)
	assert.Equal(t, 64, doc.BufferSize)
	assert.Equal(t, "mono", doc.Layout)
	assert.Len(t, doc.Blocks, 3)
	assert.Len(t, doc.Connect, 2)
}

func TestBuildConstructsRunnableGraph(t *testing.T) {
	doc, err := graphconfig.Parse(strings.NewReader(validDoc))
	require.NoError(t, err)

	g, err := graphconfig.Build(doc)
	require.NoError(t, err)
	g.Prepare()

	out := [][]float32{make([]float32, 64)}
	g.ProcessBuffers(out) // must not panic
}

func TestBuildRejectsUndefinedBlockReference(t *testing.T) {
	const doc = `
layout: mono
blocks:
  - id: osc
    kind: oscillator
connect:
  - from: osc
    to: nonexistent
`
	d, err := graphconfig.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	_, err = graphconfig.Build(d)
	assert.Error(t, err)
}

func TestBuildRejectsUnsupportedKind(t *testing.T) {
	const doc = `
layout: mono
blocks:
  - id: mixer
    kind: matrix_mixer
`
	d, err := graphconfig.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	_, err = graphconfig.Build(d)
	assert.Error(t, err)
}

func TestLayoutFromNameResolvesKnownLayouts(t *testing.T) {
	layout, err := graphconfig.LayoutFromName("stereo")
	require.NoError(t, err)
	assert.Equal(t, 2, layout.Channels)

	_, err = graphconfig.LayoutFromName("nonsense")
	assert.Error(t, err)
}
