package neat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenomeYAMLRoundTrip(t *testing.T) {
	cfg := newTestConfig(2, 1)
	cfg.Mutation.ConnAddProb = 1
	cfg.Mutation.NodeAddProb = 0.5
	run := newTestRun(cfg, 6)
	g := run.genome()
	for i := 0; i < 12; i++ {
		g.Mutate()
	}
	g.Fitness = 2.5

	var buf bytes.Buffer
	require.NoError(t, WriteGenome(&buf, g))
	assert.Contains(t, buf.String(), "kind: input")
	assert.Contains(t, buf.String(), "kind: output")

	loaded, err := ReadGenome(&buf)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(g.Record(), loaded.Record()))

	inputs := []float64{0.4, -1.1}
	assert.Equal(t, g.Evaluate(inputs), loaded.Evaluate(inputs))
}

func TestLoadedGenomeJoinsRun(t *testing.T) {
	src := `
fitness: 1
nodes:
  - {id: 0, kind: input}
  - {id: 1, kind: output}
  - {id: 7, kind: hidden}
connections:
  - {source: 0, target: 7, weight: 1, enabled: true, innovation: 4}
  - {source: 7, target: 1, weight: 0.5, enabled: true, innovation: 9}
`
	g, err := ReadGenome(strings.NewReader(src))
	require.NoError(t, err)
	assert.Panics(t, g.Mutate, "not attached yet")

	run := newTestRun(newTestConfig(1, 1), 1)
	require.NoError(t, g.Attach(run.cfg, run.reg, run.rng))

	assert.Equal(t, 8, run.reg.MintNode(), "registry moves past loaded history numbers")
	assert.Equal(t, 10, run.reg.MintConnection(1, 0))
	assert.Equal(t, 9, run.reg.MintConnection(7, 1), "loaded pairs keep their innovation")
	assert.NotPanics(t, g.Mutate)
}

func TestAttachRejectsConflictingInnovations(t *testing.T) {
	tests := []struct {
		name string
		rec  GenomeRecord
	}{
		{
			name: "known edge under another innovation",
			rec: GenomeRecord{
				Nodes:       []NodeGene{{ID: 0, Kind: InputNode}, {ID: 1, Kind: OutputNode}},
				Connections: []ConnectionGene{{Source: 0, Target: 1, Weight: 2, Enabled: true, Innovation: 7}},
			},
		},
		{
			name: "known innovation on another edge",
			rec: GenomeRecord{
				Nodes:       []NodeGene{{ID: 0, Kind: InputNode}, {ID: 1, Kind: OutputNode}, {ID: 5, Kind: HiddenNode}},
				Connections: []ConnectionGene{{Source: 0, Target: 5, Weight: 2, Enabled: true, Innovation: 0}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := newTestRun(newTestConfig(1, 1), 1)
			native := run.genome()
			run.connect(native, 0, 1, 0.5)
			before := run.reg.Snapshot()

			loaded, err := FromRecord(tt.rec)
			require.NoError(t, err)
			err = loaded.Attach(run.cfg, run.reg, run.rng)
			assert.ErrorIs(t, err, ErrCorruptGenome)

			assert.Empty(t, cmp.Diff(before, run.reg.Snapshot()), "registry changed by a rejected genome")
			assert.Panics(t, loaded.Mutate, "rejected genome must stay unattached")
		})
	}
}

func TestAttachedGenomeCrossesWithoutDuplicateEdges(t *testing.T) {
	run := newTestRun(withoutMutation(newTestConfig(1, 1)), 1)
	native := run.genome()
	run.connect(native, 0, 1, 0.5)

	loaded, err := FromRecord(GenomeRecord{
		Nodes:       []NodeGene{{ID: 0, Kind: InputNode}, {ID: 1, Kind: OutputNode}},
		Connections: []ConnectionGene{{Source: 0, Target: 1, Weight: 2, Enabled: true, Innovation: 0}},
	})
	require.NoError(t, err)
	require.NoError(t, loaded.Attach(run.cfg, run.reg, run.rng))

	native.Fitness, loaded.Fitness = 1, 1
	child := native.Crossover(loaded)
	require.Len(t, child.conns, 1)
	out := child.Evaluate([]float64{1})
	assert.Contains(t, []float64{0.5, 2}, out[0])
}

func TestGenomeRecordValidate(t *testing.T) {
	nodes := []NodeGene{{ID: 0, Kind: InputNode}, {ID: 1, Kind: OutputNode}, {ID: 2, Kind: HiddenNode}}
	tests := []struct {
		name string
		rec  GenomeRecord
	}{
		{
			name: "nodes out of order",
			rec:  GenomeRecord{Nodes: []NodeGene{{ID: 1, Kind: OutputNode}, {ID: 0, Kind: InputNode}}},
		},
		{
			name: "invalid kind",
			rec:  GenomeRecord{Nodes: []NodeGene{{ID: 0, Kind: NodeKind(9)}}},
		},
		{
			name: "connections out of order",
			rec: GenomeRecord{Nodes: nodes, Connections: []ConnectionGene{
				{Source: 0, Target: 2, Innovation: 3},
				{Source: 2, Target: 1, Innovation: 1},
			}},
		},
		{
			name: "dangling endpoint",
			rec: GenomeRecord{Nodes: nodes, Connections: []ConnectionGene{
				{Source: 0, Target: 5, Innovation: 0},
			}},
		},
		{
			name: "duplicate pair",
			rec: GenomeRecord{Nodes: nodes, Connections: []ConnectionGene{
				{Source: 0, Target: 1, Innovation: 0},
				{Source: 0, Target: 1, Innovation: 1},
			}},
		},
		{
			name: "cycle through disabled gene",
			rec: GenomeRecord{Nodes: nodes, Connections: []ConnectionGene{
				{Source: 0, Target: 2, Enabled: true, Innovation: 0},
				{Source: 2, Target: 2, Enabled: false, Innovation: 1},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			assert.ErrorIs(t, err, ErrCorruptGenome)

			_, err = FromRecord(tt.rec)
			assert.ErrorIs(t, err, ErrCorruptGenome)
		})
	}
}

func TestReadGenomeRejectsUnknownKind(t *testing.T) {
	_, err := ReadGenome(strings.NewReader("nodes:\n  - {id: 0, kind: bias}\n"))
	assert.Error(t, err)
}
