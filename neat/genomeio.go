package neat

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrCorruptGenome is wrapped by every error describing a structurally invalid genome.
var ErrCorruptGenome = errors.New("corrupt genome")

// GenomeRecord is the interchange form of a genome: node genes ascending by history
// number, then connection genes ascending by innovation number. Crossover after a
// reload depends on that order being kept.
type GenomeRecord struct {
	Fitness     float64          `yaml:"fitness"`
	Nodes       []NodeGene       `yaml:"nodes"`
	Connections []ConnectionGene `yaml:"connections"`
}

// Record returns the canonical record of the genome.
func (g *Genome) Record() GenomeRecord {
	return GenomeRecord{
		Fitness:     g.Fitness,
		Nodes:       g.NodeGenes(),
		Connections: g.ConnectionGenes(),
	}
}

// FromRecord rebuilds a genome from a record. The result is not attached to a run.
func FromRecord(rec GenomeRecord) (*Genome, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &Genome{
		Fitness: rec.Fitness,
		nodes:   append([]NodeGene(nil), rec.Nodes...),
		conns:   append([]ConnectionGene(nil), rec.Connections...),
	}, nil
}

// Validate checks canonical ordering, endpoint resolution and acyclicity.
func (rec GenomeRecord) Validate() error {
	index := make(map[int]int, len(rec.Nodes))
	for i, n := range rec.Nodes {
		if i > 0 && rec.Nodes[i-1].ID >= n.ID {
			return fmt.Errorf("%w: node %d out of order after %d", ErrCorruptGenome, n.ID, rec.Nodes[i-1].ID)
		}
		if n.Kind < InputNode || n.Kind > HiddenNode {
			return fmt.Errorf("%w: node %d has invalid kind %d", ErrCorruptGenome, n.ID, int(n.Kind))
		}
		index[n.ID] = i
	}

	inDegree := make([]int, len(rec.Nodes))
	adj := make([][]int, len(rec.Nodes))
	pairs := make(map[ConnectionKey]bool, len(rec.Connections))
	for i, c := range rec.Connections {
		if i > 0 && rec.Connections[i-1].Innovation >= c.Innovation {
			return fmt.Errorf("%w: connection #%d out of order after #%d", ErrCorruptGenome, c.Innovation, rec.Connections[i-1].Innovation)
		}
		src, ok := index[c.Source]
		if !ok {
			return fmt.Errorf("%w: connection #%d source %d not found", ErrCorruptGenome, c.Innovation, c.Source)
		}
		dst, ok := index[c.Target]
		if !ok {
			return fmt.Errorf("%w: connection #%d target %d not found", ErrCorruptGenome, c.Innovation, c.Target)
		}
		if pairs[c.Key()] {
			return fmt.Errorf("%w: connection %d->%d appears twice", ErrCorruptGenome, c.Source, c.Target)
		}
		pairs[c.Key()] = true
		adj[src] = append(adj[src], dst)
		inDegree[dst]++
	}

	queue := make([]int, 0, len(rec.Nodes))
	for i := range rec.Nodes {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	visited := 0
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		visited++
		for _, v := range adj[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	if visited != len(rec.Nodes) {
		return fmt.Errorf("%w: connections form a cycle", ErrCorruptGenome)
	}
	return nil
}

// WriteGenome encodes a genome as YAML in canonical order.
func WriteGenome(w io.Writer, g *Genome) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(g.Record()); err != nil {
		return fmt.Errorf("failed to encode genome: %w", err)
	}
	return enc.Close()
}

// ReadGenome decodes a YAML genome. The result is not attached to a run.
func ReadGenome(r io.Reader) (*Genome, error) {
	var rec GenomeRecord
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode genome: %w", err)
	}
	return FromRecord(rec)
}
