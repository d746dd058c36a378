package neat

import (
	"fmt"
	"math"
	"math/rand"
)

// NodeKind tags a node gene as input, output or hidden.
type NodeKind int

const (
	InputNode NodeKind = iota
	OutputNode
	HiddenNode
)

// String returns the lower-case kind name used in genome files.
func (k NodeKind) String() string {
	switch k {
	case InputNode:
		return "input"
	case OutputNode:
		return "output"
	case HiddenNode:
		return "hidden"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(s string) (NodeKind, error) {
	switch s {
	case "input":
		return InputNode, nil
	case "output":
		return OutputNode, nil
	case "hidden":
		return HiddenNode, nil
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *NodeKind) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// --------------------------- NodeGene ---------------------------

// NodeGene is a vertex of the genome: its permanent history number and its kind.
type NodeGene struct {
	ID   int      `yaml:"id"`
	Kind NodeKind `yaml:"kind"`
}

// String returns a string representation of the NodeGene.
func (ng NodeGene) String() string {
	return fmt.Sprintf("NodeGene(ID: %d, Kind: %s)", ng.ID, ng.Kind)
}

// Activate applies the node's rule to an incoming value. Input nodes pass raw values,
// output nodes accumulate raw sums, hidden nodes squash through fn.
func (ng NodeGene) Activate(value float64, fn ActivationType) float64 {
	if ng.Kind == HiddenNode {
		return fn(value)
	}
	return value
}

// --------------------------- ConnectionGene ---------------------------

// ConnectionGene is a directed weighted edge between two node history numbers.
type ConnectionGene struct {
	Source     int     `yaml:"source"`
	Target     int     `yaml:"target"`
	Weight     float64 `yaml:"weight"`
	Enabled    bool    `yaml:"enabled"`
	Innovation int     `yaml:"innovation"`
}

// Key returns the (source, target) pair of the gene.
func (cg ConnectionGene) Key() ConnectionKey {
	return ConnectionKey{Source: cg.Source, Target: cg.Target}
}

// String returns a string representation of the ConnectionGene.
func (cg ConnectionGene) String() string {
	return fmt.Sprintf("ConnGene(#%d %d->%d, Weight: %.3f, Enabled: %t)",
		cg.Innovation, cg.Source, cg.Target, cg.Weight, cg.Enabled)
}

// Crossover picks one parent's copy of a matching gene with an unbiased coin flip.
func (cg ConnectionGene) Crossover(other ConnectionGene, rng *rand.Rand) ConnectionGene {
	if rng.Float64() < 0.5 {
		return other
	}
	return cg
}

// Distance is the attribute distance between two matching connection genes.
func (cg ConnectionGene) Distance(other ConnectionGene) float64 {
	d := math.Abs(cg.Weight - other.Weight)
	if cg.Enabled != other.Enabled {
		d += 1.0
	}
	return d
}

// --------------------------- Attribute Helpers ---------------------------

// uniform draws from [-width, width).
func uniform(rng *rand.Rand, width float64) float64 {
	return (rng.Float64()*2 - 1) * width
}
