package neat

import (
	"fmt"
	"math/rand"
	"slices"
	"sort"
)

// Genome represents an individual: node genes, connection genes and an externally
// assigned fitness.
//
// Node genes are kept ascending by history number and connection genes ascending by
// innovation number; both slices double as the arena the network is evaluated on.
// Connections refer to nodes by history number, so a genome owns no pointers into
// another genome and clones are plain slice copies.
type Genome struct {
	Fitness float64 // Written by the environment, read by crossover and selection.

	nodes []NodeGene
	conns []ConnectionGene

	config *Config
	reg    *Registry
	rng    *rand.Rand

	net *network // Compiled evaluation plan; nil after any structural change.
}

// NewGenome creates a minimal genome: one input node per layout input, one output node
// per layout output, and no connections.
func NewGenome(layout Layout, config *Config, reg *Registry, rng *rand.Rand) *Genome {
	g := &Genome{
		nodes:  make([]NodeGene, 0, len(layout.Inputs)+len(layout.Outputs)),
		config: config,
		reg:    reg,
		rng:    rng,
	}
	for _, id := range layout.Inputs {
		g.addNodeGene(NodeGene{ID: id, Kind: InputNode})
	}
	for _, id := range layout.Outputs {
		g.addNodeGene(NodeGene{ID: id, Kind: OutputNode})
	}
	return g
}

// Attach binds a genome to the run's config, registry and random source. Genomes
// decoded from a checkpoint or a genome file must be attached before they can be
// crossed over or mutated. A genome whose innovation numbers disagree with the
// registry is rejected with an error wrapping ErrCorruptGenome and left unattached.
func (g *Genome) Attach(config *Config, reg *Registry, rng *rand.Rand) error {
	if reg != nil {
		if err := reg.observe(g.nodes, g.conns); err != nil {
			return err
		}
	}
	g.config = config
	g.reg = reg
	g.rng = rng
	return nil
}

// checkLayout verifies that the genome's input and output nodes are exactly the
// layout's, in order.
func (g *Genome) checkLayout(layout Layout) error {
	var inputs, outputs []int
	for _, n := range g.nodes {
		switch n.Kind {
		case InputNode:
			inputs = append(inputs, n.ID)
		case OutputNode:
			outputs = append(outputs, n.ID)
		}
	}
	if !slices.Equal(inputs, layout.Inputs) || !slices.Equal(outputs, layout.Outputs) {
		return fmt.Errorf("%w: inputs %v outputs %v do not match layout inputs %v outputs %v",
			ErrCorruptGenome, inputs, outputs, layout.Inputs, layout.Outputs)
	}
	return nil
}

// newChild returns an empty genome sharing g's run bindings.
func (g *Genome) newChild() *Genome {
	return &Genome{config: g.config, reg: g.reg, rng: g.rng}
}

// Clone returns an independent copy of the genome, fitness included.
func (g *Genome) Clone() *Genome {
	c := g.newChild()
	c.Fitness = g.Fitness
	c.nodes = append([]NodeGene(nil), g.nodes...)
	c.conns = append([]ConnectionGene(nil), g.conns...)
	return c
}

// String returns a short summary of the genome.
func (g *Genome) String() string {
	return fmt.Sprintf("Genome(Nodes: %d, Connections: %d, Fitness: %.4f)", len(g.nodes), len(g.conns), g.Fitness)
}

// NodeGenes returns a copy of the node genes, ascending by history number.
func (g *Genome) NodeGenes() []NodeGene {
	return append([]NodeGene(nil), g.nodes...)
}

// ConnectionGenes returns a copy of the connection genes, ascending by innovation number.
func (g *Genome) ConnectionGenes() []ConnectionGene {
	return append([]ConnectionGene(nil), g.conns...)
}

// NumInputs is the number of values Evaluate expects.
func (g *Genome) NumInputs() int {
	return g.countKind(InputNode)
}

// NumOutputs is the number of values Evaluate returns.
func (g *Genome) NumOutputs() int {
	return g.countKind(OutputNode)
}

func (g *Genome) countKind(kind NodeKind) int {
	n := 0
	for _, node := range g.nodes {
		if node.Kind == kind {
			n++
		}
	}
	return n
}

// Node looks up a node gene by history number.
func (g *Genome) Node(id int) (NodeGene, bool) {
	i := g.nodeIndex(id)
	if i < 0 {
		return NodeGene{}, false
	}
	return g.nodes[i], true
}

// nodeIndex returns the arena index of node id, or -1.
func (g *Genome) nodeIndex(id int) int {
	i := sort.Search(len(g.nodes), func(i int) bool { return g.nodes[i].ID >= id })
	if i < len(g.nodes) && g.nodes[i].ID == id {
		return i
	}
	return -1
}

// connIndex returns the index of the gene with the given innovation number, or -1.
func (g *Genome) connIndex(innovation int) int {
	i := sort.Search(len(g.conns), func(i int) bool { return g.conns[i].Innovation >= innovation })
	if i < len(g.conns) && g.conns[i].Innovation == innovation {
		return i
	}
	return -1
}

// addNodeGene inserts a node keeping history order. A repeated history number is a
// corrupted genome.
func (g *Genome) addNodeGene(n NodeGene) {
	i := sort.Search(len(g.nodes), func(i int) bool { return g.nodes[i].ID >= n.ID })
	if i < len(g.nodes) && g.nodes[i].ID == n.ID {
		panic(fmt.Sprintf("neat: corrupted genome: duplicate node history number %d", n.ID))
	}
	g.nodes = append(g.nodes, NodeGene{})
	copy(g.nodes[i+1:], g.nodes[i:])
	g.nodes[i] = n
	g.net = nil
}

// addConnectionGene inserts a connection keeping innovation order. Both endpoints must
// already be present.
func (g *Genome) addConnectionGene(c ConnectionGene) {
	if g.nodeIndex(c.Source) < 0 || g.nodeIndex(c.Target) < 0 {
		panic(fmt.Sprintf("neat: corrupted genome: connection #%d references missing node (%d->%d)", c.Innovation, c.Source, c.Target))
	}
	i := sort.Search(len(g.conns), func(i int) bool { return g.conns[i].Innovation >= c.Innovation })
	if i < len(g.conns) && g.conns[i].Innovation == c.Innovation {
		panic(fmt.Sprintf("neat: corrupted genome: duplicate innovation number %d", c.Innovation))
	}
	g.conns = append(g.conns, ConnectionGene{})
	copy(g.conns[i+1:], g.conns[i:])
	g.conns[i] = c
	g.net = nil
}

// HasConnection reports whether target is reachable from source by following
// connection genes, enabled or not. This is a transitive walk, not a direct-edge test;
// a node always reaches itself.
func (g *Genome) HasConnection(source, target int) bool {
	if source == target {
		return true
	}
	visited := map[int]bool{source: true}
	queue := []int{source}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, c := range g.conns {
			if c.Source != current || visited[c.Target] {
				continue
			}
			if c.Target == target {
				return true
			}
			visited[c.Target] = true
			queue = append(queue, c.Target)
		}
	}
	return false
}

// Evaluate feeds inputs through the network and returns one value per output node,
// in ascending history order. len(inputs) must equal NumInputs; anything else is a
// programming error and panics.
func (g *Genome) Evaluate(inputs []float64) []float64 {
	if g.net == nil {
		g.net = compileNetwork(g.nodes, g.conns)
	}
	if len(inputs) != len(g.net.inputs) {
		panic(fmt.Sprintf("neat: evaluate: got %d inputs, genome has %d input nodes", len(inputs), len(g.net.inputs)))
	}
	var fn ActivationType = Atan
	if g.config != nil {
		fn = g.config.Genome.activation()
	}
	return g.net.activate(g.nodes, g.conns, fn, inputs)
}

// Distance calculates the compatibility distance between this genome and another:
// the share of non-matching connection genes plus the mean attribute distance of
// matching ones.
func (g *Genome) Distance(other *Genome) float64 {
	nonMatching := 0
	matching := 0
	weightDiffSum := 0.0

	i, j := 0, 0
	for i < len(g.conns) || j < len(other.conns) {
		switch {
		case j >= len(other.conns) || (i < len(g.conns) && g.conns[i].Innovation < other.conns[j].Innovation):
			nonMatching++
			i++
		case i >= len(g.conns) || other.conns[j].Innovation < g.conns[i].Innovation:
			nonMatching++
			j++
		default:
			weightDiffSum += g.conns[i].Distance(other.conns[j])
			matching++
			i++
			j++
		}
	}

	n := float64(max(len(g.conns), len(other.conns)))
	if n < 1.0 {
		n = 1.0
	}
	d := float64(nonMatching) / n
	if matching > 0 {
		d += weightDiffSum / float64(matching)
	}
	return d
}
