package neat

import (
	"math/rand"
	"sort"
)

func newTestConfig(numInputs, numOutputs int) *Config {
	cfg := DefaultConfig()
	cfg.Genome.NumInputs = numInputs
	cfg.Genome.NumOutputs = numOutputs
	return cfg
}

// withoutMutation zeroes every mutation probability so Crossover returns a pure
// recombination.
func withoutMutation(cfg *Config) *Config {
	cfg.Mutation = MutationConfig{WeightInitRange: 1.0}
	return cfg
}

// testRun bundles the per-run bindings a genome needs.
type testRun struct {
	cfg    *Config
	reg    *Registry
	rng    *rand.Rand
	layout Layout
}

func newTestRun(cfg *Config, seed int64) *testRun {
	reg := NewRegistry()
	return &testRun{
		cfg:    cfg,
		reg:    reg,
		rng:    rand.New(rand.NewSource(seed)),
		layout: reg.MintLayout(cfg.Genome.NumInputs, cfg.Genome.NumOutputs),
	}
}

func (r *testRun) genome() *Genome {
	return NewGenome(r.layout, r.cfg, r.reg, r.rng)
}

func (r *testRun) hidden(g *Genome) int {
	id := r.reg.MintNode()
	g.addNodeGene(NodeGene{ID: id, Kind: HiddenNode})
	return id
}

func (r *testRun) connect(g *Genome, source, target int, weight float64) ConnectionGene {
	c := ConnectionGene{
		Source:     source,
		Target:     target,
		Weight:     weight,
		Enabled:    true,
		Innovation: r.reg.MintConnection(source, target),
	}
	g.addConnectionGene(c)
	return c
}

func nodeIDs(g *Genome) []int {
	ids := make([]int, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

func innovations(g *Genome) []int {
	ids := make([]int, len(g.conns))
	for i, c := range g.conns {
		ids[i] = c.Innovation
	}
	return ids
}

func hasInnovation(g *Genome, innovation int) bool {
	return g.connIndex(innovation) >= 0
}

func isCanonical(g *Genome) bool {
	return sort.SliceIsSorted(g.nodes, func(i, j int) bool { return g.nodes[i].ID < g.nodes[j].ID }) &&
		sort.SliceIsSorted(g.conns, func(i, j int) bool { return g.conns[i].Innovation < g.conns[j].Innovation })
}

// evolve seeds a population and runs generations with random fitness, returning every
// genome that existed along the way.
func evolve(cfg *Config, seed int64, generations int) ([]*Genome, *Controller) {
	rng := rand.New(rand.NewSource(seed))
	ctrl, err := NewController(cfg, NewRegistry(), rng)
	if err != nil {
		panic(err)
	}
	population := ctrl.Seed()
	var seen []*Genome
	for i := 0; i < generations; i++ {
		for _, g := range population {
			g.Fitness = rng.Float64() * 10
		}
		population, _ = ctrl.RunGeneration(population)
		seen = append(seen, population...)
	}
	return seen, ctrl
}
