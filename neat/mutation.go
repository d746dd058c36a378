package neat

import "fmt"

// Mutate applies the three mutation operators, each independently with its own
// probability: per-connection weight perturbation, add-connection and add-node.
func (g *Genome) Mutate() {
	g.mustBeAttached("mutate")
	m := g.config.Mutation

	g.mutateWeights()

	if g.rng.Float64() < m.ConnAddProb {
		g.mutateAddConnection()
	}
	if g.rng.Float64() < m.NodeAddProb {
		g.mutateAddNode()
	}
}

func (g *Genome) mustBeAttached(op string) {
	if g.config == nil || g.reg == nil || g.rng == nil {
		panic(fmt.Sprintf("neat: %s on a genome that is not attached to a run", op))
	}
}

// mutateWeights nudges each weight with the small-step channel and, independently,
// replaces it through the large-jump channel.
func (g *Genome) mutateWeights() {
	m := g.config.Mutation
	for i := range g.conns {
		if g.rng.Float64() < m.WeightPerturbRate {
			g.conns[i].Weight += uniform(g.rng, m.WeightPerturbPower)
		}
		if g.rng.Float64() < m.WeightReplaceRate {
			g.conns[i].Weight = uniform(g.rng, m.WeightReplaceRange)
		}
	}
}

// mutateAddConnection picks a non-output source, then tries the non-input targets in
// random order. A target is skipped when the source already reaches it (HasConnection)
// or when it reaches the source, which would close a cycle. Every target is tried at
// most once, so a saturated genome simply gets no new connection this round.
func (g *Genome) mutateAddConnection() bool {
	sources := make([]int, 0, len(g.nodes))
	targets := make([]int, 0, len(g.nodes))
	for _, n := range g.nodes {
		if n.Kind != OutputNode {
			sources = append(sources, n.ID)
		}
		if n.Kind != InputNode {
			targets = append(targets, n.ID)
		}
	}
	if len(sources) == 0 || len(targets) == 0 {
		return false
	}

	source := sources[g.rng.Intn(len(sources))]
	for _, k := range g.rng.Perm(len(targets)) {
		target := targets[k]
		if g.HasConnection(source, target) || g.HasConnection(target, source) {
			continue
		}
		g.addConnectionGene(ConnectionGene{
			Source:     source,
			Target:     target,
			Weight:     uniform(g.rng, g.config.Mutation.WeightInitRange),
			Enabled:    true,
			Innovation: g.reg.MintConnection(source, target),
		})
		return true
	}
	return false
}

// mutateAddNode splits an enabled connection. The source is drawn from the non-output
// nodes that have at least one enabled outgoing connection, the connection from that
// node's enabled outgoing connections. The split connection is disabled, not removed;
// the new hidden node gets an incoming edge of weight 1.0 and an outgoing edge carrying
// the old weight.
func (g *Genome) mutateAddNode() bool {
	outgoing := make(map[int][]int) // source history -> indices into g.conns
	candidates := make([]int, 0)
	for i, c := range g.conns {
		if !c.Enabled {
			continue
		}
		if n, ok := g.Node(c.Source); !ok || n.Kind == OutputNode {
			continue
		}
		if _, seen := outgoing[c.Source]; !seen {
			candidates = append(candidates, c.Source)
		}
		outgoing[c.Source] = append(outgoing[c.Source], i)
	}
	if len(candidates) == 0 {
		return false
	}

	source := candidates[g.rng.Intn(len(candidates))]
	edges := outgoing[source]
	split := g.conns[edges[g.rng.Intn(len(edges))]]

	g.conns[g.connIndex(split.Innovation)].Enabled = false
	g.net = nil

	hidden := g.reg.MintNode()
	g.addNodeGene(NodeGene{ID: hidden, Kind: HiddenNode})
	g.addConnectionGene(ConnectionGene{
		Source:     split.Source,
		Target:     hidden,
		Weight:     1.0,
		Enabled:    true,
		Innovation: g.reg.MintConnection(split.Source, hidden),
	})
	g.addConnectionGene(ConnectionGene{
		Source:     hidden,
		Target:     split.Target,
		Weight:     split.Weight,
		Enabled:    true,
		Innovation: g.reg.MintConnection(hidden, split.Target),
	})
	return true
}
