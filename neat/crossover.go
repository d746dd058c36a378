package neat

// Crossover produces a child by aligning g's genes with other's on history and
// innovation numbers. Disjoint and excess genes come only from the parent whose fitness
// is greater than or equal to the other's, so on a tie both sides contribute. The child
// is mutated once before it is returned.
func (g *Genome) Crossover(other *Genome) *Genome {
	child := g.recombine(other)
	child.Mutate()
	return child
}

// recombine is Crossover without the trailing mutation.
func (g *Genome) recombine(other *Genome) *Genome {
	keepLeft := g.Fitness >= other.Fitness
	keepRight := other.Fitness >= g.Fitness
	tie := keepLeft && keepRight

	nodes := align(g.nodes, other.nodes, nodeID, keepLeft, keepRight,
		func(a, _ NodeGene) NodeGene { return a })
	conns := align(g.conns, other.conns, innovationNumber, keepLeft, keepRight,
		func(a, b ConnectionGene) ConnectionGene { return a.Crossover(b, g.rng) })

	child := g.newChild()
	for _, n := range nodes {
		child.addNodeGene(n)
	}
	for _, c := range conns {
		// Only a tie can union edges from both parents; drop any that would close a cycle.
		if tie && child.HasConnection(c.Target, c.Source) {
			continue
		}
		child.addConnectionGene(c)
	}
	return child
}

func nodeID(n NodeGene) int { return n.ID }

func innovationNumber(c ConnectionGene) int { return c.Innovation }

// align merges two gene lists sorted ascending by key. Matching genes are resolved by
// match; genes present on one side only (disjoint inside the other side's range,
// excess beyond it) are kept when that side is allowed to contribute.
func align[T any](left, right []T, key func(T) int, keepLeft, keepRight bool, match func(a, b T) T) []T {
	out := make([]T, 0, max(len(left), len(right)))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		lk, rk := key(left[i]), key(right[j])
		switch {
		case lk == rk:
			out = append(out, match(left[i], right[j]))
			i++
			j++
		case lk < rk:
			if keepLeft {
				out = append(out, left[i])
			}
			i++
		default:
			if keepRight {
				out = append(out, right[j])
			}
			j++
		}
	}
	if keepLeft {
		out = append(out, left[i:]...)
	}
	if keepRight {
		out = append(out, right[j:]...)
	}
	return out
}
