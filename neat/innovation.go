package neat

import (
	"fmt"
	"sort"
	"sync"
)

// ConnectionKey identifies a directed edge by the history numbers of its endpoints.
type ConnectionKey struct {
	Source int
	Target int
}

// Layout names the history numbers of the fixed input and output nodes shared by every
// genome of a population. Both slices are ascending.
type Layout struct {
	Inputs  []int
	Outputs []int
}

// Registry mints node history numbers and connection innovation numbers for a whole run.
// Counters are never reset. All minting goes through the registry's lock, so it is the
// single serialization point if genomes are ever mutated from several goroutines.
type Registry struct {
	mu             sync.Mutex
	nextNode       int
	nextInnovation int
	innovations    map[ConnectionKey]int // First innovation assigned to each (source, target) pair.
}

// NewRegistry creates a registry whose first node and first innovation are both 0.
func NewRegistry() *Registry {
	return &Registry{
		innovations: make(map[ConnectionKey]int),
	}
}

// MintNode returns a fresh history number.
func (r *Registry) MintNode() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextNode
	r.nextNode++
	return id
}

// MintConnection returns the innovation number for the edge source->target.
// The first time a pair is seen anywhere in the run it receives a fresh number;
// later requests for the same pair get that number back.
func (r *Registry) MintConnection(source, target int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ConnectionKey{Source: source, Target: target}
	if innov, ok := r.innovations[key]; ok {
		return innov
	}
	innov := r.nextInnovation
	r.nextInnovation++
	r.innovations[key] = innov
	return innov
}

// MintLayout mints the input and output nodes a population will share.
func (r *Registry) MintLayout(numInputs, numOutputs int) Layout {
	layout := Layout{
		Inputs:  make([]int, numInputs),
		Outputs: make([]int, numOutputs),
	}
	for i := range layout.Inputs {
		layout.Inputs[i] = r.MintNode()
	}
	for i := range layout.Outputs {
		layout.Outputs[i] = r.MintNode()
	}
	return layout
}

// InnovationRecord is one entry of the pair -> innovation table.
type InnovationRecord struct {
	Source     int
	Target     int
	Innovation int
}

// RegistryState is an exported snapshot of a Registry, used by checkpoints.
type RegistryState struct {
	NextNode       int
	NextInnovation int
	Innovations    []InnovationRecord // Sorted by innovation number.
}

// Snapshot captures the registry counters and pair table.
func (r *Registry) Snapshot() RegistryState {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := RegistryState{
		NextNode:       r.nextNode,
		NextInnovation: r.nextInnovation,
		Innovations:    make([]InnovationRecord, 0, len(r.innovations)),
	}
	for key, innov := range r.innovations {
		state.Innovations = append(state.Innovations, InnovationRecord{Source: key.Source, Target: key.Target, Innovation: innov})
	}
	sort.Slice(state.Innovations, func(i, j int) bool {
		return state.Innovations[i].Innovation < state.Innovations[j].Innovation
	})
	return state
}

// RestoreRegistry rebuilds a registry from a snapshot.
func RestoreRegistry(state RegistryState) (*Registry, error) {
	r := &Registry{
		nextNode:       state.NextNode,
		nextInnovation: state.NextInnovation,
		innovations:    make(map[ConnectionKey]int, len(state.Innovations)),
	}
	for _, rec := range state.Innovations {
		if rec.Innovation >= state.NextInnovation {
			return nil, fmt.Errorf("registry state: innovation %d is not below next innovation %d", rec.Innovation, state.NextInnovation)
		}
		key := ConnectionKey{Source: rec.Source, Target: rec.Target}
		if _, dup := r.innovations[key]; dup {
			return nil, fmt.Errorf("registry state: pair %d->%d recorded twice", rec.Source, rec.Target)
		}
		r.innovations[key] = rec.Innovation
	}
	return r, nil
}

// observe advances the counters past identities found in a loaded genome so that
// later mints cannot collide with them. A gene whose pair is already known under
// another innovation, or whose innovation already names another pair, is rejected
// before any state changes.
func (r *Registry) observe(nodes []NodeGene, conns []ConnectionGene) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pairOf := make(map[int]ConnectionKey, len(r.innovations))
	for key, innov := range r.innovations {
		pairOf[innov] = key
	}
	for _, c := range conns {
		key := c.Key()
		if innov, ok := r.innovations[key]; ok && innov != c.Innovation {
			return fmt.Errorf("%w: connection %d->%d carries innovation %d, run assigned %d",
				ErrCorruptGenome, c.Source, c.Target, c.Innovation, innov)
		}
		if other, ok := pairOf[c.Innovation]; ok && other != key {
			return fmt.Errorf("%w: innovation %d names %d->%d here and %d->%d in the run",
				ErrCorruptGenome, c.Innovation, c.Source, c.Target, other.Source, other.Target)
		}
	}

	for _, n := range nodes {
		if n.ID >= r.nextNode {
			r.nextNode = n.ID + 1
		}
	}
	for _, c := range conns {
		if c.Innovation >= r.nextInnovation {
			r.nextInnovation = c.Innovation + 1
		}
		r.innovations[c.Key()] = c.Innovation
	}
	return nil
}
