package neat

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Controller runs generation turnover over a population whose fitness has been
// assigned by the environment. It owns the run's registry, random source and shared
// input/output layout.
type Controller struct {
	Config     *Config
	Registry   *Registry
	Layout     Layout
	Generation int
	RunID      uuid.UUID

	Logger   *zap.Logger   // Never nil after NewController; replace to enable logging.
	Recorder StatsRecorder // Optional per-generation statistics sink.

	rng *rand.Rand
}

// NewController validates the config, mints the input/output layout and returns a
// controller at generation 0.
func NewController(config *Config, reg *Registry, rng *rand.Rand) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if reg == nil || rng == nil {
		return nil, fmt.Errorf("controller requires a registry and a random source")
	}
	return &Controller{
		Config:   config,
		Registry: reg,
		Layout:   reg.MintLayout(config.Genome.NumInputs, config.Genome.NumOutputs),
		RunID:    uuid.New(),
		Logger:   zap.NewNop(),
		rng:      rng,
	}, nil
}

// Rand exposes the controller's random source so environments can share it.
func (c *Controller) Rand() *rand.Rand {
	return c.rng
}

// Seed creates the initial population of minimal genomes.
func (c *Controller) Seed() []*Genome {
	population := make([]*Genome, c.Config.Generation.PopSize)
	for i := range population {
		population[i] = NewGenome(c.Layout, c.Config, c.Registry, c.rng)
	}
	return population
}

// RunGeneration turns an evaluated population into the next generation, in place:
//
//  1. sort by fitness, best first;
//  2. replace the bottom N/4 with copies of genomes drawn from the top N/6;
//  3. replace genome i with genome[i].Crossover(genome[i+1]), walking i upward, so the
//     right operand is always read before it is overwritten;
//  4. mutate every genome except the best, which is carried over untouched.
//
// The walk in step 3 starts at i=1, so the best genome is never a crossover parent: it
// survives unchanged at index 0 and passes its genes on only through the reseeded
// clones of step 2. Genome 1 is crossed with genome 2, and so on down to genome N-2
// with genome N-1; genome N-1 is only mutated.
func (c *Controller) RunGeneration(population []*Genome) ([]*Genome, int) {
	n := len(population)
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].Fitness > population[j].Fitness
	})

	stats := Summarize(population)
	stats.RunID = c.RunID.String()
	stats.Generation = c.Generation

	c.reseed(population)
	for i := 1; i < n-1; i++ {
		population[i] = population[i].Crossover(population[i+1])
	}
	for i := 1; i < n; i++ {
		population[i].Mutate()
	}

	c.Generation++

	c.Logger.Info("Generation complete", zap.Object("stats", stats))
	if c.Recorder != nil {
		if err := c.Recorder.Record(stats); err != nil {
			c.Logger.Warn("Failed to record generation statistics", zap.Int("generation", stats.Generation), zap.Error(err))
		}
	}
	return population, c.Generation
}

// reseed overwrites the bottom N/ReseedDivisor genomes of a sorted population with
// clones drawn uniformly from the top N/ParentDivisor (at least the best genome).
func (c *Controller) reseed(population []*Genome) {
	n := len(population)
	cull := n / c.Config.Generation.ReseedDivisor
	pool := max(1, n/c.Config.Generation.ParentDivisor)
	for i := n - cull; i < n; i++ {
		src := c.rng.Intn(pool)
		c.Logger.Debug("Reseeding genome", zap.Int("index", i), zap.Int("from", src))
		population[i] = population[src].Clone()
	}
}

// Best returns the genome with the highest fitness, or nil for an empty population.
func Best(population []*Genome) *Genome {
	var best *Genome
	for _, g := range population {
		if best == nil || g.Fitness > best.Fitness {
			best = g
		}
	}
	return best
}
