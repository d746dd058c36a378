// Package neat evolves neural-network controllers with a NEAT-style genetic algorithm:
// genomes encode both topology and weights, and both evolve together through structural
// and weight mutation plus crossover aligned on historical markings.
//
// The library lives in the neat subpackage. It owns the innovation registry, genomes,
// the three mutation operators and the generation controller. The environment (whatever
// simulates agents and scores them) supplies inputs each tick and writes a fitness onto
// each genome.
//
// Basic usage:
//
//	// Load configuration
//	config, err := neat.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// One registry and one random source for the whole run
//	ctrl, err := neat.NewController(config, neat.NewRegistry(), rand.New(rand.NewSource(1)))
//	if err != nil {
//		log.Fatalf("Error creating controller: %v", err)
//	}
//	population := ctrl.Seed()
//
//	for i := 0; i < 100; i++ {
//		for _, g := range population {
//			outputs := g.Evaluate(sense())  // once per tick
//			act(outputs)
//			g.Fitness = score()
//		}
//		population, _ = ctrl.RunGeneration(population)
//	}
package neat
