package neat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"math/rand"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// checkpointData holds what is needed to resume a run. The config is not saved; it is
// supplied again on load.
type checkpointData struct {
	RunID      string
	Generation int
	Layout     Layout
	Registry   RegistryState
	Population []GenomeRecord
}

// SaveCheckpoint writes the controller state and a population to a gzip'd gob file.
func (c *Controller) SaveCheckpoint(filePath string, population []*Genome) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)

	data := checkpointData{
		RunID:      c.RunID.String(),
		Generation: c.Generation,
		Layout:     c.Layout,
		Registry:   c.Registry.Snapshot(),
		Population: make([]GenomeRecord, len(population)),
	}
	for i, g := range population {
		data.Population[i] = g.Record()
	}

	if err := gob.NewEncoder(gzWriter).Encode(data); err != nil {
		return fmt.Errorf("failed to encode population data: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint: %w", err)
	}

	c.Logger.Info("Checkpoint saved", zap.String("path", filePath), zap.Int("generation", c.Generation))
	return nil
}

// LoadCheckpoint restores a controller and its population. The config must be the one
// the run was started with; rng becomes the random source of the resumed run.
func LoadCheckpoint(checkpointPath string, config *Config, rng *rand.Rand) (*Controller, []*Genome, error) {
	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	file, err := os.Open(checkpointPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open checkpoint file '%s': %w", checkpointPath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	var data checkpointData
	if err := gob.NewDecoder(gzReader).Decode(&data); err != nil {
		return nil, nil, fmt.Errorf("failed to decode population data from checkpoint: %w", err)
	}

	reg, err := RestoreRegistry(data.Registry)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore registry: %w", err)
	}
	if len(data.Layout.Inputs) != config.Genome.NumInputs || len(data.Layout.Outputs) != config.Genome.NumOutputs {
		return nil, nil, fmt.Errorf("checkpoint layout %d/%d does not match config %d/%d",
			len(data.Layout.Inputs), len(data.Layout.Outputs), config.Genome.NumInputs, config.Genome.NumOutputs)
	}
	runID, err := uuid.Parse(data.RunID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid run id in checkpoint: %w", err)
	}

	population := make([]*Genome, len(data.Population))
	for i, rec := range data.Population {
		g, err := FromRecord(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("genome %d: %w", i, err)
		}
		if err := g.checkLayout(data.Layout); err != nil {
			return nil, nil, fmt.Errorf("genome %d: %w", i, err)
		}
		if err := g.Attach(config, reg, rng); err != nil {
			return nil, nil, fmt.Errorf("genome %d: %w", i, err)
		}
		population[i] = g
	}

	c := &Controller{
		Config:     config,
		Registry:   reg,
		Layout:     data.Layout,
		Generation: data.Generation,
		RunID:      runID,
		Logger:     zap.NewNop(),
		rng:        rng,
	}
	return c, population, nil
}
