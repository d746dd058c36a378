package neat

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes one evaluated generation.
type GenerationStats struct {
	RunID           string  `csv:"run_id"`
	Generation      int     `csv:"generation"`
	PopSize         int     `csv:"pop_size"`
	BestFitness     float64 `csv:"best_fitness"`
	MeanFitness     float64 `csv:"mean_fitness"`
	StdevFitness    float64 `csv:"stdev_fitness"`
	MeanNodes       float64 `csv:"mean_nodes"`
	MeanConnections float64 `csv:"mean_connections"`
	MeanDistance    float64 `csv:"mean_distance"` // Compatibility distance to the best genome
}

// Summarize computes fitness and size statistics for a population.
func Summarize(population []*Genome) GenerationStats {
	s := GenerationStats{PopSize: len(population)}
	if len(population) == 0 {
		return s
	}

	best := Best(population)
	fitness := make([]float64, len(population))
	nodes := make([]float64, len(population))
	conns := make([]float64, len(population))
	dist := make([]float64, len(population))
	for i, g := range population {
		fitness[i] = g.Fitness
		nodes[i] = float64(len(g.nodes))
		conns[i] = float64(len(g.conns))
		dist[i] = g.Distance(best)
	}

	s.BestFitness = best.Fitness
	if len(fitness) > 1 {
		s.MeanFitness, s.StdevFitness = stat.MeanStdDev(fitness, nil)
	} else {
		s.MeanFitness = fitness[0]
	}
	s.MeanNodes = stat.Mean(nodes, nil)
	s.MeanConnections = stat.Mean(conns, nil)
	s.MeanDistance = stat.Mean(dist, nil)
	return s
}

// MarshalLogObject implements zapcore.ObjectMarshaler for structured logging.
func (s GenerationStats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if s.RunID != "" {
		enc.AddString("run_id", s.RunID)
	}
	enc.AddInt("generation", s.Generation)
	enc.AddInt("pop_size", s.PopSize)
	enc.AddFloat64("best_fitness", s.BestFitness)
	enc.AddFloat64("mean_fitness", s.MeanFitness)
	enc.AddFloat64("stdev_fitness", s.StdevFitness)
	enc.AddFloat64("mean_nodes", s.MeanNodes)
	enc.AddFloat64("mean_connections", s.MeanConnections)
	enc.AddFloat64("mean_distance", s.MeanDistance)
	return nil
}

// StatsRecorder receives the statistics of each generation.
type StatsRecorder interface {
	Record(stats GenerationStats) error
}

// CSVRecorder appends generation statistics as CSV rows, header first.
type CSVRecorder struct {
	w             io.Writer
	headerWritten bool
}

// NewCSVRecorder creates a recorder writing to w.
func NewCSVRecorder(w io.Writer) *CSVRecorder {
	return &CSVRecorder{w: w}
}

// Record writes one row.
func (r *CSVRecorder) Record(stats GenerationStats) error {
	records := []GenerationStats{stats}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing generation stats: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
		return fmt.Errorf("writing generation stats: %w", err)
	}
	return nil
}
