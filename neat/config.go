package neat

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Config stores the configuration parameters for a run.
type Config struct {
	Genome     GenomeConfig
	Mutation   MutationConfig
	Generation GenerationConfig
}

// GenomeConfig holds parameters specific to the structure and evaluation of genomes.
type GenomeConfig struct {
	NumInputs  int    `ini:"num_inputs"`
	NumOutputs int    `ini:"num_outputs"`
	Activation string `ini:"activation"` // Hidden-node activation, e.g. "atan"

	activationFn ActivationType
}

// MutationConfig holds the probabilities and ranges of the three mutation operators.
type MutationConfig struct {
	WeightPerturbRate  float64 `ini:"weight_perturb_rate"`  // Per connection, small nudge
	WeightPerturbPower float64 `ini:"weight_perturb_power"` // Nudge drawn from [-power, power)
	WeightReplaceRate  float64 `ini:"weight_replace_rate"`  // Per connection, large jump
	WeightReplaceRange float64 `ini:"weight_replace_range"` // Jump drawn from [-range, range)
	WeightInitRange    float64 `ini:"weight_init_range"`    // New connections draw from [-range, range)
	ConnAddProb        float64 `ini:"conn_add_prob"`
	NodeAddProb        float64 `ini:"node_add_prob"`
}

// GenerationConfig holds parameters of the generation turnover.
type GenerationConfig struct {
	PopSize       int `ini:"pop_size"`
	ReseedDivisor int `ini:"reseed_divisor"` // Bottom N/ReseedDivisor genomes are reseeded
	ParentDivisor int `ini:"parent_divisor"` // ... from the top N/ParentDivisor genomes
}

// DefaultConfig returns the stock parameters.
func DefaultConfig() *Config {
	cfg := &Config{
		Genome: GenomeConfig{
			NumInputs:  1,
			NumOutputs: 1,
			Activation: DefaultActivation,
		},
		Mutation: MutationConfig{
			WeightPerturbRate:  0.25,
			WeightPerturbPower: 0.2,
			WeightReplaceRate:  0.05,
			WeightReplaceRange: 1.0,
			WeightInitRange:    1.0,
			ConnAddProb:        0.05,
			NodeAddProb:        0.05,
		},
		Generation: GenerationConfig{
			PopSize:       20,
			ReseedDivisor: 4,
			ParentDivisor: 6,
		},
	}
	cfg.Genome.activationFn = Atan
	return cfg
}

// LoadConfig loads configuration parameters from an INI file.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(filePath string) (*Config, error) {
	src, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return parseConfig(src)
}

// ParseConfig loads configuration parameters from INI text.
func ParseConfig(data []byte) (*Config, error) {
	src, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return parseConfig(src)
}

func parseConfig(src *ini.File) (*Config, error) {
	config := DefaultConfig()

	if err := src.Section("Genome").MapTo(&config.Genome); err != nil {
		return nil, fmt.Errorf("failed to map [Genome] section: %w", err)
	}
	if err := src.Section("Mutation").MapTo(&config.Mutation); err != nil {
		return nil, fmt.Errorf("failed to map [Mutation] section: %w", err)
	}
	if err := src.Section("Generation").MapTo(&config.Generation); err != nil {
		return nil, fmt.Errorf("failed to map [Generation] section: %w", err)
	}

	config.Genome.Activation = cleanIniString(config.Genome.Activation)
	if config.Genome.Activation == "" {
		config.Genome.Activation = DefaultActivation
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges and resolves the activation function.
func (c *Config) Validate() error {
	if c.Genome.NumInputs <= 0 {
		return fmt.Errorf("config error: num_inputs must be positive")
	}
	if c.Genome.NumOutputs <= 0 {
		return fmt.Errorf("config error: num_outputs must be positive")
	}
	fn, err := GetActivation(strings.ToLower(c.Genome.Activation))
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	c.Genome.activationFn = fn

	probs := []struct {
		name string
		v    float64
	}{
		{"weight_perturb_rate", c.Mutation.WeightPerturbRate},
		{"weight_replace_rate", c.Mutation.WeightReplaceRate},
		{"conn_add_prob", c.Mutation.ConnAddProb},
		{"node_add_prob", c.Mutation.NodeAddProb},
	}
	for _, p := range probs {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("config error: %s must be between 0 and 1", p.name)
		}
	}
	if c.Mutation.WeightPerturbPower < 0 {
		return fmt.Errorf("config error: weight_perturb_power cannot be negative")
	}
	if c.Mutation.WeightReplaceRange < 0 {
		return fmt.Errorf("config error: weight_replace_range cannot be negative")
	}
	if c.Mutation.WeightInitRange < 0 {
		return fmt.Errorf("config error: weight_init_range cannot be negative")
	}

	if c.Generation.PopSize < 2 {
		return fmt.Errorf("config error: pop_size must be at least 2")
	}
	if c.Generation.ReseedDivisor <= 0 {
		return fmt.Errorf("config error: reseed_divisor must be positive")
	}
	if c.Generation.ParentDivisor <= 0 {
		return fmt.Errorf("config error: parent_divisor must be positive")
	}
	return nil
}

// activation returns the resolved hidden-node activation, falling back to atan for
// hand-built configs that never went through Validate.
func (gc *GenomeConfig) activation() ActivationType {
	if gc.activationFn != nil {
		return gc.activationFn
	}
	if fn, err := GetActivation(gc.Activation); err == nil {
		return fn
	}
	return Atan
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
