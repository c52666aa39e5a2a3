package classifier

import (
	"fmt"
	"math"

	"github.com/grove-ml/grove/internal/optim"
)

// Config holds the estimator's construction-time hyperparameters. All of
// them are checked eagerly by New; training never re-validates.
type Config struct {
	// BatchSize is the number of samples per parameter update. Must be at
	// least 1.
	BatchSize int

	// Alpha is the L2 weight-decay coefficient applied to the output
	// layer's weight gradient. Must be non-negative.
	Alpha float64

	// Threshold is the convergence tolerance: training stops early when
	// the epoch-over-epoch change in total step norm drops below it.
	// Must be non-negative.
	Threshold float64

	// Epochs bounds the number of passes over the training set. Must be
	// at least 1; DefaultConfig sets math.MaxInt, i.e. train until
	// convergence.
	Epochs int

	// Hidden lists the widths of optional hidden layers between input
	// and output, in forward order. Empty means plain multinomial
	// logistic regression.
	Hidden []int

	// Seed drives shuffling and weight initialization; a fixed seed
	// makes training fully reproducible.
	Seed int64

	// Optimizer constructs the update rule for one training run. New
	// fills a nil factory with Adam defaults.
	Optimizer func() optim.Optimizer
}

// DefaultConfig returns the stock configuration: batches of 32, mild L2
// decay, train until convergence with Adam.
func DefaultConfig() Config {
	return Config{
		BatchSize: 32,
		Alpha:     1e-4,
		Threshold: 1e-4,
		Epochs:    math.MaxInt,
		Seed:      1,
		Optimizer: func() optim.Optimizer { return optim.NewAdam(optim.AdamConfig{}) },
	}
}

// ConfigError reports an invalid constructor argument. It is produced at
// construction time only.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("classifier: invalid configuration: %s %s", e.Field, e.Reason)
}

func (c *Config) validate() error {
	if c.BatchSize < 1 {
		return &ConfigError{Field: "BatchSize", Reason: "must be at least 1"}
	}
	if c.Alpha < 0 {
		return &ConfigError{Field: "Alpha", Reason: "must be non-negative"}
	}
	if c.Threshold < 0 {
		return &ConfigError{Field: "Threshold", Reason: "must be non-negative"}
	}
	if c.Epochs < 1 {
		return &ConfigError{Field: "Epochs", Reason: "must be at least 1"}
	}
	for i, h := range c.Hidden {
		if h < 1 {
			return &ConfigError{Field: "Hidden", Reason: fmt.Sprintf("layer %d width must be at least 1", i)}
		}
	}
	return nil
}
