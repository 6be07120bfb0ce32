// Package config holds the solver parameters used by curve construction and
// yield solving.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/meenmo/cpilib/errs"
)

// Config is passed explicitly to the operations that need it.
type Config struct {
	Bootstrap BootstrapConfig `mapstructure:"bootstrap" yaml:"bootstrap"`
	Yield     YieldConfig     `mapstructure:"yield"     yaml:"yield"`
	Batch     BatchConfig     `mapstructure:"batch"     yaml:"batch"`
}

// BootstrapConfig controls the per-node root solve.
type BootstrapConfig struct {
	// Accuracy is the absolute tolerance on the solved zero rate.
	Accuracy float64 `mapstructure:"accuracy"       yaml:"accuracy"`
	// MaxIterations bounds the Brent iterations per node.
	MaxIterations int `mapstructure:"max_iterations" yaml:"max_iterations"`
	// MinRate and MaxRate bracket the node rate.
	MinRate float64 `mapstructure:"min_rate" yaml:"min_rate"`
	MaxRate float64 `mapstructure:"max_rate" yaml:"max_rate"`
}

// YieldConfig controls the price-to-yield solve.
type YieldConfig struct {
	Accuracy      float64 `mapstructure:"accuracy"       yaml:"accuracy"`
	MaxIterations int     `mapstructure:"max_iterations" yaml:"max_iterations"`
	MinYield      float64 `mapstructure:"min_yield"      yaml:"min_yield"`
	MaxYield      float64 `mapstructure:"max_yield"      yaml:"max_yield"`
	Guess         float64 `mapstructure:"guess"          yaml:"guess"`
}

// BatchConfig bounds parallel curve and bond work.
type BatchConfig struct {
	// Concurrency <= 0 means no limit.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// Default returns the production defaults.
func Default() Config {
	return Config{
		Bootstrap: BootstrapConfig{
			Accuracy:      1e-14,
			MaxIterations: 100,
			MinRate:       -1,
			MaxRate:       10,
		},
		Yield: YieldConfig{
			Accuracy:      1e-12,
			MaxIterations: 100,
			MinYield:      -1,
			MaxYield:      1,
			Guess:         0.05,
		},
		Batch: BatchConfig{Concurrency: 8},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("bootstrap.accuracy", d.Bootstrap.Accuracy)
	v.SetDefault("bootstrap.max_iterations", d.Bootstrap.MaxIterations)
	v.SetDefault("bootstrap.min_rate", d.Bootstrap.MinRate)
	v.SetDefault("bootstrap.max_rate", d.Bootstrap.MaxRate)
	v.SetDefault("yield.accuracy", d.Yield.Accuracy)
	v.SetDefault("yield.max_iterations", d.Yield.MaxIterations)
	v.SetDefault("yield.min_yield", d.Yield.MinYield)
	v.SetDefault("yield.max_yield", d.Yield.MaxYield)
	v.SetDefault("yield.guess", d.Yield.Guess)
	v.SetDefault("batch.concurrency", d.Batch.Concurrency)
}

// Load reads path (YAML, JSON or TOML by extension) over the defaults. An empty
// path uses defaults only. Environment variables override both, e.g.
// CPILIB_BOOTSTRAP_MAX_ITERATIONS.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CPILIB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config.Load: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the brackets and limits are usable.
func (c Config) Validate() error {
	switch {
	case c.Bootstrap.Accuracy <= 0:
		return errs.InvalidInput("config: bootstrap.accuracy must be positive")
	case c.Bootstrap.MaxIterations <= 0:
		return errs.InvalidInput("config: bootstrap.max_iterations must be positive")
	case c.Bootstrap.MinRate >= c.Bootstrap.MaxRate:
		return errs.InvalidInput("config: bootstrap rate bracket [%g, %g] is empty", c.Bootstrap.MinRate, c.Bootstrap.MaxRate)
	case c.Bootstrap.MinRate < -1:
		return errs.InvalidInput("config: bootstrap.min_rate %g below -100%%", c.Bootstrap.MinRate)
	case c.Yield.Accuracy <= 0:
		return errs.InvalidInput("config: yield.accuracy must be positive")
	case c.Yield.MaxIterations <= 0:
		return errs.InvalidInput("config: yield.max_iterations must be positive")
	case c.Yield.MinYield >= c.Yield.MaxYield:
		return errs.InvalidInput("config: yield bracket [%g, %g] is empty", c.Yield.MinYield, c.Yield.MaxYield)
	}
	return nil
}
