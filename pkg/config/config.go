// Package config loads engine settings from YAML with FLYIN_* environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Prashant-Bharaj/fly-in/pkg/algorithms"
	"github.com/Prashant-Bharaj/fly-in/pkg/logging"
	"github.com/Prashant-Bharaj/fly-in/pkg/scheduler"
	"github.com/Prashant-Bharaj/fly-in/pkg/validation"
)

// Config is the full engine configuration.
type Config struct {
	Planner    PlannerConfig    `yaml:"planner"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Batch      BatchConfig      `yaml:"batch"`
}

// PlannerConfig controls route planning.
type PlannerConfig struct {
	// DiverseThreshold is the fleet size from which diverse routes are used.
	// Smaller fleets all fly the primary route. 0 always uses diverse routes.
	DiverseThreshold int    `yaml:"diverse_threshold" validate:"min=0"`
	MaxPaths         int    `yaml:"max_paths" validate:"min=1,max=64"`
	Strategy         string `yaml:"strategy" validate:"oneof=exclusive-exit edge-penalty"`
	EdgePenalty      int    `yaml:"edge_penalty" validate:"min=1"`
}

// SimulationConfig controls the turn scheduler.
type SimulationConfig struct {
	Reservation      string `yaml:"reservation" validate:"oneof=on-completion on-entry"`
	Ordering         string `yaml:"ordering" validate:"oneof=round-robin progress"`
	VerifyInvariants bool   `yaml:"verify_invariants"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// MetricsConfig controls metric export.
type MetricsConfig struct {
	// Textfile, when set, receives the registry in Prometheus text format
	// after every run.
	Textfile string `yaml:"textfile"`
}

// BatchConfig controls batch runs.
type BatchConfig struct {
	Workers int           `yaml:"workers" validate:"min=0"` // 0 means one per CPU
	Timeout time.Duration `yaml:"timeout"`                  // per map; 0 means none
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			DiverseThreshold: 15,
			MaxPaths:         12,
			Strategy:         algorithms.ExclusiveExit.String(),
			EdgePenalty:      algorithms.DefaultEdgePenalty,
		},
		Simulation: SimulationConfig{
			Reservation:      scheduler.ReserveOnCompletion.String(),
			Ordering:         scheduler.RoundRobin.String(),
			VerifyInvariants: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from FLYIN_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	num("FLYIN_DIVERSE_THRESHOLD", &c.Planner.DiverseThreshold)
	num("FLYIN_MAX_PATHS", &c.Planner.MaxPaths)
	str("FLYIN_STRATEGY", &c.Planner.Strategy)
	num("FLYIN_EDGE_PENALTY", &c.Planner.EdgePenalty)
	str("FLYIN_RESERVATION", &c.Simulation.Reservation)
	str("FLYIN_ORDERING", &c.Simulation.Ordering)
	flag("FLYIN_VERIFY_INVARIANTS", &c.Simulation.VerifyInvariants)
	str(logging.EnvLevel, &c.Logging.Level)
	str("FLYIN_LOG_FORMAT", &c.Logging.Format)
	str("FLYIN_METRICS_TEXTFILE", &c.Metrics.Textfile)
	num("FLYIN_BATCH_WORKERS", &c.Batch.Workers)
	dur("FLYIN_BATCH_TIMEOUT", &c.Batch.Timeout)

	return errors.Join(errs...)
}

// Validate checks struct tags first, then the cross-field rules.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cv := validation.NewConfigValidator("Config")
	cv.NonNegativeDuration("Batch.Timeout", c.Batch.Timeout)
	cv.When(c.Metrics.Textfile != "", func(v *validation.ConfigValidator) {
		v.Custom("Metrics.Textfile", func() error {
			// The node_exporter textfile collector only reads *.prom files.
			if filepath.Ext(c.Metrics.Textfile) != ".prom" {
				return fmt.Errorf("%q must end in .prom", c.Metrics.Textfile)
			}
			return nil
		})
	})
	return cv.Validate()
}

// PlanOptions converts the planner section.
func (c *Config) PlanOptions() algorithms.PlanOptions {
	opts := algorithms.DefaultPlanOptions()
	opts.MaxPaths = validation.DefaultOrInt(c.Planner.MaxPaths, opts.MaxPaths)
	if s, err := algorithms.ParseStrategy(c.Planner.Strategy); err == nil {
		opts.Diverse.Strategy = s
	}
	opts.Diverse.Penalty = validation.DefaultOrInt(c.Planner.EdgePenalty, algorithms.DefaultEdgePenalty)
	return opts
}

// SchedulerOptions converts the simulation section. Logger and metrics are
// left for the caller to attach.
func (c *Config) SchedulerOptions() scheduler.Options {
	opts := scheduler.DefaultOptions()
	if p, err := scheduler.ParseReservationPolicy(c.Simulation.Reservation); err == nil {
		opts.Reservation = p
	}
	if o, err := scheduler.ParseOrdering(c.Simulation.Ordering); err == nil {
		opts.Ordering = o
	}
	opts.VerifyInvariants = c.Simulation.VerifyInvariants
	return opts
}

// NewLogger builds the logger described by the logging section, writing to w.
func (c *Config) NewLogger(w io.Writer) logging.Logger {
	return logging.New(w, logging.ParseLevel(c.Logging.Level), logging.ParseFormat(c.Logging.Format))
}
