package core

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default engine tuning values.
const (
	// DefaultContactThreshold is the strength above which is_in_contact holds.
	DefaultContactThreshold = 0.5
	// DefaultMaxPassFactor bounds rule runs at factor * len(rules) passes.
	DefaultMaxPassFactor = 10
)

// Config carries the engine tuning parameters. Zero values are not filled in
// implicitly; construct via DefaultConfig or LoadConfig so omitted fields keep
// their defaults.
type Config struct {
	// ContactThreshold is the exclusive lower bound on contact strength for
	// is_in_contact conditions.
	ContactThreshold float64
	// MaxPassFactor caps rule evaluation at MaxPassFactor * len(rules) passes
	// before the run fails with a convergence error.
	MaxPassFactor int
	// ContactTimeout bounds individual contact provider lookups. Zero disables
	// the per-lookup deadline.
	ContactTimeout time.Duration
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		ContactThreshold: DefaultContactThreshold,
		MaxPassFactor:    DefaultMaxPassFactor,
	}
}

// Validate checks the tuning parameters for usable ranges.
func (c Config) Validate() error {
	if c.ContactThreshold < 0 || c.ContactThreshold > 1 {
		return fmt.Errorf("contact_threshold %v outside [0,1]", c.ContactThreshold)
	}
	if c.MaxPassFactor < 1 {
		return fmt.Errorf("max_pass_factor %d must be at least 1", c.MaxPassFactor)
	}
	if c.ContactTimeout < 0 {
		return fmt.Errorf("contact_timeout %v must not be negative", c.ContactTimeout)
	}
	return nil
}

// fileConfig is the YAML shape of a config file. Pointer fields distinguish
// absent keys from explicit zero values; durations are Go duration strings
// such as "250ms".
type fileConfig struct {
	ContactThreshold *float64 `yaml:"contact_threshold"`
	MaxPassFactor    *int     `yaml:"max_pass_factor"`
	ContactTimeout   *string  `yaml:"contact_timeout"`
}

// LoadConfig reads a YAML config file over the defaults. Keys absent from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg := DefaultConfig()
	if fc.ContactThreshold != nil {
		cfg.ContactThreshold = *fc.ContactThreshold
	}
	if fc.MaxPassFactor != nil {
		cfg.MaxPassFactor = *fc.MaxPassFactor
	}
	if fc.ContactTimeout != nil {
		timeout, err := time.ParseDuration(*fc.ContactTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse contact_timeout: %w", err)
		}
		cfg.ContactTimeout = timeout
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
