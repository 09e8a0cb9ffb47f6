package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the settings shared by every command.
type Config struct {
	Seed                int64         `yaml:"seed"`
	MaxAttempts         int           `yaml:"max_attempts"`
	Shots               int           `yaml:"shots"`
	CountingQubits      int           `yaml:"counting_qubits"`
	Numbers             []int64       `yaml:"numbers"`
	TrialDivision       bool          `yaml:"trial_division"`
	QuantumOrderFinding bool          `yaml:"quantum_order_finding"`
	Logging             LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Seed:           DefaultSeed,
		MaxAttempts:    DefaultMaxAttempts,
		Shots:          1000,
		CountingQubits: 4,
		Numbers:        []int64{15, 21, 35},
		TrialDivision:  true,
		Logging:        LoggingConfig{Level: "warn"},
	}
}

// LoadConfig reads a YAML config on top of the defaults. A missing file is
// not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies SHORCIRQ_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("SHORCIRQ_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SHORCIRQ_SEED=%q", ErrInvalidConfig, v)
		}
		c.Seed = seed
	}
	if v := os.Getenv("SHORCIRQ_SHOTS"); v != "" {
		shots, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SHORCIRQ_SHOTS=%q", ErrInvalidConfig, v)
		}
		c.Shots = shots
	}
	if v := os.Getenv("SHORCIRQ_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max_attempts must be at least 1, got %d", ErrInvalidConfig, c.MaxAttempts)
	}
	if c.Shots < 1 {
		return fmt.Errorf("%w: shots must be at least 1, got %d", ErrInvalidConfig, c.Shots)
	}
	if c.CountingQubits < 1 || c.CountingQubits > MaxSimQubits/2 {
		return fmt.Errorf("%w: counting_qubits must be in [1, %d], got %d", ErrInvalidConfig, MaxSimQubits/2, c.CountingQubits)
	}
	for _, n := range c.Numbers {
		if n <= 1 {
			return fmt.Errorf("%w: numbers must be greater than 1, got %d", ErrInvalidConfig, n)
		}
	}
	valid := false
	for _, l := range validLogLevels {
		if c.Logging.Level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: logging.level %q (valid: %v)", ErrInvalidConfig, c.Logging.Level, validLogLevels)
	}
	return nil
}
