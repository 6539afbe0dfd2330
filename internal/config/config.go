// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/talentflow/internal/board"
)

// DefaultDataFile is the local SQLite file used when no database URL is configured
const DefaultDataFile = "talentflow.db"

// Environment variables read by ApplyEnv
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvDataFile    = "TALENTFLOW_DATA_FILE"
	EnvFailureRate = "TALENTFLOW_FAILURE_RATE"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	DataFile    string `json:"data_file,omitempty"`    // Local SQLite file, used when DatabaseURL is empty

	// Simulated server behavior
	MinLatencyMS *int     `json:"min_latency_ms,omitempty"` // Lower bound of the artificial delay
	MaxLatencyMS *int     `json:"max_latency_ms,omitempty"` // Upper bound (exclusive) of the artificial delay
	FailureRate  *float64 `json:"failure_rate,omitempty"`   // Probability a write fails (0.0-1.0)
	Seed         uint64   `json:"seed,omitempty"`           // Seeds the policy's random source; 0 means random

	// Behavior
	Retries int  `json:"retries,omitempty"` // Caller-side retries of transient failures
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the configuration used when nothing else is set
func Defaults() Config {
	d := board.DefaultPolicyConfig()
	rate := d.FailureRate
	minMS := int(d.MinLatency / time.Millisecond)
	maxMS := int(d.MaxLatency / time.Millisecond)
	return Config{
		DataFile:     DefaultDataFile,
		MinLatencyMS: &minMS,
		MaxLatencyMS: &maxMS,
		FailureRate:  &rate,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from the environment. Call it after loading
// the .env file so both sources are honored.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvDataFile); v != "" {
		c.DataFile = v
	}
	if v := os.Getenv(EnvFailureRate); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config error: %s must be a number: %w", EnvFailureRate, err)
		}
		c.FailureRate = &rate
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.MinLatencyMS != nil && *c.MinLatencyMS < 0 {
		return fmt.Errorf("config error: 'min_latency_ms' must be non-negative")
	}
	if c.MaxLatencyMS != nil && *c.MaxLatencyMS < 0 {
		return fmt.Errorf("config error: 'max_latency_ms' must be non-negative")
	}
	if c.MinLatencyMS != nil && c.MaxLatencyMS != nil && *c.MaxLatencyMS < *c.MinLatencyMS {
		return fmt.Errorf("config error: 'max_latency_ms' must not be less than 'min_latency_ms'")
	}
	if c.FailureRate != nil && (*c.FailureRate < 0 || *c.FailureRate > 1) {
		return fmt.Errorf("config error: 'failure_rate' must be between 0 and 1")
	}
	if c.Retries < 0 {
		return fmt.Errorf("config error: 'retries' must be non-negative")
	}

	if c.DataFile != "" {
		dir := filepath.Dir(c.DataFile)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("config error: data file directory not found: %s", dir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DataFile == "" {
		result.DataFile = defaults.DataFile
	}

	// Int fields: use default if zero
	if result.Retries == 0 {
		result.Retries = defaults.Retries
	}
	if result.Seed == 0 {
		result.Seed = defaults.Seed
	}

	// Pointer fields distinguish an explicit 0 from unset
	result.MinLatencyMS = mergePtr(result.MinLatencyMS, defaults.MinLatencyMS)
	result.MaxLatencyMS = mergePtr(result.MaxLatencyMS, defaults.MaxLatencyMS)
	result.FailureRate = mergePtr(result.FailureRate, defaults.FailureRate)

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// mergePtr returns a copy of v, or of def when v is nil
func mergePtr[T any](v, def *T) *T {
	if v == nil {
		v = def
	}
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// PolicyConfig converts the latency and failure settings for the engine
func (c *Config) PolicyConfig() board.PolicyConfig {
	pc := board.PolicyConfig{Seed: c.Seed}
	if c.MinLatencyMS != nil {
		pc.MinLatency = time.Duration(*c.MinLatencyMS) * time.Millisecond
	}
	if c.MaxLatencyMS != nil {
		pc.MaxLatency = time.Duration(*c.MaxLatencyMS) * time.Millisecond
	}
	if c.FailureRate != nil {
		pc.FailureRate = *c.FailureRate
	}
	return pc
}
