// Package config loads the YAML settings that size and pace the animation engine.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTickRate is the engine tick frequency in Hz.
	DefaultTickRate = 60

	// DefaultComputeWorkers is the number of pose workers per scene. One means sequential.
	DefaultComputeWorkers = 1

	// DefaultLogLevel is the level passed to the logger.
	DefaultLogLevel = "info"
)

// Config holds engine configuration.
type Config struct {
	// MaxBones is the bone limit of every skeleton.
	// Default: 100
	MaxBones int `yaml:"max_bones"`

	// DefaultTicksPerSecond is the playback rate of clips that declare none.
	// Default: 25
	DefaultTicksPerSecond float32 `yaml:"default_ticks_per_second"`

	// ComputeWorkers is the size of the scene's pose worker pool.
	// Default: 1
	ComputeWorkers int `yaml:"compute_workers"`

	// TickRate is the engine loop frequency in Hz.
	// Default: 60
	TickRate int `yaml:"tick_rate"`

	// Profiling enables per-tick timing stats.
	Profiling bool `yaml:"profiling"`

	// LogLevel is one of debug, info, warn or error.
	// Default: info
	LogLevel string `yaml:"log_level"`

	// SkinningBinding is the binding index of the skinning storage buffer.
	SkinningBinding int `yaml:"skinning_binding"`
}

// Default returns a Config with every field at its default.
func Default() *Config {
	return &Config{
		MaxBones:              model.DefaultMaxBones,
		DefaultTicksPerSecond: model.DefaultTicksPerSecond,
		ComputeWorkers:        DefaultComputeWorkers,
		TickRate:              DefaultTickRate,
		LogLevel:              DefaultLogLevel,
	}
}

// Load reads and parses a YAML config file.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - *Config: the parsed config with defaults applied
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %q", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %q", path)
	}
	return cfg, nil
}

// Parse decodes YAML config data. Unknown keys are rejected and missing or zero fields
// take their defaults. An empty document yields the default config.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *Config: the parsed config
//   - error: error if decoding or validation fails
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse config")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MaxBones <= 0 {
		return errors.Errorf("max_bones must be positive, got %d", c.MaxBones)
	}
	if !(c.DefaultTicksPerSecond > 0) || !common.IsFinite(c.DefaultTicksPerSecond) {
		return errors.Errorf("default_ticks_per_second must be positive, got %v", c.DefaultTicksPerSecond)
	}
	if c.ComputeWorkers <= 0 {
		return errors.Errorf("compute_workers must be positive, got %d", c.ComputeWorkers)
	}
	if c.TickRate <= 0 {
		return errors.Errorf("tick_rate must be positive, got %d", c.TickRate)
	}
	if c.SkinningBinding < 0 {
		return errors.Errorf("skinning_binding must not be negative, got %d", c.SkinningBinding)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// TickInterval returns the duration of one engine tick.
func (c *Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / DefaultTickRate
	}
	return time.Second / time.Duration(c.TickRate)
}

func (c *Config) applyDefaults() {
	d := Default()
	c.MaxBones = common.Coalesce(c.MaxBones, d.MaxBones)
	c.DefaultTicksPerSecond = common.Coalesce(c.DefaultTicksPerSecond, d.DefaultTicksPerSecond)
	c.ComputeWorkers = common.Coalesce(c.ComputeWorkers, d.ComputeWorkers)
	c.TickRate = common.Coalesce(c.TickRate, d.TickRate)
	c.LogLevel = common.Coalesce(c.LogLevel, d.LogLevel)
}
