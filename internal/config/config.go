// Package config defines the immutable tuning parameters for a vlist.List
// and an optional YAML-backed loader for hosts that want to check in
// defaults instead of constructing a Config literal in code.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	vlisterrors "github.com/aman-cerp/vlist/internal/errors"
)

// Orientation selects which axis item sizes are measured along.
type Orientation string

const (
	OrientationVertical   Orientation = "vertical"
	OrientationHorizontal Orientation = "horizontal"
)

// Config is the immutable set of tuning parameters for a List. Once built
// via Load or NewDefault, a Config is never mutated.
type Config struct {
	// Orientation selects which axis is being virtualized.
	Orientation Orientation `yaml:"orientation" json:"orientation"`

	// ChunkCapacity is the number of items stored per chunk.
	ChunkCapacity uint32 `yaml:"chunk_capacity" json:"chunk_capacity"`

	// EstimatedSize is the default item size used before a real
	// measurement is reported via UpdateItemSize.
	EstimatedSize float64 `yaml:"estimated_size" json:"estimated_size"`

	// BufferItems is the number of extra items kept resident beyond each
	// edge of the viewport.
	BufferItems uint32 `yaml:"buffer_items" json:"buffer_items"`

	// OverscanItems is the number of additional items rendered beyond the
	// buffer, for smoother fast-scroll behavior.
	OverscanItems uint32 `yaml:"overscan_items" json:"overscan_items"`

	// MaxResidentChunks bounds how many chunks are kept measured in memory
	// before the least-recently-touched chunk is unloaded.
	MaxResidentChunks uint32 `yaml:"max_resident_chunks" json:"max_resident_chunks"`
}

// NewDefault returns the built-in default configuration.
func NewDefault() *Config {
	return &Config{
		Orientation:       OrientationVertical,
		ChunkCapacity:     100,
		EstimatedSize:     40.0,
		BufferItems:       5,
		OverscanItems:     3,
		MaxResidentChunks: 100,
	}
}

// Load builds a Config starting from defaults, then overlaying a YAML file
// at path if it exists, then environment variable overrides, mirroring the
// precedence order a host config layer is expected to apply. A missing
// file at path is not an error; Load falls back to defaults.
func Load(path string) (*Config, error) {
	cfg := NewDefault()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadYAML(path); err != nil {
				return nil, err
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, vlisterrors.Wrap(vlisterrors.KindInvalidArgument, err)
	}

	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith overlays non-zero fields from other onto c.
func (c *Config) mergeWith(other *Config) {
	if other.Orientation != "" {
		c.Orientation = other.Orientation
	}
	if other.ChunkCapacity != 0 {
		c.ChunkCapacity = other.ChunkCapacity
	}
	if other.EstimatedSize != 0 {
		c.EstimatedSize = other.EstimatedSize
	}
	if other.BufferItems != 0 {
		c.BufferItems = other.BufferItems
	}
	if other.OverscanItems != 0 {
		c.OverscanItems = other.OverscanItems
	}
	if other.MaxResidentChunks != 0 {
		c.MaxResidentChunks = other.MaxResidentChunks
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("VLIST_CHUNK_CAPACITY"); v != "" {
		if n, err := parseUint32(v); err == nil {
			c.ChunkCapacity = n
		}
	}
	if v := os.Getenv("VLIST_BUFFER_ITEMS"); v != "" {
		if n, err := parseUint32(v); err == nil {
			c.BufferItems = n
		}
	}
	if v := os.Getenv("VLIST_OVERSCAN_ITEMS"); v != "" {
		if n, err := parseUint32(v); err == nil {
			c.OverscanItems = n
		}
	}
	if v := os.Getenv("VLIST_MAX_RESIDENT_CHUNKS"); v != "" {
		if n, err := parseUint32(v); err == nil {
			c.MaxResidentChunks = n
		}
	}
	if v := os.Getenv("VLIST_ORIENTATION"); v != "" {
		c.Orientation = Orientation(v)
	}
}

func parseUint32(s string) (uint32, error) {
	var n uint64
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil {
		return 0, err
	}
	if n > math.MaxUint32 {
		return 0, fmt.Errorf("value %d overflows uint32", n)
	}
	return uint32(n), nil
}

// Validate checks every invariant from the component design: chunk
// capacity must be positive, estimated size must be positive and finite,
// max resident chunks must be positive, and orientation must be one of
// the two known values.
func (c *Config) Validate() error {
	if c.ChunkCapacity == 0 {
		return vlisterrors.InvalidArgument("chunk_capacity must be > 0")
	}
	if c.EstimatedSize <= 0 || math.IsNaN(c.EstimatedSize) || math.IsInf(c.EstimatedSize, 0) {
		return vlisterrors.InvalidArgument("estimated_size must be a positive finite number")
	}
	if c.MaxResidentChunks == 0 {
		return vlisterrors.InvalidArgument("max_resident_chunks must be > 0")
	}
	switch c.Orientation {
	case OrientationVertical, OrientationHorizontal:
	default:
		return vlisterrors.InvalidArgument(fmt.Sprintf("unknown orientation %q", c.Orientation))
	}
	return nil
}

// WriteYAML serializes the config to path, for hosts that build one in
// process and want to persist it for next run.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
