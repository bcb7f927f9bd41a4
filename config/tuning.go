// Package config loads and validates tuning parameters for the shower
// reconstruction pipeline from JSON files. Pointer fields distinguish
// "not set" from explicit zero values, so partial config files are safe:
// omitted fields fall back to the Get* defaults.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Defaults applied by the Get* accessors when a field is unset.
const (
	// DefaultDBSCANEps is the default DBSCAN neighborhood radius in
	// voxel units.
	DefaultDBSCANEps = 2.0
	// DefaultDBSCANMinSamples is the default minimum neighbor count.
	DefaultDBSCANMinSamples = 5
	// DefaultMinEnergy is the default energy threshold below which
	// voxels are excluded from clustering.
	DefaultMinEnergy = 0.05
	// DefaultMode is the default direction estimation mode.
	DefaultMode = "principal_axis"
)

// TuningConfig represents the tuning parameters for fragment clustering and
// direction estimation. All fields are optional in the JSON file.
type TuningConfig struct {
	// Clustering params
	DBSCANEps        *float64 `json:"dbscan_eps,omitempty"`
	DBSCANMinSamples *int     `json:"dbscan_min_samples,omitempty"`
	MinEnergy        *float64 `json:"min_energy,omitempty"`

	// Assignment params
	MaxDistance *float64 `json:"max_distance,omitempty"`

	// Direction estimation params
	Mode      *string `json:"mode,omitempty"`
	Normalize *bool   `json:"normalize,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must
// have a .json extension and the file must be under the max file size.
// Fields omitted from the JSON keep their defaults.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that any set fields hold usable values.
func (c *TuningConfig) Validate() error {
	if c.DBSCANEps != nil && *c.DBSCANEps <= 0 {
		return fmt.Errorf("dbscan_eps must be positive, got %f", *c.DBSCANEps)
	}
	if c.DBSCANMinSamples != nil && *c.DBSCANMinSamples < 1 {
		return fmt.Errorf("dbscan_min_samples must be at least 1, got %d", *c.DBSCANMinSamples)
	}
	if c.MaxDistance != nil && *c.MaxDistance < 0 {
		return fmt.Errorf("max_distance must be non-negative, got %f", *c.MaxDistance)
	}
	if c.Mode != nil {
		switch *c.Mode {
		case "principal_axis", "centroid":
		default:
			return fmt.Errorf("mode must be %q or %q, got %q", "principal_axis", "centroid", *c.Mode)
		}
	}
	return nil
}

// GetDBSCANEps returns the dbscan_eps value or the default.
func (c *TuningConfig) GetDBSCANEps() float64 {
	if c.DBSCANEps == nil {
		return DefaultDBSCANEps
	}
	return *c.DBSCANEps
}

// GetDBSCANMinSamples returns the dbscan_min_samples value or the default.
func (c *TuningConfig) GetDBSCANMinSamples() int {
	if c.DBSCANMinSamples == nil {
		return DefaultDBSCANMinSamples
	}
	return *c.DBSCANMinSamples
}

// GetMinEnergy returns the min_energy value or the default.
func (c *TuningConfig) GetMinEnergy() float64 {
	if c.MinEnergy == nil {
		return DefaultMinEnergy
	}
	return *c.MinEnergy
}

// GetMaxDistance returns the max_distance value, or +Inf (unbounded) when
// unset.
func (c *TuningConfig) GetMaxDistance() float64 {
	if c.MaxDistance == nil {
		return math.Inf(1)
	}
	return *c.MaxDistance
}

// GetMode returns the mode value or the default.
func (c *TuningConfig) GetMode() string {
	if c.Mode == nil {
		return DefaultMode
	}
	return *c.Mode
}

// GetNormalize returns the normalize value or the default (true).
func (c *TuningConfig) GetNormalize() bool {
	if c.Normalize == nil {
		return true
	}
	return *c.Normalize
}
