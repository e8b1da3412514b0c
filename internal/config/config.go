package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Segmentation SegmentationConfig `json:"segmentation"`
	Contour      ContourConfig      `json:"contour"`
	Output       OutputConfig       `json:"output"`
}

// SegmentationConfig holds the color bands used to isolate the map and the
// marker. Hues use OpenCV's 0-179 scale; the map band describes the
// background color that gets removed, the marker band the pointer color
// that gets kept.
type SegmentationConfig struct {
	MapHueLow     float64 `json:"map_hue_low"`
	MapHueHigh    float64 `json:"map_hue_high"`
	MarkerHueLow  float64 `json:"marker_hue_low"`
	MarkerHueHigh float64 `json:"marker_hue_high"`
	MinSaturation float64 `json:"min_saturation"`
	MinValue      float64 `json:"min_value"`
}

// ContourConfig holds configuration for polygon simplification
type ContourConfig struct {
	EpsilonRatio float64 `json:"epsilon_ratio"`
}

// OutputConfig holds configuration for debug artifact generation
type OutputConfig struct {
	DebugDir    string `json:"debug_dir"`
	DebugFormat string `json:"debug_format"`
}

// Default returns a configuration with default values. The hue bands match
// a dark blue background and a red pointer.
func Default() *Config {
	return &Config{
		Segmentation: SegmentationConfig{
			MapHueLow:     97,
			MapHueHigh:    107,
			MarkerHueLow:  160,
			MarkerHueHigh: 179,
			MinSaturation: 50,
			MinValue:      30,
		},
		Contour: ContourConfig{
			EpsilonRatio: 0.10,
		},
		Output: OutputConfig{
			DebugDir:    "",
			DebugFormat: "png",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	bands := []struct {
		name      string
		low, high float64
	}{
		{"map", c.Segmentation.MapHueLow, c.Segmentation.MapHueHigh},
		{"marker", c.Segmentation.MarkerHueLow, c.Segmentation.MarkerHueHigh},
	}

	for _, b := range bands {
		if b.low < 0 || b.high > 179 {
			return fmt.Errorf("segmentation.%s hue band must lie within 0-179", b.name)
		}
		if b.low > b.high {
			return fmt.Errorf("segmentation.%s hue band is inverted (%v > %v)", b.name, b.low, b.high)
		}
	}

	if c.Segmentation.MinSaturation < 0 || c.Segmentation.MinSaturation > 255 {
		return fmt.Errorf("segmentation.min_saturation must be between 0 and 255")
	}

	if c.Segmentation.MinValue < 0 || c.Segmentation.MinValue > 255 {
		return fmt.Errorf("segmentation.min_value must be between 0 and 255")
	}

	if c.Contour.EpsilonRatio <= 0 || c.Contour.EpsilonRatio >= 1 {
		return fmt.Errorf("contour.epsilon_ratio must be between 0 and 1")
	}

	switch c.Output.DebugFormat {
	case "", "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.debug_format must be jpg, png or webp")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "map-reader", "config.json")
}
