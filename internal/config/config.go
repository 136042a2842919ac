// Package config holds rendering and output defaults shared by the MCP server
// and the CLI.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfigPath   = "WCS_MCP_CONFIG"
	EnvLogLevel     = "WCS_MCP_LOG_LEVEL"
	EnvOutputFormat = "WCS_MCP_OUTPUT_FORMAT"
	EnvGridColor    = "WCS_MCP_GRID_COLOR"
)

// Config holds rendering and output settings.
type Config struct {
	// GridColor and LabelColor are "#RRGGBB" or "#RRGGBBAA".
	GridColor  string `json:"grid_color" yaml:"grid_color"`
	LabelColor string `json:"label_color" yaml:"label_color"`

	// GridStepDeg is the default graticule spacing in degrees.
	GridStepDeg float64 `json:"grid_step_deg" yaml:"grid_step_deg"`
	// GridSamples is the number of segments each graticule line is traced with.
	GridSamples int `json:"grid_samples" yaml:"grid_samples"`

	// OutputFormat is the encoding of rendered images: "png" or "webp".
	OutputFormat string `json:"output_format" yaml:"output_format"`
	// Gamma is the display stretch applied before overlays; 1 leaves pixels unchanged.
	Gamma float64 `json:"gamma" yaml:"gamma"`
	// MaxCutoutSize caps the side of a cutout, in source pixels.
	MaxCutoutSize int `json:"max_cutout_size" yaml:"max_cutout_size"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		GridColor:     "#00FF0099",
		LabelColor:    "#FFFFFF",
		GridStepDeg:   0,
		GridSamples:   64,
		OutputFormat:  "png",
		Gamma:         1,
		MaxCutoutSize: 2048,
		LogLevel:      "info",
	}
}

// Load reads a YAML or JSON config file on top of Default. Fields not set in
// the file keep their defaults. Unknown YAML fields are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if yerr := dec.Decode(&cfg); yerr != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, &cfg); jerr != nil {
			return Default(), fmt.Errorf("config: parse %s: %w", path, yerr)
		}
	}

	return cfg, nil
}

// FromEnv loads the file named by WCS_MCP_CONFIG when set, then applies the
// remaining environment overrides and validates the result.
func FromEnv() (Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfigPath); path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.OutputFormat = strings.ToLower(v)
	}
	if v := os.Getenv(EnvGridColor); v != "" {
		c.GridColor = v
	}
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Validate checks that colours parse and numeric settings are in range.
func (c Config) Validate() error {
	for name, hex := range map[string]string{"grid_color": c.GridColor, "label_color": c.LabelColor} {
		if _, _, err := ParseColor(hex); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	switch c.OutputFormat {
	case "png", "webp":
	default:
		return fmt.Errorf("config: output_format %q: must be png or webp", c.OutputFormat)
	}
	if c.GridStepDeg < 0 {
		return fmt.Errorf("config: grid_step_deg must not be negative")
	}
	if c.GridSamples < 2 {
		return fmt.Errorf("config: grid_samples must be at least 2")
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("config: gamma must be positive")
	}
	if c.MaxCutoutSize <= 0 {
		return fmt.Errorf("config: max_cutout_size must be positive")
	}
	return nil
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA" into a colour and an 8-bit alpha.
func ParseColor(hex string) (colorful.Color, uint8, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return colorful.Color{}, 0, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	alpha := uint8(255)
	switch len(hex) {
	case 7:
	case 9:
		var a uint8
		if _, err := fmt.Sscanf(hex[7:], "%02x", &a); err != nil {
			return colorful.Color{}, 0, fmt.Errorf("invalid alpha in %q", hex)
		}
		alpha = a
		hex = hex[:7]
	default:
		return colorful.Color{}, 0, fmt.Errorf("invalid hex color length: %q", hex)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, 0, err
	}
	return c, alpha, nil
}
