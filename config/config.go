// Package config provides configuration loading and access for the visualizer.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all visualizer configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Particles ParticlesConfig `yaml:"particles"`
	Source    SourceConfig    `yaml:"source"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FieldConfig holds wind field interpolation parameters.
type FieldConfig struct {
	CellSize     float64 `yaml:"cell_size"`     // Grid cell size in screen pixels
	SearchRadius int     `yaml:"search_radius"` // Neighbor cell ring radius for lookups
	MaxNeighbors int     `yaml:"max_neighbors"` // IDW blends at most this many samples
	Epsilon      float64 `yaml:"epsilon"`       // Distances below this snap to the nearest sample
}

// ParticlesConfig holds particle pool and rendering parameters.
type ParticlesConfig struct {
	Count       int     `yaml:"count"`        // Fixed pool size
	MaxAge      int     `yaml:"max_age"`      // Frames before forced respawn
	SpeedFactor float64 `yaml:"speed_factor"` // Visual pace multiplier, not physically calibrated
	LineWidth   float64 `yaml:"line_width"`   // Trail segment stroke width
	FadeAlpha   int     `yaml:"fade_alpha"`   // Per-frame trail decay overlay alpha (0-255)
	ColorScheme string  `yaml:"color_scheme"` // "speed" or "direction"
	MinZoom     float64 `yaml:"min_zoom"`     // Activation refused below this view zoom
}

// SourceConfig holds wind field data source parameters.
type SourceConfig struct {
	URL            string  `yaml:"url"`
	MinLat         float64 `yaml:"min_lat"`
	MaxLat         float64 `yaml:"max_lat"`
	MinLon         float64 `yaml:"min_lon"`
	MaxLon         float64 `yaml:"max_lon"`
	GridSize       int     `yaml:"grid_size"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32   float32 // Screen.Width as float32
	ScreenH32   float32 // Screen.Height as float32
	FadeAlpha8  uint8   // Particles.FadeAlpha clamped to byte range
	LineWidth32 float32 // Particles.LineWidth as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the engine cannot run with.
func (c *Config) validate() error {
	if c.Particles.Count < 1 {
		return fmt.Errorf("particles.count must be positive, got %d", c.Particles.Count)
	}
	if c.Particles.MaxAge < 1 {
		return fmt.Errorf("particles.max_age must be positive, got %d", c.Particles.MaxAge)
	}
	if c.Field.CellSize <= 0 {
		return fmt.Errorf("field.cell_size must be positive, got %g", c.Field.CellSize)
	}
	switch c.Particles.ColorScheme {
	case "speed", "direction":
	default:
		return fmt.Errorf("particles.color_scheme must be \"speed\" or \"direction\", got %q", c.Particles.ColorScheme)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.LineWidth32 = float32(c.Particles.LineWidth)

	fade := c.Particles.FadeAlpha
	if fade < 0 {
		fade = 0
	} else if fade > 255 {
		fade = 255
	}
	c.Derived.FadeAlpha8 = uint8(fade)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
