// Package config loads the simulator's virtualsim.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-drift/virtualcontent/pkg/logging"
	"github.com/go-drift/virtualcontent/pkg/virtual"
	"github.com/spf13/viper"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "virtualsim.yaml"

// SchemaVersion is the configuration schema this build writes. Files with
// the same major version are accepted.
const SchemaVersion = "v1.0.0"

// EnvPrefix prefixes environment overrides, e.g. VIRTUALSIM_VIEWPORT_HEIGHT.
const EnvPrefix = "VIRTUALSIM"

// Item sources for the run command.
const (
	ModeFixed = "fixed"
	ModeLorem = "lorem"
)

// Config represents virtualsim.yaml.
type Config struct {
	Version    string           `yaml:"version"`
	Engine     EngineConfig     `yaml:"engine"`
	Viewport   ViewportConfig   `yaml:"viewport"`
	Logging    logging.Config   `yaml:"logging"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// EngineConfig tunes the content engine.
type EngineConfig struct {
	DefaultEstimate float64 `yaml:"default_estimate"`
	OffsetThreshold float64 `yaml:"offset_threshold"`
}

// ViewportConfig sizes the headless document.
type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// Offset places the container below the document top.
	Offset float64 `yaml:"offset,omitempty"`
}

// SimulationConfig describes the synthetic document and scroll script.
type SimulationConfig struct {
	Mode       string    `yaml:"mode"`
	Items      int       `yaml:"items"`
	ItemHeight float64   `yaml:"item_height"`
	Seed       uint64    `yaml:"seed"`
	Chunk      int       `yaml:"chunk"`
	Scroll     []float64 `yaml:"scroll,omitempty"`
	MaxFrames  int       `yaml:"max_frames"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: SchemaVersion,
		Engine: EngineConfig{
			DefaultEstimate: virtual.DefaultEstimate,
			OffsetThreshold: virtual.DefaultOffsetThreshold,
		},
		Viewport: ViewportConfig{Width: 800, Height: 600},
		Logging: logging.Config{
			Level:  "info",
			Format: "console",
			Name:   "virtualsim",
		},
		Simulation: SimulationConfig{
			Mode:       ModeFixed,
			Items:      1000,
			ItemHeight: 50,
			Seed:       1,
			Chunk:      200,
			Scroll:     []float64{0, 2510, 10000},
			MaxFrames:  100,
		},
	}
}

// Load reads path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// LoadOptional reads virtualsim.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks the schema version and value ranges.
func (c *Config) Validate() error {
	if !semver.IsValid(c.Version) {
		return fmt.Errorf("invalid config version %q: want a semantic version such as %s", c.Version, SchemaVersion)
	}
	if semver.Major(c.Version) != semver.Major(SchemaVersion) {
		return fmt.Errorf("unsupported config version %s: this build reads %s.x", c.Version, semver.Major(SchemaVersion))
	}
	if c.Engine.DefaultEstimate <= 0 {
		return fmt.Errorf("engine.default_estimate must be positive, got %v", c.Engine.DefaultEstimate)
	}
	if c.Engine.OffsetThreshold < 0 {
		return fmt.Errorf("engine.offset_threshold must not be negative, got %v", c.Engine.OffsetThreshold)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %vx%v", c.Viewport.Width, c.Viewport.Height)
	}
	switch c.Simulation.Mode {
	case ModeFixed, ModeLorem:
	default:
		return fmt.Errorf("simulation.mode must be %q or %q, got %q", ModeFixed, ModeLorem, c.Simulation.Mode)
	}
	if c.Simulation.Items < 0 {
		return fmt.Errorf("simulation.items must not be negative, got %d", c.Simulation.Items)
	}
	if c.Simulation.ItemHeight < 0 {
		return fmt.Errorf("simulation.item_height must not be negative, got %v", c.Simulation.ItemHeight)
	}
	if c.Simulation.MaxFrames <= 0 {
		return fmt.Errorf("simulation.max_frames must be positive, got %d", c.Simulation.MaxFrames)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// NewViper returns a viper instance reading VIRTUALSIM_* environment
// variables, with dotted keys mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range overrideKeys {
		// AutomaticEnv only answers keys viper knows about.
		_ = v.BindEnv(key)
	}
	return v
}

var overrideKeys = []string{
	"engine.default_estimate",
	"engine.offset_threshold",
	"viewport.width",
	"viewport.height",
	"viewport.offset",
	"logging.level",
	"logging.format",
	"logging.file",
	"simulation.mode",
	"simulation.items",
	"simulation.item_height",
	"simulation.seed",
	"simulation.chunk",
	"simulation.scroll",
	"simulation.max_frames",
}

// ApplyOverrides copies every key set in v (by environment or bound flag)
// onto c.
func (c *Config) ApplyOverrides(v *viper.Viper) error {
	set := func(key string, apply func()) {
		if v.IsSet(key) {
			apply()
		}
	}
	set("engine.default_estimate", func() { c.Engine.DefaultEstimate = v.GetFloat64("engine.default_estimate") })
	set("engine.offset_threshold", func() { c.Engine.OffsetThreshold = v.GetFloat64("engine.offset_threshold") })
	set("viewport.width", func() { c.Viewport.Width = v.GetFloat64("viewport.width") })
	set("viewport.height", func() { c.Viewport.Height = v.GetFloat64("viewport.height") })
	set("viewport.offset", func() { c.Viewport.Offset = v.GetFloat64("viewport.offset") })
	set("logging.level", func() { c.Logging.Level = v.GetString("logging.level") })
	set("logging.format", func() { c.Logging.Format = v.GetString("logging.format") })
	set("logging.file", func() { c.Logging.File = v.GetString("logging.file") })
	set("simulation.mode", func() { c.Simulation.Mode = v.GetString("simulation.mode") })
	set("simulation.items", func() { c.Simulation.Items = v.GetInt("simulation.items") })
	set("simulation.item_height", func() { c.Simulation.ItemHeight = v.GetFloat64("simulation.item_height") })
	set("simulation.seed", func() { c.Simulation.Seed = v.GetUint64("simulation.seed") })
	set("simulation.chunk", func() { c.Simulation.Chunk = v.GetInt("simulation.chunk") })
	set("simulation.max_frames", func() { c.Simulation.MaxFrames = v.GetInt("simulation.max_frames") })
	if v.IsSet("simulation.scroll") {
		scroll, err := parseScroll(v.Get("simulation.scroll"))
		if err != nil {
			return fmt.Errorf("simulation.scroll: %w", err)
		}
		c.Simulation.Scroll = scroll
	}
	return nil
}

// parseScroll accepts a list of offsets as a slice or as a string such as
// "0,2510 10000" or "[0,2510]".
func parseScroll(value any) ([]float64, error) {
	var fields []string
	switch value := value.(type) {
	case []float64:
		return value, nil
	case []string:
		fields = value
	case []any:
		for _, item := range value {
			fields = append(fields, fmt.Sprint(item))
		}
	case string:
		fields = strings.FieldsFunc(strings.Trim(value, "[]"), func(r rune) bool {
			return r == ',' || r == ' '
		})
	default:
		return nil, fmt.Errorf("unsupported value %v (%T)", value, value)
	}
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		y, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, nil
}

// EngineOptions converts the engine section into content options.
func (c *Config) EngineOptions() []virtual.Option {
	return []virtual.Option{
		virtual.WithDefaultEstimate(c.Engine.DefaultEstimate),
		virtual.WithOffsetThreshold(c.Engine.OffsetThreshold),
	}
}
