package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"flowframe/pkg/engine"
	"flowframe/pkg/layout"
	"flowframe/pkg/render"
)

// EnvPrefix prefixes every environment override, e.g. FLOWFRAME_LOGGER_LEVEL.
const EnvPrefix = "FLOWFRAME"

// Config is the full flowframe configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
}

// LoggerConfig selects the log level and encoder.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // console or json
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// EngineConfig tunes the layout engine.
type EngineConfig struct {
	MaxSpacing    float64       `mapstructure:"max_spacing" yaml:"max_spacing"`
	FinalizeDelay time.Duration `mapstructure:"finalize_delay" yaml:"finalize_delay"`
}

// RenderConfig sizes scene snapshots.
type RenderConfig struct {
	Width    int     `mapstructure:"width" yaml:"width"`
	Height   int     `mapstructure:"height" yaml:"height"`
	Scale    float64 `mapstructure:"scale" yaml:"scale"`
	Labels   bool    `mapstructure:"labels" yaml:"labels"`
	FontPath string  `mapstructure:"font_path" yaml:"font_path"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "flowframe")

	// -- Engine --
	v.SetDefault("engine.max_spacing", layout.DefaultMaxSpacing)
	v.SetDefault("engine.finalize_delay", "0s")

	// -- Render --
	v.SetDefault("render.width", 800)
	v.SetDefault("render.height", 600)
	v.SetDefault("render.scale", 1.0)
	v.SetDefault("render.labels", true)
	v.SetDefault("render.font_path", "")
}

// NewDefaultConfig returns the configuration with every default applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewViper returns a viper instance with defaults and environment overrides
// wired up.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file at path, if any, on top of the defaults
// and environment overrides. The format follows the file extension.
func Load(path string) (*Config, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return NewConfigFromViper(v)
}

// ReadFile merges the configuration file at path into v. An empty path is a
// no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return nil
}

// NewConfigFromViper decodes and validates a configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if c.Engine.MaxSpacing <= 0 {
		return fmt.Errorf("engine.max_spacing must be positive")
	}
	if c.Engine.FinalizeDelay < 0 {
		return fmt.Errorf("engine.finalize_delay must not be negative")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render.width and render.height must be positive integers")
	}
	if c.Render.Scale <= 0 {
		return fmt.Errorf("render.scale must be positive")
	}
	return nil
}

// RenderOptions converts the render section into renderer options.
func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Width, opts.Height = c.Render.Width, c.Render.Height
	opts.Scale = c.Render.Scale
	opts.Labels = c.Render.Labels
	opts.FontPath = c.Render.FontPath
	return opts
}

// EngineOptions converts the engine section into engine options.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.Layout = layout.Options{MaxSpacing: c.Engine.MaxSpacing}
	opts.FinalizeDelay = c.Engine.FinalizeDelay
	return opts
}
