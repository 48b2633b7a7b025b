// Package config loads adapter settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/a11y-bridge/internal/logger"
	"github.com/mj1618/a11y-bridge/internal/model"
	"github.com/mj1618/a11y-bridge/internal/platform"
)

// Config is the on-disk configuration.
type Config struct {
	Platform        string      `yaml:"platform"          json:"platform"`
	ScaleFactor     float64     `yaml:"scale_factor"      json:"scale_factor"`
	WindowOrigin    model.Point `yaml:"window_origin"     json:"window_origin"`
	ActionQueueSize int         `yaml:"action_queue_size" json:"action_queue_size"`
	App             App         `yaml:"app"               json:"app"`
	Log             Log         `yaml:"log"               json:"log"`
}

// App identifies the application to the platform.
type App struct {
	Name           string `yaml:"name"            json:"name"`
	ToolkitName    string `yaml:"toolkit_name"    json:"toolkit_name"`
	ToolkitVersion string `yaml:"toolkit_version" json:"toolkit_version"`
}

// Log configures the package logger.
type Log struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Level   string `yaml:"level"   json:"level"`
	Format  string `yaml:"format"  json:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Platform:        "headless",
		ScaleFactor:     1,
		ActionQueueSize: 64,
		App:             App{Name: "a11y-bridge"},
		Log:             Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. Unknown keys are rejected. An empty
// path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges. Platform names are resolved later
// through a platform catalog.
func (c Config) Validate() error {
	if c.Platform == "" {
		return errors.New("platform is required")
	}
	if c.ScaleFactor <= 0 || math.IsNaN(c.ScaleFactor) || math.IsInf(c.ScaleFactor, 0) {
		return fmt.Errorf("scale_factor must be positive, got %v", c.ScaleFactor)
	}
	if c.ActionQueueSize < 1 {
		return fmt.Errorf("action_queue_size must be at least 1, got %d", c.ActionQueueSize)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// InitOptions converts the configuration into platform init options.
func (c Config) InitOptions() platform.InitOptions {
	return platform.InitOptions{
		AppName:        c.App.Name,
		ToolkitName:    c.App.ToolkitName,
		ToolkitVersion: c.App.ToolkitVersion,
		Window:         model.Window{Origin: c.WindowOrigin, ScaleFactor: c.ScaleFactor},
	}
}

// LoggerOptions converts the log section into logger options.
func (c Config) LoggerOptions(w io.Writer) logger.Options {
	level, _ := logger.ParseLevel(c.Log.Level)
	return logger.Options{Enabled: c.Log.Enabled, Level: level, Format: c.Log.Format, Writer: w}
}
