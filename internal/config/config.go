// Package config loads the chronoplan YAML configuration file.
//
// Values are layered: Default, then the file, then command-line flags (applied
// by the caller). A missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	cperrors "github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
)

// DefaultPath is the file looked for when --config is not given.
const DefaultPath = "chronoplan.yaml"

// DefaultYAML documents every key with its default value.
const DefaultYAML = `# chronoplan configuration

# SQLite database holding reading plans. Leave empty to serve the built-in
# seed plans from memory.
database: ""

log:
  level: info        # debug, info, warn, error
  format: text       # text or json
  file: ""           # optional log file, rotated by size
  max_size_mb: 10
  max_backups: 3

server:
  port: 8080
  allowed_origins: []
  cache_ttl: 30s
  rate_limit_per_minute: 0   # 0 disables rate limiting
  rate_limit_burst: 10

defaults:
  dating_system: conservative
`

// Config is the parsed configuration file.
type Config struct {
	Database string         `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	RateLimit      int           `yaml:"rate_limit_per_minute"`
	RateBurst      int           `yaml:"rate_limit_burst"`
}

// DefaultsConfig holds values used when a request leaves them out.
type DefaultsConfig struct {
	DatingSystem string `yaml:"dating_system"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Server: ServerConfig{
			Port:      8080,
			CacheTTL:  30 * time.Second,
			RateBurst: 10,
		},
		Defaults: DefaultsConfig{
			DatingSystem: string(plan.Conservative),
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, cperrors.NewIO("read config", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		var pe *cperrors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, cperrors.NewParse("config", "", err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return cperrors.NewValidation("log.level", c.Log.Level, "must be debug, info, warn or error")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return cperrors.NewValidation("log.format", c.Log.Format, "must be text or json")
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return cperrors.NewValidation("log", fmt.Sprintf("%d/%d", c.Log.MaxSizeMB, c.Log.MaxBackups), "rotation limits cannot be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return cperrors.NewValidation("server.port", fmt.Sprint(c.Server.Port), "must be between 0 and 65535")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return cperrors.NewValidation("server.rate_limit", fmt.Sprintf("%d/%d", c.Server.RateLimit, c.Server.RateBurst), "cannot be negative")
	}
	if c.Server.CacheTTL < 0 {
		return cperrors.NewValidation("server.cache_ttl", c.Server.CacheTTL.String(), "cannot be negative")
	}
	if _, err := plan.ParseDatingSystem(c.Defaults.DatingSystem); err != nil {
		return err
	}
	return nil
}

// DatingSystem returns the configured default dating system.
func (c *Config) DatingSystem() plan.DatingSystem {
	ds, err := plan.ParseDatingSystem(c.Defaults.DatingSystem)
	if err != nil {
		return plan.Conservative
	}
	return ds
}
