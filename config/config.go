// Package config loads server configuration (TOML) and the seed file (YAML)
// that declares shift hours, ladder settings, rules and a demo roster.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/warp/workforce-portal/breaks"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Distribution DistributionConfig `toml:"distribution"`
}

// ServerConfig holds HTTP settings
type ServerConfig struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// DatabaseConfig holds storage settings
type DatabaseConfig struct {
	Path     string `toml:"path"`
	SeedFile string `toml:"seed_file"`
}

// DistributionConfig holds engine settings
type DistributionConfig struct {
	DefaultStrategy  string `toml:"default_strategy"`
	ApplyConcurrency int    `toml:"apply_concurrency"`
	// AutoSchedule is a 5-field cron spec. Empty disables auto distribution.
	AutoSchedule   string `toml:"auto_schedule"`
	AutoDepartment string `toml:"auto_department"`
	// PreviewTTLMinutes bounds how long a preview can still be applied.
	PreviewTTLMinutes int `toml:"preview_ttl_minutes"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Database: DatabaseConfig{
			Path: "workforce.db",
		},
		Distribution: DistributionConfig{
			DefaultStrategy:   string(breaks.DefaultStrategy),
			ApplyConcurrency:  breaks.DefaultApplyConcurrency,
			PreviewTTLMinutes: 30,
		},
	}
}

// Load reads configuration from a TOML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Database.SeedFile = ExpandPath(cfg.Database.SeedFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if _, err := breaks.ParseStrategyName(c.Distribution.DefaultStrategy); err != nil {
		return fmt.Errorf("distribution.default_strategy: %w", err)
	}
	if c.Distribution.ApplyConcurrency < 0 {
		return fmt.Errorf("distribution.apply_concurrency cannot be negative")
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
