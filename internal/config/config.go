// Package config loads the gowick configuration: defaults, then an optional
// YAML file, then GOWICK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/gowick"
	"github.com/njchilds90/gowick/models"
	"github.com/njchilds90/gowick/termstore"
)

// Config holds all settings of the CLI and the MCP server.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Store  StoreConfig  `yaml:"store"`
	Engine EngineConfig `yaml:"engine"`
	MCP    MCPConfig    `yaml:"mcp"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"GOWICK_LOG_LEVEL"`
	Format string `yaml:"format" env:"GOWICK_LOG_FORMAT"`
}

// StoreConfig locates the term matrices on disk.
type StoreConfig struct {
	Dir     string `yaml:"dir" env:"GOWICK_STORE_DIR"`
	Format  string `yaml:"format" env:"GOWICK_STORE_FORMAT"`
	XP      bool   `yaml:"xp" env:"GOWICK_STORE_XP"`
	StartAt int    `yaml:"start_at" env:"GOWICK_STORE_START_AT"`
	Archive string `yaml:"archive" env:"GOWICK_STORE_ARCHIVE"`
}

// EngineConfig controls expansion runs.
type EngineConfig struct {
	Model      string   `yaml:"model" env:"GOWICK_MODEL"`
	Workers    int      `yaml:"workers" env:"GOWICK_WORKERS"`
	ClearEtas  bool     `yaml:"clear_etas" env:"GOWICK_CLEAR_ETAS"`
	Symmetries []string `yaml:"symmetries" env:"GOWICK_SYMMETRIES" envSeparator:";"`
}

type MCPConfig struct {
	Transport string `yaml:"transport" env:"GOWICK_MCP_TRANSPORT"`
	Addr      string `yaml:"addr" env:"GOWICK_MCP_ADDR"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "json"},
		Store:  StoreConfig{Dir: "data", Format: "bin"},
		Engine: EngineConfig{Model: "bcs", Workers: 4},
		MCP:    MCPConfig{Transport: "stdio", Addr: ":8080"},
	}
}

// Load reads path (a missing file means defaults) and applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that are parsed lazily elsewhere.
func (c *Config) Validate() error {
	if _, err := termstore.ParseFormat(c.Store.Format); err != nil {
		return fmt.Errorf("store.format: %w", err)
	}
	if c.Store.StartAt < 0 {
		return fmt.Errorf("store.start_at must not be negative, got %d", c.Store.StartAt)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative, got %d", c.Engine.Workers)
	}
	if c.Engine.Model != "" {
		if _, err := models.ByName(c.Engine.Model); err != nil {
			return fmt.Errorf("engine.model: %w", err)
		}
	}
	if _, err := gowick.ParseSymmetries(c.Engine.Symmetries); err != nil {
		return fmt.Errorf("engine.symmetries: %w", err)
	}
	switch strings.ToLower(c.MCP.Transport) {
	case "stdio", "http":
	default:
		return fmt.Errorf("mcp.transport must be stdio or http, got %q", c.MCP.Transport)
	}
	return nil
}

// FileStore builds the term store described by the store section.
func (s StoreConfig) FileStore() (*termstore.FileStore, error) {
	format, err := termstore.ParseFormat(s.Format)
	if err != nil {
		return nil, err
	}
	return &termstore.FileStore{Dir: s.Dir, XP: s.XP, Format: format, StartAt: s.StartAt}, nil
}
