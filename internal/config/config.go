// Package config loads the arbor workspace configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Semantic  SemanticConfig  `yaml:"semantic"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
}

type WorkspaceConfig struct {
	Name   string        `yaml:"name"`
	Vaults []VaultConfig `yaml:"vaults"`
}

type VaultConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type SemanticConfig struct {
	// Model names the notes convention; "dotted" is the reference model.
	Model string `yaml:"model"`
	// WikiLinkFormat is "alias-first" or "target-first".
	WikiLinkFormat string `yaml:"wikilink_format"`
}

type CacheConfig struct {
	// Path of the snapshot database. Empty selects a per-workspace file
	// under the user cache directory.
	Path         string        `yaml:"path"`
	SaveInterval time.Duration `yaml:"save_interval"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Name: "arbor",
			Vaults: []VaultConfig{
				{Name: "main", Path: "."},
			},
		},
		Semantic: SemanticConfig{
			Model:          "dotted",
			WikiLinkFormat: "alias-first",
		},
		Cache: CacheConfig{
			SaveInterval: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration using the real environment.
func Load() (*Config, error) {
	return LoadWithEnv(os.Getenv)
}

// LoadWithEnv loads configuration using the provided environment lookup
// function. This allows tests to provide isolated environment values.
func LoadWithEnv(getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPathWithEnv(getenv)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment variables override config file
	if cache := getenv("ARBOR_CACHE"); cache != "" {
		cfg.Cache.Path = cache
	}

	if len(cfg.Workspace.Vaults) == 0 {
		return nil, fmt.Errorf("config declares no vaults")
	}
	return cfg, nil
}

// CachePath resolves the snapshot location, defaulting to a
// per-workspace file under the user cache directory.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "arbor", c.Workspace.Name+".db")
}

func getConfigPathWithEnv(getenv func(string) string) string {
	if explicit := getenv("ARBOR_CONFIG"); explicit != "" {
		return explicit
	}
	if xdgConfig := getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "arbor", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "arbor", "config.yaml")
}
