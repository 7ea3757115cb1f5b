package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// mockEnv creates an environment lookup function from a map.
func mockEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	if cfg.Workspace.Name != "arbor" {
		t.Errorf("Workspace.Name = %q, want arbor", cfg.Workspace.Name)
	}
	if len(cfg.Workspace.Vaults) != 1 || cfg.Workspace.Vaults[0].Name != "main" {
		t.Errorf("Vaults = %+v, want single main vault", cfg.Workspace.Vaults)
	}
	if cfg.Semantic.Model != "dotted" {
		t.Errorf("Semantic.Model = %q, want dotted", cfg.Semantic.Model)
	}
	if cfg.Semantic.WikiLinkFormat != "alias-first" {
		t.Errorf("WikiLinkFormat = %q, want alias-first", cfg.Semantic.WikiLinkFormat)
	}
	if cfg.Cache.SaveInterval != 30*time.Second {
		t.Errorf("Cache.SaveInterval = %v, want 30s", cfg.Cache.SaveInterval)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
workspace:
  name: myvault
  vaults:
    - name: notes
      path: /work/notes
    - name: wiki
      path: /work/wiki
semantic:
  model: dotted
  wikilink_format: target-first
cache:
  path: /tmp/arbor-cache.db
  save_interval: 1m
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadWithEnv(mockEnv(map[string]string{"ARBOR_CONFIG": configPath}))
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if cfg.Workspace.Name != "myvault" {
		t.Errorf("Name = %q, want myvault", cfg.Workspace.Name)
	}
	if len(cfg.Workspace.Vaults) != 2 || cfg.Workspace.Vaults[1].Name != "wiki" {
		t.Errorf("Vaults = %+v", cfg.Workspace.Vaults)
	}
	if cfg.Semantic.WikiLinkFormat != "target-first" {
		t.Errorf("WikiLinkFormat = %q", cfg.Semantic.WikiLinkFormat)
	}
	if cfg.Cache.Path != "/tmp/arbor-cache.db" {
		t.Errorf("Cache.Path = %q", cfg.Cache.Path)
	}
	if cfg.Cache.SaveInterval != time.Minute {
		t.Errorf("SaveInterval = %v, want 1m", cfg.Cache.SaveInterval)
	}
	if cfg.CachePath() != "/tmp/arbor-cache.db" {
		t.Errorf("CachePath() = %q", cfg.CachePath())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadWithEnv(mockEnv(map[string]string{
		"ARBOR_CONFIG": filepath.Join(t.TempDir(), "nope.yaml"),
	}))
	if err != nil {
		t.Fatalf("LoadWithEnv failed: %v", err)
	}
	if cfg.Workspace.Name != "arbor" {
		t.Errorf("missing config should fall back to defaults, got %q", cfg.Workspace.Name)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("workspace: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWithEnv(mockEnv(map[string]string{"ARBOR_CONFIG": configPath})); err == nil {
		t.Error("invalid yaml should fail to load")
	}
}

func TestCacheEnvOverride(t *testing.T) {
	t.Parallel()

	cfg, err := LoadWithEnv(mockEnv(map[string]string{
		"ARBOR_CONFIG": filepath.Join(t.TempDir(), "nope.yaml"),
		"ARBOR_CACHE":  "/custom/cache.db",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.Path != "/custom/cache.db" {
		t.Errorf("Cache.Path = %q, want env override", cfg.Cache.Path)
	}
}
