package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReadsRegistrySection(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, ".promptdeco.yaml")
	content := `registry:
  dir: "/srv/decorators"
  strict: true
logging:
  level: debug
watcher:
  enabled: true
  interval: 10s
ai:
  provider: openai
  model: gpt-4o-mini
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PROMPTDECO_CONFIG", cfgPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Registry.Dir != "/srv/decorators" {
		t.Fatalf("registry dir = %q", cfg.Registry.Dir)
	}
	if !cfg.Registry.Strict {
		t.Fatalf("expected strict mode")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging level = %q", cfg.Logging.Level)
	}
	if !cfg.Watcher.Enabled || cfg.Watcher.Interval != "10s" {
		t.Fatalf("watcher config = %+v", cfg.Watcher)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Fatalf("ai model = %q", cfg.AI.Model)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("PROMPTDECO_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Registry.Dir != "registry" {
		t.Fatalf("default registry dir = %q", cfg.Registry.Dir)
	}
	if cfg.Watcher.Interval != "30s" {
		t.Fatalf("default watcher interval = %q", cfg.Watcher.Interval)
	}
}

func TestRegistryDirEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("PROMPTDECO_REGISTRY_DIR", tmp)

	cfg := DefaultConfig()
	if got := cfg.RegistryDir(); got != tmp {
		t.Fatalf("RegistryDir = %q, want %q", got, tmp)
	}
}
