package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	Registry RegistryConfig `yaml:"registry,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Watcher  WatcherConfig  `yaml:"watcher,omitempty"`
	AI       AIConfig       `yaml:"ai,omitempty"`
}

// RegistryConfig controls where decorator definitions are loaded from.
type RegistryConfig struct {
	// Dir is the base directory scanned for definition documents.
	// Conventional subfolders: core/ (built-in), extensions/ (site-local).
	// The PROMPTDECO_REGISTRY_DIR environment variable overrides it.
	Dir string `yaml:"dir,omitempty"`
	// Strict makes unknown decorator names in annotated text an error
	// instead of a logged skip.
	Strict bool `yaml:"strict,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// WatcherConfig controls the definition hot-reload poll loop.
type WatcherConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	Interval string `yaml:"interval,omitempty"` // e.g. "30s"
}

// AIConfig configures the OpenAI-compatible provider used by `preview`.
type AIConfig struct {
	Provider string `yaml:"provider,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			Dir: "registry",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Watcher: WatcherConfig{
			Enabled:  false,
			Interval: "30s",
		},
	}
}

// RegistryDir returns the effective definition directory, applying the
// environment override and resolving relative paths against the executable
// directory.
func (c *Config) RegistryDir() string {
	dir := c.Registry.Dir
	if env := os.Getenv("PROMPTDECO_REGISTRY_DIR"); env != "" {
		dir = env
	}
	if dir == "" {
		dir = "registry"
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	// Prefer the working directory in dev mode, fall back to the exe dir
	if _, err := os.Stat(dir); err == nil {
		return dir
	}
	return filepath.Join(getExecutableDir(), dir)
}

func ConfigPath() string {
	if env := os.Getenv("PROMPTDECO_CONFIG"); env != "" {
		return env
	}
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".promptdeco.yaml")
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}
