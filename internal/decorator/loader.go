package decorator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/promptdeco/promptdeco/internal/logger"
)

// Subfolders scanned under the registry base directory, in precedence
// order: extension definitions override built-in ones of the same name.
var sourceSubdirs = []string{"core", "extensions"}

// SourceSubdirs returns the conventional subfolders scanned under a
// registry base directory, in precedence order.
func SourceSubdirs() []string {
	return append([]string(nil), sourceSubdirs...)
}

// Load scans the registry's source directories for definition documents
// and registers each one. Loading is idempotent: once loaded, it is a
// no-op until Clear. A malformed document is logged and skipped; it never
// aborts the rest of the load.
func (r *Registry) Load() error {
	r.mu.Lock()
	if r.loaded {
		r.mu.Unlock()
		return nil
	}
	baseDir := r.baseDir
	if env := os.Getenv("PROMPTDECO_REGISTRY_DIR"); env != "" {
		baseDir = env
	}
	r.loaded = true
	r.mu.Unlock()

	if baseDir == "" {
		logger.Debug("[Registry] No source directory configured, skipping load")
		return nil
	}

	count := 0
	for _, sub := range sourceSubdirs {
		count += r.loadDir(filepath.Join(baseDir, sub))
	}
	// Documents placed directly in the base dir are accepted too
	count += r.loadDir(baseDir)

	logger.Info("[Registry] Loaded %d decorator definitions from %s", count, baseDir)
	return nil
}

// Reload rebuilds the definition set from the source directories into a
// fresh registry and swaps it in under the write lock, so a concurrent
// Get never observes a partially loaded registry.
func (r *Registry) Reload() error {
	r.mu.RLock()
	fresh := New(r.baseDir)
	for name, fn := range r.funcs {
		fresh.funcs[name] = fn
	}
	r.mu.RUnlock()

	if err := fresh.Load(); err != nil {
		return err
	}

	r.mu.Lock()
	r.defs = fresh.defs
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// loadDir registers every parsable definition document in dir (one level,
// one decorator per document). Returns the number registered.
func (r *Registry) loadDir(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Directory doesn't exist or can't be read — skip silently
		return 0
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := r.LoadFromFile(path); err != nil {
			logger.Warn("[Registry] Skipping definition %s: %v", path, err)
			continue
		}
		count++
	}
	return count
}

// LoadFromFile parses and registers a single definition document.
func (r *Registry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	def, err := ParseDocument(data, filepath.Ext(path))
	if err != nil {
		return err
	}

	if def.Version != "" {
		if _, err := semver.NewVersion(def.Version); err != nil {
			logger.Warn("[Registry] Decorator %s has non-semver version %q", def.Name, def.Version)
		}
	}

	return r.Register(def)
}
