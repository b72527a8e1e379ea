package decorator

import (
	"sort"
	"sync"

	"github.com/promptdeco/promptdeco/internal/logger"
)

// RuleFunc is a native rule body: an imperative transformation over the
// input text and the resolved parameter values. The return value is coerced
// to string by the executor; a panic inside a RuleFunc is isolated there
// as well.
type RuleFunc func(text string, params map[string]any) any

// Registry manages decorator definitions. Definitions are read-only once
// registered; Register and Clear are expected to run in single-writer
// windows (startup, tests, a watcher reload cycle).
type Registry struct {
	defs    map[string]*Definition
	funcs   map[string]RuleFunc
	baseDir string
	loaded  bool
	mu      sync.RWMutex
}

// New creates a registry rooted at baseDir. baseDir may be empty when the
// registry is populated only through Register.
func New(baseDir string) *Registry {
	return &Registry{
		defs:    make(map[string]*Definition),
		funcs:   make(map[string]RuleFunc),
		baseDir: baseDir,
	}
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide convenience registry. Hosts that need
// isolation construct their own with New.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New("")
	})
	return defaultRegistry
}

// Register adds a definition, replacing any previous one under the same
// name (last write wins).
func (r *Registry) Register(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		logger.Debug("[Registry] Replacing decorator: %s", def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// RegisterFunc installs a native rule function under a name that
// definitions reference through their transform_function field.
func (r *Registry) RegisterFunc(name string, fn RuleFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Func returns a registered rule function by name.
func (r *Registry) Func(name string) (RuleFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Get returns a definition by exact, case-sensitive name.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// List returns all definitions sorted by name.
func (r *Registry) List() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*Definition, 0, len(r.defs))
	for _, def := range r.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// Clear removes all definitions and resets the loaded flag so the next
// Load rescans. Registered rule functions survive: they are deployment
// wiring, not loadable data.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs = make(map[string]*Definition)
	r.loaded = false
}
