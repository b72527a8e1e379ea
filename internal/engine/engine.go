// Package engine is the public entry point: it chains parser, parameter
// resolution and transform execution over annotated prompt text.
package engine

import (
	"fmt"

	"github.com/promptdeco/promptdeco/internal/decorator"
	"github.com/promptdeco/promptdeco/internal/logger"
	"github.com/promptdeco/promptdeco/internal/params"
	"github.com/promptdeco/promptdeco/internal/parser"
	"github.com/promptdeco/promptdeco/internal/transform"
)

// Engine applies decorators from a registry to text. The registry must be
// loaded before concurrent use; the engine itself holds no mutable state.
type Engine struct {
	// Strict makes an unknown decorator name in annotated text an error
	// instead of a logged skip.
	Strict bool

	reg *decorator.Registry
}

// New creates an engine over a registry.
func New(reg *decorator.Registry) *Engine {
	return &Engine{reg: reg}
}

// ApplyAnnotations extracts every invocation from the annotated text and
// applies them in order of appearance, threading each transform's output
// into the next. It returns the final text and the names of the decorators
// actually applied. Decorator-level problems (unknown name, bad
// parameters) skip that invocation and leave the accumulator unchanged;
// only strict mode turns an unknown name into an error.
func (e *Engine) ApplyAnnotations(text string) (string, []string, error) {
	invocations, residual := parser.ExtractAll(text)

	acc := residual
	applied := make([]string, 0, len(invocations))

	for i, inv := range invocations {
		if e.overridden(invocations, i) {
			logger.Debug("[Engine] Decorator %s overridden by a later invocation", inv.Name)
			continue
		}

		def, ok := e.reg.Get(inv.Name)
		if !ok {
			if e.Strict {
				return "", nil, fmt.Errorf("unknown decorator: %s", inv.Name)
			}
			logger.Warn("[Engine] Unknown decorator %s, skipping", inv.Name)
			continue
		}

		resolved, err := params.Resolve(def, inv.ArgMap())
		if err != nil {
			logger.Warn("[Engine] Decorator %s: %v, skipping", inv.Name, err)
			continue
		}

		tr, err := transform.Compile(def, e.reg)
		if err != nil {
			logger.Warn("[Engine] Decorator %s: %v, skipping", inv.Name, err)
			continue
		}

		acc = tr.Apply(acc, params.Values(resolved))
		applied = append(applied, inv.Name)
	}

	return acc, applied, nil
}

// overridden reports whether invocation i is shadowed by a later
// invocation of the same decorator whose template declares override
// composition. Accumulate templates and rule functions run every
// occurrence.
func (e *Engine) overridden(invocations []parser.Invocation, i int) bool {
	def, ok := e.reg.Get(invocations[i].Name)
	if !ok || def.Transform.Template == nil {
		return false
	}
	if def.Transform.Template.CompositionBehavior != decorator.ComposeOverride {
		return false
	}
	for j := i + 1; j < len(invocations); j++ {
		if invocations[j].Name == invocations[i].Name {
			return true
		}
	}
	return false
}

// Apply runs a single decorator directly. Unlike the text-driven path,
// lookup and parameter errors surface to the caller.
func (e *Engine) Apply(name, text string, args map[string]any) (string, error) {
	def, ok := e.reg.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown decorator: %s", name)
	}

	resolved, err := params.Resolve(def, args)
	if err != nil {
		return "", err
	}

	tr, err := transform.Compile(def, e.reg)
	if err != nil {
		return "", err
	}

	return tr.Apply(text, params.Values(resolved)), nil
}

// Decorate wraps a zero-argument text producer, applying the named
// decorator to whatever it returns. This enables decorator-style call
// syntax in host code.
func (e *Engine) Decorate(name string, args map[string]any, fn func() string) (string, error) {
	return e.Apply(name, fn(), args)
}
