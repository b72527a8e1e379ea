// Package transform turns a definition's transformation rule into an
// executable over (text, resolved params).
package transform

import (
	"fmt"
	"strings"

	"github.com/promptdeco/promptdeco/internal/decorator"
	"github.com/promptdeco/promptdeco/internal/logger"
)

// Transform is the executable contract both authoring styles normalize to.
// Apply never fails: a rule-body fault degrades to the unchanged input.
type Transform interface {
	Apply(text string, params map[string]any) string
}

// Compile derives a Transform from a definition. Function references are
// resolved against the registry's rule-function table at compile time so a
// dangling reference surfaces before any text is touched.
func Compile(def *decorator.Definition, reg *decorator.Registry) (Transform, error) {
	if tpl := def.Transform.Template; tpl != nil {
		return &templateTransform{def: def, tpl: tpl}, nil
	}
	if name := def.Transform.Function; name != "" {
		fn, ok := reg.Func(name)
		if !ok {
			return nil, fmt.Errorf("decorator %s: rule function %q is not registered", def.Name, name)
		}
		return &funcTransform{decorator: def.Name, fn: fn}, nil
	}
	return nil, fmt.Errorf("decorator %s: no transformation rule", def.Name)
}

// templateTransform assembles an instruction block from the template and
// combines it with the input text according to the placement policy.
type templateTransform struct {
	def *decorator.Definition
	tpl *decorator.TemplateSpec
}

func (t *templateTransform) Apply(text string, params map[string]any) string {
	fragments := []string{t.tpl.Instruction}

	// Walk parameters in declared order so assembly is deterministic
	for i := range t.def.Parameters {
		name := t.def.Parameters[i].Name
		mapping, ok := t.tpl.ParameterMapping[name]
		if !ok {
			continue
		}
		value, ok := params[name]
		if !ok {
			continue
		}
		if fragment := renderMapping(mapping, value); fragment != "" {
			fragments = append(fragments, fragment)
		}
	}

	block := strings.TrimSpace(strings.Join(nonEmpty(fragments), " "))

	switch t.tpl.Placement {
	case decorator.PlaceAppend:
		if text == "" {
			return block
		}
		return text + "\n\n" + block
	case decorator.PlaceReplace:
		return block
	default: // prepend
		if text == "" {
			return block
		}
		return block + "\n\n" + text
	}
}

// renderMapping produces the instruction fragment for one resolved value:
// the valueMap entry for its string form, or the format string with the
// {value} placeholder substituted.
func renderMapping(m decorator.ParamMapping, value any) string {
	key := fmt.Sprint(value)
	if len(m.ValueMap) > 0 {
		return m.ValueMap[key]
	}
	if m.Format != "" {
		return strings.ReplaceAll(m.Format, "{value}", key)
	}
	return ""
}

func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// funcTransform executes a native rule function, isolating failures: a
// panic is logged with the decorator's name and the input text is returned
// unchanged. Non-string results are coerced to string.
type funcTransform struct {
	decorator string
	fn        decorator.RuleFunc
}

func (t *funcTransform) Apply(text string, params map[string]any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("[Transform] Decorator %s failed: %v", t.decorator, r)
			out = text
		}
	}()

	result := t.fn(text, params)
	if s, ok := result.(string); ok {
		return s
	}
	return fmt.Sprint(result)
}
