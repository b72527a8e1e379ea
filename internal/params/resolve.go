// Package params resolves supplied decorator arguments against a
// definition's parameter specs: defaults, required/unknown enforcement,
// type and constraint checking.
package params

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/promptdeco/promptdeco/internal/decorator"
)

// ErrEmptyEnum reports an enum spec with no allowed values. This is an
// engine error (a broken definition), not a user error.
var ErrEmptyEnum = errors.New("enum parameter has no allowed values")

// Resolved is one validated parameter value for a single invocation. It is
// request-scoped and discarded after the transform runs.
type Resolved struct {
	Name  string
	Value any
	Spec  *decorator.ParameterSpec
}

// Resolve validates supplied arguments against def's parameter specs and
// materializes defaults. It never mutates the definition. The checks run
// in fixed order: required-missing, unknown keys, per-value type and
// constraint checks, then defaults (which pass through the same checks).
func Resolve(def *decorator.Definition, supplied map[string]any) (map[string]Resolved, error) {
	for i := range def.Parameters {
		spec := &def.Parameters[i]
		if !spec.Required {
			continue
		}
		if _, ok := supplied[spec.Name]; !ok {
			return nil, fmt.Errorf("decorator %s: required parameter %q is missing", def.Name, spec.Name)
		}
	}

	for name := range supplied {
		if def.Param(name) == nil {
			return nil, fmt.Errorf("decorator %s: unknown parameter %q", def.Name, name)
		}
	}

	resolved := make(map[string]Resolved, len(def.Parameters))

	// Walk specs in declared order so the first violation reported is
	// deterministic
	for i := range def.Parameters {
		spec := &def.Parameters[i]
		value, ok := supplied[spec.Name]
		if !ok {
			continue
		}
		checked, err := checkValue(spec, value)
		if err != nil {
			return nil, fmt.Errorf("decorator %s: %w", def.Name, err)
		}
		resolved[spec.Name] = Resolved{Name: spec.Name, Value: checked, Spec: spec}
	}

	// Defaults are not exempt from validation
	for i := range def.Parameters {
		spec := &def.Parameters[i]
		if _, ok := resolved[spec.Name]; ok {
			continue
		}
		if spec.Default == nil {
			continue
		}
		checked, err := checkValue(spec, spec.Default)
		if err != nil {
			return nil, fmt.Errorf("decorator %s: invalid default: %w", def.Name, err)
		}
		resolved[spec.Name] = Resolved{Name: spec.Name, Value: checked, Spec: spec}
	}

	return resolved, nil
}

// Values flattens a resolved map into plain name→value form for the
// transform executor.
func Values(resolved map[string]Resolved) map[string]any {
	out := make(map[string]any, len(resolved))
	for name, r := range resolved {
		out[name] = r.Value
	}
	return out
}

// checkValue type-checks then constraint-checks one value against its
// spec, short-circuiting on the first violation.
func checkValue(spec *decorator.ParameterSpec, value any) (any, error) {
	switch spec.Type {
	case decorator.TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, typeErr(spec, "boolean", value)
		}
		return b, nil

	case decorator.TypeInteger:
		n, ok := toFloat(value)
		if !ok || n != math.Trunc(n) {
			return nil, typeErr(spec, "integer", value)
		}
		if err := checkRange(spec, n); err != nil {
			return nil, err
		}
		return int(n), nil

	case decorator.TypeNumber:
		n, ok := toFloat(value)
		if !ok {
			return nil, typeErr(spec, "number", value)
		}
		if err := checkRange(spec, n); err != nil {
			return nil, err
		}
		return n, nil

	case decorator.TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, typeErr(spec, "string", value)
		}
		if err := checkString(spec, s); err != nil {
			return nil, err
		}
		return s, nil

	case decorator.TypeArray:
		switch v := value.(type) {
		case []any:
			return v, nil
		case []string:
			out := make([]any, len(v))
			for i, s := range v {
				out[i] = s
			}
			return out, nil
		default:
			return nil, typeErr(spec, "array", value)
		}

	case decorator.TypeEnum:
		if len(spec.EnumValues) == 0 {
			return nil, fmt.Errorf("parameter %q: %w", spec.Name, ErrEmptyEnum)
		}
		s, ok := value.(string)
		if !ok {
			return nil, typeErr(spec, "enum", value)
		}
		for _, allowed := range spec.EnumValues {
			if s == allowed {
				return s, nil
			}
		}
		return nil, fmt.Errorf("parameter %q: value %q not in enum [%s]",
			spec.Name, s, strings.Join(spec.EnumValues, " "))

	default:
		return nil, fmt.Errorf("parameter %q: unsupported type %s", spec.Name, spec.Type)
	}
}

func typeErr(spec *decorator.ParameterSpec, want string, got any) error {
	return fmt.Errorf("parameter %q: expected %s, got %T (%v)", spec.Name, want, got, got)
}

func checkRange(spec *decorator.ParameterSpec, n float64) error {
	if spec.Min != nil && n < *spec.Min {
		return fmt.Errorf("parameter %q: value %v below minimum %v", spec.Name, n, *spec.Min)
	}
	if spec.Max != nil && n > *spec.Max {
		return fmt.Errorf("parameter %q: value %v above maximum %v", spec.Name, n, *spec.Max)
	}
	return nil
}

func checkString(spec *decorator.ParameterSpec, s string) error {
	if spec.MinLength != nil && len(s) < *spec.MinLength {
		return fmt.Errorf("parameter %q: value %q shorter than %d", spec.Name, s, *spec.MinLength)
	}
	if spec.MaxLength != nil && len(s) > *spec.MaxLength {
		return fmt.Errorf("parameter %q: value %q longer than %d", spec.Name, s, *spec.MaxLength)
	}
	if spec.Pattern != "" {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return fmt.Errorf("parameter %q: invalid pattern %q: %w", spec.Name, spec.Pattern, err)
		}
		if !re.MatchString(s) {
			return fmt.Errorf("parameter %q: value %q does not match pattern %q", spec.Name, s, spec.Pattern)
		}
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
