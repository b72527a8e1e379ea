package decorator

import (
	"fmt"
	"strings"
)

// ParamType is the declared type of a decorator parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
	TypeEnum    ParamType = "enum"
)

// Placement controls how a template's instruction block combines with the
// input text.
type Placement string

const (
	PlacePrepend Placement = "prepend"
	PlaceAppend  Placement = "append"
	PlaceReplace Placement = "replace"
)

// Composition controls what happens when the same decorator appears more
// than once in one annotated text.
type Composition string

const (
	ComposeAccumulate Composition = "accumulate"
	ComposeOverride   Composition = "override"
)

// ParameterSpec describes one parameter of a decorator.
type ParameterSpec struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any
	Min         *float64
	Max         *float64
	MinLength   *int
	MaxLength   *int
	Pattern     string
	EnumValues  []string
}

// ParamMapping maps a resolved parameter value to instruction text.
// Exactly one of ValueMap or Format is used: ValueMap looks the value's
// string form up, Format substitutes it into the {value} placeholder.
type ParamMapping struct {
	ValueMap map[string]string
	Format   string
}

// TemplateSpec is the declarative transformation rule.
type TemplateSpec struct {
	Instruction         string
	ParameterMapping    map[string]ParamMapping
	Placement           Placement
	CompositionBehavior Composition
}

// TransformSpec is a tagged variant: a declarative template or the name of
// a registered native rule function. Exactly one is set.
type TransformSpec struct {
	Template *TemplateSpec
	Function string
}

// Definition is the registered schema and transformation rule for one
// decorator. Definitions are read-only after registration; per-call state
// lives in the invocation, never here.
type Definition struct {
	Name        string
	Version     string
	Category    string
	Description string
	Parameters  []ParameterSpec
	Transform   TransformSpec
}

// Param returns the spec for a parameter name, or nil.
func (d *Definition) Param(name string) *ParameterSpec {
	for i := range d.Parameters {
		if d.Parameters[i].Name == name {
			return &d.Parameters[i]
		}
	}
	return nil
}

var validTypes = map[ParamType]bool{
	TypeString:  true,
	TypeInteger: true,
	TypeNumber:  true,
	TypeBoolean: true,
	TypeArray:   true,
	TypeEnum:    true,
}

// Validate checks structural invariants of a definition. It is called on
// every path into the registry, programmatic registration included.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("decorator name is required")
	}
	hasTemplate := d.Transform.Template != nil
	hasFunction := d.Transform.Function != ""
	if hasTemplate == hasFunction {
		return fmt.Errorf("decorator %s: exactly one of template or transform_function is required", d.Name)
	}
	if hasTemplate {
		switch d.Transform.Template.Placement {
		case PlacePrepend, PlaceAppend, PlaceReplace:
		default:
			return fmt.Errorf("decorator %s: unsupported placement: %s", d.Name, d.Transform.Template.Placement)
		}
		switch d.Transform.Template.CompositionBehavior {
		case ComposeAccumulate, ComposeOverride:
		default:
			return fmt.Errorf("decorator %s: unsupported composition behavior: %s", d.Name, d.Transform.Template.CompositionBehavior)
		}
	}

	seen := make(map[string]bool, len(d.Parameters))
	for _, p := range d.Parameters {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("decorator %s: parameter name is required", d.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("decorator %s: duplicate parameter: %s", d.Name, p.Name)
		}
		seen[p.Name] = true
		if !validTypes[p.Type] {
			return fmt.Errorf("decorator %s: parameter %s has unsupported type: %s", d.Name, p.Name, p.Type)
		}
		if p.Type == TypeEnum && len(p.EnumValues) == 0 {
			return fmt.Errorf("decorator %s: enum parameter %s has no values", d.Name, p.Name)
		}
	}
	return nil
}
