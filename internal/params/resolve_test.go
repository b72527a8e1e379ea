package params

import (
	"errors"
	"strings"
	"testing"

	"github.com/promptdeco/promptdeco/internal/decorator"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func toneDef() *decorator.Definition {
	return &decorator.Definition{
		Name: "Tone",
		Parameters: []decorator.ParameterSpec{
			{
				Name:       "style",
				Type:       decorator.TypeEnum,
				Required:   true,
				EnumValues: []string{"formal", "casual", "friendly", "technical", "humorous"},
			},
		},
		Transform: decorator.TransformSpec{
			Template: &decorator.TemplateSpec{
				Instruction:         "Adjust your tone.",
				Placement:           decorator.PlacePrepend,
				CompositionBehavior: decorator.ComposeAccumulate,
			},
		},
	}
}

func TestResolveEnumMembership(t *testing.T) {
	resolved, err := Resolve(toneDef(), map[string]any{"style": "technical"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved["style"].Value != "technical" {
		t.Fatalf("style = %v", resolved["style"].Value)
	}

	_, err = Resolve(toneDef(), map[string]any{"style": "invalid"})
	if err == nil {
		t.Fatalf("expected enum violation")
	}
	msg := err.Error()
	if !strings.Contains(msg, "style") || !strings.Contains(msg, "invalid") || !strings.Contains(msg, "formal") {
		t.Fatalf("error should name the parameter, the value and the constraint: %q", msg)
	}
}

func TestResolveRequiredMissing(t *testing.T) {
	// Other valid parameters do not rescue a missing required one
	def := toneDef()
	def.Parameters = append(def.Parameters, decorator.ParameterSpec{
		Name: "extra", Type: decorator.TypeString,
	})

	_, err := Resolve(def, map[string]any{"extra": "present"})
	if err == nil || !strings.Contains(err.Error(), "style") {
		t.Fatalf("expected missing-required error for style, got %v", err)
	}
}

func TestResolveUnknownParameter(t *testing.T) {
	_, err := Resolve(toneDef(), map[string]any{"style": "formal", "bogus": 1})
	if err == nil || !strings.Contains(err.Error(), "unknown parameter") {
		t.Fatalf("expected unknown-parameter error, got %v", err)
	}
}

func TestResolveDefaultApplied(t *testing.T) {
	def := &decorator.Definition{
		Name: "StepByStep",
		Parameters: []decorator.ParameterSpec{
			{Name: "numbered", Type: decorator.TypeBoolean, Default: true},
		},
	}

	resolved, err := Resolve(def, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved["numbered"].Value != true {
		t.Fatalf("default not applied: %v", resolved["numbered"].Value)
	}
	if resolved["numbered"].Spec == nil || resolved["numbered"].Spec.Name != "numbered" {
		t.Fatalf("resolved value should reference its spec")
	}
}

func TestResolveDefaultIsValidatedToo(t *testing.T) {
	def := &decorator.Definition{
		Name: "Broken",
		Parameters: []decorator.ParameterSpec{
			{
				Name:       "style",
				Type:       decorator.TypeEnum,
				Default:    "nope",
				EnumValues: []string{"a", "b"},
			},
		},
	}

	if _, err := Resolve(def, nil); err == nil {
		t.Fatalf("defaults must pass the same constraint checks")
	}
}

func TestResolveNumericConstraints(t *testing.T) {
	def := &decorator.Definition{
		Name: "Depth",
		Parameters: []decorator.ParameterSpec{
			{Name: "level", Type: decorator.TypeInteger, Min: floatPtr(1), Max: floatPtr(5)},
		},
	}

	resolved, err := Resolve(def, map[string]any{"level": float64(3)})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved["level"].Value != 3 {
		t.Fatalf("whole float should resolve to int 3, got %#v", resolved["level"].Value)
	}

	if _, err := Resolve(def, map[string]any{"level": float64(9)}); err == nil {
		t.Fatalf("expected max violation")
	}
	if _, err := Resolve(def, map[string]any{"level": 2.5}); err == nil {
		t.Fatalf("expected integer type violation for 2.5")
	}
}

func TestResolveStringConstraints(t *testing.T) {
	def := &decorator.Definition{
		Name: "Persona",
		Parameters: []decorator.ParameterSpec{
			{
				Name:      "role",
				Type:      decorator.TypeString,
				MinLength: intPtr(3),
				MaxLength: intPtr(10),
				Pattern:   "^[a-z]+$",
			},
		},
	}

	if _, err := Resolve(def, map[string]any{"role": "pirate"}); err != nil {
		t.Fatalf("valid string rejected: %v", err)
	}
	if _, err := Resolve(def, map[string]any{"role": "ab"}); err == nil {
		t.Fatalf("expected min-length violation")
	}
	if _, err := Resolve(def, map[string]any{"role": "pirate99"}); err == nil {
		t.Fatalf("expected pattern violation")
	}
	if _, err := Resolve(def, map[string]any{"role": 42}); err == nil {
		t.Fatalf("expected type violation")
	}
}

func TestResolveEmptyEnumIsEngineError(t *testing.T) {
	def := &decorator.Definition{
		Name: "Broken",
		Parameters: []decorator.ParameterSpec{
			{Name: "style", Type: decorator.TypeEnum},
		},
	}

	_, err := Resolve(def, map[string]any{"style": "anything"})
	if !errors.Is(err, ErrEmptyEnum) {
		t.Fatalf("expected ErrEmptyEnum, got %v", err)
	}
}

func TestResolveDoesNotMutateDefinition(t *testing.T) {
	def := toneDef()
	before := len(def.Parameters[0].EnumValues)

	_, _ = Resolve(def, map[string]any{"style": "formal"})
	_, _ = Resolve(def, map[string]any{"style": "bad"})

	if len(def.Parameters[0].EnumValues) != before {
		t.Fatalf("definition mutated by resolution")
	}
	if def.Parameters[0].Default != nil {
		t.Fatalf("definition default mutated")
	}
}

func TestValues(t *testing.T) {
	resolved, err := Resolve(toneDef(), map[string]any{"style": "casual"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	vals := Values(resolved)
	if vals["style"] != "casual" {
		t.Fatalf("Values = %v", vals)
	}
}
