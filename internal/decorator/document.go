package decorator

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// document is the raw on-disk shape of a definition source document. It
// accepts both historical field spellings (enum vs enum_values, type vs
// type_) and is normalized into the canonical Definition immediately after
// parsing; nothing downstream ever sees this struct.
type document struct {
	Name        string        `yaml:"name" json:"name"`
	Version     string        `yaml:"version,omitempty" json:"version,omitempty"`
	Category    string        `yaml:"category,omitempty" json:"category,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Parameters  []paramDoc    `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Template    *templateDoc  `yaml:"template,omitempty" json:"template,omitempty"`
	Function    string        `yaml:"transform_function,omitempty" json:"transformFunction,omitempty"`
}

type paramDoc struct {
	Name        string   `yaml:"name" json:"name"`
	Type        string   `yaml:"type,omitempty" json:"type,omitempty"`
	TypeLegacy  string   `yaml:"type_,omitempty" json:"type_,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Default     any      `yaml:"default,omitempty" json:"default,omitempty"`
	Min         *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	MinLength   *int     `yaml:"min_length,omitempty" json:"minLength,omitempty"`
	MaxLength   *int     `yaml:"max_length,omitempty" json:"maxLength,omitempty"`
	Pattern     string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Enum        []string `yaml:"enum,omitempty" json:"enum,omitempty"`
	EnumValues  []string `yaml:"enum_values,omitempty" json:"enum_values,omitempty"`
}

type templateDoc struct {
	Instruction         string                `yaml:"instruction" json:"instruction"`
	ParameterMapping    map[string]mappingDoc `yaml:"parameterMapping,omitempty" json:"parameterMapping,omitempty"`
	Placement           string                `yaml:"placement,omitempty" json:"placement,omitempty"`
	CompositionBehavior string                `yaml:"compositionBehavior,omitempty" json:"compositionBehavior,omitempty"`
}

type mappingDoc struct {
	ValueMap map[string]string `yaml:"valueMap,omitempty" json:"valueMap,omitempty"`
	Format   string            `yaml:"format,omitempty" json:"format,omitempty"`
}

// ParseDocument parses a single definition source document. Format is
// selected by extension: ".json" uses encoding/json, everything else YAML.
func ParseDocument(data []byte, ext string) (*Definition, error) {
	var doc document
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse definition document: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse definition document: %w", err)
		}
	}
	return doc.normalize()
}

// normalize converts the raw document into the canonical Definition shape
// and validates it.
func (doc *document) normalize() (*Definition, error) {
	def := &Definition{
		Name:        strings.TrimSpace(doc.Name),
		Version:     strings.TrimSpace(doc.Version),
		Category:    doc.Category,
		Description: doc.Description,
	}

	for _, p := range doc.Parameters {
		spec := ParameterSpec{
			Name:        strings.TrimSpace(p.Name),
			Description: p.Description,
			Required:    p.Required,
			Default:     p.Default,
			Min:         p.Min,
			Max:         p.Max,
			MinLength:   p.MinLength,
			MaxLength:   p.MaxLength,
			Pattern:     p.Pattern,
		}

		typ := p.Type
		if typ == "" {
			typ = p.TypeLegacy
		}
		spec.Type = ParamType(strings.ToLower(strings.TrimSpace(typ)))

		// enum_values takes precedence over the legacy enum field
		spec.EnumValues = p.EnumValues
		if len(spec.EnumValues) == 0 {
			spec.EnumValues = p.Enum
		}
		// A values list implies the enum type even when the document
		// declared "string"
		if len(spec.EnumValues) > 0 && spec.Type == TypeString {
			spec.Type = TypeEnum
		}
		if spec.Type == "" {
			spec.Type = TypeString
		}

		def.Parameters = append(def.Parameters, spec)
	}

	if doc.Template != nil {
		tpl := &TemplateSpec{
			Instruction:         doc.Template.Instruction,
			Placement:           Placement(strings.ToLower(strings.TrimSpace(doc.Template.Placement))),
			CompositionBehavior: Composition(strings.ToLower(strings.TrimSpace(doc.Template.CompositionBehavior))),
		}
		if tpl.Placement == "" {
			tpl.Placement = PlacePrepend
		}
		if tpl.CompositionBehavior == "" {
			tpl.CompositionBehavior = ComposeAccumulate
		}
		if len(doc.Template.ParameterMapping) > 0 {
			tpl.ParameterMapping = make(map[string]ParamMapping, len(doc.Template.ParameterMapping))
			for name, m := range doc.Template.ParameterMapping {
				tpl.ParameterMapping[name] = ParamMapping{ValueMap: m.ValueMap, Format: m.Format}
			}
		}
		def.Transform.Template = tpl
	}
	def.Transform.Function = strings.TrimSpace(doc.Function)

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}
