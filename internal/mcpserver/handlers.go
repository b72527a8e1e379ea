package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/promptdeco/promptdeco/internal/decorator"
	"github.com/promptdeco/promptdeco/internal/engine"
)

// Summary is the wire shape of a decorator definition. Transformation
// rules are deliberately omitted: clients annotate text, they don't
// execute rules.
type Summary struct {
	Name        string         `json:"name"`
	Version     string         `json:"version,omitempty"`
	Category    string         `json:"category,omitempty"`
	Description string         `json:"description,omitempty"`
	Parameters  []ParamSummary `json:"parameters,omitempty"`
}

type ParamSummary struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Default     any      `json:"default,omitempty"`
	EnumValues  []string `json:"enum_values,omitempty"`
}

type handlers struct {
	reg    *decorator.Registry
	engine *engine.Engine
}

func summarize(def *decorator.Definition) Summary {
	s := Summary{
		Name:        def.Name,
		Version:     def.Version,
		Category:    def.Category,
		Description: def.Description,
	}
	for _, p := range def.Parameters {
		s.Parameters = append(s.Parameters, ParamSummary{
			Name:        p.Name,
			Type:        string(p.Type),
			Description: p.Description,
			Required:    p.Required,
			Default:     p.Default,
			EnumValues:  p.EnumValues,
		})
	}
	return s
}

func (h *handlers) listDecorators(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	defs := h.reg.List()
	summaries := make([]Summary, 0, len(defs))
	for _, def := range defs {
		summaries = append(summaries, summarize(def))
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode decorators: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handlers) getDecorator(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, ok := req.Params.Arguments["name"].(string)
	if !ok {
		return mcp.NewToolResultError("name is required"), nil
	}

	def, ok := h.reg.Get(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("decorator not found: %s", name)), nil
	}

	data, err := json.MarshalIndent(summarize(def), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode decorator: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handlers) applyDecorators(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, ok := req.Params.Arguments["text"].(string)
	if !ok {
		return mcp.NewToolResultError("text is required"), nil
	}

	out, applied, err := h.engine.ApplyAnnotations(text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := struct {
		Text    string   `json:"text"`
		Applied []string `json:"applied"`
	}{Text: out, Applied: applied}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
