package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/promptdeco/promptdeco/internal/decorator"
	"github.com/promptdeco/promptdeco/internal/engine"
)

func testHandlers(t *testing.T) *handlers {
	t.Helper()
	reg := decorator.New("")
	if err := reg.Register(&decorator.Definition{
		Name:     "Concise",
		Version:  "1.0.0",
		Category: "style",
		Parameters: []decorator.ParameterSpec{
			{Name: "maxWords", Type: decorator.TypeInteger},
		},
		Transform: decorator.TransformSpec{
			Template: &decorator.TemplateSpec{
				Instruction: "Keep your answer short.",
				ParameterMapping: map[string]decorator.ParamMapping{
					"maxWords": {Format: "Use at most {value} words."},
				},
				Placement:           decorator.PlacePrepend,
				CompositionBehavior: decorator.ComposeAccumulate,
			},
		},
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return &handlers{reg: reg, engine: engine.New(reg)}
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return tc.Text
}

func TestListDecorators(t *testing.T) {
	h := testHandlers(t)

	result, err := h.listDecorators(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("listDecorators: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result)
	}

	var summaries []Summary
	if err := json.Unmarshal([]byte(textContent(t, result)), &summaries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "Concise" {
		t.Fatalf("summaries = %+v", summaries)
	}
	if len(summaries[0].Parameters) != 1 || summaries[0].Parameters[0].Type != "integer" {
		t.Fatalf("parameters = %+v", summaries[0].Parameters)
	}
}

func TestGetDecorator(t *testing.T) {
	h := testHandlers(t)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"name": "Concise"}
	result, err := h.getDecorator(context.Background(), req)
	if err != nil {
		t.Fatalf("getDecorator: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error")
	}
	if !strings.Contains(textContent(t, result), "\"category\": \"style\"") {
		t.Fatalf("summary missing category: %s", textContent(t, result))
	}

	req.Params.Arguments = map[string]any{"name": "Missing"}
	result, err = h.getDecorator(context.Background(), req)
	if err != nil {
		t.Fatalf("getDecorator: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected not-found tool error")
	}
}

func TestApplyDecorators(t *testing.T) {
	h := testHandlers(t)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"text": "+++Concise(maxWords=50)\nExplain quantum entanglement",
	}
	result, err := h.applyDecorators(context.Background(), req)
	if err != nil {
		t.Fatalf("applyDecorators: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textContent(t, result))
	}

	var payload struct {
		Text    string   `json:"text"`
		Applied []string `json:"applied"`
	}
	if err := json.Unmarshal([]byte(textContent(t, result)), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(payload.Text, "Use at most 50 words.") {
		t.Fatalf("text = %q", payload.Text)
	}
	if len(payload.Applied) != 1 || payload.Applied[0] != "Concise" {
		t.Fatalf("applied = %v", payload.Applied)
	}

	// Missing text argument
	result, err = h.applyDecorators(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("applyDecorators: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected tool error for missing text")
	}
}
