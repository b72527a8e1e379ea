package transform

import (
	"fmt"
	"strings"

	"github.com/promptdeco/promptdeco/internal/decorator"
)

// RegisterBuiltins installs the rule functions that ship with the engine.
// Deployments add their own through Registry.RegisterFunc; definition
// documents reference them by name in transform_function.
func RegisterBuiltins(reg *decorator.Registry) {
	reg.RegisterFunc("uppercase", uppercase)
	reg.RegisterFunc("prefix_lines", prefixLines)
	reg.RegisterFunc("wrap_code_block", wrapCodeBlock)
}

func uppercase(text string, params map[string]any) any {
	return strings.ToUpper(text)
}

// prefixLines prepends each line of the text with the "prefix" parameter
// (default "> ").
func prefixLines(text string, params map[string]any) any {
	prefix := "> "
	if p, ok := params["prefix"].(string); ok && p != "" {
		prefix = p
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// wrapCodeBlock fences the text in a markdown code block, tagged with the
// "language" parameter when present.
func wrapCodeBlock(text string, params map[string]any) any {
	lang := ""
	if l, ok := params["language"].(string); ok {
		lang = l
	}
	return fmt.Sprintf("```%s\n%s\n```", lang, text)
}
