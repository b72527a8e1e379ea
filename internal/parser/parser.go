// Package parser extracts +++Name(arg=value) decorator invocations from
// annotated prompt text.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Arg is one name=value pair from an invocation's argument list. Order of
// appearance is preserved.
type Arg struct {
	Name  string
	Value any
}

// Invocation is one concrete use of a decorator extracted from text.
type Invocation struct {
	Name    string
	Version string
	Args    []Arg
}

// ArgMap returns the arguments as a map. Later duplicates win, matching
// last-write-wins registry semantics.
func (inv *Invocation) ArgMap() map[string]any {
	m := make(map[string]any, len(inv.Args))
	for _, a := range inv.Args {
		m[a.Name] = a.Value
	}
	return m
}

// ParseOne parses text that consists of exactly one invocation token
// (surrounding whitespace allowed).
func ParseOne(text string) (*Invocation, error) {
	trimmed := strings.TrimSpace(text)
	inv, end, ok := scanToken(trimmed, 0)
	if !ok || !strings.HasPrefix(trimmed, "+++") {
		return nil, fmt.Errorf("not an invocation token: %q", text)
	}
	if strings.TrimSpace(trimmed[end:]) != "" {
		return nil, fmt.Errorf("trailing content after invocation token: %q", trimmed[end:])
	}
	return inv, nil
}

// ExtractAll scans free text for invocation tokens. It returns the
// invocations in order of appearance and the residual text with only the
// matched token spans removed; interleaved prose and newlines survive, and
// the residual is trimmed once at the end. Whether a name is registered is
// not this layer's concern.
func ExtractAll(text string) ([]Invocation, string) {
	var invocations []Invocation
	var residual strings.Builder

	i := 0
	for i < len(text) {
		idx := strings.Index(text[i:], "+++")
		if idx < 0 {
			residual.WriteString(text[i:])
			break
		}
		start := i + idx
		residual.WriteString(text[i:start])

		inv, end, ok := scanToken(text, start)
		if !ok {
			// "+++" not followed by an identifier is ordinary text
			residual.WriteString(text[start : start+3])
			i = start + 3
			continue
		}
		invocations = append(invocations, *inv)
		i = end
	}

	return invocations, strings.TrimSpace(residual.String())
}

// scanToken scans one token beginning at text[start] (which must be "+++").
// It returns the parsed invocation and the index just past the token.
func scanToken(text string, start int) (*Invocation, int, bool) {
	i := start + 3
	if i >= len(text) || !isLetter(text[i]) {
		return nil, start, false
	}

	nameStart := i
	for i < len(text) && isIdentChar(text[i]) {
		i++
	}
	inv := &Invocation{Name: text[nameStart:i]}

	// Optional :vX.Y.Z suffix
	if strings.HasPrefix(text[i:], ":v") && i+2 < len(text) && isDigit(text[i+2]) {
		verStart := i + 2
		j := verStart
		for j < len(text) && isVersionChar(text[j]) {
			j++
		}
		inv.Version = normalizeVersion(text[verStart:j])
		i = j
	}

	// Optional parenthesized argument list; an unclosed paren is not part
	// of the token
	if i < len(text) && text[i] == '(' {
		if body, end, ok := scanParenBody(text, i); ok {
			inv.Args = lexArgs(body)
			i = end
		}
	}

	return inv, i, true
}

// scanParenBody returns the argument text between the paren at text[open]
// and its closing paren, honoring double-quoted strings.
func scanParenBody(text string, open int) (string, int, bool) {
	i := open + 1
	inQuote := false
	for i < len(text) {
		c := text[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(text):
			i++ // skip the escaped character
		case c == '"':
			inQuote = !inQuote
		case c == ')' && !inQuote:
			return text[open+1 : i], i + 1, true
		}
		i++
	}
	return "", open, false
}

// lexArgs splits a raw argument string into ordered name=value pairs.
// Pairs that do not look like key=value are ignored.
func lexArgs(raw string) []Arg {
	var args []Arg
	for _, piece := range splitTopLevel(raw) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		eq := strings.Index(piece, "=")
		if eq <= 0 {
			continue
		}
		name := strings.TrimSpace(piece[:eq])
		value := strings.TrimSpace(piece[eq+1:])
		args = append(args, Arg{Name: name, Value: lexValue(value)})
	}
	return args
}

// splitTopLevel splits on commas that are not inside double quotes.
func splitTopLevel(raw string) []string {
	var pieces []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(raw):
			cur.WriteByte(c)
			i++
			cur.WriteByte(raw[i])
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ',' && !inQuote:
			pieces = append(pieces, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	pieces = append(pieces, cur.String())
	return pieces
}

// lexValue maps an argument literal to its native representation: quoted
// string, lower-case true/false, numeric literal, else bare string.
func lexValue(raw string) any {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return unquote(raw[1 : len(raw)-1])
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

func unquote(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		out.WriteByte(s[i])
	}
	return out.String()
}

// normalizeVersion canonicalizes a semver-like suffix; non-semver suffixes
// are kept verbatim.
func normalizeVersion(raw string) string {
	if v, err := semver.NewVersion(raw); err == nil {
		return v.String()
	}
	return raw
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c)
}

func isVersionChar(c byte) bool {
	return isIdentChar(c) || c == '.' || c == '-' || c == '+'
}
