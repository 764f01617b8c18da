// Package syntaxerror renders lexer.SyntaxError values against a named
// source for human-facing diagnostics: a "Syntax Error: <message>
// (<line>:<column>)" header plus an ASCII caret excerpt pointing at the
// offending column, in the style real GraphQL tooling (and this corpus's
// other hand-rolled parsers) reports lex/parse failures.
package syntaxerror

import (
	"fmt"
	"strings"

	"github.com/holla2040/graphql-lexer/internal/source"
)

// Format renders a syntax error (message at line:column) against src,
// including a one-line excerpt of the
// offending source line with a caret under the reported column.
func Format(src *source.Source, line, column int, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Syntax Error: %s (%d:%d)\n", message, line, column)

	text := lineText(src.Body, line)
	if text == "" {
		return b.String()
	}
	fmt.Fprintf(&b, "\n%s\n", text)
	if column >= 1 {
		b.WriteString(strings.Repeat(" ", column-1))
	}
	b.WriteString("^\n")
	return b.String()
}

// lineText returns the 1-indexed line's text, without its terminator.
func lineText(body []byte, line int) string {
	current := 1
	start := 0
	for i := 0; i < len(body); i++ {
		if current == line {
			switch body[i] {
			case '\n':
				return string(body[start:i])
			case '\r':
				return string(body[start:i])
			}
			continue
		}
		switch body[i] {
		case '\n':
			current++
			start = i + 1
		case '\r':
			current++
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if current == line {
		return string(body[start:])
	}
	return ""
}
