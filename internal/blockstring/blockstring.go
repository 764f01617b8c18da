// Package blockstring normalizes the raw inner value of a BlockString token
// by stripping common leading indentation and leading/trailing blank lines,
// per the GraphQL spec's BlockStringValue() algorithm.
//
// This is deliberately NOT called from internal/lexer.Advance: spec.md's
// Non-goals exclude indentation normalization from the lexer itself,
// describing it as "a separate post-process". Every real GraphQL toolchain
// ships that post-process anyway (graphql-js's blockStringValue), so it
// lives here as a pure function a parser or formatter can opt into.
package blockstring

import "strings"

// Value computes the normalized value of a block string's raw inner bytes
// (the BlockString token's Value, i.e. already stripped of the enclosing
// triple quotes).
func Value(raw []byte) string {
	lines := splitLines(string(raw))

	commonIndent := -1
	for i, line := range lines {
		if i == 0 {
			continue
		}
		indent := leadingWhitespace(line)
		if indent == len(line) {
			// Blank (or whitespace-only) line; does not count toward the
			// common indent.
			continue
		}
		if commonIndent == -1 || indent < commonIndent {
			commonIndent = indent
		}
	}

	if commonIndent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= commonIndent {
				lines[i] = lines[i][commonIndent:]
			} else {
				lines[i] = ""
			}
		}
	}

	// Trim leading blank lines.
	start := 0
	for start < len(lines) && isBlank(lines[start]) {
		start++
	}

	// Trim trailing blank lines.
	end := len(lines)
	for end > start && isBlank(lines[end-1]) {
		end--
	}

	return strings.Join(lines[start:end], "\n")
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func leadingWhitespace(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

func isBlank(s string) bool {
	return leadingWhitespace(s) == len(s)
}
