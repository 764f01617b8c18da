package syntaxerror

import (
	"strings"
	"testing"

	"github.com/holla2040/graphql-lexer/internal/source"
)

func TestFormatIncludesHeaderAndCaret(t *testing.T) {
	src := source.New("GraphQL request", []byte("{ hero(id: #1) }"))
	got := Format(src, 1, 12, "Unexpected character: \"#\".")

	if !strings.Contains(got, "Syntax Error: Unexpected character: \"#\". (1:12)") {
		t.Errorf("missing header, got %q", got)
	}
	lines := strings.Split(got, "\n")
	var caretLine string
	for _, l := range lines {
		if strings.Contains(l, "^") {
			caretLine = l
		}
	}
	if caretLine == "" {
		t.Fatalf("no caret line found in %q", got)
	}
	if len(caretLine) != 12 || caretLine[11] != '^' {
		t.Errorf("caret not under column 12: %q (len %d)", caretLine, len(caretLine))
	}
}

func TestFormatUnknownLineOmitsExcerpt(t *testing.T) {
	src := source.New("GraphQL request", []byte("{ hero }"))
	got := Format(src, 5, 1, "Unexpected end of file.")
	if strings.Count(got, "\n") != 1 {
		t.Errorf("expected a bare header with no excerpt, got %q", got)
	}
}

func TestLineTextSecondLine(t *testing.T) {
	got := lineText([]byte("{\n  hero\n}"), 2)
	if got != "  hero" {
		t.Errorf("got %q, want %q", got, "  hero")
	}
}

func TestLineTextCRLF(t *testing.T) {
	got := lineText([]byte("a\r\nb\r\nc"), 2)
	if got != "b" {
		t.Errorf("got %q, want %q", got, "b")
	}
}
