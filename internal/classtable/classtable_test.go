package classtable

import (
	"testing"

	"github.com/holla2040/graphql-lexer/internal/token"
)

func TestPunctuatorKinds(t *testing.T) {
	cases := map[byte]token.Kind{
		'!': token.Bang, '$': token.Dollar, '&': token.Ampersand,
		'(': token.LParen, ')': token.RParen, ':': token.Colon,
		'=': token.Equal, '@': token.At, '[': token.LBracket,
		']': token.RBracket, '{': token.LBrace, '|': token.Pipe,
		'}': token.RBrace,
	}
	for b, want := range cases {
		if !IsPunctuator[b] {
			t.Errorf("IsPunctuator[%q] = false, want true", b)
		}
		if PunctuatorKind[b] != want {
			t.Errorf("PunctuatorKind[%q] = %s, want %s", b, PunctuatorKind[b], want)
		}
	}
	// '.' is classified as a punctuator but its kind is resolved by the
	// scanner's spread lookahead, not this table.
	if !IsPunctuator['.'] {
		t.Errorf("IsPunctuator['.'] = false, want true")
	}
}

func TestIsDigit(t *testing.T) {
	for b := byte('0'); b <= '9'; b++ {
		if !IsDigit[b] || !IsDigitOrMinus[b] {
			t.Errorf("digit %q misclassified", b)
		}
	}
	if !IsDigitOrMinus['-'] {
		t.Error("'-' should be IsDigitOrMinus")
	}
	if IsDigit['-'] {
		t.Error("'-' should not be IsDigit")
	}
}

func TestIsLetterOrUnderscore(t *testing.T) {
	for _, b := range []byte{'A', 'Z', 'a', 'z', '_'} {
		if !IsLetterOrUnderscore[b] || !IsLetterOrDigitOrUnderscore[b] {
			t.Errorf("%q should start/continue a name", b)
		}
	}
	if IsLetterOrUnderscore['0'] {
		t.Error("'0' should not start a name")
	}
	if !IsLetterOrDigitOrUnderscore['0'] {
		t.Error("'0' should continue a name")
	}
}

func TestIsEscapeCharacter(t *testing.T) {
	for _, b := range []byte{'"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u'} {
		if !IsEscapeCharacter[b] {
			t.Errorf("%q should be a valid escape character", b)
		}
	}
	if IsEscapeCharacter['x'] {
		t.Error("'x' should not be a valid escape character")
	}
}

func TestIsControlCharacter(t *testing.T) {
	if IsControlCharacter[0x09] {
		t.Error("tab should not be a control character")
	}
	if !IsControlCharacter[0x00] || !IsControlCharacter[0x1F] || !IsControlCharacter[0x7F] {
		t.Error("0x00/0x1F/0x7F should be control characters")
	}
	if !IsControlCharacter[0x0A] || !IsControlCharacter[0x0D] {
		t.Error("LF/CR should be control characters in IsControlCharacter")
	}
	if IsControlCharacterNoNewLine[0x0A] || IsControlCharacterNoNewLine[0x0D] {
		t.Error("LF/CR should not be control characters in IsControlCharacterNoNewLine")
	}
	if IsControlCharacterNoNewLine[0x09] {
		t.Error("tab should not be a control character")
	}
	if !IsControlCharacterNoNewLine[0x01] {
		t.Error("0x01 should be a control character in IsControlCharacterNoNewLine")
	}
}
