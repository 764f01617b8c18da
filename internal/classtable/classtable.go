// Package classtable holds the 256-entry byte classification tables the
// scanner dispatches on. Each table is computed once at package init and is
// safe for concurrent, read-only use by any number of Lexers.
package classtable

import "github.com/holla2040/graphql-lexer/internal/token"

// IsPunctuator reports whether b is one of the single-byte punctuators.
var IsPunctuator [256]bool

// PunctuatorKind maps a single-byte punctuator to its token.Kind. The '.'
// entry is unused: the spread ("...") production is resolved by the
// scanner's own lookahead, not by this table.
var PunctuatorKind [256]token.Kind

// IsDigit reports whether b is an ASCII digit.
var IsDigit [256]bool

// IsDigitOrMinus reports whether b is an ASCII digit or '-'.
var IsDigitOrMinus [256]bool

// IsLetterOrUnderscore reports whether b can start a Name.
var IsLetterOrUnderscore [256]bool

// IsLetterOrDigitOrUnderscore reports whether b can continue a Name.
var IsLetterOrDigitOrUnderscore [256]bool

// IsEscapeCharacter reports whether b is a valid character following a
// backslash inside a string.
var IsEscapeCharacter [256]bool

// IsControlCharacter reports whether b is a control character forbidden in
// a single-line string (bytes below 0x20 other than tab, plus 0x7F).
var IsControlCharacter [256]bool

// IsControlCharacterNoNewLine is IsControlCharacter but additionally
// excludes LF and CR, for use inside block strings where raw newlines are
// legal.
var IsControlCharacterNoNewLine [256]bool

func init() {
	punctuators := map[byte]token.Kind{
		'!': token.Bang,
		'$': token.Dollar,
		'&': token.Ampersand,
		'(': token.LParen,
		')': token.RParen,
		'.': token.Spread,
		':': token.Colon,
		'=': token.Equal,
		'@': token.At,
		'[': token.LBracket,
		']': token.RBracket,
		'{': token.LBrace,
		'|': token.Pipe,
		'}': token.RBrace,
	}
	for b, kind := range punctuators {
		IsPunctuator[b] = true
		PunctuatorKind[b] = kind
	}

	for b := byte('0'); b <= '9'; b++ {
		IsDigit[b] = true
		IsDigitOrMinus[b] = true
		IsLetterOrDigitOrUnderscore[b] = true
	}
	IsDigitOrMinus['-'] = true

	for b := byte('A'); b <= 'Z'; b++ {
		IsLetterOrUnderscore[b] = true
		IsLetterOrDigitOrUnderscore[b] = true
	}
	for b := byte('a'); b <= 'z'; b++ {
		IsLetterOrUnderscore[b] = true
		IsLetterOrDigitOrUnderscore[b] = true
	}
	IsLetterOrUnderscore['_'] = true
	IsLetterOrDigitOrUnderscore['_'] = true

	for _, b := range []byte{'"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u'} {
		IsEscapeCharacter[b] = true
	}

	for b := 0; b < 0x20; b++ {
		if byte(b) == token.Tab {
			continue
		}
		IsControlCharacter[b] = true
		if byte(b) != token.NewLine && byte(b) != token.Return {
			IsControlCharacterNoNewLine[b] = true
		}
	}
	IsControlCharacter[0x7F] = true
	IsControlCharacterNoNewLine[0x7F] = true
}
