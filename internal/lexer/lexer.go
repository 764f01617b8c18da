// Package lexer implements a hand-rolled, allocation-free, single-pass
// scanner over a UTF-8 GraphQL source buffer. It classifies the buffer into
// punctuators, names, numeric literals, strings, block strings, and
// comments, tracking precise byte/line/column positions for downstream
// parsing and error reporting.
package lexer

import (
	"fmt"

	"github.com/holla2040/graphql-lexer/internal/classtable"
	"github.com/holla2040/graphql-lexer/internal/token"
)

// SyntaxError is raised when a malformed construct is encountered. It
// carries the line/column of the offending byte, except for errors raised
// inside a block string, which carry the block string's starting position.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error: %s (%d:%d)", e.Message, e.Line, e.Column)
}

// Lexer scans a borrowed, read-only byte buffer into a stream of tokens.
// It is strictly single-threaded, performs no I/O, and never copies from or
// mutates the buffer: every Token.Value is a sub-slice view of it that is
// valid only until the next call to Advance.
//
// A Lexer is not restartable or seekable. It is safe to run many Lexers
// concurrently over distinct (or the same, since read-only) buffers; the
// classtable tables are shared immutable state.
type Lexer struct {
	data   []byte
	length int

	position int

	kind        token.Kind
	start, end  int
	value       []byte
	floatFormat token.FloatFormat

	line            int
	lineStart       int
	column          int
	pendingNewLines int

	// strict, when true, turns the open-question behavior of an
	// unterminated single-line string (see Advance's string recognizer)
	// into an UnterminatedString SyntaxError instead of a silent,
	// token-unchanged return.
	strict bool
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// StrictMode makes the single-line string recognizer raise
// UnterminatedString when a raw line terminator appears inside the
// literal, instead of silently exiting without emitting a new token (the
// behavior spec.md documents as an open question carried from the source
// lexer this was modeled on).
func StrictMode() Option {
	return func(l *Lexer) { l.strict = true }
}

// New constructs a Lexer over buffer. buffer must be non-empty; an empty
// buffer raises EmptyInput.
func New(buffer []byte, opts ...Option) (*Lexer, error) {
	if len(buffer) == 0 {
		return nil, &SyntaxError{Line: 1, Column: 1, Message: "EmptyInput: source buffer must not be empty"}
	}
	l := &Lexer{
		data:      buffer,
		length:    len(buffer),
		kind:      token.StartOfFile,
		line:      1,
		lineStart: 0,
		column:    1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Kind returns the kind of the current (most recently produced) token.
func (l *Lexer) Kind() token.Kind { return l.kind }

// Start returns the byte offset of the current token's start.
func (l *Lexer) Start() int { return l.start }

// End returns the byte offset one past the current token's end, except for
// a BlockString, where it is the index of the last closing quote itself.
func (l *Lexer) End() int { return l.end }

// Position returns the cursor: the byte index of the next byte to inspect.
func (l *Lexer) Position() int { return l.position }

// Line returns the 1-indexed line number of the current token's start.
func (l *Lexer) Line() int { return l.line }

// Column returns the 1-indexed column of the current token's start.
func (l *Lexer) Column() int { return l.column }

// LineStart returns the byte index of the first byte of the current line.
func (l *Lexer) LineStart() int { return l.lineStart }

// Value returns the current token's payload as a sub-slice of the source
// buffer. It is empty for punctuators and EndOfFile, and is only valid
// until the next call to Advance.
func (l *Lexer) Value() []byte { return l.value }

// FloatFormat returns the numeric format tag; only meaningful when Kind is
// token.Float.
func (l *Lexer) FloatFormat() token.FloatFormat { return l.floatFormat }

// IsEndOfStream reports whether the cursor has reached the end of the
// buffer.
func (l *Lexer) IsEndOfStream() bool { return l.position >= l.length }

// SetNewLine increments the line counter by one and resets lineStart to the
// current position. It exists so a higher layer (e.g. a block-string
// indentation post-processor) can account for line breaks it discovers
// inside already-scanned token payloads.
func (l *Lexer) SetNewLine() error { return l.SetNewLineN(1) }

// SetNewLineN increments the line counter by n (n >= 1) and resets
// lineStart to the current position.
func (l *Lexer) SetNewLineN(n int) error {
	if n < 1 {
		return &SyntaxError{Line: l.line, Column: l.column, Message: "ArgumentOutOfRange: n must be >= 1"}
	}
	l.line += n
	l.lineStart = l.position
	return nil
}

// UpdateColumn recomputes column from position and lineStart.
func (l *Lexer) UpdateColumn() {
	l.column = 1 + l.position - l.lineStart
}

func (l *Lexer) byteAt(i int) byte {
	if i >= l.length {
		return 0
	}
	return l.data[i]
}

func (l *Lexer) errorAt(line, column int, message string) *SyntaxError {
	return &SyntaxError{Line: line, Column: column, Message: message}
}

// errorAtPos builds a SyntaxError for the byte at pos. It assumes no line
// terminator has been consumed between the current token's start and pos
// (true for every call site below: numbers and single-line strings never
// span a line break, and block-string line breaks are accounted for via
// pendingNewLines rather than lineStart), so line stays l.line and only the
// column advances.
func (l *Lexer) errorAtPos(pos int, message string) *SyntaxError {
	return &SyntaxError{Line: l.line, Column: 1 + pos - l.lineStart, Message: message}
}

// Advance scans and produces the next token, mutating Kind/Start/End/
// Value/Line/Column/FloatFormat to describe it. It returns true when a real
// token was produced, and false exactly when the terminal EndOfFile token
// is produced. Once EndOfFile has been produced, further calls are
// idempotent.
func (l *Lexer) Advance() (bool, error) {
	l.floatFormat = token.NoFloatFormat

	if l.kind == token.EndOfFile {
		return false, nil
	}

	if l.position == 0 {
		l.skipBOM()
	}

	if err := l.skipIgnored(); err != nil {
		return false, err
	}

	l.column = 1 + l.position - l.lineStart

	if l.position >= l.length {
		l.kind = token.EndOfFile
		l.start, l.end = l.position, l.position
		l.value = nil
		return false, nil
	}

	start := l.position
	b := l.data[l.position]

	switch {
	case classtable.IsPunctuator[b]:
		if b == token.Dot {
			if err := l.lexSpread(start); err != nil {
				return false, err
			}
			return true, nil
		}
		l.kind = classtable.PunctuatorKind[b]
		l.start, l.end = start, start+1
		l.value = nil
		l.position++
		return true, nil

	case classtable.IsLetterOrUnderscore[b]:
		l.lexName(start)
		return true, nil

	case classtable.IsDigitOrMinus[b]:
		if err := l.lexNumber(start); err != nil {
			return false, err
		}
		return true, nil

	case b == token.Hash:
		l.lexComment(start)
		return true, nil

	case b == token.Quote:
		if err := l.lexStringOrBlockString(start); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, l.errorAt(l.line, l.column, fmt.Sprintf("UnexpectedCharacter: cannot parse the unexpected character %s", describeByte(b)))
}

func describeByte(b byte) string {
	if b >= 0x20 && b < 0x7F {
		return fmt.Sprintf("%q", string(b))
	}
	return fmt.Sprintf(`"\u%04X"`, b)
}

// skipBOM skips a leading UTF-8 BOM (EF BB BF) or the leading two bytes of
// a UTF-16 BE BOM (FE FF), if present, at position 0.
func (l *Lexer) skipBOM() {
	if l.length >= 3 && l.data[0] == 0xEF && l.data[1] == 0xBB && l.data[2] == 0xBF {
		l.position = 3
		return
	}
	if l.length >= 2 && l.data[0] == 0xFE && l.data[1] == 0xFF {
		l.position = 2
	}
}

// skipIgnored skips insignificant whitespace, commas, and line terminators,
// applying any pendingNewLines accumulated by the block-string recognizer
// first.
func (l *Lexer) skipIgnored() error {
	if l.pendingNewLines > 0 {
		if err := l.SetNewLineN(l.pendingNewLines); err != nil {
			return err
		}
		l.pendingNewLines = 0
	}

	for l.position < l.length {
		b := l.data[l.position]
		switch b {
		case token.Space, token.Tab, token.Comma:
			l.position++
		case token.NewLine:
			l.position++
			l.line++
			l.lineStart = l.position
		case token.Return:
			l.position++
			if l.position < l.length && l.data[l.position] == token.NewLine {
				l.position++
			}
			l.line++
			l.lineStart = l.position
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) lexSpread(start int) error {
	if l.byteAt(start+1) != token.Dot || l.byteAt(start+2) != token.Dot {
		return l.errorAt(l.line, l.column, "InvalidToken: expected Spread token (\"...\"), found lone \".\"")
	}
	l.kind = token.Spread
	l.start, l.end = start, start+3
	l.value = nil
	l.position = start + 3
	return nil
}

func (l *Lexer) lexName(start int) {
	pos := start + 1
	for pos < l.length && classtable.IsLetterOrDigitOrUnderscore[l.data[pos]] {
		pos++
	}
	l.kind = token.Name
	l.start, l.end = start, pos
	l.value = l.data[start:pos]
	l.position = pos
}

// lexNumber implements:
//
//	Number   := '-'? IntPart FracPart? ExpPart?
//	IntPart  := '0' | [1-9] [0-9]*
//	FracPart := '.' [0-9]+
//	ExpPart  := ('e'|'E') ('+'|'-')? [0-9]+
func (l *Lexer) lexNumber(start int) error {
	pos := start
	if l.data[pos] == token.Minus {
		pos++
		if pos >= l.length || !classtable.IsDigit[l.data[pos]] {
			l.position = pos
			return l.errorAtPos(pos, fmt.Sprintf("InvalidNumber: expected digit, found %s", describeByte(l.byteAt(pos))))
		}
	}

	if l.data[pos] == token.Zero {
		pos++
		if pos < l.length && classtable.IsDigit[l.data[pos]] {
			l.position = pos
			return l.errorAtPos(pos, fmt.Sprintf("InvalidNumber: unexpected digit after 0: %s", describeByte(l.data[pos])))
		}
	} else {
		digitsStart := pos
		for pos < l.length && classtable.IsDigit[l.data[pos]] {
			pos++
		}
		if pos == digitsStart {
			l.position = pos
			return l.errorAtPos(pos, fmt.Sprintf("InvalidNumber: expected digit, found %s", describeByte(l.byteAt(pos))))
		}
	}

	isFloat := false

	if pos < l.length && l.data[pos] == token.Dot {
		isFloat = true
		pos++
		digitsStart := pos
		for pos < l.length && classtable.IsDigit[l.data[pos]] {
			pos++
		}
		if pos == digitsStart {
			l.position = pos
			return l.errorAtPos(pos, fmt.Sprintf("InvalidNumber: expected digit after decimal point ('.'), found %s", describeByte(l.byteAt(pos))))
		}
	}

	if pos < l.length && (l.data[pos] == token.E || l.data[pos] == 'E') {
		isFloat = true
		pos++
		if pos < l.length && (l.data[pos] == token.Plus || l.data[pos] == token.Minus) {
			pos++
		}
		digitsStart := pos
		for pos < l.length && classtable.IsDigit[l.data[pos]] {
			pos++
		}
		if pos == digitsStart {
			l.position = pos
			return l.errorAtPos(pos, fmt.Sprintf("InvalidNumber: expected digit, found %s", describeByte(l.byteAt(pos))))
		}
	}

	l.position = pos
	l.start, l.end = start, pos
	l.value = l.data[start:pos]
	if isFloat {
		l.kind = token.Float
		if hasExponent(l.value) {
			l.floatFormat = token.Exponential
		} else {
			l.floatFormat = token.FixedPoint
		}
	} else {
		l.kind = token.Integer
	}
	return nil
}

func hasExponent(value []byte) bool {
	for _, b := range value {
		if b == 'e' || b == 'E' {
			return true
		}
	}
	return false
}

// lexComment implements:
//
//	Comment :: '#' CommentChar*
//	CommentChar :: SourceCharacter but not LineTerminator
//
// The scan also stops at any other control character (tab excepted).
// Leading '#', space, and tab bytes are trimmed from Value as long as
// trimming is still active (i.e. no non-trim byte has yet appeared);
// consecutive leading '#'s are all discarded, which is intentional (see
// spec.md §9 item 2). Trailing whitespace is preserved.
func (l *Lexer) lexComment(start int) {
	pos := start
	for pos < l.length {
		b := l.data[pos]
		if classtable.IsControlCharacter[b] && b != token.Tab {
			break
		}
		pos++
	}

	trim := start
	for trim < pos {
		b := l.data[trim]
		if b == token.Hash || b == token.Space || b == token.Tab {
			trim++
			continue
		}
		break
	}

	l.kind = token.Comment
	l.start, l.end = start, pos
	l.value = l.data[trim:pos]
	l.position = pos
}

// lexStringOrBlockString is entered with the cursor on the opening '"'. It
// performs the three-quote lookahead to choose between a single-line
// String and a BlockString.
func (l *Lexer) lexStringOrBlockString(start int) error {
	if l.byteAt(start+1) == token.Quote && l.byteAt(start+2) == token.Quote {
		return l.lexBlockString(start)
	}
	return l.lexString(start)
}

// lexString implements the single-line String production.
//
// Per spec.md §4.8 / §9 item 1: encountering a raw LF or CR inside the
// literal terminates scanning without emitting an error or advancing past
// the terminator, leaving Kind unchanged from the previous token — unless
// StrictMode was requested, in which case this raises UnterminatedString
// as a conforming implementation should.
func (l *Lexer) lexString(start int) error {
	pos := start + 1
	for pos < l.length {
		b := l.data[pos]

		if b == token.NewLine || b == token.Return {
			if l.strict {
				l.position = pos
				return l.errorAtPos(pos, "UnterminatedString: unterminated string")
			}
			l.position = pos
			return nil
		}

		if b == token.Quote {
			l.kind = token.String
			l.start, l.end = start, pos
			l.value = l.data[start+1 : pos]
			l.position = pos + 1
			return nil
		}

		if classtable.IsControlCharacter[b] {
			l.position = pos
			return l.errorAtPos(pos, fmt.Sprintf("InvalidCharacterInString: invalid character within String: %s", describeByte(b)))
		}

		if b == token.Backslash {
			esc := l.byteAt(pos + 1)
			if !classtable.IsEscapeCharacter[esc] {
				l.position = pos
				return l.errorAtPos(pos, fmt.Sprintf("InvalidEscapeSequence: invalid character escape sequence: \\%s", describeByte(esc)))
			}
			pos += 2
			continue
		}

		pos++
	}

	l.position = pos
	return l.errorAtPos(pos, "UnterminatedString: unterminated string")
}

// lexBlockString implements the BlockString production. LF/CR inside the
// body accumulate into pendingNewLines rather than updating line/lineStart
// directly, to be flushed on the next call's whitespace skip — this keeps
// the recognizer branch-light while preserving the invariant that Line
// always describes the current token's start (spec.md §4.9, §9).
func (l *Lexer) lexBlockString(start int) error {
	pos := start + 3
	pendingNewLines := 0

	for pos < l.length {
		b := l.data[pos]

		switch {
		case b == token.Quote && l.byteAt(pos+1) == token.Quote && l.byteAt(pos+2) == token.Quote:
			l.kind = token.BlockString
			l.start = start
			l.end = pos + 2 // index of the last closing quote byte
			l.value = l.data[start+3 : pos]
			l.position = pos + 3
			l.pendingNewLines = pendingNewLines
			return nil

		case b == token.Backslash && l.byteAt(pos+1) == token.Quote && l.byteAt(pos+2) == token.Quote && l.byteAt(pos+3) == token.Quote:
			pos += 4

		case b == token.NewLine:
			pendingNewLines++
			pos++

		case b == token.Return:
			pendingNewLines++
			pos++
			if pos < l.length && l.data[pos] == token.NewLine {
				pos++
			}

		case classtable.IsControlCharacterNoNewLine[b]:
			l.position = pos
			return l.errorAt(l.line, l.column, fmt.Sprintf("InvalidCharacterInString: invalid character within String: %s", describeByte(b)))

		default:
			pos++
		}
	}

	l.position = pos
	return l.errorAt(l.line, l.column, "UnterminatedString: unterminated string")
}
