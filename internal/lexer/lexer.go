// Package lexer converts source text into a stream of tokens.
//
// A Lexer is created with New and then drained by calling Next until it
// returns an EOF token. The stream is lazy, finite and cannot be restarted:
// after EOF every further call returns EOF again. Characters that cannot start
// a token are reported as LexErrors and skipped one at a time, so a single
// pass always reaches the end of the input.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/deepnoodle-ai/stackc/errors"
	"github.com/deepnoodle-ai/stackc/token"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// Lexer holds our object-state.
type Lexer struct {
	input string

	// byte offset of the next unread character
	pos int

	// 0-indexed line number and byte offset where that line starts
	line      int
	lineStart int

	filename string
	logger   zerolog.Logger

	errs []*errors.LexError
	done bool
}

// Option is a configuration function for a Lexer.
type Option func(*Lexer)

// WithFilename sets the file name stamped onto token positions.
func WithFilename(filename string) Option {
	return func(l *Lexer) {
		l.filename = filename
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Lexer) {
		l.logger = logger
	}
}

// New returns a Lexer for the given input.
func New(input string, options ...Option) *Lexer {
	l := &Lexer{input: input, logger: zerolog.Nop()}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Tokenize lexes the whole input. The returned slice always ends with an EOF
// token. The error is nil when the input was clean, otherwise it is a
// *multierror.Error holding every LexError in source order.
func Tokenize(input string, options ...Option) ([]token.Token, error) {
	l := New(input, options...)
	var tokens []token.Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens, l.Err()
}

// Filename returns the file name given with WithFilename, if any.
func (l *Lexer) Filename() string {
	return l.filename
}

// Errors returns the lexical errors reported so far.
func (l *Lexer) Errors() []*errors.LexError {
	return l.errs
}

// Err returns the reported lexical errors as a single error, or nil.
func (l *Lexer) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	var merr *multierror.Error
	for _, e := range l.errs {
		merr = errors.Append(merr, e)
	}
	return merr
}

// Next returns the next token from the input.
func (l *Lexer) Next() token.Token {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			if !l.done {
				l.done = true
				l.logger.Debug().Int("errors", len(l.errs)).Msg("lexer reached end of input")
			}
			pos := l.position()
			return token.Token{Type: token.EOF, StartPosition: pos, EndPosition: pos}
		}
		start := l.position()
		ch := l.input[l.pos]
		switch {
		case isLetter(ch):
			return l.readIdentifier(start)
		case isDigit(ch):
			if tok, ok := l.readNumber(start); ok {
				return tok
			}
			continue
		case ch == '"':
			if tok, ok := l.readString(start); ok {
				return tok
			}
			continue
		}
		if op := l.matchOperator(); op != "" {
			l.pos += len(op)
			return l.newToken(token.OPERATOR, op, nil, start)
		}
		if strings.IndexByte(token.Delimiters, ch) >= 0 {
			l.pos++
			return l.newToken(token.DELIMITER, string(ch), nil, start)
		}
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		l.report(errors.E1001, fmt.Sprintf("illegal character %q", r), start, size)
		l.pos += size
	}
}

// GetLineText returns the full line of source code containing the token.
func (l *Lexer) GetLineText(tok token.Token) string {
	return LineText(l.input, tok.StartPosition)
}

// LineText returns the line of input that contains pos.
func LineText(input string, pos token.Position) string {
	start := pos.LineStart
	if start > len(input) {
		return ""
	}
	end := strings.IndexByte(input[start:], '\n')
	if end < 0 {
		return strings.TrimRight(input[start:], "\r")
	}
	return strings.TrimRight(input[start:start+end], "\r")
}

func (l *Lexer) position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.pos - l.lineStart,
		File:      l.filename,
	}
}

func (l *Lexer) newToken(typ token.Type, literal string, value any, start token.Position) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		Value:         value,
		StartPosition: start,
		EndPosition:   l.position(),
	}
}

// advance consumes one byte, tracking line boundaries.
func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.lineStart = l.pos + 1
	}
	l.pos++
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier(start token.Position) token.Token {
	begin := l.pos
	for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
		l.pos++
	}
	word := l.input[begin:l.pos]
	return l.newToken(token.LookupIdentifier(word), word, nil, start)
}

// readNumber consumes a maximal digit run, plus a fractional part when a '.'
// is directly followed by a digit.
func (l *Lexer) readNumber(start token.Position) (token.Token, bool) {
	begin := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos+1 < len(l.input) && l.input[l.pos] == '.' && isDigit(l.input[l.pos+1]) {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
		literal := l.input[begin:l.pos]
		value, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			l.report(errors.E1003, fmt.Sprintf("invalid float literal %q", literal), start, len(literal))
			return token.Token{}, false
		}
		return l.newToken(token.FLOAT, literal, value, start), true
	}
	literal := l.input[begin:l.pos]
	value, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		l.report(errors.E1003, fmt.Sprintf("integer literal %s out of range", literal), start, len(literal))
		return token.Token{}, false
	}
	return l.newToken(token.INT, literal, value, start), true
}

// readString consumes a double-quoted string. There is no escape processing;
// the string ends at the next quote. Without a closing quote only the opening
// quote is skipped.
func (l *Lexer) readString(start token.Position) (token.Token, bool) {
	end := strings.IndexByte(l.input[l.pos+1:], '"')
	if end < 0 {
		l.report(errors.E1002, "unterminated string literal", start, 1)
		l.pos++
		return token.Token{}, false
	}
	l.pos++ // opening quote
	begin := l.pos
	for l.pos < begin+end {
		l.advance()
	}
	text := l.input[begin:l.pos]
	l.pos++ // closing quote
	tok := l.newToken(token.STRING, text, text, start)
	return tok, true
}

func (l *Lexer) matchOperator() string {
	rest := l.input[l.pos:]
	for _, op := range token.Operators {
		if strings.HasPrefix(rest, op) {
			return op
		}
	}
	return ""
}

func (l *Lexer) report(code errors.ErrorCode, msg string, start token.Position, width int) {
	err := errors.NewLexError(code, msg, errors.Location{
		Filename:   l.filename,
		Line:       start.LineNumber(),
		Column:     start.ColumnNumber(),
		EndColumn:  start.ColumnNumber() + width,
		SourceLine: LineText(l.input, start),
	})
	l.errs = append(l.errs, err)
	l.logger.Debug().Str("code", string(code)).Str("pos", start.String()).Msg(msg)
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
