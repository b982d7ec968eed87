// Package token defines the token kinds, reserved words and source positions
// produced when lexing source code.
package token

import "fmt"

// Type describes the kind of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the input
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// This assumes the advance does not cross line boundaries.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// String returns the position as "file:line:column" using 1-indexed values.
func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.LineNumber(), p.ColumnNumber())
	}
	return fmt.Sprintf("%d:%d", p.LineNumber(), p.ColumnNumber())
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type    Type
	Literal string
	// Value holds the decoded literal for INT (int64), FLOAT (float64) and
	// STRING (string) tokens. It is nil for every other kind.
	Value         any
	StartPosition Position
	EndPosition   Position
}

// Is reports whether the token has the given type and literal.
func (t Token) Is(typ Type, literal string) bool {
	return t.Type == typ && t.Literal == literal
}

// IsOperator reports whether the token is the given operator.
func (t Token) IsOperator(literal string) bool {
	return t.Is(OPERATOR, literal)
}

// IsDelimiter reports whether the token is the given delimiter.
func (t Token) IsDelimiter(literal string) bool {
	return t.Is(DELIMITER, literal)
}

// IsKeyword reports whether the token is the given reserved word.
func (t Token) IsKeyword(literal string) bool {
	return t.Is(KEYWORD, literal)
}

func (t Token) String() string {
	if t.Type == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Literal)
}

// Token types
const (
	IDENT     Type = "IDENT"
	KEYWORD   Type = "KEYWORD"
	INT       Type = "INT"
	FLOAT     Type = "FLOAT"
	STRING    Type = "STRING"
	OPERATOR  Type = "OPERATOR"
	DELIMITER Type = "DELIMITER"
	EOF       Type = "EOF"
)

// Reserved words
const (
	If     = "if"
	Else   = "else"
	Print  = "print"
	While  = "while"
	Int    = "int"
	Float  = "float"
	String = "string"
	Bool   = "bool"
	True   = "true"
	False  = "false"
	And    = "and"
	Or     = "or"
	Not    = "not"
)

var keywords = map[string]bool{
	If:     true,
	Else:   true,
	Print:  true,
	While:  true,
	Int:    true,
	Float:  true,
	String: true,
	Bool:   true,
	True:   true,
	False:  true,
	And:    true,
	Or:     true,
	Not:    true,
}

// LookupIdentifier classifies an identifier-shaped word as KEYWORD or IDENT.
func LookupIdentifier(identifier string) Type {
	if keywords[identifier] {
		return KEYWORD
	}
	return IDENT
}

// Keywords returns the reserved words in a stable order.
func Keywords() []string {
	return []string{If, Else, Print, While, Int, Float, String, Bool, True, False, And, Or, Not}
}

// IsTypeName reports whether the word names a declarable type.
func IsTypeName(word string) bool {
	switch word {
	case Int, Float, String, Bool:
		return true
	}
	return false
}

// Operators lists every operator, longest first within a shared prefix.
var Operators = []string{
	"==", "!=", "<=", ">=", "&&", "||",
	"+", "-", "*", "/", "%", "=", "<", ">", "!",
}

// Delimiters lists every single-character delimiter.
const Delimiters = ";,()[]{}"
