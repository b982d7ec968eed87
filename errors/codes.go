package errors

import "slices"

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Lex errors
//   - E2xxx: Syntax errors
//   - E3xxx: Codegen errors
type ErrorCode string

const (
	// Lex errors (E1xxx)
	E1001 ErrorCode = "E1001" // Illegal character
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Invalid number literal

	// Syntax errors (E2xxx)
	E2001 ErrorCode = "E2001" // Unexpected token
	E2002 ErrorCode = "E2002" // Unclosed block
	E2003 ErrorCode = "E2003" // Missing expression
	E2004 ErrorCode = "E2004" // Maximum nesting depth exceeded
	E2005 ErrorCode = "E2005" // Parsing cancelled

	// Codegen errors (E3xxx)
	E3001 ErrorCode = "E3001" // Unsupported operator
	E3002 ErrorCode = "E3002" // Unsupported node
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "illegal character",
	E1002: "unterminated string literal",
	E1003: "invalid number literal",

	E2001: "unexpected token",
	E2002: "unclosed block",
	E2003: "missing expression",
	E2004: "maximum nesting depth exceeded",
	E2005: "parsing cancelled",

	E3001: "unsupported operator",
	E3002: "unsupported node",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "lex"
	case '2':
		return "syntax"
	case '3':
		return "codegen"
	default:
		return "unknown"
	}
}

// Codes returns every known error code in ascending order.
func Codes() []ErrorCode {
	codes := make([]ErrorCode, 0, len(codeDescriptions))
	for code := range codeDescriptions {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}
