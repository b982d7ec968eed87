// Package errors defines the positioned diagnostics reported by each stage of
// the compiler pipeline.
//
// There are three kinds of diagnostic:
//
//   - LexError: an illegal character, unterminated string or invalid number.
//     The lexer records one per occurrence and keeps going.
//   - SyntaxError: an unexpected token or unmatched block. Parsing stops at the
//     first one.
//   - CodegenError: an operator or node the code generator cannot lower.
//     Generation stops at the first one.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// Diagnostic holds the data common to every reported problem.
type Diagnostic struct {
	Kind        string // "lex error", "syntax error" or "codegen error"
	Code        ErrorCode
	Message     string
	Filename    string
	Line        int // 1-based line number
	Column      int // 1-based column number
	EndColumn   int
	SourceLine  string
	Suggestions []Suggestion
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	b.WriteString(d.Kind)
	b.WriteString(": ")
	b.WriteString(d.Message)
	if d.Line > 0 {
		b.WriteString(" at ")
		b.WriteString(d.Location())
	}
	return b.String()
}

// Location returns "file:line:column", omitting the file when unknown.
func (d *Diagnostic) Location() string {
	if d.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", d.Filename, d.Line, d.Column)
	}
	return fmt.Sprintf("%d:%d", d.Line, d.Column)
}

// FriendlyErrorMessage returns a human-friendly error message.
func (d *Diagnostic) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(d.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (d *Diagnostic) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      d.Code,
		Kind:      d.Kind,
		Message:   d.Message,
		Filename:  d.Filename,
		Line:      d.Line,
		Column:    d.Column,
		EndColumn: d.EndColumn,
	}
	if d.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: d.Line, Text: d.SourceLine, IsMain: true},
		}
	}
	if len(d.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(d.Suggestions)
	}
	return fe
}

// LexError is reported for characters the lexer cannot turn into a token.
type LexError struct {
	*Diagnostic
}

// SyntaxError is reported when the token stream does not match the grammar.
type SyntaxError struct {
	*Diagnostic
	// Expected names the construct the parser was looking for.
	Expected string
	// Found is the text of the offending token.
	Found string
}

// CodegenError is reported when the AST contains something that has no
// instruction mapping.
type CodegenError struct {
	*Diagnostic
}

// NewLexError returns a LexError with the given code, message and location.
func NewLexError(code ErrorCode, msg string, loc Location) *LexError {
	return &LexError{Diagnostic: newDiagnostic("lex error", code, msg, loc)}
}

// NewSyntaxError returns a SyntaxError describing an unexpected token.
func NewSyntaxError(code ErrorCode, expected, found string, loc Location) *SyntaxError {
	msg := fmt.Sprintf("unexpected %s (expected %s)", found, expected)
	return &SyntaxError{
		Diagnostic: newDiagnostic("syntax error", code, msg, loc),
		Expected:   expected,
		Found:      found,
	}
}

// NewSyntaxErrorf returns a SyntaxError with a free-form message.
func NewSyntaxErrorf(code ErrorCode, loc Location, format string, args ...any) *SyntaxError {
	return &SyntaxError{Diagnostic: newDiagnostic("syntax error", code, fmt.Sprintf(format, args...), loc)}
}

// NewCodegenError returns a CodegenError with the given code and message.
func NewCodegenError(code ErrorCode, msg string, loc Location) *CodegenError {
	return &CodegenError{Diagnostic: newDiagnostic("codegen error", code, msg, loc)}
}

// Location is the positional information attached to a new diagnostic.
type Location struct {
	Filename   string
	Line       int // 1-based
	Column     int // 1-based
	EndColumn  int
	SourceLine string
}

func newDiagnostic(kind string, code ErrorCode, msg string, loc Location) *Diagnostic {
	return &Diagnostic{
		Kind:       kind,
		Code:       code,
		Message:    msg,
		Filename:   loc.Filename,
		Line:       loc.Line,
		Column:     loc.Column,
		EndColumn:  loc.EndColumn,
		SourceLine: loc.SourceLine,
	}
}

// WithSuggestions attaches "did you mean" suggestions and returns d.
func (d *Diagnostic) WithSuggestions(s []Suggestion) *Diagnostic {
	d.Suggestions = s
	return d
}

// Diagnostics flattens err into the diagnostics it carries. A multierror
// yields each wrapped diagnostic in order; anything else that wraps a
// Diagnostic yields that one.
func Diagnostics(err error) []*Diagnostic {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if stderrors.As(err, &merr) {
		var out []*Diagnostic
		for _, e := range merr.Errors {
			out = append(out, Diagnostics(e)...)
		}
		return out
	}
	if d := asDiagnostic(err); d != nil {
		return []*Diagnostic{d}
	}
	return nil
}

// First returns the first diagnostic carried by err, or nil.
func First(err error) *Diagnostic {
	ds := Diagnostics(err)
	if len(ds) == 0 {
		return nil
	}
	return ds[0]
}

func asDiagnostic(err error) *Diagnostic {
	var lexErr *LexError
	if stderrors.As(err, &lexErr) {
		return lexErr.Diagnostic
	}
	var syntaxErr *SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return syntaxErr.Diagnostic
	}
	var codegenErr *CodegenError
	if stderrors.As(err, &codegenErr) {
		return codegenErr.Diagnostic
	}
	var d *Diagnostic
	if stderrors.As(err, &d) {
		return d
	}
	return nil
}

// Append accumulates diagnostics into a multierror, formatted one per line.
func Append(err error, errs ...error) *multierror.Error {
	merr := multierror.Append(err, errs...)
	merr.ErrorFormat = listFormat
	return merr
}

func listFormat(es []error) string {
	if len(es) == 1 {
		return es[0].Error()
	}
	lines := make([]string, len(es))
	for i, e := range es {
		lines[i] = e.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n%s", len(es), strings.Join(lines, "\n"))
}

// FriendlyErrorMessage formats any error produced by the pipeline for
// display, falling back to err.Error() for foreign errors.
func FriendlyErrorMessage(err error, useColor bool) string {
	ds := Diagnostics(err)
	if len(ds) == 0 {
		return err.Error()
	}
	formatted := make([]*FormattedError, len(ds))
	for i, d := range ds {
		formatted[i] = d.ToFormatted()
	}
	return NewFormatter(useColor).FormatMultiple(formatted)
}
