package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/stackc/token"
)

// SourceLocation is the line and column, both 1-based, of the syntax that
// produced an instruction. The zero value means "no location", as for a
// trailing HALT.
type SourceLocation struct {
	Line   int
	Column int
}

// LocationOf converts a token position to a SourceLocation.
func LocationOf(pos token.Position) SourceLocation {
	return SourceLocation{Line: pos.LineNumber(), Column: pos.ColumnNumber()}
}

// String formats the location as "line:column".
func (s SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero reports whether the location is unset.
func (s SourceLocation) IsZero() bool {
	return s == SourceLocation{}
}
