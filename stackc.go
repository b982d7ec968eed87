// Package stackc compiles a small imperative language into instructions for
// a stack machine. Compilation runs in three stages, each exposed on its own:
// Tokenize, Parse and Generate. Compile runs all three.
package stackc

import (
	"context"

	"github.com/deepnoodle-ai/stackc/ast"
	"github.com/deepnoodle-ai/stackc/bytecode"
	"github.com/deepnoodle-ai/stackc/compiler"
	"github.com/deepnoodle-ai/stackc/internal/lexer"
	"github.com/deepnoodle-ai/stackc/parser"
	"github.com/deepnoodle-ai/stackc/token"
	"github.com/rs/zerolog"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	filename   string
	logger     zerolog.Logger
	popResults bool
	halt       bool
	maxDepth   int
}

func collectOptions(opts ...Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) lexerOpts() []lexer.Option {
	opts := []lexer.Option{lexer.WithLogger(o.logger)}
	if o.filename != "" {
		opts = append(opts, lexer.WithFilename(o.filename))
	}
	return opts
}

func (o *options) parserOpts() []parser.Option {
	opts := []parser.Option{parser.WithLogger(o.logger)}
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	if o.maxDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(o.maxDepth))
	}
	return opts
}

func (o *options) compilerOpts() []compiler.Option {
	opts := []compiler.Option{
		compiler.WithLogger(o.logger),
		compiler.WithPopExpressionResults(o.popResults),
		compiler.WithHalt(o.halt),
	}
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	return opts
}

// WithFilename sets the filename reported in diagnostics.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithLogger sets the logger used by every stage. By default nothing is
// logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPopExpressionResults makes the generator discard the value of each
// expression statement with a POP.
func WithPopExpressionResults(enabled bool) Option {
	return func(o *options) {
		o.popResults = enabled
	}
}

// WithHalt makes the generated code end with a HALT instruction.
func WithHalt(enabled bool) Option {
	return func(o *options) {
		o.halt = enabled
	}
}

// WithMaxDepth limits how deeply blocks and expressions may nest.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// Tokenize splits source into tokens, ending with an EOF token. Invalid
// input is reported in the returned error while the remaining tokens are
// still returned.
func Tokenize(source string, opts ...Option) ([]token.Token, error) {
	return lexer.Tokenize(source, collectOptions(opts...).lexerOpts()...)
}

// Parse builds the syntax tree for source. No tree is returned on error.
func Parse(ctx context.Context, source string, opts ...Option) (*ast.Program, error) {
	return parser.Parse(ctx, source, collectOptions(opts...).parserOpts()...)
}

// Generate produces stack-machine instructions for a parsed program.
func Generate(program *ast.Program, opts ...Option) (*bytecode.Code, error) {
	return compiler.Compile(program, collectOptions(opts...).compilerOpts()...)
}

// Compile tokenizes, parses and generates code for source. The error comes
// from the first stage that failed. A failed lex stage reports every
// *errors.LexError in source order as a multierror; use errors.First for the
// earliest one or errors.Diagnostics for all of them. The returned Code is
// immutable and safe for concurrent use.
func Compile(ctx context.Context, source string, opts ...Option) (*bytecode.Code, error) {
	o := collectOptions(opts...)
	program, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(program, append(o.compilerOpts(), compiler.WithSource(source))...)
}
