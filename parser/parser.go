// Package parser is used to generate the abstract syntax tree (AST) for a program.
//
// A parser is created by calling New() with a token source as input. The
// parser should then be used only once, by calling parser.Parse() to produce
// the AST. Parsing is fail-fast: the first unexpected token ends the parse
// with a *errors.SyntaxError and no AST.
package parser

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/stackc/ast"
	"github.com/deepnoodle-ai/stackc/errors"
	"github.com/deepnoodle-ai/stackc/internal/lexer"
	"github.com/deepnoodle-ai/stackc/token"
	"github.com/rs/zerolog"
)

// TokenSource supplies tokens to the parser. After the input is exhausted it
// must keep returning an EOF token.
type TokenSource interface {
	Next() token.Token
}

// Parse the provided input as source code and return the AST. The whole input
// is lexed first; if the lexer reported any diagnostics they are returned
// (as a multierror) and no parsing takes place.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	var probe Parser
	for _, opt := range options {
		opt(&probe)
	}
	lexOpts := []lexer.Option{lexer.WithFilename(probe.filename)}
	if probe.logger != nil {
		lexOpts = append(lexOpts, lexer.WithLogger(*probe.logger))
	}
	tokens, err := lexer.Tokenize(input, lexOpts...)
	if err != nil {
		return nil, err
	}
	p := New(&tokenSlice{tokens: tokens}, options...)
	p.source = input
	return p.Parse(ctx)
}

// ParseTokens parses an already tokenized program. A missing trailing EOF
// token is implied.
func ParseTokens(ctx context.Context, tokens []token.Token, options ...Option) (*ast.Program, error) {
	return New(&tokenSlice{tokens: tokens}, options...).Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in syntax errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = &logger
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	src TokenSource

	// source text, when known, used to quote the offending line in errors
	source string

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the next token to be consumed.
	curToken token.Token

	// peekToken holds the token after curToken.
	peekToken token.Token

	// the first syntax error; once set, parsing unwinds
	err *errors.SyntaxError

	filename string
	logger   *zerolog.Logger

	// Current and maximum allowed recursion depth
	depth    int
	maxDepth int
}

// New returns a Parser for the program provided by the given token source.
func New(src TokenSource, options ...Option) *Parser {
	p := &Parser{src: src, maxDepth: DefaultMaxDepth}
	for _, opt := range options {
		opt(p)
	}
	if p.logger == nil {
		nop := zerolog.Nop()
		p.logger = &nop
	}
	if p.filename == "" {
		if named, ok := src.(interface{ Filename() string }); ok {
			p.filename = named.Filename()
		}
	}

	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]
	return p
}

// nextToken moves to the next token, updating all of prevToken, curToken,
// and peekToken.
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.src.Next()
}

// Parse the program that is provided via the token source. On failure the
// returned program is nil and the error is a *errors.SyntaxError.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	var statements []ast.Stmt
	for !p.curTokenIs(token.EOF) {
		if p.cancelled() {
			break
		}
		if p.curToken.IsDelimiter("}") {
			p.fail(errors.E2002, "statement", p.curToken)
			break
		}
		stmt := p.parseStatement()
		if stmt == nil || p.err != nil {
			break
		}
		p.logger.Debug().
			Str("kind", ast.KindOf(stmt)).
			Str("pos", stmt.Pos().String()).
			Msg("parsed statement")
		statements = append(statements, stmt)
	}
	if p.err != nil {
		p.logger.Debug().Err(p.err).Msg("parse failed")
		return nil, p.err
	}
	return &ast.Program{Stmts: statements}, nil
}

// cancelled checks if the parsing context has been cancelled.
// Returns true if cancelled, in which case parsing should stop.
func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		p.setError(errors.NewSyntaxErrorf(errors.E2005, p.location(p.curToken),
			"parsing cancelled: %v", p.ctx.Err()))
		return true
	default:
		return false
	}
}

func (p *Parser) setError(err *errors.SyntaxError) {
	if p.err == nil {
		p.err = err
	}
}

// fail records a syntax error for an unexpected token and returns nil so
// callers can write "return p.fail(...)".
func (p *Parser) fail(code errors.ErrorCode, expected string, got token.Token) ast.Stmt {
	p.setError(errors.NewSyntaxError(code, expected, tokenDescription(got), p.location(got)))
	return nil
}

// enter tracks recursion depth, reporting an error when it gets too deep.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.setError(errors.NewSyntaxErrorf(errors.E2004, p.location(p.curToken),
			"maximum nesting depth exceeded (%d)", p.maxDepth))
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) location(tok token.Token) errors.Location {
	start, end := tok.StartPosition, tok.EndPosition
	filename := p.filename
	if filename == "" {
		filename = start.File
	}
	loc := errors.Location{
		Filename:  filename,
		Line:      start.LineNumber(),
		Column:    start.ColumnNumber(),
		EndColumn: end.ColumnNumber(),
	}
	if p.source != "" {
		loc.SourceLine = lexer.LineText(p.source, start)
	}
	return loc
}

// curTokenIs returns true if the current token has the given type.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// expectDelimiter consumes the current token if it is the given delimiter,
// otherwise it records a syntax error.
func (p *Parser) expectDelimiter(delim string) bool {
	if !p.curToken.IsDelimiter(delim) {
		p.fail(errors.E2001, fmt.Sprintf("%q", delim), p.curToken)
		return false
	}
	p.nextToken()
	return true
}

// tokenDescription returns a human-readable description of a token.
func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT:
		return fmt.Sprintf("identifier %q", t.Literal)
	case token.KEYWORD:
		return fmt.Sprintf("keyword %q", t.Literal)
	case token.INT, token.FLOAT:
		return fmt.Sprintf("number %s", t.Literal)
	case token.STRING:
		return fmt.Sprintf("string %q", t.Literal)
	default:
		return fmt.Sprintf("%q", t.Literal)
	}
}

// tokenSlice adapts a slice of tokens to the TokenSource interface.
type tokenSlice struct {
	tokens []token.Token
	i      int
}

func (s *tokenSlice) Next() token.Token {
	if s.i < len(s.tokens) {
		tok := s.tokens[s.i]
		s.i++
		return tok
	}
	var pos token.Position
	if n := len(s.tokens); n > 0 {
		pos = s.tokens[n-1].EndPosition
	}
	return token.Token{Type: token.EOF, StartPosition: pos, EndPosition: pos}
}
