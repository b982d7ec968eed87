package parser

import (
	"github.com/deepnoodle-ai/stackc/ast"
	"github.com/deepnoodle-ai/stackc/errors"
	"github.com/deepnoodle-ai/stackc/token"
)

func (p *Parser) parseStatement() ast.Stmt {
	tok := p.curToken
	switch {
	case tok.IsKeyword(token.If):
		return p.parseIf()
	case tok.IsKeyword(token.While):
		return p.parseWhile()
	case tok.IsKeyword(token.Print):
		return p.parsePrint()
	case tok.Type == token.KEYWORD && token.IsTypeName(tok.Literal):
		return p.parseTypedDecl()
	case tok.IsDelimiter("{"):
		block := p.parseBlock()
		if block == nil {
			return nil
		}
		return block
	case tok.Type == token.IDENT && p.peekToken.IsDelimiter(";"):
		return p.parseVarDecl()
	case tok.Type == token.IDENT && p.peekToken.IsOperator("="):
		return p.parseAssign()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	first := p.curToken
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	semicolon := p.curToken
	if !p.curToken.IsDelimiter(";") {
		p.fail(errors.E2001, `";"`, p.curToken)
		// "whle x {" lexes as two identifiers; point at the misspelled keyword.
		if _, isIdent := expr.(*ast.Ident); isIdent && first.Type == token.IDENT {
			if s := errors.SuggestSimilar(first.Literal, token.Keywords()); len(s) > 0 {
				p.err.WithSuggestions(s)
			}
		}
		return nil
	}
	p.nextToken()
	return &ast.ExprStmt{X: expr, Semicolon: semicolon.StartPosition}
}

// parseVarDecl parses "name;".
func (p *Parser) parseVarDecl() ast.Stmt {
	name := p.newIdent(p.curToken)
	p.nextToken()
	semicolon := p.curToken
	p.nextToken()
	return &ast.VarDecl{Name: name, Semicolon: semicolon.StartPosition}
}

// parseTypedDecl parses "int name;".
func (p *Parser) parseTypedDecl() ast.Stmt {
	typeTok := p.curToken
	p.nextToken()
	if !p.curTokenIs(token.IDENT) {
		return p.fail(errors.E2001, "identifier", p.curToken)
	}
	name := p.newIdent(p.curToken)
	p.nextToken()
	semicolon := p.curToken
	if !p.expectDelimiter(";") {
		return nil
	}
	return &ast.VarDecl{
		TypePos:   typeTok.StartPosition,
		Type:      typeTok.Literal,
		Name:      name,
		Semicolon: semicolon.StartPosition,
	}
}

// parseAssign parses "name = expression;".
func (p *Parser) parseAssign() ast.Stmt {
	name := p.newIdent(p.curToken)
	p.nextToken()
	opPos := p.curToken.StartPosition
	p.nextToken()
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	semicolon := p.curToken
	if !p.expectDelimiter(";") {
		return nil
	}
	return &ast.Assign{Name: name, OpPos: opPos, Value: value, Semicolon: semicolon.StartPosition}
}

func (p *Parser) parsePrint() ast.Stmt {
	printPos := p.curToken.StartPosition
	p.nextToken()
	x := p.parseExpression()
	if x == nil {
		return nil
	}
	semicolon := p.curToken
	if !p.expectDelimiter(";") {
		return nil
	}
	return &ast.Print{PrintPos: printPos, X: x, Semicolon: semicolon.StartPosition}
}

func (p *Parser) parseIf() ast.Stmt {
	ifPos := p.curToken.StartPosition
	p.nextToken()
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	then := p.parseBody()
	if then == nil {
		return nil
	}
	if !p.curToken.IsKeyword(token.Else) {
		return &ast.If{IfPos: ifPos, Cond: cond, Then: then}
	}
	elsePos := p.curToken.StartPosition
	p.nextToken()
	els := p.parseBody()
	if els == nil {
		return nil
	}
	return &ast.IfElse{IfPos: ifPos, Cond: cond, Then: then, ElsePos: elsePos, Else: els}
}

func (p *Parser) parseWhile() ast.Stmt {
	whilePos := p.curToken.StartPosition
	p.nextToken()
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	body := p.parseBody()
	if body == nil {
		return nil
	}
	return &ast.While{WhilePos: whilePos, Cond: cond, Body: body}
}

// parseBody parses the block that must follow "if", "else" or "while".
func (p *Parser) parseBody() *ast.Block {
	if !p.curToken.IsDelimiter("{") {
		p.fail(errors.E2001, `"{"`, p.curToken)
		return nil
	}
	return p.parseBlock()
}

func (p *Parser) parseBlock() *ast.Block {
	lbrace := p.curToken
	if !p.enter() {
		return nil
	}
	defer p.leave()
	p.nextToken()
	var stmts []ast.Stmt
	for !p.curToken.IsDelimiter("}") {
		if p.curTokenIs(token.EOF) {
			p.setError(errors.NewSyntaxErrorf(errors.E2002, p.location(p.curToken),
				"unclosed block: expected \"}\" to match \"{\" at %s", lbrace.StartPosition))
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil || p.err != nil {
			return nil
		}
		stmts = append(stmts, stmt)
	}
	rbrace := p.curToken
	p.nextToken()
	return &ast.Block{Lbrace: lbrace.StartPosition, Stmts: stmts, Rbrace: rbrace.StartPosition}
}

// newIdent creates a new Ident node from a token.
func (p *Parser) newIdent(tok token.Token) *ast.Ident {
	return &ast.Ident{NamePos: tok.StartPosition, Name: tok.Literal}
}
