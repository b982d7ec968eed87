package parser

import (
	"strconv"

	"github.com/deepnoodle-ai/stackc/ast"
	"github.com/deepnoodle-ai/stackc/errors"
	"github.com/deepnoodle-ai/stackc/token"
)

// Binary operators by precedence level. Keyword spellings map onto the
// symbolic operator stored in the AST.
var (
	orOps             = map[string]string{"||": "||", token.Or: "||"}
	andOps            = map[string]string{"&&": "&&", token.And: "&&"}
	equalityOps       = map[string]string{"==": "==", "!=": "!="}
	comparisonOps     = map[string]string{"<": "<", "<=": "<=", ">": ">", ">=": ">="}
	additiveOps       = map[string]string{"+": "+", "-": "-"}
	multiplicativeOps = map[string]string{"*": "*", "/": "/", "%": "%"}
)

func (p *Parser) parseExpression() ast.Expr {
	if !p.enter() {
		return nil
	}
	defer p.leave()
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	return p.parseBinary(p.parseAnd, orOps)
}

func (p *Parser) parseAnd() ast.Expr {
	return p.parseBinary(p.parseEquality, andOps)
}

func (p *Parser) parseEquality() ast.Expr {
	return p.parseBinary(p.parseComparison, equalityOps)
}

func (p *Parser) parseComparison() ast.Expr {
	return p.parseBinary(p.parseAdditive, comparisonOps)
}

func (p *Parser) parseAdditive() ast.Expr {
	return p.parseBinary(p.parseMultiplicative, additiveOps)
}

func (p *Parser) parseMultiplicative() ast.Expr {
	return p.parseBinary(p.parseUnary, multiplicativeOps)
}

// parseBinary parses one left-associative precedence level: operands come
// from the next tighter level and are folded left to right.
func (p *Parser) parseBinary(operand func() ast.Expr, ops map[string]string) ast.Expr {
	x := operand()
	if x == nil {
		return nil
	}
	for {
		op, ok := binaryOp(p.curToken, ops)
		if !ok {
			return x
		}
		opPos := p.curToken.StartPosition
		p.nextToken()
		y := operand()
		if y == nil {
			return nil
		}
		x = &ast.Binary{X: x, OpPos: opPos, Op: op, Y: y}
	}
}

func binaryOp(tok token.Token, ops map[string]string) (string, bool) {
	if tok.Type != token.OPERATOR && tok.Type != token.KEYWORD {
		return "", false
	}
	op, ok := ops[tok.Literal]
	return op, ok
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.curToken
	var op string
	switch {
	case tok.IsOperator("!"), tok.IsKeyword(token.Not):
		op = "!"
	case tok.IsOperator("-"):
		op = "-"
	default:
		return p.parsePrimary()
	}
	if !p.enter() {
		return nil
	}
	defer p.leave()
	p.nextToken()
	x := p.parseUnary()
	if x == nil {
		return nil
	}
	return &ast.Unary{OpPos: tok.StartPosition, Op: op, X: x}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.curToken
	switch tok.Type {
	case token.IDENT:
		p.nextToken()
		return p.newIdent(tok)
	case token.INT:
		return p.parseInt()
	case token.FLOAT:
		return p.parseFloat()
	case token.STRING:
		p.nextToken()
		value, ok := tok.Value.(string)
		if !ok {
			value = tok.Literal
		}
		return &ast.String{ValuePos: tok.StartPosition, Value: value}
	case token.KEYWORD:
		if tok.Literal == token.True || tok.Literal == token.False {
			p.nextToken()
			return &ast.Bool{ValuePos: tok.StartPosition, Value: tok.Literal == token.True}
		}
	case token.DELIMITER:
		if tok.Literal == "(" {
			return p.parseGrouping()
		}
	}
	p.fail(errors.E2003, "expression", tok)
	return nil
}

func (p *Parser) parseInt() ast.Expr {
	tok := p.curToken
	value, ok := tok.Value.(int64)
	if !ok {
		var err error
		if value, err = strconv.ParseInt(tok.Literal, 10, 64); err != nil {
			p.setError(errors.NewSyntaxErrorf(errors.E2001, p.location(tok),
				"invalid integer literal %q", tok.Literal))
			return nil
		}
	}
	p.nextToken()
	return &ast.Int{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: value}
}

func (p *Parser) parseFloat() ast.Expr {
	tok := p.curToken
	value, ok := tok.Value.(float64)
	if !ok {
		var err error
		if value, err = strconv.ParseFloat(tok.Literal, 64); err != nil {
			p.setError(errors.NewSyntaxErrorf(errors.E2001, p.location(tok),
				"invalid float literal %q", tok.Literal))
			return nil
		}
	}
	p.nextToken()
	return &ast.Float{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: value}
}

func (p *Parser) parseGrouping() ast.Expr {
	lparen := p.curToken.StartPosition
	p.nextToken()
	x := p.parseExpression()
	if x == nil {
		return nil
	}
	rparen := p.curToken.StartPosition
	if !p.expectDelimiter(")") {
		return nil
	}
	return &ast.Grouping{Lparen: lparen, X: x, Rparen: rparen}
}
