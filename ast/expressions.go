package ast

import (
	"bytes"

	"github.com/deepnoodle-ai/stackc/token"
)

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Unary is an operator expression where the operator precedes the operand.
// Examples include "!done" and "-x".
type Unary struct {
	OpPos token.Position // position of operator
	Op    string         // operator: "!" or "-"
	X     Expr           // operand
}

func (x *Unary) exprNode() {}

func (x *Unary) Pos() token.Position { return x.OpPos }
func (x *Unary) End() token.Position { return x.X.End() }

func (x *Unary) String() string {
	return "(" + x.Op + x.X.String() + ")"
}

// Binary is an operator expression where the operator is between the operands.
// Examples include "x + y" and "a && b".
type Binary struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    string         // operator: "+", "-", "*", "/", "%", "==", "&&", ...
	Y     Expr           // right operand
}

func (x *Binary) exprNode() {}

func (x *Binary) Pos() token.Position { return x.X.Pos() }
func (x *Binary) End() token.Position { return x.Y.End() }

func (x *Binary) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Grouping is a parenthesized expression.
type Grouping struct {
	Lparen token.Position // position of "("
	X      Expr
	Rparen token.Position // position of ")"
}

func (x *Grouping) exprNode() {}

func (x *Grouping) Pos() token.Position { return x.Lparen }
func (x *Grouping) End() token.Position { return x.Rparen.Advance(1) }

func (x *Grouping) String() string { return "(" + x.X.String() + ")" }
