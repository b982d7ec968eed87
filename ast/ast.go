// Package ast defines the abstract syntax tree built by the parser.
//
// The node set is closed: every statement implements Stmt and every expression
// implements Expr through unexported marker methods, so only this package can
// add variants. Nodes are built once by the parser and treated as read-only
// afterwards; no node points back at its parent.
package ast

import (
	"bytes"

	"github.com/deepnoodle-ai/stackc/token"
)

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Program represents a complete program, which consists of a series of
// statements.
type Program struct {
	Stmts []Stmt // statements in the program
}

func (p *Program) Pos() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.NoPos
}

func (p *Program) End() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[len(p.Stmts)-1].End()
	}
	return token.NoPos
}

func (p *Program) String() string {
	var out bytes.Buffer
	for i, stmt := range p.Stmts {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(stmt.String())
	}
	return out.String()
}

// KindOf returns the name of the variant of the given node, for example
// "BinaryOp" or "VarDeclaration". All four literal nodes report "Literal".
func KindOf(node Node) string {
	switch node.(type) {
	case *Program:
		return "Program"
	case *ExprStmt:
		return "ExpressionStatement"
	case *VarDecl:
		return "VarDeclaration"
	case *Assign:
		return "Assignment"
	case *If:
		return "If"
	case *IfElse:
		return "IfElse"
	case *While:
		return "While"
	case *Print:
		return "Print"
	case *Block:
		return "Block"
	case *Int, *Float, *String, *Bool:
		return "Literal"
	case *Ident:
		return "Identifier"
	case *Binary:
		return "BinaryOp"
	case *Unary:
		return "UnaryOp"
	case *Grouping:
		return "Grouping"
	default:
		return "Unknown"
	}
}
