package ast

import (
	"bytes"

	"github.com/deepnoodle-ai/stackc/token"
)

// ExprStmt is a statement consisting of a single expression, as in "a + 1;".
type ExprStmt struct {
	X         Expr           // the expression
	Semicolon token.Position // position of ";"
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }
func (s *ExprStmt) End() token.Position { return s.Semicolon.Advance(1) }

func (s *ExprStmt) String() string { return s.X.String() + ";" }

// VarDecl declares a variable by name, as in "x;" or "int x;".
type VarDecl struct {
	TypePos   token.Position // position of the type keyword, if any
	Type      string         // "int", "float", "string", "bool" or ""
	Name      *Ident
	Semicolon token.Position
}

func (s *VarDecl) stmtNode() {}

func (s *VarDecl) Pos() token.Position {
	if s.Type != "" {
		return s.TypePos
	}
	return s.Name.Pos()
}
func (s *VarDecl) End() token.Position { return s.Semicolon.Advance(1) }

func (s *VarDecl) String() string {
	if s.Type != "" {
		return s.Type + " " + s.Name.String() + ";"
	}
	return s.Name.String() + ";"
}

// Assign stores the value of an expression into a variable, as in "x = 5;".
type Assign struct {
	Name      *Ident
	OpPos     token.Position // position of "="
	Value     Expr
	Semicolon token.Position
}

func (s *Assign) stmtNode() {}

func (s *Assign) Pos() token.Position { return s.Name.Pos() }
func (s *Assign) End() token.Position { return s.Semicolon.Advance(1) }

func (s *Assign) String() string {
	return s.Name.String() + " = " + s.Value.String() + ";"
}

// If runs a block when its condition holds.
type If struct {
	IfPos token.Position // position of "if"
	Cond  Expr
	Then  *Block
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Position { return s.IfPos }
func (s *If) End() token.Position { return s.Then.End() }

func (s *If) String() string {
	return "if " + s.Cond.String() + " " + s.Then.String()
}

// IfElse runs one of two blocks depending on its condition.
type IfElse struct {
	IfPos   token.Position // position of "if"
	Cond    Expr
	Then    *Block
	ElsePos token.Position // position of "else"
	Else    *Block
}

func (s *IfElse) stmtNode() {}

func (s *IfElse) Pos() token.Position { return s.IfPos }
func (s *IfElse) End() token.Position { return s.Else.End() }

func (s *IfElse) String() string {
	return "if " + s.Cond.String() + " " + s.Then.String() + " else " + s.Else.String()
}

// While repeats its body as long as the condition holds.
type While struct {
	WhilePos token.Position // position of "while"
	Cond     Expr
	Body     *Block
}

func (s *While) stmtNode() {}

func (s *While) Pos() token.Position { return s.WhilePos }
func (s *While) End() token.Position { return s.Body.End() }

func (s *While) String() string {
	return "while " + s.Cond.String() + " " + s.Body.String()
}

// Print writes the value of an expression, as in "print x;".
type Print struct {
	PrintPos  token.Position // position of "print"
	X         Expr
	Semicolon token.Position
}

func (s *Print) stmtNode() {}

func (s *Print) Pos() token.Position { return s.PrintPos }
func (s *Print) End() token.Position { return s.Semicolon.Advance(1) }

func (s *Print) String() string { return "print " + s.X.String() + ";" }

// Block is a brace-delimited sequence of statements. The block owns its
// statements exclusively.
type Block struct {
	Lbrace token.Position // position of "{"
	Stmts  []Stmt
	Rbrace token.Position // position of "}"
}

func (s *Block) stmtNode() {}

func (s *Block) Pos() token.Position { return s.Lbrace }
func (s *Block) End() token.Position { return s.Rbrace.Advance(1) }

func (s *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for _, stmt := range s.Stmts {
		out.WriteString(" ")
		out.WriteString(stmt.String())
	}
	out.WriteString(" }")
	return out.String()
}
