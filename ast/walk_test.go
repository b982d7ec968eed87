package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// while (i < 3) { print i; i = i + 1; }
func sampleLoop() *Program {
	i := func() *Ident { return &Ident{Name: "i"} }
	return &Program{Stmts: []Stmt{
		&VarDecl{Name: i()},
		&While{
			Cond: &Grouping{X: &Binary{X: i(), Op: "<", Y: &Int{Literal: "3", Value: 3}}},
			Body: &Block{Stmts: []Stmt{
				&Print{X: i()},
				&Assign{Name: i(), Value: &Binary{X: i(), Op: "+", Y: &Int{Literal: "1", Value: 1}}},
			}},
		},
	}}
}

func TestInspectOrder(t *testing.T) {
	var kinds []string
	Inspect(sampleLoop(), func(n Node) bool {
		if n != nil {
			kinds = append(kinds, KindOf(n))
		}
		return true
	})
	require.Equal(t, []string{
		"Program",
		"VarDeclaration", "Identifier",
		"While",
		"Grouping", "BinaryOp", "Identifier", "Literal",
		"Block",
		"Print", "Identifier",
		"Assignment", "Identifier", "BinaryOp", "Identifier", "Literal",
	}, kinds)
}

func TestInspectPrune(t *testing.T) {
	var kinds []string
	Inspect(sampleLoop(), func(n Node) bool {
		if n == nil {
			return false
		}
		kinds = append(kinds, KindOf(n))
		_, isWhile := n.(*While)
		return !isWhile
	})
	require.Equal(t, []string{"Program", "VarDeclaration", "Identifier", "While"}, kinds)
}

type countingVisitor struct {
	enter, leave int
}

func (v *countingVisitor) Visit(n Node) Visitor {
	if n == nil {
		v.leave++
		return nil
	}
	v.enter++
	return v
}

func TestWalkBalanced(t *testing.T) {
	v := &countingVisitor{}
	Walk(v, sampleLoop())
	require.Equal(t, 16, v.enter)
	require.Equal(t, v.enter, v.leave)
}

func TestPreorderStopsEarly(t *testing.T) {
	var seen []string
	for n := range Preorder(sampleLoop()) {
		seen = append(seen, KindOf(n))
		if len(seen) == 3 {
			break
		}
	}
	require.Equal(t, []string{"Program", "VarDeclaration", "Identifier"}, seen)
}

func TestCountAndDepth(t *testing.T) {
	prog := sampleLoop()
	require.Equal(t, 16, Count(prog))
	// Program > While > Block > Assign > Binary > Ident
	require.Equal(t, 6, MaxDepth(prog))

	leaf := &Ident{Name: "x"}
	require.Equal(t, 1, Count(leaf))
	require.Equal(t, 1, MaxDepth(leaf))
}

func TestChildren(t *testing.T) {
	cond := &Bool{Value: true}
	then := &Block{}
	els := &Block{}
	ifElse := &IfElse{Cond: cond, Then: then, Else: els}
	require.Equal(t, []Node{cond, then, els}, Children(ifElse))

	require.Nil(t, Children(&Block{}))
	require.Nil(t, Children(&String{Value: "s"}))
	require.Panics(t, func() { Children(nil) })
}
