package ast

import (
	"fmt"
	"iter"
)

// Visitor is called for each node encountered by Walk. If the result visitor
// w is not nil, Walk visits each of the children of node with the visitor w,
// followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order: It starts by calling
// v.Visit(node); node must not be nil. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor
// w for each of the non-nil children of node, followed by a call of
// w.Visit(nil).
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
	v.Visit(nil)
}

// Children returns the direct children of a node in source order. Leaf nodes
// return nil. Block bodies are returned as the Block node itself, not as its
// statements.
func Children(node Node) []Node {
	switch n := node.(type) {
	case *Program:
		return stmtNodes(n.Stmts)
	case *Block:
		return stmtNodes(n.Stmts)
	case *ExprStmt:
		return []Node{n.X}
	case *VarDecl:
		return []Node{n.Name}
	case *Assign:
		return []Node{n.Name, n.Value}
	case *If:
		return []Node{n.Cond, n.Then}
	case *IfElse:
		return []Node{n.Cond, n.Then, n.Else}
	case *While:
		return []Node{n.Cond, n.Body}
	case *Print:
		return []Node{n.X}
	case *Binary:
		return []Node{n.X, n.Y}
	case *Unary:
		return []Node{n.X}
	case *Grouping:
		return []Node{n.X}
	case *Ident, *Int, *Float, *String, *Bool:
		return nil
	default:
		panic(fmt.Sprintf("ast.Children: unexpected node type %T", n))
	}
}

func stmtNodes(stmts []Stmt) []Node {
	if len(stmts) == 0 {
		return nil
	}
	nodes := make([]Node, 0, len(stmts))
	for _, stmt := range stmts {
		nodes = append(nodes, stmt)
	}
	return nodes
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Preorder returns an iterator over all the nodes of the syntax tree
// beneath (and including) the specified root, in depth-first
// preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		ok := true
		Inspect(root, func(n Node) bool {
			if n != nil {
				ok = ok && yield(n)
			}
			return ok
		})
	}
}

// Count returns the number of nodes in the tree rooted at node.
func Count(node Node) int {
	count := 0
	for range Preorder(node) {
		count++
	}
	return count
}

// MaxDepth returns the depth of the deepest node beneath root, where root
// itself has depth 1.
func MaxDepth(root Node) int {
	depth, deepest := 0, 0
	Inspect(root, func(n Node) bool {
		if n == nil {
			depth--
			return false
		}
		depth++
		if depth > deepest {
			deepest = depth
		}
		return true
	})
	return deepest
}
