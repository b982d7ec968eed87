// Package viz renders an AST as a Graphviz DOT digraph.
package viz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/stackc/ast"
	"github.com/gofrs/uuid"
)

// renderContext carries the state of one rendering: the id of the next node
// and the ids of the nodes enclosing the current one.
type renderContext struct {
	b       *strings.Builder
	next    int
	parents []int
}

func (rc *renderContext) Visit(node ast.Node) ast.Visitor {
	if node == nil {
		rc.parents = rc.parents[:len(rc.parents)-1]
		return nil
	}
	id := rc.next
	rc.next++
	fmt.Fprintf(rc.b, "\tn%d [label=\"%s\"];\n", id, escape(Label(node)))
	if len(rc.parents) > 0 {
		fmt.Fprintf(rc.b, "\tn%d -> n%d;\n", rc.parents[len(rc.parents)-1], id)
	}
	rc.parents = append(rc.parents, id)
	return rc
}

// Render writes the program as a DOT digraph. Nodes are numbered in preorder
// starting at n0 for the program itself.
func Render(w io.Writer, program *ast.Program) error {
	if program == nil {
		return fmt.Errorf("viz: nil program")
	}
	var b strings.Builder
	b.WriteString("digraph AST {\n")
	b.WriteString("\tnode [shape=box];\n")
	ast.Walk(&renderContext{b: &b}, program)
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// Label returns the text shown for a node: its kind, followed by the
// operator, name or value it carries.
func Label(node ast.Node) string {
	kind := ast.KindOf(node)
	var detail string
	switch n := node.(type) {
	case *ast.VarDecl:
		detail = n.Type
	case *ast.Ident:
		detail = n.Name
	case *ast.Binary:
		detail = n.Op
	case *ast.Unary:
		detail = n.Op
	case ast.Literal:
		detail = n.String()
	}
	if detail == "" {
		return kind
	}
	return kind + " " + detail
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func escape(s string) string {
	return dotEscaper.Replace(s)
}

// Filename returns a random file name with the given extension, such as
// "6ba7b810-9dad-41d1-80b4-00c04fd430c8.dot".
func Filename(ext string) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("viz: generating file name: %w", err)
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return id.String(), nil
	}
	return id.String() + "." + ext, nil
}

// WriteFile renders the program into a new uniquely named .dot file in dir
// and returns its path.
func WriteFile(dir string, program *ast.Program) (string, error) {
	name, err := Filename("dot")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Render(f, program); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
