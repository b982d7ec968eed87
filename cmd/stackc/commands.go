package main

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/deepnoodle-ai/stackc"
	"github.com/deepnoodle-ai/stackc/ast"
	"github.com/deepnoodle-ai/stackc/dis"
	"github.com/deepnoodle-ai/stackc/internal/table"
	"github.com/deepnoodle-ai/stackc/token"
	"github.com/deepnoodle-ai/stackc/viz"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

func (a *app) options(filename string) []stackc.Option {
	return []stackc.Option{
		stackc.WithFilename(filename),
		stackc.WithLogger(a.logger),
		stackc.WithPopExpressionResults(a.v.GetBool("pop")),
		stackc.WithHalt(a.v.GetBool("halt")),
	}
}

func (a *app) tokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "List the tokens of the source code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := a.getSource(cmd, args)
			if err != nil {
				return err
			}
			tokens, lexErr := stackc.Tokenize(source, a.options(filename)...)
			out := cmd.OutOrStdout()
			switch a.v.GetString("output") {
			case "json":
				if err := a.writeJSON(out, tokensToJSON(tokens)); err != nil {
					return err
				}
			case "", "text":
				printTokens(out, tokens)
			default:
				return fmt.Errorf("unknown output format: %s", a.v.GetString("output"))
			}
			return lexErr
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format (text, json)")
	return cmd
}

// TokenJSON is the JSON form of a token.
type TokenJSON struct {
	Type    string `json:"type"`
	Literal string `json:"literal"`
	Value   any    `json:"value,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func tokensToJSON(tokens []token.Token) []TokenJSON {
	out := make([]TokenJSON, len(tokens))
	for i, tok := range tokens {
		out[i] = TokenJSON{
			Type:    string(tok.Type),
			Literal: tok.Literal,
			Value:   tok.Value,
			Line:    tok.StartPosition.LineNumber(),
			Column:  tok.StartPosition.ColumnNumber(),
		}
	}
	return out
}

func printTokens(w io.Writer, tokens []token.Token) {
	faint := color.New(color.Faint).SprintFunc()
	rows := make([][]string, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, []string{
			faint(fmt.Sprintf("%d:%d", tok.StartPosition.LineNumber(), tok.StartPosition.ColumnNumber())),
			string(tok.Type),
			tok.Literal,
		})
	}
	table.NewTable(w).
		WithHeader([]string{"POS", "TYPE", "LITERAL"}).
		WithColumnAlignment([]table.Alignment{table.AlignRight, table.AlignLeft, table.AlignLeft}).
		WithRows(rows).
		Render()
}

func (a *app) astCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Display the syntax tree of the source code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := a.getSource(cmd, args)
			if err != nil {
				return err
			}
			program, err := stackc.Parse(cmd.Context(), source, a.options(filename)...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch a.v.GetString("output") {
			case "json":
				return a.writeJSON(out, nodeToJSON(program))
			case "string":
				fmt.Fprintln(out, program.String())
			case "", "text":
				printTree(out, program)
			default:
				return fmt.Errorf("unknown output format: %s", a.v.GetString("output"))
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format (text, string, json)")
	return cmd
}

// ASTNode represents a node in the JSON AST output
type ASTNode struct {
	Type     string     `json:"type"`
	Kind     string     `json:"kind"`
	Value    any        `json:"value,omitempty"`
	Line     int        `json:"line,omitempty"`
	Column   int        `json:"column,omitempty"`
	Children []*ASTNode `json:"children,omitempty"`
}

func nodeToJSON(node ast.Node) *ASTNode {
	result := &ASTNode{
		Type: reflect.TypeOf(node).Elem().Name(),
		Kind: ast.KindOf(node),
	}
	if _, isProgram := node.(*ast.Program); !isProgram {
		result.Line = node.Pos().LineNumber()
		result.Column = node.Pos().ColumnNumber()
	}
	switch n := node.(type) {
	case *ast.Ident:
		result.Value = n.Name
	case ast.Literal:
		result.Value = n.Val()
	case *ast.Binary:
		result.Value = n.Op
	case *ast.Unary:
		result.Value = n.Op
	case *ast.VarDecl:
		if n.Type != "" {
			result.Value = n.Type
		}
	}
	for _, child := range ast.Children(node) {
		result.Children = append(result.Children, nodeToJSON(child))
	}
	return result
}

// printTree writes one line per node, indented by depth.
func printTree(w io.Writer, program *ast.Program) {
	depth := 0
	ast.Inspect(program, func(n ast.Node) bool {
		if n == nil {
			depth--
			return false
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), viz.Label(n))
		depth++
		return true
	})
}

func (a *app) runCompile(cmd *cobra.Command, args []string) error {
	source, filename, err := a.getSource(cmd, args)
	if err != nil {
		return err
	}
	code, err := stackc.Compile(cmd.Context(), source, a.options(filename)...)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), code.String())
	return nil
}

func (a *app) compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Print the generated instructions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runCompile,
	}
	cmd.Flags().Bool("pop", false, "discard the result of expression statements")
	cmd.Flags().Bool("halt", false, "end the code with HALT")
	return cmd
}

func (a *app) disCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble the generated instructions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := a.getSource(cmd, args)
			if err != nil {
				return err
			}
			code, err := stackc.Compile(cmd.Context(), source, a.options(filename)...)
			if err != nil {
				return err
			}
			dis.Print(dis.Disassemble(code), cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().Bool("pop", false, "discard the result of expression statements")
	cmd.Flags().Bool("halt", false, "end the code with HALT")
	return cmd
}

func (a *app) dotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "Write the syntax tree as a Graphviz DOT file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := a.getSource(cmd, args)
			if err != nil {
				return err
			}
			program, err := stackc.Parse(cmd.Context(), source, a.options(filename)...)
			if err != nil {
				return err
			}
			if a.v.GetBool("print") {
				return viz.Render(cmd.OutOrStdout(), program)
			}
			path, err := viz.WriteFile(a.v.GetString("dir"), program)
			if err != nil {
				return fmt.Errorf("writing diagram: %w", err)
			}
			a.logger.Info().Str("path", path).Msg("wrote diagram")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().String("dir", ".", "directory to write the .dot file to")
	cmd.Flags().Bool("print", false, "print the diagram instead of writing a file")
	return cmd
}

// writeJSON writes v as indented JSON, colorized when w is a terminal.
func (a *app) writeJSON(w io.Writer, v any) error {
	var data []byte
	var err error
	if !a.v.GetBool("no-color") && writerIsTerminal(w) {
		data, err = prettyjson.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
