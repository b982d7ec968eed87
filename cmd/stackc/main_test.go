package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/stackc/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(viper.New())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileCommand(t *testing.T) {
	out, err := execute(t, "", "compile", "-c", "1 + 2 * 3;")
	require.NoError(t, err)
	require.Equal(t, "PUSH 1\nPUSH 2\nPUSH 3\nMULTIPLY\nADD\n", out)
}

func TestRootCompiles(t *testing.T) {
	out, err := execute(t, "", "-c", "x = 5;")
	require.NoError(t, err)
	require.Equal(t, "PUSH 5\nSTORE x\n", out)
}

func TestCompileFlags(t *testing.T) {
	out, err := execute(t, "", "compile", "--pop", "--halt", "-c", "1;")
	require.NoError(t, err)
	require.Equal(t, "PUSH 1\nPOP\nHALT\n", out)
}

func TestCompileStdin(t *testing.T) {
	out, err := execute(t, "print x;", "compile", "--stdin")
	require.NoError(t, err)
	require.Equal(t, "LOAD x\nPRINT\n", out)
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.sc")
	require.NoError(t, os.WriteFile(path, []byte("if x { print x; }"), 0o644))
	out, err := execute(t, "", "compile", path)
	require.NoError(t, err)
	require.Equal(t, "LOAD x\nJUMP_IF_FALSE 4\nLOAD x\nPRINT\n", out)
}

func TestCompileMissingFile(t *testing.T) {
	_, err := execute(t, "", "compile", filepath.Join(t.TempDir(), "missing.sc"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(err))
}

func TestInputSources(t *testing.T) {
	_, err := execute(t, "", "compile", "-c", "x;", "main.sc")
	require.EqualError(t, err, "multiple input sources specified")

	_, err = execute(t, "", "compile", "-c", "x;", "--stdin")
	require.EqualError(t, err, "multiple input sources specified")

	_, err = execute(t, "", "compile")
	require.EqualError(t, err, "no input: pass a file, --code or --stdin")
}

func TestCompileSyntaxError(t *testing.T) {
	out, err := execute(t, "", "compile", "-c", "if (x")
	require.Error(t, err)
	require.Empty(t, out)
	var syntaxErr *errors.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	require.Equal(t, errors.E2001, syntaxErr.Code)
}

func TestCompileFilenameInErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.sc")
	require.NoError(t, os.WriteFile(path, []byte("x = ;"), 0o644))
	_, err := execute(t, "", "compile", path)
	require.Error(t, err)
	require.Equal(t, path, errors.First(err).Filename)
}

func TestTokensCommand(t *testing.T) {
	out, err := execute(t, "", "tokens", "-c", "x != y;")
	require.NoError(t, err)
	require.Contains(t, out, "| POS |")
	require.Contains(t, out, "IDENT")
	require.Contains(t, out, "!=")
	require.Contains(t, out, "EOF")
}

func TestTokensJSON(t *testing.T) {
	out, err := execute(t, "", "tokens", "-o", "json", "-c", "x = 1.5;")
	require.NoError(t, err)
	var tokens []TokenJSON
	require.NoError(t, json.Unmarshal([]byte(out), &tokens))
	require.Len(t, tokens, 5)
	require.Equal(t, TokenJSON{Type: "IDENT", Literal: "x", Line: 1, Column: 1}, tokens[0])
	require.Equal(t, "FLOAT", tokens[2].Type)
	require.Equal(t, 1.5, tokens[2].Value)
	require.Equal(t, "EOF", tokens[4].Type)
}

func TestTokensLexError(t *testing.T) {
	out, err := execute(t, "", "tokens", "-c", "x # y;")
	require.Error(t, err)
	require.Equal(t, errors.E1001, errors.First(err).Code)
	require.Contains(t, out, "| y ")
}

func TestTokensUnknownFormat(t *testing.T) {
	_, err := execute(t, "", "tokens", "-o", "yaml", "-c", "x;")
	require.EqualError(t, err, "unknown output format: yaml")
}

func TestASTCommand(t *testing.T) {
	out, err := execute(t, "", "ast", "-c", "x = 1 + 2;")
	require.NoError(t, err)
	expected := `Program
  Assignment
    Identifier x
    BinaryOp +
      Literal 1
      Literal 2
`
	require.Equal(t, expected, out)
}

func TestASTString(t *testing.T) {
	out, err := execute(t, "", "ast", "-o", "string", "-c", "x = 1 + 2 * 3;")
	require.NoError(t, err)
	require.Equal(t, "x = (1 + (2 * 3));\n", out)
}

func TestASTJSON(t *testing.T) {
	out, err := execute(t, "", "ast", "-o", "json", "-c", "x = 1 + 2;")
	require.NoError(t, err)
	var root ASTNode
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	require.Equal(t, "Program", root.Kind)
	require.Equal(t, 0, root.Line)
	require.Len(t, root.Children, 1)

	assign := root.Children[0]
	require.Equal(t, "Assign", assign.Type)
	require.Equal(t, "Assignment", assign.Kind)
	require.Equal(t, 1, assign.Line)
	require.Equal(t, 1, assign.Column)
	require.Len(t, assign.Children, 2)
	require.Equal(t, "x", assign.Children[0].Value)
	require.Equal(t, "+", assign.Children[1].Value)
	require.Equal(t, float64(1), assign.Children[1].Children[0].Value)
}

func TestDisCommand(t *testing.T) {
	out, err := execute(t, "", "dis", "-c", "while x { x = x - 1; }")
	require.NoError(t, err)
	require.Contains(t, out, "| OFFSET |")
	require.Contains(t, out, "JUMP_IF_FALSE")
	require.Contains(t, out, "-> end")
	require.Contains(t, out, "-> 0")
}

func TestDotCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "", "dot", "--dir", dir, "-c", "print 1;")
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	require.Equal(t, dir, filepath.Dir(path))
	require.Equal(t, ".dot", filepath.Ext(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "digraph AST {")
	require.Contains(t, string(data), `n2 [label="Literal 1"];`)
}

func TestDotPrint(t *testing.T) {
	out, err := execute(t, "", "dot", "--print", "-c", "x;")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "digraph AST {\n"))
	require.Contains(t, out, `n1 [label="VarDeclaration"];`)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("halt: true\n"), 0o644))
	out, err := execute(t, "", "compile", "--config", path, "-c", "1;")
	require.NoError(t, err)
	require.Equal(t, "PUSH 1\nHALT\n", out)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "", "compile", "--config", filepath.Join(t.TempDir(), "none.yaml"), "-c", "1;")
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestEnvironment(t *testing.T) {
	t.Setenv("STACKC_POP", "true")
	out, err := execute(t, "", "compile", "-c", "1;")
	require.NoError(t, err)
	require.Equal(t, "PUSH 1\nPOP\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "", "compile", "--log-level", "loud", "-c", "1;")
	require.EqualError(t, err, `invalid log level "loud"`)
}
