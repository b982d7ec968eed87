package dis

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/stackc/bytecode"
	"github.com/deepnoodle-ai/stackc/compiler"
	"github.com/deepnoodle-ai/stackc/op"
	"github.com/deepnoodle-ai/stackc/parser"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string) *bytecode.Code {
	t.Helper()
	program, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	code, err := compiler.Compile(program)
	require.NoError(t, err)
	return code
}

func TestDisassemble(t *testing.T) {
	code := compile(t, "x = 5;\nif x > 1 { print \"big\"; }")
	instructions := Disassemble(code)
	require.Len(t, instructions, 8)

	require.Equal(t, Instruction{
		Offset:   0,
		Name:     "PUSH",
		Opcode:   op.Push,
		Operand:  "5",
		Constant: int64(5),
		Location: bytecode.SourceLocation{Line: 1, Column: 5},
	}, instructions[0])

	require.Equal(t, "x", instructions[1].Annotation)
	require.Equal(t, ">", instructions[4].Annotation)
	require.Equal(t, "-> end", instructions[5].Annotation)
	require.Equal(t, "big", instructions[6].Constant)
	require.Equal(t, `"big"`, instructions[6].Operand)
}

func TestDisassembleJumpAnnotation(t *testing.T) {
	program, err := parser.Parse(context.Background(), "while a { a = 0; }")
	require.NoError(t, err)
	code, err := compiler.Compile(program, compiler.WithHalt(true))
	require.NoError(t, err)
	instructions := Disassemble(code)
	require.Len(t, instructions, 6)
	require.Equal(t, "-> 5", instructions[1].Annotation)
	require.Equal(t, "5", instructions[1].Operand)
	require.Equal(t, "-> 0", instructions[4].Annotation)
	require.Equal(t, "HALT", instructions[5].Name)
}

func TestPrint(t *testing.T) {
	// Disable colors for consistent test output
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	code := compile(t, "x = 5;\nif x > 1 { print \"big\"; }")
	var buf bytes.Buffer
	Print(Disassemble(code), &buf)

	expected := strings.TrimSpace(`
+--------+------+---------------+---------+--------+
| OFFSET | LINE |    OPCODE     | OPERAND |  INFO  |
+--------+------+---------------+---------+--------+
|      0 |  1:5 | PUSH          |       5 | 5      |
|      1 |  1:1 | STORE         |       x | x      |
|      2 |  2:4 | LOAD          |       x | x      |
|      3 |  2:8 | PUSH          |       1 | 1      |
|      4 |  2:6 | GREATER_THAN  |         | >      |
|      5 |  2:1 | JUMP_IF_FALSE |       8 | -> end |
|      6 | 2:18 | PUSH          |   "big" | "big"  |
|      7 | 2:12 | PRINT         |         |        |
+--------+------+---------------+---------+--------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestPrintWithoutLocations(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	code, err := bytecode.Parse("PUSH true\nNOT\nHALT\n")
	require.NoError(t, err)
	var buf bytes.Buffer
	Print(Disassemble(code), &buf)

	expected := strings.TrimSpace(`
+--------+------+--------+---------+------+
| OFFSET | LINE | OPCODE | OPERAND | INFO |
+--------+------+--------+---------+------+
|      0 |      | PUSH   |    true | true |
|      1 |      | NOT    |         | !x   |
|      2 |      | HALT   |         |      |
+--------+------+--------+---------+------+
`)
	require.Equal(t, expected+"\n", buf.String())
}
