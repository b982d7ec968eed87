package bytecode

import (
	"math"
	"testing"

	"github.com/deepnoodle-ai/stackc/op"
	"github.com/deepnoodle-ai/stackc/token"
	"github.com/stretchr/testify/require"
)

func TestNewCodeImmutability(t *testing.T) {
	instructions := []Instruction{
		{Op: op.Push, Operand: int64(5)},
		{Op: op.Store, Operand: "x"},
	}
	locations := []SourceLocation{{Line: 1, Column: 5}, {Line: 1, Column: 1}}

	code := NewCode(CodeParams{
		Instructions: instructions,
		Locations:    locations,
		Filename:     "main.sc",
		Source:       "x = 5;",
	})

	instructions[0] = Instruction{Op: op.Halt}
	locations[0] = SourceLocation{Line: 999, Column: 999}

	require.Equal(t, op.Push, code.InstructionAt(0).Op)
	require.Equal(t, 1, code.LocationAt(0).Line)

	copied := code.Instructions()
	copied[1] = Instruction{Op: op.Pop}
	require.Equal(t, op.Store, code.InstructionAt(1).Op)

	require.Equal(t, 2, code.InstructionCount())
	require.Equal(t, 2, code.LocationCount())
	require.Equal(t, "main.sc", code.Filename())
	require.Equal(t, "x = 5;", code.Source())
}

func TestLocationAtOutOfRange(t *testing.T) {
	code := NewCode(CodeParams{})
	require.True(t, code.LocationAt(-1).IsZero())
	require.True(t, code.LocationAt(3).IsZero())
	require.Equal(t, "", code.String())
}

func TestLocationOf(t *testing.T) {
	loc := LocationOf(token.Position{Line: 2, Column: 4})
	require.Equal(t, SourceLocation{Line: 3, Column: 5}, loc)
	require.Equal(t, "3:5", loc.String())
	require.False(t, loc.IsZero())
}

func TestGetSourceLine(t *testing.T) {
	code := NewCode(CodeParams{Source: "x = 1;\r\nprint x;\n"})
	require.Equal(t, "x = 1;", code.GetSourceLine(1))
	require.Equal(t, "print x;", code.GetSourceLine(2))
	require.Equal(t, "", code.GetSourceLine(0))
	require.Equal(t, "", code.GetSourceLine(10))
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		instr Instruction
		want  string
	}{
		{Instruction{Op: op.Push, Operand: int64(5)}, "PUSH 5"},
		{Instruction{Op: op.Push, Operand: 2.5}, "PUSH 2.5"},
		{Instruction{Op: op.Push, Operand: 3.0}, "PUSH 3.0"},
		{Instruction{Op: op.Push, Operand: "hi"}, `PUSH "hi"`},
		{Instruction{Op: op.Push, Operand: "a\nb"}, `PUSH "a\nb"`},
		{Instruction{Op: op.Push, Operand: true}, "PUSH true"},
		{Instruction{Op: op.Load, Operand: "x"}, "LOAD x"},
		{Instruction{Op: op.Store, Operand: "total"}, "STORE total"},
		{Instruction{Op: op.JumpIfFalse, Operand: 7}, "JUMP_IF_FALSE 7"},
		{Instruction{Op: op.Jump, Operand: 0}, "JUMP 0"},
		{Instruction{Op: op.Add}, "ADD"},
		{Instruction{Op: op.Print}, "PRINT"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.instr.String())
		})
	}
}

func TestInstructionTarget(t *testing.T) {
	target, ok := Instruction{Op: op.Jump, Operand: 4}.Target()
	require.True(t, ok)
	require.Equal(t, 4, target)

	_, ok = Instruction{Op: op.Push, Operand: int64(4)}.Target()
	require.False(t, ok)
}

func TestNamesAndStats(t *testing.T) {
	code := NewCode(CodeParams{
		Source: "source",
		Instructions: []Instruction{
			{Op: op.Push, Operand: int64(0)},
			{Op: op.Store, Operand: "i"},
			{Op: op.Load, Operand: "i"},
			{Op: op.Push, Operand: int64(3)},
			{Op: op.LessThan},
			{Op: op.JumpIfFalse, Operand: 11},
			{Op: op.Load, Operand: "i"},
			{Op: op.Print},
			{Op: op.Load, Operand: "step"},
			{Op: op.Store, Operand: "i"},
			{Op: op.Jump, Operand: 2},
		},
	})
	require.Equal(t, []string{"i", "step"}, code.Names())
	require.Equal(t, Stats{
		InstructionCount: 11,
		ConstantCount:    2,
		JumpCount:        2,
		NameCount:        2,
		SourceBytes:      6,
	}, code.Stats())
}

func TestFormatValueRoundTrip(t *testing.T) {
	values := []any{
		int64(0), int64(-12), int64(math.MaxInt64),
		1.5, 3.0, 1e21, math.Inf(1),
		"", "hello world", `quote " inside`, "tab\there",
		true, false,
	}
	for _, v := range values {
		text := FormatValue(v)
		got, err := ParseValue(text)
		require.NoError(t, err, text)
		require.Equal(t, v, got, text)
	}

	_, err := ParseValue("abc")
	require.Error(t, err)
}
