package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(JumpIfFalse)
	require.Equal(t, "JUMP_IF_FALSE", info.Name)
	require.Equal(t, 1, info.OperandCount)
	require.Equal(t, JumpIfFalse, info.Code)
	require.True(t, info.IsJump())
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code     Code
		name     string
		operands int
	}{
		{Halt, "HALT", 0},
		{Push, "PUSH", 1},
		{Pop, "POP", 0},
		{Load, "LOAD", 1},
		{Store, "STORE", 1},
		{Add, "ADD", 0},
		{Subtract, "SUBTRACT", 0},
		{Multiply, "MULTIPLY", 0},
		{Divide, "DIVIDE", 0},
		{Modulo, "MODULO", 0},
		{Equal, "EQUAL", 0},
		{NotEqual, "NOT_EQUAL", 0},
		{LessThan, "LESS_THAN", 0},
		{LessEqual, "LESS_EQUAL", 0},
		{GreaterThan, "GREATER_THAN", 0},
		{GreaterEqual, "GREATER_EQUAL", 0},
		{And, "AND", 0},
		{Or, "OR", 0},
		{Negate, "NEGATE", 0},
		{Not, "NOT", 0},
		{Print, "PRINT", 0},
		{Jump, "JUMP", 1},
		{JumpIfFalse, "JUMP_IF_FALSE", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.operands, info.OperandCount)
			require.Equal(t, tt.name, tt.code.String())

			code, ok := Lookup(tt.name)
			require.True(t, ok)
			require.Equal(t, tt.code, code)
		})
	}
}

func TestUnknownOpcode(t *testing.T) {
	require.Equal(t, "INVALID", Invalid.String())
	require.Equal(t, "INVALID", Code(9999).String())
	require.Equal(t, Info{}, GetInfo(Code(9999)))

	_, ok := Lookup("LOAD_FAST")
	require.False(t, ok)
}

func TestOperatorMapping(t *testing.T) {
	binary := map[string]Code{
		"+": Add, "-": Subtract, "*": Multiply, "/": Divide, "%": Modulo,
		"==": Equal, "!=": NotEqual, "<": LessThan, "<=": LessEqual,
		">": GreaterThan, ">=": GreaterEqual, "&&": And, "||": Or,
	}
	for operator, want := range binary {
		got, ok := Binary(operator)
		require.True(t, ok, operator)
		require.Equal(t, want, got)
	}
	_, ok := Binary("**")
	require.False(t, ok)

	code, ok := Unary("-")
	require.True(t, ok)
	require.Equal(t, Negate, code)
	code, ok = Unary("!")
	require.True(t, ok)
	require.Equal(t, Not, code)
	_, ok = Unary("+")
	require.False(t, ok)
}
