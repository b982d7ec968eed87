// Package op defines the opcodes emitted by the code generator.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint16

const (
	Invalid Code = 0

	// Execution
	Halt Code = 1

	// Stack
	Push Code = 10
	Pop  Code = 11

	// Variables
	Load  Code = 20
	Store Code = 21

	// Arithmetic
	Add      Code = 30
	Subtract Code = 31
	Multiply Code = 32
	Divide   Code = 33
	Modulo   Code = 34

	// Comparison
	Equal        Code = 40
	NotEqual     Code = 41
	LessThan     Code = 42
	LessEqual    Code = 43
	GreaterThan  Code = 44
	GreaterEqual Code = 45

	// Logic
	And Code = 50
	Or  Code = 51

	// Unary
	Negate Code = 60
	Not    Code = 61

	// Output
	Print Code = 70

	// Jump
	Jump        Code = 80
	JumpIfFalse Code = 81
)

// OperandKind describes what, if anything, follows an opcode.
type OperandKind uint8

const (
	NoOperand OperandKind = iota
	ValueOperand
	NameOperand
	TargetOperand
)

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
	Operand      OperandKind
}

// IsJump reports whether the opcode transfers control to a target index.
func (i Info) IsJump() bool {
	return i.Operand == TargetOperand
}

var (
	infos  = make([]Info, 128)
	byName = map[string]Code{}
)

func init() {
	type opInfo struct {
		op      Code
		name    string
		operand OperandKind
	}
	ops := []opInfo{
		{Add, "ADD", NoOperand},
		{And, "AND", NoOperand},
		{Divide, "DIVIDE", NoOperand},
		{Equal, "EQUAL", NoOperand},
		{GreaterEqual, "GREATER_EQUAL", NoOperand},
		{GreaterThan, "GREATER_THAN", NoOperand},
		{Halt, "HALT", NoOperand},
		{Jump, "JUMP", TargetOperand},
		{JumpIfFalse, "JUMP_IF_FALSE", TargetOperand},
		{LessEqual, "LESS_EQUAL", NoOperand},
		{LessThan, "LESS_THAN", NoOperand},
		{Load, "LOAD", NameOperand},
		{Modulo, "MODULO", NoOperand},
		{Multiply, "MULTIPLY", NoOperand},
		{Negate, "NEGATE", NoOperand},
		{Not, "NOT", NoOperand},
		{NotEqual, "NOT_EQUAL", NoOperand},
		{Or, "OR", NoOperand},
		{Pop, "POP", NoOperand},
		{Print, "PRINT", NoOperand},
		{Push, "PUSH", ValueOperand},
		{Store, "STORE", NameOperand},
		{Subtract, "SUBTRACT", NoOperand},
	}
	for _, o := range ops {
		count := 0
		if o.operand != NoOperand {
			count = 1
		}
		infos[o.op] = Info{
			Code:         o.op,
			Name:         o.name,
			OperandCount: count,
			Operand:      o.operand,
		}
		byName[o.name] = o.op
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(code Code) Info {
	if int(code) >= len(infos) {
		return Info{}
	}
	return infos[code]
}

// Lookup returns the opcode with the given name.
func Lookup(name string) (Code, bool) {
	code, ok := byName[name]
	return code, ok
}

// String returns the opcode name, as in "JUMP_IF_FALSE".
func (c Code) String() string {
	if name := GetInfo(c).Name; name != "" {
		return name
	}
	return "INVALID"
}

// Binary maps a binary operator to its opcode.
func Binary(operator string) (Code, bool) {
	switch operator {
	case "+":
		return Add, true
	case "-":
		return Subtract, true
	case "*":
		return Multiply, true
	case "/":
		return Divide, true
	case "%":
		return Modulo, true
	case "==":
		return Equal, true
	case "!=":
		return NotEqual, true
	case "<":
		return LessThan, true
	case "<=":
		return LessEqual, true
	case ">":
		return GreaterThan, true
	case ">=":
		return GreaterEqual, true
	case "&&":
		return And, true
	case "||":
		return Or, true
	}
	return Invalid, false
}

// Unary maps a prefix operator to its opcode.
func Unary(operator string) (Code, bool) {
	switch operator {
	case "-":
		return Negate, true
	case "!":
		return Not, true
	}
	return Invalid, false
}
