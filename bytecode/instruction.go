package bytecode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/stackc/op"
)

// Instruction is a single stack-machine instruction.
//
// The operand depends on the opcode: PUSH carries an int64, float64, string
// or bool value; LOAD and STORE carry a variable name (string); JUMP and
// JUMP_IF_FALSE carry an absolute instruction index (int). All other
// opcodes have a nil operand.
type Instruction struct {
	Op      op.Code
	Operand any
}

// Name returns the opcode name, as in "PUSH".
func (i Instruction) Name() string {
	return i.Op.String()
}

// Target returns the jump target of a JUMP or JUMP_IF_FALSE instruction.
func (i Instruction) Target() (int, bool) {
	if !op.GetInfo(i.Op).IsJump() {
		return 0, false
	}
	target, ok := i.Operand.(int)
	return target, ok
}

// OperandString renders the operand in text form. String values pushed by
// PUSH are quoted; names and targets are not. It returns "" when there is no
// operand.
func (i Instruction) OperandString() string {
	if i.Operand == nil {
		return ""
	}
	if op.GetInfo(i.Op).Operand == op.ValueOperand {
		return FormatValue(i.Operand)
	}
	return fmt.Sprint(i.Operand)
}

// String renders the instruction in text form, as in "PUSH 5" or "ADD".
func (i Instruction) String() string {
	operand := i.OperandString()
	if operand == "" {
		return i.Name()
	}
	return i.Name() + " " + operand
}

// FormatValue renders a PUSH value so that ParseValue reads it back as the
// same Go type.
func FormatValue(v any) string {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		return s
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// ParseValue is the inverse of FormatValue.
func ParseValue(s string) (any, error) {
	switch {
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case strings.HasPrefix(s, `"`):
		return strconv.Unquote(s)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q", s)
	}
	return f, nil
}
