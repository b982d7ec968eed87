package bytecode

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/stackc/op"
)

// Parse reads instructions in the text form produced by Code.String. Blank
// lines and lines starting with "#" are ignored. Jump targets must fall within
// the program, where a target equal to the instruction count means "end".
func Parse(text string) (*Code, error) {
	var instructions []Instruction
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		instr, err := parseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		instructions = append(instructions, instr)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	for i, instr := range instructions {
		if target, ok := instr.Target(); ok && (target < 0 || target > len(instructions)) {
			return nil, fmt.Errorf("instruction %d: jump target %d out of range", i, target)
		}
	}
	return NewCode(CodeParams{Instructions: instructions}), nil
}

func parseInstruction(line string) (Instruction, error) {
	name, operand, _ := strings.Cut(line, " ")
	operand = strings.TrimSpace(operand)
	code, ok := op.Lookup(name)
	if !ok {
		return Instruction{}, fmt.Errorf("unknown opcode %q", name)
	}
	info := op.GetInfo(code)
	if info.OperandCount == 0 {
		if operand != "" {
			return Instruction{}, fmt.Errorf("%s takes no operand", name)
		}
		return Instruction{Op: code}, nil
	}
	if operand == "" {
		return Instruction{}, fmt.Errorf("%s requires an operand", name)
	}
	switch info.Operand {
	case op.ValueOperand:
		value, err := ParseValue(operand)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: code, Operand: value}, nil
	case op.TargetOperand:
		target, err := strconv.Atoi(operand)
		if err != nil {
			return Instruction{}, fmt.Errorf("invalid jump target %q", operand)
		}
		return Instruction{Op: code, Operand: target}, nil
	default:
		if strings.ContainsAny(operand, " \t\"") {
			return Instruction{}, fmt.Errorf("invalid name %q", operand)
		}
		return Instruction{Op: code, Operand: operand}, nil
	}
}
