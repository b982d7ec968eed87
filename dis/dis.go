// Package dis supports analysis of generated code by disassembling it.
// This works with the opcodes defined in the `op` package and the
// instruction sequence held by `bytecode.Code`.
package dis

import (
	"fmt"
	"io"

	"github.com/deepnoodle-ai/stackc/bytecode"
	"github.com/deepnoodle-ai/stackc/internal/table"
	"github.com/deepnoodle-ai/stackc/op"
	"github.com/fatih/color"
)

// Instruction represents a single instruction prepared for display.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operand    string
	Annotation string
	Constant   any
	Location   bytecode.SourceLocation
}

var operatorSymbols = map[op.Code]string{
	op.Add:          "+",
	op.Subtract:     "-",
	op.Multiply:     "*",
	op.Divide:       "/",
	op.Modulo:       "%",
	op.Equal:        "==",
	op.NotEqual:     "!=",
	op.LessThan:     "<",
	op.LessEqual:    "<=",
	op.GreaterThan:  ">",
	op.GreaterEqual: ">=",
	op.And:          "&&",
	op.Or:           "||",
	op.Negate:       "-x",
	op.Not:          "!x",
}

// Disassemble returns a parsed representation of the given code.
func Disassemble(code *bytecode.Code) []Instruction {
	count := code.InstructionCount()
	instructions := make([]Instruction, 0, count)
	for i := 0; i < count; i++ {
		instr := code.InstructionAt(i)
		info := op.GetInfo(instr.Op)
		var constant any
		var annotation string
		switch info.Operand {
		case op.ValueOperand:
			constant = instr.Operand
		case op.NameOperand:
			annotation = fmt.Sprint(instr.Operand)
		case op.TargetOperand:
			if target, ok := instr.Target(); ok {
				annotation = fmt.Sprintf("-> %d", target)
				if target == count {
					annotation = "-> end"
				}
			}
		default:
			annotation = operatorSymbols[instr.Op]
		}
		instructions = append(instructions, Instruction{
			Offset:     i,
			Name:       info.Name,
			Opcode:     instr.Op,
			Operand:    instr.OperandString(),
			Annotation: annotation,
			Constant:   constant,
			Location:   code.LocationAt(i),
		})
	}
	return instructions
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	cyan    = color.New(color.FgHiCyan).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
)

// Print a string representation of the given instructions to the given writer.
// Colors follow color.NoColor.
func Print(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		var values []string
		values = append(values, fmt.Sprintf("%d", instr.Offset))
		if instr.Location.IsZero() {
			values = append(values, "")
		} else {
			values = append(values, faint(instr.Location.String()))
		}
		values = append(values, bold(instr.Name))
		values = append(values, instr.Operand)
		if instr.Constant != nil {
			switch c := instr.Constant.(type) {
			case int64, float64:
				values = append(values, yellow(instr.Operand))
			case string:
				if len(c) > 80 {
					c = c[:77] + "..."
				}
				values = append(values, green(fmt.Sprintf("%q", c)))
			default:
				values = append(values, bold(fmt.Sprintf("%v", c)))
			}
		} else if op.GetInfo(instr.Opcode).IsJump() {
			values = append(values, magenta(instr.Annotation))
		} else if instr.Annotation != "" {
			values = append(values, cyan(instr.Annotation))
		} else {
			values = append(values, "")
		}
		lines = append(lines, values)
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "LINE", "OPCODE", "OPERAND", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}
