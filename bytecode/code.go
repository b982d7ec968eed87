package bytecode

import (
	"slices"
	"strings"

	"github.com/deepnoodle-ai/stackc/op"
)

// Code represents a generated instruction sequence.
// It is immutable after creation and safe for concurrent use.
type Code struct {
	instructions []Instruction
	source       string
	filename     string

	// Source map: one location per instruction for error reporting
	locations []SourceLocation
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	Instructions []Instruction
	Source       string
	Filename     string
	Locations    []SourceLocation
}

// NewCode creates a new immutable Code from the given parameters.
// Input slices are copied to ensure immutability.
func NewCode(params CodeParams) *Code {
	return &Code{
		instructions: slices.Clone(params.Instructions),
		source:       params.Source,
		filename:     params.Filename,
		locations:    slices.Clone(params.Locations),
	}
}

// InstructionCount returns the number of instructions.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at the given index.
func (c *Code) InstructionAt(index int) Instruction {
	return c.instructions[index]
}

// Instructions returns a copy of the instruction sequence.
func (c *Code) Instructions() []Instruction {
	return slices.Clone(c.instructions)
}

// Source returns the source code the instructions were generated from.
func (c *Code) Source() string {
	return c.source
}

// Filename returns the source filename.
func (c *Code) Filename() string {
	return c.filename
}

// LocationAt returns the source location for the instruction at the given index.
func (c *Code) LocationAt(ip int) SourceLocation {
	if ip < 0 || ip >= len(c.locations) {
		return SourceLocation{}
	}
	return c.locations[ip]
}

// LocationCount returns the number of recorded source locations.
func (c *Code) LocationCount() int {
	return len(c.locations)
}

// GetSourceLine returns the source code line at the given 1-based line number.
func (c *Code) GetSourceLine(lineNum int) string {
	if lineNum < 1 || c.source == "" {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[lineNum-1], "\r")
}

// Names returns the variable names referenced by LOAD and STORE, in order of
// first use.
func (c *Code) Names() []string {
	var names []string
	seen := map[string]bool{}
	for _, instr := range c.instructions {
		if op.GetInfo(instr.Op).Operand != op.NameOperand {
			continue
		}
		name, ok := instr.Operand.(string)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Lines returns the text form of each instruction.
func (c *Code) Lines() []string {
	lines := make([]string, len(c.instructions))
	for i, instr := range c.instructions {
		lines[i] = instr.String()
	}
	return lines
}

// String renders the code in text form, one instruction per line. The result
// is accepted by Parse.
func (c *Code) String() string {
	if len(c.instructions) == 0 {
		return ""
	}
	return strings.Join(c.Lines(), "\n") + "\n"
}

// Stats returns statistics about this code block.
func (c *Code) Stats() Stats {
	stats := Stats{
		InstructionCount: len(c.instructions),
		NameCount:        len(c.Names()),
		SourceBytes:      len(c.source),
	}
	for _, instr := range c.instructions {
		switch op.GetInfo(instr.Op).Operand {
		case op.ValueOperand:
			stats.ConstantCount++
		case op.TargetOperand:
			stats.JumpCount++
		}
	}
	return stats
}
