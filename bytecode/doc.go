// Package bytecode provides immutable representations of generated code.
//
// This package defines the output of code generation: a flat, ordered list of
// stack-machine instructions plus a source map with one location per
// instruction. Jump operands are absolute indices into that list.
//
// # Key Types
//
//   - [Instruction]: One opcode and its optional operand (value type)
//   - [Code]: An immutable sequence of instructions with source metadata
//   - [SourceLocation]: Maps an instruction to its source position (value type)
//
// # Immutability Guarantees
//
// A Code is never modified after construction. NewCode copies its input
// slices, and accessors return values or fresh copies.
//
// # Text Form
//
// Code renders one instruction per line, opcode name first:
//
//	PUSH 5
//	STORE x
//	LOAD x
//	JUMP_IF_FALSE 7
//	PUSH "hi"
//	PRINT
//
// [Parse] reads the same form back, so the text can be stored or diffed and
// later turned into Code again.
package bytecode
