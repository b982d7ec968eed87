// Package compiler is used to generate stack-machine instructions from an
// abstract syntax tree (AST).
//
// # Single-Pass Generation
//
// The compiler walks the tree once, in post order: operands are emitted
// before the operator that consumes them, so "1 + 2 * 3" becomes
//
//	PUSH 1
//	PUSH 2
//	PUSH 3
//	MULTIPLY
//	ADD
//
// # Control Flow
//
// Conditionals and loops need jump targets that are not known when the jump
// itself is emitted. The compiler emits the jump with a Placeholder operand,
// remembers its index, and patches in the absolute target index once the
// destination has been generated:
//
//	if:       cond, JUMP_IF_FALSE end, then, end:
//	if/else:  cond, JUMP_IF_FALSE else, then, JUMP end, else:, ..., end:
//	while:    start: cond, JUMP_IF_FALSE end, body, JUMP start, end:
//
// # Names
//
// Variables are referenced purely by name. There is no symbol table and no
// check that a name was declared before it is read; declarations produce no
// instructions at all.
package compiler

import (
	"fmt"
	"slices"

	"github.com/deepnoodle-ai/stackc/ast"
	"github.com/deepnoodle-ai/stackc/bytecode"
	"github.com/deepnoodle-ai/stackc/errors"
	"github.com/deepnoodle-ai/stackc/internal/lexer"
	"github.com/deepnoodle-ai/stackc/op"
	"github.com/deepnoodle-ai/stackc/token"
	"github.com/rs/zerolog"
)

// Placeholder is a temporary jump target written during compilation, which
// is always replaced before compilation is complete.
const Placeholder = -1

// Compiler is used to generate instructions from an AST. Successive calls to
// CompileAST append to the same instruction sequence, which supports
// REPL-style incremental compilation.
type Compiler struct {
	instructions []bytecode.Instruction

	// Source map: one location per instruction
	locations []bytecode.SourceLocation

	// Source filename
	filename string

	// Original source code (for better error messages)
	source string

	// Emit POP after each expression statement
	popResults bool

	// Append HALT to the returned code
	halt bool

	logger zerolog.Logger

	// Current AST node being compiled (used for source map tracking)
	currentNode ast.Node
}

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithFilename sets the source filename used in errors.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithSource sets the original source code, used to quote the offending line
// in errors.
func WithSource(source string) Option {
	return func(c *Compiler) {
		c.source = source
	}
}

// WithPopExpressionResults controls whether a POP follows each expression
// statement, discarding its value. The default is false.
func WithPopExpressionResults(enabled bool) Option {
	return func(c *Compiler) {
		c.popResults = enabled
	}
}

// WithHalt controls whether the returned code ends with a HALT instruction.
// The default is false.
func WithHalt(enabled bool) Option {
	return func(c *Compiler) {
		c.halt = enabled
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// Compile generates code for the given program.
func Compile(program *ast.Program, options ...Option) (*bytecode.Code, error) {
	return New(options...).CompileAST(program)
}

// New creates and returns a new Compiler.
func New(options ...Option) *Compiler {
	c := &Compiler{logger: zerolog.Nop()}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// CompileAST generates code for the given node, appending to any
// instructions produced by earlier calls, and returns all instructions so
// far. On error nothing from this call is kept.
func (c *Compiler) CompileAST(node ast.Node) (*bytecode.Code, error) {
	if isNil(node) {
		return nil, c.formatError(errors.E3002, "cannot compile a nil node", token.NoPos)
	}
	start := len(c.instructions)
	if err := c.compile(node); err != nil {
		c.instructions = c.instructions[:start]
		c.locations = c.locations[:start]
		c.logger.Debug().Err(err).Msg("code generation failed")
		return nil, err
	}
	c.logger.Debug().
		Int("emitted", len(c.instructions)-start).
		Int("total", len(c.instructions)).
		Msg("generated code")
	return c.Code(), nil
}

// Code returns an immutable snapshot of the instructions generated so far.
func (c *Compiler) Code() *bytecode.Code {
	instructions := slices.Clip(c.instructions)
	locations := slices.Clip(c.locations)
	if c.halt {
		instructions = append(instructions, bytecode.Instruction{Op: op.Halt})
		locations = append(locations, bytecode.SourceLocation{})
	}
	return bytecode.NewCode(bytecode.CodeParams{
		Instructions: instructions,
		Locations:    locations,
		Filename:     c.filename,
		Source:       c.source,
	})
}

// InstructionCount returns the number of instructions generated so far, not
// counting a trailing HALT.
func (c *Compiler) InstructionCount() int {
	return len(c.instructions)
}

// compile the given AST node and all its children.
func (c *Compiler) compile(node ast.Node) error {
	if isNil(node) {
		return c.formatError(errors.E3002,
			fmt.Sprintf("cannot compile a nil %T", node), nodePos(c.currentNode))
	}

	// Track the current node for source location mapping
	prev := c.currentNode
	c.currentNode = node
	defer func() { c.currentNode = prev }()

	switch node := node.(type) {
	case *ast.Program:
		return c.compileStatements(node.Stmts)
	case *ast.Block:
		return c.compileStatements(node.Stmts)
	case *ast.ExprStmt:
		if err := c.compile(node.X); err != nil {
			return err
		}
		if c.popResults {
			c.emit(op.Pop)
		}
	case *ast.VarDecl:
		// Declarations only introduce a name.
	case *ast.Assign:
		if err := c.compile(node.Value); err != nil {
			return err
		}
		c.emit(op.Store, node.Name.Name)
	case *ast.Print:
		if err := c.compile(node.X); err != nil {
			return err
		}
		c.emit(op.Print)
	case *ast.If:
		return c.compileIf(node.Cond, node.Then, nil)
	case *ast.IfElse:
		return c.compileIf(node.Cond, node.Then, node.Else)
	case *ast.While:
		return c.compileWhile(node)
	case *ast.Int:
		c.emit(op.Push, node.Value)
	case *ast.Float:
		c.emit(op.Push, node.Value)
	case *ast.String:
		c.emit(op.Push, node.Value)
	case *ast.Bool:
		c.emit(op.Push, node.Value)
	case *ast.Ident:
		c.emit(op.Load, node.Name)
	case *ast.Binary:
		return c.compileBinary(node)
	case *ast.Unary:
		return c.compileUnary(node)
	case *ast.Grouping:
		return c.compile(node.X)
	default:
		return c.formatError(errors.E3002,
			fmt.Sprintf("unsupported node type %T", node), nodePos(node))
	}
	return nil
}

func (c *Compiler) compileStatements(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := c.compile(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileIf(cond ast.Expr, then, els *ast.Block) error {
	if err := c.compile(cond); err != nil {
		return err
	}
	jumpIfFalsePos := c.emit(op.JumpIfFalse, Placeholder)
	if err := c.compile(then); err != nil {
		return err
	}
	if els == nil {
		c.changeOperand(jumpIfFalsePos, c.currentPosition())
		return nil
	}
	// Jump over the else branch once the then branch has run
	jumpPos := c.emit(op.Jump, Placeholder)
	c.changeOperand(jumpIfFalsePos, c.currentPosition())
	if err := c.compile(els); err != nil {
		return err
	}
	c.changeOperand(jumpPos, c.currentPosition())
	return nil
}

func (c *Compiler) compileWhile(node *ast.While) error {
	startPos := c.currentPosition()
	if err := c.compile(node.Cond); err != nil {
		return err
	}
	jumpIfFalsePos := c.emit(op.JumpIfFalse, Placeholder)
	if err := c.compile(node.Body); err != nil {
		return err
	}
	c.emit(op.Jump, startPos)
	c.changeOperand(jumpIfFalsePos, c.currentPosition())
	return nil
}

func (c *Compiler) compileBinary(node *ast.Binary) error {
	opcode, ok := op.Binary(node.Op)
	if !ok {
		return c.formatError(errors.E3001,
			fmt.Sprintf("unsupported binary operator %q", node.Op), node.OpPos)
	}
	if err := c.compile(node.X); err != nil {
		return err
	}
	if err := c.compile(node.Y); err != nil {
		return err
	}
	c.emit(opcode)
	return nil
}

func (c *Compiler) compileUnary(node *ast.Unary) error {
	opcode, ok := op.Unary(node.Op)
	if !ok {
		return c.formatError(errors.E3001,
			fmt.Sprintf("unsupported unary operator %q", node.Op), node.OpPos)
	}
	if err := c.compile(node.X); err != nil {
		return err
	}
	c.emit(opcode)
	return nil
}

// currentPosition returns the index the next emitted instruction will have.
func (c *Compiler) currentPosition() int {
	return len(c.instructions)
}

// emit appends an instruction and returns its index.
func (c *Compiler) emit(opcode op.Code, operand ...any) int {
	instr := bytecode.Instruction{Op: opcode}
	if len(operand) > 0 {
		instr.Operand = operand[0]
	}
	pos := len(c.instructions)
	c.instructions = append(c.instructions, instr)
	c.locations = append(c.locations, c.getCurrentLocation())
	c.logger.Trace().Int("index", pos).Str("instruction", instr.String()).Msg("emit")
	return pos
}

// changeOperand patches the jump target of the instruction at the given index.
func (c *Compiler) changeOperand(instructionIndex int, target int) {
	c.instructions[instructionIndex].Operand = target
}

func (c *Compiler) getCurrentLocation() bytecode.SourceLocation {
	if c.currentNode == nil {
		return bytecode.SourceLocation{}
	}
	return bytecode.LocationOf(nodePos(c.currentNode))
}

// isNil reports whether node is nil, including a nil pointer to one of the
// container nodes held in an ast.Node interface.
func isNil(node ast.Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *ast.Program:
		return n == nil
	case *ast.Block:
		return n == nil
	}
	return false
}

// nodePos returns the most useful position to report for a node: the
// operator for operator expressions, otherwise the start of the node.
func nodePos(node ast.Node) token.Position {
	switch node := node.(type) {
	case *ast.Binary:
		return node.OpPos
	case *ast.Unary:
		return node.OpPos
	case *ast.Program:
		return token.NoPos
	case nil:
		return token.NoPos
	default:
		return node.Pos()
	}
}

func (c *Compiler) formatError(code errors.ErrorCode, msg string, pos token.Position) error {
	filename := c.filename
	if filename == "" {
		filename = pos.File
	}
	loc := errors.Location{Filename: filename}
	if pos.IsValid() || c.currentNode != nil {
		loc.Line = pos.LineNumber()
		loc.Column = pos.ColumnNumber()
		if c.source != "" {
			loc.SourceLine = lexer.LineText(c.source, pos)
		}
	}
	return errors.NewCodegenError(code, msg, loc)
}
