package bytecode

// Stats contains statistics about generated code.
type Stats struct {
	// InstructionCount is the total number of instructions.
	InstructionCount int

	// ConstantCount is the number of PUSH instructions.
	ConstantCount int

	// JumpCount is the number of JUMP and JUMP_IF_FALSE instructions.
	JumpCount int

	// NameCount is the number of distinct variable names referenced.
	NameCount int

	// SourceBytes is the size of the original source code in bytes.
	SourceBytes int
}
