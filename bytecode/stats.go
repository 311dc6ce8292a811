package bytecode

// Stats contains statistics about an emitted unit.
// This is useful for auditing units before loading them.
type Stats struct {
	// RoutineCount is the total number of routines, synthetic ones
	// included.
	RoutineCount int

	// SyntheticCount is the number of emitter-fabricated routines.
	SyntheticCount int

	// InstructionCount is the total number of instruction words across
	// all routines.
	InstructionCount int

	// ConstantCount is the number of entries in the constant table.
	ConstantCount int

	// MaxStack is the largest operand stack depth of any routine,
	// in slots.
	MaxStack int
}
