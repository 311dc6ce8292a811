package bytecode

import (
	"bytes"
	"strings"

	"github.com/andyPPL/nashorn/op"
)

// Routine represents one emitted routine body together with its signature.
// It is immutable after creation and safe for concurrent use.
type Routine struct {
	id           string
	name         string
	paramNames   []string
	paramTypes   []op.Type
	returnType   op.Type
	varArg       bool
	synthetic    bool
	instructions []op.Code
	maxStack     int
	localSlots   int
}

// RoutineParams contains parameters for creating a new Routine.
type RoutineParams struct {
	ID           string
	Name         string
	ParamNames   []string
	ParamTypes   []op.Type
	ReturnType   op.Type
	VarArg       bool
	Synthetic    bool
	Instructions []op.Code
	MaxStack     int
	LocalSlots   int
}

// NewRoutine creates a new immutable Routine from the given parameters.
// Input slices are copied to ensure immutability.
func NewRoutine(params RoutineParams) *Routine {
	return &Routine{
		id:           params.ID,
		name:         params.Name,
		paramNames:   copyStrings(params.ParamNames),
		paramTypes:   copyTypes(params.ParamTypes),
		returnType:   params.ReturnType,
		varArg:       params.VarArg,
		synthetic:    params.Synthetic,
		instructions: copyInstructions(params.Instructions),
		maxStack:     params.MaxStack,
		localSlots:   params.LocalSlots,
	}
}

// ID returns the unique identifier for this routine.
func (r *Routine) ID() string {
	return r.id
}

// Name returns the routine name.
func (r *Routine) Name() string {
	return r.name
}

// ParamCount returns the number of parameters, including the leading
// internal parameters of the calling convention.
func (r *Routine) ParamCount() int {
	return len(r.paramNames)
}

// ParamName returns the name of the parameter at the given index.
func (r *Routine) ParamName(index int) string {
	return r.paramNames[index]
}

// ParamType returns the type of the parameter at the given index.
func (r *Routine) ParamType(index int) op.Type {
	return r.paramTypes[index]
}

// ReturnType returns the declared return type.
func (r *Routine) ReturnType() op.Type {
	return r.returnType
}

// VarArg returns true if the routine uses the variable-arity calling
// convention.
func (r *Routine) VarArg() bool {
	return r.varArg
}

// Synthetic returns true for routines fabricated by the emitter itself,
// such as the constant accessor routines.
func (r *Routine) Synthetic() bool {
	return r.synthetic
}

// InstructionCount returns the number of instruction words, operands
// included.
func (r *Routine) InstructionCount() int {
	return len(r.instructions)
}

// InstructionAt returns the instruction word at the given index.
func (r *Routine) InstructionAt(index int) op.Code {
	return r.instructions[index]
}

// MaxStack returns the maximum operand stack depth in slots.
func (r *Routine) MaxStack() int {
	return r.maxStack
}

// LocalSlots returns the number of local variable slots.
func (r *Routine) LocalSlots() int {
	return r.localSlots
}

// String returns a signature-like rendering of the routine.
func (r *Routine) String() string {
	var out bytes.Buffer
	out.WriteString("routine ")
	out.WriteString(r.name)
	out.WriteString("(")
	parts := make([]string, len(r.paramNames))
	for i, name := range r.paramNames {
		parts[i] = name + " " + r.paramTypes[i].String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(")")
	if r.returnType != op.Unknown {
		out.WriteString(" " + r.returnType.String())
	}
	return out.String()
}

// InstructionIter iterates over a routine's instructions, grouping each
// opcode with its operands.
type InstructionIter struct {
	routine *Routine
	pos     int
}

// NewInstructionIter returns an iterator positioned at the routine's first
// instruction.
func NewInstructionIter(r *Routine) *InstructionIter {
	return &InstructionIter{routine: r}
}

// Next returns the next instruction as a slice holding the opcode followed
// by its operands. The second return value is false when the routine is
// exhausted or the trailing instruction is truncated.
func (it *InstructionIter) Next() ([]op.Code, bool) {
	if it.pos >= len(it.routine.instructions) {
		return nil, false
	}
	opcode := it.routine.instructions[it.pos]
	width := 1 + op.GetInfo(opcode).OperandCount
	if it.pos+width > len(it.routine.instructions) {
		return nil, false
	}
	instr := it.routine.instructions[it.pos : it.pos+width]
	it.pos += width
	return instr, true
}

// Offset returns the index of the instruction the iterator is positioned at.
func (it *InstructionIter) Offset() int {
	return it.pos
}
