// Package op defines the opcodes and operand types used by the code
// generation layer and understood by the loader.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint16

const (
	Invalid Code = 0

	// Execution
	Nop         Code = 1
	CallRoutine Code = 2 // Call a routine in this unit by index
	Return      Code = 3 // Return the typed value at TOS
	ReturnVoid  Code = 4

	// Locals
	LoadLocal  Code = 10 // Push a typed local slot
	StoreLocal Code = 11 // Pop TOS into a typed local slot

	// Constants
	LoadConst     Code = 20 // Push an entry of the unit constant table
	LoadConstants Code = 21 // Push the unit constant table itself
	LoadUndefined Code = 22 // Push the undefined value

	// Stack
	Dup  Code = 30
	Swap Code = 31
	Pop  Code = 32

	// Arrays and casts
	IndexLoad   Code = 40 // Pop index and array, push the element
	ArrayLength Code = 41
	ArrayCopy   Code = 42 // Replace the array at TOS with a copy
	Cast        Code = 43 // Checked cast of TOS to the operand type

	// Arithmetic
	Add Code = 50
	Sub Code = 51
	Mul Code = 52
	Div Code = 53

	// Runtime scope support
	NewScope       Code = 60 // Allocate a scope record sized by the operand
	SetScope       Code = 61 // Pop a scope record and install it as current
	GetScope       Code = 62 // Push the current scope record
	CollectVarArgs Code = 63 // Pop the raw argument array, push the arguments collection
)

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{Nop, "NOP", 0},
		{CallRoutine, "CALL_ROUTINE", 2},
		{Return, "RETURN", 1},
		{ReturnVoid, "RETURN_VOID", 0},
		{LoadLocal, "LOAD_LOCAL", 2},
		{StoreLocal, "STORE_LOCAL", 2},
		{LoadConst, "LOAD_CONST", 1},
		{LoadConstants, "LOAD_CONSTANTS", 0},
		{LoadUndefined, "LOAD_UNDEFINED", 0},
		{Dup, "DUP", 0},
		{Swap, "SWAP", 0},
		{Pop, "POP", 0},
		{IndexLoad, "INDEX_LOAD", 1},
		{ArrayLength, "ARRAY_LENGTH", 0},
		{ArrayCopy, "ARRAY_COPY", 0},
		{Cast, "CAST", 1},
		{Add, "ADD", 1},
		{Sub, "SUB", 1},
		{Mul, "MUL", 1},
		{Div, "DIV", 1},
		{NewScope, "NEW_SCOPE", 1},
		{SetScope, "SET_SCOPE", 0},
		{GetScope, "GET_SCOPE", 0},
		{CollectVarArgs, "COLLECT_VARARGS", 1},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}
