package codegen

import (
	"fmt"

	"github.com/andyPPL/nashorn/op"
)

// InstructionStream accumulates the instructions of one routine body while
// mirroring their effect on a shadow operand stack. Every emission method
// validates its stack effect; a violation means the emitting compiler is
// inconsistent and panics immediately, at the faulty call site.
//
// Emission methods return the stream so straight-line sequences can be
// chained:
//
//	s.LoadConstants().LoadLocal(op.Int, 0).IndexLoad(op.Object)
//
// A stream is terminated by Return or ReturnVoid. Emitting into a
// terminated stream panics.
type InstructionStream struct {
	instructions []op.Code
	stack        []op.Type
	depth        int // current stack depth in slots
	maxDepth     int
	localSlots   int
	returned     bool
}

// NewInstructionStream creates a stream for a routine body with the given
// number of local slots.
func NewInstructionStream(localSlots int) *InstructionStream {
	return &InstructionStream{localSlots: localSlots}
}

// Returned reports whether the stream has been terminated.
func (s *InstructionStream) Returned() bool {
	return s.returned
}

// Depth returns the current shadow stack depth in slots.
func (s *InstructionStream) Depth() int {
	return s.depth
}

// MaxDepth returns the maximum shadow stack depth reached, in slots.
func (s *InstructionStream) MaxDepth() int {
	return s.maxDepth
}

// Len returns the number of instruction words emitted so far.
func (s *InstructionStream) Len() int {
	return len(s.instructions)
}

// Instructions returns a copy of the emitted instruction words.
func (s *InstructionStream) Instructions() []op.Code {
	out := make([]op.Code, len(s.instructions))
	copy(out, s.instructions)
	return out
}

func (s *InstructionStream) emit(opcode op.Code, operands ...op.Code) {
	if s.returned {
		panic(fmt.Sprintf("internal error: emitting %s into a terminated stream",
			op.GetInfo(opcode).Name))
	}
	info := op.GetInfo(opcode)
	if info.Name == "" {
		panic(fmt.Sprintf("internal error: unknown opcode %d", opcode))
	}
	if len(operands) != info.OperandCount {
		panic(fmt.Sprintf("internal error: %s takes %d operands, got %d",
			info.Name, info.OperandCount, len(operands)))
	}
	s.instructions = append(s.instructions, opcode)
	s.instructions = append(s.instructions, operands...)
}

func (s *InstructionStream) push(t op.Type) {
	s.stack = append(s.stack, t)
	s.depth += t.Width()
	if s.depth > s.maxDepth {
		s.maxDepth = s.depth
	}
}

func (s *InstructionStream) pop() op.Type {
	if len(s.stack) == 0 {
		panic("internal error: pop on empty shadow stack")
	}
	t := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.depth -= t.Width()
	return t
}

func (s *InstructionStream) popExpect(want op.Type) op.Type {
	got := s.pop()
	if got != want {
		panic(fmt.Sprintf("internal error: expected %s on shadow stack, found %s", want, got))
	}
	return got
}

func (s *InstructionStream) peek() op.Type {
	if len(s.stack) == 0 {
		panic("internal error: peek on empty shadow stack")
	}
	return s.stack[len(s.stack)-1]
}

func (s *InstructionStream) checkSlot(t op.Type, slot int) {
	if slot < 0 || slot+t.Width() > s.localSlots {
		panic(fmt.Sprintf("internal error: local slot %d of type %s out of range (%d slots)",
			slot, t, s.localSlots))
	}
}

// LoadLocal pushes the local slot holding a value of type t.
func (s *InstructionStream) LoadLocal(t op.Type, slot int) *InstructionStream {
	s.checkSlot(t, slot)
	s.emit(op.LoadLocal, op.Code(t), op.Code(slot))
	s.push(t)
	return s
}

// StoreLocal pops the top of the stack, which must have type t, into the
// given local slot.
func (s *InstructionStream) StoreLocal(t op.Type, slot int) *InstructionStream {
	s.checkSlot(t, slot)
	s.popExpect(t)
	s.emit(op.StoreLocal, op.Code(t), op.Code(slot))
	return s
}

// LoadConst pushes the constant table entry at the given index, which has
// type t.
func (s *InstructionStream) LoadConst(t op.Type, index uint16) *InstructionStream {
	s.emit(op.LoadConst, op.Code(index))
	s.push(t)
	return s
}

// LoadConstants pushes the unit constant table as an object array.
func (s *InstructionStream) LoadConstants() *InstructionStream {
	s.emit(op.LoadConstants)
	s.push(op.ObjectArray)
	return s
}

// LoadUndefined pushes the undefined value.
func (s *InstructionStream) LoadUndefined() *InstructionStream {
	s.emit(op.LoadUndefined)
	s.push(op.Object)
	return s
}

// Dup duplicates the top of the stack.
func (s *InstructionStream) Dup() *InstructionStream {
	t := s.peek()
	s.emit(op.Dup)
	s.push(t)
	return s
}

// Swap exchanges the top two values. Wide values cannot be swapped.
func (s *InstructionStream) Swap() *InstructionStream {
	top := s.pop()
	under := s.pop()
	if top.Width() != 1 || under.Width() != 1 {
		panic("internal error: swap of a wide value")
	}
	s.emit(op.Swap)
	s.push(top)
	s.push(under)
	return s
}

// Pop discards the top of the stack.
func (s *InstructionStream) Pop() *InstructionStream {
	s.pop()
	s.emit(op.Pop)
	return s
}

// IndexLoad pops an int index and an array with the given element type,
// and pushes the element.
func (s *InstructionStream) IndexLoad(elem op.Type) *InstructionStream {
	s.popExpect(op.Int)
	arr := s.pop()
	if !arr.IsArray() || arr.Elem() != elem {
		panic(fmt.Sprintf("internal error: index load of %s from %s", elem, arr))
	}
	s.emit(op.IndexLoad, op.Code(elem))
	s.push(elem)
	return s
}

// ArrayLength pops an array and pushes its length.
func (s *InstructionStream) ArrayLength() *InstructionStream {
	arr := s.pop()
	if !arr.IsArray() {
		panic(fmt.Sprintf("internal error: array length of %s", arr))
	}
	s.emit(op.ArrayLength)
	s.push(op.Int)
	return s
}

// ArrayCopy replaces the array at the top of the stack with a copy, so a
// caller cannot mutate the original through the returned value.
func (s *InstructionStream) ArrayCopy() *InstructionStream {
	arr := s.peek()
	if !arr.IsArray() {
		panic(fmt.Sprintf("internal error: array copy of %s", arr))
	}
	s.emit(op.ArrayCopy)
	return s
}

// Cast replaces the reference at the top of the stack with a checked cast
// to the reference type t.
func (s *InstructionStream) Cast(t op.Type) *InstructionStream {
	if !t.IsReference() {
		panic(fmt.Sprintf("internal error: cast to non-reference type %s", t))
	}
	from := s.pop()
	if !from.IsReference() {
		panic(fmt.Sprintf("internal error: cast of non-reference type %s", from))
	}
	s.emit(op.Cast, op.Code(t))
	s.push(t)
	return s
}

func (s *InstructionStream) arith(opcode op.Code, t op.Type) *InstructionStream {
	if !t.IsNumeric() {
		panic(fmt.Sprintf("internal error: %s on non-numeric type %s",
			op.GetInfo(opcode).Name, t))
	}
	s.popExpect(t)
	s.popExpect(t)
	s.emit(opcode, op.Code(t))
	s.push(t)
	return s
}

// Add pops two values of numeric type t and pushes their sum.
func (s *InstructionStream) Add(t op.Type) *InstructionStream {
	return s.arith(op.Add, t)
}

// Sub pops two values of numeric type t and pushes their difference.
func (s *InstructionStream) Sub(t op.Type) *InstructionStream {
	return s.arith(op.Sub, t)
}

// Mul pops two values of numeric type t and pushes their product.
func (s *InstructionStream) Mul(t op.Type) *InstructionStream {
	return s.arith(op.Mul, t)
}

// Div pops two values of numeric type t and pushes their quotient.
func (s *InstructionStream) Div(t op.Type) *InstructionStream {
	return s.arith(op.Div, t)
}

// NewScope pushes a freshly allocated scope record with room for the given
// number of entries.
func (s *InstructionStream) NewScope(size int) *InstructionStream {
	s.emit(op.NewScope, op.Code(size))
	s.push(op.Scope)
	return s
}

// SetScope pops a scope record and installs it as the current scope.
func (s *InstructionStream) SetScope() *InstructionStream {
	s.popExpect(op.Scope)
	s.emit(op.SetScope)
	return s
}

// GetScope pushes the current scope record.
func (s *InstructionStream) GetScope() *InstructionStream {
	s.emit(op.GetScope)
	s.push(op.Scope)
	return s
}

// CollectVarArgs pops the raw argument array and pushes the arguments
// collection, skipping the given number of named parameters.
func (s *InstructionStream) CollectVarArgs(namedCount int) *InstructionStream {
	s.popExpect(op.ObjectArray)
	s.emit(op.CollectVarArgs, op.Code(namedCount))
	s.push(op.Object)
	return s
}

// CallRoutine calls the routine at the given unit index with the given
// signature. Arguments are popped in reverse declaration order and the
// return value, if any, is pushed.
func (s *InstructionStream) CallRoutine(index int, sig Signature) *InstructionStream {
	for i := len(sig.Params) - 1; i >= 0; i-- {
		s.popExpect(sig.Params[i].Type)
	}
	s.emit(op.CallRoutine, op.Code(index), op.Code(len(sig.Params)))
	if sig.Return != op.Unknown {
		s.push(sig.Return)
	}
	return s
}

// Return pops the return value, which must have type t, and terminates the
// stream. The shadow stack must be empty afterwards.
func (s *InstructionStream) Return(t op.Type) *InstructionStream {
	s.popExpect(t)
	if len(s.stack) != 0 {
		panic(fmt.Sprintf("internal error: %d values left on shadow stack at return", len(s.stack)))
	}
	s.emit(op.Return, op.Code(t))
	s.returned = true
	return s
}

// ReturnVoid terminates the stream without a return value. The shadow
// stack must be empty.
func (s *InstructionStream) ReturnVoid() *InstructionStream {
	if len(s.stack) != 0 {
		panic(fmt.Sprintf("internal error: %d values left on shadow stack at return", len(s.stack)))
	}
	s.emit(op.ReturnVoid)
	s.returned = true
	return s
}
