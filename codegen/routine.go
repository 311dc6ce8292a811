package codegen

import (
	"fmt"

	"github.com/andyPPL/nashorn/bytecode"
	"github.com/andyPPL/nashorn/ir"
	"github.com/andyPPL/nashorn/op"
)

// RoutineEmitter emits one routine body. It shares the unit's lifecycle
// model: Begin emits the prologue implied by the function's attributes,
// the body is written through Stream, and End hands the finished routine
// back to the unit. Lifecycle misuse panics.
type RoutineEmitter struct {
	unit          *UnitEmitter
	name          string
	id            string
	index         int
	sig           Signature
	attrs         ir.AttributeSet
	synthetic     bool
	state         State
	stream        *InstructionStream
	namedCount    int
	extraLocals   int
	localSlots    int
	argumentsSlot int // -1 when the routine is not vararg
}

// Name returns the routine name.
func (r *RoutineEmitter) Name() string {
	return r.name
}

// Index returns the routine's unit index, usable as a CallRoutine operand.
func (r *RoutineEmitter) Index() int {
	return r.index
}

// Signature returns the routine signature.
func (r *RoutineEmitter) Signature() Signature {
	return r.sig
}

// Constants returns the constant pool of the enclosing unit.
func (r *RoutineEmitter) Constants() *ConstantPool {
	return r.unit.Constants()
}

// Attributes returns the attribute set the routine was opened with.
func (r *RoutineEmitter) Attributes() ir.AttributeSet {
	return r.attrs
}

// State returns the current lifecycle state.
func (r *RoutineEmitter) State() State {
	return r.state
}

// LocalSlots returns the total number of local slots, parameters included.
func (r *RoutineEmitter) LocalSlots() int {
	return r.localSlots
}

// ParamSlot returns the local slot of the named parameter.
func (r *RoutineEmitter) ParamSlot(name string) (int, bool) {
	return r.sig.Slot(name)
}

// CalleeSlot returns the slot holding the invocation record. The second
// return value is false if the routine does not take one.
func (r *RoutineEmitter) CalleeSlot() (int, bool) {
	return r.sig.Slot(CalleeParam)
}

// ScopeSlot returns the slot holding the enclosing scope record.
func (r *RoutineEmitter) ScopeSlot() (int, bool) {
	return r.sig.Slot(ScopeParam)
}

// ArgumentsSlot returns the slot holding the materialized arguments
// collection. The second return value is false for non-vararg routines.
func (r *RoutineEmitter) ArgumentsSlot() (int, bool) {
	if r.argumentsSlot < 0 {
		return 0, false
	}
	return r.argumentsSlot, true
}

// Begin starts the routine and emits its prologue. The prologue
// materializes the scope record and the arguments collection when the
// routine's attributes call for them; callee access needs no code, only
// the slot binding reported by CalleeSlot.
func (r *RoutineEmitter) Begin() {
	if r.state != NotStarted {
		panic(fmt.Sprintf("internal error: routine %q begun while %s", r.name, r.state))
	}
	r.state = Started
	r.stream = NewInstructionStream(r.localSlots)
	if r.synthetic {
		return
	}
	if r.attrs.HasScopeBlock {
		r.stream.NewScope(r.namedCount + r.extraLocals).SetScope()
	}
	if r.attrs.IsVarArg {
		varargSlot, ok := r.sig.Slot(VarArgsParam)
		if !ok {
			panic(fmt.Sprintf("internal error: vararg routine %q has no raw argument array", r.name))
		}
		r.stream.
			LoadLocal(op.ObjectArray, varargSlot).
			CollectVarArgs(r.namedCount).
			StoreLocal(op.Object, r.argumentsSlot)
	}
}

// Stream returns the routine's instruction stream. The routine must be
// started and not yet ended.
func (r *RoutineEmitter) Stream() *InstructionStream {
	if r.state != Started {
		panic(fmt.Sprintf("internal error: routine %q streamed while %s", r.name, r.state))
	}
	return r.stream
}

// End finishes the routine and installs it at its reserved unit index.
// The instruction stream must have been terminated.
func (r *RoutineEmitter) End() {
	if r.state != Started {
		panic(fmt.Sprintf("internal error: routine %q ended while %s", r.name, r.state))
	}
	if !r.stream.Returned() {
		panic(fmt.Sprintf("internal error: routine %q ended without a return", r.name))
	}
	r.unit.routines[r.index] = bytecode.NewRoutine(bytecode.RoutineParams{
		ID:           r.id,
		Name:         r.name,
		ParamNames:   r.sig.ParamNames(),
		ParamTypes:   r.sig.ParamTypes(),
		ReturnType:   r.sig.Return,
		VarArg:       r.sig.VarArg,
		Synthetic:    r.synthetic,
		Instructions: r.stream.Instructions(),
		MaxStack:     r.stream.MaxDepth(),
		LocalSlots:   r.localSlots,
	})
	delete(r.unit.open, r)
	r.state = Ended
	r.unit.logger.Debug().
		Str("unit", r.unit.name).
		Str("routine", r.name).
		Int("instructions", r.stream.Len()).
		Msg("routine ended")
}
