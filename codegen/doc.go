// Package codegen emits validated instruction streams for code units.
//
// The entry point is [OpenUnit], which creates a [UnitEmitter]. A unit
// moves through an explicit lifecycle (NotStarted, Started, Ended) and
// hands out one [RoutineEmitter] per routine, each with the same
// lifecycle. Routine bodies are written through an [InstructionStream]
// that mirrors every emission on a shadow operand stack, so type and
// arity mistakes are caught at the call site of the emitting code rather
// than at load time.
//
// Constants are interned through a [ConstantPool] shared by the whole
// unit. Reference-typed constants are retrieved at run time through
// accessor routines that the emitter synthesizes on demand when the unit
// is ended: only the accessors actually requested during emission appear
// in the finished unit.
//
// # Error Model
//
// Misuse of the emitter API (emitting into an ended routine, popping an
// empty stack, type mismatches on the shadow stack) is a bug in the
// calling compiler and panics with an "internal error:" message. Input
// the backend cannot compile (constant kinds outside the supported set,
// structural limits) is reported as an error value, usually an
// [github.com/andyPPL/nashorn/errz.UnsupportedError].
package codegen
