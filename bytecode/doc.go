// Package bytecode provides immutable representations of emitted code units.
//
// This package defines the output of code generation: pure data structures
// that represent a finished unit, its routines, and its constant table.
// These types are created once by the codegen package and can then be
// shared safely across goroutines, serialized, or inspected.
//
// # Key Types
//
//   - [Unit]: An immutable code unit (the translation of one script)
//   - [Routine]: An immutable routine body with its signature
//   - [Constant]: A typed constant table entry (value type)
//
// # Immutability Guarantees
//
// All types in this package are immutable after construction:
//
//   - No mutation methods exist on any type
//   - All fields are unexported
//   - Constructors copy input slices to prevent caller mutation
//   - Accessors return values, never mutable slices
//
// Index-based access is used for all collections:
//
//	unit.RoutineAt(0)
//	unit.ConstantAt(i)
//	routine.InstructionAt(j)
//
// # Serialization
//
// [Marshal] and [Unmarshal] convert units to and from a canonical binary
// encoding. Marshaling the same unit always yields the same bytes, so the
// encoding is usable as a cache key.
package bytecode
