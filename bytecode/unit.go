package bytecode

import (
	"github.com/andyPPL/nashorn/op"
)

// Constant is one entry of a unit's constant table. The value is one of the
// Go representations accepted by the constant pool: string, int64, float64,
// bool, []int64, []float64 or []string.
type Constant struct {
	Type  op.Type
	Value any
}

// Unit represents one emitted code unit: the translation of a single script
// with all of its routines and a shared constant table.
// It is immutable after creation and safe for concurrent use.
type Unit struct {
	id         string
	name       string
	sourceName string
	strict     bool
	constants  []Constant
	routines   []*Routine
}

// UnitParams contains parameters for creating a new Unit.
type UnitParams struct {
	ID         string
	Name       string
	SourceName string
	Strict     bool
	Constants  []Constant
	Routines   []*Routine
}

// NewUnit creates a new immutable Unit from the given parameters.
// Input slices are copied to ensure immutability. The Unit is fully
// immutable after construction and has no mutation methods.
func NewUnit(params UnitParams) *Unit {
	return &Unit{
		id:         params.ID,
		name:       params.Name,
		sourceName: params.SourceName,
		strict:     params.Strict,
		constants:  copyConstants(params.Constants),
		routines:   copyRoutines(params.Routines),
	}
}

// ID returns the unique identifier for this unit.
func (u *Unit) ID() string {
	return u.id
}

// Name returns the name of this unit.
func (u *Unit) Name() string {
	return u.name
}

// SourceName returns the name of the source the unit was emitted from.
func (u *Unit) SourceName() string {
	return u.sourceName
}

// Strict returns true if the unit was emitted from strict source.
func (u *Unit) Strict() bool {
	return u.strict
}

// ConstantCount returns the number of entries in the constant table.
func (u *Unit) ConstantCount() int {
	return len(u.constants)
}

// ConstantAt returns the constant table entry at the given index.
func (u *Unit) ConstantAt(index int) Constant {
	return u.constants[index]
}

// RoutineCount returns the number of routines in the unit.
func (u *Unit) RoutineCount() int {
	return len(u.routines)
}

// RoutineAt returns the routine at the given index.
func (u *Unit) RoutineAt(index int) *Routine {
	return u.routines[index]
}

// Routine returns the routine with the given name. The second return value
// is false if the unit contains no such routine.
func (u *Unit) Routine(name string) (*Routine, bool) {
	for _, r := range u.routines {
		if r.name == name {
			return r, true
		}
	}
	return nil, false
}

// Stats returns statistics about this unit.
func (u *Unit) Stats() Stats {
	stats := Stats{
		RoutineCount:  len(u.routines),
		ConstantCount: len(u.constants),
	}
	for _, r := range u.routines {
		stats.InstructionCount += len(r.instructions)
		if r.synthetic {
			stats.SyntheticCount++
		}
		if r.maxStack > stats.MaxStack {
			stats.MaxStack = r.maxStack
		}
	}
	return stats
}
