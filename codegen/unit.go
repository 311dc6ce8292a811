package codegen

import (
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/andyPPL/nashorn/bytecode"
	"github.com/andyPPL/nashorn/errz"
	"github.com/andyPPL/nashorn/ir"
)

// State is the lifecycle state of a unit or routine emitter.
type State int

const (
	NotStarted State = iota
	Started
	Ended
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Started:
		return "started"
	case Ended:
		return "ended"
	}
	return "invalid"
}

// idNamespace seeds the deterministic IDs of units and routines, so the
// same input always emits byte-identical output.
var idNamespace = uuid.Must(uuid.FromString("b9a17cbd-5392-4b6e-93c4-0f2b80a1a00f"))

// UnitConfig holds unit emitter configuration options.
type UnitConfig struct {
	// SourceName names the source the unit is emitted from.
	SourceName string

	// Strict marks the unit as emitted from strict source.
	Strict bool

	// Logger receives debug-level traces of the emitter lifecycle.
	Logger *zerolog.Logger
}

// UnitEmitter emits one code unit. Its lifecycle is NotStarted, Started,
// Ended; routines can only be opened while the unit is started, and the
// finished unit is only available after End. Lifecycle misuse panics.
// A UnitEmitter is not safe for concurrent use.
type UnitEmitter struct {
	name       string
	sourceName string
	strict     bool
	state      State
	logger     zerolog.Logger
	pool       *ConstantPool
	routines   []*bytecode.Routine
	indexes    map[string]int
	open       map[*RoutineEmitter]struct{}
	unit       *bytecode.Unit
}

// OpenUnit creates a unit emitter in the NotStarted state. Pass nil for
// cfg to use defaults.
func OpenUnit(name string, cfg *UnitConfig) *UnitEmitter {
	e := &UnitEmitter{
		name:    name,
		logger:  zerolog.Nop(),
		pool:    NewConstantPool(),
		indexes: map[string]int{},
		open:    map[*RoutineEmitter]struct{}{},
	}
	if cfg != nil {
		e.sourceName = cfg.SourceName
		e.strict = cfg.Strict
		if cfg.Logger != nil {
			e.logger = *cfg.Logger
		}
	}
	return e
}

// Name returns the unit name.
func (e *UnitEmitter) Name() string {
	return e.name
}

// State returns the current lifecycle state.
func (e *UnitEmitter) State() State {
	return e.state
}

// Constants returns the unit's shared constant pool.
func (e *UnitEmitter) Constants() *ConstantPool {
	return e.pool
}

// Begin starts the unit. The emitter must not have been started before.
func (e *UnitEmitter) Begin() {
	if e.state != NotStarted {
		panic(fmt.Sprintf("internal error: unit %q begun while %s", e.name, e.state))
	}
	e.state = Started
	e.logger.Debug().Str("unit", e.name).Msg("unit started")
}

// OpenRoutine opens a routine emitter for a function with the given
// attributes and source-level parameter names. extraLocals is the number
// of additional object slots the body needs beyond the parameters.
// Structural limits of the emitted form are reported as errors.
func (e *UnitEmitter) OpenRoutine(name string, attrs ir.AttributeSet, paramNames []string, extraLocals int) (*RoutineEmitter, error) {
	return e.openRoutine(name, FunctionSignature(attrs, paramNames), attrs, len(paramNames), extraLocals, false)
}

// OpenSyntheticRoutine opens a routine emitter for an emitter-fabricated
// routine with an explicit signature. No prologue is emitted for it.
func (e *UnitEmitter) OpenSyntheticRoutine(name string, sig Signature) (*RoutineEmitter, error) {
	return e.openRoutine(name, sig, ir.AttributeSet{}, len(sig.Params), 0, true)
}

func (e *UnitEmitter) openRoutine(name string, sig Signature, attrs ir.AttributeSet, namedCount, extraLocals int, synthetic bool) (*RoutineEmitter, error) {
	if e.state != Started {
		panic(fmt.Sprintf("internal error: routine %q opened while unit is %s", name, e.state))
	}
	if _, ok := e.indexes[name]; ok {
		return nil, errz.Unsupportedf(name, "duplicate routine name")
	}
	localSlots := sig.SlotCount() + extraLocals
	argumentsSlot := -1
	if attrs.IsVarArg && !synthetic {
		// One extra slot for the materialized arguments collection.
		argumentsSlot = sig.SlotCount()
		localSlots++
	}
	if localSlots > maxLocalSlots {
		return nil, errz.Unsupportedf(name, "routine needs %d local slots, limit is %d", localSlots, maxLocalSlots)
	}

	index := len(e.routines)
	e.routines = append(e.routines, nil) // reserved, filled at routine End
	e.indexes[name] = index

	r := &RoutineEmitter{
		unit:          e,
		name:          name,
		id:            uuid.NewV5(idNamespace, e.name+"/"+name).String(),
		index:         index,
		sig:           sig,
		attrs:         attrs,
		synthetic:     synthetic,
		namedCount:    namedCount,
		extraLocals:   extraLocals,
		localSlots:    localSlots,
		argumentsSlot: argumentsSlot,
	}
	e.open[r] = struct{}{}
	e.logger.Debug().Str("unit", e.name).Str("routine", name).Msg("routine opened")
	return r, nil
}

// RoutineIndex returns the unit index reserved for the named routine. The
// index is valid as a CallRoutine operand as soon as the routine is
// opened, before its body is finished.
func (e *UnitEmitter) RoutineIndex(name string) (int, bool) {
	idx, ok := e.indexes[name]
	return idx, ok
}

// End finishes the unit: the requested constant accessors are synthesized
// and the immutable unit is built. Every opened routine must have been
// ended. Name collisions with synthesized accessors are reported as
// errors and leave the unit started with no accessor registered; lifecycle
// misuse panics.
func (e *UnitEmitter) End() error {
	if e.state != Started {
		panic(fmt.Sprintf("internal error: unit %q ended while %s", e.name, e.state))
	}
	if len(e.open) > 0 {
		for r := range e.open {
			panic(fmt.Sprintf("internal error: unit %q ended with routine %q still open", e.name, r.name))
		}
	}
	if err := e.synthesizeAccessors(); err != nil {
		return err
	}
	e.unit = bytecode.NewUnit(bytecode.UnitParams{
		ID:         uuid.NewV5(idNamespace, e.sourceName+"/"+e.name).String(),
		Name:       e.name,
		SourceName: e.sourceName,
		Strict:     e.strict,
		Constants:  e.pool.Constants(),
		Routines:   e.routines,
	})
	e.state = Ended
	e.logger.Debug().Str("unit", e.name).Int("routines", len(e.routines)).Msg("unit ended")
	return nil
}

// Unit returns the finished unit. The emitter must have been ended.
func (e *UnitEmitter) Unit() *bytecode.Unit {
	if e.state != Ended {
		panic(fmt.Sprintf("internal error: unit %q read while %s", e.name, e.state))
	}
	return e.unit
}

// Bytes returns the canonical binary encoding of the finished unit. The
// emitter must have been ended.
func (e *UnitEmitter) Bytes() ([]byte, error) {
	return bytecode.Marshal(e.Unit())
}

// maxLocalSlots is the largest local slot an instruction operand can
// address.
const maxLocalSlots = 1 << 16
