package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andyPPL/nashorn/bytecode"
	"github.com/andyPPL/nashorn/errz"
	"github.com/andyPPL/nashorn/ir"
	"github.com/andyPPL/nashorn/op"
)

func TestUnitLifecycle(t *testing.T) {
	e := OpenUnit("test", nil)
	require.Equal(t, NotStarted, e.State())

	// Nothing is usable before Begin.
	require.Panics(t, func() { e.OpenRoutine("f", ir.AttributeSet{}, nil, 0) })
	require.Panics(t, func() { e.End() })
	require.Panics(t, func() { e.Unit() })

	e.Begin()
	require.Equal(t, Started, e.State())
	require.Panics(t, func() { e.Begin() })
	require.Panics(t, func() { e.Unit() })

	// A unit with no routines is valid.
	require.NoError(t, e.End())
	require.Equal(t, Ended, e.State())
	require.Panics(t, func() { e.End() })

	u := e.Unit()
	require.Equal(t, "test", u.Name())
	require.Equal(t, 0, u.RoutineCount())
	require.NoError(t, bytecode.Verify(u))
}

func TestUnitEndWithOpenRoutine(t *testing.T) {
	e := OpenUnit("test", nil)
	e.Begin()
	r, err := e.OpenRoutine("stuck", ir.AttributeSet{}, nil, 0)
	require.NoError(t, err)
	r.Begin()
	require.Panics(t, func() { e.End() })
}

func TestUnitDuplicateRoutineName(t *testing.T) {
	e := OpenUnit("test", nil)
	e.Begin()
	_, err := e.OpenRoutine("f", ir.AttributeSet{}, nil, 0)
	require.NoError(t, err)
	_, err = e.OpenRoutine("f", ir.AttributeSet{}, nil, 0)
	require.Error(t, err)
	require.True(t, errz.IsUnsupported(err))
}

func TestRoutineLifecycle(t *testing.T) {
	e := OpenUnit("test", nil)
	e.Begin()
	r, err := e.OpenRoutine("f", ir.AttributeSet{}, []string{"x"}, 0)
	require.NoError(t, err)
	require.Equal(t, NotStarted, r.State())
	require.Panics(t, func() { r.Stream() })
	require.Panics(t, func() { r.End() })

	r.Begin()
	require.Panics(t, func() { r.Begin() })

	// Ending an unterminated routine is a caller bug.
	require.Panics(t, func() { r.End() })

	r.Stream().LoadUndefined().Return(op.Object)
	r.End()
	require.Equal(t, Ended, r.State())
	require.Panics(t, func() { r.Stream() })

	require.NoError(t, e.End())
	rt, ok := e.Unit().Routine("f")
	require.True(t, ok)
	require.Equal(t, []string{"x"}, []string{rt.ParamName(0)})
	require.Equal(t, op.Object, rt.ReturnType())
	require.False(t, rt.Synthetic())
}

func TestRoutinePrologueScopeBlock(t *testing.T) {
	e := OpenUnit("test", nil)
	e.Begin()
	attrs := ir.AttributeSet{HasScopeBlock: true}
	r, err := e.OpenRoutine("f", attrs, []string{"a", "b"}, 3)
	require.NoError(t, err)
	r.Begin()
	r.Stream().LoadUndefined().Return(op.Object)
	r.End()
	require.NoError(t, e.End())

	rt, _ := e.Unit().Routine("f")
	// Prologue allocates a scope record sized for the named parameters
	// and the declared locals.
	require.Equal(t, []op.Code{
		op.NewScope, 5,
		op.SetScope,
		op.LoadUndefined,
		op.Return, op.Code(op.Object),
	}, instructionWords(rt))
}

func TestRoutinePrologueVarArg(t *testing.T) {
	e := OpenUnit("test", nil)
	e.Begin()
	attrs := ir.AttributeSet{IsVarArg: true, NeedsCallee: true}
	r, err := e.OpenRoutine("f", attrs, []string{"x"}, 0)
	require.NoError(t, err)

	// Slots: :callee 0, x 1, :varargs 2, arguments collection 3.
	varargSlot, ok := r.ParamSlot(VarArgsParam)
	require.True(t, ok)
	require.Equal(t, 2, varargSlot)
	argsSlot, ok := r.ArgumentsSlot()
	require.True(t, ok)
	require.Equal(t, 3, argsSlot)
	calleeSlot, ok := r.CalleeSlot()
	require.True(t, ok)
	require.Equal(t, 0, calleeSlot)

	r.Begin()
	r.Stream().LoadUndefined().Return(op.Object)
	r.End()
	require.NoError(t, e.End())

	rt, _ := e.Unit().Routine("f")
	require.True(t, rt.VarArg())
	require.Equal(t, 4, rt.LocalSlots())
	require.Equal(t, []op.Code{
		op.LoadLocal, op.Code(op.ObjectArray), 2,
		op.CollectVarArgs, 1,
		op.StoreLocal, op.Code(op.Object), 3,
		op.LoadUndefined,
		op.Return, op.Code(op.Object),
	}, instructionWords(rt))
}

func TestRoutinePrologueCalleeOnly(t *testing.T) {
	e := OpenUnit("test", nil)
	e.Begin()
	r, err := e.OpenRoutine("f", ir.AttributeSet{NeedsCallee: true}, nil, 0)
	require.NoError(t, err)
	r.Begin()
	// Callee access is a slot binding, not code.
	require.Equal(t, 0, r.Stream().Len())
	r.Stream().LoadUndefined().Return(op.Object)
	r.End()
	require.NoError(t, e.End())
}

func TestAccessorSynthesis(t *testing.T) {
	e := OpenUnit("test", nil)
	e.Begin()

	_, _, err := e.Constants().Intern("greeting")
	require.NoError(t, err)
	_, _, err = e.Constants().Intern([]int64{1, 2})
	require.NoError(t, err)
	require.NoError(t, e.Constants().RequestAccessor(op.String))
	require.NoError(t, e.Constants().RequestAccessor(op.IntArray))

	require.NoError(t, e.End())
	u := e.Unit()

	// Only the two requested accessors were synthesized.
	require.Equal(t, 2, u.RoutineCount())

	str, ok := u.Routine("$getString")
	require.True(t, ok)
	require.True(t, str.Synthetic())
	require.Equal(t, op.String, str.ReturnType())
	require.Equal(t, []op.Code{
		op.LoadConstants,
		op.LoadLocal, op.Code(op.Int), 0,
		op.IndexLoad, op.Code(op.Object),
		op.Cast, op.Code(op.String),
		op.Return, op.Code(op.String),
	}, instructionWords(str))

	// Array accessors additionally copy, so callers cannot mutate the
	// pooled constant.
	arr, ok := u.Routine("$getIntArray")
	require.True(t, ok)
	require.Equal(t, []op.Code{
		op.LoadConstants,
		op.LoadLocal, op.Code(op.Int), 0,
		op.IndexLoad, op.Code(op.Object),
		op.Cast, op.Code(op.IntArray),
		op.ArrayCopy,
		op.Return, op.Code(op.IntArray),
	}, instructionWords(arr))

	require.NoError(t, bytecode.Verify(u))
}

func TestAccessorNameCollision(t *testing.T) {
	e := OpenUnit("test", nil)
	e.Begin()

	// A user routine squats on an accessor name.
	r, err := e.OpenSyntheticRoutine("$getString", Signature{Return: op.Object})
	require.NoError(t, err)
	r.Begin()
	r.Stream().LoadUndefined().Return(op.Object)
	r.End()

	_, _, err = e.Constants().Intern("greeting")
	require.NoError(t, err)
	require.NoError(t, e.Constants().RequestAccessor(op.String))
	require.NoError(t, e.Constants().RequestAccessor(op.IntArray))

	err = e.End()
	require.Error(t, err)
	require.True(t, errz.IsUnsupported(err))

	// The failed End left no accessor behind, and the unit is still
	// started, so ending it again fails identically.
	require.Equal(t, Started, e.State())
	require.Equal(t, 1, len(e.routines))
	_, ok := e.RoutineIndex("$getIntArray")
	require.False(t, ok)

	again := e.End()
	require.Error(t, again)
	require.Equal(t, err.Error(), again.Error())
	require.Equal(t, 1, len(e.routines))
}

func TestUnitDeterministicBytes(t *testing.T) {
	build := func() []byte {
		e := OpenUnit("det", &UnitConfig{SourceName: "det.js"})
		e.Begin()
		_, _, err := e.Constants().Intern("x")
		require.NoError(t, err)
		require.NoError(t, e.Constants().RequestAccessor(op.String))
		r, err := e.OpenRoutine("f", ir.AttributeSet{NeedsCallee: true}, []string{"a"}, 1)
		require.NoError(t, err)
		r.Begin()
		r.Stream().LoadUndefined().Return(op.Object)
		r.End()
		require.NoError(t, e.End())
		data, err := e.Bytes()
		require.NoError(t, err)
		return data
	}
	first := build()
	second := build()
	require.NotEmpty(t, first)
	require.Equal(t, first, second)
}

func TestRoutineIndexReservedAtOpen(t *testing.T) {
	e := OpenUnit("test", nil)
	e.Begin()
	f, err := e.OpenRoutine("f", ir.AttributeSet{}, nil, 0)
	require.NoError(t, err)
	g, err := e.OpenRoutine("g", ir.AttributeSet{}, nil, 0)
	require.NoError(t, err)

	idx, ok := e.RoutineIndex("g")
	require.True(t, ok)
	require.Equal(t, 1, idx)

	// f calls g before g's body exists.
	f.Begin()
	f.Stream().CallRoutine(g.Index(), g.Signature()).Return(op.Object)
	f.End()
	g.Begin()
	g.Stream().LoadUndefined().Return(op.Object)
	g.End()
	require.NoError(t, e.End())

	u := e.Unit()
	require.Equal(t, "f", u.RoutineAt(0).Name())
	require.Equal(t, "g", u.RoutineAt(1).Name())
	require.NoError(t, bytecode.Verify(u))
}

// instructionWords flattens a routine's instruction stream for comparison.
func instructionWords(r *bytecode.Routine) []op.Code {
	words := make([]op.Code, r.InstructionCount())
	for i := range words {
		words[i] = r.InstructionAt(i)
	}
	return words
}
