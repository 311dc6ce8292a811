package codegen

import (
	"github.com/andyPPL/nashorn/errz"
	"github.com/andyPPL/nashorn/op"
)

// synthesizeAccessors emits one accessor routine per constant type
// requested through the pool. An accessor takes the constant index, loads
// the entry from the unit constant table and returns it with its declared
// type. Array constants are returned as copies so callers cannot mutate
// the pooled value.
func (e *UnitEmitter) synthesizeAccessors() error {
	requested := e.pool.Requested()
	// Name collisions are checked up front so a failure leaves no accessor
	// registered and ending the unit again fails the same way.
	for _, t := range requested {
		if _, ok := e.indexes[AccessorName(t)]; ok {
			return errz.Unsupportedf(AccessorName(t), "routine name collides with a constant accessor")
		}
	}
	for _, t := range requested {
		r, err := e.OpenSyntheticRoutine(AccessorName(t), Signature{
			Params: []Param{{Name: "index", Type: op.Int}},
			Return: t,
		})
		if err != nil {
			return err
		}
		r.Begin()
		s := r.Stream()
		s.LoadConstants().
			LoadLocal(op.Int, 0).
			IndexLoad(op.Object).
			Cast(t)
		if t.IsArray() {
			s.ArrayCopy()
		}
		s.Return(t)
		r.End()
	}
	return nil
}
