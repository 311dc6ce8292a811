package codegen

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/andyPPL/nashorn/analyzer"
	"github.com/andyPPL/nashorn/bytecode"
	"github.com/andyPPL/nashorn/ir"
	"github.com/andyPPL/nashorn/op"
)

// LowerFunc emits the body of one routine. The routine is already begun,
// so its prologue is in place; the lowering only has to terminate the
// stream. A nil error with an unterminated stream gets the default
// epilogue, returning undefined.
type LowerFunc func(r *RoutineEmitter, fn *ir.Function) error

// CompileConfig holds configuration for CompileFunctions. The zero value
// of every field selects a default.
type CompileConfig struct {
	// UnitName names the emitted unit. Defaults to the root function's
	// name, or "main" for an anonymous root.
	UnitName string

	// SourceName names the source being compiled.
	SourceName string

	// SplitThreshold is passed through to the analyzer.
	SplitThreshold int

	// Logger receives debug-level traces from both stages.
	Logger *zerolog.Logger

	// Lower emits routine bodies. Defaults to an empty body that returns
	// undefined, which is enough to exercise signatures and prologues.
	Lower LowerFunc
}

// CompileFunctions analyzes a function tree and emits one routine per
// function into a single unit. Functions the backend cannot compile are
// collected and reported together; if any function fails, the unit is
// abandoned and the aggregate error is returned.
func CompileFunctions(root *ir.Function, cfg *CompileConfig) (*bytecode.Unit, error) {
	if cfg == nil {
		cfg = &CompileConfig{}
	}
	lower := cfg.Lower
	if lower == nil {
		lower = func(r *RoutineEmitter, fn *ir.Function) error {
			return nil
		}
	}
	unitName := cfg.UnitName
	if unitName == "" {
		unitName = root.Name
	}
	if unitName == "" {
		unitName = "main"
	}

	a := analyzer.New(&analyzer.Config{
		SplitThreshold: cfg.SplitThreshold,
		Logger:         cfg.Logger,
	})
	rootAttrs := a.Analyze(root)

	unit := OpenUnit(unitName, &UnitConfig{
		SourceName: cfg.SourceName,
		Strict:     rootAttrs.IsStrict,
		Logger:     cfg.Logger,
	})
	unit.Begin()

	var errs *multierror.Error
	names := map[string]int{}
	for _, fn := range collectFunctions(root) {
		attrs, ok := a.Attributes(fn)
		if !ok {
			panic(fmt.Sprintf("internal error: no attributes recorded for %q", fn.Name))
		}
		r, err := unit.OpenRoutine(routineName(fn, names), attrs, fn.Params, len(fn.DeclaredVars()))
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		r.Begin()
		if err := lower(r, fn); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if !r.Stream().Returned() {
			r.Stream().LoadUndefined().Return(op.Object)
		}
		r.End()
	}
	if errs != nil {
		return nil, errs.ErrorOrNil()
	}
	if err := unit.End(); err != nil {
		return nil, err
	}
	return unit.Unit(), nil
}

// collectFunctions returns root followed by every function nested inside
// it, in source order.
func collectFunctions(root *ir.Function) []*ir.Function {
	out := []*ir.Function{root}
	for _, nested := range root.NestedFunctions() {
		out = append(out, collectFunctions(nested)...)
	}
	return out
}

// routineName picks a unit-unique routine name for a function. Anonymous
// functions and duplicate declarations get a numeric suffix.
func routineName(fn *ir.Function, used map[string]int) string {
	base := fn.Name
	if base == "" {
		base = "anon"
	}
	n := used[base]
	used[base] = n + 1
	if n == 0 && fn.Name != "" {
		return base
	}
	return fmt.Sprintf("%s$%d", base, n)
}
