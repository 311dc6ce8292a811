package ir

import (
	"bytes"
)

// AttributeSet is the per-function result of scope analysis: eight derived
// booleans plus the inherited strictness flag. It is a plain comparable
// value so that drivers and tests can construct and compare expected sets
// directly.
//
// The flags are never independently settable by callers of the analyzer;
// they are always a pure function of the function's own code and the
// already-computed attributes of its descendants.
type AttributeSet struct {
	// IsVarArg is true when the function needs variable-arity argument
	// handling: it reads the implicit arguments collection, uses indirect
	// evaluation, or exceeds the fixed-arity parameter threshold.
	IsVarArg bool

	// NeedsParentScope is true when the function must be able to reach its
	// enclosing lexical environment at runtime.
	NeedsParentScope bool

	// NeedsCallee is true when the function requires access to its own
	// invocation record.
	NeedsCallee bool

	// HasScopeBlock is true when the function must materialize a mutable
	// scope record for its locals, because they may be captured by nested
	// functions or addressed dynamically.
	HasScopeBlock bool

	// UsesSelfSymbol is true for a named function expression that
	// references its own name, which requires a dedicated self-reference.
	UsesSelfSymbol bool

	// IsSplit is true when the routine exceeds the segmentation threshold
	// and must be emitted in fragments.
	IsSplit bool

	// HasEval is true when indirect evaluation is syntactically present in
	// the function's own body.
	HasEval bool

	// AllVarsInScope is true when every local must live in the scope
	// record because indirect evaluation (here or below) may address it.
	AllVarsInScope bool

	// IsStrict is inherited top-down from an explicit strictness
	// declaration in this function or an enclosing one.
	IsStrict bool
}

// String renders the set flags, e.g. "{IsVarArg, NeedsCallee}".
func (a AttributeSet) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	first := true
	write := func(set bool, name string) {
		if !set {
			return
		}
		if !first {
			out.WriteString(", ")
		}
		first = false
		out.WriteString(name)
	}
	write(a.IsVarArg, "IsVarArg")
	write(a.NeedsParentScope, "NeedsParentScope")
	write(a.NeedsCallee, "NeedsCallee")
	write(a.HasScopeBlock, "HasScopeBlock")
	write(a.UsesSelfSymbol, "UsesSelfSymbol")
	write(a.IsSplit, "IsSplit")
	write(a.HasEval, "HasEval")
	write(a.AllVarsInScope, "AllVarsInScope")
	write(a.IsStrict, "IsStrict")
	out.WriteString("}")
	return out.String()
}
