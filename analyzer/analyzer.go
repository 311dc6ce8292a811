// Package analyzer derives, for each function in a tree, the minimal runtime
// support the generated routine requires: variable-arity argument handling,
// access to the invocation record, access to the enclosing lexical
// environment, a materialized scope record for its locals, a dedicated
// self-reference, and the escape hatch forced by indirect evaluation.
//
// # Bottom-Up Derivation
//
// Attributes are a pure function of a function's own code and the
// already-computed attributes of its descendants, so nested functions are
// analyzed before their enclosing function finalizes its set. Free-name
// resolution is per name: a name escaping a nested function that is bound in
// the enclosing function marks the enclosing function as needing a scope
// record (the local is captured); a name that escapes past the enclosing
// function's bindings marks it as needing the enclosing environment and
// keeps bubbling upward.
//
// Results are computed exactly once per function and are immutable
// thereafter; repeated Analyze calls return the recorded set.
//
// This stage has no user-facing failure mode. A contradiction between
// derived flags indicates a bug in the analyzer itself and panics.
package analyzer

import (
	"fmt"

	"github.com/andyPPL/nashorn/ir"
	"github.com/rs/zerolog"
)

const (
	// MaxFixedParams is the largest named-parameter count handled with a
	// fixed-arity calling convention. Functions with more parameters are
	// compiled as vararg.
	MaxFixedParams = 125

	// DefaultSplitThreshold is the body weight above which a routine is
	// marked for split emission.
	DefaultSplitThreshold = 32768
)

// Config holds analyzer configuration options.
type Config struct {
	// SplitThreshold overrides the body weight above which routines are
	// marked for split emission. Zero means DefaultSplitThreshold.
	SplitThreshold int

	// Logger receives debug-level traces of each finalized attribute set.
	Logger *zerolog.Logger
}

// Analyzer computes and records attribute sets for function trees.
// An Analyzer is not safe for concurrent use.
type Analyzer struct {
	splitThreshold int
	logger         zerolog.Logger
	results        map[*ir.Function]*result
}

type result struct {
	attrs ir.AttributeSet

	// escaped holds the names referenced by this function or its
	// descendants that could not be resolved against its bindings.
	escaped map[string]bool

	// usesEvalBelow is true if this function or any descendant uses
	// indirect evaluation.
	usesEvalBelow bool
}

// New creates and returns a new Analyzer. Pass nil for cfg to use defaults.
func New(cfg *Config) *Analyzer {
	a := &Analyzer{
		splitThreshold: DefaultSplitThreshold,
		logger:         zerolog.Nop(),
		results:        map[*ir.Function]*result{},
	}
	if cfg != nil {
		if cfg.SplitThreshold > 0 {
			a.splitThreshold = cfg.SplitThreshold
		}
		if cfg.Logger != nil {
			a.logger = *cfg.Logger
		}
	}
	return a
}

// Analyze computes the attribute set for fn with default configuration.
func Analyze(fn *ir.Function) ir.AttributeSet {
	return New(nil).Analyze(fn)
}

// Analyze computes the attribute set for fn and all functions nested inside
// it, and returns fn's set. Strictness inherits downward from fn's own
// directive; if fn is itself nested in strict code, analyze the enclosing
// function instead.
func (a *Analyzer) Analyze(fn *ir.Function) ir.AttributeSet {
	return a.analyze(fn, fn.StrictDirective).attrs
}

// Attributes returns the recorded attribute set for a function previously
// covered by an Analyze call.
func (a *Analyzer) Attributes(fn *ir.Function) (ir.AttributeSet, bool) {
	r, ok := a.results[fn]
	if !ok {
		return ir.AttributeSet{}, false
	}
	return r.attrs, true
}

func (a *Analyzer) analyze(fn *ir.Function, inheritedStrict bool) *result {
	if r, ok := a.results[fn]; ok {
		return r
	}
	strict := inheritedStrict || fn.StrictDirective
	facts := collectFacts(fn)

	// Children first: their attribute sets and escaped names are inputs to
	// this function's derivation.
	childEscapes := map[string]bool{}
	evalBelow := false
	for _, child := range facts.nested {
		cr := a.analyze(child, strict)
		for name := range cr.escaped {
			childEscapes[name] = true
		}
		evalBelow = evalBelow || cr.usesEvalBelow
	}

	// Names resolvable inside this function without leaving it.
	bound := map[string]bool{}
	for _, p := range fn.Params {
		bound[p] = true
	}
	for name := range facts.vars {
		bound[name] = true
	}
	for name := range facts.nestedDeclNames {
		bound[name] = true
	}

	// A named function expression binds its own name to itself; the binding
	// is not reachable through the enclosing scope. A declaration's name
	// resolves through the enclosing scope like any other identifier.
	selfBound := fn.Kind == ir.Expression && fn.Name != "" && !bound[fn.Name]

	argumentsShadowed := facts.nestedDeclNames[ir.ArgumentsName]
	for _, p := range fn.Params {
		if p == ir.ArgumentsName {
			argumentsShadowed = true
		}
	}

	var attrs ir.AttributeSet
	attrs.IsStrict = strict

	// Identifier reads this function cannot resolve locally.
	ownFree := map[string]bool{}
	for name := range facts.reads {
		if bound[name] {
			continue
		}
		if selfBound && name == fn.Name {
			attrs.UsesSelfSymbol = true
			continue
		}
		if name == ir.ArgumentsName && !argumentsShadowed {
			// The implicit arguments collection, not a scope access.
			continue
		}
		ownFree[name] = true
	}
	if len(ownFree) > 0 {
		attrs.NeedsParentScope = true
	}

	// Names escaping nested functions resolve against this function's
	// bindings: a hit means one of our locals is captured, a miss bubbles
	// the name upward through our scope chain.
	escaped := map[string]bool{}
	for name := range ownFree {
		escaped[name] = true
	}
	for name := range childEscapes {
		switch {
		case bound[name]:
			attrs.HasScopeBlock = true
		case selfBound && name == fn.Name:
			attrs.UsesSelfSymbol = true
			attrs.HasScopeBlock = true
		default:
			escaped[name] = true
			attrs.NeedsParentScope = true
		}
	}

	// Identifiers inside a dynamic-scope-injection construct cannot be
	// resolved statically: locals must live in an addressable scope record
	// and anything else must be reachable through the enclosing chain.
	for name := range facts.withRefs {
		if bound[name] {
			attrs.HasScopeBlock = true
		} else {
			attrs.NeedsParentScope = true
		}
	}

	if facts.hasEval {
		attrs.HasEval = true
		attrs.IsVarArg = true
		attrs.NeedsParentScope = true
		attrs.HasScopeBlock = true
		attrs.AllVarsInScope = true
	}
	if evalBelow {
		// A descendant's indirect evaluation needs a reachable scope chain
		// through every ancestor, but the ancestor itself neither evaluates
		// nor needs vararg handling.
		attrs.NeedsParentScope = true
		attrs.NeedsCallee = true
		attrs.HasScopeBlock = true
		attrs.AllVarsInScope = true
	}

	// Reading the implicit arguments collection forces vararg handling, as
	// does indirect evaluation (handled above). Exceeding the fixed-arity
	// threshold forces the vararg calling convention without making the
	// collection observable.
	usesArgumentsCollection := (facts.reads[ir.ArgumentsName] && !argumentsShadowed) || facts.hasEval
	if usesArgumentsCollection {
		attrs.IsVarArg = true
	}
	if len(fn.Params) > MaxFixedParams {
		attrs.IsVarArg = true
		// Past the fixed-arity threshold the locals are also forced into a
		// scope record. Over-conservative; callers must not rely on it.
		attrs.HasScopeBlock = true
	}

	// The invocation record carries the callee-derived arguments data, the
	// link to the enclosing scope, and the self reference. In strict code
	// the arguments collection is populated without it.
	if (usesArgumentsCollection && !strict) || attrs.NeedsParentScope || attrs.UsesSelfSymbol {
		attrs.NeedsCallee = true
	}

	if weigh(fn) > a.splitThreshold {
		attrs.IsSplit = true
	}

	a.verify(fn, attrs)
	r := &result{
		attrs:         attrs,
		escaped:       escaped,
		usesEvalBelow: facts.hasEval || evalBelow,
	}
	a.results[fn] = r
	a.logger.Debug().
		Str("function", functionLabel(fn)).
		Stringer("attributes", attrs).
		Msg("attributes finalized")
	return r
}

// verify checks the cross-flag invariants of a finalized set. A violation is
// a bug in the derivation above, not in the input.
func (a *Analyzer) verify(fn *ir.Function, attrs ir.AttributeSet) {
	fail := func(rule string) {
		panic(fmt.Sprintf("internal error: contradictory attributes for %q: %s (%s)",
			functionLabel(fn), attrs, rule))
	}
	if attrs.NeedsParentScope && !attrs.NeedsCallee {
		fail("parent scope is reached via the invocation record")
	}
	if attrs.AllVarsInScope && !attrs.HasScopeBlock {
		fail("scoped vars require a scope record")
	}
	if attrs.HasEval && !(attrs.IsVarArg && attrs.AllVarsInScope) {
		fail("indirect evaluation subsumes vararg and scoped vars")
	}
	if attrs.UsesSelfSymbol && !attrs.NeedsCallee {
		fail("self reference is recovered from the invocation record")
	}
}

func functionLabel(fn *ir.Function) string {
	if fn.Name != "" {
		return fn.Name
	}
	return "<anonymous>"
}
