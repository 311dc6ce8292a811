package analyzer

import (
	"github.com/andyPPL/nashorn/ir"
)

// facts holds the syntactic observations about one function's own body,
// excluding the bodies of nested functions.
type facts struct {
	nested          []*ir.Function
	nestedDeclNames map[string]bool
	vars            map[string]bool
	reads           map[string]bool
	withRefs        map[string]bool
	hasEval         bool
}

// collectFacts walks fn's own body. Nested functions are collected but not
// entered; their contributions arrive through their own analysis results.
func collectFacts(fn *ir.Function) *facts {
	f := &facts{
		nestedDeclNames: map[string]bool{},
		vars:            map[string]bool{},
		reads:           map[string]bool{},
		withRefs:        map[string]bool{},
	}
	if fn.Body == nil {
		return f
	}
	ir.Walk(&factVisitor{facts: f}, fn.Body)
	return f
}

// factVisitor records identifier reads, var declarations, nested functions
// and indirect evaluation. It does not descend into nested function bodies.
// Identifiers referenced anywhere inside a dynamic-scope-injection construct
// are additionally recorded in withRefs.
type factVisitor struct {
	facts  *facts
	inWith bool
}

func (v *factVisitor) Visit(node ir.Node) ir.Visitor {
	switch n := node.(type) {
	case *ir.FuncDecl:
		v.facts.nested = append(v.facts.nested, n.Fn)
		if n.Fn.Name != "" {
			v.facts.nestedDeclNames[n.Fn.Name] = true
		}
		return nil
	case *ir.FuncExpr:
		v.facts.nested = append(v.facts.nested, n.Fn)
		return nil
	case *ir.Var:
		v.facts.vars[n.Name] = true
	case *ir.Ident:
		v.facts.reads[n.Name] = true
		if v.inWith {
			v.facts.withRefs[n.Name] = true
		}
	case *ir.Call:
		if n.IsDirectEval() {
			v.facts.hasEval = true
		}
	case *ir.With:
		// The object expression and the body both resolve through the
		// injected scope.
		inner := &factVisitor{facts: v.facts, inWith: true}
		ir.Walk(inner, n.Object)
		if n.Body != nil {
			ir.Walk(inner, n.Body)
		}
		return nil
	}
	return v
}

// weigh estimates the size of fn's body as a node count. Nested functions
// count as a single node; they are weighed on their own.
func weigh(fn *ir.Function) int {
	if fn.Body == nil {
		return 0
	}
	w := &weightVisitor{}
	ir.Walk(w, fn.Body)
	return w.weight
}

type weightVisitor struct {
	weight int
}

func (v *weightVisitor) Visit(node ir.Node) ir.Visitor {
	v.weight++
	switch node.(type) {
	case *ir.FuncDecl, *ir.FuncExpr:
		return nil
	}
	return v
}
