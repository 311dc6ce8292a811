package ir

import (
	"bytes"
	"strings"
)

// Kind distinguishes the syntactic forms a function can take. The form
// matters to analysis: a named function expression binds its own name only
// inside its body, while a declaration binds it in the enclosing scope.
type Kind int

const (
	// Script is the outermost program body.
	Script Kind = iota
	// Declaration is a named function declaration statement.
	Declaration
	// Expression is a function expression, optionally named.
	Expression
)

func (k Kind) String() string {
	switch k {
	case Script:
		return "script"
	case Declaration:
		return "declaration"
	case Expression:
		return "expression"
	}
	return "unknown"
}

// Function describes one function or closure: its identifier, parameter
// list, body, syntactic form, and strictness directive. Nested functions
// appear in the body as FuncDecl statements or FuncExpr expressions.
//
// The descriptor itself carries no derived attributes; those are computed by
// the analyzer exactly once per compilation pass.
type Function struct {
	// Name is the function identifier, empty for anonymous functions.
	Name string

	// Kind is the syntactic form of the function.
	Kind Kind

	// Params holds the named parameters in declaration order.
	Params []string

	// Body is the function body.
	Body *Block

	// StrictDirective is true if the function body opens with an explicit
	// strictness declaration. Strictness also inherits from enclosing
	// functions; see AttributeSet.IsStrict for the effective value.
	StrictDirective bool
}

func (f *Function) String() string {
	var out bytes.Buffer
	out.WriteString("function")
	if f.Name != "" {
		out.WriteString(" " + f.Name)
	}
	out.WriteString("(")
	out.WriteString(strings.Join(f.Params, ", "))
	out.WriteString(") {...}")
	return out.String()
}

// NestedFunctions returns the functions nested directly inside this
// function's body, in source order. Functions nested more deeply are not
// included.
func (f *Function) NestedFunctions() []*Function {
	var nested []*Function
	walkShallow(f.Body, func(n Node) {
		switch n := n.(type) {
		case *FuncDecl:
			nested = append(nested, n.Fn)
		case *FuncExpr:
			nested = append(nested, n.Fn)
		}
	})
	return nested
}

// DeclaredVars returns the names declared with var statements directly in
// this function's body, in source order. Declarations inside nested
// functions belong to those functions and are not included.
func (f *Function) DeclaredVars() []string {
	var names []string
	seen := map[string]bool{}
	walkShallow(f.Body, func(n Node) {
		if v, ok := n.(*Var); ok && !seen[v.Name] {
			seen[v.Name] = true
			names = append(names, v.Name)
		}
	})
	return names
}

// walkShallow visits every node in the statement tree without descending
// into nested function bodies. FuncDecl and FuncExpr nodes themselves are
// visited so callers can collect them.
func walkShallow(node Node, visit func(Node)) {
	if node == nil {
		return
	}
	Walk(visitorFunc(func(n Node) bool {
		visit(n)
		switch n.(type) {
		case *FuncDecl, *FuncExpr:
			return false
		}
		return true
	}), node)
}

type visitorFunc func(Node) bool

func (f visitorFunc) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}
