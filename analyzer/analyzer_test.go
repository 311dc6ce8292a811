package analyzer

import (
	"fmt"
	"testing"

	"github.com/andyPPL/nashorn/ir"
	"github.com/stretchr/testify/require"
)

// Builders for the syntactic patterns exercised below.

func fn(name string, kind ir.Kind, params []string, stmts ...ir.Stmt) *ir.Function {
	return &ir.Function{
		Name:   name,
		Kind:   kind,
		Params: params,
		Body:   ir.NewBlock(stmts...),
	}
}

func read(name string) ir.Stmt {
	return &ir.ExprStmt{X: &ir.Ident{Name: name}}
}

func declare(name string) ir.Stmt {
	return &ir.Var{Name: name, Value: &ir.Int{Value: 1}}
}

func call(name string, args ...ir.Expr) ir.Stmt {
	return &ir.ExprStmt{X: &ir.Call{Fn: &ir.Ident{Name: name}, Args: args}}
}

func nestedDecl(inner *ir.Function) ir.Stmt {
	return &ir.FuncDecl{Fn: inner}
}

func manyParams(n int) []string {
	params := make([]string, n)
	for i := range params {
		params[i] = fmt.Sprintf("p%d", i)
	}
	return params
}

func TestAttributeDerivation(t *testing.T) {
	tests := []struct {
		name  string
		build func() *ir.Function
		want  ir.AttributeSet
	}{
		{
			name: "no free names, no capture, no arguments",
			build: func() *ir.Function {
				return fn("plain", ir.Declaration, []string{"a"},
					declare("x"),
					&ir.Return{Value: &ir.Binary{Op: "+", X: &ir.Ident{Name: "x"}, Y: &ir.Ident{Name: "a"}}},
				)
			},
			want: ir.AttributeSet{},
		},
		{
			name: "free identifier read",
			build: func() *ir.Function {
				return fn("f", ir.Declaration, nil, read("global"))
			},
			want: ir.AttributeSet{NeedsParentScope: true, NeedsCallee: true},
		},
		{
			name: "arguments read in non-strict code",
			build: func() *ir.Function {
				return fn("f", ir.Declaration, nil, read(ir.ArgumentsName))
			},
			want: ir.AttributeSet{IsVarArg: true, NeedsCallee: true},
		},
		{
			name: "arguments read in strict code",
			build: func() *ir.Function {
				f := fn("f", ir.Declaration, nil, read(ir.ArgumentsName))
				f.StrictDirective = true
				return f
			},
			want: ir.AttributeSet{IsVarArg: true, IsStrict: true},
		},
		{
			name: "arguments shadowed by a parameter",
			build: func() *ir.Function {
				return fn("f", ir.Declaration, []string{ir.ArgumentsName}, read(ir.ArgumentsName))
			},
			want: ir.AttributeSet{},
		},
		{
			name: "arguments shadowed by an inner function declaration",
			build: func() *ir.Function {
				inner := fn(ir.ArgumentsName, ir.Declaration, nil)
				return fn("f", ir.Declaration, nil, nestedDecl(inner), read(ir.ArgumentsName))
			},
			want: ir.AttributeSet{},
		},
		{
			name: "nested function captures an enclosing local",
			build: func() *ir.Function {
				inner := fn("inner", ir.Declaration, nil, read("x"))
				return fn("outer", ir.Declaration, nil, declare("x"), nestedDecl(inner))
			},
			want: ir.AttributeSet{HasScopeBlock: true},
		},
		{
			name: "nested function captures an enclosing parameter",
			build: func() *ir.Function {
				inner := fn("inner", ir.Declaration, nil, read("p"))
				return fn("outer", ir.Declaration, []string{"p"}, nestedDecl(inner))
			},
			want: ir.AttributeSet{HasScopeBlock: true},
		},
		{
			name: "nested function reads only a global",
			build: func() *ir.Function {
				inner := fn("inner", ir.Declaration, nil, read("global"))
				return fn("outer", ir.Declaration, nil, nestedDecl(inner))
			},
			want: ir.AttributeSet{NeedsParentScope: true, NeedsCallee: true},
		},
		{
			name: "nested local shadowing an enclosing local is not a capture",
			build: func() *ir.Function {
				inner := fn("inner", ir.Declaration, nil, declare("x"), read("x"))
				return fn("outer", ir.Declaration, nil, declare("x"), nestedDecl(inner))
			},
			want: ir.AttributeSet{},
		},
		{
			name: "scope injection over a local",
			build: func() *ir.Function {
				return fn("f", ir.Declaration, nil,
					declare("x"),
					&ir.With{Object: &ir.Ident{Name: "x"}, Body: ir.NewBlock()},
				)
			},
			want: ir.AttributeSet{HasScopeBlock: true},
		},
		{
			name: "scope injection over a free identifier",
			build: func() *ir.Function {
				return fn("f", ir.Declaration, nil,
					&ir.With{Object: &ir.Ident{Name: "global"}, Body: ir.NewBlock()},
				)
			},
			want: ir.AttributeSet{NeedsParentScope: true, NeedsCallee: true},
		},
		{
			name: "scope injection referencing nothing",
			build: func() *ir.Function {
				return fn("f", ir.Declaration, nil,
					&ir.With{Object: &ir.Str{Value: "obj"}, Body: ir.NewBlock()},
				)
			},
			want: ir.AttributeSet{},
		},
		{
			name: "indirect evaluation in own body",
			build: func() *ir.Function {
				return fn("f", ir.Declaration, nil, call(ir.EvalName, &ir.Str{Value: "code"}))
			},
			want: ir.AttributeSet{
				IsVarArg:         true,
				NeedsParentScope: true,
				NeedsCallee:      true,
				HasScopeBlock:    true,
				HasEval:          true,
				AllVarsInScope:   true,
			},
		},
		{
			name: "self-referencing function expression",
			build: func() *ir.Function {
				return fn("me", ir.Expression, nil, call("me"))
			},
			want: ir.AttributeSet{UsesSelfSymbol: true, NeedsCallee: true},
		},
		{
			name: "self-referencing function declaration",
			build: func() *ir.Function {
				return fn("me", ir.Declaration, nil, call("me"))
			},
			want: ir.AttributeSet{NeedsParentScope: true, NeedsCallee: true},
		},
		{
			name: "parameter count at the fixed-arity threshold",
			build: func() *ir.Function {
				return fn("wide", ir.Declaration, manyParams(125))
			},
			want: ir.AttributeSet{},
		},
		{
			name: "parameter count past the fixed-arity threshold",
			build: func() *ir.Function {
				return fn("wider", ir.Declaration, manyParams(126))
			},
			want: ir.AttributeSet{IsVarArg: true, HasScopeBlock: true},
		},
		{
			name: "strictness mirrors the directive when nothing else is used",
			build: func() *ir.Function {
				f := fn("f", ir.Declaration, nil, declare("x"))
				f.StrictDirective = true
				return f
			},
			want: ir.AttributeSet{IsStrict: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Analyze(tt.build()))
		})
	}
}

func TestEvalPropagation(t *testing.T) {
	// eval in the innermost function forces a reachable scope chain on
	// every ancestor, but hasEval/isVarArg stay with the function that
	// actually uses it.
	innermost := fn("innermost", ir.Declaration, nil, call(ir.EvalName, &ir.Str{Value: "code"}))
	middle := fn("middle", ir.Declaration, nil, nestedDecl(innermost))
	outer := fn("outer", ir.Declaration, nil, nestedDecl(middle))

	a := New(nil)
	got := a.Analyze(outer)

	ancestorWant := ir.AttributeSet{
		NeedsParentScope: true,
		NeedsCallee:      true,
		HasScopeBlock:    true,
		AllVarsInScope:   true,
	}
	require.Equal(t, ancestorWant, got)

	middleAttrs, ok := a.Attributes(middle)
	require.True(t, ok)
	require.Equal(t, ancestorWant, middleAttrs)

	innerAttrs, ok := a.Attributes(innermost)
	require.True(t, ok)
	require.Equal(t, ir.AttributeSet{
		IsVarArg:         true,
		NeedsParentScope: true,
		NeedsCallee:      true,
		HasScopeBlock:    true,
		HasEval:          true,
		AllVarsInScope:   true,
	}, innerAttrs)
}

func TestCaptureThroughIntermediateFunction(t *testing.T) {
	// A name captured across two function boundaries marks the defining
	// function with a scope block and the intermediate function with a
	// parent-scope requirement.
	innermost := fn("innermost", ir.Declaration, nil, read("x"))
	middle := fn("middle", ir.Declaration, nil, nestedDecl(innermost))
	outer := fn("outer", ir.Declaration, nil, declare("x"), nestedDecl(middle))

	a := New(nil)
	require.Equal(t, ir.AttributeSet{HasScopeBlock: true}, a.Analyze(outer))

	middleAttrs, ok := a.Attributes(middle)
	require.True(t, ok)
	require.Equal(t, ir.AttributeSet{NeedsParentScope: true, NeedsCallee: true}, middleAttrs)
}

func TestStrictnessInheritsDownward(t *testing.T) {
	inner := fn("inner", ir.Declaration, nil, read(ir.ArgumentsName))
	outer := fn("outer", ir.Declaration, nil, nestedDecl(inner))
	outer.StrictDirective = true

	a := New(nil)
	got := a.Analyze(outer)
	require.True(t, got.IsStrict)

	// Strict inner function: the arguments collection no longer pulls in
	// the invocation record.
	innerAttrs, ok := a.Attributes(inner)
	require.True(t, ok)
	require.Equal(t, ir.AttributeSet{IsVarArg: true, IsStrict: true}, innerAttrs)
}

func TestSplitThreshold(t *testing.T) {
	var stmts []ir.Stmt
	for i := 0; i < 20; i++ {
		stmts = append(stmts, declare(fmt.Sprintf("v%d", i)))
	}
	big := fn("big", ir.Declaration, nil, stmts...)

	require.False(t, Analyze(big).IsSplit)

	a := New(&Config{SplitThreshold: 10})
	got := a.Analyze(big)
	require.True(t, got.IsSplit)
	// Split emission is independent of every other attribute.
	require.Equal(t, ir.AttributeSet{IsSplit: true}, got)
}

func TestAttributesComputedOnce(t *testing.T) {
	f := fn("f", ir.Declaration, nil, read("global"))
	a := New(nil)
	first := a.Analyze(f)
	second := a.Analyze(f)
	require.Equal(t, first, second)

	recorded, ok := a.Attributes(f)
	require.True(t, ok)
	require.Equal(t, first, recorded)

	_, ok = a.Attributes(fn("unseen", ir.Declaration, nil))
	require.False(t, ok)
}
