package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andyPPL/nashorn/bytecode"
	"github.com/andyPPL/nashorn/errz"
	"github.com/andyPPL/nashorn/ir"
	"github.com/andyPPL/nashorn/op"
)

func scriptFn(stmts ...ir.Stmt) *ir.Function {
	return &ir.Function{Kind: ir.Script, Body: ir.NewBlock(stmts...)}
}

func declFn(name string, params []string, stmts ...ir.Stmt) ir.Stmt {
	return &ir.FuncDecl{Fn: &ir.Function{
		Name:   name,
		Kind:   ir.Declaration,
		Params: params,
		Body:   ir.NewBlock(stmts...),
	}}
}

func TestCompileFunctionsDefaultLowering(t *testing.T) {
	root := scriptFn(
		declFn("add", []string{"a", "b"},
			&ir.Return{Value: &ir.Binary{Op: "+", X: &ir.Ident{Name: "a"}, Y: &ir.Ident{Name: "b"}}},
		),
	)

	u, err := CompileFunctions(root, &CompileConfig{SourceName: "add.js"})
	require.NoError(t, err)
	require.Equal(t, "main", u.Name())
	require.Equal(t, "add.js", u.SourceName())
	require.Equal(t, 2, u.RoutineCount())

	// The default lowering returns undefined.
	rt, ok := u.Routine("add")
	require.True(t, ok)
	words := make([]op.Code, rt.InstructionCount())
	for i := range words {
		words[i] = rt.InstructionAt(i)
	}
	require.Equal(t, []op.Code{op.LoadUndefined, op.Return, op.Code(op.Object)}, words)

	require.NoError(t, bytecode.Verify(u))
}

func TestCompileFunctionsAttributesDriveSignatures(t *testing.T) {
	// inner captures x, so outer materializes a scope record and inner
	// takes the callee and scope parameters.
	root := scriptFn(
		declFn("outer", nil,
			&ir.Var{Name: "x", Value: &ir.Int{Value: 1}},
			declFn("inner", nil,
				&ir.ExprStmt{X: &ir.Ident{Name: "x"}},
			),
		),
	)

	u, err := CompileFunctions(root, nil)
	require.NoError(t, err)

	outer, ok := u.Routine("outer")
	require.True(t, ok)
	// Scope prologue: one var plus no named params.
	require.Equal(t, op.NewScope, outer.InstructionAt(0))

	inner, ok := u.Routine("inner")
	require.True(t, ok)
	require.Equal(t, CalleeParam, inner.ParamName(0))
	require.Equal(t, ScopeParam, inner.ParamName(1))
	require.Equal(t, op.Scope, inner.ParamType(1))
}

func TestCompileFunctionsAnonymousNames(t *testing.T) {
	root := scriptFn(
		&ir.ExprStmt{X: &ir.FuncExpr{Fn: &ir.Function{Kind: ir.Expression, Body: ir.NewBlock()}}},
		&ir.ExprStmt{X: &ir.FuncExpr{Fn: &ir.Function{Kind: ir.Expression, Body: ir.NewBlock()}}},
	)

	u, err := CompileFunctions(root, nil)
	require.NoError(t, err)

	_, ok := u.Routine("anon$0")
	require.True(t, ok)
	_, ok = u.Routine("anon$1")
	require.True(t, ok)
}

func TestCompileFunctionsCustomLowering(t *testing.T) {
	root := scriptFn()
	lower := func(r *RoutineEmitter, fn *ir.Function) error {
		pool := r.Constants()
		idx, typ, err := pool.Intern("hi")
		if err != nil {
			return err
		}
		if err := pool.RequestAccessor(typ); err != nil {
			return err
		}
		r.Stream().LoadConst(typ, idx).Cast(op.Object).Return(op.Object)
		return nil
	}

	u, err := CompileFunctions(root, &CompileConfig{UnitName: "custom", Lower: lower})
	require.NoError(t, err)

	// Script routine plus the synthesized string accessor.
	require.Equal(t, 2, u.RoutineCount())
	_, ok := u.Routine("$getString")
	require.True(t, ok)

	script, ok := u.Routine("anon$0")
	require.True(t, ok)
	require.Equal(t, op.LoadConst, script.InstructionAt(0))
	require.Equal(t, 1, u.ConstantCount())
	require.Equal(t, "hi", u.ConstantAt(0).Value)
}

func TestCompileFunctionsLoweringFailure(t *testing.T) {
	root := scriptFn(declFn("bad", nil), declFn("worse", nil))
	lower := func(r *RoutineEmitter, fn *ir.Function) error {
		if fn.Name != "" {
			return errz.Unsupportedf(fn.Name, "not lowerable")
		}
		return nil
	}

	_, err := CompileFunctions(root, &CompileConfig{Lower: lower})
	require.Error(t, err)
	require.True(t, errz.IsUnsupported(err))
	require.Contains(t, err.Error(), "bad")
	require.Contains(t, err.Error(), "worse")
}

func TestCompileFunctionsStrictPropagation(t *testing.T) {
	root := scriptFn()
	root.StrictDirective = true
	u, err := CompileFunctions(root, nil)
	require.NoError(t, err)
	require.True(t, u.Strict())
}
