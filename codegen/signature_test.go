package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andyPPL/nashorn/ir"
	"github.com/andyPPL/nashorn/op"
)

func TestFunctionSignature(t *testing.T) {
	tests := []struct {
		name      string
		attrs     ir.AttributeSet
		params    []string
		wantNames []string
		wantTypes []op.Type
	}{
		{
			name:      "plain function",
			params:    []string{"a", "b"},
			wantNames: []string{"a", "b"},
			wantTypes: []op.Type{op.Object, op.Object},
		},
		{
			name:      "callee only",
			attrs:     ir.AttributeSet{NeedsCallee: true},
			params:    []string{"x"},
			wantNames: []string{CalleeParam, "x"},
			wantTypes: []op.Type{op.Object, op.Object},
		},
		{
			name:      "callee and parent scope",
			attrs:     ir.AttributeSet{NeedsCallee: true, NeedsParentScope: true},
			wantNames: []string{CalleeParam, ScopeParam},
			wantTypes: []op.Type{op.Object, op.Scope},
		},
		{
			name:      "vararg trailing array",
			attrs:     ir.AttributeSet{IsVarArg: true, NeedsCallee: true},
			params:    []string{"x"},
			wantNames: []string{CalleeParam, "x", VarArgsParam},
			wantTypes: []op.Type{op.Object, op.Object, op.ObjectArray},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := FunctionSignature(tt.attrs, tt.params)
			require.Equal(t, tt.wantNames, sig.ParamNames())
			require.Equal(t, tt.wantTypes, sig.ParamTypes())
			require.Equal(t, op.Object, sig.Return)
			require.Equal(t, tt.attrs.IsVarArg, sig.VarArg)
		})
	}
}

func TestSignatureSlots(t *testing.T) {
	sig := Signature{
		Params: []Param{
			{Name: "n", Type: op.Number},
			{Name: "s", Type: op.String},
		},
		Return: op.String,
	}
	// The wide number takes two slots, pushing the string to slot 2.
	require.Equal(t, 3, sig.SlotCount())

	slot, ok := sig.Slot("n")
	require.True(t, ok)
	require.Equal(t, 0, slot)

	slot, ok = sig.Slot("s")
	require.True(t, ok)
	require.Equal(t, 2, slot)

	_, ok = sig.Slot("missing")
	require.False(t, ok)

	require.Equal(t, "(n number, s string) string", sig.String())
}
