package codegen

import (
	"bytes"
	"strings"

	"github.com/andyPPL/nashorn/ir"
	"github.com/andyPPL/nashorn/op"
)

// Internal parameter names of the calling convention. The leading colon
// keeps them out of the namespace of source-level identifiers.
const (
	// CalleeParam carries the invocation record.
	CalleeParam = ":callee"

	// ScopeParam carries the enclosing scope record.
	ScopeParam = ":scope"

	// VarArgsParam carries the raw argument array of a vararg routine.
	VarArgsParam = ":varargs"
)

// Param is one parameter of a routine signature.
type Param struct {
	Name string
	Type op.Type
}

// Signature describes the parameters and return type of a routine.
type Signature struct {
	Params []Param
	Return op.Type
	VarArg bool
}

// FunctionSignature derives the signature implied by a function's
// attributes. Internal parameters come first: the invocation record if the
// function needs callee access, then the enclosing scope record if it
// needs its parent scope. Named parameters follow as generic object
// references, and a vararg function ends with the raw argument array.
func FunctionSignature(attrs ir.AttributeSet, paramNames []string) Signature {
	var params []Param
	if attrs.NeedsCallee {
		params = append(params, Param{Name: CalleeParam, Type: op.Object})
	}
	if attrs.NeedsParentScope {
		params = append(params, Param{Name: ScopeParam, Type: op.Scope})
	}
	for _, name := range paramNames {
		params = append(params, Param{Name: name, Type: op.Object})
	}
	if attrs.IsVarArg {
		params = append(params, Param{Name: VarArgsParam, Type: op.ObjectArray})
	}
	return Signature{
		Params: params,
		Return: op.Object,
		VarArg: attrs.IsVarArg,
	}
}

// SlotCount returns the number of local slots the parameters occupy.
func (s Signature) SlotCount() int {
	slots := 0
	for _, p := range s.Params {
		slots += p.Type.Width()
	}
	return slots
}

// Slot returns the local slot of the named parameter. The second return
// value is false if the signature has no parameter with that name.
func (s Signature) Slot(name string) (int, bool) {
	slot := 0
	for _, p := range s.Params {
		if p.Name == name {
			return slot, true
		}
		slot += p.Type.Width()
	}
	return 0, false
}

// ParamNames returns the parameter names in slot order.
func (s Signature) ParamNames() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// ParamTypes returns the parameter types in slot order.
func (s Signature) ParamTypes() []op.Type {
	types := make([]op.Type, len(s.Params))
	for i, p := range s.Params {
		types[i] = p.Type
	}
	return types
}

// String renders the signature, e.g. "(:callee object, x object) object".
func (s Signature) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.Name + " " + p.Type.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(")")
	if s.Return != op.Unknown {
		out.WriteString(" " + s.Return.String())
	}
	return out.String()
}
