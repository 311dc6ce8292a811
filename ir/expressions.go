package ir

import (
	"bytes"
	"fmt"
)

// Ident is a reference to a name.
type Ident struct {
	Name string
}

func (x *Ident) exprNode() {}

func (x *Ident) String() string { return x.Name }

// Call invokes the value of Fn with the given arguments. A direct call to
// the eval name is the indirect-evaluation escape hatch.
type Call struct {
	Fn   Expr
	Args []Expr
}

func (x *Call) exprNode() {}

func (x *Call) String() string {
	var out bytes.Buffer
	out.WriteString(x.Fn.String())
	out.WriteString("(")
	for i, arg := range x.Args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(arg.String())
	}
	out.WriteString(")")
	return out.String()
}

// IsDirectEval returns true if this call syntactically invokes the eval
// name, which triggers indirect evaluation of a code string.
func (x *Call) IsDirectEval() bool {
	ident, ok := x.Fn.(*Ident)
	return ok && ident.Name == EvalName
}

// FuncExpr is a function in expression position. If the wrapped function is
// named, the name is visible only inside its own body.
type FuncExpr struct {
	Fn *Function
}

func (x *FuncExpr) exprNode() {}

func (x *FuncExpr) String() string { return x.Fn.String() }

// Assign stores Value into Target.
type Assign struct {
	Target Expr
	Value  Expr
}

func (x *Assign) exprNode() {}

func (x *Assign) String() string {
	return x.Target.String() + " = " + x.Value.String()
}

// Binary applies an infix operator to two operands.
type Binary struct {
	Op string
	X  Expr
	Y  Expr
}

func (x *Binary) exprNode() {}

func (x *Binary) String() string {
	return x.X.String() + " " + x.Op + " " + x.Y.String()
}

// Int is an integer literal.
type Int struct {
	Value int64
}

func (x *Int) exprNode() {}

func (x *Int) String() string { return fmt.Sprintf("%d", x.Value) }

// Num is a floating point literal.
type Num struct {
	Value float64
}

func (x *Num) exprNode() {}

func (x *Num) String() string { return fmt.Sprintf("%g", x.Value) }

// Str is a string literal.
type Str struct {
	Value string
}

func (x *Str) exprNode() {}

func (x *Str) String() string { return fmt.Sprintf("%q", x.Value) }

// Bool is a boolean literal.
type Bool struct {
	Value bool
}

func (x *Bool) exprNode() {}

func (x *Bool) String() string { return fmt.Sprintf("%t", x.Value) }
