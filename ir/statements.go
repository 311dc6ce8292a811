package ir

import (
	"bytes"
)

// Block is a sequence of statements.
type Block struct {
	Stmts []Stmt
}

func (s *Block) stmtNode() {}

func (s *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for i, stmt := range s.Stmts {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(stmt.String())
	}
	out.WriteString(" }")
	return out.String()
}

// Var declares a new variable with an optional initial value.
type Var struct {
	Name  string
	Value Expr
}

func (s *Var) stmtNode() {}

func (s *Var) String() string {
	if s.Value == nil {
		return "var " + s.Name
	}
	return "var " + s.Name + " = " + s.Value.String()
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) String() string { return s.X.String() }

// Return exits a function, optionally with a value.
type Return struct {
	Value Expr
}

func (s *Return) stmtNode() {}

func (s *Return) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

// If is a conditional statement. The alternative may be nil.
type If struct {
	Cond        Expr
	Consequence *Block
	Alternative *Block
}

func (s *If) stmtNode() {}

func (s *If) String() string {
	var out bytes.Buffer
	out.WriteString("if (" + s.Cond.String() + ") ")
	out.WriteString(s.Consequence.String())
	if s.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(s.Alternative.String())
	}
	return out.String()
}

// With is the dynamic-scope-injection construct: it prepends the object
// resulting from Object to the scope chain for the duration of Body.
// Identifier resolution inside the body cannot be completed statically.
type With struct {
	Object Expr
	Body   *Block
}

func (s *With) stmtNode() {}

func (s *With) String() string {
	return "with (" + s.Object.String() + ") " + s.Body.String()
}

// FuncDecl is a named function declaration statement. The declared name is
// bound in the enclosing scope.
type FuncDecl struct {
	Fn *Function
}

func (s *FuncDecl) stmtNode() {}

func (s *FuncDecl) String() string { return s.Fn.String() }

// NewBlock is a convenience constructor for a Block.
func NewBlock(stmts ...Stmt) *Block {
	return &Block{Stmts: stmts}
}
