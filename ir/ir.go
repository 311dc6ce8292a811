// Package ir defines the function-tree representation consumed by the scope
// analyzer and the code generation layer. The tree is produced by an external
// parser; only the structural facts the backend needs are represented here,
// not full expression detail.
package ir

// Name of the implicit collection exposing all actual call arguments.
const ArgumentsName = "arguments"

// Name whose direct call triggers indirect evaluation of a code string.
const EvalName = "eval"

// Node represents a portion of the function tree.
type Node interface {
	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}
