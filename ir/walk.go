package ir

// Visitor defines the interface for tree traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a function tree in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
//
// FuncDecl and FuncExpr children include the nested function's body; a
// visitor that wants to stay within one function must return nil for those
// nodes.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	// Statements
	case *Block:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}
	case *Var:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *ExprStmt:
		Walk(v, n.X)
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *If:
		Walk(v, n.Cond)
		if n.Consequence != nil {
			Walk(v, n.Consequence)
		}
		if n.Alternative != nil {
			Walk(v, n.Alternative)
		}
	case *With:
		Walk(v, n.Object)
		if n.Body != nil {
			Walk(v, n.Body)
		}
	case *FuncDecl:
		if n.Fn.Body != nil {
			Walk(v, n.Fn.Body)
		}

	// Expressions
	case *Call:
		Walk(v, n.Fn)
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *FuncExpr:
		if n.Fn.Body != nil {
			Walk(v, n.Fn.Body)
		}
	case *Assign:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *Binary:
		Walk(v, n.X)
		Walk(v, n.Y)

	// Leaves: Ident, Int, Num, Str, Bool
	}
}
