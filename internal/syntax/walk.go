package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first, left-to-right order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		walkStmts(n.Stmts, v)

	case *AssignStmt:
		Walk(n.LHS, v)
		Walk(n.RHS, v)

	case *PrintStmt:
		Walk(n.X, v)

	case *IfStmt:
		Walk(n.Cond, v)
		walkStmts(n.Then, v)
		walkStmts(n.Else, v)

	case *Operation:
		Walk(n.X, v)
		Walk(n.Y, v)

	// Leaf nodes: Name, NumberLit
	// No children to visit
	}
}

func walkStmts(list []Stmt, v Visitor) {
	for _, s := range list {
		Walk(s, v)
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
