package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 classes of nodes: Expressions and Statements. A program is a
// File holding an ordered list of statements. Every node owns its children
// exclusively; the tree is never shared or cyclic.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Files

// File represents a complete source file.
type File struct {
	node
	Stmts []Stmt // top-level statements in source order
}

// ----------------------------------------------------------------------------
// Expressions

// Name represents a variable reference.
type Name struct {
	expr
	Value string // identifier string
}

// NumberLit represents a numeric literal.
type NumberLit struct {
	expr
	Value float64 // parsed value
	Text  string  // literal text as written
}

// Operation represents a binary operation: X Op Y.
type Operation struct {
	expr
	Op Operator // +, -, *, / or ==
	X  Expr     // left operand
	Y  Expr     // right operand
}

// ----------------------------------------------------------------------------
// Statements

// AssignStmt represents an assignment: LHS = RHS
type AssignStmt struct {
	stmt
	LHS *Name // assigned variable
	RHS Expr  // assigned value
}

// PrintStmt represents print(X).
type PrintStmt struct {
	stmt
	X Expr
}

// IfStmt represents: if (Cond) { Then } else { Else }
type IfStmt struct {
	stmt
	Cond Expr   // condition expression
	Then []Stmt // then branch
	Else []Stmt // else branch (empty when omitted)
}

// ----------------------------------------------------------------------------
// Constructors
//
// Nodes built outside the parser (tests, tools) get their position through
// these helpers.

// NewName returns a Name node at pos.
func NewName(pos Pos, value string) *Name {
	n := &Name{Value: value}
	n.pos = pos
	return n
}

// NewNumberLit returns a NumberLit node at pos.
func NewNumberLit(pos Pos, value float64, text string) *NumberLit {
	n := &NumberLit{Value: value, Text: text}
	n.pos = pos
	return n
}

// NewOperation returns an Operation node positioned at its left operand.
func NewOperation(op Operator, x, y Expr) *Operation {
	n := &Operation{Op: op, X: x, Y: y}
	n.pos = x.Pos()
	return n
}

// NewAssignStmt returns an AssignStmt positioned at its left-hand side.
func NewAssignStmt(lhs *Name, rhs Expr) *AssignStmt {
	s := &AssignStmt{LHS: lhs, RHS: rhs}
	s.pos = lhs.Pos()
	return s
}

// NewPrintStmt returns a PrintStmt at pos.
func NewPrintStmt(pos Pos, x Expr) *PrintStmt {
	s := &PrintStmt{X: x}
	s.pos = pos
	return s
}

// NewIfStmt returns an IfStmt at pos.
func NewIfStmt(pos Pos, cond Expr, then, els []Stmt) *IfStmt {
	s := &IfStmt{Cond: cond, Then: then, Else: els}
	s.pos = pos
	return s
}
