package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func (p *printer) printList(label string, list []Stmt) {
	p.printf("%s:\n", label)
	p.indent++
	for _, s := range list {
		p.print(s)
	}
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *File:
		p.printf("File %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *AssignStmt:
		p.printf("AssignStmt %s %s\n", n.pos, n.LHS.Value)
		p.indent++
		p.print(n.RHS)
		p.indent--

	case *PrintStmt:
		p.printf("PrintStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.printf("Cond:\n")
		p.indent++
		p.print(n.Cond)
		p.indent--
		p.printList("Then", n.Then)
		if len(n.Else) > 0 {
			p.printList("Else", n.Else)
		}
		p.indent--

	case *Name:
		p.printf("Name %s %q\n", n.pos, n.Value)

	case *NumberLit:
		p.printf("NumberLit %s %s\n", n.pos, n.Text)

	case *Operation:
		p.printf("BinaryOp %s %s\n", n.pos, n.Op)
		p.indent++
		p.printf("X:\n")
		p.indent++
		p.print(n.X)
		p.indent--
		p.printf("Y:\n")
		p.indent++
		p.print(n.Y)
		p.indent--
		p.indent--

	default:
		p.printf("<%T>\n", node)
	}
}

// ExprString returns a source-like rendering of x with every binary
// operation parenthesized, e.g. ((2 + 3) * 4).
func ExprString(x Expr) string {
	switch e := x.(type) {
	case *Name:
		return e.Value
	case *NumberLit:
		return e.Text
	case *Operation:
		return "(" + ExprString(e.X) + " " + string(e.Op) + " " + ExprString(e.Y) + ")"
	case nil:
		return "<nil>"
	}
	return fmt.Sprintf("<%T>", x)
}
