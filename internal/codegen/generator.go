// Package codegen translates a vp syntax tree into x86-64 NASM assembly.
//
// The generated program keeps every variable in a 64-bit .bss slot and
// evaluates expressions with a fixed two-register discipline: the result of
// every expression ends up in rax, and rbx holds the right operand of a
// binary operation after it has been saved on the stack. I/O and termination
// use Linux system calls directly.
package codegen

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/you-not-fish/vpc/internal/syntax"
)

// DefaultEntry is the entry symbol used when Config.Entry is empty.
const DefaultEntry = "_start"

// Config controls code generation.
type Config struct {
	// Entry is the global symbol execution starts at.
	Entry string

	// DivGuard emits a zero check before every division, plus the
	// division_by_zero handler it jumps to.
	DivGuard bool

	// Comments emits a "; line:col statement" comment before each statement.
	Comments bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Entry:    DefaultEntry,
		DivGuard: true,
	}
}

// Generator emits assembly for one program.
//
// Typical use is EmitHeader with the program's variables, Generate for each
// top-level statement in order, then EmitFooter. A Generator must not be
// reused for a second program.
type Generator struct {
	e     *emitter
	cfg   Config
	label int             // last label number handed out
	slots map[string]bool // variables with a .bss slot
}

// NewGenerator returns a Generator writing to w.
func NewGenerator(w io.Writer, cfg Config) *Generator {
	if cfg.Entry == "" {
		cfg.Entry = DefaultEntry
	}
	return &Generator{
		e:     &emitter{w: w},
		cfg:   cfg,
		slots: make(map[string]bool),
	}
}

// Generate compiles file and writes the complete assembly document to w.
// Nothing is written to w unless generation succeeds.
func Generate(w io.Writer, file *syntax.File, cfg Config) error {
	return GenerateProgram(w, file, syntax.CollectVariables(file.Stmts), cfg)
}

// GenerateProgram is like Generate but takes the variable slots, as
// returned by syntax.CollectVariables, from the caller.
func GenerateProgram(w io.Writer, file *syntax.File, names []string, cfg Config) error {
	var buf bytes.Buffer
	g := NewGenerator(&buf, cfg)

	if err := g.EmitHeader(names); err != nil {
		return err
	}
	for _, s := range file.Stmts {
		if err := g.Generate(s); err != nil {
			return err
		}
	}
	if err := g.EmitFooter(); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)
	return err
}

// ----------------------------------------------------------------------------
// Header

// EmitHeader writes the .bss, .data and start of the .text section.
// Each name gets one 64-bit slot; only those names may be read later.
func (g *Generator) EmitHeader(names []string) error {
	e := g.e

	e.emitSection(".bss")
	for _, name := range names {
		if g.slots[name] {
			continue
		}
		g.slots[name] = true
		e.emitInst("%s resq 1", slotName(name))
	}
	e.emitInst("%s resb %d", bufferSym, bufferSize)
	e.emitLine()

	e.emitSection(".data")
	e.emitInst("%s db 0xA", newlineSym)
	e.emitInst("%s db %q, 0xA", errorMessageSym, divByZeroMessage)
	e.emitInst("%s equ $ - %s", errorLenSym, errorMessageSym)
	e.emitLine()

	e.emitSection(".text")
	e.emitInst("global %s", g.cfg.Entry)
	e.emitLine()
	e.emitLabel(g.cfg.Entry)

	return e.err
}

// ----------------------------------------------------------------------------
// Statements and expressions

// Generate emits the instructions for node. Statements are emitted in
// full; an expression leaves its value in rax.
func (g *Generator) Generate(node syntax.Node) error {
	if err := g.gen(node); err != nil {
		return err
	}
	return g.e.err
}

func (g *Generator) gen(node syntax.Node) error {
	switch n := node.(type) {
	case *syntax.AssignStmt:
		g.comment(n)
		if err := g.gen(n.RHS); err != nil {
			return err
		}
		if !g.slots[n.LHS.Value] {
			return &UndefinedVariableError{Pos: n.LHS.Pos(), Name: n.LHS.Value}
		}
		g.e.emitInst("mov [%s], rax", slotName(n.LHS.Value))

	case *syntax.PrintStmt:
		g.comment(n)
		if err := g.gen(n.X); err != nil {
			return err
		}
		g.print()

	case *syntax.IfStmt:
		g.comment(n)
		return g.ifStmt(n)

	case *syntax.Operation:
		return g.binary(n)

	case *syntax.NumberLit:
		v, err := immediate(n)
		if err != nil {
			return err
		}
		g.e.emitInst("mov rax, %d", v)

	case *syntax.Name:
		if !g.slots[n.Value] {
			return &UndefinedVariableError{Pos: n.Pos(), Name: n.Value}
		}
		g.e.emitInst("mov rax, [%s]", slotName(n.Value))

	case *syntax.File:
		for _, s := range n.Stmts {
			if err := g.gen(s); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("codegen: unexpected node %T", node)
	}
	return nil
}

func (g *Generator) genList(list []syntax.Stmt) error {
	for _, s := range list {
		if err := g.gen(s); err != nil {
			return err
		}
	}
	return nil
}

// binary evaluates the right operand first and parks it on the stack, so
// the left operand ends in rax and the right one in rbx.
func (g *Generator) binary(n *syntax.Operation) error {
	if err := g.gen(n.Y); err != nil {
		return err
	}
	g.e.emitInst("push rax")
	if err := g.gen(n.X); err != nil {
		return err
	}
	g.e.emitInst("pop rbx")

	switch n.Op {
	case syntax.Add:
		g.e.emitInst("add rax, rbx")
	case syntax.Sub:
		g.e.emitInst("sub rax, rbx")
	case syntax.Mul:
		g.e.emitInst("imul rax, rbx")
	case syntax.Div:
		if g.cfg.DivGuard {
			g.e.emitInst("cmp rbx, 0")
			g.e.emitInst("je %s", divByZeroSym)
		}
		g.e.emitInst("cqo")
		g.e.emitInst("idiv rbx")
	case syntax.Eql:
		g.e.emitInst("cmp rax, rbx")
		g.e.emitInst("sete al")
		g.e.emitInst("movzx rax, al")
	default:
		return &UnsupportedOperatorError{Pos: n.Pos(), Op: n.Op}
	}
	return nil
}

func (g *Generator) ifStmt(n *syntax.IfStmt) error {
	elseLabel := g.newLabel("else")
	endLabel := g.newLabel("end_if")

	if err := g.gen(n.Cond); err != nil {
		return err
	}
	g.e.emitInst("cmp rax, 0")
	g.e.emitInst("je %s", elseLabel)

	if err := g.genList(n.Then); err != nil {
		return err
	}
	g.e.emitInst("jmp %s", endLabel)

	g.e.emitLabel(elseLabel)
	if err := g.genList(n.Else); err != nil {
		return err
	}
	g.e.emitLabel(endLabel)
	return nil
}

// print writes rax as a decimal line to stdout.
func (g *Generator) print() {
	e := g.e
	e.emitInst("call %s", intToStringSym)

	// int_to_string leaves the first digit at rcx; the text ends at buffer+20.
	e.emitInst("mov rdx, %s", bufferSym)
	e.emitInst("add rdx, %d", bufferSize)
	e.emitInst("sub rdx, rcx")
	e.emitInst("mov rsi, rcx")
	e.emitInst("mov rax, %d", sysWrite)
	e.emitInst("mov rdi, %d", stdout)
	e.emitInst("syscall")

	e.emitInst("mov rax, %d", sysWrite)
	e.emitInst("mov rdi, %d", stdout)
	e.emitInst("mov rsi, %s", newlineSym)
	e.emitInst("mov rdx, 1")
	e.emitInst("syscall")
}

// newLabel returns prefix followed by the next label number.
func (g *Generator) newLabel(prefix string) string {
	g.label++
	return prefix + strconv.Itoa(g.label)
}

func (g *Generator) comment(s syntax.Stmt) {
	if !g.cfg.Comments {
		return
	}
	var text string
	switch s := s.(type) {
	case *syntax.AssignStmt:
		text = s.LHS.Value + " = " + syntax.ExprString(s.RHS)
	case *syntax.PrintStmt:
		text = "print(" + syntax.ExprString(s.X) + ")"
	case *syntax.IfStmt:
		text = "if (" + syntax.ExprString(s.Cond) + ")"
	}
	g.e.emitComment("%s %s", s.Pos().LineCol(), text)
}

// immediate converts a literal to the 64-bit value stored for it.
// Integer literals are taken exactly; anything else is truncated toward zero.
func immediate(n *syntax.NumberLit) (int64, error) {
	if v, err := strconv.ParseInt(n.Text, 10, 64); err == nil {
		return v, nil
	}
	v := math.Trunc(n.Value)
	if math.IsNaN(v) || v < math.MinInt64 || v >= -math.MinInt64 {
		return 0, &NumberRangeError{Pos: n.Pos(), Text: n.Text}
	}
	return int64(v), nil
}
