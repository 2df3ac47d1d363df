package codegen

import (
	"regexp"
	"strings"
)

// Symbols defined by every generated program.
const (
	bufferSym       = "buffer"
	newlineSym      = "newline"
	errorMessageSym = "error_message"
	errorLenSym     = "error_len"
	divByZeroSym    = "division_by_zero"
	intToStringSym  = "int_to_string"
)

// SlotPrefix starts the symbol of every variable slot.
const SlotPrefix = "var_"

const (
	bufferSize       = 20 // sign plus the 19 digits of the widest int64
	divByZeroMessage = "Error: Division by zero"

	sysWrite = 1
	sysExit  = 60
	stdout   = 1
	stderr   = 2
)

var (
	labelPattern    = regexp.MustCompile(`^(else|end_if)[0-9]+$`)
	extendedPattern = regexp.MustCompile(`^r([89]|1[0-5])[dwb]?$`)
)

// asmKeywords are names nasm will not accept as a label: the legacy
// registers, and the mnemonics and directives generated programs use.
var asmKeywords = map[string]bool{
	"rax": true, "rbx": true, "rcx": true, "rdx": true, "rsi": true, "rdi": true, "rbp": true, "rsp": true, "rip": true,
	"eax": true, "ebx": true, "ecx": true, "edx": true, "esi": true, "edi": true, "ebp": true, "esp": true,
	"ax": true, "bx": true, "cx": true, "dx": true, "si": true, "di": true, "bp": true, "sp": true,
	"al": true, "bl": true, "cl": true, "dl": true, "ah": true, "bh": true, "ch": true, "dh": true,
	"sil": true, "dil": true, "bpl": true, "spl": true,

	"mov": true, "movzx": true, "add": true, "sub": true, "imul": true, "idiv": true, "div": true,
	"cqo": true, "neg": true, "inc": true, "dec": true, "xor": true, "cmp": true, "test": true,
	"sete": true, "je": true, "jmp": true, "jns": true, "jnz": true, "jz": true,
	"push": true, "pop": true, "call": true, "ret": true, "syscall": true,
	"byte": true, "db": true, "equ": true, "resb": true, "resq": true,
	"section": true, "global": true,
}

// IsReserved reports whether sym cannot name the entry point: a runtime
// symbol, a generated branch label, a variable slot, or a register,
// mnemonic or directive of the generated code. Registers and mnemonics are
// matched case-insensitively, as nasm does.
func IsReserved(sym string) bool {
	switch sym {
	case bufferSym, newlineSym, errorMessageSym, errorLenSym, divByZeroSym, intToStringSym:
		return true
	}
	if strings.HasPrefix(sym, SlotPrefix) || labelPattern.MatchString(sym) {
		return true
	}
	lower := strings.ToLower(sym)
	return asmKeywords[lower] || extendedPattern.MatchString(lower)
}

// EmitFooter writes the exit sequence followed by the runtime routines.
func (g *Generator) EmitFooter() error {
	e := g.e

	e.emitInst("mov rax, %d", sysExit)
	e.emitInst("xor rdi, rdi")
	e.emitInst("syscall")

	if g.cfg.DivGuard {
		e.emitLine()
		e.emitLabel(divByZeroSym)
		e.emitInst("mov rax, %d", sysWrite)
		e.emitInst("mov rdi, %d", stderr)
		e.emitInst("mov rsi, %s", errorMessageSym)
		e.emitInst("mov rdx, %s", errorLenSym)
		e.emitInst("syscall")
		e.emitInst("mov rax, %d", sysExit)
		e.emitInst("mov rdi, 1")
		e.emitInst("syscall")
	}

	e.emitLine()
	g.emitIntToString()

	return e.err
}

// emitIntToString writes the int_to_string subroutine. It converts rax to
// decimal text ending at buffer+20 and returns the first character in rcx.
// It clobbers rax, rbx, rdx and r8.
func (g *Generator) emitIntToString() {
	e := g.e

	e.emitLabel(intToStringSym)
	e.emitInst("mov rcx, %s", bufferSym)
	e.emitInst("add rcx, %d", bufferSize-1)
	e.emitInst("xor r8, r8")
	e.emitInst("test rax, rax")
	e.emitInst("jns .convert")
	e.emitInst("neg rax")
	e.emitInst("mov r8, 1")
	e.emitLabel(".convert")
	e.emitInst("mov rbx, 10")
	e.emitLabel(".next_digit")
	e.emitInst("xor rdx, rdx")
	e.emitInst("div rbx")
	e.emitInst("add dl, '0'")
	e.emitInst("mov [rcx], dl")
	e.emitInst("dec rcx")
	e.emitInst("test rax, rax")
	e.emitInst("jnz .next_digit")
	e.emitInst("test r8, r8")
	e.emitInst("jz .done")
	e.emitInst("mov byte [rcx], '-'")
	e.emitInst("dec rcx")
	e.emitLabel(".done")
	e.emitInst("inc rcx")
	e.emitInst("ret")
}
