package codegen

import (
	"fmt"
	"io"
)

// emitter wraps an io.Writer with helpers for emitting NASM text.
type emitter struct {
	w   io.Writer
	err error // first write error
}

// emit writes a formatted line to the output (no indentation).
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

// emitLine writes a blank line.
func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w)
}

// emitComment writes an indented comment line.
func (e *emitter) emitComment(format string, args ...interface{}) {
	e.emitInst("; "+format, args...)
}

// emitLabel writes a label on its own line.
func (e *emitter) emitLabel(name string) {
	e.emit("%s:", name)
}

// emitSection starts a new section.
func (e *emitter) emitSection(name string) {
	e.emit("section %s", name)
}

// emitInst writes an indented instruction line.
func (e *emitter) emitInst(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, "    "+format+"\n", args...)
}

// slotName returns the .bss symbol of a script variable.
func slotName(name string) string {
	return SlotPrefix + name
}
