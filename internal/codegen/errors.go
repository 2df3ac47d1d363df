package codegen

import (
	"fmt"

	"github.com/you-not-fish/vpc/internal/syntax"
)

// UnsupportedOperatorError reports a binary operation the generator has no
// instruction sequence for. The parser never produces one.
type UnsupportedOperatorError struct {
	Pos syntax.Pos
	Op  syntax.Operator
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("%s: unsupported operator %q", e.Pos, string(e.Op))
}

// UndefinedVariableError reports a read of a variable that is never
// assigned anywhere in the program, so no storage slot exists for it.
type UndefinedVariableError struct {
	Pos  syntax.Pos
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("%s: undefined variable %q", e.Pos, e.Name)
}

// NumberRangeError reports a literal that does not fit a 64-bit slot.
type NumberRangeError struct {
	Pos  syntax.Pos
	Text string
}

func (e *NumberRangeError) Error() string {
	return fmt.Sprintf("%s: number %s out of range for a 64-bit integer", e.Pos, e.Text)
}
