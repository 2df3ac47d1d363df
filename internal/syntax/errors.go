package syntax

import "fmt"

// LexErrorKind classifies lexical errors.
type LexErrorKind uint8

const (
	UnexpectedCharacter LexErrorKind = iota // byte sequence that starts no token
	MalformedNumber                         // numeral text that is not a float
)

func (k LexErrorKind) String() string {
	switch k {
	case UnexpectedCharacter:
		return "unexpected character"
	case MalformedNumber:
		return "malformed number"
	}
	return fmt.Sprintf("LexErrorKind(%d)", k)
}

// LexError is a fatal lexical error.
type LexError struct {
	Kind LexErrorKind
	Pos  Pos
	Char rune   // offending character (UnexpectedCharacter)
	Text string // numeral text (MalformedNumber)
	Err  error  // underlying strconv error (MalformedNumber)
}

func (e *LexError) Error() string {
	switch e.Kind {
	case UnexpectedCharacter:
		return fmt.Sprintf("%s: unexpected character %q", e.Pos, e.Char)
	case MalformedNumber:
		return fmt.Sprintf("%s: malformed number %q", e.Pos, e.Text)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Kind)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// ParseErrorKind classifies syntax errors.
type ParseErrorKind uint8

const (
	UnexpectedToken     ParseErrorKind = iota // token differs from the one required
	UnexpectedStatement                       // token cannot begin a statement
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case UnexpectedStatement:
		return "unexpected statement"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", k)
}

// ParseError is a fatal syntax error.
type ParseError struct {
	Kind     ParseErrorKind
	Pos      Pos
	Found    string // description of the current token
	Expected string // what was required (UnexpectedToken)
}

func (e *ParseError) Error() string {
	if e.Kind == UnexpectedStatement {
		return fmt.Sprintf("%s: unexpected %s, expected statement", e.Pos, e.Found)
	}
	return fmt.Sprintf("%s: unexpected %s, expected %s", e.Pos, e.Found, e.Expected)
}
