// Package syntax implements lexical and syntactic analysis for vp scripts.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF   Token = iota // end of file
	_Error              // lexical error; Scanner.Err holds the details

	// Literals
	_Name   // identifier: x, total, y2
	_Number // numeral: 42, 3.5

	// Operators
	_Add    // +
	_Sub    // -
	_Mul    // *
	_Div    // /
	_Assign // = (also both halves of ==)

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrace // {
	_Rbrace // }

	// Keywords
	_Else
	_If
	_Print

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name:   "NAME",
	_Number: "NUMBER",

	_Add:    "+",
	_Sub:    "-",
	_Mul:    "*",
	_Div:    "/",
	_Assign: "=",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrace: "{",
	_Rbrace: "}",

	_Else:  "else",
	_If:    "if",
	_Print: "print",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Else && t <= _Print
}

// IsOperator reports whether t is an arithmetic operator token.
func (t Token) IsOperator() bool {
	return t >= _Add && t <= _Div
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// IsError reports whether t marks a failed scan.
func (t Token) IsError() bool {
	return t == _Error
}

// keywords maps reserved words to their token type.
var keywords = map[string]Token{
	"else":  _Else,
	"if":    _If,
	"print": _Print,
}

// LookupKeyword returns the keyword token for ident, or _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}

// Operator is the operator of a binary Operation.
type Operator string

const (
	Add Operator = "+"
	Sub Operator = "-"
	Mul Operator = "*"
	Div Operator = "/"
	Eql Operator = "=="
)

// operatorFor maps an arithmetic token to its Operator.
func operatorFor(t Token) (Operator, bool) {
	if !t.IsOperator() {
		return "", false
	}
	return Operator(tokenNames[t]), true
}
