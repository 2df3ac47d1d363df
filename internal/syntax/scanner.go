package syntax

import (
	"io"
	"strconv"
	"strings"
)

// Scanner performs lexical analysis on vp source code.
//
// Scanning stops at the first error: the token becomes _Error and stays
// _Error on every later call to Next.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Token   // token type
	lit    string  // token literal (identifier name, numeral text)
	val    float64 // numeric value (only valid when tok == _Number)
	tokPos Pos     // token start position

	err error // first error

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
func NewScanner(filename string, src io.Reader) *Scanner {
	return &Scanner{source: *newSource(filename, src)}
}

// Next advances to the next token.
func (s *Scanner) Next() {
	if s.err != nil {
		s.tok = _Error
		return
	}
	if s.readErr != nil {
		s.fail(s.readErr)
		return
	}

	for isWhitespace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()
	s.lit = ""
	s.val = 0

	switch {
	case s.ch < 0:
		s.tok = _EOF

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	default:
		s.scanOperator()
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal text.
func (s *Scanner) Literal() string {
	return s.lit
}

// Value returns the current numeral's value (only valid when Token() == _Number).
func (s *Scanner) Value() float64 {
	return s.val
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// Err returns the error that stopped the scanner, or nil.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) fail(err error) {
	s.err = err
	s.tok = _Error
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.litBuf.Reset()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}

	s.lit = s.litBuf.String()
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans a numeral: digits and '.' characters.
// The number of '.' is not checked here; ParseFloat rejects "1.2.3".
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	for isDigit(s.ch) || s.ch == '.' {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.lit = s.litBuf.String()

	v, err := strconv.ParseFloat(s.lit, 64)
	if err != nil {
		s.fail(&LexError{Kind: MalformedNumber, Pos: s.tokPos, Text: s.lit, Err: err})
		return
	}
	s.val = v
	s.tok = _Number
}

// scanOperator scans a single-character operator or delimiter.
func (s *Scanner) scanOperator() {
	ch := s.ch

	switch ch {
	case '+':
		s.tok = _Add
	case '-':
		s.tok = _Sub
	case '*':
		s.tok = _Mul
	case '/':
		s.tok = _Div
	case '=':
		s.tok = _Assign
	case '(':
		s.tok = _Lparen
	case ')':
		s.tok = _Rparen
	case '{':
		s.tok = _Lbrace
	case '}':
		s.tok = _Rbrace
	default:
		s.fail(&LexError{Kind: UnexpectedCharacter, Pos: s.tokPos, Char: ch})
		return
	}

	s.lit = string(ch)
	s.nextch()
}
