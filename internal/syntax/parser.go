package syntax

import (
	"fmt"
	"io"
)

// Parser performs syntax analysis on vp source code.
//
// It keeps one token of lookahead and stops at the first error; there is no
// error recovery.
type Parser struct {
	scanner *Scanner

	// Current token info (cached from scanner)
	tok Token
	lit string
	val float64
	pos Pos
}

// NewParser creates a new Parser for the given source.
func NewParser(filename string, src io.Reader) *Parser {
	p := &Parser{
		scanner: NewScanner(filename, src),
	}
	p.next() // prime the parser with first token
	return p
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.val = p.scanner.Value()
	p.pos = p.scanner.Pos()
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise it returns an UnexpectedToken error.
func (p *Parser) want(tok Token) error {
	if !p.got(tok) {
		return p.unexpected(describeToken(tok))
	}
	return nil
}

// ----------------------------------------------------------------------------
// Error handling

// unexpected reports that the current token is not what the grammar requires.
// A scan failure takes precedence: the lexical error is returned unchanged.
func (p *Parser) unexpected(expected string) error {
	if p.tok == _Error {
		return p.scanner.Err()
	}
	return &ParseError{
		Kind:     UnexpectedToken,
		Pos:      p.pos,
		Found:    p.found(),
		Expected: expected,
	}
}

// found describes the current token for error messages.
func (p *Parser) found() string {
	switch p.tok {
	case _Name:
		return fmt.Sprintf("name %q", p.lit)
	case _Number:
		return "number " + p.lit
	}
	return describeToken(p.tok)
}

// describeToken describes a token kind for error messages.
func describeToken(tok Token) string {
	switch {
	case tok == _EOF:
		return "EOF"
	case tok == _Name:
		return "identifier"
	case tok == _Number:
		return "number"
	case tok.IsKeyword():
		return "keyword " + tok.String()
	}
	return fmt.Sprintf("%q", tok.String())
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete source file and returns the AST.
//
//	program := statement*
func (p *Parser) Parse() (*File, error) {
	f := &File{}
	f.pos = p.pos

	for p.tok != _EOF {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		f.Stmts = append(f.Stmts, s)
	}

	return f, nil
}

// ----------------------------------------------------------------------------
// Statements

// stmt parses a single statement.
//
//	statement := if_stmt | print_stmt | assignment
func (p *Parser) stmt() (Stmt, error) {
	switch p.tok {
	case _If:
		return p.ifStmt()
	case _Print:
		return p.printStmt()
	case _Name:
		return p.assignStmt()
	case _Error:
		return nil, p.scanner.Err()
	}
	return nil, &ParseError{
		Kind:  UnexpectedStatement,
		Pos:   p.pos,
		Found: p.found(),
	}
}

// assignStmt parses: Identifier '=' expression
func (p *Parser) assignStmt() (Stmt, error) {
	lhs := NewName(p.pos, p.lit)
	if err := p.want(_Name); err != nil {
		return nil, err
	}
	if err := p.want(_Assign); err != nil {
		return nil, err
	}

	rhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	return NewAssignStmt(lhs, rhs), nil
}

// printStmt parses: 'print' '(' comparison ')'
func (p *Parser) printStmt() (Stmt, error) {
	s := &PrintStmt{}
	s.pos = p.pos

	if err := p.want(_Print); err != nil {
		return nil, err
	}
	if err := p.want(_Lparen); err != nil {
		return nil, err
	}

	x, err := p.comparison()
	if err != nil {
		return nil, err
	}
	s.X = x

	if err := p.want(_Rparen); err != nil {
		return nil, err
	}
	return s, nil
}

// ifStmt parses: 'if' '(' comparison ')' '{' block '}' ( 'else' '{' block '}' )?
func (p *Parser) ifStmt() (Stmt, error) {
	s := &IfStmt{}
	s.pos = p.pos

	if err := p.want(_If); err != nil {
		return nil, err
	}
	if err := p.want(_Lparen); err != nil {
		return nil, err
	}

	cond, err := p.comparison()
	if err != nil {
		return nil, err
	}
	s.Cond = cond

	if err := p.want(_Rparen); err != nil {
		return nil, err
	}

	if s.Then, err = p.block(); err != nil {
		return nil, err
	}

	if p.got(_Else) {
		if s.Else, err = p.block(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// block parses: '{' statement* '}'
func (p *Parser) block() ([]Stmt, error) {
	if err := p.want(_Lbrace); err != nil {
		return nil, err
	}

	var list []Stmt
	for p.tok != _Rbrace && p.tok != _EOF {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}

	if err := p.want(_Rbrace); err != nil {
		return nil, err
	}
	return list, nil
}

// ----------------------------------------------------------------------------
// Expressions

// comparison parses: expression ( '=' '=' expression )?
//
// The lexer has no == token, so equality is two consecutive '=' tokens.
// Comparisons do not chain.
func (p *Parser) comparison() (Expr, error) {
	x, err := p.expr()
	if err != nil {
		return nil, err
	}

	if !p.got(_Assign) {
		return x, nil
	}
	if err := p.want(_Assign); err != nil {
		return nil, err
	}

	y, err := p.expr()
	if err != nil {
		return nil, err
	}
	return NewOperation(Eql, x, y), nil
}

// expr parses: term ( ('+'|'-'|'*'|'/') term )*
//
// All four operators share one precedence level and associate to the left,
// so 2 + 3 * 4 is (2 + 3) * 4.
func (p *Parser) expr() (Expr, error) {
	x, err := p.term()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := operatorFor(p.tok)
		if !ok {
			return x, nil
		}
		p.next() // consume operator

		y, err := p.term()
		if err != nil {
			return nil, err
		}
		x = NewOperation(op, x, y)
	}
}

// term parses: Number | Identifier
func (p *Parser) term() (Expr, error) {
	switch p.tok {
	case _Number:
		x := NewNumberLit(p.pos, p.val, p.lit)
		p.next()
		return x, nil

	case _Name:
		x := NewName(p.pos, p.lit)
		p.next()
		return x, nil
	}
	return nil, p.unexpected("number or identifier")
}
