package syntax

import (
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"
)

// source is a character reader with position tracking.
// It reads the entire input up front and hands out one rune at a time.
type source struct {
	buf []byte // source buffer (entire file read into memory)

	filename string
	line     uint32 // line of ch (1-based)
	col      uint32 // column of ch (1-based, counted in runes)

	ch   rune // current character, -1 at EOF
	offs int  // byte offset of the rune after ch

	readErr error // read failure, reported by the scanner on the first Next
}

// newSource creates a new source from an io.Reader.
func newSource(filename string, src io.Reader) *source {
	s := &source{
		filename: filename,
		line:     1,
		col:      0, // incremented to 1 by the first nextch
		ch:       -1,
	}

	buf, err := io.ReadAll(src)
	if err != nil {
		s.readErr = fmt.Errorf("reading %s: %w", filename, err)
		return s
	}
	s.buf = buf

	s.nextch()
	return s
}

// nextch advances to the next character and updates the position.
//
// (line, col) always refers to s.ch after nextch returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	// Invalid encodings come back as utf8.RuneError and are rejected by the
	// scanner as an unexpected character.
	r, width := utf8.DecodeRune(s.buf[s.offs:])
	s.ch = r
	s.offs += width
}

// pos returns the position of the current character.
func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

// isLetter reports whether r may start an identifier (a-z, A-Z, or _).
// Identifiers become assembler symbols, so they are limited to ASCII.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

// isDigit reports whether r is a decimal digit (0-9).
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isWhitespace(r rune) bool {
	return r >= 0 && unicode.IsSpace(r)
}
