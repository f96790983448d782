// Package syntax implements the pattern grammar: a position-tracked scanner,
// a recursive-descent parser producing an AST, and the character-set type
// shared by the AST and the compiler.
package syntax

import "unicode/utf8"

// Range is a half-open [Start, End) span of scalar offsets into the
// original pattern string. Every Scanner read returns the Range it
// consumed, so the parser can attach precise positions to errors.
type Range struct {
	Start int
	End   int
}

// Scanner is a cursor over a pattern string. It reads Unicode scalars
// (runes), never raw bytes, so positions reported in errors are scalar
// offsets as required by the Error.Index contract.
type Scanner struct {
	src   string
	runes []rune
	pos   int // index into runes
}

// NewScanner creates a Scanner positioned at the start of pattern.
func NewScanner(pattern string) *Scanner {
	return &Scanner{src: pattern, runes: []rune(pattern)}
}

// Pos returns the current scalar offset.
func (s *Scanner) Pos() int { return s.pos }

// Len returns the number of scalars remaining.
func (s *Scanner) Len() int { return len(s.runes) - s.pos }

// Eof reports whether the cursor is at the end of the pattern.
func (s *Scanner) Eof() bool { return s.pos >= len(s.runes) }

// Peek returns the scalar at the cursor without advancing, and ok=false at
// end of input.
func (s *Scanner) Peek() (rune, bool) {
	if s.Eof() {
		return 0, false
	}
	return s.runes[s.pos], true
}

// PeekAt returns the scalar offset scalars ahead of the cursor (0 is the
// same as Peek), or ok=false if out of range.
func (s *Scanner) PeekAt(offset int) (rune, bool) {
	idx := s.pos + offset
	if idx < 0 || idx >= len(s.runes) {
		return 0, false
	}
	return s.runes[idx], true
}

// ReadOne consumes and returns the scalar at the cursor.
func (s *Scanner) ReadOne() (rune, Range, bool) {
	if s.Eof() {
		return 0, Range{s.pos, s.pos}, false
	}
	start := s.pos
	r := s.runes[s.pos]
	s.pos++
	return r, Range{start, s.pos}, true
}

// TryRead advances past literal only if the cursor is currently positioned
// at it; otherwise the cursor is unchanged.
func (s *Scanner) TryRead(literal rune) (Range, bool) {
	if r, ok := s.Peek(); ok && r == literal {
		start := s.pos
		s.pos++
		return Range{start, s.pos}, true
	}
	return Range{s.pos, s.pos}, false
}

// ReadUntil consumes scalars up through (and including) the next
// occurrence of delim, returning the interior (delim excluded) and
// whether delim was found before end of input. On failure the cursor is
// left at end of input.
func (s *Scanner) ReadUntil(delim rune) (string, Range, bool) {
	start := s.pos
	for !s.Eof() {
		r := s.runes[s.pos]
		if r == delim {
			interior := string(s.runes[start:s.pos])
			s.pos++
			return interior, Range{start, s.pos}, true
		}
		s.pos++
	}
	return string(s.runes[start:s.pos]), Range{start, s.pos}, false
}

// ReadWhile consumes scalars while predicate holds, returning the consumed
// text and its range.
func (s *Scanner) ReadWhile(predicate func(rune) bool) (string, Range) {
	start := s.pos
	for !s.Eof() && predicate(s.runes[s.pos]) {
		s.pos++
	}
	return string(s.runes[start:s.pos]), Range{start, s.pos}
}

// ReadInt reads a maximal run of ASCII decimal digits and parses it as a
// non-negative integer. Returns ok=false without advancing the cursor if
// the cursor isn't positioned at a digit.
func (s *Scanner) ReadInt() (int, Range, bool) {
	start := s.pos
	if r, ok := s.Peek(); !ok || r < '0' || r > '9' {
		return 0, Range{start, start}, false
	}
	n := 0
	for {
		r, ok := s.Peek()
		if !ok || r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		s.pos++
	}
	return n, Range{start, s.pos}, true
}

// Slice returns the raw scalar text between [from, to).
func (s *Scanner) Slice(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(s.runes) {
		to = len(s.runes)
	}
	if from >= to {
		return ""
	}
	return string(s.runes[from:to])
}

// RuneLen mirrors utf8.RuneLen for callers that need byte-size accounting
// when reporting errors against the original UTF-8 source bytes.
func RuneLen(r rune) int { return utf8.RuneLen(r) }
