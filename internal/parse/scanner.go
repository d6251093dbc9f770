// internal/parse/scanner.go
package parse

import (
	"math"

	"github.com/solatis/craftbook/internal/types"
)

/*
 * Byte scanner shared by both grammars.
 *
 * Works on ASCII structure only: whitespace, digits, the two connective
 * symbols and the record delimiter are all single bytes, and identifiers are
 * taken as raw byte runs so multi-byte UTF-8 names pass through untouched.
 * Positions are byte offsets into the scanner's input.
 */

// Delimiter separates fields of a recipe record; never part of an identifier.
const Delimiter = '@'

type scanner struct {
	input string
	pos   int
}

func newScanner(input string) *scanner {
	return &scanner{input: input}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.input[s.pos]
}

func (s *scanner) rest() string {
	return s.input[s.pos:]
}

// skipSpace consumes whitespace and reports how many bytes it skipped.
func (s *scanner) skipSpace() int {
	start := s.pos
	for !s.eof() && isSpace(s.input[s.pos]) {
		s.pos++
	}
	return s.pos - start
}

// ident consumes a run of identifier bytes.
func (s *scanner) ident() (string, bool) {
	start := s.pos
	for !s.eof() && isIdentByte(s.input[s.pos]) {
		s.pos++
	}
	return s.input[start:s.pos], s.pos > start
}

// number consumes an unsigned decimal that fits in 32 bits.
func (s *scanner) number() (uint32, error) {
	start := s.pos
	if s.eof() {
		return 0, types.NewParseError(start, types.KindInsufficientLength, "expected number, found end of input")
	}
	var n uint64
	for !s.eof() && isDigit(s.input[s.pos]) {
		n = n*10 + uint64(s.input[s.pos]-'0')
		if n > math.MaxUint32 {
			return 0, types.NewParseError(start, types.KindNotANumber, "number overflows 32 bits")
		}
		s.pos++
	}
	if s.pos == start {
		return 0, types.NewParseError(start, types.KindNotANumber, "expected number, found %q", s.input[start:s.tokenEnd()])
	}
	return uint32(n), nil
}

// tokenEnd returns the end of the non-space run at the cursor, for error messages.
func (s *scanner) tokenEnd() int {
	end := s.pos
	for end < len(s.input) && !isSpace(s.input[end]) {
		end++
	}
	return end
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentByte(b byte) bool {
	return !isSpace(b) && b != Delimiter && b != '&' && b != '|'
}
