// internal/parse/textual.go
package parse

import (
	"strconv"
	"strings"

	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/types"
)

/*
 * Textual chain grammar.
 *
 *   chain := term (WS? OP WS? term)*
 *   term  := WS? IDENT WS+ VALUE WS?
 *   OP    := '&' | '|'
 *
 * IDENT is any run of bytes other than whitespace, '@', '&' and '|'. VALUE is
 * an unsigned 32-bit decimal. The key type is chosen by a KeyParser: StringKey
 * accepts every identifier, NumericKey requires identifiers that are
 * themselves unsigned integers (records already translated to IDs).
 *
 * Once a connective is consumed the following term is mandatory, so
 * "A 1 &" fails at the end of input instead of silently dropping the operator.
 * Chain stops at the first byte it cannot use and returns the remainder;
 * FullChain additionally rejects any non-space remainder.
 */

// KeyParser converts an identifier token to a key. ok=false rejects the token.
type KeyParser[K any] func(tok string) (key K, ok bool)

// StringKey accepts every identifier as-is. The key shares the input's storage.
func StringKey(tok string) (string, bool) {
	return tok, true
}

// OwnedStringKey accepts every identifier, copying it so the input can be released.
func OwnedStringKey(tok string) (string, bool) {
	return strings.Clone(tok), true
}

// NumericKey accepts identifiers that parse as unsigned 32-bit integers.
func NumericKey(tok string) (uint32, bool) {
	n, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// Chain parses a textual chain at the start of input.
// Returns the unconsumed remainder alongside the chain.
func Chain[K any](input string, key KeyParser[K]) (string, logic.Chain[K], error) {
	s := newScanner(input)
	first, err := parseTerm(s, key)
	if err != nil {
		return input, logic.Chain[K]{}, err
	}
	chain := logic.Chain[K]{First: first}
	for {
		save := s.pos
		s.skipSpace()
		conn, ok := connective(s.peek())
		if !ok {
			s.pos = save
			break
		}
		s.pos++
		term, err := parseTerm(s, key)
		if err != nil {
			return input, logic.Chain[K]{}, err
		}
		chain.Rest = append(chain.Rest, logic.Link[K]{Conn: conn, Term: term})
	}
	return s.rest(), chain, nil
}

// FullChain parses input as exactly one textual chain.
// Any non-whitespace remainder fails with KindTrailing.
func FullChain[K any](input string, key KeyParser[K]) (logic.Chain[K], error) {
	rest, chain, err := Chain(input, key)
	if err != nil {
		return logic.Chain[K]{}, err
	}
	if trimmed := strings.TrimLeft(rest, " \t\r\n\v\f"); trimmed != "" {
		pos := len(input) - len(trimmed)
		return logic.Chain[K]{}, types.NewParseError(pos, types.KindTrailing, "unexpected %q", trimmed)
	}
	return chain, nil
}

// TextChain parses a whole field with string keys.
func TextChain(input string) (logic.Chain[string], error) {
	return FullChain(input, StringKey)
}

// NumericTextChain parses a whole field whose identifiers must be numeric IDs.
func NumericTextChain(input string) (logic.Chain[uint32], error) {
	return FullChain(input, NumericKey)
}

// OptionalChain parses a whole field that may be empty or all whitespace.
// An empty field yields a nil chain.
func OptionalChain[K any](input string, key KeyParser[K]) (*logic.Chain[K], error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	chain, err := FullChain(input, key)
	if err != nil {
		return nil, err
	}
	return &chain, nil
}

func parseTerm[K any](s *scanner, parseKey KeyParser[K]) (types.Term[K], error) {
	s.skipSpace()
	keyPos := s.pos
	tok, ok := s.ident()
	if !ok {
		if s.eof() {
			return types.Term[K]{}, types.NewParseError(keyPos, types.KindExpectedToken, "expected identifier, found end of input")
		}
		return types.Term[K]{}, types.NewParseError(keyPos, types.KindExpectedToken, "expected identifier, found %q", s.peek())
	}
	if s.skipSpace() == 0 {
		if s.eof() {
			return types.Term[K]{}, types.NewParseError(s.pos, types.KindExpectedToken, "expected value after %q, found end of input", tok)
		}
		return types.Term[K]{}, types.NewParseError(s.pos, types.KindExpectedToken, "expected whitespace after %q", tok)
	}
	if s.eof() {
		return types.Term[K]{}, types.NewParseError(s.pos, types.KindExpectedToken, "expected value after %q, found end of input", tok)
	}
	value, err := s.number()
	if err != nil {
		return types.Term[K]{}, err
	}
	key, ok := parseKey(tok)
	if !ok {
		return types.Term[K]{}, types.NewParseError(keyPos, types.KindNotANumber, "identifier %q is not a valid key", tok)
	}
	s.skipSpace()
	return types.Term[K]{Key: key, Value: value}, nil
}

func connective(b byte) (types.Connective, bool) {
	switch b {
	case '&':
		return types.And, true
	case '|':
		return types.Or, true
	default:
		return 0, false
	}
}
