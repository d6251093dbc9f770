// internal/parse/positional.go
package parse

import (
	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/types"
)

/*
 * Positional numeric chain grammar.
 *
 * A field is a set of parallel unsigned-integer runs: identifiers, values and,
 * for fields that allow disjunction, or-flags. Two layouts exist:
 *
 *   LayoutShared:   N id_1..id_N v_1..v_N [or_1..or_N]
 *   LayoutPrefixed: N id_1..id_N M v_1..v_M [F or_1..or_F]
 *
 * LayoutPrefixed is what numeric recipe records carry (every run counts
 * itself); LayoutShared is the compact single-count form.
 *
 * Zipping: (id_1, v_1) is the first term; term i>1 is Or-linked when or_i is
 * nonzero, And-linked otherwise. or_1 is never read. Without or-flags every
 * link is And.
 *
 * A zero identifier count means the field is absent, not an error. In the
 * prefixed layout the value and flag runs of an absent field must still be
 * consumed to keep the record aligned; a nonzero or-flag there is rejected
 * since the data cannot say what it would join.
 */

// Layout selects how the positional runs are counted.
type Layout int

const (
	LayoutShared Layout = iota
	LayoutPrefixed
)

// Positional describes one field's positional encoding.
type Positional struct {
	Layout  Layout
	OrFlags bool
}

// Field encodings used by numeric recipe records.
var (
	PrefixedWithOrs    = Positional{Layout: LayoutPrefixed, OrFlags: true}
	PrefixedWithoutOrs = Positional{Layout: LayoutPrefixed, OrFlags: false}
)

// OptionalNumericChain parses one positional field at the start of input.
// Returns a nil chain when the field declares zero terms.
func OptionalNumericChain(input string, enc Positional) (string, *logic.Chain[uint32], error) {
	s := newScanner(input)
	s.skipSpace()

	count, err := s.count()
	if err != nil {
		return input, nil, err
	}
	ids, err := s.elements(count)
	if err != nil {
		return input, nil, err
	}

	if enc.Layout == LayoutShared {
		if count == 0 {
			return s.rest(), nil, nil
		}
		values, err := s.elements(count)
		if err != nil {
			return input, nil, err
		}
		var ors []uint32
		if enc.OrFlags {
			if ors, err = s.elements(count); err != nil {
				return input, nil, err
			}
		}
		return s.rest(), zip(ids, values, ors), nil
	}

	valuesPos := s.pos
	valueCount, err := s.count()
	if err != nil {
		return input, nil, err
	}
	if valueCount != count {
		return input, nil, types.NewParseError(valuesPos, types.KindLengthMismatch, "%d values for %d identifiers", valueCount, count)
	}
	values, err := s.elements(valueCount)
	if err != nil {
		return input, nil, err
	}

	var ors []uint32
	if enc.OrFlags {
		flagsPos := s.pos
		flagCount, err := s.count()
		if err != nil {
			return input, nil, err
		}
		if ors, err = s.elements(flagCount); err != nil {
			return input, nil, err
		}
		if count == 0 {
			for _, flag := range ors {
				if flag != 0 {
					return input, nil, types.NewParseError(flagsPos, types.KindLengthMismatch, "or-flag set on a field with no identifiers")
				}
			}
		} else if flagCount != count {
			return input, nil, types.NewParseError(flagsPos, types.KindLengthMismatch, "%d or-flags for %d identifiers", flagCount, count)
		}
	}

	if count == 0 {
		return s.rest(), nil, nil
	}
	return s.rest(), zip(ids, values, ors), nil
}

// NumericChain parses a positional field that must contain at least one term.
func NumericChain(input string, enc Positional) (string, logic.Chain[uint32], error) {
	rest, chain, err := OptionalNumericChain(input, enc)
	if err != nil {
		return input, logic.Chain[uint32]{}, err
	}
	if chain == nil {
		return input, logic.Chain[uint32]{}, types.NewParseError(0, types.KindEmptyField, "required field declares no terms")
	}
	return rest, *chain, nil
}

// count reads a run length. Running out of input here is an insufficient-length failure.
func (s *scanner) count() (int, error) {
	n, err := s.number()
	if err != nil {
		return 0, err
	}
	s.skipSpace()
	return int(n), nil
}

// elements reads exactly n space-separated unsigned integers.
func (s *scanner) elements(n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	out := make([]uint32, 0, min(n, len(s.input)))
	for i := 0; i < n; i++ {
		if s.eof() {
			return nil, types.NewParseError(s.pos, types.KindInsufficientLength, "run declares %d elements, found %d", n, i)
		}
		v, err := s.number()
		if err != nil {
			return nil, err
		}
		s.skipSpace()
		out = append(out, v)
	}
	return out, nil
}

func zip(ids, values, ors []uint32) *logic.Chain[uint32] {
	chain := logic.Chain[uint32]{First: types.NewTerm(ids[0], values[0])}
	if len(ids) > 1 {
		chain.Rest = make([]logic.Link[uint32], 0, len(ids)-1)
	}
	for i := 1; i < len(ids); i++ {
		conn := types.And
		if ors != nil && ors[i] != 0 {
			conn = types.Or
		}
		chain.Rest = append(chain.Rest, logic.Link[uint32]{Conn: conn, Term: types.NewTerm(ids[i], values[i])})
	}
	return &chain
}
