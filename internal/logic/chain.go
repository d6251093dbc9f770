// internal/logic/chain.go
package logic

import (
	"github.com/solatis/craftbook/internal/types"
)

/*
 * Flat requirement representation.
 *
 * A Chain is what both grammars produce: a leading term followed by
 * (connective, term) links read strictly left to right. Connectives have no
 * precedence of their own; ToTree assigns the OR-binds-tighter reading.
 *
 * Invariants:
 *   - A Chain always has at least one term (First).
 *   - Rest[i].Conn relates term i to term i+1, with First as term 0.
 *
 * Chains are values. Builders and remapping allocate fresh Rest slices, so no
 * two chains ever share backing storage.
 */

// Link is one (connective, term) step of a chain after the first term.
type Link[K any] struct {
	Conn types.Connective
	Term types.Term[K]
}

// Chain is the flat left-to-right form of a requirement expression.
type Chain[K any] struct {
	First types.Term[K]
	Rest  []Link[K]
}

// Single builds a one-term chain.
func Single[K any](key K, value uint32) Chain[K] {
	return Chain[K]{First: types.NewTerm(key, value)}
}

// Then returns a copy of c extended with one more linked term.
func (c Chain[K]) Then(conn types.Connective, key K, value uint32) Chain[K] {
	rest := make([]Link[K], len(c.Rest), len(c.Rest)+1)
	copy(rest, c.Rest)
	rest = append(rest, Link[K]{Conn: conn, Term: types.NewTerm(key, value)})
	return Chain[K]{First: c.First, Rest: rest}
}

// And is shorthand for Then(types.And, ...).
func (c Chain[K]) And(key K, value uint32) Chain[K] {
	return c.Then(types.And, key, value)
}

// Or is shorthand for Then(types.Or, ...).
func (c Chain[K]) Or(key K, value uint32) Chain[K] {
	return c.Then(types.Or, key, value)
}

// Len returns the number of terms.
func (c Chain[K]) Len() int {
	return 1 + len(c.Rest)
}

// Terms returns every term in reading order.
func (c Chain[K]) Terms() []types.Term[K] {
	terms := make([]types.Term[K], 0, c.Len())
	terms = append(terms, c.First)
	for _, link := range c.Rest {
		terms = append(terms, link.Term)
	}
	return terms
}

// Keys returns every identifier in reading order.
func (c Chain[K]) Keys() []K {
	keys := make([]K, 0, c.Len())
	keys = append(keys, c.First.Key)
	for _, link := range c.Rest {
		keys = append(keys, link.Term.Key)
	}
	return keys
}

// Tree converts the chain to its canonical tree. Equivalent to ToTree(c).
func (c Chain[K]) Tree() Tree[K] {
	return ToTree(c)
}

// Groups splits the chain into its AND-groups: maximal runs of Or-linked terms.
// Shared by ToTree and the direct chain renderer so both read a chain identically.
func (c Chain[K]) Groups() [][]types.Term[K] {
	groups := make([][]types.Term[K], 0, 1)
	current := []types.Term[K]{c.First}
	for _, link := range c.Rest {
		if link.Conn == types.Or {
			current = append(current, link.Term)
			continue
		}
		groups = append(groups, current)
		current = []types.Term[K]{link.Term}
	}
	return append(groups, current)
}
