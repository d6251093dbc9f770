// internal/logic/remap.go
package logic

import (
	"github.com/solatis/craftbook/internal/types"
)

/*
 * Shape-preserving identifier remapping.
 *
 * Replaces every key of a Chain or Tree through a caller-supplied Mapper,
 * leaving values, connectives and nesting untouched. Traversal is depth-first,
 * left to right, and stops at the first mapper error; no partially remapped
 * value is ever returned.
 *
 * The mapper receives a Meaning so one lookup can serve several namespaces.
 * This package never inspects what the mapper does.
 */

// Mapper translates one key within a namespace.
type Mapper[K, K2 any] func(key K, meaning types.Meaning) (K2, error)

// Identity returns a mapper that keeps keys unchanged.
func Identity[K any]() Mapper[K, K] {
	return func(key K, _ types.Meaning) (K, error) {
		return key, nil
	}
}

// MapTerm remaps the key of a single term.
func MapTerm[K, K2 any](t types.Term[K], meaning types.Meaning, f Mapper[K, K2]) (types.Term[K2], error) {
	key, err := f(t.Key, meaning)
	if err != nil {
		return types.Term[K2]{}, err
	}
	return types.Term[K2]{Key: key, Value: t.Value}, nil
}

// MapChain remaps every key of c in reading order.
func MapChain[K, K2 any](c Chain[K], meaning types.Meaning, f Mapper[K, K2]) (Chain[K2], error) {
	first, err := MapTerm(c.First, meaning, f)
	if err != nil {
		return Chain[K2]{}, err
	}
	var rest []Link[K2]
	if len(c.Rest) > 0 {
		rest = make([]Link[K2], 0, len(c.Rest))
	}
	for _, link := range c.Rest {
		term, err := MapTerm(link.Term, meaning, f)
		if err != nil {
			return Chain[K2]{}, err
		}
		rest = append(rest, Link[K2]{Conn: link.Conn, Term: term})
	}
	return Chain[K2]{First: first, Rest: rest}, nil
}

// MapOptionalChain remaps c when present; a nil chain maps to nil.
func MapOptionalChain[K, K2 any](c *Chain[K], meaning types.Meaning, f Mapper[K, K2]) (*Chain[K2], error) {
	if c == nil {
		return nil, nil
	}
	mapped, err := MapChain(*c, meaning, f)
	if err != nil {
		return nil, err
	}
	return &mapped, nil
}

// MapTree remaps every key of t depth-first, left to right.
func MapTree[K, K2 any](t Tree[K], meaning types.Meaning, f Mapper[K, K2]) (Tree[K2], error) {
	if t.Kind == KindLeaf {
		term, err := MapTerm(t.Term, meaning, f)
		if err != nil {
			return Tree[K2]{}, err
		}
		return Tree[K2]{Kind: KindLeaf, Term: term}, nil
	}
	var children []Tree[K2]
	if t.Children != nil {
		children = make([]Tree[K2], 0, len(t.Children))
	}
	for _, child := range t.Children {
		mapped, err := MapTree(child, meaning, f)
		if err != nil {
			return Tree[K2]{}, err
		}
		children = append(children, mapped)
	}
	return Tree[K2]{Kind: t.Kind, Children: children}, nil
}

// MapOptionalTree remaps t when present; a nil tree maps to nil.
func MapOptionalTree[K, K2 any](t *Tree[K], meaning types.Meaning, f Mapper[K, K2]) (*Tree[K2], error) {
	if t == nil {
		return nil, nil
	}
	mapped, err := MapTree(*t, meaning, f)
	if err != nil {
		return nil, err
	}
	return &mapped, nil
}
