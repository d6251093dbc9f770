// internal/logic/tree.go
package logic

import (
	"github.com/solatis/craftbook/internal/types"
)

/*
 * Canonical nested requirement representation.
 *
 * Tree is a tagged union: KindAnd and KindOr carry Children, KindLeaf carries
 * Term. Trees produced by ToTree never hold a single-child And/Or and
 * alternate kinds between levels (And of Ors). Hand-built trees may nest
 * freely; the renderer and remapping handle any shape.
 */

// Kind tags which variant of Tree is populated.
type Kind int

const (
	KindLeaf Kind = iota
	KindAnd
	KindOr
)

// String returns the lowercase variant name.
func (k Kind) String() string {
	switch k {
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	default:
		return "leaf"
	}
}

// Tree is one node of a requirement expression tree.
type Tree[K any] struct {
	Kind     Kind
	Children []Tree[K]     // KindAnd, KindOr
	Term     types.Term[K] // KindLeaf
}

// Leaf wraps a single term.
func Leaf[K any](term types.Term[K]) Tree[K] {
	return Tree[K]{Kind: KindLeaf, Term: term}
}

// And builds a conjunction node from children, copied.
func And[K any](children ...Tree[K]) Tree[K] {
	return Tree[K]{Kind: KindAnd, Children: append([]Tree[K](nil), children...)}
}

// Or builds a disjunction node from children, copied.
func Or[K any](children ...Tree[K]) Tree[K] {
	return Tree[K]{Kind: KindOr, Children: append([]Tree[K](nil), children...)}
}

// IsLeaf reports whether t is a single term.
func (t Tree[K]) IsLeaf() bool {
	return t.Kind == KindLeaf
}

// Keys returns every identifier depth-first, left to right.
func (t Tree[K]) Keys() []K {
	var keys []K
	t.walk(func(term types.Term[K]) {
		keys = append(keys, term.Key)
	})
	return keys
}

// Terms returns every leaf term depth-first, left to right.
func (t Tree[K]) Terms() []types.Term[K] {
	var terms []types.Term[K]
	t.walk(func(term types.Term[K]) {
		terms = append(terms, term)
	})
	return terms
}

// Tree returns t itself so Tree satisfies Expression.
func (t Tree[K]) Tree() Tree[K] {
	return t
}

func (t Tree[K]) walk(visit func(types.Term[K])) {
	if t.Kind == KindLeaf {
		visit(t.Term)
		return
	}
	for _, child := range t.Children {
		child.walk(visit)
	}
}

// Expression is the behaviour shared by Chain and Tree.
// Remapping is provided by MapChain and MapTree since Go methods cannot
// introduce the target key type parameter.
type Expression[K any] interface {
	Keys() []K
	Terms() []types.Term[K]
	Tree() Tree[K]
}

var (
	_ Expression[string] = Chain[string]{}
	_ Expression[string] = Tree[string]{}
)
