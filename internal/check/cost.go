// internal/check/cost.go
package check

import (
	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/types"
)

/*
 * Cost model for requirement evaluation.
 *
 * A term costs one inventory lookup, except a zero threshold which is met by
 * any inventory and costs nothing. A group costs its children plus a fixed
 * node overhead, so nested groups sort after plain terms.
 *
 * Cost formula: node_cost = CostNode + sum(child_cost)
 */

const (
	CostTrivial = 0
	CostLookup  = 1
	CostNode    = 2

	// Resource limits enforced by Compile.
	MaxDepth = 16
	MaxTerms = 1024
)

// TermCost returns the evaluation cost of a single term.
func TermCost[K any](t types.Term[K]) int {
	if t.Value == 0 {
		return CostTrivial
	}
	return CostLookup
}

// TreeCost returns the evaluation cost of t when no short-circuit applies.
func TreeCost[K any](t logic.Tree[K]) int {
	if t.IsLeaf() {
		return TermCost(t.Term)
	}
	cost := CostNode
	for _, child := range t.Children {
		cost += TreeCost(child)
	}
	return cost
}
