// internal/check/evaluate.go
package check

import (
	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/types"
)

/*
 * Requirement evaluation.
 *
 * A term is met when the inventory holds at least its value of the key.
 * An And group is met when every child is met; an Or group when any is.
 *
 * Short-circuit semantics: the first unmet child stops an And group and the
 * first met child stops an Or group. Cost ordering from compilation runs
 * cheap terms first.
 *
 * Diagnostics: when the plan is not met, a second pass over the source tree
 * collects the unmet terms in original order. Terms under an Or group that is
 * met elsewhere are not reported.
 */

// Inventory reports how much of an identifier is held.
type Inventory[K comparable] interface {
	Amount(key K, meaning types.Meaning) uint32
}

// Holdings is an Inventory backed by one map per namespace.
// Missing keys hold zero.
type Holdings[K comparable] struct {
	Params map[K]uint32
	Items  map[K]uint32
}

// Amount implements Inventory.
func (h Holdings[K]) Amount(key K, meaning types.Meaning) uint32 {
	if meaning == types.MeaningItem {
		return h.Items[key]
	}
	return h.Params[key]
}

// Result is the outcome of evaluating a Plan.
type Result[K comparable] struct {
	Satisfied bool
	// Unmet lists the terms that keep the requirement from being met, in source order.
	Unmet []types.Term[K]
	// Evaluated counts the terms looked up before the result was known.
	Evaluated int
}

// Evaluate checks p against inv.
func (p *Plan[K]) Evaluate(inv Inventory[K]) Result[K] {
	var res Result[K]
	res.Satisfied = p.eval(p.root, inv, &res.Evaluated)
	if !res.Satisfied {
		res.Unmet = p.unmet(p.source, inv, nil)
	}
	return res
}

func (p *Plan[K]) eval(n node[K], inv Inventory[K], evaluated *int) bool {
	switch n.kind {
	case logic.KindAnd:
		for _, c := range n.children {
			if !p.eval(c, inv, evaluated) {
				return false
			}
		}
		return true
	case logic.KindOr:
		for _, c := range n.children {
			if p.eval(c, inv, evaluated) {
				return true
			}
		}
		return false
	default:
		*evaluated++
		return p.met(n.term, inv)
	}
}

func (p *Plan[K]) met(t types.Term[K], inv Inventory[K]) bool {
	return t.Value == 0 || inv.Amount(t.Key, p.Meaning) >= t.Value
}

func (p *Plan[K]) unmet(t logic.Tree[K], inv Inventory[K], acc []types.Term[K]) []types.Term[K] {
	switch t.Kind {
	case logic.KindAnd:
		for _, c := range t.Children {
			acc = p.unmet(c, inv, acc)
		}
		return acc
	case logic.KindOr:
		start := len(acc)
		for _, c := range t.Children {
			before := len(acc)
			acc = p.unmet(c, inv, acc)
			if len(acc) == before {
				return acc[:start]
			}
		}
		return acc
	default:
		if !p.met(t.Term, inv) {
			acc = append(acc, t.Term)
		}
		return acc
	}
}
