// internal/check/compile.go
package check

import (
	"errors"
	"fmt"
	"slices"

	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/types"
)

/*
 * Requirement compilation and validation.
 *
 * Compiles a logic.Tree into a Plan with cost-ordered children and validated
 * resource limits.
 *
 * Compilation workflow:
 *   1. Reject empty groups and trees over MaxDepth or MaxTerms
 *   2. Calculate node costs using the cost model
 *   3. Order children by ascending cost (stable sort for determinism)
 *
 * Children with equal cost keep their original order, so the evaluated term
 * sequence is identical across runs over the same tree.
 */

var (
	// ErrTooDeep indicates a tree nested deeper than MaxDepth.
	ErrTooDeep = errors.New("requirement tree too deep")

	// ErrTooManyTerms indicates a tree holding more than MaxTerms terms.
	ErrTooManyTerms = errors.New("requirement tree has too many terms")
)

// Plan is a compiled requirement tree for one identifier namespace.
type Plan[K comparable] struct {
	Meaning types.Meaning
	Cost    int
	Terms   int
	Depth   int

	root   node[K]
	source logic.Tree[K]
}

type node[K comparable] struct {
	kind     logic.Kind
	children []node[K]
	term     types.Term[K]
	cost     int
}

// Compile validates t and orders its children for evaluation.
// Keys of t are looked up in meaning's namespace of an Inventory.
func Compile[K comparable](t logic.Tree[K], meaning types.Meaning) (*Plan[K], error) {
	p := &Plan[K]{Meaning: meaning, source: t}
	root, err := p.compile(t, 1)
	if err != nil {
		return nil, err
	}
	p.root = root
	p.Cost = root.cost
	return p, nil
}

func (p *Plan[K]) compile(t logic.Tree[K], depth int) (node[K], error) {
	if depth > MaxDepth {
		return node[K]{}, fmt.Errorf("%w: exceeds %d levels", ErrTooDeep, MaxDepth)
	}
	p.Depth = max(p.Depth, depth)

	if t.IsLeaf() {
		p.Terms++
		if p.Terms > MaxTerms {
			return node[K]{}, fmt.Errorf("%w: exceeds %d", ErrTooManyTerms, MaxTerms)
		}
		return node[K]{kind: logic.KindLeaf, term: t.Term, cost: TermCost(t.Term)}, nil
	}

	if len(t.Children) == 0 {
		return node[K]{}, fmt.Errorf("%w: %s group without children", types.ErrEmptyExpression, t.Kind)
	}

	n := node[K]{kind: t.Kind, cost: CostNode, children: make([]node[K], 0, len(t.Children))}
	for _, child := range t.Children {
		c, err := p.compile(child, depth+1)
		if err != nil {
			return node[K]{}, err
		}
		n.cost += c.cost
		n.children = append(n.children, c)
	}
	slices.SortStableFunc(n.children, func(a, b node[K]) int {
		return a.cost - b.cost
	})
	return n, nil
}

// Source returns the tree p was compiled from, in its original order.
func (p *Plan[K]) Source() logic.Tree[K] {
	return p.source
}
