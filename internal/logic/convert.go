// internal/logic/convert.go
package logic

/*
 * Chain to Tree conversion.
 *
 * Reads a chain with OR binding tighter than AND:
 *   1. Collect contiguous Or-linked terms into an OR-run.
 *   2. An And link flushes the run: one term -> Leaf, several -> Or of Leaves.
 *   3. Flushed runs accumulate in the AND-run, in order.
 *   4. One AND-run entry is the whole tree; several are wrapped in And.
 *
 * Total for any chain (a chain always has a first term) and order-preserving.
 * No simplification: duplicate or redundant terms are kept as written.
 */

// ToTree converts a chain to its canonical tree.
func ToTree[K any](c Chain[K]) Tree[K] {
	groups := c.Groups()
	nodes := make([]Tree[K], 0, len(groups))
	for _, group := range groups {
		if len(group) == 1 {
			nodes = append(nodes, Leaf(group[0]))
			continue
		}
		leaves := make([]Tree[K], 0, len(group))
		for _, term := range group {
			leaves = append(leaves, Leaf(term))
		}
		nodes = append(nodes, Tree[K]{Kind: KindOr, Children: leaves})
	}
	if len(nodes) == 1 {
		return nodes[0]
	}
	return Tree[K]{Kind: KindAnd, Children: nodes}
}
