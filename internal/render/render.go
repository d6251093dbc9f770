// internal/render/render.go
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/types"
)

/*
 * Chain and tree rendering.
 *
 * Two paths produce the same text for the same logical content:
 *   - Tree walks a Tree recursively. The root is never bracketed; any other
 *     node with more than one child is. TopLevelSep precedes each And that
 *     joins the root conjunction's children.
 *   - Chain renders directly from the flat form using Chain.Groups, the
 *     grouping ToTree is built from. A multi-term group is bracketed only
 *     when the chain has more than one group, which is exactly when ToTree
 *     makes that group a non-root child.
 *
 * Render(chain) == Render(ToTree(chain)) for every configuration; the
 * property tests in render_test.go hold both paths to it.
 */

// Term renders a single term: key, then prefix+value+suffix when shown.
func Term[K any](t types.Term[K], cfg Config) string {
	var b strings.Builder
	writeTerm(&b, t, cfg)
	return b.String()
}

// Chain renders a chain directly from its flat form.
func Chain[K any](c logic.Chain[K], cfg Config) string {
	var b strings.Builder
	groups := c.Groups()
	bracket := len(groups) > 1
	for i, group := range groups {
		if i > 0 {
			b.WriteString(cfg.TopLevelSep)
			b.WriteString(cfg.And)
		}
		if bracket && len(group) > 1 {
			b.WriteString(cfg.Open)
		}
		for j, term := range group {
			if j > 0 {
				b.WriteString(cfg.Or)
			}
			writeTerm(&b, term, cfg)
		}
		if bracket && len(group) > 1 {
			b.WriteString(cfg.Close)
		}
	}
	return b.String()
}

// Tree renders a tree of any shape.
func Tree[K any](t logic.Tree[K], cfg Config) string {
	var b strings.Builder
	writeNode(&b, t, cfg, true)
	return b.String()
}

// OptionalChain renders c, or returns "" for an absent chain.
func OptionalChain[K any](c *logic.Chain[K], cfg Config) string {
	if c == nil {
		return ""
	}
	return Chain(*c, cfg)
}

// OptionalTree renders t, or returns "" for an absent tree.
func OptionalTree[K any](t *logic.Tree[K], cfg Config) string {
	if t == nil {
		return ""
	}
	return Tree(*t, cfg)
}

// writeNode writes TopLevelSep only between children of a root And; a root Or
// joins without it, matching how Chain renders a lone Or-run.
func writeNode[K any](b *strings.Builder, t logic.Tree[K], cfg Config, root bool) {
	if t.Kind == logic.KindLeaf {
		writeTerm(b, t.Term, cfg)
		return
	}
	sep, join := "", cfg.Or
	if t.Kind == logic.KindAnd {
		join = cfg.And
		if root {
			sep = cfg.TopLevelSep
		}
	}
	bracket := !root && len(t.Children) > 1
	if bracket {
		b.WriteString(cfg.Open)
	}
	for i, child := range t.Children {
		if i > 0 {
			b.WriteString(sep)
			b.WriteString(join)
		}
		writeNode(b, child, cfg, false)
	}
	if bracket {
		b.WriteString(cfg.Close)
	}
}

func writeTerm[K any](b *strings.Builder, t types.Term[K], cfg Config) {
	writeKey(b, t.Key)
	if cfg.showValue(t.Value) {
		b.WriteString(cfg.ValuePrefix)
		b.WriteString(strconv.FormatUint(uint64(t.Value), 10))
		b.WriteString(cfg.ValueSuffix)
	}
}

func writeKey[K any](b *strings.Builder, key K) {
	switch k := any(key).(type) {
	case string:
		b.WriteString(k)
	case uint32:
		b.WriteString(strconv.FormatUint(uint64(k), 10))
	default:
		fmt.Fprint(b, k)
	}
}
