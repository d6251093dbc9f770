// Package recipe models crafting recipe records whose requirement fields are
// logic chains, and the ordered book they are loaded into.
package recipe

import (
	"fmt"

	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/types"
)

// SideEffectKind tags what happens after a successful craft.
type SideEffectKind int

const (
	SideEffectScript SideEffectKind = iota
	SideEffectExperience
)

// SideEffect is the trailing field of a record: a script call or an experience award.
type SideEffect struct {
	Kind       SideEffectKind
	Module     string
	Function   string
	Experience uint32
}

// Script builds a script side effect.
func Script(module, function string) SideEffect {
	return SideEffect{Kind: SideEffectScript, Module: module, Function: function}
}

// Experience builds an experience side effect.
func Experience(exp uint32) SideEffect {
	return SideEffect{Kind: SideEffectExperience, Experience: exp}
}

// Truncated keeps the kind and zeroes the payload.
// Numeric records only carry the kind, so comparisons against them go through this.
func (s SideEffect) Truncated() SideEffect {
	return SideEffect{Kind: s.Kind}
}

func (s SideEffect) String() string {
	switch {
	case s.Kind == SideEffectExperience && s.Experience == 0:
		return "exp"
	case s.Kind == SideEffectExperience:
		return fmt.Sprintf("exp %d", s.Experience)
	case s.Module == "" && s.Function == "":
		return "script"
	default:
		return fmt.Sprintf("script %s@%s", s.Module, s.Function)
	}
}

// Recipe is one record with its requirement fields in chain form.
// K is string for textual records and uint32 for numeric ones.
type Recipe[K any] struct {
	Name           string
	Description    string
	HasDescription bool
	ParamsToSee    *logic.Chain[K]
	ParamsToCraft  *logic.Chain[K]
	Ingredients    logic.Chain[K]
	Tools          *logic.Chain[K]
	Output         logic.Chain[K]
	SideEffect     SideEffect
}

// NodeRecipe is a Recipe with every requirement field converted to tree form.
type NodeRecipe[K any] struct {
	Name           string
	Description    string
	HasDescription bool
	ParamsToSee    *logic.Tree[K]
	ParamsToCraft  *logic.Tree[K]
	Ingredients    logic.Tree[K]
	Tools          *logic.Tree[K]
	Output         logic.Tree[K]
	SideEffect     SideEffect
}

// ToNodes converts every requirement field of r with logic.ToTree.
func ToNodes[K any](r Recipe[K]) NodeRecipe[K] {
	return NodeRecipe[K]{
		Name:           r.Name,
		Description:    r.Description,
		HasDescription: r.HasDescription,
		ParamsToSee:    optionalTree(r.ParamsToSee),
		ParamsToCraft:  optionalTree(r.ParamsToCraft),
		Ingredients:    logic.ToTree(r.Ingredients),
		Tools:          optionalTree(r.Tools),
		Output:         logic.ToTree(r.Output),
		SideEffect:     r.SideEffect,
	}
}

func optionalTree[K any](c *logic.Chain[K]) *logic.Tree[K] {
	if c == nil {
		return nil
	}
	t := logic.ToTree(*c)
	return &t
}

// MapKeys remaps every key of r. Visibility and crafting parameters use
// MeaningParam; ingredients, tools and output use MeaningItem.
// Fields are visited in record order and the first error is returned.
func MapKeys[K, K2 any](r Recipe[K], f logic.Mapper[K, K2]) (Recipe[K2], error) {
	out := Recipe[K2]{
		Name:           r.Name,
		Description:    r.Description,
		HasDescription: r.HasDescription,
		SideEffect:     r.SideEffect,
	}
	var err error
	if out.ParamsToSee, err = logic.MapOptionalChain(r.ParamsToSee, types.MeaningParam, f); err != nil {
		return Recipe[K2]{}, fmt.Errorf("params to see: %w", err)
	}
	if out.ParamsToCraft, err = logic.MapOptionalChain(r.ParamsToCraft, types.MeaningParam, f); err != nil {
		return Recipe[K2]{}, fmt.Errorf("params to craft: %w", err)
	}
	if out.Ingredients, err = logic.MapChain(r.Ingredients, types.MeaningItem, f); err != nil {
		return Recipe[K2]{}, fmt.Errorf("ingredients: %w", err)
	}
	if out.Tools, err = logic.MapOptionalChain(r.Tools, types.MeaningItem, f); err != nil {
		return Recipe[K2]{}, fmt.Errorf("tools: %w", err)
	}
	if out.Output, err = logic.MapChain(r.Output, types.MeaningItem, f); err != nil {
		return Recipe[K2]{}, fmt.Errorf("output: %w", err)
	}
	return out, nil
}

// MapNodeKeys is MapKeys for tree-form recipes.
func MapNodeKeys[K, K2 any](r NodeRecipe[K], f logic.Mapper[K, K2]) (NodeRecipe[K2], error) {
	out := NodeRecipe[K2]{
		Name:           r.Name,
		Description:    r.Description,
		HasDescription: r.HasDescription,
		SideEffect:     r.SideEffect,
	}
	var err error
	if out.ParamsToSee, err = logic.MapOptionalTree(r.ParamsToSee, types.MeaningParam, f); err != nil {
		return NodeRecipe[K2]{}, fmt.Errorf("params to see: %w", err)
	}
	if out.ParamsToCraft, err = logic.MapOptionalTree(r.ParamsToCraft, types.MeaningParam, f); err != nil {
		return NodeRecipe[K2]{}, fmt.Errorf("params to craft: %w", err)
	}
	if out.Ingredients, err = logic.MapTree(r.Ingredients, types.MeaningItem, f); err != nil {
		return NodeRecipe[K2]{}, fmt.Errorf("ingredients: %w", err)
	}
	if out.Tools, err = logic.MapOptionalTree(r.Tools, types.MeaningItem, f); err != nil {
		return NodeRecipe[K2]{}, fmt.Errorf("tools: %w", err)
	}
	if out.Output, err = logic.MapTree(r.Output, types.MeaningItem, f); err != nil {
		return NodeRecipe[K2]{}, fmt.Errorf("output: %w", err)
	}
	return out, nil
}
