package check

import (
	"fmt"

	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/recipe"
	"github.com/solatis/craftbook/internal/types"
)

// RecipeResult reports which requirement fields of a recipe an inventory meets.
// Absent optional fields are satisfied.
type RecipeResult[K comparable] struct {
	Name        string
	Visible     Result[K]
	Craftable   Result[K]
	Ingredients Result[K]
	Tools       Result[K]
}

// CanCraft reports whether every requirement field is met.
func (r RecipeResult[K]) CanCraft() bool {
	return r.Visible.Satisfied && r.Craftable.Satisfied && r.Ingredients.Satisfied && r.Tools.Satisfied
}

// Recipe evaluates the requirement fields of r against inv.
// Output is not a requirement and is not checked.
func Recipe[K comparable](r recipe.NodeRecipe[K], inv Inventory[K]) (RecipeResult[K], error) {
	out := RecipeResult[K]{Name: r.Name}
	var err error
	if out.Visible, err = optional(r.ParamsToSee, types.MeaningParam, inv); err != nil {
		return RecipeResult[K]{}, fmt.Errorf("params to see: %w", err)
	}
	if out.Craftable, err = optional(r.ParamsToCraft, types.MeaningParam, inv); err != nil {
		return RecipeResult[K]{}, fmt.Errorf("params to craft: %w", err)
	}
	if out.Ingredients, err = evaluate(r.Ingredients, types.MeaningItem, inv); err != nil {
		return RecipeResult[K]{}, fmt.Errorf("ingredients: %w", err)
	}
	if out.Tools, err = optional(r.Tools, types.MeaningItem, inv); err != nil {
		return RecipeResult[K]{}, fmt.Errorf("tools: %w", err)
	}
	return out, nil
}

func optional[K comparable](t *logic.Tree[K], meaning types.Meaning, inv Inventory[K]) (Result[K], error) {
	if t == nil {
		return Result[K]{Satisfied: true}, nil
	}
	return evaluate(*t, meaning, inv)
}

func evaluate[K comparable](t logic.Tree[K], meaning types.Meaning, inv Inventory[K]) (Result[K], error) {
	plan, err := Compile(t, meaning)
	if err != nil {
		return Result[K]{}, err
	}
	return plan.Evaluate(inv), nil
}
