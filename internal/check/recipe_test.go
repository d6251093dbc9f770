package check

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/recipe"
	"github.com/solatis/craftbook/internal/types"
)

func jerky() recipe.NodeRecipe[string] {
	see := leaf("SK_OUTDOORSMAN", 30)
	craft := logic.Or(leaf("SK_OUTDOORSMAN", 60), leaf("SK_SCIENCE", 80))
	tools := leaf("PID_KNIFE", 1)
	return recipe.NodeRecipe[string]{
		Name:          "PID_MEAT_JERKY",
		ParamsToSee:   &see,
		ParamsToCraft: &craft,
		Ingredients:   logic.And(leaf("PID_RAD_MEAT", 4), leaf("PID_SALT", 1)),
		Tools:         &tools,
		Output:        leaf("PID_MEAT_JERKY", 2),
	}
}

func TestRecipe(t *testing.T) {
	tests := []struct {
		name         string
		inv          Holdings[string]
		wantCraft    bool
		wantVisible  bool
		wantMissing  []types.Term[string]
		wantCrafting []types.Term[string]
	}{
		{
			name: "everything held",
			inv: Holdings[string]{
				Params: map[string]uint32{"SK_OUTDOORSMAN": 60},
				Items:  map[string]uint32{"PID_RAD_MEAT": 4, "PID_SALT": 1, "PID_KNIFE": 1},
			},
			wantCraft:   true,
			wantVisible: true,
		},
		{
			name: "visible but short of ingredients",
			inv: Holdings[string]{
				Params: map[string]uint32{"SK_SCIENCE": 80, "SK_OUTDOORSMAN": 30},
				Items:  map[string]uint32{"PID_RAD_MEAT": 2, "PID_KNIFE": 1},
			},
			wantVisible: true,
			wantMissing: []types.Term[string]{term("PID_RAD_MEAT", 4), term("PID_SALT", 1)},
		},
		{
			name: "hidden and unskilled",
			inv: Holdings[string]{
				Items: map[string]uint32{"PID_RAD_MEAT": 4, "PID_SALT": 1, "PID_KNIFE": 1},
			},
			wantCrafting: []types.Term[string]{term("SK_OUTDOORSMAN", 60), term("SK_SCIENCE", 80)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Recipe(jerky(), tt.inv)
			if err != nil {
				t.Fatalf("Recipe() error = %v, want nil", err)
			}
			if got.Name != "PID_MEAT_JERKY" {
				t.Errorf("Name = %q, want PID_MEAT_JERKY", got.Name)
			}
			if got.CanCraft() != tt.wantCraft {
				t.Errorf("CanCraft() = %v, want %v", got.CanCraft(), tt.wantCraft)
			}
			if got.Visible.Satisfied != tt.wantVisible {
				t.Errorf("Visible.Satisfied = %v, want %v", got.Visible.Satisfied, tt.wantVisible)
			}
			if diff := cmp.Diff(tt.wantMissing, got.Ingredients.Unmet); diff != "" {
				t.Errorf("Ingredients.Unmet mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantCrafting, got.Craftable.Unmet); diff != "" {
				t.Errorf("Craftable.Unmet mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecipe_AbsentFieldsAreSatisfied(t *testing.T) {
	r := recipe.NodeRecipe[uint32]{
		Name:        "plain",
		Ingredients: logic.Leaf(types.NewTerm[uint32](284, 1)),
		Output:      logic.Leaf(types.NewTerm[uint32](285, 1)),
	}

	got, err := Recipe(r, Holdings[uint32]{Items: map[uint32]uint32{284: 1}})
	if err != nil {
		t.Fatalf("Recipe() error = %v, want nil", err)
	}
	if !got.CanCraft() {
		t.Errorf("CanCraft() = false, want true: %+v", got)
	}
}

func TestRecipe_InvalidField(t *testing.T) {
	r := jerky()
	empty := logic.Or[string]()
	r.Tools = &empty

	_, err := Recipe(r, Holdings[string]{})
	if !errors.Is(err, types.ErrEmptyExpression) {
		t.Fatalf("Recipe() error = %v, want %v", err, types.ErrEmptyExpression)
	}
}
