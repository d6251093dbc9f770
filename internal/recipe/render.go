package recipe

import (
	"github.com/solatis/craftbook/internal/render"
)

// Rendered holds the display text of every field of a recipe.
// Absent optional fields render as "".
type Rendered struct {
	Name          string
	Description   string
	ParamsToSee   string
	ParamsToCraft string
	Ingredients   string
	Tools         string
	Output        string
	SideEffect    string
}

// Render formats the requirement fields of r with cfg.
func Render[K any](r NodeRecipe[K], cfg render.Config) Rendered {
	return Rendered{
		Name:          r.Name,
		Description:   r.Description,
		ParamsToSee:   render.OptionalTree(r.ParamsToSee, cfg),
		ParamsToCraft: render.OptionalTree(r.ParamsToCraft, cfg),
		Ingredients:   render.Tree(r.Ingredients, cfg),
		Tools:         render.OptionalTree(r.Tools, cfg),
		Output:        render.Tree(r.Output, cfg),
		SideEffect:    r.SideEffect.String(),
	}
}
