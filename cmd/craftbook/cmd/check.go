package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/craftbook/internal/check"
	"github.com/solatis/craftbook/internal/dictionary"
	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/recipe"
	"github.com/solatis/craftbook/internal/render"
	"github.com/solatis/craftbook/internal/types"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check which recipes an inventory can craft",
	Long: `Evaluates the requirements of every recipe in a recipe file against the
given parameters and items, e.g.

  craftbook check recipes.txt --param SK_OUTDOORSMAN=100 --item PID_KNIFE=1

Numeric records are translated through the dictionary first.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringToInt("param", nil, "held parameter as NAME=VALUE (repeatable)")
	checkCmd.Flags().StringToInt("item", nil, "held item as NAME=COUNT (repeatable)")
	checkCmd.Flags().Bool("craftable", false, "list only recipes that can be crafted")
	checkCmd.Flags().String("encoding", "utf-8", "recipe file encoding (utf-8, cp1251)")
	checkCmd.Flags().String("lst-dir", "", "directory holding ParamNames.lst and ItemNames.lst")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{"dictionary.lst_dir": "lst-dir"})
	if err != nil {
		return err
	}
	encoding, _ := cmd.Flags().GetString("encoding")
	craftableOnly, _ := cmd.Flags().GetBool("craftable")

	inv, err := inventoryFromFlags(cmd)
	if err != nil {
		return err
	}

	book, err := loadBook(args[0], encoding)
	if err != nil {
		return err
	}
	names, err := loadDictionary(cmd.Context(), cfg.Dictionary)
	if err != nil {
		return err
	}

	renderCfg := cfg.Render.Build()
	out := cmd.OutOrStdout()
	craftable := 0
	for index, rec := range book.All() {
		r, err := namedRecord(rec, names)
		if err != nil {
			return fmt.Errorf("recipe #%d: %w", index, err)
		}
		res, err := check.Recipe(recipe.ToNodes(r), inv)
		if err != nil {
			return fmt.Errorf("recipe #%d: %w", index, err)
		}
		if res.CanCraft() {
			craftable++
		} else if craftableOnly {
			continue
		}
		writeCheck(out, index, res, renderCfg)
	}
	logger.Info("checked recipe file",
		zap.String("file", args[0]),
		zap.Int("recipes", book.Len()),
		zap.Int("craftable", craftable))
	return nil
}

func inventoryFromFlags(cmd *cobra.Command) (check.Holdings[string], error) {
	params, _ := cmd.Flags().GetStringToInt("param")
	items, _ := cmd.Flags().GetStringToInt("item")

	inv := check.Holdings[string]{Params: map[string]uint32{}, Items: map[string]uint32{}}
	for _, held := range []struct {
		flag string
		in   map[string]int
		out  map[string]uint32
	}{
		{"param", params, inv.Params},
		{"item", items, inv.Items},
	} {
		for name, n := range held.in {
			if n < 0 || uint64(n) > math.MaxUint32 {
				return check.Holdings[string]{}, fmt.Errorf("--%s %s: amount must be between 0 and %d, got %d", held.flag, name, uint32(math.MaxUint32), n)
			}
			held.out[name] = uint32(n)
		}
	}
	return inv, nil
}

// namedRecord returns rec with textual keys, translating numeric records through names.
func namedRecord(rec recipe.Any, names dictionary.Lookup) (recipe.Recipe[string], error) {
	if !rec.IsNumeric() {
		return rec.Textual()
	}
	if names == nil {
		return recipe.Recipe[string]{}, fmt.Errorf("numeric record needs a dictionary (--db-url or --lst-dir)")
	}
	r, err := rec.Numeric()
	if err != nil {
		return recipe.Recipe[string]{}, err
	}
	return recipe.MapKeys(r, dictionary.ToNames(names))
}

func writeCheck(w io.Writer, index uint32, res check.RecipeResult[string], cfg render.Config) {
	status := "missing"
	switch {
	case !res.Visible.Satisfied:
		status = "hidden"
	case res.CanCraft():
		status = "craftable"
	}
	fmt.Fprintf(w, "#%d %s: %s\n", index, res.Name, status)

	for _, field := range []struct {
		label string
		res   check.Result[string]
	}{
		{"see", res.Visible},
		{"craft", res.Craftable},
		{"ingredients", res.Ingredients},
		{"tools", res.Tools},
	} {
		if len(field.res.Unmet) > 0 {
			fmt.Fprintf(w, "  %s: %s\n", field.label, unmetText(field.res.Unmet, cfg))
		}
	}
}

func unmetText(terms []types.Term[string], cfg render.Config) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = render.Tree(logic.Leaf(t), cfg)
	}
	return strings.Join(parts, ", ")
}
