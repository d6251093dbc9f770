package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/craftbook/internal/dictionary"
	"github.com/solatis/craftbook/internal/recipe"
	"github.com/solatis/craftbook/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render the requirements of every recipe in a recipe file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Bool("numeric", false, "translate numeric records to names through the dictionary")
	renderCmd.Flags().String("encoding", "utf-8", "recipe file encoding (utf-8, cp1251)")
	renderCmd.Flags().String("lst-dir", "", "directory holding ParamNames.lst and ItemNames.lst")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{"dictionary.lst_dir": "lst-dir"})
	if err != nil {
		return err
	}
	numeric, _ := cmd.Flags().GetBool("numeric")
	encoding, _ := cmd.Flags().GetString("encoding")

	book, err := loadBook(args[0], encoding)
	if err != nil {
		return err
	}

	var names dictionary.Lookup
	if numeric {
		names, err = loadDictionary(cmd.Context(), cfg.Dictionary)
		if err != nil {
			return err
		}
		if names == nil {
			return fmt.Errorf("--numeric needs a dictionary (--db-url or --lst-dir)")
		}
	}

	renderCfg := cfg.Render.Build()
	out := cmd.OutOrStdout()
	for index, rec := range book.All() {
		rendered, err := renderRecord(rec, names, renderCfg)
		if err != nil {
			return fmt.Errorf("recipe #%d: %w", index, err)
		}
		writeRendered(out, index, rendered)
	}
	logger.Info("rendered recipe file", zap.String("file", args[0]), zap.Int("recipes", book.Len()))
	return nil
}

// loadBook reads every record of a recipe file.
func loadBook(path, encoding string) (*recipe.Book[recipe.Any], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoded, err := recipe.Decode(f, encoding)
	if err != nil {
		return nil, err
	}
	lines, err := recipe.ReadLines(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	book, err := recipe.Load(lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return book, nil
}

// renderRecord renders rec, translating a numeric record when names is set.
func renderRecord(rec recipe.Any, names dictionary.Lookup, cfg render.Config) (recipe.Rendered, error) {
	if !rec.IsNumeric() {
		r, err := rec.Textual()
		if err != nil {
			return recipe.Rendered{}, err
		}
		return recipe.Render(recipe.ToNodes(r), cfg), nil
	}

	r, err := rec.Numeric()
	if err != nil {
		return recipe.Rendered{}, err
	}
	if names == nil {
		return recipe.Render(recipe.ToNodes(r), cfg), nil
	}
	named, err := recipe.MapKeys(r, dictionary.ToNames(names))
	if err != nil {
		return recipe.Rendered{}, err
	}
	return recipe.Render(recipe.ToNodes(named), cfg), nil
}

func writeRendered(w io.Writer, index uint32, r recipe.Rendered) {
	fmt.Fprintf(w, "#%d %s\n", index, r.Name)
	for _, field := range []struct{ label, text string }{
		{"see", r.ParamsToSee},
		{"craft", r.ParamsToCraft},
		{"ingredients", r.Ingredients},
		{"tools", r.Tools},
		{"output", r.Output},
		{"effect", r.SideEffect},
	} {
		if field.text != "" {
			fmt.Fprintf(w, "  %s: %s\n", field.label, field.text)
		}
	}
}
