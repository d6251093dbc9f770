package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/solatis/craftbook/internal/core/api"
	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/parse"
	"github.com/solatis/craftbook/internal/render"
)

var treeCmd = &cobra.Command{
	Use:   "tree <expr>",
	Short: "Print the canonical form of a requirement expression",
	Long: `Parses a textual expression such as "A 1 | B 2 & C 3" and prints its
canonical rendering followed by the tree as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	chain, err := parse.TextChain(args[0])
	if err != nil {
		return fmt.Errorf("invalid expression: %w", err)
	}
	tree := logic.ToTree(chain)

	encoded, err := protojson.MarshalOptions{Multiline: true}.Marshal(api.TreeValue(tree))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, render.Tree(tree, cfg.Render.Build()))
	fmt.Fprintln(out, string(encoded))
	return nil
}
