package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/solatis/craftbook/internal/dictionary"
	"github.com/solatis/craftbook/internal/types"
)

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage the identifier dictionary database",
}

var dictImportCmd = &cobra.Command{
	Use:   "import <meaning> <lst-file>",
	Short: "Replace a namespace (param or item) with the names of an LST file",
	Args:  cobra.ExactArgs(2),
	RunE:  runDictImport,
}

var dictListCmd = &cobra.Command{
	Use:   "imports",
	Short: "List the import batches currently in the dictionary",
	Args:  cobra.NoArgs,
	RunE:  runDictImports,
}

var dictLookupCmd = &cobra.Command{
	Use:   "lookup <meaning> <id|name>",
	Short: "Resolve an identifier to its name, or a name to its identifier",
	Args:  cobra.ExactArgs(2),
	RunE:  runDictLookup,
}

func init() {
	rootCmd.AddCommand(dictCmd)
	dictCmd.AddCommand(dictImportCmd, dictListCmd, dictLookupCmd)
}

func runDictImport(cmd *cobra.Command, args []string) error {
	meaning, err := types.ParseMeaning(args[0])
	if err != nil {
		return err
	}
	entries, err := dictionary.LoadLSTFile(args[1])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	database, store, err := openStore(cmd.Context(), cfg.Dictionary.DBURL)
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := store.Import(cmd.Context(), meaning, entries)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s names as %s\n", len(entries), meaning, id)
	return nil
}

func runDictImports(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	database, store, err := openStore(cmd.Context(), cfg.Dictionary.DBURL)
	if err != nil {
		return err
	}
	defer database.Close()

	imports, err := store.Imports(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, imp := range imports {
		fmt.Fprintf(out, "%s\t%s\t%d entries\t%s\n",
			imp.Meaning, imp.ImportID, imp.Entries, types.ImportIDTime(imp.ImportID).UTC().Format(time.RFC3339))
	}
	return nil
}

func runDictLookup(cmd *cobra.Command, args []string) error {
	meaning, err := types.ParseMeaning(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	database, store, err := openStore(cmd.Context(), cfg.Dictionary.DBURL)
	if err != nil {
		return err
	}
	defer database.Close()

	lookup := store.WithContext(cmd.Context())
	out := cmd.OutOrStdout()
	if id, err := strconv.ParseUint(args[1], 10, 32); err == nil {
		name, err := lookup.NameOf(uint32(id), meaning)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, name)
		return nil
	}
	id, err := lookup.IDOf(args[1], meaning)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}
