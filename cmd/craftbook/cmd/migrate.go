package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/craftbook/internal/core/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply dictionary schema migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("status", false, "list migrations without applying them")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	if cfg.Dictionary.DBURL == "" {
		return fmt.Errorf("--db-url required")
	}
	ctx := cmd.Context()

	database, err := db.Open(ctx, cfg.Dictionary.DBURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if status, _ := cmd.Flags().GetBool("status"); status {
		statuses, err := db.MigrateStatus(ctx, database)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range statuses {
			if s.Applied {
				fmt.Fprintf(out, "%s\tapplied %s (%dms)\n", s.ID, s.AppliedAt.Format(time.RFC3339), s.ExecutionMs)
			} else {
				fmt.Fprintf(out, "%s\tpending\n", s.ID)
			}
		}
		return nil
	}

	applied, err := db.MigrateUp(ctx, database, logger)
	if err != nil {
		return err
	}
	logger.Info("migrations complete", zap.Int("applied", applied))
	return nil
}
