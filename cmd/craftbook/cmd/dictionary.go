package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/solatis/craftbook/internal/core/config"
	"github.com/solatis/craftbook/internal/core/db"
	"github.com/solatis/craftbook/internal/dictionary"
)

// openStore opens the dictionary database and checks its schema is current.
func openStore(ctx context.Context, dbURL string) (*sqlx.DB, *db.Store, error) {
	if dbURL == "" {
		return nil, nil, fmt.Errorf("--db-url required")
	}
	database, err := db.Open(ctx, dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	statuses, err := db.MigrateStatus(ctx, database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to check migrations: %w", err)
	}
	for _, s := range statuses {
		if !s.Applied {
			database.Close()
			return nil, nil, fmt.Errorf("migration %s not applied - run 'craftbook migrate' first", s.ID)
		}
	}

	store, err := db.NewStore(database, logger)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return database, store, nil
}

// loadDictionary loads the configured dictionary into memory.
// Returns a nil Lookup when none is configured.
func loadDictionary(ctx context.Context, cfg config.DictionaryConfig) (dictionary.Lookup, error) {
	switch {
	case cfg.DBURL != "":
		database, store, err := openStore(ctx, cfg.DBURL)
		if err != nil {
			return nil, err
		}
		defer database.Close()
		table, err := store.Table(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load dictionary: %w", err)
		}
		return table, nil
	case cfg.LSTDir != "":
		table, err := dictionary.LoadDir(cfg.LSTDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load dictionary: %w", err)
		}
		logger.Debug("loaded dictionary directory", zap.String("dir", cfg.LSTDir))
		return table, nil
	default:
		return nil, nil
	}
}
