// internal/core/db/store.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/solatis/craftbook/internal/dictionary"
	"github.com/solatis/craftbook/internal/types"
)

// Store is a dictionary.Lookup backed by the dictionary_entries table.
//
// Lookup carries no context, so a Store binds one at construction;
// WithContext derives a copy bound to a request context.
type Store struct {
	db      *sqlx.DB
	queries *Queries
	ctx     context.Context
	log     *zap.Logger
}

var _ dictionary.Lookup = (*Store)(nil)

// ImportSummary describes one stored import batch.
type ImportSummary struct {
	Meaning    string
	ImportID   types.ImportID
	ImportedAt time.Time
	Entries    int
}

// NewStore loads the named queries for db. A nil logger disables logging.
func NewStore(db *sqlx.DB, log *zap.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	queries, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, queries: queries, ctx: context.Background(), log: log}, nil
}

// WithContext returns a copy of s whose lookups run under ctx.
func (s *Store) WithContext(ctx context.Context) *Store {
	clone := *s
	clone.ctx = ctx
	return &clone
}

// Import replaces every entry of a namespace in one transaction.
// A failed import leaves the previous entries in place.
func (s *Store) Import(ctx context.Context, meaning types.Meaning, entries []dictionary.Entry) (types.ImportID, error) {
	// Validate through Table first so conflicts surface before touching the database.
	if err := dictionary.NewTable().AddAll(meaning, entries); err != nil {
		return "", fmt.Errorf("invalid %s entries: %w", meaning, err)
	}

	id := types.NewImportID()
	at := dbTime{time.Now().UTC()}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := s.queries.ExecTx(ctx, tx, "delete-meaning", meaning.String()); err != nil {
		return "", fmt.Errorf("failed to clear %s entries: %w", meaning, err)
	}
	for _, e := range entries {
		if _, err := s.queries.ExecTx(ctx, tx, "insert-entry", meaning.String(), int64(e.ID), e.Name, string(id), at); err != nil {
			return "", fmt.Errorf("failed to insert %s %d %q: %w", meaning, e.ID, e.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit import: %w", err)
	}

	s.log.Info("imported dictionary",
		zap.Stringer("meaning", meaning),
		zap.String("import_id", string(id)),
		zap.Int("entries", len(entries)))
	return id, nil
}

// NameOf implements dictionary.Lookup.
func (s *Store) NameOf(id uint32, meaning types.Meaning) (string, error) {
	var name string
	err := s.queries.GetContext(s.ctx, "name-by-id", &name, meaning.String(), int64(id))
	if err != nil {
		return "", s.lookupError(err, strconv.FormatUint(uint64(id), 10), meaning)
	}
	return name, nil
}

// IDOf implements dictionary.Lookup.
func (s *Store) IDOf(name string, meaning types.Meaning) (uint32, error) {
	var id int64
	err := s.queries.GetContext(s.ctx, "id-by-name", &id, meaning.String(), name)
	if err != nil {
		return 0, s.lookupError(err, name, meaning)
	}
	return uint32(id), nil
}

func (s *Store) lookupError(err error, key string, meaning types.Meaning) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &types.NotFoundError{Key: key, Meaning: meaning}
	}
	s.log.Warn("dictionary lookup failed",
		zap.String("key", key),
		zap.Stringer("meaning", meaning),
		zap.Error(err))
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// Count returns the number of entries stored for a namespace.
func (s *Store) Count(ctx context.Context, meaning types.Meaning) (int, error) {
	var n int
	if err := s.queries.GetContext(ctx, "count-meaning", &n, meaning.String()); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return n, nil
}

// Table loads every namespace into memory, for bulk remapping without a query per key.
func (s *Store) Table(ctx context.Context) (*dictionary.Table, error) {
	table := dictionary.NewTable()
	for _, meaning := range types.Meanings() {
		var rows []struct {
			ID   int64  `db:"entry_id"`
			Name string `db:"name"`
		}
		if err := s.queries.SelectContext(ctx, "list-entries", &rows, meaning.String()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		for _, r := range rows {
			if err := table.Add(meaning, uint32(r.ID), r.Name); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

// Imports lists the import batches currently holding entries.
func (s *Store) Imports(ctx context.Context) ([]ImportSummary, error) {
	var rows []struct {
		Meaning    string `db:"meaning"`
		ImportID   string `db:"import_id"`
		ImportedAt dbTime `db:"imported_at"`
		Entries    int    `db:"entries"`
	}
	if err := s.queries.SelectContext(ctx, "list-imports", &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	out := make([]ImportSummary, 0, len(rows))
	for _, r := range rows {
		id, err := types.ParseImportID(r.ImportID)
		if err != nil {
			return nil, fmt.Errorf("invalid import id %q for %s: %w", r.ImportID, r.Meaning, err)
		}
		out = append(out, ImportSummary{
			Meaning:    r.Meaning,
			ImportID:   id,
			ImportedAt: r.ImportedAt.Time,
			Entries:    r.Entries,
		})
	}
	return out, nil
}
