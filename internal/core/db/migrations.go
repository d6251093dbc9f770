package db

import (
	"context"
	"crypto/sha256"
	"database/sql/driver"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/solatis/craftbook/migrations"
	"go.uber.org/zap"
)

// MigrationStatus reports one schema migration.
type MigrationStatus struct {
	ID          string
	Checksum    string
	Applied     bool
	AppliedAt   time.Time
	ExecutionMs int64
}

// migration is one embedded .sql file.
type migration struct {
	ID       string
	Checksum string
	SQL      string
}

// MigrateUp applies every pending migration for the database's driver.
// Already applied migrations must still match their embedded checksum.
// Each migration runs in its own transaction together with its bookkeeping row.
func MigrateUp(ctx context.Context, db *sqlx.DB, log *zap.Logger) (int, error) {
	pending, err := loadMigrations(ctx, db)
	if err != nil {
		return 0, err
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	if err := validateChecksums(pending, applied); err != nil {
		return 0, fmt.Errorf("migration checksum validation failed: %w", err)
	}

	count := 0
	for _, m := range pending {
		if _, ok := applied[m.ID]; ok {
			continue
		}
		start := time.Now()
		if err := applyMigration(ctx, db, m, start); err != nil {
			return count, err
		}
		count++
		log.Info("applied migration",
			zap.String("migration", m.ID),
			zap.Duration("took", time.Since(start)))
	}
	return count, nil
}

// MigrateStatus lists every embedded migration with its applied state.
func MigrateStatus(ctx context.Context, db *sqlx.DB) ([]MigrationStatus, error) {
	all, err := loadMigrations(ctx, db)
	if err != nil {
		return nil, err
	}
	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}

	statuses := make([]MigrationStatus, 0, len(all))
	for _, m := range all {
		if s, ok := applied[m.ID]; ok {
			statuses = append(statuses, s)
			continue
		}
		statuses = append(statuses, MigrationStatus{ID: m.ID, Checksum: m.Checksum})
	}
	return statuses, nil
}

// loadMigrations ensures the bookkeeping table exists and parses the driver's files.
func loadMigrations(ctx context.Context, db *sqlx.DB) ([]migration, error) {
	fsys, err := migrations.For(db.DriverName())
	if err != nil {
		return nil, err
	}
	if err := createMigrationsTable(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	parsed, err := parseMigrationFiles(fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to parse migrations: %w", err)
	}
	return parsed, nil
}

// parseMigrationFiles returns the .sql files of fsys ordered by file name.
func parseMigrationFiles(fsys fs.FS) ([]migration, error) {
	var parsed []migration
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".sql" {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		parsed = append(parsed, migration{
			ID:       path.Base(p),
			Checksum: fmt.Sprintf("%x", sha256.Sum256(content)),
			SQL:      string(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(parsed, func(a, b migration) int {
		return strings.Compare(a.ID, b.ID)
	})
	return parsed, nil
}

// createMigrationsTable creates the bookkeeping table.
// sqlite stores applied_at as RFC 3339 text in UTC.
func createMigrationsTable(ctx context.Context, db *sqlx.DB) error {
	createSQL := `
		CREATE TABLE IF NOT EXISTS migrations (
			migration_id TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMP WITHOUT TIME ZONE NOT NULL,
			execution_ms INTEGER NOT NULL
		)`
	if db.DriverName() == DriverSQLite {
		createSQL = `
			CREATE TABLE IF NOT EXISTS migrations (
				migration_id TEXT PRIMARY KEY,
				checksum TEXT NOT NULL,
				applied_at TEXT NOT NULL,
				execution_ms INTEGER NOT NULL,
				CHECK (applied_at LIKE '____-__-__T__:__:__Z')
			)`
	}
	_, err := db.ExecContext(ctx, createSQL)
	return err
}

func appliedMigrations(ctx context.Context, db *sqlx.DB) (map[string]MigrationStatus, error) {
	rows, err := db.QueryxContext(ctx, "SELECT migration_id, checksum, applied_at, execution_ms FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]MigrationStatus)
	for rows.Next() {
		var s MigrationStatus
		var at dbTime
		if err := rows.Scan(&s.ID, &s.Checksum, &at, &s.ExecutionMs); err != nil {
			return nil, err
		}
		s.Applied, s.AppliedAt = true, at.Time
		applied[s.ID] = s
	}
	return applied, rows.Err()
}

func validateChecksums(embedded []migration, applied map[string]MigrationStatus) error {
	checksums := make(map[string]string, len(embedded))
	for _, m := range embedded {
		checksums[m.ID] = m.Checksum
	}
	for id, s := range applied {
		expected, ok := checksums[id]
		if !ok {
			return fmt.Errorf("migration %s exists in database but not in embedded files", id)
		}
		if s.Checksum != expected {
			return fmt.Errorf("checksum mismatch for migration %s: expected %s, got %s", id, expected, s.Checksum)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, m migration, start time.Time) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %s: %w", m.ID, err)
	}
	defer tx.Rollback()

	// lib/pq rejects several statements in one Exec.
	for _, stmt := range splitStatements(m.SQL) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}
	}

	now := time.Now().UTC()
	var appliedAt any = now
	if tx.DriverName() == DriverSQLite {
		appliedAt = now.Format(time.RFC3339)
	}
	_, err = tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO migrations (migration_id, checksum, applied_at, execution_ms) VALUES (?, ?, ?, ?)"),
		m.ID, m.Checksum, appliedAt, time.Since(start).Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", m.ID, err)
	}
	return nil
}

// splitStatements splits a migration on ';' and drops '--' comment lines.
// Statements must not contain ';' inside string literals.
func splitStatements(sql string) []string {
	var out []string
	for _, chunk := range strings.Split(sql, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "--") {
				lines = append(lines, line)
			}
		}
		if stmt := strings.TrimSpace(strings.Join(lines, "\n")); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// dbTime scans timestamps stored natively (postgres) or as RFC 3339 text (sqlite).
type dbTime struct {
	time.Time
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (t *dbTime) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// Value stores the time in the sqlite text form; postgres accepts it too.
func (t dbTime) Value() (driver.Value, error) {
	return t.UTC().Format(time.RFC3339), nil
}
