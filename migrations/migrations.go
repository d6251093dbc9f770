// Package migrations bundles the dictionary schema for each supported database.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// dialects maps a database/sql driver name to its schema directory.
var dialects = map[string]string{
	"sqlite3":  "sqlite",
	"postgres": "postgres",
}

// For returns the migration files for driverName, rooted at the dialect directory.
func For(driverName string) (fs.FS, error) {
	dir, ok := dialects[driverName]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driverName)
	}
	return fs.Sub(files, dir)
}
