package migrations

import (
	"io/fs"
	"testing"
)

func TestFor(t *testing.T) {
	for _, driver := range []string{"sqlite3", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			fsys, err := For(driver)
			if err != nil {
				t.Fatalf("For(%q) error = %v, want nil", driver, err)
			}
			content, err := fs.ReadFile(fsys, "001_dictionary.sql")
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if len(content) == 0 {
				t.Error("001_dictionary.sql is empty")
			}
		})
	}
}

func TestFor_UnknownDriver(t *testing.T) {
	if _, err := For("mysql"); err == nil {
		t.Error("For(mysql) error = nil, want error")
	}
}
