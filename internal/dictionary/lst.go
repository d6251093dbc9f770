// internal/dictionary/lst.go
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/solatis/craftbook/internal/types"
)

/*
 * LST name lists.
 *
 * One name per line; the zero-based line number is the identifier. Blank
 * lines and '#' comment lines hold no name but still consume their index, so
 * identifiers stay stable when entries are commented out. Trailing
 * whitespace and '\r' are ignored.
 *
 * A dictionary directory holds one file per namespace, named after
 * Meaning.FileName: ParamNames.lst and ItemNames.lst.
 */

// LSTExt is the file extension of name lists.
const LSTExt = ".lst"

// ReadLST reads a name list.
func ReadLST(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	var id uint32
	for ; scanner.Scan(); id++ {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("line %d: name %q contains whitespace", id+1, name)
		}
		entries = append(entries, Entry{ID: id, Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read name list: %w", err)
	}
	return entries, nil
}

// LoadLSTFile reads one name list from disk.
func LoadLSTFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := ReadLST(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// LoadDir builds a Table from the name lists in dir.
// A missing namespace file leaves that namespace empty.
func LoadDir(dir string) (*Table, error) {
	table := NewTable()
	for _, meaning := range types.Meanings() {
		path := filepath.Join(dir, meaning.FileName()+LSTExt)
		entries, err := LoadLSTFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := table.AddAll(meaning, entries); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return table, nil
}
