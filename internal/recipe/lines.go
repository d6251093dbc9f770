// internal/recipe/lines.go
package recipe

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

/*
 * Recipe file reading.
 *
 * Two line shapes are accepted and may be mixed:
 *   - message entries "{INDEX}{AUX}{TEXT}", filed under INDEX;
 *   - bare record lines, filed under their 1-based line number.
 *
 * Blank lines and lines starting with '#' are skipped. Legacy recipe files
 * are Windows-1251; Decode converts them to UTF-8 before reading.
 */

const maxLineSize = 1 << 20

// Decode wraps r so it yields UTF-8 text from the named encoding.
// Accepts "utf-8" (or "") and "cp1251" / "windows-1251".
func Decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "cp1251", "windows-1251":
		return charmap.Windows1251.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// ReadLines reads every record line from r.
func ReadLines(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []Line
	lineNo := uint32(0)
	for scanner.Scan() {
		lineNo++
		text := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "{") {
			line, err := messageLine(trimmed)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if line.Text != "" {
				lines = append(lines, line)
			}
			continue
		}
		lines = append(lines, Line{Index: lineNo, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipe lines: %w", err)
	}
	return lines, nil
}

// messageLine splits "{INDEX}{AUX}{TEXT}".
func messageLine(s string) (Line, error) {
	var parts [3]string
	rest := s
	for i := range parts {
		if !strings.HasPrefix(rest, "{") {
			return Line{}, fmt.Errorf("malformed message entry %q: expected '{'", s)
		}
		// The text part may itself contain braces; it runs to the last '}'.
		end := strings.IndexByte(rest, '}')
		if i == len(parts)-1 {
			end = strings.LastIndexByte(rest, '}')
		}
		if end < 0 {
			return Line{}, fmt.Errorf("malformed message entry %q: expected '}'", s)
		}
		parts[i] = rest[1:end]
		rest = rest[end+1:]
	}
	index, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Line{}, fmt.Errorf("malformed message index %q: %w", parts[0], err)
	}
	return Line{Index: uint32(index), Text: parts[2]}, nil
}
