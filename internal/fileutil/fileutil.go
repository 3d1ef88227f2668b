// Package fileutil reads and writes the tabular and JSON files pcsurvey
// exchanges with spreadsheets.
package fileutil

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const utf8BOM = "\uFEFF"

// Table is a delimited file with its header row split out.
type Table struct {
	Header []string
	Rows   [][]string
}

// Records returns each row keyed by header column. Short rows are padded
// with empty strings.
func (t Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make(map[string]string, len(t.Header))
		for i, column := range t.Header {
			if i < len(row) {
				record[column] = row[i]
			} else {
				record[column] = ""
			}
		}
		out = append(out, record)
	}
	return out
}

// ReadDelimited parses a CSV (comma ',') or TSV (comma '\t') file.
func ReadDelimited(path string, comma rune) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	table, err := DecodeDelimited(file, comma)
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	return table, nil
}

// DecodeDelimited parses delimited records from r. A UTF-8 byte order mark
// on the first header cell is dropped and header cells are trimmed.
func DecodeDelimited(r io.Reader, comma rune) (Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, errors.New("missing header row")
	}
	if err != nil {
		return Table{}, err
	}
	seen := make(map[string]struct{}, len(header))
	for i := range header {
		if i == 0 {
			header[i] = strings.TrimPrefix(header[i], utf8BOM)
		}
		header[i] = strings.TrimSpace(header[i])
		if _, dup := seen[header[i]]; dup {
			return Table{}, fmt.Errorf("duplicate header column %q", header[i])
		}
		seen[header[i]] = struct{}{}
	}

	table := Table{Header: header}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, err
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ReadJSON decodes the JSON file at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes v as indented JSON, replacing path atomically.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return WriteAtomic(path, append(data, '\n'))
}

// WriteCSV writes header and rows as comma separated values, replacing path
// atomically.
func WriteCSV(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return WriteAtomic(path, buf.Bytes())
}

// WriteAtomic writes data to a temp file beside path and renames it into place.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
