package roster

import (
	"fmt"
	"slices"
	"strings"

	"pcsurvey/internal/fileutil"
)

const (
	ColumnFirst = "first"
	ColumnLast  = "last"
	ColumnEmail = "email"
)

// Entry is one roster row with its column order preserved.
type Entry struct {
	columns []string
	values  map[string]string
}

// NewEntry pairs columns with values. Missing trailing values are empty.
func NewEntry(columns, values []string) *Entry {
	e := &Entry{values: make(map[string]string, len(columns))}
	for i, column := range columns {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		e.Set(column, value)
	}
	return e
}

// Get returns the value stored under column.
func (e *Entry) Get(column string) (string, bool) {
	v, ok := e.values[column]
	return v, ok
}

// Set stores value, appending column when it is new.
func (e *Entry) Set(column, value string) {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if _, ok := e.values[column]; !ok {
		e.columns = append(e.columns, column)
	}
	e.values[column] = value
}

// Columns returns the column names in order.
func (e *Entry) Columns() []string {
	return slices.Clone(e.columns)
}

// Values returns the values for columns, empty where a column is unset.
func (e *Entry) Values(columns []string) []string {
	out := make([]string, len(columns))
	for i, column := range columns {
		out[i] = e.values[column]
	}
	return out
}

// Name returns "first last", the key responses are matched on.
func (e *Entry) Name() string {
	return strings.TrimSpace(e.values[ColumnFirst] + " " + e.values[ColumnLast])
}

// Email returns the roster email, if any.
func (e *Entry) Email() string {
	return strings.TrimSpace(e.values[ColumnEmail])
}

// Roster is a parsed roster export.
type Roster struct {
	Columns []string
	Entries []*Entry
}

// Read parses a comma-delimited roster export. The first and last columns
// are required.
func Read(path string) (*Roster, error) {
	table, err := fileutil.ReadDelimited(path, ',')
	if err != nil {
		return nil, err
	}
	for _, required := range []string{ColumnFirst, ColumnLast} {
		if !slices.Contains(table.Header, required) {
			return nil, fmt.Errorf("roster %s: missing column %q", path, required)
		}
	}
	r := &Roster{Columns: table.Header, Entries: make([]*Entry, 0, len(table.Rows))}
	for _, row := range table.Rows {
		r.Entries = append(r.Entries, NewEntry(table.Header, row))
	}
	return r, nil
}

// HasEmail reports whether the export carries an email column.
func (r *Roster) HasEmail() bool {
	return slices.Contains(r.Columns, ColumnEmail)
}

// Names returns every member name in roster order.
func (r *Roster) Names() []string {
	names := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		names = append(names, e.Name())
	}
	return names
}

// Emails maps member names to roster emails. A later row wins.
func (r *Roster) Emails() map[string]string {
	out := make(map[string]string, len(r.Entries))
	for _, e := range r.Entries {
		out[e.Name()] = e.Email()
	}
	return out
}

// Write saves entries as CSV. The header is the union of entry columns in
// first-seen order.
func Write(path string, entries []*Entry) error {
	var header []string
	seen := make(map[string]struct{})
	for _, e := range entries {
		for _, column := range e.columns {
			if _, ok := seen[column]; ok {
				continue
			}
			seen[column] = struct{}{}
			header = append(header, column)
		}
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e.Values(header))
	}
	return fileutil.WriteCSV(path, header, rows)
}
