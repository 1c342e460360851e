package dataset

import (
	"fmt"
	"strings"
)

// Table is an in-memory columnar dataset. Columns are ordered, named, and
// equal length. Cells are raw strings as loaded; the empty string is the
// missing-value form. Row order is the dataset's canonical order.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// Column is one named value sequence of a Table.
type Column struct {
	Name   string
	Values []string
}

// New builds a Table from columns, validating the shape invariants.
func New(cols []Column) (*Table, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("table needs at least one column")
	}
	t := &Table{index: make(map[string]int, len(cols))}
	n := len(cols[0].Values)
	for i, c := range cols {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		if len(c.Values) != n {
			return nil, fmt.Errorf("column %q has %d values, want %d", name, len(c.Values), n)
		}
		c.Name = name
		t.index[name] = i
		t.cols = append(t.cols, c)
	}
	t.rows = n
	return t, nil
}

// FromRows builds a Table from a header row plus data rows, the shape every
// loader produces. Short rows are padded with empty cells, long rows
// truncated to the header width.
func FromRows(header []string, rows [][]string) (*Table, error) {
	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name, Values: make([]string, len(rows))}
	}
	for r, row := range rows {
		for c := range header {
			if c < len(row) {
				cols[c].Values[r] = row[c]
			}
		}
	}
	return New(cols)
}

// NumRows reports the row count.
func (t *Table) NumRows() int { return t.rows }

// NumCols reports the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether a column with that name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the values of the named column. The returned slice is the
// table's own storage; callers must not mutate it.
func (t *Table) Column(name string) ([]string, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i].Values, true
}

// Row materializes row i as a slice in column order.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.cols))
	for c := range t.cols {
		out[c] = t.cols[c].Values[i]
	}
	return out
}

// Rows materializes the rows at the given indices, preserving the order of
// the index slice.
func (t *Table) Rows(indices []int) [][]string {
	out := make([][]string, len(indices))
	for k, i := range indices {
		out[k] = t.Row(i)
	}
	return out
}

// IsMissing reports whether a cell value is the missing form.
func IsMissing(v string) bool { return strings.TrimSpace(v) == "" }
