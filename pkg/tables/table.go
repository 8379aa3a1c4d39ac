// Package tables provides a loosely-schematized table model for source
// spreadsheets, together with header normalization. Source files arrive with
// arbitrary, uncontrolled column headers (free text, accented, inconsistently
// cased); everything downstream works against the canonical projection
// produced here.
package tables

import "slices"

// Row is a single table row keyed by column name.
type Row map[string]string

// Clone returns a copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns with rows read from one source file.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates a table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row to the table. Cells for unknown columns are kept;
// they are dropped later by the canonical projection.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// Cell returns the cell value for a row index and column, with ok=false
// when the column is absent.
func (t *Table) Cell(i int, column string) (string, bool) {
	if i < 0 || i >= len(t.Rows) {
		return "", false
	}
	v, ok := t.Rows[i][column]
	return v, ok
}
