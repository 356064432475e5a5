package core

// Row maps column names to raw cell values.
type Row map[string]string

// Table is an ordered set of rows sharing one column set. The column set is
// fixed by the first row of the source sheet. Filtering never mutates a
// table in place; every pipeline stage returns a new one.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds a table from a raw values matrix, taking the first row as
// the header. Cells beyond the header width are dropped, short rows are
// padded with empty strings, duplicate header names keep the first cell.
func NewTable(values [][]string) Table {
	if len(values) == 0 {
		return Table{}
	}
	header := values[0]
	t := Table{Columns: append([]string(nil), header...)}
	for _, raw := range values[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if _, ok := row[col]; ok {
				continue
			}
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// HasColumn reports whether the table carries the named column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Project returns a table restricted to the requested columns, in the
// requested order, keeping only those actually present. Asking for nothing
// (or only absent columns while cols is empty) returns the table unchanged.
func (t Table) Project(cols []string) Table {
	if len(cols) == 0 {
		return t
	}
	kept := make([]string, 0, len(cols))
	for _, c := range cols {
		if t.HasColumn(c) {
			kept = append(kept, c)
		}
	}
	out := Table{Columns: kept, Rows: make([]Row, 0, len(t.Rows))}
	for _, r := range t.Rows {
		nr := make(Row, len(kept))
		for _, c := range kept {
			nr[c] = r[c]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// Get returns the cell for the column, or "" when absent.
func (r Row) Get(col string) string {
	return r[col]
}
