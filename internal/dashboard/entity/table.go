package entity

import "strconv"

// Value is one cell. Raw keeps the text as read; Number is only meaningful
// for non-missing cells of numeric columns.
type Value struct {
	Raw     string
	Number  float64
	Missing bool
}

// Column is a named, typed sequence of values.
type Column struct {
	Name   string
	Kind   ColumnKind
	Values []Value
}

// IsNumeric reports whether the column was inferred as numeric.
func (c Column) IsNumeric() bool {
	return c.Kind == ColumnKindNumeric
}

// Format renders the i-th value the way it is written back out: missing
// cells are empty and numbers use the shortest exact decimal form.
func (c Column) Format(i int) string {
	v := c.Values[i]
	switch {
	case v.Missing:
		return ""
	case c.Kind == ColumnKindNumeric:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return v.Raw
	}
}

// Table is a parsed dataset. Every column has the same number of values.
type Table struct {
	Columns []Column
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// Column looks a column up by exact name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Row returns the formatted cells of row i.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Format(i)
	}
	return row
}

// Head returns up to n formatted rows from the top of the table.
func (t *Table) Head(n int) [][]string {
	n = min(n, t.Len())
	rows := make([][]string, 0, max(n, 0))
	for i := 0; i < n; i++ {
		rows = append(rows, t.Row(i))
	}
	return rows
}
