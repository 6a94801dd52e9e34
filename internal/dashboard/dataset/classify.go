package dataset

import "github.com/shandysiswandi/godash/internal/dashboard/entity"

// NumericColumns returns the names of numeric columns in table order.
func NumericColumns(t *entity.Table) []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.IsNumeric() {
			names = append(names, c.Name)
		}
	}
	return names
}
