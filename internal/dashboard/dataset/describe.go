package dataset

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
)

// Describe summarizes every numeric column that has at least one finite
// value. Std is the sample standard deviation and stays zero below two values.
func Describe(t *entity.Table) []entity.NumericSummary {
	var out []entity.NumericSummary

	for _, c := range t.Columns {
		if !c.IsNumeric() {
			continue
		}

		data := make(stats.Float64Data, 0, len(c.Values))
		for _, v := range c.Values {
			if v.Missing || math.IsInf(v.Number, 0) || math.IsNaN(v.Number) {
				continue
			}
			data = append(data, v.Number)
		}
		if len(data) == 0 {
			continue
		}

		s := entity.NumericSummary{Column: c.Name, Count: len(data)}
		s.Mean, _ = stats.Mean(data)
		s.Min, _ = stats.Min(data)
		s.Max, _ = stats.Max(data)
		s.Median, _ = stats.Median(data)
		if len(data) > 1 {
			s.Std, _ = stats.StandardDeviationSample(data)
		}

		out = append(out, s)
	}

	return out
}
