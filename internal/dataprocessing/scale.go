package dataprocessing

import (
	"olympicstats/pkg/contracts/domain"
)

// StandardScale returns a copy of t with each named column replaced by its
// z-score, using the population standard deviation. A constant column scales
// to 0. Missing cells stay missing and absent columns are ignored. With no
// columns named, the measurement columns are scaled.
func StandardScale(t *domain.Table, columns ...string) *domain.Table {
	if len(columns) == 0 {
		columns = domain.MeasurementColumns
	}
	out := t.Clone()
	for _, col := range columns {
		idx, ok := out.Index(col)
		if !ok {
			continue
		}
		xs := numbers(out, idx)
		if len(xs) == 0 {
			continue
		}
		mu := mean(xs)
		sd := stddev(xs, mu)

		for i := 0; i < out.Len(); i++ {
			row := out.Row(i)
			x, ok := row[idx].Float()
			if !ok {
				continue
			}
			z := 0.0
			if sd > 0 {
				z = (x - mu) / sd
			}
			row[idx] = domain.NumberValue(z)
		}
	}
	return out
}
