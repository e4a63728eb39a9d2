package dataprocessing

import (
	"math"
	"sort"

	"olympicstats/pkg/contracts/domain"
)

// numbers returns the numeric cells of column idx, skipping everything else
func numbers(t *domain.Table, idx int) []float64 {
	out := make([]float64, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if f, ok := t.Row(i)[idx].Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the population standard deviation
func stddev(xs []float64, mu float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var ss float64
	for _, x := range xs {
		d := x - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// quantile uses linear interpolation between closest ranks, the default
// definition of numpy and pandas. sorted must be ascending and non-empty.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (pos-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

// tukeyFences returns Q1, Q3 and the 1.5*IQR fences of xs
func tukeyFences(xs []float64) (q1, q3, lower, upper float64) {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	q1 = quantile(sorted, 0.25)
	q3 = quantile(sorted, 0.75)
	iqr := q3 - q1
	return q1, q3, q1 - 1.5*iqr, q3 + 1.5*iqr
}

// mode returns the most frequent non-missing value of column idx.
// Ties resolve to the smallest value. ok is false for an all-missing column.
func mode(t *domain.Table, idx int) (domain.Value, bool) {
	counts := make(map[string]int)
	values := make(map[string]domain.Value)
	for i := 0; i < t.Len(); i++ {
		v := t.Row(i)[idx]
		if v.IsMissing() {
			continue
		}
		k := domain.Row{v}.Key(0)
		counts[k]++
		values[k] = v
	}

	var (
		best      domain.Value
		bestCount int
	)
	for k, c := range counts {
		v := values[k]
		if c > bestCount || (c == bestCount && v.Less(best)) {
			best, bestCount = v, c
		}
	}
	return best, bestCount > 0
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// centFences narrows [lower, upper] to the widest range whose bounds are
// whole cents. ok is false when no cent lies inside.
func centFences(lower, upper float64) (lo, hi float64, ok bool) {
	lo = math.Ceil(lower*100) / 100
	if lo < lower {
		lo = (math.Ceil(lower*100) + 1) / 100
	}
	hi = math.Floor(upper*100) / 100
	if hi > upper {
		hi = (math.Floor(upper*100) - 1) / 100
	}
	return lo, hi, lo <= hi
}

// round rounds half away from zero to the given number of decimals
func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
