package calculation

import (
	"sort"

	"github.com/rpgo/fire-engine/internal/domain"
)

// Percentile returns the p-th percentile (0-100) of sorted values using linear
// interpolation between closest ranks. An empty slice yields 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n == 1 || p <= 0:
		return sorted[0]
	case p >= 100:
		return sorted[n-1]
	}
	rank := p / 100 * float64(n-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// PercentileTable sorts a copy of values and reads the five reported percentiles.
func PercentileTable(values []float64) domain.PercentileRanges {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return domain.PercentileRanges{
		P10: Percentile(sorted, 10),
		P25: Percentile(sorted, 25),
		P50: Percentile(sorted, 50),
		P75: Percentile(sorted, 75),
		P90: Percentile(sorted, 90),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
