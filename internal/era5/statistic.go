package era5

import (
	"math"

	"github.com/pkg/errors"
)

// Statistic is a daily aggregation function.
type Statistic int

const (
	Mean Statistic = iota
	Minimum
	Maximum
	// MidRange is the mean of the daily maximum and the daily minimum.
	MidRange
)

var statisticNames = map[string]Statistic{
	"mean":      Mean,
	"min":       Minimum,
	"max":       Maximum,
	"mid-range": MidRange,
}

// ParseStatistic converts "mean", "min", "max" or "mid-range" to a
// Statistic.
func ParseStatistic(name string) (Statistic, error) {
	s, ok := statisticNames[name]
	if !ok {
		return 0, errors.Errorf("unknown statistic %q", name)
	}
	return s, nil
}

func (s Statistic) String() string {
	for name, v := range statisticNames {
		if v == s {
			return name
		}
	}
	return "unknown"
}

// apply aggregates values ignoring NaN. The result is NaN when no value is
// valid.
func (s Statistic) apply(values []float64) float64 {
	var (
		sum      float64
		n        int
		min, max = math.Inf(1), math.Inf(-1)
	)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if n == 0 {
		return math.NaN()
	}
	switch s {
	case Minimum:
		return min
	case Maximum:
		return max
	case MidRange:
		return (max + min) / 2
	default:
		return sum / float64(n)
	}
}
