package models

import (
	"fmt"
	"sort"
	"time"
)

// TreasuryCurve is a government curve snapshot: tenor in years -> yield in
// decimal (0.045 = 4.5%). Built fresh per valuation date and immutable after
// construction; tenors are kept sorted so interpolation can bracket in order.
type TreasuryCurve struct {
	AsOf   time.Time
	yields map[float64]float64
	tenors []float64
}

// NewTreasuryCurve validates and freezes a curve snapshot. At least one point
// is required; duplicate tenors cannot occur since the input is a map.
func NewTreasuryCurve(asOf time.Time, points map[float64]float64) (*TreasuryCurve, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("treasury curve: no points for %s", asOf.Format("2006-01-02"))
	}
	yields := make(map[float64]float64, len(points))
	tenors := make([]float64, 0, len(points))
	for tenor, y := range points {
		if tenor <= 0 {
			return nil, fmt.Errorf("treasury curve: non-positive tenor %v", tenor)
		}
		yields[tenor] = y
		tenors = append(tenors, tenor)
	}
	sort.Float64s(tenors)
	return &TreasuryCurve{AsOf: asOf, yields: yields, tenors: tenors}, nil
}

// Tenors returns the curve tenors in ascending order. Callers must not mutate
// the returned slice.
func (c *TreasuryCurve) Tenors() []float64 {
	return c.tenors
}

// Yield returns the yield at an exact tenor key.
func (c *TreasuryCurve) Yield(tenor float64) (float64, bool) {
	y, ok := c.yields[tenor]
	return y, ok
}

func (c *TreasuryCurve) Len() int {
	return len(c.tenors)
}
