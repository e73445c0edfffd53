package spread

import "BondLens/internal/domain/models"

// Interpolate returns the curve yield at an exact time-to-workout in years.
// Linear between bracketing tenors, flat beyond either end. Total over any
// finite non-negative t; a one-point curve always returns its single yield.
func Interpolate(curve *models.TreasuryCurve, t float64) float64 {
	tenors := curve.Tenors()
	first, _ := curve.Yield(tenors[0])
	if t <= tenors[0] {
		return first
	}
	last, _ := curve.Yield(tenors[len(tenors)-1])
	if t >= tenors[len(tenors)-1] {
		return last
	}
	for i := 0; i < len(tenors)-1; i++ {
		t1, t2 := tenors[i], tenors[i+1]
		if t1 <= t && t <= t2 {
			y1, _ := curve.Yield(t1)
			y2, _ := curve.Yield(t2)
			weight := (t - t1) / (t2 - t1)
			return y1 + weight*(y2-y1)
		}
	}
	return last
}
