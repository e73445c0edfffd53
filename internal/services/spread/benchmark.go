package spread

import (
	"errors"
	"math"
	"sort"

	"BondLens/internal/domain/models"
)

// ErrNoBenchmark is the fatal "no benchmark available" condition: no step-down
// table for the issuance tenor and no curve point within the closeness window.
var ErrNoBenchmark = errors.New("no benchmark tenor available")

// NearestTenorWindow bounds the nearest-neighbor fallback: curve points
// farther than this from the target are not candidates.
const NearestTenorWindow = 0.25

// Threshold is one step of a step-down rule: at or above MinYears to workout,
// the benchmark is Tenor.
type Threshold struct {
	MinYears float64 `yaml:"min_years" json:"min_years"`
	Tenor    float64 `yaml:"tenor" json:"tenor"`
}

// Rule maps an original issuance tenor to its step-down thresholds, ordered
// from highest MinYears to lowest. The last entry should carry MinYears 0 so
// it acts as the floor.
type Rule map[int][]Threshold

// DefaultRule carries the only certified step-down table: a bond issued
// against the 10y OTR stays with the 10y down to 7 years to workout, then
// steps to 5y at 3, to 3y at 2, floored at 2y. Other issuance tenors use the
// nearest-tenor fallback unless extra tables are configured.
func DefaultRule() Rule {
	return Rule{
		10: {
			{MinYears: 7, Tenor: 10},
			{MinYears: 3, Tenor: 5},
			{MinYears: 2, Tenor: 3},
			{MinYears: 0, Tenor: 2},
		},
	}
}

// Normalize sorts each threshold list from highest MinYears down, which the
// selection walk relies on. Config-supplied tables go through this once.
func (r Rule) Normalize() {
	for tenor := range r {
		list := r[tenor]
		sort.Slice(list, func(i, j int) bool { return list[i].MinYears > list[j].MinYears })
		r[tenor] = list
	}
}

// SelectTenor picks the benchmark OTR tenor for a bond of the given original
// issuance tenor at the given time to workout. A tie (timeToWorkout equal to
// a threshold) stays with that threshold's tenor, the higher one.
func SelectTenor(rule Rule, curve *models.TreasuryCurve, originalTenor int, timeToWorkout float64) (float64, error) {
	thresholds, ok := rule[originalTenor]
	if !ok || len(thresholds) == 0 {
		return nearestTenor(curve, timeToWorkout)
	}
	for _, th := range thresholds {
		if timeToWorkout >= th.MinYears {
			return th.Tenor, nil
		}
	}
	// below every threshold: the table floor
	return thresholds[len(thresholds)-1].Tenor, nil
}

// BenchmarkYield resolves a chosen tenor to a curve yield: exact key lookup,
// else the nearest curve tenor within the closeness window.
func BenchmarkYield(curve *models.TreasuryCurve, tenor float64) (float64, error) {
	if y, ok := curve.Yield(tenor); ok {
		return y, nil
	}
	nearest, err := nearestTenor(curve, tenor)
	if err != nil {
		return 0, err
	}
	y, _ := curve.Yield(nearest)
	return y, nil
}

func nearestTenor(curve *models.TreasuryCurve, target float64) (float64, error) {
	best := 0.0
	bestDiff := NearestTenorWindow
	found := false
	for _, tenor := range curve.Tenors() {
		if diff := math.Abs(tenor - target); diff < bestDiff {
			bestDiff = diff
			best = tenor
			found = true
		}
	}
	if !found {
		return 0, ErrNoBenchmark
	}
	return best, nil
}
