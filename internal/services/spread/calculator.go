package spread

import (
	"errors"
	"fmt"

	"BondLens/internal/domain/models"
)

// Kind selects which spread a price inversion targets.
type Kind string

const (
	KindGSpread   Kind = "g_spread"
	KindBenchmark Kind = "benchmark"
)

// ErrUnknownSpreadKind is fatal: an unsupported selector indicates a caller
// bug, not data noise.
var ErrUnknownSpreadKind = errors.New("unknown spread kind")

// Result holds both spreads in plain decimal (0.0150 = 150 bps).
type Result struct {
	GSpread         float64 `json:"g_spread"`
	BenchmarkSpread float64 `json:"benchmark_spread"`
}

// Calculator computes credit spreads for one bond against one curve snapshot.
// All valuation state is explicit: the bond carries its settlement date, the
// curve its as-of date, and the call preference is fixed at construction.
// Forward (SpreadFromPrice) and inverse (PriceFromSpread) use the same
// configured preference; the workout branch is re-derived on every call
// rather than cached from the previous one.
type Calculator struct {
	bond          Bond
	curve         *models.TreasuryCurve
	rule          Rule
	originalTenor int
	preferCall    bool
}

// NewCalculator wires a calculator. The curve is held as a read-only
// reference owned by the caller.
func NewCalculator(b Bond, curve *models.TreasuryCurve, rule Rule, originalTenor int, preferCall bool) (*Calculator, error) {
	if b == nil {
		return nil, fmt.Errorf("spread calculator: nil bond")
	}
	if curve == nil || curve.Len() == 0 {
		return nil, fmt.Errorf("spread calculator: empty curve")
	}
	if rule == nil {
		rule = DefaultRule()
	}
	return &Calculator{
		bond:          b,
		curve:         curve,
		rule:          rule,
		originalTenor: originalTenor,
		preferCall:    preferCall,
	}, nil
}

// SpreadFromPrice resolves the workout, then computes
// g-spread  = workout yield - curve yield interpolated at time-to-workout,
// benchmark = workout yield - yield of the step-down benchmark tenor.
func (c *Calculator) SpreadFromPrice(cleanPrice float64) (Result, WorkoutSpec, error) {
	ws, err := ResolveWorkout(c.bond, c.preferCall, cleanPrice)
	if err != nil {
		return Result{}, WorkoutSpec{}, err
	}

	gRef := Interpolate(c.curve, ws.TimeToWorkout)

	tenor, err := SelectTenor(c.rule, c.curve, c.originalTenor, ws.TimeToWorkout)
	if err != nil {
		return Result{}, WorkoutSpec{}, err
	}
	benchRef, err := BenchmarkYield(c.curve, tenor)
	if err != nil {
		return Result{}, WorkoutSpec{}, err
	}

	return Result{
		GSpread:         ws.Yield - gRef,
		BenchmarkSpread: ws.Yield - benchRef,
	}, ws, nil
}

// PriceFromSpread adds the spread to the matching reference yield and inverts
// through the workout-consistent pricer.
func (c *Calculator) PriceFromSpread(spread float64, kind Kind) (float64, error) {
	horizon := workoutHorizon(c.bond, c.preferCall)

	var refYield float64
	switch kind {
	case KindGSpread:
		refYield = Interpolate(c.curve, horizon)
	case KindBenchmark:
		tenor, err := SelectTenor(c.rule, c.curve, c.originalTenor, horizon)
		if err != nil {
			return 0, err
		}
		refYield, err = BenchmarkYield(c.curve, tenor)
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSpreadKind, kind)
	}

	return priceFromYield(c.bond, c.preferCall, refYield+spread)
}
