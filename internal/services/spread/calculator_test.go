package spread

import (
	"errors"
	"math"
	"testing"
	"time"

	"BondLens/internal/domain/models"
	"BondLens/internal/services/bond"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// fourYearBond matures exactly 4.0 years (30/360) after settlement.
func fourYearBond(t *testing.T) *bond.FixedRateBond {
	t.Helper()
	b, err := bond.New(&models.BondReference{
		CUSIP:           "459200JR5",
		FaceValue:       1000,
		IssueDate:       date(2021, 3, 15),
		Maturity:        date(2029, 3, 15),
		CouponRate:      0.05,
		CouponFrequency: 2,
		DayCount:        "30/360",
		BenchmarkTenor:  10,
	}, date(2025, 3, 15))
	if err != nil {
		t.Fatalf("bond: %v", err)
	}
	return b
}

func TestSpreadFromPriceExampleScenario(t *testing.T) {
	c := mustCurve(t, map[float64]float64{2: 0.040, 5: 0.042, 10: 0.045})
	b := fourYearBond(t)
	calc, err := NewCalculator(b, c, nil, 10, false)
	if err != nil {
		t.Fatalf("calculator: %v", err)
	}

	// On a coupon date at par, the workout yield equals the 5% coupon.
	res, ws, err := calc.SpreadFromPrice(100.0)
	if err != nil {
		t.Fatalf("spread: %v", err)
	}
	if ws.UsedCall {
		t.Fatalf("vanilla bond must not use call")
	}
	if math.Abs(ws.TimeToWorkout-4.0) > 1e-9 {
		t.Fatalf("time to workout %v, want 4.0", ws.TimeToWorkout)
	}

	interp := 0.040 + (2.0/3.0)*0.002 // ≈ 0.041333
	if math.Abs(res.GSpread-(0.05-interp)) > 1e-6 {
		t.Fatalf("g-spread %v, want %v", res.GSpread, 0.05-interp)
	}
	if math.Abs(res.BenchmarkSpread-0.008) > 1e-6 {
		t.Fatalf("benchmark spread %v, want 0.008", res.BenchmarkSpread)
	}
}

func TestPriceSpreadRoundTrip(t *testing.T) {
	c := mustCurve(t, map[float64]float64{2: 0.040, 5: 0.042, 10: 0.045})
	b := fourYearBond(t)
	calc, err := NewCalculator(b, c, nil, 10, false)
	if err != nil {
		t.Fatalf("calculator: %v", err)
	}

	for _, price := range []float64{96.25, 100.0, 103.5} {
		res, _, err := calc.SpreadFromPrice(price)
		if err != nil {
			t.Fatalf("spread(%v): %v", price, err)
		}
		back, err := calc.PriceFromSpread(res.GSpread, KindGSpread)
		if err != nil {
			t.Fatalf("price from g-spread: %v", err)
		}
		if math.Abs(back-price) > 1e-6 {
			t.Fatalf("g round trip %v -> %v", price, back)
		}
		back, err = calc.PriceFromSpread(res.BenchmarkSpread, KindBenchmark)
		if err != nil {
			t.Fatalf("price from benchmark: %v", err)
		}
		if math.Abs(back-price) > 1e-6 {
			t.Fatalf("benchmark round trip %v -> %v", price, back)
		}
	}
}

func TestPriceFromSpreadUnknownKind(t *testing.T) {
	c := mustCurve(t, map[float64]float64{2: 0.040, 5: 0.042, 10: 0.045})
	calc, err := NewCalculator(fourYearBond(t), c, nil, 10, false)
	if err != nil {
		t.Fatalf("calculator: %v", err)
	}
	if _, err := calc.PriceFromSpread(0.01, Kind("z_spread")); !errors.Is(err, ErrUnknownSpreadKind) {
		t.Fatalf("expected ErrUnknownSpreadKind, got %v", err)
	}
}

func TestWorkoutPrefersCallWhenAvailable(t *testing.T) {
	b, err := bond.New(&models.BondReference{
		CUSIP:           "037833AB2",
		FaceValue:       1000,
		IssueDate:       date(2021, 3, 15),
		Maturity:        date(2031, 3, 15),
		CouponRate:      0.05,
		CouponFrequency: 2,
		DayCount:        "30/360",
		CallSchedule:    []models.CallFeature{{Date: date(2027, 3, 15), Price: 100}},
		BenchmarkTenor:  10,
	}, date(2025, 3, 15))
	if err != nil {
		t.Fatalf("bond: %v", err)
	}

	ws, err := ResolveWorkout(b, true, 104.0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !ws.UsedCall {
		t.Fatalf("expected call workout")
	}
	if math.Abs(ws.TimeToWorkout-2.0) > 1e-9 {
		t.Fatalf("time to workout %v, want 2.0", ws.TimeToWorkout)
	}

	// With the preference off, the same bond works out to maturity.
	ws, err = ResolveWorkout(b, false, 104.0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ws.UsedCall {
		t.Fatalf("preference off must use maturity")
	}
}

type failingCallBond struct {
	*bond.FixedRateBond
}

func (f failingCallBond) YieldToCall(float64) (float64, error) {
	return 0, errors.New("solver blew up")
}

func (f failingCallBond) TimeToCall() (float64, bool) { return 2.0, true }

func TestWorkoutDegradesToMaturityOnCallFailure(t *testing.T) {
	b := failingCallBond{fourYearBond(t)}
	ws, err := ResolveWorkout(b, true, 100.0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ws.UsedCall {
		t.Fatalf("call failure must degrade to maturity")
	}
	if math.Abs(ws.TimeToWorkout-4.0) > 1e-9 {
		t.Fatalf("fallback horizon %v, want maturity 4.0", ws.TimeToWorkout)
	}
}
