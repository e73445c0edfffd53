package spread

import (
	"math"
	"testing"
	"time"

	"BondLens/internal/domain/models"
)

func mustCurve(t *testing.T, points map[float64]float64) *models.TreasuryCurve {
	t.Helper()
	c, err := models.NewTreasuryCurve(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), points)
	if err != nil {
		t.Fatalf("curve: %v", err)
	}
	return c
}

func TestInterpolateFlatBelowAndAbove(t *testing.T) {
	c := mustCurve(t, map[float64]float64{2: 0.040, 5: 0.042, 10: 0.045})
	for _, tt := range []struct {
		t, want float64
	}{
		{0.0, 0.040},
		{1.9, 0.040},
		{2.0, 0.040},
		{10.0, 0.045},
		{30.0, 0.045},
	} {
		if got := Interpolate(c, tt.t); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("interpolate(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestInterpolateExactAtKnots(t *testing.T) {
	points := map[float64]float64{2: 0.040, 5: 0.042, 10: 0.045}
	c := mustCurve(t, points)
	for tenor, y := range points {
		if got := Interpolate(c, tenor); got != y {
			t.Fatalf("interpolate(%v) = %v, want exactly %v", tenor, got, y)
		}
	}
}

func TestInterpolateLinearBetween(t *testing.T) {
	c := mustCurve(t, map[float64]float64{2: 0.040, 5: 0.042, 10: 0.045})
	// weight (4-2)/(5-2) = 2/3
	want := 0.040 + (2.0/3.0)*0.002
	if got := Interpolate(c, 4.0); math.Abs(got-want) > 1e-12 {
		t.Fatalf("interpolate(4.0) = %v, want %v", got, want)
	}
}

func TestInterpolateSinglePointCurve(t *testing.T) {
	c := mustCurve(t, map[float64]float64{5: 0.042})
	for _, x := range []float64{0, 5, 17.3} {
		if got := Interpolate(c, x); got != 0.042 {
			t.Fatalf("interpolate(%v) = %v on degenerate curve", x, got)
		}
	}
}

func TestEmptyCurveRejected(t *testing.T) {
	if _, err := models.NewTreasuryCurve(time.Now(), map[float64]float64{}); err == nil {
		t.Fatalf("expected error for empty curve")
	}
}
