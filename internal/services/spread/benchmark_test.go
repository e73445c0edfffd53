package spread

import (
	"errors"
	"testing"
)

func TestSelectTenorStepDown(t *testing.T) {
	rule := DefaultRule()
	c := mustCurve(t, map[float64]float64{2: 0.040, 3: 0.041, 5: 0.042, 10: 0.045})
	tests := []struct {
		ttw  float64
		want float64
	}{
		{9.5, 10},
		{7.0, 10}, // tie stays with the higher tenor
		{6.9, 5},
		{3.0, 5}, // tie
		{2.5, 3},
		{2.0, 3}, // tie
		{1.2, 2},
		{0.1, 2},
	}
	for _, tt := range tests {
		got, err := SelectTenor(rule, c, 10, tt.ttw)
		if err != nil {
			t.Fatalf("select(%v): %v", tt.ttw, err)
		}
		if got != tt.want {
			t.Fatalf("select(%v) = %v, want %v", tt.ttw, got, tt.want)
		}
	}
}

func TestSelectTenorNearestFallback(t *testing.T) {
	c := mustCurve(t, map[float64]float64{2: 0.040, 5: 0.042, 10: 0.045})
	// No table for issuance tenor 7: nearest curve tenor within the window.
	got, err := SelectTenor(DefaultRule(), c, 7, 4.9)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != 5 {
		t.Fatalf("nearest fallback = %v, want 5", got)
	}
}

func TestSelectTenorNoCandidateInWindow(t *testing.T) {
	c := mustCurve(t, map[float64]float64{2: 0.040, 10: 0.045})
	_, err := SelectTenor(DefaultRule(), c, 7, 5.5)
	if !errors.Is(err, ErrNoBenchmark) {
		t.Fatalf("expected ErrNoBenchmark, got %v", err)
	}
}

func TestBenchmarkYieldExactAndNearest(t *testing.T) {
	c := mustCurve(t, map[float64]float64{2: 0.040, 5.1: 0.042, 10: 0.045})
	y, err := BenchmarkYield(c, 10)
	if err != nil || y != 0.045 {
		t.Fatalf("exact lookup: %v %v", y, err)
	}
	// 5 is not a curve key; 5.1 is within the 0.25 window
	y, err = BenchmarkYield(c, 5)
	if err != nil || y != 0.042 {
		t.Fatalf("nearest lookup: %v %v", y, err)
	}
	// 7 is nowhere near a key
	if _, err = BenchmarkYield(c, 7); !errors.Is(err, ErrNoBenchmark) {
		t.Fatalf("expected ErrNoBenchmark, got %v", err)
	}
}

func TestRuleNormalizeOrdersThresholds(t *testing.T) {
	rule := Rule{5: {
		{MinYears: 0, Tenor: 2},
		{MinYears: 3, Tenor: 5},
		{MinYears: 2, Tenor: 3},
	}}
	rule.Normalize()
	c := mustCurve(t, map[float64]float64{2: 0.040, 3: 0.041, 5: 0.042})
	got, err := SelectTenor(rule, c, 5, 2.7)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != 3 {
		t.Fatalf("select after normalize = %v, want 3", got)
	}
}
