package tolerance

import "testing"

func TestAbsolutePriceTolerance(t *testing.T) {
	e := NewEngine(nil)
	tests := []struct {
		model, market float64
		want          bool
	}{
		{100.00, 100.20, true}, // within the 0.25 point default
		{100.00, 100.25, true}, // boundary inclusive
		{100.00, 100.26, false},
	}
	for _, tt := range tests {
		if got := e.IsWithinTolerance(tt.model, tt.market, "clean_price"); got != tt.want {
			t.Fatalf("clean_price %v vs %v: got %v, want %v", tt.model, tt.market, got, tt.want)
		}
	}
}

func TestAbsoluteToleranceSymmetry(t *testing.T) {
	e := NewEngine(nil)
	pairs := [][2]float64{{100.0, 100.2}, {85.1, 85.5}, {0, 0.1}}
	for _, metric := range []string{"clean_price", "g_spread", "yield_to_maturity"} {
		for _, p := range pairs {
			ab := e.IsWithinTolerance(p[0], p[1], metric)
			ba := e.IsWithinTolerance(p[1], p[0], metric)
			if ab != ba {
				t.Fatalf("%s not symmetric for %v", metric, p)
			}
		}
	}
}

func TestBpsToleranceConversion(t *testing.T) {
	e := NewEngine(nil)
	// g_spread tolerance is 0.02 bps-style, compared as 0.0002 after /100.
	if !e.IsWithinTolerance(0.0150, 0.0151, "g_spread") {
		t.Fatalf("1bp difference should pass g_spread")
	}
	if e.IsWithinTolerance(0.0150, 0.0155, "g_spread") {
		t.Fatalf("5bp difference should fail g_spread")
	}
}

func TestRelativeTolerance(t *testing.T) {
	e := NewEngine(nil)
	// duration tolerance is 2% relative
	if !e.IsWithinTolerance(5.05, 5.00, "duration") {
		t.Fatalf("1%% relative error should pass duration")
	}
	if e.IsWithinTolerance(5.25, 5.00, "duration") {
		t.Fatalf("5%% relative error should fail duration")
	}
}

func TestRelativeZeroMarket(t *testing.T) {
	e := NewEngine(nil)
	if !e.IsWithinTolerance(0, 0, "dv01") {
		t.Fatalf("zero model vs zero market must pass")
	}
	if e.IsWithinTolerance(1e-9, 0, "dv01") {
		t.Fatalf("nonzero model vs zero market must fail")
	}
}

func TestOverridesCaseInsensitive(t *testing.T) {
	e := NewEngine(map[string]float64{"G_Spread": 1.0})
	if got := e.Resolve("g_spread"); got != 1.0 {
		t.Fatalf("override not applied: %v", got)
	}
	// 1.0 bps-style override -> 0.01 decimal
	if !e.IsWithinTolerance(0.0150, 0.0230, "g_spread") {
		t.Fatalf("80bp difference should pass with widened override")
	}
}

func TestUnknownMetricDefaults(t *testing.T) {
	e := NewEngine(nil)
	if got := e.Resolve("some_exotic_metric"); got != defaultTolerance {
		t.Fatalf("unknown metric tolerance %v, want %v", got, defaultTolerance)
	}
	// unknown metrics compare absolutely
	if !e.IsWithinTolerance(1.00, 1.04, "some_exotic_metric") {
		t.Fatalf("0.04 absolute should pass the 0.05 default")
	}
}

func TestCheckReturnsRawTolerance(t *testing.T) {
	e := NewEngine(nil)
	within, tol := e.Check(0.0150, 0.0151, "benchmark_spread")
	if !within {
		t.Fatalf("expected pass")
	}
	if tol != 0.02 {
		t.Fatalf("raw tolerance %v, want 0.02", tol)
	}
}
