package models

import (
	"math"
	"testing"
	"time"
)

func result(cusip, metric string, diff float64, within bool) ValidationResult {
	return ValidationResult{
		CUSIP:           cusip,
		Date:            time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Metric:          metric,
		ModelValue:      100 + diff,
		MarketValue:     100,
		Difference:      diff,
		WithinTolerance: within,
	}
}

func TestMetricStatistics(t *testing.T) {
	rs := []ValidationResult{
		result("A", "g_spread", 1.0, true),
		result("A", "g_spread", -1.0, true),
		result("B", "g_spread", 3.0, false),
		result("B", "g_spread", -3.0, false),
	}
	s := NewMetricStatistics("g_spread", rs)
	if s.Count != 4 || s.Passed != 2 || s.Failed != 2 {
		t.Fatalf("counts %d/%d/%d", s.Count, s.Passed, s.Failed)
	}
	if s.PassRate != 0.5 {
		t.Fatalf("pass rate %v", s.PassRate)
	}
	if s.MeanError != 0 {
		t.Fatalf("mean error %v, want 0 for symmetric diffs", s.MeanError)
	}
	if s.MeanAbsoluteError != 2.0 {
		t.Fatalf("mae %v, want 2.0", s.MeanAbsoluteError)
	}
	wantRMSE := math.Sqrt((1 + 1 + 9 + 9) / 4.0)
	if math.Abs(s.RootMeanSquareErr-wantRMSE) > 1e-12 {
		t.Fatalf("rmse %v, want %v", s.RootMeanSquareErr, wantRMSE)
	}
	if s.MaxAbsoluteError != 3.0 {
		t.Fatalf("max abs %v", s.MaxAbsoluteError)
	}
	if s.AbsErrorPercentile[50] != 2.0 {
		t.Fatalf("median abs error %v, want 2.0", s.AbsErrorPercentile[50])
	}
}

func TestMetricStatisticsEmpty(t *testing.T) {
	s := NewMetricStatistics("duration", nil)
	if s.Count != 0 || s.PassRate != 0 {
		t.Fatalf("empty stats should be zero: %+v", s)
	}
}

func TestBuildReport(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	rs := []ValidationResult{
		result("A", "g_spread", 0.5, true),
		result("A", "duration", 0.1, true),
		result("B", "g_spread", 4.0, false),
	}
	rep := BuildReport(rs, start, end)
	if rep.BondsValidated != 2 {
		t.Fatalf("bonds validated %d, want 2", rep.BondsValidated)
	}
	if rep.TotalValidations != 3 || rep.PassedValidations != 2 || rep.FailedValidations != 1 {
		t.Fatalf("totals %d/%d/%d", rep.TotalValidations, rep.PassedValidations, rep.FailedValidations)
	}
	if math.Abs(rep.SuccessRate-2.0/3.0) > 1e-12 {
		t.Fatalf("success rate %v", rep.SuccessRate)
	}
	if len(rep.Failures) != 1 || rep.Failures[0].CUSIP != "B" {
		t.Fatalf("failures %+v", rep.Failures)
	}
	if len(rep.MetricStats) != 2 {
		t.Fatalf("metric stats %v", rep.MetricStats)
	}
	rows := rep.Rows()
	if len(rows) != 2 || rows[0].Metric != "duration" || rows[1].Metric != "g_spread" {
		t.Fatalf("rows not sorted by metric: %+v", rows)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	rep := BuildReport(nil, time.Now(), time.Now())
	if rep.TotalValidations != 0 || rep.SuccessRate != 0 {
		t.Fatalf("empty report should be zero: %+v", rep)
	}
	if rep.Failures == nil || rep.MetricStats == nil {
		t.Fatalf("empty report collections must be non-nil")
	}
}

func TestQuantileInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	if got := quantile(sorted, 0.5); got != 2.5 {
		t.Fatalf("median %v, want 2.5", got)
	}
	if got := quantile(sorted, 0.25); got != 1.75 {
		t.Fatalf("q25 %v, want 1.75", got)
	}
	if got := quantile(sorted, 1.0); got != 4 {
		t.Fatalf("q100 %v, want 4", got)
	}
}
