package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"BondLens/internal/domain/models"
	domrepo "BondLens/internal/domain/repository"
	"BondLens/internal/services/tolerance"
	xlogger "BondLens/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordCell(string)                     {}
func (nopMetrics) RecordValidation(string, bool)         {}
func (nopMetrics) RecordBatchDuration(float64)           {}
func (nopMetrics) RecordSuccessRate(float64)             {}
func (nopMetrics) RecordProviderLatency(string, float64) {}

// fakeProvider serves deterministic data and fails engineered cells.
type fakeProvider struct {
	failing  map[string]bool // "CUSIP|YYYY-MM-DD"
	universe []string
}

func cellKey(cusip string, d time.Time) string {
	return fmt.Sprintf("%s|%s", cusip, d.Format("2006-01-02"))
}

func (p *fakeProvider) GetBondReference(_ context.Context, cusip string) (*models.BondReference, error) {
	return &models.BondReference{
		CUSIP:           cusip,
		FaceValue:       1000,
		IssueDate:       time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC),
		Maturity:        time.Date(2030, 3, 15, 0, 0, 0, 0, time.UTC),
		CouponRate:      0.045,
		CouponFrequency: 2,
		DayCount:        "30/360",
		BenchmarkTenor:  10,
	}, nil
}

func (p *fakeProvider) GetMarketQuote(_ context.Context, cusip string, asOf time.Time) (*models.MarketQuote, error) {
	if p.failing[cellKey(cusip, asOf)] {
		return nil, domrepo.ErrNotFound
	}
	return &models.MarketQuote{
		CUSIP:     cusip,
		Timestamp: asOf,
		MidPrice:  99.5,
		MidYield:  0.046,
		Source:    "COMPOSITE",
	}, nil
}

func (p *fakeProvider) GetTreasuryCurve(_ context.Context, asOf time.Time) (*models.TreasuryCurve, error) {
	return models.NewTreasuryCurve(asOf, map[float64]float64{
		2: 0.040, 3: 0.041, 5: 0.042, 10: 0.045,
	})
}

func (p *fakeProvider) GetAnalyticsRow(_ context.Context, cusip string, asOf time.Time) (*models.AnalyticsRow, error) {
	return &models.AnalyticsRow{
		CUSIP:           cusip,
		Date:            asOf,
		MidPrice:        99.5,
		MidYield:        0.046,
		GSpread:         45.0,
		BenchmarkSpread: 40.0,
		Duration:        4.2,
		Convexity:       21.0,
		DV01:            0.042,
		Source:          "VENDOR",
	}, nil
}

func (p *fakeProvider) GetAnalyticsRange(_ context.Context, cusip string, start, end time.Time) ([]models.AnalyticsRow, error) {
	return nil, nil
}

func (p *fakeProvider) GetBondUniverse(_ context.Context, _ time.Time) ([]string, error) {
	return p.universe, nil
}

func (p *fakeProvider) Health(context.Context) error { return nil }
func (p *fakeProvider) Close() error                 { return nil }

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newValidator(p domrepo.DataProvider, workers int, t *testing.T) *BatchValidator {
	return NewBatchValidator(p, tolerance.NewEngine(nil), nopMetrics{}, testLogger(t), nil, nil, true, workers)
}

// capturingPublisher records what a run ships downstream.
type capturingPublisher struct {
	reports  []*models.ValidationReport
	failures [][]models.ValidationResult
}

func (p *capturingPublisher) PublishReport(_ context.Context, report *models.ValidationReport) error {
	p.reports = append(p.reports, report)
	return nil
}

func (p *capturingPublisher) PublishFailures(_ context.Context, failures []models.ValidationResult) error {
	p.failures = append(p.failures, failures)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func TestBatchCompletenessUnderPartialFailure(t *testing.T) {
	// Mon 2025-06-02 .. Fri 2025-06-06: 5 business days, 2 instruments.
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	failing := map[string]bool{
		"AAA|2025-06-03": true,
		"BBB|2025-06-03": true,
		"BBB|2025-06-05": true,
	}
	p := &fakeProvider{failing: failing}
	v := newValidator(p, 1, t)

	rep, err := v.Run(context.Background(), []string{"AAA", "BBB"}, start, end, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// 10 cells - 3 failing = 7 cells, each producing 6 metrics
	// (clean_price, g_spread, benchmark_spread, duration, convexity, dv01).
	if rep.TotalValidations != 7*6 {
		t.Fatalf("total validations %d, want %d", rep.TotalValidations, 7*6)
	}
	if rep.BondsValidated != 2 {
		t.Fatalf("bonds validated %d, want 2", rep.BondsValidated)
	}
	if rep.TotalValidations != rep.PassedValidations+rep.FailedValidations {
		t.Fatalf("pass/fail counts inconsistent: %+v", rep)
	}
}

func TestBatchParallelMatchesSequential(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	p := &fakeProvider{}

	seq, err := newValidator(p, 1, t).Run(context.Background(), []string{"AAA", "BBB", "CCC"}, start, end, []string{GroupSpreads})
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	par, err := newValidator(p, 4, t).Run(context.Background(), []string{"AAA", "BBB", "CCC"}, start, end, []string{GroupSpreads})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}
	if seq.TotalValidations != par.TotalValidations {
		t.Fatalf("parallel totals diverge: %d vs %d", seq.TotalValidations, par.TotalValidations)
	}
	if seq.PassedValidations != par.PassedValidations {
		t.Fatalf("parallel pass counts diverge: %d vs %d", seq.PassedValidations, par.PassedValidations)
	}
}

func TestBatchWeekendsExcluded(t *testing.T) {
	// Sat+Sun only: zero cells, empty report, no error.
	sat := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	sun := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	rep, err := newValidator(&fakeProvider{}, 1, t).Run(context.Background(), []string{"AAA"}, sat, sun, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.TotalValidations != 0 {
		t.Fatalf("weekend-only range produced %d validations", rep.TotalValidations)
	}
}

func TestBatchArgumentErrors(t *testing.T) {
	v := newValidator(&fakeProvider{}, 1, t)
	d := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if _, err := v.Run(context.Background(), nil, d, d, nil); err == nil {
		t.Fatalf("expected error for empty instrument list")
	}
	if _, err := v.Run(context.Background(), []string{"AAA"}, d, d.AddDate(0, 0, -7), nil); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestRunRejectsUnknownGroup(t *testing.T) {
	// A typo in the group list must fail loudly, not drain every cell into
	// the skip path and hand back an empty report.
	v := newValidator(&fakeProvider{}, 1, t)
	d := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if _, err := v.Run(context.Background(), []string{"AAA"}, d, d, []string{GroupSpreads, "bogus"}); err == nil {
		t.Fatalf("expected error for unknown metric group")
	}

	rep, err := v.Run(context.Background(), []string{"AAA"}, d, d, []string{GroupSpreads})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.TotalValidations != 2 {
		t.Fatalf("spreads group produced %d validations, want 2", rep.TotalValidations)
	}
}

func TestRunShipsReportToPublisher(t *testing.T) {
	pub := &capturingPublisher{}
	v := NewBatchValidator(&fakeProvider{}, tolerance.NewEngine(nil), nopMetrics{}, testLogger(t), pub, nil, true, 1)
	d := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	rep, err := v.Run(context.Background(), []string{"AAA"}, d, d, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(pub.reports) != 1 {
		t.Fatalf("published %d reports, want 1", len(pub.reports))
	}
	if pub.reports[0].TotalValidations != rep.TotalValidations {
		t.Fatalf("published report diverges from returned report")
	}
	if len(pub.failures) != 1 || len(pub.failures[0]) != len(rep.Failures) {
		t.Fatalf("published failures do not match report failures")
	}
}

func TestRunSingleDateUsesUniverse(t *testing.T) {
	p := &fakeProvider{universe: []string{"AAA", "BBB", "CCC"}}
	d := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	rep, err := newValidator(p, 1, t).RunSingleDate(context.Background(), d, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.BondsValidated != 3 {
		t.Fatalf("bonds validated %d, want universe size 3", rep.BondsValidated)
	}
}

func TestSingleShotPropagatesFailure(t *testing.T) {
	d := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	p := &fakeProvider{failing: map[string]bool{"AAA|2025-06-03": true}}
	v := newValidator(p, 1, t)
	if _, err := v.ValidateSpreads(context.Background(), "AAA", d); err == nil {
		t.Fatalf("single-shot validation must propagate the fetch error")
	}
}
