package repository

import (
	"context"
	"errors"
	"time"

	"BondLens/internal/domain/models"
)

// ErrNotFound signals that the provider has no data for an (instrument, date)
// cell. A batch run treats it as a recoverable skip, not a failure of the run.
var ErrNotFound = errors.New("data not found")

// DataProvider supplies reference, quote, curve and historical-analytics data.
// Implementations must be safe for concurrent use: batch cells may be
// processed in parallel.
type DataProvider interface {
	GetBondReference(ctx context.Context, cusip string) (*models.BondReference, error)
	GetMarketQuote(ctx context.Context, cusip string, asOf time.Time) (*models.MarketQuote, error)
	GetTreasuryCurve(ctx context.Context, asOf time.Time) (*models.TreasuryCurve, error)
	GetAnalyticsRow(ctx context.Context, cusip string, asOf time.Time) (*models.AnalyticsRow, error)
	GetAnalyticsRange(ctx context.Context, cusip string, start, end time.Time) ([]models.AnalyticsRow, error)
	GetBondUniverse(ctx context.Context, asOf time.Time) ([]string, error)
	Health(ctx context.Context) error
	Close() error
}

// ReportPublisher ships a finished report (and its skip diagnostics) to an
// external sink.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report *models.ValidationReport) error
	PublishFailures(ctx context.Context, failures []models.ValidationResult) error
	Close() error
}

// Metrics records operational counters for batch runs.
type Metrics interface {
	RecordCell(outcome string) // processed, skipped
	RecordValidation(metric string, passed bool)
	RecordBatchDuration(seconds float64)
	RecordSuccessRate(rate float64)
	RecordProviderLatency(op string, seconds float64)
}
