package repository

import (
	"context"
	"time"

	"BondLens/internal/domain/models"
	domrepo "BondLens/internal/domain/repository"
)

// InstrumentedProvider records per-operation latency for any DataProvider.
// Wrapped outermost so cache hits are timed too.
type InstrumentedProvider struct {
	inner   domrepo.DataProvider
	metrics domrepo.Metrics
}

func NewInstrumentedProvider(inner domrepo.DataProvider, m domrepo.Metrics) domrepo.DataProvider {
	return &InstrumentedProvider{inner: inner, metrics: m}
}

func (p *InstrumentedProvider) observe(op string, began time.Time) {
	p.metrics.RecordProviderLatency(op, time.Since(began).Seconds())
}

func (p *InstrumentedProvider) GetBondReference(ctx context.Context, cusip string) (*models.BondReference, error) {
	defer p.observe("reference", time.Now())
	return p.inner.GetBondReference(ctx, cusip)
}

func (p *InstrumentedProvider) GetMarketQuote(ctx context.Context, cusip string, asOf time.Time) (*models.MarketQuote, error) {
	defer p.observe("quote", time.Now())
	return p.inner.GetMarketQuote(ctx, cusip, asOf)
}

func (p *InstrumentedProvider) GetTreasuryCurve(ctx context.Context, asOf time.Time) (*models.TreasuryCurve, error) {
	defer p.observe("curve", time.Now())
	return p.inner.GetTreasuryCurve(ctx, asOf)
}

func (p *InstrumentedProvider) GetAnalyticsRow(ctx context.Context, cusip string, asOf time.Time) (*models.AnalyticsRow, error) {
	defer p.observe("analytics", time.Now())
	return p.inner.GetAnalyticsRow(ctx, cusip, asOf)
}

func (p *InstrumentedProvider) GetAnalyticsRange(ctx context.Context, cusip string, start, end time.Time) ([]models.AnalyticsRow, error) {
	defer p.observe("analytics_range", time.Now())
	return p.inner.GetAnalyticsRange(ctx, cusip, start, end)
}

func (p *InstrumentedProvider) GetBondUniverse(ctx context.Context, asOf time.Time) ([]string, error) {
	defer p.observe("universe", time.Now())
	return p.inner.GetBondUniverse(ctx, asOf)
}

func (p *InstrumentedProvider) Health(ctx context.Context) error { return p.inner.Health(ctx) }
func (p *InstrumentedProvider) Close() error                     { return p.inner.Close() }
