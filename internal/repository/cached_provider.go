package repository

import (
	"context"
	"errors"
	"time"

	"BondLens/internal/domain/models"
	domrepo "BondLens/internal/domain/repository"
	"BondLens/pkg/cache"
)

const (
	referenceTTL = 12 * time.Hour
	curveTTL     = 6 * time.Hour
	quoteTTL     = 30 * time.Minute
)

// CachedProvider decorates a DataProvider with read-through caching for the
// hot lookups of a batch run: references, curves and quotes. A curve is
// shared by every cell on a date, so caching it turns N*M curve reads into M.
// Analytics rows and the universe pass straight through; they are read once
// per cell anyway.
type CachedProvider struct {
	inner domrepo.DataProvider
	cache cache.Service
}

func NewCachedProvider(inner domrepo.DataProvider, c cache.Service) domrepo.DataProvider {
	return &CachedProvider{inner: inner, cache: c}
}

func refKey(cusip string) string { return cache.GenerateKey("ref", cusip) }

func curveKey(asOf time.Time) string {
	return cache.GenerateKey("curve", asOf.Format("2006-01-02"))
}

func quoteKey(cusip string, asOf time.Time) string {
	return cache.GenerateKeyWithParams("quote", cusip, asOf.Format("2006-01-02"))
}

func (p *CachedProvider) GetBondReference(ctx context.Context, cusip string) (*models.BondReference, error) {
	var ref models.BondReference
	if err := p.cache.Get(ctx, refKey(cusip), &ref); err == nil {
		return &ref, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}
	out, err := p.inner.GetBondReference(ctx, cusip)
	if err != nil {
		return nil, err
	}
	_ = p.cache.Set(ctx, refKey(cusip), out, referenceTTL)
	return out, nil
}

func (p *CachedProvider) GetTreasuryCurve(ctx context.Context, asOf time.Time) (*models.TreasuryCurve, error) {
	var snap curveSnapshot
	if err := p.cache.Get(ctx, curveKey(asOf), &snap); err == nil {
		return snap.restore()
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}
	curve, err := p.inner.GetTreasuryCurve(ctx, asOf)
	if err != nil {
		return nil, err
	}
	_ = p.cache.Set(ctx, curveKey(asOf), snapshotCurve(curve), curveTTL)
	return curve, nil
}

func (p *CachedProvider) GetMarketQuote(ctx context.Context, cusip string, asOf time.Time) (*models.MarketQuote, error) {
	var mq models.MarketQuote
	if err := p.cache.Get(ctx, quoteKey(cusip, asOf), &mq); err == nil {
		return &mq, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}
	out, err := p.inner.GetMarketQuote(ctx, cusip, asOf)
	if err != nil {
		return nil, err
	}
	_ = p.cache.Set(ctx, quoteKey(cusip, asOf), out, quoteTTL)
	return out, nil
}

func (p *CachedProvider) GetAnalyticsRow(ctx context.Context, cusip string, asOf time.Time) (*models.AnalyticsRow, error) {
	return p.inner.GetAnalyticsRow(ctx, cusip, asOf)
}

func (p *CachedProvider) GetAnalyticsRange(ctx context.Context, cusip string, start, end time.Time) ([]models.AnalyticsRow, error) {
	return p.inner.GetAnalyticsRange(ctx, cusip, start, end)
}

func (p *CachedProvider) GetBondUniverse(ctx context.Context, asOf time.Time) ([]string, error) {
	return p.inner.GetBondUniverse(ctx, asOf)
}

func (p *CachedProvider) Health(ctx context.Context) error { return p.inner.Health(ctx) }
func (p *CachedProvider) Close() error                     { return p.inner.Close() }

// curveSnapshot is the JSON-safe form of a TreasuryCurve. The curve keeps its
// points in an unexported map, so the cache round-trips this flat shape.
type curveSnapshot struct {
	AsOf   time.Time `json:"as_of"`
	Tenors []float64 `json:"tenors"`
	Yields []float64 `json:"yields"`
}

func snapshotCurve(c *models.TreasuryCurve) curveSnapshot {
	tenors := c.Tenors()
	yields := make([]float64, len(tenors))
	for i, t := range tenors {
		yields[i], _ = c.Yield(t)
	}
	return curveSnapshot{AsOf: c.AsOf, Tenors: tenors, Yields: yields}
}

func (s curveSnapshot) restore() (*models.TreasuryCurve, error) {
	points := make(map[float64]float64, len(s.Tenors))
	for i, t := range s.Tenors {
		points[t] = s.Yields[i]
	}
	return models.NewTreasuryCurve(s.AsOf, points)
}
