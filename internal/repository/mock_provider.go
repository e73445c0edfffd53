package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"BondLens/internal/domain/models"
	domrepo "BondLens/internal/domain/repository"
)

// MockProvider serves deterministic synthetic data for local development and
// smoke tests. Values are derived by hashing (cusip, date), so repeated runs
// produce identical reports.
type MockProvider struct {
	universe []models.BondReference
	byCUSIP  map[string]*models.BondReference
}

func NewMockProvider() *MockProvider {
	refs := []models.BondReference{
		syntheticBond("912828XA1", 0.045, 10, nil),
		syntheticBond("912828XB9", 0.0525, 10, nil),
		syntheticBond("037833AK6", 0.060, 10, &models.CallFeature{
			Date:  time.Date(2028, 6, 15, 0, 0, 0, 0, time.UTC),
			Price: 100,
		}),
		syntheticBond("594918BP8", 0.0375, 5, nil),
		syntheticBond("459200JR5", 0.041, 3, nil),
	}
	byCUSIP := make(map[string]*models.BondReference, len(refs))
	for i := range refs {
		byCUSIP[refs[i].CUSIP] = &refs[i]
	}
	return &MockProvider{universe: refs, byCUSIP: byCUSIP}
}

func syntheticBond(cusip string, coupon float64, tenor int, call *models.CallFeature) models.BondReference {
	ref := models.BondReference{
		CUSIP:           cusip,
		BondType:        models.BondTypeFixedRate,
		FaceValue:       1000,
		IssueDate:       time.Date(2022, 6, 15, 0, 0, 0, 0, time.UTC),
		Maturity:        time.Date(2022+tenor, 6, 15, 0, 0, 0, 0, time.UTC),
		CouponRate:      coupon,
		CouponFrequency: 2,
		DayCount:        "30/360",
		BenchmarkTenor:  tenor,
		Currency:        "USD",
	}
	if call != nil {
		ref.BondType = models.BondTypeCallable
		ref.CallSchedule = []models.CallFeature{*call}
	}
	return ref
}

// jitter maps a seed string into [-1, 1), stable across runs.
func jitter(seed string) float64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return float64(h.Sum64()%2000)/1000 - 1
}

func (p *MockProvider) GetBondReference(_ context.Context, cusip string) (*models.BondReference, error) {
	ref, ok := p.byCUSIP[cusip]
	if !ok {
		return nil, fmt.Errorf("reference %s: %w", cusip, domrepo.ErrNotFound)
	}
	return ref, nil
}

func (p *MockProvider) GetMarketQuote(_ context.Context, cusip string, asOf time.Time) (*models.MarketQuote, error) {
	ref, ok := p.byCUSIP[cusip]
	if !ok {
		return nil, fmt.Errorf("quote %s: %w", cusip, domrepo.ErrNotFound)
	}
	seed := cusip + asOf.Format("2006-01-02")
	mid := 98.0 + 2.5*jitter(seed+":px")
	yld := ref.CouponRate + 0.002*jitter(seed+":yld")
	return &models.MarketQuote{
		CUSIP:     cusip,
		Timestamp: asOf,
		BidPrice:  mid - 0.125,
		AskPrice:  mid + 0.125,
		MidPrice:  mid,
		BidYield:  yld + 0.0002,
		AskYield:  yld - 0.0002,
		MidYield:  yld,
		MidSpread: 40 + 10*jitter(seed+":spr"),
		Source:    "MOCK",
		Quality:   "INDICATIVE",
	}, nil
}

func (p *MockProvider) GetTreasuryCurve(_ context.Context, asOf time.Time) (*models.TreasuryCurve, error) {
	day := asOf.Format("2006-01-02")
	base := map[float64]float64{
		0.25: 0.0380, 0.5: 0.0385, 1: 0.0390, 2: 0.0400,
		3: 0.0410, 5: 0.0420, 7: 0.0435, 10: 0.0450,
		20: 0.0475, 30: 0.0480,
	}
	points := make(map[float64]float64, len(base))
	for tenor, y := range base {
		points[tenor] = y + 0.0005*jitter(fmt.Sprintf("%s:%v", day, tenor))
	}
	return models.NewTreasuryCurve(asOf, points)
}

func (p *MockProvider) GetAnalyticsRow(ctx context.Context, cusip string, asOf time.Time) (*models.AnalyticsRow, error) {
	quote, err := p.GetMarketQuote(ctx, cusip, asOf)
	if err != nil {
		return nil, err
	}
	seed := cusip + asOf.Format("2006-01-02")
	years := p.byCUSIP[cusip].Maturity.Sub(asOf).Hours() / (24 * 365.25)
	if years < 0.1 {
		years = 0.1
	}
	dur := years * 0.85
	return &models.AnalyticsRow{
		CUSIP:           cusip,
		Date:            asOf,
		MidPrice:        quote.MidPrice + 0.05*jitter(seed+":vpx"),
		MidYield:        quote.MidYield,
		GSpread:         45 + 8*jitter(seed+":g"),
		BenchmarkSpread: 40 + 8*jitter(seed+":b"),
		Duration:        dur,
		Convexity:       dur * dur * 1.1,
		DV01:            dur * quote.MidPrice * 1e-4,
		Source:          "MOCK",
	}, nil
}

func (p *MockProvider) GetAnalyticsRange(ctx context.Context, cusip string, start, end time.Time) ([]models.AnalyticsRow, error) {
	var out []models.AnalyticsRow
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		row, err := p.GetAnalyticsRow(ctx, cusip, d)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, nil
}

func (p *MockProvider) GetBondUniverse(_ context.Context, _ time.Time) ([]string, error) {
	cusips := make([]string, 0, len(p.universe))
	for _, ref := range p.universe {
		cusips = append(cusips, ref.CUSIP)
	}
	sort.Strings(cusips)
	return cusips, nil
}

func (p *MockProvider) Health(context.Context) error { return nil }
func (p *MockProvider) Close() error                 { return nil }
