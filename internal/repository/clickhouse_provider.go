package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"BondLens/internal/domain/models"
	domrepo "BondLens/internal/domain/repository"
)

// Tables names the ClickHouse tables the provider reads from.
type Tables struct {
	Reference string
	Calls     string
	Quotes    string
	Curves    string
	Analytics string
}

// DefaultTables matches the analytics warehouse schema.
func DefaultTables() Tables {
	return Tables{
		Reference: "bond_reference",
		Calls:     "bond_calls",
		Quotes:    "market_quotes",
		Curves:    "treasury_curves",
		Analytics: "bond_analytics",
	}
}

// ClickHouseProvider implements DataProvider over a ClickHouse connection.
// Yields and coupon rates are stored in percent in the warehouse and
// converted to decimal on the way out; spread columns stay in basis points.
type ClickHouseProvider struct {
	db     *sql.DB
	tables Tables
}

func NewClickHouseProvider(db *sql.DB, tables Tables) domrepo.DataProvider {
	if tables.Reference == "" {
		tables = DefaultTables()
	}
	return &ClickHouseProvider{db: db, tables: tables}
}

func (p *ClickHouseProvider) GetBondReference(ctx context.Context, cusip string) (*models.BondReference, error) {
	q := fmt.Sprintf(`SELECT cusip, isin, ticker, issuer_name, bond_type, face_value,
				issue_date, maturity_date, coupon_rate, coupon_frequency,
				day_count, benchmark_tenor, currency
			FROM %s WHERE cusip = ? LIMIT 1`, p.tables.Reference)

	var ref models.BondReference
	var bondType string
	err := p.db.QueryRowContext(ctx, q, cusip).Scan(
		&ref.CUSIP, &ref.ISIN, &ref.Ticker, &ref.IssuerName, &bondType,
		&ref.FaceValue, &ref.IssueDate, &ref.Maturity, &ref.CouponRate,
		&ref.CouponFrequency, &ref.DayCount, &ref.BenchmarkTenor, &ref.Currency,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reference %s: %w", cusip, domrepo.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reference %s: %w", cusip, err)
	}
	ref.BondType = models.BondType(bondType)
	ref.CouponRate /= 100

	calls, err := p.callSchedule(ctx, cusip)
	if err != nil {
		return nil, err
	}
	ref.CallSchedule = calls
	return &ref, nil
}

func (p *ClickHouseProvider) callSchedule(ctx context.Context, cusip string) ([]models.CallFeature, error) {
	q := fmt.Sprintf("SELECT call_date, call_price FROM %s WHERE cusip = ? ORDER BY call_date", p.tables.Calls)
	rows, err := p.db.QueryContext(ctx, q, cusip)
	if err != nil {
		return nil, fmt.Errorf("call schedule %s: %w", cusip, err)
	}
	defer rows.Close()

	var schedule []models.CallFeature
	for rows.Next() {
		var cf models.CallFeature
		if err := rows.Scan(&cf.Date, &cf.Price); err != nil {
			return nil, fmt.Errorf("call schedule %s: %w", cusip, err)
		}
		schedule = append(schedule, cf)
	}
	return schedule, rows.Err()
}

func (p *ClickHouseProvider) GetMarketQuote(ctx context.Context, cusip string, asOf time.Time) (*models.MarketQuote, error) {
	q := fmt.Sprintf(`SELECT cusip, quote_ts, bid_price, ask_price, mid_price,
				bid_yield, ask_yield, mid_yield, mid_spread, source, quality
			FROM %s WHERE cusip = ? AND toDate(quote_ts) = ?
			ORDER BY quote_ts DESC LIMIT 1`, p.tables.Quotes)

	var mq models.MarketQuote
	err := p.db.QueryRowContext(ctx, q, cusip, asOf.Format("2006-01-02")).Scan(
		&mq.CUSIP, &mq.Timestamp, &mq.BidPrice, &mq.AskPrice, &mq.MidPrice,
		&mq.BidYield, &mq.AskYield, &mq.MidYield, &mq.MidSpread, &mq.Source, &mq.Quality,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quote %s @ %s: %w", cusip, asOf.Format("2006-01-02"), domrepo.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", cusip, err)
	}
	mq.BidYield /= 100
	mq.AskYield /= 100
	mq.MidYield /= 100
	return &mq, nil
}

func (p *ClickHouseProvider) GetTreasuryCurve(ctx context.Context, asOf time.Time) (*models.TreasuryCurve, error) {
	q := fmt.Sprintf("SELECT tenor_years, yield_percent FROM %s WHERE curve_date = ? ORDER BY tenor_years", p.tables.Curves)
	rows, err := p.db.QueryContext(ctx, q, asOf.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("curve @ %s: %w", asOf.Format("2006-01-02"), err)
	}
	defer rows.Close()

	yields := make(map[float64]float64)
	for rows.Next() {
		var tenor, pct float64
		if err := rows.Scan(&tenor, &pct); err != nil {
			return nil, fmt.Errorf("curve @ %s: %w", asOf.Format("2006-01-02"), err)
		}
		yields[tenor] = pct / 100
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(yields) == 0 {
		return nil, fmt.Errorf("curve @ %s: %w", asOf.Format("2006-01-02"), domrepo.ErrNotFound)
	}
	return models.NewTreasuryCurve(asOf, yields)
}

func (p *ClickHouseProvider) GetAnalyticsRow(ctx context.Context, cusip string, asOf time.Time) (*models.AnalyticsRow, error) {
	q := fmt.Sprintf(`SELECT cusip, as_of_date, mid_price, mid_yield,
				g_spread, benchmark_spread, z_spread, oas,
				duration, convexity, dv01, spread_duration, source
			FROM %s WHERE cusip = ? AND as_of_date = ? LIMIT 1`, p.tables.Analytics)

	row, err := scanAnalyticsRow(p.db.QueryRowContext(ctx, q, cusip, asOf.Format("2006-01-02")))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analytics %s @ %s: %w", cusip, asOf.Format("2006-01-02"), domrepo.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("analytics %s: %w", cusip, err)
	}
	return row, nil
}

func (p *ClickHouseProvider) GetAnalyticsRange(ctx context.Context, cusip string, start, end time.Time) ([]models.AnalyticsRow, error) {
	q := fmt.Sprintf(`SELECT cusip, as_of_date, mid_price, mid_yield,
				g_spread, benchmark_spread, z_spread, oas,
				duration, convexity, dv01, spread_duration, source
			FROM %s WHERE cusip = ? AND as_of_date BETWEEN ? AND ?
			ORDER BY as_of_date`, p.tables.Analytics)

	rows, err := p.db.QueryContext(ctx, q, cusip, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("analytics range %s: %w", cusip, err)
	}
	defer rows.Close()

	var out []models.AnalyticsRow
	for rows.Next() {
		r, err := scanAnalyticsRow(rows)
		if err != nil {
			return nil, fmt.Errorf("analytics range %s: %w", cusip, err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (p *ClickHouseProvider) GetBondUniverse(ctx context.Context, asOf time.Time) ([]string, error) {
	q := fmt.Sprintf("SELECT DISTINCT cusip FROM %s WHERE as_of_date = ? ORDER BY cusip", p.tables.Analytics)
	rows, err := p.db.QueryContext(ctx, q, asOf.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("universe @ %s: %w", asOf.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var cusips []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cusips = append(cusips, c)
	}
	return cusips, rows.Err()
}

func (p *ClickHouseProvider) Health(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *ClickHouseProvider) Close() error {
	return nil // Connection lifecycle owned by pkg/clickhouse
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalyticsRow(s rowScanner) (*models.AnalyticsRow, error) {
	var r models.AnalyticsRow
	var zSpread, oas, spreadDur sql.NullFloat64
	err := s.Scan(
		&r.CUSIP, &r.Date, &r.MidPrice, &r.MidYield,
		&r.GSpread, &r.BenchmarkSpread, &zSpread, &oas,
		&r.Duration, &r.Convexity, &r.DV01, &spreadDur, &r.Source,
	)
	if err != nil {
		return nil, err
	}
	r.MidYield /= 100
	if zSpread.Valid {
		r.ZSpread = &zSpread.Float64
	}
	if oas.Valid {
		r.OAS = &oas.Float64
	}
	if spreadDur.Valid {
		r.SpreadDuration = &spreadDur.Float64
	}
	return &r, nil
}
