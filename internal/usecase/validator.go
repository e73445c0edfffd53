package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"BondLens/internal/domain/models"
	domrepo "BondLens/internal/domain/repository"
	"BondLens/internal/services/bond"
	"BondLens/internal/services/spread"
	"BondLens/internal/services/tolerance"
	xlogger "BondLens/pkg/logger"
	"BondLens/pkg/util"
)

// Metric group names accepted by a batch run.
const (
	GroupPricing = "pricing"
	GroupSpreads = "spreads"
	GroupRisk    = "risk"
)

// BatchValidator drives model-vs-market validation across a cross-product of
// instruments and business dates. Failures are cell-scoped: a cell that
// cannot be processed is logged, counted and dropped, and the run continues.
type BatchValidator struct {
	provider   domrepo.DataProvider
	tol        *tolerance.Engine
	metrics    domrepo.Metrics
	logger     *xlogger.Logger
	publisher  domrepo.ReportPublisher // nil disables publishing
	rule       spread.Rule
	preferCall bool
	workers    int
}

// NewBatchValidator wires a validator. workers <= 1 means sequential cells;
// anything above bounds the parallel cell fan-out. A nil publisher keeps
// reports local to the HTTP response.
func NewBatchValidator(
	provider domrepo.DataProvider,
	tol *tolerance.Engine,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
	publisher domrepo.ReportPublisher,
	rule spread.Rule,
	preferCall bool,
	workers int,
) *BatchValidator {
	if rule == nil {
		rule = spread.DefaultRule()
	}
	if workers < 1 {
		workers = 1
	}
	return &BatchValidator{
		provider:   provider,
		tol:        tol,
		metrics:    metrics,
		logger:     logger,
		publisher:  publisher,
		rule:       rule,
		preferCall: preferCall,
		workers:    workers,
	}
}

// cell is one (instrument, date) unit of work.
type cell struct {
	cusip string
	date  time.Time
}

// Run validates every instrument on every business day in [start, end] for
// the requested metric groups and folds the outcome into a report. Cell
// failures never escape; the only errors returned are argument errors.
func (v *BatchValidator) Run(ctx context.Context, instruments []string, start, end time.Time, groups []string) (*models.ValidationReport, error) {
	if len(instruments) == 0 {
		return nil, fmt.Errorf("batch validate: no instruments")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("batch validate: end %s before start %s",
			util.FormatDate(end), util.FormatDate(start))
	}
	if len(groups) == 0 {
		groups = []string{GroupPricing, GroupSpreads, GroupRisk}
	}
	for _, group := range groups {
		switch group {
		case GroupPricing, GroupSpreads, GroupRisk:
		default:
			return nil, fmt.Errorf("batch validate: unknown metric group %q", group)
		}
	}

	dates := util.BusinessDays(start, end)
	cells := make([]cell, 0, len(instruments)*len(dates))
	for _, cusip := range instruments {
		for _, d := range dates {
			cells = append(cells, cell{cusip: cusip, date: d})
		}
	}

	began := time.Now()
	v.logger.Info("batch validation started",
		xlogger.Int("instruments", len(instruments)),
		xlogger.Int("dates", len(dates)),
		xlogger.Int("cells", len(cells)),
		xlogger.Strings("groups", groups),
	)

	// Each cell produces its own result slice; the driver owns the single
	// accumulation point, so parallel workers never share mutable state.
	perCell := make([][]models.ValidationResult, len(cells))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)
	for i, c := range cells {
		g.Go(func() error {
			results, err := v.processCell(gctx, c, groups)
			if err != nil {
				v.logger.Warn("cell skipped",
					xlogger.String("cusip", c.cusip),
					xlogger.String("date", util.FormatDate(c.date)),
					xlogger.Error(err),
				)
				v.metrics.RecordCell("skipped")
				return nil // skips are not run failures
			}
			perCell[i] = results
			v.metrics.RecordCell("processed")
			return nil
		})
	}
	_ = g.Wait() // workers only ever return nil

	var all []models.ValidationResult
	for _, rs := range perCell {
		for _, r := range rs {
			v.metrics.RecordValidation(r.Metric, r.WithinTolerance)
		}
		all = append(all, rs...)
	}

	report := models.BuildReport(all, start, end)
	v.metrics.RecordBatchDuration(time.Since(began).Seconds())
	v.metrics.RecordSuccessRate(report.SuccessRate)
	v.publish(ctx, report)
	v.logger.Info("batch validation finished",
		xlogger.Int("total", report.TotalValidations),
		xlogger.Int("failed", report.FailedValidations),
		xlogger.Duration("elapsed", time.Since(began)),
	)
	return report, nil
}

// publish ships the finished report and its failure list to the configured
// sink. Publish errors never fail the run; the caller already holds the
// report.
func (v *BatchValidator) publish(ctx context.Context, report *models.ValidationReport) {
	if v.publisher == nil {
		return
	}
	if err := v.publisher.PublishReport(ctx, report); err != nil {
		v.logger.Warn("report publish failed", xlogger.Error(err))
	}
	if err := v.publisher.PublishFailures(ctx, report.Failures); err != nil {
		v.logger.Warn("failure publish failed", xlogger.Error(err))
	}
}

// RunSingleDate validates a universe on one date. A nil instrument list pulls
// the active universe from the provider.
func (v *BatchValidator) RunSingleDate(ctx context.Context, asOf time.Time, instruments []string) (*models.ValidationReport, error) {
	if len(instruments) == 0 {
		var err error
		instruments, err = v.provider.GetBondUniverse(ctx, asOf)
		if err != nil {
			return nil, fmt.Errorf("bond universe: %w", err)
		}
	}
	return v.Run(ctx, instruments, asOf, asOf, nil)
}

// processCell runs every requested group for one cell. Any error discards
// the whole cell, including results of groups that had already succeeded.
func (v *BatchValidator) processCell(ctx context.Context, c cell, groups []string) ([]models.ValidationResult, error) {
	var results []models.ValidationResult
	for _, group := range groups {
		var (
			rs  []models.ValidationResult
			err error
		)
		switch group {
		case GroupPricing:
			rs, err = v.ValidatePricing(ctx, c.cusip, c.date)
		case GroupSpreads:
			rs, err = v.ValidateSpreads(ctx, c.cusip, c.date)
		case GroupRisk:
			rs, err = v.ValidateRiskMeasures(ctx, c.cusip, c.date)
		default:
			err = fmt.Errorf("unknown metric group %q", group)
		}
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}
	return results, nil
}

// ValidatePricing compares the clean price implied by the quoted mid yield
// against the historical mid price. Single-shot: errors propagate.
func (v *BatchValidator) ValidatePricing(ctx context.Context, cusip string, asOf time.Time) ([]models.ValidationResult, error) {
	ref, quote, hist, err := v.fetch(ctx, cusip, asOf)
	if err != nil {
		return nil, err
	}
	b, err := bond.New(ref, asOf)
	if err != nil {
		return nil, err
	}
	modelPrice, err := b.PriceFromYieldToMaturity(quote.MidYield)
	if err != nil {
		return nil, err
	}
	return []models.ValidationResult{
		v.compare(cusip, asOf, "clean_price", modelPrice, hist.MidPrice, hist.Source),
	}, nil
}

// ValidateSpreads computes model g-spread and benchmark spread from the
// quoted mid price and compares them, in basis points, against the
// historical spread columns.
func (v *BatchValidator) ValidateSpreads(ctx context.Context, cusip string, asOf time.Time) ([]models.ValidationResult, error) {
	ref, quote, hist, err := v.fetch(ctx, cusip, asOf)
	if err != nil {
		return nil, err
	}
	b, err := bond.New(ref, asOf)
	if err != nil {
		return nil, err
	}
	curve, err := v.provider.GetTreasuryCurve(ctx, asOf)
	if err != nil {
		return nil, err
	}
	calc, err := spread.NewCalculator(b, curve, v.rule, ref.BenchmarkTenor, v.preferCall)
	if err != nil {
		return nil, err
	}
	res, _, err := calc.SpreadFromPrice(quote.MidPrice)
	if err != nil {
		return nil, err
	}

	// model spreads are decimal; historical columns are bps
	return []models.ValidationResult{
		v.compare(cusip, asOf, "g_spread", res.GSpread*10000, hist.GSpread, hist.Source),
		v.compare(cusip, asOf, "benchmark_spread", res.BenchmarkSpread*10000, hist.BenchmarkSpread, hist.Source),
	}, nil
}

// ValidateRiskMeasures compares duration, convexity and DV01 implied by the
// quoted mid price against the historical risk columns.
func (v *BatchValidator) ValidateRiskMeasures(ctx context.Context, cusip string, asOf time.Time) ([]models.ValidationResult, error) {
	ref, quote, hist, err := v.fetch(ctx, cusip, asOf)
	if err != nil {
		return nil, err
	}
	b, err := bond.New(ref, asOf)
	if err != nil {
		return nil, err
	}
	duration, err := b.ModifiedDuration(quote.MidPrice)
	if err != nil {
		return nil, err
	}
	convexity, err := b.Convexity(quote.MidPrice)
	if err != nil {
		return nil, err
	}
	dv01, err := b.DV01(quote.MidPrice)
	if err != nil {
		return nil, err
	}
	return []models.ValidationResult{
		v.compare(cusip, asOf, "duration", duration, hist.Duration, hist.Source),
		v.compare(cusip, asOf, "convexity", convexity, hist.Convexity, hist.Source),
		v.compare(cusip, asOf, "dv01", dv01, hist.DV01, hist.Source),
	}, nil
}

func (v *BatchValidator) fetch(ctx context.Context, cusip string, asOf time.Time) (*models.BondReference, *models.MarketQuote, *models.AnalyticsRow, error) {
	ref, err := v.provider.GetBondReference(ctx, cusip)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reference %s: %w", cusip, err)
	}
	quote, err := v.provider.GetMarketQuote(ctx, cusip, asOf)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("quote %s: %w", cusip, err)
	}
	hist, err := v.provider.GetAnalyticsRow(ctx, cusip, asOf)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("analytics %s: %w", cusip, err)
	}
	return ref, quote, hist, nil
}

func (v *BatchValidator) compare(cusip string, asOf time.Time, metric string, model, market float64, source string) models.ValidationResult {
	within, tol := v.tol.Check(model, market, metric)
	diff := model - market
	var pct float64
	if market != 0 {
		pct = diff / market * 100
	}
	return models.ValidationResult{
		CUSIP:           cusip,
		Date:            asOf,
		Metric:          metric,
		ModelValue:      model,
		MarketValue:     market,
		Difference:      diff,
		PercentDiff:     pct,
		WithinTolerance: within,
		ToleranceUsed:   tol,
		Source:          source,
	}
}
