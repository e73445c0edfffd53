package tolerance

import (
	"math"
	"strings"
)

// defaultTolerance applies to metrics absent from both the default table and
// the override table.
const defaultTolerance = 0.05

// defaults holds per-metric tolerances: prices in points, yields and spreads
// in basis points, risk measures as relative fractions.
var defaults = map[string]float64{
	"clean_price": 0.25,
	"dirty_price": 0.25,
	"model_price": 0.25,

	"yield_to_maturity": 0.02,
	"yield_to_worst":    0.02,
	"yield_to_call":     0.02,

	"g_spread":         0.02,
	"benchmark_spread": 0.02,
	"z_spread":         0.03,
	"oas":              0.05,

	"duration":          0.02,
	"modified_duration": 0.02,
	"convexity":         0.05,
	"dv01":              0.02,
	"spread_duration":   0.03,
}

// relativeMetrics use tolerance scaled by the market value's magnitude.
var relativeMetrics = map[string]bool{
	"duration":          true,
	"modified_duration": true,
	"convexity":         true,
	"dv01":              true,
	"spread_duration":   true,
}

// bpsMetrics carry their tolerance in basis points; it is divided by 100
// before an absolute comparison.
var bpsMetrics = map[string]bool{
	"yield_to_maturity": true,
	"yield_to_worst":    true,
	"yield_to_call":     true,
	"g_spread":          true,
	"benchmark_spread":  true,
	"z_spread":          true,
	"oas":               true,
}

// Engine decides whether a model value is acceptably close to its market
// counterpart. Pure: no state beyond the override table fixed at creation.
type Engine struct {
	overrides map[string]float64 // lower-cased metric -> tolerance
}

// NewEngine builds an engine with optional per-metric overrides. Override
// keys are matched case-insensitively.
func NewEngine(overrides map[string]float64) *Engine {
	lowered := make(map[string]float64, len(overrides))
	for k, v := range overrides {
		lowered[strings.ToLower(k)] = v
	}
	return &Engine{overrides: lowered}
}

// Resolve returns the raw tolerance for a metric: the override if present,
// else the default table, else the global default.
func (e *Engine) Resolve(metric string) float64 {
	m := strings.ToLower(metric)
	if tol, ok := e.overrides[m]; ok {
		return tol
	}
	if tol, ok := defaults[m]; ok {
		return tol
	}
	return defaultTolerance
}

// IsWithinTolerance applies the metric's policy.
//
// Relative metrics: |model-market| / |market| <= tol, with market == 0
// passing only an exactly matching zero model value.
// Basis-point metrics: |model-market| <= tol/100.
// Everything else (prices): |model-market| <= tol.
func (e *Engine) IsWithinTolerance(model, market float64, metric string) bool {
	m := strings.ToLower(metric)
	tol := e.Resolve(metric)

	if relativeMetrics[m] {
		if market == 0 {
			return model == 0
		}
		return math.Abs((model-market)/market) <= tol
	}

	if bpsMetrics[m] {
		tol = tol / 100.0
	}
	return math.Abs(model-market) <= tol
}

// Check is the comparison used when building a validation result: it returns
// the verdict together with the raw tolerance that was applied.
func (e *Engine) Check(model, market float64, metric string) (bool, float64) {
	return e.IsWithinTolerance(model, market, metric), e.Resolve(metric)
}
