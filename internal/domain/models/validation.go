package models

import (
	"math"
	"sort"
	"time"
)

// ValidationResult is one model-vs-market comparison for a single metric of a
// single instrument on a single date. Immutable once created.
type ValidationResult struct {
	CUSIP           string    `json:"cusip"`
	Date            time.Time `json:"date"`
	Metric          string    `json:"metric"`
	ModelValue      float64   `json:"model_value"`
	MarketValue     float64   `json:"market_value"`
	Difference      float64   `json:"difference"`   // model - market
	PercentDiff     float64   `json:"percent_diff"` // 100 * difference / market, 0 if market == 0
	WithinTolerance bool      `json:"within_tolerance"`
	ToleranceUsed   float64   `json:"tolerance_used"`
	Source          string    `json:"source,omitempty"`
}

// AbsoluteDiff returns |model - market|.
func (r ValidationResult) AbsoluteDiff() float64 {
	return math.Abs(r.Difference)
}

// MetricStatistics aggregates all results for one metric name.
type MetricStatistics struct {
	Metric             string          `json:"metric"`
	Count              int             `json:"count"`
	Passed             int             `json:"passed"`
	Failed             int             `json:"failed"`
	PassRate           float64         `json:"pass_rate"`
	MeanError          float64         `json:"mean_error"`
	MeanAbsoluteError  float64         `json:"mean_absolute_error"`
	RootMeanSquareErr  float64         `json:"rmse"`
	MaxAbsoluteError   float64         `json:"max_absolute_error"`
	StdError           float64         `json:"std_error"`
	AbsErrorPercentile map[int]float64 `json:"abs_error_percentiles"` // 25, 50, 75, 95
}

// NewMetricStatistics folds a slice of results (all sharing one metric name)
// into summary statistics. Returns the zero value for an empty slice.
func NewMetricStatistics(metric string, results []ValidationResult) MetricStatistics {
	s := MetricStatistics{Metric: metric, AbsErrorPercentile: map[int]float64{}}
	if len(results) == 0 {
		return s
	}

	absErrors := make([]float64, 0, len(results))
	var sumErr, sumAbs, sumSq float64
	for _, r := range results {
		s.Count++
		if r.WithinTolerance {
			s.Passed++
		}
		abs := r.AbsoluteDiff()
		absErrors = append(absErrors, abs)
		sumErr += r.Difference
		sumAbs += abs
		sumSq += r.Difference * r.Difference
		if abs > s.MaxAbsoluteError {
			s.MaxAbsoluteError = abs
		}
	}
	s.Failed = s.Count - s.Passed
	n := float64(s.Count)
	s.PassRate = float64(s.Passed) / n
	s.MeanError = sumErr / n
	s.MeanAbsoluteError = sumAbs / n
	s.RootMeanSquareErr = math.Sqrt(sumSq / n)
	s.StdError = sampleStd(results, s.MeanError)

	sort.Float64s(absErrors)
	for _, p := range []int{25, 50, 75, 95} {
		s.AbsErrorPercentile[p] = quantile(absErrors, float64(p)/100.0)
	}
	return s
}

// ValidationReport is the artifact of one batch run: totals, per-metric
// statistics and the raw failure list for drill-down.
type ValidationReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`

	BondsValidated    int `json:"bonds_validated"`
	TotalValidations  int `json:"total_validations"`
	PassedValidations int `json:"passed_validations"`
	FailedValidations int `json:"failed_validations"`

	SuccessRate        float64 `json:"success_rate"`
	MeanAbsoluteError  float64 `json:"mean_absolute_error"`
	RootMeanSquareErr  float64 `json:"rmse"`
	MaxAbsoluteError   float64 `json:"max_absolute_error"`

	MetricStats map[string]MetricStatistics `json:"metric_stats"`
	Failures    []ValidationResult          `json:"failures"`
}

// BuildReport folds all collected results into a report. An empty result set
// produces an all-zero report rather than an error: a batch where every cell
// was skipped is still a valid (if useless) run.
func BuildReport(results []ValidationResult, start, end time.Time) *ValidationReport {
	rep := &ValidationReport{
		GeneratedAt: time.Now().UTC(),
		StartDate:   start,
		EndDate:     end,
		MetricStats: map[string]MetricStatistics{},
		Failures:    []ValidationResult{},
	}
	if len(results) == 0 {
		return rep
	}

	cusips := map[string]struct{}{}
	byMetric := map[string][]ValidationResult{}
	var sumAbs, sumSq float64
	for _, r := range results {
		cusips[r.CUSIP] = struct{}{}
		byMetric[r.Metric] = append(byMetric[r.Metric], r)
		rep.TotalValidations++
		if r.WithinTolerance {
			rep.PassedValidations++
		} else {
			rep.Failures = append(rep.Failures, r)
		}
		abs := r.AbsoluteDiff()
		sumAbs += abs
		sumSq += r.Difference * r.Difference
		if abs > rep.MaxAbsoluteError {
			rep.MaxAbsoluteError = abs
		}
	}
	rep.BondsValidated = len(cusips)
	rep.FailedValidations = rep.TotalValidations - rep.PassedValidations
	n := float64(rep.TotalValidations)
	rep.SuccessRate = float64(rep.PassedValidations) / n
	rep.MeanAbsoluteError = sumAbs / n
	rep.RootMeanSquareErr = math.Sqrt(sumSq / n)

	for metric, rs := range byMetric {
		rep.MetricStats[metric] = NewMetricStatistics(metric, rs)
	}
	return rep
}

// ReportRow is one line of the tabular per-metric summary view.
type ReportRow struct {
	Metric    string  `json:"metric"`
	Count     int     `json:"count"`
	PassRate  float64 `json:"pass_rate"`
	MeanError float64 `json:"mean_error"`
	MAE       float64 `json:"mae"`
	RMSE      float64 `json:"rmse"`
	MaxError  float64 `json:"max_error"`
	StdError  float64 `json:"std_error"`
}

// Rows returns the per-metric summary table sorted by metric name.
func (rep *ValidationReport) Rows() []ReportRow {
	rows := make([]ReportRow, 0, len(rep.MetricStats))
	for _, s := range rep.MetricStats {
		rows = append(rows, ReportRow{
			Metric:    s.Metric,
			Count:     s.Count,
			PassRate:  s.PassRate,
			MeanError: s.MeanError,
			MAE:       s.MeanAbsoluteError,
			RMSE:      s.RootMeanSquareErr,
			MaxError:  s.MaxAbsoluteError,
			StdError:  s.StdError,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Metric < rows[j].Metric })
	return rows
}

// sampleStd is the n-1 standard deviation of the signed differences.
func sampleStd(results []ValidationResult, mean float64) float64 {
	if len(results) < 2 {
		return 0
	}
	var sum float64
	for _, r := range results {
		d := r.Difference - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(results)-1))
}

// quantile returns the q-th quantile (0..1) of a sorted slice using linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
