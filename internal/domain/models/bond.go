package models

import "time"

// BondType classifies the bond structure from the security master.
type BondType string

const (
	BondTypeFixedRate BondType = "FIXED_RATE"
	BondTypeCallable  BondType = "CALLABLE"
)

// CallFeature is one entry of a call schedule.
type CallFeature struct {
	Date  time.Time
	Price float64
}

// BondReference is the security-master record for one instrument.
type BondReference struct {
	CUSIP      string
	ISIN       string
	Ticker     string
	IssuerName string

	BondType  BondType
	FaceValue float64
	IssueDate time.Time
	Maturity  time.Time

	CouponRate      float64 // annual, decimal
	CouponFrequency int     // coupons per year
	DayCount        string  // "30/360", "ACT/360", "ACT/365", "ACT/ACT"

	CallSchedule []CallFeature

	// BenchmarkTenor is the original issuance tenor in integer years
	// (e.g. 10 for a bond issued against the 10y OTR).
	BenchmarkTenor int

	Currency string
}

// HasCall reports whether any call feature exists.
func (r *BondReference) HasCall() bool {
	return len(r.CallSchedule) > 0
}

// EarliestCall returns the first call feature by date, if any.
func (r *BondReference) EarliestCall() (CallFeature, bool) {
	if len(r.CallSchedule) == 0 {
		return CallFeature{}, false
	}
	earliest := r.CallSchedule[0]
	for _, cf := range r.CallSchedule[1:] {
		if cf.Date.Before(earliest.Date) {
			earliest = cf
		}
	}
	return earliest, true
}

// MarketQuote is one observed quote for an instrument on a date.
type MarketQuote struct {
	CUSIP     string
	Timestamp time.Time

	BidPrice float64
	AskPrice float64
	MidPrice float64

	BidYield float64
	AskYield float64
	MidYield float64

	MidSpread float64 // to benchmark, bps

	Source  string
	Quality string // FIRM, INDICATIVE, STALE
}

// AnalyticsRow is one row of externally computed historical analytics, the
// market side of every comparison. Spread columns are in basis points, yields
// in decimal. Optional columns are pointers; nil means the vendor did not
// supply the field that day.
type AnalyticsRow struct {
	CUSIP string
	Date  time.Time

	MidPrice float64
	MidYield float64

	GSpread         float64
	BenchmarkSpread float64
	ZSpread         *float64
	OAS             *float64

	Duration       float64
	Convexity      float64
	DV01           float64
	SpreadDuration *float64

	Source string
}
