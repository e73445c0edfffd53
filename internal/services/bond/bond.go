package bond

import (
	"errors"
	"fmt"
	"math"
	"time"

	"BondLens/internal/domain/models"
)

// ErrNoCall is returned by call-side operations on a bond without a call
// schedule. Callers treat it as "fall back to maturity", never as fatal.
var ErrNoCall = errors.New("bond has no call schedule")

const (
	yieldFloor   = -0.05
	yieldCeiling = 0.50
	yieldTol     = 1e-10
	yieldMaxIter = 100
	riskBump     = 1e-4 // 1bp yield bump for duration/convexity
)

// FixedRateBond is a fixed-rate bullet, optionally callable at the earliest
// call date of its schedule. Prices are clean, per 100 face. The valuation
// date is the explicit settlement field; there is no ambient evaluation-date
// state.
type FixedRateBond struct {
	cusip      string
	settlement time.Time
	maturity   time.Time
	coupon     float64 // annual, decimal
	frequency  int
	dayCount   DayCount

	call *models.CallFeature // earliest call, nil if none

	schedule []time.Time // full coupon schedule, ascending, ends at maturity
}

// New builds a priced bond from a security-master record as of an explicit
// settlement date.
func New(ref *models.BondReference, settlement time.Time) (*FixedRateBond, error) {
	if ref == nil {
		return nil, fmt.Errorf("bond: nil reference")
	}
	if !ref.Maturity.After(settlement) {
		return nil, fmt.Errorf("bond %s: matured on %s", ref.CUSIP, ref.Maturity.Format("2006-01-02"))
	}
	issue := ref.IssueDate
	if issue.IsZero() {
		issue = settlement
	}
	freq := ref.CouponFrequency
	if freq == 0 {
		freq = 2
	}
	schedule, err := couponSchedule(issue, ref.Maturity, freq)
	if err != nil {
		return nil, fmt.Errorf("bond %s: %w", ref.CUSIP, err)
	}

	b := &FixedRateBond{
		cusip:      ref.CUSIP,
		settlement: settlement,
		maturity:   ref.Maturity,
		coupon:     ref.CouponRate,
		frequency:  freq,
		dayCount:   ParseDayCount(ref.DayCount),
		schedule:   schedule,
	}
	if cf, ok := ref.EarliestCall(); ok && cf.Date.After(settlement) {
		call := cf
		b.call = &call
	}
	return b, nil
}

func (b *FixedRateBond) CUSIP() string         { return b.cusip }
func (b *FixedRateBond) Settlement() time.Time { return b.settlement }
func (b *FixedRateBond) Maturity() time.Time   { return b.maturity }

// TimeToMaturity is the year fraction from settlement to maturity under the
// bond's own day count.
func (b *FixedRateBond) TimeToMaturity() float64 {
	return b.dayCount.YearFraction(b.settlement, b.maturity)
}

// TimeToCall returns the year fraction to the earliest call date. The second
// return is false when no call exists or the call date is not strictly before
// maturity.
func (b *FixedRateBond) TimeToCall() (float64, bool) {
	if b.call == nil || !b.call.Date.Before(b.maturity) {
		return 0, false
	}
	return b.dayCount.YearFraction(b.settlement, b.call.Date), true
}

// AccruedInterest is the coupon accrued from the previous coupon date to
// settlement, per 100 face.
func (b *FixedRateBond) AccruedInterest() float64 {
	coupons := futureCoupons(b.schedule, b.settlement)
	if len(coupons) == 0 {
		return 0
	}
	prev := previousCoupon(b.schedule, b.settlement, b.frequency)
	next := coupons[0]
	period := b.dayCount.YearFraction(prev, next)
	if period <= 0 {
		return 0
	}
	frac := b.dayCount.YearFraction(prev, b.settlement) / period
	return b.couponAmount() * frac
}

// PriceFromYieldToMaturity returns the clean price implied by a yield to
// maturity, compounded at the coupon frequency.
func (b *FixedRateBond) PriceFromYieldToMaturity(y float64) (float64, error) {
	dirty, _ := b.dirtyPriceAndDeriv(y, b.maturity, 100.0)
	return dirty - b.AccruedInterest(), nil
}

// PriceFromYieldToCall returns the clean price implied by a yield to the
// earliest call, redeeming at the call price.
func (b *FixedRateBond) PriceFromYieldToCall(y float64) (float64, error) {
	if b.call == nil {
		return 0, ErrNoCall
	}
	dirty, _ := b.dirtyPriceAndDeriv(y, b.call.Date, b.call.Price)
	return dirty - b.AccruedInterest(), nil
}

// YieldToMaturity solves for the yield whose clean maturity price matches the
// given clean price.
func (b *FixedRateBond) YieldToMaturity(cleanPrice float64) (float64, error) {
	y, err := b.solveYield(cleanPrice, b.maturity, 100.0)
	if err != nil {
		return 0, fmt.Errorf("bond %s ytm: %w", b.cusip, err)
	}
	return y, nil
}

// YieldToCall solves for the yield to the earliest call date. ErrNoCall if
// the bond carries no call schedule.
func (b *FixedRateBond) YieldToCall(cleanPrice float64) (float64, error) {
	if b.call == nil {
		return 0, ErrNoCall
	}
	y, err := b.solveYield(cleanPrice, b.call.Date, b.call.Price)
	if err != nil {
		return 0, fmt.Errorf("bond %s ytc: %w", b.cusip, err)
	}
	return y, nil
}

// ModifiedDuration is computed by symmetric bump-and-reprice around the yield
// implied by the given clean price.
func (b *FixedRateBond) ModifiedDuration(cleanPrice float64) (float64, error) {
	y, err := b.YieldToMaturity(cleanPrice)
	if err != nil {
		return 0, err
	}
	dirty := cleanPrice + b.AccruedInterest()
	up, _ := b.dirtyPriceAndDeriv(y+riskBump, b.maturity, 100.0)
	down, _ := b.dirtyPriceAndDeriv(y-riskBump, b.maturity, 100.0)
	return (down - up) / (2 * riskBump * dirty), nil
}

// Convexity by symmetric second difference.
func (b *FixedRateBond) Convexity(cleanPrice float64) (float64, error) {
	y, err := b.YieldToMaturity(cleanPrice)
	if err != nil {
		return 0, err
	}
	dirty := cleanPrice + b.AccruedInterest()
	base, _ := b.dirtyPriceAndDeriv(y, b.maturity, 100.0)
	up, _ := b.dirtyPriceAndDeriv(y+riskBump, b.maturity, 100.0)
	down, _ := b.dirtyPriceAndDeriv(y-riskBump, b.maturity, 100.0)
	return (up + down - 2*base) / (riskBump * riskBump * dirty), nil
}

// DV01 is the dollar value of 1bp per 100 face.
func (b *FixedRateBond) DV01(cleanPrice float64) (float64, error) {
	dur, err := b.ModifiedDuration(cleanPrice)
	if err != nil {
		return 0, err
	}
	dirty := cleanPrice + b.AccruedInterest()
	return dur * dirty * 1e-4, nil
}

func (b *FixedRateBond) couponAmount() float64 {
	return b.coupon / float64(b.frequency) * 100.0
}

// dirtyPriceAndDeriv discounts the cashflows up to and including the horizon
// plus the redemption at the horizon, compounded at the coupon frequency with
// the bond's day count on the time axis. Returns (dirty price, dPrice/dy).
func (b *FixedRateBond) dirtyPriceAndDeriv(y float64, horizon time.Time, redemption float64) (float64, float64) {
	f := float64(b.frequency)
	base := 1.0 + y/f
	if base <= 0 {
		return math.Inf(1), 0
	}

	var price, deriv float64
	add := func(amount float64, t float64) {
		df := math.Pow(base, -f*t)
		price += amount * df
		deriv += amount * -t * math.Pow(base, -f*t-1)
	}

	for _, d := range futureCoupons(b.schedule, b.settlement) {
		if d.After(horizon) {
			break
		}
		add(b.couponAmount(), b.dayCount.YearFraction(b.settlement, d))
	}
	add(redemption, b.dayCount.YearFraction(b.settlement, horizon))
	return price, deriv
}

// solveYield finds y such that clean(y) == target via Newton-Raphson with a
// bisection fallback when the derivative degenerates or iteration escapes the
// bracket.
func (b *FixedRateBond) solveYield(targetClean float64, horizon time.Time, redemption float64) (float64, error) {
	if targetClean <= 0 {
		return 0, fmt.Errorf("non-positive price %v", targetClean)
	}
	accrued := b.AccruedInterest()
	target := targetClean + accrued

	y := b.coupon // coupon rate is a decent starting point for par-ish bonds
	y = clamp(y, yieldFloor, yieldCeiling)
	for i := 0; i < yieldMaxIter; i++ {
		price, deriv := b.dirtyPriceAndDeriv(y, horizon, redemption)
		diff := price - target
		if math.Abs(diff) < yieldTol {
			return y, nil
		}
		if math.Abs(deriv) < 1e-14 {
			break
		}
		y = clamp(y-diff/deriv, yieldFloor, yieldCeiling)
	}
	return b.bisectYield(target, horizon, redemption)
}

func (b *FixedRateBond) bisectYield(targetDirty float64, horizon time.Time, redemption float64) (float64, error) {
	lo, hi := yieldFloor, yieldCeiling
	plo, _ := b.dirtyPriceAndDeriv(lo, horizon, redemption)
	phi, _ := b.dirtyPriceAndDeriv(hi, horizon, redemption)
	// price is monotone decreasing in yield
	if targetDirty > plo || targetDirty < phi {
		return 0, fmt.Errorf("price %v outside solvable range", targetDirty)
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		p, _ := b.dirtyPriceAndDeriv(mid, horizon, redemption)
		if math.Abs(p-targetDirty) < yieldTol {
			return mid, nil
		}
		if p > targetDirty {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
