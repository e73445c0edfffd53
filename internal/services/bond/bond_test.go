package bond

import (
	"math"
	"testing"
	"time"

	"BondLens/internal/domain/models"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func testRef() *models.BondReference {
	return &models.BondReference{
		CUSIP:           "912828XX1",
		BondType:        models.BondTypeFixedRate,
		FaceValue:       1000,
		IssueDate:       date(2020, 3, 15),
		Maturity:        date(2030, 3, 15),
		CouponRate:      0.045,
		CouponFrequency: 2,
		DayCount:        "30/360",
		BenchmarkTenor:  10,
	}
}

func callableRef() *models.BondReference {
	ref := testRef()
	ref.CUSIP = "037833AB2"
	ref.BondType = models.BondTypeCallable
	ref.CallSchedule = []models.CallFeature{{Date: date(2027, 3, 15), Price: 100.0}}
	return ref
}

func TestCouponScheduleEndsAtMaturity(t *testing.T) {
	sched, err := couponSchedule(date(2020, 3, 15), date(2030, 3, 15), 2)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if got := sched[len(sched)-1]; !got.Equal(date(2030, 3, 15)) {
		t.Fatalf("last coupon %v, want maturity", got)
	}
	if len(sched) != 20 {
		t.Fatalf("expected 20 semiannual coupons, got %d", len(sched))
	}
}

func TestCouponScheduleClampsMonthEnd(t *testing.T) {
	// A May 31 maturity must roll through Nov 30, not normalize to Dec 1.
	sched, err := couponSchedule(date(2024, 5, 31), date(2030, 5, 31), 2)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(sched) != 12 {
		t.Fatalf("expected 12 semiannual coupons, got %d", len(sched))
	}
	for _, d := range sched {
		m, day := d.Month(), d.Day()
		switch {
		case m == time.May && day == 31:
		case m == time.November && day == 30:
		default:
			t.Fatalf("drifted coupon date %v", d)
		}
	}
}

func TestPriceYieldRoundTrip(t *testing.T) {
	b, err := New(testRef(), date(2025, 6, 2))
	if err != nil {
		t.Fatalf("new bond: %v", err)
	}
	for _, price := range []float64{92.5, 100.0, 104.75} {
		y, err := b.YieldToMaturity(price)
		if err != nil {
			t.Fatalf("ytm(%v): %v", price, err)
		}
		back, err := b.PriceFromYieldToMaturity(y)
		if err != nil {
			t.Fatalf("price(%v): %v", y, err)
		}
		if math.Abs(back-price) > 1e-6 {
			t.Fatalf("round trip %v -> %v -> %v", price, y, back)
		}
	}
}

func TestParBondYieldsNearCoupon(t *testing.T) {
	b, err := New(testRef(), date(2025, 3, 15))
	if err != nil {
		t.Fatalf("new bond: %v", err)
	}
	y, err := b.YieldToMaturity(100.0)
	if err != nil {
		t.Fatalf("ytm: %v", err)
	}
	if math.Abs(y-0.045) > 5e-4 {
		t.Fatalf("par yield %v, want near coupon 0.045", y)
	}
}

func TestYieldToCallPremiumBond(t *testing.T) {
	b, err := New(callableRef(), date(2025, 6, 2))
	if err != nil {
		t.Fatalf("new bond: %v", err)
	}
	// Premium bond: early redemption at 100 cuts short the above-market
	// coupons, so YTC must be below YTM.
	price := 106.0
	ytc, err := b.YieldToCall(price)
	if err != nil {
		t.Fatalf("ytc: %v", err)
	}
	ytm, err := b.YieldToMaturity(price)
	if err != nil {
		t.Fatalf("ytm: %v", err)
	}
	if ytc >= ytm {
		t.Fatalf("ytc %v should be below ytm %v for a premium callable", ytc, ytm)
	}
}

func TestYieldToCallWithoutCall(t *testing.T) {
	b, err := New(testRef(), date(2025, 6, 2))
	if err != nil {
		t.Fatalf("new bond: %v", err)
	}
	if _, err := b.YieldToCall(100.0); err != ErrNoCall {
		t.Fatalf("expected ErrNoCall, got %v", err)
	}
	if _, ok := b.TimeToCall(); ok {
		t.Fatalf("expected no time-to-call")
	}
}

func TestTimeToCallUsesBondDayCount(t *testing.T) {
	b, err := New(callableRef(), date(2025, 3, 15))
	if err != nil {
		t.Fatalf("new bond: %v", err)
	}
	ttc, ok := b.TimeToCall()
	if !ok {
		t.Fatalf("expected call")
	}
	// 30/360: exactly two years between 2025-03-15 and 2027-03-15
	if math.Abs(ttc-2.0) > 1e-9 {
		t.Fatalf("time to call %v, want 2.0", ttc)
	}
}

func TestRiskMeasuresSanity(t *testing.T) {
	b, err := New(testRef(), date(2025, 6, 2))
	if err != nil {
		t.Fatalf("new bond: %v", err)
	}
	dur, err := b.ModifiedDuration(100.0)
	if err != nil {
		t.Fatalf("duration: %v", err)
	}
	if dur <= 0 || dur > 6 {
		t.Fatalf("implausible duration %v for a ~5y bond", dur)
	}
	conv, err := b.Convexity(100.0)
	if err != nil {
		t.Fatalf("convexity: %v", err)
	}
	if conv <= 0 {
		t.Fatalf("convexity %v should be positive", conv)
	}
	dv01, err := b.DV01(100.0)
	if err != nil {
		t.Fatalf("dv01: %v", err)
	}
	if dv01 <= 0 || dv01 > 0.1 {
		t.Fatalf("implausible dv01 %v", dv01)
	}
}

func TestMaturedBondRejected(t *testing.T) {
	ref := testRef()
	if _, err := New(ref, date(2031, 1, 1)); err == nil {
		t.Fatalf("expected error for matured bond")
	}
}

func TestThirty360(t *testing.T) {
	tests := []struct {
		start, end time.Time
		want       float64
	}{
		{date(2025, 1, 15), date(2026, 1, 15), 1.0},
		{date(2025, 1, 31), date(2025, 7, 31), 0.5},
		{date(2025, 3, 15), date(2025, 9, 15), 0.5},
	}
	for _, tt := range tests {
		got := DayCount30360.YearFraction(tt.start, tt.end)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("30/360 %v -> %v: got %v want %v", tt.start, tt.end, got, tt.want)
		}
	}
}
