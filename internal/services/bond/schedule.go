package bond

import (
	"fmt"
	"time"
)

// couponSchedule generates the coupon dates of a bullet bond by rolling back
// from maturity in whole coupon periods until the issue date is crossed. The
// returned slice is ascending and always ends at maturity.
func couponSchedule(issue, maturity time.Time, frequency int) ([]time.Time, error) {
	if frequency <= 0 || 12%frequency != 0 {
		return nil, fmt.Errorf("coupon schedule: unsupported frequency %d", frequency)
	}
	if !maturity.After(issue) {
		return nil, fmt.Errorf("coupon schedule: maturity %s not after issue %s",
			maturity.Format("2006-01-02"), issue.Format("2006-01-02"))
	}

	step := 12 / frequency
	var dates []time.Time
	// Each date is rolled back from maturity directly so a month-end anchor
	// clamps per period instead of drifting (May 31 minus 6 months must be
	// Nov 30, not Dec 1).
	for i := 0; ; i++ {
		d := addMonthsClamped(maturity, -i*step)
		if !d.After(issue) {
			break
		}
		dates = append(dates, d)
	}
	// reverse into ascending order
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
	return dates, nil
}

// addMonthsClamped shifts a date by whole months, clamping the day to the
// target month's length.
func addMonthsClamped(anchor time.Time, months int) time.Time {
	y, m, day := anchor.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, anchor.Location())
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, anchor.Location())
}

// futureCoupons returns the coupon dates strictly after the settlement date.
func futureCoupons(schedule []time.Time, settlement time.Time) []time.Time {
	for i, d := range schedule {
		if d.After(settlement) {
			return schedule[i:]
		}
	}
	return nil
}

// previousCoupon returns the coupon date on or before settlement. For a
// settlement before the first coupon it falls back to one period before it,
// which is the notional accrual start.
func previousCoupon(schedule []time.Time, settlement time.Time, frequency int) time.Time {
	prev := addMonthsClamped(schedule[0], -12/frequency)
	for _, d := range schedule {
		if d.After(settlement) {
			break
		}
		prev = d
	}
	return prev
}
