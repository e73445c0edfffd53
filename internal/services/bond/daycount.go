package bond

import (
	"strings"
	"time"
)

// DayCount is a day-count convention used for year-fraction computation
// between two dates.
type DayCount string

const (
	DayCountAct365  DayCount = "ACT/365"
	DayCountAct360  DayCount = "ACT/360"
	DayCount30360   DayCount = "30/360"
	DayCountActAct  DayCount = "ACT/ACT"
)

// ParseDayCount maps a security-master convention string to a DayCount.
// Unknown strings default to ACT/365, matching the upstream master's habit of
// leaving the column blank for vanilla US corporates.
func ParseDayCount(s string) DayCount {
	switch strings.ToUpper(strings.ReplaceAll(s, " ", "")) {
	case "ACT365", "ACT/365", "ACT/365F":
		return DayCountAct365
	case "ACT360", "ACT/360":
		return DayCountAct360
	case "30/360", "D30360", "30E360", "30E/360":
		return DayCount30360
	case "ACTACT", "ACT/ACT":
		return DayCountActAct
	default:
		return DayCountAct365
	}
}

// YearFraction returns the day-count fraction from start to end. Negative if
// end precedes start.
func (dc DayCount) YearFraction(start, end time.Time) float64 {
	switch dc {
	case DayCountAct360:
		return daysBetween(start, end) / 360.0
	case DayCount30360:
		return thirty360(start, end)
	case DayCountActAct:
		// Approximation over the average year; exact ACT/ACT needs period
		// context that portfolio-level analytics do not carry.
		return daysBetween(start, end) / 365.25
	default:
		return daysBetween(start, end) / 365.0
	}
}

func daysBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24.0
}

// thirty360 implements the US bond-basis 30/360 rule.
func thirty360(start, end time.Time) float64 {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()
	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 && d1 == 30 {
		d2 = 30
	}
	days := 360*(y2-y1) + 30*(int(m2)-int(m1)) + (d2 - d1)
	return float64(days) / 360.0
}
