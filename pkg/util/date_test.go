package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-06-02")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
	if _, err := ParseDate("06/02/2025"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}

func TestBusinessDaysSkipsWeekends(t *testing.T) {
	// 2025-06-02 is a Monday; one full week has 5 business days.
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	days := BusinessDays(start, end)
	if len(days) != 5 {
		t.Fatalf("expected 5 business days, got %d", len(days))
	}
	for _, d := range days {
		if IsWeekend(d) {
			t.Fatalf("weekend day %v in result", d)
		}
	}
}

func TestBusinessDaysSingleAndInverted(t *testing.T) {
	sat := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	if days := BusinessDays(sat, sat); len(days) != 0 {
		t.Fatalf("saturday alone should yield none, got %d", len(days))
	}
	mon := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if days := BusinessDays(mon, mon); len(days) != 1 {
		t.Fatalf("single monday should yield one, got %d", len(days))
	}
	if days := BusinessDays(mon.AddDate(0, 0, 5), mon); days != nil {
		t.Fatalf("inverted range should be empty")
	}
}
