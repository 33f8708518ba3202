package activity

import (
	"testing"
	"time"
)

func TestDeriveCalendar(t *testing.T) {
	// Saturday 2025-03-15 14:52:54
	local := time.Date(2025, time.March, 15, 14, 52, 54, 0, time.UTC)
	cal := DeriveCalendar(local)

	if cal.StartTime24h != "14:52:54" {
		t.Errorf("StartTime24h = %q, want 14:52:54", cal.StartTime24h)
	}
	if cal.StartTime12h != "02:52 PM" {
		t.Errorf("StartTime12h = %q, want 02:52 PM", cal.StartTime12h)
	}
	if cal.StartHour != 15 {
		t.Errorf("StartHour = %d, want 15 (14:52 rounds up)", cal.StartHour)
	}
	if cal.Weekday != "Saturday" {
		t.Errorf("Weekday = %q, want Saturday", cal.Weekday)
	}
	if cal.WeekdayNum != 5 {
		t.Errorf("WeekdayNum = %d, want 5 (Monday is 0)", cal.WeekdayNum)
	}
	if cal.Month != "March" || cal.MonthNum != 3 {
		t.Errorf("Month = %q/%d, want March/3", cal.Month, cal.MonthNum)
	}
	if cal.Year != 2025 {
		t.Errorf("Year = %d, want 2025", cal.Year)
	}

	wantSeasonal := time.Date(2000, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !cal.MonthSeasonal.Equal(wantSeasonal) {
		t.Errorf("MonthSeasonal = %v, want %v", cal.MonthSeasonal, wantSeasonal)
	}
	wantMonthYear := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !cal.MonthYear.Equal(wantMonthYear) {
		t.Errorf("MonthYear = %v, want %v", cal.MonthYear, wantMonthYear)
	}
}

func TestStartHourRoundsAndWraps(t *testing.T) {
	tests := []struct {
		name string
		hh   int
		mm   int
		want int
	}{
		{"rounds down before half past", 9, 20, 9},
		{"rounds up after half past", 9, 40, 10},
		{"wraps past midnight", 23, 40, 0},
		{"midnight stays", 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := time.Date(2025, time.June, 2, tt.hh, tt.mm, 0, 0, time.UTC)
			if got := DeriveCalendar(local).StartHour; got != tt.want {
				t.Errorf("StartHour(%02d:%02d) = %d, want %d", tt.hh, tt.mm, got, tt.want)
			}
		})
	}
}

func TestWeekdayNumMondayZero(t *testing.T) {
	// 2025-06-02 is a Monday.
	for i := 0; i < 7; i++ {
		local := time.Date(2025, time.June, 2+i, 12, 0, 0, 0, time.UTC)
		cal := DeriveCalendar(local)
		if cal.WeekdayNum != i {
			t.Errorf("%s: WeekdayNum = %d, want %d", cal.Weekday, cal.WeekdayNum, i)
		}
		if cal.WeekdayNum < 0 || cal.WeekdayNum > 6 {
			t.Errorf("WeekdayNum out of range: %d", cal.WeekdayNum)
		}
	}
}

// Calendar fields are pure functions of the timestamp.
func TestDeriveCalendarDeterministic(t *testing.T) {
	local := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)
	if a, b := DeriveCalendar(local), DeriveCalendar(local); a != b {
		t.Errorf("DeriveCalendar not deterministic: %+v vs %+v", a, b)
	}
}
