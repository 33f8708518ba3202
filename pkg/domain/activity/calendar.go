package activity

import "time"

// seasonalRefYear is the fixed year all months are bucketed into for
// cross-year seasonal overlays.
const seasonalRefYear = 2000

// Calendar holds the fields derived from the local start timestamp. All of
// them are deterministic functions of that single timestamp; deriving twice
// yields identical values.
type Calendar struct {
	StartTime24h string // "15:04:05"
	StartTime12h string // "03:04 PM"
	// StartHour is the start time rounded to the nearest hour, 0-23.
	// 23:40 rounds forward and wraps to 0.
	StartHour int

	Weekday string
	// WeekdayNum is 0-indexed with Monday = 0.
	WeekdayNum int

	Month    string
	MonthNum int

	// MonthSeasonal is the first of the month in the fixed reference year.
	MonthSeasonal time.Time
	// MonthYear is the first of the actual month, the monthly grouping key.
	MonthYear time.Time

	Year int
}

// DeriveCalendar computes the calendar fields for a local start timestamp.
func DeriveCalendar(local time.Time) Calendar {
	return Calendar{
		StartTime24h:  local.Format("15:04:05"),
		StartTime12h:  local.Format("03:04 PM"),
		StartHour:     local.Round(time.Hour).Hour(),
		Weekday:       local.Weekday().String(),
		WeekdayNum:    (int(local.Weekday()) + 6) % 7,
		Month:         local.Month().String(),
		MonthNum:      int(local.Month()),
		MonthSeasonal: time.Date(seasonalRefYear, local.Month(), 1, 0, 0, 0, 0, time.UTC),
		MonthYear:     time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.UTC),
		Year:          local.Year(),
	}
}
