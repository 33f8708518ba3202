package activity

import (
	"fmt"
	"time"
)

// Canonical textual encodings for non-primitive fields. The persistence
// gateway and the CSV archive both use these so that store followed by load
// reproduces every field exactly.
const (
	// TimeLayout encodes naive timestamps (local times have their zone
	// stripped before encoding).
	TimeLayout = "2006-01-02 15:04:05"
)

// FormatTime encodes a timestamp in the canonical layout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime decodes a canonical timestamp. The result carries UTC as a
// stand-in zone; local timestamps are naive by contract.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// FormatDuration encodes a duration as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// ParseDuration decodes an HH:MM:SS duration.
func ParseDuration(s string) (time.Duration, error) {
	var h, m, sec int64
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(h*3600+m*60+sec) * time.Second, nil
}

// FormatHours renders a duration as "X hrs Y min" for status summaries.
func FormatHours(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%d hrs %d min", total/3600, (total%3600)/60)
}
