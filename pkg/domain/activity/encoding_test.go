package activity

import (
	"testing"
	"time"
)

func TestTimeRoundTrip(t *testing.T) {
	orig := time.Date(2025, time.March, 15, 14, 52, 54, 0, time.UTC)
	encoded := FormatTime(orig)
	if encoded != "2025-03-15 14:52:54" {
		t.Fatalf("FormatTime = %q", encoded)
	}
	decoded, err := ParseTime(encoded)
	if err != nil {
		t.Fatalf("ParseTime: %v", err)
	}
	if !decoded.Equal(orig) {
		t.Errorf("round trip changed value: %v -> %v", orig, decoded)
	}
}

func TestDurationRoundTrip(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{90 * time.Second, "00:01:30"},
		{time.Hour + 23*time.Minute + 45*time.Second, "01:23:45"},
		{26 * time.Hour, "26:00:00"},
	}
	for _, tt := range tests {
		encoded := FormatDuration(tt.d)
		if encoded != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, encoded, tt.want)
		}
		decoded, err := ParseDuration(encoded)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", encoded, err)
		}
		if decoded != tt.d {
			t.Errorf("round trip changed value: %v -> %v", tt.d, decoded)
		}
	}
}

func TestParseDurationRejectsGarbage(t *testing.T) {
	if _, err := ParseDuration("not-a-duration"); err == nil {
		t.Error("expected error for malformed duration")
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 hrs 0 min"},
		{95 * time.Minute, "1 hrs 35 min"},
		{48*time.Hour + 30*time.Minute, "48 hrs 30 min"},
	}
	for _, tt := range tests {
		if got := FormatHours(tt.d); got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
