// Package activity defines the assembled activity table: one Row per
// recorded session, joined with gear and weather data and carrying the
// calendar fields the dashboard groups by.
package activity

import "time"

// Row is one fully assembled record of the snapshot table. Numeric fields
// are already in display units (miles, mph, feet, Fahrenheit). Optional
// fields are pointers; nil means the upstream value was absent or the
// lookup that produces it failed.
type Row struct {
	ID       int64
	UploadID int64
	Name     string
	Type     string

	DistanceMi      float64
	MovingTime      time.Duration
	ElapsedTime     time.Duration
	ElevationGainFt float64
	ElevHighFt      float64
	ElevLowFt       float64
	AvgSpeedMph     float64
	MaxSpeedMph     float64

	AvgHeartRate *float64
	MaxHeartRate *float64
	SufferScore  *float64

	// StartDate is UTC; StartDateLocal is the athlete's wall-clock time with
	// the zone stripped. StartDateLocal is the ordering key for everything
	// downstream.
	StartDate      time.Time
	StartDateLocal time.Time

	StartLat *float64
	StartLng *float64

	GearID string

	// Left-joined gear attributes; nil when GearID is empty or the lookup
	// was skipped.
	GearName       *string
	GearBrand      *string
	GearRetired    *bool
	GearDistanceMi *float64

	// Weather sample at the start hour; nil means no coverage or a failed
	// lookup, which are deliberately indistinguishable.
	TempF    *float64
	Humidity *float64

	Calendar Calendar
}

// Snapshot is the unit of persistence: the full joined table plus refresh
// metadata. Store/Load move it whole; there is no per-row upsert.
type Snapshot struct {
	ID          string
	RefreshedAt time.Time
	// Truncated is set when the fetch hit the page cap, meaning the table
	// may be missing the oldest activities. It is a warning, not an error.
	Truncated bool
	Rows      []Row
}

// Latest returns the most recent local start time in the snapshot, the
// reference point for the rolling 12 month filter. Zero time if empty.
func (s *Snapshot) Latest() time.Time {
	var max time.Time
	for _, r := range s.Rows {
		if r.StartDateLocal.After(max) {
			max = r.StartDateLocal
		}
	}
	return max
}
