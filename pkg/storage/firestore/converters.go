package firestore

import (
	"fmt"
	"time"

	"github.com/tomruns/stravadash/pkg/domain/activity"
)

// Row documents carry timestamps and durations as canonical text
// (activity.TimeLayout / HH:MM:SS) so that a stored snapshot loads back
// bit-identical. Numeric fields round-trip as float64/int64, which is what
// the Firestore client hands back for numbers.

// Helper to safely get string from map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Helper to safely get float from map
func getFloat(m map[string]interface{}, key string) float64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

// Helper to safely get int from map (Firestore returns int64 for integers)
func getInt(m map[string]interface{}, key string) int64 {
	if v, ok := m[key]; ok {
		if i, ok := v.(int64); ok {
			return i
		}
	}
	return 0
}

// Helper to safely get bool from map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Helper to get optional float; absent key means nil
func getFloatPtr(m map[string]interface{}, key string) *float64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return &f
		}
	}
	return nil
}

func getStringPtr(m map[string]interface{}, key string) *string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return &s
		}
	}
	return nil
}

func getBoolPtr(m map[string]interface{}, key string) *bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return &b
		}
	}
	return nil
}

// setIfNotNil writes optional fields only when present, so absent values
// stay absent instead of becoming zeroes.
func setIfNotNil[T any](m map[string]interface{}, key string, v *T) {
	if v != nil {
		m[key] = *v
	}
}

// --- Row Converters ---

func RowToFirestore(r *activity.Row) map[string]interface{} {
	m := map[string]interface{}{
		"id":                   r.ID,
		"upload_id":            r.UploadID,
		"name":                 r.Name,
		"type":                 r.Type,
		"distance":             r.DistanceMi,
		"moving_time":          activity.FormatDuration(r.MovingTime),
		"elapsed_time":         activity.FormatDuration(r.ElapsedTime),
		"total_elevation_gain": r.ElevationGainFt,
		"elev_high":            r.ElevHighFt,
		"elev_low":             r.ElevLowFt,
		"average_speed":        r.AvgSpeedMph,
		"max_speed":            r.MaxSpeedMph,
		"start_date":           activity.FormatTime(r.StartDate),
		"start_date_local":     activity.FormatTime(r.StartDateLocal),
		"gear_id":              r.GearID,

		"start_time_local_24h": r.Calendar.StartTime24h,
		"start_time_local_12h": r.Calendar.StartTime12h,
		"start_hour_24":        int64(r.Calendar.StartHour),
		"day_of_week":          r.Calendar.Weekday,
		"weekday_num":          int64(r.Calendar.WeekdayNum),
		"month":                r.Calendar.Month,
		"month_num":            int64(r.Calendar.MonthNum),
		"month_seasonal":       activity.FormatTime(r.Calendar.MonthSeasonal),
		"month_year":           activity.FormatTime(r.Calendar.MonthYear),
		"year":                 int64(r.Calendar.Year),
	}

	setIfNotNil(m, "average_heartrate", r.AvgHeartRate)
	setIfNotNil(m, "max_heartrate", r.MaxHeartRate)
	setIfNotNil(m, "suffer_score", r.SufferScore)
	setIfNotNil(m, "start_lat", r.StartLat)
	setIfNotNil(m, "start_lng", r.StartLng)
	setIfNotNil(m, "name_gear", r.GearName)
	setIfNotNil(m, "brand_name", r.GearBrand)
	setIfNotNil(m, "gear_retired", r.GearRetired)
	setIfNotNil(m, "distance_gear", r.GearDistanceMi)
	setIfNotNil(m, "temp", r.TempF)
	setIfNotNil(m, "rhum", r.Humidity)

	return m
}

func FirestoreToRow(m map[string]interface{}) (*activity.Row, error) {
	movingTime, err := activity.ParseDuration(getString(m, "moving_time"))
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", getInt(m, "id"), err)
	}
	elapsedTime, err := activity.ParseDuration(getString(m, "elapsed_time"))
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", getInt(m, "id"), err)
	}
	startDate, err := activity.ParseTime(getString(m, "start_date"))
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", getInt(m, "id"), err)
	}
	startDateLocal, err := activity.ParseTime(getString(m, "start_date_local"))
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", getInt(m, "id"), err)
	}
	monthSeasonal, err := activity.ParseTime(getString(m, "month_seasonal"))
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", getInt(m, "id"), err)
	}
	monthYear, err := activity.ParseTime(getString(m, "month_year"))
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", getInt(m, "id"), err)
	}

	return &activity.Row{
		ID:              getInt(m, "id"),
		UploadID:        getInt(m, "upload_id"),
		Name:            getString(m, "name"),
		Type:            getString(m, "type"),
		DistanceMi:      getFloat(m, "distance"),
		MovingTime:      movingTime,
		ElapsedTime:     elapsedTime,
		ElevationGainFt: getFloat(m, "total_elevation_gain"),
		ElevHighFt:      getFloat(m, "elev_high"),
		ElevLowFt:       getFloat(m, "elev_low"),
		AvgSpeedMph:     getFloat(m, "average_speed"),
		MaxSpeedMph:     getFloat(m, "max_speed"),
		AvgHeartRate:    getFloatPtr(m, "average_heartrate"),
		MaxHeartRate:    getFloatPtr(m, "max_heartrate"),
		SufferScore:     getFloatPtr(m, "suffer_score"),
		StartDate:       startDate,
		StartDateLocal:  startDateLocal,
		StartLat:        getFloatPtr(m, "start_lat"),
		StartLng:        getFloatPtr(m, "start_lng"),
		GearID:          getString(m, "gear_id"),
		GearName:        getStringPtr(m, "name_gear"),
		GearBrand:       getStringPtr(m, "brand_name"),
		GearRetired:     getBoolPtr(m, "gear_retired"),
		GearDistanceMi:  getFloatPtr(m, "distance_gear"),
		TempF:           getFloatPtr(m, "temp"),
		Humidity:        getFloatPtr(m, "rhum"),
		Calendar: activity.Calendar{
			StartTime24h:  getString(m, "start_time_local_24h"),
			StartTime12h:  getString(m, "start_time_local_12h"),
			StartHour:     int(getInt(m, "start_hour_24")),
			Weekday:       getString(m, "day_of_week"),
			WeekdayNum:    int(getInt(m, "weekday_num")),
			Month:         getString(m, "month"),
			MonthNum:      int(getInt(m, "month_num")),
			MonthSeasonal: monthSeasonal,
			MonthYear:     monthYear,
			Year:          int(getInt(m, "year")),
		},
	}, nil
}

// --- Snapshot Meta Converters ---

// SnapshotMeta is the single snapshot header document.
type SnapshotMeta struct {
	ID          string
	RefreshedAt time.Time
	Truncated   bool
	RowCount    int64
}

func SnapshotMetaToFirestore(s *SnapshotMeta) map[string]interface{} {
	return map[string]interface{}{
		"id":           s.ID,
		"refreshed_at": activity.FormatTime(s.RefreshedAt),
		"truncated":    s.Truncated,
		"row_count":    s.RowCount,
	}
}

func FirestoreToSnapshotMeta(m map[string]interface{}) (*SnapshotMeta, error) {
	refreshedAt, err := activity.ParseTime(getString(m, "refreshed_at"))
	if err != nil {
		return nil, fmt.Errorf("snapshot meta: %w", err)
	}
	return &SnapshotMeta{
		ID:          getString(m, "id"),
		RefreshedAt: refreshedAt,
		Truncated:   getBool(m, "truncated"),
		RowCount:    getInt(m, "row_count"),
	}, nil
}
