package server

import (
	"github.com/tomruns/stravadash/pkg/domain/activity"
)

// activityDTO is the wire shape of one row. Timestamps and durations use
// the same canonical text encodings as the persistence layer.
type activityDTO struct {
	ID       int64  `json:"id"`
	UploadID int64  `json:"upload_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`

	DistanceMi      float64 `json:"distance"`
	MovingTime      string  `json:"moving_time"`
	ElapsedTime     string  `json:"elapsed_time"`
	MovingTimeHours string  `json:"moving_time_formatted"`
	ElevationGainFt float64 `json:"total_elevation_gain"`
	ElevHighFt      float64 `json:"elev_high"`
	ElevLowFt       float64 `json:"elev_low"`
	AvgSpeedMph     float64 `json:"average_speed"`
	MaxSpeedMph     float64 `json:"max_speed"`

	AvgHeartRate *float64 `json:"average_heartrate,omitempty"`
	MaxHeartRate *float64 `json:"max_heartrate,omitempty"`
	SufferScore  *float64 `json:"suffer_score,omitempty"`

	StartDate      string `json:"start_date"`
	StartDateLocal string `json:"start_date_local"`

	StartLat *float64 `json:"start_lat,omitempty"`
	StartLng *float64 `json:"start_lng,omitempty"`

	GearID         string   `json:"gear_id,omitempty"`
	GearName       *string  `json:"name_gear,omitempty"`
	GearBrand      *string  `json:"brand_name,omitempty"`
	GearRetired    *bool    `json:"gear_retired,omitempty"`
	GearDistanceMi *float64 `json:"distance_gear,omitempty"`

	TempF    *float64 `json:"temp,omitempty"`
	Humidity *float64 `json:"rhum,omitempty"`

	StartTime24h  string `json:"start_time_local_24h"`
	StartTime12h  string `json:"start_time_local_12h"`
	StartHour     int    `json:"start_hour_24"`
	Weekday       string `json:"day_of_week"`
	WeekdayNum    int    `json:"weekday_num"`
	Month         string `json:"month"`
	MonthNum      int    `json:"month_num"`
	MonthSeasonal string `json:"month_seasonal"`
	MonthYear     string `json:"month_year"`
	Year          int    `json:"year"`
}

func toDTO(r *activity.Row) activityDTO {
	return activityDTO{
		ID:              r.ID,
		UploadID:        r.UploadID,
		Name:            r.Name,
		Type:            r.Type,
		DistanceMi:      r.DistanceMi,
		MovingTime:      activity.FormatDuration(r.MovingTime),
		ElapsedTime:     activity.FormatDuration(r.ElapsedTime),
		MovingTimeHours: activity.FormatHours(r.MovingTime),
		ElevationGainFt: r.ElevationGainFt,
		ElevHighFt:      r.ElevHighFt,
		ElevLowFt:       r.ElevLowFt,
		AvgSpeedMph:     r.AvgSpeedMph,
		MaxSpeedMph:     r.MaxSpeedMph,
		AvgHeartRate:    r.AvgHeartRate,
		MaxHeartRate:    r.MaxHeartRate,
		SufferScore:     r.SufferScore,
		StartDate:       activity.FormatTime(r.StartDate),
		StartDateLocal:  activity.FormatTime(r.StartDateLocal),
		StartLat:        r.StartLat,
		StartLng:        r.StartLng,
		GearID:          r.GearID,
		GearName:        r.GearName,
		GearBrand:       r.GearBrand,
		GearRetired:     r.GearRetired,
		GearDistanceMi:  r.GearDistanceMi,
		TempF:           r.TempF,
		Humidity:        r.Humidity,
		StartTime24h:    r.Calendar.StartTime24h,
		StartTime12h:    r.Calendar.StartTime12h,
		StartHour:       r.Calendar.StartHour,
		Weekday:         r.Calendar.Weekday,
		WeekdayNum:      r.Calendar.WeekdayNum,
		Month:           r.Calendar.Month,
		MonthNum:        r.Calendar.MonthNum,
		MonthSeasonal:   activity.FormatTime(r.Calendar.MonthSeasonal),
		MonthYear:       activity.FormatTime(r.Calendar.MonthYear),
		Year:            r.Calendar.Year,
	}
}
