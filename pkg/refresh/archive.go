package refresh

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/tomruns/stravadash/pkg/domain/activity"
)

var csvHeader = []string{
	"id", "upload_id", "name", "type",
	"distance", "moving_time", "elapsed_time",
	"total_elevation_gain", "elev_high", "elev_low",
	"average_speed", "max_speed",
	"average_heartrate", "max_heartrate", "suffer_score",
	"start_date", "start_date_local", "start_lat", "start_lng",
	"gear_id", "name_gear", "brand_name", "gear_retired", "distance_gear",
	"temp", "rhum",
	"start_time_local_24h", "start_time_local_12h", "start_hour_24",
	"day_of_week", "weekday_num", "month", "month_num",
	"month_seasonal", "month_year", "year",
	"refresh_datetime",
}

// snapshotCSV renders the snapshot as the archive CSV, one line per row
// with a trailing refresh timestamp column. Absent optionals encode as
// empty cells.
func snapshotCSV(snap *activity.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	refreshedAt := activity.FormatTime(snap.RefreshedAt)
	for i := range snap.Rows {
		r := &snap.Rows[i]
		record := []string{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.UploadID, 10),
			r.Name,
			r.Type,
			formatFloat(r.DistanceMi),
			activity.FormatDuration(r.MovingTime),
			activity.FormatDuration(r.ElapsedTime),
			formatFloat(r.ElevationGainFt),
			formatFloat(r.ElevHighFt),
			formatFloat(r.ElevLowFt),
			formatFloat(r.AvgSpeedMph),
			formatFloat(r.MaxSpeedMph),
			formatFloatPtr(r.AvgHeartRate),
			formatFloatPtr(r.MaxHeartRate),
			formatFloatPtr(r.SufferScore),
			activity.FormatTime(r.StartDate),
			activity.FormatTime(r.StartDateLocal),
			formatFloatPtr(r.StartLat),
			formatFloatPtr(r.StartLng),
			r.GearID,
			stringPtr(r.GearName),
			stringPtr(r.GearBrand),
			formatBoolPtr(r.GearRetired),
			formatFloatPtr(r.GearDistanceMi),
			formatFloatPtr(r.TempF),
			formatFloatPtr(r.Humidity),
			r.Calendar.StartTime24h,
			r.Calendar.StartTime12h,
			strconv.Itoa(r.Calendar.StartHour),
			r.Calendar.Weekday,
			strconv.Itoa(r.Calendar.WeekdayNum),
			r.Calendar.Month,
			strconv.Itoa(r.Calendar.MonthNum),
			activity.FormatTime(r.Calendar.MonthSeasonal),
			activity.FormatTime(r.Calendar.MonthYear),
			strconv.Itoa(r.Calendar.Year),
			refreshedAt,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatBoolPtr(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}

func stringPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
