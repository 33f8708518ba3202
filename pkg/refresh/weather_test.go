package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomruns/stravadash/pkg/domain/activity"
	"github.com/tomruns/stravadash/pkg/integrations/meteo"
	"github.com/tomruns/stravadash/pkg/testing/mocks"
)

func weatherRow(id int64, lat, lng float64, start time.Time) activity.Row {
	return activity.Row{
		ID:             id,
		StartLat:       &lat,
		StartLng:       &lng,
		StartDateLocal: start,
	}
}

func TestEnrichWeatherAttachesByPosition(t *testing.T) {
	start := time.Date(2025, time.May, 10, 8, 30, 0, 0, time.UTC)
	rows := []activity.Row{
		weatherRow(1, 40.0, -74.0, start),
		weatherRow(2, 51.5, -0.1, start.Add(time.Hour)),
		{ID: 3, StartDateLocal: start}, // no position, skipped
	}

	p := &Pipeline{
		Weather: &mocks.MockWeatherSource{
			HourlySampleFunc: func(ctx context.Context, lat, lng float64, hour time.Time) (*meteo.Sample, error) {
				// Distinguish rows by latitude so reattachment is checkable.
				return &meteo.Sample{TempF: lat, Humidity: 50}, nil
			},
		},
	}
	p.enrichWeather(context.Background(), rows, slog.Default())

	require.NotNil(t, rows[0].TempF)
	assert.Equal(t, 40.0, *rows[0].TempF)
	require.NotNil(t, rows[1].TempF)
	assert.Equal(t, 51.5, *rows[1].TempF)
	assert.Nil(t, rows[2].TempF)
	assert.Nil(t, rows[2].Humidity)
}

func TestEnrichWeatherTruncatesToHour(t *testing.T) {
	var gotHour time.Time
	rows := []activity.Row{
		weatherRow(1, 40.0, -74.0, time.Date(2025, time.May, 10, 8, 47, 12, 0, time.UTC)),
	}
	p := &Pipeline{
		Weather: &mocks.MockWeatherSource{
			HourlySampleFunc: func(ctx context.Context, lat, lng float64, hour time.Time) (*meteo.Sample, error) {
				gotHour = hour
				return nil, nil
			},
		},
	}
	p.enrichWeather(context.Background(), rows, slog.Default())

	want := time.Date(2025, time.May, 10, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, want, gotHour, "8:47 truncates to 8:00, never rounds up")
}

func TestEnrichWeatherFailuresLeaveFieldsNil(t *testing.T) {
	start := time.Date(2025, time.May, 10, 8, 0, 0, 0, time.UTC)
	rows := make([]activity.Row, 10)
	for i := range rows {
		rows[i] = weatherRow(int64(i), 40.0, -74.0, start)
	}

	p := &Pipeline{
		Weather: &mocks.MockWeatherSource{
			HourlySampleFunc: func(ctx context.Context, lat, lng float64, hour time.Time) (*meteo.Sample, error) {
				return nil, errors.New("connection refused")
			},
		},
	}
	// Must not panic or fail; every row just stays unenriched.
	p.enrichWeather(context.Background(), rows, slog.Default())

	for i := range rows {
		assert.Nil(t, rows[i].TempF, "row %d", i)
		assert.Nil(t, rows[i].Humidity, "row %d", i)
	}
}

func TestEnrichWeatherBoundsConcurrency(t *testing.T) {
	const limit = 4
	var inFlight, peak atomic.Int64

	start := time.Date(2025, time.May, 10, 8, 0, 0, 0, time.UTC)
	rows := make([]activity.Row, 50)
	for i := range rows {
		rows[i] = weatherRow(int64(i), 40.0, -74.0, start)
	}

	p := &Pipeline{
		WeatherWorkers: limit,
		Weather: &mocks.MockWeatherSource{
			HourlySampleFunc: func(ctx context.Context, lat, lng float64, hour time.Time) (*meteo.Sample, error) {
				n := inFlight.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				inFlight.Add(-1)
				return &meteo.Sample{TempF: 60, Humidity: 40}, nil
			},
		},
	}
	p.enrichWeather(context.Background(), rows, slog.Default())

	assert.LessOrEqual(t, peak.Load(), int64(limit), "pool width must be bounded")
	for i := range rows {
		require.NotNil(t, rows[i].TempF, "row %d", i)
	}
}
