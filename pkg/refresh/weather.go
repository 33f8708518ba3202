package refresh

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomruns/stravadash/pkg/domain/activity"
)

// enrichWeather attaches an hourly temperature and humidity sample to every
// row that has a start position. Lookups fan out through a bounded pool;
// each goroutine writes only its own row. Failures and missing archive data
// both leave the fields nil, and the whole pass never fails the refresh.
func (p *Pipeline) enrichWeather(ctx context.Context, rows []activity.Row, logger *slog.Logger) {
	if p.Weather == nil {
		return
	}

	workers := p.WeatherWorkers
	if workers <= 0 {
		workers = defaultWeatherWorkers
	}
	timeout := p.LookupTimeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i := range rows {
		r := &rows[i]
		if r.StartLat == nil || r.StartLng == nil {
			continue
		}
		g.Go(func() error {
			lookupCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			hour := r.StartDateLocal.Truncate(time.Hour)
			sample, err := p.Weather.HourlySample(lookupCtx, *r.StartLat, *r.StartLng, hour)
			if err != nil {
				logger.Debug("Weather lookup failed", "activity_id", r.ID, "error", err)
				return nil
			}
			if sample == nil {
				return nil
			}
			temp := sample.TempF
			hum := sample.Humidity
			r.TempF = &temp
			r.Humidity = &hum
			return nil
		})
	}

	// Goroutines always return nil; Wait is purely a join.
	_ = g.Wait()
}
