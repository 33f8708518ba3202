// Package refresh assembles the activity snapshot: fetch from Strava,
// convert units, enrich with weather and gear, derive calendar fields and
// persist the result whole.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	shared "github.com/tomruns/stravadash/pkg"
	"github.com/tomruns/stravadash/pkg/domain/activity"
	"github.com/tomruns/stravadash/pkg/infrastructure/pubsub"
	"github.com/tomruns/stravadash/pkg/infrastructure/sentry"
	"github.com/tomruns/stravadash/pkg/integrations/meteo"
	"github.com/tomruns/stravadash/pkg/integrations/strava"
)

// ErrRefreshInFlight is returned when a refresh is requested while another
// one is still running. The caller reports it; it never queues.
var ErrRefreshInFlight = errors.New("refresh already in progress")

// Source says where the rows of a Result came from.
type Source string

const (
	SourceLive   Source = "live"
	SourceBackup Source = "backup"
)

// ActivitySource is the upstream activity API seam.
type ActivitySource interface {
	Authenticate(ctx context.Context) error
	FetchAllActivities(ctx context.Context) (activities []strava.SummaryActivity, truncated bool, err error)
	GetGear(ctx context.Context, gearID string) (*strava.Gear, error)
}

// WeatherSource is the historical weather seam.
type WeatherSource interface {
	HourlySample(ctx context.Context, lat, lng float64, hour time.Time) (*meteo.Sample, error)
}

const (
	defaultWeatherWorkers = 30
	defaultLookupTimeout  = 5 * time.Second
)

// Pipeline runs the full refresh. One refresh at a time; concurrent calls
// get ErrRefreshInFlight.
type Pipeline struct {
	Strava  ActivitySource
	Weather WeatherSource
	Store   shared.SnapshotStore
	Blobs   shared.BlobStore
	Events  shared.Publisher
	Logger  *slog.Logger

	// ArchiveBucket receives a CSV copy of every snapshot; empty disables
	// archiving.
	ArchiveBucket string

	// WeatherWorkers bounds the weather fan-out; zero means the default.
	WeatherWorkers int
	// LookupTimeout bounds each individual weather lookup.
	LookupTimeout time.Duration

	// Now is the clock; tests override it.
	Now func() time.Time

	mu sync.Mutex
}

// Result is what a refresh produced: the snapshot now considered current,
// where its rows came from, and anything that degraded along the way.
type Result struct {
	Snapshot *activity.Snapshot
	Source   Source
	Warnings []string
}

// Refresh rebuilds the snapshot from the live API. Any failure to reach
// live data falls back to the persisted snapshot; enrichment failures
// degrade single fields to nil and never abort the run.
func (p *Pipeline) Refresh(ctx context.Context) (*Result, error) {
	if !p.mu.TryLock() {
		return nil, ErrRefreshInFlight
	}
	defer p.mu.Unlock()

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	if err := p.Strava.Authenticate(ctx); err != nil {
		logger.Warn("Authentication failed, falling back to stored snapshot", "error", err)
		return p.fallback(ctx, fmt.Sprintf("authentication failed: %v", err))
	}

	raw, truncated, err := p.Strava.FetchAllActivities(ctx)
	if err != nil {
		logger.Warn("Activity fetch failed, falling back to stored snapshot", "error", err)
		return p.fallback(ctx, fmt.Sprintf("activity fetch failed: %v", err))
	}
	if len(raw) == 0 {
		logger.Warn("Activity fetch returned no rows, falling back to stored snapshot")
		return p.fallback(ctx, "activity fetch returned no rows")
	}

	result := &Result{Source: SourceLive}
	if truncated {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("fetch hit the %d page cap; oldest activities may be missing", strava.MaxPages))
	}

	rows := make([]activity.Row, len(raw))
	for i := range raw {
		rows[i] = buildRow(&raw[i])
	}

	p.enrichWeather(ctx, rows, logger)
	result.Warnings = append(result.Warnings, p.joinGear(ctx, rows, logger)...)

	for i := range rows {
		rows[i].Calendar = activity.DeriveCalendar(rows[i].StartDateLocal)
	}

	snap := &activity.Snapshot{
		ID:          uuid.New().String(),
		RefreshedAt: now().UTC().Truncate(time.Second),
		Truncated:   truncated,
		Rows:        rows,
	}
	result.Snapshot = snap

	if err := p.Store.Store(ctx, snap); err != nil {
		// The in-memory snapshot is still the freshest data we have, so a
		// persistence failure degrades to a warning.
		sentry.CaptureException(err, map[string]interface{}{"snapshot_id": snap.ID}, logger)
		logger.Error("Snapshot persistence failed", "error", err, "snapshot_id", snap.ID)
		result.Warnings = append(result.Warnings, fmt.Sprintf("snapshot persistence failed: %v", err))
	}

	p.archive(ctx, snap, logger)
	p.publish(ctx, snap, logger)

	logger.Info("Refresh complete",
		"snapshot_id", snap.ID,
		"rows", humanize.Comma(int64(len(snap.Rows))),
		"truncated", snap.Truncated)
	return result, nil
}

// Load returns the persisted snapshot, for serving before the first refresh.
func (p *Pipeline) Load(ctx context.Context) (*activity.Snapshot, error) {
	return p.Store.Load(ctx)
}

func (p *Pipeline) fallback(ctx context.Context, reason string) (*Result, error) {
	snap, err := p.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s and no stored snapshot available: %w", reason, err)
	}
	return &Result{
		Snapshot: snap,
		Source:   SourceBackup,
		Warnings: []string{reason},
	}, nil
}

// buildRow converts one raw API activity into display units. Each value
// converts and rounds independently, never derived from another converted
// value.
func buildRow(a *strava.SummaryActivity) activity.Row {
	r := activity.Row{
		ID:              a.ID,
		UploadID:        a.UploadID,
		Name:            a.Name,
		Type:            a.Type,
		DistanceMi:      activity.MetersToMiles(a.Distance),
		MovingTime:      time.Duration(a.MovingTime) * time.Second,
		ElapsedTime:     time.Duration(a.ElapsedTime) * time.Second,
		ElevationGainFt: activity.MetersToFeet(a.TotalElevationGain),
		ElevHighFt:      activity.MetersToFeet(a.ElevHigh),
		ElevLowFt:       activity.MetersToFeet(a.ElevLow),
		AvgSpeedMph:     activity.MetersPerSecToMph(a.AverageSpeed),
		MaxSpeedMph:     activity.MetersPerSecToMph(a.MaxSpeed),
		AvgHeartRate:    a.AverageHeartrate,
		MaxHeartRate:    a.MaxHeartrate,
		SufferScore:     a.SufferScore,
		StartDate:       a.StartDate.UTC(),
		StartDateLocal:  stripZone(a.StartDateLocal),
		GearID:          a.GearID,
	}
	if len(a.StartLatLng) == 2 {
		lat, lng := a.StartLatLng[0], a.StartLatLng[1]
		r.StartLat = &lat
		r.StartLng = &lng
	}
	return r
}

// stripZone keeps the wall-clock reading and drops the offset; local times
// compare and truncate as plain clock values.
func stripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// joinGear left-joins gear attributes onto the rows. Lookups run
// sequentially, one per distinct gear id; a failed lookup leaves the gear
// fields nil on every row that references it.
func (p *Pipeline) joinGear(ctx context.Context, rows []activity.Row, logger *slog.Logger) []string {
	type gearEntry struct {
		gear *strava.Gear
		err  error
	}
	cache := map[string]gearEntry{}
	var warnings []string

	for i := range rows {
		id := rows[i].GearID
		if id == "" {
			continue
		}
		entry, ok := cache[id]
		if !ok {
			gear, err := p.Strava.GetGear(ctx, id)
			entry = gearEntry{gear: gear, err: err}
			cache[id] = entry
			if err != nil {
				logger.Warn("Gear lookup failed", "gear_id", id, "error", err)
				warnings = append(warnings, fmt.Sprintf("gear lookup failed for %s: %v", id, err))
			}
		}
		if entry.err != nil || entry.gear == nil {
			continue
		}
		g := entry.gear
		name := g.Name
		brand := g.BrandName
		retired := g.Retired
		dist := activity.MetersToMilesExact(g.Distance)
		rows[i].GearName = &name
		rows[i].GearBrand = &brand
		rows[i].GearRetired = &retired
		rows[i].GearDistanceMi = &dist
	}
	return warnings
}

func (p *Pipeline) archive(ctx context.Context, snap *activity.Snapshot, logger *slog.Logger) {
	if p.Blobs == nil || p.ArchiveBucket == "" {
		return
	}
	data, err := snapshotCSV(snap)
	if err != nil {
		logger.Warn("Snapshot archive encoding failed", "error", err)
		return
	}
	object := fmt.Sprintf("archives/%s.csv", snap.RefreshedAt.Format("2006-01-02T15-04-05"))
	if err := p.Blobs.Write(ctx, p.ArchiveBucket, object, data); err != nil {
		logger.Warn("Snapshot archive upload failed", "error", err, "object", object)
		return
	}
	logger.Info("Snapshot archived", "bucket", p.ArchiveBucket, "object", object)
}

func (p *Pipeline) publish(ctx context.Context, snap *activity.Snapshot, logger *slog.Logger) {
	if p.Events == nil {
		return
	}
	e, err := pubsub.NewCloudEvent("stravadash/refresh", "com.stravadash.snapshot.refreshed",
		pubsub.SnapshotRefreshedData{
			SnapshotID:  snap.ID,
			RefreshedAt: snap.RefreshedAt,
			RowCount:    len(snap.Rows),
			Truncated:   snap.Truncated,
		})
	if err != nil {
		logger.Warn("Event construction failed", "error", err)
		return
	}
	if _, err := p.Events.PublishCloudEvent(ctx, shared.TopicSnapshotRefreshed, e); err != nil {
		logger.Warn("Event publish failed", "error", err)
	}
}
