// Command snapshot-backup pulls the raw activity listing from the API and
// writes it out as JSON, either to a local file or to a bucket. It is the
// manual escape hatch for keeping a copy of the data outside the live store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/dustin/go-humanize"

	"github.com/tomruns/stravadash/pkg/bootstrap"
	infrastorage "github.com/tomruns/stravadash/pkg/infrastructure/storage"
	"github.com/tomruns/stravadash/pkg/integrations/strava"
)

func main() {
	out := flag.String("out", "", "local output path; default activities-<timestamp>.json")
	bucket := flag.String("bucket", "", "GCS bucket to upload to instead of writing locally")
	flag.Parse()

	bootstrap.InitLogger()
	logger := bootstrap.NewLogger("snapshot-backup")
	cfg := bootstrap.LoadConfig()

	ctx := context.Background()
	if err := run(ctx, cfg, logger, *out, *bucket); err != nil {
		logger.Error("Backup failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *bootstrap.Config, logger *slog.Logger, out, bucket string) error {
	client := strava.NewClient(cfg.Strava)
	if err := client.Authenticate(ctx); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	activities, truncated, err := client.FetchAllActivities(ctx)
	if err != nil {
		return fmt.Errorf("fetch activities: %w", err)
	}
	if truncated {
		logger.Warn("Fetch hit the page cap; backup may be missing the oldest activities")
	}

	data, err := json.MarshalIndent(activities, "", "  ")
	if err != nil {
		return fmt.Errorf("encode activities: %w", err)
	}

	name := out
	if name == "" {
		name = fmt.Sprintf("activities-%s.json", time.Now().UTC().Format("2006-01-02T15-04-05"))
	}

	if bucket != "" {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("storage init: %w", err)
		}
		blobs := &infrastorage.StorageAdapter{Client: gcsClient}
		if err := blobs.Write(ctx, bucket, "backups/"+name, data); err != nil {
			return fmt.Errorf("upload backup: %w", err)
		}
		logger.Info("Backup uploaded",
			"bucket", bucket,
			"object", "backups/"+name,
			"activities", humanize.Comma(int64(len(activities))))
		return nil
	}

	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	logger.Info("Backup written",
		"path", name,
		"activities", humanize.Comma(int64(len(activities))),
		"size", humanize.Bytes(uint64(len(data))))
	return nil
}
