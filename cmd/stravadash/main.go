// Command stravadash runs the fitness analytics backend: it serves the
// activity snapshot over HTTP and refreshes it on a schedule.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tomruns/stravadash/pkg/bootstrap"
	"github.com/tomruns/stravadash/pkg/infrastructure/sentry"
	"github.com/tomruns/stravadash/pkg/integrations/meteo"
	"github.com/tomruns/stravadash/pkg/integrations/strava"
	"github.com/tomruns/stravadash/pkg/refresh"
	"github.com/tomruns/stravadash/pkg/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := bootstrap.NewService(ctx)
	if err != nil {
		slog.Error("Service initialization failed", "error", err)
		os.Exit(1)
	}
	logger := bootstrap.NewLogger("stravadash")

	if err := sentry.Init(sentry.Config{
		DSN:         svc.Config.SentryDSN,
		Environment: os.Getenv("ENVIRONMENT"),
		ServerName:  "stravadash",
	}, logger); err != nil {
		logger.Warn("Sentry init failed, continuing without it", "error", err)
	}
	defer sentry.Flush(2 * time.Second)

	pipeline := &refresh.Pipeline{
		Strava:        strava.NewClient(svc.Config.Strava),
		Weather:       meteo.NewClient(),
		Store:         svc.Store,
		Blobs:         svc.Blobs,
		Events:        svc.Pub,
		Logger:        logger,
		ArchiveBucket: svc.Config.ArchiveBucket,
	}

	srv := server.New(pipeline, logger)
	srv.LoadInitial(ctx)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(svc.Config.RefreshSchedule, func() {
		logger.Info("Scheduled refresh starting")
		if _, err := srv.RunRefresh(ctx); err != nil {
			if errors.Is(err, refresh.ErrRefreshInFlight) {
				logger.Warn("Scheduled refresh skipped, another refresh in progress")
				return
			}
			sentry.CaptureException(err, nil, logger)
			logger.Error("Scheduled refresh failed", "error", err)
		}
	}); err != nil {
		logger.Error("Invalid refresh schedule", "schedule", svc.Config.RefreshSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:              ":" + svc.Config.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "port", svc.Config.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
}
