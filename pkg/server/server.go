// Package server exposes the snapshot over HTTP: status, filtered activity
// listings, filter options and a refresh trigger.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tomruns/stravadash/pkg/domain/activity"
	"github.com/tomruns/stravadash/pkg/domain/filter"
	"github.com/tomruns/stravadash/pkg/refresh"
)

// Server serves the current snapshot from memory. The snapshot pointer is
// swapped whole on a successful refresh and never mutated in place, so
// readers only need the lock for the pointer itself.
type Server struct {
	pipeline *refresh.Pipeline
	logger   *slog.Logger

	mu      sync.RWMutex
	current *activity.Snapshot
	source  refresh.Source
}

func New(pipeline *refresh.Pipeline, logger *slog.Logger) *Server {
	return &Server{
		pipeline: pipeline,
		logger:   logger,
	}
}

// LoadInitial seeds the in-memory snapshot from persistence so the API can
// serve before the first refresh. Starting empty is not an error.
func (s *Server) LoadInitial(ctx context.Context) {
	snap, err := s.pipeline.Load(ctx)
	if err != nil {
		s.logger.Warn("No stored snapshot to serve at startup", "error", err)
		return
	}
	s.mu.Lock()
	s.current = snap
	s.source = refresh.SourceBackup
	s.mu.Unlock()
	s.logger.Info("Serving stored snapshot", "snapshot_id", snap.ID, "rows", len(snap.Rows))
}

// RunRefresh refreshes and, on success, swaps in the new snapshot. Used by
// both the HTTP trigger and the scheduler.
func (s *Server) RunRefresh(ctx context.Context) (*refresh.Result, error) {
	result, err := s.pipeline.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = result.Snapshot
	s.source = result.Source
	s.mu.Unlock()
	return result, nil
}

func (s *Server) snapshot() (*activity.Snapshot, refresh.Source) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.source
}

// Router builds the HTTP API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/activities", s.handleActivities)
		r.Get("/filters", s.handleFilters)
		r.Post("/refresh", s.handleRefresh)
	})
	return r
}

type statusResponse struct {
	SnapshotID  string `json:"snapshot_id"`
	RefreshedAt string `json:"refreshed_at"`
	Source      string `json:"source"`
	RowCount    int    `json:"row_count"`
	Truncated   bool   `json:"truncated"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, source := s.snapshot()
	if snap == nil {
		writeError(w, http.StatusNotFound, "no snapshot loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		SnapshotID:  snap.ID,
		RefreshedAt: activity.FormatTime(snap.RefreshedAt),
		Source:      string(source),
		RowCount:    len(snap.Rows),
		Truncated:   snap.Truncated,
	})
}

type activitiesResponse struct {
	Count      int           `json:"count"`
	TotalTime  string        `json:"total_time"`
	Activities []activityDTO `json:"activities"`
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.snapshot()
	if snap == nil {
		writeError(w, http.StatusNotFound, "no snapshot loaded yet")
		return
	}

	sel, err := parseSelection(r, snap.Rows)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows := filter.Apply(snap.Rows, sel, snap.Latest())

	var total time.Duration
	dtos := make([]activityDTO, len(rows))
	for i := range rows {
		dtos[i] = toDTO(&rows[i])
		total += rows[i].MovingTime
	}
	writeJSON(w, http.StatusOK, activitiesResponse{
		Count:      len(rows),
		TotalTime:  activity.FormatHours(total),
		Activities: dtos,
	})
}

type filtersResponse struct {
	Types            []string `json:"types"`
	HighlightedTypes []string `json:"highlighted_types"`
	Years            []int    `json:"years"`
	Brands           []string `json:"brands"`
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.snapshot()
	if snap == nil {
		writeError(w, http.StatusNotFound, "no snapshot loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, filtersResponse{
		Types:            filter.TypeOptions(snap.Rows),
		HighlightedTypes: filter.HighlightedTypes,
		Years:            filter.YearOptions(snap.Rows),
		Brands:           filter.BrandOptions(snap.Rows),
	})
}

type refreshResponse struct {
	SnapshotID  string   `json:"snapshot_id"`
	RefreshedAt string   `json:"refreshed_at"`
	Source      string   `json:"source"`
	RowCount    int      `json:"row_count"`
	Truncated   bool     `json:"truncated"`
	Warnings    []string `json:"warnings,omitempty"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	result, err := s.RunRefresh(r.Context())
	if err != nil {
		if errors.Is(err, refresh.ErrRefreshInFlight) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		s.logger.Error("Refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{
		SnapshotID:  result.Snapshot.ID,
		RefreshedAt: activity.FormatTime(result.Snapshot.RefreshedAt),
		Source:      string(result.Source),
		RowCount:    len(result.Snapshot.Rows),
		Truncated:   result.Snapshot.Truncated,
		Warnings:    result.Warnings,
	})
}

// parseSelection builds the filter from query parameters, starting from the
// defaults and replacing only the clauses the caller set explicitly. An
// explicitly empty clause (e.g. "type=") selects nothing, matching nothing.
func parseSelection(r *http.Request, rows []activity.Row) (filter.Selection, error) {
	sel := filter.DefaultSelection(rows)
	q := r.URL.Query()

	if values, ok := q["type"]; ok {
		sel.Types = splitValues(values)
	}
	if values, ok := q["brand"]; ok {
		sel.Brands = splitValues(values)
	}
	if t := q.Get("time"); t != "" {
		switch t {
		case "all":
			sel.Time = filter.TimeSelection{Mode: filter.TimeAll}
		case "rolling":
			sel.Time = filter.TimeSelection{Mode: filter.TimeRolling12Months}
		default:
			year, err := strconv.Atoi(t)
			if err != nil {
				return sel, errors.New("time must be 'all', 'rolling' or a year")
			}
			sel.Time = filter.TimeSelection{Mode: filter.TimeYear, Year: year}
		}
	}
	return sel, nil
}

// splitValues flattens repeated query params, dropping blanks so "type="
// yields an empty set rather than a set containing the empty string.
func splitValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
