// Package server provides the admin HTTP API: job triggering, run history,
// dashboard insights, and the staleness sweep.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/flowdexhq/flowdex/internal/config"
	"github.com/flowdexhq/flowdex/internal/db"
	"github.com/flowdexhq/flowdex/internal/metrics"
	"github.com/flowdexhq/flowdex/internal/service"
)

// historyLimit caps the run history returned by the jobs endpoint.
const historyLimit = 100

// Server is the admin HTTP server.
type Server struct {
	cfg       config.Config
	db        *db.Client
	status    *service.StatusService
	ledger    *service.Ledger
	spawner   *Spawner
	collector *metrics.Collector
	logger    *slog.Logger
}

// New creates the admin server. The collector is shared with the db client so
// query timings land on the stats endpoint alongside request timings.
func New(cfg config.Config, dbClient *db.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	collector := metrics.NewCollector()
	if dbClient != nil {
		dbClient.SetCollector(collector)
	}
	return &Server{
		cfg:       cfg,
		db:        dbClient,
		status:    service.NewStatusService(dbClient),
		ledger:    service.NewLedger(dbClient, logger),
		spawner:   NewSpawner(cfg.FlowdexBin, logger),
		collector: collector,
		logger:    logger,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/admin/enrich/status", s.handleInsights)
	mux.HandleFunc("GET /api/admin/jobs", s.handleJobHistory)
	mux.HandleFunc("POST /api/admin/jobs/run", s.handleRunJob)
	mux.HandleFunc("POST /api/admin/jobs/{id}/stop", s.handleStopJob)
	mux.HandleFunc("POST /api/admin/jobs/sweep-stale", s.handleSweepStale)
	mux.HandleFunc("GET /api/admin/stats", s.handleStats)
	return loggingMiddleware(s.logger, s.collector, mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.ServerAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("admin server listening", "addr", s.cfg.ServerAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("admin server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
