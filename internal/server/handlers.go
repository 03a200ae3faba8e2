package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/flowdexhq/flowdex/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.status.Insights(r.Context())
	if err != nil {
		s.logger.Error("failed to compute insights", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to compute insights")
		return
	}
	s.writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleJobHistory(w http.ResponseWriter, r *http.Request) {
	typeFilter := r.URL.Query().Get("type")
	if typeFilter != "" && !models.ValidJobType(typeFilter) {
		s.writeError(w, http.StatusBadRequest, "unknown job type: "+truncate(typeFilter, 40))
		return
	}

	limit := historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n < limit {
			limit = n
		}
	}

	runs, err := s.db.ListJobRuns(r.Context(), typeFilter, limit)
	if err != nil {
		s.logger.Error("failed to list job runs", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list job runs")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// runJobRequest is the body for POST /api/admin/jobs/run.
type runJobRequest struct {
	JobType string     `json:"job_type"`
	Options jobOptions `json:"options"`
}

type jobOptions struct {
	BatchSize    int   `json:"batch_size"`
	Limit        int   `json:"limit"`
	UseAI        *bool `json:"use_ai"`
	Refresh      bool  `json:"refresh"`
	SkipExisting *bool `json:"skip_existing"`
}

func (s *Server) handleRunJob(w http.ResponseWriter, r *http.Request) {
	var req runJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !models.ValidJobType(req.JobType) {
		s.writeError(w, http.StatusBadRequest, "unknown job type: "+truncate(req.JobType, 40))
		return
	}
	if req.JobType == models.JobTypeTemplateFetch {
		// Fetch runs are recorded by the external catalog fetcher; this
		// server only spawns enrichment passes.
		s.writeError(w, http.StatusBadRequest, "template_fetch runs are not triggered here")
		return
	}

	// The ledger entry is created before the spawn so the run id can be
	// handed to the child and the run is visible even if the child dies
	// before its first progress write.
	run, err := s.db.CreateJobRun(r.Context(), req.JobType)
	if err != nil {
		s.logger.Error("failed to create job run", "job_type", req.JobType, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to create job run")
		return
	}
	runID, err := models.RecordIDString(run.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to read run id")
		return
	}

	if err := s.spawner.Spawn(req.JobType, runID, req.Options); err != nil {
		s.logger.Error("failed to spawn job", "job_type", req.JobType, "run_id", runID, "error", err)
		s.ledger.Fail(r.Context(), runID, models.JobRunResult{}, err)
		s.writeError(w, http.StatusInternalServerError, "failed to spawn job process")
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]string{
		"run_id":   runID,
		"job_type": req.JobType,
		"status":   models.JobStatusRunning,
	})
}

func (s *Server) handleStopJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "missing run id")
		return
	}

	ok, err := s.db.MarkJobRunStopped(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to stop job run", "run_id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to stop job run")
		return
	}
	if !ok {
		s.writeError(w, http.StatusConflict, "run is not currently running")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"run_id": id, "status": models.JobStatusStopped})
}

func (s *Server) handleSweepStale(w http.ResponseWriter, r *http.Request) {
	count, err := s.ledger.SweepStale(r.Context(), s.cfg.StaleAfter)
	if err != nil {
		s.logger.Error("stale sweep failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "stale sweep failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"marked_failed": count})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.collector.Snapshot())
}
