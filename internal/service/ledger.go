// Package service orchestrates the enrichment jobs: paging, pacing,
// interrupts, and the job_run ledger that makes runs observable.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowdexhq/flowdex/internal/db"
	"github.com/flowdexhq/flowdex/internal/models"
)

// Ledger records job lifecycle in the job_run table. Progress persistence is
// best-effort: a failed write is logged and the job keeps going.
type Ledger struct {
	db     *db.Client
	logger *slog.Logger
}

// NewLedger creates a ledger backed by the given client.
func NewLedger(dbClient *db.Client, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{db: dbClient, logger: logger}
}

// AdoptOrCreate returns the run id for this job. When runID names an existing
// running entry of the same type (the admin server created it before spawning
// us) that entry is adopted; otherwise a fresh entry is created.
func (l *Ledger) AdoptOrCreate(ctx context.Context, jobType, runID string) (string, error) {
	if runID != "" {
		run, err := l.db.GetJobRun(ctx, runID)
		if err != nil {
			l.logger.Warn("failed to look up handed-down run id, creating a new entry",
				"run_id", runID, "error", err)
		} else if run != nil && run.JobType == jobType && run.Status == models.JobStatusRunning {
			l.logger.Info("adopted ledger entry", "run_id", runID, "job_type", jobType)
			return runID, nil
		} else {
			l.logger.Warn("handed-down run id not adoptable, creating a new entry",
				"run_id", runID, "job_type", jobType)
		}
	}

	run, err := l.db.CreateJobRun(ctx, jobType)
	if err != nil {
		return "", err
	}
	id, err := models.RecordIDString(run.ID)
	if err != nil {
		return "", err
	}
	l.logger.Info("created ledger entry", "run_id", id, "job_type", jobType)
	return id, nil
}

// Progress persists the current counters. Best-effort.
func (l *Ledger) Progress(ctx context.Context, runID string, result models.JobRunResult) {
	if err := l.db.UpdateJobRunProgress(ctx, runID, result); err != nil {
		l.logger.Warn("failed to persist job progress", "run_id", runID, "error", err)
	}
}

// Complete finalizes the run as completed. Best-effort.
func (l *Ledger) Complete(ctx context.Context, runID string, result models.JobRunResult) {
	if err := l.db.FinalizeJobRun(ctx, runID, models.JobStatusCompleted, result, nil); err != nil {
		l.logger.Warn("failed to persist job completion", "run_id", runID, "error", err)
	}
	l.logger.Info("job completed", "run_id", runID)
}

// Fail finalizes the run as failed with the error message. Best-effort.
func (l *Ledger) Fail(ctx context.Context, runID string, result models.JobRunResult, jobErr error) {
	msg := jobErr.Error()
	if err := l.db.FinalizeJobRun(ctx, runID, models.JobStatusFailed, result, &msg); err != nil {
		l.logger.Warn("failed to persist job failure", "run_id", runID, "error", err)
	}
	l.logger.Error("job failed", "run_id", runID, "error", jobErr)
}

// SweepStale fails out running entries with no progress update within
// olderThan. Returns how many entries were transitioned.
func (l *Ledger) SweepStale(ctx context.Context, olderThan time.Duration) (int, error) {
	count, err := l.db.MarkStaleRunningAsFailed(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		l.logger.Info("marked stale job runs as failed", "count", count, "older_than", olderThan)
	}
	return count, nil
}
