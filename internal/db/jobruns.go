package db

import (
	"context"
	"fmt"
	"time"

	"github.com/flowdexhq/flowdex/internal/models"
	"github.com/google/uuid"
)

// CreateJobRun inserts a new ledger entry with status running and returns it.
// The generated run id is handed to spawned orchestrator processes via env.
func (c *Client) CreateJobRun(ctx context.Context, jobType string) (*models.JobRun, error) {
	if !models.ValidJobType(jobType) {
		return nil, fmt.Errorf("create job run: unknown job type %q", jobType)
	}

	id := uuid.NewString()
	results, err := query[[]models.JobRun](ctx, c, `
		CREATE type::record("job_run", $id) SET
			job_type = $job_type,
			status = "running"
		RETURN AFTER
	`, map[string]any{"id": id, "job_type": jobType})
	if err != nil {
		return nil, fmt.Errorf("create job run: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create job run: no row returned")
	}
	return &(*results)[0].Result[0], nil
}

// GetJobRun retrieves a ledger entry by run id. Returns nil if not found.
func (c *Client) GetJobRun(ctx context.Context, id string) (*models.JobRun, error) {
	results, err := query[[]models.JobRun](ctx, c, `
		SELECT * FROM type::record("job_run", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get job run: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// UpdateJobRunProgress replaces the run's result counters and bumps
// updated_at so the staleness sweep sees the run as live.
func (c *Client) UpdateJobRunProgress(ctx context.Context, id string, result models.JobRunResult) error {
	_, err := query[any](ctx, c, `
		UPDATE type::record("job_run", $id) SET
			result = $result,
			updated_at = time::now()
	`, map[string]any{"id": id, "result": result})
	if err != nil {
		return fmt.Errorf("update job run progress: %w", wrapQueryError(err))
	}
	return nil
}

// FinalizeJobRun sets the terminal status, final counters, and completed_at.
// errMsg is recorded for failed runs; pass nil otherwise.
func (c *Client) FinalizeJobRun(ctx context.Context, id, status string, result models.JobRunResult, errMsg *string) error {
	_, err := query[any](ctx, c, `
		UPDATE type::record("job_run", $id) SET
			status = $status,
			result = $result,
			error = $error,
			completed_at = time::now(),
			updated_at = time::now()
	`, map[string]any{
		"id":     id,
		"status": status,
		"result": result,
		"error":  errMsg,
	})
	if err != nil {
		return fmt.Errorf("finalize job run: %w", wrapQueryError(err))
	}
	return nil
}

// MarkJobRunStopped transitions a run from running to stopped. Stopping is a
// one-shot operation: it returns false when the run is not currently running
// (already terminal, or missing).
func (c *Client) MarkJobRunStopped(ctx context.Context, id string) (bool, error) {
	results, err := query[[]models.JobRun](ctx, c, `
		UPDATE type::record("job_run", $id) SET
			status = "stopped",
			completed_at = time::now(),
			updated_at = time::now()
		WHERE status = "running"
		RETURN AFTER
	`, map[string]any{"id": id})
	if err != nil {
		return false, fmt.Errorf("mark job run stopped: %w", wrapQueryError(err))
	}

	return results != nil && len(*results) > 0 && len((*results)[0].Result) > 0, nil
}

// MarkStaleRunningAsFailed fails out running entries whose last update is
// older than the threshold. Returns the number of entries transitioned.
func (c *Client) MarkStaleRunningAsFailed(ctx context.Context, olderThan time.Duration) (int, error) {
	results, err := query[[]models.JobRun](ctx, c, `
		UPDATE job_run SET
			status = "failed",
			error = "stale: no progress update within threshold",
			completed_at = time::now(),
			updated_at = time::now()
		WHERE status = "running"
			AND updated_at < (time::now() - duration::from::millis($stale_ms))
		RETURN AFTER
	`, map[string]any{"stale_ms": olderThan.Milliseconds()})
	if err != nil {
		return 0, fmt.Errorf("mark stale job runs: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return 0, nil
	}
	return len((*results)[0].Result), nil
}

// ListJobRuns returns up to limit most recent ledger entries, reordered
// oldest-first for display. typeFilter narrows to one job type when non-empty.
// Fetching newest-first then reversing keeps running and just-finished runs
// inside the window.
func (c *Client) ListJobRuns(ctx context.Context, typeFilter string, limit int) ([]models.JobRun, error) {
	sql := `
		SELECT * FROM job_run
		ORDER BY started_at DESC
		LIMIT $limit
	`
	vars := map[string]any{"limit": limit}
	if typeFilter != "" {
		if !models.ValidJobType(typeFilter) {
			return nil, fmt.Errorf("list job runs: unknown job type %q", typeFilter)
		}
		sql = `
			SELECT * FROM job_run
			WHERE job_type = $job_type
			ORDER BY started_at DESC
			LIMIT $limit
		`
		vars["job_type"] = typeFilter
	}

	results, err := query[[]models.JobRun](ctx, c, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("list job runs: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.JobRun{}, nil
	}

	runs := (*results)[0].Result
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}
