package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Job types recorded in the job_run ledger. template_fetch rows are written
// by the external scraper, which reports through the same ledger.
const (
	JobTypeEnrichment      = "enrichment"
	JobTypeTemplateFetch   = "template_fetch"
	JobTypeTop2            = "top2"
	JobTypeServiceableName = "serviceable_name"
)

// Job run statuses.
const (
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusStopped   = "stopped"
)

// ValidJobType reports whether t is one of the known ledger job types.
func ValidJobType(t string) bool {
	switch t {
	case JobTypeEnrichment, JobTypeTemplateFetch, JobTypeTop2, JobTypeServiceableName:
		return true
	}
	return false
}

// JobRunResult holds the progress counters reported by a run. All fields are
// optional; each job type fills the counters that make sense for it.
type JobRunResult struct {
	EnrichedCount  *int `json:"enriched_count,omitempty"`
	FailedCount    *int `json:"failed_count,omitempty"`
	ProcessedCount *int `json:"processed_count,omitempty"`
	TotalCount     *int `json:"total_count,omitempty"`
	TemplatesOK    *int `json:"templates_ok,omitempty"`
	TemplatesError *int `json:"templates_error,omitempty"`
	AICallCount    *int `json:"ai_call_count,omitempty"`
}

// JobRun is one row of the job_run ledger.
type JobRun struct {
	ID surrealmodels.RecordID `json:"id"`

	JobType string        `json:"job_type"`
	Status  string        `json:"status"`
	Result  *JobRunResult `json:"result,omitempty"`
	Error   *string       `json:"error,omitempty"`

	StartedAt   time.Time  `json:"started_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Terminal reports whether the run has reached a final status.
func (r *JobRun) Terminal() bool {
	switch r.Status {
	case JobStatusCompleted, JobStatusFailed, JobStatusStopped:
		return true
	}
	return false
}
