package models

import (
	"testing"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestRecordIDString(t *testing.T) {
	tests := []struct {
		name    string
		id      surrealmodels.RecordID
		want    string
		wantErr bool
	}{
		{"string id", surrealmodels.RecordID{Table: "template", ID: "abc123"}, "abc123", false},
		{"uuid-style id", surrealmodels.RecordID{Table: "job_run", ID: "550e8400-e29b-41d4-a716-446655440000"}, "550e8400-e29b-41d4-a716-446655440000", false},
		{"int id rejected", surrealmodels.RecordID{Table: "template", ID: 42}, "", true},
		{"nil id rejected", surrealmodels.RecordID{Table: "template", ID: nil}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecordIDString(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RecordIDString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("RecordIDString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJobRunTerminal(t *testing.T) {
	for _, status := range []string{JobStatusCompleted, JobStatusFailed, JobStatusStopped} {
		r := JobRun{Status: status}
		if !r.Terminal() {
			t.Errorf("Terminal() = false for status %q", status)
		}
	}
	r := JobRun{Status: JobStatusRunning}
	if r.Terminal() {
		t.Error("Terminal() = true for running")
	}
}

func TestValidJobType(t *testing.T) {
	for _, jt := range []string{JobTypeEnrichment, JobTypeTemplateFetch, JobTypeTop2, JobTypeServiceableName} {
		if !ValidJobType(jt) {
			t.Errorf("ValidJobType(%q) = false", jt)
		}
	}
	if ValidJobType("backfill") {
		t.Error(`ValidJobType("backfill") = true`)
	}
}
