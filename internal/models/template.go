// Package models defines data structures for the Flowdex template catalog.
package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// WorkflowNode is the minimal node shape stored in template.nodes.
// Scrapers may persist extra keys; only these are read by the pipeline.
type WorkflowNode struct {
	ID         string         `json:"id,omitempty"`
	Name       string         `json:"name,omitempty"`
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Template represents a scraped workflow template as ingested by the fetcher.
type Template struct {
	ID surrealmodels.RecordID `json:"id"`

	// Identity
	SourceID string `json:"source_id"` // stable ID at the upstream marketplace
	Title    string `json:"title"`

	// Catalog metadata
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	SourceURL   *string  `json:"source_url,omitempty"`

	// Workflow content
	Nodes []WorkflowNode `json:"nodes"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
