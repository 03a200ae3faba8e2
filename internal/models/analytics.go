package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Enrichment status values for template_analytics rows.
const (
	EnrichmentPending  = "pending"
	EnrichmentEnriched = "enriched"
	EnrichmentFailed   = "failed"
)

// Classification methods.
const (
	MethodAI        = "ai"
	MethodRuleBased = "rule-based"
	MethodHybrid    = "hybrid"
)

// ClassifiedItem is one industry or process label with its confidence.
type ClassifiedItem struct {
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
}

// NodeTypeCount is one entry of the per-node-type breakdown.
type NodeTypeCount struct {
	NodeType string `json:"node_type"`
	Count    int    `json:"count"`
}

// TemplateAnalytics is the derived analytics row, exactly one per template.
// The enrichment job writes the full row; the top-2 and naming jobs update
// only their own fields plus updated_at.
type TemplateAnalytics struct {
	ID surrealmodels.RecordID `json:"id"`

	TemplateID surrealmodels.RecordID `json:"template_id"`

	// Derived presentation fields
	UseCaseName        string  `json:"use_case_name"`
	UseCaseDescription *string `json:"use_case_description,omitempty"`
	ServiceableName    *string `json:"serviceable_name,omitempty"`

	// Classification
	ApplicableIndustries []ClassifiedItem `json:"applicable_industries"`
	ApplicableProcesses  []ClassifiedItem `json:"applicable_processes"`
	Top2Industries       []ClassifiedItem `json:"top_2_industries,omitempty"`
	Top2Processes        []ClassifiedItem `json:"top_2_processes,omitempty"`

	// Node statistics
	UniqueNodeTypes      []string        `json:"unique_node_types"`
	TotalUniqueNodeTypes int             `json:"total_unique_node_types"`
	TotalNodeCount       int             `json:"total_node_count"`
	NodeBreakdown        []NodeTypeCount `json:"node_breakdown,omitempty"`

	// Pricing
	BasePriceINR         int     `json:"base_price_inr"`
	ComplexityMultiplier float64 `json:"complexity_multiplier"`
	FinalPriceINR        int     `json:"final_price_inr"`

	// Enrichment bookkeeping
	EnrichmentStatus string   `json:"enrichment_status"`
	EnrichmentMethod string   `json:"enrichment_method"`
	ConfidenceScore  *float64 `json:"confidence_score,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
