package service

import (
	"context"

	"github.com/flowdexhq/flowdex/internal/db"
	"github.com/flowdexhq/flowdex/internal/models"
)

// CatalogInsights reports template coverage.
type CatalogInsights struct {
	TotalTemplates            int `json:"total_templates"`
	TemplatesWithoutAnalytics int `json:"templates_without_analytics"`
}

// EnrichmentInsights reports analytics row status counts.
type EnrichmentInsights struct {
	TotalAnalytics int `json:"total_analytics"`
	Enriched       int `json:"enriched"`
	Pending        int `json:"pending"`
	Failed         int `json:"failed"`
	Inconsistent   int `json:"inconsistent"`
}

// Top2Insights reports top-2 classification coverage.
type Top2Insights struct {
	TotalAnalytics        int `json:"total_analytics"`
	FilledTop2            int `json:"filled_top2"`
	PendingTop2           int `json:"pending_top2"`
	HasUseCaseDescription int `json:"has_use_case_description"`
}

// NamingInsights reports serviceable-name coverage.
type NamingInsights struct {
	Named       int `json:"named"`
	PendingName int `json:"pending_name"`
}

// AdminInsights is the dashboard aggregate the admin surface polls.
type AdminInsights struct {
	Catalog    CatalogInsights    `json:"catalog"`
	Enrichment EnrichmentInsights `json:"enrichment"`
	Top2       Top2Insights       `json:"top2"`
	Naming     NamingInsights     `json:"naming"`
}

// StatusService aggregates dashboard counts.
type StatusService struct {
	db *db.Client
}

// NewStatusService creates the dashboard aggregator.
func NewStatusService(dbClient *db.Client) *StatusService {
	return &StatusService{db: dbClient}
}

// Insights computes the full dashboard aggregate. Pending counts are clamped
// at zero: totals can lag behind enriched counts while a run is writing.
func (s *StatusService) Insights(ctx context.Context) (*AdminInsights, error) {
	totalTemplates, err := s.db.CountTemplates(ctx)
	if err != nil {
		return nil, err
	}
	pendingTemplates, err := s.db.CountTemplatesPendingAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	totalAnalytics, err := s.db.CountAnalytics(ctx)
	if err != nil {
		return nil, err
	}
	enriched, err := s.db.CountAnalyticsByStatus(ctx, models.EnrichmentEnriched)
	if err != nil {
		return nil, err
	}
	failed, err := s.db.CountAnalyticsByStatus(ctx, models.EnrichmentFailed)
	if err != nil {
		return nil, err
	}
	inconsistent, err := s.db.CountInconsistentEnriched(ctx)
	if err != nil {
		return nil, err
	}
	filledTop2, err := s.db.CountAnalyticsFilledTop2(ctx)
	if err != nil {
		return nil, err
	}
	withDescription, err := s.db.CountAnalyticsWithDescription(ctx)
	if err != nil {
		return nil, err
	}
	missingName, err := s.db.CountAnalyticsMissingName(ctx)
	if err != nil {
		return nil, err
	}

	pending := max(0, totalTemplates-enriched)
	pendingTop2 := max(0, withDescription-filledTop2)

	return &AdminInsights{
		Catalog: CatalogInsights{
			TotalTemplates:            totalTemplates,
			TemplatesWithoutAnalytics: pendingTemplates,
		},
		Enrichment: EnrichmentInsights{
			TotalAnalytics: totalAnalytics,
			Enriched:       enriched,
			Pending:        pending,
			Failed:         failed,
			Inconsistent:   inconsistent,
		},
		Top2: Top2Insights{
			TotalAnalytics:        totalAnalytics,
			FilledTop2:            filledTop2,
			PendingTop2:           pendingTop2,
			HasUseCaseDescription: withDescription,
		},
		Naming: NamingInsights{
			Named:       max(0, totalAnalytics-missingName),
			PendingName: missingName,
		},
	}, nil
}
