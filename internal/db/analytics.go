package db

import (
	"context"
	"fmt"

	"github.com/flowdexhq/flowdex/internal/models"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// AnalyticsUpsert carries the full field set written by the enrichment job.
// The top-2 and serviceable-name fields are deliberately absent: those belong
// to the narrower passes and must not be clobbered by a re-run.
type AnalyticsUpsert struct {
	TemplateID           surrealmodels.RecordID
	UseCaseName          string
	UseCaseDescription   *string
	ApplicableIndustries []models.ClassifiedItem
	ApplicableProcesses  []models.ClassifiedItem
	UniqueNodeTypes      []string
	TotalUniqueNodeTypes int
	TotalNodeCount       int
	NodeBreakdown        []models.NodeTypeCount
	BasePriceINR         int
	ComplexityMultiplier float64
	FinalPriceINR        int
	EnrichmentStatus     string
	EnrichmentMethod     string
	ConfidenceScore      *float64
}

// UpsertAnalytics inserts or replaces the analytics row for a template.
// Keyed by template_id; fields outside the enrichment pass (top-2 lists,
// serviceable name) are left untouched on update.
func (c *Client) UpsertAnalytics(ctx context.Context, row AnalyticsUpsert) (*models.TemplateAnalytics, error) {
	if row.ApplicableIndustries == nil {
		row.ApplicableIndustries = []models.ClassifiedItem{}
	}
	if row.ApplicableProcesses == nil {
		row.ApplicableProcesses = []models.ClassifiedItem{}
	}
	if row.UniqueNodeTypes == nil {
		row.UniqueNodeTypes = []string{}
	}
	if row.NodeBreakdown == nil {
		row.NodeBreakdown = []models.NodeTypeCount{}
	}

	results, err := query[[]models.TemplateAnalytics](ctx, c, `
		UPSERT template_analytics SET
			template_id = $template_id,
			use_case_name = $use_case_name,
			use_case_description = $use_case_description,
			applicable_industries = $applicable_industries,
			applicable_processes = $applicable_processes,
			unique_node_types = $unique_node_types,
			total_unique_node_types = $total_unique_node_types,
			total_node_count = $total_node_count,
			node_breakdown = $node_breakdown,
			base_price_inr = $base_price_inr,
			complexity_multiplier = $complexity_multiplier,
			final_price_inr = $final_price_inr,
			enrichment_status = $enrichment_status,
			enrichment_method = $enrichment_method,
			confidence_score = $confidence_score,
			updated_at = time::now()
		WHERE template_id = $template_id
		RETURN AFTER
	`, map[string]any{
		"template_id":             row.TemplateID,
		"use_case_name":           row.UseCaseName,
		"use_case_description":    row.UseCaseDescription,
		"applicable_industries":   row.ApplicableIndustries,
		"applicable_processes":    row.ApplicableProcesses,
		"unique_node_types":       row.UniqueNodeTypes,
		"total_unique_node_types": row.TotalUniqueNodeTypes,
		"total_node_count":        row.TotalNodeCount,
		"node_breakdown":          row.NodeBreakdown,
		"base_price_inr":          row.BasePriceINR,
		"complexity_multiplier":   row.ComplexityMultiplier,
		"final_price_inr":         row.FinalPriceINR,
		"enrichment_status":       row.EnrichmentStatus,
		"enrichment_method":       row.EnrichmentMethod,
		"confidence_score":        row.ConfidenceScore,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert analytics: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("upsert analytics: no row returned")
	}
	return &(*results)[0].Result[0], nil
}

// GetAnalyticsByTemplate retrieves the analytics row for a template.
// Returns nil if not found.
func (c *Client) GetAnalyticsByTemplate(ctx context.Context, templateID surrealmodels.RecordID) (*models.TemplateAnalytics, error) {
	results, err := query[[]models.TemplateAnalytics](ctx, c, `
		SELECT * FROM template_analytics WHERE template_id = $template_id
	`, map[string]any{"template_id": templateID})
	if err != nil {
		return nil, fmt.Errorf("get analytics: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// missingTop2Predicate selects rows eligible for the top-2 pass: a use-case
// description exists and at least one top-2 list is still empty.
const missingTop2Predicate = `
	use_case_description != NONE AND use_case_description != ""
	AND (array::len(top_2_industries) = 0 OR array::len(top_2_processes) = 0)`

// ListAnalyticsMissingTop2 returns the next page of analytics rows that have
// a description but no top-2 classification yet. Classified rows drop out of
// the predicate set, so callers normally read from the head with skip = 0;
// skip steps past rows that were attempted but legitimately stayed eligible
// (both written lists empty, or the write failed).
func (c *Client) ListAnalyticsMissingTop2(ctx context.Context, skip, limit int) ([]models.TemplateAnalytics, error) {
	results, err := query[[]models.TemplateAnalytics](ctx, c, `
		SELECT * FROM template_analytics
		WHERE `+missingTop2Predicate+`
		ORDER BY created_at ASC
		LIMIT $limit START $start
	`, map[string]any{"limit": limit, "start": skip})
	if err != nil {
		return nil, fmt.Errorf("list analytics missing top-2: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.TemplateAnalytics{}, nil
	}
	return (*results)[0].Result, nil
}

// CountAnalyticsMissingTop2 counts rows eligible for the top-2 pass.
func (c *Client) CountAnalyticsMissingTop2(ctx context.Context) (int, error) {
	results, err := query[[]countRow](ctx, c, `
		SELECT count() AS count FROM template_analytics
		WHERE `+missingTop2Predicate+`
		GROUP ALL
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("count analytics missing top-2: %w", err)
	}
	return firstCount(results), nil
}

// ListAnalyticsWithDescription returns a page of all rows carrying a use-case
// description, ordered by created_at with a numeric offset. Used by the top-2
// refresh mode, where the selection set does not shrink as rows are written.
func (c *Client) ListAnalyticsWithDescription(ctx context.Context, offset, limit int) ([]models.TemplateAnalytics, error) {
	results, err := query[[]models.TemplateAnalytics](ctx, c, `
		SELECT * FROM template_analytics
		WHERE use_case_description != NONE AND use_case_description != ""
		ORDER BY created_at ASC
		LIMIT $limit START $start
	`, map[string]any{"limit": limit, "start": offset})
	if err != nil {
		return nil, fmt.Errorf("list analytics with description: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.TemplateAnalytics{}, nil
	}
	return (*results)[0].Result, nil
}

// CountAnalyticsWithDescription counts rows carrying a use-case description.
func (c *Client) CountAnalyticsWithDescription(ctx context.Context) (int, error) {
	results, err := query[[]countRow](ctx, c, `
		SELECT count() AS count FROM template_analytics
		WHERE use_case_description != NONE AND use_case_description != ""
		GROUP ALL
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("count analytics with description: %w", err)
	}
	return firstCount(results), nil
}

// missingNamePredicate selects rows whose serviceable name is unset or blank.
const missingNamePredicate = `(serviceable_name = NONE OR serviceable_name = "")`

// ListAnalyticsMissingName returns the next page of rows lacking a
// serviceable name. Predicate-anchored; skip steps past rows whose name
// write failed and which therefore stayed in the set.
func (c *Client) ListAnalyticsMissingName(ctx context.Context, skip, limit int) ([]models.TemplateAnalytics, error) {
	results, err := query[[]models.TemplateAnalytics](ctx, c, `
		SELECT * FROM template_analytics
		WHERE `+missingNamePredicate+`
		ORDER BY created_at ASC
		LIMIT $limit START $start
	`, map[string]any{"limit": limit, "start": skip})
	if err != nil {
		return nil, fmt.Errorf("list analytics missing name: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.TemplateAnalytics{}, nil
	}
	return (*results)[0].Result, nil
}

// CountAnalyticsMissingName counts rows lacking a serviceable name.
func (c *Client) CountAnalyticsMissingName(ctx context.Context) (int, error) {
	results, err := query[[]countRow](ctx, c, `
		SELECT count() AS count FROM template_analytics
		WHERE `+missingNamePredicate+`
		GROUP ALL
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("count analytics missing name: %w", err)
	}
	return firstCount(results), nil
}

// ListAnalytics returns a page of all analytics rows ordered by created_at
// with a numeric offset. Used by the serviceable-name refresh mode.
func (c *Client) ListAnalytics(ctx context.Context, offset, limit int) ([]models.TemplateAnalytics, error) {
	results, err := query[[]models.TemplateAnalytics](ctx, c, `
		SELECT * FROM template_analytics
		ORDER BY created_at ASC
		LIMIT $limit START $start
	`, map[string]any{"limit": limit, "start": offset})
	if err != nil {
		return nil, fmt.Errorf("list analytics: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.TemplateAnalytics{}, nil
	}
	return (*results)[0].Result, nil
}

// CountAnalytics returns the total number of analytics rows.
func (c *Client) CountAnalytics(ctx context.Context) (int, error) {
	results, err := query[[]countRow](ctx, c, `
		SELECT count() AS count FROM template_analytics GROUP ALL
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("count analytics: %w", err)
	}
	return firstCount(results), nil
}

// CountAnalyticsByStatus counts analytics rows with the given enrichment status.
func (c *Client) CountAnalyticsByStatus(ctx context.Context, status string) (int, error) {
	results, err := query[[]countRow](ctx, c, `
		SELECT count() AS count FROM template_analytics
		WHERE enrichment_status = $status
		GROUP ALL
	`, map[string]any{"status": status})
	if err != nil {
		return 0, fmt.Errorf("count analytics by status: %w", err)
	}
	return firstCount(results), nil
}

// CountAnalyticsFilledTop2 counts rows where both top-2 lists are populated.
func (c *Client) CountAnalyticsFilledTop2(ctx context.Context) (int, error) {
	results, err := query[[]countRow](ctx, c, `
		SELECT count() AS count FROM template_analytics
		WHERE array::len(top_2_industries) > 0 AND array::len(top_2_processes) > 0
		GROUP ALL
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("count analytics filled top-2: %w", err)
	}
	return firstCount(results), nil
}

// CountInconsistentEnriched counts rows marked enriched whose classification
// lists are both empty. Surfaced as a validation signal on the dashboard.
func (c *Client) CountInconsistentEnriched(ctx context.Context) (int, error) {
	results, err := query[[]countRow](ctx, c, `
		SELECT count() AS count FROM template_analytics
		WHERE enrichment_status = "enriched"
			AND array::len(applicable_industries) = 0
			AND array::len(applicable_processes) = 0
		GROUP ALL
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("count inconsistent enriched: %w", err)
	}
	return firstCount(results), nil
}

// UpdateTop2 writes only the top-2 classification fields plus updated_at.
func (c *Client) UpdateTop2(ctx context.Context, templateID surrealmodels.RecordID, industries, processes []models.ClassifiedItem) error {
	if industries == nil {
		industries = []models.ClassifiedItem{}
	}
	if processes == nil {
		processes = []models.ClassifiedItem{}
	}

	_, err := query[any](ctx, c, `
		UPDATE template_analytics SET
			top_2_industries = $industries,
			top_2_processes = $processes,
			updated_at = time::now()
		WHERE template_id = $template_id
	`, map[string]any{
		"template_id": templateID,
		"industries":  industries,
		"processes":   processes,
	})
	if err != nil {
		return fmt.Errorf("update top-2: %w", wrapQueryError(err))
	}
	return nil
}

// UpdateServiceableName writes only the serviceable name plus updated_at.
func (c *Client) UpdateServiceableName(ctx context.Context, templateID surrealmodels.RecordID, name string) error {
	_, err := query[any](ctx, c, `
		UPDATE template_analytics SET
			serviceable_name = $name,
			updated_at = time::now()
		WHERE template_id = $template_id
	`, map[string]any{
		"template_id": templateID,
		"name":        name,
	})
	if err != nil {
		return fmt.Errorf("update serviceable name: %w", wrapQueryError(err))
	}
	return nil
}
