package db

import (
	"context"
	"fmt"

	"github.com/flowdexhq/flowdex/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// countRow is the shape returned by count() ... GROUP ALL queries.
type countRow struct {
	Count int `json:"count"`
}

func firstCount(results *[]surrealdb.QueryResult[[]countRow]) int {
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0
	}
	return (*results)[0].Result[0].Count
}

// TemplateInput is the input structure for creating templates. The external
// fetcher owns template rows in production; this path is for seeding and tests.
type TemplateInput struct {
	SourceID    string
	Title       string
	Description *string
	Category    *string
	Tags        []string
	SourceURL   *string
	Nodes       []models.WorkflowNode
}

// CreateTemplate inserts a template row.
func (c *Client) CreateTemplate(ctx context.Context, input TemplateInput) (*models.Template, error) {
	if input.Tags == nil {
		input.Tags = []string{}
	}
	if input.Nodes == nil {
		input.Nodes = []models.WorkflowNode{}
	}

	results, err := query[[]models.Template](ctx, c, `
		CREATE template SET
			source_id = $source_id,
			title = $title,
			description = $description,
			category = $category,
			tags = $tags,
			source_url = $source_url,
			nodes = $nodes
		RETURN AFTER
	`, map[string]any{
		"source_id":   input.SourceID,
		"title":       input.Title,
		"description": input.Description,
		"category":    input.Category,
		"tags":        input.Tags,
		"source_url":  input.SourceURL,
		"nodes":       input.Nodes,
	})
	if err != nil {
		return nil, fmt.Errorf("create template: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create template: no row returned")
	}
	return &(*results)[0].Result[0], nil
}

// GetTemplate retrieves a template by ID. Returns nil if not found.
func (c *Client) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	results, err := query[[]models.Template](ctx, c, `
		SELECT * FROM type::record("template", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// CountTemplates returns the total number of templates.
func (c *Client) CountTemplates(ctx context.Context) (int, error) {
	results, err := query[[]countRow](ctx, c, `
		SELECT count() AS count FROM template GROUP ALL
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return firstCount(results), nil
}

// pendingTemplatesPredicate selects templates with no enriched analytics row.
const pendingTemplatesPredicate = `
	id NOTINSIDE (
		SELECT VALUE template_id FROM template_analytics
		WHERE enrichment_status = "enriched"
	)`

// ListTemplatesPendingAnalytics returns the next page of templates lacking an
// enriched analytics row, oldest first. Enriched rows drop out of the
// predicate set, so callers normally read from the head with skip = 0; skip
// exists so a caller can step past rows that were attempted but stayed
// pending (a failed row would otherwise be refetched forever).
func (c *Client) ListTemplatesPendingAnalytics(ctx context.Context, skip, limit int) ([]models.Template, error) {
	results, err := query[[]models.Template](ctx, c, `
		SELECT * FROM template
		WHERE `+pendingTemplatesPredicate+`
		ORDER BY created_at ASC
		LIMIT $limit START $start
	`, map[string]any{"limit": limit, "start": skip})
	if err != nil {
		return nil, fmt.Errorf("list pending templates: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Template{}, nil
	}
	return (*results)[0].Result, nil
}

// CountTemplatesPendingAnalytics returns how many templates still lack an
// enriched analytics row.
func (c *Client) CountTemplatesPendingAnalytics(ctx context.Context) (int, error) {
	results, err := query[[]countRow](ctx, c, `
		SELECT count() AS count FROM template
		WHERE `+pendingTemplatesPredicate+`
		GROUP ALL
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("count pending templates: %w", err)
	}
	return firstCount(results), nil
}

// ListTemplates returns a page of all templates oldest-first using a numeric
// offset. Used by no-skip enrichment where the selection set is static.
func (c *Client) ListTemplates(ctx context.Context, offset, limit int) ([]models.Template, error) {
	results, err := query[[]models.Template](ctx, c, `
		SELECT * FROM template
		ORDER BY created_at ASC
		LIMIT $limit START $start
	`, map[string]any{"limit": limit, "start": offset})
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Template{}, nil
	}
	return (*results)[0].Result, nil
}

// templateTitleRow is the projection used by GetTemplateTitles.
type templateTitleRow struct {
	ID    surrealmodels.RecordID `json:"id"`
	Title string                 `json:"title"`
}

// GetTemplateTitles returns a map of template record id (string part) to
// title for the given templates.
func (c *Client) GetTemplateTitles(ctx context.Context, ids []surrealmodels.RecordID) (map[string]string, error) {
	titles := make(map[string]string)
	if len(ids) == 0 {
		return titles, nil
	}

	results, err := query[[]templateTitleRow](ctx, c, `
		SELECT id, title FROM template WHERE id INSIDE $ids
	`, map[string]any{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("get template titles: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return titles, nil
	}
	for _, row := range (*results)[0].Result {
		id, err := models.RecordIDString(row.ID)
		if err != nil {
			continue
		}
		titles[id] = row.Title
	}
	return titles, nil
}
