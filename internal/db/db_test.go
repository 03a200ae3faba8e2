// Package db provides integration tests for SurrealDB operations.
package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/flowdexhq/flowdex/internal/models"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testDB, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testDB.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testDB.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

// seedTemplate creates a template with the given source id and node types.
func seedTemplate(t *testing.T, sourceID, title string, nodeTypes ...string) *models.Template {
	t.Helper()
	nodes := make([]models.WorkflowNode, 0, len(nodeTypes))
	for i, nt := range nodeTypes {
		nodes = append(nodes, models.WorkflowNode{
			Name: fmt.Sprintf("node-%d", i),
			Type: nt,
		})
	}
	tpl, err := testDB.CreateTemplate(context.Background(), TemplateInput{
		SourceID: sourceID,
		Title:    title,
		Tags:     []string{"test"},
		Nodes:    nodes,
	})
	if err != nil {
		t.Fatalf("seedTemplate %s: %v", sourceID, err)
	}
	return tpl
}

func enrichedUpsert(tpl *models.Template) AnalyticsUpsert {
	return AnalyticsUpsert{
		TemplateID:           tpl.ID,
		UseCaseName:          tpl.Title,
		UseCaseDescription:   models.Ptr("Sync new leads to the CRM."),
		ApplicableIndustries: []models.ClassifiedItem{{Name: "Sales & CRM", Confidence: 0.7}},
		ApplicableProcesses:  []models.ClassifiedItem{{Name: "Lead Generation", Confidence: 0.6}},
		UniqueNodeTypes:      []string{"n8n-nodes-base.httpRequest"},
		TotalUniqueNodeTypes: 1,
		TotalNodeCount:       2,
		BasePriceINR:         3400,
		ComplexityMultiplier: 1.0,
		FinalPriceINR:        3400,
		EnrichmentStatus:     models.EnrichmentEnriched,
		EnrichmentMethod:     models.MethodRuleBased,
		ConfidenceScore:      models.Ptr(0.65),
	}
}

// =============================================================================
// TEMPLATE TESTS
// =============================================================================

func TestCreateAndGetTemplate(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	tpl := seedTemplate(t, "tpl-create-1", "Invoice Sync", "n8n-nodes-base.httpRequest")

	if tpl.Title != "Invoice Sync" {
		t.Errorf("Expected title 'Invoice Sync', got %q", tpl.Title)
	}
	if len(tpl.Nodes) != 1 {
		t.Errorf("Expected 1 node, got %d", len(tpl.Nodes))
	}

	fetched, err := testDB.GetTemplate(ctx, models.MustRecordIDString(tpl.ID))
	if err != nil {
		t.Fatalf("GetTemplate failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("GetTemplate returned nil")
	}
	if fetched.SourceID != "tpl-create-1" {
		t.Errorf("Expected source_id 'tpl-create-1', got %q", fetched.SourceID)
	}

	missing, err := testDB.GetTemplate(ctx, "does-not-exist")
	if err != nil {
		t.Errorf("GetTemplate with missing ID should not error: %v", err)
	}
	if missing != nil {
		t.Error("GetTemplate with missing ID should return nil")
	}
}

func TestPendingTemplatesPredicate(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	a := seedTemplate(t, "pend-a", "Template A", "n8n-nodes-base.set")
	b := seedTemplate(t, "pend-b", "Template B", "n8n-nodes-base.if")
	_ = seedTemplate(t, "pend-c", "Template C", "n8n-nodes-base.merge")

	// Enrich A: it must drop out of the pending set.
	if _, err := testDB.UpsertAnalytics(ctx, enrichedUpsert(a)); err != nil {
		t.Fatalf("UpsertAnalytics failed: %v", err)
	}

	pending, err := testDB.ListTemplatesPendingAnalytics(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListTemplatesPendingAnalytics failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("Expected 2 pending templates, got %d", len(pending))
	}
	for _, p := range pending {
		if p.SourceID == "pend-a" {
			t.Error("Enriched template should not be pending")
		}
	}

	count, err := testDB.CountTemplatesPendingAnalytics(ctx)
	if err != nil {
		t.Fatalf("CountTemplatesPendingAnalytics failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected pending count 2, got %d", count)
	}

	// A failed analytics row does not remove the template from the pending set.
	failedRow := enrichedUpsert(b)
	failedRow.EnrichmentStatus = models.EnrichmentFailed
	if _, err := testDB.UpsertAnalytics(ctx, failedRow); err != nil {
		t.Fatalf("UpsertAnalytics (failed) failed: %v", err)
	}
	count, err = testDB.CountTemplatesPendingAnalytics(ctx)
	if err != nil {
		t.Fatalf("CountTemplatesPendingAnalytics failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Failed rows should stay pending: expected 2, got %d", count)
	}
}

func TestListTemplatesOffsetPaging(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	for i := 0; i < 5; i++ {
		seedTemplate(t, fmt.Sprintf("page-%d", i), fmt.Sprintf("Paged %d", i), "n8n-nodes-base.set")
	}

	first, err := testDB.ListTemplates(ctx, 0, 2)
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	second, err := testDB.ListTemplates(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListTemplates failed: %v", err)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("Expected 2+2 rows, got %d+%d", len(first), len(second))
	}
	if first[0].SourceID == second[0].SourceID {
		t.Error("Offset paging must not repeat rows")
	}
}

func TestGetTemplateTitles(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	a := seedTemplate(t, "title-a", "Alpha Flow", "n8n-nodes-base.set")
	b := seedTemplate(t, "title-b", "Beta Flow", "n8n-nodes-base.set")

	titles, err := testDB.GetTemplateTitles(ctx, []surrealmodels.RecordID{a.ID, b.ID})
	if err != nil {
		t.Fatalf("GetTemplateTitles failed: %v", err)
	}
	if len(titles) != 2 {
		t.Fatalf("Expected 2 titles, got %d", len(titles))
	}
	if titles[models.MustRecordIDString(a.ID)] != "Alpha Flow" {
		t.Errorf("Wrong title for A: %v", titles)
	}

	empty, err := testDB.GetTemplateTitles(ctx, nil)
	if err != nil {
		t.Fatalf("GetTemplateTitles with empty input failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected empty map, got %v", empty)
	}
}

// =============================================================================
// ANALYTICS TESTS
// =============================================================================

func TestUpsertAnalyticsIdempotent(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	tpl := seedTemplate(t, "upsert-1", "Upsert Test", "n8n-nodes-base.set", "n8n-nodes-base.set")

	first, err := testDB.UpsertAnalytics(ctx, enrichedUpsert(tpl))
	if err != nil {
		t.Fatalf("First UpsertAnalytics failed: %v", err)
	}

	// Second upsert with changed pricing must replace, not duplicate.
	row := enrichedUpsert(tpl)
	row.FinalPriceINR = 9999
	second, err := testDB.UpsertAnalytics(ctx, row)
	if err != nil {
		t.Fatalf("Second UpsertAnalytics failed: %v", err)
	}
	if second.FinalPriceINR != 9999 {
		t.Errorf("Expected final price 9999, got %d", second.FinalPriceINR)
	}
	if models.MustRecordIDString(first.ID) != models.MustRecordIDString(second.ID) {
		t.Error("Upsert must reuse the existing row for the same template")
	}

	count, err := testDB.CountAnalytics(ctx)
	if err != nil {
		t.Fatalf("CountAnalytics failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly 1 analytics row, got %d", count)
	}
}

func TestUpsertAnalyticsPreservesNarrowPassFields(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	tpl := seedTemplate(t, "preserve-1", "Preserve Test", "n8n-nodes-base.set")

	if _, err := testDB.UpsertAnalytics(ctx, enrichedUpsert(tpl)); err != nil {
		t.Fatalf("UpsertAnalytics failed: %v", err)
	}

	// Narrow passes fill their fields...
	top2 := []models.ClassifiedItem{{Name: "Sales & CRM", Confidence: 0.8}}
	if err := testDB.UpdateTop2(ctx, tpl.ID, top2, top2); err != nil {
		t.Fatalf("UpdateTop2 failed: %v", err)
	}
	if err := testDB.UpdateServiceableName(ctx, tpl.ID, "Lead Sync"); err != nil {
		t.Fatalf("UpdateServiceableName failed: %v", err)
	}

	// ...and a full re-enrichment must not clobber them.
	if _, err := testDB.UpsertAnalytics(ctx, enrichedUpsert(tpl)); err != nil {
		t.Fatalf("Re-upsert failed: %v", err)
	}

	got, err := testDB.GetAnalyticsByTemplate(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("GetAnalyticsByTemplate failed: %v", err)
	}
	if got == nil {
		t.Fatal("Analytics row missing")
	}
	if len(got.Top2Industries) != 1 || len(got.Top2Processes) != 1 {
		t.Errorf("Top-2 fields clobbered by re-upsert: %+v", got)
	}
	if got.ServiceableName == nil || *got.ServiceableName != "Lead Sync" {
		t.Errorf("Serviceable name clobbered by re-upsert: %v", got.ServiceableName)
	}
}

func TestAnalyticsSelectionPredicates(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	withDesc := seedTemplate(t, "sel-a", "Has Description", "n8n-nodes-base.set")
	noDesc := seedTemplate(t, "sel-b", "No Description", "n8n-nodes-base.set")

	if _, err := testDB.UpsertAnalytics(ctx, enrichedUpsert(withDesc)); err != nil {
		t.Fatalf("UpsertAnalytics failed: %v", err)
	}
	bare := enrichedUpsert(noDesc)
	bare.UseCaseDescription = nil
	if _, err := testDB.UpsertAnalytics(ctx, bare); err != nil {
		t.Fatalf("UpsertAnalytics failed: %v", err)
	}

	// Top-2 pass only sees rows with a description.
	rows, err := testDB.ListAnalyticsMissingTop2(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListAnalyticsMissingTop2 failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row missing top-2, got %d", len(rows))
	}

	// Filling top-2 removes the row from the predicate set.
	items := []models.ClassifiedItem{{Name: "Sales & CRM", Confidence: 0.8}}
	if err := testDB.UpdateTop2(ctx, withDesc.ID, items, items); err != nil {
		t.Fatalf("UpdateTop2 failed: %v", err)
	}
	rows, err = testDB.ListAnalyticsMissingTop2(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListAnalyticsMissingTop2 failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected 0 rows missing top-2 after update, got %d", len(rows))
	}

	// Naming pass sees both rows until a name is written.
	named, err := testDB.ListAnalyticsMissingName(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListAnalyticsMissingName failed: %v", err)
	}
	if len(named) != 2 {
		t.Fatalf("Expected 2 rows missing a name, got %d", len(named))
	}
	if err := testDB.UpdateServiceableName(ctx, withDesc.ID, "Lead Sync"); err != nil {
		t.Fatalf("UpdateServiceableName failed: %v", err)
	}
	count, err := testDB.CountAnalyticsMissingName(ctx)
	if err != nil {
		t.Fatalf("CountAnalyticsMissingName failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 row missing a name after update, got %d", count)
	}
}

func TestMissingTop2SkipStepsPastHead(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	first := seedTemplate(t, "skip-a", "Head Row", "n8n-nodes-base.set")
	if _, err := testDB.UpsertAnalytics(ctx, enrichedUpsert(first)); err != nil {
		t.Fatalf("UpsertAnalytics failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second := seedTemplate(t, "skip-b", "Tail Row", "n8n-nodes-base.set")
	if _, err := testDB.UpsertAnalytics(ctx, enrichedUpsert(second)); err != nil {
		t.Fatalf("UpsertAnalytics failed: %v", err)
	}

	// With skip = 1 the head row is stepped over and only the tail remains.
	rows, err := testDB.ListAnalyticsMissingTop2(ctx, 1, 10)
	if err != nil {
		t.Fatalf("ListAnalyticsMissingTop2 failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row with skip 1, got %d", len(rows))
	}
	if models.MustRecordIDString(rows[0].TemplateID) != models.MustRecordIDString(second.ID) {
		t.Error("Skip should step past the oldest eligible row")
	}

	// Skipping the whole set yields an empty page, which ends a run.
	rows, err = testDB.ListAnalyticsMissingTop2(ctx, 2, 10)
	if err != nil {
		t.Fatalf("ListAnalyticsMissingTop2 failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected empty page past the set, got %d rows", len(rows))
	}
}

func TestStatusCounts(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	ok := seedTemplate(t, "cnt-a", "Enriched One", "n8n-nodes-base.set")
	bad := seedTemplate(t, "cnt-b", "Failed One", "n8n-nodes-base.set")

	if _, err := testDB.UpsertAnalytics(ctx, enrichedUpsert(ok)); err != nil {
		t.Fatalf("UpsertAnalytics failed: %v", err)
	}
	failedRow := enrichedUpsert(bad)
	failedRow.EnrichmentStatus = models.EnrichmentFailed
	failedRow.ApplicableIndustries = nil
	failedRow.ApplicableProcesses = nil
	if _, err := testDB.UpsertAnalytics(ctx, failedRow); err != nil {
		t.Fatalf("UpsertAnalytics failed: %v", err)
	}

	enriched, err := testDB.CountAnalyticsByStatus(ctx, models.EnrichmentEnriched)
	if err != nil {
		t.Fatalf("CountAnalyticsByStatus failed: %v", err)
	}
	if enriched != 1 {
		t.Errorf("Expected 1 enriched, got %d", enriched)
	}
	failed, err := testDB.CountAnalyticsByStatus(ctx, models.EnrichmentFailed)
	if err != nil {
		t.Fatalf("CountAnalyticsByStatus failed: %v", err)
	}
	if failed != 1 {
		t.Errorf("Expected 1 failed, got %d", failed)
	}
}

// =============================================================================
// JOB RUN LEDGER TESTS
// =============================================================================

func TestJobRunLifecycle(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	run, err := testDB.CreateJobRun(ctx, models.JobTypeEnrichment)
	if err != nil {
		t.Fatalf("CreateJobRun failed: %v", err)
	}
	if run.Status != models.JobStatusRunning {
		t.Errorf("New run should be running, got %q", run.Status)
	}
	if run.CompletedAt != nil {
		t.Error("New run should have nil completed_at")
	}

	runID := models.MustRecordIDString(run.ID)

	err = testDB.UpdateJobRunProgress(ctx, runID, models.JobRunResult{
		ProcessedCount: models.Ptr(10),
		FailedCount:    models.Ptr(1),
		TotalCount:     models.Ptr(50),
	})
	if err != nil {
		t.Fatalf("UpdateJobRunProgress failed: %v", err)
	}

	fetched, err := testDB.GetJobRun(ctx, runID)
	if err != nil {
		t.Fatalf("GetJobRun failed: %v", err)
	}
	if fetched == nil || fetched.Result == nil {
		t.Fatal("Run should carry result counters after progress update")
	}
	if fetched.Result.ProcessedCount == nil || *fetched.Result.ProcessedCount != 10 {
		t.Errorf("Expected processed 10, got %+v", fetched.Result)
	}

	err = testDB.FinalizeJobRun(ctx, runID, models.JobStatusCompleted, models.JobRunResult{
		ProcessedCount: models.Ptr(49),
		FailedCount:    models.Ptr(1),
	}, nil)
	if err != nil {
		t.Fatalf("FinalizeJobRun failed: %v", err)
	}

	final, err := testDB.GetJobRun(ctx, runID)
	if err != nil {
		t.Fatalf("GetJobRun after finalize failed: %v", err)
	}
	if final.Status != models.JobStatusCompleted {
		t.Errorf("Expected completed, got %q", final.Status)
	}
	if final.CompletedAt == nil {
		t.Error("Finalized run should have completed_at set")
	}
}

func TestCreateJobRunRejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	if _, err := testDB.CreateJobRun(ctx, "backfill"); err == nil {
		t.Error("CreateJobRun should reject unknown job types")
	}
}

func TestMarkJobRunStoppedOnce(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	run, err := testDB.CreateJobRun(ctx, models.JobTypeTop2)
	if err != nil {
		t.Fatalf("CreateJobRun failed: %v", err)
	}
	runID := models.MustRecordIDString(run.ID)

	ok, err := testDB.MarkJobRunStopped(ctx, runID)
	if err != nil {
		t.Fatalf("MarkJobRunStopped failed: %v", err)
	}
	if !ok {
		t.Error("First stop of a running entry should succeed")
	}

	// Second stop is a no-op: the entry is already terminal.
	ok, err = testDB.MarkJobRunStopped(ctx, runID)
	if err != nil {
		t.Fatalf("Second MarkJobRunStopped failed: %v", err)
	}
	if ok {
		t.Error("Stopping an already-stopped entry should report false")
	}

	got, err := testDB.GetJobRun(ctx, runID)
	if err != nil {
		t.Fatalf("GetJobRun failed: %v", err)
	}
	if got.Status != models.JobStatusStopped {
		t.Errorf("Expected stopped, got %q", got.Status)
	}
}

func TestMarkStaleRunningAsFailed(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	stale, err := testDB.CreateJobRun(ctx, models.JobTypeServiceableName)
	if err != nil {
		t.Fatalf("CreateJobRun failed: %v", err)
	}
	fresh, err := testDB.CreateJobRun(ctx, models.JobTypeEnrichment)
	if err != nil {
		t.Fatalf("CreateJobRun failed: %v", err)
	}

	// Age the first run's updated_at past the threshold.
	_, err = testDB.Query(ctx, `
		UPDATE type::record("job_run", $id) SET updated_at = time::now() - 3h
	`, map[string]any{"id": models.MustRecordIDString(stale.ID)})
	if err != nil {
		t.Fatalf("Failed to age run: %v", err)
	}

	count, err := testDB.MarkStaleRunningAsFailed(ctx, 2*time.Hour)
	if err != nil {
		t.Fatalf("MarkStaleRunningAsFailed failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 stale run transitioned, got %d", count)
	}

	got, err := testDB.GetJobRun(ctx, models.MustRecordIDString(stale.ID))
	if err != nil {
		t.Fatalf("GetJobRun failed: %v", err)
	}
	if got.Status != models.JobStatusFailed {
		t.Errorf("Stale run should be failed, got %q", got.Status)
	}

	untouched, err := testDB.GetJobRun(ctx, models.MustRecordIDString(fresh.ID))
	if err != nil {
		t.Fatalf("GetJobRun failed: %v", err)
	}
	if untouched.Status != models.JobStatusRunning {
		t.Errorf("Fresh run should stay running, got %q", untouched.Status)
	}
}

func TestListJobRunsOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testDB.WipeData(ctx) }()

	first, err := testDB.CreateJobRun(ctx, models.JobTypeEnrichment)
	if err != nil {
		t.Fatalf("CreateJobRun failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := testDB.CreateJobRun(ctx, models.JobTypeTop2)
	if err != nil {
		t.Fatalf("CreateJobRun failed: %v", err)
	}

	runs, err := testDB.ListJobRuns(ctx, "", 100)
	if err != nil {
		t.Fatalf("ListJobRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	// Oldest-first for display.
	if models.MustRecordIDString(runs[0].ID) != models.MustRecordIDString(first.ID) {
		t.Error("Runs should be ordered oldest-first")
	}
	if models.MustRecordIDString(runs[1].ID) != models.MustRecordIDString(second.ID) {
		t.Error("Newest run should be last")
	}

	filtered, err := testDB.ListJobRuns(ctx, models.JobTypeTop2, 100)
	if err != nil {
		t.Fatalf("ListJobRuns with filter failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].JobType != models.JobTypeTop2 {
		t.Errorf("Filter by type returned wrong rows: %+v", filtered)
	}

	if _, err := testDB.ListJobRuns(ctx, "bogus", 10); err == nil {
		t.Error("ListJobRuns should reject unknown type filters")
	}
}
