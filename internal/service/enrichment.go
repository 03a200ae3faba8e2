package service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/flowdexhq/flowdex/internal/db"
	"github.com/flowdexhq/flowdex/internal/enrich"
	"github.com/flowdexhq/flowdex/internal/metrics"
	"github.com/flowdexhq/flowdex/internal/models"
)

// EnrichmentOptions configures one enrichment run.
type EnrichmentOptions struct {
	BatchSize    int  // rows fetched per page
	Limit        int  // stop after this many rows; 0 = all
	SkipExisting bool // skip templates that already have an enriched row
	UseAI        bool
}

// EnrichmentResult summarizes a finished or interrupted run.
type EnrichmentResult struct {
	Enriched    int
	Failed      int
	Total       int
	Interrupted bool
}

// EnrichmentService runs the analytics enrichment pass: node statistics,
// classification, use-case description, and pricing for every template that
// needs it, one row at a time so an interrupt never loses a finished row.
type EnrichmentService struct {
	db         *db.Client
	ledger     *Ledger
	classifier *enrich.Classifier
	describer  *enrich.Describer
	pacer      *enrich.Pacer
	useAI      bool
	interrupt  *Interrupt
	collector  *metrics.Collector
	logger     *slog.Logger
}

// NewEnrichmentService wires the enrichment pass.
func NewEnrichmentService(dbClient *db.Client, ledger *Ledger, gen enrich.Generator, pacer *enrich.Pacer, useAI bool, interrupt *Interrupt, collector *metrics.Collector, logger *slog.Logger) *EnrichmentService {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if interrupt == nil {
		interrupt = NewInterrupt()
	}
	return &EnrichmentService{
		db:         dbClient,
		ledger:     ledger,
		classifier: enrich.NewClassifier(gen, useAI, logger),
		describer:  enrich.NewDescriber(gen, useAI, logger),
		pacer:      pacer,
		useAI:      useAI && gen != nil,
		interrupt:  interrupt,
		collector:  collector,
		logger:     logger,
	}
}

// Run executes the enrichment pass against the ledger entry runID.
func (s *EnrichmentService) Run(ctx context.Context, runID string, opts EnrichmentOptions) (*EnrichmentResult, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}

	total, err := s.countTotal(ctx, opts)
	if err != nil {
		s.ledger.Fail(ctx, runID, models.JobRunResult{}, err)
		return nil, err
	}
	if opts.Limit > 0 && opts.Limit < total {
		total = opts.Limit
	}

	s.logger.Info("enrichment run starting",
		"run_id", runID, "total", total,
		"batch_size", opts.BatchSize, "skip_existing", opts.SkipExisting, "use_ai", s.useAI)

	res := &EnrichmentResult{Total: total}
	if total > 0 {
		s.ledger.Progress(ctx, runID, s.counters(res))
	}

	// offset pages the static no-skip selection; stuck counts failed rows,
	// which stay in the pending set, so the skip-existing fetch steps past
	// them instead of rereading the same head forever.
	offset := 0
	stuck := 0
	for {
		if s.interrupt.Triggered() || s.done(res, opts.Limit) {
			break
		}

		page, err := s.fetchPage(ctx, opts, offset, stuck)
		if err != nil {
			s.ledger.Fail(ctx, runID, s.counters(res), err)
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		for _, tpl := range page {
			if s.interrupt.Triggered() || s.done(res, opts.Limit) {
				break
			}

			start := time.Now()
			rowErr := s.enrichOne(ctx, &tpl)
			s.collector.RecordTiming(metrics.OpRowProcess, time.Since(start))

			if rowErr != nil {
				res.Failed++
				if opts.SkipExisting {
					stuck++
				}
				s.logger.Warn("template enrichment failed",
					"template", tpl.SourceID, "error", rowErr)
			} else {
				res.Enriched++
			}

			if processed := res.Enriched + res.Failed; processed%10 == 0 {
				s.logger.Info("enrichment progress",
					"processed", processed, "total", total, "failed", res.Failed)
				s.ledger.Progress(ctx, runID, s.counters(res))
			}
		}

		s.ledger.Progress(ctx, runID, s.counters(res))
		if !opts.SkipExisting {
			offset += opts.BatchSize
		}
	}

	if s.interrupt.Triggered() {
		// Leave the ledger entry running: the operator can rerun with
		// skip-existing and adopt the remaining work. Stale entries are
		// reclaimed by the sweep.
		res.Interrupted = true
		s.ledger.Progress(ctx, runID, s.counters(res))
		s.logger.Info("enrichment run interrupted",
			"run_id", runID, "enriched", res.Enriched, "failed", res.Failed)
		return res, nil
	}

	s.ledger.Complete(ctx, runID, s.counters(res))
	return res, nil
}

func (s *EnrichmentService) countTotal(ctx context.Context, opts EnrichmentOptions) (int, error) {
	if opts.SkipExisting {
		return s.db.CountTemplatesPendingAnalytics(ctx)
	}
	return s.db.CountTemplates(ctx)
}

func (s *EnrichmentService) fetchPage(ctx context.Context, opts EnrichmentOptions, offset, stuck int) ([]models.Template, error) {
	if opts.SkipExisting {
		// Enriched rows drop out of the selection; skip past the failed ones
		// that remain at its head.
		return s.db.ListTemplatesPendingAnalytics(ctx, stuck, opts.BatchSize)
	}
	return s.db.ListTemplates(ctx, offset, opts.BatchSize)
}

func (s *EnrichmentService) done(res *EnrichmentResult, limit int) bool {
	return limit > 0 && res.Enriched+res.Failed >= limit
}

func (s *EnrichmentService) counters(res *EnrichmentResult) models.JobRunResult {
	out := models.JobRunResult{
		EnrichedCount: models.Ptr(res.Enriched),
		FailedCount:   models.Ptr(res.Failed),
		TotalCount:    models.Ptr(res.Total),
	}
	if s.pacer != nil {
		out.AICallCount = models.Ptr(s.pacer.Calls())
	}
	return out
}

// enrichOne computes and upserts the full analytics row for one template.
func (s *EnrichmentService) enrichOne(ctx context.Context, tpl *models.Template) error {
	stats := enrich.AnalyzeNodes(tpl.Nodes)
	pricing := enrich.CalculatePricing(stats.TotalNodeCount, stats.TotalUniqueNodeTypes)

	// Pace only while the AI pass is live: a fatal provider error disables
	// it mid-run and the remaining rows go through rule-based paths at
	// full speed.
	if s.classifier.AIEnabled() {
		if err := s.pacer.Wait(ctx); err != nil {
			return err
		}
	}
	var classification enrich.Classification
	s.collector.Time(metrics.OpAIClassify, func() {
		classification = s.classifier.Classify(ctx, enrich.ClassifyInput{
			Title:       tpl.Title,
			Description: deref(tpl.Description),
			Category:    deref(tpl.Category),
			Tags:        tpl.Tags,
		})
	})

	if s.describer.AIEnabled() {
		if err := s.pacer.Wait(ctx); err != nil {
			return err
		}
	}
	var description string
	s.collector.Time(metrics.OpAIDescribe, func() {
		description = s.describer.Describe(ctx, enrich.DescribeInput{
			Title:       tpl.Title,
			Description: deref(tpl.Description),
			Category:    deref(tpl.Category),
			Tags:        tpl.Tags,
			NodeTypes:   stats.UniqueNodeTypes,
		})
	})

	confidence := math.Round(classification.Confidence*100) / 100

	_, err := s.db.UpsertAnalytics(ctx, db.AnalyticsUpsert{
		TemplateID:           tpl.ID,
		UseCaseName:          tpl.Title,
		UseCaseDescription:   models.Ptr(description),
		ApplicableIndustries: classification.Industries,
		ApplicableProcesses:  classification.Processes,
		UniqueNodeTypes:      stats.UniqueNodeTypes,
		TotalUniqueNodeTypes: stats.TotalUniqueNodeTypes,
		TotalNodeCount:       stats.TotalNodeCount,
		NodeBreakdown:        stats.Breakdown,
		BasePriceINR:         pricing.BasePriceINR,
		ComplexityMultiplier: pricing.ComplexityMultiplier,
		FinalPriceINR:        pricing.FinalPriceINR,
		EnrichmentStatus:     models.EnrichmentEnriched,
		EnrichmentMethod:     classification.Method,
		ConfidenceScore:      models.Ptr(confidence),
	})
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
