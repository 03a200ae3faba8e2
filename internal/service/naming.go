package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowdexhq/flowdex/internal/db"
	"github.com/flowdexhq/flowdex/internal/enrich"
	"github.com/flowdexhq/flowdex/internal/metrics"
	"github.com/flowdexhq/flowdex/internal/models"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// NamingOptions configures one serviceable-name run.
type NamingOptions struct {
	BatchSize int
	Limit     int  // 0 = all
	Refresh   bool // recompute rows that already carry a name
	UseAI     bool
}

// NamingResult summarizes a finished or interrupted run.
type NamingResult struct {
	Processed   int
	Failed      int
	Total       int
	Interrupted bool
}

// NamingService fills the serviceable_name column: a short customer-facing
// name of at most 25 characters per analytics row.
type NamingService struct {
	db        *db.Client
	ledger    *Ledger
	namer     *enrich.Namer
	pacer     *enrich.Pacer
	useAI     bool
	interrupt *Interrupt
	collector *metrics.Collector
	logger    *slog.Logger
}

// NewNamingService wires the naming pass.
func NewNamingService(dbClient *db.Client, ledger *Ledger, gen enrich.Generator, pacer *enrich.Pacer, useAI bool, interrupt *Interrupt, collector *metrics.Collector, logger *slog.Logger) *NamingService {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if interrupt == nil {
		interrupt = NewInterrupt()
	}
	return &NamingService{
		db:        dbClient,
		ledger:    ledger,
		namer:     enrich.NewNamer(gen, useAI, logger),
		pacer:     pacer,
		useAI:     useAI && gen != nil,
		interrupt: interrupt,
		collector: collector,
		logger:    logger,
	}
}

// Run executes the naming pass against the ledger entry runID.
func (s *NamingService) Run(ctx context.Context, runID string, opts NamingOptions) (*NamingResult, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}

	var total int
	var err error
	if opts.Refresh {
		total, err = s.db.CountAnalytics(ctx)
	} else {
		total, err = s.db.CountAnalyticsMissingName(ctx)
	}
	if err != nil {
		s.ledger.Fail(ctx, runID, models.JobRunResult{}, err)
		return nil, err
	}
	if opts.Limit > 0 && opts.Limit < total {
		total = opts.Limit
	}

	s.logger.Info("naming run starting",
		"run_id", runID, "total", total, "refresh", opts.Refresh, "use_ai", s.useAI)

	res := &NamingResult{Total: total}
	if total > 0 {
		s.ledger.Progress(ctx, runID, s.counters(res))
	}

	// offset pages the static refresh selection; stuck counts rows whose
	// name write failed and which therefore stayed in the missing-name set,
	// so the non-refresh fetch steps past them.
	offset := 0
	stuck := 0
	for {
		if s.interrupt.Triggered() || s.done(res, opts.Limit) {
			break
		}

		var page []models.TemplateAnalytics
		if opts.Refresh {
			page, err = s.db.ListAnalytics(ctx, offset, opts.BatchSize)
		} else {
			page, err = s.db.ListAnalyticsMissingName(ctx, stuck, opts.BatchSize)
		}
		if err != nil {
			s.ledger.Fail(ctx, runID, s.counters(res), err)
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		titles, err := s.templateTitles(ctx, page)
		if err != nil {
			s.ledger.Fail(ctx, runID, s.counters(res), err)
			return nil, err
		}

		for _, row := range page {
			if s.interrupt.Triggered() || s.done(res, opts.Limit) {
				break
			}

			// Pace only while the AI pass is live: a fatal provider error
			// disables it mid-run.
			if s.namer.AIEnabled() {
				if err := s.pacer.Wait(ctx); err != nil {
					s.ledger.Fail(ctx, runID, s.counters(res), err)
					return nil, err
				}
			}

			title := ""
			if id, idErr := models.RecordIDString(row.TemplateID); idErr == nil {
				title = titles[id]
			}

			var name string
			start := time.Now()
			s.collector.Time(metrics.OpAIName, func() {
				name = s.namer.Name(ctx, enrich.NameInput{
					UseCaseName:        row.UseCaseName,
					UseCaseDescription: deref(row.UseCaseDescription),
					Title:              title,
				})
			})

			if err := s.db.UpdateServiceableName(ctx, row.TemplateID, name); err != nil {
				res.Failed++
				if !opts.Refresh {
					stuck++
				}
				s.logger.Warn("serviceable name update failed", "template_id", row.TemplateID, "error", err)
			} else {
				res.Processed++
			}
			s.collector.RecordTiming(metrics.OpRowProcess, time.Since(start))

			if n := res.Processed + res.Failed; n%10 == 0 {
				s.logger.Info("naming progress", "processed", n, "total", total, "failed", res.Failed)
				s.ledger.Progress(ctx, runID, s.counters(res))
			}
		}

		s.ledger.Progress(ctx, runID, s.counters(res))
		if opts.Refresh {
			offset += opts.BatchSize
		}
	}

	if s.interrupt.Triggered() {
		res.Interrupted = true
		s.ledger.Progress(ctx, runID, s.counters(res))
		s.logger.Info("naming run interrupted",
			"run_id", runID, "processed", res.Processed, "failed", res.Failed)
		return res, nil
	}

	s.ledger.Complete(ctx, runID, s.counters(res))
	return res, nil
}

// templateTitles batch-fetches the titles for one page of analytics rows.
func (s *NamingService) templateTitles(ctx context.Context, page []models.TemplateAnalytics) (map[string]string, error) {
	ids := make([]surrealmodels.RecordID, 0, len(page))
	for _, row := range page {
		ids = append(ids, row.TemplateID)
	}
	return s.db.GetTemplateTitles(ctx, ids)
}

func (s *NamingService) done(res *NamingResult, limit int) bool {
	return limit > 0 && res.Processed+res.Failed >= limit
}

func (s *NamingService) counters(res *NamingResult) models.JobRunResult {
	out := models.JobRunResult{
		ProcessedCount: models.Ptr(res.Processed),
		FailedCount:    models.Ptr(res.Failed),
		TotalCount:     models.Ptr(res.Total),
	}
	if s.pacer != nil {
		out.AICallCount = models.Ptr(s.pacer.Calls())
	}
	return out
}
