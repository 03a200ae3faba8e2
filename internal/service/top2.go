package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowdexhq/flowdex/internal/db"
	"github.com/flowdexhq/flowdex/internal/enrich"
	"github.com/flowdexhq/flowdex/internal/metrics"
	"github.com/flowdexhq/flowdex/internal/models"
)

// Top2Options configures one top-2 classification run.
type Top2Options struct {
	BatchSize int
	Limit     int  // 0 = all
	Refresh   bool // recompute rows that already have top-2 lists
	UseAI     bool
}

// Top2Result summarizes a finished or interrupted run.
type Top2Result struct {
	Processed   int
	Failed      int
	Total       int
	Interrupted bool
}

// Top2Service condenses each row's use-case description into the two
// best-fit industries and processes.
type Top2Service struct {
	db        *db.Client
	ledger    *Ledger
	top       *enrich.TopClassifier
	pacer     *enrich.Pacer
	useAI     bool
	interrupt *Interrupt
	collector *metrics.Collector
	logger    *slog.Logger
}

// NewTop2Service wires the top-2 pass.
func NewTop2Service(dbClient *db.Client, ledger *Ledger, gen enrich.Generator, pacer *enrich.Pacer, useAI bool, interrupt *Interrupt, collector *metrics.Collector, logger *slog.Logger) *Top2Service {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if interrupt == nil {
		interrupt = NewInterrupt()
	}
	return &Top2Service{
		db:        dbClient,
		ledger:    ledger,
		top:       enrich.NewTopClassifier(gen, useAI, logger),
		pacer:     pacer,
		useAI:     useAI && gen != nil,
		interrupt: interrupt,
		collector: collector,
		logger:    logger,
	}
}

// Run executes the top-2 pass against the ledger entry runID.
func (s *Top2Service) Run(ctx context.Context, runID string, opts Top2Options) (*Top2Result, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}

	var total int
	var err error
	if opts.Refresh {
		total, err = s.db.CountAnalyticsWithDescription(ctx)
	} else {
		total, err = s.db.CountAnalyticsMissingTop2(ctx)
	}
	if err != nil {
		s.ledger.Fail(ctx, runID, models.JobRunResult{}, err)
		return nil, err
	}
	if opts.Limit > 0 && opts.Limit < total {
		total = opts.Limit
	}

	s.logger.Info("top-2 run starting",
		"run_id", runID, "total", total, "refresh", opts.Refresh, "use_ai", s.useAI)

	res := &Top2Result{Total: total}
	if total > 0 {
		s.ledger.Progress(ctx, runID, s.counters(res))
	}

	// offset pages the static refresh selection; stuck counts rows that were
	// attempted but stayed in the missing-top-2 set (empty result lists or a
	// failed write) so the non-refresh fetch steps past them instead of
	// rereading the same head forever.
	offset := 0
	stuck := 0
	for {
		if s.interrupt.Triggered() || s.done(res, opts.Limit) {
			break
		}

		var page []models.TemplateAnalytics
		if opts.Refresh {
			page, err = s.db.ListAnalyticsWithDescription(ctx, offset, opts.BatchSize)
		} else {
			page, err = s.db.ListAnalyticsMissingTop2(ctx, stuck, opts.BatchSize)
		}
		if err != nil {
			s.ledger.Fail(ctx, runID, s.counters(res), err)
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		for _, row := range page {
			if s.interrupt.Triggered() || s.done(res, opts.Limit) {
				break
			}

			// Pace only while the AI pass is live: a fatal provider error
			// disables it mid-run.
			if s.top.AIEnabled() {
				if err := s.pacer.Wait(ctx); err != nil {
					s.ledger.Fail(ctx, runID, s.counters(res), err)
					return nil, err
				}
			}

			var result enrich.TopResult
			start := time.Now()
			s.collector.Time(metrics.OpAITop2, func() {
				result = s.top.ClassifyTop(ctx, deref(row.UseCaseDescription))
			})

			if err := s.db.UpdateTop2(ctx, row.TemplateID, result.Industries, result.Processes); err != nil {
				res.Failed++
				if !opts.Refresh {
					stuck++
				}
				s.logger.Warn("top-2 update failed", "template_id", row.TemplateID, "error", err)
			} else {
				res.Processed++
				if !opts.Refresh && (len(result.Industries) == 0 || len(result.Processes) == 0) {
					stuck++
				}
			}
			s.collector.RecordTiming(metrics.OpRowProcess, time.Since(start))

			if n := res.Processed + res.Failed; n%10 == 0 {
				s.logger.Info("top-2 progress", "processed", n, "total", total, "failed", res.Failed)
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
		s.logger.Info("top-2 run interrupted",
			"run_id", runID, "processed", res.Processed, "failed", res.Failed)
		return res, nil
	}

	s.ledger.Complete(ctx, runID, s.counters(res))
	return res, nil
}

func (s *Top2Service) done(res *Top2Result, limit int) bool {
	return limit > 0 && res.Processed+res.Failed >= limit
}

func (s *Top2Service) counters(res *Top2Result) models.JobRunResult {
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
