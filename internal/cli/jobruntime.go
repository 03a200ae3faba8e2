package cli

import (
	"fmt"

	"github.com/flowdexhq/flowdex/internal/enrich"
	"github.com/flowdexhq/flowdex/internal/llm"
	"github.com/flowdexhq/flowdex/internal/metrics"
	"github.com/flowdexhq/flowdex/internal/service"
	"github.com/spf13/cobra"
)

// jobFlags are the knobs shared by the enrichment job commands. Defaults come
// from config so the admin server can steer spawned jobs through env vars and
// only pass flags for per-run overrides.
type jobFlags struct {
	batchSize int
	limit     int
	useAI     bool
	noAI      bool
	refresh   bool
}

func registerJobFlags(cmd *cobra.Command, f *jobFlags) {
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "rows fetched per page (default from config)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "stop after this many rows (0 = all)")
	cmd.Flags().BoolVar(&f.useAI, "use-ai", false, "use the configured LLM provider")
	cmd.Flags().BoolVar(&f.noAI, "no-ai", false, "rule-based only, never call the LLM")
	cmd.MarkFlagsMutuallyExclusive("use-ai", "no-ai")
}

// resolveUseAI layers the flags over the config default and checks that the
// configured provider is actually callable.
func resolveUseAI(cmd *cobra.Command, f *jobFlags) bool {
	useAI := cfg.UseAI
	if cmd.Flags().Changed("use-ai") {
		useAI = true
	}
	if cmd.Flags().Changed("no-ai") {
		useAI = false
	}
	if useAI && !cfg.HasLLMCredentials() {
		logger.Warn("AI requested but no credentials for provider, falling back to rule-based",
			"provider", cfg.LLMProvider)
		return false
	}
	return useAI
}

// jobRuntime bundles everything a job command needs beyond its service.
type jobRuntime struct {
	ledger    *service.Ledger
	interrupt *service.Interrupt
	gen       enrich.Generator
	pacer     *enrich.Pacer
	collector *metrics.Collector
	useAI     bool
}

// newJobRuntime wires the ledger, the interrupt watcher, the metrics
// collector and, when AI is on, the language model and its pacer. The
// collector is shared with the db client so query timings are counted too.
func newJobRuntime(cmd *cobra.Command, f *jobFlags) (*jobRuntime, error) {
	rt := &jobRuntime{
		ledger:    service.NewLedger(dbClient, logger),
		interrupt: service.NewInterrupt(),
		collector: metrics.NewCollector(),
		useAI:     resolveUseAI(cmd, f),
	}
	dbClient.SetCollector(rt.collector)
	rt.interrupt.Watch()

	if rt.useAI {
		model, err := llm.NewModel(cfg)
		if err != nil {
			return nil, fmt.Errorf("initialize LLM: %w", err)
		}
		rt.gen = model
		rt.pacer = enrich.NewPacer(cfg.AIDelay, cfg.AIBatchSize, cfg.AIBatchPause, logger)
	}
	return rt, nil
}

func (rt *jobRuntime) close() {
	rt.interrupt.Stop()

	snap := rt.collector.Snapshot()
	if snap.RowProcess != nil {
		logger.Info("row timings",
			"count", snap.RowProcess.Count,
			"avg_ms", snap.RowProcess.AvgTimeMs,
			"max_ms", snap.RowProcess.MaxTimeMs)
	}
	if snap.DBQuery != nil {
		logger.Info("db query timings",
			"count", snap.DBQuery.Count,
			"avg_ms", snap.DBQuery.AvgTimeMs,
			"max_ms", snap.DBQuery.MaxTimeMs)
	}
}

func (f *jobFlags) effectiveBatchSize() int {
	if f.batchSize > 0 {
		return f.batchSize
	}
	return cfg.BatchSize
}
