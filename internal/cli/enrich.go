package cli

import (
	"fmt"

	"github.com/flowdexhq/flowdex/internal/models"
	"github.com/flowdexhq/flowdex/internal/service"
	"github.com/spf13/cobra"
)

var (
	enrichFlags  jobFlags
	enrichNoSkip bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich templates with analytics",
	Long: `Computes node statistics, industry and process classification, a
use-case description and pricing for every template that does not have an
enriched analytics row yet, and upserts the results.

The pass is resumable: each row is written as it finishes, and a re-run
skips already-enriched templates unless --no-skip-existing is given.`,
	RunE: runEnrich,
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	skipExisting := !enrichNoSkip

	var pending int
	var err error
	if skipExisting {
		pending, err = dbClient.CountTemplatesPendingAnalytics(ctx)
	} else {
		pending, err = dbClient.CountTemplates(ctx)
	}
	if err != nil {
		return fmt.Errorf("count templates: %w", err)
	}
	if pending == 0 {
		fmt.Println("Nothing to enrich.")
		return nil
	}

	rt, err := newJobRuntime(cmd, &enrichFlags)
	if err != nil {
		return err
	}
	defer rt.close()

	mode := "rule-based"
	if rt.useAI {
		mode = "AI (" + cfg.LLMProvider + "/" + cfg.LLMModel + ")"
	}
	ok, err := confirm(fmt.Sprintf("Enrich %d template(s) using %s classification?", pending, mode))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}

	runID, err := rt.ledger.AdoptOrCreate(ctx, models.JobTypeEnrichment, cfg.RunID)
	if err != nil {
		return fmt.Errorf("open job run: %w", err)
	}

	svc := service.NewEnrichmentService(dbClient, rt.ledger, rt.gen, rt.pacer, rt.useAI, rt.interrupt, rt.collector, logger)
	res, err := svc.Run(ctx, runID, service.EnrichmentOptions{
		BatchSize:    enrichFlags.effectiveBatchSize(),
		Limit:        enrichFlags.limit,
		SkipExisting: skipExisting,
		UseAI:        rt.useAI,
	})
	if err != nil {
		return fmt.Errorf("enrichment run %s: %w", runID, err)
	}

	if res.Interrupted {
		fmt.Printf("Interrupted after %d of %d template(s) (%d failed). Re-run to resume.\n",
			res.Enriched+res.Failed, res.Total, res.Failed)
		return nil
	}
	fmt.Printf("Enriched %d of %d template(s), %d failed (run %s).\n",
		res.Enriched, res.Total, res.Failed, runID)
	return nil
}

func init() {
	registerJobFlags(enrichCmd, &enrichFlags)
	enrichCmd.Flags().BoolVar(&enrichNoSkip, "no-skip-existing", false,
		"re-enrich templates that already have an analytics row")
	rootCmd.AddCommand(enrichCmd)
}
