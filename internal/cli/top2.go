package cli

import (
	"fmt"

	"github.com/flowdexhq/flowdex/internal/models"
	"github.com/flowdexhq/flowdex/internal/service"
	"github.com/spf13/cobra"
)

var top2Flags jobFlags

var top2Cmd = &cobra.Command{
	Use:   "top2",
	Short: "Condense classifications to top-2 lists",
	Long: `Re-reads each enriched row's use-case description and condenses the
classification down to the two best-fit industries and the two best-fit
processes. Only rows with a description and empty top-2 lists are picked
up; --refresh recomputes every row with a description.`,
	RunE: runTop2,
}

func runTop2(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var pending int
	var err error
	if top2Flags.refresh {
		pending, err = dbClient.CountAnalyticsWithDescription(ctx)
	} else {
		pending, err = dbClient.CountAnalyticsMissingTop2(ctx)
	}
	if err != nil {
		return fmt.Errorf("count analytics rows: %w", err)
	}
	if pending == 0 {
		fmt.Println("No rows need top-2 classification.")
		return nil
	}

	rt, err := newJobRuntime(cmd, &top2Flags)
	if err != nil {
		return err
	}
	defer rt.close()

	ok, err := confirm(fmt.Sprintf("Classify top-2 industries/processes for %d row(s)?", pending))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}

	runID, err := rt.ledger.AdoptOrCreate(ctx, models.JobTypeTop2, cfg.RunID)
	if err != nil {
		return fmt.Errorf("open job run: %w", err)
	}

	svc := service.NewTop2Service(dbClient, rt.ledger, rt.gen, rt.pacer, rt.useAI, rt.interrupt, rt.collector, logger)
	res, err := svc.Run(ctx, runID, service.Top2Options{
		BatchSize: top2Flags.effectiveBatchSize(),
		Limit:     top2Flags.limit,
		Refresh:   top2Flags.refresh,
		UseAI:     rt.useAI,
	})
	if err != nil {
		return fmt.Errorf("top-2 run %s: %w", runID, err)
	}

	if res.Interrupted {
		fmt.Printf("Interrupted after %d of %d row(s) (%d failed). Re-run to resume.\n",
			res.Processed+res.Failed, res.Total, res.Failed)
		return nil
	}
	fmt.Printf("Classified %d of %d row(s), %d failed (run %s).\n",
		res.Processed, res.Total, res.Failed, runID)
	return nil
}

func init() {
	registerJobFlags(top2Cmd, &top2Flags)
	top2Cmd.Flags().BoolVar(&top2Flags.refresh, "refresh", false,
		"recompute rows that already have top-2 lists")
	rootCmd.AddCommand(top2Cmd)
}
