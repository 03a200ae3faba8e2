package cli

import (
	"fmt"

	"github.com/flowdexhq/flowdex/internal/models"
	"github.com/flowdexhq/flowdex/internal/service"
	"github.com/spf13/cobra"
)

var nameFlags jobFlags

var nameCmd = &cobra.Command{
	Use:   "name",
	Short: "Generate serviceable names",
	Long: `Fills the serviceable_name column with a short customer-facing name,
at most 25 characters, derived from the use-case name, the use-case
description or the template title. Only rows without a name are picked
up; --refresh recomputes every row.`,
	RunE: runName,
}

func runName(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var pending int
	var err error
	if nameFlags.refresh {
		pending, err = dbClient.CountAnalytics(ctx)
	} else {
		pending, err = dbClient.CountAnalyticsMissingName(ctx)
	}
	if err != nil {
		return fmt.Errorf("count analytics rows: %w", err)
	}
	if pending == 0 {
		fmt.Println("No rows need a serviceable name.")
		return nil
	}

	rt, err := newJobRuntime(cmd, &nameFlags)
	if err != nil {
		return err
	}
	defer rt.close()

	ok, err := confirm(fmt.Sprintf("Generate serviceable names for %d row(s)?", pending))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}

	runID, err := rt.ledger.AdoptOrCreate(ctx, models.JobTypeServiceableName, cfg.RunID)
	if err != nil {
		return fmt.Errorf("open job run: %w", err)
	}

	svc := service.NewNamingService(dbClient, rt.ledger, rt.gen, rt.pacer, rt.useAI, rt.interrupt, rt.collector, logger)
	res, err := svc.Run(ctx, runID, service.NamingOptions{
		BatchSize: nameFlags.effectiveBatchSize(),
		Limit:     nameFlags.limit,
		Refresh:   nameFlags.refresh,
		UseAI:     rt.useAI,
	})
	if err != nil {
		return fmt.Errorf("naming run %s: %w", runID, err)
	}

	if res.Interrupted {
		fmt.Printf("Interrupted after %d of %d row(s) (%d failed). Re-run to resume.\n",
			res.Processed+res.Failed, res.Total, res.Failed)
		return nil
	}
	fmt.Printf("Named %d of %d row(s), %d failed (run %s).\n",
		res.Processed, res.Total, res.Failed, runID)
	return nil
}

func init() {
	registerJobFlags(nameCmd, &nameFlags)
	nameCmd.Flags().BoolVar(&nameFlags.refresh, "refresh", false,
		"recompute rows that already have a serviceable name")
	rootCmd.AddCommand(nameCmd)
}
