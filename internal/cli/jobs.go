package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/flowdexhq/flowdex/internal/models"
	"github.com/flowdexhq/flowdex/internal/service"
	"github.com/spf13/cobra"
)

var (
	jobsTypeFilter string
	jobsLimit      int
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and manage the job_run ledger",
	Long: `List, inspect, stop and watch job runs.

Examples:
  flowdex jobs list                     # Recent runs, oldest first
  flowdex jobs list --type enrichment   # Only enrichment runs
  flowdex jobs show job_run:abc123      # Full detail for one run
  flowdex jobs stop job_run:abc123      # Request a cooperative stop
  flowdex jobs watch job_run:abc123     # Live progress display
  flowdex jobs sweep                    # Fail runs with stale heartbeats`,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent job runs",
	Args:  cobra.NoArgs,
	RunE:  runJobsList,
}

var jobsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show details for one job run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsShow,
}

var jobsStopCmd = &cobra.Command{
	Use:   "stop <run-id>",
	Short: "Request a running job to stop",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsStop,
}

var jobsSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark stale running jobs as failed",
	Long: `Marks every run that still claims to be running but has not updated
its heartbeat within the staleness window as failed. Run this after a
crash, or let the admin server's periodic sweep handle it.`,
	Args: cobra.NoArgs,
	RunE: runJobsSweep,
}

var jobsWatchCmd = &cobra.Command{
	Use:   "watch <run-id>",
	Short: "Watch a job run's progress live",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsWatch,
}

func runJobsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if jobsTypeFilter != "" && !models.ValidJobType(jobsTypeFilter) {
		return fmt.Errorf("unknown job type: %s", jobsTypeFilter)
	}

	runs, err := dbClient.ListJobRuns(ctx, jobsTypeFilter, jobsLimit)
	if err != nil {
		return fmt.Errorf("list job runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No job runs found")
		return nil
	}

	fmt.Printf("%-28s %-18s %-10s %-12s %s\n", "ID", "TYPE", "STATUS", "PROGRESS", "STARTED")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, run := range runs {
		id, err := models.RecordIDString(run.ID)
		if err != nil {
			id = "?"
		}
		done, total := runCounts(&run)
		progress := ""
		if total > 0 {
			progress = fmt.Sprintf("%d/%d", done, total)
		}
		fmt.Printf("%-28s %-18s %-10s %-12s %s\n",
			id, run.JobType, run.Status, progress, run.StartedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runJobsShow(cmd *cobra.Command, args []string) error {
	run, err := fetchRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	id, _ := models.RecordIDString(run.ID)
	fmt.Printf("Run: %s\n", id)
	fmt.Printf("  Type: %s\n", run.JobType)
	fmt.Printf("  Status: %s\n", run.Status)
	if done, total := runCounts(run); total > 0 {
		fmt.Printf("  Progress: %d/%d\n", done, total)
	}
	fmt.Printf("  Started: %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Printf("  Updated: %s\n", run.UpdatedAt.Format(time.RFC3339))
	if run.CompletedAt != nil {
		fmt.Printf("  Completed: %s\n", run.CompletedAt.Format(time.RFC3339))
		fmt.Printf("  Duration: %s\n", run.CompletedAt.Sub(run.StartedAt).Round(time.Second))
	}
	if run.Error != nil && *run.Error != "" {
		fmt.Printf("  Error: %s\n", *run.Error)
	}

	if r := run.Result; r != nil {
		fmt.Println("\nResult:")
		printCount := func(label string, v *int) {
			if v != nil {
				fmt.Printf("  %-18s %d\n", label+":", *v)
			}
		}
		printCount("Enriched", r.EnrichedCount)
		printCount("Processed", r.ProcessedCount)
		printCount("Failed", r.FailedCount)
		printCount("Total", r.TotalCount)
		printCount("Templates ok", r.TemplatesOK)
		printCount("Templates error", r.TemplatesError)
		printCount("AI calls", r.AICallCount)
	}
	return nil
}

func runJobsStop(cmd *cobra.Command, args []string) error {
	ok, err := dbClient.MarkJobRunStopped(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("stop job run: %w", err)
	}
	if !ok {
		return fmt.Errorf("run %s is not currently running", args[0])
	}
	fmt.Printf("Requested stop for %s. The job halts at its next row boundary.\n", args[0])
	return nil
}

func runJobsSweep(cmd *cobra.Command, args []string) error {
	ledger := service.NewLedger(dbClient, logger)
	count, err := ledger.SweepStale(cmd.Context(), cfg.StaleAfter)
	if err != nil {
		return fmt.Errorf("sweep stale runs: %w", err)
	}
	fmt.Printf("Marked %d stale run(s) as failed (stale after %s).\n", count, cfg.StaleAfter)
	return nil
}

func runJobsWatch(cmd *cobra.Command, args []string) error {
	run, err := fetchRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return RunJobProgress(dbClient, run)
}

func fetchRun(ctx context.Context, id string) (*models.JobRun, error) {
	run, err := dbClient.GetJobRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("job run not found: %s", id)
	}
	return run, nil
}

// runCounts folds the per-job-type counters into a done/total pair. Enrichment
// runs count enriched rows, the narrow passes count processed rows; failures
// count toward progress either way.
func runCounts(run *models.JobRun) (done, total int) {
	r := run.Result
	if r == nil {
		return 0, 0
	}
	if r.EnrichedCount != nil {
		done += *r.EnrichedCount
	}
	if r.ProcessedCount != nil {
		done += *r.ProcessedCount
	}
	if r.TemplatesOK != nil {
		done += *r.TemplatesOK
	}
	if r.FailedCount != nil {
		done += *r.FailedCount
	}
	if r.TemplatesError != nil {
		done += *r.TemplatesError
	}
	if r.TotalCount != nil {
		total = *r.TotalCount
	}
	return done, total
}

func init() {
	jobsListCmd.Flags().StringVar(&jobsTypeFilter, "type", "", "filter by job type")
	jobsListCmd.Flags().IntVar(&jobsLimit, "limit", 20, "maximum runs to list")
	jobsCmd.AddCommand(jobsListCmd, jobsShowCmd, jobsStopCmd, jobsSweepCmd, jobsWatchCmd)
	rootCmd.AddCommand(jobsCmd)
}
