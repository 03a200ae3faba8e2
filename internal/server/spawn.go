package server

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/flowdexhq/flowdex/internal/models"
)

// runIDEnv hands the pre-created ledger entry to the spawned job so it adopts
// the entry instead of creating its own.
const runIDEnv = "FLOWDEX_RUN_ID"

// Spawner launches job processes. Each triggered run is a separate process of
// the CLI binary, so a crashing job cannot take the admin server down and the
// operator can run the same commands by hand.
type Spawner struct {
	binary string
	logger *slog.Logger
}

// NewSpawner creates a spawner for the given binary.
func NewSpawner(binary string, logger *slog.Logger) *Spawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spawner{binary: binary, logger: logger}
}

// jobCommands maps spawnable job types to CLI subcommands.
var jobCommands = map[string]string{
	models.JobTypeEnrichment:      "enrich",
	models.JobTypeTop2:            "top2",
	models.JobTypeServiceableName: "name",
}

// Spawn starts the job process detached and returns once it is running.
// The child's exit is logged in the background; its outcome lands in the
// ledger through the child's own finalize write.
func (sp *Spawner) Spawn(jobType, runID string, opts jobOptions) error {
	subcommand, ok := jobCommands[jobType]
	if !ok {
		return fmt.Errorf("job type %q is not spawnable", jobType)
	}

	args := []string{subcommand, "--yes"}
	if opts.BatchSize > 0 {
		args = append(args, "--batch-size", strconv.Itoa(opts.BatchSize))
	}
	if opts.Limit > 0 {
		args = append(args, "--limit", strconv.Itoa(opts.Limit))
	}
	if opts.UseAI != nil {
		if *opts.UseAI {
			args = append(args, "--use-ai")
		} else {
			args = append(args, "--no-ai")
		}
	}
	if opts.Refresh {
		args = append(args, "--refresh")
	}
	if opts.SkipExisting != nil && !*opts.SkipExisting {
		args = append(args, "--no-skip-existing")
	}

	cmd := exec.Command(sp.binary, args...)
	cmd.Env = append(os.Environ(), runIDEnv+"="+runID)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", sp.binary, err)
	}

	sp.logger.Info("spawned job process",
		"job_type", jobType, "run_id", runID, "pid", cmd.Process.Pid, "args", args)

	go func() {
		if err := cmd.Wait(); err != nil {
			sp.logger.Warn("job process exited with error",
				"job_type", jobType, "run_id", runID, "error", err)
			return
		}
		sp.logger.Info("job process exited", "job_type", jobType, "run_id", runID)
	}()

	return nil
}
