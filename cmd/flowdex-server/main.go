// Package main provides the flowdex admin server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flowdexhq/flowdex/internal/config"
	"github.com/flowdexhq/flowdex/internal/db"
	"github.com/flowdexhq/flowdex/internal/server"
	"github.com/flowdexhq/flowdex/internal/service"
)

// sweepInterval is how often the background staleness sweep runs. Stale runs
// can also be reaped on demand through the sweep endpoint or the CLI.
const sweepInterval = 10 * time.Minute

func main() {
	wipeDB := flag.Bool("wipe", false, "wipe all data from database on startup (testing only)")
	flag.Parse()

	cfg := config.Load()

	logger, closeLog := cfg.SetupLogger()
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("starting flowdex-server", "addr", cfg.ServerAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
	}, logger)
	cancel()
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = dbClient.InitSchema(ctx)
	cancel()
	if err != nil {
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	if *wipeDB || os.Getenv("FLOWDEX_WIPE_DB") == "true" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := dbClient.WipeData(ctx)
		cancel()
		if err != nil {
			logger.Error("failed to wipe database", "error", err)
			os.Exit(1)
		}
		logger.Warn("wiped all data on startup")
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepLoop(runCtx, service.NewLedger(dbClient, logger), cfg.StaleAfter, logger)

	if err := server.New(cfg, dbClient, logger).Run(runCtx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// sweepLoop periodically reclaims runs whose owning process died without
// finalizing its ledger entry.
func sweepLoop(ctx context.Context, ledger *service.Ledger, staleAfter time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			count, err := ledger.SweepStale(sweepCtx, staleAfter)
			cancel()
			if err != nil {
				logger.Warn("periodic stale sweep failed", "error", err)
				continue
			}
			if count > 0 {
				logger.Info("periodic stale sweep reclaimed runs", "count", count)
			}
		}
	}
}
