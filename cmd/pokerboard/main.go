package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v4"

	"pokerboard/internal/backend"
	"pokerboard/internal/cli"
	"pokerboard/internal/config"
	"pokerboard/internal/leaderboard"
	"pokerboard/internal/log"
	"pokerboard/internal/services"
	"pokerboard/internal/storage"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	flags, usage, err := cli.ParseFlags(os.Args[1:])
	if errors.Is(err, ff.ErrHelp) {
		fmt.Fprintf(os.Stderr, "%s\n", usage)
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", usage)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if flags.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	cli.LoadEnvFile()

	cfg := config.Load()
	flags.Apply(cfg)

	logger := cli.SetupLogger(cfg)

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()
	ctx = log.NewContext(ctx, logger)

	if flags.History > 0 {
		if err := printHistory(ctx, logger, cfg, flags.History); err != nil {
			logger.Error("Failed to list runs", log.FieldError, err)
			os.Exit(1)
		}
		return
	}

	cli.MustValidate(logger, cfg)

	if err := run(ctx, logger, cfg, flags.DryRun); err != nil {
		logger.Error("Leaderboard run failed", log.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, cfg *config.Config, dryRun bool) error {
	logger.Info("Starting pokerboard",
		"version", version,
		log.FieldYear, cfg.TargetYear,
		log.FieldGroupID, cfg.SplitwiseGroupID,
		"offline", cfg.Offline,
		"dry_run", dryRun,
		"targets", cfg.ExportTargets,
	)

	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		return fmt.Errorf("backend config: %w", err)
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendConfig)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	defer func() {
		if result.Cleanup == nil {
			return
		}
		if err := result.Cleanup(); err != nil {
			logger.Warn("Cleanup failed", log.FieldError, err)
		}
	}()

	start := time.Now()
	out, err := result.Service.Run(ctx, services.RunRequest{
		GroupID: cfg.SplitwiseGroupID,
		Options: leaderboard.Options{
			TargetYear:      cfg.TargetYear,
			ExcludeKeywords: cfg.ExcludeKeywords,
			Workers:         cfg.ExtractWorkers,
		},
		Offline: cfg.Offline,
		DryRun:  dryRun,
	})
	if err != nil {
		return err
	}

	cli.PrintSummary(os.Stdout, out)
	logger.Debug("Run finished", log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

func printHistory(ctx context.Context, logger *log.Logger, cfg *config.Config, limit int) error {
	if cfg.SQLiteDBPath == "" {
		return errors.New("run history needs SQLITE_DB_PATH")
	}
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	runs, err := repo.ListRuns(ctx, cfg.TargetYear, cfg.SplitwiseGroupID, limit)
	if err != nil {
		return err
	}
	cli.PrintHistory(os.Stdout, runs)
	return nil
}
