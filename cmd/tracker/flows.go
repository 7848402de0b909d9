package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stakeScope/internal/storage"
	"stakeScope/internal/storage/postgres"
)

func runFlows(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := buildRunner(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("flows start",
		zap.String("contract", cfg.Contract),
		zap.String("chain_id", cfg.ChainID),
		zap.Uint64("from_block", cfg.FromBlock),
	)

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	outPath := filepath.Join(cfg.OutDir, "staking_events.csv")
	if err := storage.WriteCSV(outPath, report.Flows); err != nil {
		return err
	}
	logger.Info("flow series written", zap.String("path", outPath), zap.Int("rows", len(report.Flows)))

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.UpsertFlowSamples(ctx, report.Flows); err != nil {
			return fmt.Errorf("store flows: %w", err)
		}
		if err := store.SaveRun(ctx, report.Totals); err != nil {
			return fmt.Errorf("store run totals: %w", err)
		}
	}

	totals := report.Totals
	logger.Info("flow totals",
		zap.String("total_deposited", totals.TotalDeposited.StringFixed(2)),
		zap.String("total_withdrawn", totals.TotalWithdrawn.StringFixed(2)),
		zap.String("net_staked", totals.NetStaked.StringFixed(2)),
		zap.String("rewards_issued", totals.TotalRewardsIssued.StringFixed(2)),
		zap.String("rewards_withdrawn", totals.TotalRewardsWithdrawn.StringFixed(2)),
		zap.Int("deposits", totals.NumDeposits),
		zap.Int("withdrawals", totals.NumWithdrawals),
	)

	return nil
}
