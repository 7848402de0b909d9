package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
	"stakeScope/internal/storage/postgres"
	"stakeScope/internal/view"
)

func runStakers(cmd *cobra.Command, _ []string) error {
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

	logger.Info("stakers start",
		zap.String("contract", cfg.Contract),
		zap.String("chain_id", cfg.ChainID),
		zap.Uint64("from_block", cfg.FromBlock),
	)

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	now := uint64(time.Now().UTC().Unix())

	positionRows := view.BuildPositionRows(report.Positions, now)
	positionsPath := filepath.Join(cfg.OutDir, "positions.csv")
	if err := storage.WriteCSV(positionsPath, positionRows); err != nil {
		return err
	}
	logger.Info("positions written", zap.String("path", positionsPath), zap.Int("active", len(positionRows)))

	ownerRows := view.BuildOwnerRows(report.Summaries, now)
	stakersPath := filepath.Join(cfg.OutDir, "top_stakers.csv")
	if err := storage.WriteCSV(stakersPath, ownerRows); err != nil {
		return err
	}
	logger.Info("top stakers written", zap.String("path", stakersPath), zap.Int("owners", len(ownerRows)))

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.UpsertPositions(ctx, report.Positions.All()); err != nil {
			return fmt.Errorf("store positions: %w", err)
		}
		if err := store.ReplaceOwnerSummaries(ctx, report.Summaries); err != nil {
			return fmt.Errorf("store owner summaries: %w", err)
		}
		if err := store.SaveRun(ctx, report.Totals); err != nil {
			return fmt.Errorf("store run totals: %w", err)
		}
	}

	printStakersTable(report.Summaries, cfg.TopN)
	return nil
}

func printStakersTable(summaries []model.OwnerSummary, topN int) {
	grand := decimal.Zero
	for _, summary := range summaries {
		grand = grand.Add(summary.TotalStaked)
	}

	fmt.Printf("TOP STAKERS: %d unique addresses, %s total staked\n",
		len(summaries), grand.StringFixed(2))
	fmt.Printf("%4s  %-44s %14s %8s %4s\n", "Rank", "Owner", "Staked", "Share", "Pos")

	if topN > len(summaries) || topN <= 0 {
		topN = len(summaries)
	}
	for _, summary := range summaries[:topN] {
		fmt.Printf("%4d  %-44s %14s %7s%% %4d\n",
			summary.Rank,
			summary.Owner,
			summary.TotalStaked.StringFixed(2),
			summary.Share.StringFixed(2),
			summary.NumPositions,
		)
	}

	if len(summaries) > topN {
		rest := decimal.Zero
		for _, summary := range summaries[topN:] {
			rest = rest.Add(summary.TotalStaked)
		}
		share := decimal.Zero
		if grand.IsPositive() {
			share = rest.Mul(decimal.NewFromInt(100)).Div(grand)
		}
		fmt.Printf("%4s  %-44s %14s %7s%%\n", "",
			fmt.Sprintf("... %d more stakers", len(summaries)-topN),
			rest.StringFixed(2), share.StringFixed(2))
	}
}
