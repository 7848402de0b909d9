package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"stakeScope/internal/config"
	"stakeScope/internal/scan"
	"stakeScope/internal/storage"
	"stakeScope/internal/track"
)

func main() {
	root := &cobra.Command{
		Use:          "tracker",
		Short:        "stENSO staking event tracker",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	flowsCmd := &cobra.Command{
		Use:   "flows",
		Short: "Reconstruct staking flows and export the net-flow series",
		RunE:  runFlows,
	}
	addCommonFlags(flowsCmd)
	root.AddCommand(flowsCmd)

	stakersCmd := &cobra.Command{
		Use:   "stakers",
		Short: "Reconstruct positions and rank stakers by net staked amount",
		RunE:  runStakers,
	}
	addCommonFlags(stakersCmd)
	stakersCmd.Flags().Int("top-n", 30, "rows to print in the console table")
	root.AddCommand(stakersCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("api-key", "", "log API key (or TRACKER_API_KEY)")
	cmd.Flags().String("base-url", config.DefaultBaseURL, "log API base URL")
	cmd.Flags().String("chain-id", config.DefaultChainID, "chain id")
	cmd.Flags().String("contract", config.DefaultContract, "staking contract address")
	cmd.Flags().Uint64("from-block", 0, "start block (inclusive)")
	cmd.Flags().Duration("page-delay", 250*time.Millisecond, "delay between log pages")
	cmd.Flags().Duration("timeout", 30*time.Second, "per-request timeout")
	cmd.Flags().String("out-dir", "./data", "output directory for CSV reports")
	cmd.Flags().String("raw-logs", "", "optional JSONL dump of raw fetched logs")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for persistence")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func loadConfig(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}

	if cfg.APIKey == "" {
		return config.Config{}, nil, fmt.Errorf("api key is required (flag --api-key or TRACKER_API_KEY)")
	}

	return cfg, logger, nil
}

func buildRunner(cfg config.Config, logger *zap.Logger) (*track.Runner, error) {
	client, err := scan.NewClient(scan.ClientConfig{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		ChainID:    cfg.ChainID,
		Contract:   cfg.Contract,
		StartBlock: cfg.FromBlock,
		PageDelay:  cfg.PageDelay,
		Timeout:    cfg.Timeout,
	}, nil, logger)
	if err != nil {
		return nil, err
	}

	var rawSink storage.RawLogSink
	if cfg.RawLogs != "" {
		rawSink = storage.NewJSONLSink(cfg.RawLogs)
	}

	return track.NewRunner(client, rawSink, logger), nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
