package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults target the stENSO staking contract on Ethereum mainnet.
const (
	DefaultBaseURL  = "https://api.etherscan.io/v2/api"
	DefaultChainID  = "1"
	DefaultContract = "0x22Ad2a46d317C5eDF6c01fea16d4399C912E9A01"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	APIKey    string
	BaseURL   string
	ChainID   string
	Contract  string
	FromBlock uint64
	PageDelay time.Duration
	Timeout   time.Duration
	OutDir    string
	RawLogs   string
	PGDSN     string
	TopN      int
	LogLevel  string
}

// Load merges config file, environment variables, and flags into Config.
// Environment keys use the TRACKER_ prefix, so the API key can come from
// TRACKER_API_KEY without touching the command line.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("base-url", DefaultBaseURL)
	v.SetDefault("chain-id", DefaultChainID)
	v.SetDefault("contract", DefaultContract)
	v.SetDefault("page-delay", 250*time.Millisecond)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("out-dir", "./data")
	v.SetDefault("top-n", 30)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		APIKey:    v.GetString("api-key"),
		BaseURL:   v.GetString("base-url"),
		ChainID:   v.GetString("chain-id"),
		Contract:  v.GetString("contract"),
		FromBlock: v.GetUint64("from-block"),
		PageDelay: v.GetDuration("page-delay"),
		Timeout:   v.GetDuration("timeout"),
		OutDir:    v.GetString("out-dir"),
		RawLogs:   v.GetString("raw-logs"),
		PGDSN:     v.GetString("pg-dsn"),
		TopN:      v.GetInt("top-n"),
		LogLevel:  v.GetString("log-level"),
	}

	return cfg, nil
}
