package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ValueSentinel/internal/collector"
	"ValueSentinel/internal/config"
	"ValueSentinel/internal/logger"
	"ValueSentinel/internal/model"
	"ValueSentinel/internal/ranking"
	"ValueSentinel/internal/store"
	"ValueSentinel/internal/strategy"
)

var cfgPath string

// memoryPath as database.sqlite_path selects the in-memory store.
const memoryPath = ":memory:"

var rootCmd = &cobra.Command{
	Use:           "valuesentinel",
	Short:         "Sector-relative value-stock scoring and ranking",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultPath, "config file")

	rootCmd.AddCommand(serveCmd, rankCmd, analyzeCmd, collectCmd, importCmd, versionCmd)
}

// app holds the wired components shared by the subcommands.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store store.Store
	svc   *ranking.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Pretty:     cfg.Log.Pretty,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	logger.SetGlobalLogger(log)

	scoring, err := cfg.BuildScoring()
	if err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}

	var st store.Store
	if cfg.Database.SQLitePath != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		sqlite, err := store.NewSQLiteStore(cfg.Database.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		st = sqlite
	} else {
		log.Warn().Msg("In-memory store configured, nothing is persisted")
		st = store.NewMemoryStore()
	}

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "mock":
		fetcher = &collector.MockFetcher{Price: 1000}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Suffix)
	}
	log.Info().Str("source", fetcher.Name()).Msg("Data source configured")

	engine := strategy.NewEngine(scoring, cfg.Ranking.Workers, log)
	col := collector.NewCollector(fetcher, log)

	return &app{
		cfg:   cfg,
		log:   log,
		store: st,
		svc:   ranking.NewService(st, engine, col, log),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error().Err(err).Msg("Close store")
	}
}

func horizonFlag(cmd *cobra.Command) {
	cmd.Flags().String("horizon", string(model.LongTerm), "investment horizon: mid_term or long_term")
}

func parseHorizonFlag(cmd *cobra.Command) (model.Horizon, error) {
	raw, err := cmd.Flags().GetString("horizon")
	if err != nil {
		return "", err
	}
	return model.ParseHorizon(raw)
}
