// Package cmd implements the fire CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rpgo/fire-engine/internal/cache"
	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/config"
	"github.com/rpgo/fire-engine/internal/logging"
	"github.com/rpgo/fire-engine/internal/output"
	"github.com/rpgo/fire-engine/internal/service"
	"github.com/rpgo/fire-engine/internal/store"
)

var (
	flagSettings  string
	flagLogLevel  string
	flagData      string
	flagSQLite    string
	flagDataset   string
	flagFormat    string
	flagOutputDir string
	flagQuiet     bool
)

// Loaded once per invocation by the persistent pre-run hook.
var (
	settings config.Settings
	logger   zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fire",
	Short: "FIRE projection and historical backtest engine",
	Long: "Project a household's path to financial independence, compute target and coast numbers,\n" +
		"and backtest a retirement plan against every historical sequence of returns.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "fire.toml", "Settings file (TOML); defaults apply when missing")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "Historical returns CSV (overrides settings)")
	rootCmd.PersistentFlags().StringVar(&flagSQLite, "sqlite", "", "SQLite series store (overrides settings, wins over CSV)")
	rootCmd.PersistentFlags().StringVar(&flagDataset, "dataset", store.DefaultDataset, "Dataset name inside the SQLite store")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "console", "Output format: "+fmt.Sprint(output.AvailableFormatterNames()))
	rootCmd.PersistentFlags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Write the report to a timestamped file in this directory instead of stdout")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	settings, err = config.LoadSettings(flagSettings)
	if err != nil {
		return err
	}
	if flagData != "" {
		settings.Data.CSVPath = flagData
	}
	if flagSQLite != "" {
		settings.Data.SQLitePath = flagSQLite
	}

	level := settings.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagQuiet {
		level = "warn"
	}
	logger, err = logging.New(cmd.ErrOrStderr(), level, settings.Log.Pretty)
	return err
}

// loadSeries reads the historical series from SQLite when configured, otherwise from CSV.
func loadSeries(ctx context.Context) (*calculation.Series, error) {
	if path := settings.Data.SQLitePath; path != "" {
		st, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		series, err := st.LoadSeries(ctx, flagDataset)
		if err != nil {
			return nil, fmt.Errorf("loading dataset %q from %s: %w", flagDataset, path, err)
		}
		logger.Debug().Str("sqlite", path).Str("dataset", flagDataset).Msg("series loaded")
		return series, nil
	}
	series, err := calculation.LoadSeriesCSV(settings.Data.CSVPath)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("csv", settings.Data.CSVPath).Int("years", series.Len()).Msg("series loaded")
	return series, nil
}

// newCache connects to Redis when an address is configured and falls back to
// an in-process cache when it is unreachable.
func newCache(ctx context.Context) cache.ResultCache {
	c := settings.Cache
	if c.RedisAddr == "" {
		return cache.NewMemoryCache(256)
	}
	rc := cache.NewRedisCache(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}, "fire:")
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Str("addr", c.RedisAddr).Msg("redis unavailable, using in-memory cache")
		_ = rc.Close()
		return cache.NewMemoryCache(256)
	}
	return rc
}

// newService wires an engine over series (nil for projection-only commands).
func newService(ctx context.Context, series *calculation.Series) (*service.Service, func()) {
	engine := calculation.NewEngine(series)
	engine.SetLogger(logging.NewAdapter(logger, "engine"))
	rc := newCache(ctx)
	svc := service.New(engine, service.Options{
		Cache:    rc,
		CacheTTL: settings.Cache.TTL(),
		Defaults: settings.Defaults,
		Logger:   logging.NewAdapter(logger, "service"),
	})
	return svc, func() { _ = rc.Close() }
}

// emit renders the report to stdout, or to files when --output-dir is set.
func emit(cmd *cobra.Command, r *output.Report) error {
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}
	if flagOutputDir == "" {
		return output.Render(cmd.OutOrStdout(), r, flagFormat)
	}
	if err := os.MkdirAll(flagOutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	paths, err := output.GenerateReport(r, flagFormat, flagOutputDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "  Report written to %s\n", p)
	}
	return nil
}

func parseAsOf(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid --as-of %q (want YYYY-MM-DD): %w", s, err)
	}
	return &t, nil
}
