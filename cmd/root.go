// Package cmd implements the calburn CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/calburn/internal/config"
	"github.com/theirongolddev/calburn/internal/ledger"
	"github.com/theirongolddev/calburn/internal/log"
	"github.com/theirongolddev/calburn/internal/model"
	"github.com/theirongolddev/calburn/internal/pipeline"
	"github.com/theirongolddev/calburn/internal/store"
)

var (
	flagDBPath   string
	flagTimezone string
	flagVerbose  bool

	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:           "calburn",
	Short:         "Single-user calorie tracker",
	Long:          "Log meals, track daily calorie totals and get warned when today goes over your goal.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runToday,

	PersistentPreRunE: loadConfig,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Database path (default "+config.DefaultDBPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagTimezone, "tz", "", "Timezone for calendar days, e.g. Europe/Berlin")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
}

// loadConfig reads .env, the config file and flag overrides, in that order.
func loadConfig(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		cfg.General.DBPath = flagDBPath
	}
	if flagTimezone != "" {
		cfg.General.Timezone = flagTimezone
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config:\n%w", err)
	}

	level, _ := log.ParseLevel(cfg.Log.Level)
	lc := log.DefaultConfig()
	lc.Level = level
	logger = log.New(lc)
	log.SetDefault(logger)
	return nil
}

// openTracker opens the store and wires a tracker over it. The returned
// close func must be called when the command is done.
func openTracker(ctx context.Context) (*pipeline.Tracker, func(), error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	s, err := store.Open(cfg.DatabasePath(), logger)
	if err != nil {
		return nil, nil, err
	}

	l := ledger.New(s, ledger.WithLocation(loc), ledger.WithLogger(logger))
	agg, err := pipeline.NewAggregator(ctx, l, s, logger)
	if err != nil {
		_ = s.Close()
		return nil, nil, err
	}

	tr := pipeline.NewTracker(l, agg, pipeline.WithTrackerLogger(logger))
	return tr, func() { _ = s.Close() }, nil
}

// commandContext bounds one-shot commands so a locked database cannot hang
// the terminal.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// parseDateFlag parses a YYYY-MM-DD flag, falling back to def when empty.
func parseDateFlag(name, value string, def time.Time, tr *pipeline.Tracker) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	d, err := model.ParseDay(value, tr.Ledger.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}
