package commands

import (
	"context"
	"fmt"

	"github.com/penwyp/go-saw-monitor/internal/analyzer"
	"github.com/penwyp/go-saw-monitor/internal/config"
	"github.com/penwyp/go-saw-monitor/internal/data/store"
	"github.com/penwyp/go-saw-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-saw-monitor/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Logging related
	debug bool

	// Configuration
	configFile string
	baseDir    string

	// Output related
	outputFormat string

	// cfg is the effective configuration, loaded before every command runs.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "go-saw-monitor [command]",
		Short: "Sawmill sensor log analysis tool",
		Long: `go-saw-monitor merges the current, laser and speed logs of a sawmill dataset
folder into one per-second table, filters it by shift, time range and wood
presence, and segments it into cutting cycles.

Examples:
  go-saw-monitor folders                              # List the 7 most recent dataset folders
  go-saw-monitor --base-dir /data/sierra load 2024-03-01
  go-saw-monitor filter --shift morning --wood 1      # Rows of the morning shift with wood present
  go-saw-monitor filter --from 09:00:00 --to 09:30:00 --export
  go-saw-monitor cycles -o summary                    # Cycle report of the last loaded dataset
  go-saw-monitor cycles --detail 2 --window --export  # Detail and window table of cycle 2
  go-saw-monitor watch 2024-03-01                     # Reload whenever the logs change`,
		SilenceUsage: true,
	}
)

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle: loadConfig refers to rootCmd.
	rootCmd.PersistentPreRunE = loadConfig

	// Configuration
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Config file (default ~/.go-saw-monitor/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "",
		"Directory holding the dataset folders and exported files")

	// Output configuration
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "",
		"Output format (table, csv, json, summary)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

// loadConfig resolves the configuration from defaults, file, environment and
// flags, then initializes logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	v := viper.New()
	if err := v.BindPFlag("base_dir", rootCmd.PersistentFlags().Lookup("base-dir")); err != nil {
		return err
	}
	if err := v.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")); err != nil {
		return err
	}

	path := configFile
	if path != "" {
		path = config.ExpandPath(path)
	}
	loaded, err := config.Load(v, path)
	if err != nil {
		return err
	}

	// Determine log level based on debug flag
	if debug {
		loaded.LogLevel = util.DebugLevel
	}
	if err := util.InitLogger(loaded.LogLevel, loaded.LogFile, debug); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg = loaded
	util.LogDebugf("Configuration loaded: base_dir=%s output=%s sort_order=%s cycle_policy=%s",
		cfg.BaseDir, cfg.Output, cfg.SortOrder, cfg.CyclePolicy)
	return nil
}

func Execute() error {
	defer util.SyncLogger()
	return rootCmd.Execute()
}

// Helper functions

func newAnalyzer() (*analyzer.Analyzer, error) {
	return analyzer.New(cfg)
}

func newFormatter(cmd *cobra.Command) (formatter.Formatter, error) {
	return formatter.New(cfg.Output, cmd.OutOrStdout())
}

// exportSQLite opens the database at path, runs export and reports the batch id.
func exportSQLite(ctx context.Context, cmd *cobra.Command, path string, export func(context.Context, *store.SQLiteExporter) (string, error)) error {
	path = config.ExpandPath(path)
	db, err := store.OpenSQLite(path)
	if err != nil {
		return err
	}
	exporter := store.NewSQLiteExporter(db)
	defer exporter.Close()

	id, err := export(ctx, exporter)
	if err != nil {
		return fmt.Errorf("sqlite export to %s: %w", path, err)
	}
	util.LogInfof("Stored export %s in %s", id, path)
	fmt.Fprintf(cmd.ErrOrStderr(), "Stored export %s in %s\n", id, path)
	return nil
}
