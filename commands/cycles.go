package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/penwyp/go-saw-monitor/internal/core/cycle"
	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/data/store"
	"github.com/penwyp/go-saw-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-saw-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	cyclesDetail int
	cyclesWindow bool
	cyclesExport bool
	cyclesPolicy string
	cyclesSQLite string
	cyclesRows   int
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Segment the canonical table into cutting cycles",
	Long: `Reads the canonical table written by load and reports every maximal run of
rows with wood present: start and end time, duration, current total, max and
min, temperature max and min, and the average speed in m/s.

Policies:
  close-on-transition-only  a run still open at the end of the table is dropped
  close-at-end              a run still open at the end of the table is reported

With --detail N only cycle N is shown. --window adds the rows between its start
and end time, and --export writes them to <base-dir>/datos_ciclo_N.txt.`,
	Args: cobra.NoArgs,
	RunE: runCycles,
}

func init() {
	rootCmd.AddCommand(cyclesCmd)

	cyclesCmd.Flags().IntVar(&cyclesDetail, "detail", 0,
		"Show the detail of cycle N (1-based)")
	cyclesCmd.Flags().BoolVar(&cyclesWindow, "window", false,
		"With --detail, also show the rows of the cycle window")
	cyclesCmd.Flags().BoolVar(&cyclesExport, "export", false,
		"With --window, write the window rows to <base-dir>/datos_ciclo_N.txt")
	cyclesCmd.Flags().StringVar(&cyclesPolicy, "policy", "",
		"Cycle policy (close-on-transition-only, close-at-end); default from cycle_policy")
	cyclesCmd.Flags().StringVar(&cyclesSQLite, "sqlite", "",
		"Also store the cycles, or the window rows with --window, in this SQLite database")
	cyclesCmd.Flags().IntVar(&cyclesRows, "rows", 20,
		"Window rows to print in table output (0 = all)")
}

func runCycles(cmd *cobra.Command, args []string) error {
	if cyclesWindow && cyclesDetail == 0 {
		return fmt.Errorf("--window requires --detail")
	}
	if cyclesExport && !cyclesWindow {
		return fmt.Errorf("--export requires --window")
	}

	name := cyclesPolicy
	if name == "" {
		name = cfg.CyclePolicy
	}
	policy, err := cycle.ParsePolicy(name)
	if err != nil {
		return err
	}

	a, err := newAnalyzer()
	if err != nil {
		return err
	}
	f, err := newFormatter(cmd)
	if err != nil {
		return err
	}

	cycles, table, err := a.Cycles(policy)
	if err != nil {
		if errors.Is(err, model.ErrNoData) {
			return fmt.Errorf("no canonical table at %s (run load first): %w", cfg.ExportPath(), err)
		}
		return err
	}
	util.LogInfof("Detected %d cycles in %d rows (policy %s)", len(cycles), table.Len(), policy)

	if cyclesDetail == 0 {
		if err := f.FormatCycles(formatter.NewCycleReport(cfg.ExportPath(), policy, cycles, table)); err != nil {
			return err
		}
		if cyclesSQLite != "" && len(cycles) > 0 {
			return exportSQLite(cmd.Context(), cmd, cyclesSQLite, func(ctx context.Context, e *store.SQLiteExporter) (string, error) {
				return e.ExportCycles(ctx, string(policy), cycles)
			})
		}
		return nil
	}

	if len(cycles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No cycles found")
		return nil
	}
	return runCycleDetail(cmd, f, cycles, table)
}

func runCycleDetail(cmd *cobra.Command, f formatter.Formatter, cycles []model.Cycle, table *model.Table) error {
	c, err := cycle.Select(cycles, cyclesDetail)
	if err != nil {
		return err
	}
	formatter.WriteDetail(cmd.OutOrStdout(), cycle.Describe(c, table))

	if !cyclesWindow {
		if cyclesSQLite != "" {
			return exportSQLite(cmd.Context(), cmd, cyclesSQLite, func(ctx context.Context, e *store.SQLiteExporter) (string, error) {
				return e.ExportCycles(ctx, fmt.Sprintf("cycle %d", c.Index), []model.Cycle{c})
			})
		}
		return nil
	}

	window := cycle.Window(c, table)
	fmt.Fprintln(cmd.OutOrStdout())
	if err := f.FormatTable(formatter.TableView{
		Title: fmt.Sprintf("Cycle %d window %s-%s", c.Index, c.StartTime, c.EndTime),
		Table: window,
		Limit: cyclesRows,
	}); err != nil {
		return err
	}

	if cyclesExport {
		path := cfg.CyclePath(c.Index)
		if err := store.WriteTSV(path, window); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s rows to %s\n", util.FormatCount(window.Len()), path)
	}

	if cyclesSQLite != "" {
		return exportSQLite(cmd.Context(), cmd, cyclesSQLite, func(ctx context.Context, e *store.SQLiteExporter) (string, error) {
			return e.ExportTable(ctx, fmt.Sprintf("cycle %d", c.Index), store.KindWindow, window)
		})
	}
	return nil
}
