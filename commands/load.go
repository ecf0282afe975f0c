package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/penwyp/go-saw-monitor/internal/analyzer"
	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/data/store"
	"github.com/penwyp/go-saw-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-saw-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	loadNoExport bool
	loadRows     int
	loadSQLite   string
)

var loadCmd = &cobra.Command{
	Use:   "load <folder>",
	Short: "Merge the three logs of a dataset folder into the canonical table",
	Long: `Parses Corr.txt, registro_laser.txt and Velocidad.txt of the folder, merges them
on timestamp, drops instants where every signal is zero and writes the
canonical table to <base-dir>/datos_exportados.txt.

The folder is resolved against --base-dir unless it is an absolute path.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().BoolVar(&loadNoExport, "no-export", false,
		"Do not write the canonical table file")
	loadCmd.Flags().IntVar(&loadRows, "rows", 20,
		"Rows to print in table output (0 = all)")
	loadCmd.Flags().StringVar(&loadSQLite, "sqlite", "",
		"Also store the canonical table in this SQLite database")
}

func runLoad(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzer()
	if err != nil {
		return err
	}
	f, err := newFormatter(cmd)
	if err != nil {
		return err
	}

	folder := args[0]
	var (
		table *model.Table
		stats *analyzer.LoadStats
	)
	if loadNoExport {
		table, stats, err = a.Load(folder)
	} else {
		table, stats, err = a.LoadAndExport(folder)
	}
	if err != nil {
		if analyzer.IsLoadFailure(err) {
			return fmt.Errorf("failed to load dataset %s: %w", folder, err)
		}
		return err
	}
	stats.PrintFinalStats()

	if !loadNoExport {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s rows to %s\n", util.FormatCount(table.Len()), cfg.ExportPath())
	}
	if skipped := stats.Skipped(); skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %s malformed lines\n", util.FormatCount(skipped))
	}

	if loadSQLite != "" {
		label := filepath.Base(stats.Folder)
		err := exportSQLite(cmd.Context(), cmd, loadSQLite, func(ctx context.Context, e *store.SQLiteExporter) (string, error) {
			return e.ExportTable(ctx, label, store.KindCanonical, table)
		})
		if err != nil {
			return err
		}
	}

	return f.FormatTable(formatter.TableView{
		Title: fmt.Sprintf("Dataset %s", filepath.Base(stats.Folder)),
		Table: table,
		Limit: loadRows,
	})
}
