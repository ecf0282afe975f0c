package commands

import (
	"context"
	"fmt"

	"github.com/penwyp/go-saw-monitor/internal/core/filter"
	"github.com/penwyp/go-saw-monitor/internal/data/store"
	"github.com/penwyp/go-saw-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-saw-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	filterShift  string
	filterFrom   string
	filterTo     string
	filterWood   string
	filterExport bool
	filterSQLite string
	filterRows   int
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter the canonical table by shift, time range and wood presence",
	Long: `Reads the canonical table written by load and keeps the rows matching every
given criterion. Criteria always apply to the whole canonical table.

Shifts:
  morning    06:00:00 - 12:00:00
  afternoon  12:00:00 - 18:00:00
  night      from 18:00:00, and before 06:00:00

--from and --to are HH:MM:SS and both ends are included. The range applies
only when both are given; a lone --from or --to is ignored.`,
	Args: cobra.NoArgs,
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringVar(&filterShift, "shift", "",
		"Shift (all, morning, afternoon, night)")
	filterCmd.Flags().StringVar(&filterFrom, "from", "",
		"Start of the time range (HH:MM:SS)")
	filterCmd.Flags().StringVar(&filterTo, "to", "",
		"End of the time range (HH:MM:SS)")
	filterCmd.Flags().StringVar(&filterWood, "wood", "",
		"Wood presence (0 or 1)")
	filterCmd.Flags().BoolVar(&filterExport, "export", false,
		"Write the filtered view to <base-dir>/datos_filtrados.txt")
	filterCmd.Flags().StringVar(&filterSQLite, "sqlite", "",
		"Also store the filtered view in this SQLite database")
	filterCmd.Flags().IntVar(&filterRows, "rows", 20,
		"Rows to print in table output (0 = all)")
}

func runFilter(cmd *cobra.Command, args []string) error {
	criteria, err := filter.Parse(filterShift, filterFrom, filterTo, filterWood)
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

	original, err := a.Canonical()
	if err != nil {
		return fmt.Errorf("no canonical table at %s (run load first): %w", cfg.ExportPath(), err)
	}

	session := filter.NewSession(original)
	view, err := session.Apply(criteria)
	if err != nil {
		return err
	}
	util.LogInfof("Filter %s kept %d of %d rows", criteria, view.Len(), original.Len())

	title := "Filtered view"
	if !criteria.IsZero() {
		title = fmt.Sprintf("Filtered view (%s)", criteria)
	}
	if err := f.FormatTable(formatter.TableView{Title: title, Table: view, Limit: filterRows}); err != nil {
		return err
	}

	if filterExport {
		if err := store.WriteTSV(cfg.FilteredPath(), view); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s rows to %s\n", util.FormatCount(view.Len()), cfg.FilteredPath())
	}

	if filterSQLite != "" {
		label := criteria.String()
		if label == "" {
			label = "all"
		}
		return exportSQLite(cmd.Context(), cmd, filterSQLite, func(ctx context.Context, e *store.SQLiteExporter) (string, error) {
			return e.ExportTable(ctx, label, store.KindFiltered, view)
		})
	}
	return nil
}
