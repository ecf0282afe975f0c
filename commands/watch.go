package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/data/watcher"
	"github.com/penwyp/go-saw-monitor/internal/util"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <folder>",
	Short: "Reload a dataset folder whenever its logs change",
	Long: `Loads the dataset folder like load, then keeps watching Corr.txt,
registro_laser.txt and Velocidad.txt. Once the logs have been quiet for the
debounce period and their content changed, the canonical table is rebuilt and
exported again. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"Quiet period after the last write before reloading")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newAnalyzer()
	if err != nil {
		return err
	}

	folder := args[0]
	dir := a.FolderPath(folder)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: dataset folder %s not found", model.ErrLoadFailed, dir)
	}

	paths := make([]string, 0, len(model.SourceKinds))
	for _, kind := range model.SourceKinds {
		paths = append(paths, filepath.Join(dir, cfg.Sources.Get(kind).File))
	}

	errOut := cmd.ErrOrStderr()
	reload := func() error {
		table, stats, err := a.LoadAndExport(folder)
		if err != nil {
			fmt.Fprintf(errOut, "%s load failed: %v\n", time.Now().Format("15:04:05"), err)
			return err
		}
		stats.PrintFinalStats()
		fmt.Fprintf(errOut, "%s exported %s rows to %s\n",
			time.Now().Format("15:04:05"), util.FormatCount(table.Len()), cfg.ExportPath())
		return nil
	}

	// The logs may still be incomplete; keep watching after a failed first load.
	if err := reload(); err != nil {
		util.LogWarnf("Initial load of %s failed: %v", dir, err)
	}

	w, err := watcher.NewDatasetWatcher(paths, watchDebounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	util.LogInfof("Watching %s (debounce %v)", dir, watchDebounce)
	fmt.Fprintf(errOut, "Watching %s, press Ctrl+C to stop\n", dir)

	err = w.Run(ctx, func(change watcher.Change) error {
		util.LogInfof("Dataset changed: %v", change.Paths)
		return reload()
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
