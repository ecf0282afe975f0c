package commands

import (
	"fmt"

	"github.com/penwyp/go-saw-monitor/internal/data/scanner"
	"github.com/penwyp/go-saw-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	foldersSearch string
	foldersLimit  int
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List the most recently modified dataset folders",
	Long: `Lists the sub-folders of the base directory, most recently modified first.
Each folder is expected to hold Corr.txt, registro_laser.txt and Velocidad.txt.`,
	Args: cobra.NoArgs,
	RunE: runFolders,
}

func init() {
	rootCmd.AddCommand(foldersCmd)

	foldersCmd.Flags().StringVar(&foldersSearch, "search", "",
		"Only list folders whose name contains this text (case-insensitive)")
	foldersCmd.Flags().IntVar(&foldersLimit, "limit", 0,
		"Maximum folders to list (default from folder_limit, 0 = unlimited)")
}

func runFolders(cmd *cobra.Command, args []string) error {
	limit := cfg.FolderLimit
	if cmd.Flags().Changed("limit") {
		limit = foldersLimit
	}

	folders, err := scanner.NewFolderScanner(cfg.BaseDir, limit).Recent(foldersSearch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(folders) == 0 {
		fmt.Fprintln(out, "No dataset folders found")
		return nil
	}

	width := 0
	for _, f := range folders {
		width = max(width, util.GetDisplayWidth(f.Name))
	}
	for i, f := range folders {
		fmt.Fprintf(out, "%2d. %s  %s\n", i+1, util.PadString(f.Name, width, true), f.ModTime.Format("2006-01-02 15:04:05"))
	}
	return nil
}
