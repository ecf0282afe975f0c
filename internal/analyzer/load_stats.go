package analyzer

import (
	"time"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/util"
)

// SourceStats records how one log was read.
type SourceStats struct {
	Kind    model.SourceKind
	Path    string
	Rows    int
	Skipped int
}

// LoadStats holds statistics for one pipeline run.
type LoadStats struct {
	Folder     string
	Sources    []SourceStats
	Duplicates int
	Timestamps int
	Idle       int
	Rows       int
	Ordering   string

	ParseDuration     time.Duration
	MergeDuration     time.Duration
	NormalizeDuration time.Duration
	ExportDuration    time.Duration
	TotalDuration     time.Duration
}

// Skipped returns the malformed lines dropped across every source.
func (s *LoadStats) Skipped() int {
	total := 0
	for _, src := range s.Sources {
		total += src.Skipped
	}
	return total
}

// InputRows returns the rows parsed across every source.
func (s *LoadStats) InputRows() int {
	total := 0
	for _, src := range s.Sources {
		total += src.Rows
	}
	return total
}

// PrintFinalStats logs a summary of the run.
func (s *LoadStats) PrintFinalStats() {
	util.LogInfof("Load complete: %s, %s input rows -> %s canonical rows (%d skipped, %d duplicates, %d idle)",
		s.Folder, util.FormatCount(s.InputRows()), util.FormatCount(s.Rows), s.Skipped(), s.Duplicates, s.Idle)
	for _, src := range s.Sources {
		util.LogDebugf("  %s: %s, %d rows, %d skipped", src.Kind, src.Path, src.Rows, src.Skipped)
	}
	util.LogDebugf("Total duration: %v (parse:%v merge:%v normalize:%v export:%v)",
		s.TotalDuration, s.ParseDuration, s.MergeDuration, s.NormalizeDuration, s.ExportDuration)
}
