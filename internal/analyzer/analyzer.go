package analyzer

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/penwyp/go-saw-monitor/internal/config"
	"github.com/penwyp/go-saw-monitor/internal/core/cycle"
	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/data/merger"
	"github.com/penwyp/go-saw-monitor/internal/data/normalizer"
	"github.com/penwyp/go-saw-monitor/internal/data/parser"
	"github.com/penwyp/go-saw-monitor/internal/data/scanner"
	"github.com/penwyp/go-saw-monitor/internal/data/store"
	"github.com/penwyp/go-saw-monitor/internal/util"
)

// Analyzer runs the ingestion pipeline and reads back its output.
type Analyzer struct {
	config   *config.Config
	parser   *parser.Parser
	ordering merger.Ordering
	policy   cycle.Policy
}

// New creates an Analyzer from a validated configuration.
func New(cfg *config.Config) (*Analyzer, error) {
	ordering, err := merger.OrderingByName(cfg.SortOrder)
	if err != nil {
		return nil, err
	}
	policy, err := cycle.ParsePolicy(cfg.CyclePolicy)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		config:   cfg,
		parser:   parser.NewParser(cfg.DateLayouts...),
		ordering: ordering,
		policy:   policy,
	}, nil
}

// Config returns the configuration the analyzer was built with.
func (a *Analyzer) Config() *config.Config {
	return a.config
}

// FolderPath resolves a folder name against the base directory. Absolute
// paths are returned unchanged.
func (a *Analyzer) FolderPath(folder string) string {
	if filepath.IsAbs(folder) {
		return folder
	}
	return filepath.Join(a.config.BaseDir, folder)
}

// Load parses the three logs of folder and returns the canonical table.
// Failures to read a log wrap model.ErrLoadFailed; a load in which every
// instant is idle yields model.ErrNoData.
func (a *Analyzer) Load(folder string) (*model.Table, *LoadStats, error) {
	startTime := time.Now()
	dir := a.FolderPath(folder)
	stats := &LoadStats{Folder: dir, Ordering: a.ordering.Name()}
	util.LogInfof("Loading dataset %s", dir)

	dataset, err := scanner.ResolveDataset(dir, a.config.Sources)
	if err != nil {
		return nil, stats, err
	}

	// Phase 1: Parse logs
	parseStart := time.Now()
	sources := make([]merger.Source, 0, len(model.SourceKinds))
	for _, kind := range model.SourceKinds {
		srcCfg := a.config.Sources.Get(kind)
		table, err := a.parser.ParseFile(dataset.Path(kind), parser.Options{
			DateColumn:  srcCfg.DateColumn,
			TimeColumn:  srcCfg.TimeColumn,
			Numeric:     merger.NumericColumns(srcCfg.Fields),
			DateLayouts: a.config.DateLayouts,
		})
		if err != nil {
			util.LogWarnf("Failed to parse %s log: %v", kind, err)
			return nil, stats, err
		}
		src, err := merger.Bind(kind, table, srcCfg.Fields)
		if err != nil {
			return nil, stats, err
		}
		sources = append(sources, src)
		stats.Sources = append(stats.Sources, SourceStats{Kind: kind, Path: table.Path, Rows: table.Len(), Skipped: table.Skipped})
	}
	stats.ParseDuration = time.Since(parseStart)
	util.LogDebugf("Phase 1 - Parse duration: %v", stats.ParseDuration)

	// Phase 2: Merge
	mergeStart := time.Now()
	records, mergeStats := merger.Merge(sources, a.ordering)
	stats.Duplicates = mergeStats.Duplicates
	stats.Timestamps = mergeStats.Timestamps
	stats.Idle = mergeStats.Idle
	stats.MergeDuration = time.Since(mergeStart)
	util.LogDebugf("Phase 2 - Merge duration: %v, %d instants, %d kept", stats.MergeDuration, stats.Timestamps, len(records))

	// Phase 3: Normalize
	normalizeStart := time.Now()
	table := normalizer.Normalize(records)
	stats.Rows = table.Len()
	stats.NormalizeDuration = time.Since(normalizeStart)
	util.LogDebugf("Phase 3 - Normalize duration: %v", stats.NormalizeDuration)

	stats.TotalDuration = time.Since(startTime)
	if table.IsEmpty() {
		return nil, stats, fmt.Errorf("%s: no active rows: %w", dir, model.ErrNoData)
	}
	return table, stats, nil
}

// LoadAndExport runs Load and persists the canonical table to the export file.
func (a *Analyzer) LoadAndExport(folder string) (*model.Table, *LoadStats, error) {
	table, stats, err := a.Load(folder)
	if err != nil {
		return nil, stats, err
	}

	exportStart := time.Now()
	if err := store.WriteTSV(a.config.ExportPath(), table); err != nil {
		return nil, stats, fmt.Errorf("failed to export canonical table: %w", err)
	}
	stats.ExportDuration = time.Since(exportStart)
	stats.TotalDuration += stats.ExportDuration
	util.LogDebugf("Phase 4 - Export duration: %v, %s", stats.ExportDuration, a.config.ExportPath())

	return table, stats, nil
}

// Canonical reads the persisted canonical table. A missing or empty file
// yields model.ErrNoData.
func (a *Analyzer) Canonical() (*model.Table, error) {
	return store.ReadTSV(a.config.ExportPath())
}

// Cycles reads the persisted canonical table and segments it. policy
// overrides the configured one when non-empty.
func (a *Analyzer) Cycles(policy cycle.Policy) ([]model.Cycle, *model.Table, error) {
	if policy == "" {
		policy = a.policy
	}
	table, err := a.Canonical()
	if err != nil {
		return nil, nil, err
	}
	cycles, err := cycle.Detect(table, policy)
	if err != nil {
		return nil, nil, err
	}
	return cycles, table, nil
}

// IsLoadFailure reports whether err is a dataset load failure.
func IsLoadFailure(err error) bool {
	return errors.Is(err, model.ErrLoadFailed)
}
