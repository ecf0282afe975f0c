package merger

import (
	"fmt"
	"sort"
	"time"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/data/parser"
	"github.com/penwyp/go-saw-monitor/internal/util"
)

// Source is a parsed log plus the canonical fields it contributes.
type Source struct {
	Kind  model.SourceKind
	Table *parser.Table
	// Bindings maps a canonical column to the source column holding it.
	Bindings map[string]string
}

// Bind resolves fields (canonical column to accepted source names) against
// the table header. The first accepted name present wins. A field with no
// matching column is a load failure.
func Bind(kind model.SourceKind, table *parser.Table, fields map[string][]string) (Source, error) {
	src := Source{Kind: kind, Table: table, Bindings: make(map[string]string, len(fields))}
	for canonical, names := range fields {
		found := false
		for _, name := range names {
			if table.Has(name) {
				src.Bindings[canonical] = name
				found = true
				break
			}
		}
		if !found {
			return Source{}, fmt.Errorf("%s: %w: none of %q found for %s", table.Path, model.ErrLoadFailed, names, canonical)
		}
	}
	return src, nil
}

// NumericColumns lists every accepted source name of fields, sorted, for use
// as parser.Options.Numeric.
func NumericColumns(fields map[string][]string) []string {
	var cols []string
	for _, names := range fields {
		cols = append(cols, names...)
	}
	sort.Strings(cols)
	return cols
}

// Record is one instant of the merged timeline. Values are keyed by canonical
// column; a column no source provided is absent and reads as 0.
type Record struct {
	Timestamp time.Time
	Values    map[string]float64
}

// Value returns a canonical column, 0 when missing.
func (r Record) Value(col string) float64 {
	return r.Values[col]
}

// IsIdle reports whether every tracked signal is zero.
func (r Record) IsIdle() bool {
	for _, col := range model.TrackedSignals {
		if r.Values[col] != 0 {
			return false
		}
	}
	return true
}

// Stats describes one Merge call.
type Stats struct {
	Duplicates int // rows discarded because their source already had that instant
	Timestamps int // distinct instants across all sources
	Idle       int // instants dropped by the no-activity rule
}

// Merge outer-joins the sources on timestamp. Each source contributes its
// first row per instant; later duplicates are discarded. When two sources
// bind the same canonical column the earlier source wins. Instants whose
// tracked signals are all zero are dropped, and the rest are sorted by order.
func Merge(sources []Source, order Ordering) ([]Record, Stats) {
	if order == nil {
		order = TimeOfDayOrdering{}
	}

	var stats Stats
	index := make(map[int64]int)
	var records []Record

	for _, src := range sources {
		seen := make(map[int64]struct{}, src.Table.Len())
		for _, row := range src.Table.Rows {
			key := row.Timestamp.UnixNano()
			if _, dup := seen[key]; dup {
				stats.Duplicates++
				continue
			}
			seen[key] = struct{}{}

			pos, ok := index[key]
			if !ok {
				pos = len(records)
				index[key] = pos
				records = append(records, Record{
					Timestamp: row.Timestamp,
					Values:    make(map[string]float64, len(model.TrackedSignals)),
				})
			}
			rec := records[pos]
			for canonical, col := range src.Bindings {
				if _, set := rec.Values[canonical]; set {
					continue
				}
				v := row.Value(col)
				if canonical == model.ColWoodPresent {
					v = float64(model.WoodFlag(v))
				}
				rec.Values[canonical] = v
			}
		}
		util.LogDebugf("Merged %s source: %d rows, %d instants so far", src.Kind, src.Table.Len(), len(records))
	}
	stats.Timestamps = len(records)

	kept := records[:0]
	for _, rec := range records {
		if rec.IsIdle() {
			stats.Idle++
			continue
		}
		kept = append(kept, rec)
	}

	sortRecords(kept, order)
	return kept, stats
}
