package normalizer

import (
	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/data/merger"
)

// DateLayout is the on-disk format of the canonical date column.
const DateLayout = "2006-01-02"

// Normalize projects merged records onto the canonical schema: the timestamp
// is split into date and time of day, every canonical signal is selected and
// anything else is dropped. Record order is preserved.
func Normalize(records []merger.Record) *model.Table {
	rows := make([]model.CanonicalRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row(rec))
	}
	return model.NewTable(rows)
}

// Row converts a single merged record.
func Row(rec merger.Record) model.CanonicalRow {
	return model.CanonicalRow{
		Date:        rec.Timestamp.Format(DateLayout),
		TimeOfDay:   model.ClockOf(rec.Timestamp),
		Current:     rec.Value(model.ColCurrent),
		SpeedMs:     rec.Value(model.ColSpeedMs),
		Temperature: rec.Value(model.ColTemperature),
		Distance:    rec.Value(model.ColDistance),
		WoodPresent: model.WoodFlag(rec.Value(model.ColWoodPresent)),
	}
}
