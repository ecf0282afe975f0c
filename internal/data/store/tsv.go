package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/penwyp/go-saw-monitor/internal/core/model"
	"github.com/penwyp/go-saw-monitor/internal/data/parser"
	"github.com/penwyp/go-saw-monitor/internal/util"
)

// EncodeTSV writes t as tab-delimited text with the canonical header.
func EncodeTSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(model.CanonicalColumns); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		if err := cw.Write(t.Row(i).Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTSV persists t at path, replacing any previous file. An empty table is
// rejected with model.ErrNoData and leaves the existing file untouched.
func WriteTSV(path string, t *model.Table) error {
	if t.IsEmpty() {
		return fmt.Errorf("no data to export: %w", model.ErrNoData)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeTSV(tmp, t); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	util.LogDebugf("Wrote %d rows to %s", t.Len(), path)
	return nil
}

// DecodeTSV reads a canonical table. The header may use canonical or legacy
// column names in any order; every canonical column must be present. Lines
// with a wrong field count or an unreadable time are skipped.
func DecodeTSV(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty table: %w", model.ErrNoData)
	}
	if err != nil {
		return nil, err
	}

	pos, err := headerPositions(header)
	if err != nil {
		return nil, err
	}

	var rows []model.CanonicalRow
	skipped := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != len(header) {
			skipped++
			continue
		}
		row, err := decodeRow(record, pos)
		if err != nil {
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	if skipped > 0 {
		util.LogDebugf("Skipped %d unreadable canonical rows", skipped)
	}
	return model.NewTable(rows), nil
}

// ReadTSV loads the canonical table at path. A missing or empty file yields
// model.ErrNoData.
func ReadTSV(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s not found: %w", path, model.ErrNoData)
		}
		return nil, err
	}
	defer f.Close()

	t, err := DecodeTSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if t.IsEmpty() {
		return nil, fmt.Errorf("%s has no rows: %w", path, model.ErrNoData)
	}
	return t, nil
}

func headerPositions(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		col := name
		if !model.IsCanonicalColumn(col) {
			legacy, ok := model.LegacyColumns[name]
			if !ok {
				continue
			}
			col = legacy
		}
		if _, dup := pos[col]; !dup {
			pos[col] = i
		}
	}
	for _, col := range model.CanonicalColumns {
		if _, ok := pos[col]; !ok {
			return nil, fmt.Errorf("canonical table is missing column %q", col)
		}
	}
	return pos, nil
}

func decodeRow(record []string, pos map[string]int) (model.CanonicalRow, error) {
	tod, err := model.ParseClock(record[pos[model.ColTimeOfDay]])
	if err != nil {
		return model.CanonicalRow{}, err
	}
	num := func(col string) float64 {
		return parser.CoerceFloat(record[pos[col]])
	}
	return model.CanonicalRow{
		Date:        record[pos[model.ColDate]],
		TimeOfDay:   tod,
		Current:     num(model.ColCurrent),
		SpeedMs:     num(model.ColSpeedMs),
		Temperature: num(model.ColTemperature),
		Distance:    num(model.ColDistance),
		WoodPresent: model.WoodFlag(num(model.ColWoodPresent)),
	}, nil
}
