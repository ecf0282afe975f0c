package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-saw-monitor/internal/core/model"
	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// Export kinds recorded in the exports table.
const (
	KindCanonical = "canonical"
	KindFiltered  = "filtered"
	KindWindow    = "window"
	KindCycles    = "cycles"
)

const schemaExports = `
CREATE TABLE IF NOT EXISTS exports (
    id TEXT PRIMARY KEY,
    label TEXT NOT NULL,
    kind TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    row_count INTEGER NOT NULL
);
`

const schemaCanonicalRows = `
CREATE TABLE IF NOT EXISTS canonical_rows (
    export_id TEXT NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    date TEXT NOT NULL,
    time_of_day TEXT NOT NULL,
    current REAL NOT NULL,
    speed_ms REAL NOT NULL,
    temperature REAL NOT NULL,
    distance REAL NOT NULL,
    wood_present INTEGER NOT NULL,
    PRIMARY KEY (export_id, seq)
);
`

const schemaCycles = `
CREATE TABLE IF NOT EXISTS cycles (
    export_id TEXT NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
    idx INTEGER NOT NULL,
    date TEXT NOT NULL,
    start_time TEXT NOT NULL,
    end_time TEXT NOT NULL,
    duration_s REAL NOT NULL,
    current_total REAL NOT NULL,
    current_max REAL NOT NULL,
    current_min REAL NOT NULL,
    temperature_max REAL NOT NULL,
    temperature_min REAL NOT NULL,
    sample_count INTEGER NOT NULL,
    PRIMARY KEY (export_id, idx)
);
`

// OpenSQLite opens or creates the export database at path and ensures the
// schema exists.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range []string{schemaExports, schemaCanonicalRows, schemaCycles} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}

// ExportInfo describes one stored export.
type ExportInfo struct {
	ID        string
	Label     string
	Kind      string
	CreatedAt time.Time
	RowCount  int
}

// SQLiteExporter stores tables and cycle reports in SQLite.
type SQLiteExporter struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteExporter wraps an open database.
func NewSQLiteExporter(db *sql.DB) *SQLiteExporter {
	return &SQLiteExporter{db: db, now: time.Now}
}

// Close closes the underlying database.
func (e *SQLiteExporter) Close() error {
	return e.db.Close()
}

// ExportTable stores t under a new export id and returns it.
func (e *SQLiteExporter) ExportTable(ctx context.Context, label, kind string, t *model.Table) (string, error) {
	if t.IsEmpty() {
		return "", fmt.Errorf("no data to export: %w", model.ErrNoData)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := e.insertExport(ctx, tx, label, kind, t.Len())
	if err != nil {
		return "", err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO canonical_rows (export_id, seq, date, time_of_day, current, speed_ms, temperature, distance, wood_present)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("prepare row insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if _, err := stmt.ExecContext(ctx, id, i, r.Date, r.TimeOfDay.String(),
			r.Current, r.SpeedMs, r.Temperature, r.Distance, r.WoodPresent); err != nil {
			return "", fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit export: %w", err)
	}
	return id, nil
}

// ExportCycles stores a cycle report under a new export id and returns it.
// Derived speeds are not stored; they depend on the table they are read with.
func (e *SQLiteExporter) ExportCycles(ctx context.Context, label string, cycles []model.Cycle) (string, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := e.insertExport(ctx, tx, label, KindCycles, len(cycles))
	if err != nil {
		return "", err
	}

	for _, c := range cycles {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cycles (export_id, idx, date, start_time, end_time, duration_s,
				current_total, current_max, current_min, temperature_max, temperature_min, sample_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id, c.Index, c.Date, c.StartTime.String(), c.EndTime.String(), c.DurationSeconds(),
			c.CurrentTotal, c.CurrentMax, c.CurrentMin, c.TemperatureMax, c.TemperatureMin, c.SampleCount,
		); err != nil {
			return "", fmt.Errorf("insert cycle %d: %w", c.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit export: %w", err)
	}
	return id, nil
}

func (e *SQLiteExporter) insertExport(ctx context.Context, tx *sql.Tx, label, kind string, count int) (string, error) {
	id := uuid.NewString()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO exports (id, label, kind, created_at, row_count)
		VALUES (?, ?, ?, ?, ?)
	`, id, label, kind, e.now().UTC().Format("2006-01-02 15:04:05"), count)
	if err != nil {
		return "", fmt.Errorf("insert export: %w", err)
	}
	return id, nil
}

// Exports lists stored exports, oldest first.
func (e *SQLiteExporter) Exports(ctx context.Context) ([]ExportInfo, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT id, label, kind, created_at, row_count
		FROM exports
		ORDER BY created_at ASC, rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExportInfo
	for rows.Next() {
		var (
			info    ExportInfo
			created string
		)
		if err := rows.Scan(&info.ID, &info.Label, &info.Kind, &created, &info.RowCount); err != nil {
			return nil, err
		}
		info.CreatedAt = parseTimestamp(created)
		out = append(out, info)
	}
	return out, rows.Err()
}

// LoadTable reads back the rows of a table export.
func (e *SQLiteExporter) LoadTable(ctx context.Context, id string) (*model.Table, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT date, time_of_day, current, speed_ms, temperature, distance, wood_present
		FROM canonical_rows
		WHERE export_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CanonicalRow
	for rows.Next() {
		var (
			r   model.CanonicalRow
			tod string
		)
		if err := rows.Scan(&r.Date, &tod, &r.Current, &r.SpeedMs, &r.Temperature, &r.Distance, &r.WoodPresent); err != nil {
			return nil, err
		}
		if r.TimeOfDay, err = model.ParseClock(tod); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("export %s: %w", id, model.ErrNoData)
	}
	return model.NewTable(out), nil
}

// modernc returns TIMESTAMP columns either as text or already formatted RFC3339.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
