// Package sqlite keeps the workout log in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/telemetry/tracing"
)

// Numeric columns are declared without strict types, so rows written by other
// tools can hold anything. Every value is read back as text and coerced.
const schema = `
CREATE TABLE IF NOT EXISTS workout_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	date          TEXT NOT NULL,
	exercise      TEXT NOT NULL,
	muscle_group  TEXT NOT NULL DEFAULT '',
	weight        REAL,
	reps          INTEGER,
	sets          INTEGER,
	sleep_hours   REAL,
	notes         TEXT NOT NULL DEFAULT '',
	estimated_1rm REAL,
	volume        REAL
);
`

const selectColumns = `id, date, exercise, muscle_group, weight, reps, sets, sleep_hours, notes, estimated_1rm, volume`

const insertSQL = `INSERT INTO workout_log
	(date, exercise, muscle_group, weight, reps, sets, sleep_hours, notes, estimated_1rm, volume)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type Repo struct {
	db *sql.DB
}

// NewRepo opens (and creates, if missing) the database file at path.
// ":memory:" gives a private in-memory database.
func NewRepo(ctx context.Context, path string) (*Repo, error) {
	dsn := "file::memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// every new connection would see a different empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Repo{
		db: db,
	}, nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) Add(ctx context.Context, entry entries.Entry) (_ *entries.Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	res, err := r.db.ExecContext(ctx, insertSQL, insertArgs(entry)...)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get inserted id: %w", err)
	}
	entry.ID = int(id)

	return &entry, nil
}

// AddBatch appends all entries in one transaction, it is all or nothing.
func (r *Repo) AddBatch(ctx context.Context, batch []entries.Entry) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.add_batch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("batch_size", len(batch)))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Errorf("rollback add batch: %s", rbErr)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range batch {
		if _, err := stmt.ExecContext(ctx, insertArgs(e)...); err != nil {
			return 0, fmt.Errorf("insert entry #%d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return len(batch), nil
}

// ListAll returns the full table in insertion order. Rows with a bad date are skipped.
func (r *Repo) ListAll(ctx context.Context) (_ []entries.Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.list_all")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM workout_log ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var all []entries.Entry
	for rows.Next() {
		id, rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}

		e, err := entries.ParseRecord(rec)
		if err != nil {
			log.Warnf("skipping workout_log row %d: %s", id, err)
			continue
		}
		e.ID = id
		all = append(all, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	span.SetAttributes(attribute.Int("entries", len(all)))
	return all, nil
}

func (r *Repo) DeleteLatest(ctx context.Context) (_ *entries.Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sqlite.delete_latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM workout_log ORDER BY id DESC LIMIT 1`)
	id, rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entries.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM workout_log WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete entry %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	deleted, parseErr := entries.ParseRecord(rec)
	if parseErr != nil {
		log.Warnf("deleted malformed workout_log row %d: %s", id, parseErr)
	}
	deleted.ID = id

	return &deleted, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (int, []string, error) {
	var id int
	cols := make([]sql.NullString, len(entries.Columns))
	dest := make([]any, 0, len(cols)+1)
	dest = append(dest, &id)
	for i := range cols {
		dest = append(dest, &cols[i])
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("scan row: %w", err)
	}

	rec := make([]string, len(cols))
	for i, c := range cols {
		rec[i] = c.String
	}
	return id, rec, nil
}

func insertArgs(e entries.Entry) []any {
	return []any{
		e.Date.Format(entries.DateLayout),
		e.Exercise,
		e.MuscleGroup,
		e.Weight,
		e.Reps,
		e.Sets,
		e.SleepHours,
		e.Notes,
		e.EstimatedOneRepMax,
		e.Volume,
	}
}
