// Package postgres keeps the workout log in a single postgres table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/telemetry/tracing"
)

const Schema = `
CREATE TABLE IF NOT EXISTS public.workout_log
(
    id            SERIAL PRIMARY KEY,
    date          DATE             NOT NULL,
    exercise      VARCHAR          NOT NULL,
    muscle_group  VARCHAR          NOT NULL DEFAULT '',
    weight        DOUBLE PRECISION NOT NULL DEFAULT 0,
    reps          INTEGER          NOT NULL DEFAULT 0,
    sets          INTEGER          NOT NULL DEFAULT 0,
    sleep_hours   DOUBLE PRECISION NOT NULL DEFAULT 0,
    notes         TEXT             NOT NULL DEFAULT '',
    estimated_1rm DOUBLE PRECISION NOT NULL DEFAULT 0,
    volume        DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS ix_workout_log_date ON public.workout_log (date);
`

const selectColumns = `id, date, exercise, muscle_group, weight, reps, sets, sleep_hours, notes, estimated_1rm, volume`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Migrate(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.postgres.migrate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	_, err = r.db.Exec(ctx, Schema)
	return err
}

func (r *Repo) Close() error {
	r.db.Close() // blocking operation
	return nil
}

func (r *Repo) Add(ctx context.Context, entry entries.Entry) (_ *entries.Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.postgres.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout_log
				(date, exercise, muscle_group, weight, reps, sets, sleep_hours, notes, estimated_1rm, volume)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id;`,
		insertArgs(entry)...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	entry.ID = id

	return &entry, nil
}

func (r *Repo) AddBatch(ctx context.Context, batch []entries.Entry) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.postgres.add_batch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("batch_size", len(batch)))

	rows := make([][]any, 0, len(batch))
	for _, e := range batch {
		rows = append(rows, insertArgs(e))
	}

	// copy keeps the order of the input, so ids follow it too
	n, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"workout_log"},
		[]string{"date", "exercise", "muscle_group", "weight", "reps", "sets", "sleep_hours", "notes", "estimated_1rm", "volume"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy entries: %w", err)
	}

	return int(n), nil
}

func (r *Repo) ListAll(ctx context.Context) (_ []entries.Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.postgres.list_all")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT `+selectColumns+` FROM workout_log ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []entries.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("entries", len(all)))
	return all, nil
}

func (r *Repo) DeleteLatest(ctx context.Context) (_ *entries.Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.postgres.delete_latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`DELETE FROM workout_log
			WHERE id = (SELECT max(id) FROM workout_log)
			RETURNING `+selectColumns+`;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, entries.ErrEntryNotFound
	}

	return scanEntry(rows)
}

func scanEntry(rows pgx.Rows) (*entries.Entry, error) {
	var e entries.Entry
	var date time.Time
	if err := rows.Scan(
		&e.ID,
		&date,
		&e.Exercise,
		&e.MuscleGroup,
		&e.Weight,
		&e.Reps,
		&e.Sets,
		&e.SleepHours,
		&e.Notes,
		&e.EstimatedOneRepMax,
		&e.Volume,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	e.Date = entries.Day(date)
	return &e, nil
}

func insertArgs(e entries.Entry) []any {
	return []any{
		e.Date,
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
