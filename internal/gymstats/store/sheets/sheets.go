// Package sheets keeps the workout log in one Google Sheets worksheet.
// Row 1 holds the column header and an entry's id is its sheet row number.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/telemetry/tracing"
)

const lastColumn = "J"

var updatedRangeRowRegex = regexp.MustCompile(`![A-Z]+(\d+)`)

type Repo struct {
	service       *gsheets.Service
	spreadsheetID string
	worksheet     string

	// guards the one-time header check
	mutex     sync.Mutex
	hasHeader bool
}

func NewRepo(ctx context.Context, spreadsheetID, worksheet string, opts ...option.ClientOption) (*Repo, error) {
	if spreadsheetID == "" {
		return nil, errors.New("spreadsheet id empty")
	}
	if worksheet == "" {
		worksheet = "Sheet1"
	}

	service, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve sheets client: %w", err)
	}

	return &Repo{
		service:       service,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}, nil
}

// NewRepoFromCredentialsFile authenticates with a service account JSON key.
func NewRepoFromCredentialsFile(ctx context.Context, credentialsPath, spreadsheetID, worksheet string) (*Repo, error) {
	credentialsJson, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return NewRepo(ctx, spreadsheetID, worksheet, option.WithCredentialsJSON(credentialsJson))
}

func (r *Repo) Close() error {
	return nil
}

func (r *Repo) Add(ctx context.Context, entry entries.Entry) (_ *entries.Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sheets.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	firstRow, err := r.append(ctx, []entries.Entry{entry})
	if err != nil {
		return nil, err
	}
	entry.ID = firstRow

	return &entry, nil
}

func (r *Repo) AddBatch(ctx context.Context, batch []entries.Entry) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sheets.add_batch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("batch_size", len(batch)))

	if len(batch) == 0 {
		return 0, nil
	}
	if _, err := r.append(ctx, batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

func (r *Repo) ListAll(ctx context.Context) (_ []entries.Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sheets.list_all")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.readRows(ctx)
	if err != nil {
		return nil, err
	}

	var all []entries.Entry
	for i, row := range rows {
		if e, ok := parseRow(i+1, row); ok {
			all = append(all, e)
		}
	}

	span.SetAttributes(attribute.Int("entries", len(all)))
	return all, nil
}

// DeleteLatest clears the last non-empty row of the worksheet.
func (r *Repo) DeleteLatest(ctx context.Context) (_ *entries.Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sheets.delete_latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.readRows(ctx)
	if err != nil {
		return nil, err
	}

	for i := len(rows) - 1; i >= 0; i-- {
		rec := toRecord(rows[i])
		if isBlank(rec) || entries.IsHeader(rec) {
			continue
		}

		rowNum := i + 1
		rowRange := fmt.Sprintf("%s!A%d:%s%d", r.worksheet, rowNum, lastColumn, rowNum)
		if _, err := r.service.Spreadsheets.Values.
			Clear(r.spreadsheetID, rowRange, &gsheets.ClearValuesRequest{}).
			Context(ctx).
			Do(); err != nil {
			return nil, fmt.Errorf("clear row %d: %w", rowNum, err)
		}

		deleted, parseErr := entries.ParseRecord(rec)
		if parseErr != nil {
			log.Warnf("cleared malformed sheet row %d: %s", rowNum, parseErr)
		}
		deleted.ID = rowNum
		return &deleted, nil
	}

	return nil, entries.ErrEntryNotFound
}

func (r *Repo) readRows(ctx context.Context) ([][]any, error) {
	resp, err := r.service.Spreadsheets.Values.
		Get(r.spreadsheetID, r.worksheet+"!A:"+lastColumn).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read worksheet [%s]: %w", r.worksheet, err)
	}
	return resp.Values, nil
}

// append returns the sheet row number of the first appended entry.
func (r *Repo) append(ctx context.Context, batch []entries.Entry) (int, error) {
	if err := r.ensureHeader(ctx); err != nil {
		return 0, err
	}

	values := make([][]any, 0, len(batch))
	for _, e := range batch {
		values = append(values, toRow(e))
	}

	resp, err := r.service.Spreadsheets.Values.
		Append(r.spreadsheetID, r.worksheet+"!A1", &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("append rows: %w", err)
	}
	if resp.Updates == nil {
		return 0, errors.New("append rows: no updates in response")
	}

	return firstRowOf(resp.Updates.UpdatedRange)
}

func (r *Repo) ensureHeader(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.hasHeader {
		return nil
	}

	headerRange := fmt.Sprintf("%s!A1:%s1", r.worksheet, lastColumn)
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	if len(resp.Values) == 0 || isBlank(toRecord(resp.Values[0])) {
		header := make([]any, len(entries.Columns))
		for i, c := range entries.Columns {
			header[i] = c
		}
		if _, err := r.service.Spreadsheets.Values.
			Update(r.spreadsheetID, headerRange, &gsheets.ValueRange{Values: [][]any{header}}).
			ValueInputOption("RAW").
			Context(ctx).
			Do(); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		log.Debugf("wrote header to worksheet [%s]", r.worksheet)
	}

	r.hasHeader = true
	return nil
}

func parseRow(rowNum int, row []any) (entries.Entry, bool) {
	rec := toRecord(row)
	if isBlank(rec) || entries.IsHeader(rec) {
		return entries.Entry{}, false
	}

	e, err := entries.ParseRecord(rec)
	if err != nil {
		log.Warnf("skipping sheet row %d: %s", rowNum, err)
		return entries.Entry{}, false
	}
	e.ID = rowNum
	return e, true
}

// toRecord pads short rows, the API drops trailing empty cells.
func toRecord(row []any) []string {
	rec := make([]string, max(len(row), len(entries.Columns)))
	for i, cell := range row {
		if cell != nil {
			rec[i] = fmt.Sprint(cell)
		}
	}
	return rec
}

func toRow(e entries.Entry) []any {
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

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func firstRowOf(updatedRange string) (int, error) {
	m := updatedRangeRowRegex.FindStringSubmatch(updatedRange)
	if m == nil {
		return 0, fmt.Errorf("unexpected updated range [%s]", updatedRange)
	}
	return strconv.Atoi(m[1])
}
