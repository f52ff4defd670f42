package stats

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=stats_mocks_test.go -package=stats_test

type entriesRepo interface {
	ListAll(ctx context.Context) ([]entries.Entry, error)
}

// Analyzer computes every derived view over a fresh full read of the log.
// It keeps no state between calls.
type Analyzer struct {
	repo       entriesRepo
	catalog    *catalog.Catalog
	thresholds Thresholds
	now        func() time.Time
}

func NewAnalyzer(
	repo entriesRepo,
	cat *catalog.Catalog,
	thresholds Thresholds,
	now func() time.Time,
) *Analyzer {
	// an unset struct means defaults, a loaded config is already merged
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds()
	}
	return &Analyzer{
		repo:       repo,
		catalog:    cat,
		thresholds: thresholds,
		now:        now,
	}
}

func (a *Analyzer) Catalog() *catalog.Catalog {
	return a.catalog
}

func (a *Analyzer) Thresholds() Thresholds {
	return a.thresholds
}

// Today is the current calendar day in the configured timezone.
func (a *Analyzer) Today() time.Time {
	return entries.Day(a.now())
}

// Overview bundles the views shown together on a dashboard or a report,
// all computed from the same snapshot.
type Overview struct {
	Today       time.Time        `json:"today"`
	Entries     []entries.Entry  `json:"-"`
	Summary     Summary          `json:"summary"`
	Report      Report           `json:"report"`
	Balance     Balance          `json:"balance"`
	Recovery    []MuscleRecovery `json:"recovery"`
	Correlation Correlation      `json:"correlation"`
}

func (a *Analyzer) Overview(ctx context.Context) (_ *Overview, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.overview")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := a.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	span.SetAttributes(attribute.Int("entries", len(all)))

	today := a.Today()
	return &Overview{
		Today:       today,
		Entries:     all,
		Summary:     Lifetime(all, a.catalog),
		Report:      CompareWindows(all, today, a.thresholds),
		Balance:     PushPull(all, a.catalog, a.thresholds),
		Recovery:    Recovery(all, today, a.thresholds),
		Correlation: SleepVolumeCorrelation(all, a.thresholds),
	}, nil
}

func (a *Analyzer) Recovery(ctx context.Context) (_ []MuscleRecovery, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.recovery")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := a.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return Recovery(all, a.Today(), a.thresholds), nil
}

func (a *Analyzer) Balance(ctx context.Context) (_ *Balance, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.balance")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := a.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	b := PushPull(all, a.catalog, a.thresholds)
	return &b, nil
}

func (a *Analyzer) Calendar(ctx context.Context, year int, month time.Month) (_ *CalendarGrid, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.calendar")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("year", year), attribute.Int("month", int(month)))

	all, err := a.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	grid := MonthGrid(all, year, month)
	return &grid, nil
}

func (a *Analyzer) Trend(ctx context.Context, exercise string) (_ []TrendPoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.trend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exercise))

	if !a.catalog.Has(exercise) {
		return nil, fmt.Errorf("trend: %w: %s", catalog.ErrUnknownExercise, exercise)
	}

	all, err := a.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return OneRepMaxTrend(all, exercise), nil
}

func (a *Analyzer) Summary(ctx context.Context) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := a.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	s := Lifetime(all, a.catalog)
	return &s, nil
}

func (a *Analyzer) Report(ctx context.Context) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.report")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := a.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	r := CompareWindows(all, a.Today(), a.thresholds)
	return &r, nil
}

func (a *Analyzer) Correlation(ctx context.Context) (_ *Correlation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.correlation")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := a.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	c := SleepVolumeCorrelation(all, a.thresholds)
	return &c, nil
}
