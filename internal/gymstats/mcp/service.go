package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/gymstats/lifts"
	"github.com/2beens/irontracker/internal/gymstats/stats"
)

// EntriesRepo provides the raw workout log (for dependency injection and testing).
type EntriesRepo interface {
	ListAll(ctx context.Context) ([]entries.Entry, error)
}

// statsAnalyzer provides the derived views (for dependency injection and testing).
type statsAnalyzer interface {
	Catalog() *catalog.Catalog
	Recovery(ctx context.Context) ([]stats.MuscleRecovery, error)
	Balance(ctx context.Context) (*stats.Balance, error)
	Calendar(ctx context.Context, year int, month time.Month) (*stats.CalendarGrid, error)
	Trend(ctx context.Context, exercise string) ([]stats.TrendPoint, error)
	Summary(ctx context.Context) (*stats.Summary, error)
	Report(ctx context.Context) (*stats.Report, error)
	Correlation(ctx context.Context) (*stats.Correlation, error)
}

// contextService provides workout log context data (schema, entries, derived views).
// Used by Handler for testability.
type contextService interface {
	GetSchema() string
	GetCatalog() CatalogInfo
	ListEntries(ctx context.Context, params EntriesParams) ([]entries.Entry, error)
	GetRecovery(ctx context.Context) ([]stats.MuscleRecovery, error)
	GetBalance(ctx context.Context) (*stats.Balance, error)
	GetCalendar(ctx context.Context, year int, month time.Month) (*stats.CalendarGrid, error)
	GetTrend(ctx context.Context, exercise string) ([]stats.TrendPoint, error)
	GetSummary(ctx context.Context) (*stats.Summary, error)
	GetReport(ctx context.Context) (*stats.Report, error)
	GetCorrelation(ctx context.Context) (*stats.Correlation, error)
	CalculatePlates(target, bar float64) (*lifts.PlateBreakdown, error)
}

// EntriesParams filters the raw log. Zero values match everything.
type EntriesParams struct {
	From        *time.Time
	To          *time.Time
	MuscleGroup string
	Exercise    string
}

type CatalogInfo struct {
	Exercises []catalog.Exercise `json:"exercises"`
	KeyLifts  []string           `json:"keyLifts"`
}

// ContextService holds dependencies and implements the workout context business logic.
type ContextService struct {
	entries  EntriesRepo
	analyzer statsAnalyzer
}

func NewContextService(entriesRepo EntriesRepo, analyzer statsAnalyzer) *ContextService {
	return &ContextService{
		entries:  entriesRepo,
		analyzer: analyzer,
	}
}

func (s *ContextService) GetSchema() string {
	return formatLogSchema(LogSchema())
}

func (s *ContextService) GetCatalog() CatalogInfo {
	cat := s.analyzer.Catalog()
	return CatalogInfo{
		Exercises: cat.Exercises(),
		KeyLifts:  cat.KeyLifts(),
	}
}

// ListEntries returns the logged entries matching params, in insertion order.
func (s *ContextService) ListEntries(ctx context.Context, params EntriesParams) ([]entries.Entry, error) {
	all, err := s.entries.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := []entries.Entry{}
	for _, e := range all {
		if params.From != nil && e.Date.Before(*params.From) {
			continue
		}
		if params.To != nil && e.Date.After(*params.To) {
			continue
		}
		if params.MuscleGroup != "" && !strings.EqualFold(e.MuscleGroup, params.MuscleGroup) {
			continue
		}
		if params.Exercise != "" && !strings.EqualFold(e.Exercise, params.Exercise) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

func (s *ContextService) GetRecovery(ctx context.Context) ([]stats.MuscleRecovery, error) {
	return s.analyzer.Recovery(ctx)
}

func (s *ContextService) GetBalance(ctx context.Context) (*stats.Balance, error) {
	return s.analyzer.Balance(ctx)
}

func (s *ContextService) GetCalendar(ctx context.Context, year int, month time.Month) (*stats.CalendarGrid, error) {
	if year < 1 || year > 9999 || month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid year/month: %d/%d", year, month)
	}
	return s.analyzer.Calendar(ctx, year, month)
}

// GetTrend resolves the exercise name case-insensitively against the catalog.
func (s *ContextService) GetTrend(ctx context.Context, exercise string) ([]stats.TrendPoint, error) {
	for _, ex := range s.analyzer.Catalog().Exercises() {
		if strings.EqualFold(ex.Name, exercise) {
			return s.analyzer.Trend(ctx, ex.Name)
		}
	}
	return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownExercise, exercise)
}

func (s *ContextService) GetSummary(ctx context.Context) (*stats.Summary, error) {
	return s.analyzer.Summary(ctx)
}

func (s *ContextService) GetReport(ctx context.Context) (*stats.Report, error) {
	return s.analyzer.Report(ctx)
}

func (s *ContextService) GetCorrelation(ctx context.Context) (*stats.Correlation, error) {
	return s.analyzer.Correlation(ctx)
}

func (s *ContextService) CalculatePlates(target, bar float64) (*lifts.PlateBreakdown, error) {
	if err := lifts.CheckPlates(target, bar); err != nil {
		return nil, err
	}
	b := lifts.Plates(target, bar)
	return &b, nil
}
