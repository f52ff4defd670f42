package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/gymstats/lifts"
	"github.com/2beens/irontracker/internal/gymstats/stats"
)

// mockContextService implements contextService for tests.
type mockContextService struct {
	list      []entries.Entry
	listErr   error
	gotParams EntriesParams

	recovery    []stats.MuscleRecovery
	recoveryErr error
	trendFor    string
	trend       []stats.TrendPoint
	trendErr    error
	calendarErr error
}

func (m *mockContextService) GetSchema() string { return "# schema\n" }

func (m *mockContextService) GetCatalog() CatalogInfo {
	return CatalogInfo{KeyLifts: []string{"Squat"}}
}

func (m *mockContextService) ListEntries(ctx context.Context, params EntriesParams) ([]entries.Entry, error) {
	m.gotParams = params
	return m.list, m.listErr
}

func (m *mockContextService) GetRecovery(ctx context.Context) ([]stats.MuscleRecovery, error) {
	return m.recovery, m.recoveryErr
}

func (m *mockContextService) GetBalance(ctx context.Context) (*stats.Balance, error) {
	return &stats.Balance{State: stats.BalanceNoData}, nil
}

func (m *mockContextService) GetCalendar(ctx context.Context, year int, month time.Month) (*stats.CalendarGrid, error) {
	if m.calendarErr != nil {
		return nil, m.calendarErr
	}
	return &stats.CalendarGrid{Year: year, Month: month}, nil
}

func (m *mockContextService) GetTrend(ctx context.Context, exercise string) ([]stats.TrendPoint, error) {
	m.trendFor = exercise
	return m.trend, m.trendErr
}

func (m *mockContextService) GetSummary(ctx context.Context) (*stats.Summary, error) {
	return &stats.Summary{}, nil
}

func (m *mockContextService) GetReport(ctx context.Context) (*stats.Report, error) {
	return &stats.Report{}, nil
}

func (m *mockContextService) GetCorrelation(ctx context.Context) (*stats.Correlation, error) {
	return &stats.Correlation{}, nil
}

func (m *mockContextService) CalculatePlates(target, bar float64) (*lifts.PlateBreakdown, error) {
	if err := lifts.CheckPlates(target, bar); err != nil {
		return nil, err
	}
	b := lifts.Plates(target, bar)
	return &b, nil
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestHandler_GetLogSchemaTool(t *testing.T) {
	h := NewHandler(&mockContextService{})
	res, _, err := h.GetLogSchemaTool()(context.Background(), &mcp.CallToolRequest{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError")
	}
	if got := resultText(t, res); got != "# schema\n" {
		t.Fatalf("content text = %q", got)
	}
}

func TestHandler_GetEntriesForTimeRangeTool(t *testing.T) {
	t.Run("invalid_from_date", func(t *testing.T) {
		h := NewHandler(&mockContextService{})
		res, _, _ := h.GetEntriesForTimeRangeTool()(context.Background(), &mcp.CallToolRequest{}, EntriesTimeRangeInput{
			FromDate: "06/01/2024",
			ToDate:   "2024-06-30",
		})
		if !res.IsError || resultText(t, res) != "Invalid from_date: use YYYY-MM-DD" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("invalid_to_date", func(t *testing.T) {
		h := NewHandler(&mockContextService{})
		res, _, _ := h.GetEntriesForTimeRangeTool()(context.Background(), &mcp.CallToolRequest{}, EntriesTimeRangeInput{
			FromDate: "2024-06-01",
			ToDate:   "tomorrow",
		})
		if !res.IsError || resultText(t, res) != "Invalid to_date: use YYYY-MM-DD" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("passes_filters_and_returns_json", func(t *testing.T) {
		svc := &mockContextService{
			list: []entries.Entry{{ID: 3, Exercise: "Squat", MuscleGroup: "Legs", Volume: 1500}},
		}
		h := NewHandler(svc)
		res, _, err := h.GetEntriesForTimeRangeTool()(context.Background(), &mcp.CallToolRequest{}, EntriesTimeRangeInput{
			FromDate:    "2024-06-01",
			ToDate:      "2024-06-30",
			MuscleGroup: "legs",
		})
		if err != nil || res.IsError {
			t.Fatalf("unexpected failure: %v %+v", err, res)
		}
		if svc.gotParams.MuscleGroup != "legs" || svc.gotParams.From.Day() != 1 || svc.gotParams.To.Day() != 30 {
			t.Fatalf("unexpected params: %+v", svc.gotParams)
		}

		var got []entries.Entry
		if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(got) != 1 || got[0].ID != 3 {
			t.Fatalf("unexpected entries: %+v", got)
		}
	})

	t.Run("service_error", func(t *testing.T) {
		h := NewHandler(&mockContextService{listErr: errors.New("sheet gone")})
		res, _, _ := h.GetEntriesForTimeRangeTool()(context.Background(), &mcp.CallToolRequest{}, EntriesTimeRangeInput{
			FromDate: "2024-06-01",
			ToDate:   "2024-06-30",
		})
		if !res.IsError || resultText(t, res) != "Error fetching entries: sheet gone" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})
}

func TestHandler_GetRecoveryTool(t *testing.T) {
	svc := &mockContextService{recovery: []stats.MuscleRecovery{
		{MuscleGroup: "Chest", DaysSince: 1, Status: stats.StatusRecovering},
	}}
	res, _, _ := NewHandler(svc).GetRecoveryTool()(context.Background(), &mcp.CallToolRequest{}, nil)
	if res.IsError || !strings.Contains(resultText(t, res), `"recovering"`) {
		t.Fatalf("unexpected result: %+v", res)
	}

	svc.recoveryErr = errors.New("db down")
	res, _, _ = NewHandler(svc).GetRecoveryTool()(context.Background(), &mcp.CallToolRequest{}, nil)
	if !res.IsError || resultText(t, res) != "Error fetching recovery status: db down" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestHandler_GetCalendarTool(t *testing.T) {
	h := NewHandler(&mockContextService{})
	res, _, _ := h.GetCalendarTool()(context.Background(), &mcp.CallToolRequest{}, CalendarInput{Year: 2024, Month: 6})
	if res.IsError || !strings.Contains(resultText(t, res), `"year": 2024`) {
		t.Fatalf("unexpected result: %+v", res)
	}

	h = NewHandler(&mockContextService{calendarErr: errors.New("invalid year/month: 2024/13")})
	res, _, _ = h.GetCalendarTool()(context.Background(), &mcp.CallToolRequest{}, CalendarInput{Year: 2024, Month: 13})
	if !res.IsError {
		t.Fatalf("expected IsError")
	}
}

func TestHandler_GetTrendTool(t *testing.T) {
	t.Run("requires_exercise", func(t *testing.T) {
		res, _, _ := NewHandler(&mockContextService{}).GetTrendTool()(context.Background(), &mcp.CallToolRequest{}, TrendInput{})
		if !res.IsError || resultText(t, res) != "exercise is required" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("returns_points", func(t *testing.T) {
		svc := &mockContextService{trend: []stats.TrendPoint{{EstimatedOneRepMax: 150}}}
		res, _, _ := NewHandler(svc).GetTrendTool()(context.Background(), &mcp.CallToolRequest{}, TrendInput{Exercise: "squat"})
		if res.IsError || svc.trendFor != "squat" || !strings.Contains(resultText(t, res), "150") {
			t.Fatalf("unexpected result: %+v", res)
		}
	})
}

func TestHandler_CalculatePlatesTool(t *testing.T) {
	h := NewHandler(&mockContextService{})

	res, _, _ := h.CalculatePlatesTool()(context.Background(), &mcp.CallToolRequest{}, PlatesInput{Target: 100})
	if res.IsError {
		t.Fatalf("unexpected IsError: %s", resultText(t, res))
	}
	var got struct {
		Plates []lifts.PlateCount `json:"plates"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// 40 kg per side
	if len(got.Plates) != 2 || got.Plates[0].Plate != 25 || got.Plates[1].Plate != 15 {
		t.Fatalf("unexpected plates: %+v", got.Plates)
	}

	bar := -5.0
	res, _, _ = h.CalculatePlatesTool()(context.Background(), &mcp.CallToolRequest{}, PlatesInput{Target: 100, Bar: &bar})
	if !res.IsError {
		t.Fatalf("expected IsError")
	}

	res, _, _ = h.CalculatePlatesTool()(context.Background(), &mcp.CallToolRequest{}, PlatesInput{Target: 1e300})
	if !res.IsError || !strings.Contains(resultText(t, res), "Invalid plates request") {
		t.Fatalf("expected invalid plates error, got %s", resultText(t, res))
	}
}
