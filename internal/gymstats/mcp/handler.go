package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/gymstats/lifts"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// jsonResult formats v as indented JSON, or err as an error result prefixed with what.
func jsonResult(v any, err error, what string) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return errorResult(fmt.Sprintf("Error fetching %s: %s", what, err)), nil, nil
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error()), nil, nil
	}
	return textResult(string(raw)), nil, nil
}

// GetLogSchemaTool returns the MCP tool handler for get_workout_log_schema.
func (h *Handler) GetLogSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		return textResult(h.service.GetSchema()), nil, nil
	}
}

// GetCatalogTool returns the MCP tool handler for get_exercise_catalog.
func (h *Handler) GetCatalogTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		return jsonResult(h.service.GetCatalog(), nil, "catalog")
	}
}

// EntriesTimeRangeInput is the input for get_entries_for_time_range.
type EntriesTimeRangeInput struct {
	FromDate    string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate      string `json:"to_date" jsonschema:"End date (YYYY-MM-DD), inclusive"`
	MuscleGroup string `json:"muscle_group,omitempty" jsonschema:"Filter by muscle group (e.g. Chest, Legs)"`
	Exercise    string `json:"exercise,omitempty" jsonschema:"Filter by exercise name (e.g. Bench Press)"`
}

// GetEntriesForTimeRangeTool returns the MCP tool handler for get_entries_for_time_range.
func (h *Handler) GetEntriesForTimeRangeTool() func(context.Context, *mcp.CallToolRequest, EntriesTimeRangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in EntriesTimeRangeInput) (*mcp.CallToolResult, any, error) {
		from, err := time.Parse(entries.DateLayout, in.FromDate)
		if err != nil {
			return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
		}
		to, err := time.Parse(entries.DateLayout, in.ToDate)
		if err != nil {
			return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
		}

		list, err := h.service.ListEntries(ctx, EntriesParams{
			From:        &from,
			To:          &to,
			MuscleGroup: in.MuscleGroup,
			Exercise:    in.Exercise,
		})
		return jsonResult(list, err, "entries")
	}
}

// GetRecoveryTool returns the MCP tool handler for get_recovery_status.
func (h *Handler) GetRecoveryTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		matrix, err := h.service.GetRecovery(ctx)
		return jsonResult(matrix, err, "recovery status")
	}
}

// GetBalanceTool returns the MCP tool handler for get_push_pull_balance.
func (h *Handler) GetBalanceTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		b, err := h.service.GetBalance(ctx)
		return jsonResult(b, err, "push/pull balance")
	}
}

// CalendarInput is the input for get_activity_calendar.
type CalendarInput struct {
	Year  int `json:"year" jsonschema:"Calendar year (e.g. 2024)"`
	Month int `json:"month" jsonschema:"Month number, 1 to 12"`
}

// GetCalendarTool returns the MCP tool handler for get_activity_calendar.
func (h *Handler) GetCalendarTool() func(context.Context, *mcp.CallToolRequest, CalendarInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CalendarInput) (*mcp.CallToolResult, any, error) {
		grid, err := h.service.GetCalendar(ctx, in.Year, time.Month(in.Month))
		return jsonResult(grid, err, "calendar")
	}
}

// TrendInput is the input for get_1rm_trend.
type TrendInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name from the catalog (e.g. Squat)"`
}

// GetTrendTool returns the MCP tool handler for get_1rm_trend.
func (h *Handler) GetTrendTool() func(context.Context, *mcp.CallToolRequest, TrendInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TrendInput) (*mcp.CallToolResult, any, error) {
		if in.Exercise == "" {
			return errorResult("exercise is required"), nil, nil
		}
		points, err := h.service.GetTrend(ctx, in.Exercise)
		return jsonResult(points, err, "1rm trend")
	}
}

// GetSummaryTool returns the MCP tool handler for get_lifetime_summary.
func (h *Handler) GetSummaryTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		s, err := h.service.GetSummary(ctx)
		return jsonResult(s, err, "lifetime summary")
	}
}

// GetReportTool returns the MCP tool handler for get_period_report.
func (h *Handler) GetReportTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		r, err := h.service.GetReport(ctx)
		return jsonResult(r, err, "period report")
	}
}

// GetCorrelationTool returns the MCP tool handler for get_sleep_correlation.
func (h *Handler) GetCorrelationTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		c, err := h.service.GetCorrelation(ctx)
		return jsonResult(c, err, "sleep correlation")
	}
}

// PlatesInput is the input for calculate_plates.
type PlatesInput struct {
	Target float64  `json:"target" jsonschema:"Total weight to load in kg, bar included"`
	Bar    *float64 `json:"bar,omitempty" jsonschema:"Bar weight in kg, 20 when omitted"`
}

// CalculatePlatesTool returns the MCP tool handler for calculate_plates.
func (h *Handler) CalculatePlatesTool() func(context.Context, *mcp.CallToolRequest, PlatesInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in PlatesInput) (*mcp.CallToolResult, any, error) {
		bar := lifts.DefaultBarWeight
		if in.Bar != nil {
			bar = *in.Bar
		}
		b, err := h.service.CalculatePlates(in.Target, bar)
		if err != nil {
			return errorResult("Invalid plates request: " + err.Error()), nil, nil
		}
		return jsonResult(b, nil, "plates")
	}
}
