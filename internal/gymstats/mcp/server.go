package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with workout log tools: schema, catalog, entries, recovery,
// balance, calendar, 1RM trend, lifetime summary, period report, sleep correlation, plates.
// Used by the service when mounting MCP at /mcp and by the stdio command.
func NewServer(entriesRepo EntriesRepo, analyzer statsAnalyzer) *mcp.Server {
	h := NewHandler(NewContextService(entriesRepo, analyzer))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "irontracker-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_log_schema",
		Description: "Returns the columns of the workout log table (name, type, meaning). Use when you need to understand what a logged entry holds.",
	}, h.GetLogSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_catalog",
		Description: "Returns the exercise catalog: every exercise with its muscle group and push/pull movement, plus the key lifts used in reports.",
	}, h.GetCatalogTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_entries_for_time_range",
		Description: "Returns the logged entries within the given date range. Optional filters: muscle_group (e.g. Chest), exercise (e.g. Bench Press). Use when you need to see what was lifted in a period.",
	}, h.GetEntriesForTimeRangeTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_recovery_status",
		Description: "Returns, per muscle group, the last trained day, days since and status (recovering, prime, cold). Use when deciding what to train today.",
	}, h.GetRecoveryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_push_pull_balance",
		Description: "Returns lifetime push and pull volume, their ratio and a balance verdict.",
	}, h.GetBalanceTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_activity_calendar",
		Description: "Returns the Monday-first activity grid for a month: each day is active, inactive or absent (outside the month). Args: year, month.",
	}, h.GetCalendarTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_1rm_trend",
		Description: "Returns the estimated 1RM over time for one exercise, oldest first. Use when asked how a lift has progressed.",
	}, h.GetTrendTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_lifetime_summary",
		Description: "Returns total lifetime volume, sessions logged and the best estimated 1RM of each key lift.",
	}, h.GetSummaryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_period_report",
		Description: "Compares the recent window (30 days by default) against the window before it: volume and session deltas plus a verdict.",
	}, h.GetReportTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_sleep_correlation",
		Description: "Returns the Pearson correlation between sleep hours and training volume, or a message when there is not enough data.",
	}, h.GetCorrelationTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "calculate_plates",
		Description: "Returns which plates to load per side to reach a target weight. Args: target (kg); optional: bar (kg, default 20).",
	}, h.CalculatePlatesTool())

	return s
}
