package mcp

import (
	"fmt"
	"strings"

	"github.com/2beens/irontracker/internal/gymstats/entries"
)

// SchemaColumn describes one column of the workout log table.
type SchemaColumn struct {
	ColumnName  string
	DataType    string
	Description string
}

var logColumnDocs = map[string]SchemaColumn{
	"date":          {DataType: "date", Description: "calendar day of the session (YYYY-MM-DD)"},
	"exercise":      {DataType: "text", Description: "catalog exercise name"},
	"muscle_group":  {DataType: "text", Description: "muscle group derived from the catalog at log time"},
	"weight":        {DataType: "number", Description: "working weight in kg"},
	"reps":          {DataType: "integer", Description: "reps per set"},
	"sets":          {DataType: "integer", Description: "number of sets"},
	"sleep_hours":   {DataType: "number", Description: "hours slept the night before"},
	"notes":         {DataType: "text", Description: "free text"},
	"estimated_1rm": {DataType: "number", Description: "Epley estimate, weight * (1 + reps / 30)"},
	"volume":        {DataType: "number", Description: "weight * reps * sets"},
}

// LogSchema returns the columns of the workout log, in stored order.
func LogSchema() []SchemaColumn {
	cols := make([]SchemaColumn, 0, len(entries.Columns))
	for _, name := range entries.Columns {
		c := logColumnDocs[name]
		c.ColumnName = name
		cols = append(cols, c)
	}
	return cols
}

func formatLogSchema(cols []SchemaColumn) string {
	var b strings.Builder
	b.WriteString("# Iron Tracker Workout Log\n\n")
	b.WriteString("One row per logged exercise. Every statistic is derived from a full read of this table.\n\n")
	b.WriteString("| Column | Type | Description |\n|--------|------|-------------|\n")
	for _, c := range cols {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", c.ColumnName, c.DataType, c.Description))
	}
	return b.String()
}
