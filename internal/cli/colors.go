package cli

import (
	"github.com/fatih/color"

	"github.com/2beens/irontracker/internal/gymstats/stats"
)

type colorScheme struct {
	Title   *color.Color
	Label   *color.Color
	Success *color.Color
	Warn    *color.Color
	Error   *color.Color
	Info    *color.Color
}

var scheme = colorScheme{
	Title:   color.New(color.FgHiWhite, color.Bold),
	Label:   color.New(color.FgYellow),
	Success: color.New(color.FgGreen, color.Bold),
	Warn:    color.New(color.FgYellow, color.Bold),
	Error:   color.New(color.FgRed, color.Bold),
	Info:    color.New(color.FgCyan),
}

func statusColor(s stats.RecoveryStatus) *color.Color {
	switch s {
	case stats.StatusRecovering:
		return scheme.Error
	case stats.StatusPrime:
		return scheme.Success
	default:
		return scheme.Info
	}
}

func tierColor(t stats.Tier) *color.Color {
	switch t {
	case stats.TierBest:
		return scheme.Success
	case stats.TierLowest:
		return scheme.Error
	default:
		return scheme.Warn
	}
}
