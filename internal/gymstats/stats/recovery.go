package stats

import (
	"sort"
	"time"

	"github.com/2beens/irontracker/internal/gymstats/entries"
)

type RecoveryStatus string

const (
	StatusRecovering RecoveryStatus = "recovering"
	StatusPrime      RecoveryStatus = "prime"
	StatusCold       RecoveryStatus = "cold"
)

type MuscleRecovery struct {
	MuscleGroup string         `json:"muscleGroup"`
	LastTrained time.Time      `json:"lastTrained"`
	DaysSince   int            `json:"daysSince"`
	Status      RecoveryStatus `json:"status"`
}

// Classify depends on the day count only.
func (t Thresholds) Classify(daysSince int) RecoveryStatus {
	switch {
	case daysSince <= t.RecoveringMaxDays:
		return StatusRecovering
	case daysSince <= t.PrimeMaxDays:
		return StatusPrime
	default:
		return StatusCold
	}
}

// Recovery finds the last training day per muscle group and buckets it,
// least rested first. Entries dated after today count as trained today.
func Recovery(all []entries.Entry, today time.Time, th Thresholds) []MuscleRecovery {
	last := make(map[string]time.Time)
	for _, e := range all {
		if e.MuscleGroup == "" {
			continue
		}
		if prev, ok := last[e.MuscleGroup]; !ok || e.Date.After(prev) {
			last[e.MuscleGroup] = e.Date
		}
	}

	result := make([]MuscleRecovery, 0, len(last))
	for group, date := range last {
		days := max(entries.DaysBetween(date, today), 0)
		result = append(result, MuscleRecovery{
			MuscleGroup: group,
			LastTrained: date,
			DaysSince:   days,
			Status:      th.Classify(days),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DaysSince != result[j].DaysSince {
			return result[i].DaysSince < result[j].DaysSince
		}
		return result[i].MuscleGroup < result[j].MuscleGroup
	})

	return result
}
