package entries

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/gymstats/lifts"
)

const DateLayout = "2006-01-02"

var (
	ErrEntryNotFound = errors.New("workout entry not found")
	ErrInvalidEntry  = errors.New("invalid workout entry")
)

// Entry is one logged set-group. EstimatedOneRepMax and Volume are computed
// when the entry is logged and stored as they are; reading never recomputes them.
type Entry struct {
	ID                 int       `json:"id"`
	Date               time.Time `json:"date"`
	Exercise           string    `json:"exercise"`
	MuscleGroup        string    `json:"muscleGroup"`
	Weight             float64   `json:"weight"`
	Reps               int       `json:"reps"`
	Sets               int       `json:"sets"`
	SleepHours         float64   `json:"sleepHours"`
	Notes              string    `json:"notes"`
	EstimatedOneRepMax float64   `json:"estimated1rm"`
	Volume             float64   `json:"volume"`
}

// LogInput is what the user submits when logging a set-group.
type LogInput struct {
	Date       string  `json:"date"`
	Exercise   string  `json:"exercise"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
	Sets       int     `json:"sets"`
	SleepHours float64 `json:"sleepHours"`
	Notes      string  `json:"notes"`
}

// New validates the input against the catalog and derives muscle group,
// estimated 1RM and volume. An empty date means today.
func New(cat *catalog.Catalog, in LogInput, today time.Time) (Entry, error) {
	ex, err := cat.Lookup(in.Exercise)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	date := Day(today)
	if in.Date != "" {
		date, err = ParseDate(in.Date)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: date [%s]: %w", ErrInvalidEntry, in.Date, err)
		}
	}

	switch {
	case !lifts.ValidWeight(in.Weight):
		return Entry{}, fmt.Errorf("%w: weight must be between 0 and %g", ErrInvalidEntry, lifts.MaxWeight)
	case in.Reps < 1 || in.Reps > lifts.MaxReps:
		return Entry{}, fmt.Errorf("%w: reps must be between 1 and %d", ErrInvalidEntry, lifts.MaxReps)
	case in.Sets < 1 || in.Sets > lifts.MaxSets:
		return Entry{}, fmt.Errorf("%w: sets must be between 1 and %d", ErrInvalidEntry, lifts.MaxSets)
	case math.IsNaN(in.SleepHours) || in.SleepHours < 0 || in.SleepHours > 24:
		return Entry{}, fmt.Errorf("%w: sleep hours must be between 0 and 24", ErrInvalidEntry)
	}

	return Entry{
		Date:               date,
		Exercise:           ex.Name,
		MuscleGroup:        ex.MuscleGroup,
		Weight:             in.Weight,
		Reps:               in.Reps,
		Sets:               in.Sets,
		SleepHours:         in.SleepHours,
		Notes:              in.Notes,
		EstimatedOneRepMax: lifts.EstimatedOneRepMax(in.Weight, in.Reps),
		Volume:             lifts.Volume(in.Weight, in.Reps, in.Sets),
	}, nil
}

// CheckRange rejects stored values no logged entry could have. Zeros left by
// coerced cells pass.
func (e Entry) CheckRange() error {
	switch {
	case !lifts.ValidWeight(e.Weight):
		return fmt.Errorf("%w: weight %g out of range", ErrInvalidEntry, e.Weight)
	case e.Reps < 0 || e.Reps > lifts.MaxReps:
		return fmt.Errorf("%w: reps %d out of range", ErrInvalidEntry, e.Reps)
	case e.Sets < 0 || e.Sets > lifts.MaxSets:
		return fmt.Errorf("%w: sets %d out of range", ErrInvalidEntry, e.Sets)
	case e.SleepHours < 0 || e.SleepHours > 24:
		return fmt.Errorf("%w: sleep hours %g out of range", ErrInvalidEntry, e.SleepHours)
	case e.EstimatedOneRepMax < 0 || e.EstimatedOneRepMax > lifts.EstimatedOneRepMax(lifts.MaxWeight, lifts.MaxReps):
		return fmt.Errorf("%w: estimated 1rm %g out of range", ErrInvalidEntry, e.EstimatedOneRepMax)
	case e.Volume < 0 || e.Volume > lifts.Volume(lifts.MaxWeight, lifts.MaxReps, lifts.MaxSets):
		return fmt.Errorf("%w: volume %g out of range", ErrInvalidEntry, e.Volume)
	}
	return nil
}

// Day drops the clock part of t, keeping its calendar day, as a UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD, or a full RFC 3339 timestamp as written by
// some spreadsheet exports.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
