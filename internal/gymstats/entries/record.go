package entries

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Columns is the tabular layout shared by every store and the CSV export.
var Columns = []string{
	"date", "exercise", "muscle_group", "weight", "reps", "sets",
	"sleep_hours", "notes", "estimated_1rm", "volume",
}

func (e Entry) Record() []string {
	return []string{
		e.Date.Format(DateLayout),
		e.Exercise,
		e.MuscleGroup,
		formatFloat(e.Weight),
		strconv.Itoa(e.Reps),
		strconv.Itoa(e.Sets),
		formatFloat(e.SleepHours),
		e.Notes,
		formatFloat(e.EstimatedOneRepMax),
		formatFloat(e.Volume),
	}
}

// ParseRecord maps a row in Columns order back to an entry. Numeric cells that
// do not parse, or are not finite, become zero. A bad date, a short row or a
// value failing CheckRange is an error.
func ParseRecord(rec []string) (Entry, error) {
	if len(rec) < len(Columns) {
		return Entry{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(rec))
	}

	date, err := ParseDate(strings.TrimSpace(rec[0]))
	if err != nil {
		return Entry{}, fmt.Errorf("parse date [%s]: %w", rec[0], err)
	}

	e := Entry{
		Date:               date,
		Exercise:           strings.TrimSpace(rec[1]),
		MuscleGroup:        strings.TrimSpace(rec[2]),
		Weight:             CoerceFloat(rec[3]),
		Reps:               CoerceInt(rec[4]),
		Sets:               CoerceInt(rec[5]),
		SleepHours:         CoerceFloat(rec[6]),
		Notes:              rec[7],
		EstimatedOneRepMax: CoerceFloat(rec[8]),
		Volume:             CoerceFloat(rec[9]),
	}
	if err := e.CheckRange(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// IsHeader reports whether the row is the Columns header line.
func IsHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), Columns[0])
}

func CoerceFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CoerceInt also accepts float cells ("5.0") and truncates them. Values
// outside the int range become zero.
func CoerceInt(s string) int {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	f := CoerceFloat(s)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0
	}
	return int(f)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
