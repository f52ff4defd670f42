package stats

import (
	"time"

	"github.com/2beens/irontracker/internal/gymstats/entries"
)

type CellState string

const (
	CellAbsent   CellState = "absent"
	CellActive   CellState = "active"
	CellInactive CellState = "inactive"
)

type CalendarCell struct {
	// Day of the month, 0 for absent cells.
	Day   int       `json:"day"`
	State CellState `json:"state"`
}

// CalendarGrid has one row per week, Monday first.
type CalendarGrid struct {
	Year  int               `json:"year"`
	Month time.Month        `json:"month"`
	Weeks [][7]CalendarCell `json:"weeks"`
}

func (g CalendarGrid) ActiveDays() int {
	n := 0
	for _, week := range g.Weeks {
		for _, c := range week {
			if c.State == CellActive {
				n++
			}
		}
	}
	return n
}

// MonthGrid marks the days of year/month with at least one logged entry.
func MonthGrid(all []entries.Entry, year int, month time.Month) CalendarGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := (int(first.Weekday()) + 6) % 7

	active := make(map[int]bool)
	for _, e := range all {
		if e.Date.Year() == year && e.Date.Month() == month {
			active[e.Date.Day()] = true
		}
	}

	weeksCount := (offset + daysInMonth + 6) / 7
	grid := CalendarGrid{
		Year:  year,
		Month: month,
		Weeks: make([][7]CalendarCell, weeksCount),
	}
	for i := range weeksCount * 7 {
		day := i - offset + 1
		cell := CalendarCell{State: CellAbsent}
		if day >= 1 && day <= daysInMonth {
			cell.Day = day
			cell.State = CellInactive
			if active[day] {
				cell.State = CellActive
			}
		}
		grid.Weeks[i/7][i%7] = cell
	}

	return grid
}
