package stats

import (
	"sort"
	"time"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/gymstats/entries"
)

type BestLift struct {
	Exercise           string    `json:"exercise"`
	EstimatedOneRepMax float64   `json:"estimated1rm"`
	Date               time.Time `json:"date"`
}

type Summary struct {
	Entries     int     `json:"entries"`
	Sessions    int     `json:"sessions"`
	TotalVolume float64 `json:"totalVolume"`
	// HallOfFame holds the best estimated 1RM of each key lift that has data,
	// in catalog key lift order.
	HallOfFame []BestLift `json:"hallOfFame"`
}

func Lifetime(all []entries.Entry, cat *catalog.Catalog) Summary {
	s := Summary{
		Entries:    len(all),
		HallOfFame: []BestLift{},
	}

	days := make(map[time.Time]bool)
	best := make(map[string]BestLift)
	for _, e := range all {
		s.TotalVolume += e.Volume
		days[entries.Day(e.Date)] = true

		if b, ok := best[e.Exercise]; !ok || e.EstimatedOneRepMax > b.EstimatedOneRepMax {
			best[e.Exercise] = BestLift{
				Exercise:           e.Exercise,
				EstimatedOneRepMax: e.EstimatedOneRepMax,
				Date:               e.Date,
			}
		}
	}
	s.Sessions = len(days)

	for _, lift := range cat.KeyLifts() {
		if b, ok := best[lift]; ok {
			s.HallOfFame = append(s.HallOfFame, b)
		}
	}

	return s
}

type TrendPoint struct {
	Date               time.Time `json:"date"`
	EstimatedOneRepMax float64   `json:"estimated1rm"`
}

// OneRepMaxTrend lists the stored estimated 1RM of every entry of exercise,
// oldest first. Entries of the same day keep their logging order.
func OneRepMaxTrend(all []entries.Entry, exercise string) []TrendPoint {
	var matching []entries.Entry
	for _, e := range all {
		if e.Exercise == exercise {
			matching = append(matching, e)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Date.Before(matching[j].Date)
	})

	points := make([]TrendPoint, 0, len(matching))
	for _, e := range matching {
		points = append(points, TrendPoint{
			Date:               e.Date,
			EstimatedOneRepMax: e.EstimatedOneRepMax,
		})
	}
	return points
}
