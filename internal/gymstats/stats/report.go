package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/2beens/irontracker/internal/gymstats/entries"
)

type Tier string

const (
	TierBest   Tier = "best"
	TierMiddle Tier = "middle"
	TierLowest Tier = "lowest"
)

// Window covers the days in (From, To].
type Window struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Volume   float64   `json:"volume"`
	Sessions int       `json:"sessions"`
}

type Report struct {
	Today           time.Time `json:"today"`
	Recent          Window    `json:"recent"`
	Prior           Window    `json:"prior"`
	VolumeChange    float64   `json:"volumeChange"`
	VolumeChangePct float64   `json:"volumeChangePct"`
	SessionChange   int       `json:"sessionChange"`
	Tier            Tier      `json:"tier"`
	Verdict         string    `json:"verdict"`
}

// CompareWindows compares the last WindowDays days with the WindowDays before.
// A session is a distinct calendar day with at least one entry.
func CompareWindows(all []entries.Entry, today time.Time, th Thresholds) Report {
	today = entries.Day(today)
	n := th.WindowDays

	r := Report{
		Today: today,
		Recent: Window{
			From: today.AddDate(0, 0, -n),
			To:   today,
		},
		Prior: Window{
			From: today.AddDate(0, 0, -2*n),
			To:   today.AddDate(0, 0, -n),
		},
	}

	recentDays := make(map[time.Time]bool)
	priorDays := make(map[time.Time]bool)
	for _, e := range all {
		ago := entries.DaysBetween(e.Date, today)
		switch {
		case ago < 0:
			// logged ahead of today
		case ago < n:
			r.Recent.Volume += e.Volume
			recentDays[entries.Day(e.Date)] = true
		case ago < 2*n:
			r.Prior.Volume += e.Volume
			priorDays[entries.Day(e.Date)] = true
		}
	}
	r.Recent.Sessions = len(recentDays)
	r.Prior.Sessions = len(priorDays)

	r.VolumeChange = r.Recent.Volume - r.Prior.Volume
	r.SessionChange = r.Recent.Sessions - r.Prior.Sessions
	r.VolumeChangePct = PercentChange(r.Prior.Volume, r.Recent.Volume)

	switch {
	case r.VolumeChangePct > th.BestTierChangePct && r.Recent.Sessions >= th.BestTierMinSessions:
		r.Tier = TierBest
		r.Verdict = fmt.Sprintf("Beast mode. Volume up %.1f%% across %d sessions.", r.VolumeChangePct, r.Recent.Sessions)
	case r.VolumeChangePct > 0:
		r.Tier = TierMiddle
		r.Verdict = fmt.Sprintf("Steady progress. Volume up %.1f%%.", r.VolumeChangePct)
	default:
		r.Tier = TierLowest
		r.Verdict = fmt.Sprintf("Volume is down or flat (%.1f%%). Time to get back under the bar.", r.VolumeChangePct)
	}

	return r
}

// PercentChange is 100 when only the prior value is zero and 0 when both are.
func PercentChange(prior, recent float64) float64 {
	if prior == 0 {
		if recent > 0 {
			return 100
		}
		return 0
	}
	pct := (recent - prior) / prior * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}
