// Package lifts has the closed-form per-set calculations used when an entry
// is logged and by the plate calculator tool.
package lifts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultPlates are the plate denominations (kg) available per side,
// heaviest first. Greedy descent over this list is exact for it.
var DefaultPlates = []float64{25, 20, 15, 10, 5, 2.5, 1.25}

// DefaultBarWeight is a standard olympic bar.
const DefaultBarWeight = 20.0

// Caps for a single logged set-group, well above any real session. They keep
// derived values and their sums finite.
const (
	MaxWeight = 1000.0 // kg
	MaxReps   = 1000
	MaxSets   = 100
)

var ErrInvalidPlates = errors.New("invalid plates request")

// ValidWeight reports whether w is a finite weight in [0, MaxWeight].
func ValidWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0 && w <= MaxWeight
}

// CheckPlates rejects inputs Plates cannot give a meaningful answer for.
func CheckPlates(target, bar float64) error {
	if !ValidWeight(target) {
		return fmt.Errorf("%w: target must be between 0 and %g", ErrInvalidPlates, MaxWeight)
	}
	if !ValidWeight(bar) {
		return fmt.Errorf("%w: bar must be between 0 and %g", ErrInvalidPlates, MaxWeight)
	}
	return nil
}

// EstimatedOneRepMax uses the Epley formula. A single rep is its own max.
func EstimatedOneRepMax(weight float64, reps int) float64 {
	if reps == 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}

func Volume(weight float64, reps, sets int) float64 {
	return weight * float64(reps) * float64(sets)
}

type PlateBreakdown struct {
	// Plates maps plate weight to the count needed on ONE side of the bar.
	Plates map[float64]int
	// Remainder is the per-side weight the available plates could not cover.
	Remainder float64
}

type PlateCount struct {
	Plate float64 `json:"plate"`
	Count int     `json:"count"`
}

// Sorted lists the breakdown heaviest plate first.
func (b PlateBreakdown) Sorted() []PlateCount {
	out := make([]PlateCount, 0, len(b.Plates))
	for plate, count := range b.Plates {
		out = append(out, PlateCount{Plate: plate, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Plate > out[j].Plate
	})
	return out
}

// MarshalJSON writes the plates as an ordered list, float map keys have no
// JSON form.
func (b PlateBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Plates    []PlateCount `json:"plates"`
		Remainder float64      `json:"remainder"`
	}{
		Plates:    b.Sorted(),
		Remainder: b.Remainder,
	})
}

// Plates computes which plates to load per side to reach target with the given bar.
// The mapping is empty when the target does not exceed the bar. Inputs are
// expected to pass CheckPlates.
func Plates(target, bar float64) PlateBreakdown {
	breakdown := PlateBreakdown{
		Plates: make(map[float64]int),
	}
	if target <= bar {
		return breakdown
	}

	side := (target - bar) / 2
	for _, p := range DefaultPlates {
		count := int(side / p)
		if count > 0 {
			breakdown.Plates[p] = count
			side -= float64(count) * p
		}
	}
	breakdown.Remainder = side

	return breakdown
}
