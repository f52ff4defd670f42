package stats

import (
	"errors"
	"fmt"
)

var ErrInvalidThresholds = errors.New("invalid thresholds")

// Thresholds are the tunable boundaries of the derived views.
// Missing config keys are filled from DefaultThresholds by Merge.
type Thresholds struct {
	// recovery buckets, in days since a muscle group was last trained
	RecoveringMaxDays int `toml:"recovering_max_days" json:"recoveringMaxDays"`
	PrimeMaxDays      int `toml:"prime_max_days" json:"primeMaxDays"`

	// push / pull ratio
	PushDominantRatio float64 `toml:"push_dominant_ratio" json:"pushDominantRatio"`
	PullDominantRatio float64 `toml:"pull_dominant_ratio" json:"pullDominantRatio"`

	// period comparison
	WindowDays          int     `toml:"window_days" json:"windowDays"`
	BestTierChangePct   float64 `toml:"best_tier_change_pct" json:"bestTierChangePct"`
	BestTierMinSessions int     `toml:"best_tier_min_sessions" json:"bestTierMinSessions"`

	CorrelationMinEntries int `toml:"correlation_min_entries" json:"correlationMinEntries"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		RecoveringMaxDays:     2,
		PrimeMaxDays:          5,
		PushDominantRatio:     1.5,
		PullDominantRatio:     0.75,
		WindowDays:            30,
		BestTierChangePct:     10,
		BestTierMinSessions:   12,
		CorrelationMinEntries: 5,
	}
}

// Merge keeps the fields whose config key isSet reports as present and takes
// every other field from DefaultThresholds. A present zero stays zero.
func (t Thresholds) Merge(isSet func(key string) bool) Thresholds {
	d := DefaultThresholds()
	if !isSet("recovering_max_days") {
		t.RecoveringMaxDays = d.RecoveringMaxDays
	}
	if !isSet("prime_max_days") {
		t.PrimeMaxDays = d.PrimeMaxDays
	}
	if !isSet("push_dominant_ratio") {
		t.PushDominantRatio = d.PushDominantRatio
	}
	if !isSet("pull_dominant_ratio") {
		t.PullDominantRatio = d.PullDominantRatio
	}
	if !isSet("window_days") {
		t.WindowDays = d.WindowDays
	}
	if !isSet("best_tier_change_pct") {
		t.BestTierChangePct = d.BestTierChangePct
	}
	if !isSet("best_tier_min_sessions") {
		t.BestTierMinSessions = d.BestTierMinSessions
	}
	if !isSet("correlation_min_entries") {
		t.CorrelationMinEntries = d.CorrelationMinEntries
	}
	return t
}

// Validate checks that the recovery buckets are ordered and the ratios make sense.
func (t Thresholds) Validate() error {
	switch {
	case t.RecoveringMaxDays < 0 || t.PrimeMaxDays <= t.RecoveringMaxDays:
		return fmt.Errorf("%w: recovery buckets must satisfy 0 <= recovering < prime", ErrInvalidThresholds)
	case t.PullDominantRatio <= 0 || t.PushDominantRatio <= t.PullDominantRatio:
		return fmt.Errorf("%w: balance ratios must satisfy 0 < pull dominant < push dominant", ErrInvalidThresholds)
	case t.WindowDays < 1:
		return fmt.Errorf("%w: report window must be at least one day", ErrInvalidThresholds)
	case t.CorrelationMinEntries < 2:
		return fmt.Errorf("%w: correlation needs at least two entries", ErrInvalidThresholds)
	}
	return nil
}
