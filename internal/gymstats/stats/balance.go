package stats

import (
	"fmt"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/gymstats/entries"
)

type BalanceState string

const (
	BalanceNoData       BalanceState = "no_data"
	BalanceUndefined    BalanceState = "undefined"
	BalancePushDominant BalanceState = "push_dominant"
	BalancePullDominant BalanceState = "pull_dominant"
	BalanceBalanced     BalanceState = "balanced"
)

type Balance struct {
	PushVolume float64 `json:"pushVolume"`
	PullVolume float64 `json:"pullVolume"`
	// Ratio is push / pull, nil when no pull volume was logged.
	Ratio   *float64     `json:"ratio"`
	State   BalanceState `json:"state"`
	Message string       `json:"message"`
}

func PushPull(all []entries.Entry, cat *catalog.Catalog, th Thresholds) Balance {
	var b Balance
	for _, e := range all {
		if cat.MovementOf(e.Exercise) == catalog.MovementPush {
			b.PushVolume += e.Volume
		} else {
			b.PullVolume += e.Volume
		}
	}

	switch {
	case b.PushVolume == 0 && b.PullVolume == 0:
		b.State = BalanceNoData
		b.Message = "No training volume logged yet."
		return b
	case b.PullVolume == 0:
		b.State = BalanceUndefined
		b.Message = "Ratio undefined: no pull volume logged."
		return b
	}

	ratio := b.PushVolume / b.PullVolume
	b.Ratio = &ratio

	switch {
	case ratio > th.PushDominantRatio:
		b.State = BalancePushDominant
		b.Message = fmt.Sprintf("Push dominant (%.2f:1). Add more pulling work to protect your shoulders.", ratio)
	case ratio < th.PullDominantRatio:
		b.State = BalancePullDominant
		b.Message = fmt.Sprintf("Pull dominant (%.2f:1). Pressing volume is lagging.", ratio)
	default:
		b.State = BalanceBalanced
		b.Message = fmt.Sprintf("Balanced (%.2f:1).", ratio)
	}

	return b
}
