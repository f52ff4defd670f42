package stats

import (
	"fmt"
	"math"

	"github.com/2beens/irontracker/internal/gymstats/entries"
)

type Correlation struct {
	// Coefficient is the Pearson r between sleep hours and volume,
	// nil when there is not enough data to compute it.
	Coefficient *float64 `json:"coefficient"`
	Samples     int      `json:"samples"`
	Message     string   `json:"message"`
}

func SleepVolumeCorrelation(all []entries.Entry, th Thresholds) Correlation {
	c := Correlation{Samples: len(all)}
	if len(all) < th.CorrelationMinEntries {
		c.Message = fmt.Sprintf(
			"Not enough data: sleep correlation needs at least %d entries, have %d.",
			th.CorrelationMinEntries, len(all),
		)
		return c
	}

	xs := make([]float64, len(all))
	ys := make([]float64, len(all))
	for i, e := range all {
		xs[i] = e.SleepHours
		ys[i] = e.Volume
	}

	r, ok := pearson(xs, ys)
	if !ok {
		c.Message = "Sleep hours or volume never vary, correlation is undefined."
		return c
	}
	c.Coefficient = &r

	strength := "Weak"
	switch abs := math.Abs(r); {
	case abs >= 0.5:
		strength = "Strong"
	case abs >= 0.3:
		strength = "Moderate"
	}
	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	c.Message = fmt.Sprintf("%s %s correlation (r=%.2f) between sleep and volume.", strength, direction, r)

	return c
}

func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}
