package metrics

import (
	"fmt"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/pkg/logger"
)

// VisibilityStats is a display-ready summary of a visibility time series.
// Previous and DeltaPP are nil when fewer than two points exist.
type VisibilityStats struct {
	Current        float64   `json:"current"`
	Previous       *float64  `json:"previous"`
	DeltaPP        *float64  `json:"delta_pp"`
	FormattedValue string    `json:"formatted_value"`
	FormattedDelta string    `json:"formatted_delta,omitempty"`
	Series         []float64 `json:"series"`
}

// HardenVisibility defensively recomputes a visibility percentage series.
// Visibility inputs arrive from heterogeneous upstream exports whose units
// are not reliably guaranteed, so two guards apply before any calculation:
//
//  1. If the most recent value exceeds 1000, the signature of an accidental
//     double x100 scaling, every out-of-scale point in the series is divided
//     by 100. In-range points are left alone: exports frequently mix
//     correctly-scaled history with a double-scaled latest snapshot.
//  2. Every value is then clamped into [0,100]. Each clamp is logged as an
//     error-level anomaly: out-of-range visibility is an upstream unit bug
//     that must be surfaced, not silently accepted.
//
// The delta is expressed in percentage points, never as a relative
// percentage-of-percentage.
func HardenVisibility(series []float64) VisibilityStats {
	if len(series) == 0 {
		return VisibilityStats{FormattedValue: "0.0%", Series: []float64{}}
	}

	corrected := make([]float64, len(series))
	copy(corrected, series)

	if last := corrected[len(corrected)-1]; last > 1000 {
		logger.Warn("extreme visibility value detected, applying anti-scale correction",
			"value", fmt.Sprintf("%.1f", last))
		for i, v := range corrected {
			if v > 100 {
				corrected[i] = v / 100
			}
		}
	}

	for i, v := range corrected {
		switch {
		case v > 100:
			logger.Error("visibility value exceeds 100%, clamping",
				"index", fmt.Sprintf("%d", i), "value", fmt.Sprintf("%.1f", v))
			corrected[i] = 100
		case v < 0:
			logger.Error("negative visibility value, clamping",
				"index", fmt.Sprintf("%d", i), "value", fmt.Sprintf("%.1f", v))
			corrected[i] = 0
		}
	}

	stats := VisibilityStats{
		Current: corrected[len(corrected)-1],
		Series:  corrected,
	}
	stats.FormattedValue = fmt.Sprintf("%.1f%%", stats.Current)

	if len(corrected) > 1 {
		prev := corrected[len(corrected)-2]
		delta := stats.Current - prev
		stats.Previous = &prev
		stats.DeltaPP = &delta
		stats.FormattedDelta = fmt.Sprintf("%+.1f pp", delta)
	}

	return stats
}
