// Package metrics computes competitive-visibility and opportunity metrics
// over a parsed ranking dataset: click/value estimates, Share of Voice,
// market concentration and the striking-distance opportunity ranking.
package metrics

import "github.com/Webyseo/seo-dashboard-3e3t22/internal/etl"

// ctrCurve maps rank position to expected click-through rate. Positions
// 11-20 share a coarse bucket; anything beyond (including the unranked
// sentinel) maps to zero. The same table feeds both the baseline click
// estimates and the opportunity uplift so the two stay consistent.
var ctrCurve = map[int]float64{
	1:  0.30,
	2:  0.15,
	3:  0.10,
	4:  0.07,
	5:  0.05,
	6:  0.04,
	7:  0.03,
	8:  0.025,
	9:  0.02,
	10: 0.018,
}

const ctrTail = 0.005 // positions 11-20

// CTRTop3Avg is the mean CTR of ranks 1-3, the target used for uplift.
var CTRTop3Avg = (ctrCurve[1] + ctrCurve[2] + ctrCurve[3]) / 3

// CTR returns the expected click-through rate for a rank position.
func CTR(pos int) float64 {
	if v, ok := ctrCurve[pos]; ok {
		return v
	}
	if pos > 10 && pos <= 20 {
		return ctrTail
	}
	return 0
}

// EstimateClicks fills per-domain click and value estimates for every row:
// clicks = volume x CTR(position), value = clicks x cpc. Estimates are only
// computed for domains whose export carries a position column; for the rest
// the position is unknown and an estimate would be fiction.
func EstimateClicks(ds *etl.Dataset) {
	for i := range ds.Rows {
		row := &ds.Rows[i]
		for domain, cols := range ds.Domains {
			if !cols.HasPosition() {
				continue
			}
			dm := row.Domains[domain]
			dm.ClicksEstimate = float64(row.Volume) * CTR(dm.Position)
			dm.ValueEstimate = dm.ClicksEstimate * row.CPC
			row.Domains[domain] = dm
		}
	}
}
