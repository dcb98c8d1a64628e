package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/config"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/etl"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/intent"
)

// Striking-distance window: keywords ranked 4th-10th are considered
// near-term promotable to the top 3.
const (
	strikingDistanceMin = 4
	strikingDistanceMax = 10
)

// Opportunity is one striking-distance keyword with its uplift estimates and
// composite score. Ephemeral: recomputed per view, never persisted.
type Opportunity struct {
	Keyword      string  `json:"keyword"`
	Position     int     `json:"position"`
	Volume       int     `json:"volume"`
	Difficulty   int     `json:"difficulty"`
	Intent       string  `json:"intent"`
	IntentOrigin string  `json:"intent_origin"`
	CPC          float64 `json:"cpc"`

	UpliftClicks int `json:"uplift_clicks"`
	// UpliftValue is nil when the row has no CPC signal: "no estimate" must
	// stay distinguishable from "would be worth 0".
	UpliftValue      *float64 `json:"uplift_value"`
	OpportunityScore float64  `json:"opportunity_score"`
	Reason           string   `json:"reason"`
}

// ComputeOpportunities ranks the tracked domain's striking-distance keywords.
// Returns nil when the tracked domain is not registered or carries no
// position column; position data is required to know what is in range.
//
// The score is a weighted sum of min-max-normalized factors. Which weight
// profile applies depends on the optional signals actually present in the
// candidate set, so a CPC-less export still produces a meaningful ranking.
func ComputeOpportunities(ds *etl.Dataset, tracked string, weights config.ScoringConfig) []Opportunity {
	cols, ok := ds.Domains[tracked]
	if !ok || !cols.HasPosition() {
		return nil
	}

	var out []Opportunity
	for _, row := range ds.Rows {
		pos := row.Domains[tracked].Position
		if pos < strikingDistanceMin || pos > strikingDistanceMax {
			continue
		}

		uplift := int(math.Round(float64(row.Volume) * (CTRTop3Avg - CTR(pos))))
		if uplift < 0 {
			uplift = 0
		}

		opp := Opportunity{
			Keyword:      row.Keyword,
			Position:     pos,
			Volume:       row.Volume,
			Difficulty:   row.Difficulty,
			Intent:       row.Intent,
			IntentOrigin: row.IntentOrigin,
			CPC:          row.CPC,
			UpliftClicks: uplift,
		}
		if row.CPC > 0 {
			v := float64(uplift) * row.CPC
			opp.UpliftValue = &v
		}
		opp.Reason = opportunityReason(opp)
		out = append(out, opp)
	}
	if len(out) == 0 {
		return nil
	}

	scoreOpportunities(out, weights)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.OpportunityScore != b.OpportunityScore {
			return a.OpportunityScore > b.OpportunityScore
		}
		av, bv := upliftValueOrMin(a), upliftValueOrMin(b)
		if av != bv {
			return av > bv
		}
		if a.UpliftClicks != b.UpliftClicks {
			return a.UpliftClicks > b.UpliftClicks
		}
		return intent.Priority(a.Intent) < intent.Priority(b.Intent)
	})

	return out
}

// scoreOpportunities assigns the 0-100 composite score using the weight
// profile matching the available signals.
func scoreOpportunities(opps []Opportunity, weights config.ScoringConfig) {
	hasCPC, hasKD := false, false
	for _, o := range opps {
		if o.CPC > 0 {
			hasCPC = true
		}
		if o.Difficulty > 0 {
			hasKD = true
		}
	}

	var w config.ProfileWeights
	switch {
	case hasCPC && hasKD:
		w = weights.Full
	case hasCPC:
		w = weights.WithCPC
	case hasKD:
		w = weights.WithDifficulty
	default:
		w = weights.Base
	}

	uplift := make([]float64, len(opps))
	volume := make([]float64, len(opps))
	cpc := make([]float64, len(opps))
	ease := make([]float64, len(opps))
	for i, o := range opps {
		uplift[i] = float64(o.UpliftClicks)
		volume[i] = float64(o.Volume)
		cpc[i] = o.CPC
		// Lower difficulty scores higher.
		ease[i] = 1 / float64(o.Difficulty+1)
	}
	nu := minMaxNormalize(uplift)
	nv := minMaxNormalize(volume)
	nc := minMaxNormalize(cpc)
	ne := minMaxNormalize(ease)

	for i := range opps {
		score := (nu[i]*w.Uplift + nv[i]*w.Volume + nc[i]*w.CPC + ne[i]*w.Difficulty) * 100
		opps[i].OpportunityScore = math.Round(score*10) / 10
	}
}

// minMaxNormalize scales a series into [0,1]. A constant series yields a
// neutral 0.5 for every element, never a division error.
func minMaxNormalize(series []float64) []float64 {
	min, max := series[0], series[0]
	for _, v := range series[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(series))
	if max == min {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, v := range series {
		out[i] = (v - min) / (max - min)
	}
	return out
}

// opportunityReason renders the human-readable potential summary. A zero CPC
// is called out explicitly instead of silently omitting the currency clause.
func opportunityReason(o Opportunity) string {
	if o.UpliftValue != nil && *o.UpliftValue > 0 {
		return fmt.Sprintf("pos%d→Top3 = +%d clicks (~%.0f€)", o.Position, o.UpliftClicks, *o.UpliftValue)
	}
	if o.CPC == 0 {
		return fmt.Sprintf("pos%d→Top3 = +%d clicks (no € estimate, CPC missing)", o.Position, o.UpliftClicks)
	}
	return fmt.Sprintf("pos%d→Top3 = +%d clicks est.", o.Position, o.UpliftClicks)
}

func upliftValueOrMin(o Opportunity) float64 {
	if o.UpliftValue == nil {
		return -1
	}
	return *o.UpliftValue
}
