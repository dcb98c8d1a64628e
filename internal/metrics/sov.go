package metrics

import (
	"sort"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/etl"
)

// SoVRecord is one domain's share of the aggregate visibility market for
// one import. Never persisted: always recomputed from the keyword rows.
type SoVRecord struct {
	Domain          string  `json:"domain"`
	VisibilityScore float64 `json:"visibility_score"`
	SoVPercent      float64 `json:"sov_percent"`
}

// ComputeSoV aggregates each domain's visibility column across all rows and
// derives its percentage share of the total. A zero-visibility market yields
// 0 for every domain rather than dividing by zero.
//
// The aggregation is a raw visibility sum, not volume-weighted per keyword;
// this matches the persisted history and is kept as the business definition.
func ComputeSoV(ds *etl.Dataset) []SoVRecord {
	totals := make(map[string]float64, len(ds.Domains))
	var market float64
	for _, row := range ds.Rows {
		for domain, dm := range row.Domains {
			totals[domain] += dm.Visibility
			market += dm.Visibility
		}
	}

	out := make([]SoVRecord, 0, len(totals))
	for domain, vis := range totals {
		rec := SoVRecord{Domain: domain, VisibilityScore: vis}
		if market > 0 {
			rec.SoVPercent = vis / market * 100
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SoVPercent != out[j].SoVPercent {
			return out[i].SoVPercent > out[j].SoVPercent
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}
