package intent

import (
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/etl"
)

// Origin tags recording where a row's intent label came from. Origin drives
// trust-weighting in display and must always travel with the label.
const (
	OriginValidated = "Validated"
	OriginSuggested = "Suggested"
)

// Enrich assigns an intent label and origin to every row. A manually
// validated override (keyed by normalized keyword) always wins over the rule
// cascade's suggestion. The validated map is owned by the persistence layer
// and is read-only here.
func Enrich(rows []etl.RankingRow, validated map[string]string) {
	for i := range rows {
		norm := NormalizeKeyword(rows[i].Keyword)
		if label, ok := validated[norm]; ok {
			rows[i].Intent = label
			rows[i].IntentOrigin = OriginValidated
			continue
		}
		rows[i].Intent = Infer(rows[i].Keyword).Intent
		rows[i].IntentOrigin = OriginSuggested
	}
}
