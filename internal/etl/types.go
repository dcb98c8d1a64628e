// Package etl turns raw rank-tracking exports into a typed dataset.
//
// The exports come from several third-party tools with no stable schema:
// Spanish or English headers, bracketed or prefixed competitor columns,
// U.S. or European number formats, sometimes in the same file. Resolution
// is therefore pattern-based and every cell parse degrades to a safe
// default instead of failing the import.
package etl

// PositionUnranked is the sentinel rank for "not ranked / unparseable".
// It sorts after every real rank and maps to a zero CTR, so downstream
// arithmetic treats it uniformly as beyond the tracked range.
const PositionUnranked = 101

// StandardColumns maps the standard metric roles to the raw header that
// provides them. An empty name means the export carries no such column and
// the metric defaults to zero for every row.
type StandardColumns struct {
	Keyword    string `json:"keyword"`
	Volume     string `json:"volume,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Intent     string `json:"intent,omitempty"`
	CPC        string `json:"cpc,omitempty"`
}

// DomainColumns records which raw headers carry one competitor's metrics.
// Visibility is always set: a domain is only registered when a visibility
// column anchors it. Position and Traffic are optional enrichments; an empty
// name means "unknown", never zero.
type DomainColumns struct {
	Visibility string `json:"visibility"`
	Position   string `json:"position,omitempty"`
	Traffic    string `json:"traffic,omitempty"`
}

// HasPosition reports whether the export carries a rank column for this domain.
func (d DomainColumns) HasPosition() bool { return d.Position != "" }

// DomainMap maps each discovered competitor domain to its column roles.
// It is built once per import, immutable afterward, and persisted alongside
// the import's keyword rows.
type DomainMap map[string]DomainColumns

// DomainMetrics is one domain's observation for one keyword row.
type DomainMetrics struct {
	Position       int     `json:"pos"`
	Visibility     float64 `json:"vis"`
	ClicksEstimate float64 `json:"clicks"`
	ValueEstimate  float64 `json:"value"`
}

// RankingRow is one keyword's observation for one import. Keyword is the
// grouping identity; duplicates in the raw input are preserved, not merged.
type RankingRow struct {
	Keyword      string                   `json:"keyword"`
	Volume       int                      `json:"volume"`
	Difficulty   int                      `json:"difficulty"`
	Intent       string                   `json:"intent"`
	IntentOrigin string                   `json:"intent_origin,omitempty"`
	CPC          float64                  `json:"cpc"`
	IsBranded    bool                     `json:"is_branded"`
	Domains      map[string]DomainMetrics `json:"domains"`
}

// Dataset is the parsed, normalized form of one export file.
type Dataset struct {
	Rows    []RankingRow
	Domains DomainMap
	Columns StandardColumns

	// RowErrors counts data rows dropped for having no usable keyword cell.
	RowErrors int
}
