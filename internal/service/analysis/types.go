// Package analysis orchestrates the import pipeline and the derived-metric
// views: parse and normalize an export, enrich it with intent labels,
// persist it, and serve SoV / HHI / opportunity / visibility results.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/etl"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/metrics"
)

// ErrNotFound is returned when a project or import does not exist.
var ErrNotFound = errors.New("not found")

// Project is a tracked domain and its competitive context.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MainDomain string    `json:"main_domain"`
	CreatedAt  time.Time `json:"created_at"`
}

// Import is one monthly export ingested for a project. DomainMap is the
// immutable per-import column-role metadata; reloading it with the keyword
// rows reconstructs a dataset equivalent to what was saved.
type Import struct {
	ID        string        `json:"id"`
	ProjectID string        `json:"project_id"`
	Month     string        `json:"month"` // "2026-07"
	Filename  string        `json:"filename"`
	DomainMap etl.DomainMap `json:"domain_map"`
	CreatedAt time.Time     `json:"created_at"`
}

// Repository is the persistence contract. Postgres implements it; tests use
// an in-memory fake. SaveImport must be atomic: a failed save leaves no
// partial state for that import attempt.
type Repository interface {
	CreateProject(ctx context.Context, name, mainDomain string) (*Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)

	SaveImport(ctx context.Context, imp *Import, ds *etl.Dataset) error
	GetImport(ctx context.Context, id string) (*Import, error)
	ListImports(ctx context.Context, projectID string) ([]Import, error)
	LoadDataset(ctx context.Context, importID string) (*etl.Dataset, error)

	ValidatedIntents(ctx context.Context) (map[string]string, error)
	UpsertValidatedIntent(ctx context.Context, keywordNorm, keywordRaw, label string) error
}

// ResultCache caches computed analysis views outside the pure core.
// All methods are best-effort: a cache failure degrades to recomputation.
type ResultCache interface {
	GetAnalysis(ctx context.Context, importID string, v interface{}) (bool, error)
	SetAnalysis(ctx context.Context, importID string, v interface{}) error
	InvalidateImport(ctx context.Context, importID string) error
	InvalidateAll(ctx context.Context) error
}

// Archive stores the raw uploaded export bytes for audit/replay.
type Archive interface {
	SaveRaw(ctx context.Context, importID, filename string, data []byte) error
}

// ImportResult summarizes one ingested export.
type ImportResult struct {
	Import    Import `json:"import"`
	Rows      int    `json:"rows"`
	RowErrors int    `json:"row_errors"`
	// MarketDataAvailable is false when no competitor visibility columns were
	// discovered; SoV/HHI/opportunity views are empty for such imports.
	MarketDataAvailable bool `json:"market_data_available"`
}

// DataQuality reports signal coverage for an import, mirroring the data
// quality banner of the dashboard.
type DataQuality struct {
	Rows               int     `json:"rows"`
	CPCCoveragePct     float64 `json:"cpc_coverage_pct"`
	ValidatedIntentPct float64 `json:"validated_intent_pct"`
	Competitors        int     `json:"competitors"`
}

// AnalysisResult is the full derived view for one import.
type AnalysisResult struct {
	ImportID            string                `json:"import_id"`
	Month               string                `json:"month"`
	MainDomain          string                `json:"main_domain"`
	MarketDataAvailable bool                  `json:"market_data_available"`
	SoV                 []metrics.SoVRecord   `json:"sov"`
	HHI                 float64               `json:"hhi"`
	HHILabel            string                `json:"hhi_label"`
	Opportunities       []metrics.Opportunity `json:"opportunities"`
	DataQuality         DataQuality           `json:"data_quality"`
}

// TrendResult is the hardened visibility series for one domain across a
// project's imports, oldest first.
type TrendResult struct {
	Domain string                  `json:"domain"`
	Months []string                `json:"months"`
	Stats  metrics.VisibilityStats `json:"stats"`
}
