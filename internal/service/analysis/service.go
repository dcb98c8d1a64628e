package analysis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/config"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/etl"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/intent"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/metrics"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/pkg/logger"
)

// Service wires the ETL core to persistence, caching and the raw archive.
// The core computations stay pure; all side effects live here.
type Service struct {
	repo    Repository
	cache   ResultCache
	archive Archive
	weights config.ScoringConfig
}

// New creates an analysis service. cache and archive may be nil; the service
// then recomputes every view and skips raw-export archiving.
func New(repo Repository, cache ResultCache, archive Archive, weights config.ScoringConfig) *Service {
	return &Service{repo: repo, cache: cache, archive: archive, weights: weights}
}

// CreateProject registers a tracked domain.
func (s *Service) CreateProject(ctx context.Context, name, mainDomain string) (*Project, error) {
	if name == "" || mainDomain == "" {
		return nil, fmt.Errorf("project name and main domain are required")
	}
	return s.repo.CreateProject(ctx, name, mainDomain)
}

// ListProjects returns all projects.
func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	return s.repo.ListProjects(ctx)
}

// ListImports returns a project's imports, newest month first.
func (s *Service) ListImports(ctx context.Context, projectID string) ([]Import, error) {
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListImports(ctx, projectID)
}

// ImportFile ingests one monthly export: parse, estimate clicks, enrich
// intent, persist atomically, archive the raw bytes and drop any cached view
// for the replaced month. Structural file problems abort before anything is
// persisted.
func (s *Service) ImportFile(ctx context.Context, projectID, month, filename string, r io.Reader) (*ImportResult, error) {
	if month == "" {
		return nil, fmt.Errorf("import month is required")
	}
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	ds, err := etl.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}

	metrics.EstimateClicks(ds)
	intent.Enrich(ds.Rows, s.validatedIntents(ctx))

	imp := &Import{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Month:     month,
		Filename:  filename,
		DomainMap: ds.Domains,
	}
	if err := s.repo.SaveImport(ctx, imp, ds); err != nil {
		return nil, fmt.Errorf("save import: %w", err)
	}

	if s.archive != nil {
		if err := s.archive.SaveRaw(ctx, imp.ID, filename, data); err != nil {
			logger.Warn("raw export archive failed", "import_id", imp.ID, "error", err.Error())
		}
	}
	s.invalidateImport(ctx, imp.ID)

	if len(ds.Domains) == 0 {
		logger.Warn("no competitor visibility columns discovered, market comparison unavailable",
			"import_id", imp.ID, "filename", filename)
	}

	return &ImportResult{
		Import:              *imp,
		Rows:                len(ds.Rows),
		RowErrors:           ds.RowErrors,
		MarketDataAvailable: len(ds.Domains) > 0,
	}, nil
}

// Analysis computes (or serves from cache) the full derived view for an
// import: SoV ranking, HHI with its classification, and the opportunity
// list. Intent overrides validated since the import are re-applied, so a
// fresh validation shows up without re-importing.
func (s *Service) Analysis(ctx context.Context, importID string) (*AnalysisResult, error) {
	if s.cache != nil {
		var cached AnalysisResult
		if ok, err := s.cache.GetAnalysis(ctx, importID, &cached); err != nil {
			logger.Warn("analysis cache read failed", "import_id", importID, "error", err.Error())
		} else if ok {
			return &cached, nil
		}
	}

	imp, err := s.repo.GetImport(ctx, importID)
	if err != nil {
		return nil, err
	}
	proj, err := s.repo.GetProject(ctx, imp.ProjectID)
	if err != nil {
		return nil, err
	}
	ds, err := s.repo.LoadDataset(ctx, importID)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	validated := s.validatedIntents(ctx)
	intent.Enrich(ds.Rows, validated)

	sov := metrics.ComputeSoV(ds)
	hhi, hhiLabel := metrics.ComputeHHI(sov)

	result := &AnalysisResult{
		ImportID:            importID,
		Month:               imp.Month,
		MainDomain:          proj.MainDomain,
		MarketDataAvailable: len(ds.Domains) > 0,
		SoV:                 sov,
		HHI:                 hhi,
		HHILabel:            hhiLabel,
		Opportunities:       metrics.ComputeOpportunities(ds, proj.MainDomain, s.weights),
		DataQuality:         dataQuality(ds),
	}

	if s.cache != nil {
		if err := s.cache.SetAnalysis(ctx, importID, result); err != nil {
			logger.Warn("analysis cache write failed", "import_id", importID, "error", err.Error())
		}
	}
	return result, nil
}

// Keywords returns an import's rows with current intent labels and origins.
func (s *Service) Keywords(ctx context.Context, importID string) ([]etl.RankingRow, error) {
	ds, err := s.repo.LoadDataset(ctx, importID)
	if err != nil {
		return nil, err
	}
	intent.Enrich(ds.Rows, s.validatedIntents(ctx))
	return ds.Rows, nil
}

// VisibilityTrend recomputes the SoV series for one domain across a
// project's imports and hardens it for display. domain may be empty, in
// which case the project's tracked domain is used.
func (s *Service) VisibilityTrend(ctx context.Context, projectID, domain string) (*TrendResult, error) {
	proj, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if domain == "" {
		domain = proj.MainDomain
	}

	imports, err := s.repo.ListImports(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sort.Slice(imports, func(i, j int) bool { return imports[i].Month < imports[j].Month })

	months := make([]string, 0, len(imports))
	series := make([]float64, 0, len(imports))
	for _, imp := range imports {
		ds, err := s.repo.LoadDataset(ctx, imp.ID)
		if err != nil {
			return nil, fmt.Errorf("load dataset for %s: %w", imp.Month, err)
		}
		for _, rec := range metrics.ComputeSoV(ds) {
			if rec.Domain == domain {
				months = append(months, imp.Month)
				series = append(series, rec.SoVPercent)
				break
			}
		}
	}

	return &TrendResult{
		Domain: domain,
		Months: months,
		Stats:  metrics.HardenVisibility(series),
	}, nil
}

// ValidateIntent records a manual intent override for a keyword. The label
// must be one of the canonical intent categories. Cached views are dropped
// because intent priority feeds opportunity ordering.
func (s *Service) ValidateIntent(ctx context.Context, keyword, label string) error {
	switch label {
	case intent.Navigational, intent.Transactional, intent.Commercial, intent.Informational, intent.Mixed:
	default:
		return fmt.Errorf("unknown intent label %q", label)
	}
	norm := intent.NormalizeKeyword(keyword)
	if norm == "" {
		return fmt.Errorf("keyword is required")
	}
	if err := s.repo.UpsertValidatedIntent(ctx, norm, keyword, label); err != nil {
		return fmt.Errorf("save validated intent: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			logger.Warn("cache invalidation failed after intent validation", "error", err.Error())
		}
	}
	return nil
}

// validatedIntents loads the manual-override table. Enrichment is read-only
// over it, so a persistence hiccup degrades to suggestions-only rather than
// failing the caller.
func (s *Service) validatedIntents(ctx context.Context) map[string]string {
	validated, err := s.repo.ValidatedIntents(ctx)
	if err != nil {
		logger.Warn("validated intents unavailable, using suggestions only", "error", err.Error())
		return map[string]string{}
	}
	return validated
}

func (s *Service) invalidateImport(ctx context.Context, importID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateImport(ctx, importID); err != nil {
		logger.Warn("cache invalidation failed", "import_id", importID, "error", err.Error())
	}
}

func dataQuality(ds *etl.Dataset) DataQuality {
	dq := DataQuality{Rows: len(ds.Rows), Competitors: len(ds.Domains)}
	if len(ds.Rows) == 0 {
		return dq
	}
	withCPC, validated := 0, 0
	for _, row := range ds.Rows {
		if row.CPC > 0 {
			withCPC++
		}
		if row.IntentOrigin == intent.OriginValidated {
			validated++
		}
	}
	dq.CPCCoveragePct = float64(withCPC) / float64(len(ds.Rows)) * 100
	dq.ValidatedIntentPct = float64(validated) / float64(len(ds.Rows)) * 100
	return dq
}
