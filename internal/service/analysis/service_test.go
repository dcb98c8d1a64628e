package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/config"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/etl"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/intent"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/metrics"
)

// memRepo is an in-memory Repository. Datasets round-trip through JSON on
// save and load so tests exercise the same serialization boundary the
// Postgres implementation has.
type memRepo struct {
	seq       int
	projects  map[string]Project
	imports   map[string]Import
	datasets  map[string][]byte
	validated map[string]string
}

func newMemRepo() *memRepo {
	return &memRepo{
		projects:  map[string]Project{},
		imports:   map[string]Import{},
		datasets:  map[string][]byte{},
		validated: map[string]string{},
	}
}

func (m *memRepo) CreateProject(_ context.Context, name, mainDomain string) (*Project, error) {
	m.seq++
	p := Project{
		ID:         fmt.Sprintf("proj-%d", m.seq),
		Name:       name,
		MainDomain: mainDomain,
		CreatedAt:  time.Now(),
	}
	m.projects[p.ID] = p
	return &p, nil
}

func (m *memRepo) GetProject(_ context.Context, id string) (*Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *memRepo) ListProjects(_ context.Context) ([]Project, error) {
	out := make([]Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) SaveImport(_ context.Context, imp *Import, ds *etl.Dataset) error {
	// Same month replaces the previous import under its existing ID,
	// mirroring the Postgres upsert.
	for id, existing := range m.imports {
		if existing.ProjectID == imp.ProjectID && existing.Month == imp.Month {
			imp.ID = id
			break
		}
	}
	data, err := json.Marshal(ds)
	if err != nil {
		return err
	}
	m.imports[imp.ID] = *imp
	m.datasets[imp.ID] = data
	return nil
}

func (m *memRepo) GetImport(_ context.Context, id string) (*Import, error) {
	imp, ok := m.imports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &imp, nil
}

func (m *memRepo) ListImports(_ context.Context, projectID string) ([]Import, error) {
	var out []Import
	for _, imp := range m.imports {
		if imp.ProjectID == projectID {
			out = append(out, imp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

func (m *memRepo) LoadDataset(_ context.Context, importID string) (*etl.Dataset, error) {
	data, ok := m.datasets[importID]
	if !ok {
		return nil, ErrNotFound
	}
	imp := m.imports[importID]
	var ds etl.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, err
	}
	ds.Domains = imp.DomainMap
	return &ds, nil
}

func (m *memRepo) ValidatedIntents(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.validated))
	for k, v := range m.validated {
		out[k] = v
	}
	return out, nil
}

func (m *memRepo) UpsertValidatedIntent(_ context.Context, keywordNorm, _, label string) error {
	m.validated[keywordNorm] = label
	return nil
}

const testExport = "Keyword,Volume,CPC,Visibility [acme.com],Position [acme.com],Visibility [rival.com]\n" +
	"curso de cocina,1000,\"1,50\",20,4,10\n" +
	"comprar horno,500,2.00,30,7,15\n" +
	"que es sous vide,200,,5,1,40\n"

func newTestService(t *testing.T) (*Service, *memRepo, *Project) {
	t.Helper()
	repo := newMemRepo()
	svc := New(repo, nil, nil, config.ScoringConfig{
		Full:           config.ProfileWeights{Uplift: 0.55, Volume: 0.20, CPC: 0.15, Difficulty: 0.10},
		WithCPC:        config.ProfileWeights{Uplift: 0.65, Volume: 0.25, CPC: 0.10},
		WithDifficulty: config.ProfileWeights{Uplift: 0.70, Volume: 0.20, Difficulty: 0.10},
		Base:           config.ProfileWeights{Uplift: 0.70, Volume: 0.30},
	})
	proj, err := svc.CreateProject(context.Background(), "Cooking School", "acme.com")
	require.NoError(t, err)
	return svc, repo, proj
}

func TestCreateProjectValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateProject(context.Background(), "", "acme.com")
	assert.Error(t, err)
	_, err = svc.CreateProject(context.Background(), "name", "")
	assert.Error(t, err)
}

func TestImportFile(t *testing.T) {
	svc, _, proj := newTestService(t)
	ctx := context.Background()

	res, err := svc.ImportFile(ctx, proj.ID, "2026-07", "export.csv", strings.NewReader(testExport))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Rows)
	assert.Zero(t, res.RowErrors)
	assert.True(t, res.MarketDataAvailable)
	assert.Equal(t, "2026-07", res.Import.Month)
	assert.Len(t, res.Import.DomainMap, 2)
	assert.NotEmpty(t, res.Import.ID)
}

func TestImportFileRequiresMonth(t *testing.T) {
	svc, _, proj := newTestService(t)

	_, err := svc.ImportFile(context.Background(), proj.ID, "", "x.csv", strings.NewReader(testExport))
	assert.Error(t, err)
}

func TestImportFileUnknownProject(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ImportFile(context.Background(), "nope", "2026-07", "x.csv", strings.NewReader(testExport))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImportFileSameMonthReplaces(t *testing.T) {
	svc, _, proj := newTestService(t)
	ctx := context.Background()

	first, err := svc.ImportFile(ctx, proj.ID, "2026-07", "v1.csv", strings.NewReader(testExport))
	require.NoError(t, err)
	second, err := svc.ImportFile(ctx, proj.ID, "2026-07", "v2.csv", strings.NewReader(testExport))
	require.NoError(t, err)

	assert.Equal(t, first.Import.ID, second.Import.ID, "re-import of a month keeps the import identity")

	imports, err := svc.ListImports(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "v2.csv", imports[0].Filename)
}

func TestAnalysisRoundTrip(t *testing.T) {
	svc, _, proj := newTestService(t)
	ctx := context.Background()

	res, err := svc.ImportFile(ctx, proj.ID, "2026-07", "export.csv", strings.NewReader(testExport))
	require.NoError(t, err)

	// The persisted dataset must reproduce exactly what direct computation
	// over the freshly parsed file yields.
	direct, err := etl.Parse(strings.NewReader(testExport))
	require.NoError(t, err)
	metrics.EstimateClicks(direct)
	intent.Enrich(direct.Rows, nil)
	wantSoV := metrics.ComputeSoV(direct)
	wantHHI, wantLabel := metrics.ComputeHHI(wantSoV)

	got, err := svc.Analysis(ctx, res.Import.ID)
	require.NoError(t, err)

	assert.Equal(t, res.Import.ID, got.ImportID)
	assert.Equal(t, "acme.com", got.MainDomain)
	assert.True(t, got.MarketDataAvailable)
	assert.Equal(t, wantSoV, got.SoV)
	assert.InDelta(t, wantHHI, got.HHI, 1e-9)
	assert.Equal(t, wantLabel, got.HHILabel)

	// Positions 4 and 7 are in striking distance; position 1 is not.
	require.Len(t, got.Opportunities, 2)
	for _, opp := range got.Opportunities {
		assert.GreaterOrEqual(t, opp.Position, 4)
		assert.LessOrEqual(t, opp.Position, 10)
	}

	assert.Equal(t, 3, got.DataQuality.Rows)
	assert.Equal(t, 2, got.DataQuality.Competitors)
	assert.InDelta(t, 100.0*2/3, got.DataQuality.CPCCoveragePct, 1e-9)
}

func TestAnalysisIsDeterministic(t *testing.T) {
	svc, _, proj := newTestService(t)
	ctx := context.Background()

	res, err := svc.ImportFile(ctx, proj.ID, "2026-07", "export.csv", strings.NewReader(testExport))
	require.NoError(t, err)

	first, err := svc.Analysis(ctx, res.Import.ID)
	require.NoError(t, err)
	second, err := svc.Analysis(ctx, res.Import.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalysisNoMarketData(t *testing.T) {
	svc, _, proj := newTestService(t)
	ctx := context.Background()

	csv := "Keyword,Volume\ncurso de cocina,1000\n"
	res, err := svc.ImportFile(ctx, proj.ID, "2026-07", "solo.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.False(t, res.MarketDataAvailable)

	got, err := svc.Analysis(ctx, res.Import.ID)
	require.NoError(t, err)
	assert.False(t, got.MarketDataAvailable)
	assert.Empty(t, got.SoV)
	assert.Zero(t, got.HHI)
	assert.Equal(t, metrics.MarketCompetitive, got.HHILabel)
	assert.Empty(t, got.Opportunities)
}

func TestValidateIntentAppliesWithoutReimport(t *testing.T) {
	svc, _, proj := newTestService(t)
	ctx := context.Background()

	res, err := svc.ImportFile(ctx, proj.ID, "2026-07", "export.csv", strings.NewReader(testExport))
	require.NoError(t, err)

	before, err := svc.Keywords(ctx, res.Import.ID)
	require.NoError(t, err)
	require.Equal(t, "curso de cocina", before[0].Keyword)
	assert.Equal(t, intent.Commercial, before[0].Intent)
	assert.Equal(t, intent.OriginSuggested, before[0].IntentOrigin)

	require.NoError(t, svc.ValidateIntent(ctx, "Curso de Cocina", intent.Transactional))

	after, err := svc.Keywords(ctx, res.Import.ID)
	require.NoError(t, err)
	assert.Equal(t, intent.Transactional, after[0].Intent)
	assert.Equal(t, intent.OriginValidated, after[0].IntentOrigin)

	view, err := svc.Analysis(ctx, res.Import.ID)
	require.NoError(t, err)
	for _, opp := range view.Opportunities {
		if opp.Keyword == "curso de cocina" {
			assert.Equal(t, intent.Transactional, opp.Intent)
			assert.Equal(t, intent.OriginValidated, opp.IntentOrigin)
		}
	}
}

func TestValidateIntentRejectsUnknownLabel(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ValidateIntent(context.Background(), "curso", "Spectacular")
	assert.Error(t, err)
	err = svc.ValidateIntent(context.Background(), "   ", intent.Commercial)
	assert.Error(t, err)
}

func TestVisibilityTrend(t *testing.T) {
	svc, _, proj := newTestService(t)
	ctx := context.Background()

	exportFor := func(vis int) string {
		return fmt.Sprintf("Keyword,Volume,Visibility [acme.com],Visibility [rival.com]\nkw,100,%d,50\n", vis)
	}
	_, err := svc.ImportFile(ctx, proj.ID, "2026-06", "jun.csv", strings.NewReader(exportFor(10)))
	require.NoError(t, err)
	_, err = svc.ImportFile(ctx, proj.ID, "2026-07", "jul.csv", strings.NewReader(exportFor(50)))
	require.NoError(t, err)

	trend, err := svc.VisibilityTrend(ctx, proj.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "acme.com", trend.Domain, "empty domain falls back to the tracked domain")
	assert.Equal(t, []string{"2026-06", "2026-07"}, trend.Months)
	require.Len(t, trend.Stats.Series, 2)
	assert.InDelta(t, 100.0/6, trend.Stats.Series[0], 1e-9)
	assert.InDelta(t, 50, trend.Stats.Series[1], 1e-9)
	require.NotNil(t, trend.Stats.DeltaPP)
	assert.Greater(t, *trend.Stats.DeltaPP, 0.0)
}
