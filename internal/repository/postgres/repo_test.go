package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/etl"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/service/analysis"
)

func newMockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func sampleDataset() *etl.Dataset {
	return &etl.Dataset{
		Domains: etl.DomainMap{
			"acme.com": {Visibility: "Visibility [acme.com]", Position: "Position [acme.com]"},
		},
		Rows: []etl.RankingRow{
			{
				Keyword: "curso de cocina", Volume: 1000, Difficulty: 30,
				Intent: "Commercial", IntentOrigin: "Suggested", CPC: 1.5,
				Domains: map[string]etl.DomainMetrics{"acme.com": {Position: 4, Visibility: 20}},
			},
			{
				Keyword: "comprar horno", Volume: 500,
				Intent: "Transactional", IntentOrigin: "Suggested",
				Domains: map[string]etl.DomainMetrics{"acme.com": {Position: 7, Visibility: 30}},
			},
		},
	}
}

func TestSaveImport(t *testing.T) {
	repo, mock := newMockRepo(t)
	ds := sampleDataset()
	imp := &analysis.Import{
		ID: "new-id", ProjectID: "proj-1", Month: "2026-07",
		Filename: "export.csv", DomainMap: ds.Domains,
	}
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO seo_imports").
		WithArgs("new-id", "proj-1", "2026-07", "export.csv", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("existing-id", now))
	mock.ExpectExec("DELETE FROM seo_keyword_metrics").
		WithArgs("existing-id").
		WillReturnResult(sqlmock.NewResult(0, 5))
	prep := mock.ExpectPrepare("INSERT INTO seo_keyword_metrics")
	prep.ExpectExec().
		WithArgs("existing-id", "curso de cocina", 1000, 30, "Commercial", "Suggested", 1.5, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("existing-id", "comprar horno", 500, 0, "Transactional", "Suggested", 0.0, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveImport(context.Background(), imp, ds))
	assert.Equal(t, "existing-id", imp.ID, "month conflict adopts the existing import id")
	assert.Equal(t, now, imp.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveImportRollsBackOnFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	ds := sampleDataset()
	imp := &analysis.Import{ID: "new-id", ProjectID: "proj-1", Month: "2026-07", DomainMap: ds.Domains}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO seo_imports").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("new-id", time.Now()))
	mock.ExpectExec("DELETE FROM seo_keyword_metrics").
		WillReturnResult(sqlmock.NewResult(0, 0))
	prep := mock.ExpectPrepare("INSERT INTO seo_keyword_metrics")
	prep.ExpectExec().WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.SaveImport(context.Background(), imp, ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "curso de cocina")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetImport(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, project_id, month, filename, domain_map, created_at FROM seo_imports").
		WithArgs("imp-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "month", "filename", "domain_map", "created_at"}).
			AddRow("imp-1", "proj-1", "2026-07", "export.csv",
				[]byte(`{"acme.com":{"visibility":"Visibility [acme.com]","position":"Position [acme.com]"}}`), now))

	imp, err := repo.GetImport(context.Background(), "imp-1")
	require.NoError(t, err)
	assert.Equal(t, "2026-07", imp.Month)
	require.Contains(t, imp.DomainMap, "acme.com")
	assert.True(t, imp.DomainMap["acme.com"].HasPosition())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetImportNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, project_id, month, filename, domain_map, created_at FROM seo_imports").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetImport(context.Background(), "missing")
	assert.ErrorIs(t, err, analysis.ErrNotFound)
}

func TestGetProjectNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, name, main_domain, created_at FROM seo_projects").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetProject(context.Background(), "missing")
	assert.ErrorIs(t, err, analysis.ErrNotFound)
}

func TestLoadDataset(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, project_id, month, filename, domain_map, created_at FROM seo_imports").
		WithArgs("imp-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "month", "filename", "domain_map", "created_at"}).
			AddRow("imp-1", "proj-1", "2026-07", "export.csv",
				[]byte(`{"acme.com":{"visibility":"Visibility [acme.com]","position":"Position [acme.com]"}}`), now))
	mock.ExpectQuery("SELECT keyword, volume, difficulty, intent, intent_origin, cpc, is_branded, domain_data FROM seo_keyword_metrics").
		WithArgs("imp-1").
		WillReturnRows(sqlmock.NewRows([]string{"keyword", "volume", "difficulty", "intent", "intent_origin", "cpc", "is_branded", "domain_data"}).
			AddRow("curso de cocina", 1000, 30, "Commercial", "Suggested", 1.5, false,
				[]byte(`{"acme.com":{"pos":4,"vis":20,"clicks":70,"value":105}}`)).
			AddRow("comprar horno", 500, 0, "Transactional", "Suggested", 0.0, false,
				[]byte(`{"acme.com":{"pos":7,"vis":30,"clicks":15,"value":0}}`)))

	ds, err := repo.LoadDataset(context.Background(), "imp-1")
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "curso de cocina", ds.Rows[0].Keyword)
	assert.Equal(t, 4, ds.Rows[0].Domains["acme.com"].Position)
	assert.InDelta(t, 70, ds.Rows[0].Domains["acme.com"].ClicksEstimate, 1e-9)
	assert.True(t, ds.Domains["acme.com"].HasPosition())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidatedIntents(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT keyword_norm, intent FROM seo_validated_intents").
		WillReturnRows(sqlmock.NewRows([]string{"keyword_norm", "intent"}).
			AddRow("curso de cocina", "Transactional").
			AddRow("que es sous vide", "Informational"))

	got, err := repo.ValidatedIntents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"curso de cocina":  "Transactional",
		"que es sous vide": "Informational",
	}, got)
}

func TestUpsertValidatedIntent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO seo_validated_intents").
		WithArgs("curso de cocina", "Curso de Cocina", "Transactional").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpsertValidatedIntent(context.Background(), "curso de cocina", "Curso de Cocina", "Transactional"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProject(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO seo_projects").
		WithArgs(sqlmock.AnyArg(), "Cooking School", "acme.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("proj-1", now))

	p, err := repo.CreateProject(context.Background(), "Cooking School", "acme.com")
	require.NoError(t, err)
	assert.Equal(t, "proj-1", p.ID)
	assert.Equal(t, "acme.com", p.MainDomain)
	assert.NoError(t, mock.ExpectationsWereMet())
}
