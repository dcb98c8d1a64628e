// Package postgres implements analysis.Repository against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Repo is a Postgres-backed analysis repository.
type Repo struct{ db *sql.DB }

// New creates a Postgres-backed repository.
func New(db *sql.DB) *Repo { return &Repo{db: db} }

// EnsureSchema creates the tables if they do not exist. Keyword metrics are
// denormalized: the per-domain block rides as JSONB next to the scalar
// columns, which keeps reload a single scan per row.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS seo_projects (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			main_domain TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS seo_imports (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES seo_projects(id),
			month TEXT NOT NULL,
			filename TEXT NOT NULL DEFAULT '',
			domain_map JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (project_id, month)
		)`,
		`CREATE TABLE IF NOT EXISTS seo_keyword_metrics (
			id BIGSERIAL PRIMARY KEY,
			import_id UUID NOT NULL REFERENCES seo_imports(id) ON DELETE CASCADE,
			keyword TEXT NOT NULL,
			volume INTEGER NOT NULL DEFAULT 0,
			difficulty INTEGER NOT NULL DEFAULT 0,
			intent TEXT NOT NULL DEFAULT '',
			intent_origin TEXT NOT NULL DEFAULT '',
			cpc DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_branded BOOLEAN NOT NULL DEFAULT FALSE,
			domain_data JSONB NOT NULL DEFAULT '{}'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_seo_keyword_metrics_import ON seo_keyword_metrics(import_id)`,
		`CREATE TABLE IF NOT EXISTS seo_validated_intents (
			keyword_norm TEXT PRIMARY KEY,
			keyword_raw TEXT NOT NULL,
			intent TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
