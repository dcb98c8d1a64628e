package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/service/analysis"
)

func (r *Repo) CreateProject(ctx context.Context, name, mainDomain string) (*analysis.Project, error) {
	p := &analysis.Project{ID: uuid.NewString(), Name: name, MainDomain: mainDomain}
	// A project name collision reuses the existing record; the dashboard
	// treats project creation as idempotent by name.
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO seo_projects (id, name, main_domain, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (name) DO UPDATE SET main_domain = EXCLUDED.main_domain
		RETURNING id, created_at
	`, p.ID, name, mainDomain).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (r *Repo) GetProject(ctx context.Context, id string) (*analysis.Project, error) {
	p := &analysis.Project{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, main_domain, created_at FROM seo_projects WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.MainDomain, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, analysis.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *Repo) ListProjects(ctx context.Context) ([]analysis.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, main_domain, created_at FROM seo_projects ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []analysis.Project
	for rows.Next() {
		var p analysis.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.MainDomain, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
