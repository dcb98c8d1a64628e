package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/etl"
	"github.com/Webyseo/seo-dashboard-3e3t22/internal/service/analysis"
)

// SaveImport persists an import and its keyword rows in one transaction.
// Re-importing the same (project, month) replaces the previous rows and
// keeps the existing import id, so downstream references stay stable.
// Nothing is persisted if any step fails.
func (r *Repo) SaveImport(ctx context.Context, imp *analysis.Import, ds *etl.Dataset) error {
	domainMapJSON, err := json.Marshal(imp.DomainMap)
	if err != nil {
		return fmt.Errorf("marshal domain map: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save import: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO seo_imports (id, project_id, month, filename, domain_map, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (project_id, month) DO UPDATE SET
			filename = EXCLUDED.filename,
			domain_map = EXCLUDED.domain_map,
			created_at = NOW()
		RETURNING id, created_at
	`, imp.ID, imp.ProjectID, imp.Month, imp.Filename, domainMapJSON).Scan(&imp.ID, &imp.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert import: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM seo_keyword_metrics WHERE import_id = $1`, imp.ID); err != nil {
		return fmt.Errorf("clear previous metrics: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO seo_keyword_metrics
			(import_id, keyword, volume, difficulty, intent, intent_origin, cpc, is_branded, domain_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("prepare metrics insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range ds.Rows {
		domainJSON, err := json.Marshal(row.Domains)
		if err != nil {
			return fmt.Errorf("marshal domain data for %q: %w", row.Keyword, err)
		}
		if _, err := stmt.ExecContext(ctx,
			imp.ID, row.Keyword, row.Volume, row.Difficulty,
			row.Intent, row.IntentOrigin, row.CPC, row.IsBranded, domainJSON,
		); err != nil {
			return fmt.Errorf("insert metrics for %q: %w", row.Keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save import: %w", err)
	}
	return nil
}

func (r *Repo) GetImport(ctx context.Context, id string) (*analysis.Import, error) {
	imp := &analysis.Import{}
	var domainMapJSON []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, month, filename, domain_map, created_at
		FROM seo_imports WHERE id = $1
	`, id).Scan(&imp.ID, &imp.ProjectID, &imp.Month, &imp.Filename, &domainMapJSON, &imp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, analysis.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get import: %w", err)
	}
	if err := json.Unmarshal(domainMapJSON, &imp.DomainMap); err != nil {
		return nil, fmt.Errorf("unmarshal domain map: %w", err)
	}
	return imp, nil
}

func (r *Repo) ListImports(ctx context.Context, projectID string) ([]analysis.Import, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, month, filename, domain_map, created_at
		FROM seo_imports WHERE project_id = $1 ORDER BY month DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var out []analysis.Import
	for rows.Next() {
		var imp analysis.Import
		var domainMapJSON []byte
		if err := rows.Scan(&imp.ID, &imp.ProjectID, &imp.Month, &imp.Filename, &domainMapJSON, &imp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		if err := json.Unmarshal(domainMapJSON, &imp.DomainMap); err != nil {
			return nil, fmt.Errorf("unmarshal domain map: %w", err)
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

// LoadDataset reconstructs the parsed dataset for an import. The result is
// computation-equivalent to the dataset that was saved: identical SoV and
// opportunity outputs.
func (r *Repo) LoadDataset(ctx context.Context, importID string) (*etl.Dataset, error) {
	imp, err := r.GetImport(ctx, importID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT keyword, volume, difficulty, intent, intent_origin, cpc, is_branded, domain_data
		FROM seo_keyword_metrics WHERE import_id = $1 ORDER BY id
	`, importID)
	if err != nil {
		return nil, fmt.Errorf("load keyword metrics: %w", err)
	}
	defer rows.Close()

	ds := &etl.Dataset{Domains: imp.DomainMap}
	for rows.Next() {
		var row etl.RankingRow
		var domainJSON []byte
		if err := rows.Scan(&row.Keyword, &row.Volume, &row.Difficulty,
			&row.Intent, &row.IntentOrigin, &row.CPC, &row.IsBranded, &domainJSON); err != nil {
			return nil, fmt.Errorf("scan keyword metrics: %w", err)
		}
		if err := json.Unmarshal(domainJSON, &row.Domains); err != nil {
			return nil, fmt.Errorf("unmarshal domain data: %w", err)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, rows.Err()
}
