package postgres

import (
	"context"
	"fmt"
)

// ValidatedIntents returns the manual-override table keyed by normalized
// keyword text.
func (r *Repo) ValidatedIntents(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT keyword_norm, intent FROM seo_validated_intents`)
	if err != nil {
		return nil, fmt.Errorf("load validated intents: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var norm, label string
		if err := rows.Scan(&norm, &label); err != nil {
			return nil, fmt.Errorf("scan validated intent: %w", err)
		}
		out[norm] = label
	}
	return out, rows.Err()
}

func (r *Repo) UpsertValidatedIntent(ctx context.Context, keywordNorm, keywordRaw, label string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO seo_validated_intents (keyword_norm, keyword_raw, intent, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (keyword_norm) DO UPDATE SET
			keyword_raw = EXCLUDED.keyword_raw,
			intent = EXCLUDED.intent,
			updated_at = NOW()
	`, keywordNorm, keywordRaw, label)
	if err != nil {
		return fmt.Errorf("upsert validated intent: %w", err)
	}
	return nil
}
