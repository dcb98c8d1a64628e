package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/etl"
)

func TestEnrich(t *testing.T) {
	rows := []etl.RankingRow{
		{Keyword: "Cómo Llegar a la Escuela"},
		{Keyword: "curso de cocina"},
	}
	validated := map[string]string{
		"como llegar a la escuela": Transactional,
	}

	Enrich(rows, validated)

	assert.Equal(t, Transactional, rows[0].Intent, "validated override beats the cascade")
	assert.Equal(t, OriginValidated, rows[0].IntentOrigin)
	assert.Equal(t, Commercial, rows[1].Intent)
	assert.Equal(t, OriginSuggested, rows[1].IntentOrigin)
}

func TestEnrichNoValidations(t *testing.T) {
	rows := []etl.RankingRow{{Keyword: "precio matrícula"}}
	Enrich(rows, nil)
	assert.Equal(t, Transactional, rows[0].Intent)
	assert.Equal(t, OriginSuggested, rows[0].IntentOrigin)
}
