package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/etl"
)

func TestCTR(t *testing.T) {
	assert.InDelta(t, 0.30, CTR(1), 1e-9)
	assert.InDelta(t, 0.07, CTR(4), 1e-9)
	assert.InDelta(t, 0.018, CTR(10), 1e-9)
	assert.InDelta(t, 0.005, CTR(11), 1e-9)
	assert.InDelta(t, 0.005, CTR(20), 1e-9)
	assert.InDelta(t, 0, CTR(21), 1e-9)
	assert.InDelta(t, 0, CTR(etl.PositionUnranked), 1e-9)
}

func TestCTRTop3Avg(t *testing.T) {
	assert.InDelta(t, (0.30+0.15+0.10)/3, CTRTop3Avg, 1e-9)
}

func TestEstimateClicks(t *testing.T) {
	ds := &etl.Dataset{
		Domains: etl.DomainMap{
			"acme.com":  {Visibility: "Visibility [acme.com]", Position: "Position [acme.com]"},
			"rival.com": {Visibility: "Visibility [rival.com]"},
		},
		Rows: []etl.RankingRow{
			{
				Keyword: "curso de cocina",
				Volume:  1000,
				CPC:     1.5,
				Domains: map[string]etl.DomainMetrics{
					"acme.com":  {Position: 4},
					"rival.com": {Position: etl.PositionUnranked},
				},
			},
		},
	}

	EstimateClicks(ds)

	acme := ds.Rows[0].Domains["acme.com"]
	require.InDelta(t, 70, acme.ClicksEstimate, 1e-9)
	assert.InDelta(t, 105, acme.ValueEstimate, 1e-9)

	rival := ds.Rows[0].Domains["rival.com"]
	assert.Zero(t, rival.ClicksEstimate, "no position column means no estimate")
	assert.Zero(t, rival.ValueEstimate)
}
