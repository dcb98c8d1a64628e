package metrics

// HHI classification thresholds, in whole-percentage-point units.
// Standard antitrust policy constants; not tunable.
const (
	HHIHighlyConcentrated     = 2500.0
	HHIModeratelyConcentrated = 1500.0
)

// Market concentration labels.
const (
	MarketHighlyConcentrated     = "highly concentrated"
	MarketModeratelyConcentrated = "moderately concentrated"
	MarketCompetitive            = "competitive"
)

// ComputeHHI returns the Herfindahl-Hirschman index over the SoV shares and
// its classification label. Shares must be in [0,100] percentage points: the
// formula is scale-sensitive and must not be silently fed fractions.
func ComputeHHI(sov []SoVRecord) (float64, string) {
	var hhi float64
	for _, rec := range sov {
		hhi += rec.SoVPercent * rec.SoVPercent
	}

	switch {
	case hhi > HHIHighlyConcentrated:
		return hhi, MarketHighlyConcentrated
	case hhi > HHIModeratelyConcentrated:
		return hhi, MarketModeratelyConcentrated
	default:
		return hhi, MarketCompetitive
	}
}
