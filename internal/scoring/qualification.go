package scoring

const (
	DefaultQualificationThreshold = 50
	MinScore                      = 0.0
	MaxScore                      = 100.0
)

// Qualifies reports whether a score meets the threshold. The boundary is
// inclusive and out-of-range scores are compared as-is.
func Qualifies(score, threshold float64) bool {
	return score >= threshold
}

// ScoreInRange reports whether a score lies in [0, 100].
func ScoreInRange(score float64) bool {
	return score >= MinScore && score <= MaxScore
}

type ScoreBand string

const (
	BandHigh   ScoreBand = "high"
	BandMedium ScoreBand = "medium"
	BandLow    ScoreBand = "low"
)

// BandFor buckets a score for display.
func BandFor(score float64) ScoreBand {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 50:
		return BandMedium
	default:
		return BandLow
	}
}
