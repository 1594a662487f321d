// Package valuation derives the shared player metrics used by the trade
// evaluator and the draft ranker, so neither re-derives ad hoc formulas.
package valuation

import "github.com/gridiron-labs/gridiron-edge/internal/models"

// ConsistencyBucket classifies week-to-week volatility
type ConsistencyBucket string

const (
	ConsistencyHigh   ConsistencyBucket = "High"
	ConsistencyMedium ConsistencyBucket = "Medium"
	ConsistencyLow    ConsistencyBucket = "Low"
)

// UpsideBucket classifies forward-looking upside. There is no Low bucket:
// a player either projects above their points to date or they don't.
type UpsideBucket string

const (
	UpsideHigh   UpsideBucket = "High"
	UpsideMedium UpsideBucket = "Medium"
)

// Grade is a letter performance grade
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
)

// seasonLength is the fixed grading denominator. Grades normalize against a
// full 17-game season rather than games actually played, so partial seasons
// grade lower by construction.
const seasonLength = 17

// minVolatility substitutes for a zero volatility so reciprocal metrics stay
// finite; zero dispersion is treated as the most consistent bucket possible.
const minVolatility = 0.01

// Consistency buckets partition at exactly 0.2 and 0.3
func Consistency(volatility float64) ConsistencyBucket {
	if volatility < 0.2 {
		return ConsistencyHigh
	}
	if volatility < 0.3 {
		return ConsistencyMedium
	}
	return ConsistencyLow
}

// Upside is High when the projection exceeds points already scored,
// meaning the player is undervalued relative to the model.
func Upside(p *models.PlayerRecord) UpsideBucket {
	if p.PredictedValue > p.TotalFantasyPoints {
		return UpsideHigh
	}
	return UpsideMedium
}

// PerformanceGrade grades season production on a per-game basis
func PerformanceGrade(p *models.PlayerRecord) Grade {
	score := p.TotalFantasyPoints / seasonLength
	switch {
	case score >= 20:
		return GradeAPlus
	case score >= 18:
		return GradeA
	case score >= 15:
		return GradeBPlus
	case score >= 12:
		return GradeB
	case score >= 10:
		return GradeCPlus
	default:
		return GradeC
	}
}

// ConsistencyScore is the reciprocal volatility used by derived metrics.
// Zero volatility maps to 1/0.01 instead of dividing by zero.
func ConsistencyScore(volatility float64) float64 {
	if volatility <= 0 {
		volatility = minVolatility
	}
	return 1 / volatility
}
