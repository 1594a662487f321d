// Package trade implements the trade fairness evaluator. Given two players it
// produces a directional verdict, a reasoning trail and a confidence score
// from the perspective of the side holding the first player.
package trade

import (
	"fmt"
	"math"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

// InjuredFunc reports whether the named player is currently injured
type InjuredFunc func(name string) bool

const (
	// Rule thresholds. These are the output-compatibility contract of the
	// evaluator; changing any of them changes every downstream verdict.
	valueDiffThreshold      = 10
	pointsDiffThreshold     = 20
	volatilityDiffThreshold = 0.1
	advantageThreshold      = 5

	baseConfidence = 50
	maxConfidence  = 95
)

// Evaluate compares two players and returns a structured assessment.
// Confidence is capped at 95 and has no floor: stacked negative adjustments
// can push it below zero, which callers should surface rather than clamp.
func Evaluate(a, b *models.PlayerRecord, isInjured InjuredFunc) *models.TradeEvaluation {
	valueDiff := a.PredictedValue - b.PredictedValue
	pointsDiff := a.TotalFantasyPoints - b.TotalFantasyPoints
	// Lower volatility is better, so a positive diff favors the first player
	volatilityDiff := b.Volatility - a.Volatility

	reasoning := []string{}
	recommendation := models.TradeNeutral
	confidence := baseConfidence

	// Value analysis
	if math.Abs(valueDiff) > valueDiffThreshold {
		if valueDiff > 0 {
			reasoning = append(reasoning, fmt.Sprintf("%s has significantly higher predicted value (+%.1f)", a.Name, valueDiff))
		} else {
			reasoning = append(reasoning, fmt.Sprintf("%s has significantly higher predicted value (+%.1f)", b.Name, math.Abs(valueDiff)))
		}
		confidence += 15
	}

	// Points analysis
	if math.Abs(pointsDiff) > pointsDiffThreshold {
		if pointsDiff > 0 {
			reasoning = append(reasoning, fmt.Sprintf("%s has scored %.1f more fantasy points", a.Name, pointsDiff))
		} else {
			reasoning = append(reasoning, fmt.Sprintf("%s has scored %.1f more fantasy points", b.Name, math.Abs(pointsDiff)))
		}
		confidence += 10
	}

	// Volatility analysis
	if math.Abs(volatilityDiff) > volatilityDiffThreshold {
		if volatilityDiff > 0 {
			reasoning = append(reasoning, fmt.Sprintf("%s is more consistent (lower volatility)", a.Name))
		} else {
			reasoning = append(reasoning, fmt.Sprintf("%s is more consistent (lower volatility)", b.Name))
		}
		confidence += 10
	}

	// Position considerations
	if a.Position != b.Position {
		reasoning = append(reasoning, fmt.Sprintf("Consider positional needs: %s vs %s", a.Position, b.Position))
	}

	// Injury status. Only an injured first player forces a decline; an
	// injured second player is a buy-low opportunity, not a dealbreaker.
	aInjured := isInjured(a.Name)
	bInjured := isInjured(b.Name)

	declineForced := false
	if aInjured && !bInjured {
		reasoning = append(reasoning, fmt.Sprintf("⚠️ %s is currently injured - high risk trade", a.Name))
		confidence -= 20
		recommendation = models.TradeDecline
		declineForced = true
	} else if !aInjured && bInjured {
		reasoning = append(reasoning, fmt.Sprintf("✅ %s is injured - potential buy-low opportunity", b.Name))
		confidence += 10
	} else if aInjured && bInjured {
		reasoning = append(reasoning, "⚠️ Both players are currently injured")
		confidence -= 10
	}

	// Overall recommendation
	totalAdvantage := valueDiff + pointsDiff*0.1 + volatilityDiff*50

	// A decline forced by injury is absolute: no advantage overrides it
	if !declineForced {
		if totalAdvantage > advantageThreshold {
			recommendation = models.TradeAccept
			reasoning = append(reasoning, fmt.Sprintf("Overall analysis favors %s", a.Name))
		} else if totalAdvantage < -advantageThreshold {
			recommendation = models.TradeDecline
			reasoning = append(reasoning, fmt.Sprintf("Overall analysis favors %s", b.Name))
		} else {
			recommendation = models.TradeNeutral
			reasoning = append(reasoning, "Trade appears fairly balanced")
		}
	}

	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	return &models.TradeEvaluation{
		PlayerA:         a,
		PlayerB:         b,
		ValueDifference: valueDiff,
		Recommendation:  recommendation,
		Reasoning:       reasoning,
		Confidence:      confidence,
	}
}
