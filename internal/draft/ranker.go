// Package draft ranks undrafted players against roster needs, position
// scarcity and the league scoring format.
package draft

import (
	"fmt"
	"sort"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

// InjuredFunc reports whether the named player is currently injured
type InjuredFunc func(name string) bool

// DefaultTargets is the baseline roster construction the ranker measures
// needs against: one starting QB and TE, two RBs and WRs.
var DefaultTargets = map[models.Position]int{
	models.PositionQB: 1,
	models.PositionRB: 2,
	models.PositionWR: 2,
	models.PositionTE: 1,
}

const (
	candidatesPerPosition = 5
	maxRecommendations    = 10
	needWeight            = 0.2
	latePickBonus         = 1.1
	latePickThreshold     = 50
	pprBonus              = 1.05
	injuryPenalty         = 0.5
)

// PositionNeeds returns target-minus-rostered counts per skill position.
// Negative values mean the position is already filled or oversubscribed.
func PositionNeeds(roster []models.PlayerRecord, targets map[models.Position]int) map[models.Position]int {
	needs := make(map[models.Position]int, len(targets))
	for pos, target := range targets {
		needs[pos] = target
	}
	for _, p := range roster {
		if _, ok := needs[p.Position]; ok {
			needs[p.Position]--
		}
	}
	return needs
}

// Recommend ranks the available pool with the default roster targets
func Recommend(available, roster []models.PlayerRecord, pickNumber int, scoring models.ScoringType, isInjured InjuredFunc) []models.DraftRecommendation {
	return RecommendWithTargets(available, roster, pickNumber, scoring, isInjured, DefaultTargets)
}

// RecommendWithTargets ranks the available pool and returns up to ten
// candidates sorted by needs-, format- and pick-adjusted value. Candidates
// are gathered per position in QB, RB, WR, TE order, which is also the
// tie-break order for equal values (the sort is stable).
func RecommendWithTargets(available, roster []models.PlayerRecord, pickNumber int, scoring models.ScoringType, isInjured InjuredFunc, targets map[models.Position]int) []models.DraftRecommendation {
	needs := PositionNeeds(roster, targets)

	// Overall ranks come from the whole remaining pool
	overall := make([]models.PlayerRecord, len(available))
	copy(overall, available)
	sort.SliceStable(overall, func(i, j int) bool {
		return overall[i].TotalFantasyPoints > overall[j].TotalFantasyPoints
	})
	overallRank := make(map[string]int, len(overall))
	for i := range overall {
		overallRank[overall[i].Name] = i + 1
	}

	recommendations := []models.DraftRecommendation{}

	for _, position := range models.SkillPositions {
		positionPlayers := []models.PlayerRecord{}
		for _, p := range available {
			if p.Position == position {
				positionPlayers = append(positionPlayers, p)
			}
		}
		sort.SliceStable(positionPlayers, func(i, j int) bool {
			return positionPlayers[i].TotalFantasyPoints > positionPlayers[j].TotalFantasyPoints
		})

		limit := candidatesPerPosition
		if len(positionPlayers) < limit {
			limit = len(positionPlayers)
		}

		for i := 0; i < limit; i++ {
			player := positionPlayers[i]
			positionRank := i + 1
			// Tier reflects scarcity across the full position group, not
			// just the shortlisted candidates
			tier := TierForRank(positionRank)

			value := adjustedValue(&player, pickNumber, scoring, needs)
			reasoning := buildReasoning(&player, needs, tier, positionRank)

			// Injury discounts value but never moves a player's tier
			if isInjured(player.Name) {
				value *= injuryPenalty
				reasoning = append(reasoning, "⚠️ Currently injured - high risk pick")
			}

			p := player
			recommendations = append(recommendations, models.DraftRecommendation{
				Player:       &p,
				Value:        value,
				Tier:         tier,
				PositionRank: positionRank,
				OverallRank:  overallRank[player.Name],
				Reasoning:    reasoning,
			})
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Value > recommendations[j].Value
	})

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

func adjustedValue(p *models.PlayerRecord, pickNumber int, scoring models.ScoringType, needs map[models.Position]int) float64 {
	value := p.PredictedValue

	if need := needs[p.Position]; need > 0 {
		value *= 1 + float64(need)*needWeight
	}

	// Later picks get a bonus for value falling to them
	if pickNumber > latePickThreshold {
		value *= latePickBonus
	}

	if scoring == models.ScoringPPR {
		switch p.Position {
		case models.PositionWR, models.PositionRB, models.PositionTE:
			value *= pprBonus
		}
	}

	return value
}

// TierForRank maps a full-position rank to a scarcity tier, 1 (elite)
// through 5 (replacement level)
func TierForRank(rank int) int {
	switch {
	case rank <= 3:
		return 1
	case rank <= 8:
		return 2
	case rank <= 15:
		return 3
	case rank <= 25:
		return 4
	default:
		return 5
	}
}

func buildReasoning(p *models.PlayerRecord, needs map[models.Position]int, tier, positionRank int) []string {
	reasoning := []string{}

	if needs[p.Position] > 0 {
		reasoning = append(reasoning, fmt.Sprintf("Fills %s need on your roster", p.Position))
	}
	if tier <= 2 {
		reasoning = append(reasoning, fmt.Sprintf("Tier %d player - elite option at %s", tier, p.Position))
	}
	if p.Volatility < 0.2 {
		reasoning = append(reasoning, "Highly consistent performer with low volatility")
	}
	if p.PredictedValue > p.TotalFantasyPoints {
		reasoning = append(reasoning, "Projected for positive regression - good value")
	}
	if positionRank <= candidatesPerPosition {
		reasoning = append(reasoning, fmt.Sprintf("Top 5 %s available", p.Position))
	}

	return reasoning
}
