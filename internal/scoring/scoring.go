// Package scoring converts raw season stat totals to fantasy points under
// the league's scoring format.
package scoring

import "github.com/gridiron-labs/gridiron-edge/internal/models"

const (
	pointsPerPassingYard  = 0.04
	pointsPerPassingTD    = 4.0
	pointsPerInterception = -1.0
	pointsPerRushRecYard  = 0.1
	pointsPerRushRecTD    = 6.0
	pointsPerFumbleLost   = -2.0

	pointsPerSoloTackle     = 1.5
	pointsPerAssistTackle   = 0.75
	pointsPerSack           = 2.0
	pointsPerDefInt         = 3.0
	pointsPerPassDefended   = 1.0
	pointsPerForcedFumble   = 3.0
	pointsPerFumbleRecovery = 2.0
	pointsPerDefensiveTD    = 6.0
)

// ReceptionWeight returns the per-catch bonus for the scoring format
func ReceptionWeight(scoring models.ScoringType) float64 {
	switch scoring {
	case models.ScoringPPR:
		return 1.0
	case models.ScoringHalfPPR:
		return 0.5
	default:
		return 0
	}
}

// OffensePoints scores an offensive player's season totals. Nil stat blocks
// contribute nothing.
func OffensePoints(totals models.SeasonTotals, scoring models.ScoringType) float64 {
	points := 0.0

	if p := totals.Passing; p != nil {
		points += p.Yards * pointsPerPassingYard
		points += p.Touchdowns * pointsPerPassingTD
		points += p.Interceptions * pointsPerInterception
	}
	if r := totals.Rushing; r != nil {
		points += r.Yards * pointsPerRushRecYard
		points += r.Touchdowns * pointsPerRushRecTD
	}
	if r := totals.Receiving; r != nil {
		points += r.Yards * pointsPerRushRecYard
		points += r.Touchdowns * pointsPerRushRecTD
		points += r.Receptions * ReceptionWeight(scoring)
	}
	points += totals.FumblesLost * pointsPerFumbleLost

	return points
}

// DefensePoints scores a team defense's season totals
func DefensePoints(totals models.SeasonTotals) float64 {
	d := totals.Defense
	if d == nil {
		return 0
	}

	points := d.SoloTackles * pointsPerSoloTackle
	points += d.AssistTackles * pointsPerAssistTackle
	points += d.Sacks * pointsPerSack
	points += d.Interceptions * pointsPerDefInt
	points += d.PassesDefended * pointsPerPassDefended
	points += d.ForcedFumbles * pointsPerForcedFumble
	points += d.FumbleRecoveries * pointsPerFumbleRecovery
	points += d.Touchdowns * pointsPerDefensiveTD

	return points
}

// SeasonPoints dispatches on position: defenses use the defensive table,
// everyone else the offensive one.
func SeasonPoints(p *models.PlayerRecord, scoring models.ScoringType) float64 {
	if p.Position == models.PositionDEF {
		return DefensePoints(p.Totals)
	}
	return OffensePoints(p.Totals, scoring)
}

// Rescore recomputes total and per-game fantasy points for a player under
// the given format, leaving volatility and predictions untouched.
func Rescore(p *models.PlayerRecord, scoring models.ScoringType) {
	p.TotalFantasyPoints = SeasonPoints(p, scoring)
	if p.GamesPlayed > 0 {
		p.AvgFantasyPoints = p.TotalFantasyPoints / float64(p.GamesPlayed)
	} else {
		p.AvgFantasyPoints = 0
	}
}
