package scoring

import (
	"testing"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}

func TestOffensePointsQuarterback(t *testing.T) {
	totals := models.SeasonTotals{
		Passing: &models.PassingTotals{
			Yards:         4000,
			Touchdowns:    30,
			Interceptions: 10,
		},
		Rushing: &models.RushingTotals{
			Yards:      400,
			Touchdowns: 5,
		},
		FumblesLost: 3,
	}

	// 4000*0.04 + 30*4 - 10 + 400*0.1 + 5*6 - 3*2 = 334
	got := OffensePoints(totals, models.ScoringStandard)
	if !almostEqual(got, 334) {
		t.Errorf("OffensePoints = %v, want 334", got)
	}
}

func TestReceptionWeightByFormat(t *testing.T) {
	totals := models.SeasonTotals{
		Receiving: &models.ReceivingTotals{
			Yards:      1000,
			Touchdowns: 8,
			Receptions: 90,
		},
	}

	tests := []struct {
		scoring models.ScoringType
		want    float64
	}{
		{models.ScoringStandard, 148}, // 100 + 48
		{models.ScoringHalfPPR, 193},  // + 45
		{models.ScoringPPR, 238},      // + 90
	}
	for _, tt := range tests {
		if got := OffensePoints(totals, tt.scoring); !almostEqual(got, tt.want) {
			t.Errorf("%s: OffensePoints = %v, want %v", tt.scoring, got, tt.want)
		}
	}
}

func TestOffensePointsNilBlocks(t *testing.T) {
	if got := OffensePoints(models.SeasonTotals{}, models.ScoringPPR); got != 0 {
		t.Errorf("empty totals scored %v, want 0", got)
	}
}

func TestDefensePoints(t *testing.T) {
	totals := models.SeasonTotals{
		Defense: &models.DefenseTotals{
			SoloTackles:      100,
			AssistTackles:    40,
			Sacks:            30,
			Interceptions:    12,
			PassesDefended:   50,
			ForcedFumbles:    8,
			FumbleRecoveries: 6,
			Touchdowns:       3,
		},
	}

	// 150 + 30 + 60 + 36 + 50 + 24 + 12 + 18 = 380
	got := DefensePoints(totals)
	if !almostEqual(got, 380) {
		t.Errorf("DefensePoints = %v, want 380", got)
	}
}

func TestSeasonPointsDispatchesOnPosition(t *testing.T) {
	totals := models.SeasonTotals{
		Receiving: &models.ReceivingTotals{Yards: 100, Receptions: 10},
		Defense:   &models.DefenseTotals{Sacks: 10},
	}

	wr := &models.PlayerRecord{Position: models.PositionWR, Totals: totals}
	if got := SeasonPoints(wr, models.ScoringPPR); !almostEqual(got, 20) {
		t.Errorf("WR SeasonPoints = %v, want 20", got)
	}

	def := &models.PlayerRecord{Position: models.PositionDEF, Totals: totals}
	if got := SeasonPoints(def, models.ScoringPPR); !almostEqual(got, 20) {
		t.Errorf("DEF SeasonPoints = %v, want 20", got)
	}
}

func TestRescore(t *testing.T) {
	p := &models.PlayerRecord{
		Position:    models.PositionRB,
		GamesPlayed: 10,
		Volatility:  0.18,
		Totals: models.SeasonTotals{
			Rushing:   &models.RushingTotals{Yards: 1200, Touchdowns: 10},
			Receiving: &models.ReceivingTotals{Yards: 300, Receptions: 40},
		},
	}

	Rescore(p, models.ScoringHalfPPR)

	// 120 + 60 + 30 + 20 = 230
	if !almostEqual(p.TotalFantasyPoints, 230) {
		t.Errorf("TotalFantasyPoints = %v, want 230", p.TotalFantasyPoints)
	}
	if !almostEqual(p.AvgFantasyPoints, 23) {
		t.Errorf("AvgFantasyPoints = %v, want 23", p.AvgFantasyPoints)
	}
	if p.Volatility != 0.18 {
		t.Errorf("Rescore changed volatility to %v", p.Volatility)
	}
}

func TestRescoreZeroGames(t *testing.T) {
	p := &models.PlayerRecord{Position: models.PositionWR}
	Rescore(p, models.ScoringStandard)
	if p.AvgFantasyPoints != 0 {
		t.Errorf("AvgFantasyPoints = %v, want 0 for zero games", p.AvgFantasyPoints)
	}
}
