package draft

import (
	"fmt"
	"testing"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

func noInjuries(string) bool { return false }

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}

func player(name string, pos models.Position, points, predicted, volatility float64) models.PlayerRecord {
	return models.PlayerRecord{
		Name:               name,
		Team:               "TST",
		Position:           pos,
		TotalFantasyPoints: points,
		PredictedValue:     predicted,
		Volatility:         volatility,
	}
}

// A pool with a clear points ordering per position
func testPool() []models.PlayerRecord {
	pool := []models.PlayerRecord{}
	add := func(pos models.Position, count int, base float64) {
		for i := 0; i < count; i++ {
			pool = append(pool, player(
				fmt.Sprintf("%s %d", pos, i+1),
				pos,
				base-float64(i)*10,
				base*0.3-float64(i),
				0.25,
			))
		}
	}
	add(models.PositionQB, 6, 350)
	add(models.PositionRB, 6, 330)
	add(models.PositionWR, 6, 310)
	add(models.PositionTE, 6, 270)
	return pool
}

func TestRecommendReturnsAtMostTen(t *testing.T) {
	recs := Recommend(testPool(), nil, 1, models.ScoringStandard, noInjuries)
	if len(recs) != 10 {
		t.Fatalf("got %d recommendations, want 10", len(recs))
	}
}

func TestRecommendSortedByValueDescending(t *testing.T) {
	recs := Recommend(testPool(), nil, 1, models.ScoringStandard, noInjuries)
	for i := 1; i < len(recs); i++ {
		if recs[i].Value > recs[i-1].Value {
			t.Errorf("recommendations not sorted: [%d]=%v > [%d]=%v",
				i, recs[i].Value, i-1, recs[i-1].Value)
		}
	}
}

func TestRecommendEmptyPool(t *testing.T) {
	recs := Recommend(nil, nil, 1, models.ScoringPPR, noInjuries)
	if len(recs) != 0 {
		t.Fatalf("got %d recommendations from empty pool, want 0", len(recs))
	}
}

func TestPositionNeeds(t *testing.T) {
	roster := []models.PlayerRecord{
		player("My QB", models.PositionQB, 300, 90, 0.2),
		player("My RB", models.PositionRB, 280, 85, 0.2),
		player("My WR1", models.PositionWR, 260, 80, 0.2),
		player("My WR2", models.PositionWR, 250, 78, 0.2),
		player("My WR3", models.PositionWR, 240, 75, 0.2),
	}

	needs := PositionNeeds(roster, DefaultTargets)

	if needs[models.PositionQB] != 0 {
		t.Errorf("QB need = %d, want 0", needs[models.PositionQB])
	}
	if needs[models.PositionRB] != 1 {
		t.Errorf("RB need = %d, want 1", needs[models.PositionRB])
	}
	// Need can go negative when a position is oversubscribed
	if needs[models.PositionWR] != -1 {
		t.Errorf("WR need = %d, want -1", needs[models.PositionWR])
	}
	if needs[models.PositionTE] != 1 {
		t.Errorf("TE need = %d, want 1", needs[models.PositionTE])
	}
}

func TestNeedMultiplierAppliedOnlyWhenPositive(t *testing.T) {
	pool := []models.PlayerRecord{
		player("Needed RB", models.PositionRB, 200, 100, 0.25),
		player("Filled QB", models.PositionQB, 200, 100, 0.25),
	}
	roster := []models.PlayerRecord{
		player("My QB", models.PositionQB, 300, 90, 0.2),
	}

	recs := Recommend(pool, roster, 1, models.ScoringStandard, noInjuries)

	byName := map[string]models.DraftRecommendation{}
	for _, r := range recs {
		byName[r.Player.Name] = r
	}

	// RB need is 2: value 100 * (1 + 2*0.2) = 140
	if got := byName["Needed RB"].Value; !almostEqual(got, 140) {
		t.Errorf("needed RB value = %v, want 140", got)
	}
	// QB need is 0: no multiplier
	if got := byName["Filled QB"].Value; !almostEqual(got, 100) {
		t.Errorf("filled QB value = %v, want 100", got)
	}
}

func TestLatePickBonus(t *testing.T) {
	pool := []models.PlayerRecord{
		player("Value QB", models.PositionQB, 200, 100, 0.25),
	}
	roster := []models.PlayerRecord{
		player("My QB", models.PositionQB, 300, 90, 0.2),
	}

	early := Recommend(pool, roster, 50, models.ScoringStandard, noInjuries)
	late := Recommend(pool, roster, 51, models.ScoringStandard, noInjuries)

	if !almostEqual(early[0].Value, 100) {
		t.Errorf("pick 50 value = %v, want 100 (no bonus)", early[0].Value)
	}
	if !almostEqual(late[0].Value, 110) {
		t.Errorf("pick 51 value = %v, want 110", late[0].Value)
	}
}

func TestPPRBonusForCatchers(t *testing.T) {
	pool := []models.PlayerRecord{
		player("PPR WR", models.PositionWR, 200, 100, 0.25),
		player("Any QB", models.PositionQB, 200, 100, 0.25),
	}
	roster := []models.PlayerRecord{
		// Fill every need so only format bonuses differ
		player("QB1", models.PositionQB, 1, 1, 0.5),
		player("RB1", models.PositionRB, 1, 1, 0.5),
		player("RB2", models.PositionRB, 1, 1, 0.5),
		player("WR1", models.PositionWR, 1, 1, 0.5),
		player("WR2", models.PositionWR, 1, 1, 0.5),
		player("TE1", models.PositionTE, 1, 1, 0.5),
	}

	recs := Recommend(pool, roster, 1, models.ScoringPPR, noInjuries)
	byName := map[string]float64{}
	for _, r := range recs {
		byName[r.Player.Name] = r.Value
	}

	if !almostEqual(byName["PPR WR"], 105) {
		t.Errorf("PPR WR value = %v, want 105", byName["PPR WR"])
	}
	if !almostEqual(byName["Any QB"], 100) {
		t.Errorf("QB value under PPR = %v, want 100 (no bonus)", byName["Any QB"])
	}
}

func TestInjuryHalvesValueButKeepsTier(t *testing.T) {
	pool := []models.PlayerRecord{
		player("Hurt Star", models.PositionRB, 300, 100, 0.25),
	}
	injured := func(name string) bool { return name == "Hurt Star" }

	recs := RecommendWithTargets(pool, nil, 1, models.ScoringStandard, injured,
		map[models.Position]int{})

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if !almostEqual(recs[0].Value, 50) {
		t.Errorf("injured value = %v, want 50 (halved)", recs[0].Value)
	}
	if recs[0].Tier != 1 {
		t.Errorf("injured tier = %d, want 1 (injury never changes tier)", recs[0].Tier)
	}

	last := recs[0].Reasoning[len(recs[0].Reasoning)-1]
	if last != "⚠️ Currently injured - high risk pick" {
		t.Errorf("final reasoning = %q, want injury warning appended last", last)
	}
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		rank int
		want int
	}{
		{1, 1}, {3, 1},
		{4, 2}, {8, 2},
		{9, 3}, {15, 3},
		{16, 4}, {25, 4},
		{26, 5}, {100, 5},
	}
	for _, tt := range tests {
		if got := TierForRank(tt.rank); got != tt.want {
			t.Errorf("TierForRank(%d) = %d, want %d", tt.rank, got, tt.want)
		}
	}
}

func TestRanksAndReasoning(t *testing.T) {
	recs := Recommend(testPool(), nil, 1, models.ScoringStandard, noInjuries)

	for _, r := range recs {
		if r.PositionRank < 1 || r.PositionRank > 5 {
			t.Errorf("%s position rank %d out of shortlist range", r.Player.Name, r.PositionRank)
		}
		if r.OverallRank < 1 || r.OverallRank > 24 {
			t.Errorf("%s overall rank %d out of pool range", r.Player.Name, r.OverallRank)
		}

		found := false
		want := fmt.Sprintf("Top 5 %s available", r.Player.Position)
		for _, reason := range r.Reasoning {
			if reason == want {
				found = true
			}
		}
		if !found {
			t.Errorf("%s missing top-5 reasoning: %v", r.Player.Name, r.Reasoning)
		}
	}

	// QB 1 leads the pool by points, so it must be overall rank 1
	for _, r := range recs {
		if r.Player.Name == "QB 1" && r.OverallRank != 1 {
			t.Errorf("QB 1 overall rank = %d, want 1", r.OverallRank)
		}
	}
}

// Equal adjusted values keep per-position insertion order: QB before RB
// before WR before TE.
func TestTieBreakIsInsertionOrder(t *testing.T) {
	pool := []models.PlayerRecord{
		player("Tied WR", models.PositionWR, 200, 100, 0.25),
		player("Tied QB", models.PositionQB, 200, 100, 0.25),
		player("Tied RB", models.PositionRB, 200, 100, 0.25),
	}

	recs := RecommendWithTargets(pool, nil, 1, models.ScoringStandard, noInjuries,
		map[models.Position]int{})

	want := []string{"Tied QB", "Tied RB", "Tied WR"}
	for i, name := range want {
		if recs[i].Player.Name != name {
			t.Errorf("recs[%d] = %s, want %s", i, recs[i].Player.Name, name)
		}
	}
}
