package draft

import (
	"fmt"
	"testing"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

func leagueWithRosters(count int) *models.LeagueState {
	state := &models.LeagueState{}
	for i := 0; i < count; i++ {
		state.Rosters = append(state.Rosters, models.Roster{
			ID:   fmt.Sprintf("roster_%d", i+1),
			Name: fmt.Sprintf("Team %d", i+1),
		})
	}
	return state
}

func TestCalculateCurrentPickSnakes(t *testing.T) {
	tests := []struct {
		drafted    int
		wantPick   int
		wantRoster string
	}{
		{0, 1, "roster_1"},
		{1, 2, "roster_2"},
		{3, 4, "roster_4"},
		// Round two reverses
		{4, 5, "roster_4"},
		{7, 8, "roster_1"},
		// Round three goes forward again
		{8, 9, "roster_1"},
		{11, 12, "roster_4"},
	}

	for _, tt := range tests {
		state := leagueWithRosters(4)
		for i := 0; i < tt.drafted; i++ {
			state.Picks = append(state.Picks, models.DraftPick{Number: i + 1})
		}

		CalculateCurrentPick(state)

		if state.CurrentPick != tt.wantPick {
			t.Errorf("after %d picks: CurrentPick = %d, want %d", tt.drafted, state.CurrentPick, tt.wantPick)
		}
		if state.CurrentRosterID != tt.wantRoster {
			t.Errorf("after %d picks: CurrentRosterID = %s, want %s", tt.drafted, state.CurrentRosterID, tt.wantRoster)
		}
	}
}

func TestCalculateCurrentPickNoRosters(t *testing.T) {
	state := &models.LeagueState{}
	CalculateCurrentPick(state)

	if state.CurrentPick != 1 {
		t.Errorf("CurrentPick = %d, want 1", state.CurrentPick)
	}
	if state.CurrentRosterID != "" {
		t.Errorf("CurrentRosterID = %q, want empty", state.CurrentRosterID)
	}
}

func TestPicksForSlot(t *testing.T) {
	// Slot 3 of 12 teams: 3, 22, 27, 46, ...
	picks := PicksForSlot(3, 12, 4)
	want := []int{3, 22, 27, 46}

	if len(picks) != len(want) {
		t.Fatalf("got %d picks, want %d", len(picks), len(want))
	}
	for i := range want {
		if picks[i] != want[i] {
			t.Errorf("picks[%d] = %d, want %d", i, picks[i], want[i])
		}
	}
}

func TestPicksForSlotInvalid(t *testing.T) {
	if picks := PicksForSlot(0, 12, 4); picks != nil {
		t.Errorf("slot 0 should return nil, got %v", picks)
	}
	if picks := PicksForSlot(13, 12, 4); picks != nil {
		t.Errorf("slot beyond team count should return nil, got %v", picks)
	}
}
