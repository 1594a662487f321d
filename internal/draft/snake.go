package draft

import "github.com/gridiron-labs/gridiron-edge/internal/models"

// CalculateCurrentPick fills in the current pick number and which roster is
// on the clock, based on how many picks have been made and the roster order,
// using snake draft logic.
func CalculateCurrentPick(state *models.LeagueState) {
	totalDrafted := len(state.Picks)
	state.CurrentPick = totalDrafted + 1

	if len(state.Rosters) == 0 {
		return
	}

	rosterCount := len(state.Rosters)
	round := totalDrafted / rosterCount
	pickInRound := totalDrafted % rosterCount

	var rosterIndex int
	if round%2 == 0 {
		// Even rounds go forward (0, 1, 2, ...)
		rosterIndex = pickInRound
	} else {
		// Odd rounds go backward (... 2, 1, 0)
		rosterIndex = rosterCount - 1 - pickInRound
	}

	if rosterIndex < len(state.Rosters) {
		state.CurrentRosterID = state.Rosters[rosterIndex].ID
		state.CurrentRosterName = state.Rosters[rosterIndex].Name
	}
}

// PicksForSlot returns the overall pick numbers belonging to a draft slot
// (1-based) over the given number of rounds in a snake draft.
func PicksForSlot(slot, teamCount, rounds int) []int {
	if slot < 1 || teamCount < 1 || slot > teamCount {
		return nil
	}

	picks := make([]int, 0, rounds)
	for round := 1; round <= rounds; round++ {
		if round%2 == 1 {
			picks = append(picks, (round-1)*teamCount+slot)
		} else {
			picks = append(picks, round*teamCount-slot+1)
		}
	}
	return picks
}
