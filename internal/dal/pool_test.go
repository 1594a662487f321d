package dal

import (
	"testing"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

func TestAvailableExcludesDrafted(t *testing.T) {
	players := DemoPlayers()
	picks := []models.DraftPick{
		{Number: 1, PlayerName: "Josh Allen", RosterID: "roster_1"},
		{Number: 2, PlayerName: "Saquon Barkley", RosterID: "roster_1"},
	}

	available := Available(players, picks)

	if len(available) != len(players)-2 {
		t.Fatalf("available = %d, want %d", len(available), len(players)-2)
	}
	for _, p := range available {
		if p.Name == "Josh Allen" || p.Name == "Saquon Barkley" {
			t.Errorf("drafted player %s still available", p.Name)
		}
	}
}

func TestByPosition(t *testing.T) {
	wrs := ByPosition(DemoPlayers(), models.PositionWR)
	if len(wrs) != 3 {
		t.Fatalf("WR count = %d, want 3", len(wrs))
	}
	for _, p := range wrs {
		if p.Position != models.PositionWR {
			t.Errorf("%s has position %s", p.Name, p.Position)
		}
	}
}

func TestTopPlayers(t *testing.T) {
	top := TopPlayers(DemoPlayers(), 3)

	want := []string{"Josh Allen", "Saquon Barkley", "Lamar Jackson"}
	if len(top) != 3 {
		t.Fatalf("got %d players, want 3", len(top))
	}
	for i, name := range want {
		if top[i].Name != name {
			t.Errorf("top[%d] = %s, want %s", i, top[i].Name, name)
		}
	}
}

func TestTopPlayersSmallPool(t *testing.T) {
	pool := DemoPlayers()[:2]
	if got := TopPlayers(pool, 10); len(got) != 2 {
		t.Errorf("got %d players, want whole pool of 2", len(got))
	}
}

func TestSearchByNameAndTeam(t *testing.T) {
	players := DemoPlayers()

	byName := Search(players, "allen")
	if len(byName) != 1 || byName[0].Name != "Josh Allen" {
		t.Errorf("Search(allen) = %v", byName)
	}

	byTeam := Search(players, "BAL")
	if len(byTeam) != 2 {
		t.Errorf("Search(BAL) matched %d, want 2", len(byTeam))
	}

	all := Search(players, "  ")
	if len(all) != len(players) {
		t.Errorf("blank query matched %d, want everyone", len(all))
	}
}

func TestReplacementSuggestions(t *testing.T) {
	players := DemoPlayers()
	injured := func(name string) bool { return name == "Christian McCaffrey" }

	var mccaffrey *models.PlayerRecord
	for i := range players {
		if players[i].Name == "Christian McCaffrey" {
			mccaffrey = &players[i]
		}
	}

	suggestions := ReplacementSuggestions(players, mccaffrey, injured)

	// The two healthy demo RBs, best predicted value first
	want := []string{"Saquon Barkley", "Derrick Henry"}
	if len(suggestions) != len(want) {
		t.Fatalf("suggestions = %v, want %v", suggestions, want)
	}
	for i, name := range want {
		if suggestions[i].Name != name {
			t.Errorf("suggestions[%d] = %s, want %s", i, suggestions[i].Name, name)
		}
	}
	for _, s := range suggestions {
		if s.Name == mccaffrey.Name {
			t.Error("player suggested as their own replacement")
		}
	}
}
