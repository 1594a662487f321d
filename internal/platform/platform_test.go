package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridiron-labs/gridiron-edge/internal/logger"
)

func init() {
	// Initialize logger for tests
	logger.Init()
}

func TestMockClientLeague(t *testing.T) {
	client := NewMockClient()

	league, err := client.GetLeague(context.Background(), "league_123")
	if err != nil {
		t.Fatalf("GetLeague: %v", err)
	}
	if league.LeagueID != "league_123" {
		t.Errorf("LeagueID = %s", league.LeagueID)
	}
	if league.TotalRosters != 12 {
		t.Errorf("TotalRosters = %d, want 12", league.TotalRosters)
	}
	if league.ScoringSettings["rec"] != 1 {
		t.Errorf("rec setting = %v, want 1 (PPR)", league.ScoringSettings["rec"])
	}
}

func TestMockClientRostersAndUsersAlign(t *testing.T) {
	client := NewMockClient()
	ctx := context.Background()

	users, err := client.GetUsers(ctx, "league_123")
	if err != nil {
		t.Fatalf("GetUsers: %v", err)
	}
	rosters, err := client.GetRosters(ctx, "league_123")
	if err != nil {
		t.Fatalf("GetRosters: %v", err)
	}

	if len(users) != len(rosters) {
		t.Fatalf("%d users vs %d rosters", len(users), len(rosters))
	}

	userIDs := map[string]bool{}
	for _, u := range users {
		userIDs[u.UserID] = true
	}
	for _, r := range rosters {
		if !userIDs[r.OwnerID] {
			t.Errorf("roster %d owner %s has no matching user", r.RosterID, r.OwnerID)
		}
	}
}

func TestMockClientInjuryStatuses(t *testing.T) {
	client := NewMockClient()

	players, err := client.GetPlayers(context.Background())
	if err != nil {
		t.Fatalf("GetPlayers: %v", err)
	}

	if players["4035"].InjuryStatus != "Out" {
		t.Errorf("McCaffrey status = %q, want Out", players["4035"].InjuryStatus)
	}
	if players["4046"].InjuryStatus != "" {
		t.Errorf("Allen status = %q, want healthy", players["4046"].InjuryStatus)
	}
}

func TestSleeperClientDecodesLeague(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/league/abc" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(League{
			LeagueID:     "abc",
			Name:         "Test League",
			TotalRosters: 10,
			Season:       "2024",
		})
	}))
	defer server.Close()

	client := &SleeperClient{baseURL: server.URL, client: server.Client()}

	league, err := client.GetLeague(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetLeague: %v", err)
	}
	if league.Name != "Test League" || league.TotalRosters != 10 {
		t.Errorf("league = %+v", league)
	}
}

func TestSleeperClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := &SleeperClient{baseURL: server.URL, client: server.Client()}

	if _, err := client.GetLeague(context.Background(), "missing"); err == nil {
		t.Error("expected error for 404 response")
	}
}
