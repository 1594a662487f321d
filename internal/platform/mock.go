package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/gridiron-labs/gridiron-edge/internal/logger"
)

// MockClient serves a canned 12-team league for development
type MockClient struct{}

// NewMockClient creates a mock platform client
func NewMockClient() *MockClient {
	logger.Info("using mock platform client for local development")
	return &MockClient{}
}

func (m *MockClient) GetLeague(ctx context.Context, leagueID string) (*League, error) {
	return &League{
		LeagueID:     leagueID,
		Name:         "Dynasty Legends League",
		TotalRosters: 12,
		ScoringSettings: map[string]float64{
			"rec":     1, // PPR
			"pass_td": 4,
			"rush_td": 6,
			"rec_td":  6,
		},
		RosterPositions: []string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "K", "DEF"},
		Season:          "2024",
		Week:            15,
	}, nil
}

func (m *MockClient) GetUsers(ctx context.Context, leagueID string) ([]User, error) {
	users := make([]User, 12)
	for i := range users {
		users[i] = User{
			UserID:      mockID("user", i+1),
			Username:    mockID("manager", i+1),
			DisplayName: mockID("Fantasy Manager ", i+1),
			Avatar:      mockID("avatar", i+1),
		}
	}
	return users, nil
}

func (m *MockClient) GetRosters(ctx context.Context, leagueID string) ([]PlatformRoster, error) {
	rosters := make([]PlatformRoster, 12)
	for i := range rosters {
		rosters[i] = PlatformRoster{
			RosterID: i + 1,
			OwnerID:  mockID("user", i+1),
			Players:  mockPlayerIDs(),
			Starters: mockPlayerIDs()[:9],
			Settings: RosterSettings{
				Wins:   8 - i%6,
				Losses: 5 + i%6,
				Ties:   0,
				Points: 1450.5 - float64(i)*20,
			},
		}
	}
	return rosters, nil
}

func (m *MockClient) GetPlayers(ctx context.Context) (map[string]PlatformPlayer, error) {
	return map[string]PlatformPlayer{
		"4046": {PlayerID: "4046", FullName: "Josh Allen", Position: "QB", Team: "BUF", FantasyPositions: []string{"QB"}},
		"4035": {PlayerID: "4035", FullName: "Christian McCaffrey", Position: "RB", Team: "SF", FantasyPositions: []string{"RB"}, InjuryStatus: "Out"},
		"6797": {PlayerID: "6797", FullName: "Tyreek Hill", Position: "WR", Team: "MIA", FantasyPositions: []string{"WR"}},
		"4881": {PlayerID: "4881", FullName: "Travis Kelce", Position: "TE", Team: "KC", FantasyPositions: []string{"TE"}, InjuryStatus: "Questionable"},
	}, nil
}

func (m *MockClient) GetTransactions(ctx context.Context, leagueID string, week int) ([]Transaction, error) {
	return []Transaction{
		{
			TransactionID: "trade_1",
			Type:          "trade",
			Status:        "complete",
			RosterIDs:     []int{1, 2},
			Adds:          map[string]int{"4046": 2},
			Drops:         map[string]int{"4035": 1},
			Created:       time.Now().Add(-24 * time.Hour).UnixMilli(),
		},
		{
			TransactionID: "waiver_1",
			Type:          "waiver",
			Status:        "complete",
			RosterIDs:     []int{1},
			Adds:          map[string]int{"6797": 1},
			Created:       time.Now().Add(-time.Hour).UnixMilli(),
		},
	}, nil
}

func mockID(prefix string, n int) string {
	return fmt.Sprintf("%s%d", prefix, n)
}

func mockPlayerIDs() []string {
	return []string{"4046", "4035", "6797", "4881", "5045", "6794", "7564", "8123", "9456", "1234", "5678", "9012", "3456", "7890", "2468"}
}
