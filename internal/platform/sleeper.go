package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const sleeperBaseURL = "https://api.sleeper.app/v1"

// SleeperClient reads league data from the Sleeper public API. The API is
// unauthenticated and read-only.
type SleeperClient struct {
	baseURL string
	client  *http.Client
}

// NewSleeperClient creates a Sleeper API client
func NewSleeperClient() *SleeperClient {
	return &SleeperClient{
		baseURL: sleeperBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *SleeperClient) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sleeper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sleeper returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode sleeper response: %w", err)
	}
	return nil
}

func (s *SleeperClient) GetLeague(ctx context.Context, leagueID string) (*League, error) {
	var league League
	if err := s.get(ctx, "/league/"+leagueID, &league); err != nil {
		return nil, err
	}
	return &league, nil
}

func (s *SleeperClient) GetUsers(ctx context.Context, leagueID string) ([]User, error) {
	var users []User
	if err := s.get(ctx, "/league/"+leagueID+"/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *SleeperClient) GetRosters(ctx context.Context, leagueID string) ([]PlatformRoster, error) {
	var rosters []PlatformRoster
	if err := s.get(ctx, "/league/"+leagueID+"/rosters", &rosters); err != nil {
		return nil, err
	}
	return rosters, nil
}

func (s *SleeperClient) GetPlayers(ctx context.Context) (map[string]PlatformPlayer, error) {
	// The full directory is several MB; callers should cache it
	players := map[string]PlatformPlayer{}
	if err := s.get(ctx, "/players/nfl", &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (s *SleeperClient) GetTransactions(ctx context.Context, leagueID string, week int) ([]Transaction, error) {
	var transactions []Transaction
	path := fmt.Sprintf("/league/%s/transactions/%d", leagueID, week)
	if err := s.get(ctx, path, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}
