// Package platform connects the engine to hosted fantasy platforms. The
// Sleeper client talks to the public read-only API; the mock serves a
// canned league for development.
package platform

import "context"

// League describes a hosted league
type League struct {
	LeagueID        string             `json:"league_id"`
	Name            string             `json:"name"`
	TotalRosters    int                `json:"total_rosters"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
	RosterPositions []string           `json:"roster_positions"`
	Season          string             `json:"season"`
	Week            int                `json:"week"`
}

// User is a league member
type User struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

// RosterSettings carries a roster's season record
type RosterSettings struct {
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Ties   int     `json:"ties"`
	Points float64 `json:"fpts"`
}

// PlatformRoster is a roster as the hosting platform models it, keyed by
// platform player IDs.
type PlatformRoster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	Players  []string       `json:"players"`
	Starters []string       `json:"starters"`
	Settings RosterSettings `json:"settings"`
}

// PlatformPlayer is a player entry from the platform's player directory
type PlatformPlayer struct {
	PlayerID         string   `json:"player_id"`
	FullName         string   `json:"full_name"`
	Position         string   `json:"position"`
	Team             string   `json:"team"`
	FantasyPositions []string `json:"fantasy_positions"`
	InjuryStatus     string   `json:"injury_status,omitempty"`
}

// Transaction is a trade or waiver move in a hosted league
type Transaction struct {
	TransactionID string         `json:"transaction_id"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	RosterIDs     []int          `json:"roster_ids"`
	Adds          map[string]int `json:"adds"`
	Drops         map[string]int `json:"drops"`
	Created       int64          `json:"created"`
}

// LeagueClient reads league data from a hosting platform
type LeagueClient interface {
	GetLeague(ctx context.Context, leagueID string) (*League, error)
	GetUsers(ctx context.Context, leagueID string) ([]User, error)
	GetRosters(ctx context.Context, leagueID string) ([]PlatformRoster, error)
	GetPlayers(ctx context.Context) (map[string]PlatformPlayer, error)
	GetTransactions(ctx context.Context, leagueID string, week int) ([]Transaction, error)
}
