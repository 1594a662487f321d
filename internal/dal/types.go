package dal

import "github.com/gridiron-labs/gridiron-edge/internal/models"

// Store defines the interface for the league data access layer
type Store interface {
	State() (*models.LeagueState, error)
	Reset() error
	Players() ([]models.PlayerRecord, error)
	PlayerByName(name string) (*models.PlayerRecord, error)
	UpsertPlayer(player *models.PlayerRecord) error
	ReplacePlayers(players []models.PlayerRecord) error
	SetInjured(name string, injured bool) error
	InjuredNames() ([]string, error)
	IsInjured(name string) (bool, error)
	Rosters() ([]models.Roster, error)
	AddRoster(name, owner string) (*models.Roster, error)
	DraftPlayer(playerName, rosterID string) (*models.DraftPick, error)
	Close() error
}
