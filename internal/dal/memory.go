package dal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

// MemoryStore implements Store using in-memory storage
type MemoryStore struct {
	mu      sync.RWMutex
	players []models.PlayerRecord
	rosters []models.Roster
	injured map[string]bool
	picks   []models.DraftPick
}

// NewMemoryStore creates an in-memory data access layer seeded with the
// demo player pool.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: DemoPlayers(),
		rosters: defaultRosters(),
		injured: demoInjured(),
	}
}

// NewEmptyMemoryStore creates an in-memory store with no seed data, for
// leagues loaded from CSV or a warehouse sync.
func NewEmptyMemoryStore() *MemoryStore {
	return &MemoryStore{
		injured: make(map[string]bool),
	}
}

func (m *MemoryStore) State() (*models.LeagueState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Copies keep callers from racing with writers
	state := &models.LeagueState{
		Players: make([]models.PlayerRecord, len(m.players)),
		Rosters: make([]models.Roster, len(m.rosters)),
		Picks:   make([]models.DraftPick, len(m.picks)),
		Injured: make([]string, 0, len(m.injured)),
	}
	copy(state.Players, m.players)
	copy(state.Picks, m.picks)
	for i, r := range m.rosters {
		state.Rosters[i] = r
		state.Rosters[i].Players = make([]models.PlayerRecord, len(r.Players))
		copy(state.Rosters[i].Players, r.Players)
	}
	for _, p := range m.players {
		if m.injured[p.Name] {
			state.Injured = append(state.Injured, p.Name)
		}
	}

	return state, nil
}

func (m *MemoryStore) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.players = DemoPlayers()
	m.rosters = defaultRosters()
	m.injured = demoInjured()
	m.picks = nil

	return nil
}

func (m *MemoryStore) Players() ([]models.PlayerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	players := make([]models.PlayerRecord, len(m.players))
	copy(players, m.players)
	return players, nil
}

func (m *MemoryStore) PlayerByName(name string) (*models.PlayerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.players {
		if m.players[i].Name == name {
			p := m.players[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("player not found: %s", name)
}

func (m *MemoryStore) UpsertPlayer(player *models.PlayerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.players {
		if m.players[i].Name == player.Name {
			m.players[i] = *player
			return nil
		}
	}
	m.players = append(m.players, *player)
	return nil
}

func (m *MemoryStore) ReplacePlayers(players []models.PlayerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.players = make([]models.PlayerRecord, len(players))
	copy(m.players, players)
	return nil
}

func (m *MemoryStore) SetInjured(name string, injured bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for i := range m.players {
		if m.players[i].Name == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("player not found: %s", name)
	}

	if injured {
		m.injured[name] = true
	} else {
		delete(m.injured, name)
	}
	return nil
}

func (m *MemoryStore) InjuredNames() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Pool order keeps the list stable across calls
	names := []string{}
	for _, p := range m.players {
		if m.injured[p.Name] {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

func (m *MemoryStore) IsInjured(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.injured[name], nil
}

func (m *MemoryStore) Rosters() ([]models.Roster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rosters := make([]models.Roster, len(m.rosters))
	for i, r := range m.rosters {
		rosters[i] = r
		rosters[i].Players = make([]models.PlayerRecord, len(r.Players))
		copy(rosters[i].Players, r.Players)
	}
	return rosters, nil
}

func (m *MemoryStore) AddRoster(name, owner string) (*models.Roster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if owner == "" {
		owner = "Anonymous"
	}

	roster := models.Roster{
		ID:      genID("roster"),
		Name:    name,
		Owner:   owner,
		Players: []models.PlayerRecord{},
	}
	m.rosters = append(m.rosters, roster)

	out := roster
	return &out, nil
}

func (m *MemoryStore) DraftPlayer(playerName, rosterID string) (*models.DraftPick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var player *models.PlayerRecord
	for i := range m.players {
		if m.players[i].Name == playerName {
			player = &m.players[i]
			break
		}
	}
	if player == nil {
		return nil, fmt.Errorf("player not found: %s", playerName)
	}

	for _, pick := range m.picks {
		if pick.PlayerName == playerName {
			return nil, fmt.Errorf("player already drafted: %s", playerName)
		}
	}

	var roster *models.Roster
	for i := range m.rosters {
		if m.rosters[i].ID == rosterID {
			roster = &m.rosters[i]
			break
		}
	}
	if roster == nil {
		return nil, fmt.Errorf("roster not found: %s", rosterID)
	}

	pick := models.DraftPick{
		Number:     len(m.picks) + 1,
		PlayerName: playerName,
		RosterID:   rosterID,
	}
	m.picks = append(m.picks, pick)
	roster.Players = append(roster.Players, *player)

	return &pick, nil
}

func (m *MemoryStore) Close() error {
	return nil
}

func genID(prefix string) string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}

func defaultRosters() []models.Roster {
	return []models.Roster{
		{ID: "roster_1", Name: "My Team", Owner: "You", Players: []models.PlayerRecord{}},
	}
}

func demoInjured() map[string]bool {
	return map[string]bool{
		"Christian McCaffrey": true,
		"Travis Kelce":        true,
	}
}

// DemoPlayers returns the built-in 2024 season pool used when no stats
// source is configured.
func DemoPlayers() []models.PlayerRecord {
	return []models.PlayerRecord{
		demoPlayer("Josh Allen", "BUF", models.PositionQB, 387.2, 22.8, 0.15, 95.5),
		demoPlayer("Christian McCaffrey", "SF", models.PositionRB, 342.8, 20.2, 0.12, 92.3),
		demoPlayer("Tyreek Hill", "MIA", models.PositionWR, 298.4, 17.6, 0.22, 88.7),
		demoPlayer("Travis Kelce", "KC", models.PositionTE, 267.3, 15.7, 0.18, 85.2),
		demoPlayer("Lamar Jackson", "BAL", models.PositionQB, 356.7, 21.0, 0.19, 91.8),
		demoPlayer("Derrick Henry", "BAL", models.PositionRB, 289.6, 17.0, 0.16, 82.4),
		demoPlayer("CeeDee Lamb", "DAL", models.PositionWR, 276.8, 16.3, 0.21, 86.9),
		demoPlayer("Amon-Ra St. Brown", "DET", models.PositionWR, 264.2, 15.5, 0.17, 84.1),
		demoPlayer("Saquon Barkley", "PHI", models.PositionRB, 378.9, 22.3, 0.14, 94.7),
		demoPlayer("George Kittle", "SF", models.PositionTE, 198.7, 11.7, 0.25, 76.3),
	}
}

func demoPlayer(name, team string, pos models.Position, total, avg, volatility, predicted float64) models.PlayerRecord {
	return models.PlayerRecord{
		Name:               name,
		Team:               team,
		Position:           pos,
		TotalFantasyPoints: total,
		AvgFantasyPoints:   avg,
		Volatility:         volatility,
		PredictedValue:     predicted,
		GamesPlayed:        17,
		Season:             2024,
	}
}
