package dal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite data access layer, seeding the demo pool
// when the database is empty.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		name TEXT PRIMARY KEY,
		team TEXT NOT NULL,
		position TEXT NOT NULL,
		total_fantasy_points REAL NOT NULL,
		avg_fantasy_points REAL NOT NULL,
		volatility REAL NOT NULL,
		predicted_value REAL NOT NULL,
		games_played INTEGER NOT NULL,
		season INTEGER NOT NULL,
		totals TEXT NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS injured (
		name TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS rosters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS roster_players (
		roster_id TEXT NOT NULL,
		player_name TEXT NOT NULL,
		player_data TEXT NOT NULL,
		FOREIGN KEY (roster_id) REFERENCES rosters(id),
		FOREIGN KEY (player_name) REFERENCES players(name)
	);

	CREATE TABLE IF NOT EXISTS picks (
		number INTEGER PRIMARY KEY,
		player_name TEXT NOT NULL,
		roster_id TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return s.seedData()
	}
	return nil
}

func (s *SQLiteStore) seedData() error {
	for _, p := range DemoPlayers() {
		if err := s.UpsertPlayer(&p); err != nil {
			return err
		}
	}
	for name := range demoInjured() {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO injured (name) VALUES (?)`, name); err != nil {
			return err
		}
	}
	for _, r := range defaultRosters() {
		_, err := s.db.Exec(`
			INSERT INTO rosters (id, name, owner) VALUES (?, ?, ?)
		`, r.ID, r.Name, r.Owner)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanPlayer(row interface{ Scan(...any) error }) (*models.PlayerRecord, error) {
	var p models.PlayerRecord
	var position, totalsJSON string
	err := row.Scan(&p.Name, &p.Team, &position, &p.TotalFantasyPoints, &p.AvgFantasyPoints,
		&p.Volatility, &p.PredictedValue, &p.GamesPlayed, &p.Season, &totalsJSON)
	if err != nil {
		return nil, err
	}
	p.Position = models.Position(position)
	if err := json.Unmarshal([]byte(totalsJSON), &p.Totals); err != nil {
		return nil, fmt.Errorf("failed to decode totals for %s: %w", p.Name, err)
	}
	return &p, nil
}

const playerColumns = `name, team, position, total_fantasy_points, avg_fantasy_points,
	volatility, predicted_value, games_played, season, totals`

func (s *SQLiteStore) State() (*models.LeagueState, error) {
	players, err := s.Players()
	if err != nil {
		return nil, err
	}
	rosters, err := s.Rosters()
	if err != nil {
		return nil, err
	}
	injured, err := s.InjuredNames()
	if err != nil {
		return nil, err
	}

	state := &models.LeagueState{
		Players: players,
		Rosters: rosters,
		Injured: injured,
		Picks:   []models.DraftPick{},
	}

	rows, err := s.db.Query(`SELECT number, player_name, roster_id FROM picks ORDER BY number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var pick models.DraftPick
		if err := rows.Scan(&pick.Number, &pick.PlayerName, &pick.RosterID); err != nil {
			return nil, err
		}
		state.Picks = append(state.Picks, pick)
	}

	return state, rows.Err()
}

func (s *SQLiteStore) Reset() error {
	for _, table := range []string{"picks", "roster_players", "rosters", "injured", "players"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return s.seedData()
}

func (s *SQLiteStore) Players() ([]models.PlayerRecord, error) {
	rows, err := s.db.Query(`SELECT ` + playerColumns + ` FROM players ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []models.PlayerRecord{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) PlayerByName(name string) (*models.PlayerRecord, error) {
	row := s.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE name = ?`, name)
	p, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player not found: %s", name)
	}
	return p, err
}

func (s *SQLiteStore) UpsertPlayer(player *models.PlayerRecord) error {
	totalsJSON, err := json.Marshal(player.Totals)
	if err != nil {
		return fmt.Errorf("failed to encode totals for %s: %w", player.Name, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO players (name, team, position, total_fantasy_points, avg_fantasy_points,
			volatility, predicted_value, games_played, season, totals)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			team = excluded.team,
			position = excluded.position,
			total_fantasy_points = excluded.total_fantasy_points,
			avg_fantasy_points = excluded.avg_fantasy_points,
			volatility = excluded.volatility,
			predicted_value = excluded.predicted_value,
			games_played = excluded.games_played,
			season = excluded.season,
			totals = excluded.totals
	`, player.Name, player.Team, string(player.Position), player.TotalFantasyPoints,
		player.AvgFantasyPoints, player.Volatility, player.PredictedValue,
		player.GamesPlayed, player.Season, string(totalsJSON))
	return err
}

func (s *SQLiteStore) ReplacePlayers(players []models.PlayerRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM players"); err != nil {
		return err
	}
	for _, p := range players {
		totalsJSON, err := json.Marshal(p.Totals)
		if err != nil {
			return fmt.Errorf("failed to encode totals for %s: %w", p.Name, err)
		}
		_, err = tx.Exec(`
			INSERT INTO players (name, team, position, total_fantasy_points, avg_fantasy_points,
				volatility, predicted_value, games_played, season, totals)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, p.Name, p.Team, string(p.Position), p.TotalFantasyPoints, p.AvgFantasyPoints,
			p.Volatility, p.PredictedValue, p.GamesPlayed, p.Season, string(totalsJSON))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) SetInjured(name string, injured bool) error {
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM players WHERE name = ?`, name).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("player not found: %s", name)
	}

	if injured {
		_, err := s.db.Exec(`INSERT OR IGNORE INTO injured (name) VALUES (?)`, name)
		return err
	}
	_, err := s.db.Exec(`DELETE FROM injured WHERE name = ?`, name)
	return err
}

func (s *SQLiteStore) InjuredNames() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT i.name FROM injured i JOIN players p ON p.name = i.name ORDER BY p.rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) IsInjured(name string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM injured WHERE name = ?`, name).Scan(&count)
	return count > 0, err
}

func (s *SQLiteStore) Rosters() ([]models.Roster, error) {
	rows, err := s.db.Query(`SELECT id, name, owner FROM rosters ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rosters := []models.Roster{}
	for rows.Next() {
		var r models.Roster
		if err := rows.Scan(&r.ID, &r.Name, &r.Owner); err != nil {
			return nil, err
		}
		r.Players = []models.PlayerRecord{}
		rosters = append(rosters, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range rosters {
		playerRows, err := s.db.Query(`
			SELECT player_data FROM roster_players WHERE roster_id = ? ORDER BY rowid ASC
		`, rosters[i].ID)
		if err != nil {
			return nil, err
		}
		for playerRows.Next() {
			var playerJSON string
			if err := playerRows.Scan(&playerJSON); err != nil {
				playerRows.Close()
				return nil, err
			}
			var p models.PlayerRecord
			if err := json.Unmarshal([]byte(playerJSON), &p); err != nil {
				playerRows.Close()
				return nil, err
			}
			rosters[i].Players = append(rosters[i].Players, p)
		}
		playerRows.Close()
	}

	return rosters, nil
}

func (s *SQLiteStore) AddRoster(name, owner string) (*models.Roster, error) {
	if owner == "" {
		owner = "Anonymous"
	}

	roster := &models.Roster{
		ID:      genID("roster"),
		Name:    name,
		Owner:   owner,
		Players: []models.PlayerRecord{},
	}

	_, err := s.db.Exec(`
		INSERT INTO rosters (id, name, owner) VALUES (?, ?, ?)
	`, roster.ID, roster.Name, roster.Owner)
	if err != nil {
		return nil, err
	}
	return roster, nil
}

func (s *SQLiteStore) DraftPlayer(playerName, rosterID string) (*models.DraftPick, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+playerColumns+` FROM players WHERE name = ?`, playerName)
	player, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player not found: %s", playerName)
	}
	if err != nil {
		return nil, err
	}

	var alreadyDrafted int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM picks WHERE player_name = ?`, playerName).Scan(&alreadyDrafted); err != nil {
		return nil, err
	}
	if alreadyDrafted > 0 {
		return nil, fmt.Errorf("player already drafted: %s", playerName)
	}

	var rosterExists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM rosters WHERE id = ?`, rosterID).Scan(&rosterExists); err != nil {
		return nil, err
	}
	if rosterExists == 0 {
		return nil, fmt.Errorf("roster not found: %s", rosterID)
	}

	pick := &models.DraftPick{PlayerName: playerName, RosterID: rosterID}
	if err := tx.QueryRow(`SELECT COUNT(*) + 1 FROM picks`).Scan(&pick.Number); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`
		INSERT INTO picks (number, player_name, roster_id) VALUES (?, ?, ?)
	`, pick.Number, pick.PlayerName, pick.RosterID); err != nil {
		return nil, err
	}

	playerJSON, err := json.Marshal(player)
	if err != nil {
		return nil, fmt.Errorf("failed to encode player data: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO roster_players (roster_id, player_name, player_data) VALUES (?, ?, ?)
	`, rosterID, playerName, string(playerJSON)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return pick, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
