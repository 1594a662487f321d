package dal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL data access layer with connection
// pool settings suited to a managed high-availability cluster.
func NewPostgresStore(connString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Retry the initial ping so slow DNS propagation in Kubernetes does
	// not kill startup
	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := db.PingContext(ctx)
		cancel()
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (p *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		name TEXT PRIMARY KEY,
		team TEXT NOT NULL,
		position TEXT NOT NULL,
		total_fantasy_points DOUBLE PRECISION NOT NULL,
		avg_fantasy_points DOUBLE PRECISION NOT NULL,
		volatility DOUBLE PRECISION NOT NULL,
		predicted_value DOUBLE PRECISION NOT NULL,
		games_played INTEGER NOT NULL,
		season INTEGER NOT NULL,
		totals JSONB NOT NULL DEFAULT '{}'::jsonb,
		pool_order SERIAL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS injured (
		name TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS rosters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner TEXT NOT NULL,
		roster_order SERIAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS roster_players (
		roster_id TEXT NOT NULL REFERENCES rosters(id) ON DELETE CASCADE,
		player_name TEXT NOT NULL REFERENCES players(name) ON DELETE CASCADE,
		player_data JSONB NOT NULL,
		slot_order SERIAL,
		PRIMARY KEY (roster_id, player_name)
	);

	CREATE TABLE IF NOT EXISTS picks (
		number INTEGER PRIMARY KEY,
		player_name TEXT NOT NULL,
		roster_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_players_position ON players(position);
	CREATE INDEX IF NOT EXISTS idx_picks_player ON picks(player_name);
	`

	if _, err := p.db.Exec(schema); err != nil {
		return err
	}

	var count int
	if err := p.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return p.seedData()
	}
	return nil
}

func (p *PostgresStore) seedData() error {
	for _, player := range DemoPlayers() {
		if err := p.UpsertPlayer(&player); err != nil {
			return err
		}
	}
	for name := range demoInjured() {
		if _, err := p.db.Exec(`INSERT INTO injured (name) VALUES ($1) ON CONFLICT DO NOTHING`, name); err != nil {
			return err
		}
	}
	for _, r := range defaultRosters() {
		_, err := p.db.Exec(`
			INSERT INTO rosters (id, name, owner) VALUES ($1, $2, $3)
		`, r.ID, r.Name, r.Owner)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgresStore) State() (*models.LeagueState, error) {
	players, err := p.Players()
	if err != nil {
		return nil, err
	}
	rosters, err := p.Rosters()
	if err != nil {
		return nil, err
	}
	injured, err := p.InjuredNames()
	if err != nil {
		return nil, err
	}

	state := &models.LeagueState{
		Players: players,
		Rosters: rosters,
		Injured: injured,
		Picks:   []models.DraftPick{},
	}

	rows, err := p.db.Query(`SELECT number, player_name, roster_id FROM picks ORDER BY number ASC`)
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

func (p *PostgresStore) Reset() error {
	for _, table := range []string{"picks", "roster_players", "rosters", "injured", "players"} {
		if _, err := p.db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return p.seedData()
}

func (p *PostgresStore) Players() ([]models.PlayerRecord, error) {
	rows, err := p.db.Query(`SELECT ` + playerColumns + ` FROM players ORDER BY pool_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []models.PlayerRecord{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *player)
	}
	return players, rows.Err()
}

func (p *PostgresStore) PlayerByName(name string) (*models.PlayerRecord, error) {
	row := p.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE name = $1`, name)
	player, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player not found: %s", name)
	}
	return player, err
}

func (p *PostgresStore) UpsertPlayer(player *models.PlayerRecord) error {
	totalsJSON, err := json.Marshal(player.Totals)
	if err != nil {
		return fmt.Errorf("failed to encode totals for %s: %w", player.Name, err)
	}

	_, err = p.db.Exec(`
		INSERT INTO players (name, team, position, total_fantasy_points, avg_fantasy_points,
			volatility, predicted_value, games_played, season, totals)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (name) DO UPDATE SET
			team = EXCLUDED.team,
			position = EXCLUDED.position,
			total_fantasy_points = EXCLUDED.total_fantasy_points,
			avg_fantasy_points = EXCLUDED.avg_fantasy_points,
			volatility = EXCLUDED.volatility,
			predicted_value = EXCLUDED.predicted_value,
			games_played = EXCLUDED.games_played,
			season = EXCLUDED.season,
			totals = EXCLUDED.totals,
			updated_at = CURRENT_TIMESTAMP
	`, player.Name, player.Team, string(player.Position), player.TotalFantasyPoints,
		player.AvgFantasyPoints, player.Volatility, player.PredictedValue,
		player.GamesPlayed, player.Season, string(totalsJSON))
	return err
}

func (p *PostgresStore) ReplacePlayers(players []models.PlayerRecord) error {
	tx, err := p.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM players"); err != nil {
		return err
	}
	for _, player := range players {
		totalsJSON, err := json.Marshal(player.Totals)
		if err != nil {
			return fmt.Errorf("failed to encode totals for %s: %w", player.Name, err)
		}
		_, err = tx.Exec(`
			INSERT INTO players (name, team, position, total_fantasy_points, avg_fantasy_points,
				volatility, predicted_value, games_played, season, totals)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, player.Name, player.Team, string(player.Position), player.TotalFantasyPoints,
			player.AvgFantasyPoints, player.Volatility, player.PredictedValue,
			player.GamesPlayed, player.Season, string(totalsJSON))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (p *PostgresStore) SetInjured(name string, injured bool) error {
	var exists int
	if err := p.db.QueryRow(`SELECT COUNT(*) FROM players WHERE name = $1`, name).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("player not found: %s", name)
	}

	if injured {
		_, err := p.db.Exec(`INSERT INTO injured (name) VALUES ($1) ON CONFLICT DO NOTHING`, name)
		return err
	}
	_, err := p.db.Exec(`DELETE FROM injured WHERE name = $1`, name)
	return err
}

func (p *PostgresStore) InjuredNames() ([]string, error) {
	rows, err := p.db.Query(`
		SELECT i.name FROM injured i JOIN players pl ON pl.name = i.name ORDER BY pl.pool_order ASC
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

func (p *PostgresStore) IsInjured(name string) (bool, error) {
	var count int
	err := p.db.QueryRow(`SELECT COUNT(*) FROM injured WHERE name = $1`, name).Scan(&count)
	return count > 0, err
}

func (p *PostgresStore) Rosters() ([]models.Roster, error) {
	rows, err := p.db.Query(`SELECT id, name, owner FROM rosters ORDER BY roster_order ASC`)
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
		playerRows, err := p.db.Query(`
			SELECT player_data FROM roster_players WHERE roster_id = $1 ORDER BY slot_order ASC
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
			var player models.PlayerRecord
			if err := json.Unmarshal([]byte(playerJSON), &player); err != nil {
				playerRows.Close()
				return nil, err
			}
			rosters[i].Players = append(rosters[i].Players, player)
		}
		playerRows.Close()
	}

	return rosters, nil
}

func (p *PostgresStore) AddRoster(name, owner string) (*models.Roster, error) {
	if owner == "" {
		owner = "Anonymous"
	}

	roster := &models.Roster{
		ID:      genID("roster"),
		Name:    name,
		Owner:   owner,
		Players: []models.PlayerRecord{},
	}

	_, err := p.db.Exec(`
		INSERT INTO rosters (id, name, owner) VALUES ($1, $2, $3)
	`, roster.ID, roster.Name, roster.Owner)
	if err != nil {
		return nil, err
	}
	return roster, nil
}

func (p *PostgresStore) DraftPlayer(playerName, rosterID string) (*models.DraftPick, error) {
	tx, err := p.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+playerColumns+` FROM players WHERE name = $1`, playerName)
	player, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player not found: %s", playerName)
	}
	if err != nil {
		return nil, err
	}

	var alreadyDrafted int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM picks WHERE player_name = $1`, playerName).Scan(&alreadyDrafted); err != nil {
		return nil, err
	}
	if alreadyDrafted > 0 {
		return nil, fmt.Errorf("player already drafted: %s", playerName)
	}

	var rosterExists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM rosters WHERE id = $1`, rosterID).Scan(&rosterExists); err != nil {
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
		INSERT INTO picks (number, player_name, roster_id) VALUES ($1, $2, $3)
	`, pick.Number, pick.PlayerName, pick.RosterID); err != nil {
		return nil, err
	}

	playerJSON, err := json.Marshal(player)
	if err != nil {
		return nil, fmt.Errorf("failed to encode player data: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO roster_players (roster_id, player_name, player_data) VALUES ($1, $2, $3)
	`, rosterID, playerName, string(playerJSON)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return pick, nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
