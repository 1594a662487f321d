// Package warehouse pulls aggregated player-season stats from ClickHouse
// and records trade evaluations for later analysis.
package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

// Client provides ClickHouse integration for the stats pipeline
type Client struct {
	conn driver.Conn
}

// NewClient creates a new ClickHouse client
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

// SeasonAggregates rolls weekly game logs up to player-season rows. The
// volatility column is the relative week-to-week spread, so stddev over
// mean, and predicted value is next-season points scaled to a 0-100 score.
func (c *Client) SeasonAggregates(ctx context.Context, season int) ([]models.PlayerRecord, error) {
	query := `
		SELECT
			player_name,
			any(team) AS team,
			any(position) AS position,
			sum(fantasy_points) AS total_fantasy_points,
			avg(fantasy_points) AS avg_fantasy_points,
			if(avg(fantasy_points) > 0, stddevPop(fantasy_points) / avg(fantasy_points), 0) AS volatility,
			least(sum(fantasy_points) / 4, 100) AS predicted_value,
			toInt32(countDistinct(week)) AS games_played
		FROM weekly_player_stats
		WHERE season = $1
		GROUP BY player_name
		HAVING games_played > 0
		ORDER BY total_fantasy_points DESC
	`

	rows, err := c.conn.Query(ctx, query, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []models.PlayerRecord{}
	for rows.Next() {
		var p models.PlayerRecord
		var position string
		var games int32
		err := rows.Scan(&p.Name, &p.Team, &position, &p.TotalFantasyPoints,
			&p.AvgFantasyPoints, &p.Volatility, &p.PredictedValue, &games)
		if err != nil {
			return nil, err
		}
		p.Position = models.ParsePosition(position)
		p.GamesPlayed = int(games)
		p.Season = season
		players = append(players, p)
	}

	return players, nil
}

// InjuredNames returns players flagged out or doubtful on the most recent
// injury report for the season.
func (c *Client) InjuredNames(ctx context.Context, season int) ([]string, error) {
	query := `
		SELECT DISTINCT player_name
		FROM injury_reports
		WHERE season = $1
		AND status IN ('Out', 'Doubtful', 'IR')
		AND week = (SELECT max(week) FROM injury_reports WHERE season = $1)
	`

	rows, err := c.conn.Query(ctx, query, season)
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

	return names, nil
}

// SyncPlayerStats pushes fresh season aggregates through the update
// callback. Called periodically to keep the serving store current.
func (c *Client) SyncPlayerStats(ctx context.Context, season int, updateFunc func(*models.PlayerRecord) error) error {
	players, err := c.SeasonAggregates(ctx, season)
	if err != nil {
		return err
	}

	for i := range players {
		if err := updateFunc(&players[i]); err != nil {
			return fmt.Errorf("failed to update stats for %s: %w", players[i].Name, err)
		}
	}

	return nil
}

// RecordTradeEvaluation writes an evaluation to the analysis log
func (c *Client) RecordTradeEvaluation(ctx context.Context, eval *models.TradeEvaluation) error {
	query := `
		INSERT INTO trade_evaluations
			(evaluated_at, player_a, player_b, value_difference, recommendation, confidence)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	return c.conn.Exec(ctx, query,
		time.Now(),
		eval.PlayerA.Name,
		eval.PlayerB.Name,
		eval.ValueDifference,
		string(eval.Recommendation),
		int32(eval.Confidence),
	)
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
