// Package mocks holds in-memory stand-ins for external services so the
// engine runs in development without real infrastructure.
package mocks

import (
	"context"
	"sync"

	"github.com/gridiron-labs/gridiron-edge/internal/dal"
	"github.com/gridiron-labs/gridiron-edge/internal/logger"
	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

// MockWarehouse provides a mock stats warehouse for local development. It
// serves the demo pool and records trade evaluations in memory.
type MockWarehouse struct {
	mu          sync.Mutex
	players     []models.PlayerRecord
	injured     []string
	evaluations []models.TradeEvaluation
}

// NewMockWarehouse creates a mock warehouse seeded with the demo pool
func NewMockWarehouse() *MockWarehouse {
	logger.Info("using mock stats warehouse for local development")

	return &MockWarehouse{
		players: dal.DemoPlayers(),
		injured: []string{"Christian McCaffrey", "Travis Kelce"},
	}
}

// SeasonAggregates returns the demo pool filtered to the requested season
func (m *MockWarehouse) SeasonAggregates(ctx context.Context, season int) ([]models.PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	players := []models.PlayerRecord{}
	for _, p := range m.players {
		if p.Season == season {
			players = append(players, p)
		}
	}
	return players, nil
}

// InjuredNames returns the demo injury list
func (m *MockWarehouse) InjuredNames(ctx context.Context, season int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, len(m.injured))
	copy(names, m.injured)
	return names, nil
}

// SyncPlayerStats pushes the demo pool through the update callback
func (m *MockWarehouse) SyncPlayerStats(ctx context.Context, season int, updateFunc func(*models.PlayerRecord) error) error {
	players, err := m.SeasonAggregates(ctx, season)
	if err != nil {
		return err
	}

	for i := range players {
		if err := updateFunc(&players[i]); err != nil {
			logger.Warn("mock warehouse sync update failed", "player", players[i].Name, "error", err)
		}
	}

	logger.Debug("mock warehouse synced demo pool", "players", len(players))
	return nil
}

// RecordTradeEvaluation stores the evaluation in memory
func (m *MockWarehouse) RecordTradeEvaluation(ctx context.Context, eval *models.TradeEvaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evaluations = append(m.evaluations, *eval)
	return nil
}

// RecordedEvaluations returns the evaluations captured so far
func (m *MockWarehouse) RecordedEvaluations() []models.TradeEvaluation {
	m.mu.Lock()
	defer m.mu.Unlock()

	evals := make([]models.TradeEvaluation, len(m.evaluations))
	copy(evals, m.evaluations)
	return evals
}

// Close is a no-op for the mock
func (m *MockWarehouse) Close() error {
	return nil
}
