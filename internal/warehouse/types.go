package warehouse

import (
	"context"

	"github.com/gridiron-labs/gridiron-edge/internal/models"
)

// StatsSource is the warehouse surface the engine depends on. The real
// ClickHouse client and the development mock both satisfy it.
type StatsSource interface {
	SeasonAggregates(ctx context.Context, season int) ([]models.PlayerRecord, error)
	InjuredNames(ctx context.Context, season int) ([]string, error)
	SyncPlayerStats(ctx context.Context, season int, updateFunc func(*models.PlayerRecord) error) error
	RecordTradeEvaluation(ctx context.Context, eval *models.TradeEvaluation) error
	Close() error
}
