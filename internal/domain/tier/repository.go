package tier

import (
	"context"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

type Repository interface {
	// GetOrCreate must be atomic: concurrent callers for one user observe a single record.
	GetOrCreate(ctx context.Context, userID string) (Record, error)
	AddExperience(ctx context.Context, userID string, amount int64) (Record, error)
	SetTier(ctx context.Context, userID string, category tournament.Category, t tournament.Tier) (Record, error)
	SetAlias(ctx context.Context, userID, alias string) (Record, error)
	ListByExperience(ctx context.Context, limit int) ([]Record, error)
	// PositionOf is the 1-based rank by experience, ties broken by user id.
	PositionOf(ctx context.Context, userID string) (int, error)
}
