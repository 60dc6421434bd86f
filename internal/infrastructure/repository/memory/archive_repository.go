package memory

import (
	"context"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/archive"
)

type ArchiveRepository struct {
	store *Store
}

func (r *ArchiveRepository) ListByTournament(_ context.Context, tournamentID int64) ([]archive.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]archive.Record, 0)
	for _, item := range r.store.archive {
		if item.TournamentID == tournamentID {
			out = append(out, item)
		}
	}
	return out, nil
}

// ListByUser returns the newest archived records first.
func (r *ArchiveRepository) ListByUser(_ context.Context, userID string, limit int) ([]archive.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]archive.Record, 0)
	for i := len(r.store.archive) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if item := r.store.archive[i]; item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}
