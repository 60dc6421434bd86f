package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tier"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

type TierRepository struct {
	store *Store
}

func (r *TierRepository) GetOrCreate(_ context.Context, userID string) (tier.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return cloneTierRecord(r.store.tierLocked(userID)), nil
}

func (r *TierRepository) AddExperience(_ context.Context, userID string, amount int64) (tier.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record := r.store.tierLocked(userID)
	record.Experience += amount
	r.store.tiers[userID] = record
	return cloneTierRecord(record), nil
}

func (r *TierRepository) SetTier(_ context.Context, userID string, category tournament.Category, t tournament.Tier) (tier.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record := cloneTierRecord(r.store.tierLocked(userID))
	record.Tiers[category] = t
	r.store.tiers[userID] = record
	return cloneTierRecord(record), nil
}

func (r *TierRepository) SetAlias(_ context.Context, userID, alias string) (tier.Record, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record := r.store.tierLocked(userID)
	record.Alias = alias
	r.store.tiers[userID] = record
	return cloneTierRecord(record), nil
}

func (r *TierRepository) ListByExperience(_ context.Context, limit int) ([]tier.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := r.store.rankedTiersLocked()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *TierRepository) PositionOf(_ context.Context, userID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i, record := range r.store.rankedTiersLocked() {
		if record.UserID == userID {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (s *Store) rankedTiersLocked() []tier.Record {
	out := make([]tier.Record, 0, len(s.tiers))
	for _, record := range s.tiers {
		out = append(out, cloneTierRecord(record))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Experience != out[j].Experience {
			return out[i].Experience > out[j].Experience
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

func cloneTierRecord(record tier.Record) tier.Record {
	copied := record
	copied.Tiers = make(map[tournament.Category]tournament.Tier, len(record.Tiers))
	for k, v := range record.Tiers {
		copied.Tiers[k] = v
	}
	return copied
}
