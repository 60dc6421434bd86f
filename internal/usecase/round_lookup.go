package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

// liveRound loads the latest tournament and requires its close to still be pending.
func liveRound(ctx context.Context, repo tournament.Repository) (tournament.Tournament, error) {
	item, exists, err := repo.GetLatest(ctx)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get latest tournament: %w", err)
	}
	if !exists || !item.Live() {
		return tournament.Tournament{}, fmt.Errorf("%w: no live round", ErrNotFound)
	}
	return item, nil
}

func parseCategory(raw string) (tournament.Category, error) {
	category, err := tournament.ParseCategory(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return category, nil
}
