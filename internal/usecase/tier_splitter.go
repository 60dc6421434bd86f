package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tier"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

// TierSplitter partitions submissions by their submitters' tiers. Unknown users get a default record.
type TierSplitter struct {
	tierRepo tier.Repository
	workers  int
}

func NewTierSplitter(tierRepo tier.Repository) *TierSplitter {
	return &TierSplitter{tierRepo: tierRepo, workers: len(tournament.AllCategories)}
}

// WithWorkers bounds how many categories SplitAll resolves at once.
func (s *TierSplitter) WithWorkers(n int) *TierSplitter {
	if n > 0 {
		s.workers = n
	}
	return s
}

// Split partitions the submissions of a single category.
func (s *TierSplitter) Split(ctx context.Context, submissions []tournament.Submission) (tournament.TierGroups, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TierSplitter.Split")
	defer span.End()

	groups := make(tournament.TierGroups, len(tournament.AllTiers))
	for _, item := range submissions {
		record, err := s.tierRepo.GetOrCreate(ctx, item.UserID)
		if err != nil {
			return nil, fmt.Errorf("get tier record user=%s: %w", item.UserID, err)
		}
		t := record.TierOf(item.Category)
		groups[t] = append(groups[t], item)
	}
	return groups, nil
}

type categoryGroups struct {
	category tournament.Category
	groups   tournament.TierGroups
}

// SplitAll runs Split for every category concurrently.
func (s *TierSplitter) SplitAll(ctx context.Context, byCategory map[tournament.Category][]tournament.Submission) (map[tournament.Category]tournament.TierGroups, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TierSplitter.SplitAll")
	defer span.End()

	p := pool.NewWithResults[categoryGroups]().
		WithMaxGoroutines(s.workers).
		WithContext(ctx).
		WithCancelOnError()
	for category, items := range byCategory {
		if len(items) == 0 {
			continue
		}
		p.Go(func(ctx context.Context) (categoryGroups, error) {
			groups, err := s.Split(ctx, items)
			if err != nil {
				return categoryGroups{}, fmt.Errorf("split category=%s: %w", category, err)
			}
			return categoryGroups{category: category, groups: groups}, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}
	out := make(map[tournament.Category]tournament.TierGroups, len(results))
	for _, item := range results {
		out[item.category] = item.groups
	}
	return out, nil
}
