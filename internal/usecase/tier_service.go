package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tier"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
)

const (
	maxAliasLength         = 32
	defaultLeaderboardSize = 10
)

type TierService struct {
	tierRepo tier.Repository
	logger   *logging.Logger
}

func NewTierService(tierRepo tier.Repository, logger *logging.Logger) *TierService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TierService{tierRepo: tierRepo, logger: logger}
}

func (s *TierService) TierOf(ctx context.Context, userID, category string) (tournament.Tier, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TierService.TierOf")
	defer span.End()

	c, err := parseCategory(category)
	if err != nil {
		return "", err
	}
	record, err := s.get(ctx, userID)
	if err != nil {
		return "", err
	}
	return record.TierOf(c), nil
}

func (s *TierService) AddExperience(ctx context.Context, userID string, amount int64) (tier.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TierService.AddExperience")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return tier.Record{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if amount < 0 {
		return tier.Record{}, fmt.Errorf("%w: experience amount must be >= 0", ErrInvalidInput)
	}
	record, err := s.tierRepo.AddExperience(ctx, userID, amount)
	if err != nil {
		return tier.Record{}, fmt.Errorf("add experience: %w", err)
	}
	return record, nil
}

// SetTier overrides one category tier; only enum membership is checked.
func (s *TierService) SetTier(ctx context.Context, userID, category, value string) (tier.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TierService.SetTier")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return tier.Record{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	c, err := parseCategory(category)
	if err != nil {
		return tier.Record{}, err
	}
	t, err := tournament.ParseTier(value)
	if err != nil {
		return tier.Record{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	record, err := s.tierRepo.SetTier(ctx, userID, c, t)
	if err != nil {
		return tier.Record{}, fmt.Errorf("set tier: %w", err)
	}
	s.logger.InfoContext(ctx, "tier overridden", "user_id", userID, "category", c, "tier", t)
	return record, nil
}

func (s *TierService) SetAlias(ctx context.Context, userID, alias string) (tier.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TierService.SetAlias")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return tier.Record{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	alias = strings.TrimSpace(alias)
	if len([]rune(alias)) > maxAliasLength {
		return tier.Record{}, fmt.Errorf("%w: alias must be at most %d characters", ErrInvalidInput, maxAliasLength)
	}

	record, err := s.tierRepo.SetAlias(ctx, userID, alias)
	if err != nil {
		return tier.Record{}, fmt.Errorf("set alias: %w", err)
	}
	return record, nil
}

func (s *TierService) Profile(ctx context.Context, userID string) (tier.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TierService.Profile")
	defer span.End()

	record, err := s.get(ctx, userID)
	if err != nil {
		return tier.Profile{}, err
	}
	position, err := s.tierRepo.PositionOf(ctx, record.UserID)
	if err != nil {
		return tier.Profile{}, fmt.Errorf("experience position: %w", err)
	}
	return tier.Profile{
		Record:   record,
		Level:    tier.LevelFor(record.Experience),
		Position: position,
	}, nil
}

func (s *TierService) Leaderboard(ctx context.Context, limit int) ([]tier.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TierService.Leaderboard")
	defer span.End()

	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	items, err := s.tierRepo.ListByExperience(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list experience leaderboard: %w", err)
	}
	return items, nil
}

func (s *TierService) get(ctx context.Context, userID string) (tier.Record, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return tier.Record{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	record, err := s.tierRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return tier.Record{}, fmt.Errorf("get tier record: %w", err)
	}
	return record, nil
}
