package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/scoring"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
)

type SubmitRecordInput struct {
	Category    string
	UserID      string
	DisplayName string
	Record      float64
	EvidenceRef string
}

// BoardRow is one line of a live category board.
type BoardRow struct {
	Submission tournament.Submission
	Tier       tournament.Tier
	Placement  int
	Points     int64
}

// SubmissionService is the ledger of the live round.
type SubmissionService struct {
	tournamentRepo tournament.Repository
	submissionRepo tournament.SubmissionRepository
	splitter       *TierSplitter
	logger         *logging.Logger
	now            func() time.Time
}

func NewSubmissionService(
	tournamentRepo tournament.Repository,
	submissionRepo tournament.SubmissionRepository,
	splitter *TierSplitter,
	logger *logging.Logger,
) *SubmissionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SubmissionService{
		tournamentRepo: tournamentRepo,
		submissionRepo: submissionRepo,
		splitter:       splitter,
		logger:         logger,
		now:            time.Now,
	}
}

// Submit replaces the caller's entry for a category unconditionally.
func (s *SubmissionService) Submit(ctx context.Context, input SubmitRecordInput) (tournament.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Submit")
	defer span.End()

	category, err := parseCategory(input.Category)
	if err != nil {
		return tournament.Submission{}, err
	}
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return tournament.Submission{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if math.IsNaN(input.Record) || math.IsInf(input.Record, 0) || input.Record < 0 {
		return tournament.Submission{}, fmt.Errorf("%w: record must be a non-negative number of seconds", ErrInvalidInput)
	}
	evidence := strings.TrimSpace(input.EvidenceRef)
	if evidence == "" {
		return tournament.Submission{}, fmt.Errorf("%w: evidence reference is required", ErrInvalidInput)
	}

	round, err := s.openRound(ctx, category)
	if err != nil {
		return tournament.Submission{}, err
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = userID
	}
	item := tournament.Submission{
		TournamentID: round.ID,
		Category:     category,
		UserID:       userID,
		DisplayName:  displayName,
		Record:       input.Record,
		EvidenceRef:  evidence,
		SubmittedAt:  s.now().UTC(),
	}
	if err := s.submissionRepo.Upsert(ctx, item); err != nil {
		return tournament.Submission{}, fmt.Errorf("upsert submission: %w", err)
	}

	s.logger.InfoContext(ctx, "submission recorded",
		"tournament_id", round.ID,
		"category", category,
		"user_id", userID,
		"record", input.Record,
	)
	return item, nil
}

func (s *SubmissionService) Delete(ctx context.Context, category, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Delete")
	defer span.End()

	c, err := parseCategory(category)
	if err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	round, err := liveRound(ctx, s.tournamentRepo)
	if err != nil {
		return err
	}
	deleted, err := s.submissionRepo.Delete(ctx, round.ID, c, userID)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: submission category=%s user=%s", ErrNotFound, c, userID)
	}
	return nil
}

// ClearCategory drops every submission of one category in the live round.
func (s *SubmissionService) ClearCategory(ctx context.Context, category string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.ClearCategory")
	defer span.End()

	c, err := parseCategory(category)
	if err != nil {
		return 0, err
	}
	round, err := liveRound(ctx, s.tournamentRepo)
	if err != nil {
		return 0, err
	}
	removed, err := s.submissionRepo.DeleteByCategory(ctx, round.ID, c)
	if err != nil {
		return 0, fmt.Errorf("clear category: %w", err)
	}

	s.logger.InfoContext(ctx, "category cleared", "tournament_id", round.ID, "category", c, "removed", removed)
	return removed, nil
}

func (s *SubmissionService) ListByCategory(ctx context.Context, category string) ([]tournament.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.ListByCategory")
	defer span.End()

	c, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	round, err := liveRound(ctx, s.tournamentRepo)
	if err != nil {
		return nil, err
	}
	items, err := s.submissionRepo.ListByCategory(ctx, round.ID, c)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	scoring.SortSubmissions(items)
	return items, nil
}

// Board scores the live submissions of a category per tier group, optionally keeping a single tier.
func (s *SubmissionService) Board(ctx context.Context, category, tierFilter string) ([]BoardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Board")
	defer span.End()

	var only tournament.Tier
	if strings.TrimSpace(tierFilter) != "" {
		t, err := tournament.ParseTier(tierFilter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		only = t
	}

	c, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	round, err := liveRound(ctx, s.tournamentRepo)
	if err != nil {
		return nil, err
	}
	items, err := s.submissionRepo.ListByCategory(ctx, round.ID, c)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	groups, err := s.splitter.Split(ctx, items)
	if err != nil {
		return nil, err
	}

	out := make([]BoardRow, 0, len(items))
	for _, t := range tournament.AllTiers {
		if only != "" && t != only {
			continue
		}
		for _, entry := range scoring.ScoreGroup(c, t, groups[t], round.Missions) {
			out = append(out, BoardRow{
				Submission: entry.Submission,
				Tier:       t,
				Placement:  entry.Placement,
				Points:     entry.Points,
			})
		}
	}
	return out, nil
}

func (s *SubmissionService) openRound(ctx context.Context, category tournament.Category) (tournament.Tournament, error) {
	round, err := liveRound(ctx, s.tournamentRepo)
	if errors.Is(err, ErrNotFound) {
		return tournament.Tournament{}, fmt.Errorf("%w: no live round", ErrRoundNotOpen)
	}
	if err != nil {
		return tournament.Tournament{}, err
	}
	if round.State() != tournament.StateActive {
		return tournament.Tournament{}, fmt.Errorf("%w: round %d opens at %s", ErrRoundNotOpen, round.ID, round.OpenAt.UTC().Format(time.RFC3339))
	}
	if !round.AcceptsCategory(category) {
		return tournament.Tournament{}, fmt.Errorf("%w: category %s is not part of round %d", ErrRoundNotOpen, category, round.ID)
	}
	return round, nil
}
