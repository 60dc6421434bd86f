package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/scoring"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
)

type Transition string

const (
	TransitionNone   Transition = "none"
	TransitionOpened Transition = "opened"
	TransitionClosed Transition = "closed"
)

type TickResult struct {
	TournamentID int64            `json:"tournament_id,omitempty"`
	State        tournament.State `json:"state"`
	Transition   Transition       `json:"transition"`
	Competitors  int              `json:"competitors,omitempty"`
}

// RoundController reconciles the persisted round record with the clock.
// Every transition is keyed on a timestamp that is consumed only after the transition succeeded,
// so a failed or repeated tick simply tries again.
type RoundController struct {
	tournamentRepo tournament.Repository
	submissionRepo tournament.SubmissionRepository
	splitter       *TierSplitter
	gate           ChannelGate
	logger         *logging.Logger
	now            func() time.Time
}

func NewRoundController(
	tournamentRepo tournament.Repository,
	submissionRepo tournament.SubmissionRepository,
	splitter *TierSplitter,
	gate ChannelGate,
	logger *logging.Logger,
) *RoundController {
	if logger == nil {
		logger = logging.Default()
	}
	if gate == nil {
		gate = NewLogChannelGate(logger)
	}
	return &RoundController{
		tournamentRepo: tournamentRepo,
		submissionRepo: submissionRepo,
		splitter:       splitter,
		gate:           gate,
		logger:         logger,
		now:            time.Now,
	}
}

func (c *RoundController) Tick(ctx context.Context) (TickResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundController.Tick")
	defer span.End()

	round, exists, err := c.tournamentRepo.GetLatest(ctx)
	if err != nil {
		return TickResult{}, fmt.Errorf("get latest tournament: %w", err)
	}
	if !exists {
		return TickResult{State: tournament.StateIdle, Transition: TransitionNone}, nil
	}

	result := TickResult{
		TournamentID: round.ID,
		State:        round.State(),
		Transition:   TransitionNone,
	}
	now := c.now().UTC()

	switch {
	case !tournament.IsSentinel(round.OpenAt):
		if now.Before(round.OpenAt) {
			return result, nil
		}
		if err := c.open(ctx, round); err != nil {
			return result, err
		}
		result.State = tournament.StateActive
		result.Transition = TransitionOpened
	case !tournament.IsSentinel(round.CloseAt):
		if now.Before(round.CloseAt) {
			return result, nil
		}
		competitors, err := c.close(ctx, round, now)
		if err != nil {
			return result, err
		}
		result.State = tournament.StateIdle
		result.Transition = TransitionClosed
		result.Competitors = competitors
	}
	return result, nil
}

func (c *RoundController) open(ctx context.Context, round tournament.Tournament) error {
	categories := round.Categories()
	if err := c.gate.Unlock(ctx, categories); err != nil {
		return fmt.Errorf("%w: unlock categories: %v", ErrDependencyUnavailable, err)
	}
	if err := c.gate.AnnounceRoundOpen(ctx, buildOpenSummary(round)); err != nil {
		return fmt.Errorf("%w: announce round open: %v", ErrDependencyUnavailable, err)
	}
	if err := c.tournamentRepo.MarkOpened(ctx, round.ID); err != nil {
		return fmt.Errorf("mark tournament opened: %w", err)
	}

	c.logger.InfoContext(ctx, "round opened", "tournament_id", round.ID, "categories", categories)
	return nil
}

func (c *RoundController) close(ctx context.Context, round tournament.Tournament, now time.Time) (int, error) {
	categories := round.Categories()
	if err := c.gate.Lock(ctx, categories); err != nil {
		return 0, fmt.Errorf("%w: lock categories: %v", ErrDependencyUnavailable, err)
	}

	snapshot, err := c.submissionRepo.ListByTournament(ctx, round.ID)
	if err != nil {
		return 0, fmt.Errorf("snapshot submissions: %w", err)
	}
	byCategory := make(map[tournament.Category][]tournament.Submission, len(categories))
	for _, item := range snapshot {
		if !round.AcceptsCategory(item.Category) {
			continue
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	groups, err := c.splitter.SplitAll(ctx, byCategory)
	if err != nil {
		return 0, fmt.Errorf("split tiers: %w", err)
	}
	table := scoring.Score(groups, round.Missions)

	// Results go out before the commit. A failed commit re-announces on the next tick.
	if err := c.gate.AnnounceRoundClose(ctx, buildCloseSummary(round, table, now)); err != nil {
		return 0, fmt.Errorf("%w: announce round close: %v", ErrDependencyUnavailable, err)
	}

	outcome := tournament.CloseOutcome{
		TournamentID: round.ID,
		Experience:   make(map[string]int64, len(table.Results)),
		TierCache:    tierCache(groups),
		ClosedAt:     now,
	}
	for userID, result := range table.Results {
		outcome.Experience[userID] = result.Total()
	}
	for _, category := range categories {
		for _, entry := range table.Entries[category] {
			outcome.Archive = append(outcome.Archive, tournament.ArchiveEntry{
				Submission: entry.Submission,
				Map:        round.Maps[category],
				Tier:       entry.Tier,
				Points:     entry.Points + entry.MissionPoints,
			})
		}
	}
	if err := c.tournamentRepo.Close(ctx, outcome); err != nil {
		return 0, fmt.Errorf("close tournament: %w", err)
	}

	c.logger.InfoContext(ctx, "round closed",
		"tournament_id", round.ID,
		"competitors", len(table.Results),
		"archived", len(outcome.Archive),
	)
	return len(table.Results), nil
}

func tierCache(groups map[tournament.Category]tournament.TierGroups) tournament.TierCache {
	out := make(tournament.TierCache, len(tournament.AllTiers))
	for category, byTier := range groups {
		for t, items := range byTier {
			if len(items) == 0 {
				continue
			}
			if out[t] == nil {
				out[t] = make(map[tournament.Category][]tournament.Submission)
			}
			out[t][category] = items
		}
	}
	return out
}
