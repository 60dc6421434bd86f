package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/archive"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/scoring"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

const (
	defaultHallOfFameRounds = 5
	maxHallOfFameRounds     = 50
	defaultHistoryLimit     = 20
)

type HallOfFameService struct {
	tournamentRepo tournament.Repository
	archiveRepo    archive.Repository
}

func NewHallOfFameService(tournamentRepo tournament.Repository, archiveRepo archive.Repository) *HallOfFameService {
	return &HallOfFameService{
		tournamentRepo: tournamentRepo,
		archiveRepo:    archiveRepo,
	}
}

// Podiums lists the top three archived records per category of the latest closed rounds, newest first.
func (s *HallOfFameService) Podiums(ctx context.Context, rounds int) ([]archive.Podium, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HallOfFameService.Podiums")
	defer span.End()

	if rounds <= 0 {
		rounds = defaultHallOfFameRounds
	}
	if rounds > maxHallOfFameRounds {
		rounds = maxHallOfFameRounds
	}

	closed, err := s.tournamentRepo.ListClosed(ctx, rounds)
	if err != nil {
		return nil, fmt.Errorf("list closed tournaments: %w", err)
	}

	out := make([]archive.Podium, 0, len(closed)*len(tournament.AllCategories))
	for _, round := range closed {
		records, err := s.archiveRepo.ListByTournament(ctx, round.ID)
		if err != nil {
			return nil, fmt.Errorf("list archive tournament=%d: %w", round.ID, err)
		}
		out = append(out, podiumsOf(round, records)...)
	}
	return out, nil
}

func (s *HallOfFameService) History(ctx context.Context, userID string, limit int) ([]archive.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HallOfFameService.History")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	items, err := s.archiveRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list archive by user: %w", err)
	}
	return items, nil
}

func podiumsOf(round tournament.Tournament, records []archive.Record) []archive.Podium {
	byCategory := make(map[tournament.Category][]tournament.Submission)
	lookup := make(map[tournament.Category]map[string]archive.Record)
	for _, r := range records {
		if !r.Verified || r.Record <= 0 {
			continue
		}
		byCategory[r.Category] = append(byCategory[r.Category], tournament.Submission{
			Category:    r.Category,
			UserID:      r.UserID,
			Record:      r.Record,
			SubmittedAt: r.ArchivedAt,
		})
		if lookup[r.Category] == nil {
			lookup[r.Category] = make(map[string]archive.Record)
		}
		lookup[r.Category][r.UserID] = r
	}

	out := make([]archive.Podium, 0, len(byCategory))
	for _, c := range tournament.AllCategories {
		items := byCategory[c]
		if len(items) == 0 {
			continue
		}
		scoring.SortSubmissions(items)
		if len(items) > scoring.PodiumSize {
			items = items[:scoring.PodiumSize]
		}
		podium := archive.Podium{
			TournamentID:   round.ID,
			TournamentName: round.Name,
			Category:       c,
			Entries:        make([]archive.Record, 0, len(items)),
		}
		for _, item := range items {
			podium.Entries = append(podium.Entries, lookup[c][item.UserID])
		}
		out = append(out, podium)
	}
	return out
}
