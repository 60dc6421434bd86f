package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
)

// MissionTexts carries organiser mission text keyed by difficulty, then category.
type MissionTexts struct {
	Objectives map[string]map[string]string
	General    string
}

type StartRoundInput struct {
	Name            string
	Maps            map[string]tournament.MapAssignment
	Missions        MissionTexts
	OpenAt          *time.Time
	CloseAt         time.Time
	Bracket         bool
	BracketCategory string
}

type RoundService struct {
	tournamentRepo tournament.Repository
	logger         *logging.Logger
	now            func() time.Time
}

func NewRoundService(tournamentRepo tournament.Repository, logger *logging.Logger) *RoundService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RoundService{
		tournamentRepo: tournamentRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// Start validates the whole configuration before anything is persisted.
func (s *RoundService) Start(ctx context.Context, input StartRoundInput) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Start")
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	item := tournament.Tournament{
		Name:    name,
		Bracket: input.Bracket,
		CloseAt: input.CloseAt.UTC(),
	}
	if input.Bracket {
		c, err := tournament.ParseCategory(input.BracketCategory)
		if err != nil {
			return tournament.Tournament{}, fmt.Errorf("%w: bracket_category: %v", ErrInvalidInput, err)
		}
		item.BracketCategory = c
	}

	maps, err := parseMaps(input.Maps, item.Categories())
	if err != nil {
		return tournament.Tournament{}, err
	}
	item.Maps = maps

	missions, err := parseMissions(input.Missions)
	if err != nil {
		return tournament.Tournament{}, err
	}
	item.Missions = missions

	now := s.now().UTC()
	openAt := now
	if input.OpenAt != nil && !input.OpenAt.IsZero() {
		openAt = input.OpenAt.UTC()
	}
	if tournament.IsSentinel(item.CloseAt) {
		return tournament.Tournament{}, fmt.Errorf("%w: close_at is required", ErrInvalidInput)
	}
	if !item.CloseAt.After(openAt) {
		return tournament.Tournament{}, fmt.Errorf("%w: close_at must be after open_at", ErrInvalidInput)
	}
	if !item.CloseAt.After(now) {
		return tournament.Tournament{}, fmt.Errorf("%w: close_at must be in the future", ErrInvalidInput)
	}
	item.OpenAt = openAt
	item.CreatedAt = now

	if current, exists, err := s.tournamentRepo.GetLatest(ctx); err != nil {
		return tournament.Tournament{}, fmt.Errorf("get latest tournament: %w", err)
	} else if exists && current.Live() {
		return tournament.Tournament{}, fmt.Errorf("%w: round %d closes at %s", ErrRoundConflict, current.ID, current.CloseAt.Format(time.RFC3339))
	}

	created, err := s.tournamentRepo.Create(ctx, item)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("create tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "round scheduled",
		"tournament_id", created.ID,
		"name", created.Name,
		"open_at", created.OpenAt,
		"close_at", created.CloseAt,
		"bracket", created.Bracket,
	)
	return created, nil
}

// Cancel deletes the live round together with its submissions.
func (s *RoundService) Cancel(ctx context.Context) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Cancel")
	defer span.End()

	round, err := liveRound(ctx, s.tournamentRepo)
	if err != nil {
		return tournament.Tournament{}, err
	}
	if err := s.tournamentRepo.Delete(ctx, round.ID); err != nil {
		return tournament.Tournament{}, fmt.Errorf("delete tournament: %w", err)
	}
	s.logger.InfoContext(ctx, "round cancelled", "tournament_id", round.ID)
	return round, nil
}

// Current returns the live round, if any.
func (s *RoundService) Current(ctx context.Context) (tournament.Tournament, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.Current")
	defer span.End()

	round, err := liveRound(ctx, s.tournamentRepo)
	if errors.Is(err, ErrNotFound) {
		return tournament.Tournament{}, false, nil
	}
	if err != nil {
		return tournament.Tournament{}, false, err
	}
	return round, true, nil
}

// SetMissions replaces one difficulty's objectives, or the general mission when difficulty is "general".
func (s *RoundService) SetMissions(ctx context.Context, difficulty string, objectives map[string]string, general string) (tournament.Missions, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.SetMissions")
	defer span.End()

	return s.updateMissions(ctx, func(current tournament.Missions) (tournament.Missions, error) {
		if isGeneralKey(difficulty) {
			g, err := tournament.ParseGeneralMission(general)
			if err != nil {
				return tournament.Missions{}, fmt.Errorf("%w: general: %v", ErrInvalidInput, err)
			}
			current.General = &g
			return current, nil
		}

		d, err := tournament.ParseDifficulty(difficulty)
		if err != nil {
			return tournament.Missions{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		parsed, err := parseObjectives(d, objectives)
		if err != nil {
			return tournament.Missions{}, err
		}
		if len(parsed) == 0 {
			return tournament.Missions{}, fmt.Errorf("%w: %s: at least one objective is required", ErrInvalidInput, d)
		}
		return current.WithObjectives(d, parsed), nil
	})
}

func (s *RoundService) ClearMissions(ctx context.Context, difficulty string) (tournament.Missions, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.ClearMissions")
	defer span.End()

	return s.updateMissions(ctx, func(current tournament.Missions) (tournament.Missions, error) {
		if isGeneralKey(difficulty) {
			current.General = nil
			return current, nil
		}
		d, err := tournament.ParseDifficulty(difficulty)
		if err != nil {
			return tournament.Missions{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return current.WithObjectives(d, nil), nil
	})
}

func (s *RoundService) updateMissions(ctx context.Context, apply func(tournament.Missions) (tournament.Missions, error)) (tournament.Missions, error) {
	round, err := liveRound(ctx, s.tournamentRepo)
	if err != nil {
		return tournament.Missions{}, err
	}
	updated, err := apply(round.Missions)
	if err != nil {
		return tournament.Missions{}, err
	}
	if err := s.tournamentRepo.UpdateMissions(ctx, round.ID, updated); err != nil {
		return tournament.Missions{}, fmt.Errorf("update missions: %w", err)
	}
	s.logger.InfoContext(ctx, "missions updated", "tournament_id", round.ID)
	return updated, nil
}

func isGeneralKey(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "general")
}

func parseMaps(raw map[string]tournament.MapAssignment, required []tournament.Category) (map[tournament.Category]tournament.MapAssignment, error) {
	out := make(map[tournament.Category]tournament.MapAssignment, len(raw))
	for key, value := range raw {
		c, err := tournament.ParseCategory(key)
		if err != nil {
			return nil, fmt.Errorf("%w: maps: %v", ErrInvalidInput, err)
		}
		value.Code = strings.TrimSpace(value.Code)
		value.Level = strings.TrimSpace(value.Level)
		value.Author = strings.TrimSpace(value.Author)
		if value.Code == "" {
			return nil, fmt.Errorf("%w: maps.%s.code is required", ErrInvalidInput, c)
		}
		out[c] = value
	}
	for _, c := range required {
		if _, ok := out[c]; !ok {
			return nil, fmt.Errorf("%w: maps.%s is required", ErrInvalidInput, c)
		}
	}
	return out, nil
}

func parseMissions(raw MissionTexts) (tournament.Missions, error) {
	out := tournament.Missions{}
	for key, objectives := range raw.Objectives {
		d, err := tournament.ParseDifficulty(key)
		if err != nil {
			return tournament.Missions{}, fmt.Errorf("%w: missions: %v", ErrInvalidInput, err)
		}
		parsed, err := parseObjectives(d, objectives)
		if err != nil {
			return tournament.Missions{}, err
		}
		out = out.WithObjectives(d, parsed)
	}
	if strings.TrimSpace(raw.General) != "" {
		g, err := tournament.ParseGeneralMission(raw.General)
		if err != nil {
			return tournament.Missions{}, fmt.Errorf("%w: missions.general: %v", ErrInvalidInput, err)
		}
		out.General = &g
	}
	return out, nil
}

func parseObjectives(d tournament.Difficulty, raw map[string]string) (map[tournament.Category]tournament.Objective, error) {
	out := make(map[tournament.Category]tournament.Objective, len(raw))
	for key, text := range raw {
		c, err := tournament.ParseCategory(key)
		if err != nil {
			return nil, fmt.Errorf("%w: missions.%s: %v", ErrInvalidInput, d, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		o, err := tournament.ParseObjective(text)
		if err != nil {
			return nil, fmt.Errorf("%w: missions.%s.%s: %v", ErrInvalidInput, d, c, err)
		}
		out[c] = o
	}
	return out, nil
}
