package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	"github.com/riskibarqy/speedrun-tournament/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
)

func newTestRoundService(store *memory.Store) *RoundService {
	service := NewRoundService(store.Tournaments(), logging.NewNop())
	service.now = fixedClock(baseTime)
	return service
}

func validStartInput() StartRoundInput {
	openAt := baseTime.Add(time.Hour)
	return StartRoundInput{
		Name:    "Weekly 12",
		Maps:    map[string]tournament.MapAssignment{"ta": {Code: "TA001"}, "mc": {Code: "MC001"}, "hc": {Code: "HC001"}, "bo": {Code: "BO001"}},
		OpenAt:  &openAt,
		CloseAt: baseTime.Add(7 * 24 * time.Hour),
		Missions: MissionTexts{
			Objectives: map[string]map[string]string{
				"easy": {"ta": "complete"},
				"hard": {"ta": "sub - 15", "hc": "sub - 1:05.50"},
			},
			General: "top - 3",
		},
	}
}

func TestRoundService_Start_SchedulesRound(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	service := newTestRoundService(store)

	created, err := service.Start(context.Background(), validStartInput())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if created.State() != tournament.StateScheduled {
		t.Fatalf("unexpected state: got=%s want=%s", created.State(), tournament.StateScheduled)
	}
	hard, ok := created.Missions.Objective(tournament.DifficultyHard, tournament.CategoryHardcore)
	if !ok || hard.Target != 65.5 {
		t.Fatalf("unexpected hard hc objective: got=%+v ok=%v", hard, ok)
	}
	if created.Missions.General == nil || created.Missions.General.Kind != tournament.GeneralTopPlacements {
		t.Fatalf("unexpected general mission: got=%+v", created.Missions.General)
	}
}

func TestRoundService_Start_WithoutOpenAtOpensOnNextTick(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	service := newTestRoundService(store)

	input := validStartInput()
	input.OpenAt = nil
	created, err := service.Start(context.Background(), input)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !created.OpenAt.Equal(baseTime) {
		t.Fatalf("unexpected open_at: got=%v want=%v", created.OpenAt, baseTime)
	}
}

func TestRoundService_Start_RejectsSecondLiveRound(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	service := newTestRoundService(store)

	if _, err := service.Start(context.Background(), validStartInput()); err != nil {
		t.Fatalf("first start: %v", err)
	}

	_, err := service.Start(context.Background(), validStartInput())
	if !errors.Is(err, ErrRoundConflict) {
		t.Fatalf("expected ErrRoundConflict, got %v", err)
	}
}

func TestRoundService_Start_ValidatesInput(t *testing.T) {
	t.Parallel()

	pastClose := baseTime.Add(-time.Hour)
	lateOpen := baseTime.Add(10 * 24 * time.Hour)

	tests := []struct {
		name   string
		mutate func(*StartRoundInput)
	}{
		{name: "missing name", mutate: func(in *StartRoundInput) { in.Name = "  " }},
		{name: "missing map", mutate: func(in *StartRoundInput) { delete(in.Maps, "bo") }},
		{name: "unknown map category", mutate: func(in *StartRoundInput) { in.Maps["xx"] = tournament.MapAssignment{Code: "X"} }},
		{name: "blank map code", mutate: func(in *StartRoundInput) { in.Maps["ta"] = tournament.MapAssignment{Code: " "} }},
		{name: "close in past", mutate: func(in *StartRoundInput) { in.OpenAt = nil; in.CloseAt = pastClose }},
		{name: "close before open", mutate: func(in *StartRoundInput) { in.OpenAt = &lateOpen }},
		{name: "missing close", mutate: func(in *StartRoundInput) { in.CloseAt = time.Time{} }},
		{name: "bad objective", mutate: func(in *StartRoundInput) { in.Missions.Objectives["easy"]["ta"] = "beat it" }},
		{name: "bad difficulty", mutate: func(in *StartRoundInput) { in.Missions.Objectives["insane"] = map[string]string{"ta": "complete"} }},
		{name: "bad general", mutate: func(in *StartRoundInput) { in.Missions.General = "xp - lots" }},
		{name: "bad bracket category", mutate: func(in *StartRoundInput) { in.Bracket = true; in.BracketCategory = "speed" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := memory.NewStore()
			service := newTestRoundService(store)
			input := validStartInput()
			tc.mutate(&input)

			_, err := service.Start(context.Background(), input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if _, exists, _ := store.Tournaments().GetLatest(context.Background()); exists {
				t.Fatalf("invalid round was persisted")
			}
		})
	}
}

func TestRoundService_Start_BracketNeedsOnlyItsMap(t *testing.T) {
	t.Parallel()

	service := newTestRoundService(memory.NewStore())
	input := validStartInput()
	input.Bracket = true
	input.BracketCategory = "hc"
	input.Maps = map[string]tournament.MapAssignment{"hc": {Code: "HC001"}}

	created, err := service.Start(context.Background(), input)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := created.Categories(); len(got) != 1 || got[0] != tournament.CategoryHardcore {
		t.Fatalf("unexpected bracket categories: got=%v", got)
	}
}

func TestRoundService_CancelAndCurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	service := newTestRoundService(store)

	if _, err := service.Cancel(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without a round, got %v", err)
	}

	created, err := service.Start(ctx, validStartInput())
	require.NoError(t, err)
	seedSubmission(t, store, tournament.Submission{TournamentID: created.ID, Category: tournament.CategoryTimeAttack, UserID: "u1", Record: 12})

	current, ok, err := service.Current(ctx)
	require.NoError(t, err)
	if !ok || current.ID != created.ID {
		t.Fatalf("unexpected current round: got=%d ok=%v want=%d", current.ID, ok, created.ID)
	}

	cancelled, err := service.Cancel(ctx)
	require.NoError(t, err)
	if cancelled.ID != created.ID {
		t.Fatalf("unexpected cancelled round: got=%d want=%d", cancelled.ID, created.ID)
	}

	_, ok, err = service.Current(ctx)
	require.NoError(t, err)
	if ok {
		t.Fatalf("expected no current round after cancel")
	}
	left, err := store.Submissions().ListByTournament(ctx, created.ID)
	require.NoError(t, err)
	if len(left) != 0 {
		t.Fatalf("expected submissions removed with round, got %d", len(left))
	}
}

func TestRoundService_SetAndClearMissions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := newTestRoundService(memory.NewStore())
	_, err := service.Start(ctx, validStartInput())
	require.NoError(t, err)

	missions, err := service.SetMissions(ctx, "expert", map[string]string{"bo": "sub - 40"}, "")
	require.NoError(t, err)
	if _, ok := missions.Objective(tournament.DifficultyExpert, tournament.CategoryBonus); !ok {
		t.Fatalf("expected expert bo objective")
	}
	if _, ok := missions.Objective(tournament.DifficultyEasy, tournament.CategoryTimeAttack); !ok {
		t.Fatalf("setting expert dropped the easy objective")
	}

	missions, err = service.SetMissions(ctx, "general", nil, "missions - 2 hard")
	require.NoError(t, err)
	if missions.General == nil || missions.General.Scope != tournament.DifficultyHard {
		t.Fatalf("unexpected general mission: got=%+v", missions.General)
	}

	if _, err := service.SetMissions(ctx, "medium", map[string]string{"ta": ""}, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty objectives, got %v", err)
	}

	missions, err = service.ClearMissions(ctx, "hard")
	require.NoError(t, err)
	if _, ok := missions.Objective(tournament.DifficultyHard, tournament.CategoryTimeAttack); ok {
		t.Fatalf("expected hard objectives cleared")
	}

	missions, err = service.ClearMissions(ctx, "general")
	require.NoError(t, err)
	if missions.General != nil {
		t.Fatalf("expected general mission cleared, got %+v", missions.General)
	}

	current, _, err := service.Current(ctx)
	require.NoError(t, err)
	if _, ok := current.Missions.Objective(tournament.DifficultyExpert, tournament.CategoryBonus); !ok {
		t.Fatalf("mission update was not persisted")
	}
}
