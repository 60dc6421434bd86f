package postgres

import (
	"testing"
	"time"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

func TestSentinelRoundTrip(t *testing.T) {
	t.Parallel()

	if got := sentinelToNull(tournament.Sentinel); got != nil {
		t.Fatalf("unexpected sentinel encoding: got=%v want=nil", got)
	}
	if got := nullToSentinel(nil); !tournament.IsSentinel(got) {
		t.Fatalf("unexpected null decoding: got=%v", got)
	}

	at := time.Date(2026, 3, 1, 18, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	encoded := sentinelToNull(at)
	if encoded == nil || !encoded.Equal(at) || encoded.Location() != time.UTC {
		t.Fatalf("unexpected timestamp encoding: got=%v want=%v", encoded, at.UTC())
	}
}

func TestUnmarshalJSONAcceptsEmptyColumns(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "null", "  "} {
		var missions tournament.Missions
		if err := unmarshalJSON(raw, &missions); err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if missions.General != nil || len(missions.Objectives) != 0 {
			t.Fatalf("unexpected missions for %q: %+v", raw, missions)
		}
	}
}

func TestTournamentModelDecodesJSONColumns(t *testing.T) {
	t.Parallel()

	closeAt := time.Date(2026, 3, 8, 18, 0, 0, 0, time.UTC)
	input := tournament.Tournament{
		Name: "Week 12",
		Maps: map[tournament.Category]tournament.MapAssignment{
			tournament.CategoryTimeAttack: {Code: "ABC12", Level: "Level 1", Author: "nebula"},
		},
		Missions: tournament.Missions{
			Objectives: map[tournament.Difficulty]map[tournament.Category]tournament.Objective{
				tournament.DifficultyHard: {
					tournament.CategoryTimeAttack: {Kind: tournament.ObjectiveThresholdBelow, Target: 14},
				},
			},
			General: &tournament.GeneralMission{Kind: tournament.GeneralXPTotal, Target: 4000},
		},
		CloseAt: closeAt,
	}

	insert, err := newTournamentInsertModel(input)
	if err != nil {
		t.Fatalf("unexpected insert model error: %v", err)
	}
	if insert.OpenAt != nil {
		t.Fatalf("unexpected open_at: got=%v want=nil", insert.OpenAt)
	}

	row := tournamentTableModel{
		ID:        7,
		Name:      insert.Name,
		Maps:      insert.Maps,
		Missions:  insert.Missions,
		TierCache: insert.TierCache,
		CloseAt:   insert.CloseAt,
	}
	got, err := row.toDomain()
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got.State() != tournament.StateActive {
		t.Fatalf("unexpected state: got=%s want=%s", got.State(), tournament.StateActive)
	}
	if got.Maps[tournament.CategoryTimeAttack].Code != "ABC12" {
		t.Fatalf("unexpected map: got=%+v", got.Maps)
	}
	objective, ok := got.Missions.Objective(tournament.DifficultyHard, tournament.CategoryTimeAttack)
	if !ok || objective.Target != 14 {
		t.Fatalf("unexpected objective: got=%+v ok=%v", objective, ok)
	}
	if got.Missions.General == nil || got.Missions.General.Target != 4000 {
		t.Fatalf("unexpected general mission: got=%+v", got.Missions.General)
	}
}

func TestTierModelFallsBackToUnranked(t *testing.T) {
	t.Parallel()

	record := tierTableModel{UserID: "u1", TierTA: "gold", TierMC: "bogus", Experience: 1200}.toDomain()
	if got := record.TierOf(tournament.CategoryTimeAttack); got != tournament.TierGold {
		t.Fatalf("unexpected ta tier: got=%s want=%s", got, tournament.TierGold)
	}
	if got := record.TierOf(tournament.CategoryMildcore); got != tournament.TierUnranked {
		t.Fatalf("unexpected mc tier: got=%s want=%s", got, tournament.TierUnranked)
	}
	if record.Experience != 1200 {
		t.Fatalf("unexpected experience: got=%d want=1200", record.Experience)
	}
}

func TestTierColumn(t *testing.T) {
	t.Parallel()

	for _, c := range tournament.AllCategories {
		if _, ok := tierColumn(c); !ok {
			t.Fatalf("missing tier column for %s", c)
		}
	}
	if _, ok := tierColumn("xx"); ok {
		t.Fatalf("expected unknown category to have no column")
	}
}
