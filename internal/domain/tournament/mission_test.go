package tournament

import (
	"errors"
	"testing"
)

func TestParseObjective(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Objective
		wantErr bool
	}{
		{name: "threshold seconds", raw: "sub - 15", want: Objective{Kind: ObjectiveThresholdBelow, Target: 15}},
		{name: "threshold clock format", raw: "Sub - 1:05.5", want: Objective{Kind: ObjectiveThresholdBelow, Target: 65.5}},
		{name: "completion", raw: " complete ", want: Objective{Kind: ObjectiveAnySubmission}},
		{name: "non numeric target", raw: "sub - fast", wantErr: true},
		{name: "zero target", raw: "sub - 0", wantErr: true},
		{name: "unknown keyword", raw: "beat - 12", wantErr: true},
		{name: "missing separator", raw: "sub 15", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseObjective(tc.raw)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidMission) {
					t.Fatalf("expected ErrInvalidMission, got=%v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse objective: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected objective: got=%+v want=%+v", got, tc.want)
			}
		})
	}
}

func TestParseGeneralMission(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    GeneralMission
		wantErr bool
	}{
		{name: "xp total", raw: "xp - 4000", want: GeneralMission{Kind: GeneralXPTotal, Target: 4000}},
		{name: "top placements", raw: "top - 3", want: GeneralMission{Kind: GeneralTopPlacements, Target: 3}},
		{name: "scoped mission count", raw: "missions - 3 hard", want: GeneralMission{Kind: GeneralMissionCount, Target: 3, Scope: DifficultyHard}},
		{name: "unscoped mission count", raw: "missions - 5", want: GeneralMission{Kind: GeneralMissionCount, Target: 5}},
		{name: "bad scope", raw: "missions - 3 insane", wantErr: true},
		{name: "non numeric", raw: "xp - lots", wantErr: true},
		{name: "trailing text on xp", raw: "xp - 4000 hard", wantErr: true},
		{name: "unknown kind", raw: "wins - 2", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseGeneralMission(tc.raw)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidMission) {
					t.Fatalf("expected ErrInvalidMission, got=%v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse general mission: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected mission: got=%+v want=%+v", got, tc.want)
			}
		})
	}
}

func TestObjectiveSatisfied(t *testing.T) {
	threshold := Objective{Kind: ObjectiveThresholdBelow, Target: 14}
	if threshold.Satisfied(14) {
		t.Fatalf("threshold must be strict")
	}
	if !threshold.Satisfied(13.99) {
		t.Fatalf("expected 13.99 to satisfy sub 14")
	}
	if !(Objective{Kind: ObjectiveAnySubmission}).Satisfied(999) {
		t.Fatalf("any submission must always be satisfied")
	}
}

func TestMissionsWithObjectives(t *testing.T) {
	base := Missions{}
	updated := base.WithObjectives(DifficultyHard, map[Category]Objective{
		CategoryTimeAttack: {Kind: ObjectiveThresholdBelow, Target: 14},
	})
	if _, ok := base.Objective(DifficultyHard, CategoryTimeAttack); ok {
		t.Fatalf("original missions must not be mutated")
	}
	if got, ok := updated.Objective(DifficultyHard, CategoryTimeAttack); !ok || got.Target != 14 {
		t.Fatalf("unexpected objective after update: got=%+v ok=%v", got, ok)
	}

	cleared := updated.WithObjectives(DifficultyHard, nil)
	if _, ok := cleared.Objective(DifficultyHard, CategoryTimeAttack); ok {
		t.Fatalf("expected hard objectives to be removed")
	}
}
