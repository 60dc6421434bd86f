package scoring

import (
	"testing"
	"time"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

func submission(userID string, category tournament.Category, record float64) tournament.Submission {
	return tournament.Submission{
		TournamentID: 1,
		Category:     category,
		UserID:       userID,
		DisplayName:  "name-" + userID,
		Record:       record,
		EvidenceRef:  "https://example.com/" + userID,
		SubmittedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLeaderboardPoints(t *testing.T) {
	tests := []struct {
		name   string
		record float64
		top    float64
		want   int64
	}{
		{name: "group minimum", record: 13.41, top: 13.41, want: 2500},
		{name: "close second", record: 13.47, top: 13.41, want: 2446},
		{name: "third", record: 13.98, top: 13.41, want: 1989},
		{name: "at ceiling", record: 12, top: 10, want: 100},
		{name: "past ceiling", record: 30, top: 10, want: 100},
		{name: "unset record", record: 0, top: 10, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := LeaderboardPoints(tc.record, tc.top); got != tc.want {
				t.Fatalf("unexpected points: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestMissionBonusAwardsOnlyHardestSatisfiedTier(t *testing.T) {
	missions := tournament.Missions{Objectives: map[tournament.Difficulty]map[tournament.Category]tournament.Objective{
		tournament.DifficultyEasy:   {tournament.CategoryTimeAttack: {Kind: tournament.ObjectiveThresholdBelow, Target: 17}},
		tournament.DifficultyMedium: {tournament.CategoryTimeAttack: {Kind: tournament.ObjectiveThresholdBelow, Target: 15}},
		tournament.DifficultyHard:   {tournament.CategoryTimeAttack: {Kind: tournament.ObjectiveThresholdBelow, Target: 14}},
		tournament.DifficultyExpert: {tournament.CategoryTimeAttack: {Kind: tournament.ObjectiveThresholdBelow, Target: 13.5}},
	}}

	d, bonus := MissionBonus(missions, tournament.CategoryTimeAttack, 13.9)
	if d != tournament.DifficultyHard || bonus != 1500 {
		t.Fatalf("unexpected mission bonus: got=%s/%d want=hard/1500", d, bonus)
	}

	d, bonus = MissionBonus(missions, tournament.CategoryTimeAttack, 18)
	if d != "" || bonus != 0 {
		t.Fatalf("expected no bonus, got=%s/%d", d, bonus)
	}

	d, bonus = MissionBonus(missions, tournament.CategoryMildcore, 1)
	if d != "" || bonus != 0 {
		t.Fatalf("expected category without objectives to be skipped, got=%s/%d", d, bonus)
	}
}

func TestScoreTimeAttackExample(t *testing.T) {
	groups := map[tournament.Category]tournament.TierGroups{
		tournament.CategoryTimeAttack: {
			tournament.TierUnranked: {
				submission("C", tournament.CategoryTimeAttack, 13.98),
				submission("A", tournament.CategoryTimeAttack, 13.41),
				submission("B", tournament.CategoryTimeAttack, 13.47),
			},
		},
	}

	table := Score(groups, tournament.Missions{})
	want := map[string]int64{"A": 2500, "B": 2446, "C": 1989}
	for userID, points := range want {
		result, ok := table.Result(userID)
		if !ok {
			t.Fatalf("missing result for %s", userID)
		}
		if got := result.CategoryPoints[tournament.CategoryTimeAttack]; got != points {
			t.Fatalf("unexpected points for %s: got=%d want=%d", userID, got, points)
		}
	}

	entries := table.Entries[tournament.CategoryTimeAttack]
	if len(entries) != 3 || entries[0].Submission.UserID != "A" || entries[0].Placement != 1 {
		t.Fatalf("unexpected entry order: %+v", entries)
	}
}

func TestScoreKeepsTierGroupsIndependent(t *testing.T) {
	groups := map[tournament.Category]tournament.TierGroups{
		tournament.CategoryHardcore: {
			tournament.TierGold:    {submission("g1", tournament.CategoryHardcore, 40)},
			tournament.TierDiamond: {submission("d1", tournament.CategoryHardcore, 20), submission("d2", tournament.CategoryHardcore, 30)},
		},
	}

	table := Score(groups, tournament.Missions{})
	gold, _ := table.Result("g1")
	if gold.CategoryPoints[tournament.CategoryHardcore] != MaxPoints {
		t.Fatalf("gold group minimum must score max points, got=%d", gold.CategoryPoints[tournament.CategoryHardcore])
	}
	if gold.Tiers[tournament.CategoryHardcore] != tournament.TierGold {
		t.Fatalf("unexpected tier: %s", gold.Tiers[tournament.CategoryHardcore])
	}
	d2, _ := table.Result("d2")
	if d2.CategoryPoints[tournament.CategoryHardcore] != FloorPoints {
		t.Fatalf("unexpected d2 points: got=%d want=%d", d2.CategoryPoints[tournament.CategoryHardcore], FloorPoints)
	}
}

func TestScoreSkipsEmptyCategories(t *testing.T) {
	table := Score(map[tournament.Category]tournament.TierGroups{
		tournament.CategoryBonus: {},
	}, tournament.Missions{})
	if len(table.Results) != 0 || len(table.Entries) != 0 {
		t.Fatalf("expected empty table, got=%+v", table)
	}
}

func TestGeneralXPTotal(t *testing.T) {
	general := &tournament.GeneralMission{Kind: tournament.GeneralXPTotal, Target: 4000}

	high := Result{CategoryPoints: map[tournament.Category]int64{
		tournament.CategoryTimeAttack: 2500,
		tournament.CategoryMildcore:   1700,
	}}
	if !generalSatisfied(*general, high) {
		t.Fatalf("expected 4200 to satisfy xp target 4000")
	}

	low := Result{CategoryPoints: map[tournament.Category]int64{
		tournament.CategoryTimeAttack: 2500,
		tournament.CategoryMildcore:   1499,
	}}
	if generalSatisfied(*general, low) {
		t.Fatalf("expected 3999 to miss xp target 4000")
	}
}

func TestGeneralXPTotalThroughScore(t *testing.T) {
	groups := map[tournament.Category]tournament.TierGroups{
		tournament.CategoryTimeAttack: {tournament.TierUnranked: {submission("u1", tournament.CategoryTimeAttack, 10)}},
		tournament.CategoryMildcore:   {tournament.TierUnranked: {submission("u1", tournament.CategoryMildcore, 20)}},
		tournament.CategoryHardcore:   {tournament.TierUnranked: {submission("u2", tournament.CategoryHardcore, 20)}},
	}
	missions := tournament.Missions{General: &tournament.GeneralMission{Kind: tournament.GeneralXPTotal, Target: 4000}}

	table := Score(groups, missions)
	u1, _ := table.Result("u1")
	if u1.GeneralPoints != tournament.GeneralBonus {
		t.Fatalf("unexpected general points for u1: got=%d", u1.GeneralPoints)
	}
	if u1.Total() != 7000 {
		t.Fatalf("unexpected total for u1: got=%d want=7000", u1.Total())
	}
	u2, _ := table.Result("u2")
	if u2.GeneralPoints != 0 {
		t.Fatalf("unexpected general points for u2: got=%d", u2.GeneralPoints)
	}
}

func TestGeneralTopPlacementsCountsWithinTierGroup(t *testing.T) {
	groups := map[tournament.Category]tournament.TierGroups{
		tournament.CategoryTimeAttack: {
			tournament.TierGold: {
				submission("a", tournament.CategoryTimeAttack, 10),
				submission("b", tournament.CategoryTimeAttack, 11),
				submission("c", tournament.CategoryTimeAttack, 12),
				submission("d", tournament.CategoryTimeAttack, 13),
			},
		},
		tournament.CategoryMildcore: {
			tournament.TierDiamond: {
				submission("d", tournament.CategoryMildcore, 50),
				submission("a", tournament.CategoryMildcore, 60),
			},
		},
	}
	missions := tournament.Missions{General: &tournament.GeneralMission{Kind: tournament.GeneralTopPlacements, Target: 1}}

	table := Score(groups, missions)
	for _, userID := range []string{"a", "b", "c", "d"} {
		result, _ := table.Result(userID)
		if result.GeneralPoints != tournament.GeneralBonus {
			t.Fatalf("expected %s to earn the general bonus", userID)
		}
	}

	missions.General.Target = 2
	table = Score(groups, missions)
	if r, _ := table.Result("a"); r.GeneralPoints != tournament.GeneralBonus || r.Podiums != 2 {
		t.Fatalf("expected a to hold two podiums, got=%d", r.Podiums)
	}
	if r, _ := table.Result("d"); r.GeneralPoints != 0 || r.Podiums != 1 {
		t.Fatalf("expected d to miss a two podium target, podiums=%d", r.Podiums)
	}
}

func TestGeneralMissionCountIsPerUser(t *testing.T) {
	hard := map[tournament.Category]tournament.Objective{
		tournament.CategoryTimeAttack: {Kind: tournament.ObjectiveThresholdBelow, Target: 15},
		tournament.CategoryMildcore:   {Kind: tournament.ObjectiveAnySubmission},
	}
	missions := tournament.Missions{
		Objectives: map[tournament.Difficulty]map[tournament.Category]tournament.Objective{tournament.DifficultyHard: hard},
		General:    &tournament.GeneralMission{Kind: tournament.GeneralMissionCount, Target: 2, Scope: tournament.DifficultyHard},
	}
	groups := map[tournament.Category]tournament.TierGroups{
		tournament.CategoryTimeAttack: {tournament.TierUnranked: {
			submission("fast", tournament.CategoryTimeAttack, 12),
			submission("slow", tournament.CategoryTimeAttack, 16),
		}},
		tournament.CategoryMildcore: {tournament.TierUnranked: {
			submission("fast", tournament.CategoryMildcore, 40),
			submission("slow", tournament.CategoryMildcore, 41),
		}},
	}

	table := Score(groups, missions)
	fast, _ := table.Result("fast")
	if fast.CompletedMissions(tournament.DifficultyHard) != 2 || fast.GeneralPoints != tournament.GeneralBonus {
		t.Fatalf("unexpected fast result: missions=%d general=%d", fast.CompletedMissions(tournament.DifficultyHard), fast.GeneralPoints)
	}
	slow, _ := table.Result("slow")
	if slow.CompletedMissions(tournament.DifficultyHard) != 1 || slow.GeneralPoints != 0 {
		t.Fatalf("unexpected slow result: missions=%d general=%d", slow.CompletedMissions(tournament.DifficultyHard), slow.GeneralPoints)
	}
}

func TestScoreGroupUnsetRecordsAreNotPlaced(t *testing.T) {
	entries := ScoreGroup(tournament.CategoryBonus, tournament.TierUnranked, []tournament.Submission{
		submission("zero", tournament.CategoryBonus, 0),
		submission("real", tournament.CategoryBonus, 30),
	}, tournament.Missions{})

	if entries[0].Submission.UserID != "real" || entries[0].Placement != 1 || entries[0].Points != MaxPoints {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Placement != 0 || entries[1].Points != 0 {
		t.Fatalf("unexpected unset entry: %+v", entries[1])
	}
}
