package scoring

import (
	"math"
	"sort"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

// LeaderboardPoints converts a record into points against the fastest record of its group.
func LeaderboardPoints(record, top float64) int64 {
	if record <= 0 || top <= 0 {
		return 0
	}
	ceiling := top * CeilingRatio
	if record >= ceiling {
		return FloorPoints
	}

	points := MaxPoints - int64(math.Ceil((record-top)*(float64(PointsSpread)/(ceiling-top))))
	if points < FloorPoints {
		return FloorPoints
	}
	if points > MaxPoints {
		return MaxPoints
	}
	return points
}

// MissionBonus returns the bonus of the hardest satisfied objective for one record.
func MissionBonus(missions tournament.Missions, category tournament.Category, record float64) (tournament.Difficulty, int64) {
	for _, d := range tournament.DifficultiesByPriority {
		objective, ok := missions.Objective(d, category)
		if !ok {
			continue
		}
		if objective.Satisfied(record) {
			return d, d.Bonus()
		}
	}
	return "", 0
}

// ScoreGroup scores one tier group of one category.
func ScoreGroup(category tournament.Category, t tournament.Tier, submissions []tournament.Submission, missions tournament.Missions) []Entry {
	if len(submissions) == 0 {
		return nil
	}

	ordered := make([]tournament.Submission, len(submissions))
	copy(ordered, submissions)
	SortSubmissions(ordered)

	top := 0.0
	for _, s := range ordered {
		if s.Record > 0 {
			top = s.Record
			break
		}
	}

	out := make([]Entry, 0, len(ordered))
	placement := 0
	for _, s := range ordered {
		entry := Entry{
			Submission: s,
			Tier:       t,
			Points:     LeaderboardPoints(s.Record, top),
		}
		if s.Record > 0 {
			placement++
			entry.Placement = placement
		}
		entry.MissionDifficulty, entry.MissionPoints = MissionBonus(missions, category, s.Record)
		out = append(out, entry)
	}
	return out
}

// Score merges every category's tier groups into one table and applies the general mission.
func Score(groups map[tournament.Category]tournament.TierGroups, missions tournament.Missions) Table {
	table := Table{
		Results: make(map[string]*Result),
		Entries: make(map[tournament.Category][]Entry),
	}

	for _, category := range tournament.AllCategories {
		byTier, ok := groups[category]
		if !ok {
			continue
		}
		for _, t := range tournament.AllTiers {
			entries := ScoreGroup(category, t, byTier[t], missions)
			if len(entries) == 0 {
				continue
			}
			table.Entries[category] = append(table.Entries[category], entries...)
			for _, entry := range entries {
				mergeEntry(table.Results, category, entry)
			}
		}
	}

	if missions.General != nil {
		for _, result := range table.Results {
			if generalSatisfied(*missions.General, *result) {
				result.GeneralPoints = tournament.GeneralBonus
			}
		}
	}
	return table
}

func mergeEntry(results map[string]*Result, category tournament.Category, entry Entry) {
	userID := entry.Submission.UserID
	result, ok := results[userID]
	if !ok {
		result = newResult(userID)
		results[userID] = result
	}
	if result.DisplayName == "" {
		result.DisplayName = entry.Submission.DisplayName
	}
	result.Tiers[category] = entry.Tier
	result.CategoryPoints[category] = entry.Points
	result.MissionPoints[category] = entry.MissionPoints
	if entry.MissionDifficulty != "" {
		counts, ok := result.MissionCounts[category]
		if !ok {
			counts = make(map[tournament.Difficulty]int)
			result.MissionCounts[category] = counts
		}
		counts[entry.MissionDifficulty]++
	}
	if entry.Placement > 0 && entry.Placement <= PodiumSize {
		result.Podiums++
	}
}

func generalSatisfied(g tournament.GeneralMission, r Result) bool {
	switch g.Kind {
	case tournament.GeneralXPTotal:
		return r.LeaderboardTotal() >= g.Target
	case tournament.GeneralTopPlacements:
		return int64(r.Podiums) >= g.Target
	case tournament.GeneralMissionCount:
		return int64(r.CompletedMissions(g.Scope)) >= g.Target
	default:
		return false
	}
}

// SortSubmissions orders positive records ascending, then unset records; ties go to the earlier submission.
func SortSubmissions(items []tournament.Submission) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		aSet, bSet := a.Record > 0, b.Record > 0
		if aSet != bSet {
			return aSet
		}
		if a.Record != b.Record {
			return a.Record < b.Record
		}
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		return a.UserID < b.UserID
	})
}
