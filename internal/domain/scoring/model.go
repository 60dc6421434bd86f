package scoring

import "github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"

const (
	MaxPoints    int64 = 2500
	FloorPoints  int64 = 100
	PointsSpread int64 = MaxPoints - FloorPoints
	// CeilingRatio bounds the scored band of a group at top*CeilingRatio.
	CeilingRatio = 1.2
	PodiumSize   = 3
)

// Entry is one submission scored inside its tier group.
type Entry struct {
	Submission        tournament.Submission
	Tier              tournament.Tier
	Placement         int
	Points            int64
	MissionPoints     int64
	MissionDifficulty tournament.Difficulty
}

// Result is the merged point row of one competitor across every category.
type Result struct {
	UserID         string
	DisplayName    string
	Tiers          map[tournament.Category]tournament.Tier
	CategoryPoints map[tournament.Category]int64
	MissionPoints  map[tournament.Category]int64
	MissionCounts  map[tournament.Category]map[tournament.Difficulty]int
	Podiums        int
	GeneralPoints  int64
}

func newResult(userID string) *Result {
	return &Result{
		UserID:         userID,
		Tiers:          make(map[tournament.Category]tournament.Tier),
		CategoryPoints: make(map[tournament.Category]int64),
		MissionPoints:  make(map[tournament.Category]int64),
		MissionCounts:  make(map[tournament.Category]map[tournament.Difficulty]int),
	}
}

// LeaderboardTotal sums category points without any mission bonus.
func (r Result) LeaderboardTotal() int64 {
	var total int64
	for _, p := range r.CategoryPoints {
		total += p
	}
	return total
}

func (r Result) MissionTotal() int64 {
	var total int64
	for _, p := range r.MissionPoints {
		total += p
	}
	return total
}

func (r Result) Total() int64 {
	return r.LeaderboardTotal() + r.MissionTotal() + r.GeneralPoints
}

// CompletedMissions counts mission completions of one difficulty, or of all when scope is empty.
func (r Result) CompletedMissions(scope tournament.Difficulty) int {
	total := 0
	for _, counts := range r.MissionCounts {
		for d, n := range counts {
			if scope == "" || d == scope {
				total += n
			}
		}
	}
	return total
}

// Table is the merged output of one round.
type Table struct {
	Results map[string]*Result
	// Entries holds every category's scored rows ordered by tier, then placement.
	Entries map[tournament.Category][]Entry
}

func (t Table) Result(userID string) (Result, bool) {
	r, ok := t.Results[userID]
	if !ok || r == nil {
		return Result{}, false
	}
	return *r, true
}
