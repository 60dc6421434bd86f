package tier

import "github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"

// Record is a competitor's standing across every category.
type Record struct {
	UserID     string
	Tiers      map[tournament.Category]tournament.Tier
	Experience int64
	Alias      string
}

// NewRecord returns the default record created on first reference.
func NewRecord(userID string) Record {
	tiers := make(map[tournament.Category]tournament.Tier, len(tournament.AllCategories))
	for _, c := range tournament.AllCategories {
		tiers[c] = tournament.TierUnranked
	}
	return Record{UserID: userID, Tiers: tiers}
}

func (r Record) TierOf(category tournament.Category) tournament.Tier {
	if t, ok := r.Tiers[category]; ok && t.Valid() {
		return t
	}
	return tournament.TierUnranked
}

// Profile is the read model shown for a single competitor.
type Profile struct {
	Record   Record
	Level    int
	Position int
}
