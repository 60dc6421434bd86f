package tournament

import "time"

// Sentinel marks a consumed or unused round timestamp.
var Sentinel = time.Time{}

func IsSentinel(t time.Time) bool {
	return t.IsZero()
}

type State string

const (
	StateIdle      State = "idle"
	StateScheduled State = "scheduled"
	StateActive    State = "active"
)

type MapAssignment struct {
	Code   string `json:"code"`
	Level  string `json:"level"`
	Author string `json:"author"`
}

// TierGroups holds a category's submissions partitioned by the submitters' tiers.
type TierGroups map[Tier][]Submission

// TierCache mirrors the close-time partition of every category.
type TierCache map[Tier]map[Category][]Submission

type Tournament struct {
	ID              int64
	Name            string
	Maps            map[Category]MapAssignment
	Missions        Missions
	Bracket         bool
	BracketCategory Category
	OpenAt          time.Time
	CloseAt         time.Time
	TierCache       TierCache
	CreatedAt       time.Time
	ClosedAt        *time.Time
}

// State derives the lifecycle state from the two round timestamps.
func (t Tournament) State() State {
	switch {
	case !IsSentinel(t.OpenAt):
		return StateScheduled
	case !IsSentinel(t.CloseAt):
		return StateActive
	default:
		return StateIdle
	}
}

// Live reports whether the round still has a pending close.
func (t Tournament) Live() bool {
	return !IsSentinel(t.CloseAt)
}

// Categories returns the categories the round runs.
func (t Tournament) Categories() []Category {
	if t.Bracket && t.BracketCategory.Valid() {
		return []Category{t.BracketCategory}
	}
	out := make([]Category, len(AllCategories))
	copy(out, AllCategories)
	return out
}

func (t Tournament) AcceptsCategory(category Category) bool {
	for _, c := range t.Categories() {
		if c == category {
			return true
		}
	}
	return false
}

type Submission struct {
	TournamentID int64     `json:"tournament_id"`
	Category     Category  `json:"category"`
	UserID       string    `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	Record       float64   `json:"record"`
	EvidenceRef  string    `json:"evidence_ref"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
