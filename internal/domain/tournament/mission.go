package tournament

import (
	"fmt"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var ErrInvalidMission = crerr.New("invalid mission")

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// DifficultiesByPriority is the order mission tiers are checked in.
var DifficultiesByPriority = []Difficulty{
	DifficultyExpert,
	DifficultyHard,
	DifficultyMedium,
	DifficultyEasy,
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	default:
		return false
	}
}

func (d Difficulty) Bonus() int64 {
	switch d {
	case DifficultyExpert:
		return 2000
	case DifficultyHard:
		return 1500
	case DifficultyMedium:
		return 1000
	case DifficultyEasy:
		return 500
	default:
		return 0
	}
}

func ParseDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", crerr.Wrapf(ErrInvalidMission, "unknown difficulty %q", raw)
	}
	return d, nil
}

type ObjectiveKind string

const (
	ObjectiveThresholdBelow ObjectiveKind = "threshold_below"
	ObjectiveAnySubmission  ObjectiveKind = "any_submission"
)

// Objective is the per-category condition of one mission difficulty.
type Objective struct {
	Kind   ObjectiveKind `json:"kind"`
	Target float64       `json:"target,omitempty"`
}

func (o Objective) Satisfied(record float64) bool {
	switch o.Kind {
	case ObjectiveAnySubmission:
		return true
	case ObjectiveThresholdBelow:
		return record < o.Target
	default:
		return false
	}
}

func (o Objective) String() string {
	if o.Kind == ObjectiveAnySubmission {
		return "Complete the level"
	}
	return "Sub " + FormatRecord(o.Target)
}

type GeneralKind string

const (
	GeneralXPTotal       GeneralKind = "xp_total"
	GeneralTopPlacements GeneralKind = "top_placements"
	GeneralMissionCount  GeneralKind = "mission_count"
)

const GeneralBonus int64 = 2000

// GeneralMission is evaluated once per user across the whole round.
// An empty Scope on a mission count means every difficulty counts.
type GeneralMission struct {
	Kind   GeneralKind `json:"kind"`
	Target int64       `json:"target"`
	Scope  Difficulty  `json:"scope,omitempty"`
}

func (g GeneralMission) String() string {
	switch g.Kind {
	case GeneralXPTotal:
		return fmt.Sprintf("Get %d XP (excluding missions)", g.Target)
	case GeneralTopPlacements:
		return fmt.Sprintf("Get Top 3 in %d categories", g.Target)
	case GeneralMissionCount:
		if g.Scope == "" {
			return fmt.Sprintf("Complete %d missions", g.Target)
		}
		return fmt.Sprintf("Complete %d %s missions", g.Target, g.Scope)
	default:
		return string(g.Kind)
	}
}

type Missions struct {
	Objectives map[Difficulty]map[Category]Objective `json:"objectives,omitempty"`
	General    *GeneralMission                       `json:"general,omitempty"`
}

func (m Missions) Objective(d Difficulty, c Category) (Objective, bool) {
	byCategory, ok := m.Objectives[d]
	if !ok {
		return Objective{}, false
	}
	o, ok := byCategory[c]
	return o, ok
}

// WithObjectives returns a copy with one difficulty replaced, or removed when objectives is empty.
func (m Missions) WithObjectives(d Difficulty, objectives map[Category]Objective) Missions {
	out := Missions{
		Objectives: make(map[Difficulty]map[Category]Objective, len(m.Objectives)+1),
		General:    m.General,
	}
	for k, v := range m.Objectives {
		out.Objectives[k] = v
	}
	if len(objectives) == 0 {
		delete(out.Objectives, d)
		return out
	}
	cloned := make(map[Category]Objective, len(objectives))
	for k, v := range objectives {
		cloned[k] = v
	}
	out.Objectives[d] = cloned
	return out
}

// ParseObjective reads organiser text such as "sub - 15", "sub - 1:05.20" or "complete".
func ParseObjective(raw string) (Objective, error) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "complete" {
		return Objective{Kind: ObjectiveAnySubmission}, nil
	}

	keyword, value, ok := splitMissionText(text)
	if !ok || keyword != "sub" {
		return Objective{}, crerr.Wrapf(ErrInvalidMission, "unrecognised objective %q", raw)
	}
	target, err := ParseRecord(value)
	if err != nil {
		return Objective{}, crerr.Wrapf(ErrInvalidMission, "objective target %q: %v", value, err)
	}
	if target <= 0 {
		return Objective{}, crerr.Wrapf(ErrInvalidMission, "objective target must be > 0, got %q", value)
	}
	return Objective{Kind: ObjectiveThresholdBelow, Target: target}, nil
}

// ParseGeneralMission reads "xp - 4000", "top - 3", "missions - 3" or "missions - 3 hard".
func ParseGeneralMission(raw string) (GeneralMission, error) {
	keyword, value, ok := splitMissionText(strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		return GeneralMission{}, crerr.Wrapf(ErrInvalidMission, "unrecognised general mission %q", raw)
	}

	fields := strings.Fields(value)
	if len(fields) == 0 {
		return GeneralMission{}, crerr.Wrapf(ErrInvalidMission, "general mission %q has no target", raw)
	}
	target, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return GeneralMission{}, crerr.Wrapf(ErrInvalidMission, "general mission target %q is not a number", fields[0])
	}
	if target <= 0 {
		return GeneralMission{}, crerr.Wrapf(ErrInvalidMission, "general mission target must be > 0, got %d", target)
	}

	out := GeneralMission{Target: target}
	switch keyword {
	case "xp":
		out.Kind = GeneralXPTotal
	case "top":
		out.Kind = GeneralTopPlacements
	case "missions", "mission":
		out.Kind = GeneralMissionCount
		if len(fields) > 1 {
			scope, err := ParseDifficulty(fields[1])
			if err != nil {
				return GeneralMission{}, err
			}
			out.Scope = scope
		}
	default:
		return GeneralMission{}, crerr.Wrapf(ErrInvalidMission, "unknown general mission type %q", keyword)
	}
	if len(fields) > 2 || (out.Kind != GeneralMissionCount && len(fields) > 1) {
		return GeneralMission{}, crerr.Wrapf(ErrInvalidMission, "general mission %q has trailing text", raw)
	}
	return out, nil
}

func splitMissionText(text string) (string, string, bool) {
	keyword, value, ok := strings.Cut(text, "-")
	if !ok {
		return "", "", false
	}
	keyword = strings.TrimSpace(keyword)
	value = strings.TrimSpace(value)
	if keyword == "" || value == "" {
		return "", "", false
	}
	return keyword, value, true
}
