package tournament

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryTimeAttack Category = "ta"
	CategoryMildcore   Category = "mc"
	CategoryHardcore   Category = "hc"
	CategoryBonus      Category = "bo"
)

// AllCategories is ordered the way rankings are announced.
var AllCategories = []Category{
	CategoryTimeAttack,
	CategoryMildcore,
	CategoryHardcore,
	CategoryBonus,
}

var categoryLabels = map[Category]string{
	CategoryTimeAttack: "Time Attack",
	CategoryMildcore:   "Mildcore",
	CategoryHardcore:   "Hardcore",
	CategoryBonus:      "Bonus",
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return c, nil
}

type Tier string

const (
	TierUnranked    Tier = "unranked"
	TierGold        Tier = "gold"
	TierDiamond     Tier = "diamond"
	TierGrandmaster Tier = "grandmaster"
)

var AllTiers = []Tier{
	TierUnranked,
	TierGold,
	TierDiamond,
	TierGrandmaster,
}

func (t Tier) Valid() bool {
	switch t {
	case TierUnranked, TierGold, TierDiamond, TierGrandmaster:
		return true
	default:
		return false
	}
}

func ParseTier(raw string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", raw)
	}
	return t, nil
}
