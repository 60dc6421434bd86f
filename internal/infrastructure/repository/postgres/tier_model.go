package postgres

import (
	"time"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tier"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

type tierTableModel struct {
	UserID     string    `db:"user_id"`
	TierTA     string    `db:"tier_ta"`
	TierMC     string    `db:"tier_mc"`
	TierHC     string    `db:"tier_hc"`
	TierBO     string    `db:"tier_bo"`
	Experience int64     `db:"experience"`
	Alias      string    `db:"alias"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type tierInsertModel struct {
	UserID     string `db:"user_id"`
	Experience int64  `db:"experience"`
	Alias      string `db:"alias"`
}

func tierColumn(category tournament.Category) (string, bool) {
	switch category {
	case tournament.CategoryTimeAttack:
		return "tier_ta", true
	case tournament.CategoryMildcore:
		return "tier_mc", true
	case tournament.CategoryHardcore:
		return "tier_hc", true
	case tournament.CategoryBonus:
		return "tier_bo", true
	default:
		return "", false
	}
}

func (m tierTableModel) toDomain() tier.Record {
	record := tier.NewRecord(m.UserID)
	record.Experience = m.Experience
	record.Alias = m.Alias
	for category, raw := range map[tournament.Category]string{
		tournament.CategoryTimeAttack: m.TierTA,
		tournament.CategoryMildcore:   m.TierMC,
		tournament.CategoryHardcore:   m.TierHC,
		tournament.CategoryBonus:      m.TierBO,
	} {
		if t := tournament.Tier(raw); t.Valid() {
			record.Tiers[category] = t
		}
	}
	return record
}
