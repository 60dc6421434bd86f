package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tier"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	qb "github.com/riskibarqy/speedrun-tournament/internal/platform/querybuilder"
)

const tierTable = "tier_records"

var tierColumns = []string{
	"user_id",
	"tier_ta",
	"tier_mc",
	"tier_hc",
	"tier_bo",
	"experience",
	"alias",
	"created_at",
	"updated_at",
}

const experienceIncrement = "experience = " + tierTable + ".experience + EXCLUDED.experience"

const tierReturning = "RETURNING user_id, tier_ta, tier_mc, tier_hc, tier_bo, experience, alias, created_at, updated_at"

type TierRepository struct {
	db *sqlx.DB
}

func NewTierRepository(db *sqlx.DB) *TierRepository {
	return &TierRepository{db: db}
}

func (r *TierRepository) GetOrCreate(ctx context.Context, userID string) (tier.Record, error) {
	query, args, err := qb.InsertModel(tierTable, tierInsertModel{UserID: userID}, "ON CONFLICT (user_id) DO NOTHING")
	if err != nil {
		return tier.Record{}, fmt.Errorf("build ensure tier record query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return tier.Record{}, fmt.Errorf("ensure tier record: %w", err)
	}

	query, args, err = qb.Select(tierColumns...).
		From(tierTable).
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return tier.Record{}, fmt.Errorf("build get tier record query: %w", err)
	}

	var row tierTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return tier.Record{}, fmt.Errorf("get tier record: %w", err)
	}
	return row.toDomain(), nil
}

func (r *TierRepository) AddExperience(ctx context.Context, userID string, amount int64) (tier.Record, error) {
	return upsertTier(ctx, r.db, tierInsertModel{UserID: userID, Experience: amount}, experienceIncrement)
}

func (r *TierRepository) SetTier(ctx context.Context, userID string, category tournament.Category, t tournament.Tier) (tier.Record, error) {
	column, ok := tierColumn(category)
	if !ok {
		return tier.Record{}, fmt.Errorf("unknown category %q", category)
	}
	if !t.Valid() {
		return tier.Record{}, fmt.Errorf("unknown tier %q", t)
	}

	query, args, err := qb.InsertInto(tierTable).
		Columns("user_id", column).
		Values(userID, string(t)).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET " + column + " = EXCLUDED." + column + ", updated_at = NOW() " + tierReturning).
		ToSQL()
	if err != nil {
		return tier.Record{}, fmt.Errorf("build set tier query: %w", err)
	}
	return scanTier(ctx, r.db, query, args)
}

func (r *TierRepository) SetAlias(ctx context.Context, userID, alias string) (tier.Record, error) {
	return upsertTier(ctx, r.db, tierInsertModel{UserID: userID, Alias: alias}, "alias = EXCLUDED.alias")
}

func (r *TierRepository) ListByExperience(ctx context.Context, limit int) ([]tier.Record, error) {
	query, args, err := qb.Select(tierColumns...).
		From(tierTable).
		OrderBy("experience DESC", "user_id ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tier records query: %w", err)
	}

	var rows []tierTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tier records: %w", err)
	}

	out := make([]tier.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// PositionOf returns 0 for users without a record.
func (r *TierRepository) PositionOf(ctx context.Context, userID string) (int, error) {
	query, args, err := qb.Select("experience").
		From(tierTable).
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build tier experience query: %w", err)
	}

	var experience int64
	if err := r.db.GetContext(ctx, &experience, query, args...); err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get tier experience: %w", err)
	}

	query, args, err = qb.Select("COUNT(*)").
		From(tierTable).
		Where(qb.Expr("(experience > ? OR (experience = ? AND user_id < ?))", experience, experience, userID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build tier position query: %w", err)
	}

	var ahead int
	if err := r.db.GetContext(ctx, &ahead, query, args...); err != nil {
		return 0, fmt.Errorf("count tier position: %w", err)
	}
	return ahead + 1, nil
}

func addExperience(ctx context.Context, db sqlx.QueryerContext, userID string, amount int64) error {
	_, err := upsertTier(ctx, db, tierInsertModel{UserID: userID, Experience: amount}, experienceIncrement)
	return err
}

func upsertTier(ctx context.Context, db sqlx.QueryerContext, model tierInsertModel, update string) (tier.Record, error) {
	query, args, err := qb.InsertModel(tierTable, model,
		"ON CONFLICT (user_id) DO UPDATE SET "+update+", updated_at = NOW() "+tierReturning)
	if err != nil {
		return tier.Record{}, fmt.Errorf("build upsert tier record query: %w", err)
	}
	return scanTier(ctx, db, query, args)
}

func scanTier(ctx context.Context, db sqlx.QueryerContext, query string, args []any) (tier.Record, error) {
	var row tierTableModel
	if err := sqlx.GetContext(ctx, db, &row, query, args...); err != nil {
		return tier.Record{}, fmt.Errorf("upsert tier record: %w", err)
	}
	return row.toDomain(), nil
}
