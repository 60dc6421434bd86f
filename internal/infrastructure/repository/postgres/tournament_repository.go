package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	qb "github.com/riskibarqy/speedrun-tournament/internal/platform/querybuilder"
)

const tournamentsTable = "tournaments"

var tournamentColumns = []string{
	"id",
	"name",
	"maps",
	"missions",
	"tier_cache",
	"bracket",
	"bracket_category",
	"open_at",
	"close_at",
	"closed_at",
	"created_at",
	"updated_at",
	"deleted_at",
}

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) GetLatest(ctx context.Context) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select(tournamentColumns...).
		From(tournamentsTable).
		Where(qb.IsNull("deleted_at")).
		OrderBy("id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build latest tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get latest tournament: %w", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return tournament.Tournament{}, false, err
	}
	return item, true, nil
}

func (r *TournamentRepository) ListClosed(ctx context.Context, limit int) ([]tournament.Tournament, error) {
	query, args, err := qb.Select(tournamentColumns...).
		From(tournamentsTable).
		Where(qb.IsNull("deleted_at"), qb.NotNull("closed_at")).
		OrderBy("closed_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build closed tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list closed tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *TournamentRepository) Create(ctx context.Context, t tournament.Tournament) (tournament.Tournament, error) {
	model, err := newTournamentInsertModel(t)
	if err != nil {
		return tournament.Tournament{}, err
	}

	query, args, err := qb.InsertModel(tournamentsTable, model, "RETURNING id")
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("build insert tournament query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&t.ID); err != nil {
		return tournament.Tournament{}, fmt.Errorf("insert tournament: %w", err)
	}
	t.CreatedAt = model.CreatedAt
	return t, nil
}

func (r *TournamentRepository) MarkOpened(ctx context.Context, tournamentID int64) error {
	query, args, err := qb.Update(tournamentsTable).
		Set("open_at", nil).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", tournamentID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark opened query: %w", err)
	}
	return execAffectingOne(ctx, r.db, query, args, tournamentID)
}

func (r *TournamentRepository) UpdateMissions(ctx context.Context, tournamentID int64, missions tournament.Missions) error {
	raw, err := marshalJSON(missions)
	if err != nil {
		return fmt.Errorf("encode missions: %w", err)
	}

	query, args, err := qb.Update(tournamentsTable).
		Set("missions", raw).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", tournamentID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update missions query: %w", err)
	}
	return execAffectingOne(ctx, r.db, query, args, tournamentID)
}

// Delete soft-deletes the round and drops its pending submissions.
func (r *TournamentRepository) Delete(ctx context.Context, tournamentID int64) error {
	return withTx(ctx, r.db, "delete tournament", func(tx *sqlx.Tx) error {
		query, args, err := qb.Update(tournamentsTable).
			SetExpr("deleted_at", "NOW()").
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", tournamentID), qb.IsNull("deleted_at")).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete tournament query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete tournament: %w", err)
		}
		return deleteSubmissions(ctx, tx, qb.Eq("tournament_id", tournamentID))
	})
}

func (r *TournamentRepository) Close(ctx context.Context, outcome tournament.CloseOutcome) error {
	cache, err := marshalJSON(outcome.TierCache)
	if err != nil {
		return fmt.Errorf("encode tier cache: %w", err)
	}
	closedAt := outcome.ClosedAt.UTC()

	return withTx(ctx, r.db, "close tournament", func(tx *sqlx.Tx) error {
		// The guard row lock serialises concurrent closes; only the first one sees close_at set.
		query, args, err := qb.Select("name").
			From(tournamentsTable).
			Where(qb.Eq("id", outcome.TournamentID), qb.NotNull("close_at"), qb.IsNull("deleted_at")).
			Suffix("FOR UPDATE").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build close guard query: %w", err)
		}
		var name string
		if err := tx.GetContext(ctx, &name, query, args...); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("tournament %d already closed", outcome.TournamentID)
			}
			return fmt.Errorf("lock tournament: %w", err)
		}

		for userID, amount := range outcome.Experience {
			if err := addExperience(ctx, tx, userID, amount); err != nil {
				return err
			}
		}

		if len(outcome.Archive) > 0 {
			models := make([]archiveInsertModel, 0, len(outcome.Archive))
			for _, entry := range outcome.Archive {
				models = append(models, newArchiveInsertModel(outcome.TournamentID, name, entry, closedAt))
			}
			query, args, err := qb.InsertModels(archiveTable, models, "")
			if err != nil {
				return fmt.Errorf("build insert archive query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert archive records: %w", err)
			}
		}

		if err := deleteSubmissions(ctx, tx, qb.Eq("tournament_id", outcome.TournamentID)); err != nil {
			return err
		}

		query, args, err = qb.Update(tournamentsTable).
			Set("open_at", nil).
			Set("close_at", nil).
			Set("closed_at", closedAt).
			Set("tier_cache", cache).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", outcome.TournamentID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build close tournament query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("close tournament: %w", err)
		}
		return nil
	})
}

func execAffectingOne(ctx context.Context, exec sqlx.ExecerContext, query string, args []any, tournamentID int64) error {
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update tournament %d: %w", tournamentID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tournament %d rows affected: %w", tournamentID, err)
	}
	if affected == 0 {
		return fmt.Errorf("tournament not found: %d", tournamentID)
	}
	return nil
}

func newTournamentInsertModel(t tournament.Tournament) (tournamentInsertModel, error) {
	maps, err := marshalJSON(t.Maps)
	if err != nil {
		return tournamentInsertModel{}, fmt.Errorf("encode maps: %w", err)
	}
	missions, err := marshalJSON(t.Missions)
	if err != nil {
		return tournamentInsertModel{}, fmt.Errorf("encode missions: %w", err)
	}
	cache, err := marshalJSON(t.TierCache)
	if err != nil {
		return tournamentInsertModel{}, fmt.Errorf("encode tier cache: %w", err)
	}

	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return tournamentInsertModel{
		Name:            t.Name,
		Maps:            maps,
		Missions:        missions,
		TierCache:       cache,
		Bracket:         t.Bracket,
		BracketCategory: string(t.BracketCategory),
		OpenAt:          sentinelToNull(t.OpenAt),
		CloseAt:         sentinelToNull(t.CloseAt),
		CreatedAt:       createdAt.UTC(),
	}, nil
}

func (m tournamentTableModel) toDomain() (tournament.Tournament, error) {
	out := tournament.Tournament{
		ID:              m.ID,
		Name:            m.Name,
		Bracket:         m.Bracket,
		BracketCategory: tournament.Category(m.BracketCategory),
		OpenAt:          nullToSentinel(m.OpenAt),
		CloseAt:         nullToSentinel(m.CloseAt),
		CreatedAt:       m.CreatedAt,
		ClosedAt:        m.ClosedAt,
	}
	if err := unmarshalJSON(m.Maps, &out.Maps); err != nil {
		return tournament.Tournament{}, fmt.Errorf("decode tournament %d maps: %w", m.ID, err)
	}
	if err := unmarshalJSON(m.Missions, &out.Missions); err != nil {
		return tournament.Tournament{}, fmt.Errorf("decode tournament %d missions: %w", m.ID, err)
	}
	if err := unmarshalJSON(m.TierCache, &out.TierCache); err != nil {
		return tournament.Tournament{}, fmt.Errorf("decode tournament %d tier cache: %w", m.ID, err)
	}
	return out, nil
}
