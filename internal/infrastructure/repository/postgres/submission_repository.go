package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	qb "github.com/riskibarqy/speedrun-tournament/internal/platform/querybuilder"
)

const submissionsTable = "tournament_submissions"

var submissionColumns = []string{
	"tournament_id",
	"category",
	"user_id",
	"display_name",
	"record",
	"evidence_ref",
	"submitted_at",
}

type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Upsert keeps one row per (tournament, category, user); a resubmission replaces it.
func (r *SubmissionRepository) Upsert(ctx context.Context, s tournament.Submission) error {
	model := submissionTableModel{
		TournamentID: s.TournamentID,
		Category:     string(s.Category),
		UserID:       s.UserID,
		DisplayName:  s.DisplayName,
		Record:       s.Record,
		EvidenceRef:  s.EvidenceRef,
		SubmittedAt:  s.SubmittedAt.UTC(),
	}
	query, args, err := qb.InsertModel(submissionsTable, model, `ON CONFLICT (tournament_id, category, user_id) DO UPDATE SET
		display_name = EXCLUDED.display_name,
		record = EXCLUDED.record,
		evidence_ref = EXCLUDED.evidence_ref,
		submitted_at = EXCLUDED.submitted_at`)
	if err != nil {
		return fmt.Errorf("build upsert submission query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, tournamentID int64, category tournament.Category, userID string) (bool, error) {
	removed, err := deleteSubmissionsCount(ctx, r.db,
		qb.Eq("tournament_id", tournamentID),
		qb.Eq("category", string(category)),
		qb.Eq("user_id", userID),
	)
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func (r *SubmissionRepository) DeleteByCategory(ctx context.Context, tournamentID int64, category tournament.Category) (int, error) {
	return deleteSubmissionsCount(ctx, r.db,
		qb.Eq("tournament_id", tournamentID),
		qb.Eq("category", string(category)),
	)
}

func (r *SubmissionRepository) ListByCategory(ctx context.Context, tournamentID int64, category tournament.Category) ([]tournament.Submission, error) {
	return r.list(ctx, qb.Eq("tournament_id", tournamentID), qb.Eq("category", string(category)))
}

func (r *SubmissionRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]tournament.Submission, error) {
	return r.list(ctx, qb.Eq("tournament_id", tournamentID))
}

func (r *SubmissionRepository) list(ctx context.Context, conditions ...qb.Condition) ([]tournament.Submission, error) {
	query, args, err := qb.Select(submissionColumns...).
		From(submissionsTable).
		Where(conditions...).
		OrderBy("record ASC", "user_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list submissions query: %w", err)
	}

	var rows []submissionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	out := make([]tournament.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournament.Submission{
			TournamentID: row.TournamentID,
			Category:     tournament.Category(row.Category),
			UserID:       row.UserID,
			DisplayName:  row.DisplayName,
			Record:       row.Record,
			EvidenceRef:  row.EvidenceRef,
			SubmittedAt:  row.SubmittedAt,
		})
	}
	return out, nil
}

func deleteSubmissions(ctx context.Context, exec sqlx.ExecerContext, conditions ...qb.Condition) error {
	_, err := deleteSubmissionsCount(ctx, exec, conditions...)
	return err
}

func deleteSubmissionsCount(ctx context.Context, exec sqlx.ExecerContext, conditions ...qb.Condition) (int, error) {
	query, args, err := qb.DeleteFrom(submissionsTable).Where(conditions...).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete submissions query: %w", err)
	}
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete submissions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete submissions rows affected: %w", err)
	}
	return int(affected), nil
}
