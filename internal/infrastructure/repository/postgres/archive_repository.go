package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/archive"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	qb "github.com/riskibarqy/speedrun-tournament/internal/platform/querybuilder"
)

const archiveTable = "record_archive"

var archiveColumns = []string{
	"id",
	"tournament_id",
	"tournament_name",
	"category",
	"map_code",
	"map_level",
	"user_id",
	"display_name",
	"record",
	"evidence_ref",
	"verified",
	"tier",
	"points",
	"archived_at",
}

type archiveTableModel struct {
	ID             int64     `db:"id"`
	TournamentID   int64     `db:"tournament_id"`
	TournamentName string    `db:"tournament_name"`
	Category       string    `db:"category"`
	MapCode        string    `db:"map_code"`
	MapLevel       string    `db:"map_level"`
	UserID         string    `db:"user_id"`
	DisplayName    string    `db:"display_name"`
	Record         float64   `db:"record"`
	EvidenceRef    string    `db:"evidence_ref"`
	Verified       bool      `db:"verified"`
	Tier           string    `db:"tier"`
	Points         int64     `db:"points"`
	ArchivedAt     time.Time `db:"archived_at"`
}

type archiveInsertModel struct {
	TournamentID   int64     `db:"tournament_id"`
	TournamentName string    `db:"tournament_name"`
	Category       string    `db:"category"`
	MapCode        string    `db:"map_code"`
	MapLevel       string    `db:"map_level"`
	UserID         string    `db:"user_id"`
	DisplayName    string    `db:"display_name"`
	Record         float64   `db:"record"`
	EvidenceRef    string    `db:"evidence_ref"`
	Verified       bool      `db:"verified"`
	Tier           string    `db:"tier"`
	Points         int64     `db:"points"`
	ArchivedAt     time.Time `db:"archived_at"`
}

func newArchiveInsertModel(tournamentID int64, tournamentName string, entry tournament.ArchiveEntry, archivedAt time.Time) archiveInsertModel {
	return archiveInsertModel{
		TournamentID:   tournamentID,
		TournamentName: tournamentName,
		Category:       string(entry.Submission.Category),
		MapCode:        entry.Map.Code,
		MapLevel:       entry.Map.Level,
		UserID:         entry.Submission.UserID,
		DisplayName:    entry.Submission.DisplayName,
		Record:         entry.Submission.Record,
		EvidenceRef:    entry.Submission.EvidenceRef,
		Verified:       true,
		Tier:           string(entry.Tier),
		Points:         entry.Points,
		ArchivedAt:     archivedAt,
	}
}

type ArchiveRepository struct {
	db *sqlx.DB
}

func NewArchiveRepository(db *sqlx.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]archive.Record, error) {
	query, args, err := qb.Select(archiveColumns...).
		From(archiveTable).
		Where(qb.Eq("tournament_id", tournamentID)).
		OrderBy("id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build archive by tournament query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *ArchiveRepository) ListByUser(ctx context.Context, userID string, limit int) ([]archive.Record, error) {
	query, args, err := qb.Select(archiveColumns...).
		From(archiveTable).
		Where(qb.Eq("user_id", userID)).
		OrderBy("id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build archive by user query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *ArchiveRepository) list(ctx context.Context, query string, args []any) ([]archive.Record, error) {
	var rows []archiveTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list archive records: %w", err)
	}

	out := make([]archive.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, archive.Record{
			ID:             row.ID,
			TournamentID:   row.TournamentID,
			TournamentName: row.TournamentName,
			Category:       tournament.Category(row.Category),
			MapCode:        row.MapCode,
			MapLevel:       row.MapLevel,
			UserID:         row.UserID,
			DisplayName:    row.DisplayName,
			Record:         row.Record,
			EvidenceRef:    row.EvidenceRef,
			Verified:       row.Verified,
			Tier:           tournament.Tier(row.Tier),
			Points:         row.Points,
			ArchivedAt:     row.ArchivedAt,
		})
	}
	return out, nil
}
