package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/announcement"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	qb "github.com/riskibarqy/speedrun-tournament/internal/platform/querybuilder"
)

const announcementsTable = "scheduled_announcements"

var announcementColumns = []string{
	"id",
	"title",
	"body",
	"mentions",
	"schedule_at",
	"sent_at",
	"created_at",
}

type announcementTableModel struct {
	ID         int64          `db:"id"`
	Title      string         `db:"title"`
	Body       string         `db:"body"`
	Mentions   pq.StringArray `db:"mentions"`
	ScheduleAt time.Time      `db:"schedule_at"`
	SentAt     *time.Time     `db:"sent_at"`
	CreatedAt  time.Time      `db:"created_at"`
}

type announcementInsertModel struct {
	Title      string         `db:"title"`
	Body       string         `db:"body"`
	Mentions   pq.StringArray `db:"mentions"`
	ScheduleAt time.Time      `db:"schedule_at"`
	SentAt     *time.Time     `db:"sent_at"`
	CreatedAt  time.Time      `db:"created_at"`
}

type AnnouncementRepository struct {
	db *sqlx.DB
}

func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	mentions := make(pq.StringArray, 0, len(a.Mentions))
	for _, c := range a.Mentions {
		mentions = append(mentions, string(c))
	}
	model := announcementInsertModel{
		Title:      a.Title,
		Body:       a.Body,
		Mentions:   mentions,
		ScheduleAt: a.ScheduleAt.UTC(),
		CreatedAt:  a.CreatedAt.UTC(),
	}
	if a.SentAt != nil {
		sentAt := a.SentAt.UTC()
		model.SentAt = &sentAt
	}

	query, args, err := qb.InsertModel(announcementsTable, model, "RETURNING id")
	if err != nil {
		return announcement.Announcement{}, fmt.Errorf("build insert announcement query: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return announcement.Announcement{}, fmt.Errorf("insert announcement: %w", err)
	}
	return a, nil
}

func (r *AnnouncementRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]announcement.Announcement, error) {
	query, args, err := qb.Select(announcementColumns...).
		From(announcementsTable).
		Where(qb.IsNull("sent_at"), qb.Lte("schedule_at", now.UTC())).
		OrderBy("schedule_at ASC", "id ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build due announcements query: %w", err)
	}

	var rows []announcementTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list due announcements: %w", err)
	}

	out := make([]announcement.Announcement, 0, len(rows))
	for _, row := range rows {
		mentions := make([]tournament.Category, 0, len(row.Mentions))
		for _, raw := range row.Mentions {
			mentions = append(mentions, tournament.Category(raw))
		}
		out = append(out, announcement.Announcement{
			ID:         row.ID,
			Title:      row.Title,
			Body:       row.Body,
			Mentions:   mentions,
			ScheduleAt: row.ScheduleAt,
			SentAt:     row.SentAt,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}

func (r *AnnouncementRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	query, args, err := qb.Update(announcementsTable).
		Set("sent_at", sentAt.UTC()).
		Where(qb.Eq("id", id), qb.IsNull("sent_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark announcement sent query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark announcement sent: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark announcement sent rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("announcement not found or already sent: %d", id)
	}
	return nil
}
