package tournament

import (
	"context"
	"time"
)

// CloseOutcome is everything the close transition persists in one write.
type CloseOutcome struct {
	TournamentID int64
	Experience   map[string]int64
	Archive      []ArchiveEntry
	TierCache    TierCache
	ClosedAt     time.Time
}

// ArchiveEntry is a scored submission headed for the permanent record store.
type ArchiveEntry struct {
	Submission Submission
	Map        MapAssignment
	Tier       Tier
	Points     int64
}

type Repository interface {
	GetLatest(ctx context.Context) (Tournament, bool, error)
	ListClosed(ctx context.Context, limit int) ([]Tournament, error)
	Create(ctx context.Context, t Tournament) (Tournament, error)
	MarkOpened(ctx context.Context, tournamentID int64) error
	UpdateMissions(ctx context.Context, tournamentID int64, missions Missions) error
	Delete(ctx context.Context, tournamentID int64) error
	// Close applies experience, archives entries, clears the ledger and consumes CloseAt atomically.
	Close(ctx context.Context, outcome CloseOutcome) error
}

type SubmissionRepository interface {
	Upsert(ctx context.Context, s Submission) error
	Delete(ctx context.Context, tournamentID int64, category Category, userID string) (bool, error)
	DeleteByCategory(ctx context.Context, tournamentID int64, category Category) (int, error)
	ListByCategory(ctx context.Context, tournamentID int64, category Category) ([]Submission, error)
	ListByTournament(ctx context.Context, tournamentID int64) ([]Submission, error)
}
