package memory

import (
	"sync"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/announcement"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/archive"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tier"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

// Store keeps every table behind one lock so a round close can touch several of them atomically.
type Store struct {
	mu sync.RWMutex

	tournaments     map[int64]tournament.Tournament
	tournamentOrder []int64
	submissions     map[string]tournament.Submission
	tiers           map[string]tier.Record
	archive         []archive.Record
	announcements   map[int64]announcement.Announcement

	nextTournamentID   int64
	nextArchiveID      int64
	nextAnnouncementID int64
}

func NewStore() *Store {
	return &Store{
		tournaments:   make(map[int64]tournament.Tournament),
		submissions:   make(map[string]tournament.Submission),
		tiers:         make(map[string]tier.Record),
		announcements: make(map[int64]announcement.Announcement),
	}
}

func (s *Store) Tournaments() *TournamentRepository {
	return &TournamentRepository{store: s}
}

func (s *Store) Submissions() *SubmissionRepository {
	return &SubmissionRepository{store: s}
}

func (s *Store) Tiers() *TierRepository {
	return &TierRepository{store: s}
}

func (s *Store) Archive() *ArchiveRepository {
	return &ArchiveRepository{store: s}
}

func (s *Store) Announcements() *AnnouncementRepository {
	return &AnnouncementRepository{store: s}
}
