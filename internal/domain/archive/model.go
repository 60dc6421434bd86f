package archive

import (
	"time"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

// Record is a verified submission kept after its round closed.
type Record struct {
	ID             int64
	TournamentID   int64
	TournamentName string
	Category       tournament.Category
	MapCode        string
	MapLevel       string
	UserID         string
	DisplayName    string
	Record         float64
	EvidenceRef    string
	Verified       bool
	Tier           tournament.Tier
	Points         int64
	ArchivedAt     time.Time
}

// Podium is the top of one category in one closed round.
type Podium struct {
	TournamentID   int64
	TournamentName string
	Category       tournament.Category
	Entries        []Record
}
