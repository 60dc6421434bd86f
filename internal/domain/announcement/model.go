package announcement

import (
	"time"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

type Announcement struct {
	ID         int64
	Title      string
	Body       string
	Mentions   []tournament.Category
	ScheduleAt time.Time
	SentAt     *time.Time
	CreatedAt  time.Time
}

func (a Announcement) Due(now time.Time) bool {
	return a.SentAt == nil && !now.Before(a.ScheduleAt)
}
