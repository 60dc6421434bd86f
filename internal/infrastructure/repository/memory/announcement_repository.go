package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/announcement"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

type AnnouncementRepository struct {
	store *Store
}

func (r *AnnouncementRepository) Create(_ context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextAnnouncementID++
	a.ID = r.store.nextAnnouncementID
	r.store.announcements[a.ID] = cloneAnnouncement(a)
	return cloneAnnouncement(a), nil
}

func (r *AnnouncementRepository) ListDue(_ context.Context, now time.Time, limit int) ([]announcement.Announcement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]announcement.Announcement, 0)
	for _, item := range r.store.announcements {
		if item.Due(now) {
			out = append(out, cloneAnnouncement(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduleAt.Equal(out[j].ScheduleAt) {
			return out[i].ScheduleAt.Before(out[j].ScheduleAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AnnouncementRepository) MarkSent(_ context.Context, id int64, sentAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.announcements[id]
	if !ok {
		return fmt.Errorf("announcement not found: %d", id)
	}
	item.SentAt = &sentAt
	r.store.announcements[id] = item
	return nil
}

func cloneAnnouncement(a announcement.Announcement) announcement.Announcement {
	copied := a
	copied.Mentions = append([]tournament.Category(nil), a.Mentions...)
	if a.SentAt != nil {
		sentAt := *a.SentAt
		copied.SentAt = &sentAt
	}
	return copied
}
