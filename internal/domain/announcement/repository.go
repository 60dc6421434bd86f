package announcement

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Announcement) (Announcement, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]Announcement, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
}
