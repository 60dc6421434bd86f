package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/announcement"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
)

type AnnouncementConfig struct {
	Workers   int
	BatchSize int
}

type ScheduleAnnouncementInput struct {
	Title    string
	Body     string
	Mentions []string
	At       *time.Time
}

type DispatchResult struct {
	Due    int `json:"due"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type AnnouncementService struct {
	repo   announcement.Repository
	gate   ChannelGate
	cfg    AnnouncementConfig
	logger *logging.Logger
	now    func() time.Time
}

func NewAnnouncementService(repo announcement.Repository, gate ChannelGate, cfg AnnouncementConfig, logger *logging.Logger) *AnnouncementService {
	if logger == nil {
		logger = logging.Default()
	}
	if gate == nil {
		gate = NewLogChannelGate(logger)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &AnnouncementService{
		repo:   repo,
		gate:   gate,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Schedule stores an announcement; one without a future time goes out on the next dispatch.
func (s *AnnouncementService) Schedule(ctx context.Context, input ScheduleAnnouncementInput) (announcement.Announcement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnnouncementService.Schedule")
	defer span.End()

	item, err := s.build(input)
	if err != nil {
		return announcement.Announcement{}, err
	}
	return s.create(ctx, item)
}

// AnnounceNow sends the announcement before storing it, so the row is already sent when the poll
// loop can see it. When the send fails the row is stored unsent and the next dispatch retries it.
func (s *AnnouncementService) AnnounceNow(ctx context.Context, input ScheduleAnnouncementInput) (announcement.Announcement, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnnouncementService.AnnounceNow")
	defer span.End()

	input.At = nil
	item, err := s.build(input)
	if err != nil {
		return announcement.Announcement{}, err
	}

	if sendErr := s.gate.Announce(ctx, item); sendErr != nil {
		created, err := s.create(ctx, item)
		if err != nil {
			return announcement.Announcement{}, err
		}
		return created, fmt.Errorf("%w: announce: %v", ErrDependencyUnavailable, sendErr)
	}

	sentAt := item.ScheduleAt
	item.SentAt = &sentAt
	return s.create(ctx, item)
}

func (s *AnnouncementService) build(input ScheduleAnnouncementInput) (announcement.Announcement, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if title == "" && body == "" {
		return announcement.Announcement{}, fmt.Errorf("%w: title or body is required", ErrInvalidInput)
	}

	mentions := make([]tournament.Category, 0, len(input.Mentions))
	for _, raw := range input.Mentions {
		c, err := parseCategory(raw)
		if err != nil {
			return announcement.Announcement{}, err
		}
		mentions = append(mentions, c)
	}

	now := s.now().UTC()
	at := now
	if input.At != nil && !input.At.IsZero() {
		at = input.At.UTC()
	}
	return announcement.Announcement{
		Title:      title,
		Body:       body,
		Mentions:   mentions,
		ScheduleAt: at,
		CreatedAt:  now,
	}, nil
}

func (s *AnnouncementService) create(ctx context.Context, item announcement.Announcement) (announcement.Announcement, error) {
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return announcement.Announcement{}, fmt.Errorf("create announcement: %w", err)
	}
	return created, nil
}

// DispatchDue sends every due announcement through a bounded worker pool.
// Failed sends stay unsent and are retried by the next dispatch.
func (s *AnnouncementService) DispatchDue(ctx context.Context) (DispatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnnouncementService.DispatchDue")
	defer span.End()

	now := s.now().UTC()
	items, err := s.repo.ListDue(ctx, now, s.cfg.BatchSize)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("list due announcements: %w", err)
	}
	result := DispatchResult{Due: len(items)}
	if len(items) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var sent atomic.Int32
	var failed atomic.Int32
	var workers sync.WaitGroup
	for _, item := range items {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if err := s.send(ctx, item, now); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "announcement dispatch failed", "announcement_id", item.ID, "error", err)
				return
			}
			sent.Add(1)
		}); err != nil {
			workers.Done()
			return DispatchResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.Sent = int(sent.Load())
	result.Failed = int(failed.Load())
	return result, nil
}

func (s *AnnouncementService) send(ctx context.Context, item announcement.Announcement, now time.Time) error {
	if err := s.gate.Announce(ctx, item); err != nil {
		return fmt.Errorf("%w: announce: %v", ErrDependencyUnavailable, err)
	}
	if err := s.repo.MarkSent(ctx, item.ID, now); err != nil {
		return fmt.Errorf("mark announcement sent: %w", err)
	}
	return nil
}
