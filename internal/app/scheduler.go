package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
	"github.com/riskibarqy/speedrun-tournament/internal/usecase"
)

const (
	roundTickJobName            = "round-tick"
	announcementDispatchJobName = "announcement-dispatch"
)

type roundTicker interface {
	Tick(ctx context.Context) (usecase.TickResult, error)
}

type announcementDispatcher interface {
	DispatchDue(ctx context.Context) (usecase.DispatchResult, error)
}

type SchedulerConfig struct {
	RoundPollInterval    time.Duration
	AnnouncementInterval time.Duration
}

// Scheduler drives the round controller and the announcement dispatcher on fixed intervals.
// Both jobs run in singleton mode, so a slow run is never overlapped by the next one.
type Scheduler struct {
	cron          gocron.Scheduler
	rounds        roundTicker
	announcements announcementDispatcher
	cfg           SchedulerConfig
	logger        *logging.Logger
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewScheduler(rounds roundTicker, announcements announcementDispatcher, cfg SchedulerConfig, logger *logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.RoundPollInterval <= 0 || cfg.AnnouncementInterval <= 0 {
		return nil, fmt.Errorf("scheduler intervals must be > 0")
	}

	cron, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:          cron,
		rounds:        rounds,
		announcements: announcements,
		cfg:           cfg,
		logger:        logger.Named("scheduler"),
		ctx:           ctx,
		cancel:        cancel,
	}

	if err := s.register(roundTickJobName, cfg.RoundPollInterval, s.runRoundTick); err != nil {
		cancel()
		return nil, err
	}
	if err := s.register(announcementDispatchJobName, cfg.AnnouncementInterval, s.runAnnouncementDispatch); err != nil {
		cancel()
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) register(name string, interval time.Duration, fn func()) error {
	_, err := s.cron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("register %s job: %w", name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started",
		"round_poll_interval", s.cfg.RoundPollInterval.String(),
		"announcement_interval", s.cfg.AnnouncementInterval.String(),
	)
}

// Shutdown cancels in-flight runs and waits for them to return.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	return nil
}

func (s *Scheduler) runRoundTick() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.RoundPollInterval)
	defer cancel()

	result, err := s.rounds.Tick(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "round tick failed, retrying next tick",
			"tournament_id", result.TournamentID,
			"state", result.State,
			"error", err,
		)
		return
	}
	if result.Transition != usecase.TransitionNone {
		s.logger.InfoContext(ctx, "round transition applied",
			"tournament_id", result.TournamentID,
			"transition", result.Transition,
			"state", result.State,
			"competitors", result.Competitors,
		)
	}
}

func (s *Scheduler) runAnnouncementDispatch() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.AnnouncementInterval)
	defer cancel()

	result, err := s.announcements.DispatchDue(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "announcement dispatch failed", "error", err)
		return
	}
	if result.Due > 0 {
		s.logger.InfoContext(ctx, "announcements dispatched",
			"due", result.Due,
			"sent", result.Sent,
			"failed", result.Failed,
		)
	}
}
