package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/speedrun-tournament/internal/config"
	"github.com/riskibarqy/speedrun-tournament/internal/interfaces/httpapi"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
	"github.com/riskibarqy/speedrun-tournament/internal/usecase"
)

// App holds the HTTP server, the poll scheduler and the resources they share.
type App struct {
	Server    *http.Server
	Scheduler *Scheduler

	logger  *logging.Logger
	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a := &App{logger: logger, closers: []func() error{repos.close}}

	channelGate, closeGate, err := newChannelGate(ctx, cfg, logger)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	a.closers = append(a.closers, closeGate)

	splitter := usecase.NewTierSplitter(repos.tiers).WithWorkers(cfg.RoundCloseWorkers)
	roundSvc := usecase.NewRoundService(repos.tournaments, logger)
	submissionSvc := usecase.NewSubmissionService(repos.tournaments, repos.submissions, splitter, logger)
	tierSvc := usecase.NewTierService(repos.tiers, logger)
	hallOfFameSvc := usecase.NewHallOfFameService(repos.tournaments, repos.archive)
	announcementSvc := usecase.NewAnnouncementService(repos.announcements, channelGate, usecase.AnnouncementConfig{
		Workers: cfg.AnnouncementWorkers,
	}, logger)
	controller := usecase.NewRoundController(repos.tournaments, repos.submissions, splitter, channelGate, logger)

	scheduler, err := NewScheduler(controller, announcementSvc, SchedulerConfig{
		RoundPollInterval:    cfg.RoundPollInterval,
		AnnouncementInterval: cfg.AnnouncementInterval,
	}, logger)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	a.Scheduler = scheduler

	handler := httpapi.NewHandler(
		roundSvc,
		submissionSvc,
		tierSvc,
		hallOfFameSvc,
		announcementSvc,
		controller,
		logger,
	)
	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return a, nil
}

// Shutdown stops the scheduler first so no tick starts while the server drains.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Scheduler != nil {
		if err := a.Scheduler.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if err := a.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
