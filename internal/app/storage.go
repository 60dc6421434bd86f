package app

import (
	"context"
	"fmt"

	"github.com/riskibarqy/speedrun-tournament/internal/config"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/announcement"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/archive"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tier"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	cacherepo "github.com/riskibarqy/speedrun-tournament/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/speedrun-tournament/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/speedrun-tournament/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/speedrun-tournament/internal/platform/cache"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
)

type repositories struct {
	tournaments   tournament.Repository
	submissions   tournament.SubmissionRepository
	tiers         tier.Repository
	archive       archive.Repository
	announcements announcement.Repository
	close         func() error
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	repos, err := newBaseRepositories(ctx, cfg, logger)
	if err != nil {
		return repositories{}, err
	}
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.tournaments = cacherepo.NewTournamentRepository(repos.tournaments, store)
		repos.archive = cacherepo.NewArchiveRepository(repos.archive, store)
		logger.Info("read cache enabled", "ttl", cfg.CacheTTL.String())
	}
	return repos, nil
}

func newBaseRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver, "database", postgres.DatabaseName(cfg.DBURL))
		return repositories{
			tournaments:   postgres.NewTournamentRepository(db),
			submissions:   postgres.NewSubmissionRepository(db),
			tiers:         postgres.NewTierRepository(db),
			archive:       postgres.NewArchiveRepository(db),
			announcements: postgres.NewAnnouncementRepository(db),
			close:         db.Close,
		}, nil
	case config.StorageMemory:
		store := memory.NewStore()
		logger.Warn("storage is in-memory, round state is lost on restart", "driver", cfg.StorageDriver)
		return repositories{
			tournaments:   store.Tournaments(),
			submissions:   store.Submissions(),
			tiers:         store.Tiers(),
			archive:       store.Archive(),
			announcements: store.Announcements(),
			close:         func() error { return nil },
		}, nil
	default:
		return repositories{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
