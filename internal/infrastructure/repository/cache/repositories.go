package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/archive"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	basecache "github.com/riskibarqy/speedrun-tournament/internal/platform/cache"
)

const (
	closedTournamentsPrefix = "tournament:closed:"
	archiveByTournamentKey  = "archive:tournament:"
)

// TournamentRepository caches the closed-round history and drops it whenever a round closes or is deleted.
// Live-round reads always go to the next repository.
type TournamentRepository struct {
	next  tournament.Repository
	cache *basecache.Store
}

var _ tournament.Repository = (*TournamentRepository)(nil)

func NewTournamentRepository(next tournament.Repository, cache *basecache.Store) *TournamentRepository {
	return &TournamentRepository{next: next, cache: cache}
}

func (r *TournamentRepository) GetLatest(ctx context.Context) (tournament.Tournament, bool, error) {
	return r.next.GetLatest(ctx)
}

func (r *TournamentRepository) ListClosed(ctx context.Context, limit int) ([]tournament.Tournament, error) {
	key := closedTournamentsPrefix + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListClosed(ctx, limit)
		if err != nil {
			return nil, err
		}
		return append([]tournament.Tournament(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]tournament.Tournament)
	return append([]tournament.Tournament(nil), items...), nil
}

func (r *TournamentRepository) Create(ctx context.Context, t tournament.Tournament) (tournament.Tournament, error) {
	return r.next.Create(ctx, t)
}

func (r *TournamentRepository) MarkOpened(ctx context.Context, tournamentID int64) error {
	return r.next.MarkOpened(ctx, tournamentID)
}

func (r *TournamentRepository) UpdateMissions(ctx context.Context, tournamentID int64, missions tournament.Missions) error {
	return r.next.UpdateMissions(ctx, tournamentID, missions)
}

func (r *TournamentRepository) Delete(ctx context.Context, tournamentID int64) error {
	if err := r.next.Delete(ctx, tournamentID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, closedTournamentsPrefix)
	return nil
}

func (r *TournamentRepository) Close(ctx context.Context, outcome tournament.CloseOutcome) error {
	if err := r.next.Close(ctx, outcome); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, closedTournamentsPrefix)
	r.cache.Delete(ctx, archiveByTournamentKey+strconv.FormatInt(outcome.TournamentID, 10))
	return nil
}

// ArchiveRepository caches per-round archives. A round's archive is written once, in the close
// transaction, so only empty results (round not closed yet) are kept on the regular TTL.
type ArchiveRepository struct {
	next  archive.Repository
	cache *basecache.Store
}

var _ archive.Repository = (*ArchiveRepository)(nil)

func NewArchiveRepository(next archive.Repository, cache *basecache.Store) *ArchiveRepository {
	return &ArchiveRepository{next: next, cache: cache}
}

func (r *ArchiveRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]archive.Record, error) {
	key := archiveByTournamentKey + strconv.FormatInt(tournamentID, 10)
	v, err := r.cache.GetOrLoadPermanent(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return append([]archive.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]archive.Record)
	if len(items) == 0 {
		r.cache.Set(ctx, key, items)
	}
	return append([]archive.Record(nil), items...), nil
}

func (r *ArchiveRepository) ListByUser(ctx context.Context, userID string, limit int) ([]archive.Record, error) {
	return r.next.ListByUser(ctx, userID, limit)
}
