package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/archive"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tier"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

type TournamentRepository struct {
	store *Store
}

func (r *TournamentRepository) GetLatest(_ context.Context) (tournament.Tournament, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if len(r.store.tournamentOrder) == 0 {
		return tournament.Tournament{}, false, nil
	}
	id := r.store.tournamentOrder[len(r.store.tournamentOrder)-1]
	return cloneTournament(r.store.tournaments[id]), true, nil
}

func (r *TournamentRepository) ListClosed(_ context.Context, limit int) ([]tournament.Tournament, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]tournament.Tournament, 0, limit)
	for i := len(r.store.tournamentOrder) - 1; i >= 0 && len(out) < limit; i-- {
		item := r.store.tournaments[r.store.tournamentOrder[i]]
		if item.ClosedAt == nil {
			continue
		}
		out = append(out, cloneTournament(item))
	}
	return out, nil
}

func (r *TournamentRepository) Create(_ context.Context, t tournament.Tournament) (tournament.Tournament, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextTournamentID++
	t.ID = r.store.nextTournamentID
	r.store.tournaments[t.ID] = cloneTournament(t)
	r.store.tournamentOrder = append(r.store.tournamentOrder, t.ID)
	return cloneTournament(t), nil
}

func (r *TournamentRepository) MarkOpened(_ context.Context, tournamentID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.tournaments[tournamentID]
	if !ok {
		return fmt.Errorf("tournament not found: %d", tournamentID)
	}
	item.OpenAt = tournament.Sentinel
	r.store.tournaments[tournamentID] = item
	return nil
}

func (r *TournamentRepository) UpdateMissions(_ context.Context, tournamentID int64, missions tournament.Missions) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.tournaments[tournamentID]
	if !ok {
		return fmt.Errorf("tournament not found: %d", tournamentID)
	}
	item.Missions = cloneMissions(missions)
	r.store.tournaments[tournamentID] = item
	return nil
}

func (r *TournamentRepository) Delete(_ context.Context, tournamentID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.tournaments, tournamentID)
	order := r.store.tournamentOrder[:0]
	for _, id := range r.store.tournamentOrder {
		if id != tournamentID {
			order = append(order, id)
		}
	}
	r.store.tournamentOrder = order
	r.store.deleteSubmissionsLocked(tournamentID)
	return nil
}

func (r *TournamentRepository) Close(_ context.Context, outcome tournament.CloseOutcome) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.tournaments[outcome.TournamentID]
	if !ok {
		return fmt.Errorf("tournament not found: %d", outcome.TournamentID)
	}
	if !item.Live() {
		return fmt.Errorf("tournament %d already closed", outcome.TournamentID)
	}

	for userID, amount := range outcome.Experience {
		record := r.store.tierLocked(userID)
		record.Experience += amount
		r.store.tiers[userID] = record
	}

	for _, entry := range outcome.Archive {
		r.store.nextArchiveID++
		r.store.archive = append(r.store.archive, archive.Record{
			ID:             r.store.nextArchiveID,
			TournamentID:   item.ID,
			TournamentName: item.Name,
			Category:       entry.Submission.Category,
			MapCode:        entry.Map.Code,
			MapLevel:       entry.Map.Level,
			UserID:         entry.Submission.UserID,
			DisplayName:    entry.Submission.DisplayName,
			Record:         entry.Submission.Record,
			EvidenceRef:    entry.Submission.EvidenceRef,
			Verified:       true,
			Tier:           entry.Tier,
			Points:         entry.Points,
			ArchivedAt:     outcome.ClosedAt,
		})
	}

	r.store.deleteSubmissionsLocked(item.ID)

	closedAt := outcome.ClosedAt
	item.OpenAt = tournament.Sentinel
	item.CloseAt = tournament.Sentinel
	item.ClosedAt = &closedAt
	item.TierCache = cloneTierCache(outcome.TierCache)
	r.store.tournaments[item.ID] = item
	return nil
}

func (s *Store) deleteSubmissionsLocked(tournamentID int64) {
	for key, item := range s.submissions {
		if item.TournamentID == tournamentID {
			delete(s.submissions, key)
		}
	}
}

func (s *Store) tierLocked(userID string) tier.Record {
	record, ok := s.tiers[userID]
	if !ok {
		record = tier.NewRecord(userID)
		s.tiers[userID] = record
	}
	return record
}

func cloneTournament(t tournament.Tournament) tournament.Tournament {
	copied := t
	if t.Maps != nil {
		copied.Maps = make(map[tournament.Category]tournament.MapAssignment, len(t.Maps))
		for k, v := range t.Maps {
			copied.Maps[k] = v
		}
	}
	copied.Missions = cloneMissions(t.Missions)
	copied.TierCache = cloneTierCache(t.TierCache)
	if t.ClosedAt != nil {
		closedAt := *t.ClosedAt
		copied.ClosedAt = &closedAt
	}
	return copied
}

func cloneMissions(m tournament.Missions) tournament.Missions {
	out := tournament.Missions{}
	if m.Objectives != nil {
		out.Objectives = make(map[tournament.Difficulty]map[tournament.Category]tournament.Objective, len(m.Objectives))
		for d, byCategory := range m.Objectives {
			inner := make(map[tournament.Category]tournament.Objective, len(byCategory))
			for c, o := range byCategory {
				inner[c] = o
			}
			out.Objectives[d] = inner
		}
	}
	if m.General != nil {
		g := *m.General
		out.General = &g
	}
	return out
}

func cloneTierCache(cache tournament.TierCache) tournament.TierCache {
	if cache == nil {
		return nil
	}
	out := make(tournament.TierCache, len(cache))
	for t, byCategory := range cache {
		inner := make(map[tournament.Category][]tournament.Submission, len(byCategory))
		for c, items := range byCategory {
			inner[c] = append([]tournament.Submission(nil), items...)
		}
		out[t] = inner
	}
	return out
}

func sortByRecord(items []tournament.Submission) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Record != items[j].Record {
			return items[i].Record < items[j].Record
		}
		return items[i].UserID < items[j].UserID
	})
}
