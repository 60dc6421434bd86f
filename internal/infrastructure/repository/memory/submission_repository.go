package memory

import (
	"context"
	"strconv"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

type SubmissionRepository struct {
	store *Store
}

func (r *SubmissionRepository) Upsert(_ context.Context, s tournament.Submission) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.submissions[submissionKey(s.TournamentID, s.Category, s.UserID)] = s
	return nil
}

func (r *SubmissionRepository) Delete(_ context.Context, tournamentID int64, category tournament.Category, userID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := submissionKey(tournamentID, category, userID)
	if _, ok := r.store.submissions[key]; !ok {
		return false, nil
	}
	delete(r.store.submissions, key)
	return true, nil
}

func (r *SubmissionRepository) DeleteByCategory(_ context.Context, tournamentID int64, category tournament.Category) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	removed := 0
	for key, item := range r.store.submissions {
		if item.TournamentID == tournamentID && item.Category == category {
			delete(r.store.submissions, key)
			removed++
		}
	}
	return removed, nil
}

func (r *SubmissionRepository) ListByCategory(_ context.Context, tournamentID int64, category tournament.Category) ([]tournament.Submission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]tournament.Submission, 0)
	for _, item := range r.store.submissions {
		if item.TournamentID == tournamentID && item.Category == category {
			out = append(out, item)
		}
	}
	sortByRecord(out)
	return out, nil
}

func (r *SubmissionRepository) ListByTournament(_ context.Context, tournamentID int64) ([]tournament.Submission, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]tournament.Submission, 0)
	for _, item := range r.store.submissions {
		if item.TournamentID == tournamentID {
			out = append(out, item)
		}
	}
	sortByRecord(out)
	return out, nil
}

func submissionKey(tournamentID int64, category tournament.Category, userID string) string {
	return strconv.FormatInt(tournamentID, 10) + "::" + string(category) + "::" + userID
}
