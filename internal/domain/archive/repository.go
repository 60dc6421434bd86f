package archive

import "context"

type Repository interface {
	ListByTournament(ctx context.Context, tournamentID int64) ([]Record, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)
}
