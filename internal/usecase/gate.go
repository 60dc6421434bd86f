package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/announcement"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
)

// RoundOpenSummary is announced when submissions open.
type RoundOpenSummary struct {
	TournamentID int64                                                    `json:"tournament_id"`
	Name         string                                                   `json:"name"`
	Categories   []tournament.Category                                    `json:"categories"`
	Maps         map[tournament.Category]tournament.MapAssignment         `json:"maps"`
	Missions     map[tournament.Difficulty]map[tournament.Category]string `json:"missions,omitempty"`
	General      string                                                   `json:"general,omitempty"`
	CloseAt      time.Time                                                `json:"close_at"`
}

type RankingRow struct {
	Placement   int     `json:"placement"`
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Record      float64 `json:"record"`
	Points      int64   `json:"points"`
}

type CategoryRanking struct {
	Category tournament.Category              `json:"category"`
	Tiers    map[tournament.Tier][]RankingRow `json:"tiers"`
	Text     string                           `json:"text"`
}

// RoundCloseSummary is announced with the final rankings of a round.
type RoundCloseSummary struct {
	TournamentID int64             `json:"tournament_id"`
	Name         string            `json:"name"`
	Rankings     []CategoryRanking `json:"rankings"`
	Competitors  int               `json:"competitors"`
	ClosedAt     time.Time         `json:"closed_at"`
}

// ChannelGate carries lock/unlock and announcement instructions to the chat layer.
type ChannelGate interface {
	Unlock(ctx context.Context, categories []tournament.Category) error
	Lock(ctx context.Context, categories []tournament.Category) error
	AnnounceRoundOpen(ctx context.Context, summary RoundOpenSummary) error
	AnnounceRoundClose(ctx context.Context, summary RoundCloseSummary) error
	Announce(ctx context.Context, item announcement.Announcement) error
}

type logChannelGate struct {
	logger *logging.Logger
}

// NewLogChannelGate returns a gate that only records instructions in the log.
func NewLogChannelGate(logger *logging.Logger) ChannelGate {
	if logger == nil {
		logger = logging.Default()
	}
	return logChannelGate{logger: logger}
}

func (g logChannelGate) Unlock(ctx context.Context, categories []tournament.Category) error {
	g.logger.InfoContext(ctx, "unlock categories", "categories", categories)
	return nil
}

func (g logChannelGate) Lock(ctx context.Context, categories []tournament.Category) error {
	g.logger.InfoContext(ctx, "lock categories", "categories", categories)
	return nil
}

func (g logChannelGate) AnnounceRoundOpen(ctx context.Context, summary RoundOpenSummary) error {
	g.logger.InfoContext(ctx, "announce round open", "tournament_id", summary.TournamentID, "name", summary.Name, "close_at", summary.CloseAt)
	return nil
}

func (g logChannelGate) AnnounceRoundClose(ctx context.Context, summary RoundCloseSummary) error {
	g.logger.InfoContext(ctx, "announce round close", "tournament_id", summary.TournamentID, "name", summary.Name, "competitors", summary.Competitors)
	return nil
}

func (g logChannelGate) Announce(ctx context.Context, item announcement.Announcement) error {
	g.logger.InfoContext(ctx, "announce", "announcement_id", item.ID, "title", item.Title)
	return nil
}
