package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/scoring"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
)

func buildOpenSummary(t tournament.Tournament) RoundOpenSummary {
	categories := t.Categories()
	summary := RoundOpenSummary{
		TournamentID: t.ID,
		Name:         t.Name,
		Categories:   categories,
		Maps:         make(map[tournament.Category]tournament.MapAssignment, len(categories)),
		CloseAt:      t.CloseAt,
	}
	for _, c := range categories {
		if m, ok := t.Maps[c]; ok {
			summary.Maps[c] = m
		}
	}
	for _, d := range tournament.DifficultiesByPriority {
		for _, c := range categories {
			o, ok := t.Missions.Objective(d, c)
			if !ok {
				continue
			}
			if summary.Missions == nil {
				summary.Missions = make(map[tournament.Difficulty]map[tournament.Category]string)
			}
			if summary.Missions[d] == nil {
				summary.Missions[d] = make(map[tournament.Category]string)
			}
			summary.Missions[d][c] = o.String()
		}
	}
	if t.Missions.General != nil {
		summary.General = t.Missions.General.String()
	}
	return summary
}

func buildCloseSummary(t tournament.Tournament, table scoring.Table, closedAt time.Time) RoundCloseSummary {
	summary := RoundCloseSummary{
		TournamentID: t.ID,
		Name:         t.Name,
		Competitors:  len(table.Results),
		ClosedAt:     closedAt,
	}
	for _, c := range t.Categories() {
		entries := table.Entries[c]
		if len(entries) == 0 {
			continue
		}
		ranking := CategoryRanking{
			Category: c,
			Tiers:    make(map[tournament.Tier][]RankingRow),
		}
		for _, entry := range entries {
			ranking.Tiers[entry.Tier] = append(ranking.Tiers[entry.Tier], RankingRow{
				Placement:   entry.Placement,
				UserID:      entry.Submission.UserID,
				DisplayName: entry.Submission.DisplayName,
				Record:      entry.Submission.Record,
				Points:      entry.Points + entry.MissionPoints,
			})
		}
		ranking.Text = formatRanking(c, ranking.Tiers)
		summary.Rankings = append(summary.Rankings, ranking)
	}
	return summary
}

// formatRanking renders the plain-text board posted with the close announcement.
func formatRanking(c tournament.Category, tiers map[tournament.Tier][]RankingRow) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("--- " + strings.ToUpper(c.Label()) + " ---\n")
	for _, t := range tournament.AllTiers {
		rows := tiers[t]
		if len(rows) == 0 {
			continue
		}
		_, _ = buf.WriteString(strings.ToUpper(string(t)))
		_ = buf.WriteByte('\n')
		for _, row := range rows {
			placement := "-"
			if row.Placement > 0 {
				placement = strconv.Itoa(row.Placement)
			}
			_, _ = buf.WriteString(placement + ". " + row.DisplayName + " - " + tournament.FormatRecord(row.Record))
			_, _ = buf.WriteString(" (" + strconv.FormatInt(row.Points, 10) + " pts)\n")
		}
	}
	return buf.String()
}
