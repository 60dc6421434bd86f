package httpapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/announcement"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/archive"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tier"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	"github.com/riskibarqy/speedrun-tournament/internal/usecase"
)

// recordValue accepts either seconds as a JSON number or a "H:MM:SS.ss" string.
type recordValue float64

func (v *recordValue) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, `"`) {
		var raw string
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return err
		}
		seconds, err := tournament.ParseRecord(raw)
		if err != nil {
			return err
		}
		*v = recordValue(seconds)
		return nil
	}

	seconds, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("record %s is not a number", text)
	}
	*v = recordValue(seconds)
	return nil
}

type submitRecordRequest struct {
	UserID      string       `json:"user_id" validate:"required,max=64"`
	DisplayName string       `json:"display_name" validate:"omitempty,max=100"`
	Record      *recordValue `json:"record" validate:"required"`
	EvidenceRef string       `json:"evidence_ref" validate:"required,max=512"`
}

type mapAssignmentRequest struct {
	Code   string `json:"code" validate:"required,max=64"`
	Level  string `json:"level" validate:"omitempty,max=100"`
	Author string `json:"author" validate:"omitempty,max=100"`
}

type missionTextsRequest struct {
	Objectives map[string]map[string]string `json:"objectives"`
	General    string                       `json:"general" validate:"omitempty,max=100"`
}

type startRoundRequest struct {
	Name            string                          `json:"name" validate:"required,max=200"`
	Maps            map[string]mapAssignmentRequest `json:"maps" validate:"required,min=1,dive"`
	Missions        missionTextsRequest             `json:"missions"`
	OpenAt          *time.Time                      `json:"open_at"`
	CloseAt         time.Time                       `json:"close_at" validate:"required"`
	Bracket         bool                            `json:"bracket"`
	BracketCategory string                          `json:"bracket_category" validate:"omitempty,oneof=ta mc hc bo"`
}

func (r startRoundRequest) toInput() usecase.StartRoundInput {
	maps := make(map[string]tournament.MapAssignment, len(r.Maps))
	for key, value := range r.Maps {
		maps[key] = tournament.MapAssignment{Code: value.Code, Level: value.Level, Author: value.Author}
	}
	return usecase.StartRoundInput{
		Name: r.Name,
		Maps: maps,
		Missions: usecase.MissionTexts{
			Objectives: r.Missions.Objectives,
			General:    r.Missions.General,
		},
		OpenAt:          r.OpenAt,
		CloseAt:         r.CloseAt,
		Bracket:         r.Bracket,
		BracketCategory: r.BracketCategory,
	}
}

type updateMissionsRequest struct {
	Objectives map[string]string `json:"objectives"`
	General    string            `json:"general" validate:"omitempty,max=100"`
}

type overrideTierRequest struct {
	Tier string `json:"tier" validate:"required,oneof=unranked gold diamond grandmaster"`
}

type setAliasRequest struct {
	Alias string `json:"alias" validate:"max=32"`
}

type scheduleAnnouncementRequest struct {
	Title    string     `json:"title" validate:"omitempty,max=200"`
	Body     string     `json:"body" validate:"omitempty,max=4000"`
	Mentions []string   `json:"mentions" validate:"omitempty,dive,oneof=ta mc hc bo"`
	At       *time.Time `json:"at"`
	Now      bool       `json:"now"`
}

type roundDTO struct {
	ID              int64                                            `json:"id"`
	Name            string                                           `json:"name"`
	State           tournament.State                                 `json:"state"`
	Categories      []tournament.Category                            `json:"categories"`
	Maps            map[tournament.Category]tournament.MapAssignment `json:"maps"`
	Missions        missionsDTO                                      `json:"missions"`
	Bracket         bool                                             `json:"bracket"`
	BracketCategory tournament.Category                              `json:"bracket_category,omitempty"`
	OpenAt          *time.Time                                       `json:"open_at,omitempty"`
	CloseAt         *time.Time                                       `json:"close_at,omitempty"`
	CreatedAt       time.Time                                        `json:"created_at"`
	ClosedAt        *time.Time                                       `json:"closed_at,omitempty"`
}

type objectiveDTO struct {
	Kind   tournament.ObjectiveKind `json:"kind"`
	Target float64                  `json:"target,omitempty"`
	Text   string                   `json:"text"`
}

type generalMissionDTO struct {
	Kind   tournament.GeneralKind `json:"kind"`
	Target int64                  `json:"target"`
	Scope  tournament.Difficulty  `json:"scope,omitempty"`
	Text   string                 `json:"text"`
}

type missionsDTO struct {
	Objectives map[tournament.Difficulty]map[tournament.Category]objectiveDTO `json:"objectives,omitempty"`
	General    *generalMissionDTO                                           `json:"general,omitempty"`
}

type submissionDTO struct {
	TournamentID int64               `json:"tournament_id"`
	Category     tournament.Category `json:"category"`
	UserID       string              `json:"user_id"`
	DisplayName  string              `json:"display_name"`
	Record       float64             `json:"record"`
	RecordText   string              `json:"record_text"`
	EvidenceRef  string              `json:"evidence_ref"`
	SubmittedAt  time.Time           `json:"submitted_at"`
}

type boardRowDTO struct {
	Placement int             `json:"placement"`
	Tier      tournament.Tier `json:"tier"`
	Points    int64           `json:"points"`
	submissionDTO
}

type tierRecordDTO struct {
	UserID     string                                  `json:"user_id"`
	Tiers      map[tournament.Category]tournament.Tier `json:"tiers"`
	Experience int64                                   `json:"experience"`
	Alias      string                                  `json:"alias,omitempty"`
}

type profileDTO struct {
	tierRecordDTO
	Level    int `json:"level"`
	Position int `json:"position"`
}

type archivedRecordDTO struct {
	TournamentID   int64               `json:"tournament_id"`
	TournamentName string              `json:"tournament_name"`
	Category       tournament.Category `json:"category"`
	MapCode        string              `json:"map_code"`
	MapLevel       string              `json:"map_level,omitempty"`
	UserID         string              `json:"user_id"`
	DisplayName    string              `json:"display_name"`
	Record         float64             `json:"record"`
	RecordText     string              `json:"record_text"`
	EvidenceRef    string              `json:"evidence_ref"`
	Verified       bool                `json:"verified"`
	Tier           tournament.Tier     `json:"tier"`
	Points         int64               `json:"points"`
	ArchivedAt     time.Time           `json:"archived_at"`
}

type podiumDTO struct {
	TournamentID   int64               `json:"tournament_id"`
	TournamentName string              `json:"tournament_name"`
	Category       tournament.Category `json:"category"`
	Entries        []archivedRecordDTO `json:"entries"`
}

type announcementDTO struct {
	ID         int64                 `json:"id"`
	Title      string                `json:"title"`
	Body       string                `json:"body"`
	Mentions   []tournament.Category `json:"mentions"`
	ScheduleAt time.Time             `json:"schedule_at"`
	SentAt     *time.Time            `json:"sent_at,omitempty"`
}

func optionalTime(v time.Time) *time.Time {
	if tournament.IsSentinel(v) {
		return nil
	}
	return &v
}

func roundToDTO(v tournament.Tournament) roundDTO {
	return roundDTO{
		ID:              v.ID,
		Name:            v.Name,
		State:           v.State(),
		Categories:      v.Categories(),
		Maps:            v.Maps,
		Missions:        missionsToDTO(v.Missions),
		Bracket:         v.Bracket,
		BracketCategory: v.BracketCategory,
		OpenAt:          optionalTime(v.OpenAt),
		CloseAt:         optionalTime(v.CloseAt),
		CreatedAt:       v.CreatedAt,
		ClosedAt:        v.ClosedAt,
	}
}

func missionsToDTO(v tournament.Missions) missionsDTO {
	out := missionsDTO{}
	if len(v.Objectives) > 0 {
		out.Objectives = make(map[tournament.Difficulty]map[tournament.Category]objectiveDTO, len(v.Objectives))
		for d, byCategory := range v.Objectives {
			items := make(map[tournament.Category]objectiveDTO, len(byCategory))
			for c, o := range byCategory {
				items[c] = objectiveDTO{Kind: o.Kind, Target: o.Target, Text: o.String()}
			}
			out.Objectives[d] = items
		}
	}
	if v.General != nil {
		out.General = &generalMissionDTO{
			Kind:   v.General.Kind,
			Target: v.General.Target,
			Scope:  v.General.Scope,
			Text:   v.General.String(),
		}
	}
	return out
}

func submissionToDTO(v tournament.Submission) submissionDTO {
	return submissionDTO{
		TournamentID: v.TournamentID,
		Category:     v.Category,
		UserID:       v.UserID,
		DisplayName:  v.DisplayName,
		Record:       v.Record,
		RecordText:   tournament.FormatRecord(v.Record),
		EvidenceRef:  v.EvidenceRef,
		SubmittedAt:  v.SubmittedAt,
	}
}

func boardToDTO(rows []usecase.BoardRow) []boardRowDTO {
	out := make([]boardRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, boardRowDTO{
			Placement:     row.Placement,
			Tier:          row.Tier,
			Points:        row.Points,
			submissionDTO: submissionToDTO(row.Submission),
		})
	}
	return out
}

func tierRecordToDTO(v tier.Record) tierRecordDTO {
	tiers := make(map[tournament.Category]tournament.Tier, len(tournament.AllCategories))
	for _, c := range tournament.AllCategories {
		tiers[c] = v.TierOf(c)
	}
	return tierRecordDTO{
		UserID:     v.UserID,
		Tiers:      tiers,
		Experience: v.Experience,
		Alias:      v.Alias,
	}
}

func archivedRecordToDTO(v archive.Record) archivedRecordDTO {
	return archivedRecordDTO{
		TournamentID:   v.TournamentID,
		TournamentName: v.TournamentName,
		Category:       v.Category,
		MapCode:        v.MapCode,
		MapLevel:       v.MapLevel,
		UserID:         v.UserID,
		DisplayName:    v.DisplayName,
		Record:         v.Record,
		RecordText:     tournament.FormatRecord(v.Record),
		EvidenceRef:    v.EvidenceRef,
		Verified:       v.Verified,
		Tier:           v.Tier,
		Points:         v.Points,
		ArchivedAt:     v.ArchivedAt,
	}
}

func archivedRecordsToDTO(items []archive.Record) []archivedRecordDTO {
	out := make([]archivedRecordDTO, 0, len(items))
	for _, item := range items {
		out = append(out, archivedRecordToDTO(item))
	}
	return out
}

func podiumsToDTO(items []archive.Podium) []podiumDTO {
	out := make([]podiumDTO, 0, len(items))
	for _, item := range items {
		out = append(out, podiumDTO{
			TournamentID:   item.TournamentID,
			TournamentName: item.TournamentName,
			Category:       item.Category,
			Entries:        archivedRecordsToDTO(item.Entries),
		})
	}
	return out
}

func announcementToDTO(v announcement.Announcement) announcementDTO {
	mentions := v.Mentions
	if mentions == nil {
		mentions = []tournament.Category{}
	}
	return announcementDTO{
		ID:         v.ID,
		Title:      v.Title,
		Body:       v.Body,
		Mentions:   mentions,
		ScheduleAt: v.ScheduleAt,
		SentAt:     v.SentAt,
	}
}
