package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/speedrun-tournament/internal/domain/announcement"
	"github.com/riskibarqy/speedrun-tournament/internal/domain/tournament"
	"github.com/riskibarqy/speedrun-tournament/internal/infrastructure/repository/memory"
)

type gateMock struct {
	mock.Mock
}

func newGateMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *gateMock {
	m := &gateMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *gateMock) Unlock(ctx context.Context, categories []tournament.Category) error {
	return m.Called(ctx, categories).Error(0)
}

func (m *gateMock) Lock(ctx context.Context, categories []tournament.Category) error {
	return m.Called(ctx, categories).Error(0)
}

func (m *gateMock) AnnounceRoundOpen(ctx context.Context, summary RoundOpenSummary) error {
	return m.Called(ctx, summary).Error(0)
}

func (m *gateMock) AnnounceRoundClose(ctx context.Context, summary RoundCloseSummary) error {
	return m.Called(ctx, summary).Error(0)
}

func (m *gateMock) Announce(ctx context.Context, item announcement.Announcement) error {
	return m.Called(ctx, item).Error(0)
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func allMaps() map[tournament.Category]tournament.MapAssignment {
	return map[tournament.Category]tournament.MapAssignment{
		tournament.CategoryTimeAttack: {Code: "TA001", Level: "Level 1"},
		tournament.CategoryMildcore:   {Code: "MC001", Level: "Level 2"},
		tournament.CategoryHardcore:   {Code: "HC001", Level: "Level 3"},
		tournament.CategoryBonus:      {Code: "BO001", Level: "Level 4"},
	}
}

func seedRound(t interface{ Fatalf(string, ...any) }, store *memory.Store, item tournament.Tournament) tournament.Tournament {
	if item.Name == "" {
		item.Name = "Round 1"
	}
	if item.Maps == nil {
		item.Maps = allMaps()
	}
	created, err := store.Tournaments().Create(context.Background(), item)
	if err != nil {
		t.Fatalf("create tournament: %v", err)
	}
	return created
}

func seedSubmission(t interface{ Fatalf(string, ...any) }, store *memory.Store, item tournament.Submission) {
	if item.EvidenceRef == "" {
		item.EvidenceRef = "https://clips.example/" + item.UserID
	}
	if item.DisplayName == "" {
		item.DisplayName = item.UserID
	}
	if err := store.Submissions().Upsert(context.Background(), item); err != nil {
		t.Fatalf("upsert submission: %v", err)
	}
}
