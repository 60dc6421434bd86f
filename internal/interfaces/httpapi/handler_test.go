package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/speedrun-tournament/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
	"github.com/riskibarqy/speedrun-tournament/internal/usecase"
)

const testAdminToken = "organiser-secret"

func newTestRouter(t *testing.T, adminToken string) http.Handler {
	t.Helper()

	store := memory.NewStore()
	logger := logging.NewNop()
	splitter := usecase.NewTierSplitter(store.Tiers())
	gate := usecase.NewLogChannelGate(logger)

	handler := NewHandler(
		usecase.NewRoundService(store.Tournaments(), logger),
		usecase.NewSubmissionService(store.Tournaments(), store.Submissions(), splitter, logger),
		usecase.NewTierService(store.Tiers(), logger),
		usecase.NewHallOfFameService(store.Tournaments(), store.Archive()),
		usecase.NewAnnouncementService(store.Announcements(), gate, usecase.AnnouncementConfig{}, logger),
		usecase.NewRoundController(store.Tournaments(), store.Submissions(), splitter, gate, logger),
		logger,
	)
	return NewRouter(handler, logger, []string{"*"}, adminToken)
}

func serve(router http.Handler, method, path, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set(adminTokenHeader, testAdminToken)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func errorReason(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	body := decodeEnvelope(t, rec)
	errorObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error object, body: %s", rec.Body.String())
	items, _ := errorObj["errors"].([]any)
	require.NotEmpty(t, items)
	item, _ := items[0].(map[string]any)
	reason, _ := item["reason"].(string)
	return reason
}

func startRoundBody(closeAt time.Time) string {
	return fmt.Sprintf(`{
		"name": "Round 12",
		"maps": {
			"ta": {"code": "TA12", "level": "Ruins", "author": "nova"},
			"mc": {"code": "MC12"},
			"hc": {"code": "HC12"},
			"bo": {"code": "BO12"}
		},
		"missions": {
			"objectives": {"hard": {"ta": "sub - 14"}},
			"general": "xp - 4000"
		},
		"close_at": %q
	}`, closeAt.UTC().Format(time.RFC3339))
}

func TestRouter_AdminRoutesRequireToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, testAdminToken)

	rec := serve(router, http.MethodPost, "/v1/admin/rounds/tick", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status without token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/rounds/tick", nil)
	req.Header.Set(adminTokenHeader, "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status with wrong token: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}

	rec = serve(router, http.MethodPost, "/v1/admin/rounds/tick", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status with token: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestRouter_AdminRoutesUnavailableWithoutConfiguredToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, "")
	rec := serve(router, http.MethodPost, "/v1/admin/rounds/tick", "", true)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestRouter_RoundFlow(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, testAdminToken)
	closeAt := time.Now().Add(time.Hour)

	rec := serve(router, http.MethodPost, "/v1/admin/rounds", startRoundBody(closeAt), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	round := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.Equal(t, "scheduled", round["state"])
	missions := round["missions"].(map[string]any)
	general := missions["general"].(map[string]any)
	require.Equal(t, "xp_total", general["kind"])

	rec = serve(router, http.MethodPost, "/v1/admin/rounds", startRoundBody(closeAt), true)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "roundConflict", errorReason(t, rec))

	submit := `{"user_id":"u1","display_name":"Ana","record":"0:00:13.90","evidence_ref":"https://clips/1"}`
	rec = serve(router, http.MethodPut, "/v1/rounds/current/submissions/ta", submit, false)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "roundNotOpen", errorReason(t, rec))

	rec = serve(router, http.MethodPost, "/v1/admin/rounds/tick", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tick := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.Equal(t, "opened", tick["transition"])

	rec = serve(router, http.MethodPut, "/v1/rounds/current/submissions/ta", submit, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	item := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.InDelta(t, 13.9, item["record"], 1e-9)
	require.Equal(t, "0:00:13.90", item["record_text"])

	rec = serve(router, http.MethodPut, "/v1/rounds/current/submissions/ta",
		`{"user_id":"u2","record":15.5,"evidence_ref":"https://clips/2"}`, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(router, http.MethodGet, "/v1/rounds/current/submissions/ta", "", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rows := decodeEnvelope(t, rec)["data"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	require.Equal(t, "u1", first["user_id"])
	require.Equal(t, "unranked", first["tier"])
	require.EqualValues(t, 1, first["placement"])
	require.EqualValues(t, 2500, first["points"])

	rec = serve(router, http.MethodGet, "/v1/rounds/current/submissions/ta?tier=gold", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeEnvelope(t, rec)["data"])

	rec = serve(router, http.MethodDelete, "/v1/rounds/current/submissions/ta/u2", "", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(router, http.MethodDelete, "/v1/admin/rounds/current", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(router, http.MethodGet, "/v1/rounds/current", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	current := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.Equal(t, "idle", current["state"])
}

func TestRouter_RejectsInvalidPayloads(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, testAdminToken)
	rec := serve(router, http.MethodPost, "/v1/admin/rounds", startRoundBody(time.Now().Add(time.Hour)), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		admin  bool
	}{
		{
			name:   "record is not a time",
			method: http.MethodPut,
			path:   "/v1/rounds/current/submissions/ta",
			body:   `{"user_id":"u1","record":"fast","evidence_ref":"x"}`,
		},
		{
			name:   "unknown field",
			method: http.MethodPut,
			path:   "/v1/rounds/current/submissions/ta",
			body:   `{"user_id":"u1","record":12,"evidence_ref":"x","video":"y"}`,
		},
		{
			name:   "missing record",
			method: http.MethodPut,
			path:   "/v1/rounds/current/submissions/ta",
			body:   `{"user_id":"u1","evidence_ref":"x"}`,
		},
		{
			name:   "mission target is not numeric",
			method: http.MethodPut,
			path:   "/v1/admin/rounds/current/missions/hard",
			body:   `{"objectives":{"ta":"sub - soon"}}`,
			admin:  true,
		},
		{
			name:   "alias longer than 32 characters",
			method: http.MethodPut,
			path:   "/v1/tiers/u1/alias",
			body:   fmt.Sprintf(`{"alias":%q}`, strings.Repeat("é", 33)),
		},
		{
			name:   "unknown tier",
			method: http.MethodPut,
			path:   "/v1/admin/tiers/u1/ta",
			body:   `{"tier":"platinum"}`,
			admin:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, tt.body, tt.admin)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}
		})
	}
}

func TestRouter_TierProfileAndOverride(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, testAdminToken)

	rec := serve(router, http.MethodPut, "/v1/admin/tiers/u7/hc", `{"tier":"diamond"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(router, http.MethodPut, "/v1/tiers/u7/alias", `{"alias":"Seven"}`, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(router, http.MethodGet, "/v1/tiers/u7", "", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.Equal(t, "Seven", profile["alias"])
	require.EqualValues(t, 0, profile["experience"])
	tiers := profile["tiers"].(map[string]any)
	require.Equal(t, "diamond", tiers["hc"])
	require.Equal(t, "unranked", tiers["ta"])
}

func TestRouter_AnnouncementsAndHallOfFame(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, testAdminToken)

	rec := serve(router, http.MethodPost, "/v1/admin/announcements",
		`{"title":"Round 12","body":"Maps are live","mentions":["ta","hc"],"now":true}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sent := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.NotNil(t, sent["sent_at"])

	at := time.Now().Add(2 * time.Hour).UTC().Format(time.RFC3339)
	rec = serve(router, http.MethodPost, "/v1/admin/announcements",
		fmt.Sprintf(`{"body":"Reminder","at":%q}`, at), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	scheduled := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.Nil(t, scheduled["sent_at"])

	rec = serve(router, http.MethodPost, "/v1/admin/announcements", `{"title":"  "}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodGet, "/v1/hall-of-fame?limit=3", "", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Empty(t, decodeEnvelope(t, rec)["data"])

	rec = serve(router, http.MethodGet, "/v1/hall-of-fame?limit=zero", "", false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SetAlias_AcceptsLimitInRunes(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, testAdminToken)
	alias := strings.Repeat("é", 32)

	rec := serve(router, http.MethodPut, "/v1/tiers/u9/alias", fmt.Sprintf(`{"alias":%q}`, alias), false)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}
	record := decodeEnvelope(t, rec)["data"].(map[string]any)
	if record["alias"] != alias {
		t.Fatalf("unexpected alias: got=%v want=%s", record["alias"], alias)
	}
}
