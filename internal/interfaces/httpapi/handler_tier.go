package httpapi

import (
	"net/http"
	"strings"
)

const defaultLeaderboardLimit = 10

func (h *Handler) OverrideTier(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OverrideTier")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	category := strings.TrimSpace(r.PathValue("category"))

	var req overrideTierRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.tierService.SetTier(ctx, userID, category, req.Tier)
	if err != nil {
		h.logger.WarnContext(ctx, "override tier failed", "user_id", userID, "category", category, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tierRecordToDTO(record))
}

func (h *Handler) SetAlias(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetAlias")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))

	var req setAliasRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.tierService.SetAlias(ctx, userID, req.Alias)
	if err != nil {
		h.logger.WarnContext(ctx, "set alias failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tierRecordToDTO(record))
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetProfile")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	profile, err := h.tierService.Profile(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get profile failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileDTO{
		tierRecordDTO: tierRecordToDTO(profile.Record),
		Level:         profile.Level,
		Position:      profile.Position,
	})
}

func (h *Handler) GetExperienceLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetExperienceLeaderboard")
	defer span.End()

	limit, err := queryLimit(r, defaultLeaderboardLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	records, err := h.tierService.Leaderboard(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "get experience leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]tierRecordDTO, 0, len(records))
	for _, record := range records {
		out = append(out, tierRecordToDTO(record))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
