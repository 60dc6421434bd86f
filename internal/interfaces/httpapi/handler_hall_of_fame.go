package httpapi

import (
	"net/http"
	"strings"
)

const (
	defaultHallOfFameRounds = 5
	defaultHistoryLimit     = 20
)

func (h *Handler) GetHallOfFame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHallOfFame")
	defer span.End()

	limit, err := queryLimit(r, defaultHallOfFameRounds)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	podiums, err := h.hallOfFameService.Podiums(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "get hall of fame failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, podiumsToDTO(podiums))
}

func (h *Handler) GetRecordHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRecordHistory")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	limit, err := queryLimit(r, defaultHistoryLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	records, err := h.hallOfFameService.History(ctx, userID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "get record history failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, archivedRecordsToDTO(records))
}
