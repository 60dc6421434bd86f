package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/speedrun-tournament/internal/usecase"
)

func (h *Handler) SubmitRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitRecord")
	defer span.End()

	category := strings.TrimSpace(r.PathValue("category"))

	var req submitRecordRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.submissionService.Submit(ctx, usecase.SubmitRecordInput{
		Category:    category,
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Record:      float64(*req.Record),
		EvidenceRef: req.EvidenceRef,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit record failed", "category", category, "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(item))
}

func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSubmission")
	defer span.End()

	category := strings.TrimSpace(r.PathValue("category"))
	userID := strings.TrimSpace(r.PathValue("userID"))
	if err := h.submissionService.Delete(ctx, category, userID); err != nil {
		h.logger.WarnContext(ctx, "delete submission failed", "category", category, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"category": category, "user_id": userID})
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoard")
	defer span.End()

	category := strings.TrimSpace(r.PathValue("category"))
	tierFilter := strings.TrimSpace(r.URL.Query().Get("tier"))
	rows, err := h.submissionService.Board(ctx, category, tierFilter)
	if err != nil {
		h.logger.WarnContext(ctx, "get board failed", "category", category, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boardToDTO(rows))
}

func (h *Handler) ClearCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearCategory")
	defer span.End()

	category := strings.TrimSpace(r.PathValue("category"))
	removed, err := h.submissionService.ClearCategory(ctx, category)
	if err != nil {
		h.logger.WarnContext(ctx, "clear category failed", "category", category, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"category": category, "removed": removed})
}
