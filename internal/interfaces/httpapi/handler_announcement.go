package httpapi

import (
	"net/http"

	"github.com/riskibarqy/speedrun-tournament/internal/usecase"
)

func (h *Handler) ScheduleAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleAnnouncement")
	defer span.End()

	var req scheduleAnnouncementRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.ScheduleAnnouncementInput{
		Title:    req.Title,
		Body:     req.Body,
		Mentions: req.Mentions,
		At:       req.At,
	}
	if req.Now {
		item, err := h.announcementService.AnnounceNow(ctx, input)
		if err != nil {
			h.logger.WarnContext(ctx, "announce now failed", "announcement_id", item.ID, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, announcementToDTO(item))
		return
	}

	item, err := h.announcementService.Schedule(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "schedule announcement failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, announcementToDTO(item))
}
