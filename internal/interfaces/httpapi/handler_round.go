package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) StartRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartRound")
	defer span.End()

	var req startRoundRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	round, err := h.roundService.Start(ctx, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "start round failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roundToDTO(round))
}

func (h *Handler) CancelRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelRound")
	defer span.End()

	round, err := h.roundService.Cancel(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel round failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(round))
}

func (h *Handler) GetCurrentRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentRound")
	defer span.End()

	round, ok, err := h.roundService.Current(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get current round failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeSuccess(ctx, w, http.StatusOK, map[string]any{"state": "idle"})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(round))
}

func (h *Handler) UpdateMissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMissions")
	defer span.End()

	difficulty := strings.TrimSpace(r.PathValue("difficulty"))

	var req updateMissionsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	missions, err := h.roundService.SetMissions(ctx, difficulty, req.Objectives, req.General)
	if err != nil {
		h.logger.WarnContext(ctx, "update missions failed", "difficulty", difficulty, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, missionsToDTO(missions))
}

func (h *Handler) ClearMissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearMissions")
	defer span.End()

	difficulty := strings.TrimSpace(r.PathValue("difficulty"))
	missions, err := h.roundService.ClearMissions(ctx, difficulty)
	if err != nil {
		h.logger.WarnContext(ctx, "clear missions failed", "difficulty", difficulty, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, missionsToDTO(missions))
}

// RunTick reconciles the round immediately instead of waiting for the poll loop.
func (h *Handler) RunTick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunTick")
	defer span.End()

	result, err := h.roundController.Tick(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "manual tick failed",
			"tournament_id", result.TournamentID,
			"transition", result.Transition,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
