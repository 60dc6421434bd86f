package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rounds/current", handler.GetCurrentRound)
	mux.HandleFunc("GET /v1/rounds/current/submissions/{category}", handler.GetBoard)
	mux.HandleFunc("PUT /v1/rounds/current/submissions/{category}", handler.SubmitRecord)
	mux.HandleFunc("DELETE /v1/rounds/current/submissions/{category}/{userID}", handler.DeleteSubmission)

	mux.HandleFunc("GET /v1/tiers", handler.GetExperienceLeaderboard)
	mux.HandleFunc("GET /v1/tiers/{userID}", handler.GetProfile)
	mux.HandleFunc("PUT /v1/tiers/{userID}/alias", handler.SetAlias)
	mux.HandleFunc("GET /v1/tiers/{userID}/history", handler.GetRecordHistory)

	mux.HandleFunc("GET /v1/hall-of-fame", handler.GetHallOfFame)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	admin := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, RequireAdminToken(adminToken, fn))
	}

	admin("POST /v1/admin/rounds", handler.StartRound)
	admin("DELETE /v1/admin/rounds/current", handler.CancelRound)
	admin("POST /v1/admin/rounds/tick", handler.RunTick)
	admin("PUT /v1/admin/rounds/current/missions/{difficulty}", handler.UpdateMissions)
	admin("DELETE /v1/admin/rounds/current/missions/{difficulty}", handler.ClearMissions)
	admin("DELETE /v1/admin/rounds/current/submissions/{category}", handler.ClearCategory)

	admin("PUT /v1/admin/tiers/{userID}/{category}", handler.OverrideTier)

	admin("POST /v1/admin/announcements", handler.ScheduleAnnouncement)
}
