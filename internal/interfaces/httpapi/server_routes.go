package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerLineupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/formations", handler.ListFormations)
	mux.HandleFunc("GET /v1/editor/context", handler.GetEditorContext)
	mux.HandleFunc("GET /v1/lineups", handler.ListLineups)
}

func registerEditorRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/editor/sessions", handler.OpenSession)
	mux.HandleFunc("GET /v1/editor/sessions/{sessionID}", handler.GetSession)
	mux.HandleFunc("DELETE /v1/editor/sessions/{sessionID}", handler.CloseSession)
	mux.HandleFunc("PUT /v1/editor/sessions/{sessionID}/selection", handler.SelectMatch)
	mux.HandleFunc("PUT /v1/editor/sessions/{sessionID}/slots/{slotID}", handler.AssignSlot)
	mux.HandleFunc("DELETE /v1/editor/sessions/{sessionID}/slots/{slotID}", handler.ClearSlot)
	mux.HandleFunc("PUT /v1/editor/sessions/{sessionID}/bench/{playerID}", handler.AddToBench)
	mux.HandleFunc("DELETE /v1/editor/sessions/{sessionID}/bench/{playerID}", handler.RemoveFromBench)
	mux.HandleFunc("POST /v1/editor/sessions/{sessionID}/reset", handler.ResetSession)
	mux.HandleFunc("POST /v1/editor/sessions/{sessionID}/squad/refresh", handler.RefreshSquad)
	mux.HandleFunc("POST /v1/editor/sessions/{sessionID}/save", handler.SaveSession)
}
