package routes

import (
	"net/http"

	"clementus360/intent-tracker/handlers"
)

// RegisterSessionRoutes registers the session lifecycle routes
func RegisterSessionRoutes(mux *http.ServeMux, api *handlers.API) {
	mux.HandleFunc("POST /api/session/start", api.StartSessionHandler)
	mux.HandleFunc("GET /api/session/{id}", api.GetSessionHandler)
	mux.HandleFunc("POST /api/session/{id}/end", api.EndSessionHandler)
}
