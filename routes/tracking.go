package routes

import (
	"net/http"

	"clementus360/intent-tracker/handlers"
)

// RegisterTrackingRoutes registers the event ingestion routes
func RegisterTrackingRoutes(mux *http.ServeMux, api *handlers.API) {
	mux.HandleFunc("POST /api/track/event", api.TrackEventHandler)
	mux.HandleFunc("POST /api/track/page-view", api.TrackPageViewHandler)
	mux.HandleFunc("GET /api/session/{id}/events", api.GetEventsHandler)
}
