package routes

import (
	"net/http"

	"clementus360/intent-tracker/handlers"
	"clementus360/intent-tracker/metrics"
)

// RegisterAllRoutes registers all application routes
func RegisterAllRoutes(mux *http.ServeMux, api *handlers.API, adminSecret string) {
	RegisterSessionRoutes(mux, api)
	RegisterTrackingRoutes(mux, api)
	RegisterPredictionRoutes(mux, api)
	RegisterPrivacyRoutes(mux, api)
	RegisterAdminRoutes(mux, api, adminSecret)

	mux.HandleFunc("GET /api/health", api.HealthHandler)
	mux.Handle("GET /metrics", metrics.Handler())
}
