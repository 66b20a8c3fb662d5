package routes

import (
	"net/http"

	"clementus360/intent-tracker/handlers"
	"clementus360/intent-tracker/middleware"
)

// RegisterAdminRoutes registers the operator endpoints behind admin auth
func RegisterAdminRoutes(mux *http.ServeMux, api *handlers.API, adminSecret string) {
	protect := middleware.AdminAuth(adminSecret)

	mux.Handle("GET /api/analytics/stats", protect(http.HandlerFunc(api.StatsHandler)))
	mux.Handle("GET /api/analytics/performance", protect(http.HandlerFunc(api.PerformanceHandler)))
	mux.Handle("POST /api/model/reload", protect(http.HandlerFunc(api.ReloadModelHandler)))
}
