package handlers

import (
	"net/http"
	"time"

	"clementus360/intent-tracker/config"
	"clementus360/intent-tracker/types"
)

// HealthHandler reports liveness. A failing store ping degrades the
// status to 503 so load balancers can rotate the instance out.
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := a.Store.Ping(); err != nil {
		config.Logger.Warn("Store ping failed:", err)
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, types.HealthResponse{
		Status:    status,
		Store:     a.cfg.StoreBackend,
		Model:     a.Engine().Version(),
		Timestamp: time.Now().UTC(),
	})
}
