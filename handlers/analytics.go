package handlers

import (
	"net/http"
	"time"

	"clementus360/intent-tracker/config"
	"clementus360/intent-tracker/types"
)

func (a *API) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Store.Stats()
	if err != nil {
		config.Logger.Error("Failed to compute stats:", err)
		writeError(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, types.StatsResponse{
		Success: true,
		Stats:   &stats,
	})
}

func (a *API) PerformanceHandler(w http.ResponseWriter, r *http.Request) {
	engine := a.Engine()

	cacheEntries := 0
	if a.cache != nil {
		cacheEntries = a.cache.ItemCount()
	}

	writeJSON(w, http.StatusOK, types.PerformanceResponse{
		Success: true,
		Performance: &types.Performance{
			UptimeSeconds:     time.Since(a.started).Seconds(),
			ModelVersion:      engine.Version(),
			ModelChecksum:     engine.Checksum(),
			ConfigSource:      engine.Config().Source,
			CacheEntries:      cacheEntries,
			CacheTTLSeconds:   a.cfg.PredictionCacheTTL.Seconds(),
			RateLimitPerMin:   a.cfg.RateLimitPerMinute,
			PredictionsServed: a.served.Load(),
		},
	})
}
