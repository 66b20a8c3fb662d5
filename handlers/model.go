package handlers

import (
	"net/http"

	"clementus360/intent-tracker/config"
	"clementus360/intent-tracker/intent"
	"clementus360/intent-tracker/types"
)

// ReloadModelHandler rebuilds the scoring engine from the configured
// weight file and swaps it in atomically. The prediction cache is flushed
// so stale confidences never outlive the policy that produced them.
func (a *API) ReloadModelHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := config.LoadModelConfig()
	if err != nil {
		config.Logger.Error("Failed to load model config:", err)
		writeJSON(w, http.StatusInternalServerError, types.ReloadResponse{
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return
	}

	engine, err := intent.NewEngine(cfg)
	if err != nil {
		config.Logger.Error("Failed to build engine from reloaded config:", err)
		writeJSON(w, http.StatusInternalServerError, types.ReloadResponse{
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return
	}

	a.engine.Store(engine)
	if a.cache != nil {
		a.cache.Flush()
	}

	config.Logger.Infof("Model config reloaded: version=%s checksum=%s source=%s",
		engine.Version(), engine.Checksum(), cfg.Source)

	writeJSON(w, http.StatusOK, types.ReloadResponse{
		Success:      true,
		ModelVersion: engine.Version(),
		Checksum:     engine.Checksum(),
		Source:       cfg.Source,
	})
}
