package routes

import (
	"net/http"

	"clementus360/intent-tracker/handlers"
)

// RegisterPredictionRoutes registers the intent prediction routes
func RegisterPredictionRoutes(mux *http.ServeMux, api *handlers.API) {
	mux.HandleFunc("POST /api/predict/intent", api.PredictIntentHandler)
	mux.HandleFunc("GET /api/predict/confidence/{id}", api.GetConfidenceHandler)
	mux.HandleFunc("GET /api/session/{id}/predictions", api.GetPredictionsHandler)
}
