package routes

import (
	"net/http"

	"clementus360/intent-tracker/handlers"
)

// RegisterPrivacyRoutes registers the consent and data subject routes
func RegisterPrivacyRoutes(mux *http.ServeMux, api *handlers.API) {
	mux.HandleFunc("POST /api/privacy/consent", api.UpdateConsentHandler)
	mux.HandleFunc("GET /api/privacy/data/{id}", api.ExportDataHandler)
	mux.HandleFunc("DELETE /api/privacy/data/{id}", api.DeleteDataHandler)
}
