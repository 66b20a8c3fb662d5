package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"clementus360/intent-tracker/config"
	"clementus360/intent-tracker/store"
	"clementus360/intent-tracker/types"
)

// UpdateConsentHandler changes a session's consent flags and appends one
// audit record per changed category. The necessary category cannot be
// revoked.
func (a *API) UpdateConsentHandler(w http.ResponseWriter, r *http.Request) {
	var req types.ConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		writeError(w, "session_id is required", http.StatusBadRequest)
		return
	}
	if len(req.Consent) == 0 {
		writeError(w, "consent is required", http.StatusBadRequest)
		return
	}

	sess, err := a.Store.GetSession(req.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, "Session not found", http.StatusNotFound)
			return
		}
		config.Logger.Error("Failed to fetch session:", err)
		writeError(w, "Failed to fetch session", http.StatusInternalServerError)
		return
	}

	merged := make(map[string]bool, len(sess.ConsentStatus)+len(req.Consent))
	for category, granted := range sess.ConsentStatus {
		merged[category] = granted
	}
	for category, granted := range req.Consent {
		if category == types.ConsentNecessary {
			granted = true
		}
		merged[category] = granted
	}
	merged[types.ConsentNecessary] = true

	updated, err := a.Store.UpdateConsent(req.SessionID, merged)
	if err != nil {
		config.Logger.Error("Failed to update consent:", err)
		writeError(w, "Failed to update consent", http.StatusInternalServerError)
		return
	}

	// Audit records in sorted category order for a stable trail
	categories := make([]string, 0, len(req.Consent))
	for category := range req.Consent {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	now := time.Now().UTC()
	records := make([]types.ConsentRecord, 0, len(categories))
	for _, category := range categories {
		records = append(records, types.ConsentRecord{
			SessionID:   req.SessionID,
			ConsentType: category,
			Granted:     merged[category],
			Timestamp:   now,
		})
	}
	if err := a.Store.InsertConsentRecords(records); err != nil {
		config.Logger.Warn("Failed to append consent records:", err)
	}

	writeJSON(w, http.StatusOK, types.ConsentResponse{
		Success: true,
		Consent: updated.ConsentStatus,
	})
}

// ExportDataHandler returns everything stored for a session, for data
// portability requests.
func (a *API) ExportDataHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	sess, err := a.Store.GetSession(sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, "Session not found", http.StatusNotFound)
			return
		}
		config.Logger.Error("Failed to fetch session:", err)
		writeError(w, "Failed to fetch session", http.StatusInternalServerError)
		return
	}

	events, err := a.Store.ListEvents(sessionID, 0)
	if err != nil {
		config.Logger.Error("Failed to fetch events for export:", err)
		writeError(w, "Failed to export data", http.StatusInternalServerError)
		return
	}
	predictions, err := a.Store.ListPredictions(sessionID, 0)
	if err != nil {
		config.Logger.Error("Failed to fetch predictions for export:", err)
		writeError(w, "Failed to export data", http.StatusInternalServerError)
		return
	}
	consents, err := a.Store.ListConsentRecords(sessionID)
	if err != nil {
		config.Logger.Error("Failed to fetch consent records for export:", err)
		writeError(w, "Failed to export data", http.StatusInternalServerError)
		return
	}

	if events == nil {
		events = []types.Event{}
	}
	if predictions == nil {
		predictions = []types.PredictionRecord{}
	}
	if consents == nil {
		consents = []types.ConsentRecord{}
	}

	writeJSON(w, http.StatusOK, types.DataExportResponse{
		Success: true,
		Data: &types.DataExport{
			Session:     &sess,
			Events:      events,
			Predictions: predictions,
			Consent:     consents,
			ExportedAt:  time.Now().UTC(),
		},
	})
}

// DeleteDataHandler erases a session and everything keyed to it.
func (a *API) DeleteDataHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	existed, err := a.Store.DeleteSessionData(sessionID)
	if err != nil {
		config.Logger.Error("Failed to delete session data:", err)
		writeError(w, "Failed to delete session data", http.StatusInternalServerError)
		return
	}
	if !existed {
		writeError(w, "Session not found", http.StatusNotFound)
		return
	}

	config.Logger.Info("Deleted all data for session ", sessionID)
	writeJSON(w, http.StatusOK, types.DeleteDataResponse{
		Success: true,
		Deleted: true,
	})
}
