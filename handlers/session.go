package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"clementus360/intent-tracker/config"
	"clementus360/intent-tracker/middleware"
	"clementus360/intent-tracker/session"
	"clementus360/intent-tracker/store"
	"clementus360/intent-tracker/types"
)

// StartSessionHandler registers a new tracking session. Clients may bring
// their own session id; re-registering a known id returns the stored
// session unchanged so retries are safe.
func (a *API) StartSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req types.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	sessionID := req.SessionID
	if sessionID != "" {
		if !session.ValidSessionID(sessionID) {
			writeError(w, "Invalid session_id format", http.StatusBadRequest)
			return
		}
		// Re-registration of a known id is idempotent
		if existing, err := a.Store.GetSession(sessionID); err == nil {
			writeJSON(w, http.StatusOK, types.SessionResponse{
				Success: true,
				Session: existing,
			})
			return
		}
	} else {
		sessionID = session.NewSessionID()
	}

	deviceInfo := req.DeviceInfo
	if deviceInfo.DeviceType == "" {
		deviceInfo.DeviceType = session.ClassifyDevice(deviceInfo.ScreenWidth)
	}

	consent := types.DefaultConsent()
	for category, granted := range req.ConsentStatus {
		if category == types.ConsentNecessary && !granted {
			continue
		}
		consent[category] = granted
	}

	sess := types.Session{
		SessionID:     sessionID,
		UserID:        req.UserID,
		StartTime:     time.Now().UTC(),
		DeviceInfo:    deviceInfo,
		Referrer:      req.Referrer,
		ConsentStatus: consent,
		IPAddress:     middleware.ClientIP(r),
		UserAgent:     r.UserAgent(),
	}

	created, err := a.Store.CreateSession(sess)
	if err != nil {
		config.Logger.Error("Failed to create session:", err)
		writeError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, types.SessionResponse{
		Success: true,
		Session: created,
	})
}

func (a *API) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, types.SessionResponse{
		Success: true,
		Session: sess,
	})
}

// EndSessionHandler closes a session. Ending an already-closed session
// keeps the original end time.
func (a *API) EndSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	sess, err := a.Store.EndSession(sessionID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, "Session not found", http.StatusNotFound)
			return
		}
		config.Logger.Error("Failed to end session:", err)
		writeError(w, "Failed to end session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, types.SessionResponse{
		Success: true,
		Session: sess,
	})
}
