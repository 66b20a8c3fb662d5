package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"clementus360/intent-tracker/config"
	"clementus360/intent-tracker/metrics"
	"clementus360/intent-tracker/session"
	"clementus360/intent-tracker/store"
	"clementus360/intent-tracker/types"
)

var validEventTypes = map[string]bool{
	types.EventClick:      true,
	types.EventScroll:     true,
	types.EventPageView:   true,
	types.EventFormSubmit: true,
	types.EventHover:      true,
	types.EventFocus:      true,
	types.EventBlur:       true,
}

// TrackEventHandler ingests one behavioral event. Sessions without
// analytics consent get a successful response with accepted=false and
// nothing is stored.
func (a *API) TrackEventHandler(w http.ResponseWriter, r *http.Request) {
	var req types.TrackEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		writeError(w, "session_id is required", http.StatusBadRequest)
		return
	}
	if !validEventTypes[req.EventType] {
		writeError(w, "Unknown event_type", http.StatusBadRequest)
		return
	}

	a.ingestEvent(w, types.Event{
		EventID:      req.EventID,
		SessionID:    req.SessionID,
		EventType:    req.EventType,
		EventData:    req.EventData,
		PageURL:      req.PageURL,
		ElementID:    req.ElementID,
		ElementClass: req.ElementClass,
		XCoordinate:  req.XCoordinate,
		YCoordinate:  req.YCoordinate,
	})
}

// TrackPageViewHandler is a convenience wrapper that records a page_view
// event from a flat payload.
func (a *API) TrackPageViewHandler(w http.ResponseWriter, r *http.Request) {
	var req types.TrackPageViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		writeError(w, "session_id is required", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		writeError(w, "url is required", http.StatusBadRequest)
		return
	}

	eventData := map[string]any{}
	if req.Title != "" {
		eventData["title"] = req.Title
	}
	if req.Referrer != "" {
		eventData["referrer"] = req.Referrer
	}

	a.ingestEvent(w, types.Event{
		EventID:   req.EventID,
		SessionID: req.SessionID,
		EventType: types.EventPageView,
		EventData: eventData,
		PageURL:   req.URL,
	})
}

// ingestEvent applies the consent gate, stamps server-side fields, and
// stores the event. Replays of the same event id return the stored event
// without counting it twice.
func (a *API) ingestEvent(w http.ResponseWriter, event types.Event) {
	sess, err := a.Store.GetSession(event.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, "Session not found", http.StatusNotFound)
			return
		}
		config.Logger.Error("Failed to fetch session:", err)
		writeError(w, "Failed to fetch session", http.StatusInternalServerError)
		return
	}

	if !sess.ConsentStatus[types.ConsentAnalytics] {
		writeJSON(w, http.StatusOK, types.TrackEventResponse{
			Success:  true,
			Accepted: false,
		})
		return
	}

	if event.EventID == "" {
		event.EventID = session.NewEventID()
	}
	event.Timestamp = time.Now().UTC()

	stored, inserted, err := a.Store.InsertEvent(event)
	if err != nil {
		config.Logger.Error("Failed to store event:", err)
		writeError(w, "Failed to store event", http.StatusInternalServerError)
		return
	}
	if inserted {
		metrics.RecordEvent(stored.EventType)
	}

	writeJSON(w, http.StatusOK, types.TrackEventResponse{
		Success:  true,
		Accepted: true,
		Event:    &stored,
	})
}

func (a *API) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	if _, err := a.Store.GetSession(sessionID); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, "Session not found", http.StatusNotFound)
			return
		}
		config.Logger.Error("Failed to fetch session:", err)
		writeError(w, "Failed to fetch session", http.StatusInternalServerError)
		return
	}

	events, err := a.Store.ListEvents(sessionID, queryLimit(r))
	if err != nil {
		config.Logger.Error("Failed to fetch events:", err)
		writeError(w, "Failed to fetch events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []types.Event{}
	}

	writeJSON(w, http.StatusOK, types.GetEventsResponse{
		Success: true,
		Events:  events,
		Total:   len(events),
	})
}
