package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"clementus360/intent-tracker/config"
	"clementus360/intent-tracker/intent"
	"clementus360/intent-tracker/metrics"
	"clementus360/intent-tracker/session"
	"clementus360/intent-tracker/store"
	"clementus360/intent-tracker/types"
)

// PredictIntentHandler scores a session's behavior. The caller may send a
// snapshot directly; without one the snapshot is derived from the stored
// event history. Results are cached per session and snapshot until the
// TTL expires or the model is reloaded.
func (a *API) PredictIntentHandler(w http.ResponseWriter, r *http.Request) {
	var req types.PredictRequest
	// Scoring input is strict: a misspelled snapshot field must fail loudly
	// instead of silently scoring a zero.
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		writeError(w, "session_id is required", http.StatusBadRequest)
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

	var snap types.Snapshot
	if req.Snapshot != nil {
		snap = *req.Snapshot
	} else {
		events, err := a.Store.ListEvents(req.SessionID, 0)
		if err != nil {
			config.Logger.Error("Failed to fetch events for snapshot:", err)
			writeError(w, "Failed to fetch events", http.StatusInternalServerError)
			return
		}
		snap = session.SnapshotFromEvents(sess, events, time.Now().UTC())
	}

	engine := a.Engine()
	key := predictionCacheKey(req.SessionID, snap, engine.Checksum())
	if a.cache != nil {
		if cached, ok := a.cache.Get(key); ok {
			metrics.RecordCacheHit()
			a.served.Add(1)
			writeJSON(w, http.StatusOK, types.PredictResponse{
				Success:    true,
				Prediction: cached.(types.Prediction),
				Cached:     true,
			})
			return
		}
		metrics.RecordCacheMiss()
	}

	start := time.Now()
	prediction, err := engine.Score(snap)
	if err != nil {
		var invalid *intent.InvalidInputError
		if errors.As(err, &invalid) {
			writeError(w, invalid.Error(), http.StatusBadRequest)
			return
		}
		config.Logger.Error("Failed to score snapshot:", err)
		writeError(w, "Failed to score snapshot", http.StatusInternalServerError)
		return
	}

	prediction.PredictionID = session.NewPredictionID()
	prediction.SessionID = req.SessionID

	record := types.PredictionRecord{
		PredictionID:     prediction.PredictionID,
		SessionID:        prediction.SessionID,
		PredictedIntent:  prediction.PrimaryIntent,
		ConfidenceScore:  prediction.Confidence,
		ModelVersion:     prediction.ModelVersion,
		Timestamp:        time.Now().UTC(),
		SecondaryIntents: prediction.SecondaryIntents,
	}
	if _, err := a.Store.InsertPrediction(record); err != nil {
		// The prediction is still served; only the history entry is lost.
		config.Logger.Warn("Failed to persist prediction:", err)
	}

	metrics.RecordPrediction(prediction.PrimaryIntent, time.Since(start))
	a.served.Add(1)

	if a.cache != nil {
		a.cache.SetDefault(key, prediction)
	}

	writeJSON(w, http.StatusOK, types.PredictResponse{
		Success:    true,
		Prediction: prediction,
	})
}

// GetConfidenceHandler returns a summary of the latest stored prediction.
func (a *API) GetConfidenceHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	latest, err := a.Store.LatestPrediction(sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			writeError(w, "Session not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, store.ErrNoPredictions) {
			writeError(w, "No predictions for session", http.StatusNotFound)
			return
		}
		config.Logger.Error("Failed to fetch prediction:", err)
		writeError(w, "Failed to fetch prediction", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, types.ConfidenceResponse{
		Success:      true,
		Intent:       latest.PredictedIntent,
		Confidence:   latest.ConfidenceScore,
		Timestamp:    latest.Timestamp,
		ModelVersion: latest.ModelVersion,
	})
}

func (a *API) GetPredictionsHandler(w http.ResponseWriter, r *http.Request) {
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

	predictions, err := a.Store.ListPredictions(sessionID, queryLimit(r))
	if err != nil {
		config.Logger.Error("Failed to fetch predictions:", err)
		writeError(w, "Failed to fetch predictions", http.StatusInternalServerError)
		return
	}
	if predictions == nil {
		predictions = []types.PredictionRecord{}
	}

	writeJSON(w, http.StatusOK, types.GetPredictionsResponse{
		Success:     true,
		Predictions: predictions,
	})
}

// predictionCacheKey keys cached predictions by session, snapshot, and
// policy fingerprint, so a model reload naturally misses old entries.
func predictionCacheKey(sessionID string, snap types.Snapshot, checksum string) string {
	return fmt.Sprintf("%s|%d|%d|%d|%d|%s|%s|%s",
		sessionID,
		snap.TimeOnPageSeconds,
		snap.ClickCount,
		snap.ScrollDepthPercent,
		snap.PageViews,
		snap.DeviceType,
		snap.Referrer,
		checksum,
	)
}
