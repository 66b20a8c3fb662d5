// Package store defines the persistence boundary for sessions, events,
// predictions, and consent records. The supabase package provides the
// production backend; MemoryStore backs local development and tests and
// keeps the server usable when no database is configured.
package store

import (
	"errors"
	"time"

	"clementus360/intent-tracker/types"
)

var (
	// ErrSessionNotFound is returned for lookups of unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoPredictions is returned when a session has no stored predictions.
	ErrNoPredictions = errors.New("no predictions for session")
)

type Store interface {
	// CreateSession stores a new session. Creating an id that already
	// exists returns the stored session unchanged, so registration
	// retries are idempotent.
	CreateSession(sess types.Session) (types.Session, error)
	GetSession(sessionID string) (types.Session, error)
	// EndSession closes a session. Closing an already-ended session keeps
	// the original end time.
	EndSession(sessionID string, endTime time.Time) (types.Session, error)
	UpdateConsent(sessionID string, consent map[string]bool) (types.Session, error)

	// InsertEvent stores one event. The inserted flag is false when an
	// event with the same event id already exists; the stored event is
	// returned either way.
	InsertEvent(event types.Event) (types.Event, bool, error)
	// ListEvents returns a session's events newest-first. A non-positive
	// limit means no limit.
	ListEvents(sessionID string, limit int) ([]types.Event, error)
	// LatestEventTime reports when the session last saw an event.
	LatestEventTime(sessionID string) (time.Time, bool, error)

	InsertPrediction(rec types.PredictionRecord) (types.PredictionRecord, error)
	LatestPrediction(sessionID string) (types.PredictionRecord, error)
	ListPredictions(sessionID string, limit int) ([]types.PredictionRecord, error)

	InsertConsentRecords(records []types.ConsentRecord) error
	ListConsentRecords(sessionID string) ([]types.ConsentRecord, error)

	// DeleteSessionData removes the session and everything keyed to it:
	// events, predictions, and consent records. The flag reports whether
	// the session existed.
	DeleteSessionData(sessionID string) (bool, error)

	Stats() (types.Stats, error)
	// ListOpenSessions returns sessions without an end time that started
	// before the cutoff, oldest-first.
	ListOpenSessions(startedBefore time.Time, limit int) ([]types.Session, error)
	// ListSessionIDsOlderThan returns ids of sessions started before the
	// cutoff, for retention sweeps.
	ListSessionIDsOlderThan(cutoff time.Time, limit int) ([]string, error)

	Ping() error
}
