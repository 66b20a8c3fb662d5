package supabase

import (
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"clementus360/intent-tracker/types"
)

// Table names.
const (
	sessionsTable    = "user_sessions"
	eventsTable      = "user_events"
	predictionsTable = "intent_predictions"
	consentTable     = "consent_records"
)

// NewClient builds a Supabase client for the given project credentials.
func NewClient(apiURL, apiKey string) (*supabase.Client, error) {
	if apiURL == "" || apiKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is missing")
	}
	client, err := supabase.NewClient(apiURL, apiKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return client, nil
}

// Store adapts the Supabase tables to the store interface. Each method
// delegates to the package-level query functions.
type Store struct {
	client *supabase.Client
}

func NewStore(client *supabase.Client) *Store {
	return &Store{client: client}
}

func (s *Store) CreateSession(sess types.Session) (types.Session, error) {
	return CreateSession(s.client, sess)
}

func (s *Store) GetSession(sessionID string) (types.Session, error) {
	return GetSession(s.client, sessionID)
}

func (s *Store) EndSession(sessionID string, endTime time.Time) (types.Session, error) {
	return EndSession(s.client, sessionID, endTime)
}

func (s *Store) UpdateConsent(sessionID string, consent map[string]bool) (types.Session, error) {
	return UpdateConsent(s.client, sessionID, consent)
}

func (s *Store) InsertEvent(event types.Event) (types.Event, bool, error) {
	return InsertEvent(s.client, event)
}

func (s *Store) ListEvents(sessionID string, limit int) ([]types.Event, error) {
	return ListEvents(s.client, sessionID, limit)
}

func (s *Store) LatestEventTime(sessionID string) (time.Time, bool, error) {
	return LatestEventTime(s.client, sessionID)
}

func (s *Store) InsertPrediction(rec types.PredictionRecord) (types.PredictionRecord, error) {
	return InsertPrediction(s.client, rec)
}

func (s *Store) LatestPrediction(sessionID string) (types.PredictionRecord, error) {
	return LatestPrediction(s.client, sessionID)
}

func (s *Store) ListPredictions(sessionID string, limit int) ([]types.PredictionRecord, error) {
	return ListPredictions(s.client, sessionID, limit)
}

func (s *Store) InsertConsentRecords(records []types.ConsentRecord) error {
	return InsertConsentRecords(s.client, records)
}

func (s *Store) ListConsentRecords(sessionID string) ([]types.ConsentRecord, error) {
	return ListConsentRecords(s.client, sessionID)
}

func (s *Store) DeleteSessionData(sessionID string) (bool, error) {
	return DeleteSessionData(s.client, sessionID)
}

func (s *Store) Stats() (types.Stats, error) {
	return Stats(s.client)
}

func (s *Store) ListOpenSessions(startedBefore time.Time, limit int) ([]types.Session, error) {
	return ListOpenSessions(s.client, startedBefore, limit)
}

func (s *Store) ListSessionIDsOlderThan(cutoff time.Time, limit int) ([]string, error) {
	return ListSessionIDsOlderThan(s.client, cutoff, limit)
}

func (s *Store) Ping() error {
	return Ping(s.client)
}
