package supabase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"clementus360/intent-tracker/store"
	"clementus360/intent-tracker/types"
)

// CreateSession inserts a session row. When the session id already exists
// the stored row is returned unchanged, so registration retries are
// idempotent.
func CreateSession(client *supabase.Client, sess types.Session) (types.Session, error) {
	existing, err := GetSession(client, sess.SessionID)
	if err == nil {
		return existing, nil
	}
	if err != store.ErrSessionNotFound {
		return types.Session{}, err
	}

	created := []types.Session{sess}
	resp, _, err := client.From(sessionsTable).Insert(created, false, "", "", "").Execute()
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to insert session: %w", err)
	}
	if err := json.Unmarshal(resp, &created); err != nil {
		return types.Session{}, fmt.Errorf("failed to decode inserted session: %w", err)
	}
	if len(created) == 0 {
		return types.Session{}, fmt.Errorf("session insert returned no rows")
	}
	return created[0], nil
}

func GetSession(client *supabase.Client, sessionID string) (types.Session, error) {
	resp, _, err := client.From(sessionsTable).
		Select("*", "", false).
		Eq("session_id", sessionID).
		Limit(1, "").
		Execute()
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to fetch session: %w", err)
	}

	var sessions []types.Session
	if err := json.Unmarshal(resp, &sessions); err != nil {
		return types.Session{}, fmt.Errorf("failed to decode session data: %w", err)
	}
	if len(sessions) == 0 {
		return types.Session{}, store.ErrSessionNotFound
	}
	return sessions[0], nil
}

// EndSession closes a session. An already-ended session keeps its original
// end time.
func EndSession(client *supabase.Client, sessionID string, endTime time.Time) (types.Session, error) {
	sess, err := GetSession(client, sessionID)
	if err != nil {
		return types.Session{}, err
	}
	if sess.EndTime != nil {
		return sess, nil
	}

	resp, _, err := client.From(sessionsTable).
		Update(map[string]interface{}{"end_time": endTime.Format(time.RFC3339)}, "", "").
		Eq("session_id", sessionID).
		Execute()
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to end session: %w", err)
	}

	var updated []types.Session
	if err := json.Unmarshal(resp, &updated); err != nil {
		return types.Session{}, fmt.Errorf("failed to decode updated session: %w", err)
	}
	if len(updated) == 0 {
		return types.Session{}, store.ErrSessionNotFound
	}
	return updated[0], nil
}

func UpdateConsent(client *supabase.Client, sessionID string, consent map[string]bool) (types.Session, error) {
	resp, _, err := client.From(sessionsTable).
		Update(map[string]interface{}{"consent_status": consent}, "", "").
		Eq("session_id", sessionID).
		Execute()
	if err != nil {
		return types.Session{}, fmt.Errorf("failed to update consent: %w", err)
	}

	var updated []types.Session
	if err := json.Unmarshal(resp, &updated); err != nil {
		return types.Session{}, fmt.Errorf("failed to decode updated session: %w", err)
	}
	if len(updated) == 0 {
		return types.Session{}, store.ErrSessionNotFound
	}
	return updated[0], nil
}

// DeleteSessionData removes a session and everything keyed to it.
func DeleteSessionData(client *supabase.Client, sessionID string) (bool, error) {
	_, err := GetSession(client, sessionID)
	if err == store.ErrSessionNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, table := range []string{eventsTable, predictionsTable, consentTable} {
		if _, _, err := client.From(table).Delete("", "").Eq("session_id", sessionID).Execute(); err != nil {
			return false, fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	if _, _, err := client.From(sessionsTable).Delete("", "").Eq("session_id", sessionID).Execute(); err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return true, nil
}

func ListOpenSessions(client *supabase.Client, startedBefore time.Time, limit int) ([]types.Session, error) {
	query := client.From(sessionsTable).
		Select("*", "", false).
		Is("end_time", "null").
		Lt("start_time", startedBefore.Format(time.RFC3339)).
		Order("start_time", &postgrest.OrderOpts{Ascending: true})
	if limit > 0 {
		query = query.Limit(limit, "")
	}

	resp, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open sessions: %w", err)
	}

	var sessions []types.Session
	if err := json.Unmarshal(resp, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}
	return sessions, nil
}

func ListSessionIDsOlderThan(client *supabase.Client, cutoff time.Time, limit int) ([]string, error) {
	query := client.From(sessionsTable).
		Select("session_id", "", false).
		Lt("start_time", cutoff.Format(time.RFC3339)).
		Order("start_time", &postgrest.OrderOpts{Ascending: true})
	if limit > 0 {
		query = query.Limit(limit, "")
	}

	resp, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch aged sessions: %w", err)
	}

	var rows []struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(resp, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode session ids: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SessionID)
	}
	return ids, nil
}

// Ping verifies the database responds.
func Ping(client *supabase.Client) error {
	_, _, err := client.From(sessionsTable).
		Select("session_id", "exact", true).
		Limit(1, "").
		Execute()
	if err != nil {
		return fmt.Errorf("supabase unreachable: %w", err)
	}
	return nil
}
