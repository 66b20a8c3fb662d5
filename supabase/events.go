package supabase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"clementus360/intent-tracker/types"
)

// InsertEvent stores one event, ignoring replays of an event id the table
// already holds.
func InsertEvent(client *supabase.Client, event types.Event) (types.Event, bool, error) {
	if _, err := GetSession(client, event.SessionID); err != nil {
		return types.Event{}, false, err
	}

	resp, _, err := client.From(eventsTable).
		Select("*", "", false).
		Eq("event_id", event.EventID).
		Limit(1, "").
		Execute()
	if err != nil {
		return types.Event{}, false, fmt.Errorf("failed to check event id: %w", err)
	}
	var existing []types.Event
	if err := json.Unmarshal(resp, &existing); err != nil {
		return types.Event{}, false, fmt.Errorf("failed to decode event data: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], false, nil
	}

	created := []types.Event{event}
	resp, _, err = client.From(eventsTable).Insert(created, false, "", "", "").Execute()
	if err != nil {
		return types.Event{}, false, fmt.Errorf("failed to insert event: %w", err)
	}
	if err := json.Unmarshal(resp, &created); err != nil {
		return types.Event{}, false, fmt.Errorf("failed to decode inserted event: %w", err)
	}
	if len(created) == 0 {
		return types.Event{}, false, fmt.Errorf("event insert returned no rows")
	}
	return created[0], true, nil
}

func ListEvents(client *supabase.Client, sessionID string, limit int) ([]types.Event, error) {
	if _, err := GetSession(client, sessionID); err != nil {
		return nil, err
	}

	query := client.From(eventsTable).
		Select("*", "", false).
		Eq("session_id", sessionID).
		Order("timestamp", &postgrest.OrderOpts{Ascending: false})
	if limit > 0 {
		query = query.Limit(limit, "")
	}

	resp, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	var events []types.Event
	if err := json.Unmarshal(resp, &events); err != nil {
		return nil, fmt.Errorf("failed to decode event data: %w", err)
	}
	return events, nil
}

func LatestEventTime(client *supabase.Client, sessionID string) (time.Time, bool, error) {
	resp, _, err := client.From(eventsTable).
		Select("timestamp", "", false).
		Eq("session_id", sessionID).
		Order("timestamp", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		Execute()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to fetch latest event: %w", err)
	}

	var rows []struct {
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.Unmarshal(resp, &rows); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to decode event timestamps: %w", err)
	}
	if len(rows) == 0 {
		return time.Time{}, false, nil
	}
	return rows[0].Timestamp, true, nil
}
