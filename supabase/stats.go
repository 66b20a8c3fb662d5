package supabase

import (
	"fmt"

	"github.com/supabase-community/supabase-go"

	"clementus360/intent-tracker/intent"
	"clementus360/intent-tracker/types"
)

// Stats aggregates table counts using head-only count queries, so no row
// data crosses the wire.
func Stats(client *supabase.Client) (types.Stats, error) {
	stats := types.Stats{
		EventsByType:    make(map[string]int),
		IntentBreakdown: make(map[string]int),
	}

	total, err := countRows(client, sessionsTable, nil)
	if err != nil {
		return types.Stats{}, err
	}
	stats.TotalSessions = total

	active, err := countOpenSessions(client)
	if err != nil {
		return types.Stats{}, err
	}
	stats.ActiveSessions = active

	events, err := countRows(client, eventsTable, nil)
	if err != nil {
		return types.Stats{}, err
	}
	stats.TotalEvents = events

	eventTypes := []string{
		types.EventClick, types.EventScroll, types.EventPageView,
		types.EventFormSubmit, types.EventHover, types.EventFocus, types.EventBlur,
	}
	for _, eventType := range eventTypes {
		n, err := countRows(client, eventsTable, map[string]string{"event_type": eventType})
		if err != nil {
			return types.Stats{}, err
		}
		if n > 0 {
			stats.EventsByType[eventType] = n
		}
	}

	predictions, err := countRows(client, predictionsTable, nil)
	if err != nil {
		return types.Stats{}, err
	}
	stats.TotalPredictions = predictions

	for _, category := range intent.Categories {
		n, err := countRows(client, predictionsTable, map[string]string{"predicted_intent": category})
		if err != nil {
			return types.Stats{}, err
		}
		if n > 0 {
			stats.IntentBreakdown[category] = n
		}
	}

	return stats, nil
}

func countRows(client *supabase.Client, table string, eq map[string]string) (int, error) {
	query := client.From(table).Select("*", "exact", true)
	for column, value := range eq {
		query = query.Eq(column, value)
	}
	_, count, err := query.Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return int(count), nil
}

func countOpenSessions(client *supabase.Client) (int, error) {
	_, count, err := client.From(sessionsTable).
		Select("*", "exact", true).
		Is("end_time", "null").
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to count open sessions: %w", err)
	}
	return int(count), nil
}
