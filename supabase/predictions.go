package supabase

import (
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"clementus360/intent-tracker/store"
	"clementus360/intent-tracker/types"
)

func InsertPrediction(client *supabase.Client, rec types.PredictionRecord) (types.PredictionRecord, error) {
	if _, err := GetSession(client, rec.SessionID); err != nil {
		return types.PredictionRecord{}, err
	}

	created := []types.PredictionRecord{rec}
	resp, _, err := client.From(predictionsTable).Insert(created, false, "", "", "").Execute()
	if err != nil {
		return types.PredictionRecord{}, fmt.Errorf("failed to insert prediction: %w", err)
	}
	if err := json.Unmarshal(resp, &created); err != nil {
		return types.PredictionRecord{}, fmt.Errorf("failed to decode inserted prediction: %w", err)
	}
	if len(created) == 0 {
		return types.PredictionRecord{}, fmt.Errorf("prediction insert returned no rows")
	}
	return created[0], nil
}

func LatestPrediction(client *supabase.Client, sessionID string) (types.PredictionRecord, error) {
	if _, err := GetSession(client, sessionID); err != nil {
		return types.PredictionRecord{}, err
	}

	resp, _, err := client.From(predictionsTable).
		Select("*", "", false).
		Eq("session_id", sessionID).
		Order("timestamp", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		Execute()
	if err != nil {
		return types.PredictionRecord{}, fmt.Errorf("failed to fetch latest prediction: %w", err)
	}

	var records []types.PredictionRecord
	if err := json.Unmarshal(resp, &records); err != nil {
		return types.PredictionRecord{}, fmt.Errorf("failed to decode prediction data: %w", err)
	}
	if len(records) == 0 {
		return types.PredictionRecord{}, store.ErrNoPredictions
	}
	return records[0], nil
}

func ListPredictions(client *supabase.Client, sessionID string, limit int) ([]types.PredictionRecord, error) {
	if _, err := GetSession(client, sessionID); err != nil {
		return nil, err
	}

	query := client.From(predictionsTable).
		Select("*", "", false).
		Eq("session_id", sessionID).
		Order("timestamp", &postgrest.OrderOpts{Ascending: false})
	if limit > 0 {
		query = query.Limit(limit, "")
	}

	resp, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch predictions: %w", err)
	}

	var records []types.PredictionRecord
	if err := json.Unmarshal(resp, &records); err != nil {
		return nil, fmt.Errorf("failed to decode prediction data: %w", err)
	}
	return records, nil
}
