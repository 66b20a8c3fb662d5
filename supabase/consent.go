package supabase

import (
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"clementus360/intent-tracker/types"
)

// InsertConsentRecords appends audit entries for a consent change.
func InsertConsentRecords(client *supabase.Client, records []types.ConsentRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, _, err := client.From(consentTable).Insert(records, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to insert consent records: %w", err)
	}
	return nil
}

func ListConsentRecords(client *supabase.Client, sessionID string) ([]types.ConsentRecord, error) {
	resp, _, err := client.From(consentTable).
		Select("*", "", false).
		Eq("session_id", sessionID).
		Order("timestamp", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consent records: %w", err)
	}

	var records []types.ConsentRecord
	if err := json.Unmarshal(resp, &records); err != nil {
		return nil, fmt.Errorf("failed to decode consent records: %w", err)
	}
	return records, nil
}
