package types

import "time"

// Consent categories. Necessary is always granted and cannot be revoked.
const (
	ConsentNecessary       = "necessary"
	ConsentAnalytics       = "analytics"
	ConsentMarketing       = "marketing"
	ConsentPersonalization = "personalization"
)

// ConsentCategories lists every recognised category.
var ConsentCategories = []string{
	ConsentNecessary,
	ConsentAnalytics,
	ConsentMarketing,
	ConsentPersonalization,
}

// DefaultConsent is the consent state of a fresh session: only the
// necessary category is granted.
func DefaultConsent() map[string]bool {
	return map[string]bool{ConsentNecessary: true}
}

// ConsentRecord is one audit entry for a consent change.
type ConsentRecord struct {
	ID          string    `json:"id,omitempty"`
	SessionID   string    `json:"session_id"`
	ConsentType string    `json:"consent_type"`
	Granted     bool      `json:"granted"`
	Timestamp   time.Time `json:"timestamp"`
}

type ConsentRequest struct {
	SessionID string          `json:"session_id"`
	Consent   map[string]bool `json:"consent"`
}

type ConsentResponse struct {
	Success      bool            `json:"success"`
	Consent      map[string]bool `json:"consent,omitempty"`
	ErrorMessage string          `json:"error,omitempty"`
}

// DataExport bundles everything stored for one session, returned by the
// privacy export endpoint.
type DataExport struct {
	Session     *Session           `json:"session"`
	Events      []Event            `json:"events"`
	Predictions []PredictionRecord `json:"predictions"`
	Consent     []ConsentRecord    `json:"consent_records"`
	ExportedAt  time.Time          `json:"exported_at"`
}

type DataExportResponse struct {
	Success      bool        `json:"success"`
	Data         *DataExport `json:"data,omitempty"`
	ErrorMessage string      `json:"error,omitempty"`
}

type DeleteDataResponse struct {
	Success      bool   `json:"success"`
	Deleted      bool   `json:"deleted"`
	ErrorMessage string `json:"error,omitempty"`
}
