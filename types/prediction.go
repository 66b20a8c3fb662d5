package types

import "time"

// Factor weight tiers, coarse buckets of an indicator's share of the winning
// category's raw score.
const (
	WeightHigh   = "High"
	WeightMedium = "Medium"
	WeightLow    = "Low"
)

// SecondaryIntent is one non-primary candidate with its confidence.
type SecondaryIntent struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Factor is a human-readable explanation of one scoring contributor.
type Factor struct {
	Factor      string `json:"factor"`
	Description string `json:"description"`
	Weight      string `json:"weight"` // High | Medium | Low
}

// Prediction is the scorer output: an immutable ranked view over all intent
// categories. Confidences are normalized to sum to 100 (subject to rounding)
// and SecondaryIntents holds every non-primary category, sorted descending.
//
// PredictionID and SessionID are storage/transport concerns filled in by the
// caller; the scorer itself leaves them empty so identical input yields
// identical output.
type Prediction struct {
	PredictionID     string            `json:"prediction_id,omitempty"`
	SessionID        string            `json:"session_id,omitempty"`
	PrimaryIntent    string            `json:"primary_intent"`
	Confidence       float64           `json:"confidence"`
	SecondaryIntents []SecondaryIntent `json:"secondary_intents"`
	Factors          []Factor          `json:"factors"`
	ModelVersion     string            `json:"model_version,omitempty"`
}

// PredictionRecord is the persisted form of a prediction.
type PredictionRecord struct {
	ID               string            `json:"id,omitempty"`
	PredictionID     string            `json:"prediction_id"`
	SessionID        string            `json:"session_id"`
	PredictedIntent  string            `json:"predicted_intent"`
	ConfidenceScore  float64           `json:"confidence_score"`
	ModelVersion     string            `json:"model_version"`
	Timestamp        time.Time         `json:"timestamp"`
	SecondaryIntents []SecondaryIntent `json:"secondary_intents,omitempty"`
}

type ConfidenceResponse struct {
	Success      bool      `json:"success"`
	Intent       string    `json:"intent,omitempty"`
	Confidence   float64   `json:"confidence,omitempty"`
	Timestamp    time.Time `json:"timestamp,omitempty"`
	ModelVersion string    `json:"model_version,omitempty"`
	ErrorMessage string    `json:"error,omitempty"`
}

type GetPredictionsResponse struct {
	Success      bool               `json:"success"`
	Predictions  []PredictionRecord `json:"predictions"`
	ErrorMessage string             `json:"error,omitempty"`
}
