package types

// Snapshot is the behavioral summary the intent scorer consumes. It is either
// sent by the client alongside a prediction request, or derived server-side
// from the stored event history of a session.
//
// DeviceType and Referrer are optional signals: empty values contribute no
// weight. All counters must be non-negative and ScrollDepthPercent must stay
// within [0, 100]; anything else is rejected rather than coerced.
type Snapshot struct {
	TimeOnPageSeconds  int    `json:"time_on_page_seconds"`
	ClickCount         int    `json:"click_count"`
	ScrollDepthPercent int    `json:"scroll_depth_percent"`
	PageViews          int    `json:"page_views,omitempty"`
	DeviceType         string `json:"device_type,omitempty"`
	Referrer           string `json:"referrer,omitempty"`
}

type PredictRequest struct {
	SessionID string    `json:"session_id"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"` // derived from stored events when nil
}

type PredictResponse struct {
	Success      bool       `json:"success"`
	Prediction   Prediction `json:"prediction,omitempty"`
	Cached       bool       `json:"cached,omitempty"`
	ErrorMessage string     `json:"error,omitempty"`
}
