package types

import "time"

// Stats is an aggregate snapshot of stored activity.
type Stats struct {
	TotalSessions    int            `json:"total_sessions"`
	ActiveSessions   int            `json:"active_sessions"`
	TotalEvents      int            `json:"total_events"`
	TotalPredictions int            `json:"total_predictions"`
	EventsByType     map[string]int `json:"events_by_type"`
	IntentBreakdown  map[string]int `json:"intent_breakdown"`
}

type StatsResponse struct {
	Success      bool   `json:"success"`
	Stats        *Stats `json:"stats,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}

// Performance reports runtime characteristics of the prediction path.
type Performance struct {
	UptimeSeconds     float64 `json:"uptime_seconds"`
	ModelVersion      string  `json:"model_version"`
	ModelChecksum     string  `json:"model_checksum"`
	ConfigSource      string  `json:"config_source"`
	CacheEntries      int     `json:"cache_entries"`
	CacheTTLSeconds   float64 `json:"cache_ttl_seconds"`
	RateLimitPerMin   int     `json:"rate_limit_per_minute"`
	PredictionsServed uint64  `json:"predictions_served"`
}

type PerformanceResponse struct {
	Success      bool         `json:"success"`
	Performance  *Performance `json:"performance,omitempty"`
	ErrorMessage string       `json:"error,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	Model     string    `json:"model_version"`
	Timestamp time.Time `json:"timestamp"`
}

type ReloadResponse struct {
	Success      bool   `json:"success"`
	ModelVersion string `json:"model_version,omitempty"`
	Checksum     string `json:"checksum,omitempty"`
	Source       string `json:"source,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}
