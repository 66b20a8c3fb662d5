package types

import "time"

// Device type labels, classified once at session start from viewport width.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// DeviceInfo is the client-reported device context captured at session start.
type DeviceInfo struct {
	UserAgent    string `json:"user_agent,omitempty"`
	ScreenWidth  int    `json:"screen_width,omitempty"`
	ScreenHeight int    `json:"screen_height,omitempty"`
	DeviceType   string `json:"device_type,omitempty"` // mobile | tablet | desktop
}

// Session is one visitor's tracked visit. SessionID is immutable after
// creation; EndTime stays nil while the visit is open.
type Session struct {
	ID            string          `json:"id,omitempty"` // row id, assigned by the store
	SessionID     string          `json:"session_id"`
	UserID        string          `json:"user_id,omitempty"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       *time.Time      `json:"end_time,omitempty"`
	DeviceInfo    DeviceInfo      `json:"device_info"`
	Referrer      string          `json:"referrer,omitempty"`
	ConsentStatus map[string]bool `json:"consent_status"`
	IPAddress     string          `json:"ip_address,omitempty"`
	UserAgent     string          `json:"user_agent,omitempty"`
}

type StartSessionRequest struct {
	SessionID     string          `json:"session_id,omitempty"` // optional, client-supplied
	UserID        string          `json:"user_id,omitempty"`
	DeviceInfo    DeviceInfo      `json:"device_info"`
	Referrer      string          `json:"referrer,omitempty"`
	ConsentStatus map[string]bool `json:"consent_status,omitempty"`
}

type SessionResponse struct {
	Success      bool    `json:"success"`
	Session      Session `json:"session,omitempty"`
	ErrorMessage string  `json:"error,omitempty"`
}

// ErrorResponse is the generic failure envelope shared by all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
