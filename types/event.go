package types

import "time"

// Event types accepted by the tracking endpoints.
const (
	EventClick      = "click"
	EventScroll     = "scroll"
	EventPageView   = "page_view"
	EventFormSubmit = "form_submit"
	EventHover      = "hover"
	EventFocus      = "focus"
	EventBlur       = "blur"
)

// Event is one discrete behavioral notification. EventID makes ingestion
// idempotent: replaying the same event is a no-op.
type Event struct {
	ID           string         `json:"id,omitempty"` // row id, assigned by the store
	EventID      string         `json:"event_id"`
	SessionID    string         `json:"session_id"`
	EventType    string         `json:"event_type"`
	EventData    map[string]any `json:"event_data,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
	PageURL      string         `json:"page_url,omitempty"`
	ElementID    string         `json:"element_id,omitempty"`
	ElementClass string         `json:"element_class,omitempty"`
	XCoordinate  *int           `json:"x_coordinate,omitempty"`
	YCoordinate  *int           `json:"y_coordinate,omitempty"`
}

type TrackEventRequest struct {
	EventID      string         `json:"event_id,omitempty"` // optional, client-supplied for retries
	SessionID    string         `json:"session_id"`
	EventType    string         `json:"event_type"`
	EventData    map[string]any `json:"event_data,omitempty"`
	PageURL      string         `json:"page_url,omitempty"`
	ElementID    string         `json:"element_id,omitempty"`
	ElementClass string         `json:"element_class,omitempty"`
	XCoordinate  *int           `json:"x_coordinate,omitempty"`
	YCoordinate  *int           `json:"y_coordinate,omitempty"`
}

type TrackPageViewRequest struct {
	EventID   string `json:"event_id,omitempty"`
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
}

// TrackEventResponse reports whether the event was stored. Accepted is false
// when the session has not granted analytics consent; the request itself
// still succeeds so clients need no special casing.
type TrackEventResponse struct {
	Success      bool   `json:"success"`
	Accepted     bool   `json:"accepted"`
	Event        *Event `json:"event,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}

type GetEventsResponse struct {
	Success      bool    `json:"success"`
	Events       []Event `json:"events"`
	Total        int     `json:"total"`
	ErrorMessage string  `json:"error,omitempty"`
}
