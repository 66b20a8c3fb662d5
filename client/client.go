// Package client is the Go client for the intent tracker API. It
// implements session.Submitter, so a session.Tracker can push state
// through it directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"clementus360/intent-tracker/types"
)

// TransientNetworkError marks a failure worth retrying: the server was
// unreachable, timed out, or answered with a 5xx. Callers treat it as
// temporary and try again on their next cycle.
type TransientNetworkError struct {
	Op  string
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("%s: transient network failure: %v", e.Op, e.Err)
}

func (e *TransientNetworkError) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the tracker API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithHTTPClient builds a client with a caller-supplied http.Client,
// mainly for tests and custom transports.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// StartSession registers a session and returns the stored record.
func (c *Client) StartSession(ctx context.Context, req types.StartSessionRequest) (types.Session, error) {
	var out types.SessionResponse
	if err := c.postJSON(ctx, "/api/session/start", req, &out); err != nil {
		return types.Session{}, err
	}
	if !out.Success {
		return types.Session{}, fmt.Errorf("session start rejected: %s", out.ErrorMessage)
	}
	return out.Session, nil
}

// GetSession fetches one session by id.
func (c *Client) GetSession(ctx context.Context, sessionID string) (types.Session, error) {
	var out types.SessionResponse
	if err := c.getJSON(ctx, "/api/session/"+sessionID, &out); err != nil {
		return types.Session{}, err
	}
	if !out.Success {
		return types.Session{}, fmt.Errorf("session lookup failed: %s", out.ErrorMessage)
	}
	return out.Session, nil
}

// EndSession closes a session and returns the final record.
func (c *Client) EndSession(ctx context.Context, sessionID string) (types.Session, error) {
	var out types.SessionResponse
	if err := c.postJSON(ctx, "/api/session/"+sessionID+"/end", nil, &out); err != nil {
		return types.Session{}, err
	}
	if !out.Success {
		return types.Session{}, fmt.Errorf("session end failed: %s", out.ErrorMessage)
	}
	return out.Session, nil
}

// TrackEvent submits one behavioral event. Submission is idempotent per
// event id, so retrying a failed call cannot double-count.
func (c *Client) TrackEvent(ctx context.Context, req types.TrackEventRequest) error {
	var out types.TrackEventResponse
	if err := c.postJSON(ctx, "/api/track/event", req, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("event rejected: %s", out.ErrorMessage)
	}
	return nil
}

// TrackPageView submits a page view through the dedicated endpoint.
func (c *Client) TrackPageView(ctx context.Context, req types.TrackPageViewRequest) error {
	var out types.TrackEventResponse
	if err := c.postJSON(ctx, "/api/track/page-view", req, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("page view rejected: %s", out.ErrorMessage)
	}
	return nil
}

// PredictIntent requests a fresh prediction for a session snapshot.
func (c *Client) PredictIntent(ctx context.Context, req types.PredictRequest) (types.Prediction, error) {
	var out types.PredictResponse
	if err := c.postJSON(ctx, "/api/predict/intent", req, &out); err != nil {
		return types.Prediction{}, err
	}
	if !out.Success {
		return types.Prediction{}, fmt.Errorf("prediction failed: %s", out.ErrorMessage)
	}
	return out.Prediction, nil
}

// UpdateConsent replaces a session's consent flags and returns the
// resulting state.
func (c *Client) UpdateConsent(ctx context.Context, req types.ConsentRequest) (map[string]bool, error) {
	var out types.ConsentResponse
	if err := c.postJSON(ctx, "/api/privacy/consent", req, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("consent update failed: %s", out.ErrorMessage)
	}
	return out.Consent, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %v", err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "POST "+path, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	return c.do(req, "GET "+path, out)
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransientNetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &TransientNetworkError{Op: op, Err: fmt.Errorf("server returned status %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		var failure types.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil && failure.Error != "" {
			return fmt.Errorf("%s returned status %d: %s", op, resp.StatusCode, failure.Error)
		}
		return fmt.Errorf("%s returned status %d", op, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}
