package session

import (
	"sync"
	"time"

	"clementus360/intent-tracker/types"
)

// Aggregate accumulates one visitor's behavioral counters for the lifetime
// of a visit. All counters are monotonic: clicks and page views only grow,
// scroll depth keeps its maximum, time on page never runs backwards.
//
// The aggregate is safe for concurrent use; the tracker's tick loop and
// the caller's event recording run on different goroutines.
type Aggregate struct {
	mu sync.Mutex

	sessionID   string
	startTime   time.Time
	pageViews   int
	clickCount  int
	scrollDepth int
	timeOnPage  int
	deviceType  string
	hints       DeviceHints
	consent     map[string]bool
}

// NewAggregate creates a fresh aggregate with a collision-resistant
// session id. Page views start at 1 for the page the visitor is on.
// Consent starts from the necessary-only default overlaid with whatever
// the caller supplies; the necessary category cannot be revoked.
func NewAggregate(hints DeviceHints, initialConsent map[string]bool) *Aggregate {
	consent := types.DefaultConsent()
	for category, granted := range initialConsent {
		if category == types.ConsentNecessary && !granted {
			continue
		}
		consent[category] = granted
	}
	return &Aggregate{
		sessionID:  NewSessionID(),
		startTime:  time.Now().UTC(),
		pageViews:  1,
		deviceType: ClassifyDevice(hints.ScreenWidth),
		hints:      hints,
		consent:    consent,
	}
}

// SessionID returns the immutable session identifier.
func (a *Aggregate) SessionID() string { return a.sessionID }

// StartTime returns when the aggregate was created.
func (a *Aggregate) StartTime() time.Time { return a.startTime }

// DeviceInfo returns the device context captured at creation.
func (a *Aggregate) DeviceInfo() types.DeviceInfo {
	return types.DeviceInfo{
		UserAgent:    a.hints.UserAgent,
		ScreenWidth:  a.hints.ScreenWidth,
		ScreenHeight: a.hints.ScreenHeight,
		DeviceType:   a.deviceType,
	}
}

// Referrer returns the referrer captured at creation.
func (a *Aggregate) Referrer() string { return a.hints.Referrer }

// RecordClick increments the click counter.
func (a *Aggregate) RecordClick() {
	a.mu.Lock()
	a.clickCount++
	a.mu.Unlock()
}

// RecordScroll folds an observed scroll depth into the aggregate. Values
// are clamped to [0, 100] and the stored depth never decreases.
func (a *Aggregate) RecordScroll(observedPercent int) {
	if observedPercent < 0 {
		observedPercent = 0
	}
	if observedPercent > 100 {
		observedPercent = 100
	}
	a.mu.Lock()
	if observedPercent > a.scrollDepth {
		a.scrollDepth = observedPercent
	}
	a.mu.Unlock()
}

// RecordPageView increments the page view counter.
func (a *Aggregate) RecordPageView() {
	a.mu.Lock()
	a.pageViews++
	a.mu.Unlock()
}

// Tick recomputes time on page from the wall clock. The stored value only
// ever increases, so a clock adjustment that moves now before startTime
// cannot drag it backwards or negative.
func (a *Aggregate) Tick(now time.Time) {
	elapsed := int(now.Sub(a.startTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	a.mu.Lock()
	if elapsed > a.timeOnPage {
		a.timeOnPage = elapsed
	}
	a.mu.Unlock()
}

// SetConsent sets one consent category. Revoking the necessary category is
// a no-op.
func (a *Aggregate) SetConsent(category string, granted bool) {
	if category == types.ConsentNecessary && !granted {
		return
	}
	a.mu.Lock()
	a.consent[category] = granted
	a.mu.Unlock()
}

// ConsentGranted reports whether one consent category is granted.
func (a *Aggregate) ConsentGranted(category string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.consent[category]
}

// Consent returns a copy of the current consent flags.
func (a *Aggregate) Consent() map[string]bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]bool, len(a.consent))
	for category, granted := range a.consent {
		out[category] = granted
	}
	return out
}

// Snapshot returns the current behavioral summary for scoring.
func (a *Aggregate) Snapshot() types.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return types.Snapshot{
		TimeOnPageSeconds:  a.timeOnPage,
		ClickCount:         a.clickCount,
		ScrollDepthPercent: a.scrollDepth,
		PageViews:          a.pageViews,
		DeviceType:         a.deviceType,
		Referrer:           a.hints.Referrer,
	}
}
