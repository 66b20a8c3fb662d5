package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clementus360/intent-tracker/types"
)

type fakeSubmitter struct {
	mu            sync.Mutex
	failStart     bool
	failTrack     bool
	failConsent   bool
	startAttempts int
	trackAttempts int
	starts        []types.StartSessionRequest
	events        []types.TrackEventRequest
	consents      []types.ConsentRequest
	predicts      int
}

func (f *fakeSubmitter) StartSession(_ context.Context, req types.StartSessionRequest) (types.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startAttempts++
	if f.failStart {
		return types.Session{}, errors.New("connection refused")
	}
	f.starts = append(f.starts, req)
	return types.Session{SessionID: req.SessionID, StartTime: time.Now().UTC()}, nil
}

func (f *fakeSubmitter) TrackEvent(_ context.Context, req types.TrackEventRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trackAttempts++
	if f.failTrack {
		return errors.New("connection refused")
	}
	f.events = append(f.events, req)
	return nil
}

func (f *fakeSubmitter) PredictIntent(_ context.Context, _ types.PredictRequest) (types.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predicts++
	return types.Prediction{PrimaryIntent: "Research", Confidence: 42}, nil
}

func (f *fakeSubmitter) UpdateConsent(_ context.Context, req types.ConsentRequest) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failConsent {
		return nil, errors.New("connection refused")
	}
	f.consents = append(f.consents, req)
	return req.Consent, nil
}

func (f *fakeSubmitter) setFailStart(v bool) {
	f.mu.Lock()
	f.failStart = v
	f.mu.Unlock()
}

func (f *fakeSubmitter) setFailTrack(v bool) {
	f.mu.Lock()
	f.failTrack = v
	f.mu.Unlock()
}

func (f *fakeSubmitter) setFailConsent(v bool) {
	f.mu.Lock()
	f.failConsent = v
	f.mu.Unlock()
}

func (f *fakeSubmitter) consentUpdates() []types.ConsentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.ConsentRequest(nil), f.consents...)
}

func (f *fakeSubmitter) snapshot() (starts, tracks, predicts int, events []types.TrackEventRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startAttempts, f.trackAttempts, f.predicts, append([]types.TrackEventRequest(nil), f.events...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func fastOptions() Options {
	return Options{
		TickInterval:   10 * time.Millisecond,
		SubmitEvery:    2,
		RequestTimeout: time.Second,
	}
}

func analyticsConsent() map[string]bool {
	return map[string]bool{types.ConsentAnalytics: true}
}

func TestTrackerSubmitsEventsAndPredicts(t *testing.T) {
	fake := &fakeSubmitter{}
	var predMu sync.Mutex
	var delivered []types.Prediction

	opts := fastOptions()
	opts.OnPrediction = func(p types.Prediction) {
		predMu.Lock()
		delivered = append(delivered, p)
		predMu.Unlock()
	}

	tracker, err := Start(context.Background(), fake, DeviceHints{ScreenWidth: 1440}, analyticsConsent(), opts)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer tracker.Stop()

	tracker.RecordClick("/home", "cta", 10, 20)
	tracker.RecordScroll(45, "/home")
	tracker.RecordPageView("/pricing", "Pricing")

	waitFor(t, 2*time.Second, func() bool {
		_, _, predicts, events := fake.snapshot()
		return len(events) >= 3 && predicts >= 1
	}, "tracker never flushed events and fetched a prediction")

	_, _, _, events := fake.snapshot()
	wantTypes := []string{types.EventClick, types.EventScroll, types.EventPageView}
	for i, want := range wantTypes {
		if events[i].EventType != want {
			t.Errorf("event[%d] type = %q, want %q", i, events[i].EventType, want)
		}
		if events[i].SessionID != tracker.SessionID() {
			t.Errorf("event[%d] session = %q, want %q", i, events[i].SessionID, tracker.SessionID())
		}
		if len(events[i].EventID) < 5 || events[i].EventID[:4] != "evt_" {
			t.Errorf("event[%d] id = %q, want evt_ prefix", i, events[i].EventID)
		}
	}
	if depth, ok := events[1].EventData["scroll_depth"].(int); !ok || depth != 45 {
		t.Errorf("scroll event data = %v, want scroll_depth 45", events[1].EventData)
	}

	if pred, ok := tracker.LastPrediction(); !ok || pred.PrimaryIntent != "Research" {
		t.Errorf("LastPrediction = %+v ok=%v, want the fetched prediction", pred, ok)
	}
	predMu.Lock()
	got := len(delivered)
	predMu.Unlock()
	if got == 0 {
		t.Error("OnPrediction callback never fired")
	}
}

func TestTrackerStartsDisconnectedAndRecovers(t *testing.T) {
	fake := &fakeSubmitter{failStart: true}

	tracker, err := Start(context.Background(), fake, DeviceHints{}, analyticsConsent(), fastOptions())
	if tracker == nil {
		t.Fatal("Start returned no tracker alongside the error")
	}
	defer tracker.Stop()

	var initErr *InitializationError
	if !errors.As(err, &initErr) {
		t.Fatalf("Start error = %v, want InitializationError", err)
	}
	if initErr.SessionID != tracker.SessionID() {
		t.Errorf("error names session %q, tracker is %q", initErr.SessionID, tracker.SessionID())
	}
	if tracker.Connected() {
		t.Error("tracker claims to be connected after failed registration")
	}

	// Local tracking keeps working while disconnected.
	tracker.RecordClick("/home", "cta", 1, 2)
	if got := tracker.Snapshot().ClickCount; got != 1 {
		t.Errorf("click count = %d while disconnected, want 1", got)
	}

	fake.setFailStart(false)

	waitFor(t, 2*time.Second, tracker.Connected, "tracker never recovered its registration")
	waitFor(t, 2*time.Second, func() bool {
		_, _, _, events := fake.snapshot()
		return len(events) >= 1
	}, "event recorded while disconnected was never submitted")

	_, _, _, events := fake.snapshot()
	if events[0].EventType != types.EventClick {
		t.Errorf("first submitted event = %q, want the buffered click", events[0].EventType)
	}
}

func TestTrackerRequeuesEventsOnSubmitFailure(t *testing.T) {
	fake := &fakeSubmitter{failTrack: true}

	tracker, err := Start(context.Background(), fake, DeviceHints{}, analyticsConsent(), fastOptions())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer tracker.Stop()

	tracker.RecordClick("/a", "first", 0, 0)
	tracker.RecordClick("/b", "second", 0, 0)
	tracker.RecordClick("/c", "third", 0, 0)

	waitFor(t, 2*time.Second, func() bool {
		_, tracks, _, _ := fake.snapshot()
		return tracks >= 1
	}, "tracker never attempted a submission")

	if _, _, _, events := fake.snapshot(); len(events) != 0 {
		t.Fatalf("%d events delivered while the remote side was failing", len(events))
	}

	fake.setFailTrack(false)

	waitFor(t, 2*time.Second, func() bool {
		_, _, _, events := fake.snapshot()
		return len(events) == 3
	}, "buffered events were lost across the failure")

	_, _, _, events := fake.snapshot()
	wantOrder := []string{"first", "second", "third"}
	seen := make(map[string]bool)
	for i, event := range events {
		if event.ElementID != wantOrder[i] {
			t.Errorf("event[%d] = %q, want %q (order preserved)", i, event.ElementID, wantOrder[i])
		}
		if seen[event.EventID] {
			t.Errorf("event id %q delivered twice", event.EventID)
		}
		seen[event.EventID] = true
	}
}

func TestTrackerQueueDropsOldestPastLimit(t *testing.T) {
	fake := &fakeSubmitter{failTrack: true}

	opts := fastOptions()
	opts.TickInterval = 20 * time.Millisecond
	opts.QueueLimit = 2

	tracker, err := Start(context.Background(), fake, DeviceHints{}, analyticsConsent(), opts)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer tracker.Stop()

	tracker.RecordClick("/a", "first", 0, 0)
	tracker.RecordClick("/b", "second", 0, 0)
	tracker.RecordClick("/c", "third", 0, 0)

	fake.setFailTrack(false)

	waitFor(t, 2*time.Second, func() bool {
		_, _, _, events := fake.snapshot()
		return len(events) >= 2
	}, "queued events never delivered")

	_, _, _, events := fake.snapshot()
	if len(events) != 2 {
		t.Fatalf("delivered %d events, want 2 (oldest dropped)", len(events))
	}
	if events[0].ElementID != "second" || events[1].ElementID != "third" {
		t.Errorf("delivered %q, %q; want the newest two", events[0].ElementID, events[1].ElementID)
	}
}

func TestTrackerWithoutAnalyticsConsentSendsNoEvents(t *testing.T) {
	fake := &fakeSubmitter{}

	tracker, err := Start(context.Background(), fake, DeviceHints{}, nil, fastOptions())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer tracker.Stop()

	tracker.RecordClick("/home", "cta", 0, 0)
	tracker.RecordScroll(50, "/home")

	waitFor(t, 2*time.Second, func() bool {
		_, _, predicts, _ := fake.snapshot()
		return predicts >= 2
	}, "tracker stopped predicting")

	if _, tracks, _, _ := fake.snapshot(); tracks != 0 {
		t.Errorf("%d events submitted without analytics consent", tracks)
	}
	// Local counters still update regardless of consent.
	if got := tracker.Snapshot().ClickCount; got != 1 {
		t.Errorf("click count = %d, want 1", got)
	}

	tracker.SetConsent(types.ConsentAnalytics, true)
	tracker.RecordClick("/home", "cta", 0, 0)

	waitFor(t, 2*time.Second, func() bool {
		_, _, _, events := fake.snapshot()
		return len(events) == 1
	}, "event recorded after consent grant was never submitted")
}

func TestTrackerSubmitsConsentChanges(t *testing.T) {
	fake := &fakeSubmitter{failConsent: true}

	tracker, err := Start(context.Background(), fake, DeviceHints{}, nil, fastOptions())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer tracker.Stop()

	tracker.SetConsent(types.ConsentAnalytics, true)
	tracker.SetConsent(types.ConsentPersonalization, true)

	time.Sleep(50 * time.Millisecond)
	if got := fake.consentUpdates(); len(got) != 0 {
		t.Fatalf("%d consent updates delivered while the remote side was failing", len(got))
	}

	fake.setFailConsent(false)

	waitFor(t, 2*time.Second, func() bool {
		return len(fake.consentUpdates()) >= 1
	}, "consent change was never submitted")

	update := fake.consentUpdates()[0]
	if update.SessionID != tracker.SessionID() {
		t.Errorf("consent update names session %q, tracker is %q", update.SessionID, tracker.SessionID())
	}
	if !update.Consent[types.ConsentAnalytics] || !update.Consent[types.ConsentPersonalization] {
		t.Errorf("consent update = %v, want analytics and personalization granted", update.Consent)
	}
	if !update.Consent[types.ConsentNecessary] {
		t.Errorf("consent update = %v, want necessary carried as true", update.Consent)
	}
}

func TestTrackerStopIsDeterministic(t *testing.T) {
	fake := &fakeSubmitter{}

	tracker, err := Start(context.Background(), fake, DeviceHints{}, analyticsConsent(), fastOptions())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	tracker.RecordClick("/home", "cta", 0, 0)
	waitFor(t, 2*time.Second, func() bool {
		_, _, predicts, _ := fake.snapshot()
		return predicts >= 1
	}, "tracker never flushed")

	tracker.Stop()

	starts, tracks, predicts, _ := fake.snapshot()
	time.Sleep(100 * time.Millisecond)
	starts2, tracks2, predicts2, _ := fake.snapshot()

	if starts != starts2 || tracks != tracks2 || predicts != predicts2 {
		t.Error("submissions continued after Stop returned")
	}

	// Stopping twice is safe.
	tracker.Stop()
}
