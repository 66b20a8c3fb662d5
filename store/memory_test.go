package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"clementus360/intent-tracker/types"
)

func seedSession(t *testing.T, m *MemoryStore, id string) types.Session {
	t.Helper()
	sess, err := m.CreateSession(types.Session{
		SessionID:     id,
		StartTime:     time.Now().UTC(),
		ConsentStatus: types.DefaultConsent(),
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	return sess
}

func TestCreateSessionIsIdempotent(t *testing.T) {
	m := NewMemoryStore()

	first := seedSession(t, m, "sess_abcdef123456")
	second, err := m.CreateSession(types.Session{
		SessionID: "sess_abcdef123456",
		StartTime: time.Now().UTC().Add(time.Hour),
		Referrer:  "https://other.example",
	})
	if err != nil {
		t.Fatalf("second CreateSession failed: %v", err)
	}
	if second.ID != first.ID || !second.StartTime.Equal(first.StartTime) {
		t.Error("duplicate create replaced the stored session")
	}
	if second.Referrer != first.Referrer {
		t.Error("duplicate create altered stored fields")
	}
}

func TestGetSessionUnknown(t *testing.T) {
	m := NewMemoryStore()

	_, err := m.GetSession("sess_missingmissing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestEndSessionKeepsFirstEndTime(t *testing.T) {
	m := NewMemoryStore()
	seedSession(t, m, "sess_abcdef123456")

	first := time.Now().UTC()
	sess, err := m.EndSession("sess_abcdef123456", first)
	if err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if sess.EndTime == nil || !sess.EndTime.Equal(first) {
		t.Fatalf("end time = %v, want %v", sess.EndTime, first)
	}

	again, err := m.EndSession("sess_abcdef123456", first.Add(time.Hour))
	if err != nil {
		t.Fatalf("second EndSession failed: %v", err)
	}
	if !again.EndTime.Equal(first) {
		t.Error("re-ending a session moved its end time")
	}
}

func TestInsertEventDeduplicates(t *testing.T) {
	m := NewMemoryStore()
	seedSession(t, m, "sess_abcdef123456")

	event := types.Event{
		EventID:   "evt_1",
		SessionID: "sess_abcdef123456",
		EventType: types.EventClick,
		Timestamp: time.Now().UTC(),
	}
	_, inserted, err := m.InsertEvent(event)
	if err != nil || !inserted {
		t.Fatalf("first insert: inserted=%v err=%v", inserted, err)
	}
	_, inserted, err = m.InsertEvent(event)
	if err != nil {
		t.Fatalf("duplicate insert errored: %v", err)
	}
	if inserted {
		t.Error("duplicate event id was inserted again")
	}

	events, err := m.ListEvents("sess_abcdef123456", 0)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("stored %d events, want 1", len(events))
	}
}

func TestInsertEventUnknownSession(t *testing.T) {
	m := NewMemoryStore()

	_, _, err := m.InsertEvent(types.Event{EventID: "evt_1", SessionID: "sess_missingmissing"})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestListEventsNewestFirstWithLimit(t *testing.T) {
	m := NewMemoryStore()
	seedSession(t, m, "sess_abcdef123456")

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		_, _, err := m.InsertEvent(types.Event{
			EventID:   fmt.Sprintf("evt_%d", i),
			SessionID: "sess_abcdef123456",
			EventType: types.EventClick,
			Timestamp: base.Add(time.Duration(i) * time.Second),
			ElementID: string(rune('a' + i)),
		})
		if err != nil {
			t.Fatalf("InsertEvent failed: %v", err)
		}
	}

	events, err := m.ListEvents("sess_abcdef123456", 3)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, want := range []string{"e", "d", "c"} {
		if events[i].ElementID != want {
			t.Errorf("events[%d] = %q, want %q (newest first)", i, events[i].ElementID, want)
		}
	}
}

func TestPredictionsLatestAndList(t *testing.T) {
	m := NewMemoryStore()
	seedSession(t, m, "sess_abcdef123456")

	if _, err := m.LatestPrediction("sess_abcdef123456"); !errors.Is(err, ErrNoPredictions) {
		t.Errorf("error = %v, want ErrNoPredictions", err)
	}

	base := time.Now().UTC()
	for i, intent := range []string{"Information", "Research", "Purchase"} {
		_, err := m.InsertPrediction(types.PredictionRecord{
			PredictionID:    "pred_" + intent,
			SessionID:       "sess_abcdef123456",
			PredictedIntent: intent,
			ConfidenceScore: float64(30 + i),
			Timestamp:       base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("InsertPrediction failed: %v", err)
		}
	}

	latest, err := m.LatestPrediction("sess_abcdef123456")
	if err != nil {
		t.Fatalf("LatestPrediction failed: %v", err)
	}
	if latest.PredictedIntent != "Purchase" {
		t.Errorf("latest = %q, want Purchase", latest.PredictedIntent)
	}

	preds, err := m.ListPredictions("sess_abcdef123456", 2)
	if err != nil {
		t.Fatalf("ListPredictions failed: %v", err)
	}
	if len(preds) != 2 || preds[0].PredictedIntent != "Purchase" || preds[1].PredictedIntent != "Research" {
		t.Errorf("predictions = %+v, want newest two first", preds)
	}
}

func TestDeleteSessionDataCascades(t *testing.T) {
	m := NewMemoryStore()
	seedSession(t, m, "sess_abcdef123456")

	m.InsertEvent(types.Event{EventID: "evt_1", SessionID: "sess_abcdef123456", EventType: types.EventClick, Timestamp: time.Now().UTC()})
	m.InsertPrediction(types.PredictionRecord{PredictionID: "pred_1", SessionID: "sess_abcdef123456", PredictedIntent: "Research", Timestamp: time.Now().UTC()})
	m.InsertConsentRecords([]types.ConsentRecord{{SessionID: "sess_abcdef123456", ConsentType: types.ConsentAnalytics, Granted: true, Timestamp: time.Now().UTC()}})

	deleted, err := m.DeleteSessionData("sess_abcdef123456")
	if err != nil || !deleted {
		t.Fatalf("DeleteSessionData: deleted=%v err=%v", deleted, err)
	}

	if _, err := m.GetSession("sess_abcdef123456"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("session survived deletion")
	}
	records, _ := m.ListConsentRecords("sess_abcdef123456")
	if len(records) != 0 {
		t.Error("consent records survived deletion")
	}

	// The event id is free again after the cascade.
	seedSession(t, m, "sess_abcdef123456")
	_, inserted, err := m.InsertEvent(types.Event{EventID: "evt_1", SessionID: "sess_abcdef123456", EventType: types.EventClick, Timestamp: time.Now().UTC()})
	if err != nil || !inserted {
		t.Errorf("event id still tombstoned after cascade: inserted=%v err=%v", inserted, err)
	}

	deleted, err = m.DeleteSessionData("sess_never_existed")
	if err != nil || deleted {
		t.Errorf("deleting unknown session: deleted=%v err=%v", deleted, err)
	}
}

func TestStatsAggregates(t *testing.T) {
	m := NewMemoryStore()
	seedSession(t, m, "sess_aaaaaaaaaaaa")
	seedSession(t, m, "sess_bbbbbbbbbbbb")
	m.EndSession("sess_bbbbbbbbbbbb", time.Now().UTC())

	m.InsertEvent(types.Event{EventID: "evt_1", SessionID: "sess_aaaaaaaaaaaa", EventType: types.EventClick, Timestamp: time.Now().UTC()})
	m.InsertEvent(types.Event{EventID: "evt_2", SessionID: "sess_aaaaaaaaaaaa", EventType: types.EventScroll, Timestamp: time.Now().UTC()})
	m.InsertEvent(types.Event{EventID: "evt_3", SessionID: "sess_bbbbbbbbbbbb", EventType: types.EventClick, Timestamp: time.Now().UTC()})
	m.InsertPrediction(types.PredictionRecord{PredictionID: "pred_1", SessionID: "sess_aaaaaaaaaaaa", PredictedIntent: "Research", Timestamp: time.Now().UTC()})
	m.InsertPrediction(types.PredictionRecord{PredictionID: "pred_2", SessionID: "sess_bbbbbbbbbbbb", PredictedIntent: "Research", Timestamp: time.Now().UTC()})

	stats, err := m.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalSessions != 2 || stats.ActiveSessions != 1 {
		t.Errorf("sessions = %d active = %d, want 2/1", stats.TotalSessions, stats.ActiveSessions)
	}
	if stats.TotalEvents != 3 || stats.EventsByType[types.EventClick] != 2 {
		t.Errorf("events = %d clicks = %d, want 3/2", stats.TotalEvents, stats.EventsByType[types.EventClick])
	}
	if stats.TotalPredictions != 2 || stats.IntentBreakdown["Research"] != 2 {
		t.Errorf("predictions = %d research = %d, want 2/2", stats.TotalPredictions, stats.IntentBreakdown["Research"])
	}
}

func TestRetentionQueries(t *testing.T) {
	m := NewMemoryStore()
	old := time.Now().UTC().Add(-48 * time.Hour)

	m.CreateSession(types.Session{SessionID: "sess_oldoldoldold", StartTime: old})
	m.CreateSession(types.Session{SessionID: "sess_oldclosed999", StartTime: old})
	m.EndSession("sess_oldclosed999", old.Add(time.Hour))
	seedSession(t, m, "sess_freshfreshff")

	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	open, err := m.ListOpenSessions(cutoff, 0)
	if err != nil {
		t.Fatalf("ListOpenSessions failed: %v", err)
	}
	if len(open) != 1 || open[0].SessionID != "sess_oldoldoldold" {
		t.Errorf("open sessions = %+v, want only the stale open one", open)
	}

	ids, err := m.ListSessionIDsOlderThan(cutoff, 0)
	if err != nil {
		t.Fatalf("ListSessionIDsOlderThan failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("aged ids = %v, want both old sessions", ids)
	}
}

func TestStoredValuesAreIsolated(t *testing.T) {
	m := NewMemoryStore()
	sess := seedSession(t, m, "sess_abcdef123456")

	// Mutating what CreateSession returned must not touch the store.
	sess.ConsentStatus[types.ConsentAnalytics] = true
	stored, _ := m.GetSession("sess_abcdef123456")
	if stored.ConsentStatus[types.ConsentAnalytics] {
		t.Error("returned session aliases stored consent map")
	}

	data := map[string]any{"scroll_depth": 10}
	m.InsertEvent(types.Event{EventID: "evt_1", SessionID: "sess_abcdef123456", EventType: types.EventScroll, EventData: data, Timestamp: time.Now().UTC()})
	data["scroll_depth"] = 99

	events, _ := m.ListEvents("sess_abcdef123456", 0)
	if events[0].EventData["scroll_depth"] != 10 {
		t.Error("stored event aliases caller's event data map")
	}
}

func TestLatestEventTime(t *testing.T) {
	m := NewMemoryStore()
	seedSession(t, m, "sess_abcdef123456")

	if _, found, _ := m.LatestEventTime("sess_abcdef123456"); found {
		t.Error("found an event time for a session with no events")
	}

	base := time.Now().UTC()
	m.InsertEvent(types.Event{EventID: "evt_1", SessionID: "sess_abcdef123456", EventType: types.EventClick, Timestamp: base})
	m.InsertEvent(types.Event{EventID: "evt_2", SessionID: "sess_abcdef123456", EventType: types.EventClick, Timestamp: base.Add(time.Minute)})

	latest, found, err := m.LatestEventTime("sess_abcdef123456")
	if err != nil || !found {
		t.Fatalf("LatestEventTime: found=%v err=%v", found, err)
	}
	if !latest.Equal(base.Add(time.Minute)) {
		t.Errorf("latest = %v, want %v", latest, base.Add(time.Minute))
	}
}
