package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"clementus360/intent-tracker/types"
)

// MemoryStore keeps everything in process memory. Events stay in insertion
// order per session; every value crossing the boundary is deep-copied so
// callers can never alias internal state.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]types.Session
	events      map[string][]types.Event
	eventIDs    map[string]string // event id -> session id
	predictions map[string][]types.PredictionRecord
	consents    map[string][]types.ConsentRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:    make(map[string]types.Session),
		events:      make(map[string][]types.Event),
		eventIDs:    make(map[string]string),
		predictions: make(map[string][]types.PredictionRecord),
		consents:    make(map[string][]types.ConsentRecord),
	}
}

func (m *MemoryStore) CreateSession(sess types.Session) (types.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[sess.SessionID]; ok {
		return copySession(existing), nil
	}
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	stored := copySession(sess)
	m.sessions[sess.SessionID] = stored
	return copySession(stored), nil
}

func (m *MemoryStore) GetSession(sessionID string) (types.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return types.Session{}, ErrSessionNotFound
	}
	return copySession(sess), nil
}

func (m *MemoryStore) EndSession(sessionID string, endTime time.Time) (types.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return types.Session{}, ErrSessionNotFound
	}
	if sess.EndTime == nil {
		t := endTime
		sess.EndTime = &t
		m.sessions[sessionID] = sess
	}
	return copySession(sess), nil
}

func (m *MemoryStore) UpdateConsent(sessionID string, consent map[string]bool) (types.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return types.Session{}, ErrSessionNotFound
	}
	sess.ConsentStatus = copyConsent(consent)
	m.sessions[sessionID] = sess
	return copySession(sess), nil
}

func (m *MemoryStore) InsertEvent(event types.Event) (types.Event, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[event.SessionID]; !ok {
		return types.Event{}, false, ErrSessionNotFound
	}
	if sessionID, dup := m.eventIDs[event.EventID]; dup {
		for _, existing := range m.events[sessionID] {
			if existing.EventID == event.EventID {
				return copyEvent(existing), false, nil
			}
		}
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	stored := copyEvent(event)
	m.events[event.SessionID] = append(m.events[event.SessionID], stored)
	m.eventIDs[event.EventID] = event.SessionID
	return copyEvent(stored), true, nil
}

func (m *MemoryStore) ListEvents(sessionID string, limit int) ([]types.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return nil, ErrSessionNotFound
	}
	stored := m.events[sessionID]
	out := make([]types.Event, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, copyEvent(stored[i]))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) LatestEventTime(sessionID string) (time.Time, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest time.Time
	found := false
	for _, event := range m.events[sessionID] {
		if !found || event.Timestamp.After(latest) {
			latest = event.Timestamp
			found = true
		}
	}
	return latest, found, nil
}

func (m *MemoryStore) InsertPrediction(rec types.PredictionRecord) (types.PredictionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[rec.SessionID]; !ok {
		return types.PredictionRecord{}, ErrSessionNotFound
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	stored := copyPrediction(rec)
	m.predictions[rec.SessionID] = append(m.predictions[rec.SessionID], stored)
	return copyPrediction(stored), nil
}

func (m *MemoryStore) LatestPrediction(sessionID string) (types.PredictionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return types.PredictionRecord{}, ErrSessionNotFound
	}
	stored := m.predictions[sessionID]
	if len(stored) == 0 {
		return types.PredictionRecord{}, ErrNoPredictions
	}
	return copyPrediction(stored[len(stored)-1]), nil
}

func (m *MemoryStore) ListPredictions(sessionID string, limit int) ([]types.PredictionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return nil, ErrSessionNotFound
	}
	stored := m.predictions[sessionID]
	out := make([]types.PredictionRecord, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, copyPrediction(stored[i]))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) InsertConsentRecords(records []types.ConsentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		m.consents[rec.SessionID] = append(m.consents[rec.SessionID], rec)
	}
	return nil
}

func (m *MemoryStore) ListConsentRecords(sessionID string) ([]types.ConsentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.consents[sessionID]
	out := make([]types.ConsentRecord, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *MemoryStore) DeleteSessionData(sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, existed := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	for _, event := range m.events[sessionID] {
		delete(m.eventIDs, event.EventID)
	}
	delete(m.events, sessionID)
	delete(m.predictions, sessionID)
	delete(m.consents, sessionID)
	return existed, nil
}

func (m *MemoryStore) Stats() (types.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := types.Stats{
		TotalSessions:   len(m.sessions),
		EventsByType:    make(map[string]int),
		IntentBreakdown: make(map[string]int),
	}
	for _, sess := range m.sessions {
		if sess.EndTime == nil {
			stats.ActiveSessions++
		}
	}
	for _, events := range m.events {
		stats.TotalEvents += len(events)
		for _, event := range events {
			stats.EventsByType[event.EventType]++
		}
	}
	for _, preds := range m.predictions {
		stats.TotalPredictions += len(preds)
		for _, pred := range preds {
			stats.IntentBreakdown[pred.PredictedIntent]++
		}
	}
	return stats, nil
}

func (m *MemoryStore) ListOpenSessions(startedBefore time.Time, limit int) ([]types.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []types.Session
	for _, sess := range m.sessions {
		if sess.EndTime == nil && sess.StartTime.Before(startedBefore) {
			out = append(out, copySession(sess))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) ListSessionIDsOlderThan(cutoff time.Time, limit int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type aged struct {
		id      string
		started time.Time
	}
	var candidates []aged
	for id, sess := range m.sessions {
		if sess.StartTime.Before(cutoff) {
			candidates = append(candidates, aged{id: id, started: sess.StartTime})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].started.Before(candidates[j].started) })

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.id)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) Ping() error { return nil }

func copySession(sess types.Session) types.Session {
	out := sess
	out.ConsentStatus = copyConsent(sess.ConsentStatus)
	if sess.EndTime != nil {
		t := *sess.EndTime
		out.EndTime = &t
	}
	return out
}

func copyConsent(consent map[string]bool) map[string]bool {
	if consent == nil {
		return nil
	}
	out := make(map[string]bool, len(consent))
	for k, v := range consent {
		out[k] = v
	}
	return out
}

func copyEvent(event types.Event) types.Event {
	out := event
	if event.EventData != nil {
		out.EventData = make(map[string]any, len(event.EventData))
		for k, v := range event.EventData {
			out.EventData[k] = v
		}
	}
	if event.XCoordinate != nil {
		x := *event.XCoordinate
		out.XCoordinate = &x
	}
	if event.YCoordinate != nil {
		y := *event.YCoordinate
		out.YCoordinate = &y
	}
	return out
}

func copyPrediction(rec types.PredictionRecord) types.PredictionRecord {
	out := rec
	if rec.SecondaryIntents != nil {
		out.SecondaryIntents = make([]types.SecondaryIntent, len(rec.SecondaryIntents))
		copy(out.SecondaryIntents, rec.SecondaryIntents)
	}
	return out
}
