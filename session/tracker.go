package session

import (
	"context"
	"sync"
	"time"

	"clementus360/intent-tracker/config"
	"clementus360/intent-tracker/types"
)

// Submitter is the remote half of a tracker: where session state is pushed
// and predictions are fetched from. Implemented by the HTTP client; tests
// swap in fakes.
type Submitter interface {
	StartSession(ctx context.Context, req types.StartSessionRequest) (types.Session, error)
	TrackEvent(ctx context.Context, req types.TrackEventRequest) error
	PredictIntent(ctx context.Context, req types.PredictRequest) (types.Prediction, error)
	UpdateConsent(ctx context.Context, req types.ConsentRequest) (map[string]bool, error)
}

// Options tunes a tracker's cadence and buffering. Zero values pick the
// defaults.
type Options struct {
	// TickInterval is how often time on page is recomputed. Default 1s.
	TickInterval time.Duration
	// SubmitEvery is the number of ticks between remote flushes. Default 5.
	SubmitEvery int
	// RequestTimeout bounds each remote call. Default 5s.
	RequestTimeout time.Duration
	// QueueLimit caps buffered events while the remote side is down; the
	// oldest events are dropped past it. Default 512.
	QueueLimit int
	// OnPrediction, when set, is invoked from the tracker goroutine each
	// time a fresh prediction arrives.
	OnPrediction func(types.Prediction)
}

func (o *Options) withDefaults() {
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.SubmitEvery <= 0 {
		o.SubmitEvery = 5
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 5 * time.Second
	}
	if o.QueueLimit <= 0 {
		o.QueueLimit = 512
	}
}

// Tracker drives one session end to end: it owns the aggregate, ticks time
// forward, buffers events, and periodically submits state and requests a
// fresh prediction. Local counters always update synchronously; everything
// remote is best-effort and retried on the next flush.
type Tracker struct {
	agg       *Aggregate
	submitter Submitter
	opts      Options

	mu           sync.Mutex
	pending      []types.TrackEventRequest
	lastPred     *types.Prediction
	registered   bool
	consentDirty bool

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Start creates an aggregate, registers the session remotely, and launches
// the tick loop. When registration fails the tracker still starts in
// disconnected mode and keeps retrying on each flush; the returned
// InitializationError tells the caller the session is local-only for now.
func Start(ctx context.Context, submitter Submitter, hints DeviceHints, initialConsent map[string]bool, opts Options) (*Tracker, error) {
	opts.withDefaults()

	agg := NewAggregate(hints, initialConsent)
	loopCtx, cancel := context.WithCancel(ctx)
	t := &Tracker{
		agg:       agg,
		submitter: submitter,
		opts:      opts,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	err := t.register(loopCtx)
	go t.loop(loopCtx)

	if err != nil {
		return t, &InitializationError{SessionID: agg.SessionID(), Err: err}
	}
	return t, nil
}

// SessionID returns the tracked session's identifier.
func (t *Tracker) SessionID() string { return t.agg.SessionID() }

// Connected reports whether the session has been registered remotely.
func (t *Tracker) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.registered
}

// Snapshot returns the current behavioral summary.
func (t *Tracker) Snapshot() types.Snapshot { return t.agg.Snapshot() }

// LastPrediction returns the most recent prediction, if any arrived yet.
func (t *Tracker) LastPrediction() (types.Prediction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastPred == nil {
		return types.Prediction{}, false
	}
	return *t.lastPred, true
}

// RecordClick counts a click and queues it for submission.
func (t *Tracker) RecordClick(pageURL, elementID string, x, y int) {
	t.agg.RecordClick()
	t.enqueue(types.TrackEventRequest{
		EventType:   types.EventClick,
		PageURL:     pageURL,
		ElementID:   elementID,
		XCoordinate: &x,
		YCoordinate: &y,
	})
}

// RecordScroll folds a scroll observation into the aggregate and queues it.
func (t *Tracker) RecordScroll(depthPercent int, pageURL string) {
	t.agg.RecordScroll(depthPercent)
	if depthPercent < 0 {
		depthPercent = 0
	}
	if depthPercent > 100 {
		depthPercent = 100
	}
	t.enqueue(types.TrackEventRequest{
		EventType: types.EventScroll,
		PageURL:   pageURL,
		EventData: map[string]any{"scroll_depth": depthPercent},
	})
}

// RecordPageView counts a navigation and queues it.
func (t *Tracker) RecordPageView(url, title string) {
	t.agg.RecordPageView()
	t.enqueue(types.TrackEventRequest{
		EventType: types.EventPageView,
		PageURL:   url,
		EventData: map[string]any{"title": title},
	})
}

// SetConsent updates one consent category on the live aggregate and marks
// the consent state for submission on the next flush. The change takes
// effect locally right away; the server learns about it best-effort, with
// retries until the update lands.
func (t *Tracker) SetConsent(category string, granted bool) {
	t.agg.SetConsent(category, granted)
	t.mu.Lock()
	t.consentDirty = true
	t.mu.Unlock()
}

// Stop tears the tracker down deterministically: the tick loop is cancelled
// and Stop returns once it has fully exited. Any in-flight submission is
// discarded; server-side writes are idempotent per event, so a half-landed
// flush needs no compensation.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		t.cancel()
		<-t.done
	})
}

// enqueue buffers an event for the next flush. Events are only collected
// under analytics consent; the id is minted here so a retried submission
// carries the same one.
func (t *Tracker) enqueue(req types.TrackEventRequest) {
	if !t.agg.ConsentGranted(types.ConsentAnalytics) {
		return
	}
	if req.EventID == "" {
		req.EventID = NewEventID()
	}
	req.SessionID = t.agg.SessionID()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = append(t.pending, req)
	if overflow := len(t.pending) - t.opts.QueueLimit; overflow > 0 {
		t.pending = t.pending[overflow:]
		config.Logger.Debugf("Tracker %s dropped %d oldest queued events", t.agg.SessionID(), overflow)
	}
}

func (t *Tracker) loop(ctx context.Context) {
	defer close(t.done)

	ticker := time.NewTicker(t.opts.TickInterval)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.agg.Tick(now)
			ticks++
			if ticks%t.opts.SubmitEvery == 0 {
				t.flush(ctx)
			}
		}
	}
}

// flush pushes buffered events and requests a fresh prediction. Every
// failure here is transient by definition: state stays local and the next
// flush tries again.
func (t *Tracker) flush(ctx context.Context) {
	t.mu.Lock()
	registered := t.registered
	t.mu.Unlock()

	if !registered {
		if err := t.register(ctx); err != nil {
			config.Logger.Debugf("Session %s still disconnected: %v", t.agg.SessionID(), err)
			return
		}
	}

	// Consent goes out before events so the server's gating matches the
	// state the queued events were recorded under.
	if !t.syncConsent(ctx) {
		return
	}

	t.mu.Lock()
	batch := t.pending
	t.pending = nil
	t.mu.Unlock()

	for i, req := range batch {
		if err := t.submit(ctx, req); err != nil {
			config.Logger.Debugf("Event submission for %s failed, requeueing %d events: %v",
				t.agg.SessionID(), len(batch)-i, err)
			t.mu.Lock()
			t.pending = append(batch[i:], t.pending...)
			t.mu.Unlock()
			return
		}
	}

	t.predict(ctx)
}

func (t *Tracker) register(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, t.opts.RequestTimeout)
	defer cancel()

	_, err := t.submitter.StartSession(callCtx, types.StartSessionRequest{
		SessionID:     t.agg.SessionID(),
		DeviceInfo:    t.agg.DeviceInfo(),
		Referrer:      t.agg.Referrer(),
		ConsentStatus: t.agg.Consent(),
	})
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.registered = true
	t.mu.Unlock()
	return nil
}

// syncConsent pushes the full consent map when a SetConsent happened since
// the last successful sync. The whole map travels every time, so a lost
// update is repaired by the next one.
func (t *Tracker) syncConsent(ctx context.Context) bool {
	t.mu.Lock()
	dirty := t.consentDirty
	t.consentDirty = false
	t.mu.Unlock()

	if !dirty {
		return true
	}

	callCtx, cancel := context.WithTimeout(ctx, t.opts.RequestTimeout)
	defer cancel()

	_, err := t.submitter.UpdateConsent(callCtx, types.ConsentRequest{
		SessionID: t.agg.SessionID(),
		Consent:   t.agg.Consent(),
	})
	if err != nil {
		config.Logger.Debugf("Consent sync for %s failed: %v", t.agg.SessionID(), err)
		t.mu.Lock()
		t.consentDirty = true
		t.mu.Unlock()
		return false
	}
	return true
}

func (t *Tracker) submit(ctx context.Context, req types.TrackEventRequest) error {
	callCtx, cancel := context.WithTimeout(ctx, t.opts.RequestTimeout)
	defer cancel()
	return t.submitter.TrackEvent(callCtx, req)
}

func (t *Tracker) predict(ctx context.Context) {
	callCtx, cancel := context.WithTimeout(ctx, t.opts.RequestTimeout)
	defer cancel()

	snap := t.agg.Snapshot()
	pred, err := t.submitter.PredictIntent(callCtx, types.PredictRequest{
		SessionID: t.agg.SessionID(),
		Snapshot:  &snap,
	})
	if err != nil {
		// Keep showing the last-known-good prediction.
		config.Logger.Debugf("Prediction refresh for %s failed: %v", t.agg.SessionID(), err)
		return
	}

	t.mu.Lock()
	t.lastPred = &pred
	t.mu.Unlock()

	if t.opts.OnPrediction != nil {
		t.opts.OnPrediction(pred)
	}
}
