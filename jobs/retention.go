// Package jobs runs the background maintenance schedule: closing idle
// sessions and purging data past the retention window.
package jobs

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"clementus360/intent-tracker/config"
	"clementus360/intent-tracker/store"
)

// sweepBatchSize caps how many sessions one pass touches; the next pass
// picks up the rest.
const sweepBatchSize = 500

// Retention owns the hourly maintenance job. Sessions idle past the
// session timeout are closed at their last observed activity; sessions
// older than the retention window are erased with everything keyed to
// them.
type Retention struct {
	store     store.Store
	scheduler gocron.Scheduler
	timeout   time.Duration
	maxAge    time.Duration
}

func NewRetention(st store.Store, sessionTimeout time.Duration, retentionDays int) (*Retention, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	r := &Retention{
		store:     st,
		scheduler: scheduler,
		timeout:   sessionTimeout,
		maxAge:    time.Duration(retentionDays) * 24 * time.Hour,
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(r.Sweep),
		gocron.WithName("retention-sweep"),
	); err != nil {
		return nil, fmt.Errorf("failed to register retention job: %w", err)
	}

	return r, nil
}

func (r *Retention) Start() {
	r.scheduler.Start()
	config.Logger.Infof("Retention sweep scheduled hourly (timeout=%s, retention=%s)", r.timeout, r.maxAge)
}

func (r *Retention) Stop() error {
	return r.scheduler.Shutdown()
}

// Sweep runs one maintenance pass. It is exported so operators and tests
// can trigger it outside the schedule.
func (r *Retention) Sweep() {
	now := time.Now().UTC()
	closed := r.closeIdleSessions(now)
	purged := r.purgeExpired(now)
	if closed > 0 || purged > 0 {
		config.Logger.Infof("Retention sweep closed %d idle sessions, purged %d expired sessions", closed, purged)
	}
}

func (r *Retention) closeIdleSessions(now time.Time) int {
	if r.timeout <= 0 {
		return 0
	}

	// Only sessions old enough to possibly be idle need checking
	sessions, err := r.store.ListOpenSessions(now.Add(-r.timeout), sweepBatchSize)
	if err != nil {
		config.Logger.Warn("Retention: failed to list open sessions:", err)
		return 0
	}

	closed := 0
	for _, sess := range sessions {
		last, ok, err := r.store.LatestEventTime(sess.SessionID)
		if err != nil {
			config.Logger.Warn("Retention: failed to read last activity:", err)
			continue
		}
		if !ok {
			last = sess.StartTime
		}
		if now.Sub(last) < r.timeout {
			continue
		}
		if _, err := r.store.EndSession(sess.SessionID, last); err != nil {
			config.Logger.Warn("Retention: failed to close idle session:", err)
			continue
		}
		closed++
	}
	return closed
}

func (r *Retention) purgeExpired(now time.Time) int {
	if r.maxAge <= 0 {
		return 0
	}

	ids, err := r.store.ListSessionIDsOlderThan(now.Add(-r.maxAge), sweepBatchSize)
	if err != nil {
		config.Logger.Warn("Retention: failed to list expired sessions:", err)
		return 0
	}

	purged := 0
	for _, id := range ids {
		existed, err := r.store.DeleteSessionData(id)
		if err != nil {
			config.Logger.Warn("Retention: failed to purge session data:", err)
			continue
		}
		if existed {
			purged++
		}
	}
	return purged
}
