package session

import (
	"time"

	"clementus360/intent-tracker/types"
)

// SnapshotFromEvents rebuilds a behavioral snapshot from a session's stored
// event history, for prediction requests that do not carry one. Scroll depth
// is the maximum observed value, matching how the live aggregate folds
// scroll events.
func SnapshotFromEvents(sess types.Session, events []types.Event, now time.Time) types.Snapshot {
	snap := types.Snapshot{
		DeviceType: sess.DeviceInfo.DeviceType,
		Referrer:   sess.Referrer,
	}

	for _, event := range events {
		switch event.EventType {
		case types.EventClick:
			snap.ClickCount++
		case types.EventPageView:
			snap.PageViews++
		case types.EventScroll:
			if depth, ok := scrollDepthOf(event); ok && depth > snap.ScrollDepthPercent {
				snap.ScrollDepthPercent = depth
			}
		}
	}
	if snap.ScrollDepthPercent > 100 {
		snap.ScrollDepthPercent = 100
	}

	end := now
	if sess.EndTime != nil {
		end = *sess.EndTime
	}
	if elapsed := int(end.Sub(sess.StartTime).Seconds()); elapsed > 0 {
		snap.TimeOnPageSeconds = elapsed
	}

	return snap
}

// scrollDepthOf pulls scroll_depth out of an event's payload. Decoded JSON
// numbers arrive as float64; ints cover payloads built in-process.
func scrollDepthOf(event types.Event) (int, bool) {
	raw, ok := event.EventData["scroll_depth"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return int(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}
