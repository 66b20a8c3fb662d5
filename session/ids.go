package session

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Client-supplied session ids must look like ours: the sess_ prefix and a
// plausible random tail. The lower bound admits older clients that sent
// shorter ids.
var sessionIDPattern = regexp.MustCompile(`^sess_[A-Za-z0-9]{12,64}$`)

// NewSessionID returns a collision-resistant session identifier.
func NewSessionID() string {
	return "sess_" + randomHex()
}

// NewEventID returns a unique event identifier. Events carry their id from
// the client so retried submissions stay idempotent.
func NewEventID() string {
	return "evt_" + randomHex()
}

// NewPredictionID returns a unique prediction identifier.
func NewPredictionID() string {
	return "pred_" + randomHex()
}

// ValidSessionID reports whether a client-supplied id is acceptable.
func ValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

func randomHex() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
