package session

import "fmt"

// InitializationError reports that the backing store could not be reached
// while starting a session. The session keeps working locally; the error
// tells the caller it is running disconnected.
type InitializationError struct {
	SessionID string
	Err       error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("session %s started in disconnected mode: %v", e.SessionID, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }
