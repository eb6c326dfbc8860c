package domain

const unknownDescription = "Unknown"

// SessionState is the lifecycle state of a chat session.
//
// A session is Live while backend calls are being attempted. It transitions
// to Degraded when initialisation fails or when a turn fails with a
// quota/resource-exhaustion error; Degraded is terminal for that session
// instance and every later turn returns a canned explanation without
// touching the backend. A fresh session must be started to retry.
type SessionState string

// Available session states.
const (
	// SessionLive means turns are sent to the backend.
	SessionLive SessionState = "live"

	// SessionDegraded means the backend is not being called any more.
	SessionDegraded SessionState = "degraded"
)

// IsValid returns true if the session state is recognised.
func (s SessionState) IsValid() bool {
	switch s {
	case SessionLive, SessionDegraded:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SessionState) String() string {
	return string(s)
}

// Description returns a human-readable description of the state.
func (s SessionState) Description() string {
	switch s {
	case SessionLive:
		return "Live (backend calls enabled)"
	case SessionDegraded:
		return "Degraded (backend unavailable, canned replies)"
	default:
		return unknownDescription
	}
}
