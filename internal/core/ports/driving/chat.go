package driving

import (
	"context"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

// ChatSession is one stateful conversation with the safety agent.
//
// A session starts Live. When initialisation or a turn fails with a
// quota/resource-exhaustion error, the session itself transitions to
// Degraded: every subsequent SendMessage returns a fixed explanatory text,
// including the captured failure message, without attempting another
// backend call. Degraded is terminal; obtain a fresh session to retry.
type ChatSession interface {
	// SendMessage issues one conversation turn and returns the reply text.
	SendMessage(ctx context.Context, text string) (string, error)

	// State returns the current session state.
	State() domain.SessionState
}

// ChatService creates chat sessions with the safety agent.
type ChatService interface {
	// NewSession opens a session primed with the safety-guardian persona.
	// A session is always returned: when priming fails the session comes
	// back already Degraded instead of an error, so the caller's UI keeps
	// working with canned replies.
	NewSession(ctx context.Context) ChatSession
}
