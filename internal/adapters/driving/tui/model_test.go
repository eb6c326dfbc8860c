package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driving"
)

// mockSession implements driving.ChatSession for testing.
type mockSession struct {
	state    domain.SessionState
	reply    string
	greeting string
	sent     []string
}

func (m *mockSession) SendMessage(_ context.Context, text string) (string, error) {
	m.sent = append(m.sent, text)
	return m.reply, nil
}

func (m *mockSession) State() domain.SessionState { return m.state }

func (m *mockSession) Greeting() string { return m.greeting }

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	session *mockSession
}

func (m *mockChatService) NewSession(_ context.Context) driving.ChatSession {
	return m.session
}

func newTestModel(session *mockSession) *model {
	m := newModel(context.Background(), &mockChatService{session: session}, nil)
	// Simulate the initial window size message so the viewport exists.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(*model)
}

func TestModel_SessionReady(t *testing.T) {
	session := &mockSession{state: domain.SessionLive, greeting: "Hello, clinician."}
	m := newTestModel(session)

	msg := m.openSession()()
	ready, ok := msg.(sessionReadyMsg)
	require.True(t, ok)
	assert.Equal(t, "Hello, clinician.", ready.greeting)

	updated, _ := m.Update(ready)
	m = updated.(*model)
	assert.Contains(t, m.View(), "Hello, clinician.")
}

func TestModel_DegradedSessionShowsNotice(t *testing.T) {
	session := &mockSession{state: domain.SessionDegraded}
	m := newTestModel(session)

	updated, _ := m.Update(sessionReadyMsg{session: session})
	m = updated.(*model)

	assert.Contains(t, m.View(), "degraded")
}

func TestModel_EnterSendsMessage(t *testing.T) {
	session := &mockSession{state: domain.SessionLive, reply: "Looks safe."}
	m := newTestModel(session)

	updated, _ := m.Update(sessionReadyMsg{session: session})
	m = updated.(*model)

	m.input.SetValue("check lisinopril")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*model)
	require.NotNil(t, cmd)
	assert.True(t, m.waiting)

	// Run the send command and feed the reply back through Update.
	reply := findReply(t, cmd())
	updated, _ = m.Update(reply)
	m = updated.(*model)

	assert.Equal(t, []string{"check lisinopril"}, session.sent)
	assert.False(t, m.waiting)
	assert.Contains(t, m.View(), "Looks safe.")
}

func TestModel_EmptyInputNotSent(t *testing.T) {
	session := &mockSession{state: domain.SessionLive}
	m := newTestModel(session)

	updated, _ := m.Update(sessionReadyMsg{session: session})
	m = updated.(*model)

	m.input.SetValue("   ")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*model)

	assert.Empty(t, session.sent)
	assert.False(t, m.waiting)
}

func TestModel_RecordChangeNotice(t *testing.T) {
	session := &mockSession{state: domain.SessionLive}
	m := newTestModel(session)

	updated, _ := m.Update(recordChangedMsg{patientID: "P-1"})
	m = updated.(*model)

	assert.Contains(t, m.View(), "record P-1 changed")
}

// findReply unwraps a possibly batched command result into the replyMsg.
func findReply(t *testing.T, msg tea.Msg) replyMsg {
	t.Helper()
	if reply, ok := extractReply(msg); ok {
		return reply
	}
	t.Fatalf("no replyMsg found in %T", msg)
	return replyMsg{}
}

func extractReply(msg tea.Msg) (replyMsg, bool) {
	switch v := msg.(type) {
	case replyMsg:
		return v, true
	case tea.BatchMsg:
		for _, c := range v {
			if c == nil {
				continue
			}
			if reply, ok := extractReply(c()); ok {
				return reply, true
			}
		}
	}
	return replyMsg{}, false
}
