package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsafe/guardian-cli/internal/adapters/driven/storage/memory"
	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
)

func newChatFixture(t *testing.T, llm *mockLLM) *ChatService {
	t.Helper()
	store := memory.NewPatientStore()
	require.NoError(t, store.Put(context.Background(), testPatient()))

	patients := NewPatientService(store)
	require.NoError(t, patients.SetActive(context.Background(), "P-1"))

	safety := NewSafetyService(llm, patients, nil, nil)
	return NewChatService(llm, NewToolset(patients, safety))
}

func TestChatService_NewSession_Primes(t *testing.T) {
	llm := &mockLLM{chatFn: scriptedChat("Hello, I'm your safety guardian.")}
	svc := newChatFixture(t, llm)

	session := svc.NewSession(context.Background())
	require.NotNil(t, session)
	assert.Equal(t, domain.SessionLive, session.State())

	agent, ok := session.(*AgentSession)
	require.True(t, ok)
	assert.Equal(t, "Hello, I'm your safety guardian.", agent.Greeting())

	// The priming turn carries the persona as a system message.
	require.Len(t, llm.chatHistories, 1)
	history := llm.chatHistories[0]
	require.NotEmpty(t, history)
	assert.Equal(t, "system", history[0].Role)
	assert.Contains(t, history[0].Content, "Patient Safety Guardian")
}

func TestChatService_NewSession_PrimingFailureDegrades(t *testing.T) {
	llm := &mockLLM{
		chatFn: func(_ []driven.ChatMessage) (string, error) {
			return "", fmt.Errorf("anthropic: %w: credit balance too low", domain.ErrQuotaExhausted)
		},
	}
	svc := newChatFixture(t, llm)

	session := svc.NewSession(context.Background())
	require.NotNil(t, session)
	assert.Equal(t, domain.SessionDegraded, session.State())

	calls := len(llm.chatHistories)
	reply, err := session.SendMessage(context.Background(), "is lisinopril safe?")
	require.NoError(t, err)
	assert.Contains(t, reply, "credit balance too low")
	assert.Contains(t, reply, "unavailable")

	// Degraded sessions never touch the backend again.
	assert.Len(t, llm.chatHistories, calls)
}

func TestChatService_NewSession_NoLLM(t *testing.T) {
	svc := NewChatService(nil, nil)

	session := svc.NewSession(context.Background())
	require.NotNil(t, session)
	assert.Equal(t, domain.SessionDegraded, session.State())
}

func TestAgentSession_SendMessage(t *testing.T) {
	llm := &mockLLM{chatFn: scriptedChat(
		"Hi, I'm ready.",
		"Lisinopril looks reasonable for this patient.",
	)}
	svc := newChatFixture(t, llm)
	session := svc.NewSession(context.Background())

	reply, err := session.SendMessage(context.Background(), "thoughts on lisinopril?")
	require.NoError(t, err)
	assert.Equal(t, "Lisinopril looks reasonable for this patient.", reply)
	assert.Equal(t, domain.SessionLive, session.State())
}

func TestAgentSession_ToolCallLoop(t *testing.T) {
	llm := &mockLLM{chatFn: scriptedChat(
		"Hi, I'm ready.",
		`{"tool": "get_patient_record", "args": {}}`,
		"Jane Doe is 67 and takes warfarin.",
	)}
	svc := newChatFixture(t, llm)
	session := svc.NewSession(context.Background())

	reply, err := session.SendMessage(context.Background(), "who is the active patient?")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe is 67 and takes warfarin.", reply)

	// The tool result was fed back as a user message containing the record.
	final := llm.chatHistories[len(llm.chatHistories)-1]
	feedback := final[len(final)-1]
	assert.Equal(t, "user", feedback.Role)
	assert.Contains(t, feedback.Content, "TOOL RESULT (get_patient_record)")
	assert.Contains(t, feedback.Content, "Jane Doe")
}

func TestAgentSession_UnknownToolFedBackAsError(t *testing.T) {
	llm := &mockLLM{chatFn: scriptedChat(
		"Hi, I'm ready.",
		`{"tool": "launch_rockets", "args": {}}`,
		"Sorry, I tried a tool that does not exist.",
	)}
	svc := newChatFixture(t, llm)
	session := svc.NewSession(context.Background())

	reply, err := session.SendMessage(context.Background(), "do something odd")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I tried a tool that does not exist.", reply)

	final := llm.chatHistories[len(llm.chatHistories)-1]
	feedback := final[len(final)-1]
	assert.Contains(t, feedback.Content, "unknown tool")
}

func TestAgentSession_ToolLoopIsBounded(t *testing.T) {
	// The model keeps asking for the same tool; the session must stop after
	// a fixed number of hops instead of spinning.
	llm := &mockLLM{chatFn: scriptedChat(
		"Hi, I'm ready.",
		`{"tool": "get_patient_record", "args": {}}`,
	)}
	svc := newChatFixture(t, llm)
	session := svc.NewSession(context.Background())

	calls := len(llm.chatHistories)
	_, err := session.SendMessage(context.Background(), "loop forever")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(llm.chatHistories)-calls, maxToolHops+1)
}

func TestAgentSession_QuotaExhaustionMidSession(t *testing.T) {
	turns := 0
	llm := &mockLLM{
		chatFn: func(_ []driven.ChatMessage) (string, error) {
			turns++
			if turns == 1 {
				return "Hi, I'm ready.", nil
			}
			return "", fmt.Errorf("openai: %w", domain.ErrQuotaExhausted)
		},
	}
	svc := newChatFixture(t, llm)
	session := svc.NewSession(context.Background())
	require.Equal(t, domain.SessionLive, session.State())

	reply, err := session.SendMessage(context.Background(), "check warfarin")
	require.NoError(t, err)
	assert.Contains(t, reply, "unavailable")
	assert.Equal(t, domain.SessionDegraded, session.State())

	// Degraded is terminal: the next turn is answered without a model call.
	before := turns
	reply, err = session.SendMessage(context.Background(), "hello?")
	require.NoError(t, err)
	assert.Contains(t, reply, "unavailable")
	assert.Equal(t, before, turns)
}

func TestAgentSession_TransientErrorStaysLive(t *testing.T) {
	turns := 0
	llm := &mockLLM{
		chatFn: func(_ []driven.ChatMessage) (string, error) {
			turns++
			switch turns {
			case 1:
				return "Hi, I'm ready.", nil
			case 2:
				return "", errors.New("connection reset")
			default:
				return "Back online.", nil
			}
		},
	}
	svc := newChatFixture(t, llm)
	session := svc.NewSession(context.Background())

	_, err := session.SendMessage(context.Background(), "first try")
	require.Error(t, err)
	assert.Equal(t, domain.SessionLive, session.State())

	reply, err := session.SendMessage(context.Background(), "second try")
	require.NoError(t, err)
	assert.Equal(t, "Back online.", reply)
}
