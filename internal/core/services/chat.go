package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driving"
	"github.com/clinsafe/guardian-cli/internal/logger"
	"github.com/clinsafe/guardian-cli/internal/modelout"
)

// Ensure the implementations satisfy the interfaces.
var (
	_ driving.ChatService = (*ChatService)(nil)
	_ driving.ChatSession = (*AgentSession)(nil)
)

// defaultChatSystemPrompt establishes the safety agent persona and the JSON
// tool-call protocol.
const defaultChatSystemPrompt = `You are the Patient Safety Guardian, a senior clinical safety agent.
YOUR MISSION: protect patients by checking orders, drug interactions,
allergies, and offering safer alternatives. Always prioritise patient
safety and evidence-based care.

You can call tools. To call one, reply with ONLY a JSON object on its own:
{"tool": "<name>", "args": {...}}

Available tools:
- get_patient_record {}
- add_clinical_note {"note": string}
- check_drug_interactions {"medication": string}
- check_allergy_safety {"medication": string}
- assess_patient_risk {"treatment": string}
- check_treatment_guidelines {"condition": string, "treatment": string}
- generate_differential_diagnosis {"symptoms": string}
- generate_patient_education {"medication": string, "reading_level": string}

Tool results arrive as a user message beginning with "TOOL RESULT". After
receiving one, answer the clinician in plain language.`

// primingMessage opens the conversation and doubles as the connectivity
// probe: if this turn fails, the session starts Degraded.
const primingMessage = "A clinician has started a session. Greet them in one or two sentences and mention you can run safety checks."

// maxToolHops bounds consecutive tool calls within a single turn so a model
// stuck in a tool loop cannot spin forever.
const maxToolHops = 3

// chatMaxTokens bounds each conversational reply.
const chatMaxTokens = 1024

// ChatService creates chat sessions with the safety agent.
type ChatService struct {
	llm         driven.LLMService
	tools       *Toolset
	promptStore driven.PromptStore
}

// NewChatService creates a chat service over the given LLM and toolset.
func NewChatService(llm driven.LLMService, tools *Toolset) *ChatService {
	return &ChatService{llm: llm, tools: tools}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// NewSession opens a session primed with the safety-guardian persona. A
// session is always returned: when the priming turn fails the session comes
// back already Degraded, so callers can keep their UI running on canned
// replies instead of branching on an error.
func (s *ChatService) NewSession(ctx context.Context) driving.ChatSession {
	system := defaultChatSystemPrompt
	if s.promptStore != nil {
		if p, err := s.promptStore.Load(driven.PromptChatSystem); err == nil {
			system = p
		}
	}

	session := &AgentSession{
		llm:   s.llm,
		tools: s.tools,
		state: domain.SessionLive,
		history: []driven.ChatMessage{
			{Role: "system", Content: system},
		},
	}

	if s.llm == nil {
		session.degrade(domain.ErrLLMUnavailable)
		return session
	}

	greeting, err := session.turn(ctx, primingMessage)
	if err != nil {
		logger.Warn("Chat priming failed: %v", err)
		session.degrade(err)
		return session
	}
	session.greeting = greeting
	return session
}

// AgentSession is one stateful conversation with the safety agent. It is a
// two-state machine: Live sessions talk to the model, Degraded sessions
// answer from a canned reply. Degraded is terminal.
//
// Sessions are not safe for concurrent use; each caller owns its own.
type AgentSession struct {
	llm   driven.LLMService
	tools *Toolset

	state    domain.SessionState
	failure  string
	greeting string
	history  []driven.ChatMessage
}

// Greeting returns the agent's opening message, empty when the session
// started Degraded.
func (s *AgentSession) Greeting() string {
	return s.greeting
}

// State returns the current session state.
func (s *AgentSession) State() domain.SessionState {
	return s.state
}

// SendMessage issues one conversation turn and returns the reply text.
//
// A quota-exhaustion failure flips the session to Degraded and returns the
// canned reply rather than an error; so does every call after that. Other
// failures are returned as plain errors and leave the session Live, since a
// transient network fault does not condemn the conversation.
func (s *AgentSession) SendMessage(ctx context.Context, text string) (string, error) {
	if s.state == domain.SessionDegraded {
		return s.degradedReply(), nil
	}

	reply, err := s.turn(ctx, text)
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExhausted) {
			s.degrade(err)
			return s.degradedReply(), nil
		}
		return "", err
	}
	return reply, nil
}

// turn appends the user message, runs the model plus any tool hops, and
// returns the final plain-language reply.
func (s *AgentSession) turn(ctx context.Context, text string) (string, error) {
	s.history = append(s.history, driven.ChatMessage{Role: "user", Content: text})

	var reply string
	for hop := 0; ; hop++ {
		var err error
		reply, err = s.llm.Chat(ctx, s.history, driven.ChatOptions{
			MaxTokens:   chatMaxTokens,
			Temperature: 0.3,
		})
		if err != nil {
			return "", err
		}
		s.history = append(s.history, driven.ChatMessage{Role: "assistant", Content: reply})

		call, ok := s.parseToolCall(reply)
		if !ok || hop >= maxToolHops {
			return reply, nil
		}

		logger.Debug("Tool call: %s", call.Tool)
		result, err := s.tools.Dispatch(ctx, call.Tool, call.Args)
		if err != nil {
			if errors.Is(err, domain.ErrQuotaExhausted) {
				return "", err
			}
			result = fmt.Sprintf("error: %v", err)
		}
		s.history = append(s.history, driven.ChatMessage{
			Role:    "user",
			Content: fmt.Sprintf("TOOL RESULT (%s):\n%s", call.Tool, result),
		})
	}
}

// parseToolCall reports whether the reply is a tool invocation. Replies that
// contain JSON but name no tool are treated as plain text.
func (s *AgentSession) parseToolCall(reply string) (toolCall, bool) {
	if s.tools == nil {
		return toolCall{}, false
	}
	var call toolCall
	if err := modelout.Decode(reply, &call); err != nil {
		return toolCall{}, false
	}
	if strings.TrimSpace(call.Tool) == "" {
		return toolCall{}, false
	}
	return call, true
}

// degrade moves the session to its terminal state, capturing the failure.
func (s *AgentSession) degrade(err error) {
	s.state = domain.SessionDegraded
	s.failure = err.Error()
}

func (s *AgentSession) degradedReply() string {
	return fmt.Sprintf(
		"The AI safety assistant is unavailable (%s). "+
			"Conversational analysis is suspended for this session. "+
			"Patient records and the check history remain available through the CLI commands. "+
			"Start a new session once the provider quota has been restored.",
		s.failure,
	)
}
