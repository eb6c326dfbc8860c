package services

import (
	"context"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
)

// mockLLM is a scriptable driven.LLMService for tests. Generate and Chat
// behaviour is supplied per-test via function fields; calls are recorded for
// assertions on prompt content and ordering.
type mockLLM struct {
	generateFn func(prompt string) (string, error)
	chatFn     func(messages []driven.ChatMessage) (string, error)

	generatePrompts []string
	chatHistories   [][]driven.ChatMessage
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.generatePrompts = append(m.generatePrompts, prompt)
	if m.generateFn == nil {
		return "ok", nil
	}
	return m.generateFn(prompt)
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	history := make([]driven.ChatMessage, len(messages))
	copy(history, messages)
	m.chatHistories = append(m.chatHistories, history)
	if m.chatFn == nil {
		return "ok", nil
	}
	return m.chatFn(history)
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// scriptedChat returns a chatFn that pops replies in order, repeating the
// last one when the script runs out.
func scriptedChat(replies ...string) func([]driven.ChatMessage) (string, error) {
	i := 0
	return func(_ []driven.ChatMessage) (string, error) {
		reply := replies[min(i, len(replies)-1)]
		i++
		return reply, nil
	}
}

// mockCheckLog records entries in memory.
type mockCheckLog struct {
	entries []driven.CheckLogEntry
	err     error
}

func (m *mockCheckLog) Record(_ context.Context, entry driven.CheckLogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockCheckLog) Recent(_ context.Context, limit int) ([]driven.CheckLogEntry, error) {
	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}
	out := make([]driven.CheckLogEntry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *mockCheckLog) Close() error { return nil }

// testPatient is a representative record exercising every prompt field.
func testPatient() *domain.PatientRecord {
	return &domain.PatientRecord{
		ID:         "P-1",
		Name:       "Jane Doe",
		Age:        67,
		WeightKg:   72.5,
		HeightCm:   165,
		Conditions: []string{"Atrial Fibrillation", "Hypertension"},
		Medications: []domain.Medication{
			{Name: "Warfarin", Dosage: "5mg", Frequency: "daily", Purpose: "anticoagulation"},
			{Name: "Metoprolol", Dosage: "50mg", Frequency: "twice daily", Purpose: "rate control"},
		},
		Allergies: []domain.Allergy{
			{Allergen: "Penicillin", Reaction: "anaphylaxis"},
		},
		RecentLabs: map[string]any{
			"INR":        3.2,
			"creatinine": "1.1 mg/dL",
		},
		LastVisit: "2026-07-14",
	}
}
