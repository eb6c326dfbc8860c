package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driving"
	"github.com/clinsafe/guardian-cli/internal/logger"
	"github.com/clinsafe/guardian-cli/internal/modelout"
)

// Ensure OrderParser implements the interface.
var _ driving.OrderService = (*OrderParser)(nil)

// defaultParseOrderPrompt is the fallback when no PromptStore is configured.
const defaultParseOrderPrompt = `Parse this medical order into structured JSON format:

ORDER: "%s"

Extract and return ONLY valid JSON (no markdown, no explanation):
{
  "patient_name": "name if mentioned or null",
  "medication": "drug name",
  "dosage": "amount with unit",
  "frequency": "how often",
  "route": "oral/IV/etc or null",
  "indication": "reason/purpose",
  "duration": "how long or null"
}

If information is missing, use null. Do not include any additional keys.
Return only JSON.`

// OrderParser extracts structured medication orders from free text with one
// model call plus the modelout recovery ladder.
type OrderParser struct {
	llm         driven.LLMService
	promptStore driven.PromptStore
}

// NewOrderParser creates an order parser over the given LLM service.
func NewOrderParser(llm driven.LLMService) *OrderParser {
	return &OrderParser{llm: llm}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (p *OrderParser) SetPromptStore(store driven.PromptStore) {
	p.promptStore = store
}

// ParseOrder extracts a fixed-schema order from free text. A decode failure
// after every recovery stage comes back as a *domain.ParseError carrying the
// raw model output; it is data for the caller to display, never a crash.
func (p *OrderParser) ParseOrder(ctx context.Context, text string) (*domain.ParsedOrder, error) {
	if p.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty order text", domain.ErrInvalidInput)
	}

	prompt := fmt.Sprintf(p.loadPrompt(driven.PromptParseOrder, defaultParseOrderPrompt), text)

	logger.Section("Order Parsing")
	logger.Debug("Order text: %q", text)

	raw, err := p.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   512,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("parse order: %w", err)
	}

	var order domain.ParsedOrder
	if err := modelout.Decode(raw, &order); err != nil {
		logger.Warn("Order decode failed: %v", err)
		return nil, err
	}
	return &order, nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (p *OrderParser) loadPrompt(name, fallback string) string {
	if p.promptStore == nil {
		return fallback
	}
	prompt, err := p.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
