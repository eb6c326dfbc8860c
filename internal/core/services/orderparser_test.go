package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

func TestOrderParser_ParseOrder(t *testing.T) {
	llm := &mockLLM{
		generateFn: func(_ string) (string, error) {
			return "```json\n" + `{
  "patient_name": null,
  "medication": "Lisinopril",
  "dosage": "10mg",
  "frequency": "daily",
  "route": "oral",
  "indication": "hypertension",
  "duration": null
}` + "\n```", nil
		},
	}
	parser := NewOrderParser(llm)

	order, err := parser.ParseOrder(context.Background(), "start lisinopril 10mg daily for HTN")
	require.NoError(t, err)

	require.NotNil(t, order.Medication)
	assert.Equal(t, "Lisinopril", *order.Medication)
	require.NotNil(t, order.Dosage)
	assert.Equal(t, "10mg", *order.Dosage)
	assert.Nil(t, order.PatientName)
	assert.Nil(t, order.Duration)

	// The order text is interpolated into the prompt verbatim.
	require.Len(t, llm.generatePrompts, 1)
	assert.Contains(t, llm.generatePrompts[0], "start lisinopril 10mg daily for HTN")
}

func TestOrderParser_ParseOrder_ProseWrappedJSON(t *testing.T) {
	llm := &mockLLM{
		generateFn: func(_ string) (string, error) {
			return `Here is the parsed order: {"medication": "Aspirin", "dosage": "81mg"} Let me know if you need anything else.`, nil
		},
	}
	parser := NewOrderParser(llm)

	order, err := parser.ParseOrder(context.Background(), "aspirin 81 daily")
	require.NoError(t, err)
	require.NotNil(t, order.Medication)
	assert.Equal(t, "Aspirin", *order.Medication)
}

func TestOrderParser_ParseOrder_Unparseable(t *testing.T) {
	llm := &mockLLM{
		generateFn: func(_ string) (string, error) {
			return "I could not determine a structured order from that text.", nil
		},
	}
	parser := NewOrderParser(llm)

	_, err := parser.ParseOrder(context.Background(), "gibberish")
	require.Error(t, err)

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Raw, "could not determine")
}

func TestOrderParser_ParseOrder_EmptyText(t *testing.T) {
	parser := NewOrderParser(&mockLLM{})

	_, err := parser.ParseOrder(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderParser_ParseOrder_NoLLM(t *testing.T) {
	parser := NewOrderParser(nil)

	_, err := parser.ParseOrder(context.Background(), "metformin 500mg")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
