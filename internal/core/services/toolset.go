package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clinsafe/guardian-cli/internal/core/ports/driving"
)

// Toolset dispatches the agent's tool calls onto the patient and safety
// services. The tool names and argument shapes mirror the protocol announced
// in the chat system prompt.
type Toolset struct {
	patients driving.PatientService
	safety   driving.SafetyService
}

// NewToolset creates a toolset over the given services.
func NewToolset(patients driving.PatientService, safety driving.SafetyService) *Toolset {
	return &Toolset{patients: patients, safety: safety}
}

// toolCall is the JSON shape the agent emits to invoke a tool.
type toolCall struct {
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args"`
}

// Dispatch runs the named tool and returns its text result. Unknown tools
// and malformed arguments come back as errors for the session to relay to
// the model; they never terminate the conversation.
func (t *Toolset) Dispatch(ctx context.Context, name string, args json.RawMessage) (string, error) {
	switch name {
	case "get_patient_record":
		record, err := t.patients.GetActive(ctx)
		if err != nil {
			return "", err
		}
		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return "", fmt.Errorf("serialising record: %w", err)
		}
		return string(out), nil

	case "add_clinical_note":
		var a struct {
			Note string `json:"note"`
		}
		if err := t.decode(args, &a); err != nil {
			return "", err
		}
		if err := t.patients.AppendNote(ctx, a.Note); err != nil {
			return "", err
		}
		return "Note recorded.", nil

	case "check_drug_interactions":
		var a struct {
			Medication string `json:"medication"`
		}
		if err := t.decode(args, &a); err != nil {
			return "", err
		}
		return t.safety.CheckDrugInteractions(ctx, a.Medication)

	case "check_allergy_safety":
		var a struct {
			Medication string `json:"medication"`
		}
		if err := t.decode(args, &a); err != nil {
			return "", err
		}
		return t.safety.CheckAllergySafety(ctx, a.Medication)

	case "assess_patient_risk":
		var a struct {
			Treatment string `json:"treatment"`
		}
		if err := t.decode(args, &a); err != nil {
			return "", err
		}
		return t.safety.AssessRisk(ctx, a.Treatment)

	case "check_treatment_guidelines":
		var a struct {
			Condition string `json:"condition"`
			Treatment string `json:"treatment"`
		}
		if err := t.decode(args, &a); err != nil {
			return "", err
		}
		return t.safety.CheckGuidelines(ctx, a.Condition, a.Treatment)

	case "generate_differential_diagnosis":
		var a struct {
			Symptoms string `json:"symptoms"`
		}
		if err := t.decode(args, &a); err != nil {
			return "", err
		}
		return t.safety.GenerateDifferential(ctx, a.Symptoms)

	case "generate_patient_education":
		var a struct {
			Medication   string `json:"medication"`
			ReadingLevel string `json:"reading_level"`
		}
		if err := t.decode(args, &a); err != nil {
			return "", err
		}
		return t.safety.GenerateEducation(ctx, a.Medication, a.ReadingLevel)

	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}

func (t *Toolset) decode(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("bad tool arguments: %w", err)
	}
	return nil
}
