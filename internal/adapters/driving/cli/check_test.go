package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

// mockSafetyService implements driving.SafetyService for testing.
type mockSafetyService struct {
	result    *domain.SafetyCheckResult
	education string
}

func (m *mockSafetyService) CheckDrugInteractions(_ context.Context, _ string) (string, error) {
	return "no interactions", nil
}

func (m *mockSafetyService) CheckAllergySafety(_ context.Context, _ string) (string, error) {
	return "no allergy risk", nil
}

func (m *mockSafetyService) AssessRisk(_ context.Context, _ string) (string, error) {
	return "low risk", nil
}

func (m *mockSafetyService) CheckGuidelines(_ context.Context, _, _ string) (string, error) {
	return "first line", nil
}

func (m *mockSafetyService) GenerateEducation(_ context.Context, _, _ string) (string, error) {
	return m.education, nil
}

func (m *mockSafetyService) GenerateDifferential(_ context.Context, _ string) (string, error) {
	return "differential text", nil
}

func (m *mockSafetyService) RunComprehensiveCheck(_ context.Context, medication, dosage string) *domain.SafetyCheckResult {
	if m.result != nil {
		return m.result
	}
	return &domain.SafetyCheckResult{
		ID:         "chk-test",
		Medication: medication,
		Dosage:     dosage,
		Timestamp:  time.Now(),
	}
}

func setupSafetyTest(m *mockSafetyService) func() {
	old := safetyService
	safetyService = m
	return func() {
		safetyService = old
	}
}

func TestCheckCmd_Use(t *testing.T) {
	assert.Equal(t, "check [medication] [dosage]", checkCmd.Use)
}

func TestCheckCmd_Executes(t *testing.T) {
	cleanup := setupSafetyTest(&mockSafetyService{
		result: &domain.SafetyCheckResult{
			ID:         "chk-9",
			Medication: "Lisinopril",
			Dosage:     "10mg",
			ChecksPerformed: []string{
				domain.CheckDrugInteractions,
				domain.CheckAllergySafety,
				domain.CheckRiskAssessment,
				domain.CheckGuidelinesReview,
			},
			DrugInteractions:    "no significant interactions",
			AllergySafety:       "no cross-reactivity",
			RiskAssessment:      "low overall risk",
			Guidelines:          "first-line therapy",
			FinalRecommendation: "DECISION: APPROVE",
		},
	})
	defer cleanup()

	out, err := execute("check", "Lisinopril", "10mg")

	assert.NoError(t, err)
	assert.Contains(t, out, "Safety Check: Lisinopril 10mg")
	assert.Contains(t, out, "no significant interactions")
	assert.Contains(t, out, "DECISION: APPROVE")
	assert.Contains(t, out, "Check ID: chk-9")
}

func TestCheckCmd_NotCheckedSections(t *testing.T) {
	cleanup := setupSafetyTest(&mockSafetyService{
		result: &domain.SafetyCheckResult{
			ID:         "chk-10",
			Medication: "Cephalexin",
			ChecksPerformed: []string{
				domain.CheckDrugInteractions,
				domain.CheckRiskAssessment,
				domain.CheckGuidelinesReview,
			},
			DrugInteractions:    "ok",
			AllergySafety:       "Check failed: upstream timeout",
			RiskAssessment:      "ok",
			Guidelines:          "ok",
			FinalRecommendation: "DECISION: APPROVE WITH MODIFICATIONS",
		},
	})
	defer cleanup()

	out, err := execute("check", "Cephalexin")

	assert.NoError(t, err)
	assert.Contains(t, out, domain.NotChecked)
	assert.Contains(t, out, "upstream timeout")
}

func TestCheckCmd_PreconditionFailure(t *testing.T) {
	cleanup := setupSafetyTest(&mockSafetyService{
		result: &domain.SafetyCheckResult{
			ID:         "chk-11",
			Medication: "Lisinopril",
			Error:      "cannot read active patient: no active patient selected",
		},
	})
	defer cleanup()

	_, err := execute("check", "Lisinopril")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "safety check aborted")
}

func TestCheckCmd_ServiceNotConfigured(t *testing.T) {
	old := safetyService
	safetyService = nil
	defer func() { safetyService = old }()

	_, err := execute("check", "Lisinopril")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "safety service not configured")
}

func TestEducationCmd_Executes(t *testing.T) {
	cleanup := setupSafetyTest(&mockSafetyService{education: "Take with water."})
	defer cleanup()

	out, err := execute("education", "Warfarin")

	assert.NoError(t, err)
	assert.Contains(t, out, "Take with water.")
}

func TestDifferentialCmd_Executes(t *testing.T) {
	cleanup := setupSafetyTest(&mockSafetyService{})
	defer cleanup()

	out, err := execute("differential", "chest", "pain", "on", "exertion")

	assert.NoError(t, err)
	assert.Contains(t, out, "differential text")
}
