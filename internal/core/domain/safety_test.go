package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRiskLevel(t *testing.T) {
	tests := []struct {
		name string
		text string
		want RiskLevel
	}{
		{"empty", "", RiskUnknown},
		{"whitespace only", "   \n\t", RiskUnknown},
		{"high risk phrase", "This combination carries a HIGH RISK of bleeding.", RiskHigh},
		{"contraindicated", "Warfarin plus aspirin is contraindicated here.", RiskHigh},
		{"do not approve", "DECISION: DO NOT APPROVE. Rationale follows.", RiskHigh},
		{"moderate", "Moderate interaction, monitor INR weekly.", RiskModerate},
		{"use with caution", "Use with caution in renal impairment.", RiskModerate},
		{"benign text", "DECISION: APPROVE. No significant interactions found.", RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveRiskLevel(tt.text))
		})
	}
}

func TestSafetyCheckResult_Performed(t *testing.T) {
	r := SafetyCheckResult{
		ChecksPerformed: []string{CheckDrugInteractions, CheckGuidelinesReview},
	}

	assert.True(t, r.Performed(CheckDrugInteractions))
	assert.True(t, r.Performed(CheckGuidelinesReview))
	assert.False(t, r.Performed(CheckAllergySafety))
	assert.False(t, r.Performed(CheckRiskAssessment))
}

func TestPatientRecord_PrimaryCondition(t *testing.T) {
	withConditions := PatientRecord{Conditions: []string{"Atrial Fibrillation", "Hypertension"}}
	assert.Equal(t, "Atrial Fibrillation", withConditions.PrimaryCondition())

	empty := PatientRecord{}
	assert.Equal(t, "Unknown", empty.PrimaryCondition())
}

func TestPatientRecord_Lab(t *testing.T) {
	r := PatientRecord{
		RecentLabs: map[string]any{
			"INR":        2.3,
			"creatinine": 1.1,
			"date":       "2024-10-15",
		},
	}

	assert.Equal(t, "2.3", r.Lab("INR"))
	assert.Equal(t, "1.1", r.Lab("creatinine"))
	assert.Equal(t, "2024-10-15", r.Lab("date"))
	assert.Equal(t, "N/A", r.Lab("HbA1c"))

	var none PatientRecord
	assert.Equal(t, "N/A", none.Lab("INR"))
}
