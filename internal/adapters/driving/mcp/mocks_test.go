package mcp

import (
	"context"
	"time"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
)

// mockPatientService implements driving.PatientService for testing.
type mockPatientService struct {
	active string
	record *domain.PatientRecord
	notes  []string
	err    error
}

func (m *mockPatientService) ListPatients(_ context.Context) ([]domain.PatientSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.PatientSummary{{ID: "P-1", Name: "Jane Doe"}}, nil
}

func (m *mockPatientService) GetActive(_ context.Context) (*domain.PatientRecord, error) {
	if m.record == nil {
		return nil, domain.ErrNoActivePatient
	}
	return m.record, nil
}

func (m *mockPatientService) ActiveID() string { return m.active }

func (m *mockPatientService) SetActive(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.active = id
	return nil
}

func (m *mockPatientService) AppendNote(_ context.Context, note string) error {
	if m.err != nil {
		return m.err
	}
	m.notes = append(m.notes, note)
	return nil
}

func (m *mockPatientService) Create(_ context.Context, _ *domain.PatientRecord) error {
	return m.err
}

// mockSafetyService implements driving.SafetyService for testing.
type mockSafetyService struct {
	err error
}

func (m *mockSafetyService) CheckDrugInteractions(_ context.Context, med string) (string, error) {
	return "interactions for " + med, m.err
}

func (m *mockSafetyService) CheckAllergySafety(_ context.Context, med string) (string, error) {
	return "allergies for " + med, m.err
}

func (m *mockSafetyService) AssessRisk(_ context.Context, treatment string) (string, error) {
	return "risk for " + treatment, m.err
}

func (m *mockSafetyService) CheckGuidelines(_ context.Context, condition, treatment string) (string, error) {
	return "guidelines for " + condition + "/" + treatment, m.err
}

func (m *mockSafetyService) GenerateEducation(_ context.Context, med, level string) (string, error) {
	return "education for " + med + " at " + level, m.err
}

func (m *mockSafetyService) GenerateDifferential(_ context.Context, symptoms string) (string, error) {
	return "differential for " + symptoms, m.err
}

func (m *mockSafetyService) RunComprehensiveCheck(_ context.Context, medication, dosage string) *domain.SafetyCheckResult {
	return &domain.SafetyCheckResult{
		ID:                  "chk-mcp",
		Medication:          medication,
		Dosage:              dosage,
		Timestamp:           time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
		FinalRecommendation: "DECISION: DO NOT APPROVE. Contraindicated.",
	}
}

// mockCheckLog implements driven.CheckLog for testing.
type mockCheckLog struct {
	entries []driven.CheckLogEntry
}

func (m *mockCheckLog) Record(_ context.Context, entry driven.CheckLogEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockCheckLog) Recent(_ context.Context, _ int) ([]driven.CheckLogEntry, error) {
	return m.entries, nil
}

func (m *mockCheckLog) Close() error { return nil }

// makeLogEntry builds a representative audit entry.
func makeLogEntry() driven.CheckLogEntry {
	return driven.CheckLogEntry{
		PatientID: "P-1",
		Result: domain.SafetyCheckResult{
			ID:         "chk-1",
			Medication: "Amiodarone",
			Dosage:     "200mg",
			Timestamp:  time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
		},
		RiskLevel: domain.RiskHigh,
	}
}
