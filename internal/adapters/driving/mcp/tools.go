package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

// ListPatientsInput is the input schema for the list_patients tool.
type ListPatientsInput struct{}

// ListPatientsOutput is the output schema for the list_patients tool.
type ListPatientsOutput struct {
	Patients []PatientSummaryOutput `json:"patients"`
	ActiveID string                 `json:"active_id,omitempty"`
}

// PatientSummaryOutput is one patient in a listing.
type PatientSummaryOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SetActivePatientInput is the input schema for the set_active_patient tool.
type SetActivePatientInput struct {
	PatientID string `json:"patient_id" jsonschema:"the ID of the patient to select"`
}

// SetActivePatientOutput is the output schema for the set_active_patient tool.
type SetActivePatientOutput struct {
	ActiveID string `json:"active_id"`
}

// GetPatientRecordInput is the input schema for the get_patient_record tool.
type GetPatientRecordInput struct{}

// GetPatientRecordOutput is the output schema for the get_patient_record tool.
type GetPatientRecordOutput struct {
	Record *domain.PatientRecord `json:"record"`
}

// AddClinicalNoteInput is the input schema for the add_clinical_note tool.
type AddClinicalNoteInput struct {
	Note string `json:"note" jsonschema:"the clinical note text to append"`
}

// AddClinicalNoteOutput is the output schema for the add_clinical_note tool.
type AddClinicalNoteOutput struct {
	Recorded bool `json:"recorded"`
}

// MedicationInput is the input schema for the single-medication check tools.
type MedicationInput struct {
	Medication string `json:"medication" jsonschema:"the medication to analyse"`
}

// TreatmentInput is the input schema for the assess_patient_risk tool.
type TreatmentInput struct {
	Treatment string `json:"treatment" jsonschema:"the proposed treatment"`
}

// GuidelinesInput is the input schema for the check_treatment_guidelines tool.
type GuidelinesInput struct {
	Condition string `json:"condition,omitempty" jsonschema:"the condition being treated (defaults to the patient's primary condition)"`
	Treatment string `json:"treatment" jsonschema:"the proposed treatment"`
}

// AnalysisOutput is the output schema shared by the advisory tools.
type AnalysisOutput struct {
	Analysis string `json:"analysis"`
}

// RunSafetyCheckInput is the input schema for the run_safety_check tool.
type RunSafetyCheckInput struct {
	Medication string `json:"medication" jsonschema:"the medication to check"`
	Dosage     string `json:"dosage,omitempty" jsonschema:"the proposed dosage"`
}

// RunSafetyCheckOutput is the output schema for the run_safety_check tool.
type RunSafetyCheckOutput struct {
	Result    *domain.SafetyCheckResult `json:"result"`
	RiskLevel string                    `json:"risk_level"`
}

// DifferentialInput is the input schema for the generate_differential_diagnosis tool.
type DifferentialInput struct {
	Symptoms string `json:"symptoms" jsonschema:"the presenting symptoms"`
}

// EducationInput is the input schema for the generate_patient_education tool.
type EducationInput struct {
	Medication   string `json:"medication" jsonschema:"the medication to explain"`
	ReadingLevel string `json:"reading_level,omitempty" jsonschema:"target reading level (default 8th grade)"`
}

// ParseOrderInput is the input schema for the parse_order tool.
type ParseOrderInput struct {
	Text string `json:"text" jsonschema:"the free-text medication order"`
}

// ParseOrderOutput is the output schema for the parse_order tool.
type ParseOrderOutput struct {
	Order *domain.ParsedOrder `json:"order"`
}

// CheckHistoryInput is the input schema for the check_history tool.
type CheckHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of entries to return (default 20)"`
}

// CheckHistoryOutput is the output schema for the check_history tool.
type CheckHistoryOutput struct {
	Entries []CheckHistoryEntry `json:"entries"`
	Count   int                 `json:"count"`
}

// CheckHistoryEntry is one recorded safety check.
type CheckHistoryEntry struct {
	PatientID  string `json:"patient_id"`
	Medication string `json:"medication"`
	Dosage     string `json:"dosage,omitempty"`
	Timestamp  string `json:"timestamp"`
	RiskLevel  string `json:"risk_level"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_patients",
		Description: "List all patient records with the active selection",
	}, s.handleListPatients)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_active_patient",
		Description: "Select the patient all subsequent operations target",
	}, s.handleSetActivePatient)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_patient_record",
		Description: "Get the full record of the active patient",
	}, s.handleGetPatientRecord)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_clinical_note",
		Description: "Append a timestamped clinical note to the active patient",
	}, s.handleAddClinicalNote)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_drug_interactions",
		Description: "Analyse a new medication against the active patient's current regimen",
	}, s.handleCheckDrugInteractions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_allergy_safety",
		Description: "Screen a medication against the active patient's known allergies",
	}, s.handleCheckAllergySafety)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "assess_patient_risk",
		Description: "Assess a proposed treatment against the full patient profile",
	}, s.handleAssessRisk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_treatment_guidelines",
		Description: "Review a proposed treatment against clinical guidelines",
	}, s.handleCheckGuidelines)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "run_safety_check",
		Description: "Run every safety check and synthesise a final recommendation",
	}, s.handleRunSafetyCheck)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_differential_diagnosis",
		Description: "Generate a ranked differential diagnosis for presenting symptoms",
	}, s.handleDifferential)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_patient_education",
		Description: "Generate plain-language education material about a medication",
	}, s.handleEducation)

	if s.ports.Order != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "parse_order",
			Description: "Parse a free-text medication order into structured fields",
		}, s.handleParseOrder)
	}

	if s.ports.Log != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "check_history",
			Description: "List recently completed safety checks, newest first",
		}, s.handleCheckHistory)
	}
}

func (s *Server) handleListPatients(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListPatientsInput,
) (*mcp.CallToolResult, ListPatientsOutput, error) {
	patients, err := s.ports.Patient.ListPatients(ctx)
	if err != nil {
		return nil, ListPatientsOutput{}, err
	}

	output := ListPatientsOutput{
		Patients: make([]PatientSummaryOutput, len(patients)),
		ActiveID: s.ports.Patient.ActiveID(),
	}
	for i := range patients {
		output.Patients[i] = PatientSummaryOutput{
			ID:   patients[i].ID,
			Name: patients[i].Name,
		}
	}
	return nil, output, nil
}

func (s *Server) handleSetActivePatient(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetActivePatientInput,
) (*mcp.CallToolResult, SetActivePatientOutput, error) {
	if err := s.ports.Patient.SetActive(ctx, input.PatientID); err != nil {
		return nil, SetActivePatientOutput{}, err
	}
	return nil, SetActivePatientOutput{ActiveID: input.PatientID}, nil
}

func (s *Server) handleGetPatientRecord(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GetPatientRecordInput,
) (*mcp.CallToolResult, GetPatientRecordOutput, error) {
	record, err := s.ports.Patient.GetActive(ctx)
	if err != nil {
		return nil, GetPatientRecordOutput{}, err
	}
	return nil, GetPatientRecordOutput{Record: record}, nil
}

func (s *Server) handleAddClinicalNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddClinicalNoteInput,
) (*mcp.CallToolResult, AddClinicalNoteOutput, error) {
	if input.Note == "" {
		return nil, AddClinicalNoteOutput{}, errors.New("note must not be empty")
	}
	if err := s.ports.Patient.AppendNote(ctx, input.Note); err != nil {
		return nil, AddClinicalNoteOutput{}, err
	}
	return nil, AddClinicalNoteOutput{Recorded: true}, nil
}

func (s *Server) handleCheckDrugInteractions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MedicationInput,
) (*mcp.CallToolResult, AnalysisOutput, error) {
	text, err := s.ports.Safety.CheckDrugInteractions(ctx, input.Medication)
	if err != nil {
		return nil, AnalysisOutput{}, err
	}
	return nil, AnalysisOutput{Analysis: text}, nil
}

func (s *Server) handleCheckAllergySafety(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MedicationInput,
) (*mcp.CallToolResult, AnalysisOutput, error) {
	text, err := s.ports.Safety.CheckAllergySafety(ctx, input.Medication)
	if err != nil {
		return nil, AnalysisOutput{}, err
	}
	return nil, AnalysisOutput{Analysis: text}, nil
}

func (s *Server) handleAssessRisk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TreatmentInput,
) (*mcp.CallToolResult, AnalysisOutput, error) {
	text, err := s.ports.Safety.AssessRisk(ctx, input.Treatment)
	if err != nil {
		return nil, AnalysisOutput{}, err
	}
	return nil, AnalysisOutput{Analysis: text}, nil
}

func (s *Server) handleCheckGuidelines(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GuidelinesInput,
) (*mcp.CallToolResult, AnalysisOutput, error) {
	text, err := s.ports.Safety.CheckGuidelines(ctx, input.Condition, input.Treatment)
	if err != nil {
		return nil, AnalysisOutput{}, err
	}
	return nil, AnalysisOutput{Analysis: text}, nil
}

func (s *Server) handleRunSafetyCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunSafetyCheckInput,
) (*mcp.CallToolResult, RunSafetyCheckOutput, error) {
	result := s.ports.Safety.RunComprehensiveCheck(ctx, input.Medication, input.Dosage)
	return nil, RunSafetyCheckOutput{
		Result:    result,
		RiskLevel: domain.DeriveRiskLevel(result.FinalRecommendation).String(),
	}, nil
}

func (s *Server) handleDifferential(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DifferentialInput,
) (*mcp.CallToolResult, AnalysisOutput, error) {
	text, err := s.ports.Safety.GenerateDifferential(ctx, input.Symptoms)
	if err != nil {
		return nil, AnalysisOutput{}, err
	}
	return nil, AnalysisOutput{Analysis: text}, nil
}

func (s *Server) handleEducation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EducationInput,
) (*mcp.CallToolResult, AnalysisOutput, error) {
	text, err := s.ports.Safety.GenerateEducation(ctx, input.Medication, input.ReadingLevel)
	if err != nil {
		return nil, AnalysisOutput{}, err
	}
	return nil, AnalysisOutput{Analysis: text}, nil
}

func (s *Server) handleParseOrder(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ParseOrderInput,
) (*mcp.CallToolResult, ParseOrderOutput, error) {
	order, err := s.ports.Order.ParseOrder(ctx, input.Text)
	if err != nil {
		return nil, ParseOrderOutput{}, err
	}
	return nil, ParseOrderOutput{Order: order}, nil
}

func (s *Server) handleCheckHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckHistoryInput,
) (*mcp.CallToolResult, CheckHistoryOutput, error) {
	entries, err := s.ports.Log.Recent(ctx, input.Limit)
	if err != nil {
		return nil, CheckHistoryOutput{}, err
	}

	output := CheckHistoryOutput{
		Entries: make([]CheckHistoryEntry, len(entries)),
		Count:   len(entries),
	}
	for i := range entries {
		output.Entries[i] = CheckHistoryEntry{
			PatientID:  entries[i].PatientID,
			Medication: entries[i].Result.Medication,
			Dosage:     entries[i].Result.Dosage,
			Timestamp:  entries[i].Result.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			RiskLevel:  entries[i].RiskLevel.String(),
		}
	}
	return nil, output, nil
}
