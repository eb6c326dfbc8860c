package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driving"
	"github.com/clinsafe/guardian-cli/internal/logger"
)

// Ensure SafetyService implements the interface.
var _ driving.SafetyService = (*SafetyService)(nil)

// Default prompts, used when no PromptStore is configured or a template is
// missing from it. The file prompt store ships the same text as its editable
// defaults.
const (
	defaultDrugInteractionsPrompt = `MEDICATION SAFETY ANALYSIS

NEW MEDICATION: %s

CURRENT MEDICATIONS: %s

MEDICAL CONDITIONS: %s

PATIENT AGE: %d years

RECENT LABS: INR=%s, Creatinine=%s

Perform a comprehensive analysis:

1. INTERACTION SEVERITY: rate as CRITICAL/HIGH/MODERATE/LOW/NONE

2. SPECIFIC INTERACTIONS: list each interaction with the drug pair involved,
   the mechanism of interaction and the clinical consequence

3. CONTRAINDICATIONS based on the patient's conditions

4. RECOMMENDATIONS: proceed or do not proceed, dose adjustments if needed,
   monitoring parameters, timing considerations

5. ALTERNATIVES: if unsafe, suggest safer alternatives

Format your response clearly with headers.`

	defaultAllergySafetyPrompt = `ALLERGY SAFETY SCREENING

NEW MEDICATION: %s

KNOWN ALLERGIES: %s

Analyse:
1. Is there a DIRECT match?
2. Is there CROSS-REACTIVITY risk? (e.g. Penicillin -> Cephalosporins)
3. What is the RISK LEVEL: CONTRAINDICATED/HIGH/MODERATE/LOW/SAFE
4. If risk exists, explain the mechanism
5. Suggest alternatives if contraindicated

Be specific about drug classes and chemical structures.`

	defaultRiskAssessmentPrompt = `PATIENT RISK ASSESSMENT

PATIENT PROFILE:
%s

PROPOSED TREATMENT: %s

Provide a comprehensive risk analysis:

1. TOP 5 RISK FACTORS ranked by severity
2. PROBABILITY OF ADVERSE EVENTS: minor, major, and life-threatening
3. EARLY WARNING SIGNS to monitor and when to seek immediate care
4. PREVENTIVE MEASURES: before starting, ongoing monitoring, patient education
5. CONTRAINDICATIONS: absolute and relative
6. RISK-BENEFIT ANALYSIS: benefits, risks of treating, risks of NOT treating,
   overall recommendation

Be specific and evidence-based.`

	defaultGuidelinesPrompt = `CLINICAL GUIDELINES REVIEW

CONDITION: %s
PROPOSED TREATMENT: %s

Analyse against standard clinical guidelines (AHA/ACC/WHO/ADA/etc):

1. GUIDELINE ALIGNMENT: is this first-line therapy, recommendation class
   (I, IIA, IIB, III) and evidence level (A, B, C)
2. STANDARD OF CARE: what current guidelines recommend, recent updates
3. CONTRAINDICATIONS per guidelines
4. MONITORING REQUIREMENTS per protocol
5. ALTERNATIVE APPROACHES and when to consider them

Cite specific guidelines when possible.`

	defaultFinalRecommendationPrompt = `Based on these comprehensive safety checks, provide a FINAL RECOMMENDATION:

DRUG INTERACTIONS:
%s

ALLERGY SAFETY:
%s

RISK ASSESSMENT:
%s

GUIDELINES:
%s

Provide a clear, actionable recommendation:

1. DECISION: APPROVE / APPROVE WITH MODIFICATIONS / DO NOT APPROVE

2. RATIONALE: 2-3 sentences

3. IF APPROVED: key monitoring parameters, patient counseling points,
   follow-up timeline

4. IF NOT APPROVED: primary reason, safer alternatives, what would need
   to change

Be decisive but thorough.`

	defaultPatientEducationPrompt = `Create patient education material about %s.

TARGET READING LEVEL: %s

Include these sections in simple language: what the medicine is and why it
was prescribed, how to take it, what to expect, possible side effects
(common, serious, emergency), important warnings including foods and
medicines that don't mix, when to call the doctor, and storage.

Use short sentences, bullet points, no medical jargon, and a positive,
action-oriented tone. Make it something a patient would actually read.`

	defaultDifferentialPrompt = `DIFFERENTIAL DIAGNOSIS ANALYSIS

CHIEF COMPLAINT: %s

PATIENT HISTORY:
- Age: %d
- Medical Conditions: %s
- Current Medications: %s

Provide:

1. DIFFERENTIAL DIAGNOSES ranked by likelihood
2. MUST-NOT-MISS DIAGNOSES: life-threatening and time-sensitive conditions
3. RECOMMENDED DIAGNOSTIC WORKUP: initial tests, examination findings,
   referrals if needed
4. RED FLAGS requiring immediate attention
5. INITIAL MANAGEMENT while awaiting workup

Think like a clinician. Consider both common and dangerous causes.`
)

// defaultReadingLevel is used when the caller does not specify one.
const defaultReadingLevel = "8th grade"

// analysisMaxTokens bounds each sub-check's response.
const analysisMaxTokens = 1500

// SafetyService orchestrates AI-backed medication safety checks against the
// active patient.
type SafetyService struct {
	llm         driven.LLMService
	patients    driving.PatientService
	promptStore driven.PromptStore

	// limiter paces model calls; nil means unlimited.
	limiter *rate.Limiter

	// checkLog records completed comprehensive runs; nil disables auditing.
	checkLog driven.CheckLog

	// now is swappable for tests.
	now func() time.Time

	// newID is swappable for tests.
	newID func() string
}

// NewSafetyService creates a safety service. The limiter and check log are
// optional; pass nil to disable pacing or audit recording respectively.
func NewSafetyService(llm driven.LLMService, patients driving.PatientService, limiter *rate.Limiter, checkLog driven.CheckLog) *SafetyService {
	return &SafetyService{
		llm:      llm,
		patients: patients,
		limiter:  limiter,
		checkLog: checkLog,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *SafetyService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// CheckDrugInteractions analyses a new medication against the active
// patient's current regimen, conditions, age and key labs.
func (s *SafetyService) CheckDrugInteractions(ctx context.Context, newMedication string) (string, error) {
	record, err := s.patients.GetActive(ctx)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptDrugInteractions, defaultDrugInteractionsPrompt),
		newMedication,
		joinOrNone(record.MedicationNames()),
		joinOrNone(record.Conditions),
		record.Age,
		record.Lab("INR"),
		record.Lab("creatinine"),
	)
	return s.generate(ctx, prompt)
}

// CheckAllergySafety screens a new medication against the active patient's
// known allergens.
func (s *SafetyService) CheckAllergySafety(ctx context.Context, newMedication string) (string, error) {
	record, err := s.patients.GetActive(ctx)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptAllergySafety, defaultAllergySafetyPrompt),
		newMedication,
		joinOrNone(record.AllergenNames()),
	)
	return s.generate(ctx, prompt)
}

// AssessRisk analyses a proposed treatment against the full patient snapshot.
// The snapshot is the record serialised as indented JSON so the model sees
// every field, not a curated subset.
func (s *SafetyService) AssessRisk(ctx context.Context, proposedTreatment string) (string, error) {
	record, err := s.patients.GetActive(ctx)
	if err != nil {
		return "", err
	}

	profile, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialising patient profile: %w", err)
	}

	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptRiskAssessment, defaultRiskAssessmentPrompt),
		string(profile),
		proposedTreatment,
	)
	return s.generate(ctx, prompt)
}

// CheckGuidelines reviews a proposed treatment for a condition against
// evidence-based clinical guidelines. An empty condition defaults to the
// active patient's primary condition.
func (s *SafetyService) CheckGuidelines(ctx context.Context, condition, proposedTreatment string) (string, error) {
	if condition == "" {
		record, err := s.patients.GetActive(ctx)
		if err != nil {
			return "", err
		}
		condition = record.PrimaryCondition()
	}

	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptGuidelines, defaultGuidelinesPrompt),
		condition,
		proposedTreatment,
	)
	return s.generate(ctx, prompt)
}

// GenerateEducation writes patient-friendly material about a medication at
// the requested reading level.
func (s *SafetyService) GenerateEducation(ctx context.Context, medication, readingLevel string) (string, error) {
	if readingLevel == "" {
		readingLevel = defaultReadingLevel
	}

	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptPatientEducation, defaultPatientEducationPrompt),
		medication,
		readingLevel,
	)
	return s.generate(ctx, prompt)
}

// GenerateDifferential produces a ranked differential diagnosis for the
// presented symptoms, informed by the active patient's history.
func (s *SafetyService) GenerateDifferential(ctx context.Context, symptoms string) (string, error) {
	record, err := s.patients.GetActive(ctx)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptDifferential, defaultDifferentialPrompt),
		symptoms,
		record.Age,
		joinOrNone(record.Conditions),
		joinOrNone(record.MedicationNames()),
	)
	return s.generate(ctx, prompt)
}

// RunComprehensiveCheck performs every safety check in fixed order and
// synthesises a final recommendation.
//
// Precondition: the active patient record must be readable; when it is not,
// the returned result carries only identity fields plus Error. After the
// precondition passes, each sub-check's failure is absorbed: the error text
// lands in that check's field, the check is omitted from ChecksPerformed,
// and the run continues. Synthesis always happens, substituting "Not
// checked" for missing texts.
func (s *SafetyService) RunComprehensiveCheck(ctx context.Context, medication, dosage string) *domain.SafetyCheckResult {
	result := &domain.SafetyCheckResult{
		ID:         s.newID(),
		Medication: medication,
		Dosage:     dosage,
		Timestamp:  s.now().UTC(),
	}

	record, err := s.patients.GetActive(ctx)
	if err != nil {
		result.Error = fmt.Sprintf("cannot read active patient: %v", err)
		return result
	}

	logger.Section("Comprehensive Safety Check")
	logger.Info("Patient %s, medication %s", record.ID, medication)

	treatment := medication
	if dosage != "" {
		treatment = medication + " " + dosage
	}

	result.DrugInteractions = s.runStep(result, domain.CheckDrugInteractions, func() (string, error) {
		return s.CheckDrugInteractions(ctx, medication)
	})
	result.AllergySafety = s.runStep(result, domain.CheckAllergySafety, func() (string, error) {
		return s.CheckAllergySafety(ctx, medication)
	})
	result.RiskAssessment = s.runStep(result, domain.CheckRiskAssessment, func() (string, error) {
		return s.AssessRisk(ctx, treatment)
	})
	result.Guidelines = s.runStep(result, domain.CheckGuidelinesReview, func() (string, error) {
		return s.CheckGuidelines(ctx, record.PrimaryCondition(), treatment)
	})

	result.FinalRecommendation = s.synthesise(ctx, result)

	s.record(ctx, record.ID, result)
	return result
}

// runStep executes one sub-check, appending its name to ChecksPerformed only
// on success. On failure the returned text is the error message, so the
// result field still tells the clinician what happened.
func (s *SafetyService) runStep(result *domain.SafetyCheckResult, name string, check func() (string, error)) string {
	logger.Debug("Running %s", name)
	text, err := check()
	if err != nil {
		logger.Warn("%s failed: %v", name, err)
		return fmt.Sprintf("Check failed: %v", err)
	}
	result.ChecksPerformed = append(result.ChecksPerformed, name)
	return text
}

// synthesise builds the final recommendation from the four check texts,
// substituting "Not checked" for any sub-check that did not complete.
func (s *SafetyService) synthesise(ctx context.Context, result *domain.SafetyCheckResult) string {
	texts := make([]any, 0, 4)
	for _, c := range []struct {
		name string
		text string
	}{
		{domain.CheckDrugInteractions, result.DrugInteractions},
		{domain.CheckAllergySafety, result.AllergySafety},
		{domain.CheckRiskAssessment, result.RiskAssessment},
		{domain.CheckGuidelinesReview, result.Guidelines},
	} {
		if result.Performed(c.name) {
			texts = append(texts, c.text)
		} else {
			texts = append(texts, domain.NotChecked)
		}
	}

	prompt := fmt.Sprintf(s.loadPrompt(driven.PromptFinalRecommendation, defaultFinalRecommendationPrompt), texts...)
	text, err := s.generate(ctx, prompt)
	if err != nil {
		logger.Warn("Final recommendation failed: %v", err)
		return fmt.Sprintf("Synthesis failed: %v", err)
	}
	return text
}

// record writes the completed run to the audit log, if one is configured.
// Audit failures are logged and swallowed; they never affect the result.
func (s *SafetyService) record(ctx context.Context, patientID string, result *domain.SafetyCheckResult) {
	if s.checkLog == nil {
		return
	}
	entry := driven.CheckLogEntry{
		PatientID: patientID,
		Result:    *result,
		RiskLevel: domain.DeriveRiskLevel(result.FinalRecommendation),
	}
	if err := s.checkLog.Record(ctx, entry); err != nil {
		logger.Warn("Failed to record safety check %s: %v", result.ID, err)
	}
}

// generate issues one paced model call.
func (s *SafetyService) generate(ctx context.Context, prompt string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}
	return s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   analysisMaxTokens,
		Temperature: 0.2,
	})
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *SafetyService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// joinOrNone renders a list for prompt interpolation, with an explicit
// marker for the empty case so the model does not invent entries.
func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
