package domain

import (
	"strings"
	"time"
)

// Names of the individual sub-checks, in the order the orchestrator runs them.
const (
	CheckDrugInteractions = "Drug Interactions"
	CheckAllergySafety    = "Allergy Safety"
	CheckRiskAssessment   = "Risk Assessment"
	CheckGuidelinesReview = "Guidelines Review"
)

// NotChecked is substituted for a sub-check's text during synthesis when
// that check did not complete.
const NotChecked = "Not checked"

// SafetyCheckResult aggregates one comprehensive medication safety check.
// When the active patient could not be read, only ID, Medication, Dosage,
// Timestamp and Error are populated; no partial sub-check output is returned
// once the precondition fails. Once sub-checks begin, individual failures are
// recorded per field and the run still completes.
type SafetyCheckResult struct {
	// ID uniquely identifies this check run.
	ID string `json:"id"`

	// Medication is the medication that was checked.
	Medication string `json:"medication"`

	// Dosage is the proposed dosage, empty when not supplied.
	Dosage string `json:"dosage,omitempty"`

	// Timestamp is when the check started.
	Timestamp time.Time `json:"timestamp"`

	// ChecksPerformed names the sub-checks that completed successfully,
	// in execution order.
	ChecksPerformed []string `json:"checks_performed"`

	// DrugInteractions is the interaction analysis, or readable error text
	// when that check failed.
	DrugInteractions string `json:"drug_interactions,omitempty"`

	// AllergySafety is the allergy cross-reactivity analysis.
	AllergySafety string `json:"allergy_safety,omitempty"`

	// RiskAssessment is the patient risk analysis.
	RiskAssessment string `json:"risk_assessment,omitempty"`

	// Guidelines is the clinical guideline review.
	Guidelines string `json:"guidelines,omitempty"`

	// FinalRecommendation is the synthesised decision text
	// (APPROVE / APPROVE WITH MODIFICATIONS / DO NOT APPROVE plus rationale).
	FinalRecommendation string `json:"final_recommendation,omitempty"`

	// Error is set only when the active patient could not be read before
	// any sub-check ran.
	Error string `json:"error,omitempty"`
}

// Performed reports whether the named sub-check completed.
func (r *SafetyCheckResult) Performed(name string) bool {
	for _, c := range r.ChecksPerformed {
		if c == name {
			return true
		}
	}
	return false
}

// RiskLevel is a best-effort severity classification derived from free-text
// recommendation output. It is advisory only: the model emits its decision as
// prose, so this value is a keyword heuristic, not a source of truth.
type RiskLevel string

// Risk levels in decreasing severity, plus the unknown sentinel.
const (
	RiskHigh     RiskLevel = "high"
	RiskModerate RiskLevel = "moderate"
	RiskLow      RiskLevel = "low"
	RiskUnknown  RiskLevel = "unknown"
)

// String returns the string representation.
func (l RiskLevel) String() string {
	return string(l)
}

// DeriveRiskLevel classifies free-text recommendation output by keyword
// matching. Empty text is unknown; "high risk", "contraindicated" or an
// explicit DO NOT APPROVE map high; "moderate" or "use with caution" map
// moderate; any other non-empty text maps low. The output is approximate by
// construction and must not be treated as a clinical determination.
func DeriveRiskLevel(text string) RiskLevel {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return RiskUnknown
	}
	for _, kw := range []string{"high risk", "contraindicated", "do not approve"} {
		if strings.Contains(t, kw) {
			return RiskHigh
		}
	}
	for _, kw := range []string{"moderate", "use with caution"} {
		if strings.Contains(t, kw) {
			return RiskModerate
		}
	}
	return RiskLow
}
