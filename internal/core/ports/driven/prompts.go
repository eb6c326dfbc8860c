package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptDrugInteractions analyses a new medication against the current
	// regimen. Placeholders: medication, current meds, conditions, age,
	// INR, creatinine.
	PromptDrugInteractions = "drug_interactions"

	// PromptAllergySafety screens a medication against known allergens.
	// Placeholders: medication, allergen list.
	PromptAllergySafety = "allergy_safety"

	// PromptRiskAssessment assesses a proposed treatment against the full
	// patient snapshot. Placeholders: snapshot JSON, treatment.
	PromptRiskAssessment = "risk_assessment"

	// PromptGuidelines reviews a treatment against clinical guidelines.
	// Placeholders: condition, treatment.
	PromptGuidelines = "guidelines"

	// PromptFinalRecommendation synthesises the four check texts into one
	// decision. Placeholders: the four analysis texts.
	PromptFinalRecommendation = "final_recommendation"

	// PromptParseOrder extracts a structured order from free text.
	// Placeholder: the order text.
	PromptParseOrder = "parse_order"

	// PromptPatientEducation writes patient-friendly medication material.
	// Placeholders: medication, reading level.
	PromptPatientEducation = "patient_education"

	// PromptDifferential generates a ranked differential diagnosis.
	// Placeholders: symptoms, age, conditions, medication names.
	PromptDifferential = "differential"

	// PromptChatSystem is the system prompt establishing the safety agent
	// persona for chat sessions. This prompt has no format placeholders.
	PromptChatSystem = "chat_system"
)

// PromptStoreAware is an optional interface for services that can use custom
// prompts. Services implementing this interface can have their templates
// customised by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable
	// prompts. If not set, the service should use hardcoded defaults.
	SetPromptStore(store PromptStore)
}
