package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptDrugInteractions: `MEDICATION SAFETY ANALYSIS

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

Format your response clearly with headers.`,

	driven.PromptAllergySafety: `ALLERGY SAFETY SCREENING

NEW MEDICATION: %s

KNOWN ALLERGIES: %s

Analyse:
1. Is there a DIRECT match?
2. Is there CROSS-REACTIVITY risk? (e.g. Penicillin -> Cephalosporins)
3. What is the RISK LEVEL: CONTRAINDICATED/HIGH/MODERATE/LOW/SAFE
4. If risk exists, explain the mechanism
5. Suggest alternatives if contraindicated

Be specific about drug classes and chemical structures.`,

	driven.PromptRiskAssessment: `PATIENT RISK ASSESSMENT

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

Be specific and evidence-based.`,

	driven.PromptGuidelines: `CLINICAL GUIDELINES REVIEW

CONDITION: %s
PROPOSED TREATMENT: %s

Analyse against standard clinical guidelines (AHA/ACC/WHO/ADA/etc):

1. GUIDELINE ALIGNMENT: is this first-line therapy, recommendation class
   (I, IIA, IIB, III) and evidence level (A, B, C)
2. STANDARD OF CARE: what current guidelines recommend, recent updates
3. CONTRAINDICATIONS per guidelines
4. MONITORING REQUIREMENTS per protocol
5. ALTERNATIVE APPROACHES and when to consider them

Cite specific guidelines when possible.`,

	driven.PromptFinalRecommendation: `Based on these comprehensive safety checks, provide a FINAL RECOMMENDATION:

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

Be decisive but thorough.`,

	driven.PromptParseOrder: `Parse this medical order into structured JSON format:

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
Return only JSON.`,

	driven.PromptPatientEducation: `Create patient education material about %s.

TARGET READING LEVEL: %s

Include these sections in simple language: what the medicine is and why it
was prescribed, how to take it, what to expect, possible side effects
(common, serious, emergency), important warnings including foods and
medicines that don't mix, when to call the doctor, and storage.

Use short sentences, bullet points, no medical jargon, and a positive,
action-oriented tone. Make it something a patient would actually read.`,

	driven.PromptDifferential: `DIFFERENTIAL DIAGNOSIS ANALYSIS

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

Think like a clinician. Consider both common and dangerous causes.`,

	driven.PromptChatSystem: `You are the Patient Safety Guardian, a senior clinical safety agent.
YOUR MISSION: protect patients by checking orders, drug interactions,
allergies, and offering safer alternatives. Always prioritise patient
safety and evidence-based care.

You can call tools. To call one, reply with ONLY a JSON object on its own:
{"tool": "<name>", "args": {...}}

Available tools:
- get_patient_record {}
- add_clinical_note {"note": string}
- check_drug_interactions {"medication": string}
- check_allergy_safety {"medication": string}
- assess_patient_risk {"treatment": string}
- check_treatment_guidelines {"condition": string, "treatment": string}
- generate_differential_diagnosis {"symptoms": string}
- generate_patient_education {"medication": string, "reading_level": string}

Tool results arrive as a user message beginning with "TOOL RESULT". After
receiving one, answer the clinician in plain language.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.guardian/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".guardian", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Guardian Prompts

This directory contains customisable prompts used by the guardian safety checks.

## Files

- ` + "`drug_interactions.txt`" + ` - Interaction analysis for a new medication
- ` + "`allergy_safety.txt`" + ` - Allergy and cross-reactivity screening
- ` + "`risk_assessment.txt`" + ` - Risk analysis of a proposed treatment
- ` + "`guidelines.txt`" + ` - Clinical guideline review
- ` + "`final_recommendation.txt`" + ` - Synthesis of the four check texts
- ` + "`parse_order.txt`" + ` - Structured extraction of a medical order
- ` + "`patient_education.txt`" + ` - Patient-friendly medication material
- ` + "`differential.txt`" + ` - Differential diagnosis analysis
- ` + "`chat_system.txt`" + ` - System prompt for the safety agent chat

## Customisation

Edit any file to customise behaviour. Changes take effect on the next
command or after restarting the chat.

## Format Placeholders

Prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (e.g., medication name or snapshot)
- ` + "`%d`" + ` - Integer (e.g., patient age)

Ensure customised prompts maintain placeholders in the correct positions.
`
	return os.WriteFile(path, []byte(content), 0600)
}
