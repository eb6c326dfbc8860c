package driving

import (
	"context"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

// SafetyService runs AI-backed safety analyses against the active patient.
//
// The individual check methods each make a single model call with no retry
// and return the advisory text or an error; they never panic on model
// output. RunComprehensiveCheck sequences the four checks plus a synthesis
// step into one aggregate result.
type SafetyService interface {
	// CheckDrugInteractions analyses a new medication against the active
	// patient's current regimen, conditions, age and key labs.
	CheckDrugInteractions(ctx context.Context, newMedication string) (string, error)

	// CheckAllergySafety screens a new medication against the active
	// patient's known allergens, including cross-reactivity patterns.
	CheckAllergySafety(ctx context.Context, newMedication string) (string, error)

	// AssessRisk analyses a proposed treatment against the full patient
	// snapshot.
	AssessRisk(ctx context.Context, proposedTreatment string) (string, error)

	// CheckGuidelines reviews a proposed treatment for a condition against
	// evidence-based clinical guidelines.
	CheckGuidelines(ctx context.Context, condition, proposedTreatment string) (string, error)

	// GenerateEducation writes patient-friendly material about a
	// medication at the requested reading level ("8th grade" when empty).
	GenerateEducation(ctx context.Context, medication, readingLevel string) (string, error)

	// GenerateDifferential produces a ranked differential diagnosis for
	// the presented symptoms, informed by the active patient's history.
	GenerateDifferential(ctx context.Context, symptoms string) (string, error)

	// RunComprehensiveCheck performs every safety check in fixed order and
	// synthesises a final recommendation. Only an unreadable active
	// patient short-circuits the run; individual check failures are
	// absorbed into the result.
	RunComprehensiveCheck(ctx context.Context, medication, dosage string) *domain.SafetyCheckResult
}
