package driving

import (
	"context"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

// PatientService manages patient records and owns the active-patient
// selection. Exactly one patient is active at a time, or none; every safety
// operation acts on whatever is currently active rather than on an ID
// passed explicitly.
type PatientService interface {
	// ListPatients returns a summary of every readable record.
	ListPatients(ctx context.Context) ([]domain.PatientSummary, error)

	// GetActive returns the full record of the active patient.
	// Returns domain.ErrNoActivePatient when nothing is selected, or
	// domain.ErrNotFound when the selection references a record that has
	// been removed out-of-band.
	GetActive(ctx context.Context) (*domain.PatientRecord, error)

	// ActiveID returns the currently selected patient ID, or "" when none.
	ActiveID() string

	// SetActive selects the patient all subsequent operations target.
	// Fails with domain.ErrNotFound when no record exists for the ID; the
	// previous selection is retained unchanged on failure.
	SetActive(ctx context.Context, id string) error

	// AppendNote appends a clinical note, stamped with the current local
	// time at minute resolution, to the active patient's record.
	AppendNote(ctx context.Context, note string) error

	// Create stores a new record. Fails with domain.ErrAlreadyExists when
	// a record is already present under the same ID.
	Create(ctx context.Context, record *domain.PatientRecord) error
}
