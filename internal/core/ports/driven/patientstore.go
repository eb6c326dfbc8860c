package driven

import (
	"context"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

// PatientStore persists one durable record per patient, keyed by ID.
type PatientStore interface {
	// List returns (id, name) summaries for every readable record, each ID
	// exactly once. Unreadable or malformed records are skipped silently:
	// a corrupt file is invisible to listing, not an error.
	List(ctx context.Context) ([]domain.PatientSummary, error)

	// Get retrieves a full record. Returns domain.ErrNotFound when no
	// record exists for the ID; other errors indicate storage failures.
	Get(ctx context.Context, id string) (*domain.PatientRecord, error)

	// Put stores or replaces a record under its own ID.
	Put(ctx context.Context, record *domain.PatientRecord) error

	// Exists reports whether a record is present for the ID without
	// reading it.
	Exists(ctx context.Context, id string) (bool, error)

	// Seed stores the record only when no record exists for its ID yet.
	// Existing records are never overwritten by seeding.
	Seed(ctx context.Context, record *domain.PatientRecord) error
}
