package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driving"
	"github.com/clinsafe/guardian-cli/internal/logger"
)

// Ensure PatientService implements the interface.
var _ driving.PatientService = (*PatientService)(nil)

// noteTimeLayout stamps clinical notes at minute resolution, local time.
const noteTimeLayout = "2006-01-02 15:04"

// PatientService manages patient records and owns the active-patient
// selection. The selection lives on the service instance, owned by whoever
// constructed it, never in package state. Invariant: the active ID either
// names a record that existed at selection time, or is empty.
type PatientService struct {
	store driven.PatientStore

	mu       sync.RWMutex
	activeID string

	// now is swappable for tests.
	now func() time.Time
}

// NewPatientService creates a patient service over the given store with no
// active selection.
func NewPatientService(store driven.PatientStore) *PatientService {
	return &PatientService{
		store: store,
		now:   time.Now,
	}
}

// ListPatients returns a summary of every readable record.
func (s *PatientService) ListPatients(ctx context.Context) ([]domain.PatientSummary, error) {
	return s.store.List(ctx)
}

// ActiveID returns the currently selected patient ID, or "" when none.
func (s *PatientService) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// GetActive returns the full record of the active patient. A selection that
// points at a record removed out-of-band surfaces as domain.ErrNotFound.
func (s *PatientService) GetActive(ctx context.Context) (*domain.PatientRecord, error) {
	id := s.ActiveID()
	if id == "" {
		return nil, domain.ErrNoActivePatient
	}
	return s.store.Get(ctx, id)
}

// SetActive selects the patient all subsequent operations target. On any
// failure the previous selection is retained unchanged.
func (s *PatientService) SetActive(ctx context.Context, id string) error {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("selecting patient %s: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("patient %s: %w", id, domain.ErrNotFound)
	}

	s.mu.Lock()
	s.activeID = id
	s.mu.Unlock()
	logger.Debug("Active patient set to %s", id)
	return nil
}

// AppendNote appends a timestamped clinical note to the active record.
//
// This is a read-modify-write with no cross-process locking: two concurrent
// appenders against the same record can lose an update (last writer wins).
func (s *PatientService) AppendNote(ctx context.Context, note string) error {
	record, err := s.GetActive(ctx)
	if err != nil {
		return err
	}

	record.ClinicalNotes = append(record.ClinicalNotes, domain.ClinicalNote{
		Date: s.now().Format(noteTimeLayout),
		Note: note,
	})

	if err := s.store.Put(ctx, record); err != nil {
		return fmt.Errorf("saving note for %s: %w", record.ID, err)
	}
	return nil
}

// Create stores a new record, refusing to replace an existing one.
func (s *PatientService) Create(ctx context.Context, record *domain.PatientRecord) error {
	if record.ID == "" {
		return fmt.Errorf("%w: record has no patient_id", domain.ErrInvalidInput)
	}

	exists, err := s.store.Exists(ctx, record.ID)
	if err != nil {
		return fmt.Errorf("checking patient %s: %w", record.ID, err)
	}
	if exists {
		return fmt.Errorf("patient %s: %w", record.ID, domain.ErrAlreadyExists)
	}
	return s.store.Put(ctx, record)
}
