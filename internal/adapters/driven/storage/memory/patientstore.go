// Package memory provides in-memory store implementations, used in tests
// and wherever durable storage is not required.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
)

// Ensure PatientStore implements the interface.
var _ driven.PatientStore = (*PatientStore)(nil)

// PatientStore is an in-memory implementation of driven.PatientStore.
type PatientStore struct {
	mu      sync.RWMutex
	records map[string]domain.PatientRecord
}

// NewPatientStore creates a new in-memory patient store.
func NewPatientStore() *PatientStore {
	return &PatientStore{
		records: make(map[string]domain.PatientRecord),
	}
}

// List returns summaries for all stored records, ordered by ID.
func (s *PatientStore) List(_ context.Context) ([]domain.PatientSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.PatientSummary, 0, len(s.records))
	for _, rec := range s.records {
		result = append(result, domain.PatientSummary{ID: rec.ID, Name: rec.Name})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Get retrieves a record by ID.
func (s *PatientStore) Get(_ context.Context, id string) (*domain.PatientRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// Put stores or replaces a record.
func (s *PatientStore) Put(_ context.Context, record *domain.PatientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = *record
	return nil
}

// Exists reports whether a record is present for the ID.
func (s *PatientStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[id]
	return ok, nil
}

// Seed stores the record only when the ID is not yet taken.
func (s *PatientStore) Seed(_ context.Context, record *domain.PatientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; ok {
		return nil
	}
	s.records[record.ID] = *record
	return nil
}

// Delete removes a record. Used by tests to simulate out-of-band removal.
func (s *PatientStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}
