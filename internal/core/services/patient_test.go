package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsafe/guardian-cli/internal/adapters/driven/storage/memory"
	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

func newPatientFixture(t *testing.T) (*PatientService, *memory.PatientStore) {
	t.Helper()
	store := memory.NewPatientStore()
	require.NoError(t, store.Put(context.Background(), testPatient()))
	return NewPatientService(store), store
}

func TestPatientService_ListPatients(t *testing.T) {
	svc, store := newPatientFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &domain.PatientRecord{ID: "P-2", Name: "Bob Ray"}))

	patients, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "P-1", patients[0].ID)
	assert.Equal(t, "P-2", patients[1].ID)
}

func TestPatientService_SetActive(t *testing.T) {
	svc, _ := newPatientFixture(t)
	ctx := context.Background()

	assert.Empty(t, svc.ActiveID())

	require.NoError(t, svc.SetActive(ctx, "P-1"))
	assert.Equal(t, "P-1", svc.ActiveID())

	// Selecting an unknown patient fails and keeps the previous selection.
	err := svc.SetActive(ctx, "P-404")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "P-1", svc.ActiveID())
}

func TestPatientService_GetActive(t *testing.T) {
	svc, store := newPatientFixture(t)
	ctx := context.Background()

	_, err := svc.GetActive(ctx)
	assert.ErrorIs(t, err, domain.ErrNoActivePatient)

	require.NoError(t, svc.SetActive(ctx, "P-1"))
	record, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", record.Name)

	// A record removed out of band surfaces as not-found, not a stale copy.
	require.NoError(t, store.Delete(ctx, "P-1"))
	_, err = svc.GetActive(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatientService_AppendNote(t *testing.T) {
	svc, store := newPatientFixture(t)
	ctx := context.Background()
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 14, 5, 0, 0, time.UTC)
	}

	require.NoError(t, svc.SetActive(ctx, "P-1"))
	require.NoError(t, svc.AppendNote(ctx, "Patient reports dizziness."))
	require.NoError(t, svc.AppendNote(ctx, "BP stable on recheck."))

	record, err := store.Get(ctx, "P-1")
	require.NoError(t, err)
	require.Len(t, record.ClinicalNotes, 2)
	assert.Equal(t, "2026-08-30 14:05", record.ClinicalNotes[0].Date)
	assert.Equal(t, "Patient reports dizziness.", record.ClinicalNotes[0].Note)
	assert.Equal(t, "BP stable on recheck.", record.ClinicalNotes[1].Note)
}

func TestPatientService_AppendNote_NoActivePatient(t *testing.T) {
	svc, _ := newPatientFixture(t)

	err := svc.AppendNote(context.Background(), "orphan note")
	assert.ErrorIs(t, err, domain.ErrNoActivePatient)
}

func TestPatientService_Create(t *testing.T) {
	svc, store := newPatientFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &domain.PatientRecord{ID: "P-2", Name: "Bob Ray"}))
	exists, err := store.Exists(ctx, "P-2")
	require.NoError(t, err)
	assert.True(t, exists)

	err = svc.Create(ctx, &domain.PatientRecord{ID: "P-1", Name: "Impostor"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	// The original record is untouched.
	record, err := store.Get(ctx, "P-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", record.Name)

	err = svc.Create(ctx, &domain.PatientRecord{Name: "No ID"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
