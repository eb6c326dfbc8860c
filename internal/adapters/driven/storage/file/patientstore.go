// Package file provides the durable patient record store: one JSON document
// per patient under a well-known directory, keyed by patient ID.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
	"github.com/clinsafe/guardian-cli/internal/logger"
)

// Ensure PatientStore implements the interface.
var _ driven.PatientStore = (*PatientStore)(nil)

// PatientStore persists patient records as <id>.json files in a directory.
//
// Writes are whole-record replacements with no cross-process locking, so
// concurrent read-modify-write cycles against the same ID can lose an
// update (last writer wins).
type PatientStore struct {
	dir string
}

// NewPatientStore creates a patient store rooted at dir.
// If dir is empty, defaults to ~/.guardian/patients.
func NewPatientStore(dir string) (*PatientStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".guardian", "patients")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating patients directory: %w", err)
	}

	return &PatientStore{dir: dir}, nil
}

// Dir returns the directory records are stored in.
func (s *PatientStore) Dir() string {
	return s.dir
}

func (s *PatientStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// List scans the directory and returns a summary per readable record,
// ordered by ID. Malformed or unreadable files are skipped silently.
func (s *PatientStore) List(_ context.Context) ([]domain.PatientSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.PatientSummary{}, nil
		}
		return nil, fmt.Errorf("reading patients directory: %w", err)
	}

	result := make([]domain.PatientSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			logger.Debug("Skipping unreadable record %s: %v", entry.Name(), err)
			continue
		}
		var rec domain.PatientRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			logger.Debug("Skipping malformed record %s: %v", entry.Name(), err)
			continue
		}
		id := rec.ID
		if id == "" {
			id = strings.TrimSuffix(entry.Name(), ".json")
		}
		name := rec.Name
		if name == "" {
			name = "Unknown"
		}
		result = append(result, domain.PatientSummary{ID: id, Name: name})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Get reads a full record. A missing file maps to domain.ErrNotFound; a file
// that exists but cannot be decoded is a storage error, not invisibility.
func (s *PatientStore) Get(_ context.Context, id string) (*domain.PatientRecord, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("patient %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading patient %s: %w", id, err)
	}

	var rec domain.PatientRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding patient %s: %w", id, err)
	}
	return &rec, nil
}

// Put writes the full record back under its own ID.
func (s *PatientStore) Put(_ context.Context, record *domain.PatientRecord) error {
	if record.ID == "" {
		return fmt.Errorf("%w: record has no patient_id", domain.ErrInvalidInput)
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding patient %s: %w", record.ID, err)
	}
	if err := os.WriteFile(s.path(record.ID), data, 0600); err != nil {
		return fmt.Errorf("writing patient %s: %w", record.ID, err)
	}
	return nil
}

// Exists reports whether a record file is present for the ID.
func (s *PatientStore) Exists(_ context.Context, id string) (bool, error) {
	_, err := os.Stat(s.path(id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking patient %s: %w", id, err)
}

// Seed writes the record only when no file exists for its ID yet. An
// existing record, however it got there, is never overwritten by seeding.
func (s *PatientStore) Seed(ctx context.Context, record *domain.PatientRecord) error {
	exists, err := s.Exists(ctx, record.ID)
	if err != nil {
		return err
	}
	if exists {
		logger.Debug("Seed record %s already present, leaving it untouched", record.ID)
		return nil
	}
	return s.Put(ctx, record)
}

// Watch reports out-of-band changes to record files until ctx is cancelled.
// Each write or removal of a *.json file invokes fn with the affected
// patient ID. Watching is advisory: record writes are not synchronised, so
// a notification may race the change it reports.
func (s *PatientStore) Watch(ctx context.Context, fn func(id string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				name := filepath.Base(event.Name)
				if !strings.HasSuffix(name, ".json") {
					continue
				}
				fn(strings.TrimSuffix(name, ".json"))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Patient watcher error: %v", err)
			}
		}
	}()

	return nil
}
