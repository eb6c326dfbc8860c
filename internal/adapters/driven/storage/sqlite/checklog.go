// Package sqlite provides the durable audit log of completed safety checks.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/clinsafe/guardian-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
)

// Ensure CheckLog implements the interface.
var _ driven.CheckLog = (*CheckLog)(nil)

// CheckLog is a SQLite-backed implementation of driven.CheckLog.
type CheckLog struct {
	db   *sql.DB
	path string
}

// NewCheckLog opens (or creates) the check log database under dataDir.
// If dataDir is empty, defaults to ~/.guardian/data.
func NewCheckLog(dataDir string) (*CheckLog, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".guardian", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "checklog.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	l := &CheckLog{db: db, path: dbPath}
	if err := l.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return l, nil
}

// migrate applies every embedded *.sql file in lexical order.
func (l *CheckLog) migrate(migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".sql" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := fs.ReadFile(migrationFS, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := l.db.Exec(string(script)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
	}
	return nil
}

// Record appends one completed check run.
func (l *CheckLog) Record(ctx context.Context, entry driven.CheckLogEntry) error {
	payload, err := json.Marshal(entry.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO check_log (id, patient_id, medication, dosage, risk_level, created_at, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Result.ID,
		entry.PatientID,
		entry.Result.Medication,
		entry.Result.Dosage,
		entry.RiskLevel.String(),
		entry.Result.Timestamp.UTC().Format(time.RFC3339),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("recording check: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first, up to limit.
func (l *CheckLog) Recent(ctx context.Context, limit int) ([]driven.CheckLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT patient_id, risk_level, result
		 FROM check_log ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying check log: %w", err)
	}
	defer rows.Close()

	var entries []driven.CheckLogEntry
	for rows.Next() {
		var (
			patientID string
			riskLevel string
			payload   string
		)
		if err := rows.Scan(&patientID, &riskLevel, &payload); err != nil {
			return nil, fmt.Errorf("scanning check log row: %w", err)
		}

		var result domain.SafetyCheckResult
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("decoding stored result: %w", err)
		}

		entries = append(entries, driven.CheckLogEntry{
			PatientID: patientID,
			Result:    result,
			RiskLevel: domain.RiskLevel(riskLevel),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating check log: %w", err)
	}
	return entries, nil
}

// Path returns the database file path.
func (l *CheckLog) Path() string {
	return l.path
}

// Close closes the database connection.
func (l *CheckLog) Close() error {
	return l.db.Close()
}
