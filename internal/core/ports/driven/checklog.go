package driven

import (
	"context"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

// CheckLogEntry is one recorded safety check run.
type CheckLogEntry struct {
	// PatientID is the patient that was active for the run.
	PatientID string

	// Result is the full check result as produced by the orchestrator.
	Result domain.SafetyCheckResult

	// RiskLevel is the keyword-derived severity captured at record time.
	// Advisory only; see domain.DeriveRiskLevel.
	RiskLevel domain.RiskLevel
}

// CheckLog records completed comprehensive safety checks for later audit.
// This is an optional service - when nil, runs are simply not recorded.
type CheckLog interface {
	// Record appends one completed check run.
	Record(ctx context.Context, entry CheckLogEntry) error

	// Recent returns the most recent entries, newest first, up to limit.
	Recent(ctx context.Context, limit int) ([]CheckLogEntry, error)

	// Close releases resources.
	Close() error
}
