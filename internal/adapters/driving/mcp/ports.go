package mcp

import (
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Patient manages patient records and the active selection.
	Patient driving.PatientService

	// Safety runs the AI-backed safety checks.
	Safety driving.SafetyService

	// Order parses free-text medication orders. Optional.
	Order driving.OrderService

	// Log is the safety check audit log. Optional.
	Log driven.CheckLog
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Patient == nil {
		return ErrMissingPatientService
	}
	if p.Safety == nil {
		return ErrMissingSafetyService
	}
	// Order and Log are optional
	return nil
}
