// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Guardian. It exposes the patient record and safety check operations as
// tools for AI assistants like Claude.
package mcp

import "errors"

// ErrMissingPatientService is returned when the patient service is not provided.
var ErrMissingPatientService = errors.New("mcp: patient service is required")

// ErrMissingSafetyService is returned when the safety service is not provided.
var ErrMissingSafetyService = errors.New("mcp: safety service is required")
