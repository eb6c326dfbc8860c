package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Guardian resources.
	uriScheme = "guardian://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing patients.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "patients",
		Name:        "patients",
		Description: "List of all patient records",
		MIMEType:    "application/json",
	}, s.handlePatientsResource)

	// The active patient's full record.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "patients/active",
		Name:        "active-patient",
		Description: "Full record of the currently selected patient",
		MIMEType:    "application/json",
	}, s.handleActivePatientResource)
}

// handlePatientsResource returns a list of all patient records.
func (s *Server) handlePatientsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	patients, err := s.ports.Patient.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}

	data, err := json.MarshalIndent(patients, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling patients: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleActivePatientResource returns the active patient's record.
func (s *Server) handleActivePatientResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	record, err := s.ports.Patient.GetActive(ctx)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling record: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
