package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
)

func makeResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestHandlePatientsResource(t *testing.T) {
	server := newTestServer(t, &mockPatientService{})

	result, err := server.handlePatientsResource(context.Background(), makeResourceRequest(uriScheme+"patients"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, "Jane Doe")
}

func TestHandleActivePatientResource(t *testing.T) {
	server := newTestServer(t, &mockPatientService{
		record: &domain.PatientRecord{ID: "P-1", Name: "Jane Doe", Age: 67},
	})

	result, err := server.handleActivePatientResource(context.Background(), makeResourceRequest(uriScheme+"patients/active"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, `"patient_id": "P-1"`)
}

func TestHandleActivePatientResource_NoneSelected(t *testing.T) {
	server := newTestServer(t, &mockPatientService{})

	_, err := server.handleActivePatientResource(context.Background(), makeResourceRequest(uriScheme+"patients/active"))

	assert.Error(t, err)
}
