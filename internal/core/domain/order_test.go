package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsedOrder_AbsentVsEmpty(t *testing.T) {
	// "frequency": null and a missing "duration" must both decode as
	// absent; "route": "" must stay present-but-empty.
	raw := `{
		"medication": "Aspirin",
		"dosage": "81mg",
		"frequency": null,
		"route": "",
		"indication": "cardiac protection"
	}`

	var order ParsedOrder
	require.NoError(t, json.Unmarshal([]byte(raw), &order))

	med, ok := order.Field("medication")
	assert.True(t, ok)
	assert.Equal(t, "Aspirin", med)

	_, ok = order.Field("frequency")
	assert.False(t, ok)

	_, ok = order.Field("duration")
	assert.False(t, ok)

	route, ok := order.Field("route")
	assert.True(t, ok)
	assert.Empty(t, route)
}

func TestParsedOrder_UnknownKeysDropped(t *testing.T) {
	raw := `{"medication": "Aspirin", "prescriber": "Dr. Jones", "priority": 1}`

	var order ParsedOrder
	require.NoError(t, json.Unmarshal([]byte(raw), &order))

	med, ok := order.Field("medication")
	assert.True(t, ok)
	assert.Equal(t, "Aspirin", med)

	// Round-tripping keeps only schema fields.
	out, err := json.Marshal(order)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "prescriber")
	assert.NotContains(t, string(out), "priority")
}

func TestParsedOrder_FieldUnknownName(t *testing.T) {
	med := "Aspirin"
	order := ParsedOrder{Medication: &med}

	_, ok := order.Field("strength")
	assert.False(t, ok)
}

func TestSessionState(t *testing.T) {
	assert.True(t, SessionLive.IsValid())
	assert.True(t, SessionDegraded.IsValid())
	assert.False(t, SessionState("retrying").IsValid())
	assert.Equal(t, "Unknown", SessionState("retrying").Description())
}
