package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsafe/guardian-cli/internal/core/domain"
	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
)

func testEntry(id, medication string, at time.Time) driven.CheckLogEntry {
	return driven.CheckLogEntry{
		PatientID: "P-90210",
		RiskLevel: domain.RiskLow,
		Result: domain.SafetyCheckResult{
			ID:                  id,
			Medication:          medication,
			Dosage:              "10mg",
			Timestamp:           at,
			ChecksPerformed:     []string{domain.CheckDrugInteractions},
			FinalRecommendation: "APPROVE",
		},
	}
}

func TestCheckLog_RecordAndRecent(t *testing.T) {
	log, err := NewCheckLog(t.TempDir())
	require.NoError(t, err)
	defer log.Close()
	ctx := context.Background()

	base := time.Date(2024, 10, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, log.Record(ctx, testEntry("run-1", "Lisinopril", base)))
	require.NoError(t, log.Record(ctx, testEntry("run-2", "Metformin", base.Add(time.Hour))))

	entries, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "Metformin", entries[0].Result.Medication)
	assert.Equal(t, "Lisinopril", entries[1].Result.Medication)
	assert.Equal(t, "P-90210", entries[0].PatientID)
	assert.Equal(t, domain.RiskLow, entries[0].RiskLevel)
	assert.Equal(t, "APPROVE", entries[0].Result.FinalRecommendation)
}

func TestCheckLog_RecentHonoursLimit(t *testing.T) {
	log, err := NewCheckLog(t.TempDir())
	require.NoError(t, err)
	defer log.Close()
	ctx := context.Background()

	base := time.Date(2024, 10, 15, 9, 0, 0, 0, time.UTC)
	for i, med := range []string{"A", "B", "C"} {
		entry := testEntry("run-"+med, med, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, log.Record(ctx, entry))
	}

	entries, err := log.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "C", entries[0].Result.Medication)
}

func TestCheckLog_RecentEmpty(t *testing.T) {
	log, err := NewCheckLog(t.TempDir())
	require.NoError(t, err)
	defer log.Close()

	entries, err := log.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
