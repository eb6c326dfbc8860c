package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinsafe/guardian-cli/internal/core/ports/driven"
)

func TestPromptStore_LoadDefaults(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{
		driven.PromptDrugInteractions,
		driven.PromptAllergySafety,
		driven.PromptRiskAssessment,
		driven.PromptGuidelines,
		driven.PromptFinalRecommendation,
		driven.PromptParseOrder,
		driven.PromptPatientEducation,
		driven.PromptDifferential,
		driven.PromptChatSystem,
	} {
		prompt, err := store.Load(name)
		require.NoError(t, err, "prompt %s", name)
		assert.NotEmpty(t, prompt, "prompt %s", name)
	}
}

func TestPromptStore_CreatesEditableFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptParseOrder)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "parse_order.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "README.md"))
	assert.NoError(t, err)
}

func TestPromptStore_UserEditWins(t *testing.T) {
	dir := t.TempDir()
	custom := "Screen %s against allergens: %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "allergy_safety.txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptAllergySafety)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_ReloadPicksUpEdits(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// First load caches the default file content.
	first, err := store.Load(driven.PromptGuidelines)
	require.NoError(t, err)

	edited := "CONDITION: %s TREATMENT: %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guidelines.txt"), []byte(edited), 0600))

	cached, err := store.Load(driven.PromptGuidelines)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptGuidelines)
	require.NoError(t, err)
	assert.Equal(t, edited, fresh)
}

func TestPromptStore_UnknownPromptErrors(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	assert.Error(t, err)
}
