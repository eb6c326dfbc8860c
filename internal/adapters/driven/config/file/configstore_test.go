package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "anthropic"))
	require.NoError(t, store.Set("ratelimit.requests_per_minute", 30))

	assert.Equal(t, "anthropic", store.GetString("llm.provider"))
	assert.Equal(t, 30, store.GetInt("ratelimit.requests_per_minute"))
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("absent")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("absent"))
	assert.Zero(t, store.GetInt("absent"))
	assert.False(t, store.GetBool("absent"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "claude-3-5-sonnet-latest"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet-latest", reopened.GetString("llm.model"))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	raw := "[llm]\nprovider = \"ollama\"\nmodel = \"llama3.2\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(raw), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", store.GetString("llm.provider"))
	assert.Equal(t, "llama3.2", store.GetString("llm.model"))
}
