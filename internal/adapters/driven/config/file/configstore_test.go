package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/ports/driven"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(driven.ConfigKeyEndpoint, "http://localhost:9999"))
	assert.Equal(t, "http://localhost:9999", store.GetString(driven.ConfigKeyEndpoint))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(driven.ConfigKeyModel, "claude-3-5-sonnet-latest"))

	second, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet-latest", second.GetString(driven.ConfigKeyModel))
}

func TestConfigStore_All(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("a", "1"))
	require.NoError(t, store.Set("b", "2"))

	all := store.All()
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, all)

	// Mutating the copy must not touch the store.
	all["a"] = "changed"
	assert.Equal(t, "1", store.GetString("a"))
}

func TestConfigStore_BadTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = = toml"), 0o600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestPromptStore_LoadDefaultSeedsFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptClassify)
	require.NoError(t, err)
	assert.Contains(t, prompt, "%s")
	assert.Contains(t, prompt, "JSON array")

	// The default was written out for editing.
	_, err = os.Stat(filepath.Join(dir, driven.PromptClassify+".txt"))
	assert.NoError(t, err)
}

func TestPromptStore_UserFileWins(t *testing.T) {
	dir := t.TempDir()
	custom := "Find the secrets.\n\nText:\n%s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, driven.PromptClassify+".txt"), []byte(custom+"\n"), 0o600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptClassify)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_ReloadPicksUpEdits(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	_, err = store.Load(driven.PromptClassify)
	require.NoError(t, err)

	edited := "Edited prompt %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, driven.PromptClassify+".txt"), []byte(edited), 0o600))

	// Cached until reload.
	prompt, err := store.Load(driven.PromptClassify)
	require.NoError(t, err)
	assert.NotEqual(t, edited, prompt)

	store.Reload()
	prompt, err = store.Load(driven.PromptClassify)
	require.NoError(t, err)
	assert.Equal(t, edited, prompt)
}

func TestPromptStore_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nonexistent")
	assert.Error(t, err)
}
