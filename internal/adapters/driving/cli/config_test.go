package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd_Use(t *testing.T) {
	assert.Equal(t, "config", configCmd.Use)
	assert.Equal(t, "get [key]", configGetCmd.Use)
	assert.Equal(t, "set [key] [value]", configSetCmd.Use)
}

func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestConfigCmd_SetThenGet(t *testing.T) {
	dir := t.TempDir()

	out, err := execRoot(t, "config", "set", "endpoint", "http://redact.internal:9090", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "endpoint = http://redact.internal:9090")

	out, err = execRoot(t, "config", "get", "endpoint", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "http://redact.internal:9090")
}

func TestConfigCmd_GetAll(t *testing.T) {
	dir := t.TempDir()

	_, err := execRoot(t, "config", "set", "endpoint", "http://localhost:8080", "--config-dir", dir)
	require.NoError(t, err)
	_, err = execRoot(t, "config", "set", "model", "claude-3-5-sonnet-latest", "--config-dir", dir)
	require.NoError(t, err)

	out, err := execRoot(t, "config", "get", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "endpoint = http://localhost:8080")
	assert.Contains(t, out, "model = claude-3-5-sonnet-latest")
}

func TestConfigCmd_GetUnsetKey(t *testing.T) {
	dir := t.TempDir()

	_, err := execRoot(t, "config", "get", "nonexistent", "--config-dir", dir)
	assert.ErrorContains(t, err, "not set")
}
