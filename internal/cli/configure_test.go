package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junyi/aria/internal/config"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := GetRootCmd()
	cmd.SetArgs(args)

	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(output)

	err := cmd.Execute()
	return output.String(), err
}

func TestConfigureWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aria.json")

	out, err := runCommand(t,
		"configure",
		"--config", path,
		"--provider", "anthropic",
		"--api-key", "sk-ant-test-key",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration saved")

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.AI.Profiles, 1)
	assert.Equal(t, "anthropic", cfg.AI.Profiles[0].Provider)
	assert.Equal(t, "sk-ant-test-key", cfg.AI.Profiles[0].APIKey)
}

func TestConfigureRequiresAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aria.json")

	_, err := runCommand(t, "configure", "--config", path, "--api-key", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api-key")
}

func TestConfigureRejectsMalformedAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aria.json")

	_, err := runCommand(t,
		"configure",
		"--config", path,
		"--provider", "anthropic",
		"--api-key", "not-a-real-key",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sk-ant-")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigureCustomModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aria.json")

	_, err := runCommand(t,
		"configure",
		"--config", path,
		"--api-key", "sk-ant-test-key",
		"--model", "claude-sonnet-4-20250514",
	)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Classifier.Model)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.Extractor.Model)
}

func TestStatusWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aria.json")

	out, err := runCommand(t, "status", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Aria Status")
	assert.Contains(t, out, "not configured")
}
