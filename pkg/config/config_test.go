package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesFromFile(t *testing.T) {
	path := writeConfigFile(t, `
log_level: debug
hook_timeout_seconds: 30
plugin_path: /opt/qmpp/plugins
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HookTimeout)
	assert.Equal(t, "/opt/qmpp/plugins", cfg.PluginPath)
}

func TestLoad_PartialFileKeepsRemainingDefaults(t *testing.T) {
	path := writeConfigFile(t, `log_level: warn`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, Default().HookTimeout, cfg.HookTimeout)
	assert.Equal(t, "", cfg.PluginPath)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := writeConfigFile(t, "log_level: [this is not a string")

	_, err := Load(path)
	assert.Error(t, err)
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qmpp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}
