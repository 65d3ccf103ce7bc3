package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmorgan81/calcwire/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRuntimeConfigOverridesOnlyDefinedKeys(t *testing.T) {
	path := writeFile(t, "calcd.toml", `
listen = ":7000"
log_level = "debug"
`)

	cfg, err := loadRuntimeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Listen)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "calcwire", cfg.Name)
	assert.Equal(t, config.DefaultReadBufferBytes, cfg.ReadBufferBytes)
	assert.Empty(t, cfg.AdminAddr)
}

func TestLoadRuntimeConfigBlankNameKeepsDefault(t *testing.T) {
	path := writeFile(t, "calcd.toml", `name = "  "`)

	cfg, err := loadRuntimeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "calcwire", cfg.Name)
}

func TestLoadRuntimeConfigTrimsCorsOrigins(t *testing.T) {
	path := writeFile(t, "calcd.toml", `cors_origins = [" http://a.example ", "", "http://b.example"]`)

	cfg, err := loadRuntimeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CorsOrigins)
}

func TestLoadRuntimeConfigYAMLPassthrough(t *testing.T) {
	path := writeFile(t, "calcd.yaml", `listen: ":7100"`)

	cfg, err := loadRuntimeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7100", cfg.Listen)
}

func TestLoadRuntimeConfigRejectsInvalid(t *testing.T) {
	path := writeFile(t, "calcd.toml", `log_level = "loud"`)

	_, err := loadRuntimeConfig(path)
	require.Error(t, err)
}

func TestLoadRuntimeConfigMissingFile(t *testing.T) {
	_, err := loadRuntimeConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
