package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvGeminiKey, "")
	t.Setenv(EnvSerperKey, "")
	t.Setenv(EnvAliExpressKey, "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Theme)
	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvGeminiKey, "env-gemini")
	t.Setenv(EnvSerperKey, "")
	t.Setenv(EnvAliExpressKey, "")

	dir := filepath.Join(home, ".shopassist")
	require.NoError(t, os.MkdirAll(dir, 0755))
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("gemini_api_key: file-gemini\nserper_api_key: file-serper\ntheme: dark\n"), 0600))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "env-gemini", cfg.GeminiAPIKey, "environment wins over file")
	assert.Equal(t, "file-serper", cfg.SerperAPIKey, "file value kept when env is unset")
	assert.Equal(t, "dark", cfg.Theme)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvGeminiKey, "")
	t.Setenv(EnvSerperKey, "")
	t.Setenv(EnvAliExpressKey, "")

	want := Config{
		GeminiAPIKey:     "g-key",
		SerperAPIKey:     "s-key",
		AliExpressAPIKey: "a-key",
		Theme:            "dark",
	}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWarnings_ReportEachMissingCredential(t *testing.T) {
	cfg := Config{}
	warnings := cfg.Warnings()
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "GEMINI_API_KEY")
	assert.Contains(t, warnings[1], "SERPER_KEY")
	assert.Contains(t, warnings[2], "ALIEXPRESS_KEY")

	full := Config{GeminiAPIKey: "g", SerperAPIKey: "s", AliExpressAPIKey: "a"}
	assert.Empty(t, full.Warnings())
}
