package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/facultyportal/research-engine/pkg/apperrors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("AUTH_ENABLE_VERIFICATION", "false")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "test", cfg.Version)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "openai/gpt-oss-120b", cfg.LLM.Model)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("AUTH_ENABLE_VERIFICATION", "false")

	_, err := Load("test")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrLLMNotConfigured))
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("LLM_PROVIDER", "cohere")
	t.Setenv("AUTH_ENABLE_VERIFICATION", "false")

	_, err := Load("test")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrLLMNotConfigured))
}

func TestLoad_JWKSRequiredWhenVerifying(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("AUTH_ENABLE_VERIFICATION", "true")
	t.Setenv("AUTH_JWKS_URL", "")

	_, err := Load("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwks_url")
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	doc, err := yaml.Marshal(map[string]any{
		"port": "9000",
		"env":  "staging",
		"auth": map[string]any{"enable_verification": false},
		"llm": map[string]any{
			"provider": "openai",
			"base_url": "https://api.groq.com/openai/v1",
			"model":    "from-yaml",
		},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), doc, 0o600))

	t.Chdir(dir)
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("LLM_MODEL", "from-env")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "staging", cfg.Env)
	// Environment overrides YAML.
	assert.Equal(t, "from-env", cfg.LLM.Model)
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "portal",
		Password: "secret",
		Database: "research_portal",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=portal password=secret dbname=research_portal sslmode=require",
		cfg.ConnectionString())
}
