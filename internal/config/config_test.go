package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(apiKeyEnv, "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, defaultBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, "llama3-70b-8192", cfg.LLM.ChatModel)
	assert.Equal(t, "llama3-8b-8192", cfg.LLM.UtilityModel)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 3, cfg.RAG.TopK)
	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	assert.Equal(t, 2, cfg.RAG.OverlapSentences)
	assert.Equal(t, "memory.jsonl", cfg.Memory.Path)
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrMissingAPIKey)
}

func TestLoadConfig_OverridesAndEnvExpansion(t *testing.T) {
	t.Setenv("STUDY_DATA", "/srv/apush")
	t.Setenv(apiKeyEnv, "gsk-test")

	path := writeConfig(t, `
llm:
  key: $GROQ_API_KEY
  timeout: 5s
rag:
  data_dir: $STUDY_DATA
  top_k: 5
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gsk-test", cfg.LLM.Key)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "/srv/apush", cfg.RAG.DataDir)
	assert.Equal(t, 5, cfg.RAG.TopK)
	// untouched keys keep their defaults
	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoadConfig_UnsetKeyReferenceIsEmpty(t *testing.T) {
	t.Setenv(apiKeyEnv, "")

	cfg, err := LoadConfig(writeConfig(t, "llm:\n  key: $GROQ_API_KEY\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.Key)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "rag:\n  top_k: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top_k")

	_, err = LoadConfig(writeConfig(t, "rag:\n  chunk_size: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk_size")
}

func TestLoadConfig_BadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "rag: [unterminated"))
	assert.Error(t, err)
}
