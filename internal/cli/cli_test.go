package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"study-buddy/internal/config"
	"study-buddy/internal/helper"
	"study-buddy/internal/llmservice"
	"study-buddy/internal/models"
	"study-buddy/internal/rag"
)

const testQuestion = `QUESTION:
Which event most directly led to the Intolerable Acts?

OPTIONS:
A) The Stamp Act Congress
B) The Boston Tea Party
C) The Battle of Saratoga
D) The Whiskey Rebellion

ANSWER:
B

EXPLANATION:
Parliament passed the Coercive Acts to punish Boston.`

// fakeLLM replies by request purpose
type fakeLLM struct {
	replies map[string]string
	reqs    []llmservice.Request
}

func (f *fakeLLM) Query(_ context.Context, req llmservice.Request) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.replies[req.Purpose], nil
}

func (f *fakeLLM) purposes() []string {
	out := make([]string, len(f.reqs))
	for i, r := range f.reqs {
		out[i] = r.Purpose
	}
	return out
}

func newFakeLLM() *fakeLLM {
	return &fakeLLM{replies: map[string]string{
		"Main chat response":         "The Tea Act angered colonists.",
		"Update memory with pattern": "User has shown difficulty with: taxation",
		"Generate AP question":       testQuestion,
		"Generate hint":              "Think about Boston harbor.",
		"Generate feedback":          "Well done.",
	}}
}

type testEnv struct {
	configPath string
	dataDir    string
	memoryPath string
	llm        *fakeLLM
}

// setupTestEnv writes a config pointing at temp dirs and swaps in a fake model
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		configPath: filepath.Join(dir, "config.yaml"),
		dataDir:    filepath.Join(dir, "data"),
		memoryPath: filepath.Join(dir, "memory.jsonl"),
		llm:        newFakeLLM(),
	}
	yaml := fmt.Sprintf("llm:\n  key: test-key\nrag:\n  data_dir: %s\n  top_k: 3\nmemory:\n  path: %s\n", env.dataDir, env.memoryPath)
	require.NoError(t, os.WriteFile(env.configPath, []byte(yaml), 0o644))

	prev := newQuerier
	newQuerier = func(*config.LLMConfig) (rag.Querier, error) { return env.llm, nil }
	t.Cleanup(func() {
		newQuerier = prev
		searchTopK, searchJSON, searchContext = 0, false, false
		ingestPeriod, ingestSourceDir = 0, "."
		memoryJSON, verbose = false, false
	})
	return env
}

func (e *testEnv) writeCorpus(t *testing.T) {
	t.Helper()
	period3 := []models.Chunk{
		{Text: "The Boston Tea Party was a protest against the Tea Act.", Metadata: models.Metadata{Period: "3", PeriodTitle: "Period 3: Revolution", ChunkID: 0}},
		{Text: "Colonists debated independence.", Metadata: models.Metadata{Period: "3", PeriodTitle: "Period 3: Revolution", ChunkID: 1}},
	}
	exam := []models.Chunk{
		{Text: "The DBQ is scored with a seven point rubric.", Metadata: models.Metadata{Section: models.ExamInfoSection, ChunkID: 0}},
	}
	path := models.PeriodChunksPath(e.dataDir, 3)
	require.NoError(t, helper.CreateFolder(filepath.Dir(path)))
	require.NoError(t, helper.WriteJSONFile(path, period3))
	path = models.ExamInfoChunksPath(e.dataDir)
	require.NoError(t, helper.CreateFolder(filepath.Dir(path)))
	require.NoError(t, helper.WriteJSONFile(path, exam))
}

// execute runs the root command with input on stdin and returns what it printed
func (e *testEnv) execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(path, body string) error {
	return os.WriteFile(path, []byte(body), 0o644)
}
