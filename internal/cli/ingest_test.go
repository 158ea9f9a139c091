package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-buddy/internal/models"
	"study-buddy/internal/rag"
)

func TestIngestCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range ingestCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["period"])
	assert.True(t, names["exam"])
	assert.True(t, names["all"])

	flag := ingestPeriodCmd.Flags().Lookup("period")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	flag = ingestAllCmd.Flags().Lookup("source-dir")
	require.NotNil(t, flag)
	assert.Equal(t, ".", flag.DefValue)
}

func TestIngestPeriod_FromFilename(t *testing.T) {
	env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "p4.txt")
	require.NoError(t, os.WriteFile(src, []byte("Period 4: Early Republic\nKey Concept: The Louisiana Purchase doubled the nation."), 0o644))

	out, err := env.execute(t, "", "ingest", "period", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 chunks to "+models.PeriodChunksPath(env.dataDir, 4))

	corpus, err := rag.LoadCorpus(env.dataDir)
	require.NoError(t, err)
	assert.Len(t, corpus.Period(4), 2)
}

func TestIngestPeriod_FlagOverridesFilename(t *testing.T) {
	env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(src, []byte("# Gilded Age\n\nRailroads expanded."), 0o644))

	_, err := env.execute(t, "", "ingest", "period", "--period", "6", src)
	require.NoError(t, err)
	_, err = os.Stat(models.PeriodChunksPath(env.dataDir, 6))
	assert.NoError(t, err)
}

func TestIngestPeriod_NeedsPeriod(t *testing.T) {
	env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("text"), 0o644))

	_, err := env.execute(t, "", "ingest", "period", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--period")
}

func TestIngestExam(t *testing.T) {
	env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "exam.txt")
	require.NoError(t, os.WriteFile(src, []byte("The exam lasts 3 hours and 15 minutes."), 0o644))

	_, err := env.execute(t, "", "ingest", "exam", src)
	require.NoError(t, err)

	corpus, err := rag.LoadCorpus(env.dataDir)
	require.NoError(t, err)
	require.Len(t, corpus.ExamInfo(), 1)
	assert.True(t, corpus.ExamInfo()[0].Metadata.IsExamInfo())
}

func TestIngestAll_NothingToIngest(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.execute(t, "", "ingest", "all", "--source-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "Skipping")
	assert.Contains(t, err.Error(), "no course documents")
}

func TestIngestAll_BrokenDocumentIsSkipped(t *testing.T) {
	env := setupTestEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p1.pdf"), []byte("this file is not a pdf document at all"), 0o644))

	out, err := env.execute(t, "", "ingest", "all", "-s", dir)
	require.Error(t, err)
	assert.Contains(t, out, "p1.pdf")
	assert.Contains(t, out, "file not found")
}
