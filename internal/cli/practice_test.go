package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-buddy/internal/llmservice"
	"study-buddy/internal/memory"
)

func TestPracticeCmd_Metadata(t *testing.T) {
	assert.Equal(t, "practice", practiceCmd.Use)
	assert.Contains(t, practiceCmd.Long, "hint")
}

func TestPractice_AnswerWithHint(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.execute(t, "3\nKey events\nhint\nZ\nB\nexit\n", "practice")
	require.NoError(t, err)

	assert.Contains(t, out, "You've selected Period 3 (1754-1800): The American Revolution")
	assert.Contains(t, out, "Which event most directly led to the Intolerable Acts?")
	assert.Contains(t, out, "D) The Whiskey Rebellion")
	assert.Contains(t, out, "Hint: Think about Boston harbor.")
	assert.Contains(t, out, "Please enter a valid letter (A, B, C, or D)")
	assert.Contains(t, out, "Correct!")
	assert.Contains(t, out, "Well done.")
	assert.Contains(t, out, "EXPLANATION:\nParliament passed the Coercive Acts")

	assert.Equal(t, []string{
		"Generate AP question",
		"Generate hint",
		"Generate feedback",
		"Update memory with pattern",
		"Analyze practice problem pattern",
	}, env.llm.purposes())
	assert.Contains(t, llmservice.MessageText(env.llm.reqs[3].Messages[1]), "Correct answer on Topic: Key events")

	store, err := memory.Open(env.memoryPath)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestPractice_SkipRecordsSkip(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.execute(t, "1\n\nskip\nexit\n", "practice")
	require.NoError(t, err)

	assert.Contains(t, out, "Correct Answer: B")
	require.GreaterOrEqual(t, len(env.llm.reqs), 2)
	assert.Equal(t, "Update memory with pattern", env.llm.reqs[1].Purpose)
	assert.Contains(t, llmservice.MessageText(env.llm.reqs[1].Messages[1]), "Student skipped question about general topic")
	assert.Contains(t, llmservice.MessageText(env.llm.reqs[2].Messages[1]), "Student's selected option: skipped")
}

func TestPractice_InvalidPeriodChoices(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.execute(t, "ten\n12\nproblems\nexit\n", "practice")
	require.NoError(t, err)

	assert.Contains(t, out, "Please enter a valid number.")
	assert.Contains(t, out, "Invalid period number. Please try again.")
	assert.Contains(t, out, "All Practice Problems:")
	assert.Empty(t, env.llm.reqs)
}

func TestPractice_FromChat(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.execute(t, "practice\nexit\nexit\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "=== AP US History Practice Mode ===")
}

func TestPractice_BadQuestionIsReported(t *testing.T) {
	env := setupTestEnv(t)
	env.llm.replies["Generate AP question"] = "I cannot write that question."

	out, err := env.execute(t, "2\n\nexit\n", "practice")
	require.NoError(t, err)
	assert.Contains(t, out, "Sorry, I couldn't generate a practice question.")
}
