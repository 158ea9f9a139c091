package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-buddy/internal/config"
	"study-buddy/internal/llmservice"
	"study-buddy/internal/memory"
)

func TestChatCmd_Metadata(t *testing.T) {
	assert.Equal(t, "chat", chatCmd.Use)
	assert.Equal(t, "Ask AP US History questions", chatCmd.Short)
}

func TestChat_AnswersAndRecordsMemory(t *testing.T) {
	env := setupTestEnv(t)
	env.writeCorpus(t)

	out, err := env.execute(t, "periods\nWhy was the Boston Tea Party important?\nno\nmemory\nexit\n", "chat")
	require.NoError(t, err)

	assert.Contains(t, out, "Welcome to AP US History Study Buddy!")
	assert.Contains(t, out, "9. Period 9 (1980-Present): Modern America")
	assert.Contains(t, out, "AI:")
	assert.Contains(t, out, "Tea Act")
	assert.Contains(t, out, "Sources: Period 3 (Period 3: Revolution)")
	assert.Contains(t, out, "User has shown difficulty with: taxation")

	assert.Equal(t, []string{"Main chat response", "Update memory with pattern"}, env.llm.purposes())
	chat := env.llm.reqs[0]
	assert.Equal(t, config.DefaultConfig().LLM.ChatModel, chat.Model)

	store, err := memory.Open(env.memoryPath)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestChat_FollowUpKeepsHistory(t *testing.T) {
	env := setupTestEnv(t)
	env.writeCorpus(t)

	_, err := env.execute(t, "What was the Tea Act?\nyes\nWho opposed it?\nno\nexit\n")
	require.NoError(t, err)

	require.Equal(t, []string{
		"Main chat response",
		"Main chat response",
		"Update memory with pattern",
	}, env.llm.purposes())

	msgs := env.llm.reqs[1].Messages
	require.GreaterOrEqual(t, len(msgs), 4)
	assert.Equal(t, "What was the Tea Act?", llmservice.MessageText(msgs[len(msgs)-3]))
	assert.Equal(t, "The Tea Act angered colonists.", llmservice.MessageText(msgs[len(msgs)-2]))
	assert.Equal(t, "Who opposed it?", llmservice.MessageText(msgs[len(msgs)-1]))
	assert.Contains(t, llmservice.MessageText(env.llm.reqs[2].Messages[1]), "Question: Who opposed it?")
}

func TestChat_EndOfInputExits(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.execute(t, "", "chat")
	assert.NoError(t, err)
	assert.Empty(t, env.llm.reqs)
}

func TestChat_RequiresAPIKey(t *testing.T) {
	env := setupTestEnv(t)
	t.Setenv("GROQ_API_KEY", "")
	require.NoError(t, writeFile(env.configPath, "rag:\n  data_dir: "+env.dataDir+"\n"))

	_, err := env.execute(t, "exit\n", "chat")
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}
