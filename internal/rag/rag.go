package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"study-buddy/internal/config"
	"study-buddy/internal/llmservice"
	"study-buddy/internal/models"
)

const chatMaxTokens = 1000

// Querier sends a chat completion request
type Querier interface {
	Query(ctx context.Context, req llmservice.Request) (string, error)
}

// RAG answers questions with course material retrieved by the scorer
type RAG struct {
	scorer *Scorer
	llm    Querier
	cfg    *config.Config
}

func NewRAG(scorer *Scorer, llm Querier, cfg *config.Config) *RAG {
	return &RAG{scorer: scorer, llm: llm, cfg: cfg}
}

// Query answers query given earlier turns of the conversation and an optional note on the
// student's past difficulties
func (r *RAG) Query(ctx context.Context, query string, history []llms.MessageContent, learnings string) (*models.PromptResponse, error) {
	chunks := r.scorer.GetRelevantChunks(query, r.cfg.RAG.TopK)
	log.Debug().Int("chunks", len(chunks)).Str("query", query).Msg("Retrieved context")

	messages := []llms.MessageContent{llmservice.System(models.TutorSystemPrompt)}
	if learnings != "" {
		messages = append(messages, llmservice.System(fmt.Sprintf(models.LearningsPromptTemplate, learnings)))
	}
	if len(chunks) > 0 {
		messages = append(messages, llmservice.System(fmt.Sprintf(models.ContextPromptTemplate, FormatContext(chunks))))
	}
	messages = append(messages, history...)
	messages = append(messages, llmservice.Human(query))

	content, err := r.llm.Query(ctx, llmservice.Request{
		Purpose:   "Main chat response",
		Model:     r.cfg.LLM.ChatModel,
		Messages:  messages,
		MaxTokens: chatMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	return &models.PromptResponse{
		Query:   query,
		Source:  sources(chunks),
		Content: content,
	}, nil
}

// sources lists the distinct partition labels of chunks in order
func sources(chunks []models.Chunk) string {
	seen := make(map[string]bool)
	var labels []string
	for _, c := range chunks {
		label := strings.TrimPrefix(PartitionLabel(c), "From ")
		if seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return strings.Join(labels, "; ")
}
