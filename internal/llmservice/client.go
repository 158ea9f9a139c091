package llmservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"study-buddy/internal/config"
)

const logPreviewLen = 100

var ErrEmptyResponse = errors.New("llm returned no choices")

// Model is the part of a langchaingo model the client needs
type Model interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Request is one chat completion call
type Request struct {
	Purpose   string
	Model     string
	Messages  []llms.MessageContent
	MaxTokens int
}

// Client sends chat completions to an OpenAI compatible endpoint such as Groq
type Client struct {
	model        Model
	defaultModel string
	temperature  float64
}

// NewClient connects to the endpoint described by llmConfig
func NewClient(llmConfig *config.LLMConfig) (*Client, error) {
	if strings.TrimSpace(llmConfig.Key) == "" {
		return nil, config.ErrMissingAPIKey
	}
	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.UtilityModel),
		openai.WithHTTPClient(&http.Client{Timeout: llmConfig.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}
	return NewClientWithModel(llm, llmConfig.UtilityModel, llmConfig.Temperature), nil
}

// NewClientWithModel wraps an existing model, mostly for tests
func NewClientWithModel(model Model, defaultModel string, temperature float64) *Client {
	return &Client{model: model, defaultModel: defaultModel, temperature: temperature}
}

// Query sends req and returns the trimmed text of the first choice
func (c *Client) Query(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	logCall(req.Purpose, model, req.Messages)

	opts := []llms.CallOption{
		llms.WithModel(model),
		llms.WithTemperature(c.temperature),
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	res, err := c.model.GenerateContent(ctx, req.Messages, opts...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", req.Purpose, err)
	}
	if res == nil || len(res.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", req.Purpose, ErrEmptyResponse)
	}
	return strings.TrimSpace(res.Choices[0].Content), nil
}

func logCall(purpose, model string, messages []llms.MessageContent) {
	ev := log.Debug()
	if !ev.Enabled() {
		return
	}
	previews := make([]string, 0, len(messages))
	for _, m := range messages {
		previews = append(previews, fmt.Sprintf("%s: %s", m.Role, truncate(MessageText(m), logPreviewLen)))
	}
	ev.Str("purpose", purpose).Str("model", model).Strs("context", previews).Msg("LLM call")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// MessageText joins the text parts of a message
func MessageText(m llms.MessageContent) string {
	var b strings.Builder
	for _, p := range m.Parts {
		if t, ok := p.(llms.TextContent); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

func System(text string) llms.MessageContent {
	return llms.TextParts(llms.ChatMessageTypeSystem, text)
}

func Human(text string) llms.MessageContent {
	return llms.TextParts(llms.ChatMessageTypeHuman, text)
}

func AI(text string) llms.MessageContent {
	return llms.TextParts(llms.ChatMessageTypeAI, text)
}
