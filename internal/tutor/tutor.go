package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"study-buddy/internal/config"
	"study-buddy/internal/llmservice"
	"study-buddy/internal/memory"
	"study-buddy/internal/models"
	"study-buddy/internal/rag"
)

const (
	patternMaxTokens  = 150
	questionMaxTokens = 500
	hintMaxTokens     = 100
	feedbackMaxTokens = 150

	questionType = "multiple_choice"
	generalTopic = "General"
)

// Answerer answers a chat question with retrieved course material
type Answerer interface {
	Query(ctx context.Context, query string, history []llms.MessageContent, learnings string) (*models.PromptResponse, error)
}

// Tutor runs the study workflows on top of the retriever, the model and the learning memory
type Tutor struct {
	answerer Answerer
	llm      rag.Querier
	store    *memory.Store
	cfg      *config.Config
}

func NewTutor(answerer Answerer, llm rag.Querier, store *memory.Store, cfg *config.Config) *Tutor {
	return &Tutor{answerer: answerer, llm: llm, store: store, cfg: cfg}
}

func (t *Tutor) Memory() *memory.Store { return t.store }

func (t *Tutor) utility(ctx context.Context, purpose, system, prompt string, maxTokens int) (string, error) {
	return t.llm.Query(ctx, llmservice.Request{
		Purpose:   purpose,
		Model:     t.cfg.LLM.UtilityModel,
		Messages:  []llms.MessageContent{llmservice.System(system), llmservice.Human(prompt)},
		MaxTokens: maxTokens,
	})
}

// extractPattern keeps the difficulty statement of a model reply and drops anything else
func extractPattern(reply string) string {
	reply = memory.NormalizePattern(reply)
	i := strings.Index(reply, models.DifficultyPrefix)
	if i < 0 {
		return ""
	}
	return memory.NormalizePattern(reply[i:])
}

// RelevantMemory asks the model which recorded difficulties matter for query.
// It returns "" when the memory is empty or nothing applies.
func (t *Tutor) RelevantMemory(ctx context.Context, query string) (string, error) {
	if t.store.Len() == 0 {
		return "", nil
	}
	reply, err := t.utility(ctx, "Get relevant memory", models.PatternSystemPrompt,
		fmt.Sprintf(models.RelevantMemoryPromptTemplate, query, t.store.Render()), patternMaxTokens)
	if err != nil {
		return "", err
	}
	return extractPattern(reply), nil
}

func (t *Tutor) recordPattern(ctx context.Context, purpose, prompt string) (bool, error) {
	reply, err := t.utility(ctx, purpose, models.PatternSystemPrompt, prompt, patternMaxTokens)
	if err != nil {
		return false, err
	}
	_, ok, err := t.store.Append(extractPattern(reply))
	if err != nil {
		return false, err
	}
	if ok {
		log.Info().Str("purpose", purpose).Msg("New learning pattern saved")
	}
	return ok, nil
}

// RecordInteraction looks for a difficulty pattern in one exchange and appends it to memory.
// It reports whether an entry was written.
func (t *Tutor) RecordInteraction(ctx context.Context, question, response, feedback string) (bool, error) {
	return t.recordPattern(ctx, "Update memory with pattern",
		fmt.Sprintf(models.InteractionPatternPromptTemplate, question, response, feedback))
}

// Answer replies to a chat question, taking past difficulties into account
func (t *Tutor) Answer(ctx context.Context, question string, history []llms.MessageContent) (*models.PromptResponse, error) {
	learnings, err := t.RelevantMemory(ctx, question)
	if err != nil {
		// answer without the memory hint
		log.Warn().Err(err).Msg("Could not read relevant memory")
	}
	return t.answerer.Query(ctx, question, history, learnings)
}

func topicOrGeneral(topic string) string {
	if strings.TrimSpace(topic) == "" {
		return generalTopic
	}
	return topic
}

// GenerateQuestion asks for a multiple choice question on period, optionally narrowed to topic
func (t *Tutor) GenerateQuestion(ctx context.Context, period, topic string) (*Question, error) {
	topicContext := ""
	if topic = strings.TrimSpace(topic); topic != "" {
		topicContext = " focusing on " + topic
	}
	raw, err := t.utility(ctx, "Generate AP question", models.QuestionSystemPrompt,
		fmt.Sprintf(models.QuestionPromptTemplate, period, topicContext, questionType), questionMaxTokens)
	if err != nil {
		return nil, err
	}
	q := ParseQuestion(raw)
	if !q.Valid() {
		return nil, fmt.Errorf("generated question could not be parsed")
	}
	return q, nil
}

// Hint gives a nudge without revealing the answer
func (t *Tutor) Hint(ctx context.Context, q *Question, period, topic string) (string, error) {
	return t.utility(ctx, "Generate hint", models.HintSystemPrompt,
		fmt.Sprintf(models.HintPromptTemplate, q.Text, period, topicOrGeneral(topic)), hintMaxTokens)
}

// Feedback comments on the selected option, "" meaning the question was skipped
func (t *Tutor) Feedback(ctx context.Context, q *Question, period, topic, selected string) (string, error) {
	if selected == "" {
		selected = "skipped"
	}
	return t.utility(ctx, "Generate feedback", models.FeedbackSystemPrompt,
		fmt.Sprintf(models.FeedbackPromptTemplate, q.Text, period, topicOrGeneral(topic), selected, q.Answer), feedbackMaxTokens)
}

// RecordSkip notes a skipped practice question in memory
func (t *Tutor) RecordSkip(ctx context.Context, q *Question, period, topic string) (bool, error) {
	about := topic
	if strings.TrimSpace(about) == "" {
		about = "general topic"
	}
	return t.RecordInteraction(ctx, q.Text, "Question skipped",
		fmt.Sprintf("Student skipped question about %s in %s", about, period))
}

// RecordAnswer notes an answered practice question and its feedback in memory
func (t *Tutor) RecordAnswer(ctx context.Context, q *Question, period, topic, selected, feedback string) (bool, error) {
	outcome := "Incorrect answer"
	if q.IsCorrect(selected) {
		outcome = "Correct answer"
	}
	return t.RecordInteraction(ctx, q.Text,
		fmt.Sprintf("Selected: %s, Correct: %s", selected, q.Answer),
		fmt.Sprintf("%s on Topic: %s, Period: %s. %s", outcome, topicOrGeneral(topic), period, feedback))
}

// SavePracticeProblem asks whether a finished question reveals a pattern and stores it
func (t *Tutor) SavePracticeProblem(ctx context.Context, q *Question, period string) (bool, error) {
	return t.recordPattern(ctx, "Analyze practice problem pattern",
		fmt.Sprintf(models.ProblemPatternPromptTemplate, q.Text, period, q.Answer))
}

// RelevantPracticeProblems summarises past practice that matters for period
func (t *Tutor) RelevantPracticeProblems(ctx context.Context, period string) (string, error) {
	if t.store.Len() == 0 {
		return "", nil
	}
	return t.utility(ctx, "Get relevant practice problems", models.ProblemsSystemPrompt,
		fmt.Sprintf(models.RelevantProblemsPromptTemplate, period, t.store.Render()), patternMaxTokens)
}
