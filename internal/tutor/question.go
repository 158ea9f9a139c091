package tutor

import (
	"strings"

	"study-buddy/internal/models"
)

// Question is a generated multiple choice practice question
type Question struct {
	Text        string
	Options     []string
	Answer      string
	Explanation string
	Context     string
	Relevance   string
	Raw         string
}

// ParseQuestion reads the labelled blocks of a generated question. Blocks are separated
// by blank lines, unknown blocks are ignored.
func ParseQuestion(raw string) *Question {
	q := &Question{Raw: raw}
	for _, part := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n\n") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, models.QuestionLabel):
			q.Text = labelValue(part, models.QuestionLabel)
		case strings.HasPrefix(part, models.OptionsLabel):
			for _, line := range strings.Split(labelValue(part, models.OptionsLabel), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					q.Options = append(q.Options, line)
				}
			}
		case strings.HasPrefix(part, models.AnswerLabel):
			q.Answer = labelValue(part, models.AnswerLabel)
		case strings.HasPrefix(part, models.ExplanationLabel):
			q.Explanation = labelValue(part, models.ExplanationLabel)
		case strings.HasPrefix(part, models.ContextLabel):
			q.Context = labelValue(part, models.ContextLabel)
		case strings.HasPrefix(part, models.RelevanceLabel):
			q.Relevance = labelValue(part, models.RelevanceLabel)
		}
	}
	return q
}

func labelValue(part, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(part, label))
}

// Valid reports whether the question can be asked
func (q *Question) Valid() bool {
	return q.Text != "" && len(q.Options) > 0 && q.AnswerLetter() != ""
}

// AnswerLetter is the upper-case letter of the correct option, "" if unknown
func (q *Question) AnswerLetter() string {
	a := strings.TrimSpace(q.Answer)
	if a == "" {
		return ""
	}
	letter := strings.ToUpper(a[:1])
	if letter < "A" || letter > "D" {
		return ""
	}
	return letter
}

// Option returns the option labelled letter, e.g. "B) The Stamp Act"
func (q *Question) Option(letter string) (string, bool) {
	prefix := strings.ToUpper(letter) + ")"
	for _, opt := range q.Options {
		if strings.HasPrefix(opt, prefix) {
			return opt, true
		}
	}
	return "", false
}

// IsCorrect reports whether the chosen option is the right one
func (q *Question) IsCorrect(option string) bool {
	letter := q.AnswerLetter()
	return letter != "" && strings.HasPrefix(option, letter+")")
}

// Solution renders the answer with its explanation blocks
func (q *Question) Solution() string {
	var b strings.Builder
	write := func(label, value string) {
		if value != "" {
			b.WriteString(label + "\n" + value + "\n\n")
		}
	}
	write(models.AnswerLabel, q.Answer)
	write(models.ExplanationLabel, q.Explanation)
	write(models.ContextLabel, q.Context)
	write(models.RelevanceLabel, q.Relevance)
	return strings.TrimSpace(b.String())
}
