package rag

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"study-buddy/internal/models"
)

const boostFactor = 1.5

var wordRe = regexp.MustCompile(models.WordRegex)

// ScoredChunk is a chunk together with its relevance score for one query
type ScoredChunk struct {
	Chunk models.Chunk `json:"chunk"`
	Score float64      `json:"score"`
}

type indexedChunk struct {
	chunk models.Chunk
	lower string
	words map[string]struct{}
	title string
}

// Scorer ranks corpus chunks against free-text queries by keyword overlap.
// It holds no mutable state after construction.
type Scorer struct {
	index []indexedChunk
}

func NewScorer(corpus *Corpus) *Scorer {
	s := &Scorer{}
	if corpus == nil {
		return s
	}
	s.index = make([]indexedChunk, len(corpus.Chunks()))
	for i, c := range corpus.Chunks() {
		s.index[i] = newIndexedChunk(c)
	}
	return s
}

func newIndexedChunk(c models.Chunk) indexedChunk {
	lower := strings.ToLower(c.Text)
	return indexedChunk{
		chunk: c,
		lower: lower,
		words: wordSet(lower),
		title: strings.ToLower(c.Metadata.PeriodTitle),
	}
}

func wordSet(lower string) map[string]struct{} {
	words := wordRe.FindAllString(lower, -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// query holds everything derived from the query text once per call
type query struct {
	words          map[string]struct{}
	periodMentions []string
	examRelated    bool
}

func parseQuery(text string) query {
	lower := strings.ToLower(text)
	q := query{words: wordSet(lower)}
	for n := 1; n <= models.NumPeriods; n++ {
		mention := fmt.Sprintf("period %d", n)
		if strings.Contains(lower, mention) {
			q.periodMentions = append(q.periodMentions, mention)
		}
	}
	for _, kw := range models.ExamKeywords {
		if strings.Contains(lower, kw) {
			q.examRelated = true
			break
		}
	}
	return q
}

func (q query) score(c indexedChunk) float64 {
	var score float64
	for w := range q.words {
		if _, ok := c.words[w]; ok {
			score++
		}
	}
	// every query word found anywhere in the text counts again, including the overlap above
	for w := range q.words {
		if strings.Contains(c.lower, w) {
			score++
		}
	}
	for _, mention := range q.periodMentions {
		if strings.Contains(c.title, mention) {
			score *= boostFactor
			break
		}
	}
	if q.examRelated && c.chunk.Metadata.IsExamInfo() {
		score *= boostFactor
	}
	return score
}

// Score returns the relevance of a single chunk for queryText
func (s *Scorer) Score(queryText string, chunk models.Chunk) float64 {
	return parseQuery(queryText).score(newIndexedChunk(chunk))
}

// Rank returns up to topK chunks with a positive score, best first. Equal scores keep corpus order.
func (s *Scorer) Rank(queryText string, topK int) []ScoredChunk {
	if topK <= 0 || len(s.index) == 0 {
		return []ScoredChunk{}
	}

	q := parseQuery(queryText)
	scored := make([]ScoredChunk, len(s.index))
	for i, c := range s.index {
		scored[i] = ScoredChunk{Chunk: c.chunk, Score: q.score(c)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	results := make([]ScoredChunk, 0, topK)
	for _, sc := range scored {
		if len(results) == topK || sc.Score <= 0 {
			break
		}
		results = append(results, sc)
	}
	return results
}

// GetRelevantChunks returns up to topK chunks relevant to queryText, most relevant first
func (s *Scorer) GetRelevantChunks(queryText string, topK int) []models.Chunk {
	ranked := s.Rank(queryText, topK)
	chunks := make([]models.Chunk, len(ranked))
	for i, sc := range ranked {
		chunks[i] = sc.Chunk
	}
	return chunks
}
