package rag

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"study-buddy/internal/models"
)

// Corpus is the immutable set of chunks the scorer ranks. Chunk order is
// periods 1..9 followed by exam info, which is also the tie-break order.
type Corpus struct {
	chunks   []models.Chunk
	periods  map[int][]models.Chunk
	examInfo []models.Chunk
}

// NewCorpus builds a corpus from already loaded partitions. Periods outside 1..9 are ignored.
func NewCorpus(periods map[int][]models.Chunk, examInfo []models.Chunk) *Corpus {
	c := &Corpus{periods: make(map[int][]models.Chunk)}
	for n := 1; n <= models.NumPeriods; n++ {
		chunks, ok := periods[n]
		if !ok {
			continue
		}
		c.periods[n] = chunks
		c.chunks = append(c.chunks, chunks...)
	}
	c.examInfo = examInfo
	c.chunks = append(c.chunks, examInfo...)
	return c
}

// Chunks returns every chunk in corpus order. Callers must not modify the result.
func (c *Corpus) Chunks() []models.Chunk { return c.chunks }

func (c *Corpus) Period(n int) []models.Chunk { return c.periods[n] }

func (c *Corpus) ExamInfo() []models.Chunk { return c.examInfo }

func (c *Corpus) Len() int { return len(c.chunks) }

// rawChunk detects records that lack text or metadata
type rawChunk struct {
	Text     *string          `json:"text"`
	Metadata *models.Metadata `json:"metadata"`
}

// LoadCorpus reads every partition file under dataDir. Partitions that are missing or
// unreadable are skipped, malformed records are skipped individually.
func LoadCorpus(dataDir string) (*Corpus, error) {
	info, err := os.Stat(dataDir)
	if err != nil {
		return nil, fmt.Errorf("corpus data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus data dir %s is not a directory", dataDir)
	}

	periods := make(map[int][]models.Chunk)
	for n := 1; n <= models.NumPeriods; n++ {
		chunks, ok := loadPartition(models.PeriodChunksPath(dataDir, n))
		if ok {
			periods[n] = chunks
		}
	}

	examInfo, _ := loadPartition(models.ExamInfoChunksPath(dataDir))

	corpus := NewCorpus(periods, examInfo)
	log.Info().Int("chunks", corpus.Len()).Int("periods", len(periods)).Int("exam_info", len(examInfo)).Msg("Loaded corpus")
	return corpus, nil
}

func loadPartition(path string) ([]models.Chunk, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("file", path).Msg("Partition file not found, skipping")
		} else {
			log.Warn().Err(err).Str("file", path).Msg("Error reading partition, skipping")
		}
		return nil, false
	}

	chunks, err := ParseChunks(data, path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Error loading partition, skipping")
		return nil, false
	}
	return chunks, true
}

// ParseChunks decodes a partition file. name is only used for log messages.
func ParseChunks(data []byte, name string) ([]models.Chunk, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode chunk array: %w", err)
	}

	chunks := make([]models.Chunk, 0, len(records))
	for i, rec := range records {
		var raw rawChunk
		if err := json.Unmarshal(rec, &raw); err != nil {
			log.Warn().Err(err).Str("file", name).Int("index", i).Msg("Malformed chunk record, skipping")
			continue
		}
		if raw.Text == nil || raw.Metadata == nil {
			log.Warn().Str("file", name).Int("index", i).Msg("Chunk record missing text or metadata, skipping")
			continue
		}
		chunks = append(chunks, models.Chunk{Text: *raw.Text, Metadata: *raw.Metadata})
	}
	return chunks, nil
}
