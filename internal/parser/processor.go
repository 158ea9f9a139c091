package parser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"study-buddy/internal/config"
	"study-buddy/internal/helper"
	"study-buddy/internal/models"
)

const (
	defaultChunkSize        = 500
	defaultOverlapSentences = 2
)

var (
	periodTitleRe = regexp.MustCompile(models.PeriodTitleRegex)
	periodFileRe  = regexp.MustCompile(models.PeriodFileRegex)
)

// Processor turns one course document into the chunks of a single corpus partition
type Processor struct {
	// Period is 1..9 for a period document and 0 for the exam information document
	Period           int
	ChunkSize        int
	OverlapSentences int

	now func() time.Time
}

// NewPeriodProcessor prepares a processor for the given course period
func NewPeriodProcessor(period int, cfg *config.Config) (*Processor, error) {
	if period < 1 || period > models.NumPeriods {
		return nil, fmt.Errorf("period must be between 1 and %d, got %d", models.NumPeriods, period)
	}
	p := newProcessor(cfg)
	p.Period = period
	return p, nil
}

// NewExamInfoProcessor prepares a processor for the exam information document
func NewExamInfoProcessor(cfg *config.Config) *Processor {
	return newProcessor(cfg)
}

func newProcessor(cfg *config.Config) *Processor {
	p := &Processor{
		ChunkSize:        defaultChunkSize,
		OverlapSentences: defaultOverlapSentences,
		now:              time.Now,
	}
	if cfg != nil && cfg.RAG.ChunkSize > 0 {
		p.ChunkSize = cfg.RAG.ChunkSize
		p.OverlapSentences = cfg.RAG.OverlapSentences
	}
	return p
}

func (p *Processor) IsExamInfo() bool { return p.Period == 0 }

// PeriodFromFilename reads the period number out of names like "p3.pdf"
func PeriodFromFilename(filePath string) (int, error) {
	m := periodFileRe.FindStringSubmatch(filepath.Base(filePath))
	if m == nil {
		return 0, fmt.Errorf("no period number in file name %s", filePath)
	}
	return strconv.Atoi(m[1])
}

// BuildChunks splits text and attaches partition metadata to every piece
func (p *Processor) BuildChunks(text string) []models.Chunk {
	pieces := SplitIntoChunks(text, p.ChunkSize, p.OverlapSentences)
	timestamp := p.now().Format(time.RFC3339)

	chunks := make([]models.Chunk, len(pieces))
	for i, piece := range pieces {
		md := models.Metadata{ChunkID: i, Timestamp: timestamp}
		if p.IsExamInfo() {
			md.Section = models.ExamInfoSection
			md.Source = "AP US History " + models.ExamInfoSection
		} else {
			period := strconv.Itoa(p.Period)
			md.Period = period
			md.PeriodTitle = "Period " + period
			if m := periodTitleRe.FindString(piece); m != "" {
				md.PeriodTitle = strings.TrimSpace(m)
			}
			md.Source = "AP US History Period " + period
		}
		chunks[i] = models.Chunk{Text: piece, Metadata: md}
	}
	return chunks
}

// OutputPath is the partition file the processor writes under dataDir
func (p *Processor) OutputPath(dataDir string) string {
	if p.IsExamInfo() {
		return models.ExamInfoChunksPath(dataDir)
	}
	return models.PeriodChunksPath(dataDir, p.Period)
}

// Save writes chunks to the processor's partition file, replacing any previous one
func (p *Processor) Save(dataDir string, chunks []models.Chunk) (string, error) {
	path := p.OutputPath(dataDir)
	if err := helper.CreateFolder(filepath.Dir(path)); err != nil {
		return "", err
	}
	if chunks == nil {
		chunks = []models.Chunk{}
	}
	if err := helper.WriteJSONFile(path, chunks); err != nil {
		return "", fmt.Errorf("save chunks: %w", err)
	}
	return path, nil
}

// Process extracts, chunks and saves one document, returning the number of chunks written
func (p *Processor) Process(filePath, dataDir string) (int, error) {
	log.Info().Str("file", filePath).Int("period", p.Period).Msg("Reading course document")
	text, err := ExtractText(filePath)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", filePath, err)
	}

	chunks := p.BuildChunks(text)
	path, err := p.Save(dataDir, chunks)
	if err != nil {
		return 0, err
	}
	log.Info().Str("output", path).Int("chunks", len(chunks)).Msg("Processing complete")
	return len(chunks), nil
}
