package models

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
)

// Chunk is a span of course text plus descriptive metadata, the unit of retrieval
type Chunk struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Metadata holds the documented chunk keys. Any other key found on disk is kept in Extra
// so a load/save round trip does not drop it.
type Metadata struct {
	Period      string
	PeriodTitle string
	Section     string
	ChunkID     int
	Source      string
	Timestamp   string
	Extra       map[string]any
}

const (
	keyPeriod      = "period"
	keyPeriodTitle = "period_title"
	keySection     = "section"
	keyChunkID     = "chunk_id"
	keySource      = "source"
	keyTimestamp   = "timestamp"
)

// IsExamInfo reports whether the chunk belongs to the exam-info partition
func (m Metadata) IsExamInfo() bool {
	return m.Section == ExamInfoSection
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+6)
	for k, v := range m.Extra {
		out[k] = v
	}
	out[keyChunkID] = m.ChunkID
	if m.Period != "" {
		out[keyPeriod] = m.Period
	}
	if m.PeriodTitle != "" {
		out[keyPeriodTitle] = m.PeriodTitle
	}
	if m.Section != "" {
		out[keySection] = m.Section
	}
	if m.Source != "" {
		out[keySource] = m.Source
	}
	if m.Timestamp != "" {
		out[keyTimestamp] = m.Timestamp
	}
	return json.Marshal(out)
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("metadata must be an object")
	}

	*m = Metadata{}
	for k, v := range raw {
		switch k {
		case keyPeriod:
			m.Period = stringValue(v)
		case keyPeriodTitle:
			m.PeriodTitle = stringValue(v)
		case keySection:
			m.Section = stringValue(v)
		case keySource:
			m.Source = stringValue(v)
		case keyTimestamp:
			m.Timestamp = stringValue(v)
		case keyChunkID:
			id, err := intValue(v)
			if err != nil {
				return fmt.Errorf("chunk_id: %w", err)
			}
			m.ChunkID = id
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]any)
			}
			m.Extra[k] = v
		}
	}
	return nil
}

// period numbers are written as strings by the ingester, but hand-edited files use plain numbers
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func intValue(v any) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return int(t), nil
	case string:
		return strconv.Atoi(t)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

// PromptResponse is what the tutor hands back to the CLI for a single question
type PromptResponse struct {
	Query   string
	Source  string
	Content string
}

// PeriodChunksPath returns the chunk file of one period partition under dataDir
func PeriodChunksPath(dataDir string, period int) string {
	return filepath.Join(dataDir, fmt.Sprintf("period%d_data", period), fmt.Sprintf("period_%d_chunks.json", period))
}

// ExamInfoChunksPath returns the chunk file of the exam-info partition under dataDir
func ExamInfoChunksPath(dataDir string) string {
	return filepath.Join(dataDir, "exam_info_data", "exam_info_chunks.json")
}
