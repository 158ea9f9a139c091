package rag

import (
	"fmt"
	"strings"

	"study-buddy/internal/models"
)

// FormatContext renders chunks into the text block handed to the language model
func FormatContext(chunks []models.Chunk) string {
	var b strings.Builder
	b.WriteString("Relevant information from " + models.CorpusName + ":\n\n")
	for _, c := range chunks {
		b.WriteString(PartitionLabel(c))
		b.WriteString(":\n")
		b.WriteString(c.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// PartitionLabel names where a chunk comes from, e.g. "From Period 3 (Period 3: Revolution)"
func PartitionLabel(c models.Chunk) string {
	if c.Metadata.IsExamInfo() {
		return "From " + models.ExamInfoSection
	}
	period := c.Metadata.Period
	if period == "" {
		period = "Unknown"
	}
	title := c.Metadata.PeriodTitle
	if title == "" {
		title = "Period " + period
	}
	return fmt.Sprintf("From Period %s (%s)", period, title)
}
