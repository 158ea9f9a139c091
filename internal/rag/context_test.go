package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"study-buddy/internal/models"
)

func TestFormatContext(t *testing.T) {
	chunks := []models.Chunk{
		teaParty,
		examChunk("Section I has 55 multiple choice questions"),
		{Text: "Untitled chunk", Metadata: models.Metadata{Period: "7"}},
		{Text: "Orphan chunk"},
	}

	want := "Relevant information from AP US History CED:\n\n" +
		"From Period 3 (Period 3: Revolution):\nThe Boston Tea Party was a protest\n\n" +
		"From Exam Information:\nSection I has 55 multiple choice questions\n\n" +
		"From Period 7 (Period 7):\nUntitled chunk\n\n" +
		"From Period Unknown (Period Unknown):\nOrphan chunk\n\n"

	assert.Equal(t, want, FormatContext(chunks))
	assert.Equal(t, FormatContext(chunks), FormatContext(chunks))
}

func TestFormatContext_Empty(t *testing.T) {
	assert.Equal(t, "Relevant information from AP US History CED:\n\n", FormatContext(nil))
}
