package parser

import (
	"regexp"
	"strings"

	"study-buddy/internal/models"
)

var (
	subsectionRe  = regexp.MustCompile(models.SubsectionRegex)
	sentenceEndRe = regexp.MustCompile(models.SentenceEndRegex)
)

// SplitIntoChunks breaks text into subsections at lines that open with a "Heading Words:"
// label. Subsections up to chunkSize bytes are kept whole, longer ones are packed sentence
// by sentence, carrying the last overlapSentences sentences into the next chunk.
func SplitIntoChunks(text string, chunkSize, overlapSentences int) []string {
	var chunks []string
	for _, subsection := range splitSubsections(text) {
		subsection = strings.TrimSpace(subsection)
		if subsection == "" {
			continue
		}
		if len(subsection) <= chunkSize {
			chunks = append(chunks, subsection)
			continue
		}
		chunks = append(chunks, packSentences(splitSentences(subsection), chunkSize, overlapSentences)...)
	}
	return chunks
}

func packSentences(sentences []string, chunkSize, overlapSentences int) []string {
	var chunks, current []string
	size := 0
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if size+len(sentence) > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = tail(current, overlapSentences)
			size = 0
			for _, s := range current {
				size += len(s) + 1
			}
		}
		current = append(current, sentence)
		size += len(sentence) + 1
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// tail returns a fresh copy of the last n elements of s
func tail(s []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(s) {
		n = len(s)
	}
	return append([]string(nil), s[len(s)-n:]...)
}

// splitSubsections cuts text before every line that starts a labelled subsection.
// Each newline is checked on its own so one label match never hides the next.
func splitSubsections(text string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' || i == start {
			continue
		}
		if subsectionRe.MatchString(text[i+1:]) {
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}

// splitSentences splits after ., ! or ? followed by whitespace
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		// keep the punctuation mark, drop the whitespace
		sentences = append(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}
