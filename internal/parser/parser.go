package parser

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"study-buddy/internal/models"
)

var (
	controlCharsRe = regexp.MustCompile(models.ControlCharsRegex)
	gluedWordsRe   = regexp.MustCompile(models.GluedWordsRegex)
	punctSpaceRe   = regexp.MustCompile(models.PunctSpaceRegex)
	spacesRe       = regexp.MustCompile(models.SpacesRegex)
	xmlTagRe       = regexp.MustCompile(models.XMLTagRegex)
)

// ExtractText returns the plain text of a course document, one line per page for PDFs
func ExtractText(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return parsePDF(filePath)
	case ".docx":
		return parseDOCX(filePath)
	case ".xlsx":
		return parseXLSX(filePath)
	case ".md", ".markdown":
		return parseMarkdown(filePath)
	case ".txt":
		return parseText(filePath)
	default:
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}
}

func parsePDF(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(CleanText(pageText))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func parseDOCX(filePath string) (string, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	// content is the raw document XML, paragraphs end with </w:p>
	content := r.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = html.UnescapeString(xmlTagRe.ReplaceAllString(content, ""))

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func parseXLSX(filePath string) (string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		b.WriteString(fmt.Sprintf("Sheet %s:\n", sheetName))
		for _, row := range rows {
			b.WriteString(strings.Join(row, " "))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func parseMarkdown(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return markdownToText(data)
}

func parseText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// markdownToText drops markdown syntax and keeps one line per block
func markdownToText(source []byte) (string, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteString(" ")
				}
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(source))
				}
				return ast.WalkSkipChildren, nil
			}
		default:
			if !entering && n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
				b.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

// CleanText repairs common PDF extraction damage: stray control bytes, words glued
// together across line breaks and missing spaces after punctuation.
func CleanText(s string) string {
	s = controlCharsRe.ReplaceAllString(s, "")
	s = gluedWordsRe.ReplaceAllString(s, "$1 $2")
	s = punctSpaceRe.ReplaceAllString(s, "$1 $2")
	s = spacesRe.ReplaceAllString(s, " ")
	return s
}
