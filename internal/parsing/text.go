package parsing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"fablecast/internal/services"
)

// minChapterChars filters out fragments too short to be real chapters, such
// as bare headings or blank front matter between markers.
const minChapterChars = 100

var chapterMarker = regexp.MustCompile(`(?i)^(?:#{1,3}\s+.*|(?:chapter|chapitre|part|partie)\s+(?:[0-9]+|[ivxlcdm]+)\b.*)$`)

// TextParser parses plain-text and Markdown source files. Chapters split on
// Markdown headings and on CHAPTER/CHAPITRE marker lines; optional
// "Title:"/"Author:" front-matter lines feed document metadata.
type TextParser struct{}

// NewTextParser returns a parser for plain-text and Markdown sources.
func NewTextParser() *TextParser {
	return &TextParser{}
}

// Parse reads and splits the source file. An unreadable or empty file is a
// validation failure; a file with no recognizable markers becomes a single
// chapter holding the whole text.
func (p *TextParser) Parse(ctx context.Context, sourcePath string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "parse", "read-source", "read source file", err)
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	doc := &Document{}
	lines = p.extractMetadata(doc, lines)
	if doc.Title == "" {
		doc.Title = titleFromFilename(sourcePath)
	}

	doc.Chapters = splitChapters(lines)
	if len(doc.Chapters) == 0 {
		return nil, services.Wrap(services.ErrValidation, "parse", "split-chapters",
			fmt.Sprintf("no usable text in %s", filepath.Base(sourcePath)), nil)
	}
	return doc, nil
}

// extractMetadata consumes leading "Title:" and "Author:" front-matter lines
// and returns the remaining lines.
func (p *TextParser) extractMetadata(doc *Document, lines []string) []string {
	i := 0
	for ; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "title:"):
			doc.Title = strings.TrimSpace(trimmed[len("title:"):])
		case strings.HasPrefix(lower, "author:"):
			doc.Author = strings.TrimSpace(trimmed[len("author:"):])
		default:
			return lines[i:]
		}
	}
	return nil
}

func splitChapters(lines []string) []Chapter {
	type draft struct {
		title string
		body  []string
	}

	var drafts []draft
	current := draft{}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if chapterMarker.MatchString(trimmed) {
			drafts = append(drafts, current)
			current = draft{title: markerTitle(trimmed)}
			continue
		}
		current.body = append(current.body, line)
	}
	drafts = append(drafts, current)

	var chapters []Chapter
	position := 1
	for _, d := range drafts {
		body := strings.TrimSpace(strings.Join(d.body, "\n"))
		if len(body) < minChapterChars {
			continue
		}
		title := d.title
		if title == "" {
			title = fmt.Sprintf("Chapter %d", position)
		}
		chapters = append(chapters, Chapter{Position: position, Title: title, Body: body})
		position++
	}
	return chapters
}

func markerTitle(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "# "))
}

func titleFromFilename(sourcePath string) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "" {
		return "Untitled"
	}
	return base
}
