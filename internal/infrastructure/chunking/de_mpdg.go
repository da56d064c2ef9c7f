package chunking

import (
	"regexp"
	"strings"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

var (
	mpdgParagraphHeader = regexp.MustCompile(`(?m)^§\s*(\d+\w?)\s+`)
	mpdgChapterLine     = regexp.MustCompile(`Kapitel\s+(\d+)\s*\n(.+)`)
	mpdgTitleReject     = regexp.MustCompile(`^[(\d]`)
)

// parseDEMPDG handles the German MPDG: "§ N" paragraphs with "Kapitel N"
// context, recurring ministry headers stripped up front.
func (c *Chunker) parseDEMPDG(text string, pages pageLocator) []domain.Chunk {
	text = stripMPDGHeaders(text)

	chapters := findHeadings(text, mpdgChapterLine, func(num string) string {
		return "Kapitel " + num
	})

	var out []domain.Chunk
	for _, sec := range findSections(text, mpdgParagraphHeader) {
		body := strings.TrimSpace(text[sec.bodyStart:sec.end])
		title, bodyText := splitLeadingTitle(body, func(first string) bool {
			return !mpdgTitleReject.MatchString(first)
		})

		articleID := "§ " + sec.id
		header := articleID
		full := articleID + "\n" + bodyText
		if title != "" {
			header = articleID + " " + title
			full = header + "\n" + bodyText
		}

		chapter, chapterTitle := headingBefore(chapters, sec.start)
		ref := domain.StructuralRef{
			ArticleID:    articleID,
			ArticleTitle: title,
			Chapter:      chapter,
			ChapterTitle: chapterTitle,
			Page:         pages.pageAt(sec.start),
			Kind:         domain.ChunkArticle,
		}
		out = append(out, c.emit(full, header, ref)...)
	}
	return out
}
