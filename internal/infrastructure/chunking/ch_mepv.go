package chunking

import (
	"regexp"
	"strings"

	"github.com/leelesemann/medreg-intelligence/internal/core/domain"
)

var (
	mepvArticleHeader = regexp.MustCompile(`(?m)^Art\.\s*(\d+\w?)\s+`)
	mepvChapterLine   = regexp.MustCompile(`(\d+)\.\s*Kapitel[:\s]+(.+)`)
	mepvTitleReject   = regexp.MustCompile(`^\d`)
)

// parseCHMepV handles the Swiss MepV: "Art. N" articles with "N. Kapitel"
// context. Swiss decrees number their paragraphs "1 Text" without
// parentheses, which the oversize splitter knows as its second strategy.
func (c *Chunker) parseCHMepV(text string, pages pageLocator) []domain.Chunk {
	text = stripMepVHeaders(text)

	chapters := findHeadings(text, mepvChapterLine, func(num string) string {
		return "Kapitel " + num
	})

	var out []domain.Chunk
	for _, sec := range findSections(text, mepvArticleHeader) {
		body := strings.TrimSpace(text[sec.bodyStart:sec.end])
		title, bodyText := splitLeadingTitle(body, func(first string) bool {
			return !mepvTitleReject.MatchString(first)
		})

		articleID := "Art. " + sec.id
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
